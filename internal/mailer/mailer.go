// Package mailer sends the newsletter confirmation email.
package mailer

import (
	"bytes"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/edgetopconsult/edge-site/internal/config"
)

const subscriptionSubject = "You're subscribed to Edge Top Consult updates"

var subscriptionBody = template.Must(template.New("subscription").Parse(`
<h1>Welcome to Edge Top Consult!</h1>
<p>You will now hear about new scholarship opportunities, job openings and educational resources.</p>
<p>This confirmation was sent to {{.}}.</p>
`))

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from   string
	dialer sender
}

func New(cfg config.SMTP) *Mailer {
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *Mailer) SendSubscription(to string) error {
	msg, err := subscriptionMessage(m.from, to)
	if err != nil {
		return err
	}
	return m.dialer.DialAndSend(msg)
}

func subscriptionMessage(from, to string) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := subscriptionBody.Execute(&body, to); err != nil {
		return nil, err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subscriptionSubject)
	msg.SetBody("text/html", body.String())
	return msg, nil
}
