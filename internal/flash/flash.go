// Package flash carries one-shot notifications across a redirect.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "edge_flash"

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Set stores a notification to be shown on the next page render.
func Set(w http.ResponseWriter, kind Kind, text string) {
	b, err := json.Marshal(Message{Kind: kind, Text: text})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notification, if any, and clears it.
func Pop(w http.ResponseWriter, r *http.Request) *Message {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Path: "/", MaxAge: -1})

	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var m Message
	if err := json.Unmarshal(b, &m); err != nil || m.Text == "" {
		return nil
	}
	return &m
}
