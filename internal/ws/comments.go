// Package ws streams a post's comment list to an open detail view.
package ws

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edgetopconsult/edge-site/internal/comments"
	"github.com/edgetopconsult/edge-site/internal/models"
	"github.com/edgetopconsult/edge-site/internal/render"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

type CommentView struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

type Update struct {
	Count    int           `json:"count"`
	Comments []CommentView `json:"comments"`
}

func NewUpdate(list []models.Comment) Update {
	u := Update{Count: len(list), Comments: make([]CommentView, 0, len(list))}
	for _, c := range list {
		v := CommentView{ID: c.ID, Author: c.DisplayName(), Content: c.Content}
		if !c.CreatedAt.IsZero() {
			v.Date = c.CreatedAt.Format(render.DateLayout)
		}
		u.Comments = append(u.Comments, v)
	}
	return u
}

// ServeComments upgrades the request and pushes the comment list of postID
// whenever it changes. The view's poller lives exactly as long as the socket.
func ServeComments(hub *comments.Hub, src comments.Source, interval time.Duration, postID string, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws: upgrade:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	p := comments.NewPoller(src, postID, interval)
	hub.Register(p)
	defer hub.Unregister(p)

	go readLoop(conn, cancel)
	go pingLoop(ctx, conn, cancel)

	p.Run(ctx, func(list []models.Comment) {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(NewUpdate(list)); err != nil {
			log.Println("ws: write error:", err)
			cancel()
		}
	})
}

// readLoop discards client messages and cancels the view once the socket
// closes.
func readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func pingLoop(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				cancel()
				return
			}
		}
	}
}
