package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgetopconsult/edge-site/internal/apiclient"
	"github.com/edgetopconsult/edge-site/internal/comments"
	"github.com/edgetopconsult/edge-site/internal/config"
	"github.com/edgetopconsult/edge-site/internal/session"
	"github.com/edgetopconsult/edge-site/internal/site"
)

func main() {
	cfg := config.LoadSite()
	ctx := context.Background()

	var store session.Store
	if cfg.RedisURL != "" {
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connect failed: %v", err)
		}
		defer client.Close()
		store = session.NewRedisStore(client)
	} else {
		log.Println("REDIS_URL not set; sessions are kept in memory")
		store = session.NewMemoryStore()
	}
	sessions := session.NewManager(store, cfg.SessionTTL, cfg.CookieSecure)

	srv, err := site.New(apiclient.New(cfg.APIBaseURL, cfg.APITimeout), sessions, site.Options{
		PublicURL:        cfg.PublicURL,
		ListingTTL:       cfg.ListingTTL,
		PollInterval:     cfg.CommentPollInterval,
		CommentPolicy:    comments.Policy{RequireAuthor: cfg.CommentRequireAuthor},
		CommentRateLimit: cfg.CommentRateLimit,
	})
	if err != nil {
		log.Fatalf("site setup failed: %v", err)
	}

	httpSrv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     srv.Router(),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: live comment sockets stay open for the life of a page.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("site listening on :%s (content api %s)", cfg.Port, cfg.APIBaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
