package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgetopconsult/edge-site/internal/auth"
	"github.com/edgetopconsult/edge-site/internal/comments"
	"github.com/edgetopconsult/edge-site/internal/config"
	"github.com/edgetopconsult/edge-site/internal/db"
	"github.com/edgetopconsult/edge-site/internal/handlers"
	"github.com/edgetopconsult/edge-site/internal/mailer"
)

func main() {
	cfg := config.LoadAPI()

	ctx := context.Background()
	store, err := db.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer store.Close()

	// Create tables if not exist
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	opts := handlers.Options{
		UploadDir:     cfg.UploadDir,
		UploadURL:     cfg.UploadURL,
		DefaultRole:   cfg.DefaultRole,
		CommentPolicy: comments.Policy{RequireAuthor: cfg.CommentRequireAuthor},
	}
	if cfg.SMTP.Enabled() {
		opts.Mailer = mailer.New(cfg.SMTP)
	} else {
		log.Println("SMTP not configured; newsletter confirmations are disabled")
	}
	h := handlers.New(store, auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), opts)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h.Router(cfg.CorsAllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("content api listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
