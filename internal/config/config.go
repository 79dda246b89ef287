package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Site configures the public web site.
type Site struct {
	Port                 string
	APIBaseURL           string
	PublicURL            string
	RedisURL             string
	SessionTTL           time.Duration
	CookieSecure         bool
	APITimeout           time.Duration
	CommentPollInterval  time.Duration
	CommentRequireAuthor bool
	CommentRateLimit     int
	ListingTTL           time.Duration
}

// API configures the reference content API.
type API struct {
	Port                 string
	DatabaseURL          string
	JWTSecret            string
	TokenTTL             time.Duration
	CorsAllowedOrigins   []string
	UploadDir            string
	UploadURL            string
	DefaultRole          string
	CommentRequireAuthor bool
	SMTP                 SMTP
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether enough settings are present to send mail.
func (s SMTP) Enabled() bool {
	return s.Host != "" && s.From != ""
}

func LoadSite() Site {
	_ = godotenv.Load()
	cfg, err := parseSite()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func LoadAPI() API {
	_ = godotenv.Load()
	cfg, err := parseAPI()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func parseSite() (Site, error) {
	var errs []error
	port := getEnv("PORT", "8080")
	cfg := Site{
		Port:                 port,
		APIBaseURL:           strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		PublicURL:            strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:"+port), "/"),
		RedisURL:             getEnv("REDIS_URL", ""),
		SessionTTL:           getDuration("SESSION_TTL", 24*time.Hour, &errs),
		CookieSecure:         getBool("COOKIE_SECURE", false, &errs),
		APITimeout:           getDuration("API_TIMEOUT", 15*time.Second, &errs),
		CommentPollInterval:  getDuration("COMMENT_POLL_INTERVAL", 5*time.Second, &errs),
		CommentRequireAuthor: getBool("COMMENT_REQUIRE_AUTHOR", true, &errs),
		CommentRateLimit:     getInt("COMMENT_RATE_LIMIT", 10, &errs),
		ListingTTL:           getDuration("LISTING_TTL", 30*time.Second, &errs),
	}
	if cfg.APIBaseURL == "" {
		errs = append(errs, errors.New("API_BASE_URL is required"))
	}
	if cfg.CommentPollInterval <= 0 {
		errs = append(errs, errors.New("COMMENT_POLL_INTERVAL must be positive"))
	}
	return cfg, errors.Join(errs...)
}

func parseAPI() (API, error) {
	var errs []error
	cfg := API{
		Port:                 getEnv("PORT", "8081"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		TokenTTL:             getDuration("TOKEN_TTL", 24*time.Hour, &errs),
		CorsAllowedOrigins:   splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		UploadDir:            getEnv("UPLOAD_DIR", "./uploads"),
		UploadURL:            strings.TrimRight(getEnv("UPLOAD_URL", "/uploads"), "/"),
		DefaultRole:          getEnv("DEFAULT_ROLE", "user"),
		CommentRequireAuthor: getBool("COMMENT_REQUIRE_AUTHOR", true, &errs),
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getInt("SMTP_PORT", 587, &errs),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}
	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	return cfg, errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getBool(key string, fallback bool, errs *[]error) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
