package photoblog

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds all configuration for a photoblog site.
type Config struct {
	SiteName        string // Site name (default "Blog")
	SiteURL         string // Canonical URL (default "http://localhost:3000")
	SiteDescription string // Site description for RSS and meta tags
	SiteAuthor      string // Author display name

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/blog.db")
	UploadDir    string // Directory for stored images (default "data/uploads")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	AdminEmail string // Required: the one identity allowed to manage posts

	GoogleClientID     string // Google OAuth client id
	GoogleClientSecret string // Google OAuth client secret

	FeedCacheTTL time.Duration // Public feed cache TTL (default 5min)
}

func (c *Config) setDefaults() {
	if c.SiteName == "" {
		c.SiteName = "Blog"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.UploadDir == "" {
		c.UploadDir = "data/uploads"
	}
	if c.FeedCacheTTL == 0 {
		c.FeedCacheTTL = 5 * time.Minute
	}
}

// ConfigFromEnv builds a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		SiteName:           EnvOr("SITE_NAME", ""),
		SiteURL:            strings.TrimSuffix(EnvOr("SITE_URL", ""), "/"),
		SiteDescription:    EnvOr("SITE_DESCRIPTION", ""),
		SiteAuthor:         EnvOr("SITE_AUTHOR", ""),
		Addr:               EnvOr("ADDR", ""),
		DatabasePath:       EnvOr("DATABASE_PATH", ""),
		UploadDir:          EnvOr("UPLOAD_DIR", ""),
		SessionSecret:      MustEnv("SESSION_SECRET"),
		CookieSecure:       strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		AdminEmail:         MustEnv("ADMIN_EMAIL"),
		GoogleClientID:     EnvOr("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: EnvOr("GOOGLE_CLIENT_SECRET", ""),
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("photoblog: required environment variable %s is not set", key)
	}
	return v
}
