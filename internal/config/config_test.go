package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "host=localhost user=catalog dbname=catalog")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "5000" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.Google.IssuerURL != "https://accounts.google.com" {
		t.Fatalf("unexpected issuer: %s", cfg.Google.IssuerURL)
	}
	if cfg.Session.TTL != 10080*time.Minute {
		t.Fatalf("unexpected session ttl: %v", cfg.Session.TTL)
	}
}
