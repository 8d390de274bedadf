package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3000 || cfg.Session.TTL != 30*time.Minute || cfg.Events.Backend != EventsNone {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Owner.Username != "canteen_admin" || cfg.RabbitMQ.Exchange != "canteen_notifications" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got := cfg.Database.DSN(); got != "postgres://canteen:@localhost:5432/canteen?sslmode=disable" {
		t.Fatalf("DSN = %q", got)
	}
}

func TestLoadFromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	if err := os.WriteFile(file, []byte("HTTP_PORT=8081\nKAFKA_BROKERS=k1:9092,k2:9092\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("KAFKA_BROKERS")
	})
	t.Setenv("EVENTS_BACKEND", "Kafka")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("PICKUP_TIMEZONE", "Asia/Kolkata")

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8081 || len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Events.Backend != EventsKafka || cfg.Session.TTL != 45*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Kolkata" {
		t.Fatalf("Location = %v, %v", loc, err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Owner:          OwnerConfig{Username: "canteen_admin", Password: "admin123"},
			Session:        SessionConfig{Secret: "s", TTL: time.Minute},
			Events:         EventsConfig{Backend: "none"},
			PickupTimezone: "Local",
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Events.Backend = "nats" }},
		{"owner", func(c *Config) { c.Owner.Password = "" }},
		{"secret", func(c *Config) { c.Session.Secret = "" }},
		{"ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"zone", func(c *Config) { c.PickupTimezone = "Mars/Olympus" }},
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for _, tc := range tests {
		c := base()
		tc.mutate(c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
