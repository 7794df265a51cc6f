package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PASSGATE_ADDR", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.Addr)
	}
	if cfg.DBPath != "passgate.db" {
		t.Fatalf("expected default db path, got %s", cfg.DBPath)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected default bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.CORSOrigin != "*" {
		t.Fatalf("expected default cors origin *, got %s", cfg.CORSOrigin)
	}
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("PASSGATE_ADDR", "")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("expected :9000 from PORT, got %s", cfg.Addr)
	}
}

func TestLoadExplicitAddrWins(t *testing.T) {
	t.Setenv("PASSGATE_ADDR", ":7000")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("expected PASSGATE_ADDR to win, got %s", cfg.Addr)
	}
}
