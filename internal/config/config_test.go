package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DECOY_PORT", "LOG_LEVEL", "CALLBACK_URL", "CALLBACK_API_KEY",
		"CALLBACK_TIMEOUT_SECONDS", "DATABASE_URL", "NATS_URL", "NATS_TOKEN",
		"API_TOKEN", "PHASE_PROBING_AT", "PHASE_EXTRACTION_AT", "PHASE_FINAL_AT",
		"CALLBACK_MIN_TURNS", "CALLBACK_MIN_INDICATORS", "CALLBACK_FORCE_TURNS",
		"STALL_PROBABILITY", "STALL_MIN_TURNS", "SESSION_TTL_MINUTES",
		"HISTORY_LIMIT", "SUSPICIOUS_KEYWORDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != 8780 {
		t.Errorf("expected default port 8780, got %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.CallbackTimeout != 5*time.Second {
		t.Errorf("expected 5s callback timeout, got %v", cfg.CallbackTimeout)
	}
	if cfg.PhaseProbingAt != 10 || cfg.PhaseExtractionAt != 25 || cfg.PhaseFinalAt != 35 {
		t.Errorf("expected 10/25/35 thresholds, got %d/%d/%d",
			cfg.PhaseProbingAt, cfg.PhaseExtractionAt, cfg.PhaseFinalAt)
	}
	if cfg.CallbackMinTurns != 5 || cfg.CallbackMinIndicators != 3 || cfg.CallbackForceTurns != 35 {
		t.Errorf("unexpected dispatch policy defaults: %d/%d/%d",
			cfg.CallbackMinTurns, cfg.CallbackMinIndicators, cfg.CallbackForceTurns)
	}
	if cfg.StallProbability != 0.15 || cfg.StallMinTurns != 3 {
		t.Errorf("unexpected stall defaults: %g/%d", cfg.StallProbability, cfg.StallMinTurns)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session ttl, got %v", cfg.SessionTTL)
	}
	if cfg.HistoryLimit != 2000 {
		t.Errorf("expected history limit 2000, got %d", cfg.HistoryLimit)
	}
	if cfg.SuspiciousKeywords != nil {
		t.Errorf("expected nil keyword override by default, got %v", cfg.SuspiciousKeywords)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DECOY_PORT", "9100")
	t.Setenv("CALLBACK_URL", "https://receiver.example/report")
	t.Setenv("CALLBACK_API_KEY", "k-123")
	t.Setenv("CALLBACK_TIMEOUT_SECONDS", "9")
	t.Setenv("PHASE_PROBING_AT", "30")
	t.Setenv("PHASE_EXTRACTION_AT", "35")
	t.Setenv("PHASE_FINAL_AT", "40")
	t.Setenv("STALL_PROBABILITY", "0.5")
	t.Setenv("SUSPICIOUS_KEYWORDS", "urgent, verify ,blocked,")

	cfg := Load()

	if cfg.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Port)
	}
	if cfg.CallbackURL != "https://receiver.example/report" || cfg.CallbackAPIKey != "k-123" {
		t.Errorf("callback config not loaded: %q %q", cfg.CallbackURL, cfg.CallbackAPIKey)
	}
	if cfg.CallbackTimeout != 9*time.Second {
		t.Errorf("expected 9s timeout, got %v", cfg.CallbackTimeout)
	}
	if cfg.PhaseProbingAt != 30 || cfg.PhaseExtractionAt != 35 || cfg.PhaseFinalAt != 40 {
		t.Errorf("thresholds not loaded: %d/%d/%d",
			cfg.PhaseProbingAt, cfg.PhaseExtractionAt, cfg.PhaseFinalAt)
	}
	if cfg.StallProbability != 0.5 {
		t.Errorf("expected stall probability 0.5, got %g", cfg.StallProbability)
	}
	want := []string{"urgent", "verify", "blocked"}
	if len(cfg.SuspiciousKeywords) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.SuspiciousKeywords)
	}
	for i, k := range want {
		if cfg.SuspiciousKeywords[i] != k {
			t.Errorf("keyword %d: expected %q, got %q", i, k, cfg.SuspiciousKeywords[i])
		}
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"missing callback url", func(c *Config) { c.CallbackURL = "" }, true},
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Port = -1 }, true},
		{"non-increasing thresholds", func(c *Config) { c.PhaseExtractionAt = c.PhaseProbingAt }, true},
		{"stall probability above one", func(c *Config) { c.StallProbability = 1.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			cfg.CallbackURL = "https://receiver.example/report"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
