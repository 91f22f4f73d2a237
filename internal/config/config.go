package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            int
	LogLevel        string
	CallbackURL     string
	CallbackAPIKey  string
	CallbackTimeout time.Duration
	DatabaseURL     string
	NatsURL         string
	NatsToken       string
	APIToken        string

	// Engagement arc.
	PhaseProbingAt    int
	PhaseExtractionAt int
	PhaseFinalAt      int

	// Dispatch policy.
	CallbackMinTurns      int
	CallbackMinIndicators int
	CallbackForceTurns    int

	// Response selection.
	StallProbability float64
	StallMinTurns    int

	// Session retention.
	SessionTTL   time.Duration
	HistoryLimit int

	SuspiciousKeywords []string
}

func Load() Config {
	return Config{
		Port:            envInt("DECOY_PORT", 8780),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		CallbackURL:     envStr("CALLBACK_URL", ""),
		CallbackAPIKey:  envStr("CALLBACK_API_KEY", ""),
		CallbackTimeout: time.Duration(envInt("CALLBACK_TIMEOUT_SECONDS", 5)) * time.Second,
		DatabaseURL:     envStr("DATABASE_URL", ""),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		APIToken:        envStr("API_TOKEN", ""),

		PhaseProbingAt:    envInt("PHASE_PROBING_AT", 10),
		PhaseExtractionAt: envInt("PHASE_EXTRACTION_AT", 25),
		PhaseFinalAt:      envInt("PHASE_FINAL_AT", 35),

		CallbackMinTurns:      envInt("CALLBACK_MIN_TURNS", 5),
		CallbackMinIndicators: envInt("CALLBACK_MIN_INDICATORS", 3),
		CallbackForceTurns:    envInt("CALLBACK_FORCE_TURNS", 35),

		StallProbability: envFloat("STALL_PROBABILITY", 0.15),
		StallMinTurns:    envInt("STALL_MIN_TURNS", 3),

		SessionTTL:   time.Duration(envInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		HistoryLimit: envInt("HISTORY_LIMIT", 2000),

		SuspiciousKeywords: envList("SUSPICIOUS_KEYWORDS", nil),
	}
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	if c.CallbackURL == "" {
		return fmt.Errorf("CALLBACK_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("DECOY_PORT out of range: %d", c.Port)
	}
	if !(c.PhaseProbingAt < c.PhaseExtractionAt && c.PhaseExtractionAt < c.PhaseFinalAt) {
		return fmt.Errorf("phase thresholds must be strictly increasing: %d/%d/%d",
			c.PhaseProbingAt, c.PhaseExtractionAt, c.PhaseFinalAt)
	}
	if c.StallProbability < 0 || c.StallProbability > 1 {
		return fmt.Errorf("STALL_PROBABILITY must be in [0,1]: %g", c.StallProbability)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
