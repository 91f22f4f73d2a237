package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/scamnet-io/decoy/internal/api"
	"github.com/scamnet-io/decoy/internal/archive"
	"github.com/scamnet-io/decoy/internal/bus"
	"github.com/scamnet-io/decoy/internal/callback"
	"github.com/scamnet-io/decoy/internal/config"
	"github.com/scamnet-io/decoy/internal/engine"
	"github.com/scamnet-io/decoy/internal/intel"
	"github.com/scamnet-io/decoy/internal/pools"
	"github.com/scamnet-io/decoy/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("decoy starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Report archive (optional — decoy works without Postgres, just no audit trail)
	var arc *archive.Archive
	if cfg.DatabaseURL != "" {
		var err error
		arc, err = archive.New(ctx, cfg.DatabaseURL, slog.Default())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer arc.Close()
		slog.Info("report archive connected")
	} else {
		slog.Warn("DATABASE_URL not set — dispatched reports will not be archived")
	}

	// Event bus (optional)
	var events *bus.Client
	if cfg.NatsURL != "" {
		var err error
		events, err = bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	// Dispatcher — nil interfaces stay nil unless the collaborator exists.
	var arcIface callback.Archiver
	if arc != nil {
		arcIface = arc
	}
	var busIface callback.Publisher
	if events != nil {
		busIface = events
	}
	dispatcher := callback.New(cfg.CallbackURL, cfg.CallbackAPIKey, cfg.CallbackTimeout, arcIface, busIface, slog.Default())

	// Session store with idle eviction.
	store := session.NewStore(
		session.Thresholds{
			ProbingAt:    cfg.PhaseProbingAt,
			ExtractionAt: cfg.PhaseExtractionAt,
			FinalAt:      cfg.PhaseFinalAt,
		},
		session.DispatchPolicy{
			MinTurns:      cfg.CallbackMinTurns,
			MinIndicators: cfg.CallbackMinIndicators,
			ForceTurns:    cfg.CallbackForceTurns,
		},
		cfg.HistoryLimit,
		slog.Default(),
	)
	store.StartJanitor(ctx, cfg.SessionTTL, time.Minute)

	eng := engine.New(
		store,
		intel.NewExtractor(cfg.SuspiciousKeywords),
		pools.Default(),
		dispatcher,
		busIface,
		engine.Options{
			StallProbability: cfg.StallProbability,
			StallMinTurns:    cfg.StallMinTurns,
		},
		slog.Default(),
	)

	srv := api.NewServer(cfg.Port, cfg.APIToken, eng, store, arc, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	if events != nil {
		if err := events.Publish(bus.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("decoy ready", "port", cfg.Port, "sessions_ttl", cfg.SessionTTL)

	// Graceful shutdown: stop the janitor, then drain in-flight turns.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Error("shutdown did not complete cleanly", "error", err)
	}
	slog.Info("decoy stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
