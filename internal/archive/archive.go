// Package archive keeps a durable record of dispatched reports in Postgres.
// Sessions themselves are process-local and never persisted; only the final
// reports land here, so operators can audit what was sent even when the
// receiver loses it.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scamnet-io/decoy/internal/callback"
	"github.com/scamnet-io/decoy/internal/intel"
)

const schema = `
CREATE TABLE IF NOT EXISTS honeypot_reports (
	id            uuid PRIMARY KEY,
	session_id    text NOT NULL,
	scam_detected boolean NOT NULL,
	total_turns   integer NOT NULL,
	intelligence  jsonb NOT NULL,
	agent_notes   text NOT NULL DEFAULT '',
	dispatched_at timestamptz NOT NULL
)`

type Archive struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects to Postgres and ensures the reports table exists.
func New(ctx context.Context, databaseURL string, logger *slog.Logger) (*Archive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Archive{pool: pool, logger: logger}, nil
}

func (a *Archive) Close() {
	a.pool.Close()
}

// WriteReport inserts one dispatched report.
func (a *Archive) WriteReport(ctx context.Context, r callback.Report) error {
	intelJSON, err := json.Marshal(r.ExtractedIntelligence)
	if err != nil {
		return fmt.Errorf("marshal intelligence: %w", err)
	}

	_, err = a.pool.Exec(ctx, `
		INSERT INTO honeypot_reports (id, session_id, scam_detected, total_turns, intelligence, agent_notes, dispatched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ReportID, r.SessionID, r.ScamDetected, r.TotalMessagesExchanged, intelJSON, r.AgentNotes, r.DispatchedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// RecentReports returns the most recently dispatched reports, newest first.
func (a *Archive) RecentReports(ctx context.Context, limit int) ([]callback.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.pool.Query(ctx, `
		SELECT id, session_id, scam_detected, total_turns, intelligence, agent_notes, dispatched_at
		FROM honeypot_reports
		ORDER BY dispatched_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []callback.Report
	for rows.Next() {
		var r callback.Report
		var intelJSON []byte
		if err := rows.Scan(&r.ReportID, &r.SessionID, &r.ScamDetected,
			&r.TotalMessagesExchanged, &intelJSON, &r.AgentNotes, &r.DispatchedAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		r.ExtractedIntelligence = intel.New()
		if err := json.Unmarshal(intelJSON, &r.ExtractedIntelligence); err != nil {
			return nil, fmt.Errorf("parse intelligence for %s: %w", r.ReportID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
