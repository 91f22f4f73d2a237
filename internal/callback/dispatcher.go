// Package callback delivers the one-shot final report for a session to the
// external receiver. Delivery is best-effort and at-most-once: failures are
// logged, never retried.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/scamnet-io/decoy/internal/intel"
)

// DefaultAgentNotes is the free-text summary attached to every report.
const DefaultAgentNotes = "Decoy agent engaged the sender in character and extracted the listed indicators from message text."

// Report is the final structured summary for one session.
type Report struct {
	ReportID               string             `json:"reportId"`
	SessionID              string             `json:"sessionId"`
	ScamDetected           bool               `json:"scamDetected"`
	TotalMessagesExchanged int                `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.Intelligence `json:"extractedIntelligence"`
	AgentNotes             string             `json:"agentNotes"`
	DispatchedAt           time.Time          `json:"dispatchedAt"`
}

// NewReport assembles a report from a session's accumulated state.
func NewReport(sessionID string, totalTurns int, acc intel.Intelligence) Report {
	return Report{
		ReportID:               uuid.New().String(),
		SessionID:              sessionID,
		ScamDetected:           true,
		TotalMessagesExchanged: totalTurns,
		ExtractedIntelligence:  acc,
		AgentNotes:             DefaultAgentNotes,
		DispatchedAt:           time.Now().UTC(),
	}
}

// Archiver persists dispatched reports. Optional.
type Archiver interface {
	WriteReport(ctx context.Context, r Report) error
}

// Publisher announces dispatched reports on the event bus. Optional.
type Publisher interface {
	Publish(subject string, data any) error
}

// SubjectReportDispatched is the bus subject for dispatched reports.
const SubjectReportDispatched = "honeypot.report.dispatched"

// Dispatcher posts reports to the configured receiver.
type Dispatcher struct {
	url     string
	apiKey  string
	client  *http.Client
	archive Archiver
	bus     Publisher
	logger  *slog.Logger
}

// New builds a dispatcher. archive and bus may be nil; the report POST itself
// is the only required leg.
func New(url, apiKey string, timeout time.Duration, archive Archiver, bus Publisher, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		url:     url,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		archive: archive,
		bus:     bus,
		logger:  logger,
	}
}

// Dispatch attempts a single delivery of the report. The error return is for
// the caller's logs only; nothing retries on failure. Whatever the delivery
// outcome, the report is best-effort archived and announced so operators keep
// a record even when the receiver is down.
func (d *Dispatcher) Dispatch(ctx context.Context, r Report) error {
	err := d.post(ctx, r)
	if err != nil {
		d.logger.Error("report delivery failed", "session_id", r.SessionID, "report_id", r.ReportID, "error", err)
	} else {
		d.logger.Info("report delivered", "session_id", r.SessionID, "report_id", r.ReportID,
			"turns", r.TotalMessagesExchanged, "indicators", r.ExtractedIntelligence.Total())
	}

	if d.archive != nil {
		if aerr := d.archive.WriteReport(ctx, r); aerr != nil {
			d.logger.Warn("report archive write failed", "report_id", r.ReportID, "error", aerr)
		}
	}
	if d.bus != nil {
		if perr := d.bus.Publish(SubjectReportDispatched, r); perr != nil {
			d.logger.Warn("report event publish failed", "report_id", r.ReportID, "error", perr)
		}
	}
	return err
}

func (d *Dispatcher) post(ctx context.Context, r Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("x-api-key", d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("receiver returned status %d", resp.StatusCode)
	}
	return nil
}
