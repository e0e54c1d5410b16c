package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the subject sync summaries are published to when the
// caller does not override it.
const DefaultSubject = "metricsync.sync"

// SyncSummary is the payload published after each sync run.
type SyncSummary struct {
	RunID      string    `json:"run_id,omitempty"`
	Source     string    `json:"source"`
	Discovered int       `json:"discovered"`
	Added      int       `json:"added"`
	Warnings   int       `json:"warnings"`
	DurationMS int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// Publisher publishes sync summaries over NATS.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect establishes the NATS connection. An empty subject selects
// DefaultSubject.
func Connect(url, subject string) (*Publisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	conn, err := nats.Connect(url, nats.Name("metricsync"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized", "url", url, "subject", subject)
	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends one sync summary. The message is flushed before returning so
// short-lived CLI invocations do not lose it on exit.
func (p *Publisher) Publish(summary SyncSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal sync summary: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish sync summary: %w", err)
	}
	return p.conn.Flush()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
