package store

import (
	"context"
	"fmt"
	"time"
)

// LLMEvent records one request to a model endpoint.
type LLMEvent struct {
	ID           int
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventRecorder is the sink the LLM logging middleware writes to.
type EventRecorder interface {
	AppendLLMEvent(ctx context.Context, e LLMEvent) error
}

// AppendLLMEvent persists one LLM request event.
func (s *Store) AppendLLMEvent(ctx context.Context, e LLMEvent) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO llm_events (ts, provider, model, purpose, input_tokens, output_tokens,
		                         latency_ms, success, error_message, request_body, response_body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC(), e.Provider, e.Model, e.Purpose, e.InputTokens, e.OutputTokens,
		e.LatencyMs, e.Success, e.ErrorMessage, e.RequestBody, e.ResponseBody)
	if err != nil {
		return fmt.Errorf("insert llm event: %w", err)
	}
	return nil
}

// QueryLLMEvents returns the most recent LLM events, newest first.
func (s *Store) QueryLLMEvents(ctx context.Context, limit int) ([]LLMEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, provider, model, purpose, input_tokens, output_tokens,
		        latency_ms, success, error_message, request_body, response_body
		 FROM llm_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		var e LLMEvent
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
			&e.ErrorMessage, &e.RequestBody, &e.ResponseBody); err != nil {
			return nil, fmt.Errorf("scan llm event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
