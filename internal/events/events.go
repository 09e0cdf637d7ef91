// Package events publishes compile lifecycle events for anyone watching the
// notebook backend. Events carry metadata only, never source or output.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const TypeCompileCompleted = "compile.completed"

type CompileEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	ProjectID     string    `json:"project_id"`
	Tag           string    `json:"tag"`
	DurationMS    int64     `json:"duration_ms"`
	FragmentBytes int       `json:"fragment_bytes"`
	Truncated     bool      `json:"truncated,omitempty"`
}

func NewCompileEvent(projectID, tag string, fragmentBytes int, d time.Duration, truncated bool) CompileEvent {
	return CompileEvent{
		EventID:       uuid.New().String(),
		Type:          TypeCompileCompleted,
		Timestamp:     time.Now().UTC(),
		ProjectID:     projectID,
		Tag:           tag,
		DurationMS:    d.Milliseconds(),
		FragmentBytes: fragmentBytes,
		Truncated:     truncated,
	}
}

func (e CompileEvent) Valid() bool {
	return e.EventID != "" && e.Type != "" && e.ProjectID != "" && !e.Timestamp.IsZero()
}

type Publisher interface {
	Publish(ctx context.Context, evt CompileEvent) error
	Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, CompileEvent) error { return nil }
func (Nop) Close()                                      {}
