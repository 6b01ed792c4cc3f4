package store

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// WriteEvent captures one persistence call made by the store.
type WriteEvent struct {
	Entity   string // "task", "phase" or "category"
	Op       string // "insert", "update", "delete" or "refetch"
	ID       int64
	Duration time.Duration
	Success  bool
	Err      error
}

// Observer receives persistence events.
type Observer interface {
	ObserveWrite(ctx context.Context, event WriteEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveWrite(context.Context, WriteEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes persistence events to w at level and above.
// Failures are always logged at ERROR.
func NewLogObserver(w io.Writer, level slog.Level) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

func (o *logObserver) ObserveWrite(ctx context.Context, event WriteEvent) {
	attrs := []any{
		"entity", event.Entity,
		"op", event.Op,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	}
	if event.ID != 0 {
		attrs = append(attrs, "id", event.ID)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "store_write", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "store_write", attrs...)
}
