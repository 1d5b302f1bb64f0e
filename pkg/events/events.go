// Package events delivers claim events to logs, metrics and Kafka.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/chainsafe/claims-registry/internal/metrics"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

// Emitter receives claim events. It matches registry.Emitter.
type Emitter interface {
	Emit(ctx context.Context, ev claim.Event)
}

// Multi fans every event out to all emitters in order.
type Multi []Emitter

// Emit implements Emitter.
func (m Multi) Emit(ctx context.Context, ev claim.Event) {
	for _, e := range m {
		e.Emit(ctx, ev)
	}
}

// LogEmitter writes claim events to a zap logger.
type LogEmitter struct {
	logger *zap.Logger
}

// NewLogEmitter creates an emitter writing to logger.
func NewLogEmitter(logger *zap.Logger) *LogEmitter {
	return &LogEmitter{logger: logger.Named("events")}
}

// Emit implements Emitter.
func (e *LogEmitter) Emit(_ context.Context, ev claim.Event) {
	fields := []zap.Field{
		zap.String("event", string(ev.Type)),
		zap.String("caller", string(ev.Caller)),
		zap.String("fingerprint", ev.Fingerprint.String()),
		zap.Uint64("height", uint64(ev.Height)),
		zap.Uint64("sequence", ev.Sequence),
	}
	if ev.NewOwner != "" {
		fields = append(fields, zap.String("new_owner", string(ev.NewOwner)))
	}
	e.logger.Info("Claim event", fields...)
	metrics.EventsEmitted.WithLabelValues("log", string(ev.Type)).Inc()
}

// Recorder keeps emitted events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []claim.Event
}

// Emit implements Emitter.
func (r *Recorder) Emit(_ context.Context, ev claim.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Fingerprint = append(claim.Fingerprint(nil), ev.Fingerprint...)
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []claim.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]claim.Event(nil), r.events...)
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
