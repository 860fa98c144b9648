// Package repository stores participants and manual start overrides.
package repository

import (
	"context"
	"time"

	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/pkg/metrics"
)

// ParticipantStore provides read/write access to registrations.
type ParticipantStore interface {
	// GetParticipant returns ErrNotFound for unknown Slack users.
	GetParticipant(ctx context.Context, slackID string) (model.Participant, error)
	GetParticipantByAocID(ctx context.Context, aocID string) (model.Participant, error)
	ListParticipants(ctx context.Context) ([]model.Participant, error)
	// UpsertParticipant replaces any previous registration of the Slack user.
	UpsertParticipant(ctx context.Context, p model.Participant) error
}

// OverrideStore provides read/write access to start overrides of one event.
type OverrideStore interface {
	ListOverrides(ctx context.Context, day int) ([]model.StartOverride, error)
	// UpsertOverride keeps one override per (aoc id, day); last write wins.
	UpsertOverride(ctx context.Context, o model.StartOverride) error
}

// Store is a complete backend.
type Store interface {
	ParticipantStore
	OverrideStore
	Ping(ctx context.Context) error
	Close() error
}

// observe records the latency of a store operation.
func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000.0)
}
