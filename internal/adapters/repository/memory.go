package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aocbot/aocbot/internal/domain/model"
)

type overrideKey struct {
	aocID string
	day   int
}

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu           sync.RWMutex
	participants map[string]model.Participant // by slack id
	overrides    map[overrideKey]int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		participants: make(map[string]model.Participant),
		overrides:    make(map[overrideKey]int64),
	}
}

func (s *MemoryStore) GetParticipant(_ context.Context, slackID string) (model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[slackID]
	if !ok {
		return model.Participant{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) GetParticipantByAocID(_ context.Context, aocID string) (model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.participants {
		if p.AocID == aocID {
			return p, nil
		}
	}
	return model.Participant{}, ErrNotFound
}

func (s *MemoryStore) ListParticipants(_ context.Context) ([]model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlackID < out[j].SlackID })
	return out, nil
}

func (s *MemoryStore) UpsertParticipant(_ context.Context, p model.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, other := range s.participants {
		if id != p.SlackID && other.AocID == p.AocID {
			return ErrConflict
		}
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	s.participants[p.SlackID] = p
	return nil
}

func (s *MemoryStore) ListOverrides(_ context.Context, day int) ([]model.StartOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StartOverride, 0)
	for k, ts := range s.overrides {
		if k.day == day {
			out = append(out, model.StartOverride{AocID: k.aocID, Day: k.day, StartTS: ts})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AocID < out[j].AocID })
	return out, nil
}

func (s *MemoryStore) UpsertOverride(_ context.Context, o model.StartOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[overrideKey{aocID: o.AocID, day: o.Day}] = o.StartTS
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
