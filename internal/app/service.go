// Package service joins the leaderboard snapshot, registrations and start
// overrides into the views served to Slack and the JSON API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aocbot/aocbot/internal/adapters/repository"
	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/internal/domain/ranking"
	"github.com/aocbot/aocbot/internal/domain/stats"
	"github.com/aocbot/aocbot/internal/domain/types"
	"github.com/aocbot/aocbot/pkg/logger"
	"github.com/aocbot/aocbot/pkg/metrics"
)

// SnapshotSource provides leaderboard snapshots.
type SnapshotSource interface {
	// Fetch may serve a cached snapshot.
	Fetch(ctx context.Context) (model.Snapshot, error)
	// Refresh always goes to adventofcode.com.
	Refresh(ctx context.Context) (model.Snapshot, error)
}

// Service implements the operations behind the Slack commands.
type Service struct {
	mu sync.RWMutex

	source       SnapshotSource
	participants repository.ParticipantStore
	overrides    repository.OverrideStore

	calendar        calendar.Calendar
	leaderboardID   string
	adminID         string
	overallDuration bool

	now    func() time.Time
	logger logger.Logger

	// State
	lastFetch         time.Time
	lastMembers       int
	leaderboardsBuilt int64
}

// New constructs a Service over its three data sources.
func New(source SnapshotSource, participants repository.ParticipantStore, overrides repository.OverrideStore, opts ...Option) *Service {
	s := &Service{
		source:       source,
		participants: participants,
		overrides:    overrides,
		calendar:     calendar.New(time.Now().Year()),
		now:          time.Now,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calendar returns the event calendar.
func (s *Service) Calendar() calendar.Calendar { return s.calendar }

// LeaderboardID returns the private leaderboard id.
func (s *Service) LeaderboardID() string { return s.leaderboardID }

// IsAdmin reports whether slackID is the facilitator.
func (s *Service) IsAdmin(slackID string) bool {
	return s.adminID != "" && slackID == s.adminID
}

// dataset is the joined input of one computation.
type dataset struct {
	snapshot     model.Snapshot
	participants map[string]model.Participant // by aoc id
	overrides    map[int]map[string]int64     // day -> aoc id -> start ts
}

// load fetches the snapshot, registrations and overrides concurrently.
// Overrides are loaded for day, or for days 1..day when history is set.
func (s *Service) load(ctx context.Context, day int, history bool) (dataset, error) {
	var (
		ds    dataset
		mu    sync.Mutex
		first = day
	)
	if history {
		first = calendar.FirstDay
	}
	ds.overrides = make(map[int]map[string]int64, day-first+1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := s.source.Fetch(gctx)
		if err != nil {
			return fmt.Errorf("fetch snapshot: %w", err)
		}
		ds.snapshot = snap
		return nil
	})
	g.Go(func() error {
		list, err := s.participants.ListParticipants(gctx)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		byAoc := make(map[string]model.Participant, len(list))
		for _, p := range list {
			byAoc[p.AocID] = p
		}
		ds.participants = byAoc
		return nil
	})
	for d := first; d <= day; d++ {
		g.Go(func() error {
			list, err := s.overrides.ListOverrides(gctx, d)
			if err != nil {
				return fmt.Errorf("list overrides for day %d: %w", d, err)
			}
			byAoc := make(map[string]int64, len(list))
			for _, o := range list {
				byAoc[o.AocID] = o.StartTS
			}
			mu.Lock()
			ds.overrides[d] = byAoc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dataset{}, err
	}

	s.mu.Lock()
	s.lastFetch = ds.snapshot.FetchedAt
	s.lastMembers = len(ds.snapshot.Members)
	s.mu.Unlock()
	return ds, nil
}

func (s *Service) compute(ds dataset, day int, cumulative bool) []stats.ParticipantDayStatistics {
	all := stats.Compute(stats.Input{
		Snapshot:     ds.snapshot,
		Day:          day,
		DayStart:     s.calendar.DayStart(day),
		Participants: ds.participants,
		Overrides:    ds.overrides[day],
	})
	if cumulative {
		totals := stats.Cumulative(ds.snapshot, day, s.calendar, ds.overrides)
		for i := range all {
			all[i].OverallDuration = totals[all[i].AocID]
		}
	}
	return all
}

// Leaderboard builds the four views for day.
func (s *Service) Leaderboard(ctx context.Context, day int) (*types.Leaderboard, error) {
	if day < calendar.FirstDay || day > calendar.LastDay {
		return nil, ErrInvalidDay
	}
	ds, err := s.load(ctx, day, s.overallDuration)
	if err != nil {
		s.logger.Error(ctx, "leaderboard data unavailable", logger.Int("day", day), logger.Error(err))
		return nil, err
	}

	start := time.Now()
	all := s.compute(ds, day, s.overallDuration)
	lb := &types.Leaderboard{
		Event:            s.calendar.Year,
		Day:              day,
		LeaderboardID:    s.leaderboardID,
		GeneratedAt:      s.now().UTC(),
		FunBothParts:     entries(ranking.FunBothParts(all), false, s.overallDuration),
		FunFirstPart:     entries(ranking.FunFirstPart(all), false, s.overallDuration),
		CompetitiveDaily: entries(ranking.CompetitiveDaily(all), true, s.overallDuration),
		Overall:          groups(ranking.Overall(all), s.overallDuration),
	}
	metrics.RecordRenderLatency("leaderboard", float64(time.Since(start).Microseconds())/1000.0)

	s.mu.Lock()
	s.leaderboardsBuilt++
	s.mu.Unlock()

	s.logger.Info(ctx, "leaderboard built",
		logger.Int("day", day),
		logger.Int("members", len(all)),
		logger.Int("overall_groups", len(lb.Overall)),
	)
	return lb, nil
}

// participant resolves a Slack user or returns ErrNotRegistered.
func (s *Service) participant(ctx context.Context, slackID string) (model.Participant, error) {
	p, err := s.participants.GetParticipant(ctx, slackID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Participant{}, ErrNotRegistered
	}
	return p, err
}

// DailyStatistics returns the personal view of day for slackID.
func (s *Service) DailyStatistics(ctx context.Context, slackID string, day int) (types.DailyStatistics, error) {
	if day < calendar.FirstDay || day > calendar.LastDay {
		return types.DailyStatistics{}, ErrInvalidDay
	}
	p, err := s.participant(ctx, slackID)
	if err != nil {
		return types.DailyStatistics{}, err
	}
	ds, err := s.load(ctx, day, false)
	if err != nil {
		return types.DailyStatistics{}, err
	}

	all := s.compute(ds, day, false)
	rank, _, ok := ranking.DailyPlacement(all, p.AocID)
	out := types.DailyStatistics{Day: day, Ranked: ok, Entry: own(all, p, false)}
	out.Entry.Rank = rank
	return out, nil
}

// OverallStatistics returns the personal cumulative view as of day 25.
func (s *Service) OverallStatistics(ctx context.Context, slackID string) (types.OverallStatistics, error) {
	p, err := s.participant(ctx, slackID)
	if err != nil {
		return types.OverallStatistics{}, err
	}
	ds, err := s.load(ctx, calendar.LastDay, true)
	if err != nil {
		return types.OverallStatistics{}, err
	}

	all := s.compute(ds, calendar.LastDay, true)
	rank, _, ok := ranking.OverallPlacement(all, p.AocID)
	out := types.OverallStatistics{Ranked: ok, Entry: own(all, p, true)}
	out.Entry.Rank = rank
	return out, nil
}

// Register validates and stores p. The latest registration wins.
func (s *Service) Register(ctx context.Context, p model.Participant) error {
	if p.AIUsage == "" {
		p.AIUsage = model.AIUsageNone
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.participants.UpsertParticipant(ctx, p); err != nil {
		return err
	}
	s.logger.Info(ctx, "participant registered",
		logger.String("slack_id", p.SlackID),
		logger.String("aoc_id", p.AocID),
		logger.String("division", string(p.Division)),
		logger.String("ai_usage", string(p.AIUsage)),
	)
	return nil
}

// RecordStart stores now as the start of day for slackID.
func (s *Service) RecordStart(ctx context.Context, slackID string, day int, now time.Time) (model.StartOverride, error) {
	if day < calendar.FirstDay || day > calendar.LastDay {
		return model.StartOverride{}, ErrInvalidDay
	}
	p, err := s.participant(ctx, slackID)
	if err != nil {
		return model.StartOverride{}, err
	}
	o := model.StartOverride{AocID: p.AocID, Day: day, StartTS: now.Unix()}
	if err := s.overrides.UpsertOverride(ctx, o); err != nil {
		return model.StartOverride{}, err
	}
	metrics.RecordStartOverride()
	s.logger.Info(ctx, "start recorded", logger.String("aoc_id", p.AocID), logger.Int("day", day), logger.Int64("start_ts", o.StartTS))
	return o, nil
}

// RefreshSnapshot forces a fetch from adventofcode.com.
func (s *Service) RefreshSnapshot(ctx context.Context) error {
	snap, err := s.source.Refresh(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lastFetch = snap.FetchedAt
	s.lastMembers = len(snap.Members)
	s.mu.Unlock()
	metrics.UpdateLastRefresh(snap.FetchedAt.Unix())
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s.mu.RLock()
	out := map[string]any{
		"event":             s.calendar.Year,
		"leaderboardId":     s.leaderboardID,
		"currentDay":        s.calendar.CurrentDay(s.now()),
		"leaderboardsBuilt": s.leaderboardsBuilt,
		"snapshotMembers":   s.lastMembers,
	}
	if !s.lastFetch.IsZero() {
		out["lastFetch"] = s.lastFetch.UTC().Format(time.RFC3339)
	}
	s.mu.RUnlock()

	if list, err := s.participants.ListParticipants(ctx); err == nil {
		out["participants"] = len(list)
		metrics.UpdateParticipants(len(list))
	} else {
		s.logger.Warn(ctx, "participant count unavailable", logger.Error(err))
	}
	return out
}

// own returns the participant's entry, or a blank one when the aoc id is
// missing from the snapshot.
func own(all []stats.ParticipantDayStatistics, p model.Participant, withOverall bool) types.Entry {
	for _, st := range all {
		if st.AocID == p.AocID {
			return entry(st, withOverall)
		}
	}
	return types.Entry{
		AocID:           p.AocID,
		Name:            p.Mention(),
		Competitive:     p.IsCompetitive(),
		OverallDuration: withOverall,
	}
}

func entry(st stats.ParticipantDayStatistics, withOverall bool) types.Entry {
	return types.Entry{
		AocID:           st.AocID,
		Name:            st.Name,
		RawName:         st.SortKey,
		Competitive:     st.IsCompetitive(),
		Stars:           st.Stars,
		DailyStars:      st.DailyStars,
		Part1Seconds:    st.Part1Duration,
		Part2Seconds:    st.Part2Duration,
		TotalSeconds:    st.TotalDuration,
		OverallSeconds:  st.OverallDuration,
		OverallDuration: withOverall,
	}
}

func entries(list []stats.ParticipantDayStatistics, ranked, withOverall bool) []types.Entry {
	out := make([]types.Entry, len(list))
	for i, st := range list {
		out[i] = entry(st, withOverall)
		if ranked {
			out[i].Rank = i + 1
		}
	}
	return out
}

func groups(list []ranking.Group, withOverall bool) []types.Group {
	out := make([]types.Group, len(list))
	for i, g := range list {
		out[i] = types.Group{Rank: g.Rank, Stars: g.Stars, Members: entries(g.Members, false, withOverall)}
		for j := range out[i].Members {
			out[i].Members[j].Rank = g.Rank
		}
	}
	return out
}
