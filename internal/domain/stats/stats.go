// Package stats derives per-participant daily statistics from a leaderboard snapshot.
package stats

import (
	"sort"

	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/internal/domain/model"
)

// Input is everything needed to compute one day's statistics.
type Input struct {
	Snapshot     model.Snapshot
	Day          int
	DayStart     int64                        // unlock instant of Day, unix seconds
	Participants map[string]model.Participant // keyed by aoc id
	Overrides    map[string]int64             // aoc id -> start ts for Day
}

// ParticipantDayStatistics is one member's view of a requested day. Durations are seconds.
type ParticipantDayStatistics struct {
	AocID      string
	Name       string // mention for registered members, raw name otherwise
	SortKey    string // raw name
	Division   model.Division
	AIUsage    model.AIUsage
	Registered bool
	LocalScore int

	Stars      int // through the requested day
	DailyStars int

	Part1Done     bool
	Part2Done     bool
	Part1Duration int64
	Part2Duration int64
	TotalDuration int64

	// OverallDuration is the summed duration of days 1..Day. Filled by Cumulative callers.
	OverallDuration int64
}

// IsCompetitive reports whether the member ranks in the competitive division.
func (s ParticipantDayStatistics) IsCompetitive() bool {
	return s.Division == model.DivisionCompetitive
}

// Compute returns one entry per snapshot member, ordered by aoc id.
func Compute(in Input) []ParticipantDayStatistics {
	out := make([]ParticipantDayStatistics, 0, len(in.Snapshot.Members))
	for id, m := range in.Snapshot.Members {
		s := ParticipantDayStatistics{
			AocID:      id,
			Name:       m.Name,
			SortKey:    m.Name,
			Division:   model.DivisionFun,
			AIUsage:    model.AIUsageNone,
			LocalScore: m.LocalScore,
		}
		if p, ok := in.Participants[id]; ok {
			s.Registered = true
			s.Name = p.Mention()
			s.Division = p.Division
			s.AIUsage = p.AIUsage
		}
		if s.Division == "" {
			s.Division = model.DivisionFun
		}

		for day, c := range m.Completions {
			if day < in.Day {
				s.Stars += c.StarCount()
			}
		}

		start := in.DayStart
		if ts, ok := in.Overrides[id]; ok {
			start = ts
		}
		if c, ok := m.Completions[in.Day]; ok {
			d := durations(c, start)
			s.Part1Done, s.Part2Done = d.part1Done, d.part2Done
			s.Part1Duration, s.Part2Duration = d.part1, d.part2
			s.TotalDuration = d.part1 + d.part2
			s.DailyStars = d.stars()
			s.Stars += s.DailyStars
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AocID < out[j].AocID })
	return out
}

// Cumulative sums each member's daily total durations for days 1..through.
// overridesByDay maps day -> aoc id -> start ts.
func Cumulative(snapshot model.Snapshot, through int, cal calendar.Calendar, overridesByDay map[int]map[string]int64) map[string]int64 {
	totals := make(map[string]int64, len(snapshot.Members))
	for id, m := range snapshot.Members {
		var sum int64
		for day := calendar.FirstDay; day <= through; day++ {
			c, ok := m.Completions[day]
			if !ok {
				continue
			}
			start := cal.DayStart(day)
			if ts, ok := overridesByDay[day][id]; ok {
				start = ts
			}
			d := durations(c, start)
			sum += d.part1 + d.part2
		}
		totals[id] = sum
	}
	return totals
}

type dayDurations struct {
	part1Done, part2Done bool
	part1, part2         int64
}

func (d dayDurations) stars() int {
	n := 0
	if d.part1Done {
		n++
	}
	if d.part2Done {
		n++
	}
	return n
}

// durations applies the elapsed-time rules: part 1 from start, part 2 from part 1.
func durations(c model.DayCompletion, start int64) dayDurations {
	var d dayDurations
	if c.Part1 != nil {
		d.part1Done = true
		d.part1 = clamp(c.Part1.TS - start)
	}
	if c.Part2 != nil {
		d.part2Done = true
		if c.Part1 != nil {
			d.part2 = clamp(c.Part2.TS - c.Part1.TS)
		}
	}
	return d
}

// clamp keeps starts recorded after a star from producing negative time.
func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
