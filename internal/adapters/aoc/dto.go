package aoc

import (
	"strconv"
	"time"

	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/internal/domain/model"
)

// leaderboardDTO mirrors the private leaderboard JSON.
type leaderboardDTO struct {
	Event   string               `json:"event"`
	OwnerID int64                `json:"owner_id"`
	Day1TS  int64                `json:"day1_ts"`
	Members map[string]memberDTO `json:"members"`
}

type memberDTO struct {
	ID                 int64                         `json:"id"`
	Name               *string                       `json:"name"`
	LocalScore         int                           `json:"local_score"`
	Stars              int                           `json:"stars"`
	LastStarTS         int64                         `json:"last_star_ts"`
	CompletionDayLevel map[string]map[string]starDTO `json:"completion_day_level"`
}

type starDTO struct {
	GetStarTS int64 `json:"get_star_ts"`
	StarIndex int64 `json:"star_index"`
}

func (d leaderboardDTO) toModel(fetchedAt time.Time) model.Snapshot {
	members := make(map[string]model.Member, len(d.Members))
	for key, m := range d.Members {
		id := key
		if m.ID != 0 {
			id = strconv.FormatInt(m.ID, 10)
		}
		name := model.AnonymousName(id)
		if m.Name != nil && *m.Name != "" {
			name = *m.Name
		}
		members[id] = model.Member{
			ID:          id,
			Name:        name,
			LocalScore:  m.LocalScore,
			Stars:       m.Stars,
			LastStarTS:  m.LastStarTS,
			Completions: completions(m.CompletionDayLevel),
		}
	}
	return model.Snapshot{
		Event:     d.Event,
		OwnerID:   strconv.FormatInt(d.OwnerID, 10),
		Members:   members,
		FetchedAt: fetchedAt,
	}
}

// completions drops day keys that are not event days.
func completions(raw map[string]map[string]starDTO) map[int]model.DayCompletion {
	out := make(map[int]model.DayCompletion, len(raw))
	for key, parts := range raw {
		day, err := strconv.Atoi(key)
		if err != nil || day < calendar.FirstDay || day > calendar.LastDay {
			continue
		}
		var c model.DayCompletion
		if p, ok := parts["1"]; ok {
			c.Part1 = &model.Star{TS: p.GetStarTS}
		}
		if p, ok := parts["2"]; ok {
			c.Part2 = &model.Star{TS: p.GetStarTS}
		}
		out[day] = c
	}
	return out
}
