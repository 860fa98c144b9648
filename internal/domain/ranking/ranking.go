// Package ranking partitions daily statistics into the leaderboard views.
package ranking

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/internal/domain/stats"
)

// Stat is shorthand for the per-member input.
type Stat = stats.ParticipantDayStatistics

// Group is a set of members tied on total stars.
type Group struct {
	Rank    int
	Stars   int
	Members []Stat
}

// names compares sort keys alphabetically. A collator is not safe for
// concurrent use, so each ranking call gets its own.
type names struct {
	c *collate.Collator
}

func newNames() names {
	return names{c: collate.New(language.English)}
}

func (n names) less(a, b string) bool {
	if r := n.c.CompareString(a, b); r != 0 {
		return r < 0
	}
	return a < b
}

// FunBothParts lists fun members with both parts today, most stars first.
func FunBothParts(all []Stat) []Stat {
	return funByDailyStars(all, 2)
}

// FunFirstPart lists fun members with only part 1 today, most stars first.
func FunFirstPart(all []Stat) []Stat {
	return funByDailyStars(all, 1)
}

func funByDailyStars(all []Stat, daily int) []Stat {
	out := filter(all, func(s Stat) bool {
		return s.Division == model.DivisionFun && s.DailyStars == daily
	})
	n := newNames()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stars != out[j].Stars {
			return out[i].Stars > out[j].Stars
		}
		return n.less(out[i].SortKey, out[j].SortKey)
	})
	return out
}

// CompetitiveDaily lists competitive members with a star today, fastest first.
func CompetitiveDaily(all []Stat) []Stat {
	out := filter(all, func(s Stat) bool {
		return s.Division == model.DivisionCompetitive && s.DailyStars > 0
	})
	sort.SliceStable(out, func(i, j int) bool { return dailyBefore(out[i], out[j]) })
	return out
}

func dailyBefore(a, b Stat) bool {
	if a.DailyStars != b.DailyStars {
		return a.DailyStars > b.DailyStars
	}
	return a.TotalDuration < b.TotalDuration
}

// Overall groups every member with at least one star by total stars.
// Tied members share a rank; the next group's rank skips the tied count.
func Overall(all []Stat) []Group {
	byStars := map[int][]Stat{}
	for _, s := range all {
		if s.Stars > 0 {
			byStars[s.Stars] = append(byStars[s.Stars], s)
		}
	}

	levels := make([]int, 0, len(byStars))
	for stars := range byStars {
		levels = append(levels, stars)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))

	n := newNames()
	groups := make([]Group, 0, len(levels))
	rank := 1
	for _, stars := range levels {
		members := byStars[stars]
		sort.SliceStable(members, func(i, j int) bool {
			return n.less(members[i].SortKey, members[j].SortKey)
		})
		groups = append(groups, Group{Rank: rank, Stars: stars, Members: members})
		rank += len(members)
	}
	return groups
}

// DailyPlacement ranks aocID among everyone with a star today using the
// competitive ordering. Exact ties share a rank.
func DailyPlacement(all []Stat, aocID string) (int, Stat, bool) {
	var me Stat
	found := false
	for _, s := range all {
		if s.AocID == aocID {
			me, found = s, true
			break
		}
	}
	if !found || me.DailyStars == 0 {
		return 0, me, false
	}
	rank := 1
	for _, s := range all {
		if s.DailyStars > 0 && dailyBefore(s, me) {
			rank++
		}
	}
	return rank, me, true
}

// OverallPlacement returns the overall group rank of aocID.
func OverallPlacement(all []Stat, aocID string) (int, Stat, bool) {
	for _, g := range Overall(all) {
		for _, s := range g.Members {
			if s.AocID == aocID {
				return g.Rank, s, true
			}
		}
	}
	return 0, Stat{}, false
}

func filter(all []Stat, keep func(Stat) bool) []Stat {
	out := make([]Stat, 0, len(all))
	for _, s := range all {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
