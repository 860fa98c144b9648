// Package format renders leaderboard views as Slack mrkdwn text.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aocbot/aocbot/internal/domain/types"
)

const (
	// Placeholder stands in for an empty list.
	Placeholder = "-"

	// CompetitiveFlag marks competitive members. The soft hyphens keep Slack
	// from reading the asterisk as bold markup.
	CompetitiveFlag = "\u00ad*\u00ad"

	StarFull  = ":star:"
	StarEmpty = ":star-empty:"
)

// Duration renders seconds as HH:MM:SS. Hours do not wrap.
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Star renders the daily star count.
func Star(dailyStars int) string {
	if dailyStars == 2 {
		return StarFull
	}
	return StarEmpty
}

// JoinOrPlaceholder joins items with sep, or returns Placeholder for none.
func JoinOrPlaceholder(items []string, sep string) string {
	if len(items) == 0 {
		return Placeholder
	}
	return strings.Join(items, sep)
}

// FunList renders "name (stars), ...".
func FunList(entries []types.Entry) string {
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = e.Name + " (" + strconv.Itoa(e.Stars) + ")"
	}
	return JoinOrPlaceholder(items, ", ")
}

// CompetitiveList renders a numbered list of daily results. With splits,
// part times are shown instead of only the day total.
func CompetitiveList(entries []types.Entry, splits bool) string {
	items := make([]string, len(entries))
	for i, e := range entries {
		var detail string
		switch {
		case !splits:
			detail = Duration(e.TotalSeconds)
		case e.DailyStars == 2:
			detail = "P1: " + Duration(e.Part1Seconds) + ", P2: " + Duration(e.Part2Seconds) + ", Total: " + Duration(e.TotalSeconds)
		default:
			detail = "P1: " + Duration(e.Part1Seconds)
		}
		items[i] = fmt.Sprintf("%d. %s (%s, %s)", i+1, e.Name, Star(e.DailyStars), detail)
	}
	return JoinOrPlaceholder(items, "\n\n")
}

// OverallList renders "rank. name, name (stars)" per group. Competitive
// members carry CompetitiveFlag and, when computed, their overall time.
func OverallList(groups []types.Group) string {
	items := make([]string, len(groups))
	for i, g := range groups {
		names := make([]string, len(g.Members))
		for j, e := range g.Members {
			names[j] = e.Name
			if e.Competitive {
				names[j] += CompetitiveFlag
				if e.OverallDuration {
					names[j] += " [" + Duration(e.OverallSeconds) + "]"
				}
			}
		}
		items[i] = fmt.Sprintf("%d. %s (%d)", g.Rank, strings.Join(names, ", "), g.Stars)
	}
	return JoinOrPlaceholder(items, "\n\n")
}
