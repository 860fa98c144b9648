// Package types contains the leaderboard view types shared by the service and its adapters.
package types

import "time"

// Entry is one member line of a leaderboard view.
type Entry struct {
	Rank            int    `json:"rank,omitempty"`
	AocID           string `json:"aoc_id"`
	Name            string `json:"name"`
	RawName         string `json:"raw_name"`
	Competitive     bool   `json:"competitive"`
	Stars           int    `json:"stars"`
	DailyStars      int    `json:"daily_stars"`
	Part1Seconds    int64  `json:"part1_seconds"`
	Part2Seconds    int64  `json:"part2_seconds"`
	TotalSeconds    int64  `json:"total_seconds"`
	OverallSeconds  int64  `json:"overall_seconds,omitempty"`
	OverallDuration bool   `json:"-"` // OverallSeconds was computed
}

// Group is an overall leaderboard rank shared by members with equal stars.
type Group struct {
	Rank    int     `json:"rank"`
	Stars   int     `json:"stars"`
	Members []Entry `json:"members"`
}

// Leaderboard is the complete leaderboard for one day.
type Leaderboard struct {
	Event            int       `json:"event"`
	Day              int       `json:"day"`
	LeaderboardID    string    `json:"leaderboard_id"`
	GeneratedAt      time.Time `json:"generated_at"`
	FunBothParts     []Entry   `json:"fun_both_parts"`
	FunFirstPart     []Entry   `json:"fun_first_part"`
	CompetitiveDaily []Entry   `json:"competitive_daily"`
	Overall          []Group   `json:"overall"`
}

// DailyStatistics is a participant's personal view of one day.
type DailyStatistics struct {
	Day    int   `json:"day"`
	Ranked bool  `json:"ranked"`
	Entry  Entry `json:"entry"`
}

// OverallStatistics is a participant's personal cumulative view.
type OverallStatistics struct {
	Ranked bool  `json:"ranked"`
	Entry  Entry `json:"entry"`
}
