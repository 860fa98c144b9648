// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Division is the competition track a participant registered for.
type Division string

const (
	DivisionFun         Division = "fun"
	DivisionCompetitive Division = "competitive"
)

// ParseDivision validates a stored or submitted division value.
func ParseDivision(s string) (Division, error) {
	switch d := Division(strings.ToLower(strings.TrimSpace(s))); d {
	case DivisionFun, DivisionCompetitive:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDivision, s)
}

// AIUsage is the self-reported AI assistance category.
type AIUsage string

const (
	AIUsageNone       AIUsage = "none"
	AIUsageAssistance AIUsage = "assistance"
	AIUsageAutomation AIUsage = "automation"
)

// ParseAIUsage validates an AI usage value. Empty means none.
func ParseAIUsage(s string) (AIUsage, error) {
	switch u := AIUsage(strings.ToLower(strings.TrimSpace(s))); u {
	case "":
		return AIUsageNone, nil
	case AIUsageNone, AIUsageAssistance, AIUsageAutomation:
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAIUsage, s)
}

// Participant links a Slack user to an Advent of Code member.
type Participant struct {
	SlackID   string
	AocID     string
	Division  Division
	AIUsage   AIUsage
	UpdatedAt time.Time
}

// Mention renders the Slack mention for the participant.
func (p Participant) Mention() string {
	return "<@" + p.SlackID + ">"
}

// IsCompetitive reports whether the participant is in the competitive division.
func (p Participant) IsCompetitive() bool {
	return p.Division == DivisionCompetitive
}

// Validate checks the identifiers and the closed enums.
func (p Participant) Validate() error {
	if strings.TrimSpace(p.SlackID) == "" {
		return fmt.Errorf("%w: slack id is required", ErrInvalidParticipant)
	}
	if p.AocID == "" {
		return fmt.Errorf("%w: advent of code id is required", ErrInvalidParticipant)
	}
	for _, r := range p.AocID {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: advent of code id must be numeric", ErrInvalidParticipant)
		}
	}
	if _, err := ParseDivision(string(p.Division)); err != nil {
		return err
	}
	if _, err := ParseAIUsage(string(p.AIUsage)); err != nil {
		return err
	}
	return nil
}

// StartOverride is a participant-recorded start time for one day, in Unix seconds.
type StartOverride struct {
	AocID   string
	Day     int
	StartTS int64
}

// Star is an earned puzzle part.
type Star struct {
	TS int64 // unix seconds
}

// DayCompletion holds the stars earned on one day. Nil means not earned.
type DayCompletion struct {
	Part1 *Star
	Part2 *Star
}

// StarCount returns how many parts are present.
func (d DayCompletion) StarCount() int {
	n := 0
	if d.Part1 != nil {
		n++
	}
	if d.Part2 != nil {
		n++
	}
	return n
}

// Member is one entry of the private leaderboard.
type Member struct {
	ID          string
	Name        string
	LocalScore  int
	Stars       int
	LastStarTS  int64
	Completions map[int]DayCompletion
}

// AnonymousName is shown for members who hide their name on adventofcode.com.
func AnonymousName(id string) string {
	return "(anonymous user #" + id + ")"
}

// Snapshot is a fetched private leaderboard.
type Snapshot struct {
	Event     string
	OwnerID   string
	Members   map[string]Member
	FetchedAt time.Time
}
