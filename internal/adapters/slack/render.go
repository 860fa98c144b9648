package slack

import (
	"fmt"
	"strconv"

	slackgo "github.com/slack-go/slack"

	"github.com/aocbot/aocbot/internal/domain/format"
	"github.com/aocbot/aocbot/internal/domain/types"
)

const (
	siteURL = "https://adventofcode.com"

	overallNote = "The overall leaderboard is determined by the total number of stars earned by a participant. " +
		"Tied participants share a rank. Competitive division participants are denoted with a *"
)

// Renderer turns service results into Block Kit messages.
type Renderer struct {
	// DetailedSplits shows part times in the competitive list.
	DetailedSplits bool
}

// NewRenderer creates a renderer.
func NewRenderer(detailedSplits bool) *Renderer {
	return &Renderer{DetailedSplits: detailedSplits}
}

// LeaderboardText is the notification fallback of a leaderboard message.
// It carries the day so a refresh can find it.
func LeaderboardText(day int) string {
	return fmt.Sprintf("Advent of Code leaderboard for Day %d", day)
}

// Leaderboard builds the channel message for lb.
func (r *Renderer) Leaderboard(lb *types.Leaderboard) []slackgo.Block {
	intro := fmt.Sprintf("Here are the *Advent of Code* results and leaderboard as of *Day %d*. "+
		"Congratulations to the participants who solved one or both parts of the challenge!", lb.Day)

	challenge := slackgo.NewButtonBlockElement("challenge", "challenge", plain("Challenge"))
	challenge.URL = dayURL(lb.Event, lb.Day)
	full := slackgo.NewButtonBlockElement("full_leaderboard", "full_leaderboard", plain("Full Leaderboard"))
	full.URL = fmt.Sprintf("%s/%d/leaderboard/private/view/%s", siteURL, lb.Event, lb.LeaderboardID)

	fun := format.StarFull + " " + format.FunList(lb.FunBothParts) + "\n\n" +
		format.StarEmpty + " " + format.FunList(lb.FunFirstPart)

	return []slackgo.Block{
		section(intro),
		slackgo.NewActionBlock("", challenge, full),
		header(":tada:  For fun!"),
		slackgo.NewDividerBlock(),
		section(fun),
		header(":trophy:  For bragging rights!"),
		slackgo.NewDividerBlock(),
		section(format.CompetitiveList(lb.CompetitiveDaily, r.DetailedSplits)),
		header(":christmas_tree:  Overall Leaderboard"),
		slackgo.NewContextBlock("", mrkdwn(overallNote)),
		slackgo.NewDividerBlock(),
		section(format.OverallList(lb.Overall)),
		slackgo.NewDividerBlock(),
		slackgo.NewContextBlock("", mrkdwn("_Last Updated: "+slackDate(lb.GeneratedAt.Unix())+"_")),
	}
}

// ManualStart confirms a recorded start time.
func (r *Renderer) ManualStart(event, day int, startTS int64) []slackgo.Block {
	text := fmt.Sprintf(":clipboard: Recorded your *Day %d* start time as: *%s*\n\n:runner: You can now begin: %s",
		day, slackDate(startTS), dayURL(event, day))
	return []slackgo.Block{section(text)}
}

// DailyStatistics renders a participant's day. Unranked values show a dash.
func (r *Renderer) DailyStatistics(ds types.DailyStatistics) []slackgo.Block {
	rank, part1, part2, total := format.Placeholder, format.Placeholder, format.Placeholder, format.Placeholder
	if ds.Ranked {
		rank = strconv.Itoa(ds.Entry.Rank)
		part1 = format.Duration(ds.Entry.Part1Seconds)
		if ds.Entry.DailyStars == 2 {
			part2 = format.Duration(ds.Entry.Part2Seconds)
		}
		total = format.Duration(ds.Entry.TotalSeconds)
	}
	text := fmt.Sprintf("Your *Day %d* statistics are shown below:\n\n*Rank:* %s\n\n*Part 1:* %s\n\n*Part 2:* %s\n\n*Total:* %s",
		ds.Day, rank, part1, part2, total)
	return []slackgo.Block{section(text)}
}

// OverallStatistics renders a participant's event totals.
func (r *Renderer) OverallStatistics(st types.OverallStatistics) []slackgo.Block {
	rank, total := format.Placeholder, format.Placeholder
	if st.Ranked {
		rank = strconv.Itoa(st.Entry.Rank)
		total = format.Duration(st.Entry.OverallSeconds)
	}
	text := fmt.Sprintf("Your overall statistics are shown below:\n\n*Rank:* %s\n\n*Stars:* %d\n\n*Total:* %s",
		rank, st.Entry.Stars, total)
	return []slackgo.Block{section(text)}
}

// Response is the body of a slash command or interaction reply. Blocks are
// left out entirely when empty.
type Response struct {
	ResponseType string          `json:"response_type,omitempty"`
	Text         string          `json:"text"`
	Blocks       []slackgo.Block `json:"blocks,omitempty"`
}

// Reply wraps blocks in an ephemeral response. text is the notification fallback.
func Reply(text string, blocks ...slackgo.Block) Response {
	return Response{ResponseType: slackgo.ResponseTypeEphemeral, Text: text, Blocks: blocks}
}

func dayURL(event, day int) string {
	return fmt.Sprintf("%s/%d/day/%d", siteURL, event, day)
}

// slackDate lets each client render ts in its own time zone.
func slackDate(ts int64) string {
	return fmt.Sprintf("<!date^%d^{date} {time_secs}|Unable to Parse Timestamp>", ts)
}

func plain(text string) *slackgo.TextBlockObject {
	return slackgo.NewTextBlockObject(slackgo.PlainTextType, text, true, false)
}

func mrkdwn(text string) *slackgo.TextBlockObject {
	return slackgo.NewTextBlockObject(slackgo.MarkdownType, text, false, false)
}

func section(text string) *slackgo.SectionBlock {
	return slackgo.NewSectionBlock(mrkdwn(text), nil, nil)
}

func header(text string) *slackgo.HeaderBlock {
	return slackgo.NewHeaderBlock(plain(text))
}
