package slack

// Replies shown to the user in Slack.
const (
	MsgGeneric         = "Something went wrong. Please try again later."
	MsgInvalidDay      = "Invalid day specified. Please provide a number between 1 and 25."
	MsgNotRegistered   = "You have not registered yet. Please register using the `/aoc register` command first."
	MsgAdminCommand    = "Only your Advent of Code facilitator can use this command."
	MsgAdminAction     = "Only your Advent of Code facilitator can perform this action."
	MsgAocIDTaken      = "This Advent of Code ID is already linked to another Slack user."
	MsgAocIDNotNumeric = "Your Advent of Code ID must be a number."
)

// Help lists the slash command usage.
const Help = "*Advent of Code commands*\n\n" +
	"`/aoc register` link your Advent of Code account and pick a division\n" +
	"`/aoc start <day>` record the moment you start a puzzle\n" +
	"`/aoc daily <day>` show your statistics for a day\n" +
	"`/aoc overall` show your overall statistics\n" +
	"`/aoc leaderboard <day>` post the leaderboard for a day (facilitator only)\n" +
	"`/aoc help` show this message"
