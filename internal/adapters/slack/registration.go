package slack

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	slackgo "github.com/slack-go/slack"

	"github.com/aocbot/aocbot/internal/domain/model"
)

// Registration modal identifiers.
const (
	ViewTypeRegistration = "registration"

	AocIDBlock     = "aoc_id_block"
	AocIDAction    = "aoc_id"
	DivisionBlock  = "division_block"
	DivisionAction = "division"
	AIUsageBlock   = "ai_usage_block"
	AIUsageAction  = "ai_usage"
)

// Message shortcut callback ids.
const (
	CallbackRefreshLeaderboard = "refresh-leaderboard"
	CallbackDeleteLeaderboard  = "delete-leaderboard"
)

const aocIDHint = "ONLY the first group of numbers of the code on the Settings page:\n" +
	"Example: ownerproof-1234567-xxxxxxxxxx-xxxxxxxxxxxx => 1234567"

// viewMetadata is stored in private_metadata of every view the bot opens.
type viewMetadata struct {
	Type string `json:"type"`
	Data struct {
		SlackID string `json:"slackId"`
	} `json:"data"`
}

// RegistrationView builds the registration modal for slackID.
func RegistrationView(slackID string) slackgo.ModalViewRequest {
	var meta viewMetadata
	meta.Type = ViewTypeRegistration
	meta.Data.SlackID = slackID
	raw, _ := json.Marshal(meta) // plain strings, cannot fail

	aocID := slackgo.NewInputBlock(AocIDBlock,
		plain("What is your Advent of Code ID?"),
		plain(aocIDHint),
		slackgo.NewPlainTextInputBlockElement(plain("1234567"), AocIDAction),
	)

	division := slackgo.NewInputBlock(DivisionBlock,
		plain("What division do you want to participate in?"),
		nil,
		slackgo.NewRadioButtonsBlockElement(DivisionAction,
			option(string(model.DivisionFun), "Fun"),
			option(string(model.DivisionCompetitive), "Competitive"),
		),
	)

	aiUsage := slackgo.NewInputBlock(AIUsageBlock,
		plain("Which option best describes your planned usage of AI during the competition (e.g. Copilot or GPT)?"),
		nil,
		slackgo.NewRadioButtonsBlockElement(AIUsageAction,
			option(string(model.AIUsageNone), "None"),
			option(string(model.AIUsageAssistance), "Assistance (e.g. syntax, logic, algorithms, etc...)"),
			option(string(model.AIUsageAutomation), "Automation (e.g. mostly / completely solving the puzzle)"),
		),
	)

	return slackgo.ModalViewRequest{
		Type:   slackgo.VTModal,
		Title:  plain("Registration"),
		Close:  plain("Cancel"),
		Submit: plain("Register"),
		Blocks: slackgo.Blocks{BlockSet: []slackgo.Block{
			slackgo.NewSectionBlock(
				slackgo.NewTextBlockObject(slackgo.PlainTextType, "Please provide the information below to link your Advent of Code account.", false, false),
				nil, nil,
			),
			slackgo.NewDividerBlock(),
			aocID,
			division,
			aiUsage,
		}},
		PrivateMetadata: string(raw),
	}
}

// ParseRegistration reads a submitted registration modal.
func ParseRegistration(view slackgo.View) (model.Participant, error) {
	var meta viewMetadata
	if err := json.Unmarshal([]byte(view.PrivateMetadata), &meta); err != nil {
		return model.Participant{}, fmt.Errorf("%w: %w", ErrMetadata, err)
	}
	if meta.Type != ViewTypeRegistration {
		return model.Participant{}, fmt.Errorf("%w: %q", ErrUnknownView, meta.Type)
	}
	if view.State == nil {
		return model.Participant{}, fmt.Errorf("%w: state", ErrMissingField)
	}

	values := view.State.Values
	aocID := strings.TrimSpace(values[AocIDBlock][AocIDAction].Value)
	if aocID == "" {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrMissingField, AocIDAction)
	}

	division, err := model.ParseDivision(values[DivisionBlock][DivisionAction].SelectedOption.Value)
	if err != nil {
		return model.Participant{}, err
	}
	aiUsage, err := model.ParseAIUsage(values[AIUsageBlock][AIUsageAction].SelectedOption.Value)
	if err != nil {
		return model.Participant{}, err
	}

	return model.Participant{
		SlackID:  meta.Data.SlackID,
		AocID:    aocID,
		Division: division,
		AIUsage:  aiUsage,
	}, nil
}

var dayPattern = regexp.MustCompile(`Day (\d+)`)

// DayFromMessage finds the day of a posted leaderboard message. The first
// section block is searched, then the fallback text.
func DayFromMessage(msg slackgo.Message) (int, error) {
	for _, b := range msg.Blocks.BlockSet {
		sb, ok := b.(*slackgo.SectionBlock)
		if !ok || sb.Text == nil {
			continue
		}
		if day, ok := matchDay(sb.Text.Text); ok {
			return day, nil
		}
		break
	}
	if day, ok := matchDay(msg.Text); ok {
		return day, nil
	}
	return 0, ErrNoDay
}

func matchDay(text string) (int, bool) {
	m := dayPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	return day, err == nil
}

func option(value, text string) *slackgo.OptionBlockObject {
	return slackgo.NewOptionBlockObject(value, plain(text), nil)
}
