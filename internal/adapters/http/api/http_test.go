package api_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	slackgo "github.com/slack-go/slack"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/aocbot/aocbot/internal/adapters/http/api"
	"github.com/aocbot/aocbot/internal/adapters/repository"
	"github.com/aocbot/aocbot/internal/adapters/slack"
	service "github.com/aocbot/aocbot/internal/app"
	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/internal/domain/model"
	"github.com/aocbot/aocbot/internal/domain/types"
)

const signingSecret = "8f742231b10e8888abcd99yez67291bc"

type mockService struct {
	mu          sync.Mutex
	registered  map[string]bool
	registerErr error
	lbErr       error
	starts      []model.StartOverride
	lastDay     int
	saved       []model.Participant
}

func newMockService() *mockService {
	return &mockService{registered: map[string]bool{"U1": true, "UADMIN": true}}
}

func (m *mockService) Leaderboard(_ context.Context, day int) (*types.Leaderboard, error) {
	m.mu.Lock()
	m.lastDay = day
	m.mu.Unlock()
	if m.lbErr != nil {
		return nil, m.lbErr
	}
	return &types.Leaderboard{Event: 2024, Day: day, LeaderboardID: "4242"}, nil
}

func (m *mockService) DailyStatistics(_ context.Context, slackID string, day int) (types.DailyStatistics, error) {
	if !m.registered[slackID] {
		return types.DailyStatistics{}, service.ErrNotRegistered
	}
	return types.DailyStatistics{Day: day, Ranked: true, Entry: types.Entry{Rank: 1, DailyStars: 2, TotalSeconds: 61}}, nil
}

func (m *mockService) OverallStatistics(_ context.Context, slackID string) (types.OverallStatistics, error) {
	if !m.registered[slackID] {
		return types.OverallStatistics{}, service.ErrNotRegistered
	}
	return types.OverallStatistics{Ranked: true, Entry: types.Entry{Rank: 2, Stars: 10, OverallSeconds: 3600}}, nil
}

func (m *mockService) Register(_ context.Context, p model.Participant) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.mu.Lock()
	m.saved = append(m.saved, p)
	m.mu.Unlock()
	return nil
}

func (m *mockService) RecordStart(_ context.Context, slackID string, day int, now time.Time) (model.StartOverride, error) {
	if !m.registered[slackID] {
		return model.StartOverride{}, service.ErrNotRegistered
	}
	o := model.StartOverride{AocID: "1", Day: day, StartTS: now.Unix()}
	m.mu.Lock()
	m.starts = append(m.starts, o)
	m.mu.Unlock()
	return o, nil
}

func (m *mockService) IsAdmin(slackID string) bool { return slackID == "UADMIN" }

func (m *mockService) Calendar() calendar.Calendar { return calendar.New(2024) }

type mockMessenger struct {
	mu      sync.Mutex
	calls   []string
	channel string
	ts      string
	err     error
}

func (m *mockMessenger) record(call, channel, ts string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	m.channel, m.ts = channel, ts
	return m.err
}

func (m *mockMessenger) Post(_ context.Context, channel, _ string, _ []slackgo.Block) (string, error) {
	return "1.1", m.record("post", channel, "")
}

func (m *mockMessenger) Update(_ context.Context, channel, ts, _ string, _ []slackgo.Block) error {
	return m.record("update", channel, ts)
}

func (m *mockMessenger) Delete(_ context.Context, channel, ts string) error {
	return m.record("delete", channel, ts)
}

func (m *mockMessenger) OpenRegistration(_ context.Context, triggerID, _ string) error {
	return m.record("open", "", triggerID)
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func signedRequest(path string, form url.Values, secret string, ts time.Time) *http.Request {
	body := form.Encode()
	stamp := strconv.FormatInt(ts.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + stamp + ":" + body))

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Slack-Request-Timestamp", stamp)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func command(user, text string) url.Values {
	return url.Values{
		"command":    {"/aoc"},
		"text":       {text},
		"user_id":    {user},
		"channel_id": {"C1"},
		"trigger_id": {"T1"},
	}
}

func interaction(payload string) url.Values {
	return url.Values{"payload": {payload}}
}

func decodeMsg(w *httptest.ResponseRecorder) slackgo.Msg {
	var msg slackgo.Msg
	So(json.Unmarshal(w.Body.Bytes(), &msg), ShouldBeNil)
	return msg
}

type fixture struct {
	svc       *mockService
	messenger *mockMessenger
	handler   http.Handler
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{svc: newMockService(), messenger: &mockMessenger{}, now: time.Now()}
	server := api.NewServer(f.svc, f.messenger, &mockStatsProvider{stats: map[string]any{"participants": 2}}, signingSecret,
		api.WithClock(func() time.Time { return f.now }),
	)
	f.handler = server.Handler()
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestSignatureVerification(t *testing.T) {
	Convey("Given the Slack endpoints", t, func() {
		f := newFixture()

		Convey("When the signature uses another secret", func() {
			w := f.do(signedRequest("/slack/commands", command("U1", "help"), "wrong", time.Now()))

			Convey("Then 401 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the request is older than five minutes", func() {
			w := f.do(signedRequest("/slack/interactions", interaction("{}"), signingSecret, time.Now().Add(-10*time.Minute)))

			Convey("Then 401 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the headers are missing", func() {
			req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader("text=help"))
			w := f.do(req)

			Convey("Then 401 should be returned with a request id", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})
	})
}

func TestCommands(t *testing.T) {
	Convey("Given a signed slash command", t, func() {
		f := newFixture()
		run := func(user, text string) *httptest.ResponseRecorder {
			return f.do(signedRequest("/slack/commands", command(user, text), signingSecret, time.Now()))
		}

		Convey("When asking for help", func() {
			w := run("U1", "help")

			Convey("Then the usage should be returned ephemerally", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				msg := decodeMsg(w)
				So(msg.ResponseType, ShouldEqual, slackgo.ResponseTypeEphemeral)
				So(msg.Text, ShouldEqual, slack.Help)
			})
		})

		Convey("When registering", func() {
			w := run("U2", "register")

			Convey("Then the modal should be opened with the trigger id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldEqual, 0)
				So(f.messenger.calls, ShouldResemble, []string{"open"})
				So(f.messenger.ts, ShouldEqual, "T1")
			})
		})

		Convey("When recording a start", func() {
			w := run("U1", "start 5")

			Convey("Then the start should be stored and confirmed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(f.svc.starts, ShouldHaveLength, 1)
				So(f.svc.starts[0].StartTS, ShouldEqual, f.now.Unix())
				So(w.Body.String(), ShouldContainSubstring, "adventofcode.com/2024/day/5")
			})
		})

		Convey("When the start command comes from a dedicated slash command", func() {
			form := command("U1", "7")
			form.Set("command", "/aoc-start")
			w := f.do(signedRequest("/slack/commands", form, signingSecret, time.Now()))

			Convey("Then the same subcommand should run", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(f.svc.starts, ShouldHaveLength, 1)
				So(f.svc.starts[0].Day, ShouldEqual, 7)
			})
		})

		Convey("When the day is invalid", func() {
			for _, text := range []string{"start", "start 0", "daily 26", "daily abc", "leaderboard 3.5"} {
				w := run("UADMIN", text)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeMsg(w).Text, ShouldEqual, slack.MsgInvalidDay)
			}

			Convey("Then nothing should be recorded", func() {
				So(f.svc.starts, ShouldBeEmpty)
				So(f.messenger.calls, ShouldBeEmpty)
			})
		})

		Convey("When an unregistered user asks for statistics", func() {
			daily := decodeMsg(run("U9", "daily 3"))
			overall := decodeMsg(run("U9", "overall"))
			start := decodeMsg(run("U9", "start 3"))

			Convey("Then they should be told to register", func() {
				So(daily.Text, ShouldEqual, slack.MsgNotRegistered)
				So(overall.Text, ShouldEqual, slack.MsgNotRegistered)
				So(start.Text, ShouldEqual, slack.MsgNotRegistered)
			})
		})

		Convey("When a registered user asks for statistics", func() {
			w := run("U1", "daily 3")

			Convey("Then the statistics blocks should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "*Rank:* 1")
				So(w.Body.String(), ShouldContainSubstring, "00:01:01")
			})
		})

		Convey("When a non admin posts a leaderboard", func() {
			msg := decodeMsg(run("U1", "leaderboard 3"))

			Convey("Then the request should be refused", func() {
				So(msg.Text, ShouldEqual, slack.MsgAdminCommand)
				So(f.messenger.calls, ShouldBeEmpty)
			})
		})

		Convey("When the admin posts a leaderboard", func() {
			w := run("UADMIN", "leaderboard 3")

			Convey("Then it should be posted to the channel", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(f.messenger.calls, ShouldResemble, []string{"post"})
				So(f.messenger.channel, ShouldEqual, "C1")
				So(f.svc.lastDay, ShouldEqual, 3)
			})
		})

		Convey("When the leaderboard cannot be built", func() {
			f.svc.lbErr = errors.New("remote down")
			w := run("UADMIN", "leaderboard 3")

			Convey("Then a generic message should be returned with 200", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeMsg(w).Text, ShouldEqual, slack.MsgGeneric)
			})
		})

		Convey("When the subcommand is unknown", func() {
			msg := decodeMsg(run("U1", "dance"))

			Convey("Then the help should be shown", func() {
				So(msg.Text, ShouldStartWith, "Unknown command `dance`.")
			})
		})
	})
}

func TestInteractions(t *testing.T) {
	Convey("Given a signed interaction", t, func() {
		f := newFixture()
		run := func(payload string) *httptest.ResponseRecorder {
			return f.do(signedRequest("/slack/interactions", interaction(payload), signingSecret, time.Now()))
		}
		refresh := func(user string) string {
			return `{"type":"message_action","callback_id":"refresh-leaderboard","user":{"id":"` + user + `"},` +
				`"channel":{"id":"C1"},"message_ts":"1.5","message":{"ts":"1.5","text":"Advent of Code leaderboard for Day 9"}}`
		}

		Convey("When the admin refreshes a leaderboard", func() {
			w := run(refresh("UADMIN"))

			Convey("Then the message should be updated in place", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(f.messenger.calls, ShouldResemble, []string{"update"})
				So(f.messenger.ts, ShouldEqual, "1.5")
				So(f.svc.lastDay, ShouldEqual, 9)
			})
		})

		Convey("When someone else refreshes a leaderboard", func() {
			msg := decodeMsg(run(refresh("U1")))

			Convey("Then the action should be refused", func() {
				So(msg.Text, ShouldEqual, slack.MsgAdminAction)
				So(f.messenger.calls, ShouldBeEmpty)
			})
		})

		Convey("When the admin deletes a leaderboard", func() {
			w := run(`{"type":"message_action","callback_id":"delete-leaderboard","user":{"id":"UADMIN"},"channel":{"id":"C1"},"message_ts":"2.5"}`)

			Convey("Then the message should be deleted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(f.messenger.calls, ShouldResemble, []string{"delete"})
				So(f.messenger.ts, ShouldEqual, "2.5")
			})
		})

		Convey("When a block action arrives", func() {
			w := run(`{"type":"block_actions","user":{"id":"U1"}}`)

			Convey("Then it should be acknowledged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldEqual, 0)
			})
		})

		registration := `{"type":"view_submission","user":{"id":"U2"},"view":{` +
			`"private_metadata":"{\"type\":\"registration\",\"data\":{\"slackId\":\"U2\"}}",` +
			`"state":{"values":{` +
			`"aoc_id_block":{"aoc_id":{"type":"plain_text_input","value":"1234567"}},` +
			`"division_block":{"division":{"type":"radio_buttons","selected_option":{"value":"fun"}}},` +
			`"ai_usage_block":{"ai_usage":{"type":"radio_buttons","selected_option":{"value":"none"}}}}}}}`

		Convey("When the registration modal is submitted", func() {
			w := run(registration)

			Convey("Then the participant should be registered", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(f.svc.saved, ShouldHaveLength, 1)
				So(f.svc.saved[0].AocID, ShouldEqual, "1234567")
				So(f.svc.saved[0].Division, ShouldEqual, model.DivisionFun)
			})
		})

		Convey("When the aoc id belongs to someone else", func() {
			f.svc.registerErr = repository.ErrConflict
			w := run(registration)

			Convey("Then the modal should show a field error", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp slackgo.ViewSubmissionResponse
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ResponseAction, ShouldEqual, slackgo.RAErrors)
				So(resp.Errors[slack.AocIDBlock], ShouldEqual, slack.MsgAocIDTaken)
			})
		})

		Convey("When the payload type is unknown", func() {
			w := run(`{"type":"shortcut"}`)

			Convey("Then a generic message should be returned with 200", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeMsg(w).Text, ShouldEqual, slack.MsgGeneric)
			})
		})

		Convey("When the payload is not JSON", func() {
			w := run("nope")

			Convey("Then 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestLeaderboardEndpoint(t *testing.T) {
	Convey("Given the JSON leaderboard endpoint", t, func() {
		f := newFixture()
		f.now = time.Date(2024, time.December, 4, 12, 0, 0, 0, time.UTC)

		Convey("When requesting a day", func() {
			w := f.do(httptest.NewRequest(http.MethodGet, "/leaderboard?day=2", nil))

			Convey("Then the leaderboard should be encoded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var lb types.Leaderboard
				So(json.Unmarshal(w.Body.Bytes(), &lb), ShouldBeNil)
				So(lb.Day, ShouldEqual, 2)
				So(lb.LeaderboardID, ShouldEqual, "4242")
			})
		})

		Convey("When no day is given", func() {
			w := f.do(httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

			Convey("Then the current day should be used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(f.svc.lastDay, ShouldEqual, 4)
			})
		})

		Convey("When the day is invalid", func() {
			w := f.do(httptest.NewRequest(http.MethodGet, "/leaderboard?day=30", nil))

			Convey("Then 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the leaderboard fails", func() {
			f.svc.lbErr = errors.New("boom")
			w := f.do(httptest.NewRequest(http.MethodGet, "/leaderboard?day=1", nil))

			Convey("Then 500 should be returned without the cause", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldNotContainSubstring, "boom")
			})
		})

		Convey("When requesting health and stats", func() {
			health := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
			stats := f.do(httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then both should answer", func() {
				So(health.Code, ShouldEqual, http.StatusOK)
				So(stats.Code, ShouldEqual, http.StatusOK)
				So(stats.Body.String(), ShouldContainSubstring, `"participants":2`)
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		cause := errors.New("cause")

		Convey("Then kinds and causes should both match", func() {
			err := api.WrapKind("api.x", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.x: bad request: cause")
			So(api.Wrap("api.x", nil), ShouldBeNil)
			So(api.NewKind("api.y", api.ErrUnauthorized).Error(), ShouldEqual, "api.y: invalid slack signature")
		})
	})
}
