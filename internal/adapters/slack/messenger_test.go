package slack_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/aocbot/aocbot/internal/adapters/slack"
	"github.com/aocbot/aocbot/internal/domain/types"
)

func leaderboardForDay(day int) *types.Leaderboard {
	return &types.Leaderboard{Event: 2024, Day: day, LeaderboardID: "1"}
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.URL.Path)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.fail {
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
		return
	}
	switch r.URL.Path {
	case "/views.open":
		_, _ = w.Write([]byte(`{"ok":true,"view":{"id":"V1"}}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C1","ts":"1733202000.000100"}`))
	}
}

func TestMessenger(t *testing.T) {
	Convey("Given a messenger against a fake Web API", t, func() {
		ctx := context.Background()
		api := &fakeAPI{}
		srv := httptest.NewServer(api)
		defer srv.Close()

		m := slack.NewMessenger("xoxb-test", slack.WithAPIURL(srv.URL+"/"))
		blocks := slack.NewRenderer(false).Leaderboard(leaderboardForDay(1))

		Convey("When posting a leaderboard", func() {
			ts, err := m.Post(ctx, "C1", slack.LeaderboardText(1), blocks)

			Convey("Then the message timestamp should be returned", func() {
				So(err, ShouldBeNil)
				So(ts, ShouldEqual, "1733202000.000100")
				So(api.calls, ShouldResemble, []string{"/chat.postMessage"})
			})
		})

		Convey("When updating, deleting and opening a view", func() {
			So(m.Update(ctx, "C1", "1733202000.000100", slack.LeaderboardText(1), blocks), ShouldBeNil)
			So(m.Delete(ctx, "C1", "1733202000.000100"), ShouldBeNil)
			So(m.OpenRegistration(ctx, "trigger", "U1"), ShouldBeNil)

			Convey("Then each Web API method should be called", func() {
				So(api.calls, ShouldResemble, []string{"/chat.update", "/chat.delete", "/views.open"})
			})
		})

		Convey("When the Web API reports an error", func() {
			api.fail = true
			_, err := m.Post(ctx, "C1", "text", blocks)

			Convey("Then the error should be returned", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "channel_not_found")
			})
		})
	})
}
