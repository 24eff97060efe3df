package http

import (
	"math/rand/v2"
	"sort"
	"strings"
	"testing"
	"time"

	"unscramble-be/internal/config"
	"unscramble-be/internal/leaderboard"
	"unscramble-be/internal/service"
	"unscramble-be/internal/service/game"
	"unscramble-be/internal/state"
	"unscramble-be/internal/words"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/httptest"
	"github.com/stretchr/testify/require"
)

var testWords = []string{"cat", "dog"}

func newTestApp(t *testing.T) *iris.Application {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.MaxNoOfWords = 2
	cfg.LogLevel = "error"

	bank, err := words.NewBank(testWords)
	require.NoError(t, err)

	svc, err := service.NewSessionService(bank, leaderboard.NewMemoryStore(cfg.LeaderboardSize), service.Options{
		MaxNoOfWords:  cfg.MaxNoOfWords,
		ScoreIncrease: cfg.ScoreIncrease,
		SessionTTL:    time.Minute,
		NewRand: func() game.Rand {
			return rand.New(rand.NewPCG(3, 5))
		},
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return NewApp(state.NewAppState(cfg, svc))
}

func solve(scrambled string) string {
	sorted := func(s string) string {
		l := strings.Split(s, "")
		sort.Strings(l)
		return strings.Join(l, "")
	}

	for _, w := range testWords {
		if sorted(w) == sorted(scrambled) {
			return w
		}
	}

	return ""
}

func TestSessionLifecycle(t *testing.T) {
	e := httptest.New(t, newTestApp(t))

	created := e.POST("/api/v1/sessions").
		WithJSON(map[string]string{"player_name": "Alice"}).
		Expect().
		Status(iris.StatusCreated).
		JSON().Object()

	id := created.Value("session_id").String().Raw()
	st := created.Value("state").Object()
	st.Value("stage").String().IsEqual(game.STAGE_PLAYING)
	st.Value("word_count").Number().IsEqual(1)
	st.Value("max_no_of_words").Number().IsEqual(2)
	st.Value("score").Number().IsEqual(0)

	scrambled := st.Value("scrambled_word").String().Raw()
	require.NotEmpty(t, solve(scrambled))

	// 猜错时保持当前单词
	wrong := e.POST("/api/v1/sessions/{id}/submit", id).
		WithJSON(map[string]string{"word": "nope"}).
		Expect().
		Status(iris.StatusOK).
		JSON().Object()
	wrong.Value("correct").Boolean().IsFalse()
	wrong.Value("state").Object().Value("scrambled_word").String().IsEqual(scrambled)

	right := e.POST("/api/v1/sessions/{id}/submit", id).
		WithJSON(map[string]string{"word": strings.ToUpper(solve(scrambled))}).
		Expect().
		Status(iris.StatusOK).
		JSON().Object()
	right.Value("correct").Boolean().IsTrue()
	right.Value("state").Object().Value("score").Number().IsEqual(20)
	right.Value("state").Object().Value("word_count").Number().IsEqual(2)

	skipped := e.POST("/api/v1/sessions/{id}/skip", id).
		Expect().
		Status(iris.StatusOK).
		JSON().Object()
	skipped.Value("state").Object().Value("stage").String().IsEqual(game.STAGE_FINISHED)
	skipped.Value("state").Object().Value("score").Number().IsEqual(20)

	e.POST("/api/v1/sessions/{id}/skip", id).
		Expect().
		Status(iris.StatusBadRequest).
		JSON().Object().ContainsKey("error")

	e.GET("/api/v1/sessions/{id}", id).
		Expect().
		Status(iris.StatusOK).
		JSON().Object().Value("stage").String().IsEqual(game.STAGE_FINISHED)

	restarted := e.POST("/api/v1/sessions/{id}/restart", id).
		Expect().
		Status(iris.StatusOK).
		JSON().Object().Value("state").Object()
	restarted.Value("stage").String().IsEqual(game.STAGE_PLAYING)
	restarted.Value("score").Number().IsEqual(0)
	restarted.Value("word_count").Number().IsEqual(1)

	e.DELETE("/api/v1/sessions/{id}", id).
		Expect().
		Status(iris.StatusOK).
		JSON().Object().Value("session_id").String().IsEqual(id)

	e.GET("/api/v1/sessions/{id}", id).
		Expect().
		Status(iris.StatusNotFound)
}

func TestLeaderboardAfterRound(t *testing.T) {
	e := httptest.New(t, newTestApp(t))

	id := e.POST("/api/v1/sessions").
		WithJSON(map[string]string{"player_name": "Bob"}).
		Expect().
		Status(iris.StatusCreated).
		JSON().Object().Value("session_id").String().Raw()

	e.POST("/api/v1/sessions/{id}/skip", id).Expect().Status(iris.StatusOK)
	e.POST("/api/v1/sessions/{id}/skip", id).Expect().Status(iris.StatusOK)

	require.Eventually(t, func() bool {
		resp := e.GET("/api/v1/leaderboard").
			Expect().
			Status(iris.StatusOK).
			JSON().Object()

		return len(resp.Value("entries").Array().Iter()) == 1
	}, time.Second, 20*time.Millisecond)

	entry := e.GET("/api/v1/leaderboard").
		WithQuery("limit", 5).
		Expect().
		Status(iris.StatusOK).
		JSON().Object().Value("entries").Array().Value(0).Object()

	entry.Value("rank").Number().IsEqual(1)
	entry.Value("player_name").String().IsEqual("Bob")
	entry.Value("score").Number().IsEqual(0)
	entry.Value("words_played").Number().IsEqual(2)
}

func TestBadRequests(t *testing.T) {
	e := httptest.New(t, newTestApp(t))

	e.POST("/api/v1/sessions").
		WithJSON(map[string]string{"player_name": strings.Repeat("x", 64)}).
		Expect().
		Status(iris.StatusBadRequest)

	e.POST("/api/v1/sessions/{id}/submit", "missing").
		WithJSON(map[string]string{"word": "cat"}).
		Expect().
		Status(iris.StatusNotFound)

	id := e.POST("/api/v1/sessions").
		Expect().
		Status(iris.StatusCreated).
		JSON().Object().Value("session_id").String().Raw()

	e.POST("/api/v1/sessions/{id}/submit", id).
		WithText("not json").
		Expect().
		Status(iris.StatusBadRequest)
}

func TestMetricsEndpoint(t *testing.T) {
	e := httptest.New(t, newTestApp(t))

	e.POST("/api/v1/sessions").Expect().Status(iris.StatusCreated)

	e.GET("/metrics").
		Expect().
		Status(iris.StatusOK).
		Body().Contains("go_goroutines")
}
