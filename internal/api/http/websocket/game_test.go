package websocket_test

import (
	"context"
	"math/rand/v2"
	nethttptest "net/http/httptest"
	"strings"
	"testing"
	"time"

	apihttp "unscramble-be/internal/api/http"
	"unscramble-be/internal/config"
	"unscramble-be/internal/leaderboard"
	"unscramble-be/internal/service"
	"unscramble-be/internal/service/dto"
	"unscramble-be/internal/service/game"
	"unscramble-be/internal/state"
	"unscramble-be/internal/words"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireResponse struct {
	RespType string         `json:"response_type"`
	Data     map[string]any `json:"data"`
	ErrMsg   string         `json:"error_message"`
}

func newTestServer(t *testing.T) (*nethttptest.Server, *service.SessionService) {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.MaxNoOfWords = 2
	cfg.LogLevel = "error"

	bank, err := words.NewBank([]string{"cat", "dog"})
	require.NoError(t, err)

	svc, err := service.NewSessionService(bank, leaderboard.NewMemoryStore(10), service.Options{
		MaxNoOfWords:  cfg.MaxNoOfWords,
		ScoreIncrease: cfg.ScoreIncrease,
		NewRand: func() game.Rand {
			return rand.New(rand.NewPCG(9, 9))
		},
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	app := apihttp.NewApp(state.NewAppState(cfg, svc))
	require.NoError(t, app.Build())

	srv := nethttptest.NewServer(app)
	t.Cleanup(srv.Close)

	return srv, svc
}

func dial(t *testing.T, srv *nethttptest.Server, sessionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/play?session_id=" + sessionID

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func read(t *testing.T, conn *websocket.Conn) wireResponse {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var resp wireResponse
	require.NoError(t, conn.ReadJSON(&resp))

	return resp
}

func TestPlayGame_SnapshotAndRequests(t *testing.T) {
	srv, svc := newTestServer(t)

	created, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{PlayerName: "Alice"})
	require.NoError(t, err)

	conn := dial(t, srv, created.SessionID)

	snapshot := read(t, conn)
	require.Equal(t, game.RESP_ATTACH, snapshot.RespType)
	assert.Equal(t, created.State.ScrambledWord, snapshot.Data["scrambled_word"])

	require.NoError(t, conn.WriteJSON(map[string]any{
		"request_type": game.REQ_SUBMIT_WORD,
		"data":         map[string]string{"word": "wrong"},
	}))

	resp := read(t, conn)
	require.Equal(t, game.RESP_SUBMIT_WORD, resp.RespType)
	assert.Equal(t, false, resp.Data["correct"])

	// 内部请求类型不允许由客户端发送
	require.NoError(t, conn.WriteJSON(map[string]any{
		"request_type": game.REQ_DETACH,
		"data":         map[string]string{"subscriber_id": "x"},
	}))

	resp = read(t, conn)
	assert.Equal(t, game.RESP_ERROR, resp.RespType)

	// 通过 HTTP 操作同一会话时，WebSocket 收到推送
	_, err = svc.SkipWord(context.Background(), created.SessionID)
	require.NoError(t, err)

	resp = read(t, conn)
	assert.Equal(t, game.RESP_SKIP_WORD, resp.RespType)

	require.NoError(t, conn.WriteJSON(map[string]any{"request_type": game.REQ_SKIP_WORD}))

	// 最后一个单词跳过后收到跳过应答与结算
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		seen[read(t, conn).RespType] = true
	}
	assert.True(t, seen[game.RESP_SKIP_WORD])
	assert.True(t, seen[game.RESP_GAME_RESULT])

	require.NoError(t, conn.WriteJSON(map[string]any{"request_type": game.REQ_EXIT_GAME}))

	resp = read(t, conn)
	assert.Equal(t, game.RESP_EXIT_GAME, resp.RespType)

	// 会话关闭后服务端关闭连接
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
}

func TestPlayGame_UnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/play?session_id=missing"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestPlayGame_ConnectionClosedWhenSessionCloses(t *testing.T) {
	srv, svc := newTestServer(t)

	created, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{PlayerName: "Bob"})
	require.NoError(t, err)

	conn := dial(t, srv, created.SessionID)
	require.Equal(t, game.RESP_ATTACH, read(t, conn).RespType)

	_, err = svc.CloseSession(context.Background(), created.SessionID)
	require.NoError(t, err)

	assert.Equal(t, game.RESP_EXIT_GAME, read(t, conn).RespType)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
}
