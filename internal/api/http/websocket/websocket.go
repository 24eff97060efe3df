package websocket

import (
	"net/http"
	"time"

	"unscramble-be/internal/service/game"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// NOTE: 暂时允许所有来源
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	// 心跳间隔
	HEARTBEAT_INTERVAL = 30 * time.Second
	// 心跳超时时间
	HEARTBEAT_TIMEOUT = 45 * time.Second
	// 单条消息的最大字节数
	MAX_MESSAGE_SIZE = 4096
)

var heartbeatHandler = func(conn *websocket.Conn) func(string) error {
	return func(string) error {
		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		return nil
	}
}

// 客户端可以通过 WebSocket 发送的请求类型，内部请求不允许由客户端构造
var clientRequestTypes = map[string]struct{}{
	game.REQ_SUBMIT_WORD: {},
	game.REQ_SKIP_WORD:   {},
	game.REQ_RESTART:     {},
	game.REQ_GET_STATE:   {},
	game.REQ_EXIT_GAME:   {},
}

func isClientRequest(reqType string) bool {
	_, ok := clientRequestTypes[reqType]
	return ok
}
