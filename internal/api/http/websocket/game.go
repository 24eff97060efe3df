package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"unscramble-be/internal/service"
	"unscramble-be/internal/service/game"
	"unscramble-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

func PlayGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		sessionID := ctx.URLParam("session_id")
		if sessionID == "" {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "缺少 session_id",
			})
			return
		}

		sessionSvc := appState.SessionSvc

		// 升级前先确认会话存在，便于返回正常的 HTTP 错误
		if _, err := sessionSvc.GetState(ctx.Request().Context(), sessionID); err != nil {
			status := iris.StatusBadRequest
			if errors.Is(err, service.ErrSessionNotFound) {
				status = iris.StatusNotFound
			}

			ctx.StatusCode(status)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			return
		}

		defer conn.Close()

		clientIP := ctx.RemoteAddr()

		conn.SetReadLimit(MAX_MESSAGE_SIZE)
		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		// 状态机推送与应答，玩家退出或会话清理时由状态机关闭
		respCh := make(chan game.ResponseWrapper, 64)
		// 连接自身产生的消息（快照、解析错误），只由本连接写入
		localCh := make(chan game.ResponseWrapper, 16)

		sub := game.Subscriber{
			ID:     game.GenShortID(),
			RespCh: respCh,
		}

		snapshot, err := sessionSvc.Attach(context.Background(), sessionID, sub)
		if err != nil {
			zap.L().Error(
				"订阅会话失败",
				zap.String("client_ip", clientIP),
				zap.String("session_id", sessionID),
				zap.Error(err),
			)

			conn.WriteJSON(game.WrapErrResponse(err.Error()))
			return
		}

		localCh <- game.WrapResponse(game.RESP_ATTACH, snapshot)

		zap.L().Info(
			"玩家通过 WebSocket 接入会话",
			zap.String("client_ip", clientIP),
			zap.String("session_id", sessionID),
			zap.String("subscriber_id", sub.ID),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		writerExitedCh := make(chan struct{})

		// 写入协程
		go func() {
			defer close(writerExitedCh)

			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			write := func(resp game.ResponseWrapper) bool {
				conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

				if err := conn.WriteJSON(resp); err != nil {
					zap.L().Error(
						"发送消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
					return false
				}

				zap.L().Debug(
					"发送消息",
					zap.String("client_ip", clientIP),
					zap.String("response_type", resp.RespType),
				)
				return true
			}

			for {
				select {
				case <-writeDoneCh:
					zap.L().Debug(
						"WebSocket写入协程退出",
						zap.String("client_ip", clientIP),
					)
					return

				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						zap.L().Error(
							"发送心跳失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

				case resp := <-localCh:
					if !write(resp) {
						return
					}

				case resp, ok := <-respCh:
					// 检测到channel已关闭（会话结束时状态机关闭了通道）
					if !ok {
						zap.L().Info(
							"响应通道已关闭，关闭连接",
							zap.String("client_ip", clientIP),
						)

						conn.WriteControl(
							websocket.CloseMessage,
							websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
							time.Now().Add(time.Second),
						)
						// 关闭底层连接让读循环返回，Close 可与读方法并发调用
						conn.Close()
						return
					}

					if !write(resp) {
						return
					}
				}
			}
		}()

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
				) {
					zap.L().Debug(
						"读取消息结束",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			var wrapper game.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil || !isClientRequest(wrapper.ReqType) {
				zap.L().Warn(
					"收到无效的请求",
					zap.String("client_ip", clientIP),
					zap.String("request_type", wrapper.ReqType),
				)

				pushLocal(localCh, game.WrapErrResponse(game.ErrBadRequest.Error()))
				continue
			}

			wrapper.ReplyCh = respCh

			// 将解析后的请求发送到游戏状态机
			if err := sessionSvc.Send(context.Background(), sessionID, wrapper); err != nil {
				zap.L().Warn(
					"发送请求到游戏状态机失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				pushLocal(localCh, game.WrapErrResponse(err.Error()))

				if errors.Is(err, service.ErrSessionClosed) || errors.Is(err, service.ErrSessionNotFound) {
					break
				}
			}
		}

		close(writeDoneCh)
		<-writerExitedCh

		// 读循环退出，取消订阅；会话已结束时忽略错误
		detachCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := sessionSvc.Detach(detachCtx, sessionID, sub.ID); err != nil &&
			!errors.Is(err, service.ErrSessionClosed) &&
			!errors.Is(err, service.ErrSessionNotFound) {
			zap.L().Warn(
				"取消订阅失败",
				zap.String("session_id", sessionID),
				zap.String("subscriber_id", sub.ID),
				zap.Error(err),
			)
		}

		zap.L().Info(
			"WebSocket连接处理完成",
			zap.String("client_ip", clientIP),
			zap.String("session_id", sessionID),
		)
	}
}

func pushLocal(ch chan game.ResponseWrapper, resp game.ResponseWrapper) {
	select {
	case ch <- resp:
	default:
		zap.L().Warn("本地消息通道已满，丢弃消息")
	}
}
