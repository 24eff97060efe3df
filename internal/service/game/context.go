package game

import (
	"go.uber.org/zap"
)

type GameContext struct {
	SessionID  string
	PlayerName string
	GameStage  string

	Round       *Round
	Subscribers map[string]*Subscriber
	Hooks       Hooks
}

func (gc *GameContext) Snapshot() GameStateResponse {
	return GameStateResponse{
		SessionID:     gc.SessionID,
		PlayerName:    gc.PlayerName,
		Stage:         gc.GameStage,
		ScrambledWord: gc.Round.ScrambledWord,
		WordCount:     gc.Round.WordCount,
		MaxNoOfWords:  gc.Round.MaxNoOfWords,
		Score:         gc.Round.Score,
	}
}

func (gc *GameContext) Result() GameResultResponse {
	return GameResultResponse{
		SessionID:   gc.SessionID,
		PlayerName:  gc.PlayerName,
		FinalScore:  gc.Round.Score,
		WordsPlayed: gc.Round.WordCount,
	}
}

func (gc *GameContext) BroadcastResp(resp ResponseWrapper) {
	for _, s := range gc.Subscribers {
		select {
		case s.RespCh <- resp:
			zap.L().Debug(
				"成功发送广播响应",
				zap.String("session_id", gc.SessionID),
				zap.String("subscriber_id", s.ID),
				zap.String("response_type", resp.RespType),
			)
		default:
			zap.L().Warn(
				"发送广播响应失败：订阅者响应通道已满",
				zap.String("session_id", gc.SessionID),
				zap.String("subscriber_id", s.ID),
			)
		}
	}
}

// Reply 向请求方发送应答，请求方没有应答通道时忽略
func (gc *GameContext) Reply(req RequestWrapper, resp ResponseWrapper) {
	if req.ReplyCh == nil {
		return
	}

	select {
	case req.ReplyCh <- resp:
		zap.L().Debug(
			"发送应答成功",
			zap.String("session_id", gc.SessionID),
			zap.String("response_type", resp.RespType),
		)
	default:
		zap.L().Warn(
			"发送应答失败：应答通道已满",
			zap.String("session_id", gc.SessionID),
			zap.String("response_type", resp.RespType),
		)
	}
}

// ReplyAndBroadcast 应答请求方，并把同一响应推送给其余订阅者
func (gc *GameContext) ReplyAndBroadcast(req RequestWrapper, resp ResponseWrapper) {
	gc.Reply(req, resp)

	for _, s := range gc.Subscribers {
		if s.RespCh == req.ReplyCh {
			continue
		}

		select {
		case s.RespCh <- resp:
		default:
			zap.L().Warn(
				"推送响应失败：订阅者响应通道已满",
				zap.String("session_id", gc.SessionID),
				zap.String("subscriber_id", s.ID),
			)
		}
	}
}

func (gc *GameContext) closeSubscribers() {
	for id, s := range gc.Subscribers {
		close(s.RespCh)
		delete(gc.Subscribers, id)
	}
}
