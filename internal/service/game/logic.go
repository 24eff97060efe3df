package game

import (
	"errors"

	"go.uber.org/zap"
)

var (
	ErrBadRequest          = errors.New("无效的请求格式")
	ErrUnsupportedReq      = errors.New("无法处理请求：当前阶段不支持该请求类型")
	ErrRoundFinished       = errors.New("本局已结束，请重新开始")
	ErrSessionClosed       = errors.New("会话已关闭")
	ErrUnknownSubscriber   = errors.New("订阅者不存在")
	ErrDuplicateSubscriber = errors.New("订阅者已存在")
)

type StageHandler interface {
	Stage() string

	OnEnter(ctx *GameContext)
	OnHandle(ctx *GameContext, req RequestWrapper) error
	OnExit(ctx *GameContext)

	SetOnSwitch(func(nextStage string))
}

// 进行阶段，展示打乱的单词并接受猜测或跳过
type playStageHandler struct {
	onSwitch func(string)
}

func NewPlayStageHandler() *playStageHandler {
	return &playStageHandler{}
}

func (psh *playStageHandler) Stage() string {
	return STAGE_PLAYING
}

func (psh *playStageHandler) OnEnter(ctx *GameContext) {
	ctx.GameStage = STAGE_PLAYING

	if ctx.Hooks.OnRoundStarted != nil {
		ctx.Hooks.OnRoundStarted(ctx.SessionID)
	}

	zap.L().Debug(
		"新一局开始",
		zap.String("session_id", ctx.SessionID),
		zap.Int("max_no_of_words", ctx.Round.MaxNoOfWords),
	)
}

func (psh *playStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req, psh.onSwitch); handled {
		return err
	}

	if req.ReqType == REQ_SUBMIT_WORD {
		submitReq := TryUnwrapSubmitWordRequest(req)
		if submitReq == nil {
			return ErrBadRequest
		}

		correct := ctx.Round.IsUserWordCorrect(submitReq.Word)

		if ctx.Hooks.OnGuess != nil {
			ctx.Hooks.OnGuess(ctx.SessionID, correct)
		}

		// 猜错时保持当前单词，客户端据此提示重试
		if correct && !ctx.Round.NextWord() {
			psh.onSwitch(STAGE_FINISHED)
		}

		ctx.ReplyAndBroadcast(req, WrapResponse(
			RESP_SUBMIT_WORD,
			SubmitWordResponse{
				Correct: correct,
				State:   ctx.Snapshot(),
			},
		))

		return nil
	}

	if req.ReqType == REQ_SKIP_WORD {
		if ctx.Hooks.OnSkip != nil {
			ctx.Hooks.OnSkip(ctx.SessionID)
		}

		if !ctx.Round.NextWord() {
			psh.onSwitch(STAGE_FINISHED)
		}

		ctx.ReplyAndBroadcast(req, WrapResponse(
			RESP_SKIP_WORD,
			SkipWordResponse{State: ctx.Snapshot()},
		))

		return nil
	}

	if req.ReqType == REQ_RESTART {
		ctx.Round.Reinitialize()

		if ctx.Hooks.OnRoundStarted != nil {
			ctx.Hooks.OnRoundStarted(ctx.SessionID)
		}

		ctx.ReplyAndBroadcast(req, WrapResponse(
			RESP_RESTART,
			RestartResponse{State: ctx.Snapshot()},
		))

		return nil
	}

	return ErrUnsupportedReq
}

func (psh *playStageHandler) OnExit(ctx *GameContext) {
}

func (psh *playStageHandler) SetOnSwitch(onSwitch func(string)) {
	psh.onSwitch = onSwitch
}

// 结束阶段，只接受重新开始与退出
type finishStageHandler struct {
	onSwitch func(string)
}

func NewFinishStageHandler() *finishStageHandler {
	return &finishStageHandler{}
}

func (fsh *finishStageHandler) Stage() string {
	return STAGE_FINISHED
}

func (fsh *finishStageHandler) OnEnter(ctx *GameContext) {
	result := ctx.Result()

	zap.L().Info(
		"本局结束",
		zap.String("session_id", ctx.SessionID),
		zap.String("player_name", ctx.PlayerName),
		zap.Int("final_score", result.FinalScore),
	)

	if ctx.Hooks.OnRoundFinished != nil {
		ctx.Hooks.OnRoundFinished(RoundResult{
			SessionID:   result.SessionID,
			PlayerName:  result.PlayerName,
			FinalScore:  result.FinalScore,
			WordsPlayed: result.WordsPlayed,
		})
	}

	ctx.BroadcastResp(WrapResponse(RESP_GAME_RESULT, result))
}

func (fsh *finishStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommonRequest(ctx, req, fsh.onSwitch); handled {
		return err
	}

	if req.ReqType == REQ_RESTART {
		// 先重置再切换，应答里携带的就是新一局的快照
		ctx.Round.Reinitialize()
		fsh.onSwitch(STAGE_PLAYING)

		ctx.ReplyAndBroadcast(req, WrapResponse(
			RESP_RESTART,
			RestartResponse{State: ctx.Snapshot()},
		))

		return nil
	}

	if req.ReqType == REQ_SUBMIT_WORD || req.ReqType == REQ_SKIP_WORD {
		return ErrRoundFinished
	}

	return ErrUnsupportedReq
}

func (fsh *finishStageHandler) OnExit(ctx *GameContext) {
}

func (fsh *finishStageHandler) SetOnSwitch(onSwitch func(string)) {
	fsh.onSwitch = onSwitch
}

// 关闭阶段，关闭所有订阅者通道后状态机退出
type closedStageHandler struct {
	onSwitch func(string)
}

func NewClosedStageHandler() *closedStageHandler {
	return &closedStageHandler{}
}

func (csh *closedStageHandler) Stage() string {
	return STAGE_CLOSED
}

func (csh *closedStageHandler) OnEnter(ctx *GameContext) {
	ctx.GameStage = STAGE_CLOSED
	ctx.closeSubscribers()
}

func (csh *closedStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	return ErrSessionClosed
}

func (csh *closedStageHandler) OnExit(ctx *GameContext) {
	// 关闭阶段是终态
	ctx.GameStage = STAGE_CLOSED
}

func (csh *closedStageHandler) SetOnSwitch(onSwitch func(string)) {
	csh.onSwitch = onSwitch
}

// handleCommonRequest 处理任何阶段都接受的请求，返回是否已处理
func handleCommonRequest(ctx *GameContext, req RequestWrapper, onSwitch func(string)) (bool, error) {
	switch req.ReqType {
	case REQ_GET_STATE:
		ctx.Reply(req, WrapResponse(RESP_GAME_STATE, ctx.Snapshot()))
		return true, nil

	case REQ_ATTACH:
		attachReq := TryUnwrapAttachRequest(req)
		if attachReq == nil {
			return true, ErrBadRequest
		}

		if err := onSubscriberAttach(ctx, attachReq.Subscriber); err != nil {
			return true, err
		}

		// 快照只发给请求方，由接入方决定如何转交给连接
		ctx.Reply(req, WrapResponse(RESP_ATTACH, ctx.Snapshot()))
		return true, nil

	case REQ_DETACH:
		detachReq := TryUnwrapDetachRequest(req)
		if detachReq == nil {
			return true, ErrBadRequest
		}

		if _, ok := ctx.Subscribers[detachReq.SubscriberID]; !ok {
			return true, ErrUnknownSubscriber
		}

		delete(ctx.Subscribers, detachReq.SubscriberID)
		ctx.Reply(req, WrapResponse(RESP_DETACH, detachReq))

		zap.L().Info(
			"订阅者已断开",
			zap.String("session_id", ctx.SessionID),
			zap.String("subscriber_id", detachReq.SubscriberID),
		)
		return true, nil

	case REQ_EXIT_GAME:
		resp := WrapResponse(
			RESP_EXIT_GAME,
			ExitGameResponse{
				SessionID:  ctx.SessionID,
				FinalScore: ctx.Round.Score,
			},
		)

		ctx.ReplyAndBroadcast(req, resp)
		onSwitch(STAGE_CLOSED)

		zap.L().Info(
			"玩家退出游戏",
			zap.String("session_id", ctx.SessionID),
			zap.String("player_name", ctx.PlayerName),
		)
		return true, nil
	}

	return false, nil
}

func onSubscriberAttach(ctx *GameContext, sub Subscriber) error {
	// 每条连接的订阅者 ID 都是新生成的，重复说明调用方有误
	if _, ok := ctx.Subscribers[sub.ID]; ok {
		return ErrDuplicateSubscriber
	}

	ctx.Subscribers[sub.ID] = &sub

	zap.L().Info(
		"订阅者已接入",
		zap.String("session_id", ctx.SessionID),
		zap.String("subscriber_id", sub.ID),
	)

	return nil
}
