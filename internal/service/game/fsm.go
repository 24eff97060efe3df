package game

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// GameMachine 是单个会话的游戏状态机，负责管理游戏状态和事件循环
type GameMachine struct {
	ctx     *GameContext
	handler StageHandler
	// 这是该会话所有请求汇总的通道
	reqCh chan RequestWrapper
	// 结束通道，外部关闭它以通知状态机退出事件循环
	doneCh chan struct{}
	// 事件循环退出后关闭
	exitedCh chan struct{}

	createdAt  time.Time
	lastActive atomic.Int64
	closed     atomic.Bool
}

func NewGameMachine(
	sessionID string,
	playerName string,
	round *Round,
	hooks Hooks,
	doneCh chan struct{},
) *GameMachine {
	ctx := &GameContext{
		SessionID:   sessionID,
		PlayerName:  playerName,
		GameStage:   STAGE_PLAYING,
		Round:       round,
		Subscribers: make(map[string]*Subscriber),
		Hooks:       hooks,
	}

	gm := &GameMachine{
		ctx:       ctx,
		handler:   NewPlayStageHandler(),
		reqCh:     make(chan RequestWrapper, 64),
		doneCh:    doneCh,
		exitedCh:  make(chan struct{}),
		createdAt: time.Now(),
	}

	gm.touch()
	gm.handler.SetOnSwitch(gm.onSwitch)

	return gm
}

func (gm *GameMachine) onSwitch(nextStage string) {
	gm.ctx.GameStage = nextStage
}

// InitialState 返回首个单词的快照，只能在 Start 之前调用
func (gm *GameMachine) InitialState() GameStateResponse {
	return gm.ctx.Snapshot()
}

func (gm *GameMachine) GetReqCh() chan<- RequestWrapper {
	return gm.reqCh
}

// Exited 在事件循环退出后关闭
func (gm *GameMachine) Exited() <-chan struct{} {
	return gm.exitedCh
}

func (gm *GameMachine) Start() {
	defer func() {
		gm.closed.Store(true)
		close(gm.exitedCh)

		// 游戏结束后，协程应当自动退出，释放资源
		zap.L().Info(
			"游戏状态机已结束",
			zap.String("session_id", gm.ctx.SessionID),
		)
	}()

	// 执行初始 handler 的 OnEnter
	gm.handler.OnEnter(gm.ctx)

	// 进入事件循环
	for {
		var req RequestWrapper

		select {
		case req = <-gm.reqCh:
			zap.L().Debug(
				"接收到客户端请求",
				zap.String("session_id", gm.ctx.SessionID),
				zap.String("request_type", req.ReqType),
			)
		case <-gm.doneCh:
			zap.L().Info(
				"收到退出信号，结束游戏状态机",
				zap.String("session_id", gm.ctx.SessionID),
			)

			gm.ctx.GameStage = STAGE_CLOSED
			gm.switchStage()
			gm.handler.OnEnter(gm.ctx)

			return
		}

		gm.touch()

		// 处理请求
		if err := gm.handler.OnHandle(gm.ctx, req); err != nil {
			zap.L().Debug(
				"处理请求失败",
				zap.Error(err),
				zap.String("stage", gm.handler.Stage()),
				zap.String("request_type", req.ReqType),
			)

			gm.ctx.Reply(req, WrapErrResponse(err.Error()))
		}

		// 检查状态是否发生变化
		if gm.ctx.GameStage != gm.handler.Stage() {
			// 状态发生变化，执行切换
			gm.switchStage()

			// 执行新阶段的 OnEnter
			gm.handler.OnEnter(gm.ctx)

			// 如果切换到了关闭阶段，退出循环
			if gm.ctx.GameStage == STAGE_CLOSED {
				return
			}
		}
	}
}

func (gm *GameMachine) switchStage() {
	// 执行当前 handler 的 OnExit
	gm.handler.OnExit(gm.ctx)

	// 根据新状态创建对应的 handler
	var newHandler StageHandler

	switch gm.ctx.GameStage {
	case STAGE_PLAYING:
		newHandler = NewPlayStageHandler()
	case STAGE_FINISHED:
		newHandler = NewFinishStageHandler()
	case STAGE_CLOSED:
		newHandler = NewClosedStageHandler()
	default:
		zap.L().Error(
			"未知的游戏阶段",
			zap.String("stage", gm.ctx.GameStage),
		)

		gm.ctx.GameStage = gm.handler.Stage()
		return
	}

	newHandler.SetOnSwitch(gm.onSwitch)

	// 更新当前 handler
	gm.handler = newHandler
}

func (gm *GameMachine) touch() {
	gm.lastActive.Store(time.Now().UnixNano())
}

func (gm *GameMachine) IsClosed() bool {
	return gm.closed.Load()
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}

func (gm *GameMachine) LastActive() time.Time {
	return time.Unix(0, gm.lastActive.Load())
}
