package game

// 游戏阶段
// 1. 进行阶段（Playing）：展示打乱的单词，接受猜测与跳过
// 2. 结束阶段（Finished）：本局词数已满，展示最终得分，可以重新开始
// 3. 关闭阶段（Closed）：玩家退出或会话过期，状态机退出事件循环
const (
	STAGE_PLAYING  = "Playing"
	STAGE_FINISHED = "Finished"
	STAGE_CLOSED   = "Closed"
)

// Subscriber 是订阅会话推送的一条连接（例如一个 WebSocket）
type Subscriber struct {
	ID     string
	RespCh chan ResponseWrapper
}

// RoundResult 在一局结束时产生，用于排行榜与统计
type RoundResult struct {
	SessionID   string
	PlayerName  string
	FinalScore  int
	WordsPlayed int
}

// Hooks 在状态机协程内被同步调用，耗时操作需要自行异步处理
type Hooks struct {
	OnRoundStarted  func(sessionID string)
	OnGuess         func(sessionID string, correct bool)
	OnSkip          func(sessionID string)
	OnRoundFinished func(result RoundResult)
}
