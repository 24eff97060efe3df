package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"unscramble-be/internal/leaderboard"
	"unscramble-be/internal/metrics"
	"unscramble-be/internal/service/dto"
	"unscramble-be/internal/service/game"
	"unscramble-be/internal/words"

	"go.uber.org/zap"
)

type Options struct {
	MaxNoOfWords  int
	ScoreIncrease int

	SessionTTL      time.Duration
	CleanupInterval time.Duration
	RequestTimeout  time.Duration

	// 每个会话各自持有随机源，为空时使用全局随机源
	NewRand func() game.Rand
	// 会话 ID 生成器，为空时使用 game.GenShortID
	NewID func() string
}

func (o *Options) applyDefaults() {
	if o.SessionTTL <= 0 {
		o.SessionTTL = 30 * time.Minute
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = time.Minute
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	if o.NewID == nil {
		o.NewID = game.GenShortID
	}
}

type SessionService struct {
	state *sessionServiceState
	bank  *words.Bank
	board leaderboard.Store
	opts  Options
}

type sessionServiceState struct {
	mu sync.RWMutex

	// 从会话 ID 到会话的映射
	sessions map[string]*session

	cleanUpDone chan struct{}
	closeOnce   sync.Once
}

func NewSessionService(bank *words.Bank, board leaderboard.Store, opts Options) (*SessionService, error) {
	opts.applyDefaults()

	if opts.MaxNoOfWords < 1 {
		return nil, game.ErrInvalidMaxWords
	}

	if bank.Len() < opts.MaxNoOfWords {
		return nil, fmt.Errorf("%w: %d < %d", game.ErrBankTooSmall, bank.Len(), opts.MaxNoOfWords)
	}

	state := &sessionServiceState{
		sessions:    make(map[string]*session),
		cleanUpDone: make(chan struct{}),
	}

	ss := &SessionService{
		state: state,
		bank:  bank,
		board: board,
		opts:  opts,
	}

	// 启动一个 goroutine 定期清理过期的会话
	go ss.startCleanupLoop()

	return ss, nil
}

func (ss *SessionService) startCleanupLoop() {
	ticker := time.NewTicker(ss.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ss.state.cleanUpDone:
			return

		case now := <-ticker.C:
			ss.cleanupExpired(now)
		}
	}
}

// cleanupExpired 清理已关闭或空闲超时的会话，返回清理数量
func (ss *SessionService) cleanupExpired(now time.Time) int {
	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	removed := 0

	for sessionID, s := range ss.state.sessions {
		if !isSessionExpired(s, now, ss.opts.SessionTTL) {
			continue
		}

		zap.S().Infof("会话 %s 已失效，开始清理", sessionID)

		// 通知对应的状态机协程退出
		s.stop()
		delete(ss.state.sessions, sessionID)
		metrics.SessionClosed()

		removed++
	}

	return removed
}

func (ss *SessionService) Close() {
	ss.state.closeOnce.Do(func() {
		close(ss.state.cleanUpDone)

		ss.state.mu.Lock()
		defer ss.state.mu.Unlock()

		for sessionID, s := range ss.state.sessions {
			s.stop()
			delete(ss.state.sessions, sessionID)
			metrics.SessionClosed()
		}
	})
}

func (ss *SessionService) Count() int {
	ss.state.mu.RLock()
	defer ss.state.mu.RUnlock()

	return len(ss.state.sessions)
}

func (ss *SessionService) CreateSession(
	ctx context.Context,
	req dto.CreateSessionRequest,
) (dto.CreateSessionResponse, error) {
	playerName, err := normalizePlayerName(req.PlayerName)
	if err != nil {
		return dto.CreateSessionResponse{}, err
	}

	var rng game.Rand
	if ss.opts.NewRand != nil {
		rng = ss.opts.NewRand()
	}

	round, err := game.NewRound(ss.bank, ss.opts.MaxNoOfWords, ss.opts.ScoreIncrease, rng)
	if err != nil {
		return dto.CreateSessionResponse{}, err
	}

	// 客户端已断开时不再创建会话
	if err := ctx.Err(); err != nil {
		return dto.CreateSessionResponse{}, err
	}

	doneCh := make(chan struct{})

	ss.state.mu.Lock()

	// 短 ID 可能碰撞，覆盖已有会话会让旧状态机无法停止
	sessionID := ss.opts.NewID()
	for ss.state.sessions[sessionID] != nil {
		sessionID = ss.opts.NewID()
	}

	machine := game.NewGameMachine(sessionID, playerName, round, ss.hooks(), doneCh)

	ss.state.sessions[sessionID] = &session{
		machine: machine,
		doneCh:  doneCh,
	}

	ss.state.mu.Unlock()

	// 快照必须在状态机协程启动前取得
	initial := machine.InitialState()

	go machine.Start()

	metrics.SessionOpened()

	zap.S().Infof("会话 %s 由 %s 创建", sessionID, playerName)

	return dto.CreateSessionResponse{
		SessionID: sessionID,
		State:     initial,
	}, nil
}

func (ss *SessionService) hooks() game.Hooks {
	return game.Hooks{
		OnRoundStarted: func(string) {
			metrics.RoundStarted()
		},
		OnGuess: func(_ string, correct bool) {
			metrics.Guess(correct)
		},
		OnSkip: func(string) {
			metrics.Skip()
		},
		OnRoundFinished: ss.recordResult,
	}
}

// recordResult 在状态机协程中被调用，写排行榜放到独立协程中避免阻塞
func (ss *SessionService) recordResult(result game.RoundResult) {
	metrics.RoundFinished(result.FinalScore)

	if ss.board == nil {
		return
	}

	entry := leaderboard.Entry{
		ID:          game.GenID(),
		SessionID:   result.SessionID,
		PlayerName:  result.PlayerName,
		Score:       result.FinalScore,
		WordsPlayed: result.WordsPlayed,
		FinishedAt:  time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ss.opts.RequestTimeout)
		defer cancel()

		if err := ss.board.Record(ctx, entry); err != nil {
			zap.L().Error(
				"记录排行榜失败",
				zap.String("session_id", entry.SessionID),
				zap.Error(err),
			)
		}
	}()
}

func (ss *SessionService) getSession(sessionID string) (*session, error) {
	ss.state.mu.RLock()
	defer ss.state.mu.RUnlock()

	s := ss.state.sessions[sessionID]
	if s == nil {
		return nil, ErrSessionNotFound
	}

	return s, nil
}

// Send 将请求投递给会话状态机，不等待应答
func (ss *SessionService) Send(ctx context.Context, sessionID string, req game.RequestWrapper) error {
	s, err := ss.getSession(sessionID)
	if err != nil {
		return err
	}

	return ss.send(ctx, s, req)
}

func (ss *SessionService) send(ctx context.Context, s *session, req game.RequestWrapper) error {
	reqTimer := time.NewTimer(ss.opts.RequestTimeout)
	defer reqTimer.Stop()

	select {
	case s.machine.GetReqCh() <- req:
		return nil

	case <-s.machine.Exited():
		return ErrSessionClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-reqTimer.C:
		zap.S().Warnf("会话无法及时处理请求 %s", req.ReqType)
		return ErrSessionBusy
	}
}

// Dispatch 投递请求并等待状态机应答。
// 状态机拒绝请求时同时返回错误响应和 ErrRequestRejected。
func (ss *SessionService) Dispatch(
	ctx context.Context,
	sessionID string,
	req game.RequestWrapper,
) (game.ResponseWrapper, error) {
	s, err := ss.getSession(sessionID)
	if err != nil {
		return game.ResponseWrapper{}, err
	}

	replyCh := make(chan game.ResponseWrapper, 1)
	req.ReplyCh = replyCh

	if err := ss.send(ctx, s, req); err != nil {
		return game.ResponseWrapper{}, err
	}

	resTimer := time.NewTimer(ss.opts.RequestTimeout)
	defer resTimer.Stop()

	var resp game.ResponseWrapper

	select {
	case resp = <-replyCh:

	case <-s.machine.Exited():
		// 退出请求的应答先于状态机退出写入
		select {
		case resp = <-replyCh:
		default:
			return game.ResponseWrapper{}, ErrSessionClosed
		}

	case <-ctx.Done():
		return game.ResponseWrapper{}, ctx.Err()

	case <-resTimer.C:
		zap.S().Warnf("会话 %s 请求 %s 响应超时", sessionID, req.ReqType)
		return game.ResponseWrapper{}, ErrSessionBusy
	}

	if resp.IsError() {
		return resp, fmt.Errorf("%w: %s", ErrRequestRejected, resp.ErrMsg)
	}

	return resp, nil
}

func (ss *SessionService) GetState(ctx context.Context, sessionID string) (game.GameStateResponse, error) {
	resp, err := ss.Dispatch(ctx, sessionID, game.RequestWrapper{ReqType: game.REQ_GET_STATE})
	if err != nil {
		return game.GameStateResponse{}, err
	}

	return resp.Data.(game.GameStateResponse), nil
}

func (ss *SessionService) SubmitWord(
	ctx context.Context,
	sessionID string,
	word string,
) (game.SubmitWordResponse, error) {
	resp, err := ss.Dispatch(ctx, sessionID, game.RequestWrapper{
		ReqType:    game.REQ_SUBMIT_WORD,
		NativeData: &game.SubmitWordRequest{Word: word},
	})
	if err != nil {
		return game.SubmitWordResponse{}, err
	}

	return resp.Data.(game.SubmitWordResponse), nil
}

func (ss *SessionService) SkipWord(ctx context.Context, sessionID string) (game.SkipWordResponse, error) {
	resp, err := ss.Dispatch(ctx, sessionID, game.RequestWrapper{ReqType: game.REQ_SKIP_WORD})
	if err != nil {
		return game.SkipWordResponse{}, err
	}

	return resp.Data.(game.SkipWordResponse), nil
}

func (ss *SessionService) Restart(ctx context.Context, sessionID string) (game.RestartResponse, error) {
	resp, err := ss.Dispatch(ctx, sessionID, game.RequestWrapper{ReqType: game.REQ_RESTART})
	if err != nil {
		return game.RestartResponse{}, err
	}

	return resp.Data.(game.RestartResponse), nil
}

// CloseSession 让玩家退出并移除会话
func (ss *SessionService) CloseSession(ctx context.Context, sessionID string) (game.ExitGameResponse, error) {
	resp, err := ss.Dispatch(ctx, sessionID, game.RequestWrapper{ReqType: game.REQ_EXIT_GAME})

	ss.removeSession(sessionID)

	if err != nil {
		if errors.Is(err, ErrSessionClosed) {
			return game.ExitGameResponse{SessionID: sessionID}, nil
		}

		return game.ExitGameResponse{}, err
	}

	return resp.Data.(game.ExitGameResponse), nil
}

func (ss *SessionService) removeSession(sessionID string) {
	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	s := ss.state.sessions[sessionID]
	if s == nil {
		return
	}

	s.stop()
	delete(ss.state.sessions, sessionID)
	metrics.SessionClosed()

	zap.S().Infof("会话 %s 已移除", sessionID)
}

// Attach 把一条连接注册为会话的订阅者，返回当前快照
func (ss *SessionService) Attach(
	ctx context.Context,
	sessionID string,
	sub game.Subscriber,
) (game.GameStateResponse, error) {
	resp, err := ss.Dispatch(ctx, sessionID, game.RequestWrapper{
		ReqType:    game.REQ_ATTACH,
		NativeData: &game.AttachRequest{Subscriber: sub},
	})
	if err != nil {
		return game.GameStateResponse{}, err
	}

	return resp.Data.(game.GameStateResponse), nil
}

func (ss *SessionService) Detach(ctx context.Context, sessionID string, subscriberID string) error {
	_, err := ss.Dispatch(ctx, sessionID, game.RequestWrapper{
		ReqType:    game.REQ_DETACH,
		NativeData: &game.DetachRequest{SubscriberID: subscriberID},
	})

	return err
}

func (ss *SessionService) Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if ss.board == nil {
		return []leaderboard.Entry{}, nil
	}

	return ss.board.Top(ctx, limit)
}
