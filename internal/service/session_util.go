package service

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"unscramble-be/internal/service/game"
)

var (
	ErrSessionNotFound = errors.New("会话不存在")
	ErrSessionClosed   = errors.New("会话已关闭")
	ErrSessionBusy     = errors.New("会话繁忙，请稍后再试")
	ErrRequestRejected = errors.New("请求被拒绝")
	ErrInvalidName     = errors.New("玩家名称无效")
)

const (
	MAX_PLAYER_NAME_LEN = 32
	DEFAULT_PLAYER_NAME = "Player"
)

type session struct {
	machine  *game.GameMachine
	doneCh   chan struct{}
	doneOnce sync.Once
}

func (s *session) stop() {
	s.doneOnce.Do(func() {
		close(s.doneCh)
	})
}

func isSessionExpired(s *session, now time.Time, ttl time.Duration) bool {
	if s == nil {
		return true
	}

	if s.machine.IsClosed() {
		return true
	}

	return now.Sub(s.machine.LastActive()) > ttl
}

func normalizePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DEFAULT_PLAYER_NAME, nil
	}

	if utf8.RuneCountInString(name) > MAX_PLAYER_NAME_LEN {
		return "", ErrInvalidName
	}

	return name, nil
}
