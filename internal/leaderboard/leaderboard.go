package leaderboard

import (
	"context"
	"sort"
	"time"
)

type Entry struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	PlayerName  string    `json:"player_name"`
	Score       int       `json:"score"`
	WordsPlayed int       `json:"words_played"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Store 保存每局的最终得分，只保留得分最高的若干条
type Store interface {
	Record(ctx context.Context, entry Entry) error
	Top(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// 得分高者在前，同分时先完成者在前
func less(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}

	return a.FinishedAt.Before(b.FinishedAt)
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
}
