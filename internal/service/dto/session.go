package dto

import "unscramble-be/internal/service/game"

type CreateSessionRequest struct {
	PlayerName string `json:"player_name"`
}

type CreateSessionResponse struct {
	SessionID string                 `json:"session_id"`
	State     game.GameStateResponse `json:"state"`
}

type SubmitWordRequest struct {
	Word string `json:"word"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	PlayerName  string `json:"player_name"`
	Score       int    `json:"score"`
	WordsPlayed int    `json:"words_played"`
	FinishedAt  string `json:"finished_at"`
}
