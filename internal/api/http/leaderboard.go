package http

import (
	"time"

	"unscramble-be/internal/service/dto"
	"unscramble-be/internal/state"

	"github.com/kataras/iris/v12"
)

func GetLeaderboard(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		limit := ctx.URLParamIntDefault("limit", appState.Cfg.LeaderboardSize)
		if limit <= 0 || limit > appState.Cfg.LeaderboardSize {
			limit = appState.Cfg.LeaderboardSize
		}

		entries, err := appState.SessionSvc.Leaderboard(ctx.Request().Context(), limit)
		if err != nil {
			writeError(ctx, err)
			return
		}

		resp := dto.LeaderboardResponse{
			Entries: make([]dto.LeaderboardEntry, 0, len(entries)),
		}

		for i, e := range entries {
			resp.Entries = append(resp.Entries, dto.LeaderboardEntry{
				Rank:        i + 1,
				PlayerName:  e.PlayerName,
				Score:       e.Score,
				WordsPlayed: e.WordsPlayed,
				FinishedAt:  e.FinishedAt.Format(time.RFC3339),
			})
		}

		ctx.JSON(resp)
	}
}
