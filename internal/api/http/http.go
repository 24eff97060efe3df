package http

import (
	"fmt"
	"os"

	"unscramble-be/internal/api/http/websocket"
	"unscramble-be/internal/metrics"
	"unscramble-be/internal/state"

	"github.com/kataras/iris/v12"
)

const STATIC_DIR = "./unscramble-fe"

func NewApp(appState *state.AppState) *iris.Application {
	app := iris.Default()
	app.Logger().SetLevel(appState.Cfg.LogLevel)

	// 前端静态资源是可选的
	if _, err := os.Stat(STATIC_DIR); err == nil {
		app.HandleDir(
			"/",
			iris.Dir(STATIC_DIR),
			iris.DirOptions{
				IndexName: "index.html",
				SPA:       true,
				Compress:  true,
			},
		)
	}

	api := app.Party("/api/v1")

	api.Post("/sessions", CreateSession(appState))
	api.Get("/sessions/{id:string}", GetSession(appState))
	api.Post("/sessions/{id:string}/submit", SubmitWord(appState))
	api.Post("/sessions/{id:string}/skip", SkipWord(appState))
	api.Post("/sessions/{id:string}/restart", RestartSession(appState))
	api.Delete("/sessions/{id:string}", CloseSession(appState))

	api.Get("/leaderboard", GetLeaderboard(appState))

	api.Get("/ws/play", websocket.PlayGame(appState))

	app.Get("/metrics", iris.FromStd(metrics.Handler()))

	return app
}

func RunServer(appState *state.AppState) error {
	app := NewApp(appState)

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	return app.Listen(addr, iris.WithoutServerError(iris.ErrServerClosed))
}
