package http

import (
	"unscramble-be/internal/service/dto"
	"unscramble-be/internal/state"

	"github.com/kataras/iris/v12"
)

func CreateSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.CreateSessionRequest

		// 请求体可以为空，此时使用默认玩家名
		if ctx.GetContentLength() > 0 {
			if err := ctx.ReadJSON(&req); err != nil {
				writeBadRequest(ctx, "请求参数无效")
				return
			}
		}

		resp, err := appState.SessionSvc.CreateSession(ctx.Request().Context(), req)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(resp)
	}
}

func GetSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		resp, err := appState.SessionSvc.GetState(
			ctx.Request().Context(),
			ctx.Params().Get("id"),
		)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}

func SubmitWord(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.SubmitWordRequest

		if err := ctx.ReadJSON(&req); err != nil {
			writeBadRequest(ctx, "请求参数无效")
			return
		}

		resp, err := appState.SessionSvc.SubmitWord(
			ctx.Request().Context(),
			ctx.Params().Get("id"),
			req.Word,
		)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}

func SkipWord(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		resp, err := appState.SessionSvc.SkipWord(
			ctx.Request().Context(),
			ctx.Params().Get("id"),
		)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}

func RestartSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		resp, err := appState.SessionSvc.Restart(
			ctx.Request().Context(),
			ctx.Params().Get("id"),
		)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}

func CloseSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		resp, err := appState.SessionSvc.CloseSession(
			ctx.Request().Context(),
			ctx.Params().Get("id"),
		)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}
