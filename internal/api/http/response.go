package http

import (
	"errors"

	"unscramble-be/internal/service"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

func writeError(ctx iris.Context, err error) {
	status := iris.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = iris.StatusNotFound
	case errors.Is(err, service.ErrSessionClosed):
		status = iris.StatusGone
	case errors.Is(err, service.ErrSessionBusy):
		status = iris.StatusServiceUnavailable
	case errors.Is(err, service.ErrRequestRejected),
		errors.Is(err, service.ErrInvalidName):
		status = iris.StatusBadRequest
	}

	if status == iris.StatusInternalServerError {
		zap.L().Error(
			"处理请求失败",
			zap.String("path", ctx.Path()),
			zap.Error(err),
		)
	}

	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"error": err.Error(),
	})
}

func writeBadRequest(ctx iris.Context, msg string) {
	ctx.StatusCode(iris.StatusBadRequest)
	ctx.JSON(iris.Map{
		"error": msg,
	})
}
