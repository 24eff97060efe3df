package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_SUBMIT_WORD = "SubmitWord"
	REQ_SKIP_WORD   = "SkipWord"
	REQ_RESTART     = "Restart"
	REQ_GET_STATE   = "GetState"
	REQ_EXIT_GAME   = "ExitGame"

	// 仅服务端内部使用
	REQ_ATTACH = "Attach"
	REQ_DETACH = "Detach"
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data,omitempty"`

	// 已解析好的请求体，服务端内部构造请求时使用，优先于 Data
	NativeData any `json:"-"`
	// 请求方的应答通道，可为空
	ReplyCh chan ResponseWrapper `json:"-"`
}

func tryUnwrap[T any](wrapper RequestWrapper, reqType string) *T {
	if wrapper.ReqType != reqType {
		return nil
	}

	if native, ok := wrapper.NativeData.(*T); ok && native != nil {
		return native
	}

	var req T

	if len(wrapper.Data) == 0 {
		return &req
	}

	if err := json.Unmarshal(wrapper.Data, &req); err != nil {
		zap.L().Error(
			"解析请求体失败",
			zap.String("request_type", reqType),
			zap.Error(err),
		)
		return nil
	}

	return &req
}

func TryUnwrapSubmitWordRequest(wrapper RequestWrapper) *SubmitWordRequest {
	return tryUnwrap[SubmitWordRequest](wrapper, REQ_SUBMIT_WORD)
}

func TryUnwrapAttachRequest(wrapper RequestWrapper) *AttachRequest {
	if wrapper.ReqType != REQ_ATTACH {
		return nil
	}

	// 订阅者只能由服务端内部构造
	req, ok := wrapper.NativeData.(*AttachRequest)
	if !ok || req == nil || req.Subscriber.RespCh == nil {
		return nil
	}

	return req
}

func TryUnwrapDetachRequest(wrapper RequestWrapper) *DetachRequest {
	return tryUnwrap[DetachRequest](wrapper, REQ_DETACH)
}

// 响应类型
const (
	RESP_ERROR = "Error"

	RESP_SUBMIT_WORD = "SubmitWord"
	RESP_SKIP_WORD   = "SkipWord"
	RESP_RESTART     = "Restart"
	RESP_GAME_STATE  = "GameState"
	RESP_GAME_RESULT = "GameResult"
	RESP_ATTACH      = "Attach"
	RESP_DETACH      = "Detach"
	RESP_EXIT_GAME   = "ExitGame"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}

func (rw ResponseWrapper) IsError() bool {
	return rw.RespType == RESP_ERROR
}
