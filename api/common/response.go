package common

import (
	"time"

	"realm/api/codes"
)

const TOKEN_DURATION = 72 * time.Hour

type Response struct {
	Code      int         `json:"code"`
	Msg       string      `json:"msg"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// HeaderParam 由 header 中间件解析后放入 gin context 的 "HEADERS"
type HeaderParam struct {
	Authorization string `json:"authorization"`
	TelegramInit  string `json:"telegram_init"`
	ClientVersion string `json:"client_version"`
	IP            string `json:"ip"`
}

func NewResponse() Response {
	return Response{Code: codes.CODE_SUCCESS, Msg: "success", Timestamp: time.Now().Unix()}
}
