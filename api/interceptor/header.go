package interceptor

import (
	"github.com/gin-gonic/gin"

	"realm/api/api/common"
)

// HeaderInterceptor 统一解析请求头，放入 context 的 "HEADERS"
func HeaderInterceptor() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("HEADERS", common.HeaderParam{
			Authorization: c.GetHeader("Authorization"),
			TelegramInit:  c.GetHeader("X-Telegram-Init-Data"),
			ClientVersion: c.GetHeader("X-Client-Version"),
			IP:            c.ClientIP(),
		})
		c.Next()
	}
}

func makeFaileRes(c *gin.Context, code int, msg string) {
	res := common.NewResponse()
	res.Code = code
	res.Msg = msg
	c.AbortWithStatusJSON(200, res)
}
