package preauth

import (
	"time"

	"github.com/gin-gonic/gin"

	"realm/api/api/http/controller"
	"realm/api/api/interceptor"
	"realm/api/codes"
	"realm/api/log"
	"realm/api/model"
	"realm/api/service"
)

type InitReq struct {
	TelegramUser model.TelegramUser `json:"telegramUser" binding:"required"`
}

// POST /preauth/init
// 按 telegram 用户建档并签发 token；verify 非空时以 X-Telegram-Init-Data 里签过名的用户为准
func Init(chars *service.CharacterService, secret []byte, ttl time.Duration, verify interceptor.InitDataVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitReq
		if err := c.ShouldBindJSON(&req); err != nil || req.TelegramUser.ID == 0 {
			controller.Fail(c, codes.CODE_ERR_REQFORMAT, "invalid telegram user data", nil)
			return
		}

		tu := req.TelegramUser
		if verify != nil {
			signed, err := verify(c.GetHeader("X-Telegram-Init-Data"))
			if err != nil {
				log.Warnf("telegram init rejected user=%d: %v", tu.ID, err)
				controller.Fail(c, codes.CODE_ERR_SECURITY, "invalid telegram init data", nil)
				return
			}
			if signed.ID != tu.ID {
				controller.Fail(c, codes.CODE_ERR_SECURITY, "telegram user mismatch", nil)
				return
			}
			tu = *signed
		}

		user, ch, err := chars.InitUser(c.Request.Context(), tu)
		if err != nil {
			controller.Err(c, err)
			return
		}
		token, err := interceptor.IssueToken(secret, user.TelegramID, ttl)
		if err != nil {
			log.Error("token gen error", err)
			controller.Fail(c, codes.CODE_ERR_SECURITY, "token gen error", nil)
			return
		}

		controller.OK(c, gin.H{
			"user":            user,
			"characterExists": ch != nil,
			"character":       ch,
			"token":           token,
		})
	}
}
