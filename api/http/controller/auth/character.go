package auth

import (
	"github.com/gin-gonic/gin"

	"realm/api/api/http/controller"
	"realm/api/api/interceptor"
	"realm/api/codes"
	"realm/api/service"
)

// GET /auth/character
func CharacterGet(chars *service.CharacterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgID, ok := interceptor.TelegramID(c)
		if !ok {
			controller.Fail(c, codes.CODE_ERR_SECURITY, "please login", nil)
			return
		}
		ch, err := chars.Get(c.Request.Context(), tgID)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, ch)
	}
}

// POST /auth/character
func CharacterCreate(chars *service.CharacterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgID, ok := interceptor.TelegramID(c)
		if !ok {
			controller.Fail(c, codes.CODE_ERR_SECURITY, "please login", nil)
			return
		}
		var req CreateCharacterReq
		if err := c.ShouldBindJSON(&req); err != nil {
			controller.Fail(c, codes.CODE_ERR_REQFORMAT, "invalid request: "+err.Error(), nil)
			return
		}
		ch, err := chars.Create(c.Request.Context(), tgID, req.Name, req.Race)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, ch)
	}
}
