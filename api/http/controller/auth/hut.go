package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"realm/api/api/http/controller"
	"realm/api/api/interceptor"
	"realm/api/codes"
	"realm/api/service"
)

// POST /auth/huts/quote
// 悬停报价，不加锁不落库
func HutQuote(huts *service.HutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgID, req, ok := bindBuild(c)
		if !ok {
			return
		}
		q, err := huts.Quote(c.Request.Context(), tgID, req)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, q)
	}
}

// POST /auth/huts
// 权威建造：服务端事务内重新校验
func HutBuild(huts *service.HutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgID, req, ok := bindBuild(c)
		if !ok {
			return
		}
		hut, q, err := huts.Build(c.Request.Context(), tgID, req)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, gin.H{"hut": hut, "cost": q.Cost, "quote": q})
	}
}

// POST /auth/huts/:id/upgrade
func HutUpgrade(huts *service.HutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgID, ok := interceptor.TelegramID(c)
		if !ok {
			controller.Fail(c, codes.CODE_ERR_SECURITY, "please login", nil)
			return
		}
		var req UpgradeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			controller.Fail(c, codes.CODE_ERR_REQFORMAT, "invalid request: "+err.Error(), nil)
			return
		}
		hut, err := huts.Upgrade(c.Request.Context(), tgID, c.Param("id"), req.UpgradeID)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, hut)
	}
}

// POST /auth/huts/:id/visit
func HutVisit(huts *service.HutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgID, ok := interceptor.TelegramID(c)
		if !ok {
			controller.Fail(c, codes.CODE_ERR_SECURITY, "please login", nil)
			return
		}
		out, err := huts.Visit(c.Request.Context(), tgID, c.Param("id"), time.Now())
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, out)
	}
}

func bindBuild(c *gin.Context) (int64, service.BuildReq, bool) {
	var req service.BuildReq
	tgID, ok := interceptor.TelegramID(c)
	if !ok {
		controller.Fail(c, codes.CODE_ERR_SECURITY, "please login", nil)
		return 0, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.Fail(c, codes.CODE_ERR_REQFORMAT, "invalid request: "+err.Error(), nil)
		return 0, req, false
	}
	if req.CastleTypeID == "" {
		controller.Fail(c, codes.CODE_ERR_BAD_PARAMS, "castle_type_id is required", nil)
		return 0, req, false
	}
	return tgID, req, true
}
