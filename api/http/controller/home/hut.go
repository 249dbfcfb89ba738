package home

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"realm/api/api/http/controller"
	"realm/api/codes"
	"realm/api/config"
	"realm/api/model"
	"realm/api/service"
)

// GET /huts
func HutList(huts *service.HutService, game *config.GameConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := huts.List(c.Request.Context(), game.MapID)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, gin.H{"huts": list})
	}
}

// GET /huts/player/:userId
func HutsByPlayer(huts *service.HutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := strconv.ParseInt(c.Param("userId"), 10, 64)
		if err != nil || uid == 0 {
			controller.Fail(c, codes.CODE_ERR_BAD_PARAMS, "user id is required", nil)
			return
		}
		list, err := huts.ListByOwner(c.Request.Context(), uid)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, gin.H{"huts": list})
	}
}

// GET /huts/search?q=&limit=
func HutSearch(huts *service.HutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			controller.Fail(c, codes.CODE_ERR_BAD_PARAMS, "q is required", nil)
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		list, err := huts.Search(c.Request.Context(), q, limit)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, gin.H{"huts": list})
	}
}

type ViewReq struct {
	MinX float64 `form:"min_x"`
	MinY float64 `form:"min_y"`
	MaxX float64 `form:"max_x" binding:"required"`
	MaxY float64 `form:"max_y" binding:"required"`
}

// GET /maps/:mapId/huts?min_x=&min_y=&max_x=&max_y=
// 视口像素坐标内的小屋
func HutsInView(huts *service.HutService, maps *service.MapService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ViewReq
		if err := c.ShouldBindQuery(&req); err != nil {
			controller.Fail(c, codes.CODE_ERR_BAD_PARAMS, "invalid viewport: "+err.Error(), nil)
			return
		}
		mapID := c.Param("mapId")
		g, err := maps.Grid(c.Request.Context(), mapID)
		if err != nil {
			controller.Err(c, err)
			return
		}
		bbox := model.BBox{MinX: req.MinX, MinY: req.MinY, MaxX: req.MaxX, MaxY: req.MaxY}
		if bbox.MinX > bbox.MaxX {
			bbox.MinX, bbox.MaxX = bbox.MaxX, bbox.MinX
		}
		if bbox.MinY > bbox.MaxY {
			bbox.MinY, bbox.MaxY = bbox.MaxY, bbox.MinY
		}
		list, err := huts.InView(c.Request.Context(), mapID, bbox, g.Map.TileWidth, g.Map.TileHeight)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, gin.H{"huts": list})
	}
}
