package home

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realm/api/api/http/controller"
	"realm/api/codes"
	"realm/api/config"
	"realm/api/service"
)

// GET /maps/:mapId/tmj
// 原样返回 Tiled 文档，前端自行渲染
func MapTmj(maps *service.MapService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := maps.Raw(c.Request.Context(), c.Param("mapId"))
		if err != nil {
			controller.Err(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

// GET /maps/:mapId/tile?x=&y=
func MapTile(maps *service.MapService) gin.HandlerFunc {
	return func(c *gin.Context) {
		x, errX := strconv.Atoi(c.Query("x"))
		y, errY := strconv.Atoi(c.Query("y"))
		if errX != nil || errY != nil {
			controller.Fail(c, codes.CODE_ERR_BAD_PARAMS, "x and y are required integers", nil)
			return
		}
		info, err := maps.TileAt(c.Request.Context(), c.Param("mapId"), x, y)
		if err != nil {
			controller.Err(c, err)
			return
		}
		controller.OK(c, info)
	}
}

// GET /maps/:mapId/render.png
func MapRender(maps *service.MapService) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := maps.RenderPNG(c.Request.Context(), c.Param("mapId"))
		if err != nil {
			controller.Err(c, err)
			return
		}
		c.Header("Cache-Control", "public, max-age=600")
		c.Data(http.StatusOK, "image/png", b)
	}
}

// GET /zones
func Zones(game *config.GameConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		controller.OK(c, gin.H{
			"map_id":   game.MapID,
			"width":    game.WorldWidth,
			"height":   game.WorldHeight,
			"hut_size": game.HutSize(),
			"zones":    game.Zones,
		})
	}
}

// GET /castles
func Castles(game *config.GameConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		controller.OK(c, gin.H{
			"castles":  game.Castles,
			"upgrades": game.Upgrades,
		})
	}
}
