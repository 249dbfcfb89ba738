package home

import (
	"github.com/gin-gonic/gin"

	"realm/api/api/http/controller"
	"realm/api/config"
)

// GET /public/config
// 前端启动时拉取的静态配置
func Public(game *config.GameConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		controller.OK(c, gin.H{
			"map_id":        game.MapID,
			"world":         gin.H{"width": game.WorldWidth, "height": game.WorldHeight},
			"hut_size":      game.HutSize(),
			"starting_gold": game.StartingGold,
			"starting_city": game.StartingCity,
			"races":         game.RaceBonuses,
			"endpoints": gin.H{
				"tmj":    "/maps/" + game.MapID + "/tmj",
				"render": "/maps/" + game.MapID + "/render.png",
				"feed":   "/ws/huts",
			},
		})
	}
}
