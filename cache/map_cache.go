package mycache

import (
	"time"

	"realm/api/service/mappkg"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	gridCacheTTL   = 30 * time.Minute
	renderCacheTTL = 10 * time.Minute
)

var GridCache *ristretto.Cache[string, *mappkg.Grid]

// RenderCache 渲染后的 PNG 字节
var RenderCache *ristretto.Cache[string, []byte]

func init() {
	grid, err := ristretto.NewCache[string, *mappkg.Grid](&ristretto.Config[string, *mappkg.Grid]{
		NumCounters: 1000,
		MaxCost:     256 * 1024 * 1024, // 按 tile 数 * 4 字节计费
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	GridCache = grid

	render, err := ristretto.NewCache[string, []byte](&ristretto.Config[string, []byte]{
		NumCounters: 1000,
		MaxCost:     128 * 1024 * 1024,
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	RenderCache = render
}

// GetGrid 读取已解码的地图，ok 表示命中
func GetGrid(mapID string) (*mappkg.Grid, bool) {
	return GridCache.Get(mapID)
}

func SetGrid(mapID string, g *mappkg.Grid) {
	if g == nil {
		return
	}
	cost := int64(1)
	for _, l := range g.Map.Layers {
		cost += int64(l.Width * l.Height * 4)
	}
	GridCache.SetWithTTL(mapID, g, cost, gridCacheTTL)
	GridCache.Wait()
}

func GetRender(mapID string) ([]byte, bool) {
	return RenderCache.Get(mapID)
}

func SetRender(mapID string, png []byte) {
	if len(png) == 0 {
		return
	}
	RenderCache.SetWithTTL(mapID, png, int64(len(png)), renderCacheTTL)
	RenderCache.Wait()
}

// Invalidate 地图更新后清掉两级缓存
func Invalidate(mapID string) {
	GridCache.Del(mapID)
	RenderCache.Del(mapID)
}
