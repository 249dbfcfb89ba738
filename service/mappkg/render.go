package mappkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

var ErrTilesetsNotLoaded = errors.New("tileset images not loaded")

// Grid 解码后的地图，每个图层只解码一次
type Grid struct {
	Map   *TiledMap
	tiles [][]uint32
}

func NewGrid(tm *TiledMap) *Grid {
	g := &Grid{Map: tm, tiles: make([][]uint32, len(tm.Layers))}
	for i := range tm.Layers {
		if tm.Layers[i].Type != LayerTypeTile {
			continue
		}
		g.tiles[i] = LayerTiles(&tm.Layers[i])
	}
	return g
}

// LayerTiles 第 i 层解码结果；非 tilelayer 返回 nil
func (g *Grid) LayerTiles(i int) []uint32 {
	if i < 0 || i >= len(g.tiles) {
		return nil
	}
	return g.tiles[i]
}

// Render 按图层顺序绘制（画家算法），images 以 firstgid 为 key，必须齐全
func (g *Grid) Render(images map[int]image.Image) (*image.RGBA, error) {
	tm := g.Map
	for _, ts := range tm.Tilesets {
		if images[ts.FirstGID] == nil {
			return nil, fmt.Errorf("%w: %s (firstgid=%d)", ErrTilesetsNotLoaded, ts.Name, ts.FirstGID)
		}
	}

	w, h := tm.PixelSize()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for i := range tm.Layers {
		layer := &tm.Layers[i]
		if !layer.Visible || layer.Type != LayerTypeTile {
			continue
		}
		g.renderLayer(dst, layer, g.tiles[i], images)
	}
	return dst, nil
}

func (g *Grid) renderLayer(dst *image.RGBA, layer *TiledLayer, tiles []uint32, images map[int]image.Image) {
	tm := g.Map
	opts := opacityOptions(layer.Opacity)

	for y := 0; y < layer.Height; y++ {
		for x := 0; x < layer.Width; x++ {
			raw := tiles[y*layer.Width+x]
			if raw == 0 {
				continue
			}
			ts, local, ok := Resolve(GID(raw), tm.Tilesets)
			if !ok {
				continue
			}
			if ts.TileCount > 0 && local >= ts.TileCount {
				continue
			}
			src := images[ts.FirstGID]
			sr := TileRect(ts, local).Add(src.Bounds().Min)
			if sr.Empty() || !sr.In(src.Bounds()) {
				continue
			}
			dr := image.Rect(x*tm.TileWidth, y*tm.TileHeight, (x+1)*tm.TileWidth, (y+1)*tm.TileHeight)
			xdraw.NearestNeighbor.Scale(dst, dr, src, sr, xdraw.Over, opts)
		}
	}
}

// opacityOptions 图层透明度作为统一的 alpha 蒙版
func opacityOptions(opacity float64) *xdraw.Options {
	if opacity >= 1 || opacity < 0 {
		return nil
	}
	a := uint8(math.Round(opacity * 255))
	return &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: a})}
}

// Render 便捷入口
func Render(tm *TiledMap, images map[int]image.Image) (*image.RGBA, error) {
	return NewGrid(tm).Render(images)
}
