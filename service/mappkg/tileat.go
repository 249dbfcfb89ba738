package mappkg

// ReferenceLayer TileAt 读取的图层下标
const ReferenceLayer = 0

// WalkFunc 可通行判定
type WalkFunc func(gid uint32) bool

// AnyTileWalkable 当前策略：有 tile 即可通行
func AnyTileWalkable(gid uint32) bool { return gid != 0 }

// TileAt 像素坐标 → 参考图层上的 tile 编号，越界返回 0
func (g *Grid) TileAt(px, py int) uint32 {
	tm := g.Map
	if px < 0 || py < 0 {
		return 0
	}
	tx, ty := px/tm.TileWidth, py/tm.TileHeight
	if tx >= tm.Width || ty >= tm.Height {
		return 0
	}
	tiles := g.LayerTiles(ReferenceLayer)
	if tiles == nil {
		return 0
	}
	layer := &tm.Layers[ReferenceLayer]
	idx := ty*layer.Width + tx
	if tx >= layer.Width || idx >= len(tiles) {
		return 0
	}
	return tiles[idx]
}

func (g *Grid) Walkable(px, py int, walk WalkFunc) bool {
	if walk == nil {
		walk = AnyTileWalkable
	}
	return walk(g.TileAt(px, py))
}
