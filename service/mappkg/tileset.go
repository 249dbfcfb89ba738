package mappkg

import "image"

// Tiled 在 GID 高位存放翻转标记
const (
	FlagFlippedHorizontally uint32 = 0x80000000
	FlagFlippedVertically   uint32 = 0x40000000
	FlagFlippedDiagonally   uint32 = 0x20000000
	FlagRotatedHexagonal120 uint32 = 0x10000000

	gidMask = ^(FlagFlippedHorizontally | FlagFlippedVertically | FlagFlippedDiagonally | FlagRotatedHexagonal120)
)

// GID 去掉翻转标记后的全局 tile 编号
func GID(raw uint32) uint32 {
	return raw & gidMask
}

// Resolve 找到 firstgid <= gid 中最大的那个 tileset；gid 小于所有 firstgid 时 ok=false
func Resolve(gid uint32, tilesets []TiledTileset) (ts *TiledTileset, local int, ok bool) {
	for i := range tilesets {
		first := tilesets[i].FirstGID
		if first < 0 || uint32(first) > gid {
			continue
		}
		if ts == nil || first > ts.FirstGID {
			ts = &tilesets[i]
		}
	}
	if ts == nil {
		return nil, 0, false
	}
	return ts, int(gid) - ts.FirstGID, true
}

// TileRect tileset 图片中 local 号 tile 的源矩形
func TileRect(ts *TiledTileset, local int) image.Rectangle {
	cols := ts.Columns
	if cols <= 0 && ts.TileWidth > 0 {
		cols = ts.ImageWidth / ts.TileWidth
	}
	if cols <= 0 || local < 0 {
		return image.Rectangle{}
	}
	col, row := local%cols, local/cols
	x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}
