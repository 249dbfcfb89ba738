package placement

import (
	"image"

	"realm/api/model"
)

// Rect 半开区间矩形 [X, X+W) x [Y, Y+H)
type Rect struct {
	X, Y, W, H int
}

func RectAt(x, y int, size model.Size) Rect {
	return Rect{X: x, Y: y, W: size.Width, H: size.Height}
}

func HutRect(h *model.Hut) Rect {
	return Rect{X: h.X, Y: h.Y, W: h.Width, H: h.Height}
}

func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Tiles 按行优先列出矩形覆盖的所有格子
func (r Rect) Tiles() []image.Point {
	if r.W <= 0 || r.H <= 0 {
		return nil
	}
	out := make([]image.Point, 0, r.W*r.H)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			out = append(out, image.Pt(x, y))
		}
	}
	return out
}

// Collides (x, y) 处的占地是否与任一已有小屋重叠
func Collides(x, y int, size model.Size, huts []model.Hut) bool {
	cand := RectAt(x, y, size)
	for i := range huts {
		if cand.Overlaps(HutRect(&huts[i])) {
			return true
		}
	}
	return false
}
