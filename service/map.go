package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	mycache "realm/api/cache"
	"realm/api/log"
	"realm/api/service/mappkg"
)

type MapService struct {
	store  *mappkg.MapStore
	loader mappkg.ImageLoader
}

func NewMapService(store *mappkg.MapStore, loader mappkg.ImageLoader) *MapService {
	return &MapService{store: store, loader: loader}
}

// Raw 原始 tmj 文档，前端自行渲染时使用
func (s *MapService) Raw(ctx context.Context, mapID string) ([]byte, error) {
	return s.store.LoadRaw(ctx, mapID)
}

// Grid 解码后的地图，命中缓存时不再解析
func (s *MapService) Grid(ctx context.Context, mapID string) (*mappkg.Grid, error) {
	if g, ok := mycache.GetGrid(mapID); ok {
		return g, nil
	}
	tm, err := s.store.Load(ctx, mapID)
	if err != nil {
		return nil, err
	}
	g := mappkg.NewGrid(tm)
	mycache.SetGrid(mapID, g)
	return g, nil
}

type TileInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	GID      uint32 `json:"gid"`
	Walkable bool   `json:"walkable"`
}

func (s *MapService) TileAt(ctx context.Context, mapID string, px, py int) (*TileInfo, error) {
	g, err := s.Grid(ctx, mapID)
	if err != nil {
		return nil, err
	}
	gid := g.TileAt(px, py)
	return &TileInfo{X: px, Y: py, GID: gid, Walkable: mappkg.AnyTileWalkable(gid)}, nil
}

// RenderPNG 整图合成为 PNG；任意 tileset 图片加载失败则整体失败
func (s *MapService) RenderPNG(ctx context.Context, mapID string) ([]byte, error) {
	if b, ok := mycache.GetRender(mapID); ok {
		return b, nil
	}
	g, err := s.Grid(ctx, mapID)
	if err != nil {
		return nil, err
	}
	images, err := mappkg.LoadImages(ctx, g.Map, s.loader)
	if err != nil {
		log.Errorf("load tilesets for %s: %v", mapID, err)
		return nil, err
	}
	img, err := g.Render(images)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	mycache.SetRender(mapID, buf.Bytes())
	return buf.Bytes(), nil
}
