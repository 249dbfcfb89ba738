package mappkg

import (
	"bytes"
	"encoding/json"
	"fmt"
)

/* ---------- Tiled 结构（字段命名与 tmj 一致） ---------- */

const (
	LayerTypeTile   = "tilelayer"
	LayerTypeObject = "objectgroup"
	LayerTypeImage  = "imagelayer"

	EncodingBase64 = "base64"
	EncodingCSV    = "csv"

	CompressionNone = ""
	CompressionZlib = "zlib"
	CompressionGzip = "gzip"
)

type TiledMap struct {
	CompressionLevel int            `json:"compressionlevel,omitempty"`
	Infinite         bool           `json:"infinite"`
	Orientation      string         `json:"orientation,omitempty"`
	RenderOrder      string         `json:"renderorder,omitempty"`
	TiledVersion     string         `json:"tiledversion,omitempty"`
	Type             string         `json:"type,omitempty"`
	Version          string         `json:"version,omitempty"`
	Width            int            `json:"width"`
	Height           int            `json:"height"`
	TileWidth        int            `json:"tilewidth"`
	TileHeight       int            `json:"tileheight"`
	NextLayerID      int            `json:"nextlayerid,omitempty"`
	NextObjectID     int            `json:"nextobjectid,omitempty"`
	Layers           []TiledLayer   `json:"layers"`
	Tilesets         []TiledTileset `json:"tilesets"`
}

type TiledLayer struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Visible     bool            `json:"visible"`
	Opacity     float64         `json:"opacity"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Data        LayerData       `json:"data"`
	Encoding    string          `json:"encoding,omitempty"`
	Compression string          `json:"compression,omitempty"`
	X           int             `json:"x"`
	Y           int             `json:"y"`
	Objects     json.RawMessage `json:"objects,omitempty"` // objectgroup 原样透传
}

type TiledTileset struct {
	FirstGID    int    `json:"firstgid"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	ImageWidth  int    `json:"imagewidth"`
	ImageHeight int    `json:"imageheight"`
	TileWidth   int    `json:"tilewidth"`
	TileHeight  int    `json:"tileheight"`
	TileCount   int    `json:"tilecount"`
	Columns     int    `json:"columns"`
	Margin      int    `json:"margin,omitempty"`
	Spacing     int    `json:"spacing,omitempty"`
}

// LayerData 兼容两种导出形式：base64 字符串，或者未编码的 JSON 数组
type LayerData struct {
	Encoded string
	Tiles   []uint32
}

func (d *LayerData) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = LayerData{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = LayerData{Encoded: s}
		return nil
	case '[':
		var tiles []uint32
		if err := json.Unmarshal(b, &tiles); err != nil {
			return err
		}
		*d = LayerData{Tiles: tiles}
		return nil
	}
	return fmt.Errorf("layer data: unexpected json %q", string(b[:1]))
}

func (d LayerData) MarshalJSON() ([]byte, error) {
	if d.Encoded == "" && d.Tiles != nil {
		return json.Marshal(d.Tiles)
	}
	return json.Marshal(d.Encoded)
}

// ParseMap 解析 tmj 文档
func ParseMap(raw []byte) (*TiledMap, error) {
	var tm TiledMap
	if err := json.Unmarshal(raw, &tm); err != nil {
		return nil, fmt.Errorf("unmarshal tmj: %w", err)
	}
	if tm.Width <= 0 || tm.Height <= 0 || tm.TileWidth <= 0 || tm.TileHeight <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d tile %dx%d", tm.Width, tm.Height, tm.TileWidth, tm.TileHeight)
	}
	return &tm, nil
}

func (tm *TiledMap) PixelSize() (int, int) {
	return tm.Width * tm.TileWidth, tm.Height * tm.TileHeight
}
