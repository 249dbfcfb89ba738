package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"realm/api/service/mappkg"
)

// 把 Tiled 导出的数组形式图层压成 base64 + zlib/gzip，其余字段原样保留。
// 同时生成写入 n_map_meta 的 SQL，服务端优先从数据库读取地图。
func main() {
	input := flag.String("input", "map.tmj", "Path to Tiled JSON (.tmj/.json)")
	mapID := flag.String("map-id", "", "Map ID (default: derive from file name)")
	compression := flag.String("compression", mappkg.CompressionZlib, "zlib | gzip | \"\" (none)")
	rev := flag.Int("rev", 1, "Map revision")
	outDir := flag.String("out", "out_map", "Output directory")
	flag.Parse()

	data, err := os.ReadFile(*input)
	must(err)

	if *mapID == "" {
		*mapID = sanitizeMapID(strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input)))
	}

	packed, n, err := packMap(data, *compression)
	must(err)

	// 解析一遍确认输出可被服务端读取
	tm, err := mappkg.ParseMap(packed)
	must(err)

	_ = os.MkdirAll(*outDir, 0o755)
	tmjPath := filepath.Join(*outDir, *mapID+".tmj")
	sqlPath := filepath.Join(*outDir, "map_meta_insert.sql")

	sql := fmt.Sprintf("REPLACE INTO n_map_meta (map_id, tmj_json, rev, update_time) VALUES ('%s',UNHEX('%s'),%d,NOW());\n",
		escapeSQL(*mapID), strings.ToUpper(hex.EncodeToString(packed)), *rev)

	must(os.WriteFile(tmjPath, packed, 0o644))
	must(os.WriteFile(sqlPath, []byte(sql), 0o644))

	fmt.Printf("OK\nmap_id: %s\nmap tiles: %dx%d (tile %dx%d px)\npacked layers: %d (%s)\n",
		*mapID, tm.Width, tm.Height, tm.TileWidth, tm.TileHeight, n, *compression)
	fmt.Println("files:")
	fmt.Println("  ", tmjPath)
	fmt.Println("  ", sqlPath)
}

// packMap 只改写 tilelayer 的 data/encoding/compression，返回改写的图层数
func packMap(data []byte, compression string) ([]byte, int, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, err
	}
	var layers []map[string]json.RawMessage
	if raw, ok := doc["layers"]; ok {
		if err := json.Unmarshal(raw, &layers); err != nil {
			return nil, 0, fmt.Errorf("layers: %w", err)
		}
	}

	n := 0
	for i, raw := range layers {
		var layer mappkg.TiledLayer
		b, _ := json.Marshal(raw)
		if err := json.Unmarshal(b, &layer); err != nil {
			return nil, 0, fmt.Errorf("layer %d: %w", i, err)
		}
		if layer.Type != mappkg.LayerTypeTile || layer.Encoding == mappkg.EncodingBase64 {
			continue
		}
		if layer.Width*layer.Height != len(layer.Data.Tiles) {
			fmt.Fprintf(os.Stderr, "warn: tilelayer %q has %d tiles, want %dx%d\n",
				layer.Name, len(layer.Data.Tiles), layer.Width, layer.Height)
		}
		if err := mappkg.PackLayer(&layer, compression); err != nil {
			return nil, 0, fmt.Errorf("layer %q: %w", layer.Name, err)
		}
		raw["data"], _ = json.Marshal(layer.Data)
		raw["encoding"], _ = json.Marshal(layer.Encoding)
		if layer.Compression != "" {
			raw["compression"], _ = json.Marshal(layer.Compression)
		} else {
			delete(raw, "compression")
		}
		n++
	}

	if layers != nil {
		lb, err := json.Marshal(layers)
		if err != nil {
			return nil, 0, err
		}
		doc["layers"] = lb
	}
	out, err := json.Marshal(doc)
	return out, n, err
}

// ---- helpers ----

func sanitizeMapID(name string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9_\-]`)
	id := re.ReplaceAllString(name, "_")
	if len(id) > 64 {
		id = id[:64]
	}
	if id == "" {
		id = "map"
	}
	return id
}

func escapeSQL(s string) string {
	// 最简转义：单引号 -> 两个单引号；反斜杠 -> 双反斜杠
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `''`)
	return s
}

func must(err error) {
	if err != nil {
		if err == io.EOF {
			return
		}
		panic(err)
	}
}
