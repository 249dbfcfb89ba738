package main

import (
	"testing"

	"realm/api/service/mappkg"
)

func TestPackMapRoundTrip(t *testing.T) {
	src := []byte(`{
		"width": 3, "height": 2, "tilewidth": 16, "tileheight": 16, "orientation": "orthogonal",
		"layers": [
			{"id": 1, "name": "ground", "type": "tilelayer", "visible": true, "opacity": 1,
			 "width": 3, "height": 2, "data": [1, 2, 3, 0, 5, 2147483654],
			 "properties": [{"name": "walk", "type": "bool", "value": true}]},
			{"id": 2, "name": "spawn", "type": "objectgroup", "visible": true, "opacity": 1, "objects": []}
		],
		"tilesets": []
	}`)

	for _, comp := range []string{mappkg.CompressionZlib, mappkg.CompressionGzip, mappkg.CompressionNone} {
		out, n, err := packMap(src, comp)
		if err != nil {
			t.Fatalf("%q: pack: %v", comp, err)
		}
		if n != 1 {
			t.Fatalf("%q: packed %d layers", comp, n)
		}
		tm, err := mappkg.ParseMap(out)
		if err != nil {
			t.Fatalf("%q: parse: %v", comp, err)
		}
		if tm.Layers[0].Encoding != mappkg.EncodingBase64 || tm.Layers[0].Compression != comp {
			t.Fatalf("%q: layer header %+v", comp, tm.Layers[0])
		}
		tiles, err := mappkg.DecodeLayer(&tm.Layers[0])
		if err != nil {
			t.Fatalf("%q: decode: %v", comp, err)
		}
		want := []uint32{1, 2, 3, 0, 5, 2147483654}
		for i := range want {
			if tiles[i] != want[i] {
				t.Fatalf("%q: tile %d = %d, want %d", comp, i, tiles[i], want[i])
			}
		}
		if tm.Layers[1].Type != mappkg.LayerTypeObject {
			t.Fatalf("%q: object layer changed: %+v", comp, tm.Layers[1])
		}
	}
}

func TestSanitizeMapID(t *testing.T) {
	if got := sanitizeMapID("my world.v2"); got != "my_world_v2" {
		t.Fatalf("got %q", got)
	}
	if got := sanitizeMapID(""); got != "map" {
		t.Fatalf("got %q", got)
	}
}
