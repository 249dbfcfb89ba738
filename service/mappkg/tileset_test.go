package mappkg

import (
	"image"
	"testing"
)

func TestResolve(t *testing.T) {
	tilesets := []TiledTileset{
		{FirstGID: 1, Name: "a"},
		{FirstGID: 65, Name: "c"},
		{FirstGID: 33, Name: "b"},
	}
	cases := []struct {
		gid   uint32
		name  string
		local int
	}{
		{1, "a", 0},
		{32, "a", 31},
		{33, "b", 0},
		{64, "b", 31},
		{65, "c", 0},
		{1000, "c", 935},
	}
	for _, c := range cases {
		ts, local, ok := Resolve(c.gid, tilesets)
		if !ok || ts.Name != c.name || local != c.local {
			t.Fatalf("Resolve(%d) = %v %d %v, want %s %d", c.gid, ts, local, ok, c.name, c.local)
		}
	}

	if _, _, ok := Resolve(0, tilesets); ok {
		t.Fatal("gid below every firstgid must not resolve")
	}
	if _, _, ok := Resolve(5, nil); ok {
		t.Fatal("no tilesets")
	}
}

func TestGIDStripsFlags(t *testing.T) {
	raw := uint32(7) | FlagFlippedHorizontally | FlagFlippedDiagonally
	if GID(raw) != 7 {
		t.Fatalf("GID = %d", GID(raw))
	}
}

func TestTileRect(t *testing.T) {
	ts := &TiledTileset{TileWidth: 16, TileHeight: 16, Columns: 4}
	if r := TileRect(ts, 5); r != image.Rect(16, 16, 32, 32) {
		t.Fatalf("local 5 = %v", r)
	}

	ts = &TiledTileset{TileWidth: 16, TileHeight: 16, ImageWidth: 70, Margin: 1, Spacing: 2}
	// columns 由图片宽度推出：70/16 = 4
	if r := TileRect(ts, 4); r != image.Rect(1, 19, 17, 35) {
		t.Fatalf("margin/spacing local 4 = %v", r)
	}
	if r := TileRect(ts, 1); r != image.Rect(19, 1, 35, 17) {
		t.Fatalf("margin/spacing local 1 = %v", r)
	}
	if !TileRect(&TiledTileset{}, 0).Empty() {
		t.Fatal("tileset without geometry should give an empty rect")
	}
}
