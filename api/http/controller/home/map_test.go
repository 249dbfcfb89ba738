package home

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"realm/api/api/common"
	"realm/api/codes"
	"realm/api/config"
	"realm/api/service"
	"realm/api/service/mappkg"
)

const testTmj = `{
	"width": 2, "height": 2, "tilewidth": 16, "tileheight": 16,
	"layers": [
		{"id": 1, "name": "ground", "type": "tilelayer", "visible": true, "opacity": 1,
		 "width": 2, "height": 2, "data": [1, 0, 2, 3]}
	],
	"tilesets": [{"firstgid": 1, "name": "t", "image": "../tiles/missing.png",
		"imagewidth": 32, "imageheight": 32, "tilewidth": 16, "tileheight": 16, "tilecount": 4, "columns": 2}]
}`

func newTestRouter(t *testing.T, mapID string) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, mapID+".tmj"), []byte(testTmj), 0o644); err != nil {
		t.Fatal(err)
	}
	maps := service.NewMapService(mappkg.NewMapStore(nil, dir), mappkg.DirLoader{Dir: t.TempDir()})
	game := &config.GameConfig{MapID: mapID, WorldWidth: 1000, WorldHeight: 1000, HutWidth: 4, HutHeight: 4}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/maps/:mapId/tmj", MapTmj(maps))
	r.GET("/maps/:mapId/tile", MapTile(maps))
	r.GET("/maps/:mapId/render.png", MapRender(maps))
	r.GET("/zones", Zones(game))
	r.GET("/public/config", Public(game))
	return r
}

func get(t *testing.T, r *gin.Engine, url string) (*httptest.ResponseRecorder, common.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	var res common.Response
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestMapTile(t *testing.T) {
	r := newTestRouter(t, "tile_world")

	_, res := get(t, r, "/maps/tile_world/tile?x=20&y=20")
	if res.Code != codes.CODE_SUCCESS {
		t.Fatalf("tile: %+v", res)
	}
	data := res.Data.(map[string]interface{})
	if data["gid"].(float64) != 3 || data["walkable"] != true {
		t.Fatalf("tile data %+v", data)
	}

	_, res = get(t, r, "/maps/tile_world/tile?x=20&y=0")
	if data := res.Data.(map[string]interface{}); data["gid"].(float64) != 0 || data["walkable"] != false {
		t.Fatalf("empty tile %+v", data)
	}

	if _, res := get(t, r, "/maps/tile_world/tile?x=a"); res.Code != codes.CODE_ERR_BAD_PARAMS {
		t.Fatalf("bad params: %+v", res)
	}
	if _, res := get(t, r, "/maps/nowhere/tile?x=1&y=1"); res.Code != codes.CODE_ERR_OBJ_NOT_FOUND {
		t.Fatalf("missing map: %+v", res)
	}
}

func TestMapTmjPassthrough(t *testing.T) {
	r := newTestRouter(t, "raw_world")
	w, _ := get(t, r, "/maps/raw_world/tmj")
	if w.Code != http.StatusOK || w.Body.String() != testTmj {
		t.Fatalf("tmj passthrough: %d %q", w.Code, w.Body.String())
	}
}

func TestMapRenderImageLoadFailed(t *testing.T) {
	r := newTestRouter(t, "broken_world")
	w, res := get(t, r, "/maps/broken_world/render.png")
	if w.Header().Get("Content-Type") == "image/png" {
		t.Fatal("no partial image should be served")
	}
	if res.Code != codes.CODE_ERR_MAP_LOAD {
		t.Fatalf("render: %+v", res)
	}
}

func TestZonesAndPublic(t *testing.T) {
	r := newTestRouter(t, "cfg_world")
	if _, res := get(t, r, "/zones"); res.Code != codes.CODE_SUCCESS {
		t.Fatalf("zones: %+v", res)
	}
	_, res := get(t, r, "/public/config")
	data := res.Data.(map[string]interface{})
	if data["map_id"] != "cfg_world" {
		t.Fatalf("public: %+v", data)
	}
}
