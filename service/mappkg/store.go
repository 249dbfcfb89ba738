package mappkg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gorm.io/gorm"

	"realm/api/model"
)

var ErrMapNotFound = errors.New("map not found")

var mapIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)

func ValidMapID(id string) bool {
	return mapIDPattern.MatchString(id)
}

/* ---------- Service ---------- */

// MapStore 先查 map_meta 表，没有再读 assets 目录下的 <id>.tmj / <id>.json
type MapStore struct {
	db  *gorm.DB
	dir string
}

func NewMapStore(db *gorm.DB, dir string) *MapStore {
	return &MapStore{db: db, dir: dir}
}

func (s *MapStore) LoadRaw(ctx context.Context, mapID string) ([]byte, error) {
	if !ValidMapID(mapID) {
		return nil, fmt.Errorf("%w: bad id %q", ErrMapNotFound, mapID)
	}

	if s.db != nil {
		var meta model.MapMeta
		err := s.db.WithContext(ctx).Where("map_id = ?", mapID).First(&meta).Error
		if err == nil && len(meta.TmjJSON) > 0 {
			return meta.TmjJSON, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("loadMeta: %w", err)
		}
	}

	for _, ext := range []string{".tmj", ".json"} {
		raw, err := os.ReadFile(filepath.Join(s.dir, mapID+ext))
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
}

func (s *MapStore) Load(ctx context.Context, mapID string) (*TiledMap, error) {
	raw, err := s.LoadRaw(ctx, mapID)
	if err != nil {
		return nil, err
	}
	return ParseMap(raw)
}
