package service

import (
	"sync"

	"github.com/blevesearch/bleve"

	"realm/api/model"
)

type hutDoc struct {
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
	ZoneID    string `json:"zone_id"`
	MapID     string `json:"map_id"`
}

// HutIndex 内存全文索引，按名称/主人/区域搜索小屋，启动时从数据库重建
type HutIndex struct {
	mu  sync.RWMutex
	idx bleve.Index
}

func NewHutIndex() (*HutIndex, error) {
	m := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, err
	}
	return &HutIndex{idx: idx}, nil
}

func (h *HutIndex) Add(hut *model.Hut) error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.idx.Index(hut.ID, hutDoc{
		Name:      hut.Name,
		OwnerName: hut.OwnerName,
		ZoneID:    hut.ZoneID,
		MapID:     hut.MapID,
	})
}

func (h *HutIndex) Rebuild(huts []model.Hut) error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	batch := h.idx.NewBatch()
	for i := range huts {
		if err := batch.Index(huts[i].ID, hutDoc{
			Name:      huts[i].Name,
			OwnerName: huts[i].OwnerName,
			ZoneID:    huts[i].ZoneID,
			MapID:     huts[i].MapID,
		}); err != nil {
			return err
		}
	}
	return h.idx.Batch(batch)
}

// Search 返回命中的小屋 id，按相关度排序
func (h *HutIndex) Search(q string, limit int) ([]string, error) {
	if h == nil {
		return nil, ErrSearchNotAvailable
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(q), limit, 0, false)
	res, err := h.idx.Search(req)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func (h *HutIndex) Close() error {
	if h == nil {
		return nil
	}
	return h.idx.Close()
}
