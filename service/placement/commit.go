package placement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realm/api/model"
)

// ErrPersistenceConflict 地块在提交前已被其他玩家占用
var ErrPersistenceConflict = errors.New("placement conflict: plot already claimed")

// RejectedError 权威校验未通过（无区域、余额不足、区域已满）
type RejectedError struct {
	Quote model.ConstructionQuote
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("placement rejected at (%d,%d): %s", e.Quote.X, e.Quote.Y, e.Quote.Reason)
}

// Tx 单个数据库事务内的读写；实现方负责行锁
type Tx interface {
	LockGold(ctx context.Context, ownerID int64) (int64, error)
	Overlapping(ctx context.Context, mapID string, r Rect) ([]model.Hut, error)
	// CountInZone 区域内已有建筑数；实现需持锁到事务结束，InsertHut 负责计数 +1
	CountInZone(ctx context.Context, mapID, zoneID string) (int64, error)
	DebitGold(ctx context.Context, ownerID int64, amount int64) error
	// InsertHut 占地格唯一键冲突时返回 ErrPersistenceConflict
	InsertHut(ctx context.Context, hut *model.Hut, tiles []model.HutTile) error
}

// Order 一次建造请求
type Order struct {
	Candidate
	MapID        string
	OwnerID      int64
	OwnerName    string
	Name         string
	CastleTypeID string
	MaxStorage   int64
}

// Settle 在事务内重新校验报价并落库。客户端报价只作参考，这里的结果才是权威的
func Settle(ctx context.Context, tx Tx, zones []model.Zone, o Order, id string, now time.Time) (*model.Hut, model.ConstructionQuote, error) {
	gold, err := tx.LockGold(ctx, o.OwnerID)
	if err != nil {
		return nil, model.ConstructionQuote{}, err
	}
	huts, err := tx.Overlapping(ctx, o.MapID, o.Rect())
	if err != nil {
		return nil, model.ConstructionQuote{}, err
	}

	q := CanBuild(o.Candidate, zones, huts, gold)
	if !q.CanBuild {
		if q.Reason == model.ReasonOccupied {
			return nil, q, ErrPersistenceConflict
		}
		return nil, q, &RejectedError{Quote: q}
	}

	if q.Zone.MaxHuts > 0 {
		n, err := tx.CountInZone(ctx, o.MapID, q.Zone.ID)
		if err != nil {
			return nil, q, err
		}
		if n >= int64(q.Zone.MaxHuts) {
			q.CanBuild = false
			q.Reason = model.ReasonZoneFull
			return nil, q, &RejectedError{Quote: q}
		}
	}

	hut := &model.Hut{
		ID:           id,
		MapID:        o.MapID,
		OwnerID:      o.OwnerID,
		OwnerName:    o.OwnerName,
		Name:         o.Name,
		X:            o.X,
		Y:            o.Y,
		Width:        o.Size.Width,
		Height:       o.Size.Height,
		ZoneID:       q.Zone.ID,
		CastleTypeID: o.CastleTypeID,
		Level:        1,
		Resources:    model.HutResources{MaxStorage: o.MaxStorage},
		Cost:         q.Cost,
		LastVisited:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.DebitGold(ctx, o.OwnerID, q.Cost); err != nil {
		return nil, q, err
	}
	if err := tx.InsertHut(ctx, hut, FootprintTiles(o.MapID, id, o.Rect())); err != nil {
		return nil, q, err
	}
	return hut, q, nil
}

// FootprintTiles 小屋占用的每个格子一行，(map_id, tx, ty) 唯一
func FootprintTiles(mapID, hutID string, r Rect) []model.HutTile {
	pts := r.Tiles()
	out := make([]model.HutTile, 0, len(pts))
	for _, p := range pts {
		out = append(out, model.HutTile{MapID: mapID, TX: p.X, TY: p.Y, HutID: hutID})
	}
	return out
}
