package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realm/api/config"
	"realm/api/log"
	"realm/api/model"
	"realm/api/service/placement"
	"realm/api/system"
)

const EventHutBuilt = "hut_built"
const EventHutUpgraded = "hut_upgraded"

// Broadcaster 推送建造事件给在线客户端
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type HutService struct {
	db    *gorm.DB
	game  *config.GameConfig
	index *HutIndex
	feed  Broadcaster
}

func NewHutService(db *gorm.DB, game *config.GameConfig, index *HutIndex, feed Broadcaster) *HutService {
	return &HutService{db: db, game: game, index: index, feed: feed}
}

type BuildReq struct {
	X            int    `json:"x"`
	Y            int    `json:"y"`
	CastleTypeID string `json:"castle_type_id"`
	Name         string `json:"name"`
}

/* ---------- 查询 ---------- */

func (s *HutService) List(ctx context.Context, mapID string) ([]model.Hut, error) {
	var huts []model.Hut
	err := s.db.WithContext(ctx).Preload("Upgrades").
		Where("map_id = ?", mapID).
		Order("created_at DESC").
		Find(&huts).Error
	return huts, err
}

func (s *HutService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Hut, error) {
	var huts []model.Hut
	err := s.db.WithContext(ctx).Preload("Upgrades").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&huts).Error
	return huts, err
}

func (s *HutService) Get(ctx context.Context, id string) (*model.Hut, error) {
	var hut model.Hut
	err := s.db.WithContext(ctx).Preload("Upgrades").Where("id = ?", id).First(&hut).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHutNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hut, nil
}

// InView 视口内的小屋（像素坐标换算为格子后做 AABB 相交）
func (s *HutService) InView(ctx context.Context, mapID string, bbox model.BBox, tileW, tileH int) ([]model.Hut, error) {
	const q = `
SELECT id, owner_id, owner_name, name, x, y, width, height, zone_id, castle_type_id, level
FROM n_hut
WHERE map_id = ?
  AND (x + width) > ?
  AND x < ?
  AND (y + height) > ?
  AND y < ?
ORDER BY created_at DESC;
`
	minTX, maxTX := int(bbox.MinX)/tileW, (int(bbox.MaxX)+tileW-1)/tileW
	minTY, maxTY := int(bbox.MinY)/tileH, (int(bbox.MaxY)+tileH-1)/tileH

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := system.QueryContext(ctx, q, mapID, minTX, maxTX, minTY, maxTY)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hut
	for rows.Next() {
		h := model.Hut{MapID: mapID}
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.OwnerName, &h.Name, &h.X, &h.Y, &h.Width, &h.Height,
			&h.ZoneID, &h.CastleTypeID, &h.Level); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Search 全文检索后按命中顺序回表
func (s *HutService) Search(ctx context.Context, q string, limit int) ([]model.Hut, error) {
	ids, err := s.index.Search(q, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Hut{}, nil
	}
	var huts []model.Hut
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&huts).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]model.Hut, len(huts))
	for _, h := range huts {
		byID[h.ID] = h
	}
	out := make([]model.Hut, 0, len(huts))
	for _, id := range ids {
		if h, ok := byID[id]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

// ReindexAll 启动时把全部小屋灌进搜索索引
func (s *HutService) ReindexAll(ctx context.Context) error {
	var huts []model.Hut
	if err := s.db.WithContext(ctx).Find(&huts).Error; err != nil {
		return err
	}
	return s.index.Rebuild(huts)
}

/* ---------- 报价与建造 ---------- */

func (s *HutService) candidate(req BuildReq) (placement.Candidate, model.CastleType, error) {
	castle, ok := s.game.Castle(req.CastleTypeID)
	if !ok {
		return placement.Candidate{}, castle, fmt.Errorf("%w: %s", ErrUnknownCastle, req.CastleTypeID)
	}
	return placement.Candidate{
		X:               req.X,
		Y:               req.Y,
		Size:            s.game.HutSize(),
		CastleBasePrice: castle.BasePrice,
	}, castle, nil
}

// Quote 非权威报价：读当前快照，不加锁
func (s *HutService) Quote(ctx context.Context, ownerID int64, req BuildReq) (model.ConstructionQuote, error) {
	cand, _, err := s.candidate(req)
	if err != nil {
		return model.ConstructionQuote{}, err
	}
	snap := &gormTx{tx: s.db}
	gold, err := snap.LockGold(ctx, ownerID)
	if err != nil {
		return model.ConstructionQuote{}, err
	}
	huts, err := snap.Overlapping(ctx, s.game.MapID, cand.Rect())
	if err != nil {
		return model.ConstructionQuote{}, err
	}
	return placement.CanBuild(cand, s.game.Zones, huts, gold), nil
}

// Build 走完整的放置流程：快照报价 → 确认 → 事务内权威提交
func (s *HutService) Build(ctx context.Context, ownerID int64, req BuildReq) (*model.Hut, model.ConstructionQuote, error) {
	cand, castle, err := s.candidate(req)
	if err != nil {
		return nil, model.ConstructionQuote{}, err
	}
	ch, err := NewCharacterService(s.db, s.game).Get(ctx, ownerID)
	if err != nil {
		return nil, model.ConstructionQuote{}, err
	}

	snap := &gormTx{tx: s.db}
	huts, err := snap.Overlapping(ctx, s.game.MapID, cand.Rect())
	if err != nil {
		return nil, model.ConstructionQuote{}, err
	}

	p := placement.NewPlacement()
	q, err := p.Hover(cand, s.game.Zones, huts, ch.Gold)
	if err != nil {
		return nil, q, err
	}
	if err := p.Confirm(); err != nil {
		return nil, q, &placement.RejectedError{Quote: q}
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("%s's Hut", ch.Name)
	}
	order := placement.Order{
		MapID:        s.game.MapID,
		OwnerID:      ownerID,
		OwnerName:    ch.Name,
		Name:         name,
		CastleTypeID: castle.ID,
		MaxStorage:   s.game.HutMaxStorage + int64(castle.Bonuses.Capacity),
	}
	var settled model.ConstructionQuote
	err = p.Commit(ctx, placement.CommitFunc(func(ctx context.Context, c placement.Candidate) (*model.Hut, error) {
		order.Candidate = c
		hut, sq, err := s.commit(ctx, order)
		settled = sq
		return hut, err
	}))
	if err != nil {
		if settled.Zone != nil || settled.Reason != "" {
			q = settled
		}
		return nil, q, err
	}

	hut := p.Hut()
	if err := s.index.Add(hut); err != nil {
		log.Warnf("index hut %s: %v", hut.ID, err)
	}
	if s.feed != nil {
		s.feed.Broadcast(EventHutBuilt, hut)
	}
	log.Infof("hut built id=%s owner=%d at (%d,%d) zone=%s cost=%d", hut.ID, ownerID, hut.X, hut.Y, hut.ZoneID, hut.Cost)
	return hut, settled, nil
}

func (s *HutService) commit(ctx context.Context, order placement.Order) (hut *model.Hut, q model.ConstructionQuote, err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, q, tx.Error
	}
	committed := false
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			log.Error("panic", r)
			err = fmt.Errorf("build panic: %v", r)
			return
		}
		if !committed {
			_ = tx.Rollback()
		}
	}()

	hut, q, err = placement.Settle(ctx, &gormTx{tx: tx, lock: true}, s.game.Zones, order, newHutID(), time.Now())
	if err != nil {
		return nil, q, err
	}
	if err := tx.Commit().Error; err != nil {
		if isDup(err) {
			return nil, q, placement.ErrPersistenceConflict
		}
		return nil, q, err
	}
	committed = true
	return hut, q, nil
}

func newHutID() string {
	return "hut_" + uuid.NewString()
}

/* ---------- 升级与访问 ---------- */

func (s *HutService) Upgrade(ctx context.Context, ownerID int64, hutID, upgradeID string) (*model.Hut, error) {
	def, ok := s.game.Upgrade(upgradeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUpgrade, upgradeID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hut model.Hut
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ?", hutID, ownerID).
			First(&hut).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHutNotFound
			}
			return err
		}

		var up model.HutUpgrade
		err := tx.Where("hut_id = ? AND upgrade_id = ?", hutID, upgradeID).First(&up).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if up.Level >= def.MaxLevel {
			return ErrUpgradeMaxed
		}
		next := up.Level + 1
		cost := UpgradeCost(def, next)

		if err := (&gormTx{tx: tx}).DebitGold(ctx, ownerID, cost); err != nil {
			return err
		}

		now := time.Now()
		if up.ID == 0 {
			up = model.HutUpgrade{HutID: hutID, UpgradeID: def.ID, Name: def.Name, Type: def.Type}
		}
		up.Level = next
		up.Cost += cost
		up.UpdatedAt = now
		if err := tx.Save(&up).Error; err != nil {
			return err
		}

		ApplyUpgradeEffects(&hut, def)
		hut.Level++
		hut.UpdatedAt = now
		return tx.Model(&hut).Select("max_storage", "level", "updated_at").Updates(&hut).Error
	})
	if err != nil {
		return nil, err
	}

	hut, err := s.Get(ctx, hutID)
	if err != nil {
		return nil, err
	}
	if s.feed != nil {
		s.feed.Broadcast(EventHutUpgraded, hut)
	}
	return hut, nil
}

type VisitResult struct {
	Hut    *model.Hut         `json:"hut"`
	Gained model.HutResources `json:"gained"`
}

// Visit 结算离开期间的产出并刷新 last_visited
func (s *HutService) Visit(ctx context.Context, ownerID int64, hutID string, now time.Time) (*VisitResult, error) {
	var out VisitResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hut model.Hut
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Upgrades").
			Where("id = ? AND owner_id = ?", hutID, ownerID).
			First(&hut).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHutNotFound
			}
			return err
		}

		castle, _ := s.game.Castle(hut.CastleTypeID)
		rate := ProductionRate(castle, hut.Upgrades, s.game.Upgrade)
		res, carry, gained := Accrue(hut.Resources, hut.Carry, rate, now.Sub(hut.LastVisited))

		hut.Resources = res
		hut.Carry = carry
		hut.LastVisited = now
		hut.UpdatedAt = now
		if err := tx.Model(&hut).
			Select("wood", "stone", "metal", "gems", "food",
				"carry_wood", "carry_stone", "carry_metal", "carry_gems", "carry_food",
				"last_visited", "updated_at").
			Updates(&hut).Error; err != nil {
			return err
		}
		out = VisitResult{Hut: &hut, Gained: gained}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* ---------- gorm 事务实现 ---------- */

// gormTx placement.Tx 的 MySQL 实现；lock=true 时读操作加 FOR UPDATE
type gormTx struct {
	tx   *gorm.DB
	lock bool
}

func (g *gormTx) query(ctx context.Context) *gorm.DB {
	q := g.tx.WithContext(ctx)
	if g.lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (g *gormTx) LockGold(ctx context.Context, ownerID int64) (int64, error) {
	var ch model.Character
	if err := g.query(ctx).Where("telegram_id = ?", ownerID).First(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCharacterNotFound
		}
		return 0, err
	}
	return ch.Gold, nil
}

func (g *gormTx) Overlapping(ctx context.Context, mapID string, r placement.Rect) ([]model.Hut, error) {
	var huts []model.Hut
	err := g.query(ctx).
		Where("map_id = ? AND x < ? AND (x + width) > ? AND y < ? AND (y + height) > ?",
			mapID, r.X+r.W, r.X, r.Y+r.H, r.Y).
		Find(&huts).Error
	return huts, err
}

// CountInZone lock=true 时锁住 n_zone_count 里这一行，并发建造在此排队；
// 行不存在时按 n_hut 现有数量初始化
func (g *gormTx) CountInZone(ctx context.Context, mapID, zoneID string) (int64, error) {
	db := g.tx.WithContext(ctx)
	var n int64
	if err := db.Model(&model.Hut{}).
		Where("map_id = ? AND zone_id = ?", mapID, zoneID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	if !g.lock {
		return n, nil
	}

	seed := model.ZoneCount{MapID: mapID, ZoneID: zoneID, Huts: n}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}
	var zc model.ZoneCount
	if err := g.query(ctx).Where("map_id = ? AND zone_id = ?", mapID, zoneID).First(&zc).Error; err != nil {
		return 0, err
	}
	return zc.Huts, nil
}

func (g *gormTx) DebitGold(ctx context.Context, ownerID int64, amount int64) error {
	if amount <= 0 {
		return nil
	}
	res := g.tx.WithContext(ctx).Model(&model.Character{}).
		Where("telegram_id = ? AND gold >= ?", ownerID, amount).
		UpdateColumn("gold", gorm.Expr("gold - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientGold
	}
	return nil
}

func (g *gormTx) InsertHut(ctx context.Context, hut *model.Hut, tiles []model.HutTile) error {
	db := g.tx.WithContext(ctx)
	if err := db.Omit("Upgrades").Create(hut).Error; err != nil {
		if isDup(err) {
			return placement.ErrPersistenceConflict
		}
		return err
	}
	if len(tiles) > 0 {
		if err := db.CreateInBatches(&tiles, 100).Error; err != nil {
			if isDup(err) {
				return placement.ErrPersistenceConflict
			}
			return err
		}
	}
	return db.Model(&model.ZoneCount{}).
		Where("map_id = ? AND zone_id = ?", hut.MapID, hut.ZoneID).
		UpdateColumn("huts", gorm.Expr("huts + 1")).Error
}
