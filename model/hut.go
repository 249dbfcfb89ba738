package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Size struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// Zone 圆形建造区域，按配置顺序匹配（先命中者优先）
type Zone struct {
	ID              string  `json:"id" mapstructure:"id"`
	Name            string  `json:"name" mapstructure:"name"`
	Emoji           string  `json:"emoji" mapstructure:"emoji"`
	Description     string  `json:"description" mapstructure:"description"`
	BasePrice       float64 `json:"base_price" mapstructure:"base_price"`
	PriceMultiplier float64 `json:"price_multiplier" mapstructure:"price_multiplier"`
	MaxHuts         int     `json:"max_huts" mapstructure:"max_huts"`
	CenterX         float64 `json:"center_x" mapstructure:"center_x"`
	CenterY         float64 `json:"center_y" mapstructure:"center_y"`
	Radius          float64 `json:"radius" mapstructure:"radius"`
}

type CastleBonuses struct {
	Production int `json:"production" mapstructure:"production"`
	Defense    int `json:"defense" mapstructure:"defense"`
	Capacity   int `json:"capacity" mapstructure:"capacity"`
}

type CastleType struct {
	ID          string        `json:"id" mapstructure:"id"`
	Name        string        `json:"name" mapstructure:"name"`
	Emoji       string        `json:"emoji" mapstructure:"emoji"`
	Description string        `json:"description" mapstructure:"description"`
	BasePrice   int64         `json:"base_price" mapstructure:"base_price"`
	Bonuses     CastleBonuses `json:"bonuses" mapstructure:"bonuses"`
}

type UpgradeEffect struct {
	Type  string `json:"type" mapstructure:"type"`
	Value int    `json:"value" mapstructure:"value"`
}

// UpgradeDef 静态升级目录
type UpgradeDef struct {
	ID          string          `json:"id" mapstructure:"id"`
	Name        string          `json:"name" mapstructure:"name"`
	Type        string          `json:"type" mapstructure:"type"`
	Description string          `json:"description" mapstructure:"description"`
	Cost        int64           `json:"cost" mapstructure:"cost"`
	MaxLevel    int             `json:"max_level" mapstructure:"max_level"`
	Effects     []UpgradeEffect `json:"effects" mapstructure:"effects"`
}

type HutResources struct {
	Wood       int64 `gorm:"column:wood" json:"wood"`
	Stone      int64 `gorm:"column:stone" json:"stone"`
	Metal      int64 `gorm:"column:metal" json:"metal"`
	Gems       int64 `gorm:"column:gems" json:"gems"`
	Food       int64 `gorm:"column:food" json:"food"`
	MaxStorage int64 `gorm:"column:max_storage" json:"max_storage"`
}

// ResourceCarry 尚未凑满一个单位的产量，单位为 资源·纳秒，下次结算时累加
type ResourceCarry struct {
	Wood  decimal.Decimal `gorm:"column:wood;type:decimal(30,4)"`
	Stone decimal.Decimal `gorm:"column:stone;type:decimal(30,4)"`
	Metal decimal.Decimal `gorm:"column:metal;type:decimal(30,4)"`
	Gems  decimal.Decimal `gorm:"column:gems;type:decimal(30,4)"`
	Food  decimal.Decimal `gorm:"column:food;type:decimal(30,4)"`
}

func (r HutResources) Total() int64 {
	return r.Wood + r.Stone + r.Metal + r.Gems + r.Food
}

type Hut struct {
	ID           string        `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	MapID        string        `gorm:"column:map_id;type:varchar(64);index:idx_hut_map_xy" json:"map_id"`
	OwnerID      int64         `gorm:"column:owner_id;index" json:"owner_id"`
	OwnerName    string        `gorm:"column:owner_name;type:varchar(64)" json:"owner_name"`
	Name         string        `gorm:"column:name;type:varchar(128)" json:"name"`
	X            int           `gorm:"column:x;index:idx_hut_map_xy" json:"x"`
	Y            int           `gorm:"column:y;index:idx_hut_map_xy" json:"y"`
	Width        int           `gorm:"column:width" json:"width"`
	Height       int           `gorm:"column:height" json:"height"`
	ZoneID       string        `gorm:"column:zone_id;type:varchar(32);index" json:"zone_id"`
	CastleTypeID string        `gorm:"column:castle_type_id;type:varchar(32)" json:"castle_type_id"`
	Level        int           `gorm:"column:level" json:"level"`
	Resources    HutResources  `gorm:"embedded" json:"resources"`
	Carry        ResourceCarry `gorm:"embedded;embeddedPrefix:carry_" json:"-"`
	Upgrades     []HutUpgrade  `gorm:"foreignKey:HutID;references:ID" json:"upgrades"`
	Cost         int64         `gorm:"column:cost" json:"cost"`
	LastVisited  time.Time     `gorm:"column:last_visited" json:"last_visited"`
	CreatedAt    time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Hut) TableName() string {
	return TB_HUT
}

func (h Hut) Size() Size {
	return Size{Width: h.Width, Height: h.Height}
}

type HutUpgrade struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	HutID     string    `gorm:"column:hut_id;type:varchar(64);uniqueIndex:uk_hut_upgrade" json:"-"`
	UpgradeID string    `gorm:"column:upgrade_id;type:varchar(32);uniqueIndex:uk_hut_upgrade" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(64)" json:"name"`
	Type      string    `gorm:"column:type;type:varchar(16)" json:"type"`
	Level     int       `gorm:"column:level" json:"level"`
	Cost      int64     `gorm:"column:cost" json:"cost"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (HutUpgrade) TableName() string {
	return TB_HUT_UPGRADE
}

// HutTile 占地格子，(map_id, tx, ty) 唯一，数据库层面保证同一格子只能被一座建筑占用
type HutTile struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement"`
	MapID string `gorm:"column:map_id;type:varchar(64);uniqueIndex:uk_map_tile"`
	TX    int    `gorm:"column:tx;uniqueIndex:uk_map_tile"`
	TY    int    `gorm:"column:ty;uniqueIndex:uk_map_tile"`
	HutID string `gorm:"column:hut_id;type:varchar(64);index"`
}

func (HutTile) TableName() string {
	return TB_HUT_TILE
}

// ZoneCount 每个区域一行的建筑计数，建造事务对这一行加锁来保证 max_huts 上限
type ZoneCount struct {
	MapID  string `gorm:"column:map_id;primaryKey;type:varchar(64)"`
	ZoneID string `gorm:"column:zone_id;primaryKey;type:varchar(32)"`
	Huts   int64  `gorm:"column:huts"`
}

func (ZoneCount) TableName() string {
	return TB_ZONE_COUNT
}

// ConstructionQuote 每次悬停/点击即时计算，不落库
type ConstructionQuote struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Zone     *Zone  `json:"zone"`
	Cost     int64  `json:"cost"`
	CanBuild bool   `json:"can_build"`
	Reason   string `json:"reason,omitempty"`
}
