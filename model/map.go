package model

import "time"

type BBox struct {
	MinX, MinY float64 // 像素坐标
	MaxX, MaxY float64
}

// MapMeta 以数据库形式保存的 tmj 文档；没有记录时回退到 assets 目录
type MapMeta struct {
	MapID      string    `gorm:"column:map_id;primaryKey;type:varchar(64)" json:"map_id"`
	TmjJSON    []byte    `gorm:"column:tmj_json;type:longblob" json:"-"`
	Rev        int64     `gorm:"column:rev" json:"rev"`
	UpdateTime time.Time `gorm:"column:update_time" json:"update_time"`
}

func (MapMeta) TableName() string {
	return TB_MAP_META
}
