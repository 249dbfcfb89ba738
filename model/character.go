package model

import "time"

type Stats struct {
	Strength     int `gorm:"column:strength" json:"strength" mapstructure:"strength"`
	Agility      int `gorm:"column:agility" json:"agility" mapstructure:"agility"`
	Intelligence int `gorm:"column:intelligence" json:"intelligence" mapstructure:"intelligence"`
	Vitality     int `gorm:"column:vitality" json:"vitality" mapstructure:"vitality"`
}

type Character struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	TelegramID  int64     `gorm:"column:telegram_id;index" json:"telegram_id"`
	Name        string    `gorm:"column:name;type:varchar(32);not null" json:"name"`
	Race        string    `gorm:"column:race;type:varchar(16);not null" json:"race"`
	Level       int       `gorm:"column:level" json:"level"`
	Experience  int64     `gorm:"column:experience" json:"experience"`
	Health      int       `gorm:"column:health" json:"health"`
	MaxHealth   int       `gorm:"column:max_health" json:"max_health"`
	Mana        int       `gorm:"column:mana" json:"mana"`
	MaxMana     int       `gorm:"column:max_mana" json:"max_mana"`
	Stats       Stats     `gorm:"embedded" json:"stats"`
	Gold        int64     `gorm:"column:gold" json:"gold"`
	CurrentCity string    `gorm:"column:current_city;type:varchar(64)" json:"current_city"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Character) TableName() string {
	return TB_CHARACTER
}
