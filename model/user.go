package model

import "time"

// TelegramUser mini-app 宿主传入的用户信息
type TelegramUser struct {
	ID           int64  `json:"id" binding:"required"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoUrl     string `json:"photo_url,omitempty"`
}

type User struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TelegramID int64     `gorm:"column:telegram_id;uniqueIndex;not null" json:"telegram_id"`
	Username   *string   `gorm:"column:username;type:varchar(255)" json:"username"`
	FirstName  string    `gorm:"column:first_name;type:varchar(255);not null" json:"first_name"`
	LastName   *string   `gorm:"column:last_name;type:varchar(255)" json:"last_name"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return TB_USER
}
