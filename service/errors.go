package service

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCharacterNotFound  = errors.New("character not found")
	ErrCharacterExists    = errors.New("character already exists")
	ErrInvalidName        = errors.New("name must be 2-20 characters")
	ErrInvalidRace        = errors.New("invalid race")
	ErrHutNotFound        = errors.New("hut not found")
	ErrUnknownCastle      = errors.New("unknown castle type")
	ErrUnknownUpgrade     = errors.New("unknown upgrade")
	ErrUpgradeMaxed       = errors.New("upgrade already at max level")
	ErrInsufficientGold   = errors.New("insufficient gold")
	ErrSearchNotAvailable = errors.New("search index not available")
)

// 判断是否唯一键冲突（MySQL 1062）
func isDup(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
