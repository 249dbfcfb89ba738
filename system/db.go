package system

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"realm/api/config"
	"realm/api/log"
	"realm/api/model"
)

var db *gorm.DB

var ErrDbNotReady = errors.New("database not initialized")

// InitDb 连接 MySQL 并同步表结构
func InitDb(c config.MysqlConfig) error {
	if c.Dsn == "" {
		return errors.New("mysql.dsn is empty")
	}
	gdb, err := gorm.Open(mysql.Open(c.Dsn), &gorm.Config{
		Logger: logger.New(log.Logger(), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLife)

	if err := gdb.AutoMigrate(
		&model.User{},
		&model.Character{},
		&model.Hut{},
		&model.ZoneCount{},
		&model.HutUpgrade{},
		&model.HutTile{},
		&model.MapMeta{},
	); err != nil {
		return err
	}

	db = gdb
	log.Info("mysql ready")
	return nil
}

func GetDb() *gorm.DB {
	return db
}

// SetDb 测试或嵌入场景直接注入连接
func SetDb(d *gorm.DB) {
	db = d
}

// QueryContext 原生 SQL 查询，调用方负责关闭 rows
func QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if db == nil {
		return nil, ErrDbNotReady
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlDB.QueryContext(ctx, query, args...)
}

const nonceLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateNonce 随机大写字母数字串
func GenerateNonce(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(nonceLetters)))
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = nonceLetters[i%len(nonceLetters)]
			continue
		}
		b[i] = nonceLetters[v.Int64()]
	}
	return string(b)
}
