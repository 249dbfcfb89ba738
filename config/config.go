package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"realm/api/model"
)

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	CorsOrigins []string `mapstructure:"cors_origins"`
	SessionKey  string   `mapstructure:"session_key"`
}

type MysqlConfig struct {
	Dsn          string        `mapstructure:"dsn"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnMaxLife  time.Duration `mapstructure:"conn_max_life"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	JSON       bool   `mapstructure:"json"`
}

type AssetsConfig struct {
	MapsDir     string `mapstructure:"maps_dir"`
	TilesetsDir string `mapstructure:"tilesets_dir"`
}

type JwtConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type TelegramConfig struct {
	BotToken   string        `mapstructure:"bot_token"`
	InitMaxAge time.Duration `mapstructure:"init_max_age"`
}

type GameConfig struct {
	MapID          string                 `mapstructure:"map_id"`
	WorldWidth     int                    `mapstructure:"world_width"`
	WorldHeight    int                    `mapstructure:"world_height"`
	HutWidth       int                    `mapstructure:"hut_width"`
	HutHeight      int                    `mapstructure:"hut_height"`
	HutMaxStorage  int64                  `mapstructure:"hut_max_storage"`
	StartingGold   int64                  `mapstructure:"starting_gold"`
	StartingCity   string                 `mapstructure:"starting_city"`
	BuildPerMinute float64                `mapstructure:"build_per_minute"`
	BuildBurst     int                    `mapstructure:"build_burst"`
	Zones          []model.Zone           `mapstructure:"zones"`
	Castles        []model.CastleType     `mapstructure:"castles"`
	Upgrades       []model.UpgradeDef     `mapstructure:"upgrades"`
	RaceBonuses    map[string]model.Stats `mapstructure:"race_bonuses"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Mysql    MysqlConfig    `mapstructure:"mysql"`
	Log      LogConfig      `mapstructure:"log"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Jwt      JwtConfig      `mapstructure:"jwt"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Game     GameConfig     `mapstructure:"game"`
}

var (
	conf     *Config
	confOnce sync.Once
	confErr  error
)

// GetConfig 懒加载配置；读取失败时 panic（启动期错误）
func GetConfig() *Config {
	confOnce.Do(func() {
		conf, confErr = Load("")
	})
	if confErr != nil {
		panic(confErr)
	}
	return conf
}

// Load 读取 .env + config.yaml + REALM_ 环境变量；path 为空时按默认路径搜索
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("REALM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Game.fillDefaults()
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.session_key", "realm-session-key")

	v.SetDefault("mysql.dsn", "")
	v.SetDefault("mysql.max_open_conns", 20)
	v.SetDefault("mysql.max_idle_conns", 5)
	v.SetDefault("mysql.conn_max_life", time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/realm.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("assets.maps_dir", "assets/maps")
	v.SetDefault("assets.tilesets_dir", "assets/tilesets")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 72*time.Hour)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.init_max_age", 24*time.Hour)

	v.SetDefault("game.map_id", "my_world")
	v.SetDefault("game.world_width", 1000)
	v.SetDefault("game.world_height", 1000)
	v.SetDefault("game.hut_width", 4)
	v.SetDefault("game.hut_height", 4)
	v.SetDefault("game.hut_max_storage", 1000)
	v.SetDefault("game.starting_gold", 2000)
	v.SetDefault("game.starting_city", "kingdom_capital")
	v.SetDefault("game.build_per_minute", 6)
	v.SetDefault("game.build_burst", 3)
}

func (g *GameConfig) fillDefaults() {
	cx, cy := float64(g.WorldWidth)/2, float64(g.WorldHeight)/2
	if len(g.Zones) == 0 {
		g.Zones = []model.Zone{
			{ID: "center", Name: "Central zone", Emoji: "🏰", Description: "Prestigious plots at the heart of the map",
				BasePrice: 10000, PriceMultiplier: 1.0, MaxHuts: 5, CenterX: cx, CenterY: cy, Radius: 50},
			{ID: "inner", Name: "Inner zone", Emoji: "🏘️", Description: "Close to the center, good location",
				BasePrice: 5000, PriceMultiplier: 0.7, MaxHuts: 15, CenterX: cx, CenterY: cy, Radius: 100},
			{ID: "outer", Name: "Outer zone", Emoji: "🏕️", Description: "Further out, more affordable",
				BasePrice: 2000, PriceMultiplier: 0.4, MaxHuts: 30, CenterX: cx, CenterY: cy, Radius: 200},
			{ID: "wilderness", Name: "Wilderness", Emoji: "🌲", Description: "The cheapest plots on the outskirts",
				BasePrice: 500, PriceMultiplier: 0.1, MaxHuts: 50, CenterX: cx, CenterY: cy, Radius: 300},
		}
	}
	if len(g.Castles) == 0 {
		g.Castles = []model.CastleType{
			{ID: "wooden_castle", Name: "Wooden castle", Emoji: "🏰", BasePrice: 500,
				Bonuses: model.CastleBonuses{Production: 10, Defense: 5, Capacity: 100}},
			{ID: "stone_castle", Name: "Stone castle", Emoji: "🏛️", BasePrice: 1000,
				Bonuses: model.CastleBonuses{Production: 15, Defense: 20, Capacity: 200}},
			{ID: "magic_castle", Name: "Magic castle", Emoji: "✨", BasePrice: 1500,
				Bonuses: model.CastleBonuses{Production: 30, Defense: 15, Capacity: 150}},
		}
	}
	if len(g.Upgrades) == 0 {
		g.Upgrades = []model.UpgradeDef{
			{ID: "storehouse", Name: "Storehouse", Type: model.UpgradeTypeStorage, Cost: 300, MaxLevel: 5,
				Effects: []model.UpgradeEffect{{Type: model.EffectStorageCapacity, Value: 500}}},
			{ID: "palisade", Name: "Palisade", Type: model.UpgradeTypeDefense, Cost: 400, MaxLevel: 3,
				Effects: []model.UpgradeEffect{{Type: model.EffectDefenseBonus, Value: 10}}},
			{ID: "workshop", Name: "Workshop", Type: model.UpgradeTypeUtility, Cost: 500, MaxLevel: 3,
				Effects: []model.UpgradeEffect{{Type: model.EffectResourceGeneration, Value: 5}}},
			{ID: "banner", Name: "Banner", Type: model.UpgradeTypeDecoration, Cost: 150, MaxLevel: 1,
				Effects: []model.UpgradeEffect{{Type: model.EffectVisitorBonus, Value: 1}}},
		}
	}
	if len(g.RaceBonuses) == 0 {
		g.RaceBonuses = map[string]model.Stats{
			model.RaceHuman:  {Strength: 5, Agility: 5, Intelligence: 5, Vitality: 10},
			model.RaceElf:    {Strength: 0, Agility: 15, Intelligence: 10, Vitality: 0},
			model.RaceUndead: {Strength: 8, Agility: 2, Intelligence: 10, Vitality: 5},
			model.RaceOrc:    {Strength: 20, Agility: 0, Intelligence: -5, Vitality: 10},
		}
	}
}

func (g *GameConfig) Castle(id string) (model.CastleType, bool) {
	for _, c := range g.Castles {
		if c.ID == id {
			return c, true
		}
	}
	return model.CastleType{}, false
}

func (g *GameConfig) Upgrade(id string) (model.UpgradeDef, bool) {
	for _, u := range g.Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return model.UpgradeDef{}, false
}

func (g *GameConfig) HutSize() model.Size {
	return model.Size{Width: g.HutWidth, Height: g.HutHeight}
}
