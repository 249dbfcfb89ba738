package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"realm/api/config"
	"realm/api/log"
	"realm/api/model"
)

type CharacterService struct {
	db   *gorm.DB
	game *config.GameConfig
}

func NewCharacterService(db *gorm.DB, game *config.GameConfig) *CharacterService {
	return &CharacterService{db: db, game: game}
}

// InitUser 按 telegram id 查找或创建用户，character 不存在时返回 nil
func (s *CharacterService) InitUser(ctx context.Context, tu model.TelegramUser) (*model.User, *model.Character, error) {
	db := s.db.WithContext(ctx)

	var user model.User
	err := db.Where("telegram_id = ?", tu.ID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = model.User{
			TelegramID: tu.ID,
			FirstName:  tu.FirstName,
			Username:   optional(tu.Username),
			LastName:   optional(tu.LastName),
		}
		if err := db.Create(&user).Error; err != nil {
			if !isDup(err) {
				return nil, nil, err
			}
			// 并发首次登录，另一请求已插入
			if err := db.Where("telegram_id = ?", tu.ID).First(&user).Error; err != nil {
				return nil, nil, err
			}
		} else {
			log.Infof("new user telegram_id=%d", tu.ID)
		}
	} else if err != nil {
		return nil, nil, err
	}

	ch, err := s.Get(ctx, tu.ID)
	if errors.Is(err, ErrCharacterNotFound) {
		return &user, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &user, ch, nil
}

func (s *CharacterService) Create(ctx context.Context, telegramID int64, name, race string) (*model.Character, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 20 {
		return nil, ErrInvalidName
	}
	if !model.ValidRace(race) {
		return nil, ErrInvalidRace
	}

	db := s.db.WithContext(ctx)
	var user model.User
	if err := db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ch := NewCharacter(&user, name, race, s.game.RaceBonuses[race], s.game.StartingGold, s.game.StartingCity)
	if err := db.Create(&ch).Error; err != nil {
		if isDup(err) {
			return nil, ErrCharacterExists
		}
		return nil, err
	}
	log.Infof("character created user_id=%d name=%s race=%s", user.ID, name, race)
	return &ch, nil
}

func (s *CharacterService) Get(ctx context.Context, telegramID int64) (*model.Character, error) {
	var ch model.Character
	err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCharacterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
