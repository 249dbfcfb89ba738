package service

import (
	"time"

	"github.com/shopspring/decimal"

	"realm/api/model"
)

// 每小时产量按资源拆分的比例，基数为城堡产量加上升级加成
var (
	shareWood  = decimal.NewFromInt(1)
	shareStone = decimal.NewFromFloat(0.5)
	shareMetal = decimal.NewFromFloat(0.2)
	shareGems  = decimal.NewFromFloat(0.05)
	shareFood  = decimal.NewFromInt(2)

	hourNanos = decimal.NewFromInt(int64(time.Hour))
)

type accrualSlot struct {
	share  decimal.Decimal
	amount *int64
	gained *int64
	carry  *decimal.Decimal
}

// Accrue 按离开时长累计资源，按 wood→food 顺序填充，总量不超过 MaxStorage。
// 不足一个单位的部分留在 carry 里，下次继续累加；仓库装不下的产量直接作废。
func Accrue(res model.HutResources, carry model.ResourceCarry, ratePerHour int, elapsed time.Duration) (model.HutResources, model.ResourceCarry, model.HutResources) {
	var gained model.HutResources
	if ratePerHour <= 0 || elapsed <= 0 {
		return res, carry, gained
	}
	// rate * share * 纳秒，再按 1h 取商和余数
	base := decimal.NewFromInt(int64(ratePerHour)).Mul(decimal.NewFromInt(int64(elapsed)))

	slots := []accrualSlot{
		{shareWood, &res.Wood, &gained.Wood, &carry.Wood},
		{shareStone, &res.Stone, &gained.Stone, &carry.Stone},
		{shareMetal, &res.Metal, &gained.Metal, &carry.Metal},
		{shareGems, &res.Gems, &gained.Gems, &carry.Gems},
		{shareFood, &res.Food, &gained.Food, &carry.Food},
	}

	free := res.MaxStorage - res.Total()
	if free < 0 {
		free = 0
	}
	for _, s := range slots {
		produced := s.carry.Add(base.Mul(s.share))
		q, rem := produced.QuoRem(hourNanos, 0)
		n := q.IntPart()
		if n > free {
			n = free
			rem = decimal.Zero
		}
		*s.amount += n
		*s.gained = n
		*s.carry = rem
		free -= n
	}
	return res, carry, gained
}

// ProductionRate 城堡产量 + 资源类升级效果
func ProductionRate(castle model.CastleType, upgrades []model.HutUpgrade, catalog func(id string) (model.UpgradeDef, bool)) int {
	rate := castle.Bonuses.Production
	for _, u := range upgrades {
		def, ok := catalog(u.UpgradeID)
		if !ok {
			continue
		}
		for _, e := range def.Effects {
			if e.Type == model.EffectResourceGeneration {
				rate += e.Value * u.Level
			}
		}
	}
	return rate
}

// UpgradeCost 第 n 级价格为基础价 * n
func UpgradeCost(def model.UpgradeDef, nextLevel int) int64 {
	return def.Cost * int64(nextLevel)
}

// ApplyUpgradeEffects 一级升级对小屋的直接影响；其余效果在读取时计算
func ApplyUpgradeEffects(h *model.Hut, def model.UpgradeDef) {
	for _, e := range def.Effects {
		if e.Type == model.EffectStorageCapacity {
			h.Resources.MaxStorage += int64(e.Value)
		}
	}
}

// NewCharacter 按种族加成生成初始角色
func NewCharacter(user *model.User, name, race string, bonus model.Stats, gold int64, city string) model.Character {
	now := time.Now()
	return model.Character{
		UserID:     user.ID,
		TelegramID: user.TelegramID,
		Name:       name,
		Race:       race,
		Level:      1,
		Stats: model.Stats{
			Strength:     10 + bonus.Strength,
			Agility:      10 + bonus.Agility,
			Intelligence: 10 + bonus.Intelligence,
			Vitality:     10 + bonus.Vitality,
		},
		MaxHealth:   100 + bonus.Vitality*5,
		Health:      100 + bonus.Vitality*5,
		MaxMana:     50 + bonus.Intelligence*2,
		Mana:        50 + bonus.Intelligence*2,
		Gold:        gold,
		CurrentCity: city,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
