package model

const (
	TB_USER        = "n_user"
	TB_CHARACTER   = "n_character"
	TB_HUT         = "n_hut"
	TB_HUT_TILE    = "n_hut_tile"
	TB_HUT_UPGRADE = "n_hut_upgrade"
	TB_MAP_META    = "n_map_meta"
	TB_ZONE_COUNT  = "n_zone_count"
)

const (
	RaceHuman  = "human"
	RaceElf    = "elf"
	RaceUndead = "undead"
	RaceOrc    = "orc"
)

// 不可建造原因，作为 ConstructionQuote.Reason 返回给前端
const (
	ReasonNoZone            = "no zone"
	ReasonOccupied          = "occupied"
	ReasonInsufficientFunds = "insufficient funds"
	ReasonZoneFull          = "zone full"
)

const (
	UpgradeTypeStorage    = "storage"
	UpgradeTypeDefense    = "defense"
	UpgradeTypeDecoration = "decoration"
	UpgradeTypeUtility    = "utility"

	EffectStorageCapacity    = "storage_capacity"
	EffectDefenseBonus       = "defense_bonus"
	EffectResourceGeneration = "resource_generation"
	EffectVisitorBonus       = "visitor_bonus"
)

func ValidRace(race string) bool {
	switch race {
	case RaceHuman, RaceElf, RaceUndead, RaceOrc:
		return true
	}
	return false
}
