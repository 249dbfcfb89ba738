package model

const (
	ViewHome              = "home"
	ViewCharacterCreation = "character-creation"
	ViewGame              = "game"
	ViewBattle            = "battle"
	ViewInventory         = "inventory"
	ViewMap               = "map"
	ViewShop              = "shop"
	ViewCrafting          = "crafting"
	ViewHuts              = "huts"
)

// AppState 前端会话状态，只在会话开始/结束时整体读写
type AppState struct {
	CurrentView      string `json:"current_view"`
	SelectedCity     string `json:"selected_city,omitempty"`
	SelectedLocation string `json:"selected_location,omitempty"`
	SelectedCastle   string `json:"selected_castle,omitempty"`
}

func DefaultAppState() AppState {
	return AppState{CurrentView: ViewHome}
}

func ValidView(view string) bool {
	switch view {
	case ViewHome, ViewCharacterCreation, ViewGame, ViewBattle, ViewInventory,
		ViewMap, ViewShop, ViewCrafting, ViewHuts:
		return true
	}
	return false
}
