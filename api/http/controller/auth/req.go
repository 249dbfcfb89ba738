package auth

type CreateCharacterReq struct {
	Name string `json:"name" binding:"required"`
	Race string `json:"race" binding:"required"`
}

type UpgradeReq struct {
	UpgradeID string `json:"upgrade_id" binding:"required"`
}
