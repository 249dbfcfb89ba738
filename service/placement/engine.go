package placement

import "realm/api/model"

// Candidate 悬停或点击的候选地块
type Candidate struct {
	X               int        `json:"x"`
	Y               int        `json:"y"`
	Size            model.Size `json:"size"`
	CastleBasePrice int64      `json:"castle_base_price"`
}

func (c Candidate) Rect() Rect {
	return RectAt(c.X, c.Y, c.Size)
}

// CanBuild 定位区域并报价，再检查碰撞与金币；占用优先于余额不足
func CanBuild(c Candidate, zones []model.Zone, huts []model.Hut, payerGold int64) model.ConstructionQuote {
	zone := ZoneFor(c.X, c.Y, zones)
	if zone == nil {
		return model.ConstructionQuote{X: c.X, Y: c.Y, Reason: model.ReasonNoZone}
	}

	q := Quote(c.X, c.Y, zone, c.CastleBasePrice)
	switch {
	case Collides(c.X, c.Y, c.Size, huts):
		q.CanBuild = false
		q.Reason = model.ReasonOccupied
	case payerGold < q.Cost:
		q.CanBuild = false
		q.Reason = model.ReasonInsufficientFunds
	}
	return q
}
