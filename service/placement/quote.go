package placement

import (
	"math"

	"realm/api/model"
)

const (
	// 中心到边缘价格衰减比例
	DistanceDecay = 0.9
	// 距离系数下限
	MinDistanceMultiplier = 0.1
)

// DistanceMultiplier 中心为 1，线性衰减到边缘 0.1
func DistanceMultiplier(distance, radius float64) float64 {
	if radius <= 0 {
		if distance == 0 {
			return 1
		}
		return MinDistanceMultiplier
	}
	return math.Max(MinDistanceMultiplier, 1-(distance/radius)*DistanceDecay)
}

// Quote 计算 (x, y) 的建造价格；乘法顺序与客户端保持一致，保证向下取整结果相同
func Quote(x, y int, zone *model.Zone, castleBasePrice int64) model.ConstructionQuote {
	m := DistanceMultiplier(Distance(x, y, zone), zone.Radius)
	cost := math.Floor(zone.BasePrice*zone.PriceMultiplier*m + float64(castleBasePrice))
	return model.ConstructionQuote{
		X:        x,
		Y:        y,
		Zone:     zone,
		Cost:     int64(cost),
		CanBuild: true,
	}
}
