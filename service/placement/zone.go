// Package placement 建造定价与合法性校验，全部是纯函数，只读已有小屋快照
package placement

import (
	"math"

	"realm/api/model"
)

// Distance (x, y) 到区域中心的欧氏距离
func Distance(x, y int, z *model.Zone) float64 {
	dx := float64(x) - z.CenterX
	dy := float64(y) - z.CenterY
	return math.Sqrt(dx*dx + dy*dy)
}

// ZoneFor 按配置顺序返回第一个包含 (x, y) 的区域，重叠时不按半径排序
func ZoneFor(x, y int, zones []model.Zone) *model.Zone {
	for i := range zones {
		if zones[i].Radius >= Distance(x, y, &zones[i]) {
			z := zones[i]
			return &z
		}
	}
	return nil
}
