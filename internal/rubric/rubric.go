// Package rubric 实现档位归类与折分的纯函数。
//
// 三类观测值：
//   - 计次类（校内服务 / 社会服务）：按项目数归档，按单项分值封顶折分
//   - 百分比类（教学质量，来自学生评教均分）：按阈值归档，按权重比例折分
//   - 选档类（能力素养）：五个子维度各自选档，按 20 分档位表折分求和后二次归档
//
// 归类是全函数：任意 n≥0 / p∈[0,100] 恰好落入一个档位。
package rubric

import "faculty-appraisal/internal/model"

// ── 档位折分系数表 ──

// bandFactors 档位→权重系数：HIGH 满权重，逐档递减 0.2
var bandFactors = map[model.Band]float64{
	model.BandHigh:    1.0,
	model.BandExceeds: 0.8,
	model.BandMeets:   0.6,
	model.BandPartial: 0.4,
	model.BandNeeds:   0.2,
}

// capabilityBandPoints 能力素养子维度的固定 20 分档位表
var capabilityBandPoints = map[model.Band]float64{
	model.BandHigh:    20,
	model.BandExceeds: 16,
	model.BandMeets:   12,
	model.BandPartial: 8,
	model.BandNeeds:   4,
}

// ── 归类 ──

// ClassifyCount 计次归档：n≥5 HIGH，4 EXCEEDS，3 MEETS，2 PARTIAL，其余（n≤1 含 0）NEEDS
func ClassifyCount(n int) model.Band {
	switch {
	case n >= 5:
		return model.BandHigh
	case n == 4:
		return model.BandExceeds
	case n == 3:
		return model.BandMeets
	case n == 2:
		return model.BandPartial
	default:
		return model.BandNeeds
	}
}

// ClassifyPercent 百分比归档：≥90 HIGH，≥80 EXCEEDS，≥60 MEETS，≥50 PARTIAL，其余 NEEDS
func ClassifyPercent(pct float64) model.Band {
	switch {
	case pct >= 90:
		return model.BandHigh
	case pct >= 80:
		return model.BandExceeds
	case pct >= 60:
		return model.BandMeets
	case pct >= 50:
		return model.BandPartial
	default:
		return model.BandNeeds
	}
}

// ── 折分 ──

// CountPoints 计次折分：min(n × 单项分值, 上限)
func CountPoints(n int, perItem, maxPoints float64) float64 {
	points := float64(n) * perItem
	if points > maxPoints {
		return maxPoints
	}
	return points
}

// BandPoints 档位按权重折分：HIGH=权重，EXCEEDS=0.8×权重，依次递减。
// 权重 30 对应 {30,24,18,12,6}，权重 20 对应 {20,16,12,8,4}。
func BandPoints(band model.Band, weight float64) float64 {
	return bandFactors[band] * weight
}

// CapabilityBandPoints 能力素养子维度折分（固定 20 分档位表）
func CapabilityBandPoints(band model.Band) float64 {
	return capabilityBandPoints[band]
}

// CapabilityTotal 能力素养合计：五个子维度折分求和（0–100），
// 并以百分比阈值对合计值做二次归档得到总档位。
func CapabilityTotal(picks []model.Band) (total float64, overall model.Band) {
	for _, b := range picks {
		total += capabilityBandPoints[b]
	}
	return total, ClassifyPercent(total)
}

// ResearchPoints 科研折分：按活动类型计分表逐项累加，权重封顶；
// 档位由得分占权重的百分比归档。
func ResearchPoints(activities []string, pointsMap model.PointsMap, weight float64) (points float64, band model.Band) {
	for _, a := range activities {
		points += pointsMap[a]
	}
	if points > weight {
		points = weight
	}
	if weight <= 0 {
		return 0, model.BandNeeds
	}
	return points, ClassifyPercent(points / weight * 100)
}
