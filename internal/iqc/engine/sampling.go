package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Result 单项观测判定结果
type Result string

const (
	ResultAccepted Result = "Accepted"
	ResultRejected Result = "Rejected"
)

// 观测值只允许最多两位小数
var decimalPattern = regexp.MustCompile(`^\d*\.?\d{0,2}$`)

// ValidDecimal reports whether raw matches the 2-decimal numeric entry pattern.
// The empty string is valid: it clears the value rather than recording one.
func ValidDecimal(raw string) bool {
	return decimalPattern.MatchString(raw)
}

// ComputeSampleQuantity 按抽样百分比计算样本数量
// The percent is silently clamped to [0,100]; rounding is half-away-from-zero.
func ComputeSampleQuantity(totalQty int, percent float64) int {
	if totalQty < 0 {
		return 0
	}
	p := math.Max(0, math.Min(100, percent))
	return int(math.Round(float64(totalQty) * p / 100))
}

// ToleranceBand 由基本尺寸和通用公差推导上下限，保留两位小数
func ToleranceBand(nominal, tolerance float64) (min, max float64) {
	min = round2(nominal - tolerance)
	max = round2(nominal + tolerance)
	return min, max
}

// Classify 判定观测值：闭区间 [min, max] 内为合格
func Classify(value, min, max float64) Result {
	if value >= min && value <= max {
		return ResultAccepted
	}
	return ResultRejected
}

// RejectedInSample 由合格数补数得出不合格数，不会为负
// A nil accepted count yields nil: an unfilled field is not the same as zero.
func RejectedInSample(sampleQty int, accepted *int) *int {
	if accepted == nil {
		return nil
	}
	rej := sampleQty - *accepted
	if rej < 0 {
		rej = 0
	}
	return &rej
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatDimension(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercent(p float64) string {
	if p == math.Trunc(p) {
		return strconv.Itoa(int(p))
	}
	return fmt.Sprintf("%g", p)
}
