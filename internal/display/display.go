// Package display computes the derived values shown on admin list screens.
// It produces plain data only; turning these values into markup is the
// presentation layer's job.
package display

import "github.com/shopspring/decimal"

// MaxStars is the rating scale used for star display.
const MaxStars = 5

// RatingStars returns how many of the five stars are filled for a rating.
// Out-of-scale ratings are clamped.
func RatingStars(rating float64) int {
	stars := int(rating)
	if stars < 0 {
		return 0
	}
	if stars > MaxStars {
		return MaxStars
	}
	return stars
}

// ChurnBucket classifies a churn-rate percentage.
type ChurnBucket string

const (
	ChurnLow    ChurnBucket = "low"
	ChurnMedium ChurnBucket = "medium"
	ChurnHigh   ChurnBucket = "high"
)

// ChurnRateBucket buckets a churn-rate percentage: above 10 is high, above 5
// is medium, anything else is low.
func ChurnRateBucket(rate float64) ChurnBucket {
	switch {
	case rate > 10:
		return ChurnHigh
	case rate > 5:
		return ChurnMedium
	default:
		return ChurnLow
	}
}

// RevenuePerUnit returns revenue divided by units sold. The second return is
// false when no units were sold and the value is undefined.
func RevenuePerUnit(revenue decimal.Decimal, unitsSold int) (decimal.Decimal, bool) {
	if unitsSold <= 0 {
		return decimal.Decimal{}, false
	}
	return revenue.Div(decimal.NewFromInt(int64(unitsSold))), true
}

// previewLen is the number of characters kept of a feedback text on list
// screens.
const previewLen = 32

// FeedbackPreview shortens free-text feedback for list display. Empty or
// missing feedback becomes "-".
func FeedbackPreview(feedback *string) string {
	if feedback == nil || *feedback == "" {
		return "-"
	}

	runes := []rune(*feedback)
	if len(runes) <= previewLen {
		return *feedback
	}
	return string(runes[:previewLen]) + "..."
}
