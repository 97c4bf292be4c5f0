// Package pricing computes the date-gated markdowns applied to items
// before they are sold off.
package pricing

import (
	"math"
	"time"
)

// Discount window: markdowns may only be granted during the first half of
// the month, and the day of the month doubles as the discount percent
// (granted on the 11th means 11% off).
const (
	MinDiscountDay = 1
	MaxDiscountDay = 15
)

// PercentForDate returns the discount percent for a grant date. The second
// return value is false when the date falls outside the discount window.
func PercentForDate(date time.Time) (int, bool) {
	day := date.Day()
	if day < MinDiscountDay || day > MaxDiscountDay {
		return 0, false
	}
	return day, true
}

// DiscountedPrice applies a percent markdown to the original price,
// rounding to the nearest whole unit and never going below zero.
func DiscountedPrice(original float64, percent int) float64 {
	price := math.Round(original * (1 - float64(percent)/100))
	if price < 0 {
		return 0
	}
	return price
}
