package services

import (
	"strconv"
	"strings"
)

// MaxRegionPrice is charged for more than five regions.
const MaxRegionPrice int64 = 499_000

var regionPricing = [...]int64{99_000, 179_000, 259_000, 339_000, 419_000}

// SubscriptionPrice returns the monthly subscription price in so'm for regionCount regions.
//
// Parameters:
//   - regionCount: number of selected regions
//
// Returns:
//   - int64: 0 for no regions, the tier price for 1..5, MaxRegionPrice above that
//
// Example:
//
//	services.SubscriptionPrice(2) // 179000
//	services.SubscriptionPrice(9) // 499000
func SubscriptionPrice(regionCount int) int64 {
	switch {
	case regionCount <= 0:
		return 0
	case regionCount <= len(regionPricing):
		return regionPricing[regionCount-1]
	default:
		return MaxRegionPrice
	}
}

// FormatPrice renders amount with a space between thousands groups, e.g. "179 000".
func FormatPrice(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
