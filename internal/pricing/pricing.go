// Package pricing computes rental totals. Prices are per rental day and
// both ends of the range are billed.
package pricing

import (
	"github.com/shopspring/decimal"
)

const secondsPerDay = 24 * 60 * 60

// DaysBetween is the whole-day difference end - start. Both are UTC
// midnight, so Unix seconds divide exactly and any year range works.
func DaysBetween(start, end Date) int {
	return int((end.t.Unix() - start.t.Unix()) / secondsPerDay)
}

// DaysInclusive counts both the pickup and the return day.
func DaysInclusive(start, end Date) int {
	return DaysBetween(start, end) + 1
}

// Price = dailyPrice × DaysInclusive × quantity. Callers guarantee
// start < end; nothing is validated or rounded here.
func Price(dailyPrice decimal.Decimal, start, end Date, quantity int) decimal.Decimal {
	days := decimal.NewFromInt(int64(DaysInclusive(start, end)))
	return dailyPrice.Mul(days).Mul(decimal.NewFromInt(int64(quantity)))
}
