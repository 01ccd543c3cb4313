package models

import "time"

// Alert is a price band alert. It triggers when the latest price moves to
// or beyond either bound. Alerts are identified by the (symbol, min, max)
// triple; there is no surrogate id.
type Alert struct {
	Symbol    string
	MinPrice  float64
	MaxPrice  float64
	Enabled   bool
	CreatedAt time.Time
}

// Matches reports whether price breaches the alert band.
func (a Alert) Matches(price float64) bool {
	if a.MinPrice > 0 && price <= a.MinPrice {
		return true
	}
	if a.MaxPrice > 0 && price >= a.MaxPrice {
		return true
	}
	return false
}
