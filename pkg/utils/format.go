// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatPKR formats an amount as Pakistani rupees with South Asian digit
// grouping (thousand, lakh, crore).
func FormatPKR(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	result := "Rs. " + groupSouthAsian(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupSouthAsian groups an integer string South Asian style: first group of
// 3 from the right, then groups of 2.
func groupSouthAsian(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]

	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPnL formats a profit or loss figure with an explicit sign.
func FormatPnL(pnl float64) string {
	formatted := FormatPKR(pnl)
	if pnl > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatQuantity formats a share quantity with digit grouping. Fractional
// quantities keep two decimals.
func FormatQuantity(qty float64) string {
	if qty == float64(int64(qty)) {
		return groupSouthAsian(fmt.Sprintf("%d", int64(qty)))
	}
	return fmt.Sprintf("%.2f", qty)
}

// FormatLakhs formats a number in lakhs.
func FormatLakhs(amount float64) string {
	return fmt.Sprintf("%.2f L", amount/100000)
}

// FormatCrores formats a number in crores.
func FormatCrores(amount float64) string {
	return fmt.Sprintf("%.2f Cr", amount/10000000)
}

// FormatCompact formats a number in compact form (L/Cr).
func FormatCompact(amount float64) string {
	absAmount := amount
	if absAmount < 0 {
		absAmount = -absAmount
	}

	if absAmount >= 10000000 {
		return FormatCrores(amount)
	} else if absAmount >= 100000 {
		return FormatLakhs(amount)
	}
	return FormatPKR(amount)
}
