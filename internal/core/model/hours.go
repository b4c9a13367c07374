package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// maxExactExponent bounds the exponent parsed as an exact decimal. Larger exponents go through
// float64 so a stray "1e400000000" cannot expand into a number with millions of digits.
const maxExactExponent = 20

// leadingNumber matches the numeric prefix a lenient float parser would consume.
var leadingNumber = regexp.MustCompile(`^([+-]?)(\d*)(?:\.(\d*))?(?:[eE]([+-]?\d+))?`)

// ParseHours reads the leading decimal literal of s, ignoring leading whitespace and any
// trailing text. Input without such a literal counts as zero, so "8h" is 8 and "abc" is 0.
func ParseHours(s string) decimal.Decimal {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero
	}

	sign, whole, frac, exp := m[1], m[2], m[3], m[4]
	if whole == "" && frac == "" {
		return decimal.Zero
	}
	if whole == "" {
		whole = "0"
	}

	literal := sign + whole
	if frac != "" {
		literal += "." + frac
	}
	if exp != "" {
		literal += "e" + exp
		if n, err := strconv.Atoi(exp); err != nil || n > maxExactExponent || n < -maxExactExponent {
			return parseHoursFloat(literal)
		}
	}

	d, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseHoursFloat reads a literal with a large exponent. Values beyond float64 range count as zero.
func parseHoursFloat(literal string) decimal.Decimal {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// SumHours adds the parsed value of every hours string.
func SumHours(hours ...string) decimal.Decimal {
	total := decimal.Zero
	for _, h := range hours {
		total = total.Add(ParseHours(h))
	}
	return total
}

// TotalHours sums the hours of every row.
func (t TimesheetData) TotalHours() decimal.Decimal {
	hours := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		hours[i] = e.Hours
	}
	return SumHours(hours...)
}

// FormatHours renders a total with one decimal place, the precision every export uses.
func FormatHours(d decimal.Decimal) string {
	return d.StringFixed(1)
}
