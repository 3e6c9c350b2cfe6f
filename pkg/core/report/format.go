package report

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const notAvailable = "n/a"

// Money rounds to whole units and groups thousands: -1163667.33 → "-1,163,667".
func Money(v float64) string {
	return Number(v, 0)
}

// Number rounds half away from zero to the given places and groups thousands.
func Number(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	s := decimal.NewFromFloat(v).Round(places).StringFixed(places)
	if strings.Trim(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return groupThousands(s)
}

// Percent renders a fraction as a percentage with two decimals: 0.0639 → "6.39%".
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return Number(decimal.NewFromFloat(v).Shift(2).InexactFloat64(), 2) + "%"
}

// Ratio renders a coverage ratio ("1.30x"), or n/a when undefined.
func Ratio(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return Number(*v, 2) + "x"
}

// Years renders a payback period, or "never" when the investment is not recovered.
func Years(v *float64) string {
	if v == nil {
		return "never"
	}
	return Number(*v, 2)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
