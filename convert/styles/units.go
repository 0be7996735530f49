package styles

import (
	"math"
	"strconv"
)

// DecimalPrecision is the number of decimal places kept in emitted numbers.
// All lengths, percentages and path coordinates round to this precision, so
// re-rounding already emitted values is a no-op.
const DecimalPrecision = 2

// Round rounds a value to DecimalPrecision decimal places.
func Round(v float64) float64 {
	multiplier := math.Pow(10, DecimalPrecision)
	return math.Round(v*multiplier) / multiplier
}

// num formats a rounded value with trailing zeros trimmed.
func num(v float64) string {
	v = Round(v)
	if v == 0 {
		// normalize negative zero
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// px formats a pixel length.
func px(v float64) string {
	return num(v) + "px"
}

// pct formats a percentage.
func pct(v float64) string {
	return num(v) + "%"
}

// deg formats an angle in degrees.
func deg(v float64) string {
	return num(v) + "deg"
}

// ms formats a duration given in seconds as whole milliseconds.
func ms(seconds float64) string {
	return strconv.FormatInt(int64(math.Round(seconds*1000)), 10) + "ms"
}
