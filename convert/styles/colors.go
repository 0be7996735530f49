package styles

import (
	"fmt"
	"math"

	"dsc/scene"
)

// cssColor renders a color with an extra opacity multiplier folded into its
// alpha channel. Opaque colors become lowercase 6 digit hex, anything
// translucent becomes rgba().
func cssColor(c scene.Color, opacity float64) string {
	a := clamp01(c.A * opacity)
	r, g, b := channelByte(c.R), channelByte(c.G), channelByte(c.B)
	if a == 1 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, num(a))
}

func channelByte(v float64) int {
	return int(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
