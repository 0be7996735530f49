package styles

import "dsc/scene"

// Closed lookup tables for enum valued properties. A value missing from its
// table simply produces no declaration, unknown inputs never invent CSS.

// justifyContent maps main axis alignment of an auto layout node.
var justifyContent = map[scene.AxisAlign]string{
	scene.AlignStart:      "flex-start",
	scene.AlignCenter:     "center",
	scene.AlignEnd:        "flex-end",
	scene.AlignDistribute: "space-between",
}

// alignItems maps cross axis alignment, also used for align-self on children.
var alignItems = map[scene.AxisAlign]string{
	scene.AlignStart:    "flex-start",
	scene.AlignCenter:   "center",
	scene.AlignEnd:      "flex-end",
	scene.AlignStretch:  "stretch",
	scene.AlignBaseline: "baseline",
}

// backgroundSizes maps image paint scale modes to background sizing. Crop has
// no CSS equivalent and approximates to cover.
var backgroundSizes = map[scene.ScaleMode]string{
	scene.ScaleFill: "cover",
	scene.ScaleFit:  "contain",
	scene.ScaleCrop: "cover",
	scene.ScaleTile: "auto",
}

// verticalAligns maps vertical text alignment.
var verticalAligns = map[string]string{
	"top":    "top",
	"center": "middle",
	"bottom": "bottom",
}

// textTransforms maps letter casing. Small caps is absent on purpose, it is
// expressed through font-variant instead.
var textTransforms = map[scene.TextCase]string{
	scene.CaseUpper: "uppercase",
	scene.CaseLower: "lowercase",
	scene.CaseTitle: "capitalize",
}

// blendModes maps node blend modes onto mix-blend-mode values. Pass-through
// and normal are the defaults and are deliberately absent.
var blendModes = map[scene.BlendMode]string{
	"multiply":    "multiply",
	"screen":      "screen",
	"overlay":     "overlay",
	"darken":      "darken",
	"lighten":     "lighten",
	"color-dodge": "color-dodge",
	"color-burn":  "color-burn",
	"hard-light":  "hard-light",
	"soft-light":  "soft-light",
	"difference":  "difference",
	"exclusion":   "exclusion",
	"hue":         "hue",
	"saturation":  "saturation",
	"color":       "color",
	"luminosity":  "luminosity",
}

// sizingKeyword returns the CSS length keyword for non-fixed sizing modes.
func sizingKeyword(m scene.SizingMode) (string, bool) {
	switch m {
	case scene.SizingFill:
		return "100%", true
	case scene.SizingHug:
		return "fit-content", true
	}
	return "", false
}
