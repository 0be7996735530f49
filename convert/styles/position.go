package styles

import (
	"strconv"

	"dsc/css"
	"dsc/scene"
)

// applyPosition chooses exactly one placement strategy for the node, first
// match wins. The cross cutting additions follow unconditionally: sizing
// keyword overrides, min/max bounds, stacking order and the variant
// transition.
//
// The parent pointer is the node's resolved container, nil for roots.
func applyPosition(rule *css.Rule, n *scene.Node, parent *scene.Node, isRoot bool) {
	switch {
	case n.Variant():
		// Variants of one group stack at the group origin so a switch
		// runtime can toggle them in place.
		rule.Add("position", "absolute")
		rule.Add("left", "0")
		rule.Add("top", "0")

	case n.Position != "" && n.Position != scene.PositionAuto:
		rule.Add("position", string(n.Position))
		if n.Position == scene.PositionAbsolute {
			x, y := n.X, n.Y
			if isRoot {
				x, y = 0, 0
			}
			rule.Add("left", px(x))
			rule.Add("top", px(y))
		}

	case parent != nil && parent.AutoLayout():
		// The flex container owns placement, offsets would fight it.
		rule.Add("position", "relative")

	case parent != nil:
		rule.Add("position", "absolute")
		rule.Add("left", px(n.X))
		rule.Add("top", px(n.Y))

	case !n.AutoLayout():
		// No surrounding context resolved, place on raw coordinates.
		rule.Add("position", "absolute")
		rule.Add("left", px(n.X))
		rule.Add("top", px(n.Y))

	default:
		rule.Add("position", "relative")
	}

	// Non-fixed axes are sized by keyword here, the layout stage emits pixel
	// dimensions only for fixed axes.
	if kw, ok := sizingKeyword(n.Sizing.Mode(true)); ok {
		rule.Add("width", kw)
	}
	if kw, ok := sizingKeyword(n.Sizing.Mode(false)); ok {
		rule.Add("height", kw)
	}
	if s := n.Sizing; s != nil {
		if s.MinWidth != nil {
			rule.Add("min-width", px(*s.MinWidth))
		}
		if s.MaxWidth != nil {
			rule.Add("max-width", px(*s.MaxWidth))
		}
		if s.MinHeight != nil {
			rule.Add("min-height", px(*s.MinHeight))
		}
		if s.MaxHeight != nil {
			rule.Add("max-height", px(*s.MaxHeight))
		}
	}
	if n.ZIndex != nil {
		rule.Add("z-index", strconv.Itoa(*n.ZIndex))
	}
	if v, ok := transitionValue(n.Transition); ok {
		rule.Add("transition", v)
	}
}
