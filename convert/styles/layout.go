package styles

import (
	"math"

	"dsc/css"
	"dsc/scene"
)

// applyLayout emits box level declarations: fixed pixel dimensions, corner
// radius, rotation, overflow and the flex mapping of auto layout containers.
func applyLayout(rule *css.Rule, n *scene.Node) {
	// Only fixed axes are sized in pixels. Fill and hug axes were already
	// resolved to keywords by the positioning stage, hugging text hands its
	// axes to the typography stage.
	if n.Sizing.Mode(true) == scene.SizingFixed && n.W > 0 && !hugsWidth(n) {
		rule.Add("width", px(n.W))
	}
	if n.Sizing.Mode(false) == scene.SizingFixed && n.H > 0 && !hugsHeight(n) {
		rule.Add("height", px(n.H))
	}

	if radii, ok := n.Radii(); ok {
		rule.Add("border-radius", radiusValue(radii))
	}

	// Rotation converts only inside the emittable window. Raw transform
	// matrices usually encode document coordinates and never convert.
	if a := math.Abs(n.Rotation); a > 0.1 && a < 360 {
		rule.Add("transform", "rotate("+deg(n.Rotation)+")")
	}

	// The clip flag always wins over the declared overflow.
	switch {
	case n.Clip:
		rule.Add("overflow", "hidden")
	case n.Overflow == scene.OverflowHidden || n.Overflow == scene.OverflowScroll || n.Overflow == scene.OverflowAuto:
		rule.Add("overflow", string(n.Overflow))
	}

	if n.AutoLayout() {
		l := n.Layout
		rule.Add("display", "flex")
		if l.Mode == scene.LayoutVertical {
			rule.Add("flex-direction", "column")
		} else {
			rule.Add("flex-direction", "row")
		}
		if v, ok := justifyContent[l.MainAlign]; ok {
			rule.Add("justify-content", v)
		}
		if v, ok := alignItems[l.CrossAlign]; ok {
			rule.Add("align-items", v)
		}
		// A distributed main axis spreads children by itself, a gap would
		// fight the distribution.
		if l.ItemSpacing > 0 && l.MainAlign != scene.AlignDistribute {
			rule.Add("gap", px(l.ItemSpacing))
		}
		if !n.ImageContainer() {
			rule.Add("padding", px(l.PaddingTop)+" "+px(l.PaddingRgt)+" "+px(l.PaddingBtm)+" "+px(l.PaddingLft))
		}
	}

	// Child behavior inside the parent's layout.
	if l := n.Layout; l != nil {
		if l.Grow > 0 {
			rule.Add("flex-grow", num(l.Grow))
		}
		if v, ok := alignItems[l.Align]; ok {
			rule.Add("align-self", v)
		}
	}
}

// radiusValue collapses uniform radii to the single value shorthand and emits
// the four value form in TL TR BR BL order otherwise.
func radiusValue(r [4]float64) string {
	if r[0] == r[1] && r[1] == r[2] && r[2] == r[3] {
		return px(r[0])
	}
	return px(r[0]) + " " + px(r[1]) + " " + px(r[2]) + " " + px(r[3])
}

// hugsWidth reports whether the text node tracks its content horizontally.
func hugsWidth(n *scene.Node) bool {
	return n.Kind == scene.KindText && n.Text != nil && n.Text.AutoResize == scene.ResizeBoth
}

// hugsHeight reports whether the text node tracks its content vertically.
func hugsHeight(n *scene.Node) bool {
	if n.Kind != scene.KindText || n.Text == nil {
		return false
	}
	return n.Text.AutoResize == scene.ResizeBoth || n.Text.AutoResize == scene.ResizeHeight
}
