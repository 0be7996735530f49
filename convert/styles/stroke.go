package styles

import (
	"dsc/css"
	"dsc/scene"
)

// applyStrokes emits border declarations for non-text nodes. Uniform strokes
// collapse to one border shorthand, individual side weights emit at most four
// per-side declarations and never the shorthand. Text strokes are expressed
// through typography instead.
func applyStrokes(rule *css.Rule, n *scene.Node) {
	if n.Kind == scene.KindText {
		return
	}
	color, ok := strokeColor(n)
	if !ok {
		return
	}
	style := "solid"
	if len(n.DashPattern) > 0 {
		style = "dashed"
	}

	if w := n.StrokeWeights; w != nil && !w.Uniform() {
		sides := [4]struct {
			property string
			weight   float64
		}{
			{"border-top", w.Top},
			{"border-right", w.Right},
			{"border-bottom", w.Bottom},
			{"border-left", w.Left},
		}
		for _, s := range sides {
			if s.weight > 0 {
				rule.Add(s.property, px(s.weight)+" "+style+" "+color)
			}
		}
	} else {
		weight := strokeWeight(n)
		if weight <= 0 {
			return
		}
		rule.Add("border", px(weight)+" "+style+" "+color)
	}

	// Inside and center aligned strokes must not grow the node box.
	switch n.StrokeAlign {
	case scene.StrokeInside, scene.StrokeCenter:
		rule.Add("box-sizing", "border-box")
	}
}

// strokeColor returns the rendered color of the first visible solid stroke
// paint. Gradient and image strokes have no border equivalent.
func strokeColor(n *scene.Node) (string, bool) {
	for i := range n.Strokes {
		p := &n.Strokes[i]
		if p.On() && p.Kind == scene.PaintSolid && p.Color != nil {
			return cssColor(*p.Color, p.Alpha()), true
		}
	}
	return "", false
}

// strokeWeight resolves the uniform stroke weight of the node.
func strokeWeight(n *scene.Node) float64 {
	if n.StrokeWeights != nil {
		return n.StrokeWeights.Top
	}
	if n.StrokeWeight != nil {
		return *n.StrokeWeight
	}
	return 0
}
