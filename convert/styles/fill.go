package styles

import (
	"strings"

	"dsc/css"
	"dsc/scene"
)

// applyFills maps the visible fill paints of a non-text node onto background
// declarations. The first visible solid paint becomes background-color, every
// visible gradient and image paint contributes a background-image layer. Text
// fills are expressed through typography instead.
func applyFills(rule *css.Rule, n *scene.Node, assets scene.SceneAssets) {
	if n.Kind == scene.KindText {
		return
	}

	var (
		layers   []string
		image    *scene.Paint
		gotSolid bool
	)
	for i := range n.Fills {
		p := &n.Fills[i]
		if !p.On() {
			continue
		}
		switch p.Kind {
		case scene.PaintSolid:
			if !gotSolid && p.Color != nil {
				rule.Add("background-color", cssColor(*p.Color, p.Alpha()))
				gotSolid = true
			}
		case scene.PaintGradientLinear, scene.PaintGradientRadial, scene.PaintGradientAngular, scene.PaintGradientDiamond:
			if v, ok := gradientValue(p); ok {
				layers = append(layers, v)
			}
		case scene.PaintImage:
			if v, ok := imageValue(p, assets); ok {
				layers = append(layers, v)
				if image == nil {
					image = p
				}
			}
		}
	}

	if len(layers) > 0 {
		// Paint lists stack bottom to top, CSS layers top to bottom.
		reverse(layers)
		rule.Add("background-image", strings.Join(layers, ", "))
	}
	if image != nil {
		if v, ok := backgroundSizes[image.ScaleMode]; ok {
			rule.Add("background-size", v)
		}
		if image.ScaleMode == scene.ScaleTile {
			rule.Add("background-repeat", "repeat")
		} else {
			rule.Add("background-repeat", "no-repeat")
			rule.Add("background-position", "center")
		}
	}
}

// gradientValue renders one gradient paint as a CSS image. Stop colors fold
// in the paint opacity, the gradient transform is not reproduced: linear
// gradients run top to bottom, radial and diamond from the center out.
func gradientValue(p *scene.Paint) (string, bool) {
	if len(p.Stops) == 0 {
		return "", false
	}
	stops := make([]string, 0, len(p.Stops))
	for _, s := range p.Stops {
		stops = append(stops, cssColor(s.Color, p.Alpha())+" "+pct(s.Position*100))
	}
	list := strings.Join(stops, ", ")
	switch p.Kind {
	case scene.PaintGradientLinear:
		return "linear-gradient(180deg, " + list + ")", true
	case scene.PaintGradientRadial:
		return "radial-gradient(" + list + ")", true
	case scene.PaintGradientAngular:
		return "conic-gradient(" + list + ")", true
	case scene.PaintGradientDiamond:
		// CSS has no diamond gradient, the radial form is the closest.
		return "radial-gradient(" + list + ")", true
	}
	return "", false
}

// imageValue renders one image paint as a CSS url() layer, preferring the
// prepared asset filename over the raw reference.
func imageValue(p *scene.Paint, assets scene.SceneAssets) (string, bool) {
	if p.AssetRef == "" {
		return "", false
	}
	ref := p.AssetRef
	if a, ok := assets[ref]; ok && a.Filename != "" {
		ref = a.Filename
	}
	return `url("` + escapeQuoted(ref) + `")`, true
}

func escapeQuoted(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
