package styles

import (
	"strings"

	"dsc/css"
	"dsc/scene"
)

// applyEffects merges all visible shadows into a single box-shadow list and
// maps blurs onto filter declarations. Shadows of text nodes are re-expressed
// as text-shadow by the typography stage and are skipped here.
func applyEffects(rule *css.Rule, n *scene.Node) {
	var (
		shadows              []string
		gotBlur, gotBackdrop bool
	)
	for i := range n.Effects {
		e := &n.Effects[i]
		if !e.On() {
			continue
		}
		switch e.Kind {
		case scene.EffectDropShadow, scene.EffectInnerShadow:
			if n.Kind == scene.KindText {
				continue
			}
			shadows = append(shadows, shadowValue(e))
		case scene.EffectLayerBlur:
			if !gotBlur {
				rule.Add("filter", "blur("+px(e.Radius)+")")
				gotBlur = true
			}
		case scene.EffectBackgroundBlur:
			if !gotBackdrop {
				rule.Add("backdrop-filter", "blur("+px(e.Radius)+")")
				gotBackdrop = true
			}
		}
	}
	if len(shadows) > 0 {
		rule.Add("box-shadow", strings.Join(shadows, ", "))
	}
}

// shadowValue renders one shadow layer. Spread is omitted when zero, inner
// shadows carry the inset keyword.
func shadowValue(e *scene.Effect) string {
	var sb strings.Builder
	if e.Kind == scene.EffectInnerShadow {
		sb.WriteString("inset ")
	}
	sb.WriteString(px(e.OffsetX) + " " + px(e.OffsetY) + " " + px(e.Radius))
	if e.Spread != 0 {
		sb.WriteString(" " + px(e.Spread))
	}
	sb.WriteString(" " + effectColor(e))
	return sb.String()
}

// effectColor renders the shadow color, black when the effect carries none.
func effectColor(e *scene.Effect) string {
	if e.Color == nil {
		return "#000000"
	}
	return cssColor(*e.Color, 1)
}
