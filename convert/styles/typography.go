package styles

import (
	"strconv"
	"strings"

	"dsc/css"
	"dsc/scene"
)

// applyTypography emits the text styling of a text node. Values matching the
// CSS defaults produce no declaration. Fills, strokes and shadows of text
// nodes are re-expressed here because borders and box shadows do not follow
// glyph outlines.
func applyTypography(rule *css.Rule, n *scene.Node) {
	if n.Kind != scene.KindText || n.Text == nil {
		return
	}
	t := n.Text

	if t.Family != "" {
		rule.Add("font-family", `"`+escapeQuoted(t.Family)+`", sans-serif`)
	}
	if t.Size > 0 {
		rule.Add("font-size", px(t.Size))
	}
	if t.Weight != 0 && t.Weight != 400 {
		rule.Add("font-weight", strconv.Itoa(t.Weight))
	}
	if t.Style != "" && t.Style != "normal" {
		rule.Add("font-style", t.Style)
	}
	if t.Variant != "" && t.Variant != "normal" {
		rule.Add("font-variant", t.Variant)
	}
	if t.Stretch != "" && t.Stretch != "normal" {
		rule.Add("font-stretch", t.Stretch)
	}

	if c, ok := textColor(n); ok {
		rule.Add("color", c)
	}
	if v, ok := decorationValue(t.Decoration); ok {
		rule.Add("text-decoration", v)
	}
	// Small caps is a font feature, every other case maps to a transform.
	if t.Case == scene.CaseSmallCaps {
		rule.Set("font-variant", "small-caps")
	} else if v, ok := textTransforms[t.Case]; ok {
		rule.Add("text-transform", v)
	}

	if t.AlignX != "" {
		rule.Add("text-align", t.AlignX)
	}
	if v, ok := verticalAligns[t.AlignY]; ok {
		rule.Add("vertical-align", v)
	}
	if lh := t.LineHeight; lh != nil && lh.Value > 0 {
		if lh.Percent {
			rule.Add("line-height", pct(lh.Value))
		} else {
			rule.Add("line-height", px(lh.Value))
		}
	}
	if t.LetterSpacing != 0 {
		rule.Add("letter-spacing", px(t.LetterSpacing))
	}
	if t.WordSpacing != 0 {
		rule.Add("word-spacing", px(t.WordSpacing))
	}
	if t.ParagraphSpacing > 0 {
		rule.Add("paragraph-spacing", px(t.ParagraphSpacing))
	}
	if t.Indent != 0 {
		rule.Add("text-indent", px(t.Indent))
	}
	if t.LeadingTrim == scene.TrimCapHeight {
		rule.Add("leading-trim", "both")
		rule.Add("text-edge", "cap alphabetic")
	}
	applyAutoResize(rule, n)

	if s, ok := textShadowValue(n); ok {
		rule.Add("text-shadow", s)
	}
	if c, ok := strokeColor(n); ok {
		if w := strokeWeight(n); w > 0 {
			rule.Add("-webkit-text-stroke", px(w)+" "+c)
		}
	}
	if t.Opacity != nil && *t.Opacity < 1 {
		rule.Add("opacity", num(*t.Opacity))
	}
	if v, ok := blendModes[t.BlendMode]; ok {
		rule.Add("mix-blend-mode", v)
	}
}

// applyAutoResize maps content tracking onto CSS sizing. Fixed axes owned by
// an explicit sizing keyword are left alone.
func applyAutoResize(rule *css.Rule, n *scene.Node) {
	switch n.Text.AutoResize {
	case scene.ResizeBoth:
		if n.Sizing.Mode(true) == scene.SizingFixed {
			rule.Add("width", "fit-content")
		}
		if n.Sizing.Mode(false) == scene.SizingFixed {
			rule.Add("height", "fit-content")
		}
	case scene.ResizeHeight:
		if n.Sizing.Mode(false) == scene.SizingFixed {
			rule.Add("height", "fit-content")
		}
	case scene.ResizeTruncate:
		// Ellipsis only renders on a single line, multi line content keeps
		// its fixed box and clips.
		if n.Text.SingleLine() {
			rule.Add("white-space", "nowrap")
			rule.Add("text-overflow", "ellipsis")
		}
	}
}

// textColor returns the rendered color of the first visible solid fill.
func textColor(n *scene.Node) (string, bool) {
	for i := range n.Fills {
		p := &n.Fills[i]
		if p.On() && p.Kind == scene.PaintSolid && p.Color != nil {
			return cssColor(*p.Color, p.Alpha()), true
		}
	}
	return "", false
}

// decorationValue renders the compound text decoration. Nothing is emitted
// for a missing or "none" line; the solid style is implied and omitted.
func decorationValue(d *scene.Decoration) (string, bool) {
	if d == nil || d.Line == "" || d.Line == "none" {
		return "", false
	}
	v := d.Line
	if d.Style != "" && d.Style != "solid" {
		v += " " + d.Style
	}
	if d.Color != nil {
		v += " " + cssColor(*d.Color, 1)
	}
	return v, true
}

// textShadowValue merges visible drop shadows of a text node. Inner shadows
// have no text equivalent and text-shadow carries no spread.
func textShadowValue(n *scene.Node) (string, bool) {
	var shadows []string
	for i := range n.Effects {
		e := &n.Effects[i]
		if e.On() && e.Kind == scene.EffectDropShadow {
			shadows = append(shadows, px(e.OffsetX)+" "+px(e.OffsetY)+" "+px(e.Radius)+" "+effectColor(e))
		}
	}
	if len(shadows) == 0 {
		return "", false
	}
	return strings.Join(shadows, ", "), true
}
