package scene

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"dsc/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the parsed scene document. It omits binary
// payloads to keep the output compact while preserving text content via escaped
// control sequences. It exists solely for manual inspection during debugging.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}
	return treeWriter{debug.NewTreeWriter()}.document(d).String()
}

func (tw treeWriter) document(d *Document) treeWriter {
	tw.Line(0, "Document id=%q name=%q schema=%d", d.ID, d.Name, d.Schema)
	for _, root := range d.Roots {
		tw.node(1, root)
	}
	if len(d.Assets) > 0 {
		tw.Line(1, "Assets: %d", len(d.Assets))
		refs := slices.Collect(maps.Keys(d.Assets))
		sort.Sort(natural.StringSlice(refs))
		for _, ref := range refs {
			a := d.Assets[ref]
			tw.Line(2, "Asset[%q] contentType=%q bytes=%d", ref, a.ContentType, len(a.Data))
		}
	}
	return tw
}

func (tw treeWriter) node(depth int, n *Node) {
	tw.Line(depth, "%s id=%q name=%q xywh=[%g %g %g %g]", n.Kind, n.ID, n.Name, n.X, n.Y, n.W, n.H)
	if n.Rotation != 0 {
		tw.Line(depth+1, "Rotation=%g", n.Rotation)
	}
	if n.Transform != nil {
		m := n.Transform
		tw.Line(depth+1, "Transform=[%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F)
	}
	for i := range n.Fills {
		tw.paint(depth+1, "Fill", &n.Fills[i], i)
	}
	for i := range n.Strokes {
		tw.paint(depth+1, "Stroke", &n.Strokes[i], i)
	}
	if n.StrokeWeight != nil {
		tw.Line(depth+1, "StrokeWeight=%g align=%q", *n.StrokeWeight, n.StrokeAlign)
	}
	if n.StrokeWeights != nil {
		w := n.StrokeWeights
		tw.Line(depth+1, "StrokeWeights=[%g %g %g %g] align=%q", w.Top, w.Right, w.Bottom, w.Left, n.StrokeAlign)
	}
	if len(n.DashPattern) > 0 {
		tw.Line(depth+1, "DashPattern=%v", n.DashPattern)
	}
	for i := range n.Effects {
		tw.effect(depth+1, &n.Effects[i], i)
	}
	if radii, ok := n.Radii(); ok {
		tw.Line(depth+1, "Corners=[%g %g %g %g]", radii[0], radii[1], radii[2], radii[3])
	}
	if n.Layout.Active() {
		tw.layout(depth+1, n.Layout)
	}
	if n.Sizing != nil {
		tw.Line(depth+1, "Sizing horizontal=%q vertical=%q", n.Sizing.Mode(true), n.Sizing.Mode(false))
	}
	if len(n.Position) > 0 && n.Position != PositionAuto {
		tw.Line(depth+1, "Position=%q", n.Position)
	}
	if n.Constraints != nil {
		tw.Line(depth+1, "Constraints horizontal=%q vertical=%q", n.Constraints.Horizontal, n.Constraints.Vertical)
	}
	if n.Clip {
		tw.Line(depth+1, "Clip")
	}
	if len(n.Overflow) > 0 {
		tw.Line(depth+1, "Overflow=%q", n.Overflow)
	}
	if n.ZIndex != nil {
		tw.Line(depth+1, "ZIndex=%d", *n.ZIndex)
	}
	if n.PointCount != nil {
		tw.Line(depth+1, "PointCount=%d", *n.PointCount)
	}
	if n.InnerRadius != nil {
		tw.Line(depth+1, "InnerRadius=%g", *n.InnerRadius)
	}
	if n.Text != nil {
		tw.text(depth+1, n.Text)
	}
	if n.Vector != nil {
		tw.vector(depth+1, n.Vector)
	}
	if n.Kind == KindVariant {
		tw.Line(depth+1, "Variant group=%q default=%v", n.GroupID, n.Default)
	}
	if n.Transition != nil {
		tw.Line(depth+1, "Transition type=%q duration=%gs easing=%q", n.Transition.Type, n.Transition.Duration, n.Transition.Easing)
	}
	for _, c := range n.Children {
		tw.node(depth+1, c)
	}
}

func (tw treeWriter) paint(depth int, label string, p *Paint, index int) {
	switch p.Kind {
	case PaintSolid:
		if p.Color != nil {
			c := p.Color
			tw.Line(depth, "%s[%d] %s color=[%.3f %.3f %.3f %.3f] opacity=%g visible=%v", label, index, p.Kind, c.R, c.G, c.B, c.A, p.Alpha(), p.On())
			return
		}
		tw.Line(depth, "%s[%d] %s opacity=%g visible=%v", label, index, p.Kind, p.Alpha(), p.On())
	case PaintImage:
		tw.Line(depth, "%s[%d] %s asset=%q scale=%q opacity=%g visible=%v", label, index, p.Kind, p.AssetRef, p.ScaleMode, p.Alpha(), p.On())
	default:
		tw.Line(depth, "%s[%d] %s stops=%d opacity=%g visible=%v", label, index, p.Kind, len(p.Stops), p.Alpha(), p.On())
		for i, stop := range p.Stops {
			tw.Line(depth+1, "Stop[%d] position=%g color=[%.3f %.3f %.3f %.3f]", i, stop.Position, stop.Color.R, stop.Color.G, stop.Color.B, stop.Color.A)
		}
	}
}

func (tw treeWriter) effect(depth int, e *Effect, index int) {
	tw.Line(depth, "Effect[%d] %s offset=[%g %g] radius=%g spread=%g visible=%v", index, e.Kind, e.OffsetX, e.OffsetY, e.Radius, e.Spread, e.On())
	if e.Color != nil {
		tw.Line(depth+1, "Color=[%.3f %.3f %.3f %.3f]", e.Color.R, e.Color.G, e.Color.B, e.Color.A)
	}
}

func (tw treeWriter) layout(depth int, l *Layout) {
	tw.Line(depth, "Layout mode=%q main=%q cross=%q spacing=%g", l.Mode, l.MainAlign, l.CrossAlign, l.ItemSpacing)
	if l.PaddingTop != 0 || l.PaddingRgt != 0 || l.PaddingBtm != 0 || l.PaddingLft != 0 {
		tw.Line(depth+1, "Padding=[%g %g %g %g]", l.PaddingTop, l.PaddingRgt, l.PaddingBtm, l.PaddingLft)
	}
	if l.Grow != 0 {
		tw.Line(depth+1, "Grow=%g", l.Grow)
	}
	if len(l.Align) > 0 {
		tw.Line(depth+1, "Align=%q", l.Align)
	}
}

func (tw treeWriter) text(depth int, t *TextStyle) {
	tw.Line(depth, "Text family=%q size=%g weight=%d style=%q resize=%q", t.Family, t.Size, t.Weight, t.Style, t.AutoResize)
	if t.Decoration != nil {
		tw.Line(depth+1, "Decoration line=%q style=%q", t.Decoration.Line, t.Decoration.Style)
	}
	if len(t.Case) > 0 && t.Case != CaseNone {
		tw.Line(depth+1, "Case=%q", t.Case)
	}
	if len(t.AlignX) > 0 || len(t.AlignY) > 0 {
		tw.Line(depth+1, "Align x=%q y=%q", t.AlignX, t.AlignY)
	}
	if t.LineHeight != nil {
		tw.Line(depth+1, "LineHeight=%g percent=%v", t.LineHeight.Value, t.LineHeight.Percent)
	}
	if len(t.Characters) > 0 {
		tw.TextBlock(depth+1, "Characters", t.Characters)
	}
}

func (tw treeWriter) vector(depth int, v *VectorData) {
	tw.Line(depth, "Vector fillGeometry=%d strokeGeometry=%d paths=%d network=%d", len(v.FillGeometry), len(v.StrokeGeometry), len(v.Paths), len(v.Network))
	for i := range v.FillGeometry {
		tw.Line(depth+1, "FillGeometry[%d] winding=%q bytes=%d", i, v.FillGeometry[i].Winding, len(v.FillGeometry[i].D))
	}
}
