package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// SchemaVersion is the latest scene document serialization we understand.
const SchemaVersion = 1

// Parse decodes a scene document from its JSON serialization. Decoding is
// deliberately forgiving: exporters disagree on details, so unknown
// enumeration values and broken numbers are reported and reset to safe
// defaults instead of failing the whole document. Structural problems
// (no roots at all) are errors.
func Parse(r io.Reader, log *zap.Logger) (*Document, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("unable to decode scene document: %w", err)
	}
	if len(doc.Roots) == 0 {
		return nil, fmt.Errorf("scene document has no root nodes")
	}
	if doc.Schema > SchemaVersion {
		log.Warn("Scene document schema is newer than supported, proceeding anyway",
			zap.Int("schema", doc.Schema), zap.Int("supported", SchemaVersion))
	}

	for _, root := range doc.Roots {
		sanitizeNode(root, log)
	}
	return &doc, nil
}

func sanitizeNode(n *Node, log *zap.Logger) {
	switch n.Kind {
	case KindFrame, KindGroup, KindRectangle, KindEllipse, KindPolygon, KindStar,
		KindLine, KindVector, KindText, KindComponent, KindVariantGroup, KindVariant:
	case "":
		log.Warn("Node without kind, treating as frame", zap.String("id", n.ID))
		n.Kind = KindFrame
	default:
		log.Warn("Unknown node kind, treating as frame", zap.String("id", n.ID), zap.String("kind", string(n.Kind)))
		n.Kind = KindFrame
	}

	n.X = sanitizeFloat(n.X)
	n.Y = sanitizeFloat(n.Y)
	n.W = sanitizeFloat(n.W)
	n.H = sanitizeFloat(n.H)
	n.Rotation = sanitizeFloat(n.Rotation)
	if n.W < 0 {
		log.Debug("Negative node width, resetting", zap.String("id", n.ID), zap.Float64("width", n.W))
		n.W = 0
	}
	if n.H < 0 {
		log.Debug("Negative node height, resetting", zap.String("id", n.ID), zap.Float64("height", n.H))
		n.H = 0
	}

	sanitizePaints(n.ID, n.Fills, log)
	sanitizePaints(n.ID, n.Strokes, log)
	sanitizeEffects(n.ID, n.Effects, log)

	if n.StrokeWeight != nil {
		if w := sanitizeFloat(*n.StrokeWeight); w < 0 {
			*n.StrokeWeight = 0
		} else {
			*n.StrokeWeight = w
		}
	}
	if n.CornerRadius != nil {
		if r := sanitizeFloat(*n.CornerRadius); r < 0 {
			*n.CornerRadius = 0
		} else {
			*n.CornerRadius = r
		}
	}
	if n.Corners != nil {
		for i, r := range n.Corners {
			if r = sanitizeFloat(r); r < 0 {
				r = 0
			}
			n.Corners[i] = r
		}
	}

	if n.Text != nil {
		sanitizeText(n.ID, n.Text, log)
	}

	if n.Transition != nil {
		if d := sanitizeFloat(n.Transition.Duration); d < 0 {
			log.Debug("Negative transition duration, resetting", zap.String("id", n.ID))
			n.Transition.Duration = 0
		} else {
			n.Transition.Duration = d
		}
	}

	if n.PointCount != nil && *n.PointCount < 3 {
		log.Debug("Degenerate point count, dropping", zap.String("id", n.ID), zap.Int("points", *n.PointCount))
		n.PointCount = nil
	}

	for _, c := range n.Children {
		sanitizeNode(c, log)
	}
}

func sanitizePaints(id string, paints []Paint, log *zap.Logger) {
	off := false
	for i := range paints {
		p := &paints[i]
		switch p.Kind {
		case PaintSolid, PaintGradientLinear, PaintGradientRadial, PaintGradientAngular, PaintGradientDiamond, PaintImage:
		default:
			log.Warn("Unknown paint kind, hiding paint", zap.String("id", id), zap.String("kind", string(p.Kind)))
			p.Visible = &off
			continue
		}
		if p.Opacity != nil {
			*p.Opacity = clamp01(sanitizeFloat(*p.Opacity))
		}
		if p.Color != nil {
			sanitizeColor(p.Color)
		}
		for j := range p.Stops {
			p.Stops[j].Position = clamp01(sanitizeFloat(p.Stops[j].Position))
			sanitizeColor(&p.Stops[j].Color)
		}
	}
}

func sanitizeEffects(id string, effects []Effect, log *zap.Logger) {
	off := false
	for i := range effects {
		e := &effects[i]
		switch e.Kind {
		case EffectDropShadow, EffectInnerShadow, EffectLayerBlur, EffectBackgroundBlur:
		default:
			log.Warn("Unknown effect kind, hiding effect", zap.String("id", id), zap.String("kind", string(e.Kind)))
			e.Visible = &off
			continue
		}
		e.OffsetX = sanitizeFloat(e.OffsetX)
		e.OffsetY = sanitizeFloat(e.OffsetY)
		e.Spread = sanitizeFloat(e.Spread)
		if e.Radius = sanitizeFloat(e.Radius); e.Radius < 0 {
			e.Radius = 0
		}
		if e.Color != nil {
			sanitizeColor(e.Color)
		}
	}
}

func sanitizeText(id string, t *TextStyle, log *zap.Logger) {
	if t.Size = sanitizeFloat(t.Size); t.Size < 0 {
		log.Debug("Negative font size, resetting", zap.String("id", id), zap.Float64("size", t.Size))
		t.Size = 0
	}
	if t.Weight != 0 && (t.Weight < 1 || t.Weight > 1000) {
		log.Debug("Font weight out of range, resetting", zap.String("id", id), zap.Int("weight", t.Weight))
		t.Weight = 0
	}
	if t.LineHeight != nil {
		t.LineHeight.Value = sanitizeFloat(t.LineHeight.Value)
		if t.LineHeight.Value < 0 {
			t.LineHeight = nil
		}
	}
	t.LetterSpacing = sanitizeFloat(t.LetterSpacing)
	t.WordSpacing = sanitizeFloat(t.WordSpacing)
	t.ParagraphSpacing = sanitizeFloat(t.ParagraphSpacing)
	t.Indent = sanitizeFloat(t.Indent)
	if t.Opacity != nil {
		*t.Opacity = clamp01(sanitizeFloat(*t.Opacity))
	}
	if t.Decoration != nil && t.Decoration.Color != nil {
		sanitizeColor(t.Decoration.Color)
	}
}

func sanitizeColor(c *Color) {
	c.R = clamp01(sanitizeFloat(c.R))
	c.G = clamp01(sanitizeFloat(c.G))
	c.B = clamp01(sanitizeFloat(c.B))
	c.A = clamp01(sanitizeFloat(c.A))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
