package styles

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"dsc/scene"
)

// PathRecord is the synthesized outline of one shape node. The path lives in
// the node's own coordinate space, the view box always starts at the origin.
type PathRecord struct {
	NodeID  string
	ViewBox string
	Path    string
}

// SafeNodeID maps a node identifier to a form usable as an XML id or a file
// name. Characters outside [A-Za-z0-9_-] become '-', so a scene id "12:7"
// turns into "12-7". Distinct ids may collide after mapping.
func SafeNodeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, id)
}

// kappa approximates a quarter circle with one cubic segment.
const kappa = 0.5522847498

const (
	defaultPolygonPoints = 3
	defaultStarPoints    = 5
	defaultStarInner     = 0.382
)

// pathFor synthesizes the path record of a shape node. Non-shape kinds
// produce nil. Any unexpected structural failure is contained: a broken
// shape logs a warning and yields no record instead of aborting traversal.
func pathFor(n *scene.Node, log *zap.Logger) (rec *PathRecord) {
	if !n.Kind.Shape() {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("Unable to synthesize shape path", zap.String("id", n.ID), zap.Any("reason", r))
			rec = nil
		}
	}()

	w, h := n.W, n.H
	var d string
	switch n.Kind {
	case scene.KindRectangle:
		d = rectPath(n, w, h)
	case scene.KindEllipse:
		d = ellipsePath(w, h)
	case scene.KindPolygon:
		d = polygonPath(n, w, h)
	case scene.KindStar:
		d = starPath(n, w, h)
	case scene.KindLine:
		d = linePath(w, h)
	case scene.KindVector:
		d = vectorPath(n, w, h)
	}
	if d == "" {
		return nil
	}
	return &PathRecord{NodeID: n.ID, ViewBox: "0 0 " + num(w) + " " + num(h), Path: d}
}

// pathBuilder accumulates SVG path commands with rounded coordinates.
type pathBuilder struct {
	sb strings.Builder
}

func (b *pathBuilder) moveTo(x, y float64)                  { b.cmd('M', x, y) }
func (b *pathBuilder) lineTo(x, y float64)                  { b.cmd('L', x, y) }
func (b *pathBuilder) hLineTo(x float64)                    { b.cmd('H', x) }
func (b *pathBuilder) vLineTo(y float64)                    { b.cmd('V', y) }
func (b *pathBuilder) cubicTo(x1, y1, x2, y2, x, y float64) { b.cmd('C', x1, y1, x2, y2, x, y) }
func (b *pathBuilder) close()                               { b.sb.WriteByte('Z') }

func (b *pathBuilder) cmd(op byte, coords ...float64) {
	b.sb.WriteByte(op)
	for i, c := range coords {
		if i > 0 {
			b.sb.WriteByte(' ')
		}
		b.sb.WriteString(num(c))
	}
}

func (b *pathBuilder) String() string { return b.sb.String() }

// rectPath draws the rectangle outline, rounding each corner with a cubic
// approximation. Radii clamp to half of each dimension.
func rectPath(n *scene.Node, w, h float64) string {
	radii, rounded := n.Radii()
	if !rounded {
		var b pathBuilder
		b.moveTo(0, 0)
		b.hLineTo(w)
		b.vLineTo(h)
		b.hLineTo(0)
		b.close()
		return b.String()
	}
	clamp := func(r float64) float64 {
		return min(r, w/2, h/2)
	}
	tl, tr, br, bl := clamp(radii[0]), clamp(radii[1]), clamp(radii[2]), clamp(radii[3])

	var b pathBuilder
	b.moveTo(tl, 0)
	b.lineTo(w-tr, 0)
	if tr > 0 {
		b.cubicTo(w-tr+kappa*tr, 0, w, tr-kappa*tr, w, tr)
	}
	b.lineTo(w, h-br)
	if br > 0 {
		b.cubicTo(w, h-br+kappa*br, w-br+kappa*br, h, w-br, h)
	}
	b.lineTo(bl, h)
	if bl > 0 {
		b.cubicTo(bl-kappa*bl, h, 0, h-bl+kappa*bl, 0, h-bl)
	}
	b.lineTo(0, tl)
	if tl > 0 {
		b.cubicTo(0, tl-kappa*tl, tl-kappa*tl, 0, tl, 0)
	}
	b.close()
	return b.String()
}

// ellipsePath draws the full ellipse as four quarter circle cubics starting
// at the right edge.
func ellipsePath(w, h float64) string {
	cx, cy := w/2, h/2
	rx, ry := w/2, h/2
	kx, ky := kappa*rx, kappa*ry

	var b pathBuilder
	b.moveTo(w, cy)
	b.cubicTo(w, cy+ky, cx+kx, h, cx, h)
	b.cubicTo(cx-kx, h, 0, cy+ky, 0, cy)
	b.cubicTo(0, cy-ky, cx-kx, 0, cx, 0)
	b.cubicTo(cx+kx, 0, w, cy-ky, w, cy)
	b.close()
	return b.String()
}

// polygonPath draws a regular polygon inscribed in the node box, first
// vertex at the top center.
func polygonPath(n *scene.Node, w, h float64) string {
	points := defaultPolygonPoints
	if n.PointCount != nil && *n.PointCount >= 3 {
		points = *n.PointCount
	}
	cx, cy := w/2, h/2

	var b pathBuilder
	for i := 0; i < points; i++ {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(points)
		x := cx + cx*math.Cos(angle)
		y := cy + cy*math.Sin(angle)
		if i == 0 {
			b.moveTo(x, y)
		} else {
			b.lineTo(x, y)
		}
	}
	b.close()
	return b.String()
}

// starPath draws a star inscribed in the node box, alternating outer and
// inner vertices starting from the top center spike.
func starPath(n *scene.Node, w, h float64) string {
	points := defaultStarPoints
	if n.PointCount != nil && *n.PointCount >= 3 {
		points = *n.PointCount
	}
	inner := defaultStarInner
	if n.InnerRadius != nil && *n.InnerRadius > 0 && *n.InnerRadius < 1 {
		inner = *n.InnerRadius
	}
	cx, cy := w/2, h/2

	var b pathBuilder
	for i := 0; i < points*2; i++ {
		rx, ry := cx, cy
		if i%2 == 1 {
			rx, ry = cx*inner, cy*inner
		}
		angle := -math.Pi/2 + math.Pi*float64(i)/float64(points)
		x := cx + rx*math.Cos(angle)
		y := cy + ry*math.Sin(angle)
		if i == 0 {
			b.moveTo(x, y)
		} else {
			b.lineTo(x, y)
		}
	}
	b.close()
	return b.String()
}

// linePath draws the node box diagonal, which is how a line node records its
// endpoints.
func linePath(w, h float64) string {
	var b pathBuilder
	b.moveTo(0, 0)
	b.lineTo(w, h)
	return b.String()
}

// vectorPath resolves freeform vector payloads in decreasing order of
// fidelity and falls back to the plain bounding rectangle when the node
// carries no usable geometry at all.
func vectorPath(n *scene.Node, w, h float64) string {
	if v := n.Vector; v != nil {
		if d := joinPaths(v.FillGeometry); d != "" {
			return d
		}
		if d := joinPaths(v.StrokeGeometry); d != "" {
			return d
		}
		if d := joinPaths(v.Paths); d != "" {
			return d
		}
		if d := networkPath(v.Network); d != "" {
			return d
		}
	}
	var b pathBuilder
	b.moveTo(0, 0)
	b.hLineTo(w)
	b.vLineTo(h)
	b.hLineTo(0)
	b.close()
	return b.String()
}

func joinPaths(paths []scene.PathData) string {
	var parts []string
	for i := range paths {
		if d := strings.TrimSpace(paths[i].D); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " ")
}

// networkPath renders vector network segments as disconnected straight lines.
func networkPath(segments []scene.Segment) string {
	var b pathBuilder
	for _, s := range segments {
		b.moveTo(s.X1, s.Y1)
		b.lineTo(s.X2, s.Y2)
	}
	return b.String()
}
