// Package scene defines the design node tree consumed by the conversion
// engine. An external loader produces this shape, we only read it: scene
// documents are decoded from their JSON serialization, never written back.
package scene

import "math"

// NodeKind discriminates scene graph vertices.
type NodeKind string

const (
	KindFrame        NodeKind = "frame"
	KindGroup        NodeKind = "group"
	KindRectangle    NodeKind = "rectangle"
	KindEllipse      NodeKind = "ellipse"
	KindPolygon      NodeKind = "polygon"
	KindStar         NodeKind = "star"
	KindLine         NodeKind = "line"
	KindVector       NodeKind = "vector"
	KindText         NodeKind = "text"
	KindComponent    NodeKind = "component"
	KindVariantGroup NodeKind = "variant-group"
	KindVariant      NodeKind = "variant"
)

// Shape reports whether nodes of this kind produce vector path records.
func (k NodeKind) Shape() bool {
	switch k {
	case KindRectangle, KindEllipse, KindPolygon, KindStar, KindLine, KindVector:
		return true
	}
	return false
}

// Container reports whether nodes of this kind normally carry children.
func (k NodeKind) Container() bool {
	switch k {
	case KindFrame, KindGroup, KindComponent, KindVariantGroup, KindVariant:
		return true
	}
	return false
}

// PaintKind discriminates fill and stroke paints.
type PaintKind string

const (
	PaintSolid           PaintKind = "solid"
	PaintGradientLinear  PaintKind = "gradient-linear"
	PaintGradientRadial  PaintKind = "gradient-radial"
	PaintGradientAngular PaintKind = "gradient-angular"
	PaintGradientDiamond PaintKind = "gradient-diamond"
	PaintImage           PaintKind = "image"
)

// EffectKind discriminates node effects.
type EffectKind string

const (
	EffectDropShadow     EffectKind = "drop-shadow"
	EffectInnerShadow    EffectKind = "inner-shadow"
	EffectLayerBlur      EffectKind = "layer-blur"
	EffectBackgroundBlur EffectKind = "background-blur"
)

// Color is a normalized RGBA color, channels in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Matrix is a 2-D affine transform:
//
//	| A C E |
//	| B D F |
type Matrix struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
	E float64 `json:"e"`
	F float64 `json:"f"`
}

// Identity reports whether the matrix does not transform anything.
func (m Matrix) Identity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 && m.E == 0 && m.F == 0
}

// GradientStop is one color stop, position in [0, 1] along the gradient axis.
type GradientStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// ScaleMode describes how an image paint covers the node box.
type ScaleMode string

const (
	ScaleFill ScaleMode = "fill"
	ScaleFit  ScaleMode = "fit"
	ScaleCrop ScaleMode = "crop"
	ScaleTile ScaleMode = "tile"
)

// Paint is a single fill or stroke layer. Kind selects which payload fields
// are meaningful. Absent Visible means visible, absent Opacity means opaque.
type Paint struct {
	Kind      PaintKind      `json:"kind"`
	Visible   *bool          `json:"visible,omitempty"`
	Opacity   *float64       `json:"opacity,omitempty"`
	Color     *Color         `json:"color,omitempty"`
	Stops     []GradientStop `json:"stops,omitempty"`
	Transform *Matrix        `json:"transform,omitempty"`
	AssetRef  string         `json:"assetRef,omitempty"`
	ScaleMode ScaleMode      `json:"scaleMode,omitempty"`
}

// On reports whether the paint participates in rendering at all.
func (p *Paint) On() bool {
	return p.Visible == nil || *p.Visible
}

// Alpha returns effective paint opacity.
func (p *Paint) Alpha() float64 {
	if p.Opacity == nil {
		return 1
	}
	return *p.Opacity
}

// Effect is a single visual effect layer. Offset and spread are only
// meaningful for shadows, blurs carry radius alone.
type Effect struct {
	Kind    EffectKind `json:"kind"`
	Visible *bool      `json:"visible,omitempty"`
	Color   *Color     `json:"color,omitempty"`
	OffsetX float64    `json:"offsetX,omitempty"`
	OffsetY float64    `json:"offsetY,omitempty"`
	Radius  float64    `json:"radius,omitempty"`
	Spread  float64    `json:"spread,omitempty"`
}

// On reports whether the effect participates in rendering at all.
func (e *Effect) On() bool {
	return e.Visible == nil || *e.Visible
}

// LayoutMode describes automatic child arrangement.
type LayoutMode string

const (
	LayoutNone       LayoutMode = "none"
	LayoutHorizontal LayoutMode = "horizontal"
	LayoutVertical   LayoutMode = "vertical"
)

// AxisAlign describes alignment along either layout axis. Distribute is only
// meaningful on the main axis.
type AxisAlign string

const (
	AlignStart      AxisAlign = "start"
	AlignCenter     AxisAlign = "center"
	AlignEnd        AxisAlign = "end"
	AlignDistribute AxisAlign = "distribute"
	AlignStretch    AxisAlign = "stretch"
	AlignBaseline   AxisAlign = "baseline"
)

// Layout carries the auto-layout descriptor. Container fields (Mode, axis
// alignment, padding, spacing) describe how this node arranges its children,
// Grow and Align describe how the node behaves inside its parent layout.
type Layout struct {
	Mode        LayoutMode `json:"mode,omitempty"`
	MainAlign   AxisAlign  `json:"mainAlign,omitempty"`
	CrossAlign  AxisAlign  `json:"crossAlign,omitempty"`
	PaddingTop  float64    `json:"paddingTop,omitempty"`
	PaddingRgt  float64    `json:"paddingRight,omitempty"`
	PaddingBtm  float64    `json:"paddingBottom,omitempty"`
	PaddingLft  float64    `json:"paddingLeft,omitempty"`
	ItemSpacing float64    `json:"itemSpacing,omitempty"`
	Grow        float64    `json:"grow,omitempty"`
	Align       AxisAlign  `json:"align,omitempty"`
}

// Active reports whether the node arranges its children automatically.
func (l *Layout) Active() bool {
	return l != nil && (l.Mode == LayoutHorizontal || l.Mode == LayoutVertical)
}

// SizingMode describes how one axis of the node box is sized.
type SizingMode string

const (
	SizingFixed SizingMode = "fixed"
	SizingFill  SizingMode = "fill"
	SizingHug   SizingMode = "hug"
)

// Sizing carries per-axis sizing modes with optional bounds.
type Sizing struct {
	Horizontal SizingMode `json:"horizontal,omitempty"`
	Vertical   SizingMode `json:"vertical,omitempty"`
	MinWidth   *float64   `json:"minWidth,omitempty"`
	MaxWidth   *float64   `json:"maxWidth,omitempty"`
	MinHeight  *float64   `json:"minHeight,omitempty"`
	MaxHeight  *float64   `json:"maxHeight,omitempty"`
}

// Mode returns the sizing mode of the requested axis, horizontal when
// horizontal is true. Missing sizing descriptor means fixed.
func (s *Sizing) Mode(horizontal bool) SizingMode {
	if s == nil {
		return SizingFixed
	}
	m := s.Vertical
	if horizontal {
		m = s.Horizontal
	}
	if len(m) == 0 {
		return SizingFixed
	}
	return m
}

// PositionMode is the declared per-node placement strategy.
type PositionMode string

const (
	PositionAuto     PositionMode = "auto"
	PositionAbsolute PositionMode = "absolute"
	PositionRelative PositionMode = "relative"
	PositionFixed    PositionMode = "fixed"
	PositionSticky   PositionMode = "sticky"
)

// Anchor is a decoded constraint anchor. Anchors are carried through for
// debugging but deliberately never translated to style declarations, literal
// coordinates win over constraint based reflow.
type Anchor string

const (
	AnchorMin    Anchor = "min"
	AnchorCenter Anchor = "center"
	AnchorMax    Anchor = "max"
	AnchorBoth   Anchor = "both"
	AnchorScale  Anchor = "scale"
)

// Constraints are per-axis anchors recorded by the design tool.
type Constraints struct {
	Horizontal Anchor `json:"horizontal,omitempty"`
	Vertical   Anchor `json:"vertical,omitempty"`
}

// Overflow is the declared overflow behavior. The node Clip flag always wins
// over this value.
type Overflow string

const (
	OverflowVisible Overflow = "visible"
	OverflowHidden  Overflow = "hidden"
	OverflowScroll  Overflow = "scroll"
	OverflowAuto    Overflow = "auto"
)

// StrokeAlign describes where the stroke sits relative to the node boundary.
type StrokeAlign string

const (
	StrokeInside  StrokeAlign = "inside"
	StrokeCenter  StrokeAlign = "center"
	StrokeOutside StrokeAlign = "outside"
)

// SideWeights are per-side stroke weights for individual borders.
type SideWeights struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// Uniform reports whether all four sides carry the same weight.
func (w *SideWeights) Uniform() bool {
	return w.Top == w.Right && w.Right == w.Bottom && w.Bottom == w.Left
}

// TextCase is the case transform applied to text content.
type TextCase string

const (
	CaseNone      TextCase = "none"
	CaseUpper     TextCase = "upper"
	CaseLower     TextCase = "lower"
	CaseTitle     TextCase = "title"
	CaseSmallCaps TextCase = "small-caps"
)

// AutoResize describes how a text node tracks its content box.
type AutoResize string

const (
	ResizeFixed    AutoResize = "fixed"
	ResizeHeight   AutoResize = "hug-height"
	ResizeBoth     AutoResize = "hug-both"
	ResizeTruncate AutoResize = "truncate"
)

// LeadingTrim describes vertical trimming of the text block.
type LeadingTrim string

const (
	TrimNone      LeadingTrim = "none"
	TrimCapHeight LeadingTrim = "cap-height"
)

// BlendMode is a paint/text compositing mode, design tool vocabulary.
type BlendMode string

const (
	BlendPassThrough BlendMode = "pass-through"
	BlendNormal      BlendMode = "normal"
)

// Decoration is a compound text decoration: line, line style and color.
type Decoration struct {
	Line  string `json:"line,omitempty"`
	Style string `json:"style,omitempty"`
	Color *Color `json:"color,omitempty"`
}

// Scalar is a numeric value which is either an absolute length or a
// percentage of some base.
type Scalar struct {
	Value   float64 `json:"value"`
	Percent bool    `json:"percent,omitempty"`
}

// TextStyle is the typography descriptor of a text node.
type TextStyle struct {
	Family           string      `json:"family,omitempty"`
	Size             float64     `json:"size,omitempty"`
	Weight           int         `json:"weight,omitempty"`
	Style            string      `json:"style,omitempty"`
	Variant          string      `json:"variant,omitempty"`
	Stretch          string      `json:"stretch,omitempty"`
	Decoration       *Decoration `json:"decoration,omitempty"`
	Case             TextCase    `json:"case,omitempty"`
	AlignX           string      `json:"alignX,omitempty"`
	AlignY           string      `json:"alignY,omitempty"`
	LineHeight       *Scalar     `json:"lineHeight,omitempty"`
	LetterSpacing    float64     `json:"letterSpacing,omitempty"`
	WordSpacing      float64     `json:"wordSpacing,omitempty"`
	ParagraphSpacing float64     `json:"paragraphSpacing,omitempty"`
	Indent           float64     `json:"indent,omitempty"`
	AutoResize       AutoResize  `json:"autoResize,omitempty"`
	Opacity          *float64    `json:"opacity,omitempty"`
	BlendMode        BlendMode   `json:"blendMode,omitempty"`
	LeadingTrim      LeadingTrim `json:"leadingTrim,omitempty"`
	Characters       string      `json:"characters,omitempty"`
}

// SingleLine reports whether text content has no explicit line breaks.
func (t *TextStyle) SingleLine() bool {
	for _, r := range t.Characters {
		if r == '\n' || r == '\r' || r == '\u2028' {
			return false
		}
	}
	return true
}

// PathData is one pre-tessellated path carried by a vector node.
type PathData struct {
	D       string `json:"d"`
	Winding string `json:"winding,omitempty"`
}

// Segment is one straight line of a vector network.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// VectorData carries freeform vector payloads in decreasing order of
// preference for path synthesis.
type VectorData struct {
	FillGeometry   []PathData `json:"fillGeometry,omitempty"`
	StrokeGeometry []PathData `json:"strokeGeometry,omitempty"`
	Paths          []PathData `json:"paths,omitempty"`
	Network        []Segment  `json:"network,omitempty"`
}

// TransitionType names the variant entry animation.
type TransitionType string

const (
	TransitionInstant      TransitionType = "instant"
	TransitionDissolve     TransitionType = "dissolve"
	TransitionSmartAnimate TransitionType = "smart-animate"
)

// Easing names the variant transition curve.
type Easing string

const (
	EaseLinear    Easing = "linear"
	EaseIn        Easing = "ease-in"
	EaseOut       Easing = "ease-out"
	EaseInOut     Easing = "ease-in-out"
	EaseInBack    Easing = "ease-in-back"
	EaseOutBack   Easing = "ease-out-back"
	EaseInOutBack Easing = "ease-in-out-back"
)

// Transition describes how a variant enters when switched to. Duration is in
// seconds as recorded by the design tool.
type Transition struct {
	Type     TransitionType `json:"type,omitempty"`
	Duration float64        `json:"duration,omitempty"`
	Easing   Easing         `json:"easing,omitempty"`
}

// Node is a single scene graph vertex. Coordinates are parent-relative,
// dimensions are in design units (pixels).
type Node struct {
	ID   string   `json:"id"`
	Name string   `json:"name,omitempty"`
	Kind NodeKind `json:"kind"`

	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	W        float64 `json:"width,omitempty"`
	H        float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	// Transform often encodes document level coordinates so it is carried
	// through but never reproduced locally.
	Transform *Matrix `json:"transform,omitempty"`

	Fills   []Paint  `json:"fills,omitempty"`
	Strokes []Paint  `json:"strokes,omitempty"`
	Effects []Effect `json:"effects,omitempty"`

	StrokeWeight  *float64     `json:"strokeWeight,omitempty"`
	StrokeWeights *SideWeights `json:"strokeWeights,omitempty"`
	StrokeAlign   StrokeAlign  `json:"strokeAlign,omitempty"`
	DashPattern   []float64    `json:"dashPattern,omitempty"`

	CornerRadius *float64    `json:"cornerRadius,omitempty"`
	Corners      *[4]float64 `json:"corners,omitempty"` // TL, TR, BR, BL

	Layout      *Layout      `json:"layout,omitempty"`
	Sizing      *Sizing      `json:"sizing,omitempty"`
	Position    PositionMode `json:"position,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`

	Clip     bool     `json:"clip,omitempty"`
	Overflow Overflow `json:"overflow,omitempty"`
	ZIndex   *int     `json:"zIndex,omitempty"`

	Text   *TextStyle  `json:"text,omitempty"`
	Vector *VectorData `json:"vector,omitempty"`

	// variant wiring
	GroupID    string      `json:"groupId,omitempty"`
	Default    bool        `json:"default,omitempty"`
	Transition *Transition `json:"transition,omitempty"`

	// polygons and stars
	PointCount  *int     `json:"pointCount,omitempty"`
	InnerRadius *float64 `json:"innerRadius,omitempty"` // fraction of the outer radius

	Children []*Node `json:"children,omitempty"`

	parent *Node
}

// Parent returns the owning node, nil for roots. Wired by Document.Normalize.
func (n *Node) Parent() *Node {
	return n.parent
}

// AutoLayout reports whether the node arranges its children automatically.
func (n *Node) AutoLayout() bool {
	return n.Layout.Active()
}

// ImageContainer reports whether the node box is covered by an image fill.
// Such nodes never receive padding so the image is not offset.
func (n *Node) ImageContainer() bool {
	for i := range n.Fills {
		if n.Fills[i].Kind == PaintImage && n.Fills[i].On() {
			return true
		}
	}
	return false
}

// Variant reports whether the node is a variant belonging to a group.
func (n *Node) Variant() bool {
	return n.Kind == KindVariant && len(n.GroupID) > 0
}

// Radii returns per-corner radii in TL, TR, BR, BL order and whether any
// corner is rounded.
func (n *Node) Radii() ([4]float64, bool) {
	if n.Corners != nil {
		r := *n.Corners
		return r, r[0] > 0 || r[1] > 0 || r[2] > 0 || r[3] > 0
	}
	if n.CornerRadius != nil && *n.CornerRadius > 0 {
		r := *n.CornerRadius
		return [4]float64{r, r, r, r}, true
	}
	return [4]float64{}, false
}

// Walk visits the node and all descendants depth first, children in document
// order. Traversal stops when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Asset is a binary payload referenced by image paints. Data travels base64
// encoded inside the JSON document.
type Asset struct {
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

// SceneAsset is a fully prepared asset ready to be written out.
type SceneAsset struct {
	MimeType string
	Data     []byte
	Filename string
	Dim      struct {
		Width  int
		Height int
	}
}

// SceneAssets maps asset references to prepared assets.
type SceneAssets map[string]*SceneAsset

// Document is a complete scene: node forest plus the assets referenced from
// image paints.
type Document struct {
	ID     string            `json:"id,omitempty"`
	Name   string            `json:"name,omitempty"`
	Schema int               `json:"schema,omitempty"`
	Roots  []*Node           `json:"roots"`
	Assets map[string]*Asset `json:"assets,omitempty"`
}

// Walk visits every node of every root depth first.
func (d *Document) Walk(fn func(*Node) bool) {
	for _, r := range d.Roots {
		if !r.Walk(fn) {
			return
		}
	}
}

// Count returns the total number of nodes in the document.
func (d *Document) Count() int {
	var n int
	d.Walk(func(*Node) bool {
		n++
		return true
	})
	return n
}

// sanitizeFloat squashes NaN and infinities which sometimes leak from
// exporters into harmless zeroes.
func sanitizeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
