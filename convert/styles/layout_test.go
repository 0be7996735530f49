package styles

import (
	"reflect"
	"testing"

	"dsc/css"
	"dsc/scene"
)

func TestLayoutFixedDimensions(t *testing.T) {
	rule := newTestRule()
	applyLayout(rule, &scene.Node{ID: "n", Kind: scene.KindFrame, W: 100, H: 50.25})
	want := []css.Declaration{
		{Property: "width", Value: "100px"},
		{Property: "height", Value: "50.25px"},
	}
	if !reflect.DeepEqual(rule.Declarations, want) {
		t.Fatalf("declarations:\n got %v\nwant %v", rule.Declarations, want)
	}
}

func TestLayoutSkipsNonFixedAxes(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame, W: 100, H: 50,
		Sizing: &scene.Sizing{Horizontal: scene.SizingFill, Vertical: scene.SizingHug},
	}
	applyLayout(rule, n)
	if rule.Has("width") || rule.Has("height") {
		t.Fatalf("non-fixed axes must not get pixel dimensions: %v", rule.Declarations)
	}
}

func TestLayoutSkipsZeroDimensions(t *testing.T) {
	rule := newTestRule()
	applyLayout(rule, &scene.Node{ID: "n", Kind: scene.KindLine, W: 100})
	if rule.Has("height") {
		t.Fatalf("zero height must be omitted: %v", rule.Declarations)
	}
	if v, _ := rule.Get("width"); v != "100px" {
		t.Errorf("width = %q", v)
	}
}

func TestLayoutSkipsHuggingText(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindText, W: 120, H: 20,
		Text: &scene.TextStyle{AutoResize: scene.ResizeHeight},
	}
	applyLayout(rule, n)
	if rule.Has("height") {
		t.Fatalf("hugging text height belongs to typography: %v", rule.Declarations)
	}
	if v, _ := rule.Get("width"); v != "120px" {
		t.Errorf("width = %q", v)
	}
}

func TestLayoutRadius(t *testing.T) {
	rule := newTestRule()
	applyLayout(rule, &scene.Node{ID: "n", Kind: scene.KindRectangle, W: 10, H: 10, CornerRadius: f64(8)})
	if v, _ := rule.Get("border-radius"); v != "8px" {
		t.Errorf("uniform radius = %q", v)
	}

	corners := [4]float64{1, 2, 3, 4}
	rule = newTestRule()
	applyLayout(rule, &scene.Node{ID: "n", Kind: scene.KindRectangle, W: 10, H: 10, Corners: &corners})
	if v, _ := rule.Get("border-radius"); v != "1px 2px 3px 4px" {
		t.Errorf("per corner radius = %q", v)
	}
}

func TestLayoutRotationWindow(t *testing.T) {
	cases := []struct {
		rotation float64
		want     string
	}{
		{0, ""},
		{0.05, ""},
		{-0.1, ""},
		{45, "rotate(45deg)"},
		{-90, "rotate(-90deg)"},
		{359.95, "rotate(359.95deg)"},
		{360, ""},
		{720, ""},
	}
	for _, c := range cases {
		rule := newTestRule()
		applyLayout(rule, &scene.Node{ID: "n", Kind: scene.KindFrame, Rotation: c.rotation})
		got, _ := rule.Get("transform")
		if got != c.want {
			t.Errorf("rotation %v: transform = %q, want %q", c.rotation, got, c.want)
		}
	}
}

func TestLayoutOverflow(t *testing.T) {
	cases := []struct {
		name     string
		clip     bool
		overflow scene.Overflow
		want     string
	}{
		{"default", false, "", ""},
		{"visible", false, scene.OverflowVisible, ""},
		{"scroll", false, scene.OverflowScroll, "scroll"},
		{"auto", false, scene.OverflowAuto, "auto"},
		{"hidden", false, scene.OverflowHidden, "hidden"},
		{"clip wins over visible", true, scene.OverflowVisible, "hidden"},
		{"clip wins over scroll", true, scene.OverflowScroll, "hidden"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rule := newTestRule()
			applyLayout(rule, &scene.Node{ID: "n", Kind: scene.KindFrame, Clip: c.clip, Overflow: c.overflow})
			got, _ := rule.Get("overflow")
			if got != c.want {
				t.Fatalf("overflow = %q, want %q", got, c.want)
			}
		})
	}
}

func TestLayoutFlexContainer(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame, W: 300, H: 80,
		Layout: &scene.Layout{
			Mode:       scene.LayoutVertical,
			MainAlign:  scene.AlignCenter,
			CrossAlign: scene.AlignStretch,
			PaddingTop: 8, PaddingRgt: 16, PaddingBtm: 8, PaddingLft: 16,
			ItemSpacing: 12,
		},
	}
	applyLayout(rule, n)
	want := []css.Declaration{
		{Property: "width", Value: "300px"},
		{Property: "height", Value: "80px"},
		{Property: "display", Value: "flex"},
		{Property: "flex-direction", Value: "column"},
		{Property: "justify-content", Value: "center"},
		{Property: "align-items", Value: "stretch"},
		{Property: "gap", Value: "12px"},
		{Property: "padding", Value: "8px 16px 8px 16px"},
	}
	if !reflect.DeepEqual(rule.Declarations, want) {
		t.Fatalf("declarations:\n got %v\nwant %v", rule.Declarations, want)
	}
}

func TestLayoutDistributeSuppressesGap(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame,
		Layout: &scene.Layout{Mode: scene.LayoutHorizontal, MainAlign: scene.AlignDistribute, ItemSpacing: 10},
	}
	applyLayout(rule, n)
	if v, _ := rule.Get("justify-content"); v != "space-between" {
		t.Errorf("justify-content = %q", v)
	}
	if rule.Has("gap") {
		t.Fatalf("gap must be suppressed under distribute: %v", rule.Declarations)
	}
}

func TestLayoutImageContainerSkipsPadding(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame,
		Fills:  []scene.Paint{{Kind: scene.PaintImage, AssetRef: "a1"}},
		Layout: &scene.Layout{Mode: scene.LayoutHorizontal, PaddingTop: 10},
	}
	applyLayout(rule, n)
	if rule.Has("padding") {
		t.Fatalf("image containers must not get padding: %v", rule.Declarations)
	}
}

func TestLayoutFlexChild(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame,
		Layout: &scene.Layout{Grow: 1, Align: scene.AlignCenter},
	}
	applyLayout(rule, n)
	if v, _ := rule.Get("flex-grow"); v != "1" {
		t.Errorf("flex-grow = %q", v)
	}
	if v, _ := rule.Get("align-self"); v != "center" {
		t.Errorf("align-self = %q", v)
	}
	if rule.Has("display") {
		t.Fatalf("child-only layout must not create a flex container: %v", rule.Declarations)
	}
}
