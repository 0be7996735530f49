package styles

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"dsc/css"
	"dsc/scene"
)

func mustConvert(t *testing.T, doc *scene.Document) *Result {
	t.Helper()
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	res, err := NewGenerator(log, nil).Convert(doc)
	if err != nil {
		t.Fatalf("unable to convert document: %v", err)
	}
	return res
}

func findRule(t *testing.T, res *Result, id string) *css.Rule {
	t.Helper()
	sel := css.NodeSelector(id)
	for _, r := range res.Sheet.Rules {
		if r.Selector == sel {
			return r
		}
	}
	t.Fatalf("no rule emitted for node %q", id)
	return nil
}

func TestConvertAbsoluteChild(t *testing.T) {
	child := &scene.Node{
		ID: "1:2", Kind: scene.KindFrame,
		X: 50, Y: 50, W: 100, H: 100,
		CornerRadius: f64(8),
		StrokeWeight: f64(2),
		Strokes:      []scene.Paint{{Kind: scene.PaintSolid, Color: &scene.Color{R: 1, A: 1}}},
	}
	root := &scene.Node{ID: "1:1", Kind: scene.KindFrame, W: 375, H: 812, Children: []*scene.Node{child}}
	res := mustConvert(t, &scene.Document{Roots: []*scene.Node{root}})

	want := []css.Declaration{
		{Property: "position", Value: "absolute"},
		{Property: "left", Value: "50px"},
		{Property: "top", Value: "50px"},
		{Property: "width", Value: "100px"},
		{Property: "height", Value: "100px"},
		{Property: "border-radius", Value: "8px"},
		{Property: "border", Value: "2px solid #ff0000"},
	}
	rule := findRule(t, res, "1:2")
	if !reflect.DeepEqual(rule.Declarations, want) {
		t.Fatalf("declarations:\n got %v\nwant %v", rule.Declarations, want)
	}
}

func TestConvertAutoLayoutFrame(t *testing.T) {
	root := &scene.Node{
		ID: "2:1", Kind: scene.KindFrame, W: 300, H: 80,
		Layout: &scene.Layout{Mode: scene.LayoutHorizontal, MainAlign: scene.AlignDistribute, ItemSpacing: 10},
	}
	res := mustConvert(t, &scene.Document{Roots: []*scene.Node{root}})

	rule := findRule(t, res, "2:1")
	for property, want := range map[string]string{
		"position":        "relative",
		"display":         "flex",
		"flex-direction":  "row",
		"justify-content": "space-between",
	} {
		if v, _ := rule.Get(property); v != want {
			t.Errorf("%s = %q, want %q", property, v, want)
		}
	}
	if rule.Has("gap") {
		t.Fatalf("distributed layout must not declare a gap: %v", rule.Declarations)
	}
}

func TestConvertDecoratedText(t *testing.T) {
	root := &scene.Node{
		ID: "3:1", Kind: scene.KindText, W: 200, H: 24,
		Text: &scene.TextStyle{
			Family: "Inter",
			Size:   16,
			Decoration: &scene.Decoration{
				Line:  "underline",
				Style: "dashed",
				Color: &scene.Color{R: 231.0 / 255, G: 76.0 / 255, B: 60.0 / 255, A: 1},
			},
		},
	}
	res := mustConvert(t, &scene.Document{Roots: []*scene.Node{root}})

	rule := findRule(t, res, "3:1")
	var decorations []string
	for _, d := range rule.Declarations {
		if d.Property == "text-decoration" {
			decorations = append(decorations, d.Value)
		}
	}
	if len(decorations) != 1 || decorations[0] != "underline dashed #e74c3c" {
		t.Fatalf("text-decoration = %v, want exactly one %q", decorations, "underline dashed #e74c3c")
	}
}

func TestConvertVariantGroup(t *testing.T) {
	on := &scene.Node{
		ID: "4:2", Kind: scene.KindVariant, X: 10, Y: 10, W: 100, H: 40, Default: true,
		Transition: &scene.Transition{Type: scene.TransitionSmartAnimate, Duration: 0.3, Easing: scene.EaseInOutBack},
	}
	off := &scene.Node{ID: "4:3", Kind: scene.KindVariant, X: 10, Y: 60, W: 100, H: 40}
	group := &scene.Node{ID: "4:1", Kind: scene.KindVariantGroup, W: 100, H: 40, Children: []*scene.Node{on, off}}
	doc := &scene.Document{Roots: []*scene.Node{group}}
	doc.Normalize(nil)
	res := mustConvert(t, doc)

	rule := findRule(t, res, "4:2")
	want := []css.Declaration{
		{Property: "position", Value: "absolute"},
		{Property: "left", Value: "0"},
		{Property: "top", Value: "0"},
		{Property: "transition", Value: "transform, width, height, left, top, right, bottom 300ms cubic-bezier(0.68,-0.55,0.265,1.55)"},
		{Property: "width", Value: "100px"},
		{Property: "height", Value: "40px"},
	}
	if !reflect.DeepEqual(rule.Declarations, want) {
		t.Fatalf("declarations:\n got %v\nwant %v", rule.Declarations, want)
	}

	sibling := findRule(t, res, "4:3")
	if sibling.Has("transition") {
		t.Fatalf("variant without transition gained one: %v", sibling.Declarations)
	}
	if v, _ := sibling.Get("left"); v != "0" {
		t.Errorf("sibling left = %q, want 0", v)
	}
}

func TestConvertRuleOrderFollowsTraversal(t *testing.T) {
	doc := &scene.Document{Roots: []*scene.Node{
		{ID: "1:1", Kind: scene.KindFrame, W: 10, H: 10, Children: []*scene.Node{
			{ID: "1:2", Kind: scene.KindFrame, W: 5, H: 5, Children: []*scene.Node{
				{ID: "1:3", Kind: scene.KindText, W: 5, H: 5, Text: &scene.TextStyle{Size: 12}},
			}},
			{ID: "1:4", Kind: scene.KindRectangle, W: 5, H: 5},
		}},
		{ID: "2:1", Kind: scene.KindFrame, W: 10, H: 10},
	}}
	res := mustConvert(t, doc)

	var got []string
	for _, r := range res.Sheet.Rules {
		got = append(got, r.Selector)
	}
	want := []string{
		css.NodeSelector("1:1"),
		css.NodeSelector("1:2"),
		css.NodeSelector("1:3"),
		css.NodeSelector("1:4"),
		css.NodeSelector("2:1"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rule order:\n got %v\nwant %v", got, want)
	}
}

func TestConvertCollectsShapePaths(t *testing.T) {
	doc := &scene.Document{Roots: []*scene.Node{
		{ID: "1:1", Kind: scene.KindFrame, W: 100, H: 100, Children: []*scene.Node{
			{ID: "1:2", Kind: scene.KindRectangle, W: 10, H: 10},
			{ID: "1:3", Kind: scene.KindEllipse, W: 10, H: 10},
			{ID: "1:4", Kind: scene.KindText, W: 10, H: 10, Text: &scene.TextStyle{}},
		}},
	}}
	res := mustConvert(t, doc)

	if len(res.Paths) != 2 {
		t.Fatalf("expected 2 path records, got %d: %v", len(res.Paths), res.Paths)
	}
	if res.Paths[0].NodeID != "1:2" || res.Paths[1].NodeID != "1:3" {
		t.Fatalf("path order = %s, %s", res.Paths[0].NodeID, res.Paths[1].NodeID)
	}
	rec, ok := res.PathByID("1:2")
	if !ok || rec.ViewBox != "0 0 10 10" {
		t.Fatalf("PathByID(1:2) = %+v, %v", rec, ok)
	}
	if _, ok := res.PathByID("1:4"); ok {
		t.Fatal("text node must not produce a path record")
	}
}

func TestConvertIDValidation(t *testing.T) {
	cases := []struct {
		name string
		doc  *scene.Document
		want string
	}{
		{
			"missing id",
			&scene.Document{Roots: []*scene.Node{
				{ID: "1:1", Kind: scene.KindFrame, Children: []*scene.Node{{Name: "Anon", Kind: scene.KindFrame}}},
			}},
			"has no id",
		},
		{
			"duplicate id",
			&scene.Document{Roots: []*scene.Node{
				{ID: "1:1", Kind: scene.KindFrame},
				{ID: "1:1", Kind: scene.KindFrame},
			}},
			"duplicate node id",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewGenerator(zaptest.NewLogger(t), nil).Convert(c.doc)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
}

func TestConvertIdempotent(t *testing.T) {
	doc := &scene.Document{Roots: []*scene.Node{
		{ID: "1:1", Kind: scene.KindFrame, W: 375.333, H: 812, Children: []*scene.Node{
			{ID: "1:2", Kind: scene.KindRectangle, X: 10.005, Y: 20, W: 100, H: 50, CornerRadius: f64(8)},
			{ID: "1:3", Kind: scene.KindText, W: 100, H: 20, Text: &scene.TextStyle{Family: "Inter", Size: 14}},
		}},
	}}
	first := mustConvert(t, doc)
	second := mustConvert(t, doc)

	if first.Sheet.String() != second.Sheet.String() {
		t.Fatalf("stylesheets differ between runs:\n%s\n---\n%s", first.Sheet.String(), second.Sheet.String())
	}
	if !reflect.DeepEqual(first.Paths, second.Paths) {
		t.Fatalf("paths differ between runs:\n%v\n%v", first.Paths, second.Paths)
	}
}

func TestConvertStylesheetOutput(t *testing.T) {
	doc := &scene.Document{Roots: []*scene.Node{
		{ID: "1:1", Kind: scene.KindFrame, W: 100, H: 100,
			Fills: []scene.Paint{{Kind: scene.PaintSolid, Color: &scene.Color{R: 1, G: 1, B: 1, A: 1}}}},
	}}
	res := mustConvert(t, doc)

	want := `[data-node-id="1:1"] {
  position: absolute;
  left: 0px;
  top: 0px;
  width: 100px;
  height: 100px;
  background-color: #ffffff;
}
`
	if got := res.Sheet.String(); got != want {
		t.Fatalf("stylesheet:\n got %q\nwant %q", got, want)
	}
}
