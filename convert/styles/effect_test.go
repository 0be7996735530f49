package styles

import (
	"testing"

	"dsc/scene"
)

func TestEffectsShadowsMerged(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame,
		Effects: []scene.Effect{
			{Kind: scene.EffectDropShadow, OffsetX: 2, OffsetY: 4, Radius: 8, Spread: 1, Color: &scene.Color{A: 0.25}},
			{Kind: scene.EffectInnerShadow, OffsetY: 1, Radius: 2},
		},
	}
	applyEffects(rule, n)
	want := "2px 4px 8px 1px rgba(0, 0, 0, 0.25), inset 0px 1px 2px #000000"
	if v, _ := rule.Get("box-shadow"); v != want {
		t.Fatalf("box-shadow = %q, want %q", v, want)
	}
	if len(rule.Declarations) != 1 {
		t.Fatalf("shadows must merge into one declaration: %v", rule.Declarations)
	}
}

func TestEffectsSpreadOmittedWhenZero(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame,
		Effects: []scene.Effect{{Kind: scene.EffectDropShadow, OffsetX: 1, OffsetY: 1, Radius: 3, Color: &scene.Color{A: 1}}},
	}
	applyEffects(rule, n)
	if v, _ := rule.Get("box-shadow"); v != "1px 1px 3px #000000" {
		t.Fatalf("box-shadow = %q", v)
	}
}

func TestEffectsHiddenSkipped(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame,
		Effects: []scene.Effect{{Kind: scene.EffectDropShadow, Radius: 3, Visible: boolp(false)}},
	}
	applyEffects(rule, n)
	if !rule.Empty() {
		t.Fatalf("hidden effects must emit nothing: %v", rule.Declarations)
	}
}

func TestEffectsBlurs(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame,
		Effects: []scene.Effect{
			{Kind: scene.EffectLayerBlur, Radius: 4},
			{Kind: scene.EffectBackgroundBlur, Radius: 12.5},
		},
	}
	applyEffects(rule, n)
	if v, _ := rule.Get("filter"); v != "blur(4px)" {
		t.Errorf("filter = %q", v)
	}
	if v, _ := rule.Get("backdrop-filter"); v != "blur(12.5px)" {
		t.Errorf("backdrop-filter = %q", v)
	}
}

func TestEffectsFirstBlurWins(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindFrame,
		Effects: []scene.Effect{
			{Kind: scene.EffectLayerBlur, Radius: 4},
			{Kind: scene.EffectLayerBlur, Radius: 8},
		},
	}
	applyEffects(rule, n)
	if v, _ := rule.Get("filter"); v != "blur(4px)" {
		t.Errorf("filter = %q", v)
	}
	if len(rule.Declarations) != 1 {
		t.Fatalf("expected one filter declaration, got %v", rule.Declarations)
	}
}

func TestEffectsTextShadowsDeferred(t *testing.T) {
	rule := newTestRule()
	n := &scene.Node{
		ID: "n", Kind: scene.KindText,
		Effects: []scene.Effect{
			{Kind: scene.EffectDropShadow, OffsetY: 2, Radius: 4},
			{Kind: scene.EffectLayerBlur, Radius: 3},
		},
	}
	applyEffects(rule, n)
	if rule.Has("box-shadow") {
		t.Fatalf("text shadows belong to typography: %v", rule.Declarations)
	}
	// blurs still apply to text boxes
	if v, _ := rule.Get("filter"); v != "blur(3px)" {
		t.Errorf("filter = %q", v)
	}
}
