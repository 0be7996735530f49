package styles

import "dsc/scene"

// easingFunctions maps design tool easing names onto CSS timing functions.
// The back curves have no CSS keyword and use their canonical control points.
var easingFunctions = map[scene.Easing]string{
	scene.EaseLinear:    "linear",
	scene.EaseIn:        "ease-in",
	scene.EaseOut:       "ease-out",
	scene.EaseInOut:     "ease-in-out",
	scene.EaseInBack:    "cubic-bezier(0.6,-0.28,0.735,0.045)",
	scene.EaseOutBack:   "cubic-bezier(0.175,0.885,0.32,1.275)",
	scene.EaseInOutBack: "cubic-bezier(0.68,-0.55,0.265,1.55)",
}

// transitionProperties is the fixed property list every transition covers, so
// a variant switch animates position and size changes uniformly no matter
// which of them actually differ between variants.
const transitionProperties = "transform, width, height, left, top, right, bottom"

// transitionValue renders the transition declaration value. Instant and zero
// duration transitions produce nothing, an unknown easing degrades to "ease".
func transitionValue(t *scene.Transition) (string, bool) {
	if t == nil || t.Type == scene.TransitionInstant || t.Duration <= 0 {
		return "", false
	}
	easing, ok := easingFunctions[t.Easing]
	if !ok {
		easing = "ease"
	}
	return transitionProperties + " " + ms(t.Duration) + " " + easing, true
}
