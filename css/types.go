// Package css holds the stylesheet model produced by the conversion engine
// and a small parser for user supplied extra stylesheets.
package css

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NodeSelector returns the attribute selector addressing a node by its
// identifier: [data-node-id="..."].
func NodeSelector(id string) string {
	return `[data-node-id="` + cssEscapeDoubleQuoted(id) + `"]`
}

// Declaration is a single property: value pair.
type Declaration struct {
	Property string
	Value    string
}

// Rule is one selector with its declarations. Declaration order is
// preserved exactly as added, it is part of the produced output.
type Rule struct {
	Selector string
	// Media, when set, wraps the rule in a @media block on output. Only
	// user supplied stylesheets carry media queries, generated rules never do.
	Media        string
	Declarations []Declaration
}

// NewRule returns an empty rule for the given selector.
func NewRule(selector string) *Rule {
	return &Rule{Selector: selector}
}

// Add appends a declaration, keeping any existing declaration for the same
// property untouched.
func (r *Rule) Add(property, value string) {
	r.Declarations = append(r.Declarations, Declaration{Property: property, Value: value})
}

// Set replaces the value of an existing declaration in place or appends a
// new one. Used where a later decision must override an earlier one without
// disturbing declaration order.
func (r *Rule) Set(property, value string) {
	for i := range r.Declarations {
		if r.Declarations[i].Property == property {
			r.Declarations[i].Value = value
			return
		}
	}
	r.Add(property, value)
}

// Get returns the value of the first declaration for the property.
func (r *Rule) Get(property string) (string, bool) {
	for i := range r.Declarations {
		if r.Declarations[i].Property == property {
			return r.Declarations[i].Value, true
		}
	}
	return "", false
}

// Has reports whether the rule already declares the property.
func (r *Rule) Has(property string) bool {
	_, ok := r.Get(property)
	return ok
}

// Empty reports whether the rule carries no declarations.
func (r *Rule) Empty() bool {
	return len(r.Declarations) == 0
}

// String returns the CSS text of the rule.
func (r *Rule) String() string {
	var sb strings.Builder
	r.write(&sb) //nolint:errcheck
	return sb.String()
}

func (r *Rule) write(w io.Writer) (int, error) {
	var total int
	indent := ""
	if r.Media != "" {
		n, err := fmt.Fprintf(w, "@media %s {\n", r.Media)
		total += n
		if err != nil {
			return total, err
		}
		indent = "  "
	}
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, r.Selector)
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range r.Declarations {
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, d.Property, d.Value)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	if err != nil {
		return total, err
	}
	if r.Media != "" {
		n, err = fmt.Fprint(w, "}\n")
		total += n
	}
	return total, err
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family string // font-family value
	Src    string // src value (URL or local reference)
	Style  string // font-style: normal, italic
	Weight string // font-weight: normal, bold, 400, 700
}

// Stylesheet is an ordered collection of rules. Rules keep the order they
// were inserted in: the engine appends one rule per node in traversal order
// and user stylesheet rules follow in source order.
type Stylesheet struct {
	Imports   []string
	FontFaces []FontFace
	Rules     []*Rule

	index map[string]*Rule
}

// NewStylesheet returns an empty stylesheet.
func NewStylesheet() *Stylesheet {
	return &Stylesheet{index: make(map[string]*Rule)}
}

// Rule returns the rule for the selector, creating and appending an empty
// one on first use. Selectors map to exactly one rule.
func (s *Stylesheet) Rule(selector string) *Rule {
	if s.index == nil {
		s.index = make(map[string]*Rule)
	}
	if r, ok := s.index[selector]; ok {
		return r
	}
	r := NewRule(selector)
	s.Rules = append(s.Rules, r)
	s.index[selector] = r
	return r
}

// Append adds externally built rules preserving their order. Appended rules
// are not merged with generated ones even when selectors collide.
func (s *Stylesheet) Append(rules ...*Rule) {
	s.Rules = append(s.Rules, rules...)
}

// Merge appends the imports, font faces, and rules of other, keeping their
// relative order. Rules are not folded into existing ones even when selectors
// collide, later rules win by the cascade.
func (s *Stylesheet) Merge(other *Stylesheet) {
	if other == nil {
		return
	}
	s.Imports = append(s.Imports, other.Imports...)
	s.FontFaces = append(s.FontFaces, other.FontFaces...)
	s.Append(other.Rules...)
}

// Len returns the number of rules.
func (s *Stylesheet) Len() int {
	return len(s.Rules)
}

// WriteTo writes the stylesheet to w, implementing io.WriterTo. Imports come
// first as CSS demands, then font faces, then rules in insertion order.
// Rules without declarations are skipped.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, imp := range s.Imports {
		n, err := fmt.Fprintf(w, "@import url(\"%s\");\n", cssEscapeDoubleQuoted(imp))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	if len(s.Imports) > 0 {
		n, err := fmt.Fprint(w, "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	for i := range s.FontFaces {
		n, err := writeFontFace(w, &s.FontFaces[i])
		total += int64(n)
		if err != nil {
			return total, err
		}
		n, err = fmt.Fprint(w, "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	first := true
	for _, r := range s.Rules {
		if r.Empty() {
			continue
		}
		if !first {
			n, err := fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		first = false
		n, err := r.write(w)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeFontFace writes an @font-face block to w.
func writeFontFace(w io.Writer, ff *FontFace) (int, error) {
	var total int
	n, err := fmt.Fprint(w, "@font-face {\n")
	total += n
	if err != nil {
		return total, err
	}

	// Write properties in a stable order
	if ff.Family != "" {
		n, err = fmt.Fprintf(w, "  font-family: \"%s\";\n", cssEscapeDoubleQuoted(ff.Family))
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Src != "" {
		n, err = fmt.Fprintf(w, "  src: %s;\n", ff.Src)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Style != "" {
		n, err = fmt.Fprintf(w, "  font-style: %s;\n", ff.Style)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Weight != "" {
		n, err = fmt.Fprintf(w, "  font-weight: %s;\n", ff.Weight)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// urlRewritePattern matches url() references in CSS values for RewriteURLs.
// Handles: url("path"), url('path'), url(path)
var urlRewritePattern = regexp.MustCompile(`url\s*\(\s*(?:["']([^"']*)["']|([^)"]*))\s*\)`)

// RewriteURLs walks all URL references in the stylesheet and applies fn to
// each. This covers @import URLs, @font-face src, and url() references in
// declaration values.
func (s *Stylesheet) RewriteURLs(fn func(originalURL string) string) {
	for i := range s.Imports {
		s.Imports[i] = fn(s.Imports[i])
	}
	for i := range s.FontFaces {
		s.FontFaces[i].Src = rewriteURLsInValue(s.FontFaces[i].Src, fn)
	}
	for _, r := range s.Rules {
		for i := range r.Declarations {
			if strings.Contains(r.Declarations[i].Value, "url(") {
				r.Declarations[i].Value = rewriteURLsInValue(r.Declarations[i].Value, fn)
			}
		}
	}
}

// rewriteURLsInValue replaces url() references in a CSS value string.
func rewriteURLsInValue(value string, fn func(string) string) string {
	return urlRewritePattern.ReplaceAllStringFunc(value, func(match string) string {
		sub := urlRewritePattern.FindStringSubmatch(match)
		if len(sub) < 3 {
			return match
		}
		// Group 1 is quoted URL, group 2 is unquoted URL
		originalURL := sub[1]
		if originalURL == "" {
			originalURL = sub[2]
		}
		originalURL = strings.TrimSpace(originalURL)
		newURL := fn(originalURL)
		return fmt.Sprintf("url(\"%s\")", cssEscapeDoubleQuoted(newURL))
	})
}
