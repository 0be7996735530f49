// Package styles turns a scene document into per-node style rules and shape
// path records. The conversion is a pure function of the node tree: repeated
// runs over the same document produce identical output.
package styles

import (
	"fmt"

	"go.uber.org/zap"

	"dsc/css"
	"dsc/scene"
)

// Generator drives the conversion pipeline over scene documents.
type Generator struct {
	log    *zap.Logger
	assets scene.SceneAssets
}

// NewGenerator creates a generator. The asset index is optional, image fills
// fall back to raw asset references when it is absent.
func NewGenerator(log *zap.Logger, assets scene.SceneAssets) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log.Named("styles"), assets: assets}
}

// Result is the complete conversion output: one rule per node in depth first
// document order plus the synthesized shape paths.
type Result struct {
	Sheet *css.Stylesheet
	Paths []PathRecord
}

// PathByID returns the path record of a node.
func (r *Result) PathByID(id string) (PathRecord, bool) {
	for _, p := range r.Paths {
		if p.NodeID == id {
			return p, true
		}
	}
	return PathRecord{}, false
}

// Convert walks the node forest and builds the stylesheet. Nodes without an
// id or with a duplicate id make the document unconvertible, an id is the
// sole key joining emitted rules back to their nodes.
func (g *Generator) Convert(doc *scene.Document) (*Result, error) {
	if err := validateIDs(doc); err != nil {
		return nil, err
	}
	res := &Result{Sheet: css.NewStylesheet()}
	for _, root := range doc.Roots {
		g.convertNode(res, root, nil, true)
	}
	return res, nil
}

// convertNode appends the node's declarations component by component. The
// component order is fixed: placement, box, backgrounds, borders, effects,
// typography. Within a rule declarations keep this insertion order.
func (g *Generator) convertNode(res *Result, n, parent *scene.Node, isRoot bool) {
	rule := res.Sheet.Rule(css.NodeSelector(n.ID))
	applyPosition(rule, n, parent, isRoot)
	applyLayout(rule, n)
	applyFills(rule, n, g.assets)
	applyStrokes(rule, n)
	applyEffects(rule, n)
	applyTypography(rule, n)
	if rec := pathFor(n, g.log); rec != nil {
		res.Paths = append(res.Paths, *rec)
	}
	for _, c := range n.Children {
		g.convertNode(res, c, n, false)
	}
}

func validateIDs(doc *scene.Document) error {
	seen := make(map[string]struct{}, doc.Count())
	var err error
	doc.Walk(func(n *scene.Node) bool {
		if n.ID == "" {
			err = fmt.Errorf("node %q has no id", n.Name)
			return false
		}
		if _, dup := seen[n.ID]; dup {
			err = fmt.Errorf("duplicate node id %q", n.ID)
			return false
		}
		seen[n.ID] = struct{}{}
		return true
	})
	return err
}
