package scene

import "go.uber.org/zap"

// Normalization wires up relations the serialized form does not carry.

// Normalize prepares a parsed document for conversion: every node gets its
// parent pointer, variants nested under a variant group inherit the group
// membership their serialization omitted, and every variant group ends up
// with exactly one default variant. Returns the total node count.
func (d *Document) Normalize(log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}
	if d.Assets == nil {
		d.Assets = make(map[string]*Asset)
	}

	var count int
	var wire func(n, parent *Node)
	wire = func(n, parent *Node) {
		count++
		n.parent = parent

		if n.Kind == KindVariant && len(n.GroupID) == 0 && parent != nil && parent.Kind == KindVariantGroup {
			n.GroupID = parent.ID
		}
		if n.Kind == KindVariantGroup {
			n.normalizeVariants(log)
		}
		for _, c := range n.Children {
			wire(c, n)
		}
	}
	for _, root := range d.Roots {
		wire(root, nil)
	}
	return count
}

// normalizeVariants makes sure a variant group has exactly one default
// variant: when none is marked the first one wins, when several are marked
// all but the first are cleared.
func (n *Node) normalizeVariants(log *zap.Logger) {
	var first, def *Node
	for _, c := range n.Children {
		if c.Kind != KindVariant {
			continue
		}
		if first == nil {
			first = c
		}
		if !c.Default {
			continue
		}
		if def != nil {
			log.Debug("Multiple default variants in group, keeping first",
				zap.String("group", n.ID), zap.String("id", c.ID))
			c.Default = false
			continue
		}
		def = c
	}
	if def == nil && first != nil {
		log.Debug("Variant group without default variant, using first",
			zap.String("group", n.ID), zap.String("id", first.ID))
		first.Default = true
	}
}
