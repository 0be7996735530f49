package content

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"dsc/utils/debug"
)

// String returns a readable tree of the whole Content starting with the parsed
// scene document. It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	out := c.Doc.String()

	if len(c.Assets) > 0 {
		tw := debug.NewTreeWriter()

		tw.Line(0, "Assets index: %d", len(c.Assets))
		keys := slices.Collect(maps.Keys(c.Assets))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			sa := c.Assets[k]
			tw.Line(1, "Asset[%q] file[%q] mime[%q] size[%d] dim[%dx%d]", k, sa.Filename, sa.MimeType, len(sa.Data), sa.Dim.Width, sa.Dim.Height)
		}
		out += "\n" + tw.String()
	}

	return out
}
