// Enums here are shared between configuration and the command line surface, so
// they live in a separate package and neither side has to import the other.
package common

// Specification of requested output type.
// ENUM(css, bundle)
type OutputFmt int

func (o OutputFmt) Bundled() bool {
	return o == OutputFmtBundle
}

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtCss:
		return ".css"
	case OutputFmtBundle:
		return ".zip"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
