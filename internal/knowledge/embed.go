// Package knowledge loads the language/framework/pattern/learned rule pools
// that the rest of the scanner consults. The pools ship embedded in the
// binary so a scan never depends on a writable install location.
package knowledge

import "embed"

// DataFS contains the four on-disk pools described in SPEC_FULL.md §6.3:
// languages/, frameworks/, patterns/, and learned/.
//
//go:embed all:data
var DataFS embed.FS
