/*
Package glyphpath resolves character codes, as they appear in the content
streams of page-description documents, into concrete vector glyph outlines.

Rendering text from a page description means translating an opaque integer
"character code" into the outline stored in an embedded font program. The
translation depends on the font's encoding model: a simple font maps codes to
glyph indices through the font program's own character map, while a
composite (CID-keyed) font interposes a character identifier (CID) and an
optional CID-to-glyph-index table. Partial or malformed fonts are common in
the wild, so the resolution chain is fallback-heavy by design: a missing
mapping degrades to a best-effort glyph index, never to a failed page.

The package does not parse font binaries itself. Outline decoding is the job
of an external font-parsing library, plugged in as an OutlineSource (package
fontprog provides implementations). glyphpath decides which glyph index a
code resolves to, normalizes outlines to a 1000-units-per-em design space,
and memoizes decoded outlines per glyph index, handing independent copies to
callers.

▪︎ A "character code" is the integer extracted from a text-showing operator.

▪︎ A "CID" (character identifier) is the intermediate identifier used by
composite fonts between character code and glyph index.

▪︎ A "GID" (glyph index) indexes the font program's internal glyph table.
Index 0 is the conventional notdef glyph and a valid resolution result.

# Status

Vertical writing metrics and font-wide substitution/fallback selection are
out of scope; so is rasterization.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphpath

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphpath'
func tracer() tracing.Trace {
	return tracing.Select("glyphpath")
}
