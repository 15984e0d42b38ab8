/*
Package codemap carries the mapping state of composite (CID-keyed) fonts:
a character map relating codes to character identifiers (CIDs), and the
packed CID-to-glyph-index table some font dictionaries embed.

Both are consumed by the glyphpath resolver through small capability
interfaces; this package owns their concrete representations and the
parsing of their embedded forms.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package codemap

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphpath.codemap'
func tracer() tracing.Trace {
	return tracing.Select("glyphpath.codemap")
}
