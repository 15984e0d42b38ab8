/*
Package fontprog adapts real font-parsing libraries to the capabilities the
glyphpath resolver consumes: outline decoding (glyphpath.OutlineSource) and
code-to-glyph lookup for simple fonts (glyphpath.CodeTable).

Two backends are provided. SFNTProgram wraps golang.org/x/image/font/sfnt
and is the default choice; it knows the font's glyph count and serializes
access to the parser's shared working buffer. GoTextProgram wraps a
go-text/typesetting face, which is handy when the caller already holds one
for shaping.

Both backends emit outlines in font design units; normalization to the
1000-units-per-em space is the resolver's job.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontprog

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphpath.fontprog'
func tracer() tracing.Trace {
	return tracing.Select("glyphpath.fontprog")
}
