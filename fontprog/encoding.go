package fontprog

import (
	"unicode/utf8"

	"github.com/npillmayer/glyphpath"
	"golang.org/x/text/encoding/charmap"
)

// RuneIndexer is the rune-based half of a font program's character map.
// Both SFNTProgram and GoTextProgram implement it.
type RuneIndexer interface {
	GlyphIndexForRune(r rune) glyphpath.GlyphIndex
}

// ByteEncodingTable maps single-byte character codes to glyph indices by
// decoding the code through a byte encoding (WinAnsi, MacRoman, …) and
// looking the resulting rune up in the font's character map. This is the
// code table of a simple font whose document declares a base encoding.
//
// It implements glyphpath.CodeTable.
type ByteEncodingTable struct {
	enc  *charmap.Charmap
	font RuneIndexer
}

// NewByteEncodingTable builds a code table over the given byte encoding.
// Use charmap.Windows1252 for WinAnsiEncoding and charmap.Macintosh for
// MacRomanEncoding.
func NewByteEncodingTable(enc *charmap.Charmap, font RuneIndexer) *ByteEncodingTable {
	return &ByteEncodingTable{enc: enc, font: font}
}

// GlyphIndexForCode maps a code in 0…255 to a glyph index. Codes outside
// the byte range and codes the encoding leaves undefined resolve to notdef.
func (t *ByteEncodingTable) GlyphIndexForCode(code int) glyphpath.GlyphIndex {
	if code < 0 || code > 0xFF {
		return 0
	}
	r := t.enc.DecodeByte(byte(code))
	if r == utf8.RuneError {
		return 0
	}
	return t.font.GlyphIndexForRune(r)
}

// UnicodeTable maps character codes to glyph indices by treating the code
// as a Unicode code point. This is the degenerate code table for fonts used
// without a declared base encoding.
//
// It implements glyphpath.CodeTable.
type UnicodeTable struct {
	font RuneIndexer
}

// NewUnicodeTable builds a code-point-as-rune code table.
func NewUnicodeTable(font RuneIndexer) *UnicodeTable {
	return &UnicodeTable{font: font}
}

// GlyphIndexForCode maps a code point to a glyph index.
func (t *UnicodeTable) GlyphIndexForCode(code int) glyphpath.GlyphIndex {
	if code < 0 || code > utf8.MaxRune {
		return 0
	}
	return t.font.GlyphIndexForRune(rune(code))
}
