package fontprog

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/npillmayer/glyphpath"
)

// GoTextProgram is an outline source backed by a go-text/typesetting face.
// Useful when the caller already holds a face for shaping and wants glyph
// outlines from the same parse.
//
// The backing library does not expose the font's glyph count, so GlyphCount
// reports 0 (unknown) and out-of-range indices resolve as absent glyphs.
type GoTextProgram struct {
	face *font.Face
}

// NewGoText wraps an existing face. The face is borrowed, not owned; it
// must outlive the program.
func NewGoText(face *font.Face) *GoTextProgram {
	return &GoTextProgram{face: face}
}

// ParseGoText parses raw OpenType bytes (TTF or OTF) into an outline source.
func ParseGoText(data []byte) (*GoTextProgram, error) {
	ft, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot parse font program: %w", err)
	}
	return NewGoText(ft), nil
}

// Face exposes the wrapped face, e.g. for shaping.
func (p *GoTextProgram) Face() *font.Face { return p.face }

// UnitsPerEm reports the design units per em square.
func (p *GoTextProgram) UnitsPerEm() (int, bool) {
	upem := int(p.face.Upem())
	if upem <= 0 {
		return 0, false
	}
	return upem, true
}

// GlyphCount returns 0; the backing library does not expose a glyph count.
func (p *GoTextProgram) GlyphCount() int { return 0 }

// GlyphOutline decodes the outline for a glyph index, in font design units.
// Indices without outline data (absent, bitmap-only or SVG-only glyphs)
// yield an empty outline.
func (p *GoTextProgram) GlyphOutline(gid glyphpath.GlyphIndex) (glyphpath.Outline, error) {
	if gid < 0 {
		return glyphpath.Outline{}, nil
	}
	data := p.face.GlyphData(opentype.GID(gid))
	outline, ok := data.(font.GlyphOutline)
	if !ok {
		return glyphpath.Outline{}, nil
	}
	return outlineFromGoTextSegments(outline.Segments), nil
}

// GlyphIndexForRune maps a rune through the font's cmap table. Unmapped
// runes yield the notdef index.
func (p *GoTextProgram) GlyphIndexForRune(r rune) glyphpath.GlyphIndex {
	gid, ok := p.face.NominalGlyph(r)
	if !ok {
		return 0
	}
	return glyphpath.GlyphIndex(gid)
}

func outlineFromGoTextSegments(segs []opentype.Segment) glyphpath.Outline {
	var b pathBuilder
	for i := range segs {
		seg := &segs[i]
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			b.moveTo(pointFromSegment(seg.Args[0]))
		case opentype.SegmentOpLineTo:
			b.lineTo(pointFromSegment(seg.Args[0]))
		case opentype.SegmentOpQuadTo:
			b.quadTo(pointFromSegment(seg.Args[0]), pointFromSegment(seg.Args[1]))
		case opentype.SegmentOpCubeTo:
			b.cubeTo(pointFromSegment(seg.Args[0]), pointFromSegment(seg.Args[1]),
				pointFromSegment(seg.Args[2]))
		}
	}
	return b.done()
}

func pointFromSegment(p opentype.SegmentPoint) glyphpath.Point {
	return glyphpath.Point{X: float64(p.X), Y: float64(p.Y)}
}
