package fontprog

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/npillmayer/glyphpath"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// SFNTProgram is an outline source backed by golang.org/x/image/font/sfnt.
// It decodes glyph outlines in font design units and reports units-per-em
// and glyph count from the font's header tables.
//
// The underlying sfnt working buffer is not safe for concurrent use; the
// program serializes access to it, so one SFNTProgram may feed concurrent
// resolver calls.
type SFNTProgram struct {
	name string
	font *sfnt.Font
	upem int

	mu  sync.Mutex // guards buf
	buf sfnt.Buffer
}

// NewSFNT wraps an already parsed sfnt font. The font is borrowed, not
// owned; it must outlive the program.
func NewSFNT(f *sfnt.Font) *SFNTProgram {
	p := &SFNTProgram{font: f}
	p.upem = int(f.UnitsPerEm())
	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFull); err == nil {
		p.name = name
	}
	return p
}

// ParseFont parses raw OpenType bytes (TTF or OTF) into an outline source.
//
// The input is expected to contain a complete single-font SFNT stream. It
// must not change while the program is in use.
func ParseFont(data []byte) (*SFNTProgram, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse font program: %w", err)
	}
	p := NewSFNT(f)
	tracer().Debugf("loaded and parsed SFNT %s", p.name)
	return p, nil
}

// LoadFont loads an OpenType font (TTF or OTF) from a file.
func LoadFont(fontfile string) (*SFNTProgram, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	return ParseFont(bytez)
}

// Name returns the font's full name from its name table, for diagnostics.
func (p *SFNTProgram) Name() string { return p.name }

// SFNT exposes the wrapped font for callers that need more than outline
// decoding (advances, metrics).
func (p *SFNTProgram) SFNT() *sfnt.Font { return p.font }

// UnitsPerEm reports the design units per em square from the head table.
func (p *SFNTProgram) UnitsPerEm() (int, bool) {
	if p.upem <= 0 {
		return 0, false
	}
	return p.upem, true
}

// GlyphCount returns the number of glyphs in the glyf table.
func (p *SFNTProgram) GlyphCount() int {
	return p.font.NumGlyphs()
}

// GlyphOutline decodes the outline for a glyph index, in font design units.
// Out-of-range indices and colored (bitmap) glyphs yield an empty outline;
// any other decode failure is a structural fault.
func (p *SFNTProgram) GlyphOutline(gid glyphpath.GlyphIndex) (glyphpath.Outline, error) {
	if gid < 0 || int(gid) >= p.font.NumGlyphs() {
		return glyphpath.Outline{}, nil
	}
	p.mu.Lock()
	// Loading at ppem == upem yields segment coordinates in font units
	// (as 26.6 fixed-point values).
	segs, err := p.font.LoadGlyph(&p.buf, sfnt.GlyphIndex(gid), fixed.I(p.upem), nil)
	if err != nil {
		p.mu.Unlock()
		if errors.Is(err, sfnt.ErrNotFound) {
			return glyphpath.Outline{}, nil
		}
		if errors.Is(err, sfnt.ErrColoredGlyph) {
			tracer().Infof("%s: glyph %d has no outline form", p.name, gid)
			return glyphpath.Outline{}, nil
		}
		return glyphpath.Outline{}, fmt.Errorf("cannot load glyph %d: %w", gid, err)
	}
	// sfnt.LoadGlyph results become invalid once the buffer is re-used.
	// Convert before releasing the lock.
	outline := outlineFromSFNTSegments(segs)
	p.mu.Unlock()
	return outline, nil
}

// GlyphIndexForRune maps a rune through the font's cmap table. Unmapped
// runes yield the notdef index.
func (p *SFNTProgram) GlyphIndexForRune(r rune) glyphpath.GlyphIndex {
	p.mu.Lock()
	defer p.mu.Unlock()
	gid, err := p.font.GlyphIndex(&p.buf, r)
	if err != nil {
		return 0
	}
	return glyphpath.GlyphIndex(gid)
}

func outlineFromSFNTSegments(segs sfnt.Segments) glyphpath.Outline {
	var b pathBuilder
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			b.moveTo(pointFrom26_6(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			b.lineTo(pointFrom26_6(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			b.quadTo(pointFrom26_6(seg.Args[0]), pointFrom26_6(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			b.cubeTo(pointFrom26_6(seg.Args[0]), pointFrom26_6(seg.Args[1]),
				pointFrom26_6(seg.Args[2]))
		}
	}
	return b.done()
}

// pointFrom26_6 converts a fixed-point segment coordinate to design space.
// sfnt emits segments with the y axis growing down; outlines use y up.
func pointFrom26_6(p fixed.Point26_6) glyphpath.Point {
	return glyphpath.Point{
		X: float64(p.X) / 64,
		Y: -float64(p.Y) / 64,
	}
}
