package glyphpath

import (
	"fmt"
	"sync"
	"unicode/utf8"
)

// GlyphIndex indexes a glyph inside a font program's glyph table.
// Index 0 is the notdef glyph; resolving to 0 is a valid, non-error result.
type GlyphIndex int

// OutlineSource is the decoding capability of a parsed outline font program.
// Implementations are externally owned; a source handed to a PathResolver
// must stay valid until the resolver is disposed. Package fontprog provides
// sources backed by real font-parsing libraries.
type OutlineSource interface {
	// UnitsPerEm reports the design units per em square from the font
	// header, or ok == false if the header is unavailable.
	UnitsPerEm() (upem int, ok bool)

	// GlyphCount returns the number of glyphs in the font's glyph table,
	// or 0 if the source cannot tell.
	GlyphCount() int

	// GlyphOutline decodes the outline for a glyph index, in font design
	// units. Glyphs without contours, and glyph indices the source cannot
	// locate, yield an empty outline and a nil error. A non-nil error
	// signals a structural fault in the font program.
	GlyphOutline(gid GlyphIndex) (Outline, error)
}

// CodeTable maps content-stream character codes to glyph indices. It stands
// for a simple font's own code-to-glyph capability (cmap-equivalent).
type CodeTable interface {
	GlyphIndexForCode(code int) GlyphIndex
}

// CodeMap is a code-to-character-identifier lookup with a fixed byte-width
// convention, as carried by composite fonts. Package codemap implements it.
type CodeMap interface {
	// Lookup resolves a code read with the given byte width (1 or 2) to an
	// identifier string whose first code point is the identifier value.
	Lookup(code int, byteWidth int) (string, bool)

	// HasTwoByteCodes reports whether the map uses two-byte code sequences.
	HasTwoByteCodes() bool
}

// CIDToGID maps character identifiers to glyph indices (the explicit
// CID-to-GID table of a composite font).
type CIDToGID interface {
	// GlyphIndex returns the glyph index for a CID, or ok == false when the
	// table has no entry for it.
	GlyphIndex(cid int) (gid GlyphIndex, ok bool)
}

// FontFault reports a structural fault in a font program: the one condition
// that surfaces as an error instead of degrading to an empty outline.
type FontFault struct {
	FontName string
	Cause    error
}

// Error implements the error interface.
func (f *FontFault) Error() string {
	if f.FontName == "" {
		return fmt.Sprintf("font program fault: %v", f.Cause)
	}
	return fmt.Sprintf("font program fault in %s: %v", f.FontName, f.Cause)
}

// Unwrap returns the underlying decoder error.
func (f *FontFault) Unwrap() error { return f.Cause }

// PathResolver turns character codes into cached, normalized glyph outlines
// for one font instance. It is constructed once per font used during a
// rendering session and discarded together with Dispose when the session is
// done with the font.
//
// All configuration is immutable after construction; the outline cache is
// internally synchronized, so concurrent calls from multiple goroutines are
// safe. Duplicate concurrent decodes of the same glyph may happen, but only
// one decoded outline per glyph index is ever retained.
type PathResolver struct {
	name       string
	src        OutlineSource
	scale      float64
	hasScaling bool

	cidKeyed    bool
	identityCID bool
	cidToGID    CIDToGID
	codeMap     CodeMap
	codes       CodeTable

	mu       sync.RWMutex
	outlines map[GlyphIndex]Outline
	disposed bool
}

// Option configures a PathResolver at construction time.
type Option func(*PathResolver)

// WithFontName sets the base font name used in diagnostics.
func WithFontName(name string) Option {
	return func(r *PathResolver) { r.name = name }
}

// WithIdentityCIDMapping declares CID == GID for a CID-keyed resolver.
// It takes precedence over any explicit table or code map.
func WithIdentityCIDMapping() Option {
	return func(r *PathResolver) { r.identityCID = true }
}

// WithCIDToGIDTable installs an explicit CID-to-GID table.
func WithCIDToGIDTable(t CIDToGID) Option {
	return func(r *PathResolver) { r.cidToGID = t }
}

// WithCodeMap installs the font's optional character map. For CID-keyed
// resolvers it is the third resolution strategy; for simple resolvers it
// backs the second-chance retry for codes the code table cannot map.
func WithCodeMap(cm CodeMap) Option {
	return func(r *PathResolver) { r.codeMap = cm }
}

// NewSimpleResolver creates a resolver for a simple outline font, whose
// character codes map to glyph indices directly through the font's own code
// table. The source and table must outlive the resolver.
func NewSimpleResolver(src OutlineSource, codes CodeTable, opts ...Option) *PathResolver {
	r := newResolver(src, opts)
	r.codes = codes
	return r
}

// NewCIDKeyedResolver creates a resolver for a composite (CID-keyed) font.
// Codes passed to it are CIDs; the composite font's encoding has already
// mapped content-stream codes upstream. Configure the CID-to-GID strategy
// with WithIdentityCIDMapping, WithCIDToGIDTable and/or WithCodeMap.
func NewCIDKeyedResolver(src OutlineSource, opts ...Option) *PathResolver {
	r := newResolver(src, opts)
	r.cidKeyed = true
	return r
}

func newResolver(src OutlineSource, opts []Option) *PathResolver {
	r := &PathResolver{
		src:      src,
		scale:    1.0,
		outlines: make(map[GlyphIndex]Outline),
	}
	// In most cases the scaling factor stays 1.0, with units per em set
	// to 1000. An unavailable font header falls back to no scaling.
	if upem, ok := src.UnitsPerEm(); ok && upem > 0 && upem != 1000 {
		r.scale = 1000.0 / float64(upem)
		r.hasScaling = true
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScaleFactor returns the normalization factor applied to decoded outlines
// (1.0 unless the font's units per em differ from 1000).
func (r *PathResolver) ScaleFactor() float64 { return r.scale }

// GlyphIndexForCharacterCode maps a character code (a CID for CID-keyed
// resolvers) to a glyph index. It never fails; unmappable codes resolve
// to 0 or fall through to the code value itself, per the strategy chain.
func (r *PathResolver) GlyphIndexForCharacterCode(code int) GlyphIndex {
	r.checkDisposed()
	if r.cidKeyed {
		return r.cidGlyphIndex(code)
	}
	if r.codes != nil {
		return r.codes.GlyphIndexForCode(code)
	}
	return GlyphIndex(code)
}

// cidGlyphIndex resolves a CID to a GID. Strategy priority: identity
// mapping, explicit CID-to-GID table, code map, CID-as-GID fallback.
func (r *PathResolver) cidGlyphIndex(cid int) GlyphIndex {
	if r.identityCID {
		return GlyphIndex(cid)
	}
	if r.cidToGID != nil {
		gid, ok := r.cidToGID.GlyphIndex(cid)
		if !ok {
			// No table entry: resolve to notdef rather than failing.
			tracer().Debugf("%s: CID-to-GID table has no entry for CID %d", r.name, cid)
			return 0
		}
		return gid
	}
	if gid, ok := r.codeMapGlyphIndex(cid); ok {
		return gid
	}
	return GlyphIndex(cid)
}

// codeMapGlyphIndex looks a raw code up in the optional code map and
// interprets the identifier's first code point as a glyph index.
func (r *PathResolver) codeMapGlyphIndex(code int) (GlyphIndex, bool) {
	if r.codeMap == nil {
		return 0, false
	}
	width := 1
	if r.codeMap.HasTwoByteCodes() {
		width = 2
	}
	s, ok := r.codeMap.Lookup(code, width)
	if !ok || s == "" {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s)
	return GlyphIndex(c), true
}

// PathForCharacterCode resolves a character code to its glyph outline.
// If the primary strategy yields the notdef index and a code map is
// present, the raw code is retried against the code map; some malformed
// composite fonts expose only that partial mapping chain, and the retry
// recovers otherwise unrenderable glyphs.
//
// The returned outline is an independent copy; callers may transform it
// freely. A non-nil error is always a *FontFault.
func (r *PathResolver) PathForCharacterCode(code int) (Outline, error) {
	gid := r.GlyphIndexForCharacterCode(code)
	if gid > 0 {
		return r.PathForGlyphIndex(gid)
	}
	gid = GlyphIndex(code)
	if second, ok := r.codeMapGlyphIndex(code); ok {
		gid = second
	}
	return r.PathForGlyphIndex(gid)
}

// PathForGlyphIndex returns the outline for a glyph index, decoding and
// caching it on first use. Glyph indices outside the font's glyph table and
// glyphs without contours yield an empty outline, not an error. A non-nil
// error is always a *FontFault and leaves the cache entry unresolved, so a
// later call may retry.
//
// Calling this after Dispose is a programming error and panics.
func (r *PathResolver) PathForGlyphIndex(gid GlyphIndex) (Outline, error) {
	r.mu.RLock()
	if r.disposed {
		r.mu.RUnlock()
		panic("glyphpath: use of disposed PathResolver")
	}
	cached, ok := r.outlines[gid]
	r.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	outline, err := r.loadOutline(gid)
	if err != nil {
		return Outline{}, err
	}

	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		panic("glyphpath: use of disposed PathResolver")
	}
	if prev, ok := r.outlines[gid]; ok {
		// A concurrent decode won the race; keep the retained value.
		outline = prev
	} else {
		r.outlines[gid] = outline
	}
	r.mu.Unlock()
	return outline.Clone(), nil
}

// loadOutline decodes one glyph outline and normalizes it to the
// 1000-units-per-em space.
func (r *PathResolver) loadOutline(gid GlyphIndex) (Outline, error) {
	if gid < 0 {
		tracer().Infof("%s: glyph not found: %d", r.name, gid)
		return Outline{}, nil
	}
	if count := r.src.GlyphCount(); count > 0 && int(gid) >= count {
		tracer().Infof("%s: glyph not found: %d", r.name, gid)
		return Outline{}, nil
	}
	outline, err := r.src.GlyphOutline(gid)
	if err != nil {
		tracer().Errorf("error in font program %s: %v", r.name, err)
		return Outline{}, &FontFault{FontName: r.name, Cause: err}
	}
	if r.hasScaling {
		outline.Scale(r.scale)
	}
	return outline, nil
}

// CachedGlyphCount returns the number of glyph outlines currently memoized.
func (r *PathResolver) CachedGlyphCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.outlines)
}

// Dispose releases the font program reference, the composite-font mapping
// state and the outline cache. The resolver must not be used afterwards;
// further calls panic. Callers are responsible for sequencing Dispose after
// all rendering with this font has completed.
func (r *PathResolver) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = true
	r.src = nil
	r.codes = nil
	r.codeMap = nil
	r.cidToGID = nil
	r.outlines = nil
}

func (r *PathResolver) checkDisposed() {
	r.mu.RLock()
	disposed := r.disposed
	r.mu.RUnlock()
	if disposed {
		panic("glyphpath: use of disposed PathResolver")
	}
}
