package glyphpath

import (
	"errors"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Doubles -----------------------------------------------------------

// stubSource is a scripted outline source standing in for a parsed font
// program.
type stubSource struct {
	upem     int
	upemOK   bool
	count    int
	outlines map[GlyphIndex]Outline
	fault    error

	mu      sync.Mutex
	decodes int
}

func (s *stubSource) UnitsPerEm() (int, bool) { return s.upem, s.upemOK }

func (s *stubSource) GlyphCount() int { return s.count }

func (s *stubSource) GlyphOutline(gid GlyphIndex) (Outline, error) {
	s.mu.Lock()
	s.decodes++
	s.mu.Unlock()
	if s.fault != nil {
		return Outline{}, s.fault
	}
	o, ok := s.outlines[gid]
	if !ok {
		return Outline{}, nil
	}
	return o.Clone(), nil
}

func (s *stubSource) decodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decodes
}

// stubCodeTable is a scripted simple-font code table.
type stubCodeTable map[int]GlyphIndex

func (t stubCodeTable) GlyphIndexForCode(code int) GlyphIndex { return t[code] }

// stubCodeMap is a scripted character map with a fixed byte width.
type stubCodeMap struct {
	twoByte  bool
	mappings map[int]string
}

func (m *stubCodeMap) Lookup(code int, byteWidth int) (string, bool) {
	want := 1
	if m.twoByte {
		want = 2
	}
	if byteWidth != want {
		return "", false
	}
	s, ok := m.mappings[code]
	return s, ok
}

func (m *stubCodeMap) HasTwoByteCodes() bool { return m.twoByte }

// stubCIDToGID is a scripted explicit CID-to-GID table.
type stubCIDToGID map[int]GlyphIndex

func (t stubCIDToGID) GlyphIndex(cid int) (GlyphIndex, bool) {
	gid, ok := t[cid]
	return gid, ok
}

func strokeOutline(x, y float64) Outline {
	var o Outline
	o.MoveTo(Point{X: x, Y: y})
	o.LineTo(Point{X: x + 10, Y: y + 10})
	o.ClosePath()
	return o
}

// --- Test Suite Preparation -------------------------------------------------

type ResolverTestEnviron struct {
	suite.Suite
}

// listen for 'go test' command --> run test methods
func TestResolverFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath")
	defer teardown()
	suite.Run(t, new(ResolverTestEnviron))
}

// --- Tests ------------------------------------------------------------------

func (env *ResolverTestEnviron) TestIdentityCIDMapping() {
	src := &stubSource{upem: 1000, upemOK: true, count: 100}
	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping())
	defer r.Dispose()
	for _, cid := range []int{0, 1, 42, 99} {
		env.Equal(GlyphIndex(cid), r.GlyphIndexForCharacterCode(cid),
			"identity mapping must hand the CID through unchanged")
	}
}

func (env *ResolverTestEnviron) TestExplicitCIDToGIDTable() {
	src := &stubSource{upem: 1000, upemOK: true, count: 100}
	table := stubCIDToGID{5: 12, 7: 9}
	r := NewCIDKeyedResolver(src, WithCIDToGIDTable(table))
	defer r.Dispose()

	env.Equal(GlyphIndex(12), r.GlyphIndexForCharacterCode(5))
	env.Equal(GlyphIndex(9), r.GlyphIndexForCharacterCode(7))

	// Absent entry resolves to notdef, and the path call stays non-fatal.
	env.Equal(GlyphIndex(0), r.GlyphIndexForCharacterCode(99))
	outline, err := r.PathForCharacterCode(99)
	env.Require().NoError(err)
	env.True(outline.Empty())
}

func (env *ResolverTestEnviron) TestCodeMapStrategy() {
	src := &stubSource{upem: 1000, upemOK: true, count: 100}
	cm := &stubCodeMap{twoByte: true, mappings: map[int]string{3: "A"}}
	r := NewCIDKeyedResolver(src, WithCodeMap(cm))
	defer r.Dispose()
	env.Equal(GlyphIndex(65), r.GlyphIndexForCharacterCode(3),
		"expected the identifier's first code point as GID")
}

func (env *ResolverTestEnviron) TestCIDAsGIDFallback() {
	src := &stubSource{upem: 1000, upemOK: true, count: 100}
	r := NewCIDKeyedResolver(src)
	defer r.Dispose()
	env.Equal(GlyphIndex(77), r.GlyphIndexForCharacterCode(77),
		"without mapping information the CID is the GID")
}

func (env *ResolverTestEnviron) TestSimpleFontSecondChanceRetry() {
	src := &stubSource{
		upem: 1000, upemOK: true, count: 100,
		outlines: map[GlyphIndex]Outline{65: strokeOutline(100, 100)},
	}
	codes := stubCodeTable{} // maps every code to 0
	cm := &stubCodeMap{mappings: map[int]string{7: "A"}}
	r := NewSimpleResolver(src, codes, WithCodeMap(cm))
	defer r.Dispose()

	outline, err := r.PathForCharacterCode(7)
	env.Require().NoError(err)
	env.False(outline.Empty(), "retry through the code map must recover glyph 65")
	env.Equal(strokeOutline(100, 100), outline)
}

func (env *ResolverTestEnviron) TestScalingAppliedOnce() {
	src := &stubSource{
		upem: 2048, upemOK: true, count: 100,
		outlines: map[GlyphIndex]Outline{},
	}
	var o Outline
	o.MoveTo(Point{X: 2048, Y: 0})
	src.outlines[4] = o

	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping())
	defer r.Dispose()
	env.InDelta(1000.0/2048.0, r.ScaleFactor(), 1e-12)

	outline, err := r.PathForGlyphIndex(4)
	env.Require().NoError(err)
	env.Require().Len(outline.Segments, 1)
	env.InDelta(1000.0, outline.Segments[0].Args[0].X, 1e-9)
	env.InDelta(0.0, outline.Segments[0].Args[0].Y, 1e-9)

	// A second resolution must serve the already scaled cache entry.
	again, err := r.PathForGlyphIndex(4)
	env.Require().NoError(err)
	env.InDelta(1000.0, again.Segments[0].Args[0].X, 1e-9)
	env.Equal(1, src.decodeCount(), "glyph must be decoded exactly once")
}

func (env *ResolverTestEnviron) TestNoScalingAtThousandUnits() {
	src := &stubSource{
		upem: 1000, upemOK: true, count: 100,
		outlines: map[GlyphIndex]Outline{4: strokeOutline(2048, 0)},
	}
	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping())
	defer r.Dispose()
	env.Equal(1.0, r.ScaleFactor())

	outline, err := r.PathForGlyphIndex(4)
	env.Require().NoError(err)
	env.Equal(2048.0, outline.Segments[0].Args[0].X)
}

func (env *ResolverTestEnviron) TestMissingHeaderDefaultsToNoScaling() {
	src := &stubSource{count: 10}
	r := NewCIDKeyedResolver(src)
	defer r.Dispose()
	env.Equal(1.0, r.ScaleFactor())
}

func (env *ResolverTestEnviron) TestCallersGetIndependentCopies() {
	src := &stubSource{
		upem: 1000, upemOK: true, count: 100,
		outlines: map[GlyphIndex]Outline{8: strokeOutline(10, 20)},
	}
	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping())
	defer r.Dispose()

	first, err := r.PathForGlyphIndex(8)
	env.Require().NoError(err)
	second, err := r.PathForGlyphIndex(8)
	env.Require().NoError(err)
	env.Equal(first, second, "repeated resolution must be content-equal")

	// Mutating one caller's copy must leave the cache untouched.
	first.Translate(500, 500)
	third, err := r.PathForGlyphIndex(8)
	env.Require().NoError(err)
	env.Equal(second, third)
	env.NotEqual(first, third)
}

func (env *ResolverTestEnviron) TestOutOfRangeGlyphIndex() {
	src := &stubSource{upem: 1000, upemOK: true, count: 10}
	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping())
	defer r.Dispose()

	outline, err := r.PathForGlyphIndex(99)
	env.Require().NoError(err, "out-of-range indices must not be fatal")
	env.True(outline.Empty())
	env.Equal(0, src.decodeCount(), "decoder must not be asked for out-of-range indices")
	env.Equal(1, r.CachedGlyphCount(), "the empty outline is cached")
}

func (env *ResolverTestEnviron) TestContourlessGlyph() {
	src := &stubSource{upem: 1000, upemOK: true, count: 10}
	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping())
	defer r.Dispose()

	outline, err := r.PathForGlyphIndex(3) // e.g. space
	env.Require().NoError(err)
	env.True(outline.Empty())
	env.Equal(1, r.CachedGlyphCount())
}

func (env *ResolverTestEnviron) TestStructuralFaultSurfacesAndAllowsRetry() {
	src := &stubSource{
		upem: 1000, upemOK: true, count: 10,
		outlines: map[GlyphIndex]Outline{2: strokeOutline(0, 0)},
		fault:    errors.New("glyf table truncated"),
	}
	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping(), WithFontName("BrokenSans"))
	defer r.Dispose()

	_, err := r.PathForGlyphIndex(2)
	env.Require().Error(err)
	var fault *FontFault
	env.Require().True(errors.As(err, &fault))
	env.Equal("BrokenSans", fault.FontName)
	env.Equal(0, r.CachedGlyphCount(), "a fault must not poison the cache")

	// The fault was transient; the next attempt must succeed.
	src.fault = nil
	outline, err := r.PathForGlyphIndex(2)
	env.Require().NoError(err)
	env.False(outline.Empty())
}

func (env *ResolverTestEnviron) TestDispose() {
	src := &stubSource{
		upem: 1000, upemOK: true, count: 10,
		outlines: map[GlyphIndex]Outline{2: strokeOutline(0, 0)},
	}
	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping())
	_, err := r.PathForGlyphIndex(2)
	env.Require().NoError(err)
	env.Equal(1, r.CachedGlyphCount())

	r.Dispose()
	env.Equal(0, r.CachedGlyphCount())
	env.Panics(func() { _, _ = r.PathForGlyphIndex(2) })
	env.Panics(func() { _ = r.GlyphIndexForCharacterCode(2) })
}

func (env *ResolverTestEnviron) TestConcurrentResolution() {
	outlines := make(map[GlyphIndex]Outline)
	for gid := GlyphIndex(1); gid < 20; gid++ {
		outlines[gid] = strokeOutline(float64(gid), 0)
	}
	src := &stubSource{upem: 2048, upemOK: true, count: 20, outlines: outlines}
	r := NewCIDKeyedResolver(src, WithIdentityCIDMapping())
	defer r.Dispose()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rep := 0; rep < 50; rep++ {
				for gid := GlyphIndex(1); gid < 20; gid++ {
					outline, err := r.PathForGlyphIndex(gid)
					if err != nil || outline.Empty() {
						env.T().Errorf("glyph %d: unexpected result", gid)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	env.Equal(19, r.CachedGlyphCount())
}
