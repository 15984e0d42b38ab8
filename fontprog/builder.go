package fontprog

import "github.com/npillmayer/glyphpath"

// pathBuilder assembles a glyphpath.Outline from decoder segments. Font
// parsers emit contours without explicit close operators and with quadratic
// curves; the builder inserts a close before every new contour and at the
// end, lifts quads to cubics against the current point, and tracks that
// point across segments.
type pathBuilder struct {
	out     glyphpath.Outline
	cur     glyphpath.Point
	started bool
}

func (b *pathBuilder) moveTo(p glyphpath.Point) {
	if b.started {
		b.out.ClosePath()
	}
	b.out.MoveTo(p)
	b.cur = p
	b.started = true
}

func (b *pathBuilder) lineTo(p glyphpath.Point) {
	b.out.LineTo(p)
	b.cur = p
}

func (b *pathBuilder) quadTo(c, p glyphpath.Point) {
	b.out.QuadTo(b.cur, c, p)
	b.cur = p
}

func (b *pathBuilder) cubeTo(c1, c2, p glyphpath.Point) {
	b.out.CubeTo(c1, c2, p)
	b.cur = p
}

func (b *pathBuilder) done() glyphpath.Outline {
	if b.started {
		b.out.ClosePath()
	}
	return b.out
}
