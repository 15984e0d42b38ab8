package glyphpath

import "fmt"

// SegmentOp is the operator of one outline path segment.
//
// Quadratic segments do not occur: outline sources lift quadratic Béziers to
// cubic ones while decoding, so that consumers only deal with a single curve
// order.
type SegmentOp uint8

const (
	SegmentMoveTo SegmentOp = iota // start a new contour; Args[0]
	SegmentLineTo                  // straight line; Args[0]
	SegmentCubeTo                  // cubic Bézier; Args[0], Args[1] control, Args[2] end
	SegmentClose                   // close the current contour; no args
)

// String returns a human-readable representation of the segment operator.
func (op SegmentOp) String() string {
	switch op {
	case SegmentMoveTo:
		return "MoveTo"
	case SegmentLineTo:
		return "LineTo"
	case SegmentCubeTo:
		return "CubeTo"
	case SegmentClose:
		return "Close"
	}
	return fmt.Sprintf("SegmentOp(%d)", op)
}

// argCount returns the number of points Args carries for this operator.
func (op SegmentOp) argCount() int {
	switch op {
	case SegmentMoveTo, SegmentLineTo:
		return 1
	case SegmentCubeTo:
		return 3
	}
	return 0
}

// Point is a coordinate in glyph design space. The Y axis increases up.
type Point struct {
	X, Y float64
}

// Segment is one path segment of a glyph outline.
type Segment struct {
	Op   SegmentOp
	Args [3]Point
}

// Points returns the effective slice of argument points for the segment's
// operator (between 0 and 3 points).
func (s *Segment) Points() []Point {
	return s.Args[:s.Op.argCount()]
}

// Outline is a resolution-independent vector path describing a glyph's
// contours. Coordinates are design units, normalized by the resolver to a
// 1000-units-per-em space.
//
// The zero value is the empty outline, used for glyphs without contours
// (space, control characters) and for unresolvable glyph indices.
type Outline struct {
	Segments []Segment
}

// Empty reports whether the outline has no segments, i.e. nothing to draw.
func (o *Outline) Empty() bool {
	return len(o.Segments) == 0
}

// Clone returns an independent deep copy. Mutating the copy does not affect
// the original (segments carry no shared references).
func (o *Outline) Clone() Outline {
	return Outline{Segments: append([]Segment(nil), o.Segments...)}
}

// MoveTo starts a new contour at p.
func (o *Outline) MoveTo(p Point) {
	o.Segments = append(o.Segments, Segment{Op: SegmentMoveTo, Args: [3]Point{p}})
}

// LineTo appends a straight line to p.
func (o *Outline) LineTo(p Point) {
	o.Segments = append(o.Segments, Segment{Op: SegmentLineTo, Args: [3]Point{p}})
}

// CubeTo appends a cubic Bézier with control points c1, c2 and end point p.
func (o *Outline) CubeTo(c1, c2, p Point) {
	o.Segments = append(o.Segments, Segment{Op: SegmentCubeTo, Args: [3]Point{c1, c2, p}})
}

// QuadTo appends a quadratic Bézier as its exact cubic equivalent.
// from is the current point, c the quadratic control point, p the end point.
func (o *Outline) QuadTo(from, c, p Point) {
	c1 := Point{
		X: from.X + 2.0/3.0*(c.X-from.X),
		Y: from.Y + 2.0/3.0*(c.Y-from.Y),
	}
	c2 := Point{
		X: p.X + 2.0/3.0*(c.X-p.X),
		Y: p.Y + 2.0/3.0*(c.Y-p.Y),
	}
	o.CubeTo(c1, c2, p)
}

// ClosePath closes the current contour.
func (o *Outline) ClosePath() {
	o.Segments = append(o.Segments, Segment{Op: SegmentClose})
}

// Scale multiplies every coordinate by f, in place.
func (o *Outline) Scale(f float64) {
	for i := range o.Segments {
		for j := range o.Segments[i].Args {
			o.Segments[i].Args[j].X *= f
			o.Segments[i].Args[j].Y *= f
		}
	}
}

// Translate shifts every coordinate by (dx, dy), in place.
func (o *Outline) Translate(dx, dy float64) {
	for i := range o.Segments {
		for j := range o.Segments[i].Args {
			o.Segments[i].Args[j].X += dx
			o.Segments[i].Args[j].Y += dy
		}
	}
}

// Bounds returns the bounding box over all segment points (curve control
// points included, so the box may overestimate the painted extent).
// For an empty outline ok is false and both points are zero.
func (o *Outline) Bounds() (min, max Point, ok bool) {
	for i := range o.Segments {
		for _, p := range o.Segments[i].Points() {
			if !ok {
				min, max = p, p
				ok = true
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	return min, max, ok
}
