package codemap

// Maximum number of bytes per code sequence we accept. CMaps may declare up
// to 4, but the glyph resolution chain only ever reads 1 or 2.
const maxCodeWidth = 2

// Map relates character codes to character identifiers (CIDs). Codes of
// different byte widths live in separate spaces: a one-byte code 0x41 and a
// two-byte code 0x0041 are distinct keys.
//
// A Map is built either programmatically (AddCodespace/AddCID/AddCIDRange)
// or by parsing an embedded CMap with Parse. It is not safe for concurrent
// mutation; once handed to a resolver it must be treated as immutable.
type Map struct {
	name  string
	wmode int

	// per-width single mappings, index 1 and 2
	singles [maxCodeWidth + 1]map[int]int
	ranges  []cidRange
	spaces  []codespace
}

type cidRange struct {
	width  int
	lo, hi int
	cid    int // CID of lo; codes map to consecutive CIDs
}

type codespace struct {
	width  int
	lo, hi int
}

// NewMap returns an empty code map.
func NewMap() *Map {
	return &Map{}
}

// Name returns the CMap name, if one was declared.
func (m *Map) Name() string { return m.name }

// WMode returns the declared writing mode (0 horizontal, 1 vertical).
func (m *Map) WMode() int { return m.wmode }

// AddCodespace declares a code space range for codes of the given byte
// width. Widths outside 1..2 are ignored.
func (m *Map) AddCodespace(lo, hi, width int) {
	if width < 1 || width > maxCodeWidth {
		return
	}
	m.spaces = append(m.spaces, codespace{width: width, lo: lo, hi: hi})
}

// AddCID maps a single code of the given byte width to a CID.
func (m *Map) AddCID(code, width, cid int) {
	if width < 1 || width > maxCodeWidth {
		return
	}
	if m.singles[width] == nil {
		m.singles[width] = make(map[int]int)
	}
	m.singles[width][code] = cid
}

// AddCIDRange maps the codes lo..hi (inclusive) of the given byte width to
// the consecutive CIDs starting at cid.
func (m *Map) AddCIDRange(lo, hi, width, cid int) {
	if width < 1 || width > maxCodeWidth || hi < lo {
		return
	}
	m.ranges = append(m.ranges, cidRange{width: width, lo: lo, hi: hi, cid: cid})
}

// Lookup resolves a code read with the given byte width to an identifier
// string whose first code point is the CID value. It implements the
// glyphpath.CodeMap capability.
func (m *Map) Lookup(code int, byteWidth int) (string, bool) {
	if byteWidth < 1 || byteWidth > maxCodeWidth {
		return "", false
	}
	if cid, ok := m.singles[byteWidth][code]; ok {
		return string(rune(cid)), true
	}
	for _, r := range m.ranges {
		if r.width == byteWidth && code >= r.lo && code <= r.hi {
			return string(rune(r.cid + (code - r.lo))), true
		}
	}
	return "", false
}

// HasTwoByteCodes reports whether the map carries any two-byte code
// sequences, either as declared code spaces or as mappings.
func (m *Map) HasTwoByteCodes() bool {
	if len(m.singles[2]) > 0 {
		return true
	}
	for _, r := range m.ranges {
		if r.width == 2 {
			return true
		}
	}
	for _, s := range m.spaces {
		if s.width == 2 {
			return true
		}
	}
	return false
}
