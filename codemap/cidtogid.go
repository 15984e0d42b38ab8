package codemap

import (
	"encoding/binary"

	"github.com/npillmayer/glyphpath"
)

// CIDToGIDTable is the packed CID-to-glyph-index table a composite font
// dictionary may embed: an array of big-endian uint16 glyph indices, indexed
// by CID. It implements the glyphpath.CIDToGID capability.
type CIDToGIDTable struct {
	data []byte
}

// ParseCIDToGID wraps decoded table bytes. The slice is borrowed, not
// copied; it must not change while the table is in use.
func ParseCIDToGID(data []byte) *CIDToGIDTable {
	return &CIDToGIDTable{data: data}
}

// EntryCount returns the number of CIDs the table covers.
func (t *CIDToGIDTable) EntryCount() int {
	return len(t.data) / 2
}

// GlyphIndex returns the glyph index mapped to a CID, or ok == false when
// the table is too short to hold an entry for it.
func (t *CIDToGIDTable) GlyphIndex(cid int) (glyphpath.GlyphIndex, bool) {
	if cid < 0 || 2*cid+2 > len(t.data) {
		return 0, false
	}
	gid := binary.BigEndian.Uint16(t.data[2*cid:])
	return glyphpath.GlyphIndex(gid), true
}
