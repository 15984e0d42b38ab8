package codemap

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestLookupSeparatesByteWidths(t *testing.T) {
	m := NewMap()
	m.AddCID(0x41, 1, 100)
	m.AddCID(0x41, 2, 200)

	if s, ok := m.Lookup(0x41, 1); !ok || s != string(rune(100)) {
		t.Errorf("one-byte lookup = (%q, %v), expected CID 100", s, ok)
	}
	if s, ok := m.Lookup(0x41, 2); !ok || s != string(rune(200)) {
		t.Errorf("two-byte lookup = (%q, %v), expected CID 200", s, ok)
	}
	if _, ok := m.Lookup(0x42, 1); ok {
		t.Errorf("unmapped code must not resolve")
	}
}

func TestLookupRanges(t *testing.T) {
	m := NewMap()
	m.AddCIDRange(0x20, 0x7E, 2, 1)
	for _, c := range []struct{ code, cid int }{
		{0x20, 1}, {0x21, 2}, {0x7E, 95},
	} {
		s, ok := m.Lookup(c.code, 2)
		if !ok {
			t.Fatalf("code %#x: no mapping", c.code)
		}
		if got := []rune(s)[0]; int(got) != c.cid {
			t.Errorf("code %#x resolved to CID %d, expected %d", c.code, got, c.cid)
		}
	}
	if _, ok := m.Lookup(0x7F, 2); ok {
		t.Errorf("code outside the range must not resolve")
	}
}

func TestHasTwoByteCodes(t *testing.T) {
	m := NewMap()
	if m.HasTwoByteCodes() {
		t.Errorf("empty map must not report two-byte codes")
	}
	m.AddCID(0x41, 1, 7)
	if m.HasTwoByteCodes() {
		t.Errorf("one-byte mappings must not report two-byte codes")
	}
	m.AddCodespace(0x0000, 0xFFFF, 2)
	if !m.HasTwoByteCodes() {
		t.Errorf("a two-byte codespace must report two-byte codes")
	}
}

func TestCIDToGIDTable(t *testing.T) {
	// packed big-endian uint16 entries for CIDs 0..7, with 5->12 and 7->9
	data := make([]byte, 16)
	data[2*5+1] = 12
	data[2*7+1] = 9
	table := ParseCIDToGID(data)

	if table.EntryCount() != 8 {
		t.Errorf("entry count = %d, expected 8", table.EntryCount())
	}
	if gid, ok := table.GlyphIndex(5); !ok || gid != 12 {
		t.Errorf("CID 5 = (%d, %v), expected glyph 12", gid, ok)
	}
	if gid, ok := table.GlyphIndex(7); !ok || gid != 9 {
		t.Errorf("CID 7 = (%d, %v), expected glyph 9", gid, ok)
	}
	if gid, ok := table.GlyphIndex(3); !ok || gid != 0 {
		t.Errorf("CID 3 = (%d, %v), expected notdef", gid, ok)
	}
	if _, ok := table.GlyphIndex(8); ok {
		t.Errorf("CID past the table end must not resolve")
	}
	if _, ok := table.GlyphIndex(-1); ok {
		t.Errorf("negative CID must not resolve")
	}
}

const testCMap = `%!PS-Adobe-3.0 Resource-CMap
/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo 3 dict dup begin
  /Registry (Adobe) def
  /Ordering (Japan1) def
  /Supplement 2 def
end def
/CMapName /Test-H def
/WMode 0 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 begincidchar
<0041> 65
<0042> 97
endcidchar
1 begincidrange
<0060> <0069> 300
endcidrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func TestParseCMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.codemap")
	defer teardown()

	m, err := Parse(strings.NewReader(testCMap))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.Name() != "Test-H" {
		t.Errorf("CMap name = %q, expected Test-H", m.Name())
	}
	if m.WMode() != 0 {
		t.Errorf("WMode = %d, expected 0", m.WMode())
	}
	if !m.HasTwoByteCodes() {
		t.Errorf("expected two-byte codes from the codespace range")
	}

	cases := []struct{ code, cid int }{
		{0x41, 65},
		{0x42, 97},
		{0x60, 300},
		{0x65, 305},
		{0x69, 309},
	}
	for _, c := range cases {
		s, ok := m.Lookup(c.code, 2)
		if !ok {
			t.Fatalf("code %#x: no mapping", c.code)
		}
		if got := []rune(s)[0]; int(got) != c.cid {
			t.Errorf("code %#x resolved to CID %d, expected %d", c.code, got, c.cid)
		}
	}
	if _, ok := m.Lookup(0x41, 1); ok {
		t.Errorf("two-byte mappings must not leak into one-byte lookups")
	}
}

func TestParseSkipsMalformedEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphpath.codemap")
	defer teardown()

	const damaged = `begincmap
2 begincidchar
<0041> 65
<00> notanumber
endcidchar
endcmap
`
	m, err := Parse(strings.NewReader(damaged))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s, ok := m.Lookup(0x41, 2); !ok || []rune(s)[0] != 65 {
		t.Errorf("well-formed entry was lost")
	}
}
