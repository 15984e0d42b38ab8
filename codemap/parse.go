package codemap

import (
	"fmt"
	"io"
	"strconv"
)

// Parse reads an embedded CMap program and builds a Map from the operators
// the glyph resolution chain needs: codespace ranges, cidchar and cidrange
// sections, and the CMapName/WMode declarations. Everything else in the
// PostScript wrapper is skipped. Malformed sections are dropped with a
// trace note; only unreadable input fails.
//
// References:
//
//	https://adobe-type-tools.github.io/font-tech-notes/pdfs/5014.CIDFont_Spec.pdf
func Parse(r io.Reader) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read CMap data: %w", err)
	}
	m := NewMap()
	tz := tokenizer{data: data}
	for {
		tok, ok := tz.next()
		if !ok {
			return m, nil
		}
		switch {
		case tok.kind == tokOperator && tok.text == "begincodespacerange":
			parseCodespaces(&tz, m)
		case tok.kind == tokOperator && tok.text == "begincidchar":
			parseCIDChars(&tz, m)
		case tok.kind == tokOperator && tok.text == "begincidrange":
			parseCIDRanges(&tz, m)
		case tok.kind == tokName && tok.text == "CMapName":
			if t, ok := tz.next(); ok && t.kind == tokName {
				m.name = t.text
			}
		case tok.kind == tokName && tok.text == "WMode":
			if t, ok := tz.next(); ok && t.kind == tokNumber {
				m.wmode = t.number
			}
		}
	}
}

func parseCodespaces(tz *tokenizer, m *Map) {
	for {
		lo, ok := tz.next()
		if !ok || lo.isEnd("endcodespacerange") {
			return
		}
		hi, ok := tz.next()
		if !ok || hi.isEnd("endcodespacerange") {
			return
		}
		if lo.kind != tokHex || hi.kind != tokHex || lo.width != hi.width {
			tracer().Infof("CMap %s: skipping malformed codespace range", m.name)
			continue
		}
		m.AddCodespace(lo.number, hi.number, lo.width)
	}
}

func parseCIDChars(tz *tokenizer, m *Map) {
	for {
		code, ok := tz.next()
		if !ok || code.isEnd("endcidchar") {
			return
		}
		cid, ok := tz.next()
		if !ok || cid.isEnd("endcidchar") {
			return
		}
		if code.kind != tokHex || cid.kind != tokNumber {
			tracer().Infof("CMap %s: skipping malformed cidchar entry", m.name)
			continue
		}
		m.AddCID(code.number, code.width, cid.number)
	}
}

func parseCIDRanges(tz *tokenizer, m *Map) {
	for {
		lo, ok := tz.next()
		if !ok || lo.isEnd("endcidrange") {
			return
		}
		hi, ok := tz.next()
		if !ok || hi.isEnd("endcidrange") {
			return
		}
		cid, ok := tz.next()
		if !ok || cid.isEnd("endcidrange") {
			return
		}
		if lo.kind != tokHex || hi.kind != tokHex || cid.kind != tokNumber ||
			lo.width != hi.width || hi.number < lo.number {
			tracer().Infof("CMap %s: skipping malformed cidrange entry", m.name)
			continue
		}
		m.AddCIDRange(lo.number, hi.number, lo.width, cid.number)
	}
}

// --- Tokenizer --------------------------------------------------------

type tokenKind uint8

const (
	tokOperator tokenKind = iota // bare word, e.g. begincidrange, def
	tokName                      // /Name (leading slash stripped)
	tokNumber                    // integer literal
	tokHex                       // <hex string>, value and byte width decoded
)

type token struct {
	kind   tokenKind
	text   string
	number int
	width  int // byte width of a hex string
}

func (t token) isEnd(op string) bool {
	return t.kind == tokOperator && t.text == op
}

// tokenizer splits a CMap program into the token shapes above. PostScript
// constructs it does not understand (dictionaries, literal strings,
// procedures) come back as operator tokens and are skipped by the parser.
type tokenizer struct {
	data []byte
	pos  int
}

func (tz *tokenizer) next() (token, bool) {
	tz.skipSpace()
	if tz.pos >= len(tz.data) {
		return token{}, false
	}
	c := tz.data[tz.pos]
	switch {
	case c == '%':
		tz.skipComment()
		return tz.next()
	case c == '<':
		return tz.hexToken()
	case c == '/':
		tz.pos++
		return token{kind: tokName, text: tz.word()}, true
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		w := tz.word()
		if n, err := strconv.Atoi(w); err == nil {
			return token{kind: tokNumber, text: w, number: n}, true
		}
		return token{kind: tokOperator, text: w}, true
	default:
		w := tz.word()
		if w == "" { // lone delimiter, e.g. '>' or ']'
			tz.pos++
			return tz.next()
		}
		return token{kind: tokOperator, text: w}, true
	}
}

func (tz *tokenizer) hexToken() (token, bool) {
	tz.pos++ // consume '<'
	start := tz.pos
	for tz.pos < len(tz.data) && tz.data[tz.pos] != '>' {
		tz.pos++
	}
	digits := string(tz.data[start:tz.pos])
	if tz.pos < len(tz.data) {
		tz.pos++ // consume '>'
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return token{kind: tokOperator, text: "<" + digits + ">"}, true
	}
	return token{
		kind:   tokHex,
		text:   digits,
		number: int(v),
		width:  (len(digits) + 1) / 2,
	}, true
}

func (tz *tokenizer) word() string {
	start := tz.pos
	for tz.pos < len(tz.data) && !isDelimiter(tz.data[tz.pos]) {
		tz.pos++
	}
	return string(tz.data[start:tz.pos])
}

func (tz *tokenizer) skipSpace() {
	for tz.pos < len(tz.data) && isSpace(tz.data[tz.pos]) {
		tz.pos++
	}
}

func (tz *tokenizer) skipComment() {
	for tz.pos < len(tz.data) && tz.data[tz.pos] != '\n' {
		tz.pos++
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	if isSpace(c) {
		return true
	}
	switch c {
	case '<', '>', '/', '%', '[', ']', '(', ')', '{', '}':
		return true
	}
	return false
}
