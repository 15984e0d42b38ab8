package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphpath"
	"github.com/npillmayer/glyphpath/codemap"
	"github.com/npillmayer/glyphpath/fontprog"
	"github.com/thatisuday/commando"
	"golang.org/x/text/encoding/charmap"
)

func main() {
	commando.
		SetExecutableName("glyph-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for resolving character codes to glyph outlines.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("outline").
		SetDescription("Resolve character codes to normalized glyph outlines and print them as SVG path data.").
		SetShortDescription("codes to outlines").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("codes...", "character codes (decimal or hex, e.g. 65 0x42 U+0043)", "").
		AddFlag("gid,g", "treat the numbers as glyph indices, skipping code resolution", commando.Bool, nil).
		AddFlag("cid,c", "treat the font as CID-keyed (identity mapping)", commando.Bool, nil).
		AddFlag("encoding,e", "simple-font encoding: unicode|winansi|macroman", commando.String, "unicode").
		AddFlag("cmap,m", "CMap program file for code lookup", commando.String, "-").
		AddFlag("cidtogid,t", "packed CID-to-GID table file", commando.String, "-").
		AddFlag("output,o", "write an SVG document instead of printing path data", commando.String, "-").
		SetAction(runOutlineCommand)

	commando.
		Register("shape").
		SetDescription("Shape text and resolve the outline of every shaped glyph.").
		SetShortDescription("shape text").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("text...", "text to shape (variadic argument parts joined by comma by commando)", "").
		SetAction(runShapeCommand)

	commando.
		Register("font").
		SetDescription("Print diagnostics for an OpenType font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "OpenType font file path", "").
		SetAction(runFontCommand)

	commando.Parse(nil)
}

// buildResolver assembles a resolver from the outline command's flags, the
// same way a renderer would from a PDF font dictionary.
func buildResolver(prog *fontprog.SFNTProgram, flags map[string]commando.FlagValue) *glyphpath.PathResolver {
	opts := []glyphpath.Option{glyphpath.WithFontName(prog.Name())}
	cmapfile := mustFlagString(flags["cmap"], "cmap")
	if cmapfile != "-" {
		f, err := os.Open(cmapfile)
		if err != nil {
			fatalf("cannot read CMap: %v", err)
		}
		defer f.Close()
		m, err := codemap.Parse(f)
		if err != nil {
			fatalf("cannot parse CMap: %v", err)
		}
		opts = append(opts, glyphpath.WithCodeMap(m))
	}
	if !mustFlagBool(flags["cid"], "cid") {
		codes := codeTable(mustFlagString(flags["encoding"], "encoding"), prog)
		return glyphpath.NewSimpleResolver(prog, codes, opts...)
	}
	c2gfile := mustFlagString(flags["cidtogid"], "cidtogid")
	if c2gfile != "-" {
		bytez, err := os.ReadFile(c2gfile)
		if err != nil {
			fatalf("cannot read CID-to-GID table: %v", err)
		}
		opts = append(opts, glyphpath.WithCIDToGIDTable(codemap.ParseCIDToGID(bytez)))
	} else if cmapfile == "-" {
		opts = append(opts, glyphpath.WithIdentityCIDMapping())
	}
	return glyphpath.NewCIDKeyedResolver(prog, opts...)
}

func codeTable(encoding string, font fontprog.RuneIndexer) glyphpath.CodeTable {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "unicode":
		return fontprog.NewUnicodeTable(font)
	case "winansi":
		return fontprog.NewByteEncodingTable(charmap.Windows1252, font)
	case "macroman":
		return fontprog.NewByteEncodingTable(charmap.Macintosh, font)
	}
	fatalf("unknown encoding %q (expected unicode|winansi|macroman)", encoding)
	return nil
}

func mustLoadFont(path string) *fontprog.SFNTProgram {
	prog, err := fontprog.LoadFont(path)
	if err != nil {
		fatalf("cannot load font %s: %v", path, err)
	}
	return prog
}

func parseCodeToken(token string) (int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, fmt.Errorf("empty code token")
	}
	if strings.HasPrefix(token, "U+") || strings.HasPrefix(token, "u+") {
		u, err := strconv.ParseUint(token[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
		}
		return int(u), nil
	}
	n, err := strconv.ParseInt(token, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid code %q: %w", token, err)
	}
	return int(n), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "glyph-tools: "+format+"\n", args...)
	os.Exit(1)
}
