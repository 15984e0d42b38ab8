package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/glyphpath"
	"github.com/thatisuday/commando"
)

func runOutlineCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	prog := mustLoadFont(fontPath)
	resolver := buildResolver(prog, flags)
	defer resolver.Dispose()

	tokens := splitCSVSpace(args["codes"].Value)
	if len(tokens) == 0 {
		fatalf("at least one character code is required")
	}
	asGID := mustFlagBool(flags["gid"], "gid")

	outlines := make([]glyphpath.Outline, 0, len(tokens))
	labels := make([]string, 0, len(tokens))
	for _, token := range tokens {
		code, err := parseCodeToken(token)
		if err != nil {
			fatalf("%v", err)
		}
		var outline glyphpath.Outline
		if asGID {
			outline, err = resolver.PathForGlyphIndex(glyphpath.GlyphIndex(code))
		} else {
			outline, err = resolver.PathForCharacterCode(code)
		}
		if err != nil {
			fatalf("%v", err)
		}
		outlines = append(outlines, outline)
		labels = append(labels, token)
	}

	outPath := mustFlagString(flags["output"], "output")
	if outPath != "-" {
		if err := writeSVG(outPath, outlines); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("wrote %s (paths=%d)\n", outPath, len(outlines))
		return
	}
	for i, outline := range outlines {
		if outline.Empty() {
			fmt.Printf("%s: (empty path)\n", labels[i])
			continue
		}
		fmt.Printf("%s: %s\n", labels[i], svgPathData(outline))
	}
}

// svgPathData serializes an outline as SVG path data. Outline coordinates
// have y growing up; documents embedding the data flip it with a transform.
func svgPathData(outline glyphpath.Outline) string {
	var sb strings.Builder
	for _, seg := range outline.Segments {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch seg.Op {
		case glyphpath.SegmentMoveTo:
			fmt.Fprintf(&sb, "M %.1f %.1f", seg.Args[0].X, seg.Args[0].Y)
		case glyphpath.SegmentLineTo:
			fmt.Fprintf(&sb, "L %.1f %.1f", seg.Args[0].X, seg.Args[0].Y)
		case glyphpath.SegmentCubeTo:
			fmt.Fprintf(&sb, "C %.1f %.1f %.1f %.1f %.1f %.1f",
				seg.Args[0].X, seg.Args[0].Y,
				seg.Args[1].X, seg.Args[1].Y,
				seg.Args[2].X, seg.Args[2].Y)
		case glyphpath.SegmentClose:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

// writeSVG emits a minimal SVG document with one path per outline, advanced
// by the text-space em width, flipped into SVG's y-down coordinates.
func writeSVG(outPath string, outlines []glyphpath.Outline) error {
	const em = 1000.0
	var sb strings.Builder
	width := em * float64(len(outlines))
	fmt.Fprintf(&sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 %.0f %.0f %.0f\">\n",
		-em, width, 1.5*em)
	for i, outline := range outlines {
		if outline.Empty() {
			continue
		}
		fmt.Fprintf(&sb, "  <path transform=\"translate(%.0f, 0) scale(1, -1)\" d=\"%s\"/>\n",
			em*float64(i), svgPathData(outline))
	}
	sb.WriteString("</svg>\n")

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	return os.WriteFile(outPath, []byte(sb.String()), 0o644)
}
