package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/glyphpath"
	"github.com/npillmayer/glyphpath/fontprog"
	"github.com/thatisuday/commando"
	"golang.org/x/image/math/fixed"
)

func runShapeCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	text := strings.ReplaceAll(args["text"].Value, ",", " ")
	if text == "" {
		fatalf("input text is empty")
	}
	bytez, err := os.ReadFile(fontPath)
	if err != nil {
		fatalf("cannot read font %s: %v", fontPath, err)
	}
	prog, err := fontprog.ParseGoText(bytez)
	if err != nil {
		fatalf("cannot parse font %s: %v", fontPath, err)
	}
	resolver := glyphpath.NewCIDKeyedResolver(prog, glyphpath.WithIdentityCIDMapping())
	defer resolver.Dispose()

	upem, _ := prog.UnitsPerEm()
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      prog.Face(),
		Size:      fixed.I(upem),
	}
	output := (&shaping.HarfbuzzShaper{}).Shape(input)

	var sb strings.Builder
	for _, g := range output.Glyphs {
		if sb.Len() > 0 {
			sb.WriteString("|")
		}
		outline, err := resolver.PathForGlyphIndex(glyphpath.GlyphIndex(g.GlyphID))
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Fprintf(&sb, "%d=%d+%d", g.GlyphID, g.ClusterIndex, g.XAdvance.Round())
		if !outline.Empty() {
			fmt.Fprintf(&sb, "/%d", len(outline.Segments))
		}
	}
	fmt.Println("[" + sb.String() + "]")
	fmt.Printf("total advance %.1f\n", float64(output.Advance)/64)
}
