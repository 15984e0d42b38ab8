package main

import (
	"fmt"
	"strings"

	"github.com/thatisuday/commando"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	prog := mustLoadFont(fontPath)

	upem, ok := prog.UnitsPerEm()
	fmt.Printf("Path: %s\n", fontPath)
	fmt.Printf("Name: %s\n", prog.Name())
	if ok {
		fmt.Printf("UnitsPerEm: %d\n", upem)
	} else {
		fmt.Println("UnitsPerEm: unavailable")
	}
	fmt.Printf("Glyphs: %d\n", prog.GlyphCount())
	if ok && upem != 1000 {
		fmt.Printf("TextSpaceScale: %g\n", 1000.0/float64(upem))
	} else {
		fmt.Println("TextSpaceScale: 1")
	}
}
