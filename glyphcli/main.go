package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/glyphpath"
	"github.com/npillmayer/glyphpath/codemap"
	"github.com/npillmayer/glyphpath/fontprog"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"
)

// tracer traces with key 'glyphpath'
func tracer() tracing.Trace {
	return tracing.Select("glyphpath")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":          "go",
		"trace.glyphpath":          "Info",
		"trace.glyphpath.codemap":  "Info",
		"trace.glyphpath.fontprog": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (TTF or OTF)")
	cidkeyed := flag.Bool("cid", false, "Treat the font as CID-keyed (identity mapping)")
	cmapfile := flag.String("cmap", "", "CMap program for code lookup")
	cid2gid := flag.String("cidtogid", "", "Packed CID-to-GID table file")
	encoding := flag.String("encoding", "unicode", "Simple-font encoding [unicode|winansi|macroman]")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the glyph path CLI")
	//
	// set up REPL
	repl, err := readline.New("glyph > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	if err := intp.buildResolver(*cidkeyed, *cmapfile, *cid2gid, *encoding); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl     *readline.Instance
	sfnt     *fontprog.SFNTProgram
	gotext   *fontprog.GoTextProgram
	resolver *glyphpath.PathResolver
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code int
	arg  string
}

const NOOP = -1
const (
	QUIT int = iota
	HELP
	INFO
	// op-codes below require an argument
	CODE
	GID
	SHAPE
)

var opMap = map[string]int{
	"quit":  QUIT,
	"help":  HELP,
	"info":  INFO,
	"code":  CODE,
	"gid":   GID,
	"shape": SHAPE,
}

func (intp *Intp) parseCommand(line string) (*Op, error) {
	word, arg, _ := strings.Cut(line, " ")
	code, ok := opMap[strings.ToLower(word)]
	if !ok {
		return nil, fmt.Errorf("unknown command '%s'; try 'help'", word)
	}
	op := &Op{code: code, arg: strings.TrimSpace(arg)}
	if op.code >= CODE && op.arg == "" {
		return nil, fmt.Errorf("command '%s' needs an argument", word)
	}
	return op, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:  quitOp,
	HELP:  helpOp,
	INFO:  infoOp,
	CODE:  codeOp,
	GID:   gidOp,
	SHAPE: shapeOp,
}

func (intp *Intp) execute(op *Op) (err error, stop bool) {
	f, ok := commandFn[op.code]
	if !ok {
		pterm.Error.Printf("unknown command code: %d\n", op.code)
		return nil, false
	}
	return f(intp, op)
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

func helpOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("info           font name, units per em, glyph and cache counts")
	pterm.Println("code <n>       resolve a character code to a glyph path")
	pterm.Println("gid <n>        resolve a glyph index to a glyph path")
	pterm.Println("shape <text>   shape text and resolve every shaped glyph")
	pterm.Println("quit           leave the CLI")
	pterm.Println("numbers may be decimal or hex (0x41)")
	return nil, false
}

func infoOp(intp *Intp, op *Op) (error, bool) {
	upem, _ := intp.sfnt.UnitsPerEm()
	pterm.Printf("font          %s\n", intp.sfnt.Name())
	pterm.Printf("units per em  %d\n", upem)
	pterm.Printf("glyph count   %d\n", intp.sfnt.GlyphCount())
	pterm.Printf("scale factor  %g\n", intp.resolver.ScaleFactor())
	pterm.Printf("cached paths  %d\n", intp.resolver.CachedGlyphCount())
	return nil, false
}

func codeOp(intp *Intp, op *Op) (error, bool) {
	code, err := parseNumber(op.arg)
	if err != nil {
		return err, false
	}
	gid := intp.resolver.GlyphIndexForCharacterCode(code)
	pterm.Printf("code %d -> glyph index %d\n", code, gid)
	outline, err := intp.resolver.PathForCharacterCode(code)
	if err != nil {
		return err, false
	}
	printOutline(outline)
	return nil, false
}

func gidOp(intp *Intp, op *Op) (error, bool) {
	gid, err := parseNumber(op.arg)
	if err != nil {
		return err, false
	}
	outline, err := intp.resolver.PathForGlyphIndex(glyphpath.GlyphIndex(gid))
	if err != nil {
		return err, false
	}
	printOutline(outline)
	return nil, false
}

// shapeOp shapes a line of text and resolves the path for every shaped
// glyph, exercising the glyph-index entry point the way a PDF renderer
// would after content-stream processing.
func shapeOp(intp *Intp, op *Op) (error, bool) {
	upem, _ := intp.gotext.UnitsPerEm()
	runes := []rune(op.arg)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      intp.gotext.Face(),
		Size:      fixed.I(upem),
	}
	output := (&shaping.HarfbuzzShaper{}).Shape(input)
	for _, g := range output.Glyphs {
		outline, err := intp.resolver.PathForGlyphIndex(glyphpath.GlyphIndex(g.GlyphID))
		if err != nil {
			return err, false
		}
		segs := "empty"
		if !outline.Empty() {
			segs = fmt.Sprintf("%d segments", len(outline.Segments))
		}
		pterm.Printf("glyph %5d  advance %7.1f  %s\n",
			g.GlyphID, float64(g.XAdvance)/64, segs)
	}
	pterm.Printf("total advance %.1f\n", float64(output.Advance)/64)
	return nil, false
}

func printOutline(outline glyphpath.Outline) {
	if outline.Empty() {
		pterm.Println("(empty path)")
		return
	}
	min, max, _ := outline.Bounds()
	pterm.Printf("%d segments, bounds (%.1f, %.1f)..(%.1f, %.1f)\n",
		len(outline.Segments), min.X, min.Y, max.X, max.Y)
	for _, seg := range outline.Segments {
		var sb strings.Builder
		sb.WriteString(seg.Op.String())
		for _, p := range seg.Points() {
			fmt.Fprintf(&sb, "  (%.1f, %.1f)", p.X, p.Y)
		}
		pterm.Println(sb.String())
	}
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string) error {
	if fontname == "" {
		return fmt.Errorf("no font given; use -font")
	}
	p, err := fontprog.LoadFont(fontname)
	if err != nil {
		return err
	}
	intp.sfnt = p
	bytez, err := os.ReadFile(fontname)
	if err != nil {
		return err
	}
	// a second parse for the shaping backend
	intp.gotext, err = fontprog.ParseGoText(bytez)
	if err != nil {
		return err
	}
	pterm.Printf("loaded font %s\n", p.Name())
	return nil
}

func (intp *Intp) buildResolver(cidkeyed bool, cmapfile, cid2gid, encoding string) error {
	opts := []glyphpath.Option{glyphpath.WithFontName(intp.sfnt.Name())}
	if cmapfile != "" {
		f, err := os.Open(cmapfile)
		if err != nil {
			return err
		}
		defer f.Close()
		m, err := codemap.Parse(f)
		if err != nil {
			return err
		}
		tracer().Infof("loaded CMap %s", m.Name())
		opts = append(opts, glyphpath.WithCodeMap(m))
	}
	if !cidkeyed {
		codes, err := codeTable(encoding, intp.sfnt)
		if err != nil {
			return err
		}
		intp.resolver = glyphpath.NewSimpleResolver(intp.sfnt, codes, opts...)
		return nil
	}
	if cid2gid != "" {
		bytez, err := os.ReadFile(cid2gid)
		if err != nil {
			return err
		}
		table := codemap.ParseCIDToGID(bytez)
		tracer().Infof("CID-to-GID table with %d entries", table.EntryCount())
		opts = append(opts, glyphpath.WithCIDToGIDTable(table))
	} else if cmapfile == "" {
		opts = append(opts, glyphpath.WithIdentityCIDMapping())
	}
	intp.resolver = glyphpath.NewCIDKeyedResolver(intp.sfnt, opts...)
	return nil
}

func codeTable(encoding string, font fontprog.RuneIndexer) (glyphpath.CodeTable, error) {
	switch strings.ToLower(encoding) {
	case "unicode":
		return fontprog.NewUnicodeTable(font), nil
	case "winansi":
		return fontprog.NewByteEncodingTable(charmap.Windows1252, font), nil
	case "macroman":
		return fontprog.NewByteEncodingTable(charmap.Macintosh, font), nil
	}
	return nil, fmt.Errorf("unknown encoding: %s", encoding)
}

func parseNumber(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", s)
	}
	return int(n), nil
}
