/*
Command pktype dumps the glyphs of PK fonts.

	pktype [flags] font.600pk
	pktype [flags] cmr10

A font given by name is searched for in the directories of configuration
key texbin.fontpath at the resolution of key texbin.resolution. Glyphs are
printed as text art; with -bmp each glyph is also written to a BMP file.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/locate"
	"github.com/npillmayer/texbin/core/pk"
	"github.com/npillmayer/texbin/internal/cliconf"
	"github.com/pterm/pterm"
	"golang.org/x/image/bmp"
	"golang.org/x/term"
)

// tracer traces with key 'texbin.pktype'
func tracer() tracing.Trace {
	return tracing.Select("texbin.pktype")
}

func main() {
	cliconf.InitDisplay()
	configFile := flag.String("config", "", "Configuration file (.json or .nt)")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	fontpath := flag.String("fontpath", "", "Font directories")
	dpi := flag.Int("dpi", 0, "Resolution of the font to look for")
	char := flag.Int("char", -1, "Dump only this character code")
	art := flag.Bool("art", true, "Print glyphs as text art")
	bmpDir := flag.String("bmp", "", "Directory to write glyph bitmaps to")
	flag.Parse()
	if flag.NArg() != 1 {
		pterm.Error.Println("usage: pktype [flags] font")
		flag.PrintDefaults()
		os.Exit(2)
	}
	conf, err := cliconf.Load(*configFile, map[string]interface{}{
		locate.FontPathKey:   *fontpath,
		locate.ResolutionKey: *dpi,
	})
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	if err := cliconf.ConfigureTracing(conf, *tlevel); err != nil {
		pterm.Error.Println("error configuring tracing")
		os.Exit(1)
	}
	path := flag.Arg(0)
	if _, err := os.Stat(path); err != nil {
		var ok bool
		if path, ok = locate.NewDirLocator(conf).LocateFile(path, locate.PK); !ok {
			core.UserError(locate.NotFound(flag.Arg(0), locate.PK))
			os.Exit(3)
		}
	}
	font, err := pk.ParseFile(path)
	if err != nil {
		core.UserError(err)
		os.Exit(3)
	}
	tracer().Infof("loaded %s", path)
	showFont(font)
	columns := terminalWidth()
	codes := selectGlyphs(font, *char)
	if len(codes) == 0 {
		pterm.Error.Printfln("no glyph %d in font", *char)
		os.Exit(4)
	}
	for _, code := range codes {
		g := font.Glyphs[code]
		bitmap, err := g.Bitmap()
		if err != nil {
			core.UserError(err)
			os.Exit(5)
		}
		pterm.DefaultSection.Println(g.String())
		if *art && bitmap.Width <= columns {
			pterm.Println(bitmap.String())
		} else if *art {
			pterm.Printfln("(%d pixels wide, terminal has %d columns)", bitmap.Width, columns)
		}
		if *bmpDir != "" {
			name := filepath.Join(*bmpDir, fmt.Sprintf("glyph-%03d.bmp", code))
			if err := writeBMP(name, bitmap.Image()); err != nil {
				core.UserError(err)
				os.Exit(6)
			}
		}
	}
}

// terminalWidth returns the width of the terminal on stdout, or an
// unlimited width if stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return math.MaxInt
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func showFont(font *pk.Font) {
	pterm.DefaultSection.Println("Preamble")
	pterm.Printfln("comment      %q", font.Comment)
	pterm.Printfln("design size  %.2fpt", font.DesignSize.Float())
	pterm.Printfln("checksum     %08x", font.Checksum)
	pterm.Printfln("resolution   %.0f dpi", font.Resolution())
	pterm.Printfln("glyphs       %d", len(font.Glyphs))
	for _, s := range font.Specials {
		pterm.Printfln("special      %q", s)
	}
}

// selectGlyphs returns the codes to dump in ascending order: all of them
// if code < 0.
func selectGlyphs(font *pk.Font, code int) []uint32 {
	if code >= 0 {
		if _, ok := font.Glyph(uint32(code)); ok {
			return []uint32{uint32(code)}
		}
		return nil
	}
	codes := make([]uint32, 0, len(font.Glyphs))
	for c := range font.Glyphs {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

func writeBMP(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create %s", name)
	}
	if err = bmp.Encode(f, img); err != nil {
		f.Close()
		return core.WrapError(err, core.EINVALID, "cannot write %s", name)
	}
	return f.Close()
}
