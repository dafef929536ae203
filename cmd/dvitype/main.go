/*
Command dvitype lists the contents of DVI files.

	dvitype [flags] file.dvi

Without flags it prints the preamble, the fonts and a page summary. With
-opcodes the instructions of every page (or of the page selected by -page)
are listed, with -bbox the bounding boxes of pages are computed from the
fonts' metrics. With -i dvitype enters an interactive page browser.

Fonts are searched for in the directories of configuration key
texbin.fontpath (flag -fontpath, environment TEXBIN_FONTPATH).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/dvi"
	"github.com/npillmayer/texbin/core/font/fontmap"
	"github.com/npillmayer/texbin/core/locate"
	"github.com/npillmayer/texbin/engine/dvimachine"
	"github.com/npillmayer/texbin/engine/fontmgr"
	"github.com/npillmayer/texbin/internal/cliconf"
	"github.com/pterm/pterm"
)

// tracer traces with key 'texbin.dvitype'
func tracer() tracing.Trace {
	return tracing.Select("texbin.dvitype")
}

func main() {
	cliconf.InitDisplay()
	configFile := flag.String("config", "", "Configuration file (.json or .nt)")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	adapter := flag.String("adapter", "", "Trace backend [go|logrus]")
	fontpath := flag.String("fontpath", "", "Font directories, separated by "+string(os.PathListSeparator))
	mapfiles := flag.String("fontmap", "", "Font map files")
	dpi := flag.Int("dpi", 0, "Device resolution")
	pageNo := flag.Int("page", -1, "Restrict output to a single page (0-based)")
	opcodes := flag.Bool("opcodes", false, "List the opcodes of pages")
	bbox := flag.Bool("bbox", false, "Compute bounding boxes of pages")
	simplify := flag.Bool("simplify", false, "Simplify pages before listing them")
	interactive := flag.Bool("i", false, "Interactive mode")
	flag.Parse()
	if flag.NArg() != 1 {
		pterm.Error.Println("usage: dvitype [flags] file.dvi")
		flag.PrintDefaults()
		os.Exit(2)
	}
	conf, err := cliconf.Load(*configFile, map[string]interface{}{
		"tracing.adapter":     *adapter,
		locate.FontPathKey:    *fontpath,
		fontmap.MapKey:        *mapfiles,
		fontmgr.ResolutionKey: *dpi,
	})
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	if err := cliconf.ConfigureTracing(conf, *tlevel); err != nil {
		pterm.Error.Println("error configuring tracing")
		os.Exit(1)
	}
	prog, err := dvi.ParseFile(flag.Arg(0))
	if err != nil {
		core.UserError(err)
		os.Exit(3)
	}
	if *simplify {
		prog.Simplify()
	}
	ses := &session{prog: prog, conf: conf, page: 0}
	if *interactive {
		repl, err := readline.New("dvi > ")
		if err != nil {
			tracer().Errorf(err.Error())
			os.Exit(3)
		}
		ses.repl = repl
		pterm.Info.Println("Quit with <ctrl>D")
		ses.REPL()
		return
	}
	showPreamble(prog)
	showFonts(prog)
	pages := make([]int, 0, len(prog.Pages))
	if *pageNo >= 0 {
		if *pageNo >= len(prog.Pages) {
			pterm.Error.Printfln("no page %d, file has %d pages", *pageNo, len(prog.Pages))
			os.Exit(4)
		}
		pages = append(pages, *pageNo)
	} else {
		for i := range prog.Pages {
			pages = append(pages, i)
		}
	}
	showPages(prog, pages)
	for _, n := range pages {
		if *opcodes {
			showOpcodes(prog.Pages[n])
		}
		if *bbox {
			if err := ses.showBoundingBox(n); err != nil {
				core.UserError(err)
				os.Exit(5)
			}
		}
	}
}

// session holds the state of an interactive or batch run.
type session struct {
	prog    *dvi.Program
	conf    *koanfadapter.KConf
	repl    *readline.Instance
	page    int
	fonts   dvimachine.FontTable
	machine *dvimachine.Machine
}

// loadFonts loads the program's fonts on first use.
func (ses *session) loadFonts() error {
	if ses.machine != nil {
		return nil
	}
	loc := locate.NewDirLocator(ses.conf)
	var resolver fontmap.Resolver
	if ses.conf.GetString(fontmap.MapKey) != "" {
		m, err := fontmap.Load(ses.conf, loc)
		if err != nil {
			return err
		}
		resolver = m
	}
	mgr := fontmgr.New(loc, resolver, fontmgr.WithConfig(ses.conf), fontmgr.WithoutBitmaps())
	fonts, err := mgr.Load(ses.prog)
	if err != nil {
		return err
	}
	ses.fonts = fonts
	ses.machine = mgr.Machine(fonts)
	return nil
}

func (ses *session) showBoundingBox(n int) error {
	if err := ses.loadFonts(); err != nil {
		return err
	}
	box, err := ses.machine.BoundingBox(ses.prog.Pages[n])
	if err != nil {
		return err
	}
	if box.IsEmpty() {
		pterm.Printfln("page %d: empty", n)
		return nil
	}
	pterm.Printfln("page %d: bounding box %s = %.2fpt × %.2fpt", n, box,
		box.Width().Points(), box.Height().Points())
	return nil
}

func showPreamble(prog *dvi.Program) {
	pterm.DefaultSection.Println("Preamble")
	pterm.Printfln("comment      %q", prog.Comment)
	pterm.Printfln("format       %d", prog.Format)
	pterm.Printfln("num/den      %d/%d", prog.Numerator, prog.Denominator)
	pterm.Printfln("mag          %d", prog.Mag)
	pterm.Printfln("max h/w      %.2fpt/%.2fpt", prog.MaxHeight.Points(), prog.MaxWidth.Points())
	pterm.Printfln("max stack    %d", prog.MaxStack)
	pterm.Printfln("pages        %d", prog.PageCount)
}

func showFonts(prog *dvi.Program) {
	pterm.DefaultSection.Println("Fonts")
	data := pterm.TableData{{"ID", "Name", "Size", "Design size", "Checksum"}}
	for _, id := range sortedFontIDs(prog) {
		f := prog.Fonts[id]
		data = append(data, []string{
			fmt.Sprintf("%d", f.ID),
			f.FullName(),
			fmt.Sprintf("%.2fpt", f.Scale.Points()),
			fmt.Sprintf("%.2fpt", f.DesignSize.Points()),
			fmt.Sprintf("%08x", f.Checksum),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func showPages(prog *dvi.Program, pages []int) {
	pterm.DefaultSection.Println("Pages")
	data := pterm.TableData{{"Page", "\\count0", "Opcodes", "Rules", "Chars"}}
	for _, n := range pages {
		pg := prog.Pages[n]
		chars := 0
		for _, c := range pg.NumberOfChars {
			chars += c
		}
		data = append(data, []string{
			fmt.Sprintf("%d", n),
			fmt.Sprintf("%d", pg.Counts[0]),
			fmt.Sprintf("%d", len(pg.Opcodes)),
			fmt.Sprintf("%d", pg.NumberOfRules),
			fmt.Sprintf("%d", chars),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func showOpcodes(pg *dvi.Page) {
	pterm.DefaultSection.Printfln("Page %d", pg.Number)
	for i, op := range pg.Opcodes {
		pterm.Printfln("%5d  %s", i, op)
	}
}

func sortedFontIDs(prog *dvi.Program) []int32 {
	ids := make([]int32, 0, len(prog.Fonts))
	for id := range prog.Fonts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
