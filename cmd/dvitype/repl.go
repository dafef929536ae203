package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/texbin/core/dimen"
	"github.com/npillmayer/texbin/core/dvi"
	"github.com/npillmayer/texbin/core/pk"
	"github.com/npillmayer/texbin/engine/dvimachine"
	"github.com/npillmayer/texbin/engine/fontmgr"
	"github.com/pterm/pterm"
)

// REPL starts interactive mode.
func (ses *session) REPL() {
	for {
		line, err := ses.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		quit, err := ses.execute(cmd)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Command is a parsed line of input.
type Command struct {
	code int
	arg  int
	has  bool // arg given
}

// Command codes
const (
	QUIT int = iota
	HELP
	INFO
	FONTS
	PAGES
	PAGE
	NEXT
	PREV
	OPCODES
	BBOX
	PAINT
	SIMPLIFY
)

var commands = map[string]int{
	"quit": QUIT, "q": QUIT,
	"help": HELP, "?": HELP,
	"info":  INFO,
	"fonts": FONTS,
	"pages": PAGES,
	"page":  PAGE, "p": PAGE,
	"next": NEXT, "n": NEXT,
	"prev": PREV,
	"ops":  OPCODES, "opcodes": OPCODES,
	"bbox":     BBOX,
	"paint":    PAINT,
	"simplify": SIMPLIFY,
}

func parseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	code, ok := commands[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q, try 'help'", fields[0])
	}
	cmd := Command{code: code}
	if len(fields) > 1 {
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("argument must be a page number: %q", fields[1])
		}
		cmd.arg, cmd.has = n, true
	}
	return cmd, nil
}

func (ses *session) execute(cmd Command) (bool, error) {
	if cmd.has {
		if cmd.arg < 0 || cmd.arg >= len(ses.prog.Pages) {
			return false, fmt.Errorf("no page %d, file has %d pages", cmd.arg, len(ses.prog.Pages))
		}
		ses.page = cmd.arg
	}
	switch cmd.code {
	case QUIT:
		return true, nil
	case HELP:
		help()
	case INFO:
		showPreamble(ses.prog)
	case FONTS:
		showFonts(ses.prog)
	case PAGES:
		all := make([]int, len(ses.prog.Pages))
		for i := range all {
			all[i] = i
		}
		showPages(ses.prog, all)
	case PAGE, OPCODES:
		showOpcodes(ses.prog.Pages[ses.page])
	case NEXT:
		if ses.page+1 < len(ses.prog.Pages) {
			ses.page++
		}
		showOpcodes(ses.prog.Pages[ses.page])
	case PREV:
		if ses.page > 0 {
			ses.page--
		}
		showOpcodes(ses.prog.Pages[ses.page])
	case BBOX:
		return false, ses.showBoundingBox(ses.page)
	case PAINT:
		return false, ses.paint(ses.page)
	case SIMPLIFY:
		ses.prog.Pages[ses.page].Simplify()
		showOpcodes(ses.prog.Pages[ses.page])
	}
	return false, nil
}

func help() {
	pterm.Println(`Commands (page numbers are 0-based):
  info           show preamble and postamble
  fonts          list font definitions
  pages          list pages
  page [n]       show opcodes of the current page or of page n
  next, prev     move to the next or previous page
  bbox [n]       compute the bounding box of a page
  paint [n]      list the marks of a page in device pixels
  simplify [n]   simplify a page
  quit`)
}

func (ses *session) paint(n int) error {
	if err := ses.loadFonts(); err != nil {
		return err
	}
	dpi := float64(ses.conf.GetInt(fontmgr.ResolutionKey))
	lp := &listingPainter{conv: ses.prog.Conversion(dpi)}
	if err := ses.machine.Run(ses.prog.Pages[n], lp); err != nil {
		return err
	}
	for _, l := range lp.lines {
		pterm.Println(l)
	}
	return nil
}

// listingPainter prints marks instead of painting them.
type listingPainter struct {
	conv  float64
	lines []string
}

func (lp *listingPainter) px(d dimen.Dimen) int {
	return int(float64(d)*lp.conv + 0.5)
}

func (lp *listingPainter) add(format string, args ...interface{}) {
	lp.lines = append(lp.lines, fmt.Sprintf(format, args...))
}

func (lp *listingPainter) PaintRule(x, y, w, h dimen.Dimen) error {
	lp.add("rule  (%5d,%5d) %d×%d px", lp.px(x), lp.px(y), lp.px(w), lp.px(h))
	return nil
}

func (lp *listingPainter) PaintChar(x, y dimen.Dimen, box dimen.Rect, font *dvimachine.PhysicalFont,
	device *pk.Font, code uint32) error {
	lp.add("char  (%5d,%5d) %-8s %3d  box %d×%d px", lp.px(x), lp.px(y), font.Def.Name, code,
		lp.px(box.Width()), lp.px(box.Height()))
	return nil
}

func (lp *listingPainter) SetColor(c dvi.Color) {
	lp.add("color %s", c)
}

func (lp *listingPainter) Special(x, y dimen.Dimen, text string) error {
	lp.add("xxx   (%5d,%5d) %q", lp.px(x), lp.px(y), text)
	return nil
}
