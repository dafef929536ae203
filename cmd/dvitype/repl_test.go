package main

import (
	"testing"

	"github.com/npillmayer/texbin/core/dimen"
	"github.com/npillmayer/texbin/core/dvi"
	"github.com/npillmayer/texbin/engine/dvimachine"
)

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand("page 3")
	if err != nil || cmd.code != PAGE || !cmd.has || cmd.arg != 3 {
		t.Errorf("unexpected command %+v, error %v", cmd, err)
	}
	if cmd, err = parseCommand("Q"); err != nil || cmd.code != QUIT {
		t.Errorf("expected quit, have %+v", cmd)
	}
	if _, err = parseCommand("page three"); err == nil {
		t.Errorf("expected error for non-numeric page")
	}
	if _, err = parseCommand("frobnicate"); err == nil {
		t.Errorf("expected error for unknown command")
	}
}

func TestListingPainter(t *testing.T) {
	lp := &listingPainter{conv: 1.0 / 65536}
	page := &dvi.Page{Opcodes: []dvi.Opcode{
		dvi.Special{Data: []byte("color push gray 0.5")},
		dvi.Rule{Set: true, Height: 2 * dimen.PT, Width: 3 * dimen.PT},
		dvi.Special{Data: []byte("html:<a>")},
	}}
	if err := dvimachine.New(dvimachine.FontTable{}).Run(page, lp); err != nil {
		t.Fatal(err)
	}
	if len(lp.lines) != 3 {
		t.Fatalf("expected 3 lines, have %d: %v", len(lp.lines), lp.lines)
	}
	if lp.lines[1] != "rule  (   72,   72) 3×2 px" {
		t.Errorf("unexpected rule line %q", lp.lines[1])
	}
}
