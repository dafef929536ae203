package dimen

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.core")
	defer teardown()
	//
	d, _, err := ParseDimen("12pt")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12*PT {
		t.Errorf("(1) expected d to be 12pt (%d), is %d", 12*PT, d)
	}
	//
	d, _, err = ParseDimen("0")
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if d != 0 {
		t.Errorf("(2) expected d to be 0, is %d", d)
	}
	//
	d, ispcnt, err := ParseDimen("20%")
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if ispcnt != true {
		t.Errorf("(3) expected percentage-marker to be true, is %v", ispcnt)
	}
	//
	d, _, err = ParseDimen("8.5in")
	if err != nil {
		t.Errorf("(4) %s", err.Error())
	} else if d != USLetter.X {
		t.Errorf("(4) expected d to be %d, is %d", USLetter.X, d)
	}
	//
	d, _, err = ParseDimen("11in")
	if err != nil || d != USLetter.Y {
		t.Errorf("(4a) expected d to be %d, is %d", USLetter.Y, d)
	}
	//
	if _, _, err = ParseDimen("12furlongs"); err == nil {
		t.Errorf("(5) expected error for unknown unit")
	}
}

func TestInch(t *testing.T) {
	if IN != 4736287 {
		t.Errorf("expected one inch to be 4736287sp, is %d", IN)
	}
	if IN.Pixels(600) != 600 {
		t.Errorf("expected one inch to be 600 pixels at 600dpi, is %d", IN.Pixels(600))
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{TopL: Point{0, 0}, BotR: Point{10, 10}}
	b := Rect{TopL: Point{-5, 3}, BotR: Point{4, 20}}
	u := a.Union(b)
	if u.TopL.X != -5 || u.TopL.Y != 0 || u.BotR.X != 10 || u.BotR.Y != 20 {
		t.Errorf("unexpected union %v", u)
	}
	if u.Width() != 15 || u.Height() != 20 {
		t.Errorf("expected 15x20, have %dx%d", u.Width(), u.Height())
	}
	if !(Rect{}).IsEmpty() {
		t.Errorf("expected zero rect to be empty")
	}
}
