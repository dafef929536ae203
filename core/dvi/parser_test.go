package dvi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/dimen"
	"github.com/npillmayer/texbin/internal/fixtures"
)

func TestParseMinimal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvi")
	defer teardown()
	//
	d := fixtures.NewDVI()
	d.BOP(0).Push().Right1(5).Pop().EOP()
	prog, err := ParseBytes(d.Bytes(4))
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Pages) != 1 {
		t.Fatalf("expected 1 page, have %d", len(prog.Pages))
	}
	want := []Opcode{Push{}, Move{Axis: Horizontal, Amount: 5}, Pop{N: 1}}
	if diff := cmp.Diff(want, prog.Pages[0].Opcodes); diff != "" {
		t.Errorf("unexpected opcodes (-want +have):\n%s", diff)
	}
	if prog.Comment != "fixture" || prog.Format != 2 || prog.Mag != 1000 {
		t.Errorf("unexpected preamble %q/%d/%d", prog.Comment, prog.Format, prog.Mag)
	}
	if prog.MaxStack != 10 || prog.PageCount != 1 {
		t.Errorf("unexpected postamble values: stack=%d, pages=%d", prog.MaxStack, prog.PageCount)
	}
}

func TestPostambleTrailer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvi")
	defer teardown()
	//
	for _, n := range []int{4, 5, 7} {
		d := fixtures.NewDVI()
		d.BOP(1).Right1(3).EOP()
		prog, err := ParseBytes(d.Bytes(n))
		if err != nil {
			t.Errorf("trailer of %d bytes: %v", n, err)
			continue
		}
		if len(prog.Pages) != 1 || prog.Pages[0].Counts[0] != 1 {
			t.Errorf("trailer of %d bytes: page not found", n)
		}
	}
	d := fixtures.NewDVI()
	d.BOP(1).EOP()
	if _, err := ParseBytes(d.Bytes(3)); core.Code(err) != core.EMALFORMED {
		t.Errorf("expected short trailer to be malformed, have %v", err)
	}
}

func TestPagesForwardOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvi")
	defer teardown()
	//
	d := fixtures.NewDVI()
	for i := 1; i <= 3; i++ {
		d.BOP(int32(i)).Down(int32(i)).EOP()
	}
	prog, err := ParseBytes(d.Bytes(4))
	if err != nil {
		t.Fatal(err)
	}
	for i, pg := range prog.Pages {
		if pg.Number != i || pg.Counts[0] != int32(i+1) {
			t.Errorf("page %d has number %d and \\count0=%d", i, pg.Number, pg.Counts[0])
		}
		want := []Opcode{Move{Axis: Vertical, Amount: dimen.Dimen(i + 1)}}
		if diff := cmp.Diff(want, pg.Opcodes); diff != "" {
			t.Errorf("page %d (-want +have):\n%s", i, diff)
		}
	}
}

func TestPageOpcodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvi")
	defer teardown()
	//
	cmr := fixtures.Font{ID: 3, Checksum: 0xcafe, Scale: 655360, Design: 655360, Name: "cmr10"}
	d := fixtures.NewDVI().Define(cmr)
	d.BOP(1).FntDef(cmr).Font(3).SetChar('A').SetChar('B').SetChar(200).Put('C').Put('D')
	d.SetRule(10, 20).U1(250) // undefined opcode
	d.Reg(147, 7).Reg(147).Reg(166, -2).Special("hello")
	d.EOP()
	prog, err := ParseBytes(d.Bytes(4))
	if err != nil {
		t.Fatal(err)
	}
	pg := prog.Pages[0]
	want := []Opcode{
		SelectFont{ID: 3},
		Char{Set: true, Codes: []uint32{'A', 'B', 200}},
		Char{Set: false, Codes: []uint32{'C', 'D'}},
		Rule{Set: true, Height: 10, Width: 20},
		MoveReg{Reg: W, Set: true, Amount: 7},
		MoveReg{Reg: W},
		MoveReg{Reg: Z, Set: true, Amount: -2},
		Special{Data: []byte("hello")},
	}
	if diff := cmp.Diff(want, pg.Opcodes); diff != "" {
		t.Errorf("unexpected opcodes (-want +have):\n%s", diff)
	}
	if pg.NumberOfRules != 1 || pg.NumberOfChars[3] != 5 {
		t.Errorf("unexpected counts: rules=%d, chars=%v", pg.NumberOfRules, pg.NumberOfChars)
	}
	f := prog.Fonts[3]
	if f == nil || f.Name != "cmr10" || f.Checksum != 0xcafe {
		t.Fatalf("font 3 not defined correctly: %v", f)
	}
	if f.Magnification().Cmp(bigOne()) != 0 {
		t.Errorf("expected magnification 1, have %s", f.Magnification())
	}
}

func TestFontRedefinition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvi")
	defer teardown()
	//
	cmr := fixtures.Font{ID: 0, Scale: 655360, Design: 655360, Name: "cmr10"}
	other := cmr
	other.Scale = 2 * 655360
	d := fixtures.NewDVI().Define(cmr)
	d.BOP(1).FntDef(other).EOP()
	if _, err := ParseBytes(d.Bytes(4)); core.Code(err) != core.EMALFORMED {
		t.Errorf("expected incompatible font redefinition to fail, have %v", err)
	}
}

func TestMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvi")
	defer teardown()
	//
	d := fixtures.NewDVI()
	d.BOP(1).EOP()
	b := d.Bytes(4)
	bad := append([]byte{}, b...)
	bad[0] = 0
	if _, err := ParseBytes(bad); core.Code(err) != core.EMALFORMED {
		t.Errorf("expected missing PRE to be malformed, have %v", err)
	}
	d = fixtures.NewDVI()
	d.BOP(1).BOP(2).EOP()
	if _, err := ParseBytes(d.Bytes(4)); core.Code(err) != core.EMALFORMED {
		t.Errorf("expected BOP inside page to be malformed, have %v", err)
	}
	if _, err := ParseBytes(b[:len(b)/2]); err == nil {
		t.Errorf("expected truncated file to fail")
	}
}

func TestParseSubroutine(t *testing.T) {
	w := fixtures.Writer{}
	w.U1(171, 'x', 141, 143, 9, 142) // fnt_num_0 'x' push right1 9 pop
	pg, err := ParseSubroutine(w.B)
	if err != nil {
		t.Fatal(err)
	}
	want := []Opcode{SelectFont{ID: 0}, Char{Set: true, Codes: []uint32{'x'}}, Push{},
		Move{Axis: Horizontal, Amount: 9}, Pop{N: 1}}
	if diff := cmp.Diff(want, pg.Opcodes); diff != "" {
		t.Errorf("unexpected opcodes (-want +have):\n%s", diff)
	}
	if _, err = ParseSubroutine([]byte{140}); core.Code(err) != core.EMALFORMED {
		t.Errorf("expected eop in packet to be malformed, have %v", err)
	}
	// xxx4 claiming 4 GB of special bytes
	if _, err = ParseSubroutine([]byte{242, 0xf0, 0, 0, 0, 'x'}); core.Code(err) != core.EEOF {
		t.Errorf("expected oversized special to hit end of input, have %v", err)
	}
}

func TestConversion(t *testing.T) {
	prog := &Program{Numerator: fixtures.Num, Denominator: fixtures.Den, Mag: 1000}
	c := prog.Conversion(72.27)
	if d := c*65536 - 1; d > 1e-9 || d < -1e-9 {
		t.Errorf("expected one point per 65536 units at 72.27dpi, have %g", c*65536)
	}
}
