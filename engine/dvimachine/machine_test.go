package dvimachine

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/dimen"
	"github.com/npillmayer/texbin/core/dvi"
	"github.com/npillmayer/texbin/core/pk"
	"github.com/npillmayer/texbin/core/tfm"
	"github.com/npillmayer/texbin/core/vf"
	"github.com/npillmayer/texbin/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a painter which records its calls as text.
type recorder struct {
	calls []string
}

func (r *recorder) PaintRule(x, y, w, h dimen.Dimen) error {
	r.calls = append(r.calls, fmt.Sprintf("rule %d %d %d %d", x, y, w, h))
	return nil
}

func (r *recorder) PaintChar(x, y dimen.Dimen, box dimen.Rect, font *PhysicalFont, device *pk.Font, code uint32) error {
	r.calls = append(r.calls, fmt.Sprintf("char %c font %d at %d %d", rune(code), font.Def.ID, x, y))
	return nil
}

func (r *recorder) SetColor(c dvi.Color) {
	r.calls = append(r.calls, "color "+c.String())
}

func physical(t *testing.T, id int32) *PhysicalFont {
	t.Helper()
	fixture := &fixtures.TFM{
		DesignSize: 10,
		Chars: []fixtures.TFMChar{
			{Code: 'a', Width: 0.5, Height: 0.5},
			{Code: 'g', Width: 0.5, Height: 0.5, Depth: 0.25},
		},
	}
	metrics, err := tfm.ParseBytes(fixture.Bytes())
	require.NoError(t, err)
	def := &dvi.Font{ID: id, Scale: 10 * dimen.PT, DesignSize: 10 * dimen.PT, Name: "fixture"}
	return &PhysicalFont{Def: def, TFM: metrics}
}

func virtual(t *testing.T, id int32, remap map[int32]int32, packet []byte) *VirtualFont {
	t.Helper()
	v := fixtures.NewVF(0, 10)
	v.FntDef(0, 0, 1.0, 10, "fixture")
	v.ShortChar('A', 0.75, packet)
	font, err := vf.ParseBytes(v.Bytes())
	require.NoError(t, err)
	def := &dvi.Font{ID: id, Scale: 10 * dimen.PT, DesignSize: 10 * dimen.PT, Name: "virtual"}
	return &VirtualFont{Def: def, VF: font, Remap: remap}
}

const (
	fivePt = 5 * dimen.PT
	halfPt = dimen.PT / 2
)

func TestRoundTripDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvimachine")
	defer teardown()
	//
	d := fixtures.NewDVI()
	d.BOP(1).Push().Right1(5).Pop().EOP()
	prog, err := dvi.ParseBytes(d.Bytes(4))
	require.NoError(t, err)
	want := []dvi.Opcode{dvi.Push{}, dvi.Move{Axis: dvi.Horizontal, Amount: 5}, dvi.Pop{N: 1}}
	if diff := cmp.Diff(want, prog.Pages[0].Opcodes); diff != "" {
		t.Errorf("unexpected opcodes (-want +have):\n%s", diff)
	}
	m := New(FontTable{})
	box, err := m.BoundingBox(prog.Pages[0])
	require.NoError(t, err)
	if m.Depth() != 1 {
		t.Errorf("expected register stack depth 1, is %d", m.Depth())
	}
	if !box.IsEmpty() {
		t.Errorf("expected empty bounding box for page without marks, have %v", box)
	}
	if r := m.Registers(); r.H != dimen.IN || r.V != dimen.IN {
		t.Errorf("expected registers to start at one inch, have %v", r)
	}
}

func TestRegisters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvimachine")
	defer teardown()
	//
	page := &dvi.Page{Opcodes: []dvi.Opcode{
		dvi.MoveReg{Reg: dvi.W, Set: true, Amount: 7},
		dvi.MoveReg{Reg: dvi.X, Set: true, Amount: 2},
		dvi.MoveReg{Reg: dvi.W},
		dvi.MoveReg{Reg: dvi.Y, Set: true, Amount: 10},
		dvi.MoveReg{Reg: dvi.Z, Set: true, Amount: 3},
		dvi.MoveReg{Reg: dvi.Y},
		dvi.Push{},
		dvi.Move{Axis: dvi.Vertical, Amount: 100},
	}}
	m := New(FontTable{})
	_, err := m.BoundingBox(page)
	require.NoError(t, err)
	r := m.Registers()
	assert.Equal(t, dimen.IN+16, r.H)
	assert.Equal(t, dimen.IN+123, r.V)
	assert.Equal(t, dimen.Dimen(10), r.Y)
	assert.Equal(t, 2, m.Depth())
}

func TestStackUnderflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvimachine")
	defer teardown()
	//
	m := New(FontTable{})
	_, err := m.BoundingBox(&dvi.Page{Opcodes: []dvi.Opcode{dvi.Push{}, dvi.Pop{N: 2}}})
	if core.Code(err) != core.EMALFORMED {
		t.Errorf("expected register stack underflow to be malformed, have %v", err)
	}
	_, err = m.BoundingBox(&dvi.Page{Opcodes: []dvi.Opcode{dvi.PopColor{N: 1}}})
	if core.Code(err) != core.EMALFORMED {
		t.Errorf("expected colour stack underflow to be malformed, have %v", err)
	}
}

func TestBoundingBox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvimachine")
	defer teardown()
	//
	fonts := FontTable{3: physical(t, 3)}
	page := &dvi.Page{Opcodes: []dvi.Opcode{
		dvi.SelectFont{ID: 3},
		dvi.Char{Set: true, Codes: []uint32{'a', 'g'}},
		dvi.Rule{Set: false, Height: dimen.PT, Width: 20 * dimen.PT},
		dvi.Rule{Set: true, Height: 0, Width: 100 * dimen.PT}, // invisible
	}}
	m := New(fonts)
	box, err := m.BoundingBox(page)
	require.NoError(t, err)
	// a: [IN, IN+5pt] × [IN-5pt, IN], g: [IN+5pt, IN+10pt] × [IN-5pt, IN+2.5pt]
	// rule: [IN+10pt, IN+30pt] × [IN-1pt, IN]
	want := dimen.Rect{
		TopL: dimen.Point{X: dimen.IN, Y: dimen.IN - fivePt},
		BotR: dimen.Point{X: dimen.IN + 30*dimen.PT, Y: dimen.IN + 2*dimen.PT + halfPt},
	}
	assert.Equal(t, want, box)
	assert.Equal(t, dimen.IN+110*dimen.PT, m.Registers().H)
}

func TestPaintAndColor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvimachine")
	defer teardown()
	//
	fonts := FontTable{0: physical(t, 0)}
	page := &dvi.Page{Opcodes: []dvi.Opcode{
		dvi.SelectFont{ID: 0},
		dvi.Special{Data: []byte("color push rgb 1 0 0")},
		dvi.Char{Set: false, Codes: []uint32{'a'}},
		dvi.PopColor{N: 1},
		dvi.Char{Set: true, Codes: []uint32{'a'}},
		dvi.Rule{Set: true, Height: 2, Width: 3},
	}}
	rec := &recorder{}
	require.NoError(t, New(fonts).Run(page, rec))
	want := []string{
		"color " + dvi.RGB(1, 0, 0).String(),
		fmt.Sprintf("char a font 0 at %d %d", dimen.IN, dimen.IN),
		"color " + dvi.Black.String(),
		fmt.Sprintf("char a font 0 at %d %d", dimen.IN, dimen.IN),
		fmt.Sprintf("rule %d %d 3 2", dimen.IN+fivePt, dimen.IN),
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("unexpected paint calls (-want +have):\n%s", diff)
	}
}

func TestMissingFontAndGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvimachine")
	defer teardown()
	//
	m := New(FontTable{0: physical(t, 0)})
	_, err := m.BoundingBox(&dvi.Page{Opcodes: []dvi.Opcode{dvi.SelectFont{ID: 9}}})
	assert.Equal(t, core.EMISSING, core.Code(err), "unknown font")
	_, err = m.BoundingBox(&dvi.Page{Opcodes: []dvi.Opcode{
		dvi.SelectFont{ID: 0}, dvi.Char{Set: true, Codes: []uint32{'z'}},
	}})
	assert.Equal(t, core.EMISSING, core.Code(err), "unknown glyph")
	_, err = m.BoundingBox(&dvi.Page{Opcodes: []dvi.Opcode{dvi.Char{Set: true, Codes: []uint32{'a'}}}})
	assert.Equal(t, core.EMISSING, core.Code(err), "no font selected")
}

func TestVirtualFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvimachine")
	defer teardown()
	//
	// 'A' typesets 'a', moves down 1sp and typesets 'a' again
	packet := []byte{'a', 157, 1, 'a'}
	fonts := FontTable{
		5: physical(t, 5),
		1: virtual(t, 1, map[int32]int32{0: 5}, packet),
	}
	page := &dvi.Page{Opcodes: []dvi.Opcode{
		dvi.SelectFont{ID: 1},
		dvi.MoveReg{Reg: dvi.W, Set: true, Amount: 0},
		dvi.Char{Set: true, Codes: []uint32{'A', 'A'}},
	}}
	rec := &recorder{}
	m := New(fonts)
	require.NoError(t, m.Run(page, rec))
	wA := 7*dimen.PT + halfPt // 0.75 × 10pt
	want := []string{
		fmt.Sprintf("char a font 5 at %d %d", dimen.IN, dimen.IN),
		fmt.Sprintf("char a font 5 at %d %d", dimen.IN+fivePt, dimen.IN+1),
		fmt.Sprintf("char a font 5 at %d %d", dimen.IN+wA, dimen.IN),
		fmt.Sprintf("char a font 5 at %d %d", dimen.IN+wA+fivePt, dimen.IN+1),
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("unexpected paint calls (-want +have):\n%s", diff)
	}
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, dimen.IN+2*wA, m.Registers().H)
	//
	box, err := m.BoundingBox(page)
	require.NoError(t, err)
	assert.Equal(t, dimen.IN+wA+2*fivePt, box.BotR.X)
}

func TestVirtualFontRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.dvimachine")
	defer teardown()
	//
	// local font 0 of font 1 is font 1 itself
	fonts := FontTable{1: virtual(t, 1, map[int32]int32{0: 1}, []byte{'A'})}
	page := &dvi.Page{Opcodes: []dvi.Opcode{
		dvi.SelectFont{ID: 1},
		dvi.Char{Set: true, Codes: []uint32{'A'}},
	}}
	_, err := New(fonts, WithMaxDepth(4)).BoundingBox(page)
	if core.Code(err) != core.EUNSUPPORTED {
		t.Errorf("expected recursion bound to trigger, have %v", err)
	}
	//
	fonts = FontTable{1: virtual(t, 1, map[int32]int32{}, []byte{'a'})}
	_, err = New(fonts).BoundingBox(page)
	if core.Code(err) != core.EMISSING {
		t.Errorf("expected unmapped local font to be missing, have %v", err)
	}
}
