// Package fixtures assembles small DVI, TFM, PK and VF files in memory for tests.
package fixtures

import "math"

// Writer appends big-endian integers to a byte slice.
type Writer struct {
	B []byte
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 {
	return int64(len(w.B))
}

// U1 appends bytes.
func (w *Writer) U1(v ...int) *Writer {
	for _, x := range v {
		w.B = append(w.B, byte(x))
	}
	return w
}

// U2 appends a 2-byte integer.
func (w *Writer) U2(v int) *Writer {
	w.B = append(w.B, byte(v>>8), byte(v))
	return w
}

// U3 appends a 3-byte integer.
func (w *Writer) U3(v int64) *Writer {
	w.B = append(w.B, byte(v>>16), byte(v>>8), byte(v))
	return w
}

// U4 appends a 4-byte integer. Negative values are written in two's complement.
func (w *Writer) U4(v int64) *Writer {
	w.B = append(w.B, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	return w
}

// Str appends raw bytes of s.
func (w *Writer) Str(s string) *Writer {
	w.B = append(w.B, s...)
	return w
}

// BCPL appends a length byte and s.
func (w *Writer) BCPL(s string) *Writer {
	return w.U1(len(s)).Str(s)
}

// Fix converts x to a fix_word.
func Fix(x float64) int64 {
	return int64(math.Round(x * (1 << 20)))
}

// Font is a font definition for DVI and VF fixtures.
type Font struct {
	ID       int32
	Checksum uint32
	Scale    int64
	Design   int64
	Name     string
}

func (w *Writer) fntDef(f Font) {
	w.U1(243, int(f.ID)).U4(int64(f.Checksum)).U4(f.Scale).U4(f.Design).U1(0).BCPL(f.Name)
}

// --- DVI -------------------------------------------------------------------

// DVI assembles a DVI file.
type DVI struct {
	Writer
	lastBop int64
	pages   int
	fonts   []Font
}

// TeX's DVI unit ratio, making one DVI unit one scaled point.
const (
	Num = 25400000
	Den = 473628672
)

// NewDVI writes a preamble.
func NewDVI() *DVI {
	d := &DVI{lastBop: -1}
	d.U1(247, 2).U4(Num).U4(Den).U4(1000).BCPL("fixture")
	return d
}

// BOP starts a page.
func (d *DVI) BOP(count0 int32) *DVI {
	pos := d.Len()
	d.U1(139).U4(int64(count0))
	for i := 1; i < 10; i++ {
		d.U4(0)
	}
	d.U4(d.lastBop)
	d.lastBop = pos
	d.pages++
	return d
}

// EOP ends a page.
func (d *DVI) EOP() *DVI { d.U1(140); return d }

// Push writes a push.
func (d *DVI) Push() *DVI { d.U1(141); return d }

// Pop writes a pop.
func (d *DVI) Pop() *DVI { d.U1(142); return d }

// Right1 writes right1.
func (d *DVI) Right1(n int8) *DVI { d.U1(143, int(n)); return d }

// Right writes right4.
func (d *DVI) Right(n int32) *DVI { d.U1(146).U4(int64(n)); return d }

// Down writes down4.
func (d *DVI) Down(n int32) *DVI { d.U1(160).U4(int64(n)); return d }

// Reg writes a w/x/y/z opcode: base is the 0-variant (147, 152, 161, 166);
// with an amount the 4-byte form is used.
func (d *DVI) Reg(base byte, amount ...int32) *DVI {
	if len(amount) == 0 {
		d.U1(int(base))
	} else {
		d.U1(int(base) + 4).U4(int64(amount[0]))
	}
	return d
}

// SetChar writes set_char_c for c < 128 and set1 otherwise.
func (d *DVI) SetChar(c int) *DVI {
	if c < 128 {
		d.U1(c)
	} else {
		d.U1(128, c)
	}
	return d
}

// Put writes put1.
func (d *DVI) Put(c int) *DVI { d.U1(133, c); return d }

// SetRule writes set_rule.
func (d *DVI) SetRule(h, w int32) *DVI { d.U1(132).U4(int64(h)).U4(int64(w)); return d }

// PutRule writes put_rule.
func (d *DVI) PutRule(h, w int32) *DVI { d.U1(137).U4(int64(h)).U4(int64(w)); return d }

// Font selects font id < 64.
func (d *DVI) Font(id int) *DVI { d.U1(171 + id); return d }

// Special writes xxx1.
func (d *DVI) Special(s string) *DVI { d.U1(239, len(s)).Str(s); return d }

// FntDef writes a font definition into the page stream.
func (d *DVI) FntDef(f Font) *DVI { d.fntDef(f); return d }

// Define registers a font for the postamble.
func (d *DVI) Define(f Font) *DVI {
	d.fonts = append(d.fonts, f)
	return d
}

// Bytes writes the postamble, font definitions, post_post and the given
// number of 223 trailer bytes.
func (d *DVI) Bytes(trailer int) []byte {
	q := d.Len()
	d.U1(248).U4(d.lastBop).U4(Num).U4(Den).U4(1000).U4(0).U4(0).U2(10).U2(d.pages)
	for _, f := range d.fonts {
		d.fntDef(f)
	}
	d.U1(249).U4(q).U1(2)
	for i := 0; i < trailer; i++ {
		d.U1(223)
	}
	return d.B
}

// --- VF --------------------------------------------------------------------

// VF assembles a virtual font.
type VF struct {
	Writer
}

// NewVF writes a VF preamble; design size is in points.
func NewVF(checksum uint32, design float64) *VF {
	v := &VF{}
	v.U1(247, 202).BCPL("vf fixture").U4(int64(checksum)).U4(Fix(design))
	return v
}

// FntDef writes a local font definition. Scale is relative to the VF design
// size, design size is in points.
func (v *VF) FntDef(id int32, checksum uint32, scale, design float64, name string) *VF {
	v.fntDef(Font{ID: id, Checksum: checksum, Scale: Fix(scale), Design: Fix(design), Name: name})
	return v
}

// ShortChar writes a short character packet; width is relative to the design size.
func (v *VF) ShortChar(code int, width float64, packet []byte) *VF {
	v.U1(len(packet), code).U3(Fix(width))
	v.B = append(v.B, packet...)
	return v
}

// LongChar writes a long character packet.
func (v *VF) LongChar(code int64, width float64, packet []byte) *VF {
	v.U1(242).U4(int64(len(packet))).U4(code).U4(Fix(width))
	v.B = append(v.B, packet...)
	return v
}

// Bytes writes the postamble.
func (v *VF) Bytes() []byte {
	v.U1(248)
	for len(v.B)%4 != 0 {
		v.U1(248)
	}
	return v.B
}

// --- PK --------------------------------------------------------------------

// PK assembles a packed font.
type PK struct {
	Writer
}

// NewPK writes a PK preamble for a font with the given design size (pt) and resolution.
func NewPK(design float64, dpi float64) *PK {
	p := &PK{}
	pppt := int64(math.Round(dpi / 72.27 * 65536))
	p.U1(247, 89).BCPL("pk fixture").U4(Fix(design)).U4(0).U4(pppt).U4(pppt)
	return p
}

// ShortChar writes a character in short form.
func (p *PK) ShortChar(code, dynF int, black bool, tfm float64, dx, w, h, hoff, voff int, raster []byte) *PK {
	pl := len(raster) + 8
	flag := dynF<<4 | (pl>>8)&3
	if black {
		flag |= 8
	}
	p.U1(flag, pl&0xff, code).U3(Fix(tfm)).U1(dx, w, h, hoff, voff)
	p.B = append(p.B, raster...)
	return p
}

// LongChar writes a character in long form.
func (p *PK) LongChar(code, dynF int, black bool, tfm float64, dx, dy int64, w, h, hoff, voff int64, raster []byte) *PK {
	flag := dynF<<4 | 7
	if black {
		flag |= 8
	}
	p.U1(flag).U4(int64(len(raster)+28)).U4(int64(code)).U4(Fix(tfm)).U4(dx).U4(dy)
	p.U4(w).U4(h).U4(hoff).U4(voff)
	p.B = append(p.B, raster...)
	return p
}

// Special writes an xxx1 special.
func (p *PK) Special(s string) *PK { p.U1(240, len(s)).Str(s); return p }

// Bytes writes the postamble.
func (p *PK) Bytes() []byte {
	p.U1(245)
	for len(p.B)%4 != 0 {
		p.U1(246)
	}
	return p.B
}
