package dvi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/npillmayer/texbin/core/dimen"
)

// Program is a decoded DVI file. Lengths are in DVI units, which for files
// written by TeX are scaled points.
type Program struct {
	Comment     string
	Format      uint8 // 2 (DVI), 3 (DVIV) or 5 (XDVI)
	Numerator   uint32
	Denominator uint32
	Mag         uint32 // magnification × 1000
	MaxHeight   dimen.Dimen
	MaxWidth    dimen.Dimen
	MaxStack    int
	PageCount   int
	Fonts       map[int32]*Font
	Pages       []*Page // index = page number
}

// Conversion returns the number of device pixels per DVI unit at a given
// resolution, taking magnification into account.
func (prog *Program) Conversion(dpi float64) float64 {
	if prog.Denominator == 0 {
		return 0
	}
	c := float64(prog.Numerator) / 254000.0 * dpi / float64(prog.Denominator)
	return c * float64(prog.Mag) / 1000.0
}

// Simplify runs the simplification pass on every page.
func (prog *Program) Simplify() {
	for _, pg := range prog.Pages {
		pg.Simplify()
	}
}

// FontByName returns the first font definition with the given name.
func (prog *Program) FontByName(name string) (*Font, bool) {
	for _, f := range prog.Fonts {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// NextFontID returns a font id not yet used by the program.
func (prog *Program) NextFontID() int32 {
	var max int32 = -1
	for id := range prog.Fonts {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Page is the decoded instruction sequence of one page.
type Page struct {
	Number        int
	Counts        [10]int32 // \count0 … \count9 as recorded by BOP
	Opcodes       []Opcode
	NumberOfRules int
	NumberOfChars map[int32]int // per font id
	PaperSize     *dimen.Point  // from a papersize special, if any
	Landscape     bool
}

func newPage(n int) *Page {
	return &Page{Number: n, NumberOfChars: make(map[int32]int)}
}

// Font is a font definition as found in fnt_def opcodes.
type Font struct {
	ID         int32
	Checksum   uint32
	Scale      dimen.Dimen // at-size
	DesignSize dimen.Dimen
	Area, Name string
}

// Magnification returns scale/design size as an exact rational.
func (f *Font) Magnification() *big.Rat {
	if f.DesignSize == 0 {
		return new(big.Rat)
	}
	return big.NewRat(int64(f.Scale), int64(f.DesignSize))
}

// FullName returns area and name concatenated, as TeX does.
func (f *Font) FullName() string {
	return f.Area + f.Name
}

// Equal compares two definitions, disregarding the id.
func (f *Font) Equal(other *Font) bool {
	return f.Checksum == other.Checksum && f.Scale == other.Scale &&
		f.DesignSize == other.DesignSize && f.FullName() == other.FullName()
}

func (f *Font) String() string {
	return fmt.Sprintf("font %d: %s at %.2fpt (design size %.2fpt)", f.ID, f.FullName(),
		f.Scale.Points(), f.DesignSize.Points())
}

// --- Opcodes ---------------------------------------------------------------

// Opcode is a decoded DVI instruction. The set of variants is closed.
type Opcode interface {
	isOpcode()
	String() string
}

// Char typesets one or more characters. Set advances h after each character,
// put leaves h unchanged.
type Char struct {
	Set   bool
	Codes []uint32
}

// Rule typesets a filled rectangle with its lower left corner at (h,v).
type Rule struct {
	Set           bool
	Height, Width dimen.Dimen
}

// Push saves the registers.
type Push struct{}

// Pop restores the registers N times.
type Pop struct {
	N int
}

// PushColor pushes a colour on the colour stack.
type PushColor struct {
	Color Color
}

// PopColor drops N colours from the colour stack.
type PopColor struct {
	N int
}

// Axis is the direction of a move.
type Axis uint8

// Axes
const (
	Horizontal Axis = iota
	Vertical
)

// Move moves right (horizontal) or down (vertical) by a fixed amount.
type Move struct {
	Axis   Axis
	Amount dimen.Dimen
}

// Register is one of the spacing registers w, x, y, z.
type Register uint8

// Spacing registers. W and X move horizontally, Y and Z vertically.
const (
	W Register = iota
	X
	Y
	Z
)

func (r Register) String() string {
	return [...]string{"w", "x", "y", "z"}[r]
}

// Axis returns the direction a register moves in.
func (r Register) Axis() Axis {
	if r == Y || r == Z {
		return Vertical
	}
	return Horizontal
}

// MoveReg moves by the contents of a spacing register. If Set is true,
// the register is loaded with Amount first (w1…w4 etc.), otherwise its
// current contents are used (w0 etc.).
type MoveReg struct {
	Reg    Register
	Set    bool
	Amount dimen.Dimen
}

// SelectFont makes a font current.
type SelectFont struct {
	ID int32
}

// Special carries the payload of an xxx opcode.
type Special struct {
	Data []byte
}

func (Char) isOpcode()       {}
func (Rule) isOpcode()       {}
func (Push) isOpcode()       {}
func (Pop) isOpcode()        {}
func (PushColor) isOpcode()  {}
func (PopColor) isOpcode()   {}
func (Move) isOpcode()       {}
func (MoveReg) isOpcode()    {}
func (SelectFont) isOpcode() {}
func (Special) isOpcode()    {}

func (c Char) String() string {
	var b strings.Builder
	if c.Set {
		b.WriteString("set_char")
	} else {
		b.WriteString("put_char")
	}
	for _, code := range c.Codes {
		if code >= 32 && code < 127 {
			fmt.Fprintf(&b, " '%c'", rune(code))
		} else {
			fmt.Fprintf(&b, " %d", code)
		}
	}
	return b.String()
}

func (r Rule) String() string {
	op := "put_rule"
	if r.Set {
		op = "set_rule"
	}
	return fmt.Sprintf("%s height %d width %d", op, r.Height, r.Width)
}

func (Push) String() string { return "push" }

func (p Pop) String() string {
	if p.N == 1 {
		return "pop"
	}
	return fmt.Sprintf("pop %d", p.N)
}

func (c PushColor) String() string { return "push_color " + c.Color.String() }

func (c PopColor) String() string {
	if c.N == 1 {
		return "pop_color"
	}
	return fmt.Sprintf("pop_color %d", c.N)
}

func (m Move) String() string {
	if m.Axis == Vertical {
		return fmt.Sprintf("down %d", m.Amount)
	}
	return fmt.Sprintf("right %d", m.Amount)
}

func (m MoveReg) String() string {
	if m.Set {
		return fmt.Sprintf("%s %d", m.Reg, m.Amount)
	}
	return m.Reg.String() + "0"
}

func (f SelectFont) String() string { return fmt.Sprintf("fnt %d", f.ID) }

func (s Special) String() string { return fmt.Sprintf("xxx %q", decodeSpecial(s.Data)) }

// Text returns the special's payload decoded as Latin-1 text.
func (s Special) Text() string { return decodeSpecial(s.Data) }
