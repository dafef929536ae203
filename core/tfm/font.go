package tfm

import (
	"fmt"

	"github.com/npillmayer/texbin/core/binread"
	"github.com/npillmayer/texbin/core/dimen"
)

// Font holds the metrics of a TFM file.
type Font struct {
	Checksum     uint32
	DesignSize   binread.FixWord // in points
	CodingScheme string
	Family       string
	SevenBitSafe bool
	Face         uint8
	BC, EC       int // smallest and largest character code
	Chars        map[uint32]*Char
	Params       []binread.FixWord // Params[0] is TeX's param[1]
	ligKern      []LigKern
}

// Char holds the metrics of a single character.
type Char struct {
	Code       uint32
	Width      binread.FixWord
	Height     binread.FixWord
	Depth      binread.FixWord
	Italic     binread.FixWord
	ligKern    int // start index into the lig/kern program, -1 if none
	NextLarger int // next larger character in a chain, -1 if none
	Extensible *Extensible
}

// Extensible is the recipe for a character built from pieces.
// Top, Mid and Bot are 0 if absent.
type Extensible struct {
	Top, Mid, Bot, Rep uint8
}

// LigKern is one instruction of a lig/kern program.
type LigKern struct {
	Stop   bool  // last instruction of a program
	Next   uint8 // the instruction applies if this character follows
	IsKern bool
	Kern   binread.FixWord
	Lig    Ligature

	skip, op, rem uint8
}

// Ligature describes the replacement performed by a ligature instruction.
// The inserted character goes between the current and the next one; the
// flags tell which of them survive, PassOver how many characters to skip
// afterwards.
type Ligature struct {
	Char        uint8
	PassOver    int
	KeepCurrent bool
	KeepNext    bool
}

// HasLigKern is true if the character starts a lig/kern program.
func (c *Char) HasLigKern() bool {
	return c.ligKern >= 0
}

func (c *Char) String() string {
	return fmt.Sprintf("char %d: w=%s h=%s d=%s i=%s", c.Code, c.Width, c.Height, c.Depth, c.Italic)
}

// Design returns the design size in scaled points.
func (f *Font) Design() dimen.Dimen {
	return f.DesignSize.Dimen()
}

// Char returns the metrics of character code, if present.
func (f *Font) Char(code uint32) (*Char, bool) {
	c, ok := f.Chars[code]
	return c, ok
}

// Param returns TeX's font parameter n (1-based), or 0 if the font has fewer
// parameters.
func (f *Font) Param(n int) binread.FixWord {
	if n < 1 || n > len(f.Params) {
		return 0
	}
	return f.Params[n-1]
}

// Slant is font parameter 1. Unlike the other parameters it is not relative
// to the design size.
func (f *Font) Slant() binread.FixWord { return f.Param(1) }

// Space is the interword space.
func (f *Font) Space() binread.FixWord { return f.Param(2) }

// SpaceStretch is the interword stretch.
func (f *Font) SpaceStretch() binread.FixWord { return f.Param(3) }

// SpaceShrink is the interword shrink.
func (f *Font) SpaceShrink() binread.FixWord { return f.Param(4) }

// XHeight is the height of an x.
func (f *Font) XHeight() binread.FixWord { return f.Param(5) }

// Quad is the width of an em.
func (f *Font) Quad() binread.FixWord { return f.Param(6) }

// ExtraSpace is the space added after sentences.
func (f *Font) ExtraSpace() binread.FixWord { return f.Param(7) }

// LigKernProgram returns the lig/kern instructions of character c.
func (f *Font) LigKernProgram(c uint32) []LigKern {
	ch, ok := f.Chars[c]
	if !ok || !ch.HasLigKern() {
		return nil
	}
	var prog []LigKern
	for i := ch.ligKern; i < len(f.ligKern); {
		ins := f.ligKern[i]
		prog = append(prog, ins)
		if ins.Stop {
			break
		}
		i += int(ins.skip) + 1
	}
	return prog
}

// lookup finds the first instruction of left's program triggered by right.
func (f *Font) lookup(left, right uint32) (LigKern, bool) {
	for _, ins := range f.LigKernProgram(left) {
		if uint32(ins.Next) == right {
			return ins, true
		}
	}
	return LigKern{}, false
}

// Kern returns the kern between two characters, if the font defines one.
func (f *Font) Kern(left, right uint32) (binread.FixWord, bool) {
	ins, ok := f.lookup(left, right)
	if !ok || !ins.IsKern {
		return 0, false
	}
	return ins.Kern, true
}

// Ligature returns the ligature formed by two characters, if any.
func (f *Font) Ligature(left, right uint32) (Ligature, bool) {
	ins, ok := f.lookup(left, right)
	if !ok || ins.IsKern {
		return Ligature{}, false
	}
	return ins.Lig, true
}

// Scaled converts a fix_word metric of this font to scaled points for the
// font used at size z.
func (f *Font) Scaled(fw binread.FixWord, z dimen.Dimen) dimen.Dimen {
	return fw.Scale(z)
}
