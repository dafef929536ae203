package dvimachine

import (
	"github.com/npillmayer/texbin/core/dvi"
	"github.com/npillmayer/texbin/core/font/fontmap"
	"github.com/npillmayer/texbin/core/pk"
	"github.com/npillmayer/texbin/core/tfm"
	"github.com/npillmayer/texbin/core/vf"
)

// Font is a font loaded for interpretation. It is either a *PhysicalFont or
// a *VirtualFont.
type Font interface {
	Definition() *dvi.Font
}

// FontTable maps DVI font numbers to loaded fonts.
type FontTable map[int32]Font

// PhysicalFont is a font with TFM metrics and, optionally, PK glyphs.
type PhysicalFont struct {
	Def *dvi.Font
	TFM *tfm.Font
	PK  *pk.Font       // nil if no bitmaps are available
	Map *fontmap.Entry // nil if the font is not in a font map
}

// Definition returns the font's definition.
func (f *PhysicalFont) Definition() *dvi.Font { return f.Def }

// VirtualFont is a font whose characters are DVI subroutines. Remap
// translates the virtual font's local font numbers to numbers of the
// machine's font table.
type VirtualFont struct {
	Def   *dvi.Font
	VF    *vf.Font
	Remap map[int32]int32
}

// Definition returns the font's definition.
func (f *VirtualFont) Definition() *dvi.Font { return f.Def }

var _ Font = (*PhysicalFont)(nil)
var _ Font = (*VirtualFont)(nil)
