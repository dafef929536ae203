package dvimachine

import (
	"github.com/npillmayer/texbin/core/dimen"
	"github.com/npillmayer/texbin/core/dvi"
	"github.com/npillmayer/texbin/core/pk"
)

// Painter receives the marks of a page in paint mode.
//
// PaintRule gets the lower left corner of the rule. PaintChar gets the
// reference point of the character, its box (from TFM metrics), the font
// it belongs to and that font's bitmaps, which may be nil.
type Painter interface {
	PaintRule(x, y, w, h dimen.Dimen) error
	PaintChar(x, y dimen.Dimen, box dimen.Rect, font *PhysicalFont, device *pk.Font, code uint32) error
}

// ColorSetter may be implemented by a Painter to be told about colour
// changes.
type ColorSetter interface {
	SetColor(c dvi.Color)
}

// SpecialHandler may be implemented by a Painter to receive specials which
// the machine does not interpret itself.
type SpecialHandler interface {
	Special(x, y dimen.Dimen, text string) error
}
