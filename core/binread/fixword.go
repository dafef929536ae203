package binread

import (
	"fmt"
	"math"

	"github.com/npillmayer/texbin/core/dimen"
)

// FixWord is TeX's fixed-point number: a signed 32-bit integer with 20
// fractional bits. Font metrics are fix_words relative to a font's design size.
type FixWord int32

// FixUnity is the fix_word for 1.0.
const FixUnity FixWord = 1 << 20

// Float returns f as a floating point value.
func (f FixWord) Float() float64 {
	return float64(f) / float64(FixUnity)
}

// ToFixWord converts x to the nearest fix_word.
func ToFixWord(x float64) FixWord {
	return FixWord(math.Round(x * float64(FixUnity)))
}

func (f FixWord) String() string {
	return fmt.Sprintf("%.6f", f.Float())
}

// Scale multiplies f by the scaled size z, exactly as TeX does for TFM
// widths: the product is computed in integer arithmetic with truncation.
// Fix_words whose magnitude is 16 or more, or sizes of 2048pt or more, fall
// back to floating point rounding.
func (f FixWord) Scale(z dimen.Dimen) dimen.Dimen {
	u := uint32(f)
	b0 := int64(u >> 24)
	b1, b2, b3 := int64(u>>16&0xff), int64(u>>8&0xff), int64(u&0xff)
	zz, alpha := int64(z), int64(16)
	for zz >= 0x800000 {
		zz /= 2
		alpha += alpha
	}
	if zz < 0 || alpha > 256 || (b0 != 0 && b0 != 255) {
		return dimen.Dimen(math.Round(f.Float() * float64(z)))
	}
	beta := 256 / alpha
	alpha *= zz
	w := (((b3*zz)/256+b2*zz)/256 + b1*zz) / beta
	if b0 == 255 {
		w -= alpha
	}
	return dimen.Dimen(w)
}

// Dimen interprets f as a length in printer's points (as TFM design sizes and
// VF design sizes are stored) and converts it to scaled points.
func (f FixWord) Dimen() dimen.Dimen {
	return dimen.Dimen(int32(f) >> 4)
}
