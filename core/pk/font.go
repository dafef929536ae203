package pk

import (
	"fmt"
	"sync"

	"github.com/npillmayer/texbin/core/binread"
)

// Font is a decoded PK file.
type Font struct {
	Comment    string
	DesignSize binread.FixWord
	Checksum   uint32
	HPPP, VPPP int32 // pixels per point, scaled by 2^16
	Glyphs     map[uint32]*Glyph
	Specials   []string
}

// Resolution returns the horizontal resolution in dots per inch.
func (f *Font) Resolution() float64 {
	return float64(f.HPPP) / 65536.0 * 72.27
}

// Glyph returns the glyph for a character code.
func (f *Font) Glyph(code uint32) (*Glyph, bool) {
	g, ok := f.Glyphs[code]
	return g, ok
}

// Glyph is a character of a PK font. Its bitmap is decoded lazily.
type Glyph struct {
	Code       uint32
	TFMWidth   binread.FixWord
	DX, DY     int32 // escapement in pixels, scaled by 2^16
	Width      int   // bitmap width in pixels
	Height     int
	HOffset    int32 // position of the reference point within the bitmap
	VOffset    int32
	DynF       int
	FirstBlack bool
	Raster     []byte

	once   sync.Once
	bitmap *Bitmap
	err    error
}

func (g *Glyph) String() string {
	return fmt.Sprintf("glyph %d: %dx%d off (%d,%d) dx=%.2f dyn_f=%d", g.Code, g.Width, g.Height,
		g.HOffset, g.VOffset, float64(g.DX)/65536, g.DynF)
}

// Bitmap decodes the glyph's raster on first call and returns the cached
// result afterwards. It is safe for concurrent use.
func (g *Glyph) Bitmap() (*Bitmap, error) {
	g.once.Do(func() {
		g.bitmap, g.err = decodeRaster(g)
		if g.err != nil {
			tracer().Errorf("PK glyph %d: %v", g.Code, g.err)
		}
	})
	return g.bitmap, g.err
}
