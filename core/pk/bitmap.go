package pk

import (
	"image"
	"image/color"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Bitmap is a monochrome glyph raster. Set bits are black.
type Bitmap struct {
	Width, Height int
	bits          *bitset.BitSet
}

func newBitmap(w, h int) *Bitmap {
	return &Bitmap{Width: w, Height: h, bits: bitset.New(uint(w * h))}
}

// At reports whether the pixel at (x,y) is black. (0,0) is top left.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.bits.Test(uint(y*b.Width + x))
}

// BlackPixels returns the number of black pixels.
func (b *Bitmap) BlackPixels() int {
	return int(b.bits.Count())
}

// Mask returns the bitmap as an alpha mask, opaque where pixels are black.
func (b *Bitmap) Mask() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, b.Width, b.Height))
	for i, ok := b.bits.NextSet(0); ok; i, ok = b.bits.NextSet(i + 1) {
		img.SetAlpha(int(i)%b.Width, int(i)/b.Width, color.Alpha{A: 0xff})
	}
	return img
}

// Image returns the bitmap as black ink on white paper.
func (b *Bitmap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if !b.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return img
}

// String renders the bitmap as text, '#' for black and '.' for white pixels.
func (b *Bitmap) String() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.At(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
