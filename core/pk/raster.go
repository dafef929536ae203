package pk

import "github.com/npillmayer/texbin/core"

// nybbles reads 4-bit units from a byte slice, high nybble first.
type nybbles struct {
	data []byte
	pos  int // in nybbles
}

func (n *nybbles) next() (int, error) {
	if n.pos/2 >= len(n.data) {
		return 0, core.Error(core.EEOF, "PK raster exhausted after %d nybbles", n.pos)
	}
	b := n.data[n.pos/2]
	n.pos++
	if n.pos%2 == 1 {
		return int(b >> 4), nil
	}
	return int(b & 0xf), nil
}

// unpacker decodes run lengths with the PK packed number code.
type unpacker struct {
	nybbles
	dynF   int
	repeat int // pending repeat count for the current row
}

// MaxGlyphPixels limits the raster size of a single glyph. A glyph of
// 8192×8192 pixels is far beyond any PK font in practice.
const MaxGlyphPixels = 8192 * 8192

// largeRunCount computes a run length from the magnitude j of an escaped
// (zero-prefixed) packed number.
func largeRunCount(j, dynF int) int {
	return j - 15 + (13-dynF)*16 + dynF
}

// packedNum decodes the next run length. Nybbles 14 and 15 set the repeat
// count of the current row and are followed by the actual run length.
func (u *unpacker) packedNum() (int, error) {
	i, err := u.next()
	if err != nil {
		return 0, err
	}
	switch {
	case i == 0:
		j := 0
		for j == 0 {
			if j, err = u.next(); err != nil {
				return 0, err
			}
			i++
		}
		for ; i > 0; i-- {
			k, err := u.next()
			if err != nil {
				return 0, err
			}
			j = j*16 + k
		}
		return largeRunCount(j, u.dynF), nil
	case i <= u.dynF:
		return i, nil
	case i < 14:
		k, err := u.next()
		if err != nil {
			return 0, err
		}
		return (i-u.dynF-1)*16 + k + u.dynF + 1, nil
	}
	if u.repeat != 0 {
		return 0, core.Malformed("PK: second repeat count for a row")
	}
	u.repeat = 1
	if i == 14 {
		if u.repeat, err = u.packedNum(); err != nil {
			return 0, err
		}
	}
	return u.packedNum()
}

func decodeRaster(g *Glyph) (*Bitmap, error) {
	if g.Width < 0 || g.Height < 0 {
		return nil, core.Malformed("PK glyph %d: negative size %dx%d", g.Code, g.Width, g.Height)
	}
	pixels := int64(g.Width) * int64(g.Height)
	if pixels > MaxGlyphPixels {
		return nil, core.Error(core.EUNSUPPORTED, "PK glyph %d: %dx%d pixels exceed limit of %d",
			g.Code, g.Width, g.Height, MaxGlyphPixels)
	}
	if g.DynF == 14 && pixels > int64(len(g.Raster))*8 {
		return nil, core.Error(core.EEOF, "PK literal raster of %d bytes too short for %d pixels",
			len(g.Raster), pixels)
	}
	bm := newBitmap(g.Width, g.Height)
	if g.Width == 0 || g.Height == 0 {
		return bm, nil
	}
	if g.DynF == 14 {
		return bm, decodeLiteral(g, bm)
	}
	return bm, decodeRuns(g, bm)
}

// decodeLiteral reads an uncompressed raster, most significant bit first,
// without padding at row ends.
func decodeLiteral(g *Glyph, bm *Bitmap) error {
	n := g.Width * g.Height
	var b byte
	var weight byte
	for i, k := 0, 0; i < n; i++ {
		if weight == 0 {
			b, weight = g.Raster[k], 0x80
			k++
		}
		if b&weight != 0 {
			bm.bits.Set(uint(i))
		}
		weight >>= 1
	}
	return nil
}

// decodeRuns fills the bitmap from alternating black and white runs. A
// completed row is duplicated as often as the row's repeat count says.
func decodeRuns(g *Glyph, bm *Bitmap) error {
	u := &unpacker{nybbles: nybbles{data: g.Raster}, dynF: g.DynF}
	w := g.Width
	black := g.FirstBlack
	row, x := 0, 0 // current row and column
	for row < g.Height {
		count, err := u.packedNum()
		if err != nil {
			return err
		}
		for count > 0 {
			n := count
			if n > w-x {
				n = w - x
			}
			if black {
				for i := 0; i < n; i++ {
					bm.bits.Set(uint(row*w + x + i))
				}
			}
			x += n
			count -= n
			if x < w {
				continue
			}
			if row+u.repeat >= g.Height {
				return core.Malformed("PK glyph %d: rows exceed height %d", g.Code, g.Height)
			}
			for r := 1; r <= u.repeat; r++ {
				copyRow(bm, row, row+r)
			}
			row += u.repeat + 1
			u.repeat, x = 0, 0
			if row >= g.Height && count > 0 {
				return core.Malformed("PK glyph %d: run exceeds raster", g.Code)
			}
		}
		black = !black
	}
	return nil
}

func copyRow(bm *Bitmap, from, to int) {
	w := bm.Width
	for x := 0; x < w; x++ {
		if bm.bits.Test(uint(from*w + x)) {
			bm.bits.Set(uint(to*w + x))
		}
	}
}
