package pk

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/binread"
	"github.com/npillmayer/texbin/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unpackerFor(dynF int, b ...byte) *unpacker {
	return &unpacker{nybbles: nybbles{data: b}, dynF: dynF}
}

func TestPackedNumDirect(t *testing.T) {
	n, err := unpackerFor(10, 0x20).packedNum()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPackedNumEscape(t *testing.T) {
	assert.Equal(t, 168, largeRunCount(5, 2))
	// nybbles 0 1 0: one leading zero, then two hex digits 0x10
	n, err := unpackerFor(2, 0x01, 0x00).packedNum()
	require.NoError(t, err)
	assert.Equal(t, largeRunCount(16, 2), n)
	assert.Equal(t, 179, n)
}

func TestPackedNumTwoNybbles(t *testing.T) {
	n, err := unpackerFor(2, 0x54).packedNum()
	require.NoError(t, err)
	assert.Equal(t, (5-2-1)*16+4+2+1, n)
}

func TestPackedNumRepeat(t *testing.T) {
	u := unpackerFor(2, 0xf1)
	n, err := u.packedNum()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, u.repeat)
	u = unpackerFor(2, 0xe2, 0x10)
	n, err = u.packedNum()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, u.repeat)
	_, err = unpackerFor(2, 0xff, 0x10).packedNum()
	assert.Equal(t, core.EMALFORMED, core.Code(err))
	_, err = unpackerFor(2).packedNum()
	assert.Equal(t, core.EEOF, core.Code(err))
}

func TestDecodeRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.pk")
	defer teardown()
	//
	g := &Glyph{Width: 4, Height: 3, DynF: 13, FirstBlack: true, Raster: []byte{0x22, 0x23, 0x21}}
	bm, err := g.Bitmap()
	require.NoError(t, err)
	assert.Equal(t, "##..\n##..\n.##.\n", bm.String())
	assert.Equal(t, 6, bm.BlackPixels())
	//
	g = &Glyph{Width: 4, Height: 3, DynF: 13, FirstBlack: true, Raster: []byte{0xf2, 0x32, 0x10}}
	bm, err = g.Bitmap()
	require.NoError(t, err)
	assert.Equal(t, "##..\n##..\n.##.\n", bm.String())
	again, _ := g.Bitmap()
	assert.Same(t, bm, again)
}

func TestDecodeLiteral(t *testing.T) {
	g := &Glyph{Width: 3, Height: 3, DynF: 14, Raster: []byte{0xaa, 0x80}}
	bm, err := g.Bitmap()
	require.NoError(t, err)
	assert.Equal(t, "#.#\n.#.\n#.#\n", bm.String())
	assert.True(t, bm.At(2, 2))
	assert.False(t, bm.At(3, 0))
	mask := bm.Mask()
	assert.Equal(t, uint8(0xff), mask.AlphaAt(1, 1).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(1, 0).A)
	img := bm.Image()
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xff), img.GrayAt(1, 0).Y)
}

func TestDecodeOverflow(t *testing.T) {
	g := &Glyph{Width: 2, Height: 1, DynF: 13, FirstBlack: true, Raster: []byte{0x30}}
	_, err := g.Bitmap()
	assert.Equal(t, core.EMALFORMED, core.Code(err))
}

func TestOversizedGlyph(t *testing.T) {
	g := &Glyph{Width: 65536, Height: 32768, DynF: 14, Raster: []byte{0xff}}
	_, err := g.Bitmap()
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
	g = &Glyph{Width: 64, Height: 64, DynF: 14, Raster: []byte{0xff}}
	_, err = g.Bitmap()
	assert.Equal(t, core.EEOF, core.Code(err))
	g = &Glyph{Width: 8193, Height: 8192, DynF: 8, Raster: []byte{0x11}}
	_, err = g.Bitmap()
	assert.Equal(t, core.EUNSUPPORTED, core.Code(err))
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.pk")
	defer teardown()
	//
	p := fixtures.NewPK(10, 600)
	p.Special("mag=1")
	p.ShortChar('A', 13, true, 0.75, 62, 4, 3, -1, 3, []byte{0x22, 0x23, 0x21})
	p.LongChar(300, 14, false, 0.5, 41<<16, 0, 3, 3, 0, 3, []byte{0xaa, 0x80})
	f, err := ParseBytes(p.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "pk fixture", f.Comment)
	assert.Equal(t, binread.ToFixWord(10), f.DesignSize)
	assert.InDelta(t, 600.0, f.Resolution(), 0.01)
	assert.Equal(t, []string{"mag=1"}, f.Specials)
	require.Len(t, f.Glyphs, 2)
	a, ok := f.Glyph('A')
	require.True(t, ok)
	assert.Equal(t, 4, a.Width)
	assert.Equal(t, 3, a.Height)
	assert.Equal(t, int32(-1), a.HOffset)
	assert.Equal(t, int32(62<<16), a.DX)
	assert.Equal(t, binread.ToFixWord(0.75), a.TFMWidth)
	bm, err := a.Bitmap()
	require.NoError(t, err)
	assert.Equal(t, "##..\n##..\n.##.\n", bm.String())
	big, ok := f.Glyph(300)
	require.True(t, ok)
	assert.Equal(t, 14, big.DynF)
	bm, err = big.Bitmap()
	require.NoError(t, err)
	assert.Equal(t, 5, bm.BlackPixels())
}

func TestParseErrors(t *testing.T) {
	_, err := ParseBytes([]byte{247, 90})
	assert.Equal(t, core.EMALFORMED, core.Code(err))
	p := fixtures.NewPK(10, 600)
	p.U1(250)
	_, err = ParseBytes(p.Bytes())
	assert.Equal(t, core.EMALFORMED, core.Code(err))
	p = fixtures.NewPK(10, 600)
	p.ShortChar('A', 13, true, 0.75, 62, 4, 3, -1, 3, []byte{0x22, 0x23, 0x21})
	b := p.Bytes()
	_, err = ParseBytes(b[:len(b)-8])
	assert.Error(t, err)
}
