package binread

import (
	"io"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/dimen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIntegers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.binread")
	defer teardown()
	//
	r := FromBytes([]byte{0xff, 0xfe, 0x01, 0x02, 0x03, 0x80, 0x00, 0x00, 0x00})
	u, err := r.ReadUnsigned(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xfffe), u)
	u, err = r.ReadUnsigned(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x010203), u)
	s, err := r.ReadSigned(4)
	require.NoError(t, err)
	assert.Equal(t, int32(-2147483648), s)
	assert.Equal(t, int64(9), r.Pos())
	_, err = r.ReadByte()
	assert.Equal(t, core.EEOF, core.Code(err))
}

func TestSignedUnsignedRelation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.binread")
	defer teardown()
	//
	inputs := [][]byte{{0x80}, {0xff}, {0xfe, 0x00}, {0x80, 0x00, 0x01}, {0x7f}, {0x12, 0x34}}
	for _, in := range inputs {
		n := len(in)
		u, err := FromBytes(in).ReadUnsigned(n)
		require.NoError(t, err)
		s, err := FromBytes(in).ReadSigned(n)
		require.NoError(t, err)
		if s < 0 {
			assert.Equal(t, int64(u), int64(s)+int64(1)<<(8*n), "input % x", in)
		} else {
			assert.Equal(t, int64(u), int64(s), "input % x", in)
		}
	}
}

func TestFixWord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.binread")
	defer teardown()
	//
	r := FromBytes([]byte{0x00, 0x10, 0x00, 0x00, 0xff, 0xf8, 0x00, 0x00})
	f, err := r.ReadFixWord()
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.Float())
	f, err = r.ReadFixWord()
	require.NoError(t, err)
	assert.Equal(t, -0.5, f.Float())
	for _, x := range []float64{0, 1, -1, 0.25, 3.75, -7.5, 0.000000953674316} {
		assert.InDelta(t, x, ToFixWord(x).Float(), 1.0/(1<<20), "round trip of %v", x)
	}
}

func TestFixWordScale(t *testing.T) {
	z := 10 * dimen.PT
	assert.Equal(t, z, FixUnity.Scale(z))
	assert.Equal(t, -z, (-FixUnity).Scale(z))
	assert.Equal(t, z/2, ToFixWord(0.5).Scale(z))
	big := 200 * dimen.PT // z >= 2^23 takes the shifting path
	assert.Equal(t, big/4, ToFixWord(0.25).Scale(big))
	assert.Equal(t, 10*dimen.PT, ToFixWord(10).Dimen())
}

func TestBCPL(t *testing.T) {
	r := FromBytes([]byte{3, 'a', 'b', 'c', 2, 'T', 'X', 0, 0, 0})
	s, err := r.ReadBCPL()
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	s, err = r.ReadBCPLField(5)
	require.NoError(t, err)
	assert.Equal(t, "TX", s)
	assert.Equal(t, int64(1), r.Remaining())
	_, err = FromBytes([]byte{9, 'a'}).ReadBCPLField(2)
	assert.Equal(t, core.EMALFORMED, core.Code(err))
}

func TestSeek(t *testing.T) {
	r := FromBytes([]byte{1, 2, 3, 4, 5})
	pos, err := r.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)
	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(4), b)
	_, err = r.Seek(-1, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.Pos())
	_, err = r.Seek(6, io.SeekStart)
	assert.Equal(t, core.EEOF, core.Code(err))
	_, err = r.ReadBytes(3)
	assert.Equal(t, core.EEOF, core.Code(err))
}

func TestReadBytesBeyondInput(t *testing.T) {
	r := FromBytes([]byte{1, 2, 3})
	_, err := r.ReadBytes(1 << 31)
	assert.Equal(t, core.EEOF, core.Code(err))
	assert.Equal(t, int64(0), r.Pos(), "failed read must not move the cursor")
	b, err := r.ReadBytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
}
