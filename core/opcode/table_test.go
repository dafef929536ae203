package opcode

import (
	"testing"

	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/binread"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kChar Kind = iota
	kMove
	kFont
	kStop
)

func testTable(t *testing.T) *Table {
	tbl, err := Build("test",
		Range{From: 0, To: 9, Mnemonic: "char", Kind: kChar, Indexed: true},
		Range{From: 10, To: 13, Mnemonic: "move", Kind: kMove, Sized: true, Signed: true},
		Range{From: 14, To: 15, Mnemonic: "font", Kind: kFont, Sized: true, Params: []int{4, -2}},
		Range{From: 16, To: 16, Mnemonic: "stop", Kind: kStop},
	)
	require.NoError(t, err)
	return tbl
}

func TestTableSlots(t *testing.T) {
	tbl := testTable(t)
	assert.Equal(t, "char7", tbl.Lookup(7).Mnemonic)
	assert.Equal(t, 7, tbl.Lookup(7).Index())
	assert.Equal(t, "move3", tbl.Lookup(12).Mnemonic)
	assert.Equal(t, []int{-3}, tbl.Lookup(12).Widths)
	assert.Equal(t, []int{2, 4, -2}, tbl.Lookup(15).Widths)
	assert.Equal(t, "stop", tbl.Lookup(16).Mnemonic)
	assert.False(t, tbl.Lookup(200).Defined())
	assert.True(t, tbl.Lookup(16).Defined())
}

func TestTableDecode(t *testing.T) {
	tbl := testTable(t)
	r := binread.FromBytes([]byte{
		11, 0xff, 0xfe, // move2 -2
		14, 0x05, 0x00, 0x00, 0x01, 0x00, 0xff, 0xff, // font1 5, 256, -1
		200, // undefined
	})
	ins, err := tbl.Decode(r)
	require.NoError(t, err)
	assert.Equal(t, kMove, ins.Kind)
	assert.Equal(t, []int64{-2}, ins.Args)
	ins, err = tbl.Decode(r)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 256, -1}, ins.Args)
	ins, err = tbl.Decode(r)
	require.NoError(t, err)
	assert.Equal(t, Undefined, ins.Kind)
	_, err = tbl.Decode(r)
	assert.Equal(t, core.EEOF, core.Code(err))
}

func TestTableBuildErrors(t *testing.T) {
	_, err := Build("overlap",
		Range{From: 0, To: 5, Mnemonic: "a"},
		Range{From: 5, To: 6, Mnemonic: "b"})
	assert.Error(t, err)
	_, err = Build("wide", Range{From: 0, To: 5, Mnemonic: "a", Sized: true})
	assert.Error(t, err)
	assert.Panics(t, func() { MustBuild("inverted", Range{From: 5, To: 0, Mnemonic: "x"}) })
}
