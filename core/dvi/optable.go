package dvi

import "github.com/npillmayer/texbin/core/opcode"

// Opcode bytes with a fixed meaning.
const (
	SET1     byte = 128
	SETRULE  byte = 132
	PUT1     byte = 133
	PUTRULE  byte = 137
	NOP      byte = 138
	BOP      byte = 139
	EOP      byte = 140
	PUSH     byte = 141
	POP      byte = 142
	RIGHT1   byte = 143
	W0       byte = 147
	X0       byte = 152
	DOWN1    byte = 157
	Y0       byte = 161
	Z0       byte = 166
	FNTNUM0  byte = 171
	FNT1     byte = 235
	XXX1     byte = 239
	FNTDEF1  byte = 243
	PRE      byte = 247
	POST     byte = 248
	POSTPOST byte = 249
	TRAILER  byte = 223
)

// Kinds of DVI opcodes.
const (
	KSetChar opcode.Kind = iota
	KSet
	KSetRule
	KPut
	KPutRule
	KNop
	KBop
	KEop
	KPush
	KPop
	KRight
	KW0
	KW
	KX0
	KX
	KDown
	KY0
	KY
	KZ0
	KZ
	KFntNum
	KFnt
	KXXX
	KFntDef
	KPre
	KPost
	KPostPost
)

// fontDefParams are the parameters following the id of a fnt_def:
// checksum, scale, design size, area length and name length.
var fontDefParams = []int{4, 4, 4, 1, 1}

// Table is the opcode table for DVI files and VF character packets.
var Table = opcode.MustBuild("DVI",
	opcode.Range{From: 0, To: 127, Mnemonic: "set_char_", Kind: KSetChar, Indexed: true},
	opcode.Range{From: 128, To: 131, Mnemonic: "set", Kind: KSet, Sized: true},
	opcode.Range{From: 132, To: 132, Mnemonic: "set_rule", Kind: KSetRule, Params: []int{-4, -4}},
	opcode.Range{From: 133, To: 136, Mnemonic: "put", Kind: KPut, Sized: true},
	opcode.Range{From: 137, To: 137, Mnemonic: "put_rule", Kind: KPutRule, Params: []int{-4, -4}},
	opcode.Range{From: 138, To: 138, Mnemonic: "nop", Kind: KNop},
	opcode.Range{From: 139, To: 139, Mnemonic: "bop", Kind: KBop,
		Params: []int{-4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4}},
	opcode.Range{From: 140, To: 140, Mnemonic: "eop", Kind: KEop},
	opcode.Range{From: 141, To: 141, Mnemonic: "push", Kind: KPush},
	opcode.Range{From: 142, To: 142, Mnemonic: "pop", Kind: KPop},
	opcode.Range{From: 143, To: 146, Mnemonic: "right", Kind: KRight, Sized: true, Signed: true},
	opcode.Range{From: 147, To: 147, Mnemonic: "w0", Kind: KW0},
	opcode.Range{From: 148, To: 151, Mnemonic: "w", Kind: KW, Sized: true, Signed: true},
	opcode.Range{From: 152, To: 152, Mnemonic: "x0", Kind: KX0},
	opcode.Range{From: 153, To: 156, Mnemonic: "x", Kind: KX, Sized: true, Signed: true},
	opcode.Range{From: 157, To: 160, Mnemonic: "down", Kind: KDown, Sized: true, Signed: true},
	opcode.Range{From: 161, To: 161, Mnemonic: "y0", Kind: KY0},
	opcode.Range{From: 162, To: 165, Mnemonic: "y", Kind: KY, Sized: true, Signed: true},
	opcode.Range{From: 166, To: 166, Mnemonic: "z0", Kind: KZ0},
	opcode.Range{From: 167, To: 170, Mnemonic: "z", Kind: KZ, Sized: true, Signed: true},
	opcode.Range{From: 171, To: 234, Mnemonic: "fnt_num_", Kind: KFntNum, Indexed: true},
	opcode.Range{From: 235, To: 238, Mnemonic: "fnt", Kind: KFnt, Sized: true},
	opcode.Range{From: 239, To: 242, Mnemonic: "xxx", Kind: KXXX, Sized: true},
	opcode.Range{From: 243, To: 246, Mnemonic: "fnt_def", Kind: KFntDef, Sized: true, Params: fontDefParams},
	opcode.Range{From: 247, To: 247, Mnemonic: "pre", Kind: KPre, Params: []int{1, 4, 4, 4}},
	opcode.Range{From: 248, To: 248, Mnemonic: "post", Kind: KPost, Params: []int{4, 4, 4, 4, 4, 4, 2, 2}},
	opcode.Range{From: 249, To: 249, Mnemonic: "post_post", Kind: KPostPost, Params: []int{4, 1}},
)
