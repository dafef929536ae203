/*
Package opcode builds immutable opcode tables for TeX's byte-coded formats.

DVI, VF and PK files interleave one-byte opcodes with fixed-width parameters.
Opcodes come in ranges (set1…set4, fnt_num_0…fnt_num_63), so tables are
described by a list of ranges and expanded once into 256 slots. Slots no range
covers decode as undefined.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package opcode

import (
	"fmt"

	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/binread"
)

// Kind classifies an opcode. Its values are defined by each format package.
type Kind int

// Undefined is the kind of slots not covered by any range.
const Undefined Kind = -1

// Range describes consecutive opcodes sharing one meaning.
//
// Params lists parameter widths in bytes; a negative width denotes a signed
// parameter. If Sized is set, the opcode carries an additional leading
// parameter whose width is opcode-From+1, signed if Signed is set. Indexed
// ranges number their mnemonics from 0 (fnt_num_0, fnt_num_1, …).
type Range struct {
	From, To byte
	Mnemonic string
	Kind     Kind
	Params   []int
	Sized    bool
	Signed   bool
	Indexed  bool
}

// Descriptor describes one opcode of a table.
type Descriptor struct {
	Opcode   byte
	Base     byte // first opcode of the range this one belongs to
	Mnemonic string
	Kind     Kind
	Widths   []int // effective parameter widths, negative for signed
}

// Defined is false for slots no range covered.
func (d *Descriptor) Defined() bool {
	return d.Kind != Undefined
}

// Index returns the position of the opcode within its range.
func (d *Descriptor) Index() int {
	return int(d.Opcode) - int(d.Base)
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(%d)", d.Mnemonic, d.Opcode)
}

// Table maps each byte to a descriptor. Tables are immutable once built and
// may be shared between goroutines.
type Table struct {
	format string
	slots  [256]Descriptor
}

// Build expands a list of ranges into a table. Overlapping ranges or
// inverted ranges are an error.
func Build(format string, ranges ...Range) (*Table, error) {
	t := &Table{format: format}
	covered := [256]bool{}
	for _, rg := range ranges {
		if rg.To < rg.From {
			return nil, core.Error(core.EINVALID, "%s: inverted opcode range %q", format, rg.Mnemonic)
		}
		if rg.Sized && int(rg.To-rg.From) > 3 {
			return nil, core.Error(core.EINVALID, "%s: sized range %q wider than 4", format, rg.Mnemonic)
		}
		for op := int(rg.From); op <= int(rg.To); op++ {
			if covered[op] {
				return nil, core.Error(core.EINVALID, "%s: opcode %d defined twice", format, op)
			}
			covered[op] = true
			t.slots[op] = describe(byte(op), rg)
		}
	}
	for op := 0; op < 256; op++ {
		if !covered[op] {
			t.slots[op] = Descriptor{Opcode: byte(op), Base: byte(op), Mnemonic: "undefined", Kind: Undefined}
		}
	}
	return t, nil
}

// MustBuild is like Build, but panics on error. Intended for package-level tables.
func MustBuild(format string, ranges ...Range) *Table {
	t, err := Build(format, ranges...)
	if err != nil {
		panic(err)
	}
	return t
}

func describe(op byte, rg Range) Descriptor {
	d := Descriptor{Opcode: op, Base: rg.From, Mnemonic: rg.Mnemonic, Kind: rg.Kind}
	if rg.Sized {
		w := int(op-rg.From) + 1
		if rg.Signed {
			w = -w
		}
		d.Widths = append(d.Widths, w)
		if rg.To > rg.From {
			d.Mnemonic = fmt.Sprintf("%s%d", rg.Mnemonic, op-rg.From+1)
		}
	} else if rg.Indexed {
		d.Mnemonic = fmt.Sprintf("%s%d", rg.Mnemonic, op-rg.From)
	}
	d.Widths = append(d.Widths, rg.Params...)
	return d
}

// Format returns the name of the format the table was built for.
func (t *Table) Format() string {
	return t.format
}

// Lookup returns the descriptor for an opcode.
func (t *Table) Lookup(op byte) *Descriptor {
	return &t.slots[op]
}

// Instruction is a decoded opcode together with its fixed-width parameters.
// Variable-length payloads (special strings, font names) are left in the
// input for the caller to read.
type Instruction struct {
	*Descriptor
	Args []int64
}

// Decode reads one opcode and its fixed-width parameters.
func (t *Table) Decode(r *binread.Reader) (Instruction, error) {
	op, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}
	return t.DecodeParams(op, r)
}

// DecodeParams reads the parameters of an opcode already consumed from r.
func (t *Table) DecodeParams(op byte, r *binread.Reader) (Instruction, error) {
	d := &t.slots[op]
	ins := Instruction{Descriptor: d}
	if len(d.Widths) == 0 {
		return ins, nil
	}
	ins.Args = make([]int64, len(d.Widths))
	for i, w := range d.Widths {
		if w < 0 {
			s, err := r.ReadSigned(-w)
			if err != nil {
				return ins, err
			}
			ins.Args[i] = int64(s)
		} else {
			u, err := r.ReadUnsigned(w)
			if err != nil {
				return ins, err
			}
			ins.Args[i] = int64(u)
		}
	}
	return ins, nil
}
