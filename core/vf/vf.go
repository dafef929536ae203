package vf

import (
	"io"
	"sync"

	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/binread"
	"github.com/npillmayer/texbin/core/dimen"
	"github.com/npillmayer/texbin/core/dvi"
	"github.com/npillmayer/texbin/core/opcode"
)

// Font is a decoded virtual font.
type Font struct {
	Comment    string
	Checksum   uint32
	DesignSize binread.FixWord // in points
	Fonts      map[int32]*dvi.Font // local font definitions at the design size
	FirstFont  int32               // local font current at the start of every packet
	Chars      map[uint32]*Character
	scales     map[int32]binread.FixWord
}

// Design returns the design size in scaled points.
func (f *Font) Design() dimen.Dimen {
	return f.DesignSize.Dimen()
}

// ScaledFonts returns the local font definitions for the virtual font used
// at size atSize.
func (f *Font) ScaledFonts(atSize dimen.Dimen) map[int32]*dvi.Font {
	m := make(map[int32]*dvi.Font, len(f.Fonts))
	for id, def := range f.Fonts {
		scaled := *def
		scaled.Scale = f.scales[id].Scale(atSize)
		m[id] = &scaled
	}
	return m
}

// Character is a character of a virtual font.
type Character struct {
	Code     uint32
	TFMWidth binread.FixWord
	Packet   []byte // DVI commands

	once sync.Once
	prog *dvi.Page
	err  error
}

// Program decodes the character's packet on first call and caches it.
func (c *Character) Program() ([]dvi.Opcode, error) {
	c.once.Do(func() {
		c.prog, c.err = dvi.ParseSubroutine(c.Packet)
	})
	if c.err != nil {
		return nil, c.err
	}
	return c.prog.Opcodes, nil
}

// Kinds of VF commands.
const (
	KShortChar opcode.Kind = iota
	KLongChar
	KFntDef
	KPre
	KPost
)

const vfID = 202

// Table is the command table for VF files.
var Table = opcode.MustBuild("VF",
	opcode.Range{From: 0, To: 241, Mnemonic: "short_char_", Kind: KShortChar, Indexed: true,
		Params: []int{1, 3}},
	opcode.Range{From: 242, To: 242, Mnemonic: "long_char", Kind: KLongChar, Params: []int{4, 4, 4}},
	opcode.Range{From: 243, To: 246, Mnemonic: "fnt_def", Kind: KFntDef},
	opcode.Range{From: 247, To: 247, Mnemonic: "pre", Kind: KPre, Params: []int{1}},
	opcode.Range{From: 248, To: 248, Mnemonic: "post", Kind: KPost},
)

// ParseFile parses the VF file at path.
func ParseFile(path string) (*Font, error) {
	r, err := binread.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// ParseBytes parses a VF file held in memory.
func ParseBytes(b []byte) (*Font, error) {
	return Parse(binread.FromBytes(b))
}

// Parse decodes a virtual font.
func Parse(r *binread.Reader) (*Font, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	f := &Font{
		Fonts:  make(map[int32]*dvi.Font),
		Chars:  make(map[uint32]*Character),
		scales: make(map[int32]binread.FixWord),
	}
	if err := preamble(r, f); err != nil {
		return nil, err
	}
	for {
		op, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if Table.Lookup(op).Kind == KFntDef {
			if err := f.defineFont(op, r); err != nil {
				return nil, err
			}
			continue
		}
		ins, err := Table.DecodeParams(op, r)
		if err != nil {
			return nil, err
		}
		switch ins.Kind {
		case KShortChar:
			err = f.addChar(r, int64(ins.Opcode), ins.Args[0], ins.Args[1])
		case KLongChar:
			err = f.addChar(r, ins.Args[0], ins.Args[1], int64(int32(ins.Args[2])))
		case KPost:
			tracer().Debugf("VF %q: %d chars, %d local fonts", f.Comment, len(f.Chars), len(f.Fonts))
			return f, nil
		default:
			err = core.Malformed("unexpected VF command %s at offset %d", ins.Mnemonic, r.Pos()-1)
		}
		if err != nil {
			return nil, err
		}
	}
}

func preamble(r *binread.Reader, f *Font) error {
	ins, err := Table.Decode(r)
	if err != nil {
		return err
	}
	if ins.Kind != KPre || ins.Args[0] != vfID {
		return core.Malformed("not a VF file")
	}
	if f.Comment, err = r.ReadBCPL(); err != nil {
		return err
	}
	if f.Checksum, err = r.ReadUnsigned(4); err != nil {
		return err
	}
	f.DesignSize, err = r.ReadFixWord()
	return err
}

// defineFont reads a local font definition. Its scale is a fix_word relative
// to the virtual font's size, its design size a fix_word in points.
func (f *Font) defineFont(op byte, r *binread.Reader) error {
	def, err := dvi.ReadFontDef(op, r)
	if err != nil {
		return err
	}
	if _, dup := f.Fonts[def.ID]; dup {
		return core.Malformed("VF local font %d defined twice", def.ID)
	}
	raw := binread.FixWord(def.Scale)
	f.scales[def.ID] = raw
	def.Scale = raw.Scale(f.Design())
	def.DesignSize = binread.FixWord(def.DesignSize).Dimen()
	tracer().Debugf("VF local %s", def)
	if len(f.Fonts) == 0 {
		f.FirstFont = def.ID
	}
	f.Fonts[def.ID] = def
	return nil
}

func (f *Font) addChar(r *binread.Reader, length, code, width int64) error {
	packet, err := r.ReadBytes(int(length))
	if err != nil {
		return err
	}
	if _, dup := f.Chars[uint32(code)]; dup {
		return core.Malformed("VF character %d defined twice", code)
	}
	f.Chars[uint32(code)] = &Character{
		Code:     uint32(code),
		TFMWidth: binread.FixWord(width),
		Packet:   packet,
	}
	return nil
}
