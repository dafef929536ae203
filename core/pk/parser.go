package pk

import (
	"io"

	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/binread"
	"github.com/npillmayer/texbin/core/opcode"
)

// Kinds of PK commands.
const (
	KChar opcode.Kind = iota
	KXXX
	KYYY
	KPost
	KNop
	KPre
)

// PK identification byte following PRE.
const pkID = 89

// Table is the command table for PK files. Bytes 248–255 are undefined and
// rejected.
var Table = opcode.MustBuild("PK",
	opcode.Range{From: 0, To: 239, Mnemonic: "char_flag_", Kind: KChar, Indexed: true},
	opcode.Range{From: 240, To: 243, Mnemonic: "xxx", Kind: KXXX, Sized: true},
	opcode.Range{From: 244, To: 244, Mnemonic: "yyy", Kind: KYYY, Params: []int{4}},
	opcode.Range{From: 245, To: 245, Mnemonic: "post", Kind: KPost},
	opcode.Range{From: 246, To: 246, Mnemonic: "no_op", Kind: KNop},
	opcode.Range{From: 247, To: 247, Mnemonic: "pre", Kind: KPre, Params: []int{1}},
)

// ParseFile parses the PK file at path.
func ParseFile(path string) (*Font, error) {
	r, err := binread.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// ParseBytes parses a PK file held in memory.
func ParseBytes(b []byte) (*Font, error) {
	return Parse(binread.FromBytes(b))
}

// Parse decodes a PK file. Glyph rasters are copied out of r, so r may be
// closed afterwards.
func Parse(r *binread.Reader) (*Font, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	f := &Font{Glyphs: make(map[uint32]*Glyph)}
	if err := preamble(r, f); err != nil {
		return nil, err
	}
	for {
		ins, err := Table.Decode(r)
		if err != nil {
			return nil, err
		}
		switch ins.Kind {
		case KChar:
			g, err := readGlyph(r, ins.Opcode)
			if err != nil {
				return nil, err
			}
			if _, dup := f.Glyphs[g.Code]; dup {
				return nil, core.Malformed("PK character %d defined twice", g.Code)
			}
			f.Glyphs[g.Code] = g
		case KXXX:
			s, err := r.ReadBytes(int(ins.Args[0]))
			if err != nil {
				return nil, err
			}
			f.Specials = append(f.Specials, string(s))
		case KYYY, KNop:
		case KPost:
			tracer().Debugf("PK %q: %d glyphs at %.0f dpi", f.Comment, len(f.Glyphs), f.Resolution())
			return f, nil
		default:
			return nil, core.Malformed("unexpected PK command %s at offset %d", ins.Mnemonic, r.Pos()-1)
		}
	}
}

func preamble(r *binread.Reader, f *Font) error {
	ins, err := Table.Decode(r)
	if err != nil {
		return err
	}
	if ins.Kind != KPre || ins.Args[0] != pkID {
		return core.Malformed("not a PK file")
	}
	if f.Comment, err = r.ReadBCPL(); err != nil {
		return err
	}
	if f.DesignSize, err = r.ReadFixWord(); err != nil {
		return err
	}
	if f.Checksum, err = r.ReadUnsigned(4); err != nil {
		return err
	}
	if f.HPPP, err = r.ReadSigned(4); err != nil {
		return err
	}
	f.VPPP, err = r.ReadSigned(4)
	return err
}

// field widths of the three character preamble formats: packet length
// width, then code, tfm width, escapement, size and offset widths.
type charFormat struct {
	pl, code, tfm, esc, size, off int
	fixed                          int // preamble bytes following the char code
}

var (
	shortForm    = charFormat{pl: 1, code: 1, tfm: 3, esc: 1, size: 1, off: 1, fixed: 8}
	extendedForm = charFormat{pl: 2, code: 1, tfm: 3, esc: 2, size: 2, off: 2, fixed: 13}
	longForm     = charFormat{pl: 4, code: 4, tfm: 4, esc: 4, size: 4, off: 4, fixed: 28}
)

// readGlyph reads a character packet. The flag byte has already been read.
func readGlyph(r *binread.Reader, flag byte) (*Glyph, error) {
	g := &Glyph{DynF: int(flag >> 4), FirstBlack: flag&8 != 0}
	var cf charFormat
	switch low := flag & 7; {
	case low < 4:
		cf = shortForm
	case low < 7:
		cf = extendedForm
	default:
		cf = longForm
	}
	pl, err := r.ReadUnsigned(cf.pl)
	if err != nil {
		return nil, err
	}
	if cf.pl < 4 {
		pl += uint32(flag&3) << (8 * cf.pl)
	}
	code, err := r.ReadUnsigned(cf.code)
	if err != nil {
		return nil, err
	}
	g.Code = code
	start := r.Pos()
	tfm, err := r.ReadUnsigned(cf.tfm)
	if err != nil {
		return nil, err
	}
	g.TFMWidth = binread.FixWord(tfm)
	dx, err := r.ReadUnsigned(cf.esc)
	if err != nil {
		return nil, err
	}
	if cf == longForm {
		g.DX = int32(dx)
		if g.DY, err = r.ReadSigned(4); err != nil {
			return nil, err
		}
	} else {
		g.DX = int32(dx) << 16
	}
	w, err := r.ReadUnsigned(cf.size)
	if err != nil {
		return nil, err
	}
	h, err := r.ReadUnsigned(cf.size)
	if err != nil {
		return nil, err
	}
	g.Width, g.Height = int(w), int(h)
	if g.HOffset, err = r.ReadSigned(cf.off); err != nil {
		return nil, err
	}
	if g.VOffset, err = r.ReadSigned(cf.off); err != nil {
		return nil, err
	}
	if consumed := r.Pos() - start; consumed != int64(cf.fixed) {
		return nil, core.Error(core.EINTERNAL, "PK preamble size %d, expected %d", consumed, cf.fixed)
	}
	n := int64(pl) - int64(cf.fixed)
	if n < 0 {
		return nil, core.Malformed("PK packet length %d shorter than preamble", pl)
	}
	if g.Raster, err = r.ReadBytes(int(n)); err != nil {
		return nil, err
	}
	return g, nil
}
