package dvi

import (
	"io"

	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/binread"
	"github.com/npillmayer/texbin/core/dimen"
	"github.com/npillmayer/texbin/core/opcode"
)

// ParseFile parses the DVI file at path. The file is memory-mapped for the
// duration of the parse.
func ParseFile(path string) (*Program, error) {
	r, err := binread.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// ParseBytes parses a DVI file held in memory.
func ParseBytes(b []byte) (*Program, error) {
	return Parse(binread.FromBytes(b))
}

// Parse decodes a complete DVI file: preamble, postamble with font
// definitions, then all pages.
func Parse(r *binread.Reader) (*Program, error) {
	p := &parser{r: r, prog: &Program{Fonts: make(map[int32]*Font)}}
	if err := p.preamble(); err != nil {
		return nil, err
	}
	lastBop, err := p.postamble()
	if err != nil {
		return nil, err
	}
	if err := p.pages(lastBop); err != nil {
		return nil, err
	}
	tracer().Infof("DVI: %d pages, %d fonts", len(p.prog.Pages), len(p.prog.Fonts))
	return p.prog, nil
}

type parser struct {
	r    *binread.Reader
	prog *Program
}

func (p *parser) expect(kind opcode.Kind, what string) (opcode.Instruction, error) {
	ins, err := Table.Decode(p.r)
	if err != nil {
		return ins, err
	}
	if ins.Kind != kind {
		return ins, core.Malformed("expected %s, found %s at offset %d", what, ins.Mnemonic, p.r.Pos()-1)
	}
	return ins, nil
}

func (p *parser) preamble() error {
	if _, err := p.r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	ins, err := p.expect(KPre, "PRE")
	if err != nil {
		return err
	}
	id := uint8(ins.Args[0])
	if id != 2 && id != 3 && id != 5 {
		return core.Malformed("unknown DVI format id %d", id)
	}
	p.prog.Format = id
	p.prog.Numerator = uint32(ins.Args[1])
	p.prog.Denominator = uint32(ins.Args[2])
	p.prog.Mag = uint32(ins.Args[3])
	if p.prog.Comment, err = p.r.ReadBCPL(); err != nil {
		return err
	}
	tracer().Debugf("DVI preamble: id=%d num=%d den=%d mag=%d %q", id, p.prog.Numerator,
		p.prog.Denominator, p.prog.Mag, p.prog.Comment)
	return nil
}

// locatePostamble scans backwards over the trailing 223 bytes and returns the
// offset of the POST opcode.
func (p *parser) locatePostamble() (int64, error) {
	size := p.r.Len()
	if size < 15 {
		return 0, core.Malformed("DVI file too short (%d bytes)", size)
	}
	for off := size - 4; off < size; off++ {
		if b, err := p.byteAt(off); err != nil {
			return 0, err
		} else if b != TRAILER {
			return 0, core.Malformed("DVI file must end with at least four 223 bytes")
		}
	}
	off := size - 5
	b, err := p.byteAt(off)
	for err == nil && b == TRAILER {
		off--
		if off < 5 {
			return 0, core.Malformed("DVI trailer consists of 223 bytes only")
		}
		b, err = p.byteAt(off)
	}
	if err != nil {
		return 0, err
	}
	if b != p.prog.Format {
		return 0, core.Malformed("trailing format id %d does not match preamble id %d", b, p.prog.Format)
	}
	if _, err = p.r.Seek(off-4, io.SeekStart); err != nil {
		return 0, err
	}
	q, err := p.r.ReadSigned(4)
	if err != nil {
		return 0, err
	}
	if q < 0 || int64(q) >= off-4 {
		return 0, core.Malformed("postamble pointer %d out of range", q)
	}
	return int64(q), nil
}

func (p *parser) byteAt(off int64) (byte, error) {
	if _, err := p.r.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return p.r.ReadByte()
}

// postamble reads the postamble and the font definitions following it. It
// returns the offset of the last page's BOP.
func (p *parser) postamble() (int64, error) {
	q, err := p.locatePostamble()
	if err != nil {
		return 0, err
	}
	if _, err = p.r.Seek(q, io.SeekStart); err != nil {
		return 0, err
	}
	ins, err := p.expect(KPost, "POST")
	if err != nil {
		return 0, err
	}
	a := ins.Args
	if uint32(a[1]) != p.prog.Numerator || uint32(a[2]) != p.prog.Denominator || uint32(a[3]) != p.prog.Mag {
		return 0, core.Malformed("postamble num/den/mag (%d/%d/%d) differ from preamble (%d/%d/%d)",
			a[1], a[2], a[3], p.prog.Numerator, p.prog.Denominator, p.prog.Mag)
	}
	p.prog.MaxHeight = dimen.Dimen(int32(a[4]))
	p.prog.MaxWidth = dimen.Dimen(int32(a[5]))
	p.prog.MaxStack = int(a[6])
	p.prog.PageCount = int(a[7])
	for {
		ins, err := Table.Decode(p.r)
		if err != nil {
			return 0, err
		}
		switch ins.Kind {
		case KNop:
		case KFntDef:
			if _, err := p.defineFont(ins); err != nil {
				return 0, err
			}
		case KPostPost:
			if int64(int32(ins.Args[0])) != q {
				return 0, core.Malformed("post_post points to %d, expected %d", int32(ins.Args[0]), q)
			}
			return int64(int32(a[0])), nil
		default:
			return 0, core.Malformed("unexpected %s in postamble", ins.Mnemonic)
		}
	}
}

// defineFont reads the name part of a fnt_def and registers the font.
// Repeated definitions must agree with the first one.
func (p *parser) defineFont(ins opcode.Instruction) (*Font, error) {
	f, err := readFontDef(p.r, ins)
	if err != nil {
		return nil, err
	}
	if prev, ok := p.prog.Fonts[f.ID]; ok {
		if !prev.Equal(f) {
			return nil, core.Malformed("font %d redefined incompatibly (%s vs %s)", f.ID, prev, f)
		}
		return prev, nil
	}
	tracer().Debugf("DVI %s", f)
	p.prog.Fonts[f.ID] = f
	return f, nil
}

// readFontDef completes a decoded fnt_def by reading area and name.
// Scale and design size are taken as they are; VF files interpret them
// differently (see package vf).
func readFontDef(r *binread.Reader, ins opcode.Instruction) (*Font, error) {
	a := ins.Args
	names, err := r.ReadBytes(int(a[4] + a[5]))
	if err != nil {
		return nil, err
	}
	return &Font{
		ID:         int32(a[0]),
		Checksum:   uint32(a[1]),
		Scale:      dimen.Dimen(int32(a[2])),
		DesignSize: dimen.Dimen(int32(a[3])),
		Area:       string(names[:a[4]]),
		Name:       string(names[a[4]:]),
	}, nil
}

// ReadFontDef decodes a font definition whose opcode byte has already been
// consumed from r. It is used by the VF parser.
func ReadFontDef(op byte, r *binread.Reader) (*Font, error) {
	ins, err := Table.DecodeParams(op, r)
	if err != nil {
		return nil, err
	}
	if ins.Kind != KFntDef {
		return nil, core.Malformed("expected fnt_def, found %s", ins.Mnemonic)
	}
	return readFontDef(r, ins)
}

// pages walks the BOP back-pointers from the last page to the first.
func (p *parser) pages(bop int64) error {
	p.prog.Pages = make([]*Page, p.prog.PageCount)
	n := p.prog.PageCount
	for bop != -1 {
		n--
		if n < 0 {
			return core.Malformed("more pages than the %d announced in the postamble", p.prog.PageCount)
		}
		if _, err := p.r.Seek(bop, io.SeekStart); err != nil {
			return err
		}
		ins, err := p.expect(KBop, "BOP")
		if err != nil {
			return err
		}
		pg := newPage(n)
		for i := 0; i < 10; i++ {
			pg.Counts[i] = int32(ins.Args[i])
		}
		dec := decoder{r: p.r, page: pg, defineFont: p.defineFont}
		if err := dec.run(true); err != nil {
			return err
		}
		tracer().Debugf("DVI page %d: %d opcodes", n, len(pg.Opcodes))
		p.prog.Pages[n] = pg
		prev := int64(int32(ins.Args[10]))
		if prev != -1 && prev >= bop {
			return core.Malformed("BOP pointer %d does not point backwards from %d", prev, bop)
		}
		bop = prev
	}
	if n != 0 {
		return core.Malformed("found %d pages, postamble announces %d", p.prog.PageCount-n, p.prog.PageCount)
	}
	return nil
}

// ParseSubroutine decodes a DVI fragment without BOP/EOP, as stored in VF
// character packets. Font definitions are not allowed inside fragments.
func ParseSubroutine(b []byte) (*Page, error) {
	pg := newPage(0)
	dec := decoder{r: binread.FromBytes(b), page: pg}
	if err := dec.run(false); err != nil {
		return nil, err
	}
	return pg, nil
}

// decoder turns opcodes into a page's instruction sequence.
type decoder struct {
	r          *binread.Reader
	page       *Page
	font       int32
	hasFont    bool
	defineFont func(opcode.Instruction) (*Font, error)
}

// run decodes until EOP (for pages) or until the end of input (for
// fragments).
func (d *decoder) run(untilEOP bool) error {
	for {
		if !untilEOP && d.r.Remaining() == 0 {
			return nil
		}
		ins, err := Table.Decode(d.r)
		if err != nil {
			return err
		}
		a := ins.Args
		switch ins.Kind {
		case KSetChar:
			d.char(true, uint32(ins.Index()))
		case KSet:
			d.char(true, uint32(a[0]))
		case KPut:
			d.char(false, uint32(a[0]))
		case KSetRule, KPutRule:
			d.emit(Rule{Set: ins.Kind == KSetRule, Height: dimen.Dimen(a[0]), Width: dimen.Dimen(a[1])})
			d.page.NumberOfRules++
		case KNop:
		case KEop:
			if untilEOP {
				return nil
			}
			return core.Malformed("eop inside a character packet")
		case KPush:
			d.emit(Push{})
		case KPop:
			d.emit(Pop{N: 1})
		case KRight:
			d.emit(Move{Axis: Horizontal, Amount: dimen.Dimen(a[0])})
		case KDown:
			d.emit(Move{Axis: Vertical, Amount: dimen.Dimen(a[0])})
		case KW0, KX0, KY0, KZ0:
			d.emit(MoveReg{Reg: regOf(ins.Kind)})
		case KW, KX, KY, KZ:
			d.emit(MoveReg{Reg: regOf(ins.Kind), Set: true, Amount: dimen.Dimen(a[0])})
		case KFntNum:
			d.selectFont(int32(ins.Index()))
		case KFnt:
			d.selectFont(int32(a[0]))
		case KXXX:
			data, err := d.r.ReadBytes(int(a[0]))
			if err != nil {
				return err
			}
			d.emit(Special{Data: data})
		case KFntDef:
			if d.defineFont == nil {
				return core.Malformed("fnt_def inside a character packet")
			}
			if _, err := d.defineFont(ins); err != nil {
				return err
			}
		case opcode.Undefined:
			tracer().Debugf("skipping undefined opcode %d at offset %d", ins.Opcode, d.r.Pos()-1)
		default:
			return core.Malformed("unexpected %s at offset %d", ins.Mnemonic, d.r.Pos()-1)
		}
	}
}

func regOf(k opcode.Kind) Register {
	switch k {
	case KX0, KX:
		return X
	case KY0, KY:
		return Y
	case KZ0, KZ:
		return Z
	}
	return W
}

func (d *decoder) emit(op Opcode) {
	d.page.Opcodes = append(d.page.Opcodes, op)
}

func (d *decoder) selectFont(id int32) {
	d.font, d.hasFont = id, true
	d.emit(SelectFont{ID: id})
}

// char appends a character, extending the previous opcode if it is a
// character opcode of the same kind.
func (d *decoder) char(set bool, code uint32) {
	if d.hasFont {
		d.page.NumberOfChars[d.font]++
	}
	if n := len(d.page.Opcodes); n > 0 {
		if prev, ok := d.page.Opcodes[n-1].(Char); ok && prev.Set == set {
			prev.Codes = append(prev.Codes, code)
			d.page.Opcodes[n-1] = prev
			return
		}
	}
	d.emit(Char{Set: set, Codes: []uint32{code}})
}
