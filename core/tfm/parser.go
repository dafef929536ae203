package tfm

import (
	"io"

	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/binread"
)

// ParseFile parses the TFM file at path.
func ParseFile(path string) (*Font, error) {
	r, err := binread.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// ParseBytes parses a TFM file held in memory.
func ParseBytes(b []byte) (*Font, error) {
	return Parse(binread.FromBytes(b))
}

// layout holds the twelve length words of a TFM file and the derived
// table offsets (in words).
type layout struct {
	lf, lh, bc, ec, nw, nh, nd, ni, nl, nk, ne, np int
	header, charInfo, width, height, depth, italic, ligKern, kern, exten, param, end int
}

func readLayout(r *binread.Reader) (*layout, error) {
	var w [12]int
	for i := range w {
		u, err := r.ReadUnsigned(2)
		if err != nil {
			return nil, err
		}
		w[i] = int(u)
	}
	l := &layout{lf: w[0], lh: w[1], bc: w[2], ec: w[3], nw: w[4], nh: w[5],
		nd: w[6], ni: w[7], nl: w[8], nk: w[9], ne: w[10], np: w[11]}
	if l.bc > l.ec+1 || l.ec > 255 {
		return nil, core.Malformed("TFM character range %d…%d invalid", l.bc, l.ec)
	}
	if l.bc > l.ec {
		l.bc, l.ec = 1, 0
	}
	if l.lh < 2 || l.nw < 1 || l.nh < 1 || l.nd < 1 || l.ni < 1 {
		return nil, core.Malformed("TFM table lengths invalid")
	}
	if l.nh > 16 || l.nd > 16 || l.ni > 64 || l.nw > 256 || l.ne > 256 {
		return nil, core.Malformed("TFM dimension tables too long")
	}
	l.header = 6
	l.charInfo = l.header + l.lh
	l.width = l.charInfo + l.ec - l.bc + 1
	l.height = l.width + l.nw
	l.depth = l.height + l.nh
	l.italic = l.depth + l.nd
	l.ligKern = l.italic + l.ni
	l.kern = l.ligKern + l.nl
	l.exten = l.kern + l.nk
	l.param = l.exten + l.ne
	l.end = l.param + l.np
	if l.end != l.lf {
		return nil, core.Malformed("TFM length %d words, tables add up to %d", l.lf, l.end)
	}
	return l, nil
}

// Parse decodes a TFM file.
func Parse(r *binread.Reader) (*Font, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	l, err := readLayout(r)
	if err != nil {
		return nil, err
	}
	if int64(l.end)*4 != r.Len() {
		return nil, core.Malformed("TFM file has %d bytes, tables need %d", r.Len(), l.end*4)
	}
	p := &parser{r: r, l: l, font: &Font{BC: l.bc, EC: l.ec, Chars: make(map[uint32]*Char)}}
	if err = p.header(); err != nil {
		return nil, err
	}
	if err = p.tables(); err != nil {
		return nil, err
	}
	if err = p.chars(); err != nil {
		return nil, err
	}
	tracer().Debugf("TFM %q: %d chars, design size %s", p.font.Family, len(p.font.Chars), p.font.DesignSize)
	return p.font, nil
}

type parser struct {
	r                             *binread.Reader
	l                             *layout
	font                          *Font
	widths, heights, depths, ital []binread.FixWord
	kerns                         []binread.FixWord
	exten                         []Extensible
}

func (p *parser) seekWord(w int) error {
	_, err := p.r.Seek(int64(w)*4, io.SeekStart)
	return err
}

func (p *parser) header() error {
	f, l := p.font, p.l
	if err := p.seekWord(l.header); err != nil {
		return err
	}
	chk, err := p.r.ReadUnsigned(4)
	if err != nil {
		return err
	}
	f.Checksum = chk
	if f.DesignSize, err = p.r.ReadFixWord(); err != nil {
		return err
	}
	if f.DesignSize < binread.FixUnity {
		return core.Malformed("TFM design size %s too small", f.DesignSize)
	}
	if l.lh >= 12 {
		if f.CodingScheme, err = p.r.ReadBCPLField(40); err != nil {
			return err
		}
		if f.CodingScheme == "EULER SUBSTITUTIONS ONLY" {
			return core.Error(core.EUNSUPPORTED, "TFM coding scheme %q not supported", f.CodingScheme)
		}
	}
	if l.lh >= 17 {
		if f.Family, err = p.r.ReadBCPLField(20); err != nil {
			return err
		}
	}
	if l.lh >= 18 {
		b, err := p.r.ReadBytes(4)
		if err != nil {
			return err
		}
		f.SevenBitSafe = b[0]&0x80 != 0
		f.Face = b[3]
	}
	return nil
}

func (p *parser) fixWords(start, n int) ([]binread.FixWord, error) {
	if err := p.seekWord(start); err != nil {
		return nil, err
	}
	fw := make([]binread.FixWord, n)
	for i := range fw {
		v, err := p.r.ReadFixWord()
		if err != nil {
			return nil, err
		}
		fw[i] = v
	}
	return fw, nil
}

func (p *parser) tables() (err error) {
	l := p.l
	if p.widths, err = p.fixWords(l.width, l.nw); err != nil {
		return
	}
	if p.heights, err = p.fixWords(l.height, l.nh); err != nil {
		return
	}
	if p.depths, err = p.fixWords(l.depth, l.nd); err != nil {
		return
	}
	if p.ital, err = p.fixWords(l.italic, l.ni); err != nil {
		return
	}
	if p.widths[0] != 0 || p.heights[0] != 0 || p.depths[0] != 0 || p.ital[0] != 0 {
		return core.Malformed("TFM dimension tables must start with zero")
	}
	if p.kerns, err = p.fixWords(l.kern, l.nk); err != nil {
		return
	}
	if p.font.Params, err = p.fixWords(l.param, l.np); err != nil {
		return
	}
	if err = p.ligKernTable(); err != nil {
		return
	}
	return p.extensibles()
}

func (p *parser) ligKernTable() error {
	l := p.l
	if err := p.seekWord(l.ligKern); err != nil {
		return err
	}
	lk := make([]LigKern, l.nl)
	for i := range lk {
		b, err := p.r.ReadBytes(4)
		if err != nil {
			return err
		}
		skip, next, op, rem := b[0], b[1], b[2], b[3]
		ins := LigKern{Stop: skip >= 128, Next: next, skip: skip, op: op, rem: rem}
		if op >= 128 {
			k := 256*int(op-128) + int(rem)
			if k >= len(p.kerns) {
				// only valid for redirections, which are never interpreted as kerns
				if skip <= 128 {
					return core.Malformed("TFM kern index %d out of range", k)
				}
			} else {
				ins.Kern = p.kerns[k]
			}
			ins.IsKern = true
		} else {
			ins.Lig = Ligature{
				Char:        rem,
				PassOver:    int(op >> 2),
				KeepCurrent: op&2 != 0,
				KeepNext:    op&1 != 0,
			}
		}
		lk[i] = ins
	}
	if len(lk) > 0 && lk[0].skip == 255 {
		return core.Error(core.EUNSUPPORTED, "TFM right boundary character not supported")
	}
	if len(lk) > 0 && lk[len(lk)-1].skip == 255 {
		return core.Error(core.EUNSUPPORTED, "TFM left boundary character not supported")
	}
	p.font.ligKern = lk
	return nil
}

func (p *parser) extensibles() error {
	if err := p.seekWord(p.l.exten); err != nil {
		return err
	}
	p.exten = make([]Extensible, p.l.ne)
	for i := range p.exten {
		b, err := p.r.ReadBytes(4)
		if err != nil {
			return err
		}
		p.exten[i] = Extensible{Top: b[0], Mid: b[1], Bot: b[2], Rep: b[3]}
	}
	return nil
}

// ligKernStart resolves the start of a lig/kern program, following the
// redirection used by fonts with more than 256 instructions.
func (p *parser) ligKernStart(rem int) (int, error) {
	lk := p.font.ligKern
	if rem >= len(lk) {
		return 0, core.Malformed("TFM lig/kern index %d out of range", rem)
	}
	if first := lk[rem]; first.skip > 128 {
		raw := 256*int(first.op) + int(first.rem)
		if raw >= len(lk) {
			return 0, core.Malformed("TFM lig/kern redirection to %d out of range", raw)
		}
		return raw, nil
	}
	return rem, nil
}

func (p *parser) chars() error {
	l := p.l
	infos := make([][]byte, 0, l.ec-l.bc+1)
	if err := p.seekWord(l.charInfo); err != nil {
		return err
	}
	for c := l.bc; c <= l.ec; c++ {
		b, err := p.r.ReadBytes(4)
		if err != nil {
			return err
		}
		infos = append(infos, b)
	}
	for i, b := range infos {
		code := uint32(l.bc + i)
		wi, hi, di, ii, tag, rem := int(b[0]), int(b[1]>>4), int(b[1]&0xf), int(b[2]>>2), b[2]&3, int(b[3])
		if wi == 0 {
			continue // not in font
		}
		if wi >= len(p.widths) || hi >= len(p.heights) || di >= len(p.depths) || ii >= len(p.ital) {
			return core.Malformed("TFM char %d: dimension index out of range", code)
		}
		ch := &Char{
			Code:       code,
			Width:      p.widths[wi],
			Height:     p.heights[hi],
			Depth:      p.depths[di],
			Italic:     p.ital[ii],
			ligKern:    -1,
			NextLarger: -1,
		}
		switch tag {
		case 1:
			start, err := p.ligKernStart(rem)
			if err != nil {
				return err
			}
			ch.ligKern = start
		case 2:
			ch.NextLarger = rem
		case 3:
			if rem >= len(p.exten) {
				return core.Malformed("TFM char %d: extensible index %d out of range", code, rem)
			}
			x := p.exten[rem]
			ch.Extensible = &x
		}
		p.font.Chars[code] = ch
	}
	return nil
}
