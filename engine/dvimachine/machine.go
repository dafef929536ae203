package dvimachine

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/dimen"
	"github.com/npillmayer/texbin/core/dvi"
)

// DefaultMaxDepth is the default nesting bound for virtual font characters.
const DefaultMaxDepth = 16

// Registers is the DVI machine's register set.
type Registers struct {
	H, V       dimen.Dimen // current position
	W, X, Y, Z dimen.Dimen // spacing registers
}

func (r *Registers) reg(reg dvi.Register) *dimen.Dimen {
	switch reg {
	case dvi.X:
		return &r.X
	case dvi.Y:
		return &r.Y
	case dvi.Z:
		return &r.Z
	}
	return &r.W
}

// frame is a virtual font call frame.
type frame struct {
	font    int32 // font of the caller
	hasFont bool
	base    int // register stack height at entry
	remap   map[int32]int32
}

// Machine executes DVI pages. A Machine is not safe for concurrent use;
// concurrent workers each need their own.
type Machine struct {
	fonts    FontTable
	maxDepth int
	regs     []Registers // top is current
	colors   *arraystack.Stack
	font     int32
	hasFont  bool
	frames   []frame
	painter  Painter // nil in bounding-box mode
	bbox     dimen.Rect
	hasBox   bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithMaxDepth bounds the nesting of virtual font characters.
func WithMaxDepth(depth int) Option {
	return func(m *Machine) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

// New creates a machine for a font table.
func New(fonts FontTable, opts ...Option) *Machine {
	m := &Machine{
		fonts:    fonts,
		maxDepth: DefaultMaxDepth,
		colors:   arraystack.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reset()
	return m
}

func (m *Machine) reset() {
	m.regs = append(m.regs[:0], Registers{H: dimen.IN, V: dimen.IN})
	m.colors.Clear()
	m.colors.Push(dvi.Black)
	m.font, m.hasFont = 0, false
	m.frames = m.frames[:0]
	m.bbox, m.hasBox = dimen.Rect{}, false
}

// Run executes a page in paint mode.
func (m *Machine) Run(page *dvi.Page, painter Painter) error {
	if painter == nil {
		return core.Error(core.EINVALID, "paint mode needs a painter")
	}
	m.reset()
	m.painter = painter
	defer func() { m.painter = nil }()
	tracer().Debugf("running page %d", page.Number)
	return m.exec(page.Opcodes)
}

// BoundingBox executes a page without painting and returns the union of
// the boxes of all characters and rules on it. A page without marks has an
// empty bounding box.
func (m *Machine) BoundingBox(page *dvi.Page) (dimen.Rect, error) {
	m.reset()
	m.painter = nil
	if err := m.exec(page.Opcodes); err != nil {
		return dimen.Rect{}, err
	}
	return m.bbox, nil
}

// Registers returns the current register values.
func (m *Machine) Registers() Registers {
	return m.regs[len(m.regs)-1]
}

// Depth returns the height of the register stack. It is 1 outside of any
// push.
func (m *Machine) Depth() int {
	return len(m.regs)
}

// Color returns the current colour.
func (m *Machine) Color() dvi.Color {
	c, _ := m.colors.Peek()
	return c.(dvi.Color)
}

func (m *Machine) top() *Registers {
	return &m.regs[len(m.regs)-1]
}

func (m *Machine) exec(ops []dvi.Opcode) error {
	for _, op := range ops {
		var err error
		switch o := op.(type) {
		case dvi.Char:
			err = m.chars(o)
		case dvi.Rule:
			err = m.rule(o)
		case dvi.Push:
			m.regs = append(m.regs, *m.top())
		case dvi.Pop:
			err = m.pop(o.N)
		case dvi.PushColor:
			m.pushColor(o.Color)
		case dvi.PopColor:
			err = m.popColor(o.N)
		case dvi.Move:
			m.move(o.Axis, o.Amount)
		case dvi.MoveReg:
			r := m.top().reg(o.Reg)
			if o.Set {
				*r = o.Amount
			}
			m.move(o.Reg.Axis(), *r)
		case dvi.SelectFont:
			err = m.selectFont(o.ID)
		case dvi.Special:
			err = m.special(o)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) move(axis dvi.Axis, amount dimen.Dimen) {
	if axis == dvi.Vertical {
		m.top().V += amount
	} else {
		m.top().H += amount
	}
}

func (m *Machine) pop(n int) error {
	floor := 1
	if len(m.frames) > 0 {
		floor = m.frames[len(m.frames)-1].base
	}
	if n < 0 || len(m.regs)-n < floor {
		return core.Malformed("pop of %d with register stack depth %d", n, len(m.regs)-floor+1)
	}
	m.regs = m.regs[:len(m.regs)-n]
	return nil
}

func (m *Machine) pushColor(c dvi.Color) {
	m.colors.Push(c)
	m.notifyColor()
}

func (m *Machine) popColor(n int) error {
	if n < 0 || m.colors.Size()-n < 1 {
		return core.Malformed("pop of %d colours with colour stack depth %d", n, m.colors.Size()-1)
	}
	for i := 0; i < n; i++ {
		m.colors.Pop()
	}
	m.notifyColor()
	return nil
}

func (m *Machine) notifyColor() {
	if cs, ok := m.painter.(ColorSetter); ok {
		cs.SetColor(m.Color())
	}
}

func (m *Machine) selectFont(id int32) error {
	if len(m.frames) > 0 {
		fr := m.frames[len(m.frames)-1]
		global, ok := fr.remap[id]
		if !ok {
			return core.Error(core.EMISSING, "virtual font selects undefined local font %d", id)
		}
		id = global
	}
	if _, ok := m.fonts[id]; !ok {
		return core.Error(core.EMISSING, "font %d is not defined", id)
	}
	m.font, m.hasFont = id, true
	return nil
}

func (m *Machine) special(s dvi.Special) error {
	text := strings.TrimSpace(s.Text())
	if strings.HasPrefix(text, "color ") {
		op, err := dvi.ParseColorSpecial(text)
		if err != nil {
			tracer().Debugf("ignoring special %q: %v", text, err)
			return nil
		}
		return m.exec([]dvi.Opcode{op})
	}
	if sh, ok := m.painter.(SpecialHandler); ok {
		r := m.top()
		return sh.Special(r.H, r.V, text)
	}
	return nil
}

func (m *Machine) rule(r dvi.Rule) error {
	regs := m.top()
	if r.Height > 0 && r.Width > 0 {
		if m.painter != nil {
			if err := m.painter.PaintRule(regs.H, regs.V, r.Width, r.Height); err != nil {
				return err
			}
		} else {
			m.addBox(dimen.Rect{
				TopL: dimen.Point{X: regs.H, Y: regs.V - r.Height},
				BotR: dimen.Point{X: regs.H + r.Width, Y: regs.V},
			})
		}
	}
	if r.Set {
		regs.H += r.Width
	}
	return nil
}

func (m *Machine) addBox(box dimen.Rect) {
	if !m.hasBox {
		m.bbox, m.hasBox = box, true
		return
	}
	m.bbox = m.bbox.Union(box)
}

func (m *Machine) currentFont() (Font, error) {
	if !m.hasFont {
		return nil, core.Error(core.EMISSING, "character typeset without a font")
	}
	f, ok := m.fonts[m.font]
	if !ok {
		return nil, core.Error(core.EMISSING, "font %d is not defined", m.font)
	}
	return f, nil
}

func (m *Machine) chars(c dvi.Char) error {
	f, err := m.currentFont()
	if err != nil {
		return err
	}
	for _, code := range c.Codes {
		var w dimen.Dimen
		switch font := f.(type) {
		case *PhysicalFont:
			w, err = m.physicalChar(font, code)
		case *VirtualFont:
			w, err = m.virtualChar(font, code)
		default:
			err = core.Error(core.EINTERNAL, "unknown font type %T", f)
		}
		if err != nil {
			return err
		}
		if c.Set {
			m.top().H += w
		}
	}
	return nil
}

func (m *Machine) physicalChar(font *PhysicalFont, code uint32) (dimen.Dimen, error) {
	ch, ok := font.TFM.Char(code)
	if !ok {
		return 0, core.Error(core.EMISSING, "character %d not in font %s", code, font.Def.Name)
	}
	z := font.Def.Scale
	w, h, d := font.TFM.Scaled(ch.Width, z), font.TFM.Scaled(ch.Height, z), font.TFM.Scaled(ch.Depth, z)
	r := m.top()
	box := dimen.Rect{
		TopL: dimen.Point{X: r.H, Y: r.V - h},
		BotR: dimen.Point{X: r.H + w, Y: r.V + d},
	}
	if m.painter == nil {
		m.addBox(box)
		return w, nil
	}
	return w, m.painter.PaintChar(r.H, r.V, box, font, font.PK, code)
}

// virtualChar runs a virtual character's packet in a new frame. The packet
// starts with h and v of the caller, zeroed spacing registers and the
// virtual font's first local font.
func (m *Machine) virtualChar(font *VirtualFont, code uint32) (dimen.Dimen, error) {
	vc, ok := font.VF.Chars[code]
	if !ok {
		return 0, core.Error(core.EMISSING, "character %d not in virtual font %s", code, font.Def.Name)
	}
	if len(m.frames) >= m.maxDepth {
		return 0, core.Error(core.EUNSUPPORTED, "virtual fonts nested deeper than %d", m.maxDepth)
	}
	ops, err := vc.Program()
	if err != nil {
		return 0, err
	}
	r := m.top()
	m.regs = append(m.regs, Registers{H: r.H, V: r.V})
	m.frames = append(m.frames, frame{
		font:    m.font,
		hasFont: m.hasFont,
		base:    len(m.regs),
		remap:   font.Remap,
	})
	m.hasFont = false
	if len(font.VF.Fonts) > 0 {
		if err = m.selectFont(font.VF.FirstFont); err != nil {
			return 0, err
		}
	}
	if err = m.exec(ops); err != nil {
		return 0, err
	}
	fr := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	m.regs = m.regs[:fr.base-1]
	m.font, m.hasFont = fr.font, fr.hasFont
	return vc.TFMWidth.Scale(font.Def.Scale), nil
}
