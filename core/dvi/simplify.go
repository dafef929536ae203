package dvi

import (
	"strconv"
	"strings"

	"github.com/npillmayer/texbin/core/dimen"
	"golang.org/x/text/encoding/charmap"
)

// Simplify rewrites a page in place: adjacent moves along the same axis
// are summed, adjacent pops (and colour pops) are combined, adjacent
// character runs of the same kind are joined, and specials for colour,
// paper size and orientation are resolved. Specials not understood are
// kept. Simplify is idempotent.
func (pg *Page) Simplify() {
	out := make([]Opcode, 0, len(pg.Opcodes))
	for _, op := range pg.Opcodes {
		if s, ok := op.(Special); ok {
			var resolved bool
			if op, resolved = pg.resolveSpecial(s); !resolved {
				op = s
			} else if op == nil {
				continue
			}
		}
		out = appendMerged(out, op)
	}
	pg.Opcodes = out
}

func appendMerged(ops []Opcode, op Opcode) []Opcode {
	n := len(ops)
	if n == 0 {
		return append(ops, op)
	}
	switch cur := op.(type) {
	case Move:
		if prev, ok := ops[n-1].(Move); ok && prev.Axis == cur.Axis {
			ops[n-1] = Move{Axis: cur.Axis, Amount: prev.Amount + cur.Amount}
			return ops
		}
	case Pop:
		if prev, ok := ops[n-1].(Pop); ok {
			ops[n-1] = Pop{N: prev.N + cur.N}
			return ops
		}
	case PopColor:
		if prev, ok := ops[n-1].(PopColor); ok {
			ops[n-1] = PopColor{N: prev.N + cur.N}
			return ops
		}
	case Char:
		if prev, ok := ops[n-1].(Char); ok && prev.Set == cur.Set {
			codes := make([]uint32, 0, len(prev.Codes)+len(cur.Codes))
			codes = append(append(codes, prev.Codes...), cur.Codes...)
			ops[n-1] = Char{Set: cur.Set, Codes: codes}
			return ops
		}
	}
	return append(ops, op)
}

// decodeSpecial interprets special bytes as Latin-1 text.
func decodeSpecial(data []byte) string {
	b, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(b)
}

// resolveSpecial interprets a special. If it is resolved, the returned
// opcode replaces it; a nil opcode means the special only set page
// properties.
func (pg *Page) resolveSpecial(s Special) (Opcode, bool) {
	text := strings.TrimSpace(decodeSpecial(s.Data))
	switch {
	case strings.HasPrefix(text, "color "):
		op, err := ParseColorSpecial(text)
		if err != nil {
			tracer().Infof("ignoring colour special %q: %v", text, err)
			return nil, false
		}
		return op, true
	case strings.HasPrefix(text, "papersize="):
		size, ok := parsePaperSize(strings.TrimPrefix(text, "papersize="))
		if !ok {
			tracer().Debugf("ignoring malformed special %q", text)
			return nil, false
		}
		pg.PaperSize = &size
		return nil, true
	case text == "landscape":
		pg.Landscape = true
		return nil, true
	}
	return nil, false
}

type specialError string

func (e specialError) Error() string { return string(e) }

// ParseColorSpecial interprets a dvips colour special
// ("color push rgb 1 0 0", "color push Black", "color pop").
func ParseColorSpecial(text string) (Opcode, error) {
	f := strings.Fields(text)
	if len(f) < 2 || f[0] != "color" {
		return nil, specialError("not a colour special")
	}
	switch f[1] {
	case "pop":
		return PopColor{N: 1}, nil
	case "push":
		c, err := parseColor(f[2:])
		if err != nil {
			return nil, err
		}
		return PushColor{Color: c}, nil
	}
	return nil, specialError("unknown colour operation " + f[1])
}

func parseColor(f []string) (Color, error) {
	if len(f) == 0 {
		return Color{}, specialError("missing colour")
	}
	v := make([]float64, len(f)-1)
	for i, s := range f[1:] {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Color{}, specialError("bad colour component " + s)
		}
		v[i] = x
	}
	model := f[0]
	if len(v) == 0 {
		if c, ok := NamedColor(model); ok {
			return c, nil
		}
		return Color{}, specialError("unknown colour name " + model)
	}
	switch {
	case model == "gray" && len(v) == 1:
		return Gray(v[0]), nil
	case model == "rgb" && len(v) == 3:
		return RGB(v[0], v[1], v[2]), nil
	case model == "cmyk" && len(v) == 4:
		return CMYK(v[0], v[1], v[2], v[3]), nil
	}
	return Color{}, specialError("unsupported colour " + strings.Join(f, " "))
}

func parsePaperSize(s string) (dimen.Point, bool) {
	wh := strings.Split(s, ",")
	if len(wh) != 2 {
		return dimen.Point{}, false
	}
	w, _, err := dimen.ParseDimen(wh[0])
	if err != nil {
		return dimen.Point{}, false
	}
	h, _, err := dimen.ParseDimen(wh[1])
	if err != nil {
		return dimen.Point{}, false
	}
	return dimen.Point{X: w, Y: h}, true
}
