package fixtures

// TFMChar describes a character of a TFM fixture. Dimensions are relative
// to the design size. Tag and Rem are written to the char_info word as given.
type TFMChar struct {
	Code                          int
	Width, Height, Depth, Italic float64
	Tag, Rem                      int
}

// TFM describes a TFM fixture.
type TFM struct {
	Checksum     uint32
	DesignSize   float64 // points
	CodingScheme string
	Family       string
	Chars        []TFMChar
	LigKern      [][4]int // skip, next, op, remainder
	Kerns        []float64
	Exten        [][4]int
	Params       []float64
}

// index returns the position of x in table, appending it if necessary.
func index(table *[]float64, x float64) int {
	for i, y := range *table {
		if y == x {
			return i
		}
	}
	*table = append(*table, x)
	return len(*table) - 1
}

// Bytes encodes the fixture.
func (t *TFM) Bytes() []byte {
	bc, ec := 1, 0
	for i, c := range t.Chars {
		if i == 0 || c.Code < bc {
			bc = c.Code
		}
		if i == 0 || c.Code > ec {
			ec = c.Code
		}
	}
	widths, heights, depths, italics := []float64{0}, []float64{0}, []float64{0}, []float64{0}
	info := make([][4]int, ec-bc+1)
	for _, c := range t.Chars {
		wi := index(&widths, c.Width)
		hi, di, ii := index(&heights, c.Height), index(&depths, c.Depth), index(&italics, c.Italic)
		info[c.Code-bc] = [4]int{wi, hi<<4 | di, ii<<2 | c.Tag, c.Rem}
	}
	lh := 18
	lf := 6 + lh + len(info) + len(widths) + len(heights) + len(depths) + len(italics) +
		len(t.LigKern) + len(t.Kerns) + len(t.Exten) + len(t.Params)
	w := &Writer{}
	for _, n := range []int{lf, lh, bc, ec, len(widths), len(heights), len(depths), len(italics),
		len(t.LigKern), len(t.Kerns), len(t.Exten), len(t.Params)} {
		w.U2(n)
	}
	w.U4(int64(t.Checksum)).U4(Fix(t.DesignSize))
	w.field(t.CodingScheme, 40).field(t.Family, 20).U1(0, 0, 0, 0)
	for _, ci := range info {
		w.U1(ci[0], ci[1], ci[2], ci[3])
	}
	for _, table := range [][]float64{widths, heights, depths, italics} {
		for _, x := range table {
			w.U4(Fix(x))
		}
	}
	for _, lk := range t.LigKern {
		w.U1(lk[0], lk[1], lk[2], lk[3])
	}
	for _, k := range t.Kerns {
		w.U4(Fix(k))
	}
	for _, x := range t.Exten {
		w.U1(x[0], x[1], x[2], x[3])
	}
	for _, p := range t.Params {
		w.U4(Fix(p))
	}
	return w.B
}

func (w *Writer) field(s string, size int) *Writer {
	w.BCPL(s)
	for i := len(s) + 1; i < size; i++ {
		w.U1(0)
	}
	return w
}
