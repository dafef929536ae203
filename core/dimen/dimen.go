// Package dimen implements TeX dimensions and units.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Dimen is a dimension type.
// Values are in TeX scaled points, i.e. 1/65536 of a printer's point.
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = PT / 65536
	PT   Dimen = 65536   // printer's point 1/72.27 inch
	BP   Dimen = 65782   // big point (PostScript) = 1/72 inch
	DD   Dimen = 70124   // Didot point
	PC   Dimen = 786432  // pica = 12pt
	CC   Dimen = 841489  // cicero = 12dd
	MM   Dimen = 186467  // millimeters
	CM   Dimen = 1864679 // centimeters
	IN   Dimen = 4736287 // inch
)

// Infinity is the largest possible dimension
const Infinity = math.MaxInt32

// Some common paper sizes. Fractional sizes are rounded to the nearest
// scaled point, as ParseDimen does.
var DINA4 = Point{210 * MM, 297 * MM}
var DINA5 = Point{148 * MM, 210 * MM}
var USLetter = Point{(IN*17 + 1) / 2, 11 * IN}
var USLegal = Point{(IN*17 + 1) / 2, 14 * IN}

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

// Points returns a dimension in printer's points.
func (d Dimen) Points() float64 {
	return float64(d) / float64(PT)
}

// BigPoints returns a dimension in PostScript/PDF big points.
func (d Dimen) BigPoints() float64 {
	return float64(d) * 72.0 / float64(IN)
}

// Inches returns a dimension in inches.
func (d Dimen) Inches() float64 {
	return float64(d) / float64(IN)
}

// Pixels converts a dimension to device pixels at a given resolution (dots per inch),
// rounding to the nearest pixel.
func (d Dimen) Pixels(dpi float64) int {
	return int(math.Round(float64(d) * dpi / float64(IN)))
}

// Point is a point on a page.
type Point struct {
	X, Y Dimen
}

// Origin is origin
var Origin = Point{0, 0}

// Shift a point along a vector.
func (p *Point) Shift(vector Point) *Point {
	p.X += vector.X
	p.Y += vector.Y
	return p
}

// Rect is a rectangle (on a page). Y grows downwards, as in DVI.
type Rect struct {
	TopL, BotR Point
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner.
func (r Rect) Width() Dimen {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner.
func (r Rect) Height() Dimen {
	return r.BotR.Y - r.TopL.Y
}

// IsEmpty is true if r encloses no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Union returns the smallest rectangle enclosing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		TopL: Point{Min(r.TopL.X, other.TopL.X), Min(r.TopL.Y, other.TopL.Y)},
		BotR: Point{Max(r.BotR.X, other.BotR.X), Max(r.BotR.Y, other.BotR.Y)},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2fpt,%.2fpt)-(%.2fpt,%.2fpt)",
		r.TopL.X.Points(), r.TopL.Y.Points(), r.BotR.X.Points(), r.BotR.Y.Points())
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]*\.?[0-9]+)\s*(%|[a-zA-Z]{2})?$`)

var errDimenFormat = errors.New("format error parsing dimension")

// ParseDimen parses a string to return a dimension. Units are the ones TeX knows
// (pt, bp, dd, pc, cc, mm, cm, in, sp); a missing unit means scaled points.
// If a percentage value is given (`80%`), the second return value will be true.
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(strings.TrimSpace(s))
	if len(d) < 2 {
		return 0, false, errDimenFormat
	}
	scale := SP
	ispcnt := false
	if len(d) > 2 {
		switch strings.ToLower(d[2]) {
		case "pt":
			scale = PT
		case "bp", "px":
			scale = BP
		case "dd":
			scale = DD
		case "pc":
			scale = PC
		case "cc":
			scale = CC
		case "mm":
			scale = MM
		case "cm":
			scale = CM
		case "in":
			scale = IN
		case "sp", "":
			scale = SP
		case "%":
			scale, ispcnt = 1, true
		default:
			return 0, false, errDimenFormat
		}
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, errDimenFormat
	}
	v := math.Round(n * float64(scale))
	if math.Abs(v) > Infinity {
		return 0, false, errDimenFormat
	}
	return Dimen(v), ispcnt, nil
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}
