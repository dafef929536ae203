package fontmap

import (
	"fmt"
	"strings"

	xfont "golang.org/x/image/font"
)

// Entry is a single line of a font map.
type Entry struct {
	TeXName  string
	PSName   string  // empty if the font is not a PostScript font
	Effects  string  // raw PostScript snippet between quotes
	Encoding string  // encoding file, e.g. "8r.enc"
	FontFile string  // font program, e.g. "utmr8a.pfb"
	Slant    float64 // from "SlantFont"
	Extend   float64 // from "ExtendFont", 1 if absent
	ReEncode string  // name of the encoding vector used with "ReEncodeFont"
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s → %s (%s, %s)", e.TeXName, e.PSName, e.FontFile, e.Encoding)
}

// StyleAndWeight guesses style and weight from the PostScript name and the
// effects. A slanted font is reported as oblique.
func (e *Entry) StyleAndWeight() (xfont.Style, xfont.Weight) {
	name := strings.ToLower(e.PSName)
	if name == "" {
		name = strings.ToLower(e.TeXName)
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	switch {
	case strings.Contains(name, "italic"):
		style = xfont.StyleItalic
	case strings.Contains(name, "oblique") || e.Slant != 0:
		style = xfont.StyleOblique
	}
	switch {
	case strings.Contains(name, "extrabold"), strings.Contains(name, "black"),
		strings.Contains(name, "heavy"):
		weight = xfont.WeightExtraBold
	case strings.Contains(name, "semibold"), strings.Contains(name, "demi"):
		weight = xfont.WeightSemiBold
	case strings.Contains(name, "bold"):
		weight = xfont.WeightBold
	case strings.Contains(name, "light"):
		weight = xfont.WeightLight
	}
	return style, weight
}
