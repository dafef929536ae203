package fontmap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/locate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
)

const sample = `% psfonts.map excerpt
cmr10 CMR10 <cmr10.pfb
ptmr8r  Times-Roman  "TeXBase1Encoding ReEncodeFont" <8r.enc <utmr8a.pfb
ptmro8r Times-Roman  ".167 SlantFont TeXBase1Encoding ReEncodeFont" <8r.enc <utmr8a.pfb
ptmb8r  Times-Bold  "TeXBase1Encoding ReEncodeFont" < 8r.enc <<utmb8a.pfb
+pncr8r NewCenturySchlbk-Roman 4 " .82 ExtendFont " <[8r.enc <uncr8a.pfb
cmr10 Duplicate <dup.pfb
`

func TestParseLine(t *testing.T) {
	e, err := ParseLine(`ptmro8r Times-Roman ".167 SlantFont TeXBase1Encoding ReEncodeFont" <8r.enc <utmr8a.pfb`)
	require.NoError(t, err)
	assert.Equal(t, "ptmro8r", e.TeXName)
	assert.Equal(t, "Times-Roman", e.PSName)
	assert.Equal(t, "8r.enc", e.Encoding)
	assert.Equal(t, "utmr8a.pfb", e.FontFile)
	assert.InDelta(t, 0.167, e.Slant, 1e-9)
	assert.Equal(t, 1.0, e.Extend)
	assert.Equal(t, "TeXBase1Encoding", e.ReEncode)
	//
	if _, err = ParseLine(`cmr10 CMR10 "unterminated <cmr10.pfb`); core.Code(err) != core.EMALFORMED {
		t.Errorf("expected unterminated quote to be malformed, have %v", err)
	}
}

func TestMapParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.fontmap")
	defer teardown()
	//
	m := New()
	require.NoError(t, m.Parse(strings.NewReader(sample), "sample.map"))
	assert.Equal(t, 5, m.Len())
	e, err := m.ResolveFontMapEntry("cmr10")
	require.NoError(t, err)
	assert.Equal(t, "cmr10.pfb", e.FontFile, "first definition must win")
	e, _ = m.ResolveFontMapEntry("ptmb8r")
	assert.Equal(t, "8r.enc", e.Encoding)
	assert.Equal(t, "utmb8a.pfb", e.FontFile)
	e, _ = m.ResolveFontMapEntry("pncr8r")
	assert.Equal(t, "NewCenturySchlbk-Roman", e.PSName)
	assert.InDelta(t, 0.82, e.Extend, 1e-9)
	//
	_, err = m.ResolveFontMapEntry("cmbx12")
	assert.Equal(t, core.EMISSING, core.Code(err))
	//
	times := m.WithPrefix("ptm")
	if assert.Len(t, times, 3) {
		assert.Equal(t, "ptmb8r", times[0].TeXName)
		assert.Equal(t, "ptmro8r", times[2].TeXName)
	}
}

func TestStyleAndWeight(t *testing.T) {
	cases := []struct {
		entry  Entry
		style  xfont.Style
		weight xfont.Weight
	}{
		{Entry{PSName: "Times-Roman"}, xfont.StyleNormal, xfont.WeightNormal},
		{Entry{PSName: "Times-Roman", Slant: .167}, xfont.StyleOblique, xfont.WeightNormal},
		{Entry{PSName: "Times-BoldItalic"}, xfont.StyleItalic, xfont.WeightBold},
		{Entry{PSName: "Helvetica-Light"}, xfont.StyleNormal, xfont.WeightLight},
	}
	for i, c := range cases {
		s, w := c.entry.StyleAndWeight()
		if s != c.style || w != c.weight {
			t.Errorf("(%d) %s: expected %v/%v, have %v/%v", i, c.entry.PSName, c.style, c.weight, s, w)
		}
	}
}

func TestLoadFromConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texbin.fontmap")
	defer teardown()
	//
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "psfonts.map"), []byte(sample), 0644))
	conf := testconfig.Conf{MapKey: "psfonts"}
	m, err := Load(conf, locate.NewDirLocatorWithRoots(600, dir))
	require.NoError(t, err)
	assert.Equal(t, 5, m.Len())
	//
	conf = testconfig.Conf{MapKey: "nonexistent"}
	_, err = Load(conf, locate.NewDirLocatorWithRoots(600, dir))
	assert.Equal(t, core.EMISSING, core.Code(err))
}
