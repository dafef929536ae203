/*
Package fontmap reads dvips/pdftex font map files.

A map file connects TeX font names, as used in DVI and TFM files, to
PostScript fonts:

	ptmr8r  Times-Roman  "TeXBase1Encoding ReEncodeFont" <8r.enc <utmr8a.pfb
	ptmro8r Times-Roman  ".167 SlantFont TeXBase1Encoding ReEncodeFont" <8r.enc <utmr8a.pfb

Entries are kept in a trie, so clients may ask for exact names as well as
for all fonts sharing a prefix (e.g. all members of a font family).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontmap

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.fontmap'
func tracer() tracing.Trace {
	return tracing.Select("texbin.fontmap")
}
