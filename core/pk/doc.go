/*
Package pk decodes packed bitmap fonts (PK files).

Glyph rasters in PK files are run-length encoded with a variable-length
code over 4-bit nybbles, parameterized per glyph by dyn_f. Parsing a font only
reads the glyph preambles; rasters are decoded on first access to a glyph's
bitmap and cached. The raw raster data stays with the glyph.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pk

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.pk'
func tracer() tracing.Trace {
	return tracing.Select("texbin.pk")
}
