/*
Package fontmgr loads the fonts of a DVI program.

For every font definition of a program the manager looks for a virtual font
first and falls back to TFM metrics plus PK bitmaps. Local fonts of virtual
fonts are loaded recursively and entered into the program's font table
under fresh numbers, so the DVI machine works with a single flat table.

Parsed font files are cached in a registry and shared between programs.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontmgr

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.fontmgr'
func tracer() tracing.Trace {
	return tracing.Select("texbin.fontmgr")
}
