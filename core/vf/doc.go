/*
Package vf decodes virtual fonts.

Each character of a virtual font is a small DVI program (a packet) which
typesets other characters, usually from one or more physical fonts declared
locally in the VF file. Packets are decoded into dvi.Opcode sequences on first
use.

Font ids inside packets refer to the virtual font's local definitions. Scale
factors of local fonts are relative to the size the virtual font is used at;
ScaledFonts computes the definitions for a concrete size.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package vf

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.vf'
func tracer() tracing.Trace {
	return tracing.Select("texbin.vf")
}
