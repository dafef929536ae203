/*
Package dvimachine interprets the pages of a DVI program.

A Machine replays a page's opcodes against a register stack (h, v, w, x, y,
z), a colour stack and the current font. It runs in one of two modes: in
paint mode characters and rules are handed to a Painter, in bounding-box
mode their boxes are collected into the page's bounding box. Both modes
share the same control path.

Characters of virtual fonts are expanded by executing the character's DVI
packet as a subroutine in a new call frame. Font numbers inside a packet
refer to the virtual font's local fonts and are translated to the machine's
font table through the frame. Nesting of frames is bounded.

All lengths are in DVI units (scaled points for TeX output). Clients convert
to device space with dvi.Program.Conversion.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dvimachine

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.dvimachine'
func tracer() tracing.Trace {
	return tracing.Select("texbin.dvimachine")
}
