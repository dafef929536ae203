/*
Package dvi decodes TeX's DVI page description files.

A DVI file is a preamble, a sequence of pages, and a postamble listing all
fonts. Pages are chained backwards by pointers from the postamble, so Parse
locates the postamble from the end of the file first and then walks the
pages, storing them in forward order. Each page is decoded into a sequence of
Opcode values which an interpreter (see package dvimachine) replays.

Decoding is strict: a missing magic byte, a table mismatch or an opcode out
of context fails the whole parse. Opcode bytes which DVI leaves undefined are
skipped.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dvi

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.dvi'
func tracer() tracing.Trace {
	return tracing.Select("texbin.dvi")
}
