/*
Package binread reads the big-endian primitives TeX's binary file formats are
built from: unsigned and signed integers of one to four bytes, fix_words and
BCPL strings.

A Reader wraps any io.ReaderAt of known size. Files are opened memory-mapped,
which lets parsers seek freely (DVI postambles are located from the end of
the file) without buffering the whole file on the heap.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package binread

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.binread'
func tracer() tracing.Trace {
	return tracing.Select("texbin.binread")
}
