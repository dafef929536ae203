/*
Package tfm decodes TeX font metric files.

A TFM file holds, for every character of a font, its width, height, depth
and italic correction, plus a small program of ligature and kerning rules.
All dimensions are fix_words relative to the font's design size; they become
lengths by multiplying with the size a font is used at (see FixWord.Scale).

Fonts using boundary characters in their lig/kern programs are rejected.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tfm

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.tfm'
func tracer() tracing.Trace {
	return tracing.Select("texbin.tfm")
}
