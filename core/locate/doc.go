/*
Package locate finds font files by name.

TeX programs name fonts without a path and without an extension ("cmr10").
A Locator maps such a name, together with the kind of file wanted, to a
path on the local file system. DirLocator indexes a list of directory trees
once and answers lookups from the index; system fonts (Type 1, OpenType)
are additionally searched for in the platform's font directories.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package locate

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'texbin.locate'
func tracer() tracing.Trace {
	return tracing.Select("texbin.locate")
}
