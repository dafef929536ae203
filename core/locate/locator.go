package locate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/texbin/core"
)

// Format is the kind of file a lookup is for.
type Format int

// Font file formats
const (
	TFM Format = iota
	PK
	VF
	Map  // dvips/pdftex font map
	Enc  // PostScript encoding vector
	Type1
	OpenType
)

var extensions = [...]string{".tfm", "pk", ".vf", ".map", ".enc", ".pfb", ".otf"}

func (f Format) String() string {
	return [...]string{"tfm", "pk", "vf", "map", "enc", "type1", "opentype"}[f]
}

// Configuration keys read by NewDirLocator.
const (
	FontPathKey   = "texbin.fontpath"
	ResolutionKey = "texbin.resolution"
)

// DefaultResolution is used for PK lookups if none is configured.
const DefaultResolution = 600

// Locator finds a font file by its TeX name.
type Locator interface {
	LocateFile(name string, format Format) (string, bool)
}

// PKLocator is implemented by locators which find PK files for arbitrary
// resolutions, as needed for magnified fonts.
type PKLocator interface {
	LocatePK(name string, dpi int) (string, bool)
}

// LocatorFunc lets an ordinary function serve as a Locator.
type LocatorFunc func(name string, format Format) (string, bool)

// LocateFile calls lf(name, format).
func (lf LocatorFunc) LocateFile(name string, format Format) (string, bool) {
	return lf(name, format)
}

// Chain tries a sequence of locators in turn.
type Chain []Locator

// LocateFile returns the first hit of any locator in the chain.
func (c Chain) LocateFile(name string, format Format) (string, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if p, ok := l.LocateFile(name, format); ok {
			return p, true
		}
	}
	return "", false
}

// NotFound returns an application error for a missing font file.
func NotFound(name string, format Format) error {
	e := fmt.Errorf("font file missing: %v", name)
	return core.WrapError(e, core.EMISSING, "%s file not found: %s", format, name)
}

// Filename returns the file name TeX tools use for a font of a given format.
// PK files carry the resolution in their extension, as in "cmr10.600pk".
func Filename(name string, format Format, dpi int) string {
	if format == PK {
		return name + "." + strconv.Itoa(dpi) + extensions[PK]
	}
	return name + extensions[format]
}

// DirLocator indexes directory trees and finds files by base name. The first
// file found for a name wins, with roots searched in order.
type DirLocator struct {
	roots      []string
	resolution int
	once       sync.Once
	index      map[string]string
}

var _ Locator = (*DirLocator)(nil)
var _ PKLocator = (*DirLocator)(nil)

// NewDirLocator creates a locator from configuration. Roots are taken from
// key 'texbin.fontpath', a list separated by os.PathListSeparator, and the
// PK resolution from 'texbin.resolution'. If conf is nil, the global
// configuration is used.
func NewDirLocator(conf schuko.Configuration) *DirLocator {
	var fontpath string
	var dpi int
	if conf != nil {
		fontpath, dpi = conf.GetString(FontPathKey), conf.GetInt(ResolutionKey)
	} else {
		fontpath, dpi = gconf.GetString(FontPathKey), gconf.GetInt(ResolutionKey)
	}
	var roots []string
	for _, r := range filepath.SplitList(fontpath) {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}
	return NewDirLocatorWithRoots(dpi, roots...)
}

// NewDirLocatorWithRoots creates a locator for a given PK resolution and a
// list of root directories. A resolution ≤ 0 selects DefaultResolution.
func NewDirLocatorWithRoots(dpi int, roots ...string) *DirLocator {
	if dpi <= 0 {
		dpi = DefaultResolution
	}
	return &DirLocator{roots: roots, resolution: dpi}
}

// Resolution is the resolution PK files are looked up for.
func (dl *DirLocator) Resolution() int {
	return dl.resolution
}

// LocateFile finds a file for a TeX font name. A name with a directory part
// is tried as a path first, with the format's extension appended unless
// already present. PK fonts are looked up for the locator's resolution, see
// LocatePK.
func (dl *DirLocator) LocateFile(name string, format Format) (string, bool) {
	if name == "" || format < TFM || format > OpenType {
		return "", false
	}
	if format == PK {
		return dl.LocatePK(name, dl.resolution)
	}
	fname := Filename(name, format, 0)
	if p, ok := existing(name, fname, extensions[format]); ok {
		return p, true
	}
	dl.once.Do(dl.walk)
	if p, ok := dl.index[filepath.Base(fname)]; ok {
		tracer().Debugf("located %s as %s", name, p)
		return p, true
	}
	if format == Type1 || format == OpenType {
		if p, err := findfont.Find(filepath.Base(fname)); err == nil {
			tracer().Debugf("located system font %s as %s", name, p)
			return p, true
		}
	}
	tracer().Debugf("cannot locate %s file for %s", format, name)
	return "", false
}

// LocatePK finds a PK file as name.<dpi>pk or, in the older directory
// layout, as dpi<dpi>/name.pk.
func (dl *DirLocator) LocatePK(name string, dpi int) (string, bool) {
	fname := Filename(name, PK, dpi)
	if p, ok := existing(name, fname, extensions[PK]); ok {
		return p, true
	}
	dl.once.Do(dl.walk)
	base := filepath.Base(name)
	for _, key := range []string{
		filepath.Base(fname),
		"dpi" + strconv.Itoa(dpi) + "/" + base + ".pk",
	} {
		if p, ok := dl.index[key]; ok {
			tracer().Debugf("located %s as %s", name, p)
			return p, true
		}
	}
	tracer().Debugf("cannot locate pk file for %s at %d dpi", name, dpi)
	return "", false
}

// existing checks names carrying a directory part against the file system.
// The name itself only counts if it already ends in ext.
func existing(name, fname, ext string) (string, bool) {
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		return "", false
	}
	candidates := []string{fname}
	if strings.HasSuffix(name, ext) {
		candidates = append(candidates, name)
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	return "", false
}

func (dl *DirLocator) walk() {
	dl.index = make(map[string]string)
	for _, root := range dl.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				tracer().Errorf("font path: %v", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			dl.add(d.Name(), path)
			if parent := filepath.Base(filepath.Dir(path)); strings.HasPrefix(parent, "dpi") {
				dl.add(parent+"/"+d.Name(), path)
			}
			return nil
		})
		if err != nil {
			tracer().Errorf("cannot index font path %s: %v", root, err)
		}
	}
	tracer().Infof("indexed %d font files in %d directories", len(dl.index), len(dl.roots))
}

func (dl *DirLocator) add(key, path string) {
	if _, ok := dl.index[key]; !ok {
		dl.index[key] = path
	}
}
