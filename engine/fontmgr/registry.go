package fontmgr

import (
	"fmt"
	"sort"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/texbin/core/pk"
	"github.com/npillmayer/texbin/core/tfm"
	"github.com/npillmayer/texbin/core/vf"
)

// Registry holds parsed font files, keyed by file path.
type Registry struct {
	sync.Mutex
	tfms map[string]*tfm.Font
	vfs  map[string]*vf.Font
	pks  map[string]*pk.Font
}

var globalRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold loaded fonts.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tfms: make(map[string]*tfm.Font),
		vfs:  make(map[string]*vf.Font),
		pks:  make(map[string]*pk.Font),
	}
}

// TFM returns the metrics in file path, parsing it on first use.
func (r *Registry) TFM(path string) (*tfm.Font, error) {
	r.Lock()
	defer r.Unlock()
	if f, ok := r.tfms[path]; ok {
		return f, nil
	}
	f, err := tfm.ParseFile(path)
	if err != nil {
		return nil, err
	}
	tracer().Infof("registry stores TFM %s", path)
	r.tfms[path] = f
	return f, nil
}

// VF returns the virtual font in file path, parsing it on first use.
func (r *Registry) VF(path string) (*vf.Font, error) {
	r.Lock()
	defer r.Unlock()
	if f, ok := r.vfs[path]; ok {
		return f, nil
	}
	f, err := vf.ParseFile(path)
	if err != nil {
		return nil, err
	}
	tracer().Infof("registry stores VF %s", path)
	r.vfs[path] = f
	return f, nil
}

// PK returns the bitmap font in file path, parsing it on first use.
func (r *Registry) PK(path string) (*pk.Font, error) {
	r.Lock()
	defer r.Unlock()
	if f, ok := r.pks[path]; ok {
		return f, nil
	}
	f, err := pk.ParseFile(path)
	if err != nil {
		return nil, err
	}
	tracer().Infof("registry stores PK %s", path)
	r.pks[path] = f
	return f, nil
}

// Size returns the number of cached font files.
func (r *Registry) Size() int {
	r.Lock()
	defer r.Unlock()
	return len(r.tfms) + len(r.vfs) + len(r.pks)
}

// LogFontList is a helper function to dump the list of known fonts
// to the trace-file (log-level Info).
func (r *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	r.Lock()
	defer r.Unlock()
	tracer().Infof("--- registered fonts ---")
	for _, line := range r.list() {
		tracer().Infof("%s", line)
	}
	tracer().Infof("------------------------")
}

func (r *Registry) list() []string {
	var lines []string
	for k, v := range r.tfms {
		lines = append(lines, fmt.Sprintf("tfm [%s] = %d chars, design size %s", k, len(v.Chars), v.DesignSize))
	}
	for k, v := range r.vfs {
		lines = append(lines, fmt.Sprintf("vf  [%s] = %d chars, %d local fonts", k, len(v.Chars), len(v.Fonts)))
	}
	for k, v := range r.pks {
		lines = append(lines, fmt.Sprintf("pk  [%s] = %d glyphs at %.0f dpi", k, len(v.Glyphs), v.Resolution()))
	}
	sort.Strings(lines)
	return lines
}
