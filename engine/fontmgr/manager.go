package fontmgr

import (
	"math"
	"sort"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/dvi"
	"github.com/npillmayer/texbin/core/font/fontmap"
	"github.com/npillmayer/texbin/core/locate"
	"github.com/npillmayer/texbin/core/pk"
	"github.com/npillmayer/texbin/engine/dvimachine"
)

// Configuration keys read by WithConfig.
const (
	ResolutionKey = "texbin.resolution"
	VFDepthKey    = "texbin.vfdepth"
)

// Manager loads fonts for DVI programs.
type Manager struct {
	locator    locate.Locator
	resolver   fontmap.Resolver
	registry   *Registry
	resolution int
	maxDepth   int
	bitmaps    bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig reads the PK resolution and the virtual font nesting bound
// from a configuration. If conf is nil, the global configuration is used.
func WithConfig(conf schuko.Configuration) Option {
	return func(mgr *Manager) {
		var dpi, depth int
		if conf != nil {
			dpi, depth = conf.GetInt(ResolutionKey), conf.GetInt(VFDepthKey)
		} else {
			dpi, depth = gconf.GetInt(ResolutionKey), gconf.GetInt(VFDepthKey)
		}
		if dpi > 0 {
			mgr.resolution = dpi
		}
		if depth > 0 {
			mgr.maxDepth = depth
		}
	}
}

// WithResolution sets the resolution of PK bitmaps.
func WithResolution(dpi int) Option {
	return func(mgr *Manager) {
		if dpi > 0 {
			mgr.resolution = dpi
		}
	}
}

// WithRegistry makes the manager cache fonts in r instead of the global
// registry.
func WithRegistry(r *Registry) Option {
	return func(mgr *Manager) {
		mgr.registry = r
	}
}

// WithoutBitmaps skips loading PK files.
func WithoutBitmaps() Option {
	return func(mgr *Manager) {
		mgr.bitmaps = false
	}
}

// New creates a font manager. resolver may be nil.
func New(loc locate.Locator, resolver fontmap.Resolver, opts ...Option) *Manager {
	mgr := &Manager{
		locator:    loc,
		resolver:   resolver,
		resolution: locate.DefaultResolution,
		maxDepth:   dvimachine.DefaultMaxDepth,
		bitmaps:    true,
	}
	for _, opt := range opts {
		opt(mgr)
	}
	if mgr.registry == nil {
		mgr.registry = GlobalRegistry()
	}
	return mgr
}

// MachineOptions returns the options a DVI machine needs to match the
// manager's configuration.
func (mgr *Manager) MachineOptions() []dvimachine.Option {
	return []dvimachine.Option{dvimachine.WithMaxDepth(mgr.maxDepth)}
}

// Machine creates a DVI machine for a font table.
func (mgr *Manager) Machine(fonts dvimachine.FontTable) *dvimachine.Machine {
	return dvimachine.New(fonts, mgr.MachineOptions()...)
}

// Load loads every font of prog. Local fonts of virtual fonts are added to
// prog.Fonts, reusing existing numbers for fonts with equal name and size.
func (mgr *Manager) Load(prog *dvi.Program) (dvimachine.FontTable, error) {
	if prog.Fonts == nil {
		prog.Fonts = make(map[int32]*dvi.Font)
	}
	ids := make([]int32, 0, len(prog.Fonts))
	for id := range prog.Fonts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	table := make(dvimachine.FontTable, len(ids))
	for _, id := range ids {
		if err := mgr.load(prog, table, prog.Fonts[id], 0); err != nil {
			return nil, err
		}
	}
	tracer().Infof("loaded %d fonts", len(table))
	return table, nil
}

func (mgr *Manager) load(prog *dvi.Program, table dvimachine.FontTable, def *dvi.Font, depth int) error {
	if _, done := table[def.ID]; done {
		return nil
	}
	if depth > mgr.maxDepth {
		return core.Error(core.EUNSUPPORTED, "virtual fonts nested deeper than %d at %s", mgr.maxDepth, def.Name)
	}
	name := def.FullName()
	if path, ok := mgr.locator.LocateFile(name, locate.VF); ok {
		vfont, err := mgr.registry.VF(path)
		if err != nil {
			return err
		}
		checkSum(def, vfont.Checksum)
		virtual := &dvimachine.VirtualFont{Def: def, VF: vfont, Remap: make(map[int32]int32)}
		table[def.ID] = virtual
		locals := vfont.ScaledFonts(def.Scale)
		localIDs := make([]int32, 0, len(locals))
		for id := range locals {
			localIDs = append(localIDs, id)
		}
		sort.Slice(localIDs, func(i, j int) bool { return localIDs[i] < localIDs[j] })
		for _, local := range localIDs {
			global := flatten(prog, locals[local])
			virtual.Remap[local] = global.ID
			if err := mgr.load(prog, table, global, depth+1); err != nil {
				return err
			}
		}
		tracer().Debugf("font %d %s is virtual with %d local fonts", def.ID, name, len(locals))
		return nil
	}
	path, ok := mgr.locator.LocateFile(name, locate.TFM)
	if !ok {
		return locate.NotFound(name, locate.TFM)
	}
	metrics, err := mgr.registry.TFM(path)
	if err != nil {
		return err
	}
	checkSum(def, metrics.Checksum)
	font := &dvimachine.PhysicalFont{Def: def, TFM: metrics}
	if mgr.bitmaps {
		font.PK = mgr.bitmapFont(prog, def)
	}
	if mgr.resolver != nil {
		if entry, err := mgr.resolver.ResolveFontMapEntry(name); err == nil {
			font.Map = entry
		}
	}
	table[def.ID] = font
	return nil
}

// flatten returns the program font for a virtual font's local font, adding
// it under a new number if the program has no font of equal name and size.
func flatten(prog *dvi.Program, local *dvi.Font) *dvi.Font {
	ids := make([]int32, 0, len(prog.Fonts))
	for id := range prog.Fonts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		f := prog.Fonts[id]
		if f.FullName() == local.FullName() && f.Scale == local.Scale {
			return f
		}
	}
	global := *local
	global.ID = prog.NextFontID()
	prog.Fonts[global.ID] = &global
	tracer().Debugf("local font %s enters the program as font %d", local.Name, global.ID)
	return &global
}

// bitmapFont loads the PK font for def. Bitmaps are optional, so failures
// are traced and nil is returned.
func (mgr *Manager) bitmapFont(prog *dvi.Program, def *dvi.Font) *pk.Font {
	dpi := mgr.PKResolution(prog, def)
	name := def.FullName()
	var path string
	var ok bool
	if pkl, isPK := mgr.locator.(locate.PKLocator); isPK {
		path, ok = pkl.LocatePK(name, dpi)
	} else {
		path, ok = mgr.locator.LocateFile(name, locate.PK)
	}
	if !ok {
		tracer().Infof("no bitmaps for %s at %d dpi", name, dpi)
		return nil
	}
	font, err := mgr.registry.PK(path)
	if err != nil {
		tracer().Errorf("cannot load bitmaps for %s: %v", name, err)
		return nil
	}
	checkSum(def, font.Checksum)
	return font
}

// PKResolution returns the bitmap resolution a font needs: the device
// resolution scaled by the font's magnification and the program's.
func (mgr *Manager) PKResolution(prog *dvi.Program, def *dvi.Font) int {
	r := float64(mgr.resolution)
	if def.DesignSize > 0 {
		r = r * float64(def.Scale) / float64(def.DesignSize)
	}
	if prog != nil && prog.Mag > 0 {
		r = r * float64(prog.Mag) / 1000
	}
	return int(math.Round(r))
}

func checkSum(def *dvi.Font, found uint32) {
	if def.Checksum != 0 && found != 0 && def.Checksum != found {
		tracer().Errorf("checksum mismatch for %s: %x in definition, %x in file", def.Name, def.Checksum, found)
	}
}
