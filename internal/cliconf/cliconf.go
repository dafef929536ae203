/*
Package cliconf sets up configuration, tracing and terminal output for the
command line tools.

Configuration is layered, later layers overriding earlier ones:

	defaults → texbin.nt in the user's config dir → -config file → TEXBIN_* environment → flags

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cliconf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// AppTag identifies the tools' configuration files and environment.
const AppTag = "texbin"

// TraceKeys are the tracers of all packages and commands of this module.
var TraceKeys = []string{
	"texbin.binread", "texbin.dvi", "texbin.tfm", "texbin.pk", "texbin.vf",
	"texbin.locate", "texbin.fontmap", "texbin.fontmgr", "texbin.dvimachine",
	"texbin.dvitype", "texbin.pktype",
}

var defaults = map[string]interface{}{
	"tracing.adapter":   "go",
	"texbin.resolution": 600,
	"texbin.vfdepth":    16,
	"texbin.fontpath":   ".",
	"texbin.fontmap":    "",
}

// Load builds the configuration. configFile may be empty; it is parsed as
// JSON or NestedText depending on its extension. Non-empty overrides are
// applied last.
func Load(configFile string, overrides map[string]interface{}) (*koanfadapter.KConf, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}
	conf := koanfadapter.New(k, AppTag, []string{"nt"})
	conf.InitFromDefaultFile()
	if configFile != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(configFile)) {
		case ".json":
			parser = json.Parser()
		case ".nt":
			parser = koanfadapter.Parser()
		default:
			return nil, fmt.Errorf("unknown configuration format: %s", configFile)
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, fmt.Errorf("cannot load configuration %s: %w", configFile, err)
		}
	}
	// TEXBIN_FONTPATH → texbin.fontpath
	if err := k.Load(env.Provider("TEXBIN_", ".", func(s string) string {
		return strings.ToLower(strings.Replace(s, "_", ".", 1))
	}), nil); err != nil {
		return nil, err
	}
	for key, value := range overrides {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		if n, ok := value.(int); ok && n == 0 {
			continue
		}
		conf.Set(key, value)
	}
	return conf, nil
}

// ConfigureTracing installs the tracer backend selected by key
// 'tracing.adapter' ("go" or "logrus") and sets every module tracer to level.
func ConfigureTracing(conf *koanfadapter.KConf, level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	for _, key := range TraceKeys {
		if !conf.IsSet("trace." + key) {
			conf.Set("trace."+key, level)
		}
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// InitDisplay sets up pterm for moderately fancy output.
func InitDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
