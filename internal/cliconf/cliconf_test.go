package cliconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	json := `{"texbin": {"resolution": 300, "fontmap": "psfonts"}}`
	require.NoError(t, os.WriteFile(path, []byte(json), 0644))
	t.Setenv("TEXBIN_FONTMAP", "pdftex")
	conf, err := Load(path, map[string]interface{}{
		"texbin.vfdepth":  8,
		"texbin.fontpath": "",
	})
	require.NoError(t, err)
	assert.Equal(t, 300, conf.GetInt("texbin.resolution"), "file overrides defaults")
	assert.Equal(t, "pdftex", conf.GetString("texbin.fontmap"), "environment overrides file")
	assert.Equal(t, 8, conf.GetInt("texbin.vfdepth"), "flags override everything")
	assert.Equal(t, ".", conf.GetString("texbin.fontpath"), "empty flags are ignored")
	assert.Equal(t, "go", conf.GetString("tracing.adapter"))
}

func TestLoadUnknownFormat(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "conf.ini"), nil)
	assert.Error(t, err)
}

func TestConfigureTracing(t *testing.T) {
	conf, err := Load("", map[string]interface{}{"trace.texbin.dvi": "Debug"})
	require.NoError(t, err)
	require.NoError(t, ConfigureTracing(conf, "Error"))
	assert.Equal(t, "Debug", conf.GetString("trace.texbin.dvi"))
	assert.Equal(t, "Error", conf.GetString("trace.texbin.tfm"))
	assert.Equal(t, "Error", conf.GetString("trace.texbin.dvitype"))
	assert.Equal(t, "Error", conf.GetString("trace.texbin.pktype"))
}
