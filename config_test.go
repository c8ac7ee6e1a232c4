package main

import (
	"os"
	"path/filepath"
	"testing"

	"atlasbuilder/rectpack"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
inputs: [sprites, icons/a.png]
max_width: 512
max_height: 256
padding: 3
rotate: true
heuristic: baf
meta_format: ARRAY
trim: false
`), 0644))

	opts := defaultOptions()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.bindFlags(flags)
	require.NoError(t, flags.Parse([]string{"--padding", "1", "--max-height", "1024"}))

	require.NoError(t, opts.loadConfigFile(path, flags))
	assert.Equal(t, []string{"sprites", "icons/a.png"}, opts.Inputs)
	assert.Equal(t, 512, opts.MaxWidth)
	assert.Equal(t, 1024, opts.MaxHeight, "flag wins over the file")
	assert.Equal(t, 1, opts.Padding, "flag wins over the file")
	assert.True(t, opts.Rotate)
	assert.False(t, opts.Trim)
	assert.True(t, opts.Grow, "defaults survive when the file does not mention them")

	require.NoError(t, opts.validate())
	assert.Equal(t, metaFormatArray, opts.MetaFormat)
	config, err := opts.packConfig()
	require.NoError(t, err)
	assert.Equal(t, rectpack.Config{
		MaxWidth:    512,
		MaxHeight:   1024,
		AllowGrow:   true,
		AllowRotate: true,
		Padding:     1,
		Heuristic:   rectpack.BestAreaFit,
	}, config)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	dir := t.TempDir()
	opts := defaultOptions()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.bindFlags(flags)

	assert.Error(t, opts.loadConfigFile(filepath.Join(dir, "missing.yaml"), flags))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("padding: [1, 2"), 0644))
	var ferr *fileError
	assert.ErrorAs(t, opts.loadConfigFile(bad, flags), &ferr)
}

func TestDefaultOptions(t *testing.T) {
	opts := defaultOptions()
	require.NoError(t, opts.validate())
	config, err := opts.packConfig()
	require.NoError(t, err)
	assert.Equal(t, rectpack.DefaultConfig(), config)
}
