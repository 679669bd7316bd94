package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFilesPresent(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, defaultAndroidVersion, cfg.AndroidVersion)
	require.Empty(t, cfg.SearchPath)
	require.Empty(t, cfg.PrecompiledDir)
}

func TestLoadProjectOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	kdl := `
search-path {
    path "src"
}
android-version 10
precompiled-dir "build/ir"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".aidlc.kdl"), []byte(kdl), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.AndroidVersion)
	require.Equal(t, "build/ir", cfg.PrecompiledDir)
	require.Len(t, cfg.SearchPath, 1)
	require.Equal(t, filepath.Join(dir, "src"), cfg.SearchPath[0])
}

func TestNodeNameHelpers(t *testing.T) {
	require.Equal(t, "", nodeName(nil))
}
