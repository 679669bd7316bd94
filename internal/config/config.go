// Package config loads the optional .aidlc.kdl project file (SPEC_FULL.md
// §A.1), shaped after internal/config/kdl_config.go: a project-local dotfile
// that overlays a `~/.aidlc.kdl` global base, parsed with
// github.com/sblinch/kdl-go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// Config is the resolved search-path / Android-version / precompiled-cache
// configuration for one Loader instance.
type Config struct {
	SearchPath     []string
	AndroidVersion int
	PrecompiledDir string
}

// defaultAndroidVersion is used when neither config file nor CLI flag sets
// one (SPEC_FULL.md §A.1: "default 11").
const defaultAndroidVersion = 11

// Default returns the zero-config baseline: no search path, Android 11.
func Default() *Config {
	return &Config{AndroidVersion: defaultAndroidVersion}
}

// Load reads `~/.aidlc.kdl` as a base, then overlays `<projectRoot>/.aidlc.kdl`
// if present. Either or both files may be absent; their absence is not an
// error, matching LoadKDL's "no KDL config found, use defaults" behavior.
func Load(projectRoot string) (*Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if err := mergeFile(cfg, filepath.Join(home, ".aidlc.kdl")); err != nil {
			return nil, err
		}
	}
	if err := mergeFile(cfg, filepath.Join(projectRoot, ".aidlc.kdl")); err != nil {
		return nil, err
	}

	// Relative search-path entries, from either file, are resolved against
	// projectRoot once both files are merged, so a project overlay's
	// relative paths are never rebased against the home directory.
	for i, p := range cfg.SearchPath {
		if !filepath.IsAbs(p) {
			cfg.SearchPath[i] = filepath.Join(projectRoot, p)
		}
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "search-path":
			for _, cn := range n.Children {
				if nodeName(cn) == "path" {
					if s, ok := firstStringArg(cn); ok {
						cfg.SearchPath = append(cfg.SearchPath, s)
					}
				}
			}
		case "android-version":
			if v, ok := firstIntArg(n); ok {
				cfg.AndroidVersion = v
			}
		case "precompiled-dir":
			if s, ok := firstStringArg(n); ok {
				cfg.PrecompiledDir = s
			}
		}
	}
	return nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
