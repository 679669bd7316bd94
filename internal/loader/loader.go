package loader

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/hbollon/go-edlib"

	"github.com/binderir/aidlc/internal/debug"
	"github.com/binderir/aidlc/internal/errs"
)

// extensionOrder is the fixed search order of §4.1 step 2.
var extensionOrder = []string{".aidl", ".java", ".json"}

// Loader resolves qualified names against an ordered search path and caches
// every Unit it produces by QName. Per §5, a Loader's caches are not
// guarded: callers must serialize compilation and decoding against the same
// instance. Cache entries are immutable once inserted — Invalidate (used by
// the optional fsnotify watch mode, watch.go) removes an entry outright
// rather than mutating it.
type Loader struct {
	searchPath     []string
	androidVersion int

	mu    sync.Mutex // guards cache only against the watch goroutine, not general concurrent use
	cache map[string]*Unit
}

// New creates a Loader over the given ordered search-path directories.
func New(searchPath []string, androidVersion int) *Loader {
	return &Loader{
		searchPath:     append([]string(nil), searchPath...),
		androidVersion: androidVersion,
		cache:          make(map[string]*Unit),
	}
}

// SearchPath returns the Loader's ordered source-root directories, used by
// the Compiler's import resolver to scan a package directory directly (§4.6
// step 2) rather than going through Resolve.
func (l *Loader) SearchPath() []string { return l.searchPath }

// AndroidVersion reports the configured Android API level, used by the
// Decoder to decide which optional transport fields are present (§4.8) and
// whether readStrongBinder includes the status word (§4.7).
func (l *Loader) AndroidVersion() int { return l.androidVersion }

// Get returns the cached unit for qname, loading and (for JSON units)
// marking it compiled as a side effect if it is not yet cached.
func (l *Loader) Get(qname string) (*Unit, error) {
	if u, ok := l.lookup(qname); ok {
		return u, nil
	}
	units, err := l.Resolve(qname)
	if err != nil {
		return nil, err
	}
	if u, ok := l.lookup(qname); ok {
		return u, nil
	}
	if len(units) > 0 {
		return units[0], nil
	}
	return nil, errs.NewResolutionError(qname, l.searchPath, nil)
}

// Put inserts or replaces a unit's compiled body — used by the Compiler once
// it finishes translating a unit (§3 "compiled definitions ...
// replace the body of a Unit").
func (l *Loader) Put(u *Unit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[u.QName] = u
}

func (l *Loader) lookup(qname string) (*Unit, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.cache[qname]
	return u, ok
}

// Invalidate drops a cached unit so it is re-resolved on next use. Only the
// optional fsnotify watcher (watch.go) calls this; it is the single place
// the "caches are not guarded" discipline is deliberately broken, and even
// then only via one atomic map delete (§5).
func (l *Loader) Invalidate(qname string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, qname)
}

// Resolve implements §4.1's three-step resolution algorithm for a
// single QName, returning every Unit it denotes (one, unless qname ends in
// `*`).
func (l *Loader) Resolve(qname string) ([]*Unit, error) {
	if strings.HasSuffix(qname, ".*") {
		return l.resolveWildcard(strings.TrimSuffix(qname, ".*"))
	}
	if u, ok := l.lookup(qname); ok {
		return []*Unit{u}, nil
	}

	pkg, classChain := splitQName(qname)
	if len(classChain) == 0 {
		return nil, errs.NewResolutionError(qname, l.searchPath, nil)
	}
	outerQName := pkg + "." + classChain[0]
	if pkg == "" {
		outerQName = classChain[0]
	}

	if u, ok := l.lookup(outerQName); ok {
		return l.descendInner(u, classChain[1:])
	}

	dir := strings.ReplaceAll(pkg, ".", "/")
	base := classChain[0]

	for _, ext := range extensionOrder {
		rel := base + ext
		if dir != "" {
			rel = dir + "/" + rel
		}
		abs, content, err := l.readFirst(rel)
		if err != nil {
			continue
		}
		unit, uerr := l.processFile(outerQName, pkg, abs, ext, content)
		if uerr != nil {
			return nil, uerr
		}
		if unit == nil {
			continue
		}
		return l.descendInner(unit, classChain[1:])
	}

	suggestion := l.suggest(dir, base)
	err := errs.NewResolutionError(qname, l.searchPath, os.ErrNotExist)
	if suggestion != "" {
		err = err.WithSuggestion(suggestion)
	}
	return nil, err
}

// splitQName locates the boundary between a dotted package prefix and the
// class-name chain that follows it (outer class, then any nested classes),
// by finding the first path component whose leading byte is uppercase.
// §4.1 step 1 describes this as counting "leading components whose
// first character is uppercase" to derive k and strip k-1 trailing
// components; this is the same split computed directly rather than via a
// count-then-strip arithmetic, which is equivalent under the conventional
// lowercase-package / Uppercase-class naming this code assumes.
func splitQName(qname string) (pkg string, classChain []string) {
	parts := strings.Split(qname, ".")
	idx := len(parts)
	for i, p := range parts {
		if p != "" && p[0] >= 'A' && p[0] <= 'Z' {
			idx = i
			break
		}
	}
	return strings.Join(parts[:idx], "."), parts[idx:]
}

// descendInner walks a (possibly already-compiled) unit's nested class chain
// via the grammar adapter's recursive class-by-name search (§4.1 "Java unit
// processing": "recursively scan inner classes for an exact-QName match").
// Non-Java units (AIDL, JSON, or already-compiled) never have an inner chain
// in practice; an empty chain is the common case and returns immediately.
func (l *Loader) descendInner(u *Unit, chain []string) ([]*Unit, error) {
	if len(chain) == 0 {
		return []*Unit{u}, nil
	}
	if u.JavaClass == nil {
		return nil, errs.NewResolutionError(u.QName+"."+strings.Join(chain, "."), l.searchPath, nil)
	}
	current := u
	for _, simple := range chain {
		innerQName := current.QName + "." + simple
		if cached, ok := l.lookup(innerQName); ok {
			current = cached
			continue
		}
		innerNode := current.JavaClass.File.ClassByName(simple)
		inner := l.registerJavaClassUnit(innerQName, current.Package, current.JavaClass.File, innerNode, current.Imports)
		current = inner
	}
	return []*Unit{current}, nil
}

// readFirst scans the search path in order for rel and returns the first
// hit's absolute path and bytes.
func (l *Loader) readFirst(rel string) (string, []byte, error) {
	for _, root := range l.searchPath {
		abs := filepath.Join(root, rel)
		data, err := os.ReadFile(abs)
		if err == nil {
			return abs, data, nil
		}
	}
	return "", nil, os.ErrNotExist
}

// processFile dispatches to the AIDL, Java, or JSON unit processor by
// extension (§4.1 step 2's "try extensions in order").
func (l *Loader) processFile(wantQName, pkg, absPath, ext string, content []byte) (*Unit, error) {
	switch ext {
	case ".aidl":
		return l.processAIDLFile(wantQName, pkg, absPath, content)
	case ".java":
		return l.processJavaFile(wantQName, pkg, absPath, content)
	case ".json":
		return l.processJSONFile(wantQName, pkg, absPath, content)
	default:
		return nil, nil
	}
}

// contentKey hashes file bytes for the content-addressed half of the cache
// (SPEC_FULL.md §B). Stored per Unit and consulted by the watcher
// (watch.go's invalidatePath) to tell a genuine content change from a
// same-bytes fs event, so a file whose content didn't actually change is
// never re-parsed from a watch trigger.
func contentKey(data []byte) uint64 { return xxhash.Sum64(data) }

func (l *Loader) resolveWildcard(pkg string) ([]*Unit, error) {
	dir := strings.ReplaceAll(pkg, ".", "/")
	var out []*Unit
	for _, root := range l.searchPath {
		matches, _ := doublestar.Glob(os.DirFS(root), dir+"/*.aidl")
		for _, m := range matches {
			data, err := os.ReadFile(filepath.Join(root, m))
			if err != nil {
				continue
			}
			base := strings.TrimSuffix(filepath.Base(m), ".aidl")
			qname := pkg + "." + base
			u, err := l.processFile(qname, pkg, filepath.Join(root, m), ".aidl", data)
			if err == nil && u != nil {
				out = append(out, u)
			}
		}
		jsonMatches, _ := doublestar.Glob(os.DirFS(root), dir+"/*.json")
		for _, m := range jsonMatches {
			data, err := os.ReadFile(filepath.Join(root, m))
			if err != nil {
				continue
			}
			base := strings.TrimSuffix(filepath.Base(m), ".json")
			qname := pkg + "." + base
			u, err := l.processFile(qname, pkg, filepath.Join(root, m), ".json", data)
			if err == nil && u != nil {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

// suggest finds the closest-named sibling file in dir to base, using
// Levenshtein edit distance (SPEC_FULL.md §B "go-edlib"), for a "did you
// mean" hint on a failed import resolution.
func (l *Loader) suggest(dir, base string) string {
	var candidates []string
	for _, root := range l.searchPath {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			for _, ext := range extensionOrder {
				if strings.HasSuffix(name, ext) {
					candidates = append(candidates, strings.TrimSuffix(name, ext))
				}
			}
		}
	}
	best := ""
	bestDist := 1000
	for _, c := range candidates {
		dist := edlib.LevenshteinDistance(base, c)
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	if best != "" && bestDist <= (len(base)+1)/2 {
		debug.Logf("loader", "suggesting %q for unresolved import %q", best, base)
		return best
	}
	return ""
}
