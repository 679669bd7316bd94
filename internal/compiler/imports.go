package compiler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

// importResolver is a Unit-scoped ImportDefList (§4.6): simple name
// -> resolved ImportDef. Built once per unit before translation and consulted
// by the TypeHandler and NodeVisitor for every bare type reference.
type importResolver struct {
	l       *loader.Loader
	entries map[string]model.ImportDef
	// localFile backs step 3: a class-by-name query on the current unit's own
	// AST, used when a simple name names a sibling inner class the Loader
	// never registered (it doesn't implement Parcelable itself).
	localFile *grammar.JavaFile
}

// newImportResolver populates the three-step ImportDefList of §4.6.
func newImportResolver(l *loader.Loader, u *loader.Unit) *importResolver {
	r := &importResolver{l: l, entries: make(map[string]model.ImportDef)}

	// Step 1: explicit imports, keeping only the entry whose simple name
	// matches the last segment.
	for _, raw := range u.RawImports {
		if strings.HasSuffix(raw, ".*") {
			pkg := strings.TrimSuffix(raw, ".*")
			units, err := l.Resolve(raw)
			if err != nil {
				continue
			}
			for _, wu := range units {
				simple := wu.Name
				r.entries[simple] = model.ImportDef{QName: pkg + "." + simple, FileType: wu.Type}
			}
			continue
		}
		simple := grammar.SimpleName(raw)
		wu, err := l.Get(raw)
		if err != nil {
			r.entries[simple] = model.ImportDef{QName: raw, FileType: model.UnitUndefined}
			continue
		}
		r.entries[simple] = model.ImportDef{QName: wu.QName, FileType: wu.Type}
	}

	// Step 2: eagerly import every .aidl file in the enclosing package
	// directory, to cover unqualified references to siblings.
	for _, siblingQName := range siblingAIDLUnits(l, u.Package) {
		simple := grammar.SimpleName(siblingQName)
		if _, ok := r.entries[simple]; ok {
			continue
		}
		wu, err := l.Get(siblingQName)
		if err != nil {
			continue
		}
		r.entries[simple] = model.ImportDef{QName: wu.QName, FileType: wu.Type}
	}

	// Step 3: inner classes are resolved lazily against the unit's own AST,
	// tagged PARCELABLE_JAVA, the first time get() misses on them.
	if u.JavaClass != nil {
		r.localFile = u.JavaClass.File
	}

	return r
}

// siblingAIDLUnits lists the QNames of every .aidl-declared interface and
// parcelable in pkg's directory, across the Loader's search path.
func siblingAIDLUnits(l *loader.Loader, pkg string) []string {
	dir := strings.ReplaceAll(pkg, ".", "/")
	var out []string
	for _, root := range l.SearchPath() {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !strings.HasSuffix(e.Name(), ".aidl") {
				continue
			}
			base := strings.TrimSuffix(e.Name(), ".aidl")
			if pkg == "" {
				out = append(out, base)
			} else {
				out = append(out, pkg+"."+base)
			}
		}
	}
	return out
}

// get implements get_import (§4.6): a cached ImportDef, falling back to a
// class-by-name search on the current unit's own AST (step 3) before finally
// returning an UNDEFINED placeholder.
func (r *importResolver) get(simple string) model.ImportDef {
	if def, ok := r.entries[simple]; ok {
		return def
	}
	if r.localFile != nil {
		if node := r.localFile.ClassByName(simple); node != nil {
			def := model.ImportDef{QName: simple, FileType: model.UnitParcelableJava}
			r.entries[simple] = def
			return def
		}
	}
	def := model.ImportDef{QName: simple, FileType: model.UnitUndefined}
	r.entries[simple] = def
	return def
}
