// Package loader is the Loader/Resolver (§4.1): a content-addressed
// cache over AIDL, Java, and precompiled JSON units, with wildcard package
// import and fallback scanning of source directories. Grounded on
// internal/cache/metrics_cache.go (a sync.Map-backed cache with
// content hashing) and internal/indexing/watcher.go (fsnotify-driven
// invalidation).
package loader

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/model"
)

// Unit is a parsed compilation artifact (§3). Which body fields are
// populated depends on Type and on whether the unit has been compiled:
//   - UnitBinder / UnitParcelableJava with no compiled body yet: AIDLInterface
//     or JavaClass is set.
//   - UnitParcelable (AIDL-bodied): AIDLParcelableBody is set.
//   - Any type once compiled: Binder or Parcelable is set as well (the AST
//     body is kept) and IsCompiled is true. A unit loaded straight from JSON
//     has only Binder or Parcelable set.
type Unit struct {
	QName   string
	Package string
	Name    string
	Type    model.UnitType
	Imports []model.ImportDef

	// RawImports are the explicit (non-static) import declarations as written
	// in the source file backing this unit. For AIDL-backed units this
	// includes wildcard entries (`pkg.*`); Java-backed units carry no
	// wildcard entries, since grammar.JavaFile.Imports skips them. The Compiler's import resolver (§4.6) consumes these
	// to populate an ImportDefList; the Loader itself never interprets them.
	RawImports []string

	// Uncompiled AST bodies.
	AIDLInterface      *grammar.AIDLInterface
	AIDLParcelableBody *grammar.AIDLParcelable
	JavaClass          *JavaClassRef

	// Compiled products. Populated by the Compiler, or directly by the JSON
	// loader (§4.1 "JSON unit processing").
	Binder     *model.BinderDef
	Parcelable *model.ParcelableDef
	IsCompiled bool

	// sourcePath and contentHash back the content-addressed half of the
	// cache and the fsnotify watch-invalidation path (SPEC_FULL.md §B).
	sourcePath  string
	contentHash uint64
}

// JavaClassRef pins a class/interface/enum declaration node to the JavaFile
// that owns its tree-sitter tree, so the Compiler can walk its body later
// without re-parsing.
type JavaClassRef struct {
	File *grammar.JavaFile
	Node *tree_sitter.Node
}

// SourcePath returns the file this unit was parsed from, or "" for a
// synthesized/placeholder/JSON-origin unit.
func (u *Unit) SourcePath() string { return u.sourcePath }
