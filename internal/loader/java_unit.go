package loader

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/binderir/aidlc/internal/errs"
	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/model"
)

// implementsParcelable reports whether a class node's `implements` clause
// names Parcelable by simple name (§4.1: "by simple-name match on
// the implements list").
func implementsParcelable(file *grammar.JavaFile, class *tree_sitter.Node) bool {
	for _, name := range file.Implements(class) {
		if name == "Parcelable" {
			return true
		}
	}
	return false
}

// processJavaFile implements §4.1 "Java unit processing": parse the
// file, walk its type declarations (including nested classes), and register
// a Unit for every class implementing Parcelable.
func (l *Loader) processJavaFile(wantQName, pkg, absPath string, content []byte) (*Unit, error) {
	file, err := grammar.ParseJava(content)
	if err != nil {
		return nil, errs.NewParseError(absPath, err)
	}

	var want *Unit
	for _, top := range file.TopLevelClasses() {
		if u := l.registerClassTree(pkg, pkg, file, top, absPath, content, wantQName); u != nil {
			want = u
		}
	}
	return want, nil
}

// registerClassTree recursively registers class/interface/enum nodes
// implementing Parcelable under enclosingQName.SimpleName, descending into
// nested class bodies, and returns the unit matching wantQName if found.
func (l *Loader) registerClassTree(enclosingQName, pkg string, file *grammar.JavaFile, class *tree_sitter.Node, absPath string, content []byte, wantQName string) *Unit {
	name := file.ClassName(class)
	qname := joinQName(enclosingQName, name)

	var want *Unit
	if implementsParcelable(file, class) {
		u := &Unit{
			QName:       qname,
			Package:     pkg,
			Name:        name,
			Type:        model.UnitParcelableJava,
			JavaClass:   &JavaClassRef{File: file, Node: class},
			RawImports:  javaRawImports(file),
			sourcePath:  absPath,
			contentHash: contentKey(content),
		}
		l.Put(u)
		if qname == wantQName {
			want = u
		}
	}

	body := file.ClassBody(class)
	if body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
				if u := l.registerClassTree(qname, pkg, file, child, absPath, content, wantQName); u != nil {
					want = u
				}
			}
		}
	}
	return want
}

// registerJavaClassUnit registers (and returns) a Unit for a specific
// already-located class node — used by descendInner when a requested inner
// class was not discovered during the initial file walk (e.g. it does not
// implement Parcelable itself but is still a valid translation target, such
// as an anonymous CREATOR inner class reached via get_creator()).
func (l *Loader) registerJavaClassUnit(qname, pkg string, file *grammar.JavaFile, node *tree_sitter.Node, imports []model.ImportDef) *Unit {
	if node == nil {
		// Last-resort phantom unit (§4.1): a placeholder so later lookups
		// don't fail catastrophically.
		u := &Unit{QName: qname, Package: pkg, Type: model.UnitUndefined, Imports: imports}
		l.Put(u)
		return u
	}
	name := file.ClassName(node)
	u := &Unit{
		QName:       qname,
		Package:     pkg,
		Name:        name,
		Type:        model.UnitParcelableJava,
		JavaClass:   &JavaClassRef{File: file, Node: node},
		Imports:     imports,
		RawImports:  javaRawImports(file),
	}
	l.Put(u)
	return u
}

// javaRawImports flattens a JavaFile's non-static imports to their QName
// strings for the Compiler's import resolver (§4.6).
func javaRawImports(file *grammar.JavaFile) []string {
	var out []string
	for _, imp := range file.Imports() {
		out = append(out, imp.QName)
	}
	return out
}
