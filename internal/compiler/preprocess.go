// Package compiler is the Compiler (§4.2–§4.6): it preprocesses a
// Unit's body into an index, maps AST types to call strings, and walks binder
// interfaces and parcelable read methods into the FieldDef/ConditionDef/Stop
// call scripts the Decoder interprets. Grounded on
// internal/parser/unified_extractor.go (index-then-walk structure) and
// internal/parser/unified_extractor_type_relationships.go (extends/implements
// indexing).
package compiler

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/loader"
)

// index pre-scans a Java class body for the structures §4.2 names, so the
// rest of the Compiler can query by name instead of re-walking the CST.
type index struct {
	file *grammar.JavaFile
	node *tree_sitter.Node

	members      map[string]grammar.JavaField // field name -> declarator + type
	methods      map[string]*tree_sitter.Node // method name -> node (first match, source order)
	constructors []*tree_sitter.Node
	extends      []string
	implements   []string
}

// newIndex builds the §4.2 Preprocessor index for a class node.
func newIndex(file *grammar.JavaFile, node *tree_sitter.Node) *index {
	ix := &index{
		file:       file,
		node:       node,
		members:    make(map[string]grammar.JavaField),
		methods:    make(map[string]*tree_sitter.Node),
		extends:    file.Extends(node),
		implements: file.Implements(node),
	}
	for _, fld := range file.Fields(node) {
		ix.members[fld.Name] = fld
	}
	for _, m := range file.Methods(node) {
		name := file.Text(m.ChildByFieldName("name"))
		if _, seen := ix.methods[name]; !seen {
			ix.methods[name] = m
		}
	}
	ix.constructors = file.Constructors(node)
	return ix
}

// getCreator finds the CREATOR field and, within its anonymous class body,
// the createFromParcel method (§4.2 "get_creator()").
func (ix *index) getCreator() *tree_sitter.Node {
	fld := ix.file.FieldByName(ix.node, "CREATOR")
	if fld == nil || fld.Node == nil {
		return nil
	}
	value := fld.Node.ChildByFieldName("value")
	if value == nil {
		return nil
	}
	// `value` is an object_creation_expression whose trailing class_body is
	// the anonymous Creator<T> implementation.
	body := value.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child == nil || child.Kind() != "method_declaration" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode != nil && ix.file.Text(nameNode) == "createFromParcel" {
			return child
		}
	}
	return nil
}

// getParcelConstructor finds a constructor whose single parameter is of type
// Parcel or android.os.Parcel (§4.2 "get_parcel_constructor()").
func (ix *index) getParcelConstructor() *tree_sitter.Node {
	for _, ctor := range ix.constructors {
		params := ix.file.Parameters(ctor)
		if len(params) != 1 {
			continue
		}
		if grammar.SimpleName(ix.file.Text(params[0].Type)) == "Parcel" {
			return ctor
		}
	}
	return nil
}

// unitIndex builds a Preprocessor index for any unit backed by a Java class
// node (PARCELABLE_JAVA only; BINDER and body-present PARCELABLE units have no
// Java AST to index).
func unitIndex(u *loader.Unit) *index {
	if u.JavaClass == nil {
		return nil
	}
	return newIndex(u.JavaClass.File, u.JavaClass.Node)
}
