// Package grammar is the Grammar Adapter (§2): it wraps the AIDL and
// Java parsers behind typed node accessors — imports, package, class-by-name,
// method-by-name, parameters with modifiers, field declarators, binder method
// nodes, parcelable declarations — so the Compiler never touches a raw CST or
// token stream directly.
//
// The Java backend is tree-sitter, shaped after
// internal/parser/parser.go / parser_language_setup.go: one *tree_sitter.Parser
// per language, Kind()/ChildByFieldName()/Child() traversal, Utf8Text via
// byte-slicing the source between StartByte()/EndByte(). No tree-sitter
// grammar for AIDL is available, so AIDLFile (aidl.go) is a small
// hand-written recursive-descent parser instead — see its doc comment.
package grammar

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

var (
	javaOnce   sync.Once
	javaLang   *tree_sitter.Language
	javaLangMu sync.Mutex
)

func javaLanguage() *tree_sitter.Language {
	javaOnce.Do(func() {
		javaLang = tree_sitter.NewLanguage(tree_sitter_java.Language())
	})
	return javaLang
}

// JavaFile is a parsed .java compilation unit with typed accessors over its
// tree-sitter CST.
type JavaFile struct {
	source []byte
	tree   *tree_sitter.Tree
	root   *tree_sitter.Node
}

// ParseJava parses Java source into a JavaFile. Callers must call Close when
// done with the returned file to release the tree-sitter tree.
func ParseJava(source []byte) (*JavaFile, error) {
	javaLangMu.Lock()
	parser := tree_sitter.NewParser()
	err := parser.SetLanguage(javaLanguage())
	javaLangMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("set java language: %w", err)
	}
	defer parser.Close()

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("java parse produced no tree")
	}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("java parse produced an empty tree")
	}
	// A malformed file still yields a best-effort tree (tree-sitter's error
	// recovery); callers that need strict validation can additionally walk
	// the tree looking for "ERROR" kind nodes. We translate what parses,
	// matching the community parser framework's tolerance of partial trees
	// (community_parser.go).
	return &JavaFile{source: source, tree: tree, root: root}, nil
}

func (f *JavaFile) Close() {
	if f.tree != nil {
		f.tree.Close()
	}
}

// Root returns the program node.
func (f *JavaFile) Root() *tree_sitter.Node { return f.root }

// Text returns the source text spanned by n.
func (f *JavaFile) Text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(f.source[n.StartByte():n.EndByte()])
}

// Package returns the dotted package name, or "" if absent.
func (f *JavaFile) Package() string {
	for i := uint(0); i < f.root.ChildCount(); i++ {
		child := f.root.Child(i)
		if child != nil && child.Kind() == "package_declaration" {
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				return f.Text(nameNode)
			}
		}
	}
	return ""
}

// JavaImport is one non-static import declaration.
type JavaImport struct {
	QName string
}

// Imports returns the file's non-static imports, in source order, skipping
// wildcard-on-demand and static imports (§3 "static omitted").
func (f *JavaFile) Imports() []JavaImport {
	var out []JavaImport
	for i := uint(0); i < f.root.ChildCount(); i++ {
		child := f.root.Child(i)
		if child == nil || child.Kind() != "import_declaration" {
			continue
		}
		skip := false
		for j := uint(0); j < child.ChildCount(); j++ {
			switch child.Child(j).Kind() {
			case "static", "asterisk":
				skip = true
			}
		}
		if skip {
			continue
		}
		if nameNode := child.ChildByFieldName("name"); nameNode != nil {
			out = append(out, JavaImport{QName: f.Text(nameNode)})
		}
	}
	return out
}

// classLikeKinds are the tree-sitter-java node kinds that declare a type.
var classLikeKinds = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"enum_declaration":      true,
	"record_declaration":    true,
}

// TopLevelClasses returns the file's top-level type declarations.
func (f *JavaFile) TopLevelClasses() []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < f.root.ChildCount(); i++ {
		child := f.root.Child(i)
		if child != nil && classLikeKinds[child.Kind()] {
			out = append(out, child)
		}
	}
	return out
}

// ClassName returns the simple name of a class/interface/enum/record node.
func (f *JavaFile) ClassName(class *tree_sitter.Node) string {
	if class == nil {
		return ""
	}
	if n := class.ChildByFieldName("name"); n != nil {
		return f.Text(n)
	}
	return ""
}

// ClassBody returns the class_body node of a type declaration.
func (f *JavaFile) ClassBody(class *tree_sitter.Node) *tree_sitter.Node {
	if class == nil {
		return nil
	}
	return class.ChildByFieldName("body")
}

// ClassByName performs a depth-first search, starting at the top level, for
// a type declaration with the given simple name, descending into nested
// class bodies (§4.1 "Java unit processing": "recursively scan inner
// classes for an exact-QName match").
func (f *JavaFile) ClassByName(name string) *tree_sitter.Node {
	for _, top := range f.TopLevelClasses() {
		if found := findClassByName(f, top, name); found != nil {
			return found
		}
	}
	return nil
}

func findClassByName(f *JavaFile, node *tree_sitter.Node, name string) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	if classLikeKinds[node.Kind()] && f.ClassName(node) == name {
		return node
	}
	body := f.ClassBody(node)
	if body == nil {
		if node.Kind() == "class_body" {
			body = node
		} else {
			return nil
		}
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child == nil {
			continue
		}
		kind := child.Kind()
		if classLikeKinds[kind] {
			if found := findClassByName(f, child, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// Implements returns the simple names in a class's `implements` clause.
func (f *JavaFile) Implements(class *tree_sitter.Node) []string {
	var out []string
	iface := class.ChildByFieldName("interfaces")
	if iface == nil {
		return out
	}
	walkTypeList(f, iface, &out)
	return out
}

// Extends returns the simple name(s) in a class's `extends` clause (one for
// a class, possibly several for an interface).
func (f *JavaFile) Extends(class *tree_sitter.Node) []string {
	var out []string
	sup := class.ChildByFieldName("superclass")
	if sup != nil {
		walkTypeList(f, sup, &out)
	}
	ifaceExt := class.ChildByFieldName("interfaces") // interface_declaration extends list uses "interfaces" field too in some grammars
	if class.Kind() == "interface_declaration" && ifaceExt != nil {
		walkTypeList(f, ifaceExt, &out)
	}
	return out
}

// walkTypeList extracts simple type names (last segment of any scoped name,
// stripped of generic type arguments) from a `type_list`/`superclass` subtree.
func walkTypeList(f *JavaFile, node *tree_sitter.Node, out *[]string) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "type_identifier", "scoped_type_identifier":
		*out = append(*out, SimpleName(f.Text(node)))
		return
	case "generic_type":
		if n := node.ChildByFieldName("name"); n != nil {
			*out = append(*out, SimpleName(f.Text(n)))
		} else if node.ChildCount() > 0 {
			*out = append(*out, SimpleName(f.Text(node.Child(0))))
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkTypeList(f, node.Child(i), out)
	}
}

// SimpleName strips a dotted/scoped name and any generic suffix down to its
// last segment, e.g. "android.os.Parcelable" -> "Parcelable",
// "List<String>" -> "List".
func SimpleName(qualified string) string {
	name := qualified
	for i := 0; i < len(name); i++ {
		if name[i] == '<' {
			name = name[:i]
			break
		}
	}
	last := name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			last = name[i+1:]
			break
		}
	}
	return last
}

// Fields returns every field declarator of a class body, static ones
// included and marked by Static, in declaration order.
type JavaField struct {
	Name     string
	Type     *tree_sitter.Node
	Static   bool
	Node     *tree_sitter.Node
}

func (f *JavaFile) Fields(class *tree_sitter.Node) []JavaField {
	body := f.ClassBody(class)
	if body == nil {
		return nil
	}
	var out []JavaField
	for i := uint(0); i < body.ChildCount(); i++ {
		decl := body.Child(i)
		if decl == nil || decl.Kind() != "field_declaration" {
			continue
		}
		static := hasModifier(f, decl, "static")
		typeNode := decl.ChildByFieldName("type")
		for j := uint(0); j < decl.ChildCount(); j++ {
			child := decl.Child(j)
			if child == nil || child.Kind() != "variable_declarator" {
				continue
			}
			nameNode := child.ChildByFieldName("name")
			out = append(out, JavaField{
				Name:   f.Text(nameNode),
				Type:   typeNode,
				Static: static,
				Node:   child,
			})
		}
	}
	return out
}

func hasModifier(f *JavaFile, decl *tree_sitter.Node, keyword string) bool {
	mods := decl.ChildByFieldName("modifiers")
	if mods == nil {
		return false
	}
	for i := uint(0); i < mods.ChildCount(); i++ {
		if mods.Child(i).Kind() == keyword {
			return true
		}
	}
	return false
}

// FieldByName looks up a single non-static or static field declarator by
// simple name (used to locate the CREATOR field).
func (f *JavaFile) FieldByName(class *tree_sitter.Node, name string) *JavaField {
	body := f.ClassBody(class)
	if body == nil {
		return nil
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		decl := body.Child(i)
		if decl == nil || decl.Kind() != "field_declaration" {
			continue
		}
		static := hasModifier(f, decl, "static")
		typeNode := decl.ChildByFieldName("type")
		for j := uint(0); j < decl.ChildCount(); j++ {
			child := decl.Child(j)
			if child == nil || child.Kind() != "variable_declarator" {
				continue
			}
			nameNode := child.ChildByFieldName("name")
			if f.Text(nameNode) == name {
				jf := JavaField{Name: name, Type: typeNode, Static: static, Node: child}
				return &jf
			}
		}
	}
	return nil
}

// Methods returns a class body's method_declaration nodes in source order.
func (f *JavaFile) Methods(class *tree_sitter.Node) []*tree_sitter.Node {
	body := f.ClassBody(class)
	if body == nil {
		return nil
	}
	var out []*tree_sitter.Node
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child != nil && child.Kind() == "method_declaration" {
			out = append(out, child)
		}
	}
	return out
}

// MethodByName returns the first method with the given simple name.
func (f *JavaFile) MethodByName(class *tree_sitter.Node, name string) *tree_sitter.Node {
	for _, m := range f.Methods(class) {
		if nameNode := m.ChildByFieldName("name"); nameNode != nil && f.Text(nameNode) == name {
			return m
		}
	}
	return nil
}

// Constructors returns a class body's constructor_declaration nodes.
func (f *JavaFile) Constructors(class *tree_sitter.Node) []*tree_sitter.Node {
	body := f.ClassBody(class)
	if body == nil {
		return nil
	}
	var out []*tree_sitter.Node
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child != nil && child.Kind() == "constructor_declaration" {
			out = append(out, child)
		}
	}
	return out
}

// JavaParam is one formal parameter: its binding name and type node.
type JavaParam struct {
	Name string
	Type *tree_sitter.Node
}

// Parameters returns a method or constructor's formal parameters.
func (f *JavaFile) Parameters(methodOrCtor *tree_sitter.Node) []JavaParam {
	params := methodOrCtor.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []JavaParam
	for i := uint(0); i < params.ChildCount(); i++ {
		p := params.Child(i)
		if p == nil || p.Kind() != "formal_parameter" {
			continue
		}
		nameNode := p.ChildByFieldName("name")
		typeNode := p.ChildByFieldName("type")
		out = append(out, JavaParam{Name: f.Text(nameNode), Type: typeNode})
	}
	return out
}

// Body returns a method or constructor's block node, or nil for an abstract
// method with no body.
func (f *JavaFile) Body(methodOrCtor *tree_sitter.Node) *tree_sitter.Node {
	return methodOrCtor.ChildByFieldName("body")
}

// ReturnType returns a method's declared return type node.
func (f *JavaFile) ReturnType(method *tree_sitter.Node) *tree_sitter.Node {
	return method.ChildByFieldName("type")
}
