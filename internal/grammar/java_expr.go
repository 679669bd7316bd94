package grammar

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// The Compiler's NodeVisitor (§4.5) dispatches on these shapes while
// walking a parcelable's read method. Each accessor below mirrors one row of
// the statement-dispatch table in SPEC_FULL.md §4.5, shaped after the
// node-kind switch in unified_extractor.go.

// StatementsOf returns the direct statement children of a block node.
func (f *JavaFile) StatementsOf(block *tree_sitter.Node) []*tree_sitter.Node {
	if block == nil {
		return nil
	}
	var out []*tree_sitter.Node
	for i := uint(0); i < block.ChildCount(); i++ {
		child := block.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "{", "}":
			continue
		}
		out = append(out, child)
	}
	return out
}

// LocalVarDeclarator describes one `Type v = init;` binding inside a
// local_variable_declaration (which may declare several comma-separated
// names; AIDL-generated parcelables only ever use one per statement, but the
// accessor reports all of them).
type LocalVarDeclarator struct {
	Name  string
	Value *tree_sitter.Node
}

// LocalVarDeclarators returns the bindings of a local_variable_declaration
// statement.
func (f *JavaFile) LocalVarDeclarators(stmt *tree_sitter.Node) []LocalVarDeclarator {
	if stmt == nil || stmt.Kind() != "local_variable_declaration" {
		return nil
	}
	var out []LocalVarDeclarator
	for i := uint(0); i < stmt.ChildCount(); i++ {
		d := stmt.Child(i)
		if d == nil || d.Kind() != "variable_declarator" {
			continue
		}
		nameNode := d.ChildByFieldName("name")
		valueNode := d.ChildByFieldName("value")
		out = append(out, LocalVarDeclarator{Name: f.Text(nameNode), Value: valueNode})
	}
	return out
}

// ExpressionOf returns the expression wrapped by an expression_statement, or
// nil if stmt is any other kind of statement.
func (f *JavaFile) ExpressionOf(stmt *tree_sitter.Node) *tree_sitter.Node {
	if stmt == nil || stmt.Kind() != "expression_statement" {
		return nil
	}
	for i := uint(0); i < stmt.ChildCount(); i++ {
		c := stmt.Child(i)
		if c != nil && c.Kind() != ";" {
			return c
		}
	}
	return nil
}

// Assignment describes `left = right` (an assignment_expression).
type Assignment struct {
	Left  *tree_sitter.Node
	Right *tree_sitter.Node
}

func (f *JavaFile) AsAssignment(expr *tree_sitter.Node) (Assignment, bool) {
	if expr == nil || expr.Kind() != "assignment_expression" {
		return Assignment{}, false
	}
	left := expr.ChildByFieldName("left")
	right := expr.ChildByFieldName("right")
	return Assignment{Left: left, Right: right}, true
}

// MemberTarget resolves an assignment target to a bare field name, stripping
// a leading `this.` if present.
func (f *JavaFile) MemberTarget(node *tree_sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "identifier":
		return f.Text(node)
	case "field_access":
		if obj := node.ChildByFieldName("object"); obj != nil && obj.Kind() == "this" {
			if fieldNode := node.ChildByFieldName("field"); fieldNode != nil {
				return f.Text(fieldNode)
			}
		}
		if fieldNode := node.ChildByFieldName("field"); fieldNode != nil {
			return f.Text(fieldNode)
		}
	}
	return f.Text(node)
}

// Invocation describes a method_invocation: optional receiver object,
// invoked method name, and argument list.
type Invocation struct {
	Object    *tree_sitter.Node // nil for an unqualified call
	Name      string
	Arguments []*tree_sitter.Node
}

func (f *JavaFile) AsInvocation(node *tree_sitter.Node) (Invocation, bool) {
	if node == nil || node.Kind() != "method_invocation" {
		return Invocation{}, false
	}
	nameNode := node.ChildByFieldName("name")
	inv := Invocation{Object: node.ChildByFieldName("object"), Name: f.Text(nameNode)}
	if argsNode := node.ChildByFieldName("arguments"); argsNode != nil {
		for i := uint(0); i < argsNode.ChildCount(); i++ {
			a := argsNode.Child(i)
			if a == nil {
				continue
			}
			switch a.Kind() {
			case "(", ")", ",":
				continue
			}
			inv.Arguments = append(inv.Arguments, a)
		}
	}
	return inv, true
}

// ObjectText returns the textual receiver of an invocation ("p", "this",
// "android.os.Bundle.CREATOR", ...), or "" if unqualified.
func (f *JavaFile) ObjectText(inv Invocation) string {
	if inv.Object == nil {
		return ""
	}
	return f.Text(inv.Object)
}

// ObjectCreation describes `new Class(args...)`.
type ObjectCreation struct {
	ClassName string // simple name
	Arguments []*tree_sitter.Node
}

func (f *JavaFile) AsObjectCreation(node *tree_sitter.Node) (ObjectCreation, bool) {
	if node == nil || node.Kind() != "object_creation_expression" {
		return ObjectCreation{}, false
	}
	typeNode := node.ChildByFieldName("type")
	oc := ObjectCreation{ClassName: SimpleName(f.Text(typeNode))}
	if argsNode := node.ChildByFieldName("arguments"); argsNode != nil {
		for i := uint(0); i < argsNode.ChildCount(); i++ {
			a := argsNode.Child(i)
			if a == nil {
				continue
			}
			switch a.Kind() {
			case "(", ")", ",":
				continue
			}
			oc.Arguments = append(oc.Arguments, a)
		}
	}
	return oc, true
}

// IfStatement describes `if (cond) then else alt`.
type IfStatement struct {
	Condition   *tree_sitter.Node
	Consequence *tree_sitter.Node
	Alternative *tree_sitter.Node // nil if absent
}

func (f *JavaFile) AsIfStatement(stmt *tree_sitter.Node) (IfStatement, bool) {
	if stmt == nil || stmt.Kind() != "if_statement" {
		return IfStatement{}, false
	}
	return IfStatement{
		Condition:   stmt.ChildByFieldName("condition"),
		Consequence: stmt.ChildByFieldName("consequence"),
		Alternative: stmt.ChildByFieldName("alternative"),
	}, true
}

// BinaryExpr describes `left op right`.
type BinaryExpr struct {
	Left     *tree_sitter.Node
	Operator string
	Right    *tree_sitter.Node
}

func (f *JavaFile) AsBinaryExpr(node *tree_sitter.Node) (BinaryExpr, bool) {
	if node == nil || node.Kind() != "binary_expression" {
		return BinaryExpr{}, false
	}
	var op string
	for i := uint(0); i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "==", "!=", "<", "<=", ">", ">=":
			op = c.Kind()
		}
	}
	return BinaryExpr{Left: node.ChildByFieldName("left"), Operator: op, Right: node.ChildByFieldName("right")}, true
}

// AsReturnStatement returns the expression of a `return expr;` statement,
// or nil for a bare `return;`.
func (f *JavaFile) AsReturnStatement(stmt *tree_sitter.Node) (*tree_sitter.Node, bool) {
	if stmt == nil || stmt.Kind() != "return_statement" {
		return nil, false
	}
	for i := uint(0); i < stmt.ChildCount(); i++ {
		c := stmt.Child(i)
		if c != nil && c.Kind() != "return" && c.Kind() != ";" {
			return c, true
		}
	}
	return nil, true
}

// Unparenthesize strips parenthesized_expression wrappers.
func (f *JavaFile) Unparenthesize(node *tree_sitter.Node) *tree_sitter.Node {
	for node != nil && node.Kind() == "parenthesized_expression" {
		var inner *tree_sitter.Node
		for i := uint(0); i < node.ChildCount(); i++ {
			c := node.Child(i)
			if c != nil && c.Kind() != "(" && c.Kind() != ")" {
				inner = c
				break
			}
		}
		if inner == nil {
			break
		}
		node = inner
	}
	return node
}
