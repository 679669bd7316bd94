package compiler

import (
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

// typeHandler maps a type AST node to a call string (§4.3), grounded
// on internal/parser/unified_extractor_type_relationships.go's
// type-reference classification.
type typeHandler struct {
	l    *loader.Loader
	pkg  string
	res  *importResolver
}

// complexTable is the fixed leaf-type mapping of §4.3.
var complexTable = map[string]string{
	"IBinder": "readStrongBinder",
	"Bundle":  "readBundle",
}

// primitiveVerb upper-cases a primitive/String type name's first letter and
// prefixes "read" (e.g. "int" -> "readInt", "String" -> "readString").
func primitiveVerb(name string) string {
	if name == "" {
		return "read"
	}
	return "read" + strings.ToUpper(name[:1]) + name[1:]
}

var primitiveNames = map[string]bool{
	"int": true, "long": true, "short": true, "byte": true,
	"float": true, "double": true, "boolean": true, "char": true,
	"String": true,
}

// callOfAIDL computes the call string for an AIDL-declared type (used by
// as_binder and AIDL-bodied as_parcelable).
func (th *typeHandler) callOfAIDL(t grammar.AIDLType) string {
	if t.Array {
		scalar := th.scalarCall(t.Name)
		return scalar + "Vector"
	}
	switch t.Name {
	case "List":
		return th.listCall(t.Generic, "readList", "java.util.List")
	case "ParceledListSlice":
		return th.listCall(t.Generic, "readParceledListSlice", "android.content.pm.ParceledListSlice")
	}
	return th.scalarCall(t.Name)
}

// callOfJava computes the call string for a Java type AST node (used by
// Java-bodied as_parcelable translation).
func (th *typeHandler) callOfJava(file *grammar.JavaFile, node *tree_sitter.Node) string {
	if node == nil {
		return "readParcelable"
	}
	switch node.Kind() {
	case "array_type":
		elem := node.ChildByFieldName("element")
		scalar := th.callOfJava(file, elem)
		return scalar + "Vector"
	case "generic_type":
		name := grammar.SimpleName(file.Text(node.ChildByFieldName("name")))
		generic := ""
		if args := typeArguments(node); len(args) > 0 {
			generic = grammar.SimpleName(file.Text(args[0]))
		}
		switch name {
		case "List":
			return th.listCall(generic, "readList", "java.util.List")
		case "ParceledListSlice":
			return th.listCall(generic, "readParceledListSlice", "android.content.pm.ParceledListSlice")
		}
		return th.scalarCall(name)
	default:
		return th.scalarCall(grammar.SimpleName(file.Text(node)))
	}
}

// typeArguments returns a generic_type node's type_arguments children.
func typeArguments(node *tree_sitter.Node) []*tree_sitter.Node {
	args := node.ChildByFieldName("type_arguments")
	if args == nil {
		return nil
	}
	var out []*tree_sitter.Node
	for i := uint(0); i < args.ChildCount(); i++ {
		c := args.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "<", ">", ",":
			continue
		}
		out = append(out, c)
	}
	return out
}

// listCall implements §4.3's List<T>/ParceledListSlice<T> rule: no generic
// argument falls back to readParcelable:<rawQName>; a complex-table hit emits
// verb:<mapped>; a resolvable import emits verb:<QName>; otherwise verb:<T>.
func (th *typeHandler) listCall(generic, verb, rawQName string) string {
	if generic == "" {
		return "readParcelable:" + rawQName
	}
	if mapped, ok := complexTable[generic]; ok {
		return verb + ":" + mapped
	}
	def := th.res.get(generic)
	if def.FileType != model.UnitUndefined {
		return verb + ":" + def.QName
	}
	return verb + ":" + generic
}

// scalarCall resolves a non-generic, non-array leaf type name to a call
// string: primitive, complex-table, imported, or unknown-reference fallback.
func (th *typeHandler) scalarCall(name string) string {
	if primitiveNames[name] {
		return primitiveVerb(name)
	}
	if mapped, ok := complexTable[name]; ok {
		return mapped
	}
	def := th.res.get(name)
	if def.FileType != model.UnitUndefined {
		if def.FileType == model.UnitBinder {
			return "readStrongBinder"
		}
		return "readParcelable:" + def.QName
	}
	// Unknown reference: fall back to scanning the enclosing package
	// directory for a file matching the simple name (§4.3 last rule).
	if u, err := th.l.Get(joinPkg(th.pkg, name)); err == nil {
		if u.Type == model.UnitBinder {
			return "readStrongBinder"
		}
		return "readParcelable:" + u.QName
	}
	return "readParcelable:" + name
}

func joinPkg(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// constVal is the result of const_val_of (§4.3 "Constant evaluation"): the
// formatted textual representation of a literal (integers normalized to
// base 10) plus whether it was recognized at all, used by
// the NodeVisitor to compare a ConditionDef's check value against source.
type constVal struct {
	Text  string
	Valid bool
}

// constValOf recognizes integer literals (bases 10/16/8/2, L/l suffix),
// string/char literals, booleans, null, and one level of identifier
// reference against the initializers of ix's own fields. Super classes and
// implemented interfaces are not searched; an identifier that is not a
// field of ix yields an invalid constVal.
func constValOf(file *grammar.JavaFile, node *tree_sitter.Node, ix *index) constVal {
	node = file.Unparenthesize(node)
	if node == nil {
		return constVal{}
	}
	switch node.Kind() {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		text := strings.TrimRight(file.Text(node), "Ll")
		if n, err := strconv.ParseInt(normalizeIntLiteral(text), 0, 64); err == nil {
			return constVal{Text: strconv.FormatInt(n, 10), Valid: true}
		}
		return constVal{Text: text, Valid: true}
	case "string_literal", "character_literal":
		return constVal{Text: file.Text(node), Valid: true}
	case "true", "false":
		return constVal{Text: file.Text(node), Valid: true}
	case "null_literal":
		return constVal{Text: "null", Valid: true}
	case "unary_expression":
		// -1, +1: fold the sign into the literal text.
		for i := uint(0); i < node.ChildCount(); i++ {
			c := node.Child(i)
			if c == nil {
				continue
			}
			if c.Kind() == "-" || c.Kind() == "+" {
				continue
			}
			inner := constValOf(file, c, ix)
			if inner.Valid && (node.Child(0).Kind() == "-") {
				inner.Text = "-" + inner.Text
			}
			return inner
		}
	case "identifier", "field_access":
		name := grammar.SimpleName(file.Text(node))
		if ix == nil {
			return constVal{}
		}
		if fld, ok := ix.members[name]; ok && fld.Node != nil {
			if init := fld.Node.ChildByFieldName("value"); init != nil {
				return constValOf(file, init, nil) // one level deep only
			}
		}
	}
	return constVal{}
}

// normalizeIntLiteral keeps Go's ParseInt prefix conventions in sync with
// Java's: "0x"/"0X" hex and "0b"/"0B" binary match directly, but a bare
// leading "0" (Java octal) needs an explicit "0o" for strconv.
func normalizeIntLiteral(s string) string {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X' || s[1] == 'b' || s[1] == 'B') {
		return s
	}
	if len(s) > 1 && s[0] == '0' {
		return "0o" + s[1:]
	}
	return s
}
