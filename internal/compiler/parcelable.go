package compiler

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/binderir/aidlc/internal/errs"
	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

// asParcelable dispatches parcelable translation by unit type (§4.5):
// AIDL-declared bodies enumerate their fields directly; Java-backed units are
// walked statement by statement from a chosen entry point.
func (c *Compiler) asParcelable(u *loader.Unit) (*model.ParcelableDef, error) {
	if u.Type == model.UnitParcelable {
		return c.asParcelableAIDL(u)
	}
	return c.asParcelableJava(u)
}

// asParcelableAIDL enumerates an AIDL-bodied parcelable's non-static fields
// in declaration order.
func (c *Compiler) asParcelableAIDL(u *loader.Unit) (*model.ParcelableDef, error) {
	res := newImportResolver(c.loader, u)
	th := &typeHandler{l: c.loader, pkg: u.Package, res: res}
	def := &model.ParcelableDef{QName: u.QName, Type: model.UnitParcelable}
	for _, f := range u.AIDLParcelableBody.Fields {
		def.Fields = append(def.Fields, model.NewField(f.Name, th.callOfAIDL(f.Type)))
	}
	return def, nil
}

// walker holds the translation context for a single Java-backed parcelable
// unit: the Compiler (for cross-unit delegate lookups), the unit's own
// import resolver, and its TypeHandler. Grounded on the statement-kind
// dispatch in internal/parser/unified_extractor.go.
type walker struct {
	c    *Compiler
	unit *loader.Unit
	res  *importResolver
	th   *typeHandler
}

// asParcelableJava picks the §4.5 entry point and walks it.
func (c *Compiler) asParcelableJava(u *loader.Unit) (*model.ParcelableDef, error) {
	if u.JavaClass == nil {
		return nil, errs.NewTranslationError(u.QName, "no Java class AST available", nil)
	}
	file := u.JavaClass.File
	class := u.JavaClass.Node
	ix := newIndex(file, class)
	res := newImportResolver(c.loader, u)
	th := &typeHandler{l: c.loader, pkg: u.Package, res: res}
	w := &walker{c: c, unit: u, res: res, th: th}

	entryFile, entryIx, entryNode, tracker := w.pickEntryPoint(file, ix, class)
	if entryNode == nil {
		return nil, errs.NewTranslationError(u.QName, "no createFromParcel or Parcel constructor found", nil)
	}
	body := entryFile.Body(entryNode)
	fields := w.translateBlockNode(entryFile, entryIx, body, tracker)
	return &model.ParcelableDef{QName: u.QName, Type: u.Type, Fields: fields}, nil
}

// pickEntryPoint implements §4.5's entry-point rule: prefer createFromParcel
// if it is a one-line constructor delegate (swap to that constructor),
// otherwise use createFromParcel directly, otherwise the Parcel constructor.
func (w *walker) pickEntryPoint(file *grammar.JavaFile, ix *index, class *tree_sitter.Node) (*grammar.JavaFile, *index, *tree_sitter.Node, string) {
	creator := ix.getCreator()
	if creator != nil {
		params := file.Parameters(creator)
		if len(params) == 1 {
			if body := file.Body(creator); body != nil {
				stmts := file.StatementsOf(body)
				if len(stmts) == 1 {
					if retExpr, ok := file.AsReturnStatement(stmts[0]); ok && retExpr != nil {
						if oc, ok2 := file.AsObjectCreation(retExpr); ok2 && len(oc.Arguments) == 1 &&
							isTrackerRef(file, oc.Arguments[0], params[0].Name) {
							if subFile, subIx, ctor, ok3 := w.resolveDelegateClass(file, ix, oc.ClassName); ok3 {
								return subFile, subIx, ctor, subFile.Parameters(ctor)[0].Name
							}
						}
					}
				}
			}
			return file, ix, creator, params[0].Name
		}
	}
	if ctor := ix.getParcelConstructor(); ctor != nil {
		return file, ix, ctor, file.Parameters(ctor)[0].Name
	}
	return file, ix, nil, ""
}

// resolveDelegateClass finds the Parcel constructor of className, either the
// current class itself or another unit resolved via the import list.
func (w *walker) resolveDelegateClass(curFile *grammar.JavaFile, curIx *index, className string) (*grammar.JavaFile, *index, *tree_sitter.Node, bool) {
	if className == w.unit.Name || className == "" {
		if ctor := curIx.getParcelConstructor(); ctor != nil {
			return curFile, curIx, ctor, true
		}
		return nil, nil, nil, false
	}
	def := w.res.get(className)
	if def.FileType == model.UnitUndefined {
		return nil, nil, nil, false
	}
	u2, err := w.c.loader.Get(def.QName)
	if err != nil || u2.JavaClass == nil {
		return nil, nil, nil, false
	}
	ix2 := newIndex(u2.JavaClass.File, u2.JavaClass.Node)
	ctor := ix2.getParcelConstructor()
	if ctor == nil {
		return nil, nil, nil, false
	}
	return u2.JavaClass.File, ix2, ctor, true
}

// translateBlockNode translates every statement in a block (or a single
// non-block statement) into the FieldLike call script of §4.5's table.
func (w *walker) translateBlockNode(file *grammar.JavaFile, ix *index, block *tree_sitter.Node, tracker string) []model.FieldLike {
	if block == nil {
		return nil
	}
	if block.Kind() != "block" {
		return w.translateStmts(file, ix, []*tree_sitter.Node{block}, tracker)
	}
	return w.translateStmts(file, ix, file.StatementsOf(block), tracker)
}

func (w *walker) translateStmts(file *grammar.JavaFile, ix *index, stmts []*tree_sitter.Node, tracker string) []model.FieldLike {
	var out []model.FieldLike
	consumed := make(map[int]bool)

	for i, stmt := range stmts {
		if consumed[i] {
			continue
		}
		switch stmt.Kind() {
		case "local_variable_declaration":
			for _, decl := range file.LocalVarDeclarators(stmt) {
				call, ok := w.callFromValue(file, ix, decl.Value, tracker)
				if !ok {
					continue
				}
				member, idx := traceForwardAssignment(file, stmts, i+1, decl.Name)
				if member != "" {
					out = append(out, model.NewField(member, call))
					if idx >= 0 {
						consumed[idx] = true
					}
				} else {
					out = append(out, model.NewField(decl.Name, call))
				}
			}

		case "expression_statement":
			expr := file.ExpressionOf(stmt)
			if expr == nil {
				continue
			}
			if asg, ok := file.AsAssignment(expr); ok {
				member := file.MemberTarget(asg.Left)
				if call, ok2 := w.callFromValue(file, ix, asg.Right, tracker); ok2 {
					out = append(out, model.NewField(member, call))
				}
				continue
			}
			inv, ok := file.AsInvocation(expr)
			if !ok {
				continue
			}
			objText := file.ObjectText(inv)
			switch {
			case objText == tracker:
				out = append(out, model.NewField(tracker, w.callFromExpr(file, inv)))
			case objText == "super":
				out = append(out, model.NewField("_super", "readParcelable:"+w.superQName(ix)))
			case objText == "" && inv.Name != "":
				if len(inv.Arguments) == 1 && isTrackerRef(file, inv.Arguments[0], tracker) {
					if helper, ok3 := ix.methods[inv.Name]; ok3 {
						hparams := file.Parameters(helper)
						if len(hparams) == 1 {
							hbody := file.Body(helper)
							out = append(out, w.translateBlockNode(file, ix, hbody, hparams[0].Name)...)
						}
					}
				}
			default:
				if fld, isMember := ix.members[objText]; isMember && len(inv.Arguments) == 1 &&
					isTrackerRef(file, inv.Arguments[0], tracker) {
					out = append(out, model.NewField(objText, w.th.callOfJava(file, fld.Type)))
				}
			}

		case "if_statement":
			ifs, _ := file.AsIfStatement(stmt)
			cond := file.Unparenthesize(ifs.Condition)
			be, ok := file.AsBinaryExpr(cond)
			if !ok {
				continue
			}
			var callExpr, constExpr *tree_sitter.Node
			op := be.Operator
			if invOnTracker(file, be.Left, tracker) {
				callExpr, constExpr = be.Left, be.Right
			} else if invOnTracker(file, be.Right, tracker) {
				callExpr, constExpr = be.Right, be.Left
				op = flipOp(op)
			}
			if callExpr == nil {
				continue
			}
			inv, _ := file.AsInvocation(file.Unparenthesize(callExpr))
			call := w.callFromExpr(file, inv)
			cv := constValOf(file, constExpr, ix)
			cons := w.translateBlockNode(file, ix, ifs.Consequence, tracker)
			var alt []model.FieldLike
			if ifs.Alternative != nil {
				alt = w.translateBlockNode(file, ix, ifs.Alternative, tracker)
			}
			out = append(out, model.NewCondition(model.ConditionDef{
				Call: call, Check: cv.Text, Op: op, Consequence: cons, Alternative: alt,
			}))

		case "return_statement":
			expr, _ := file.AsReturnStatement(stmt)
			if expr != nil {
				if oc, ok := file.AsObjectCreation(file.Unparenthesize(expr)); ok && len(oc.Arguments) == 1 &&
					isTrackerRef(file, oc.Arguments[0], tracker) {
					if subFile, subIx, ctor, ok2 := w.resolveDelegateClass(file, ix, oc.ClassName); ok2 {
						subTracker := subFile.Parameters(ctor)[0].Name
						out = append(out, w.translateBlockNode(subFile, subIx, subFile.Body(ctor), subTracker)...)
						continue
					}
				}
			}
			out = append(out, model.NewStop())
			return out
		}
	}
	return out
}

// callFromValue computes a call string for a value expression that either
// invokes the tracker directly (`T.<read>(...)`) or passes it as an argument
// (`Foo.CREATOR.createFromParcel(T)`), or reports false if node isn't a
// tracker-involving invocation at all.
func (w *walker) callFromValue(file *grammar.JavaFile, ix *index, node *tree_sitter.Node, tracker string) (string, bool) {
	node = file.Unparenthesize(node)
	inv, ok := file.AsInvocation(node)
	if !ok {
		return "", false
	}
	if file.ObjectText(inv) != tracker {
		has := false
		for _, a := range inv.Arguments {
			if isTrackerRef(file, a, tracker) {
				has = true
				break
			}
		}
		if !has {
			return "", false
		}
	}
	return w.callFromExpr(file, inv), true
}

// callFromExpr is call_from_expr (§4.5): resolves readTypedList /
// readTypedObject / createTypedArray's CREATOR argument to a QName, resolves
// a qualified `Class.CREATOR.createFromParcel` target, and otherwise returns
// the bare verb.
func (w *walker) callFromExpr(file *grammar.JavaFile, inv grammar.Invocation) string {
	switch inv.Name {
	case "readTypedList":
		return "readList:" + w.creatorArgQName(file, inv.Arguments)
	case "readTypedObject":
		return "readParcelable:" + w.creatorArgQName(file, inv.Arguments)
	case "createTypedArray":
		return "readParcelableVector:" + w.creatorArgQName(file, inv.Arguments)
	}
	objText := file.ObjectText(inv)
	if strings.HasSuffix(objText, ".CREATOR") && inv.Name == "createFromParcel" {
		class := grammar.SimpleName(strings.TrimSuffix(objText, ".CREATOR"))
		return "readParcelable:" + w.res.get(class).QName
	}
	return inv.Name
}

// creatorArgQName resolves a `Class.CREATOR` (or bare `Class`) argument to
// its QName via the unit's import list.
func (w *walker) creatorArgQName(file *grammar.JavaFile, args []*tree_sitter.Node) string {
	if len(args) == 0 {
		return ""
	}
	text := file.Text(args[0])
	class := grammar.SimpleName(strings.TrimSuffix(text, ".CREATOR"))
	return w.res.get(class).QName
}

func (w *walker) superQName(ix *index) string {
	if len(ix.extends) == 0 {
		return ""
	}
	return w.res.get(ix.extends[0]).QName
}

// traceForwardAssignment implements the forward-trace in §4.5's first table
// row: scan later statements in the same block for the first `<member> = V`
// (or `this.<member> = V`) and report its index so the caller can mark it
// consumed (it must not also be translated as its own FieldDef).
func traceForwardAssignment(file *grammar.JavaFile, stmts []*tree_sitter.Node, start int, varName string) (string, int) {
	for j := start; j < len(stmts); j++ {
		expr := file.ExpressionOf(stmts[j])
		if expr == nil {
			continue
		}
		asg, ok := file.AsAssignment(expr)
		if !ok {
			continue
		}
		right := file.Unparenthesize(asg.Right)
		if right != nil && right.Kind() == "identifier" && file.Text(right) == varName {
			return file.MemberTarget(asg.Left), j
		}
	}
	return "", -1
}

// isTrackerRef reports whether node is a bare identifier reference to name.
func isTrackerRef(file *grammar.JavaFile, node *tree_sitter.Node, name string) bool {
	node = file.Unparenthesize(node)
	return node != nil && node.Kind() == "identifier" && file.Text(node) == name
}

// invOnTracker reports whether node is an invocation whose receiver is the
// tracker variable (used to pick the dynamic side of an `if` condition).
func invOnTracker(file *grammar.JavaFile, node *tree_sitter.Node, tracker string) bool {
	node = file.Unparenthesize(node)
	inv, ok := file.AsInvocation(node)
	return ok && file.ObjectText(inv) == tracker
}

// flipOp swaps a relational operator when the constant and the dynamic call
// appear on opposite sides of a binary expression.
func flipOp(op string) string {
	switch op {
	case "<":
		return ">"
	case ">":
		return "<"
	case "<=":
		return ">="
	case ">=":
		return "<="
	default:
		return op
	}
}
