package compiler

import (
	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

// asBinder translates a BINDER unit's parsed AIDL interface into a BinderDef
// (§4.4), grounded on the method-table construction in
// internal/parser/unified_extractor.go's per-declaration walk.
func (c *Compiler) asBinder(u *loader.Unit) (*model.BinderDef, error) {
	iface := u.AIDLInterface
	res := newImportResolver(c.loader, u)
	th := &typeHandler{l: c.loader, pkg: u.Package, res: res}

	def := &model.BinderDef{QName: u.QName, Type: model.UnitBinder}
	for i, m := range iface.Methods {
		tc := i + 1
		oneway := m.ReturnType.Name == "void" && !m.ReturnType.Array
		method := model.MethodDef{Name: m.Name, Tc: tc, Oneway: oneway}
		if m.CodeOverride != nil {
			method.CodeOverride = m.CodeOverride
		}

		var retval []model.RetvalEntry
		if !oneway {
			retval = append(retval, model.NewReturn(th.callOfAIDL(m.ReturnType)))
		}

		for _, p := range m.Parameters {
			call := th.callOfAIDL(p.Type)
			dir := mapDirection(p.Direction)
			switch p.Direction {
			case grammar.AIDLDirOut, grammar.AIDLDirInout:
				retval = append(retval, model.NewOutParam(model.ParameterDef{Name: p.Name, Call: call, Direction: dir}))
			}
			switch p.Direction {
			case grammar.AIDLDirIn, grammar.AIDLDirInout:
				method.Arguments = append(method.Arguments, model.ParameterDef{Name: p.Name, Call: call, Direction: dir})
			}
		}
		method.Retval = retval
		def.Methods = append(def.Methods, method)
	}
	return def, nil
}

func mapDirection(d grammar.AIDLParamDirection) model.Direction {
	switch d {
	case grammar.AIDLDirOut:
		return model.DirOut
	case grammar.AIDLDirInout:
		return model.DirInout
	default:
		return model.DirIn
	}
}
