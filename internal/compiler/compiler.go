package compiler

import (
	"github.com/binderir/aidlc/internal/debug"
	"github.com/binderir/aidlc/internal/errs"
	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

// Compiler translates Loader units into their compiled IR (§4.2–§4.6):
// binder interfaces into BinderDef method tables, parcelables into FieldLike
// call scripts. Grounded on internal/parser, which plays the analogous
// role of AST-in, structured-index-out.
type Compiler struct {
	loader *loader.Loader
}

// New creates a Compiler bound to a Loader. The Loader is mutated in place:
// a compiled unit's Binder/Parcelable fields and IsCompiled flag are written
// back via Put, so later lookups of the same QName short-circuit (§3
// "compiled definitions ... replace the body of a Unit").
func New(l *loader.Loader) *Compiler {
	return &Compiler{loader: l}
}

// Compile resolves qname and translates it, returning the compiled unit.
// Already-compiled units (JSON-origin, or previously compiled this run) are
// returned as-is.
func (c *Compiler) Compile(qname string) (*loader.Unit, error) {
	u, err := c.loader.Get(qname)
	if err != nil {
		return nil, err
	}
	if u.IsCompiled {
		return u, nil
	}
	if err := c.CompileUnit(u); err != nil {
		return nil, err
	}
	return u, nil
}

// CompileUnit translates u's AST body in place.
func (c *Compiler) CompileUnit(u *loader.Unit) error {
	if u.IsCompiled {
		return nil
	}
	debug.Logf("compiler", "compiling %s (%s)", u.QName, u.Type)
	switch u.Type {
	case model.UnitBinder:
		def, err := c.asBinder(u)
		if err != nil {
			return errs.NewTranslationError(u.QName, "binder translation failed", err)
		}
		u.Binder = def
	case model.UnitParcelable, model.UnitParcelableJava:
		def, err := c.asParcelable(u)
		if err != nil {
			return errs.NewTranslationError(u.QName, "parcelable translation failed", err)
		}
		u.Parcelable = def
	default:
		return errs.NewTranslationError(u.QName, "unit has no recognized AST body to translate", nil).Fatal()
	}
	u.IsCompiled = true
	c.loader.Put(u)
	return nil
}
