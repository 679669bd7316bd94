package decoder

import (
	"strconv"
	"strings"

	"github.com/binderir/aidlc/internal/errs"
	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

// Direction is the transaction direction of a decode (§4.7):
// arguments (IN) or return value plus out/inout parameters (OUT). Distinct
// from model.Direction, which tags a single AIDL parameter's in/out/inout
// modifier.
type Direction int

const (
	In Direction = iota
	Out
)

// Context is the decoded result of one transaction: field name -> decoded
// Go value (int32, uint32, int64, uint64, int16, byte, float32/64, bool,
// string, []byte, *StrongBinder, map[string]any for a nested parcelable,
// []any for a vector/list, or nil for a null string or absent parcelable).
type Context struct {
	Values map[string]any
}

// Decoder interprets a compiled BinderDef/ParcelableDef's call scripts
// against a little-endian byte stream (§4.7). It holds a reference
// to the Loader's cache to resolve nested parcelable QNames but never
// triggers recompilation — an unresolved QName is a fatal decode error.
type Decoder struct {
	s              *stream
	l              *loader.Loader
	androidVersion int
}

// New wraps data for decoding against l's cache, using l's configured
// Android API level to gate version-conditional wire fields (status word on
// readStrongBinder, §4.7; work_suid/env on transport framing, §4.8).
func New(data []byte, l *loader.Loader) *Decoder {
	return &Decoder{s: &stream{data: data}, l: l, androidVersion: l.AndroidVersion()}
}

// Position reports the current stream offset, for transport framing that
// decodes a header before handing off to the Decoder proper.
func (d *Decoder) Position() int { return d.s.pos }

// Decode is the §4.7 entry point: look up descriptor's BinderDef, find the
// MethodDef whose effective transaction code matches code, and read either
// its arguments (IN) or its retval entries (OUT).
func (d *Decoder) Decode(descriptor string, code int, dir Direction) (*Context, error) {
	ctx := &Context{Values: make(map[string]any)}

	u, err := d.l.Get(descriptor)
	if err != nil {
		return ctx, err
	}
	if u.Binder == nil {
		return ctx, errs.NewDecodeError(descriptor, code, d.s.pos, "decode", errNotCompiled(u.QName))
	}

	var method *model.MethodDef
	for i := range u.Binder.Methods {
		if u.Binder.Methods[i].EffectiveCode() == code {
			method = &u.Binder.Methods[i]
			break
		}
	}
	if method == nil {
		return ctx, errs.NewDecodeError(descriptor, code, d.s.pos, "decode", errNoSuchCode(code))
	}

	switch dir {
	case In:
		for _, arg := range method.Arguments {
			v, err := d.readCall(descriptor, code, arg.Call)
			if err != nil {
				return ctx, err
			}
			ctx.Values[arg.Name] = v
		}
	case Out:
		for _, rv := range method.Retval {
			switch {
			case rv.Return != nil:
				v, err := d.readCall(descriptor, code, rv.Return.Call)
				if err != nil {
					return ctx, err
				}
				ctx.Values["return"] = v
			case rv.Parameter != nil:
				v, err := d.readCall(descriptor, code, rv.Parameter.Call)
				if err != nil {
					return ctx, err
				}
				ctx.Values[rv.Parameter.Name] = v
			}
		}
	}
	return ctx, nil
}

// splitCall splits a call string on its first ':' into verb and type
// parameter, per §4.7 ("If it contains a :, split into verb and type
// parameter; otherwise verb only").
func splitCall(call string) (verb, typeParam string) {
	if i := strings.IndexByte(call, ':'); i >= 0 {
		return call[:i], call[i+1:]
	}
	return call, ""
}

// readCall dispatches one call-script entry's read against the stream.
func (d *Decoder) readCall(descriptor string, tc int, call string) (any, error) {
	verb, typeParam := splitCall(call)
	v, err := d.dispatch(descriptor, tc, verb, typeParam)
	if err != nil {
		if _, ok := err.(*errs.DecodeError); ok {
			return nil, err
		}
		return nil, errs.NewDecodeError(descriptor, tc, d.s.pos, call, err)
	}
	return v, nil
}

func (d *Decoder) dispatch(descriptor string, tc int, verb, typeParam string) (any, error) {
	switch verb {
	case "readParcelableVector":
		return d.readParcelableVector(descriptor, tc, typeParam)
	case "readList", "readParceledListSlice":
		return d.readTypedList(descriptor, tc, typeParam)
	case "readParcelable":
		return d.readParcelableEntry(descriptor, tc, typeParam)
	}
	if strings.HasSuffix(verb, "Vector") {
		scalar := strings.TrimSuffix(verb, "Vector")
		return d.readVector(descriptor, tc, scalar)
	}
	return d.readScalar(verb)
}

func (d *Decoder) readVector(descriptor string, tc int, scalarVerb string) ([]any, error) {
	n, err := d.s.readInt32()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, max0(int(n)))
	for i := int32(0); i < n; i++ {
		v, err := d.readCall(descriptor, tc, scalarVerb)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readTypedList implements "readList:T": length n, then n element reads. If
// T starts with "read" it is itself a bare verb read per element; otherwise
// (including an empty T) each element is read with readParcelable:T
// semantics.
func (d *Decoder) readTypedList(descriptor string, tc int, t string) ([]any, error) {
	n, err := d.s.readInt32()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, max0(int(n)))
	for i := int32(0); i < n; i++ {
		v, err := d.readListElement(descriptor, tc, t)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Decoder) readListElement(descriptor string, tc int, t string) (any, error) {
	if t == "" {
		return d.readParcelableEntry(descriptor, tc, "")
	}
	if strings.HasPrefix(t, "read") {
		return d.readCall(descriptor, tc, t)
	}
	return d.readParcelableEntry(descriptor, tc, t)
}

func (d *Decoder) readParcelableVector(descriptor string, tc int, qname string) ([]any, error) {
	n, err := d.s.readInt32()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, max0(int(n)))
	for i := int32(0); i < n; i++ {
		v, err := d.readParcelableEntry(descriptor, tc, qname)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readParcelableEntry implements §4.7's readParcelable[:QName]: a presence
// status int32 (1 = present), then — if qname wasn't bound in the verb — a
// UTF-16 class-name string, then a recursive field decode of that
// ParcelableDef.
func (d *Decoder) readParcelableEntry(descriptor string, tc int, qname string) (any, error) {
	status, err := d.s.readInt32()
	if err != nil {
		return nil, err
	}
	if status != 1 {
		return nil, nil
	}
	if qname == "" {
		qname, _, err = d.s.readUTF16String()
		if err != nil {
			return nil, err
		}
	}
	u, err := d.l.Get(qname)
	if err != nil || u.Parcelable == nil {
		return nil, errNotCompiled(qname)
	}
	return d.decodeFields(descriptor, tc, u.Parcelable.Fields)
}

// decodeFields recursively decodes a ParcelableDef's FieldLike call script.
func (d *Decoder) decodeFields(descriptor string, tc int, fields []model.FieldLike) (map[string]any, error) {
	out := make(map[string]any)
	for _, fl := range fields {
		switch {
		case fl.IsStop:
			return out, nil
		case fl.Condition != nil:
			c := fl.Condition
			v, err := d.readCall(descriptor, tc, c.Call)
			if err != nil {
				return out, err
			}
			branch := c.Alternative
			if evalCondition(v, c.Op, c.Check) {
				branch = c.Consequence
			}
			sub, err := d.decodeFields(descriptor, tc, branch)
			if err != nil {
				return out, err
			}
			for k, v := range sub {
				out[k] = v
			}
		case fl.Field != nil:
			v, err := d.readCall(descriptor, tc, fl.Field.Call)
			if err != nil {
				return out, err
			}
			out[fl.Field.Name] = v
		}
	}
	return out, nil
}

// evalCondition compares a decoded value against a ConditionDef's check
// literal via its relational operator (§4.7).
func evalCondition(v any, op, check string) bool {
	lv, lok := toInt64(v)
	rv, rok := strconv.ParseInt(check, 10, 64)
	if !lok || rok != nil {
		return false
	}
	switch op {
	case "==":
		return lv == rv
	case "!=":
		return lv != rv
	case "<":
		return lv < rv
	case "<=":
		return lv <= rv
	case ">":
		return lv > rv
	case ">=":
		return lv >= rv
	default:
		return false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int16:
		return int64(n), true
	case byte:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

type notCompiledError struct{ qname string }

func (e notCompiledError) Error() string { return "unresolved or uncompiled parcelable: " + e.qname }
func errNotCompiled(qname string) error  { return notCompiledError{qname} }

type noSuchCodeError struct{ code int }

func (e noSuchCodeError) Error() string { return "no method with tc " + strconv.Itoa(e.code) }
func errNoSuchCode(code int) error      { return noSuchCodeError{code} }
