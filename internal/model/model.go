// Package model defines the serializable intermediate representation produced
// by the compiler and consumed by the decoder: binder and parcelable
// descriptors, their fields, methods, and the call-script entries that drive
// the parcel decoder.
package model

import "encoding/json"

// UnitType tags the shape of a Unit's body.
type UnitType string

const (
	UnitParcelable     UnitType = "PARCELABLE"
	UnitParcelableJava UnitType = "PARCELABLE_JAVA"
	UnitBinder         UnitType = "BINDER"
	UnitUndefined      UnitType = "UNDEFINED"
)

// Direction is an AIDL parameter direction modifier.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInout
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirInout:
		return "inout"
	default:
		return "in"
	}
}

// FieldDef is one call-script entry: read `Call` and bind it to `Name`.
type FieldDef struct {
	Name string `json:"name"`
	Call string `json:"call"`
}

// ConditionDef represents a runtime branch recovered from an
// `if (p.readX() OP const)` idiom in the source parcelable.
type ConditionDef struct {
	Call        string      `json:"call"`
	Check       string      `json:"check"`
	Op          string      `json:"op"`
	Consequence []FieldLike `json:"consequence"`
	Alternative []FieldLike `json:"alternative"`
}

// Stop is the sentinel for an unconditional early return reached while
// translating a parcelable's read method.
type Stop struct{}

// FieldLike is the FieldDef | ConditionDef | Stop discriminated union that
// makes up a ParcelableDef's field list. Construct with one of NewField,
// NewCondition, or NewStop.
type FieldLike struct {
	Field     *FieldDef
	Condition *ConditionDef
	IsStop    bool
}

func NewField(name, call string) FieldLike { return FieldLike{Field: &FieldDef{Name: name, Call: call}} }
func NewCondition(c ConditionDef) FieldLike { return FieldLike{Condition: &c} }
func NewStop() FieldLike                    { return FieldLike{IsStop: true} }

// MarshalJSON encodes the union by key presence: `{}` is Stop, `check`
// present is Condition, otherwise Field. See SPEC_FULL.md §9 "Tagged variants".
func (f FieldLike) MarshalJSON() ([]byte, error) {
	switch {
	case f.IsStop:
		return []byte("{}"), nil
	case f.Condition != nil:
		return json.Marshal(f.Condition)
	case f.Field != nil:
		return json.Marshal(f.Field)
	default:
		return []byte("{}"), nil
	}
}

func (f *FieldLike) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if len(probe) == 0 {
		*f = FieldLike{IsStop: true}
		return nil
	}
	if _, ok := probe["check"]; ok {
		var c ConditionDef
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		*f = FieldLike{Condition: &c}
		return nil
	}
	var fd FieldDef
	if err := json.Unmarshal(data, &fd); err != nil {
		return err
	}
	*f = FieldLike{Field: &fd}
	return nil
}

// ParameterDef is a method argument or out/inout parameter: a FieldDef with a
// direction.
type ParameterDef struct {
	Name      string    `json:"name"`
	Call      string    `json:"call"`
	Direction Direction `json:"direction"`
}

// ReturnDef is a method's return-value call script entry; it carries no name.
type ReturnDef struct {
	Call string `json:"call"`
}

// RetvalEntry is ReturnDef | ParameterDef, used in MethodDef.Retval: the
// leading entry (if present) is the method's return value, followed by any
// out/inout parameters.
type RetvalEntry struct {
	Return    *ReturnDef
	Parameter *ParameterDef
}

func NewReturn(call string) RetvalEntry { return RetvalEntry{Return: &ReturnDef{Call: call}} }
func NewOutParam(p ParameterDef) RetvalEntry { return RetvalEntry{Parameter: &p} }

func (r RetvalEntry) MarshalJSON() ([]byte, error) {
	if r.Parameter != nil {
		return json.Marshal(r.Parameter)
	}
	if r.Return != nil {
		return json.Marshal(r.Return)
	}
	return []byte("null"), nil
}

func (r *RetvalEntry) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["direction"]; ok {
		var p ParameterDef
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*r = RetvalEntry{Parameter: &p}
		return nil
	}
	var rd ReturnDef
	if err := json.Unmarshal(data, &rd); err != nil {
		return err
	}
	*r = RetvalEntry{Return: &rd}
	return nil
}

// MethodDef is one compiled binder method. Tc is a deterministic 1-based
// positional code assigned by source order unless CodeOverride names an
// explicit on-wire transaction code (SPEC_FULL.md §C, Open Question 1).
type MethodDef struct {
	Name         string        `json:"name"`
	Tc           int           `json:"tc"`
	CodeOverride *int          `json:"code_override,omitempty"`
	Oneway       bool          `json:"oneway"`
	Retval       []RetvalEntry `json:"retval"`
	Arguments    []ParameterDef `json:"arguments"`
}

// EffectiveCode returns CodeOverride if set, else Tc.
func (m MethodDef) EffectiveCode() int {
	if m.CodeOverride != nil {
		return *m.CodeOverride
	}
	return m.Tc
}

// ImportDef resolves a short or qualified name appearing in AST to a cached
// unit's file type. FileType is UnitUndefined for a failed/placeholder lookup.
type ImportDef struct {
	QName    string   `json:"qname"`
	FileType UnitType `json:"file_type"`
}

// BinderDef is the compiled representation of an AIDL interface.
type BinderDef struct {
	QName   string      `json:"qname"`
	Type    UnitType    `json:"type"`
	Methods []MethodDef `json:"methods"`
}

// ParcelableDef is the compiled representation of a parcelable value type,
// declarative (AIDL-bodied) or imperative (Java CREATOR/constructor).
type ParcelableDef struct {
	QName  string      `json:"qname"`
	Type   UnitType    `json:"type"`
	Fields []FieldLike `json:"fields"`
}
