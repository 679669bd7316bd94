package decoder

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

func putBinder(l *loader.Loader, def *model.BinderDef) {
	l.Put(&loader.Unit{QName: def.QName, Type: model.UnitBinder, Binder: def, IsCompiled: true})
}

func putParcelable(l *loader.Loader, def *model.ParcelableDef) {
	l.Put(&loader.Unit{QName: def.QName, Type: def.Type, Parcelable: def, IsCompiled: true})
}

func appendU32(data []byte, v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return append(data, b...)
}

func TestDecodeInArguments(t *testing.T) {
	l := loader.New(nil, 11)
	putBinder(l, &model.BinderDef{
		QName: "com.example.IFoo",
		Type:  model.UnitBinder,
		Methods: []model.MethodDef{
			{
				Name:   "f",
				Tc:     1,
				Oneway: false,
				Arguments: []model.ParameterDef{
					{Name: "x", Call: "readInt", Direction: model.DirIn},
				},
			},
		},
	})

	data := appendU32(nil, 42)
	d := New(data, l)
	ctx, err := d.Decode("com.example.IFoo", 1, In)
	require.NoError(t, err)
	require.Equal(t, int32(42), ctx.Values["x"])
}

func TestDecodeOutReturnValue(t *testing.T) {
	l := loader.New(nil, 11)
	putBinder(l, &model.BinderDef{
		QName: "com.example.IFoo",
		Type:  model.UnitBinder,
		Methods: []model.MethodDef{
			{
				Name:   "f",
				Tc:     1,
				Oneway: false,
				Retval: []model.RetvalEntry{model.NewReturn("readInt")},
			},
		},
	})

	data := appendU32(nil, 99)
	d := New(data, l)
	ctx, err := d.Decode("com.example.IFoo", 1, Out)
	require.NoError(t, err)
	require.Equal(t, int32(99), ctx.Values["return"])
}

func TestDecodeNoSuchCode(t *testing.T) {
	l := loader.New(nil, 11)
	putBinder(l, &model.BinderDef{QName: "com.example.IFoo", Type: model.UnitBinder})
	d := New(nil, l)
	_, err := d.Decode("com.example.IFoo", 5, In)
	require.Error(t, err)
}

func TestDecodeFieldsWithConditionBranch(t *testing.T) {
	l := loader.New(nil, 11)
	putParcelable(l, &model.ParcelableDef{
		QName: "com.example.Foo",
		Type:  model.UnitParcelableJava,
		Fields: []model.FieldLike{
			model.NewCondition(model.ConditionDef{
				Call:  "readInt",
				Check: "0",
				Op:    "!=",
				Consequence: []model.FieldLike{
					model.NewField("name", "readString"),
				},
				Alternative: []model.FieldLike{
					model.NewStop(),
				},
			}),
		},
	})

	var data []byte
	data = appendU32(data, 1) // condition true
	data = append(data, appendStringField("present")...)

	d := New(data, l)
	out, err := d.decodeFields("com.example.Foo", 0, l0(t, l, "com.example.Foo").Parcelable.Fields)
	require.NoError(t, err)
	require.Equal(t, "present", out["name"])
}

func TestEvalCondition(t *testing.T) {
	require.True(t, evalCondition(int32(5), ">", "3"))
	require.False(t, evalCondition(int32(5), "<", "3"))
	require.True(t, evalCondition(int32(5), "==", "5"))
	require.True(t, evalCondition(true, "==", "1"))
}

func l0(t *testing.T, l *loader.Loader, qname string) *loader.Unit {
	t.Helper()
	u, err := l.Get(qname)
	require.NoError(t, err)
	return u
}

// appendStringField encodes s as a §4.7 readString-shaped UTF-16LE field:
// a u32 length in code units, then the UTF-16LE bytes plus a NUL
// terminator, padded to a 4-byte boundary.
func appendStringField(s string) []byte {
	units := []uint16{}
	for _, r := range s {
		units = append(units, uint16(r))
	}
	var out []byte
	out = appendU32(out, uint32(len(units)))
	for _, u := range units {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, u)
		out = append(out, b...)
	}
	out = append(out, 0, 0) // NUL terminator
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}
