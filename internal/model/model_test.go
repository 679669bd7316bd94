package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParcelableDefRoundTrip(t *testing.T) {
	def := ParcelableDef{
		QName: "com.example.Foo",
		Type:  UnitParcelableJava,
		Fields: []FieldLike{
			NewField("flag", "readInt"),
			NewCondition(ConditionDef{
				Call:  "readInt",
				Check: "0",
				Op:    "!=",
				Consequence: []FieldLike{
					NewField("name", "readString"),
				},
			}),
			NewStop(),
		},
	}

	data, err := json.Marshal(def)
	require.NoError(t, err)

	var roundTripped ParcelableDef
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	require.Equal(t, def, roundTripped)
}

func TestBinderDefRoundTrip(t *testing.T) {
	override := 7
	def := BinderDef{
		QName: "com.example.IFoo",
		Type:  UnitBinder,
		Methods: []MethodDef{
			{
				Name:      "f",
				Tc:        1,
				Oneway:    true,
				Retval:    nil,
				Arguments: []ParameterDef{{Name: "a", Call: "readInt", Direction: DirIn}},
			},
			{
				Name:         "g",
				Tc:           2,
				CodeOverride: &override,
				Oneway:       false,
				Retval:       []RetvalEntry{NewReturn("readInt")},
				Arguments:    []ParameterDef{{Name: "x", Call: "readLong", Direction: DirIn}},
			},
		},
	}

	data, err := json.Marshal(def)
	require.NoError(t, err)

	var roundTripped BinderDef
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	require.Equal(t, def, roundTripped)
	require.Equal(t, 7, roundTripped.Methods[1].EffectiveCode())
	require.Equal(t, 1, roundTripped.Methods[0].EffectiveCode())
}

func TestFieldLikeStopEncodesAsEmptyObject(t *testing.T) {
	data, err := json.Marshal(NewStop())
	require.NoError(t, err)
	require.JSONEq(t, "{}", string(data))
}

func TestMethodDefRetvalNullWhenOnewayWithoutOutParams(t *testing.T) {
	m := MethodDef{Name: "f", Tc: 1, Oneway: true}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"f","tc":1,"oneway":true,"retval":null,"arguments":null}`, string(data))
}
