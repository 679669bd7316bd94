package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

func unitFromAIDLInterface(qname, pkg string, iface grammar.AIDLInterface) *loader.Unit {
	return &loader.Unit{
		QName:         qname,
		Package:       pkg,
		Name:          iface.Name,
		Type:          model.UnitBinder,
		AIDLInterface: &iface,
	}
}

func TestAsBinderPrimitiveInOutArgs(t *testing.T) {
	l := loader.New(nil, 11)
	iface := grammar.AIDLInterface{
		Name: "IFoo",
		Methods: []grammar.AIDLMethod{
			{
				Name:       "compute",
				ReturnType: grammar.AIDLType{Name: "int"},
				Parameters: []grammar.AIDLParam{
					{Direction: grammar.AIDLDirIn, Type: grammar.AIDLType{Name: "int"}, Name: "a"},
					{Direction: grammar.AIDLDirOut, Type: grammar.AIDLType{Name: "int"}, Name: "b"},
					{Direction: grammar.AIDLDirInout, Type: grammar.AIDLType{Name: "int"}, Name: "c"},
				},
			},
			{
				Name:       "ping",
				ReturnType: grammar.AIDLType{Name: "void"},
			},
		},
	}
	u := unitFromAIDLInterface("com.example.IFoo", "com.example", iface)

	c := New(l)
	def, err := c.asBinder(u)
	require.NoError(t, err)
	require.Equal(t, "com.example.IFoo", def.QName)
	require.Len(t, def.Methods, 2)

	compute := def.Methods[0]
	require.Equal(t, 1, compute.Tc)
	require.False(t, compute.Oneway)
	require.Len(t, compute.Arguments, 2) // a (in), c (inout)
	require.Equal(t, "a", compute.Arguments[0].Name)
	require.Equal(t, "c", compute.Arguments[1].Name)
	// retval: return + out(b) + out(c)
	require.Len(t, compute.Retval, 3)
	require.NotNil(t, compute.Retval[0].Return)
	require.Equal(t, "readInt", compute.Retval[0].Return.Call)
	require.NotNil(t, compute.Retval[1].Parameter)
	require.Equal(t, "b", compute.Retval[1].Parameter.Name)

	ping := def.Methods[1]
	require.Equal(t, 2, ping.Tc)
	require.True(t, ping.Oneway)
	require.Empty(t, ping.Retval)
}

func TestAsBinderArrayAndListCalls(t *testing.T) {
	l := loader.New(nil, 11)
	iface := grammar.AIDLInterface{
		Name: "IFoo",
		Methods: []grammar.AIDLMethod{
			{
				Name:       "getValues",
				ReturnType: grammar.AIDLType{Name: "int", Array: true},
				Parameters: []grammar.AIDLParam{
					{Direction: grammar.AIDLDirIn, Type: grammar.AIDLType{Name: "List", Generic: "String"}, Name: "names"},
				},
			},
		},
	}
	u := unitFromAIDLInterface("com.example.IFoo", "com.example", iface)

	c := New(l)
	def, err := c.asBinder(u)
	require.NoError(t, err)
	require.Equal(t, "readIntVector", def.Methods[0].Retval[0].Return.Call)
	require.Equal(t, "readList:String", def.Methods[0].Arguments[0].Call)
}

func TestAsParcelableAIDLFieldOrder(t *testing.T) {
	l := loader.New(nil, 11)
	body := grammar.AIDLParcelable{
		Name:    "Point",
		HasBody: true,
		Fields: []grammar.AIDLField{
			{Type: grammar.AIDLType{Name: "int"}, Name: "x"},
			{Type: grammar.AIDLType{Name: "int"}, Name: "y"},
		},
	}
	u := &loader.Unit{
		QName:              "com.example.Point",
		Package:            "com.example",
		Name:               "Point",
		Type:               model.UnitParcelable,
		AIDLParcelableBody: &body,
	}

	c := New(l)
	def, err := c.asParcelableAIDL(u)
	require.NoError(t, err)
	require.Len(t, def.Fields, 2)
	require.Equal(t, "x", def.Fields[0].Field.Name)
	require.Equal(t, "readInt", def.Fields[0].Field.Call)
	require.Equal(t, "y", def.Fields[1].Field.Name)
}
