package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAIDLInterface(t *testing.T) {
	src := `
package com.example;

import android.os.Bundle;
import com.example.sub.*;

interface IFoo {
    void ping();
    int add(int a, int b);
    oneway void notify(in String msg);
    List<Bar> getBars(out int[] count) = 5;
}
`
	file, err := ParseAIDL(src)
	require.NoError(t, err)
	require.Equal(t, "com.example", file.Package)
	require.Len(t, file.Imports, 2)
	require.Equal(t, "android.os.Bundle", file.Imports[0].QName)
	require.Equal(t, "com.example.sub.*", file.Imports[1].QName)

	require.Len(t, file.Interfaces, 1)
	iface := file.Interfaces[0]
	require.Equal(t, "IFoo", iface.Name)
	require.Len(t, iface.Methods, 4)

	ping := iface.Methods[0]
	require.Equal(t, "ping", ping.Name)
	require.Equal(t, "void", ping.ReturnType.Name)

	notify := iface.Methods[2]
	require.True(t, notify.Oneway)
	require.Len(t, notify.Parameters, 1)
	require.Equal(t, AIDLDirIn, notify.Parameters[0].Direction)

	getBars := iface.Methods[3]
	require.NotNil(t, getBars.CodeOverride)
	require.Equal(t, 5, *getBars.CodeOverride)
	require.Equal(t, "Bar", getBars.ReturnType.Generic)
	require.Equal(t, AIDLDirOut, getBars.Parameters[0].Direction)
	require.True(t, getBars.Parameters[0].Type.Array)
}

func TestParseAIDLParcelableWithBody(t *testing.T) {
	src := `
package com.example;

parcelable Point {
    int x;
    int y = 0;
}
`
	file, err := ParseAIDL(src)
	require.NoError(t, err)
	require.Len(t, file.Parcelables, 1)
	pc := file.Parcelables[0]
	require.Equal(t, "Point", pc.Name)
	require.True(t, pc.HasBody)
	require.Len(t, pc.Fields, 2)
	require.Equal(t, "x", pc.Fields[0].Name)
	require.Equal(t, "y", pc.Fields[1].Name)
}

func TestParseAIDLParcelableNoBody(t *testing.T) {
	src := `package com.example; parcelable Blob;`
	file, err := ParseAIDL(src)
	require.NoError(t, err)
	require.Len(t, file.Parcelables, 1)
	require.False(t, file.Parcelables[0].HasBody)
}

func TestAIDLTypeString(t *testing.T) {
	ty := AIDLType{Name: "List", Generic: "String", Array: false}
	require.Equal(t, "List<String>", ty.String())

	arr := AIDLType{Name: "int", Array: true}
	require.Equal(t, "int[]", arr.String())
}
