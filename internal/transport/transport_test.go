package transport

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binderir/aidlc/internal/loader"
	"github.com/binderir/aidlc/internal/model"
)

func appendU32(data []byte, v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return append(data, b...)
}

// envWord packs a 4-character env tag into its wire word, the same
// little-endian byte packing int.from_bytes(tag.encode(), "little") produces.
func envWord(tag string) uint32 {
	return binary.LittleEndian.Uint32([]byte(tag))
}

func appendI32(data []byte, v int32) []byte {
	return appendU32(data, uint32(v))
}

func appendDescriptor(data []byte, s string) []byte {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		units = append(units, uint16(r))
	}
	data = appendU32(data, uint32(len(units)))
	for _, u := range units {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, u)
		data = append(data, b...)
	}
	data = append(data, 0, 0)
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	return data
}

func newTestLoader(androidVersion int) *loader.Loader {
	l := loader.New(nil, androidVersion)
	l.Put(&loader.Unit{
		QName: "com.example.IFoo",
		Type:  model.UnitBinder,
		Binder: &model.BinderDef{
			QName: "com.example.IFoo",
			Type:  model.UnitBinder,
			Methods: []model.MethodDef{
				{
					Name: "f",
					Tc:   1,
					Arguments: []model.ParameterDef{
						{Name: "x", Call: "readInt", Direction: model.DirIn},
					},
				},
			},
		},
		IsCompiled: true,
	})
	return l
}

func TestDecodeIncomingAndroid11(t *testing.T) {
	l := newTestLoader(11)

	var data []byte
	data = appendU32(data, 0)           // strict mode policy
	data = appendU32(data, 1000)             // work source uid
	data = appendU32(data, envWord("TSYS"))  // env word -> TSYS
	data = appendDescriptor(data, "com.example.IFoo")
	data = appendI32(data, 7) // method argument x

	msg, err := DecodeIncoming(data, 1, l)
	require.NoError(t, err)
	require.NotNil(t, msg.WorkSourceUID)
	require.Equal(t, uint32(1000), *msg.WorkSourceUID)
	require.NotNil(t, msg.Env)
	require.Equal(t, EnvTSYS, *msg.Env)
	require.Equal(t, "com.example.IFoo", msg.Descriptor)
	require.Equal(t, int32(7), msg.Body.Values["x"])
}

func TestDecodeIncomingAndroid9NoWorkSUIDOrEnv(t *testing.T) {
	l := newTestLoader(9)

	var data []byte
	data = appendU32(data, 0) // strict mode policy only
	data = appendDescriptor(data, "com.example.IFoo")
	data = appendI32(data, 3)

	msg, err := DecodeIncoming(data, 1, l)
	require.NoError(t, err)
	require.Nil(t, msg.WorkSourceUID)
	require.Nil(t, msg.Env)
	require.Equal(t, int32(3), msg.Body.Values["x"])
}

func TestDecodeOutgoingErrorCodeShortCircuits(t *testing.T) {
	l := newTestLoader(11)
	data := appendI32(nil, -1) // nonzero error code
	msg, err := DecodeOutgoing(data, "com.example.IFoo", 1, l)
	require.NoError(t, err)
	require.Equal(t, int32(-1), msg.ErrorCode)
	require.Nil(t, msg.Body)
}

func TestEnvTagFromWord(t *testing.T) {
	require.Equal(t, EnvTSYS, envTagFromWord(envWord("TSYS")))
	require.Equal(t, EnvVNDK, envTagFromWord(envWord("VNDK")))
	require.Equal(t, EnvRECO, envTagFromWord(envWord("RECO")))
	require.Equal(t, EnvUNKN, envTagFromWord(envWord("ZZZZ")))
}
