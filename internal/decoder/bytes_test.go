package decoder

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestStreamReadInt32Aligned(t *testing.T) {
	s := &stream{data: append(u32le(7), u32le(8)...)}
	v, err := s.readInt32()
	require.NoError(t, err)
	require.Equal(t, int32(7), v)
	require.Equal(t, 4, s.pos)
}

func TestStreamTakeUnderflow(t *testing.T) {
	s := &stream{data: []byte{1, 2}}
	_, err := s.take(4)
	require.Error(t, err)
	var uerr underflowError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, 4, uerr.want)
	require.Equal(t, 2, uerr.have)
}

func TestStreamAlign4(t *testing.T) {
	s := &stream{data: make([]byte, 16), pos: 1}
	s.align4()
	require.Equal(t, 4, s.pos)

	s2 := &stream{data: make([]byte, 16), pos: 4}
	s2.align4()
	require.Equal(t, 4, s2.pos)
}

func TestStreamReadShortAlignedPads(t *testing.T) {
	data := []byte{0x05, 0x00, 0xAA, 0xAA}
	s := &stream{data: data}
	v, err := s.readShortAligned()
	require.NoError(t, err)
	require.Equal(t, int16(5), v)
	require.Equal(t, 4, s.pos)
}

func TestStreamReadByteUnalignedNoPad(t *testing.T) {
	s := &stream{data: []byte{0x09, 0xFF}}
	v, err := s.readByteUnaligned()
	require.NoError(t, err)
	require.Equal(t, byte(9), v)
	require.Equal(t, 1, s.pos)
}

func TestStreamReadUTF16String(t *testing.T) {
	// "hi": length 2, then 'h','i', NUL, two pad bytes to reach a 4-byte
	// boundary (4 length bytes + 6 content bytes = 10, pad 2 -> 12).
	var data []byte
	data = append(data, u32le(2)...)
	data = append(data, 'h', 0, 'i', 0, 0, 0)
	data = append(data, 0, 0) // padding to next 4-byte boundary
	s := &stream{data: data}
	got, ok, err := s.readUTF16String()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hi", got)
	require.Equal(t, 0, s.pos%4)
}

func TestStreamReadUTF16StringNull(t *testing.T) {
	s := &stream{data: u32le(uint32(int32(-1)))}
	got, ok, err := s.readUTF16String()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestStreamReadUTF8String(t *testing.T) {
	var data []byte
	data = append(data, u32le(2)...)
	data = append(data, 'h', 'i', 0)
	data = append(data, 0) // 4 length bytes + 3 content bytes = 7, pad 1 -> 8
	s := &stream{data: data}
	got, ok, err := s.readUTF8String()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hi", got)
}

func TestUtf16ToStringSurrogatePair(t *testing.T) {
	// U+1F600 (grinning face) as a surrogate pair.
	units := []uint16{0xD83D, 0xDE00}
	got := utf16ToString(units)
	require.Equal(t, "\U0001F600", got)
}
