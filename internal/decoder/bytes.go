// Package decoder is the Parcel Decoder (§4.7): a sequential
// little-endian byte-stream interpreter driven by a compiled unit's call
// scripts, with Android's 4-byte alignment discipline. Grounded on
// internal/cache's read-through pattern for the Loader lookup and on
// unified_extractor.go's verb-dispatch-table style for the read-call switch.
package decoder

import (
	"encoding/binary"
	"math"
	"strconv"
)

// stream is the raw byte cursor a Decoder reads from. Per §5, it
// holds a single position with no seeking or backtracking.
type stream struct {
	data []byte
	pos  int
}

func (s *stream) remaining() int { return len(s.data) - s.pos }

func (s *stream) take(n int) ([]byte, error) {
	if n < 0 || s.remaining() < n {
		return nil, underflowError{want: n, have: s.remaining()}
	}
	b := s.data[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

// underflowError marks a short read; readCall wraps it in a DecodeError with
// the descriptor/tc/verb context the low-level stream doesn't have.
type underflowError struct{ want, have int }

func (e underflowError) Error() string {
	return "short read: wanted " + strconv.Itoa(e.want) + " bytes, " + strconv.Itoa(e.have) + " remain"
}

// align4 pads the cursor forward to the next 4-byte boundary, the alignment
// rule every Android parcel primitive obeys except readByteUnaligned and a
// string's interior UTF-16 bytes.
func (s *stream) align4() {
	pad := (4 - (s.pos % 4)) % 4
	if pad > 0 && s.remaining() >= pad {
		s.pos += pad
	} else if pad > 0 {
		s.pos = len(s.data)
	}
}

func (s *stream) readInt32() (int32, error) {
	b, err := s.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (s *stream) readUint32() (uint32, error) {
	b, err := s.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (s *stream) readInt64() (int64, error) {
	b, err := s.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (s *stream) readUint64() (uint64, error) {
	b, err := s.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (s *stream) readFloat32() (float32, error) {
	u, err := s.readUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (s *stream) readFloat64() (float64, error) {
	u, err := s.readUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// readShortAligned reads a 16-bit value then pads to the next 4-byte
// boundary (§4.7 "readShort ... pad to 4-byte boundary afterwards").
func (s *stream) readShortAligned() (int16, error) {
	b, err := s.take(2)
	if err != nil {
		return 0, err
	}
	v := int16(binary.LittleEndian.Uint16(b))
	s.align4()
	return v, nil
}

func (s *stream) readByteAligned() (byte, error) {
	b, err := s.take(1)
	if err != nil {
		return 0, err
	}
	s.align4()
	return b[0], nil
}

func (s *stream) readByteUnaligned() (byte, error) {
	b, err := s.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// readUTF16String implements §4.7 readString: an i32 length in UTF-16 code
// units, then (len*2)+2 bytes of UTF-16LE including a NUL terminator, the
// whole field padded to 4 bytes. A negative length denotes a null string.
func (s *stream) readUTF16String() (string, bool, error) {
	n, err := s.readInt32()
	if err != nil {
		return "", false, err
	}
	if n < 0 {
		return "", false, nil
	}
	byteLen := int(n)*2 + 2
	raw, err := s.take(byteLen)
	if err != nil {
		return "", false, err
	}
	s.align4()
	units := make([]uint16, n)
	for i := 0; i < int(n); i++ {
		units[i] = binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
	}
	return utf16ToString(units), true, nil
}

// readUTF8String implements §4.7 readString8: an i32 length, that many UTF-8
// bytes, one NUL terminator, then pad to 4.
func (s *stream) readUTF8String() (string, bool, error) {
	n, err := s.readInt32()
	if err != nil {
		return "", false, err
	}
	if n < 0 {
		return "", false, nil
	}
	raw, err := s.take(int(n) + 1) // + NUL terminator
	if err != nil {
		return "", false, err
	}
	s.align4()
	if len(raw) > 0 {
		raw = raw[:len(raw)-1]
	}
	return string(raw), true, nil
}

func utf16ToString(units []uint16) string {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if r >= 0xD800 && r <= 0xDBFF && i+1 < len(units) {
			r2 := rune(units[i+1])
			if r2 >= 0xDC00 && r2 <= 0xDFFF {
				r = ((r - 0xD800) << 10) + (r2 - 0xDC00) + 0x10000
				i++
			}
		}
		runes = append(runes, r)
	}
	return string(runes)
}

// readRaw consumes n bytes verbatim with no alignment applied beforehand,
// then aligns afterward — used for opaque blobs like a Bundle body.
func (s *stream) readRaw(n int) ([]byte, error) {
	b, err := s.take(n)
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), b...)
	s.align4()
	return out, nil
}
