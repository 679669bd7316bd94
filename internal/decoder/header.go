package decoder

// HeaderReader exposes the same little-endian, 4-byte-aligned primitives the
// Decoder uses internally, for a caller (transport's Incoming/OutgoingMessage
// framing, §4.8) that must read a few fixed header fields before handing the
// remaining bytes to a Decoder proper.
type HeaderReader struct{ s *stream }

// NewHeaderReader wraps data for header reads.
func NewHeaderReader(data []byte) *HeaderReader { return &HeaderReader{s: &stream{data: data}} }

func (h *HeaderReader) Uint32() (uint32, error) { return h.s.readUint32() }
func (h *HeaderReader) Int32() (int32, error)   { return h.s.readInt32() }

// UTF16String reads a length-prefixed UTF-16LE string (§4.7 readString
// shape); ok is false for a null (negative-length) string.
func (h *HeaderReader) UTF16String() (s string, ok bool, err error) { return h.s.readUTF16String() }

// Pos reports the current offset, so the caller can slice the remainder off
// to a Decoder.
func (h *HeaderReader) Pos() int { return h.s.pos }
