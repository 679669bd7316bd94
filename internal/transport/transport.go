// Package transport implements the Incoming/OutgoingMessage framing of
// §4.8: the small version-conditional header that precedes a
// Decoder-driven payload on the wire. Shaped after internal/indexing's
// message-framing helpers for the header-then-payload read shape.
package transport

import (
	"encoding/binary"

	"github.com/binderir/aidlc/internal/decoder"
	"github.com/binderir/aidlc/internal/loader"
)

// EnvTag is the 4-character work-source environment tag introduced in the
// Android 11 incoming-transaction header.
type EnvTag string

const (
	EnvTSYS EnvTag = "TSYS"
	EnvVNDK EnvTag = "VNDK"
	EnvRECO EnvTag = "RECO"
	EnvUNKN EnvTag = "UNKN"
)

// IncomingMessage is a decoded transaction request (§4.8 "IncomingMessage
// layout").
type IncomingMessage struct {
	StrictModePolicy uint32
	WorkSourceUID    *uint32 // present for android_version >= 10
	Env              *EnvTag // present only for android_version >= 11
	Descriptor       string
	Code             int
	Body             *decoder.Context
}

// DecodeIncoming reads an IncomingMessage's header, then hands the remaining
// bytes to the Decoder with direction IN. code is supplied by the caller
// (the transaction code is framed by the binder driver itself, outside the
// parcel payload proper — see §4.8's note that this layer assumes
// code arrives alongside the parcel bytes, not inside them).
func DecodeIncoming(data []byte, code int, l *loader.Loader) (*IncomingMessage, error) {
	h := decoder.NewHeaderReader(data)
	msg := &IncomingMessage{Code: code}

	smp, err := h.Uint32()
	if err != nil {
		return nil, err
	}
	msg.StrictModePolicy = smp

	version := l.AndroidVersion()
	switch {
	case version >= 11:
		workSUID, err := h.Uint32()
		if err != nil {
			return nil, err
		}
		msg.WorkSourceUID = &workSUID
		env, err := h.Uint32()
		if err != nil {
			return nil, err
		}
		tag := envTagFromWord(env)
		msg.Env = &tag
	case version == 10:
		workSUID, err := h.Uint32()
		if err != nil {
			return nil, err
		}
		msg.WorkSourceUID = &workSUID
	}

	descriptor, _, err := h.UTF16String()
	if err != nil {
		return nil, err
	}
	msg.Descriptor = descriptor

	d := decoder.New(data[h.Pos():], l)
	ctx, err := d.Decode(descriptor, code, decoder.In)
	msg.Body = ctx
	if err != nil {
		return msg, err
	}
	return msg, nil
}

// OutgoingMessage is a decoded transaction reply (§4.8 "OutgoingMessage").
type OutgoingMessage struct {
	Descriptor string
	ErrorCode  int32
	Body       *decoder.Context // nil if ErrorCode != 0
}

// DecodeOutgoing reads an OutgoingMessage. descriptor is supplied externally
// (the expected interface), since the reply payload carries no descriptor
// of its own.
func DecodeOutgoing(data []byte, descriptor string, code int, l *loader.Loader) (*OutgoingMessage, error) {
	h := decoder.NewHeaderReader(data)
	msg := &OutgoingMessage{Descriptor: descriptor}

	errCode, err := h.Int32()
	if err != nil {
		return nil, err
	}
	msg.ErrorCode = errCode
	if errCode != 0 {
		return msg, nil
	}

	d := decoder.New(data[h.Pos():], l)
	ctx, err := d.Decode(descriptor, code, decoder.Out)
	msg.Body = ctx
	if err != nil {
		return msg, err
	}
	return msg, nil
}

// envTagFromWord unpacks the wire env word into its 4-character ASCII tag:
// the word is the tag's bytes packed little-endian, e.g. "TSYS" ->
// 0x53595354 (the same packing int.from_bytes(b"TSYS", "little") produces),
// not an enum index.
func envTagFromWord(w uint32) EnvTag {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], w)
	switch string(buf[:]) {
	case string(EnvTSYS):
		return EnvTSYS
	case string(EnvVNDK):
		return EnvVNDK
	case string(EnvRECO):
		return EnvRECO
	default:
		return EnvUNKN
	}
}
