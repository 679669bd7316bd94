package decoder

import "fmt"

// readScalar implements §4.7's primitive verb table plus readStrongBinder
// and readBundle, the two entries from the fixed complex-type table (§4.3)
// that bottom out without a type parameter.
func (d *Decoder) readScalar(verb string) (any, error) {
	switch verb {
	case "readInt":
		return d.s.readInt32()
	case "readUInt":
		v, err := d.s.readUint32()
		return v, err
	case "readLong":
		return d.s.readInt64()
	case "readULong":
		v, err := d.s.readUint64()
		return v, err
	case "readShort":
		return d.s.readShortAligned()
	case "readByte":
		return d.s.readByteAligned()
	case "readByteUnaligned":
		return d.s.readByteUnaligned()
	case "readFloat":
		return d.s.readFloat32()
	case "readDouble":
		return d.s.readFloat64()
	case "readBoolean":
		v, err := d.s.readInt32()
		if err != nil {
			return nil, err
		}
		return v != 0, nil
	case "readChar":
		v, err := d.s.readInt32()
		if err != nil {
			return nil, err
		}
		return rune(v), nil
	case "readString":
		s, present, err := d.s.readUTF16String()
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, nil
		}
		return s, nil
	case "readString8":
		s, present, err := d.s.readUTF8String()
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, nil
		}
		return s, nil
	case "readStrongBinder":
		return d.readStrongBinder()
	case "readBundle":
		return d.readBundle()
	default:
		return nil, fmt.Errorf("unknown verb %q", verb)
	}
}

// StrongBinder mirrors the on-wire flat_binder_object shape (§4.7).
type StrongBinder struct {
	Type   uint32
	Flags  uint32
	Handle uint64
	Cookie uint64
	Status *uint32 // non-nil only on Android >= 10
}

func (d *Decoder) readStrongBinder() (*StrongBinder, error) {
	typ, err := d.s.readUint32()
	if err != nil {
		return nil, err
	}
	flags, err := d.s.readUint32()
	if err != nil {
		return nil, err
	}
	handle, err := d.s.readUint64()
	if err != nil {
		return nil, err
	}
	cookie, err := d.s.readUint64()
	if err != nil {
		return nil, err
	}
	b := &StrongBinder{Type: typ, Flags: flags, Handle: handle, Cookie: cookie}
	if d.androidVersion >= 10 {
		status, err := d.s.readUint32()
		if err != nil {
			return nil, err
		}
		b.Status = &status
	}
	return b, nil
}

// readBundle treats a Bundle's payload as opaque bytes (SPEC_FULL.md §C,
// Open Question 3): a length-prefixed blob, not unpacked key by key. The
// wire header is `length:i32` followed by the `BNDL` magic `i32`; the
// returned blob is the length-4 bytes that follow the magic. Neither word
// is separately 4-byte aligned since the blob's own internal layout already
// satisfies §4.7's padding discipline.
func (d *Decoder) readBundle() ([]byte, error) {
	n, err := d.s.readInt32()
	if err != nil {
		return nil, err
	}
	if _, err := d.s.readInt32(); err != nil { // BNDL magic
		return nil, err
	}
	if n <= 4 {
		return nil, nil
	}
	return d.s.readRaw(int(n) - 4)
}
