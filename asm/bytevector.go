package asm

import "unicode/utf16"

// ByteVector is a dynamically extensible vector of bytes. It mirrors the
// ByteBuffer role of spec.md §2: an append-only byte sink with primitive
// writers, plus patch-by-offset access for backpatching branch operands and
// attribute length prefixes once their final size is known.
type ByteVector struct {
	data []byte
}

// NewByteVector returns an empty vector with the given initial capacity
// hint.
func NewByteVector(initialCapacity int) *ByteVector {
	if initialCapacity <= 0 {
		initialCapacity = 16
	}
	return &ByteVector{data: make([]byte, 0, initialCapacity)}
}

// NewByteVectorFrom wraps an existing byte slice for append (used when a
// raw attribute payload is copied verbatim from the reader).
func NewByteVectorFrom(b []byte) *ByteVector {
	v := &ByteVector{data: make([]byte, len(b))}
	copy(v.data, b)
	return v
}

// Len returns the number of bytes currently written.
func (v *ByteVector) Len() int {
	return len(v.data)
}

// Bytes returns the backing slice. Callers must not retain it across
// further writes.
func (v *ByteVector) Bytes() []byte {
	return v.data
}

// PutByte appends a single byte.
func (v *ByteVector) PutByte(b int) *ByteVector {
	v.data = append(v.data, byte(b))
	return v
}

// Put11 appends two bytes, used for 1-byte-opcode + 1-byte-operand pairs.
func (v *ByteVector) Put11(b1, b2 int) *ByteVector {
	v.data = append(v.data, byte(b1), byte(b2))
	return v
}

// PutShort appends a big-endian u16.
func (v *ByteVector) PutShort(s int) *ByteVector {
	v.data = append(v.data, byte(s>>8), byte(s))
	return v
}

// Put12 appends a 1-byte opcode followed by a 2-byte big-endian operand.
func (v *ByteVector) Put12(b int, s int) *ByteVector {
	v.PutByte(b)
	return v.PutShort(s)
}

// Put112 appends a 1-byte opcode, a 1-byte operand and a 2-byte operand.
func (v *ByteVector) Put112(b1, b2, s int) *ByteVector {
	v.PutByte(b1)
	v.PutByte(b2)
	return v.PutShort(s)
}

// PutInt appends a big-endian u32.
func (v *ByteVector) PutInt(i int) *ByteVector {
	v.data = append(v.data, byte(i>>24), byte(i>>16), byte(i>>8), byte(i))
	return v
}

// PutLong appends a big-endian 64-bit value.
func (v *ByteVector) PutLong(l int64) *ByteVector {
	v.PutInt(int(l >> 32))
	v.PutInt(int(l))
	return v
}

// PutUTF8 appends the modified-UTF-8 encoding of s, preceded by its u16
// byte length, as required for CONSTANT_Utf8_info payloads.
func (v *ByteVector) PutUTF8(s string) *ByteVector {
	units := utf16.Encode([]rune(s))
	byteLength := len(units)
	for _, c := range units {
		if c == 0 || c >= 0x80 {
			byteLength += encodedUTF8ExtraBytes(rune(c))
		}
	}
	if byteLength > 65535 {
		panic(newEmitError(ErrOverflowLimit, "UTF8", -1))
	}
	v.PutShort(byteLength)
	for _, c := range units {
		switch {
		case c >= 0x0001 && c <= 0x007F:
			v.PutByte(int(c))
		case c > 0x07FF:
			v.PutByte(0xE0 | (int(c) >> 12 & 0x0F))
			v.PutByte(0x80 | (int(c) >> 6 & 0x3F))
			v.PutByte(0x80 | (int(c) & 0x3F))
		default:
			v.PutByte(0xC0 | (int(c) >> 6 & 0x1F))
			v.PutByte(0x80 | (int(c) & 0x3F))
		}
	}
	return v
}

func encodedUTF8ExtraBytes(c rune) int {
	if c > 0x07FF {
		return 2
	}
	return 1
}

// PutByteArray appends length bytes of b starting at offset.
func (v *ByteVector) PutByteArray(b []byte, offset, length int) *ByteVector {
	if length > 0 {
		v.data = append(v.data, b[offset:offset+length]...)
	}
	return v
}

// PutByteVector appends the contents of another ByteVector.
func (v *ByteVector) PutByteVector(other *ByteVector) *ByteVector {
	if other != nil {
		v.data = append(v.data, other.data...)
	}
	return v
}

// PatchShort overwrites the 2 bytes at offset with the big-endian encoding
// of s, without changing the vector's length. Used by the label-resolve
// protocol (spec.md §4.2) to backpatch a previously emitted placeholder.
func (v *ByteVector) PatchShort(offset, s int) {
	v.data[offset] = byte(s >> 8)
	v.data[offset+1] = byte(s)
}

// PatchInt overwrites the 4 bytes at offset with the big-endian encoding of
// i, without changing the vector's length.
func (v *ByteVector) PatchInt(offset, i int) {
	v.data[offset] = byte(i >> 24)
	v.data[offset+1] = byte(i >> 16)
	v.data[offset+2] = byte(i >> 8)
	v.data[offset+3] = byte(i)
}
