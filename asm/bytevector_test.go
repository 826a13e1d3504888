package asm

import (
	"bytes"
	"testing"
)

func TestByteVectorPrimitiveWrites(t *testing.T) {
	v := NewByteVector(0)
	v.PutByte(0xCA).PutShort(0xFEBA).PutInt(0xBE000001).PutLong(0x0102030405060708)

	want := []byte{
		0xCA,
		0xFE, 0xBA,
		0xBE, 0x00, 0x00, 0x01,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}
	if !bytes.Equal(v.Bytes(), want) {
		t.Fatalf("got % x, want % x", v.Bytes(), want)
	}
}

func TestByteVectorPatch(t *testing.T) {
	v := NewByteVector(0)
	v.PutShort(0).PutByte(0xFF)
	v.PatchShort(0, 0x1234)
	want := []byte{0x12, 0x34, 0xFF}
	if !bytes.Equal(v.Bytes(), want) {
		t.Fatalf("got % x, want % x", v.Bytes(), want)
	}
}

func TestByteVectorPutUTF8ASCII(t *testing.T) {
	v := NewByteVector(0)
	v.PutUTF8("Ax")
	want := []byte{0x00, 0x02, 'A', 'x'}
	if !bytes.Equal(v.Bytes(), want) {
		t.Fatalf("got % x, want % x", v.Bytes(), want)
	}
}

func TestByteVectorPutUTF8Multibyte(t *testing.T) {
	v := NewByteVector(0)
	// U+00E9 (e acute) encodes as two bytes in modified UTF-8.
	v.PutUTF8("é")
	want := []byte{0x00, 0x02, 0xC3, 0xA9}
	if !bytes.Equal(v.Bytes(), want) {
		t.Fatalf("got % x, want % x", v.Bytes(), want)
	}
}

func TestByteVectorPutUTF8OverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an over-length UTF8 payload")
		}
	}()
	v := NewByteVector(0)
	v.PutUTF8(string(bytes.Repeat([]byte("a"), 65536)))
}

func TestByteVectorPutByteVectorNilIsNoop(t *testing.T) {
	v := NewByteVector(0)
	v.PutByte(1)
	v.PutByteVector(nil)
	if v.Len() != 1 {
		t.Fatalf("expected length 1 after appending nil, got %d", v.Len())
	}
}
