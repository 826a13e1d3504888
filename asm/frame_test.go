package asm

import (
	"testing"

	"github.com/sumimakito/asm/asm/opcodes"
)

func newTestFrame() *Frame {
	owner := &Label{}
	return NewFrame(owner)
}

func TestFramePushPopOrder(t *testing.T) {
	f := newTestFrame()
	f.push(INTEGER)
	f.push(FLOAT)
	if got := f.pop(); got != FLOAT {
		t.Fatalf("expected FLOAT on top, got %#x", got)
	}
	if got := f.pop(); got != INTEGER {
		t.Fatalf("expected INTEGER next, got %#x", got)
	}
}

func TestFramePeakRelativeStackSize(t *testing.T) {
	f := newTestFrame()
	f.push(INTEGER)
	f.push(INTEGER)
	f.push(INTEGER)
	f.pop()
	if peak := f.PeakRelativeStackSize(); peak != 3 {
		t.Fatalf("expected peak of 3, got %d", peak)
	}
	if rel := f.RelativeOutputStackSize(); rel != 2 {
		t.Fatalf("expected relative size of 2 after one pop, got %d", rel)
	}
}

func TestFrameExecuteSimpleArithmetic(t *testing.T) {
	f := newTestFrame()
	f.push(INTEGER)
	f.push(INTEGER)
	if err := f.ExecuteSimple(opcodes.IADD); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.pop(); got != INTEGER {
		t.Fatalf("expected IADD to leave an INTEGER on the stack, got %#x", got)
	}
	if f.PeakRelativeStackSize() != 2 {
		t.Fatalf("expected peak of 2 (before the IADD consumed two), got %d", f.PeakRelativeStackSize())
	}
}

func TestFrameExecuteSimpleDup(t *testing.T) {
	f := newTestFrame()
	f.push(INTEGER)
	if err := f.ExecuteSimple(opcodes.DUP); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top := f.pop()
	second := f.pop()
	if top != INTEGER || second != INTEGER {
		t.Fatalf("expected two INTEGER values after DUP, got %#x and %#x", top, second)
	}
}

func TestFrameExecuteSimpleUnknownOpcodeFails(t *testing.T) {
	f := newTestFrame()
	if err := f.ExecuteSimple(0xFF); err == nil {
		t.Fatal("expected an error for an opcode ExecuteSimple does not recognize")
	}
}

func TestArrayOfAndElementOfRoundTrip(t *testing.T) {
	arr := arrayOf(INTEGER)
	if dim(arr) != 1 {
		t.Fatalf("expected dim 1 after one arrayOf, got %d", dim(arr))
	}
	if elementOf(arr) != INTEGER {
		t.Fatalf("expected elementOf(arrayOf(INTEGER)) == INTEGER, got %#x", elementOf(arr))
	}
	nested := arrayOf(arrayOf(INTEGER))
	if dim(nested) != 2 {
		t.Fatalf("expected dim 2 for a 2D array type, got %d", dim(nested))
	}
}

func TestObjectAndUninitializedTags(t *testing.T) {
	obj := object(42)
	if !isObject(obj) || isUninitialized(obj) {
		t.Fatalf("expected object(42) to report as an object, not uninitialized")
	}
	if idx := valueOf(obj) & typeTableIndexMask; idx != 42 {
		t.Fatalf("expected type table index 42, got %d", idx)
	}

	uninit := uninitializedType(7)
	if !isUninitialized(uninit) || isObject(uninit) {
		t.Fatalf("expected uninitializedType(7) to report as uninitialized, not object")
	}
}
