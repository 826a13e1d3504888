package asm

import "testing"

func TestGetTypePrimitive(t *testing.T) {
	if GetType("I").Descriptor() != "I" {
		t.Fatalf("expected int descriptor I")
	}
	if GetType("I").Size() != 1 {
		t.Fatalf("expected int to occupy 1 slot")
	}
	if GetType("J").Size() != 2 {
		t.Fatalf("expected long to occupy 2 slots")
	}
	if GetType("D").Size() != 2 {
		t.Fatalf("expected double to occupy 2 slots")
	}
}

func TestGetTypeArray(t *testing.T) {
	arr := GetType("[[I")
	if arr.Descriptor() != "[[I" {
		t.Fatalf("got %q, want [[I", arr.Descriptor())
	}
	if !arr.IsReference() {
		t.Fatalf("expected array type to report as a reference")
	}
}

func TestGetTypeObject(t *testing.T) {
	obj := GetType("Ljava/lang/String;")
	if obj.InternalName() != "java/lang/String" {
		t.Fatalf("got %q, want java/lang/String", obj.InternalName())
	}
	if !obj.IsReference() {
		t.Fatalf("expected object type to report as a reference")
	}
}

func TestGetObjectTypeInternal(t *testing.T) {
	internal := GetObjectType("java/lang/Object")
	if internal.Descriptor() != "Ljava/lang/Object;" {
		t.Fatalf("got %q, want Ljava/lang/Object;", internal.Descriptor())
	}
}

func TestArgumentTypesAndReturnType(t *testing.T) {
	args := ArgumentTypes("(ILjava/lang/String;[J)V")
	if len(args) != 3 {
		t.Fatalf("expected 3 argument types, got %d", len(args))
	}
	if args[0].Descriptor() != "I" || args[1].Descriptor() != "Ljava/lang/String;" || args[2].Descriptor() != "[J" {
		t.Fatalf("unexpected argument descriptors: %v", args)
	}
	if ReturnType("(ILjava/lang/String;[J)V").Descriptor() != "V" {
		t.Fatalf("expected void return type")
	}
}

func TestArgumentsAndReturnSizes(t *testing.T) {
	// (II)I: this is not counted by ArgumentsAndReturnSizes itself for
	// static methods, the instance-method implicit `this` slot is baked
	// into the initial argSize of 1; callers for static methods must
	// account for that separately.
	packed := ArgumentsAndReturnSizes("(II)I")
	argSize := packed >> 2
	returnSize := packed & 0x3
	if argSize != 3 {
		t.Fatalf("expected argSize 3 (1 implicit + 2 ints), got %d", argSize)
	}
	if returnSize != 1 {
		t.Fatalf("expected returnSize 1 for int, got %d", returnSize)
	}

	packedVoidLong := ArgumentsAndReturnSizes("(J)V")
	if packedVoidLong&0x3 != 0 {
		t.Fatalf("expected returnSize 0 for void")
	}
	if packedVoidLong>>2 != 3 {
		t.Fatalf("expected argSize 3 (1 implicit + 2 for long), got %d", packedVoidLong>>2)
	}
}
