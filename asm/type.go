package asm

import (
	"fmt"
	"strings"

	"github.com/sumimakito/asm/asm/typed"
)

// Type represents a JVM type: a primitive, an array, a class (either
// "internal" form, e.g. java/lang/Object, or "object" descriptor form
// Ljava/lang/Object;), or a method descriptor. It mirrors the descriptor
// grammar of the JVM spec and is used wherever the core needs to know a
// value's category and slot size: frame-engine simulation (spec.md §4.3)
// and local-variable/stack slot counting.
type Type struct {
	sort  int
	value string // the raw descriptor/internal-name text for this type
}

// Primitive Type singletons.
var (
	VoidType    = Type{typed.VOID, "V"}
	BooleanType = Type{typed.BOOLEAN, "Z"}
	CharType    = Type{typed.CHAR, "C"}
	ByteType    = Type{typed.BYTE, "B"}
	ShortType   = Type{typed.SHORT, "S"}
	IntType     = Type{typed.INT, "I"}
	FloatType   = Type{typed.FLOAT, "F"}
	LongType    = Type{typed.LONG, "J"}
	DoubleType  = Type{typed.DOUBLE, "D"}
)

// GetObjectType returns the Type for the class with the given internal
// name (slash-separated, e.g. "java/lang/Object"), or for an array
// descriptor starting with '['.
func GetObjectType(internalName string) Type {
	if len(internalName) > 0 && internalName[0] == '[' {
		return Type{typed.ARRAY, internalName}
	}
	return Type{typed.INTERNAL, internalName}
}

// GetType parses a single field descriptor (e.g. "I", "[Ljava/lang/String;")
// into a Type.
func GetType(descriptor string) Type {
	t, _ := parseType(descriptor, 0)
	return t
}

// GetMethodType parses a method descriptor into a Type of sort METHOD; its
// value is the raw descriptor text.
func GetMethodType(methodDescriptor string) Type {
	return Type{typed.METHOD, methodDescriptor}
}

func parseType(descriptor string, offset int) (Type, int) {
	switch descriptor[offset] {
	case 'V':
		return VoidType, offset + 1
	case 'Z':
		return BooleanType, offset + 1
	case 'C':
		return CharType, offset + 1
	case 'B':
		return ByteType, offset + 1
	case 'S':
		return ShortType, offset + 1
	case 'I':
		return IntType, offset + 1
	case 'F':
		return FloatType, offset + 1
	case 'J':
		return LongType, offset + 1
	case 'D':
		return DoubleType, offset + 1
	case '[':
		end := offset + 1
		for descriptor[end] == '[' {
			end++
		}
		if descriptor[end] == 'L' {
			end = strings.IndexByte(descriptor[end:], ';') + end + 1
		} else {
			end++
		}
		return Type{typed.ARRAY, descriptor[offset:end]}, end
	case 'L':
		end := strings.IndexByte(descriptor[offset:], ';') + offset
		return Type{typed.OBJECT, descriptor[offset : end+1]}, end + 1
	default:
		panic(fmt.Sprintf("invalid descriptor %q at %d", descriptor, offset))
	}
}

// Sort returns the type's category (typed.VOID .. typed.INTERNAL).
func (t Type) Sort() int {
	return t.sort
}

// Descriptor returns the raw JVM descriptor string for this type.
func (t Type) Descriptor() string {
	if t.sort == typed.INTERNAL {
		return "L" + t.value + ";"
	}
	return t.value
}

// InternalName returns the internal (slash-separated) class name for an
// OBJECT or INTERNAL sort type.
func (t Type) InternalName() string {
	if t.sort == typed.INTERNAL {
		return t.value
	}
	return t.value[1 : len(t.value)-1]
}

// Size returns the number of local-variable/stack slots this type
// occupies: 2 for long/double, 1 for everything else, per spec.md §3's
// invariant that LONG and DOUBLE always occupy two slots.
func (t Type) Size() int {
	if t.sort == typed.LONG || t.sort == typed.DOUBLE {
		return 2
	}
	return 1
}

// IsReference reports whether the type is an object or array reference.
func (t Type) IsReference() bool {
	return t.sort == typed.OBJECT || t.sort == typed.ARRAY || t.sort == typed.INTERNAL
}

// ArgumentsAndReturnSizes returns a packed value whose low 2 bits are the
// return-value size and whose remaining bits (shifted left by 2) are the
// total argument size in slots (plus the implicit `this` slot), avoiding a
// second descriptor parse when both max-locals and the frame engine need
// the same count.
func ArgumentsAndReturnSizes(methodDescriptor string) int {
	argSize := 1
	i := 1
	for methodDescriptor[i] != ')' {
		c := methodDescriptor[i]
		if c == 'J' || c == 'D' {
			argSize += 2
			i++
		} else if c == '[' {
			for methodDescriptor[i] == '[' {
				i++
			}
			if methodDescriptor[i] == 'L' {
				i = strings.IndexByte(methodDescriptor[i:], ';') + i + 1
			} else {
				i++
			}
			argSize++
		} else if c == 'L' {
			i = strings.IndexByte(methodDescriptor[i:], ';') + i + 1
			argSize++
		} else {
			argSize++
			i++
		}
	}
	returnChar := methodDescriptor[i+1]
	returnSize := 1
	if returnChar == 'V' {
		returnSize = 0
	} else if returnChar == 'J' || returnChar == 'D' {
		returnSize = 2
	}
	return (argSize << 2) | returnSize
}

// ArgumentTypes parses the parameter types out of a method descriptor, in
// order.
func ArgumentTypes(methodDescriptor string) []Type {
	var types []Type
	i := 1
	for methodDescriptor[i] != ')' {
		var t Type
		t, i = parseType(methodDescriptor, i)
		types = append(types, t)
	}
	return types
}

// ReturnType parses the return type out of a method descriptor.
func ReturnType(methodDescriptor string) Type {
	idx := strings.IndexByte(methodDescriptor, ')') + 1
	t, _ := parseType(methodDescriptor, idx)
	return t
}
