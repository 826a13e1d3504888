package asm

// Type path step kinds, per JVMS 4.7.20.2.
const (
	ARRAY_ELEMENT = 0
	INNER_TYPE    = 1
	WILDCARD_BOUND = 2
	TYPE_ARGUMENT = 3
)

// TypePath locates a type within a (possibly generic, possibly nested)
// type annotation target, encoded as the compact byte format of JVMS
// 4.7.20.2: a length byte followed by length (step-kind, step-argument)
// pairs.
type TypePath struct {
	typePathContainer []byte
	typePathOffset    int
}

// NewTypePath wraps an existing encoded type_path byte sequence read from
// a class file, starting at offset.
func NewTypePath(b []byte, offset int) *TypePath {
	return &TypePath{b, offset}
}

// NewTypePathFromString parses the human-readable type path syntax used by
// the public API (e.g. "[.* ; 1" style path strings are not used here;
// instead the accepted grammar is a sequence of '[' (array element), '.'
// (inner type), '*' (wildcard bound) and "N;" (type argument N)) into its
// binary encoding.
func NewTypePathFromString(typePath string) *TypePath {
	if len(typePath) == 0 {
		return nil
	}
	output := NewByteVector(typePath8Guess(typePath))
	output.PutByte(0)
	steps := 0
	i := 0
	n := len(typePath)
	for i < n {
		c := typePath[i]
		i++
		switch {
		case c == '[':
			output.Put11(ARRAY_ELEMENT, 0)
			steps++
		case c == '.':
			output.Put11(INNER_TYPE, 0)
			steps++
		case c == '*':
			output.Put11(WILDCARD_BOUND, 0)
			steps++
		case c >= '0' && c <= '9':
			typeArg := int(c - '0')
			for i < n && typePath[i] >= '0' && typePath[i] <= '9' {
				typeArg = typeArg*10 + int(typePath[i]-'0')
				i++
			}
			if i < n && typePath[i] == ';' {
				i++
			}
			output.Put11(TYPE_ARGUMENT, typeArg)
			steps++
		}
	}
	b := output.Bytes()
	b[0] = byte(steps)
	return &TypePath{typePathContainer: b, typePathOffset: 0}
}

func typePath8Guess(s string) int {
	return 1 + 2*len(s)
}

// GetLength returns the number of steps in the path.
func (t TypePath) GetLength() int {
	return int(t.typePathContainer[t.typePathOffset])
}

// GetStep returns the step kind (ARRAY_ELEMENT, INNER_TYPE, WILDCARD_BOUND
// or TYPE_ARGUMENT) at index.
func (t TypePath) GetStep(index int) int {
	return int(t.typePathContainer[t.typePathOffset+2*index+1])
}

// GetStepArgument returns the type argument index for a TYPE_ARGUMENT
// step; meaningless for other step kinds.
func (t TypePath) GetStepArgument(index int) int {
	return int(t.typePathContainer[t.typePathOffset+2*index+2])
}

// PutTypePath appends this type path's encoded bytes (or a single 0 length byte if
// typePath is nil) to output, per the put_type_path format shared by
// annotation-target attributes.
func PutTypePath(typePath *TypePath, output *ByteVector) {
	if typePath == nil {
		output.PutByte(0)
		return
	}
	length := int(typePath.typePathContainer[typePath.typePathOffset])*2 + 1
	output.PutByteArray(typePath.typePathContainer, typePath.typePathOffset, length)
}
