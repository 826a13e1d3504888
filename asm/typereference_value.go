package asm

// TypeReference wraps the encoded type_reference int used by
// visitTypeAnnotation/visitInsnAnnotation/visitTryCatchAnnotation and the
// annotation-target attributes: the sort occupies the most significant
// byte, the remaining 24 bits hold sort-specific data (a type-parameter
// index, a formal-parameter index, a throws-clause index, and so on).
type TypeReference struct {
	value int
}

// NewTypeReference wraps a raw encoded type reference value (as read
// directly from a class file's annotation target_info).
func NewTypeReference(typeRef int) TypeReference {
	return TypeReference{typeRef}
}

// NewTypeReferenceWithSort builds a reference whose sort carries no
// additional data (CLASS_EXTENDS with no interface index, METHOD_RETURN,
// METHOD_RECEIVER, and similar simple sorts).
func NewTypeReferenceWithSort(sort int) TypeReference {
	return TypeReference{sort << 24}
}

// NewSuperTypeReference builds a CLASS_EXTENDS reference: itf == -1 means
// the superclass itself, itf >= 0 means the interface at that index in
// the implements clause.
func NewSuperTypeReference(itf int) TypeReference {
	return TypeReference{(CLASS_EXTENDS << 24) | ((itf & 0xFFFF) << 8)}
}

// NewFormalParameterReference builds a METHOD_FORMAL_PARAMETER reference
// for the parameter at the given index.
func NewFormalParameterReference(paramIndex int) TypeReference {
	return TypeReference{(METHOD_FORMAL_PARAMETER << 24) | ((paramIndex & 0xFF) << 16)}
}

// NewExceptionReference builds a THROWS reference for the exception at
// the given index of the method's throws clause.
func NewExceptionReference(exceptionIndex int) TypeReference {
	return TypeReference{(THROWS << 24) | ((exceptionIndex & 0xFFFF) << 8)}
}

// NewTryCatchReference builds an EXCEPTION_PARAMETER reference for the
// catch clause at the given index of the exception table.
func NewTryCatchReference(tryCatchBlockIndex int) TypeReference {
	return TypeReference{(EXCEPTION_PARAMETER << 24) | (tryCatchBlockIndex << 8)}
}

// NewTypeParameterReference builds a CLASS_TYPE_PARAMETER or
// METHOD_TYPE_PARAMETER reference for the type parameter at the given
// index.
func NewTypeParameterReference(sort, paramIndex int) TypeReference {
	return TypeReference{(sort << 24) | ((paramIndex & 0xFF) << 16)}
}

// Sort returns the sort of this type reference (one of the *_TYPE_* /
// CLASS_* / METHOD_* / FIELD / THROWS / ... constants above).
func (r TypeReference) Sort() int {
	return int(uint32(r.value) >> 24)
}

// Value returns the raw encoded value.
func (r TypeReference) Value() int {
	return r.value
}

// TypeParameterIndex returns the index of a generic type parameter, valid
// for CLASS_TYPE_PARAMETER, METHOD_TYPE_PARAMETER,
// CLASS_TYPE_PARAMETER_BOUND and METHOD_TYPE_PARAMETER_BOUND references.
func (r TypeReference) TypeParameterIndex() int {
	return (r.value & 0x00FF0000) >> 16
}

// TypeParameterBoundIndex returns the index of a type parameter bound,
// valid for CLASS_TYPE_PARAMETER_BOUND and METHOD_TYPE_PARAMETER_BOUND
// references.
func (r TypeReference) TypeParameterBoundIndex() int {
	return (r.value & 0x0000FF00) >> 8
}

// SuperTypeIndex returns -1 for the superclass, or the index into the
// implements clause, valid for CLASS_EXTENDS references.
func (r TypeReference) SuperTypeIndex() int {
	return int(int16((r.value & 0x00FFFF00) >> 8))
}

// FormalParameterIndex returns the index of a formal parameter, valid for
// METHOD_FORMAL_PARAMETER references.
func (r TypeReference) FormalParameterIndex() int {
	return (r.value & 0x00FF0000) >> 16
}

// ExceptionIndex returns the index into a throws clause, valid for THROWS
// references.
func (r TypeReference) ExceptionIndex() int {
	return (r.value & 0x00FFFF00) >> 8
}

// TryCatchBlockIndex returns the index into the exception table, valid for
// EXCEPTION_PARAMETER references.
func (r TypeReference) TryCatchBlockIndex() int {
	return (r.value & 0x00FFFF00) >> 8
}
