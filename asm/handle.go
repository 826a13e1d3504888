package asm

// Handle wraps a CONSTANT_MethodHandle_info reference (JVMS 4.4.8): a
// field or method accessor described by one of the H_* reference kinds of
// package opcodes, together with its owner, name and descriptor.
type Handle struct {
	tag         int
	owner       string
	name        string
	descriptor  string
	isInterface bool
}

// NewHandle builds a Handle for the given reference kind.
func NewHandle(tag int, owner, name, descriptor string, isInterface bool) *Handle {
	return &Handle{tag, owner, name, descriptor, isInterface}
}

func (h *Handle) Tag() int          { return h.tag }
func (h *Handle) Owner() string     { return h.owner }
func (h *Handle) Name() string      { return h.name }
func (h *Handle) Descriptor() string { return h.descriptor }
func (h *Handle) IsInterface() bool { return h.isInterface }
