package asm

import "github.com/sumimakito/asm/asm/symbol"

// Attribute is a non-standard or unrecognized class-file attribute,
// carried opaquely as a blob of content bytes (spec.md §4.1: "unknown
// attributes are surfaced as opaque blobs through a registered prototype
// table"). Attributes form a singly linked list per attribute-bearing
// structure (class, field, method, code).
type Attribute struct {
	typed         string
	content       []byte
	nextAttribute *Attribute
}

// NewAttribute builds an empty prototype attribute of the given type, used
// both as a registered prototype (for read) and as a freshly produced
// instance (for write).
func NewAttribute(typed string) *Attribute {
	return &Attribute{typed: typed}
}

// Type returns the attribute's name (e.g. "Signature", "Deprecated").
func (a *Attribute) Type() string {
	return a.typed
}

// Content returns the raw, already-decoded attribute payload.
func (a *Attribute) Content() []byte {
	return a.content
}

func (a *Attribute) isUnknown() bool {
	return true
}

func (a *Attribute) isCodeAttribute() bool {
	return false
}

// getLabels returns the labels referenced by a code attribute's content,
// empty for attributes that are not code attributes.
func (a *Attribute) getLabels() []*Label {
	return nil
}

// read builds a new Attribute of this prototype's type from raw class
// bytes; the default implementation simply copies the attribute's content
// verbatim, appropriate for any attribute this library does not know how
// to interpret structurally.
func (a *Attribute) read(classReader *ClassReader, offset, length int, charBuffer []rune, codeAttributeOffset int, labels []*Label) *Attribute {
	attribute := NewAttribute(a.typed)
	attribute.content = make([]byte, length)
	copy(attribute.content, classReader.b[offset:offset+length])
	return attribute
}

// write serializes this attribute's content back out, verbatim for an
// opaque attribute.
func (a *Attribute) write(symbolTable *symbol.Table, code []byte, codeLength, maxStack, maxLocals int) *ByteVector {
	return NewByteVectorFrom(a.content)
}

// getAttributeCount returns the length of the linked list starting at a.
func (a *Attribute) getAttributeCount() int {
	count := 0
	for attribute := a; attribute != nil; attribute = attribute.nextAttribute {
		count++
	}
	return count
}

// computeAttributesSize returns the total serialized size (attribute_name_index
// + attribute_length + content, for every attribute in the list) of a
// class- or field-level attribute list.
func (a *Attribute) computeAttributesSize(symbolTable *symbol.Table) int {
	return a.computeAttributesSizeWithCode(symbolTable, nil, -1, -1, -1)
}

// computeAttributesSizeWithCode is the Code-attribute variant: some
// attributes (StackMapTable, LineNumberTable) need the method's code,
// maxStack and maxLocals to size themselves.
func (a *Attribute) computeAttributesSizeWithCode(symbolTable *symbol.Table, code []byte, codeLength, maxStack, maxLocals int) int {
	size := 0
	for attribute := a; attribute != nil; attribute = attribute.nextAttribute {
		symbolTable.AddUtf8(attribute.typed)
		size += 6 + len(attribute.write(symbolTable, code, codeLength, maxStack, maxLocals).Bytes())
	}
	return size
}

// putAttributes serializes every attribute in the list (name index + u4
// length + content) into output.
func (a *Attribute) putAttributes(symbolTable *symbol.Table, output *ByteVector) {
	a.putAttributesWithCode(symbolTable, nil, -1, -1, -1, output)
}

func (a *Attribute) putAttributesWithCode(symbolTable *symbol.Table, code []byte, codeLength, maxStack, maxLocals int, output *ByteVector) {
	for attribute := a; attribute != nil; attribute = attribute.nextAttribute {
		content := attribute.write(symbolTable, code, codeLength, maxStack, maxLocals)
		output.PutShort(symbolTable.AddUtf8(attribute.typed))
		output.PutInt(len(content.Bytes()))
		output.PutByteVector(content)
	}
}
