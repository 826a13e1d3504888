package asm

import (
	"math"

	"github.com/sumimakito/asm/asm/opcodes"
	"github.com/sumimakito/asm/asm/symbol"
)

// FieldWriter implements FieldVisitor by accumulating a field_info
// structure (JVMS 4.5) to be emitted by ClassWriter.ToByteArray.
type FieldWriter struct {
	symbolTable *symbol.Table
	next        *FieldWriter

	accessFlags      int
	nameIndex        int
	descriptorIndex  int
	signatureIndex   int
	constantValueIndex int

	lastRuntimeVisibleAnnotation       *AnnotationWriter
	numVisibleAnnotations              int
	lastRuntimeInvisibleAnnotation     *AnnotationWriter
	numInvisibleAnnotations            int
	lastRuntimeVisibleTypeAnnotation   *AnnotationWriter
	numVisibleTypeAnnotations          int
	lastRuntimeInvisibleTypeAnnotation *AnnotationWriter
	numInvisibleTypeAnnotations        int

	firstAttribute *Attribute
}

// NewFieldWriter interns the field's name/descriptor/signature/constant
// value and returns a writer ready to accept the visitor calls that
// follow a ClassVisitor.VisitField.
func NewFieldWriter(symbolTable *symbol.Table, access int, name, descriptor, signature string, value interface{}) *FieldWriter {
	fw := &FieldWriter{
		symbolTable:     symbolTable,
		accessFlags:     access,
		nameIndex:       symbolTable.AddUtf8(name),
		descriptorIndex: symbolTable.AddUtf8(descriptor),
	}
	if signature != "" {
		fw.signatureIndex = symbolTable.AddUtf8(signature)
	}
	if value != nil {
		fw.constantValueIndex = fw.addConstantValue(value)
	}
	return fw
}

func (fw *FieldWriter) addConstantValue(value interface{}) int {
	switch v := value.(type) {
	case int32:
		return fw.symbolTable.AddInteger(v)
	case int:
		return fw.symbolTable.AddInteger(int32(v))
	case bool:
		if v {
			return fw.symbolTable.AddInteger(1)
		}
		return fw.symbolTable.AddInteger(0)
	case byte:
		return fw.symbolTable.AddInteger(int32(v))
	case int8:
		return fw.symbolTable.AddInteger(int32(v))
	case int16:
		return fw.symbolTable.AddInteger(int32(v))
	case int64:
		return fw.symbolTable.AddLong(v)
	case float32:
		return fw.symbolTable.AddFloat(math.Float32bits(v))
	case float64:
		return fw.symbolTable.AddDouble(math.Float64bits(v))
	case string:
		return fw.symbolTable.AddConstantString(v)
	default:
		panic(newEmitError(ErrUnsupportedConstruct, "FieldWriter.addConstantValue", -1))
	}
}

func (fw *FieldWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	buffer := NewByteVector(64)
	buffer.PutShort(fw.symbolTable.AddUtf8(descriptor))
	if visible {
		fw.numVisibleAnnotations++
		w := NewAnnotationWriter(fw.symbolTable, true, buffer, fw.lastRuntimeVisibleAnnotation)
		fw.lastRuntimeVisibleAnnotation = w
		return w
	}
	fw.numInvisibleAnnotations++
	w := NewAnnotationWriter(fw.symbolTable, true, buffer, fw.lastRuntimeInvisibleAnnotation)
	fw.lastRuntimeInvisibleAnnotation = w
	return w
}

func (fw *FieldWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	buffer := NewByteVector(64)
	buffer.PutInt(typeRef)
	PutTypePath(typePath, buffer)
	buffer.PutShort(fw.symbolTable.AddUtf8(descriptor))
	if visible {
		fw.numVisibleTypeAnnotations++
		w := NewAnnotationWriter(fw.symbolTable, true, buffer, fw.lastRuntimeVisibleTypeAnnotation)
		fw.lastRuntimeVisibleTypeAnnotation = w
		return w
	}
	fw.numInvisibleTypeAnnotations++
	w := NewAnnotationWriter(fw.symbolTable, true, buffer, fw.lastRuntimeInvisibleTypeAnnotation)
	fw.lastRuntimeInvisibleTypeAnnotation = w
	return w
}

func (fw *FieldWriter) VisitAttribute(attribute *Attribute) {
	attribute.nextAttribute = fw.firstAttribute
	fw.firstAttribute = attribute
}

func (fw *FieldWriter) VisitEnd() {}

// computeSize returns the byte size of this field_info, including its
// fixed 8-byte header (access_flags/name_index/descriptor_index/
// attributes_count).
func (fw *FieldWriter) computeSize() int {
	size := 8
	if fw.constantValueIndex != 0 {
		fw.symbolTable.AddUtf8("ConstantValue")
		size += 8
	}
	if (fw.accessFlags & opcodes.ACC_SYNTHETIC) != 0 {
		fw.symbolTable.AddUtf8("Synthetic")
		size += 6
	}
	if (fw.accessFlags & opcodes.ACC_DEPRECATED) != 0 {
		fw.symbolTable.AddUtf8("Deprecated")
		size += 6
	}
	if fw.signatureIndex != 0 {
		fw.symbolTable.AddUtf8("Signature")
		size += 8
	}
	if fw.numVisibleAnnotations > 0 {
		fw.symbolTable.AddUtf8("RuntimeVisibleAnnotations")
		size += 8 + computeAnnotationsSize(fw.lastRuntimeVisibleAnnotation) - 2
	}
	if fw.numInvisibleAnnotations > 0 {
		fw.symbolTable.AddUtf8("RuntimeInvisibleAnnotations")
		size += 8 + computeAnnotationsSize(fw.lastRuntimeInvisibleAnnotation) - 2
	}
	if fw.numVisibleTypeAnnotations > 0 {
		fw.symbolTable.AddUtf8("RuntimeVisibleTypeAnnotations")
		size += 8 + computeAnnotationsSize(fw.lastRuntimeVisibleTypeAnnotation) - 2
	}
	if fw.numInvisibleTypeAnnotations > 0 {
		fw.symbolTable.AddUtf8("RuntimeInvisibleTypeAnnotations")
		size += 8 + computeAnnotationsSize(fw.lastRuntimeInvisibleTypeAnnotation) - 2
	}
	if fw.firstAttribute != nil {
		size += fw.firstAttribute.computeAttributesSize(fw.symbolTable)
	}
	return size
}

func (fw *FieldWriter) attributeCount() int {
	count := 0
	if fw.constantValueIndex != 0 {
		count++
	}
	if (fw.accessFlags & opcodes.ACC_SYNTHETIC) != 0 {
		count++
	}
	if (fw.accessFlags & opcodes.ACC_DEPRECATED) != 0 {
		count++
	}
	if fw.signatureIndex != 0 {
		count++
	}
	if fw.numVisibleAnnotations > 0 {
		count++
	}
	if fw.numInvisibleAnnotations > 0 {
		count++
	}
	if fw.numVisibleTypeAnnotations > 0 {
		count++
	}
	if fw.numInvisibleTypeAnnotations > 0 {
		count++
	}
	if fw.firstAttribute != nil {
		count += fw.firstAttribute.getAttributeCount()
	}
	return count
}

// put writes this field_info to output.
func (fw *FieldWriter) put(output *ByteVector) {
	output.PutShort(fw.accessFlags)
	output.PutShort(fw.nameIndex)
	output.PutShort(fw.descriptorIndex)
	output.PutShort(fw.attributeCount())

	if fw.constantValueIndex != 0 {
		output.PutShort(fw.symbolTable.AddUtf8("ConstantValue"))
		output.PutInt(2)
		output.PutShort(fw.constantValueIndex)
	}
	if (fw.accessFlags & opcodes.ACC_SYNTHETIC) != 0 {
		output.PutShort(fw.symbolTable.AddUtf8("Synthetic"))
		output.PutInt(0)
	}
	if (fw.accessFlags & opcodes.ACC_DEPRECATED) != 0 {
		output.PutShort(fw.symbolTable.AddUtf8("Deprecated"))
		output.PutInt(0)
	}
	if fw.signatureIndex != 0 {
		output.PutShort(fw.symbolTable.AddUtf8("Signature"))
		output.PutInt(2)
		output.PutShort(fw.signatureIndex)
	}
	if fw.numVisibleAnnotations > 0 {
		output.PutShort(fw.symbolTable.AddUtf8("RuntimeVisibleAnnotations"))
		output.PutInt(computeAnnotationsSize(fw.lastRuntimeVisibleAnnotation))
		putAnnotations(fw.numVisibleAnnotations, fw.lastRuntimeVisibleAnnotation, output)
	}
	if fw.numInvisibleAnnotations > 0 {
		output.PutShort(fw.symbolTable.AddUtf8("RuntimeInvisibleAnnotations"))
		output.PutInt(computeAnnotationsSize(fw.lastRuntimeInvisibleAnnotation))
		putAnnotations(fw.numInvisibleAnnotations, fw.lastRuntimeInvisibleAnnotation, output)
	}
	if fw.numVisibleTypeAnnotations > 0 {
		output.PutShort(fw.symbolTable.AddUtf8("RuntimeVisibleTypeAnnotations"))
		output.PutInt(computeAnnotationsSize(fw.lastRuntimeVisibleTypeAnnotation))
		putAnnotations(fw.numVisibleTypeAnnotations, fw.lastRuntimeVisibleTypeAnnotation, output)
	}
	if fw.numInvisibleTypeAnnotations > 0 {
		output.PutShort(fw.symbolTable.AddUtf8("RuntimeInvisibleTypeAnnotations"))
		output.PutInt(computeAnnotationsSize(fw.lastRuntimeInvisibleTypeAnnotation))
		putAnnotations(fw.numInvisibleTypeAnnotations, fw.lastRuntimeInvisibleTypeAnnotation, output)
	}
	if fw.firstAttribute != nil {
		fw.firstAttribute.putAttributes(fw.symbolTable, output)
	}
}
