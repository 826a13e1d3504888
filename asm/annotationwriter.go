package asm

import (
	"math"

	"github.com/sumimakito/asm/asm/symbol"
)

// AnnotationWriter implements AnnotationVisitor by serializing element_value
// entries directly into a ByteVector, per JVMS 4.7.16. It is used for every
// flavor of annotation list a class/field/method can carry (plain,
// parameter, type) since the element_value grammar is identical in each.
//
// Sibling annotations visited one after another on the same list (e.g. two
// RuntimeVisibleAnnotations entries) are chained through previousAnnotation
// so the owning writer can walk them in reverse to compute a combined size
// and emit them in visit order.
type AnnotationWriter struct {
	symbolTable *symbol.Table

	// useNamedValues is true for a top-level/nested annotation's
	// element_value_pairs (each entry carries an element_name_index), false
	// for an array_value's bare element_value sequence.
	useNamedValues bool

	annotation                 *ByteVector
	numElementValuePairsOffset int
	numElementValuePairs       int
	noHeader                   bool

	previousAnnotation *AnnotationWriter
}

// NewAnnotationWriter starts a new annotation (or array) whose content is
// appended to annotation. The u2 count placeholder (num_element_value_pairs,
// or num_values for an array) is always written immediately and patched in
// VisitEnd; useNamedValues only controls whether each value is preceded by
// its element name.
func NewAnnotationWriter(symbolTable *symbol.Table, useNamedValues bool, annotation *ByteVector, previousAnnotation *AnnotationWriter) *AnnotationWriter {
	w := &AnnotationWriter{
		symbolTable:    symbolTable,
		useNamedValues: useNamedValues,
		annotation:     annotation,
		previousAnnotation: previousAnnotation,
	}
	w.numElementValuePairsOffset = annotation.Len()
	annotation.PutShort(0)
	return w
}

// newHeaderlessAnnotationWriter starts a writer for a single bare
// element_value with no surrounding count, for the AnnotationDefault
// attribute (JVMS 4.7.22), which holds exactly one element_value and
// nothing else.
func newHeaderlessAnnotationWriter(symbolTable *symbol.Table, annotation *ByteVector) *AnnotationWriter {
	return &AnnotationWriter{
		symbolTable: symbolTable,
		useNamedValues: false,
		annotation:  annotation,
		noHeader:    true,
	}
}

func (w *AnnotationWriter) putName(name string) {
	if w.useNamedValues {
		w.annotation.PutShort(w.symbolTable.AddUtf8(name))
	}
}

func (w *AnnotationWriter) Visit(name string, value interface{}) {
	w.numElementValuePairs++
	w.putName(name)
	switch v := value.(type) {
	case bool:
		b := 0
		if v {
			b = 1
		}
		w.annotation.Put12('Z', w.symbolTable.AddInteger(int32(b)))
	case byte:
		w.annotation.Put12('B', w.symbolTable.AddInteger(int32(v)))
	case int8:
		w.annotation.Put12('B', w.symbolTable.AddInteger(int32(v)))
	case int16:
		w.annotation.Put12('S', w.symbolTable.AddInteger(int32(v)))
	case rune:
		w.annotation.Put12('C', w.symbolTable.AddInteger(int32(v)))
	case int:
		w.annotation.Put12('I', w.symbolTable.AddInteger(int32(v)))
	case int64:
		w.annotation.Put12('J', w.symbolTable.AddLong(v))
	case float32:
		w.annotation.Put12('F', w.symbolTable.AddFloat(math.Float32bits(v)))
	case float64:
		w.annotation.Put12('D', w.symbolTable.AddDouble(math.Float64bits(v)))
	case string:
		w.annotation.Put12('s', w.symbolTable.AddUtf8(v))
	case Type:
		w.annotation.Put12('c', w.symbolTable.AddUtf8(v.Descriptor()))
	default:
		panic(newEmitError(ErrUnsupportedConstruct, "AnnotationWriter.Visit", -1))
	}
}

func (w *AnnotationWriter) VisitEnum(name, descriptor, value string) {
	w.numElementValuePairs++
	w.putName(name)
	w.annotation.PutByte('e')
	w.annotation.PutShort(w.symbolTable.AddUtf8(descriptor))
	w.annotation.PutShort(w.symbolTable.AddUtf8(value))
}

func (w *AnnotationWriter) VisitAnnotation(name, descriptor string) AnnotationVisitor {
	w.numElementValuePairs++
	w.putName(name)
	w.annotation.PutByte('@')
	w.annotation.PutShort(w.symbolTable.AddUtf8(descriptor))
	return NewAnnotationWriter(w.symbolTable, true, w.annotation, nil)
}

func (w *AnnotationWriter) VisitArray(name string) AnnotationVisitor {
	w.numElementValuePairs++
	w.putName(name)
	w.annotation.PutByte('[')
	return NewAnnotationWriter(w.symbolTable, false, w.annotation, nil)
}

func (w *AnnotationWriter) VisitEnd() {
	if w.noHeader {
		return
	}
	w.annotation.PatchShort(w.numElementValuePairsOffset, w.numElementValuePairs)
}

// computeAnnotationsSize returns the size, in bytes, of the
// RuntimeVisible/InvisibleAnnotations (or parameter/type variant)
// attribute content built from a chain of sibling AnnotationWriters: a u2
// count followed by each annotation's (descriptor index + content).
func computeAnnotationsSize(lastAnnotation *AnnotationWriter) int {
	size := 2
	for w := lastAnnotation; w != nil; w = w.previousAnnotation {
		size += w.annotation.Len()
	}
	return size
}

// putAnnotations writes the u2 count followed by every chained annotation's
// bytes, in visit order (the chain links most-recent-first).
func putAnnotations(numAnnotations int, lastAnnotation *AnnotationWriter, output *ByteVector) {
	output.PutShort(numAnnotations)
	var reversed []*AnnotationWriter
	for w := lastAnnotation; w != nil; w = w.previousAnnotation {
		reversed = append(reversed, w)
	}
	for i := len(reversed) - 1; i >= 0; i-- {
		output.PutByteVector(reversed[i].annotation)
	}
}
