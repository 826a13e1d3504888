package asm

import (
	"math"

	"github.com/sumimakito/asm/asm/opcodes"
	"github.com/sumimakito/asm/asm/symbol"
)

// Compute-flags for NewClassWriter, mirroring the teacher's reader-side
// parsing-option flags (SKIP_CODE/SKIP_DEBUG/SKIP_FRAMES). COMPUTE_MAXS
// asks the writer to derive max_stack/max_locals itself (cheap mode,
// §4.3); COMPUTE_FRAMES additionally asks it to derive the
// StackMapTable from scratch (expensive mode) and implies COMPUTE_MAXS.
const COMPUTE_MAXS = 1
const COMPUTE_FRAMES = 2

// ClassWriter builds a JVMS ClassFile structure by implementing
// ClassVisitor as an emitter: every Visit* call appends to the writer's
// state instead of driving further visitor calls, mirroring
// ClassReader.AcceptB's read order in reverse.
type ClassWriter struct {
	symbolTable *symbol.Table
	compute     int

	version     int
	accessFlags int
	thisClass   int
	className   string
	superClass  int
	interfaces  []int

	firstField, lastField   *FieldWriter
	firstMethod, lastMethod *MethodWriter

	signatureIndex          int
	sourceFileIndex         int
	sourceDebugExtension    []byte
	enclosingClassIndex     int
	enclosingMethodIndex    int

	moduleWriter *ModuleWriter

	innerClasses        *ByteVector
	numInnerClasses      int
	seenInnerClasses     map[string]bool

	bootstrapMethods       *ByteVector
	numBootstrapMethods    int
	bootstrapMethodIndex   map[string]int

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

// NewClassWriter returns an empty ClassWriter with a fresh constant pool.
// compute is 0, COMPUTE_MAXS or COMPUTE_FRAMES.
func NewClassWriter(compute int) *ClassWriter {
	return &ClassWriter{
		symbolTable:        symbol.NewTable(),
		compute:            compute,
		seenInnerClasses:   make(map[string]bool),
		bootstrapMethodIndex: make(map[string]int),
	}
}

// SymbolTable exposes the constant pool so a caller can install a
// SuperClassOracle before COMPUTE_FRAMES needs to merge two reference
// types (spec.md §4.3).
func (cw *ClassWriter) SymbolTable() *symbol.Table {
	return cw.symbolTable
}

func (cw *ClassWriter) Visit(version, access int, name, signature, superName string, interfaces []string) {
	cw.version = version
	cw.accessFlags = access
	cw.thisClass = cw.symbolTable.AddClass(name)
	cw.className = name
	if signature != "" {
		cw.signatureIndex = cw.symbolTable.AddUtf8(signature)
	}
	if superName != "" {
		cw.superClass = cw.symbolTable.AddClass(superName)
	}
	if len(interfaces) > 0 {
		cw.interfaces = make([]int, len(interfaces))
		for i, itf := range interfaces {
			cw.interfaces[i] = cw.symbolTable.AddClass(itf)
		}
	}
}

func (cw *ClassWriter) VisitSource(source, debug string) {
	if source != "" {
		cw.sourceFileIndex = cw.symbolTable.AddUtf8(source)
	}
	if debug != "" {
		cw.sourceDebugExtension = []byte(debug)
	}
}

func (cw *ClassWriter) VisitModule(name string, access int, version string) ModuleVisitor {
	cw.moduleWriter = NewModuleWriter(cw.symbolTable, name, access, version)
	return cw.moduleWriter
}

func (cw *ClassWriter) VisitOuterClass(owner, name, descriptor string) {
	cw.enclosingClassIndex = cw.symbolTable.AddClass(owner)
	if name != "" && descriptor != "" {
		cw.enclosingMethodIndex = cw.symbolTable.AddNameAndType(name, descriptor)
	}
}

func (cw *ClassWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	buffer := NewByteVector(64)
	buffer.PutShort(cw.symbolTable.AddUtf8(descriptor))
	if visible {
		cw.numVisibleAnnotations++
		w := NewAnnotationWriter(cw.symbolTable, true, buffer, cw.lastRuntimeVisibleAnnotation)
		cw.lastRuntimeVisibleAnnotation = w
		return w
	}
	cw.numInvisibleAnnotations++
	w := NewAnnotationWriter(cw.symbolTable, true, buffer, cw.lastRuntimeInvisibleAnnotation)
	cw.lastRuntimeInvisibleAnnotation = w
	return w
}

func (cw *ClassWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	buffer := NewByteVector(64)
	buffer.PutInt(typeRef)
	PutTypePath(typePath, buffer)
	buffer.PutShort(cw.symbolTable.AddUtf8(descriptor))
	if visible {
		cw.numVisibleTypeAnnotations++
		w := NewAnnotationWriter(cw.symbolTable, true, buffer, cw.lastRuntimeVisibleTypeAnnotation)
		cw.lastRuntimeVisibleTypeAnnotation = w
		return w
	}
	cw.numInvisibleTypeAnnotations++
	w := NewAnnotationWriter(cw.symbolTable, true, buffer, cw.lastRuntimeInvisibleTypeAnnotation)
	cw.lastRuntimeInvisibleTypeAnnotation = w
	return w
}

func (cw *ClassWriter) VisitAttribute(attribute *Attribute) {
	attribute.nextAttribute = cw.firstAttribute
	cw.firstAttribute = attribute
}

func (cw *ClassWriter) VisitInnerClass(name, outerName, innerName string, access int) {
	if cw.seenInnerClasses[name] {
		return
	}
	cw.seenInnerClasses[name] = true
	if cw.innerClasses == nil {
		cw.innerClasses = NewByteVector(32)
	}
	cw.numInnerClasses++
	cw.innerClasses.PutShort(cw.symbolTable.AddClass(name))
	outer := 0
	if outerName != "" {
		outer = cw.symbolTable.AddClass(outerName)
	}
	cw.innerClasses.PutShort(outer)
	inner := 0
	if innerName != "" {
		inner = cw.symbolTable.AddUtf8(innerName)
	}
	cw.innerClasses.PutShort(inner)
	cw.innerClasses.PutShort(access)
}

func (cw *ClassWriter) VisitField(access int, name, descriptor, signature string, value interface{}) FieldVisitor {
	fw := NewFieldWriter(cw.symbolTable, access, name, descriptor, signature, value)
	if cw.firstField == nil {
		cw.firstField = fw
	} else {
		cw.lastField.next = fw
	}
	cw.lastField = fw
	return fw
}

func (cw *ClassWriter) VisitMethod(access int, name, descriptor, signature string, exceptions []string) MethodVisitor {
	mw := NewMethodWriter(cw, access, name, descriptor, signature, exceptions)
	if cw.firstMethod == nil {
		cw.firstMethod = mw
	} else {
		cw.lastMethod.next = mw
	}
	cw.lastMethod = mw
	return mw
}

func (cw *ClassWriter) VisitEnd() {}

// addBootstrapMethod interns a bootstrap method entry (deduplicating on
// handle + fixed arguments) and returns its index into the
// BootstrapMethods attribute, for use by MethodWriter.VisitInvokeDynamicInsn.
func (cw *ClassWriter) addBootstrapMethod(handle *Handle, arguments []interface{}) int {
	handleIndex := cw.symbolTable.AddMethodHandle(handle.Tag(), handle.Owner(), handle.Name(), handle.Descriptor(), handle.IsInterface())
	argIndices := make([]int, len(arguments))
	for i, arg := range arguments {
		argIndices[i] = cw.addConstDynamicArgument(arg)
	}
	key := bootstrapKey(handleIndex, argIndices)
	if idx, ok := cw.bootstrapMethodIndex[key]; ok {
		return idx
	}
	if cw.bootstrapMethods == nil {
		cw.bootstrapMethods = NewByteVector(64)
	}
	idx := cw.numBootstrapMethods
	cw.bootstrapMethods.PutShort(handleIndex)
	cw.bootstrapMethods.PutShort(len(argIndices))
	for _, argIndex := range argIndices {
		cw.bootstrapMethods.PutShort(argIndex)
	}
	cw.numBootstrapMethods++
	cw.bootstrapMethodIndex[key] = idx
	return idx
}

func (cw *ClassWriter) addConstDynamicArgument(value interface{}) int {
	switch v := value.(type) {
	case int32:
		return cw.symbolTable.AddInteger(v)
	case int:
		return cw.symbolTable.AddInteger(int32(v))
	case int64:
		return cw.symbolTable.AddLong(v)
	case float32:
		return cw.symbolTable.AddFloat(math.Float32bits(v))
	case float64:
		return cw.symbolTable.AddDouble(math.Float64bits(v))
	case string:
		return cw.symbolTable.AddConstantString(v)
	case Type:
		return cw.symbolTable.AddMethodType(v.Descriptor())
	case *Handle:
		return cw.symbolTable.AddMethodHandle(v.Tag(), v.Owner(), v.Name(), v.Descriptor(), v.IsInterface())
	default:
		panic(newEmitError(ErrUnsupportedConstruct, "ClassWriter.addConstDynamicArgument", -1))
	}
}

func bootstrapKey(handleIndex int, argIndices []int) string {
	key := make([]byte, 0, 4+4*len(argIndices))
	key = appendIntKey(key, handleIndex)
	for _, a := range argIndices {
		key = appendIntKey(key, a)
	}
	return string(key)
}

func appendIntKey(b []byte, v int) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v), '|')
}

// ToByteArray serializes the accumulated class into a full ClassFile byte
// array (JVMS 4.1). It returns ErrUnresolvedLabel when a jump instruction
// of any method targets a label that was never visited; the targets of
// TABLESWITCH/LOOKUPSWITCH instructions are not checked.
func (cw *ClassWriter) ToByteArray() ([]byte, error) {
	for mw := cw.firstMethod; mw != nil; mw = mw.next {
		if err := mw.finish(); err != nil {
			return nil, err
		}
	}

	attributesCount := 0
	size := 24 + 2*len(cw.interfaces)
	for fw := cw.firstField; fw != nil; fw = fw.next {
		size += fw.computeSize()
	}
	for mw := cw.firstMethod; mw != nil; mw = mw.next {
		size += mw.computeSize()
	}

	if cw.signatureIndex != 0 {
		cw.symbolTable.AddUtf8("Signature")
		size += 8
		attributesCount++
	}
	if cw.sourceFileIndex != 0 {
		cw.symbolTable.AddUtf8("SourceFile")
		size += 8
		attributesCount++
	}
	if cw.sourceDebugExtension != nil {
		cw.symbolTable.AddUtf8("SourceDebugExtension")
		size += 6 + len(cw.sourceDebugExtension)
		attributesCount++
	}
	if cw.enclosingClassIndex != 0 {
		cw.symbolTable.AddUtf8("EnclosingMethod")
		size += 10
		attributesCount++
	}
	if (cw.accessFlags & opcodes.ACC_DEPRECATED) != 0 {
		cw.symbolTable.AddUtf8("Deprecated")
		size += 6
		attributesCount++
	}
	if (cw.accessFlags & opcodes.ACC_SYNTHETIC) != 0 {
		cw.symbolTable.AddUtf8("Synthetic")
		size += 6
		attributesCount++
	}
	if cw.innerClasses != nil {
		cw.symbolTable.AddUtf8("InnerClasses")
		size += 8 + cw.innerClasses.Len()
		attributesCount++
	}
	if cw.moduleWriter != nil {
		size += cw.moduleWriter.computeSize(cw.symbolTable)
		attributesCount += cw.moduleWriter.attributeCount()
	}
	if cw.bootstrapMethods != nil {
		cw.symbolTable.AddUtf8("BootstrapMethods")
		size += 8 + 2 + cw.bootstrapMethods.Len()
		attributesCount++
	}
	if cw.numVisibleAnnotations > 0 {
		cw.symbolTable.AddUtf8("RuntimeVisibleAnnotations")
		size += 8 + computeAnnotationsSize(cw.lastRuntimeVisibleAnnotation) - 2
		attributesCount++
	}
	if cw.numInvisibleAnnotations > 0 {
		cw.symbolTable.AddUtf8("RuntimeInvisibleAnnotations")
		size += 8 + computeAnnotationsSize(cw.lastRuntimeInvisibleAnnotation) - 2
		attributesCount++
	}
	if cw.numVisibleTypeAnnotations > 0 {
		cw.symbolTable.AddUtf8("RuntimeVisibleTypeAnnotations")
		size += 8 + computeAnnotationsSize(cw.lastRuntimeVisibleTypeAnnotation) - 2
		attributesCount++
	}
	if cw.numInvisibleTypeAnnotations > 0 {
		cw.symbolTable.AddUtf8("RuntimeInvisibleTypeAnnotations")
		size += 8 + computeAnnotationsSize(cw.lastRuntimeInvisibleTypeAnnotation) - 2
		attributesCount++
	}
	if cw.firstAttribute != nil {
		size += cw.firstAttribute.computeAttributesSize(cw.symbolTable)
		attributesCount += cw.firstAttribute.getAttributeCount()
	}

	result := NewByteVector(size + cw.symbolTable.Count()*6)
	result.PutInt(0xCAFEBABE)
	result.PutInt(cw.version)
	putConstantPool(cw.symbolTable, result)
	result.PutShort(cw.accessFlags)
	result.PutShort(cw.thisClass)
	result.PutShort(cw.superClass)
	result.PutShort(len(cw.interfaces))
	for _, itf := range cw.interfaces {
		result.PutShort(itf)
	}

	fieldCount := 0
	for fw := cw.firstField; fw != nil; fw = fw.next {
		fieldCount++
	}
	result.PutShort(fieldCount)
	for fw := cw.firstField; fw != nil; fw = fw.next {
		fw.put(result)
	}

	methodCount := 0
	for mw := cw.firstMethod; mw != nil; mw = mw.next {
		methodCount++
	}
	result.PutShort(methodCount)
	for mw := cw.firstMethod; mw != nil; mw = mw.next {
		mw.put(result)
	}

	result.PutShort(attributesCount)
	if cw.signatureIndex != 0 {
		result.PutShort(cw.symbolTable.AddUtf8("Signature"))
		result.PutInt(2)
		result.PutShort(cw.signatureIndex)
	}
	if cw.sourceFileIndex != 0 {
		result.PutShort(cw.symbolTable.AddUtf8("SourceFile"))
		result.PutInt(2)
		result.PutShort(cw.sourceFileIndex)
	}
	if cw.sourceDebugExtension != nil {
		result.PutShort(cw.symbolTable.AddUtf8("SourceDebugExtension"))
		result.PutInt(len(cw.sourceDebugExtension))
		result.PutByteArray(cw.sourceDebugExtension, 0, len(cw.sourceDebugExtension))
	}
	if cw.enclosingClassIndex != 0 {
		result.PutShort(cw.symbolTable.AddUtf8("EnclosingMethod"))
		result.PutInt(4)
		result.PutShort(cw.enclosingClassIndex)
		result.PutShort(cw.enclosingMethodIndex)
	}
	if (cw.accessFlags & opcodes.ACC_DEPRECATED) != 0 {
		result.PutShort(cw.symbolTable.AddUtf8("Deprecated"))
		result.PutInt(0)
	}
	if (cw.accessFlags & opcodes.ACC_SYNTHETIC) != 0 {
		result.PutShort(cw.symbolTable.AddUtf8("Synthetic"))
		result.PutInt(0)
	}
	if cw.innerClasses != nil {
		result.PutShort(cw.symbolTable.AddUtf8("InnerClasses"))
		result.PutInt(2 + cw.innerClasses.Len())
		result.PutShort(cw.numInnerClasses)
		result.PutByteVector(cw.innerClasses)
	}
	if cw.moduleWriter != nil {
		cw.moduleWriter.put(cw.symbolTable, result)
	}
	if cw.bootstrapMethods != nil {
		result.PutShort(cw.symbolTable.AddUtf8("BootstrapMethods"))
		result.PutInt(2 + cw.bootstrapMethods.Len())
		result.PutShort(cw.numBootstrapMethods)
		result.PutByteVector(cw.bootstrapMethods)
	}
	if cw.numVisibleAnnotations > 0 {
		result.PutShort(cw.symbolTable.AddUtf8("RuntimeVisibleAnnotations"))
		result.PutInt(computeAnnotationsSize(cw.lastRuntimeVisibleAnnotation))
		putAnnotations(cw.numVisibleAnnotations, cw.lastRuntimeVisibleAnnotation, result)
	}
	if cw.numInvisibleAnnotations > 0 {
		result.PutShort(cw.symbolTable.AddUtf8("RuntimeInvisibleAnnotations"))
		result.PutInt(computeAnnotationsSize(cw.lastRuntimeInvisibleAnnotation))
		putAnnotations(cw.numInvisibleAnnotations, cw.lastRuntimeInvisibleAnnotation, result)
	}
	if cw.numVisibleTypeAnnotations > 0 {
		result.PutShort(cw.symbolTable.AddUtf8("RuntimeVisibleTypeAnnotations"))
		result.PutInt(computeAnnotationsSize(cw.lastRuntimeVisibleTypeAnnotation))
		putAnnotations(cw.numVisibleTypeAnnotations, cw.lastRuntimeVisibleTypeAnnotation, result)
	}
	if cw.numInvisibleTypeAnnotations > 0 {
		result.PutShort(cw.symbolTable.AddUtf8("RuntimeInvisibleTypeAnnotations"))
		result.PutInt(computeAnnotationsSize(cw.lastRuntimeInvisibleTypeAnnotation))
		putAnnotations(cw.numInvisibleTypeAnnotations, cw.lastRuntimeInvisibleTypeAnnotation, result)
	}
	if cw.firstAttribute != nil {
		cw.firstAttribute.putAttributes(cw.symbolTable, result)
	}

	return result.Bytes(), nil
}
