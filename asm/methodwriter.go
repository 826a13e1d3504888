package asm

import (
	"math"
	"strings"

	"github.com/sumimakito/asm/asm/constants"
	"github.com/sumimakito/asm/asm/opcodes"
	"github.com/sumimakito/asm/asm/symbol"
	"github.com/sumimakito/asm/asm/typed"
)

// tryCatchBlock records one VisitTryCatchBlock call. The handler edges it
// contributes to the control-flow graph can only be added once every basic
// block between start and end has been visited, so the blocks carrying a
// pending exception edge are resolved lazily in finish().
type tryCatchBlock struct {
	start, end, handler *Label
	typeDescriptor      string
	next                *tryCatchBlock
}

// localVariable records one VisitLocalVariable call, feeding both the
// LocalVariableTable and (when a signature is present) the
// LocalVariableTypeTable.
type localVariable struct {
	name, descriptor, signature string
	start, end                  *Label
	index                       int
	next                        *localVariable
}

// MethodWriter implements MethodVisitor by accumulating a method_info
// structure (JVMS 4.6) to be emitted by ClassWriter.ToByteArray. Depending
// on the ClassWriter's compute flags it also derives max_stack/max_locals
// (COMPUTE_MAXS) and the StackMapTable attribute (COMPUTE_FRAMES) itself,
// by replaying every instruction through the frame engine as it is
// visited and, once the method is complete, propagating frames across the
// control-flow graph built from labels and edges.
type MethodWriter struct {
	classWriter *ClassWriter
	next        *MethodWriter

	compute int

	accessFlags     int
	name            string
	descriptor      string
	nameIndex       int
	descriptorIndex int
	signatureIndex  int
	exceptions      []int

	numParameters int
	parameters    *ByteVector

	annotationDefault *ByteVector

	lastRuntimeVisibleAnnotation       *AnnotationWriter
	numVisibleAnnotations             int
	lastRuntimeInvisibleAnnotation     *AnnotationWriter
	numInvisibleAnnotations            int
	lastRuntimeVisibleTypeAnnotation   *AnnotationWriter
	numVisibleTypeAnnotations          int
	lastRuntimeInvisibleTypeAnnotation *AnnotationWriter
	numInvisibleTypeAnnotations        int

	visibleAnnotableParameterCount   int
	lastVisibleParameterAnnotations  []*AnnotationWriter
	numVisibleParameterAnnotations   []int
	invisibleAnnotableParameterCount int
	lastInvisibleParameterAnnotations []*AnnotationWriter
	numInvisibleParameterAnnotations   []int

	firstAttribute *Attribute

	// Code body state, nil until VisitCode is called (abstract/native
	// methods never allocate it).
	code *ByteVector
	err  error

	lastInsnOffset int

	firstBasicBlock, lastBasicBlock, currentBasicBlock *Label
	frame                                               *Frame
	fallthroughBroken                                   bool
	needsWiden                                           bool

	// allLabels records every label passed to VisitLabel, in visit order,
	// regardless of compute mode — the resize pass walks this list to
	// relocate every resolved label once instruction lengths change,
	// independently of the nextBasicBlock chain (which stays empty when
	// neither COMPUTE_MAXS nor COMPUTE_FRAMES is set).
	allLabels []*Label

	// branchTargets pairs each short-form jump/conditional instruction's
	// opcode offset with the label it targets, recorded as instructions
	// are visited so the resize pass can recover a real target even after
	// its operand has been pseudo-tagged or widened.
	branchTargets []branchTarget

	// insnAnnotationPatches remembers where a VisitInsnAnnotation buffer
	// baked in an instruction offset, so the resize pass can correct it
	// after a round shifts that instruction.
	insnAnnotationPatches []insnAnnotationPatch

	// localVarAnnotationPatches remembers where a VisitLocalVariableAnnotation
	// buffer baked in a (start, length) pair derived from two labels, so
	// the final offsets can be re-read and patched once every label has
	// settled at its post-resize position.
	localVarAnnotationPatches []localVarAnnotationPatch

	// newInstructionSites tracks the type-table index and current bytecode
	// offset of every NEW instruction visited under frame computation, so
	// the resize pass can keep the UNINITIALIZED verification_type_info's
	// recorded allocation-site offset in sync.
	newInstructionSites []newInstructionSite

	maxLocalsSeen     int
	providedMaxStack  int
	providedMaxLocals int
	maxStack          int
	maxLocals         int

	firstTryCatchBlock, lastTryCatchBlock *tryCatchBlock
	numTryCatchBlocks                     int
	lastTryCatchBlockIndex                int

	firstLocalVariable, lastLocalVariable *localVariable
	numLocalVariables                     int

	lineNumberTable          *ByteVector
	numLineNumberTableEntries int

	lastCodeRuntimeVisibleTypeAnnotation   *AnnotationWriter
	numCodeVisibleTypeAnnotations           int
	lastCodeRuntimeInvisibleTypeAnnotation *AnnotationWriter
	numCodeInvisibleTypeAnnotations         int

	// explicitFrames holds one entry per user-supplied VisitFrame call
	// (compute&COMPUTE_FRAMES == 0), in the caller's own compact or full
	// form, verification types left unserialized until buildCodeAttribute
	// runs (after any resize has settled every Label's final offset).
	explicitFrames []*explicitFrame

	cachedCode *ByteVector
}

// NewMethodWriter interns the method's name/descriptor/signature/thrown
// exceptions and returns a writer ready to accept the visitor calls that
// follow a ClassVisitor.VisitMethod.
func NewMethodWriter(cw *ClassWriter, access int, name, descriptor, signature string, exceptions []string) *MethodWriter {
	mw := &MethodWriter{
		classWriter:     cw,
		compute:         cw.compute,
		accessFlags:     access,
		name:            name,
		descriptor:      descriptor,
		nameIndex:       cw.symbolTable.AddUtf8(name),
		descriptorIndex: cw.symbolTable.AddUtf8(descriptor),
	}
	if signature != "" {
		mw.signatureIndex = cw.symbolTable.AddUtf8(signature)
	}
	if len(exceptions) > 0 {
		mw.exceptions = make([]int, len(exceptions))
		for i, e := range exceptions {
			mw.exceptions[i] = cw.symbolTable.AddClass(e)
		}
	}
	return mw
}

func (mw *MethodWriter) symbolTable() *symbol.Table {
	return mw.classWriter.symbolTable
}

func (mw *MethodWriter) computeMaxs() bool {
	return mw.compute&(COMPUTE_MAXS|COMPUTE_FRAMES) != 0
}

func (mw *MethodWriter) computeFrames() bool {
	return mw.compute&COMPUTE_FRAMES != 0
}

func (mw *MethodWriter) fail(err error) {
	if err != nil && mw.err == nil {
		mw.err = err
	}
}

func (mw *MethodWriter) noteLocal(index, size int) {
	if index+size > mw.maxLocalsSeen {
		mw.maxLocalsSeen = index + size
	}
}

// -- header / method-level metadata -----------------------------------

func (mw *MethodWriter) VisitParameter(name string, access int) {
	if mw.parameters == nil {
		mw.parameters = NewByteVector(16)
	}
	mw.numParameters++
	nameIndex := 0
	if name != "" {
		nameIndex = mw.symbolTable().AddUtf8(name)
	}
	mw.parameters.PutShort(nameIndex)
	mw.parameters.PutShort(access)
}

func (mw *MethodWriter) VisitAnnotationDefault() AnnotationVisitor {
	mw.annotationDefault = NewByteVector(32)
	return newHeaderlessAnnotationWriter(mw.symbolTable(), mw.annotationDefault)
}

func (mw *MethodWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	buffer := NewByteVector(64)
	buffer.PutShort(mw.symbolTable().AddUtf8(descriptor))
	if visible {
		mw.numVisibleAnnotations++
		w := NewAnnotationWriter(mw.symbolTable(), true, buffer, mw.lastRuntimeVisibleAnnotation)
		mw.lastRuntimeVisibleAnnotation = w
		return w
	}
	mw.numInvisibleAnnotations++
	w := NewAnnotationWriter(mw.symbolTable(), true, buffer, mw.lastRuntimeInvisibleAnnotation)
	mw.lastRuntimeInvisibleAnnotation = w
	return w
}

func (mw *MethodWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	buffer := NewByteVector(64)
	buffer.PutInt(typeRef)
	PutTypePath(typePath, buffer)
	buffer.PutShort(mw.symbolTable().AddUtf8(descriptor))
	if visible {
		mw.numVisibleTypeAnnotations++
		w := NewAnnotationWriter(mw.symbolTable(), true, buffer, mw.lastRuntimeVisibleTypeAnnotation)
		mw.lastRuntimeVisibleTypeAnnotation = w
		return w
	}
	mw.numInvisibleTypeAnnotations++
	w := NewAnnotationWriter(mw.symbolTable(), true, buffer, mw.lastRuntimeInvisibleTypeAnnotation)
	mw.lastRuntimeInvisibleTypeAnnotation = w
	return w
}

func (mw *MethodWriter) VisitAnnotableParameterCount(parameterCount int, visible bool) {
	if visible {
		mw.visibleAnnotableParameterCount = parameterCount
	} else {
		mw.invisibleAnnotableParameterCount = parameterCount
	}
}

func (mw *MethodWriter) VisitParameterAnnotation(parameter int, descriptor string, visible bool) AnnotationVisitor {
	buffer := NewByteVector(32)
	buffer.PutShort(mw.symbolTable().AddUtf8(descriptor))
	if visible {
		if mw.lastVisibleParameterAnnotations == nil {
			mw.lastVisibleParameterAnnotations = make([]*AnnotationWriter, parameter+1)
			mw.numVisibleParameterAnnotations = make([]int, parameter+1)
		}
		mw.growParameterAnnotationSlices(&mw.lastVisibleParameterAnnotations, &mw.numVisibleParameterAnnotations, parameter)
		mw.numVisibleParameterAnnotations[parameter]++
		w := NewAnnotationWriter(mw.symbolTable(), true, buffer, mw.lastVisibleParameterAnnotations[parameter])
		mw.lastVisibleParameterAnnotations[parameter] = w
		return w
	}
	if mw.lastInvisibleParameterAnnotations == nil {
		mw.lastInvisibleParameterAnnotations = make([]*AnnotationWriter, parameter+1)
		mw.numInvisibleParameterAnnotations = make([]int, parameter+1)
	}
	mw.growParameterAnnotationSlices(&mw.lastInvisibleParameterAnnotations, &mw.numInvisibleParameterAnnotations, parameter)
	mw.numInvisibleParameterAnnotations[parameter]++
	w := NewAnnotationWriter(mw.symbolTable(), true, buffer, mw.lastInvisibleParameterAnnotations[parameter])
	mw.lastInvisibleParameterAnnotations[parameter] = w
	return w
}

func (mw *MethodWriter) growParameterAnnotationSlices(writers *[]*AnnotationWriter, counts *[]int, parameter int) {
	if parameter < len(*writers) {
		return
	}
	grownWriters := make([]*AnnotationWriter, parameter+1)
	copy(grownWriters, *writers)
	*writers = grownWriters
	grownCounts := make([]int, parameter+1)
	copy(grownCounts, *counts)
	*counts = grownCounts
}

func (mw *MethodWriter) VisitAttribute(attribute *Attribute) {
	attribute.nextAttribute = mw.firstAttribute
	mw.firstAttribute = attribute
}

// -- code body ----------------------------------------------------------

func (mw *MethodWriter) VisitCode() {
	mw.code = NewByteVector(64)
	if !mw.computeMaxs() {
		return
	}
	entry := &Label{flags: FLAG_RESOLVED, bytecodeOffset: 0}
	entry.frame = NewFrame(entry)
	entry.frame.SetInputFrameFromDescriptor(mw.symbolTable(), mw.accessFlags, mw.classWriter.className, mw.descriptor, mw.name == "<init>")
	mw.firstBasicBlock = entry
	mw.lastBasicBlock = entry
	mw.currentBasicBlock = entry
	mw.frame = entry.frame
	mw.maxLocalsSeen = len(entry.frame.inputLocals)
}

func ensureFrame(computeMaxs bool, label *Label) {
	if computeMaxs && label.frame == nil {
		label.frame = NewFrame(label)
	}
}

func (mw *MethodWriter) addEdgeFrom(from, target *Label, kind, catchTypeIndex int) {
	if !mw.computeMaxs() {
		return
	}
	var edge *Edge
	switch kind {
	case EDGE_JSR:
		edge = NewJsrEdge(target, from.outgoingEdges)
	case EDGE_HANDLER:
		edge = NewHandlerEdge(catchTypeIndex, target, from.outgoingEdges)
	default:
		edge = NewNormalEdge(target, from.outgoingEdges)
	}
	from.outgoingEdges = edge
}

func (mw *MethodWriter) addEdgeTo(target *Label, kind, catchTypeIndex int) {
	if !mw.computeMaxs() {
		return
	}
	ensureFrame(true, target)
	mw.addEdgeFrom(mw.currentBasicBlock, target, kind, catchTypeIndex)
}

func (mw *MethodWriter) beginBlock(label *Label) {
	if !mw.computeMaxs() {
		return
	}
	if mw.currentBasicBlock != nil && !mw.fallthroughBroken {
		mw.addEdgeTo(label, EDGE_NORMAL, -1)
	}
	ensureFrame(true, label)
	mw.lastBasicBlock.nextBasicBlock = label
	mw.lastBasicBlock = label
	mw.currentBasicBlock = label
	mw.frame = label.frame
	mw.fallthroughBroken = false
}

func (mw *MethodWriter) VisitFrame(typed, nLocal int, local interface{}, nStack int, stack interface{}) {
	if mw.computeFrames() {
		return
	}
	locals, _ := local.([]interface{})
	stacks, _ := stack.([]interface{})
	for _, v := range locals {
		if !isValidVerificationType(v) {
			mw.fail(newEmitError(ErrUnsupportedConstruct, "MethodWriter.VisitFrame", -1))
		}
	}
	for _, v := range stacks {
		if !isValidVerificationType(v) {
			mw.fail(newEmitError(ErrUnsupportedConstruct, "MethodWriter.VisitFrame", -1))
		}
	}
	mw.explicitFrames = append(mw.explicitFrames, &explicitFrame{
		offset: mw.code.Len(),
		typed:  typed,
		locals: locals,
		stack:  stacks,
	})
}

func isValidVerificationType(v interface{}) bool {
	switch v.(type) {
	case int, string, *Label:
		return true
	default:
		return false
	}
}

func writeVerificationType(output *ByteVector, symbolTable *symbol.Table, v interface{}) error {
	switch t := v.(type) {
	case int:
		output.PutByte(t)
	case string:
		output.PutByte(opcodes.NULL + 2) // 7: Object
		output.PutShort(symbolTable.AddClass(t))
	case *Label:
		output.PutByte(opcodes.NULL + 3) // 8: Uninitialized
		offset, err := t.getOffset()
		if err != nil {
			return err
		}
		output.PutShort(offset)
	default:
		return newEmitError(ErrUnsupportedConstruct, "MethodWriter.VisitFrame", -1)
	}
	return nil
}

func (mw *MethodWriter) VisitInsn(opcode int) {
	mw.lastInsnOffset = mw.code.Len()
	if mw.frame != nil {
		if err := mw.frame.ExecuteSimple(opcode); err != nil {
			mw.fail(err)
		}
	}
	mw.code.PutByte(opcode)
	switch opcode {
	case opcodes.IRETURN, opcodes.LRETURN, opcodes.FRETURN, opcodes.DRETURN, opcodes.ARETURN, opcodes.RETURN, opcodes.ATHROW:
		mw.fallthroughBroken = true
	}
}

func (mw *MethodWriter) VisitIntInsn(opcode, operand int) {
	mw.lastInsnOffset = mw.code.Len()
	if mw.frame != nil {
		if err := mw.frame.ExecuteIntInsn(opcode, operand); err != nil {
			mw.fail(err)
		}
	}
	if opcode == opcodes.SIPUSH {
		mw.code.Put12(opcode, operand)
	} else {
		mw.code.Put11(opcode, operand)
	}
}

func (mw *MethodWriter) VisitVarInsn(opcode, vard int) {
	mw.lastInsnOffset = mw.code.Len()
	size := 1
	if opcode == opcodes.LLOAD || opcode == opcodes.DLOAD || opcode == opcodes.LSTORE || opcode == opcodes.DSTORE {
		size = 2
	}
	mw.noteLocal(vard, size)
	if opcode == opcodes.RET {
		if mw.computeFrames() {
			mw.fail(newEmitError(ErrUnsupportedConstruct, "MethodWriter.VisitVarInsn", mw.lastInsnOffset))
		}
		mw.fallthroughBroken = true
	} else if mw.frame != nil {
		if err := mw.frame.ExecuteVarInsn(opcode, vard); err != nil {
			mw.fail(err)
		}
	}
	if vard > 255 {
		mw.code.PutByte(constants.WIDE)
		mw.code.PutByte(opcode)
		mw.code.PutShort(vard)
	} else {
		mw.code.Put11(opcode, vard)
	}
}

func (mw *MethodWriter) VisitTypeInsn(opcode int, typed string) {
	mw.lastInsnOffset = mw.code.Len()
	symbolTable := mw.symbolTable()
	if mw.frame != nil {
		idx, err := mw.frame.ExecuteTypeInsn(opcode, typed, mw.lastInsnOffset, symbolTable)
		if err != nil {
			mw.fail(err)
		}
		if opcode == opcodes.NEW {
			mw.newInstructionSites = append(mw.newInstructionSites, newInstructionSite{idx: idx, oldOffset: mw.lastInsnOffset})
		}
	}
	mw.code.Put12(opcode, symbolTable.AddClass(typed))
}

func (mw *MethodWriter) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	mw.lastInsnOffset = mw.code.Len()
	symbolTable := mw.symbolTable()
	if mw.frame != nil {
		if err := mw.frame.ExecuteFieldInsn(opcode, descriptor, symbolTable); err != nil {
			mw.fail(err)
		}
	}
	mw.code.Put12(opcode, symbolTable.AddFieldref(owner, name, descriptor))
}

func (mw *MethodWriter) VisitMethodInsn(opcode int, owner, name, descriptor string) {
	mw.VisitMethodInsnB(opcode, owner, name, descriptor, opcode == opcodes.INVOKEINTERFACE)
}

func (mw *MethodWriter) VisitMethodInsnB(opcode int, owner, name, descriptor string, isInterface bool) {
	mw.lastInsnOffset = mw.code.Len()
	symbolTable := mw.symbolTable()
	if mw.frame != nil {
		if err := mw.frame.ExecuteMethodInsn(opcode, name, descriptor, symbolTable); err != nil {
			mw.fail(err)
		}
	}
	index := symbolTable.AddMethodref(owner, name, descriptor, isInterface)
	if opcode == opcodes.INVOKEINTERFACE {
		count := ArgumentsAndReturnSizes(descriptor) >> 2
		mw.code.PutByte(opcode)
		mw.code.PutShort(index)
		mw.code.PutByte(count)
		mw.code.PutByte(0)
	} else {
		mw.code.Put12(opcode, index)
	}
}

func (mw *MethodWriter) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *Handle, bootstrapMethodArguments ...interface{}) {
	mw.lastInsnOffset = mw.code.Len()
	symbolTable := mw.symbolTable()
	if mw.frame != nil {
		mw.frame.ExecuteInvokeDynamicInsn(descriptor, symbolTable)
	}
	bsmIndex := mw.classWriter.addBootstrapMethod(bootstrapMethodHandle, bootstrapMethodArguments)
	cpIndex := symbolTable.AddInvokeDynamic(bsmIndex, name, descriptor)
	mw.code.PutByte(opcodes.INVOKEDYNAMIC)
	mw.code.PutShort(cpIndex)
	mw.code.PutShort(0)
}

func (mw *MethodWriter) VisitJumpInsn(opcode int, label *Label) {
	mw.lastInsnOffset = mw.code.Len()
	if mw.frame != nil {
		if opcode == opcodes.JSR {
			if mw.computeFrames() {
				mw.fail(newEmitError(ErrUnsupportedConstruct, "MethodWriter.VisitJumpInsn", mw.lastInsnOffset))
			} else {
				mw.frame.push(INTEGER)
			}
		} else if err := mw.frame.ExecuteJumpInsn(opcode); err != nil {
			mw.fail(err)
		}
	}
	source := mw.lastInsnOffset
	mw.branchTargets = append(mw.branchTargets, branchTarget{source: source, target: label})
	mw.code.PutByte(opcode)
	if label.put(mw.code, source, false) {
		mw.needsWiden = true
	}
	if opcode == opcodes.JSR {
		mw.addEdgeTo(label, EDGE_JSR, -1)
	} else {
		mw.addEdgeTo(label, EDGE_NORMAL, -1)
		if opcode == opcodes.GOTO {
			mw.fallthroughBroken = true
		}
	}
}

func (mw *MethodWriter) VisitLabel(label *Label) {
	mw.allLabels = append(mw.allLabels, label)
	mw.beginBlock(label)
	if label.resolve(mw.code, mw.code.Len()) {
		mw.needsWiden = true
	}
}

func (mw *MethodWriter) VisitLdcInsn(value interface{}) {
	mw.lastInsnOffset = mw.code.Len()
	symbolTable := mw.symbolTable()
	var index int
	wide := false
	switch v := value.(type) {
	case int32:
		index = symbolTable.AddInteger(v)
	case int:
		index = symbolTable.AddInteger(int32(v))
	case float32:
		index = symbolTable.AddFloat(math.Float32bits(v))
	case int64:
		index = symbolTable.AddLong(v)
		wide = true
	case float64:
		index = symbolTable.AddDouble(math.Float64bits(v))
		wide = true
	case string:
		index = symbolTable.AddConstantString(v)
	case Type:
		switch v.Sort() {
		case typed.METHOD:
			index = symbolTable.AddMethodType(v.Descriptor())
		case typed.ARRAY:
			index = symbolTable.AddClass(v.Descriptor())
		default:
			index = symbolTable.AddClass(v.InternalName())
		}
	case *Handle:
		index = symbolTable.AddMethodHandle(v.Tag(), v.Owner(), v.Name(), v.Descriptor(), v.IsInterface())
	default:
		mw.fail(newEmitError(ErrUnsupportedConstruct, "MethodWriter.VisitLdcInsn", mw.lastInsnOffset))
		return
	}
	if mw.frame != nil {
		if err := mw.frame.ExecuteLdcInsn(value, symbolTable); err != nil {
			mw.fail(err)
		}
	}
	switch {
	case wide:
		mw.code.Put12(constants.LDC2_W, index)
	case index > 255:
		mw.code.Put12(constants.LDC_W, index)
	default:
		mw.code.Put11(opcodes.LDC, index)
	}
}

func (mw *MethodWriter) VisitIincInsn(vard, increment int) {
	mw.lastInsnOffset = mw.code.Len()
	mw.noteLocal(vard, 1)
	if mw.frame != nil {
		mw.frame.ExecuteIincInsn(vard)
	}
	if vard > 255 || increment > 127 || increment < -128 {
		mw.code.PutByte(constants.WIDE)
		mw.code.PutByte(opcodes.IINC)
		mw.code.PutShort(vard)
		mw.code.PutShort(increment)
	} else {
		mw.code.PutByte(opcodes.IINC)
		mw.code.PutByte(vard)
		mw.code.PutByte(increment)
	}
}

func (mw *MethodWriter) VisitTableSwitchInsn(min, max int, dflt *Label, labels ...*Label) {
	mw.lastInsnOffset = mw.code.Len()
	if mw.frame != nil {
		mw.frame.ExecuteSwitchInsn()
	}
	source := mw.lastInsnOffset
	mw.code.PutByte(opcodes.TABLESWITCH)
	for mw.code.Len()%4 != 0 {
		mw.code.PutByte(0)
	}
	if dflt.put(mw.code, source, true) {
		mw.needsWiden = true
	}
	mw.code.PutInt(min)
	mw.code.PutInt(max)
	for _, l := range labels {
		if l.put(mw.code, source, true) {
			mw.needsWiden = true
		}
	}
	mw.addEdgeTo(dflt, EDGE_NORMAL, -1)
	for _, l := range labels {
		mw.addEdgeTo(l, EDGE_NORMAL, -1)
	}
	mw.fallthroughBroken = true
}

func (mw *MethodWriter) VisitLookupSwitchInsn(dflt *Label, keys []int, labels []*Label) {
	mw.lastInsnOffset = mw.code.Len()
	if mw.frame != nil {
		mw.frame.ExecuteSwitchInsn()
	}
	source := mw.lastInsnOffset
	mw.code.PutByte(opcodes.LOOKUPSWITCH)
	for mw.code.Len()%4 != 0 {
		mw.code.PutByte(0)
	}
	if dflt.put(mw.code, source, true) {
		mw.needsWiden = true
	}
	mw.code.PutInt(len(keys))
	for i, k := range keys {
		mw.code.PutInt(k)
		if labels[i].put(mw.code, source, true) {
			mw.needsWiden = true
		}
	}
	mw.addEdgeTo(dflt, EDGE_NORMAL, -1)
	for _, l := range labels {
		mw.addEdgeTo(l, EDGE_NORMAL, -1)
	}
	mw.fallthroughBroken = true
}

func (mw *MethodWriter) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	mw.lastInsnOffset = mw.code.Len()
	symbolTable := mw.symbolTable()
	if mw.frame != nil {
		mw.frame.ExecuteMultiANewArrayInsn(descriptor, numDimensions, symbolTable)
	}
	mw.code.PutByte(opcodes.MULTIANEWARRAY)
	mw.code.PutShort(symbolTable.AddClass(descriptor))
	mw.code.PutByte(numDimensions)
}

func (mw *MethodWriter) addCodeTypeAnnotation(buffer *ByteVector, visible bool) AnnotationVisitor {
	if visible {
		mw.numCodeVisibleTypeAnnotations++
		w := NewAnnotationWriter(mw.symbolTable(), true, buffer, mw.lastCodeRuntimeVisibleTypeAnnotation)
		mw.lastCodeRuntimeVisibleTypeAnnotation = w
		return w
	}
	mw.numCodeInvisibleTypeAnnotations++
	w := NewAnnotationWriter(mw.symbolTable(), true, buffer, mw.lastCodeRuntimeInvisibleTypeAnnotation)
	mw.lastCodeRuntimeInvisibleTypeAnnotation = w
	return w
}

func (mw *MethodWriter) VisitInsnAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	targetType := (typeRef >> 24) & 0xFF
	buffer := NewByteVector(64)
	buffer.PutByte(targetType)
	buffer.PutShort(mw.lastInsnOffset)
	mw.insnAnnotationPatches = append(mw.insnAnnotationPatches, insnAnnotationPatch{buffer: buffer, oldOffset: mw.lastInsnOffset})
	switch targetType {
	case CAST, CONSTRUCTOR_INVOCATION_TYPE_ARGUMENT, METHOD_INVOCATION_TYPE_ARGUMENT,
		CONSTRUCTOR_REFERENCE_TYPE_ARGUMENT, METHOD_REFERENCE_TYPE_ARGUMENT:
		buffer.PutByte(typeRef & 0xFF)
	}
	PutTypePath(typePath, buffer)
	buffer.PutShort(mw.symbolTable().AddUtf8(descriptor))
	return mw.addCodeTypeAnnotation(buffer, visible)
}

func (mw *MethodWriter) VisitTryCatchBlock(start, end, handler *Label, typed string) {
	block := &tryCatchBlock{start: start, end: end, handler: handler, typeDescriptor: typed}
	if mw.lastTryCatchBlock == nil {
		mw.firstTryCatchBlock = block
	} else {
		mw.lastTryCatchBlock.next = block
	}
	mw.lastTryCatchBlock = block
	mw.numTryCatchBlocks++
}

func (mw *MethodWriter) VisitTryCatchAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	buffer := NewByteVector(32)
	buffer.PutByte(EXCEPTION_PARAMETER)
	buffer.PutShort(mw.lastTryCatchBlockIndex)
	PutTypePath(typePath, buffer)
	buffer.PutShort(mw.symbolTable().AddUtf8(descriptor))
	return mw.addCodeTypeAnnotation(buffer, visible)
}

func (mw *MethodWriter) VisitLocalVariable(name, descriptor, signature string, start, end *Label, index int) {
	lv := &localVariable{name: name, descriptor: descriptor, signature: signature, start: start, end: end, index: index}
	if mw.lastLocalVariable == nil {
		mw.firstLocalVariable = lv
	} else {
		mw.lastLocalVariable.next = lv
	}
	mw.lastLocalVariable = lv
	mw.numLocalVariables++
}

func (mw *MethodWriter) VisitLocalVariableAnnotation(typeRef int, typePath *TypePath, start, end []*Label, index []int, descriptor string, visible bool) AnnotationVisitor {
	targetType := (typeRef >> 24) & 0xFF
	buffer := NewByteVector(64)
	buffer.PutByte(targetType)
	buffer.PutShort(len(start))
	for i := range start {
		position := buffer.Len()
		startOffset, _ := start[i].getOffset()
		endOffset, _ := end[i].getOffset()
		buffer.PutShort(startOffset)
		buffer.PutShort(endOffset - startOffset)
		buffer.PutShort(index[i])
		mw.localVarAnnotationPatches = append(mw.localVarAnnotationPatches, localVarAnnotationPatch{buffer: buffer, position: position, start: start[i], end: end[i]})
	}
	PutTypePath(typePath, buffer)
	buffer.PutShort(mw.symbolTable().AddUtf8(descriptor))
	return mw.addCodeTypeAnnotation(buffer, visible)
}

func (mw *MethodWriter) VisitLineNumber(line int, start *Label) {
	if mw.lineNumberTable == nil {
		mw.lineNumberTable = NewByteVector(16)
	}
	startOffset, _ := start.getOffset()
	mw.lineNumberTable.PutShort(startOffset)
	mw.lineNumberTable.PutShort(line)
	mw.numLineNumberTableEntries++
}

func (mw *MethodWriter) VisitMaxs(maxStack, maxLocals int) {
	mw.providedMaxStack = maxStack
	mw.providedMaxLocals = maxLocals
}

func (mw *MethodWriter) VisitEnd() {}

// -- control-flow bookkeeping shared between cheap and expensive modes --

// computeMaxStackMaxLocals propagates each block's relative stack height
// across the control-flow graph with a worklist fixpoint, independent of
// any type information: only sizes matter for max_stack, so this same
// pass serves both COMPUTE_MAXS and COMPUTE_FRAMES.
func (mw *MethodWriter) computeMaxStackMaxLocals() (int, int) {
	maxLocals := mw.maxLocalsSeen
	if mw.firstBasicBlock == nil || mw.firstBasicBlock.frame == nil {
		return 0, maxLocals
	}
	entry := mw.firstBasicBlock
	height := map[*Label]int{entry: 0}
	maxStack := entry.frame.PeakRelativeStackSize()
	queue := []*Label{entry}
	entry.nextListElement = entry
	for len(queue) > 0 {
		label := queue[0]
		queue = queue[1:]
		label.nextListElement = nil
		h := height[label]
		for e := label.outgoingEdges; e != nil; e = e.nextEdge {
			succHeight := h + label.frame.RelativeOutputStackSize()
			if e.kind == EDGE_HANDLER {
				succHeight = 1
			}
			succ := e.successor
			if cur, ok := height[succ]; !ok || succHeight > cur {
				height[succ] = succHeight
				if succ.frame != nil {
					if peak := succHeight + succ.frame.PeakRelativeStackSize(); peak > maxStack {
						maxStack = peak
					}
				}
				if succ.nextListElement == nil {
					succ.nextListElement = succ
					queue = append(queue, succ)
				}
			}
		}
	}
	if maxStack < 1 {
		maxStack = 1
	}
	if maxLocals < 1 {
		maxLocals = 1
	}
	return maxStack, maxLocals
}

// runFramesFixpoint merges each block's output frame into every successor
// until no successor's input frame changes, giving every basic block its
// final, fully resolved input frame (COMPUTE_FRAMES only).
func (mw *MethodWriter) runFramesFixpoint() error {
	entry := mw.firstBasicBlock
	if entry == nil {
		return nil
	}
	symbolTable := mw.symbolTable()
	queue := []*Label{entry}
	entry.nextListElement = entry
	for len(queue) > 0 {
		label := queue[0]
		queue = queue[1:]
		label.nextListElement = nil
		for e := label.outgoingEdges; e != nil; e = e.nextEdge {
			catchTypeIndex := -1
			if e.kind == EDGE_HANDLER && e.info != EXCEPTION {
				catchTypeIndex = e.info
			}
			changed, err := e.successor.frame.Merge(symbolTable, label.frame, mw.classWriter.className, e.kind, catchTypeIndex)
			if err != nil {
				return err
			}
			if changed && e.successor.nextListElement == nil {
				e.successor.nextListElement = e.successor
				queue = append(queue, e.successor)
			}
		}
	}
	return nil
}

// -- try/catch edge resolution and finish -------------------------------

func (mw *MethodWriter) resolveTryCatchEdges() {
	if !mw.computeMaxs() {
		return
	}
	index := 0
	for tcb := mw.firstTryCatchBlock; tcb != nil; tcb = tcb.next {
		mw.lastTryCatchBlockIndex = index
		index++
		startOffset, err := tcb.start.getOffset()
		if err != nil {
			continue
		}
		endOffset, err := tcb.end.getOffset()
		if err != nil {
			continue
		}
		catchTypeIndex := -1
		if tcb.typeDescriptor != "" {
			catchTypeIndex = mw.symbolTable().AddType(tcb.typeDescriptor)
		}
		ensureFrame(true, tcb.handler)
		for block := mw.firstBasicBlock; block != nil; block = block.nextBasicBlock {
			offset, err := block.getOffset()
			if err != nil || offset < startOffset || offset >= endOffset {
				continue
			}
			mw.addEdgeFrom(block, tcb.handler, EDGE_HANDLER, catchTypeIndex)
		}
	}
}

// finish completes the method body once every instruction has been
// visited: it wires up the exception-handler edges (which could not be
// attached earlier, since visitTryCatchBlock happens before its labels are
// visited), then derives max_stack/max_locals and, for COMPUTE_FRAMES, the
// full per-block type information.
func (mw *MethodWriter) finish() error {
	if mw.err != nil {
		return mw.err
	}
	if mw.code == nil {
		return nil
	}
	for _, bt := range mw.branchTargets {
		if bt.target.flags&FLAG_RESOLVED == 0 {
			return newEmitError(ErrUnresolvedLabel, mw.name, bt.source)
		}
	}
	mw.resolveTryCatchEdges()
	if mw.computeMaxs() {
		if mw.computeFrames() {
			if err := mw.runFramesFixpoint(); err != nil {
				return err
			}
		}
		mw.maxStack, mw.maxLocals = mw.computeMaxStackMaxLocals()
	} else {
		mw.maxStack = mw.providedMaxStack
		mw.maxLocals = mw.providedMaxLocals
	}
	if err := mw.resizeInstructions(); err != nil {
		return err
	}
	return nil
}

// -- StackMapTable construction ------------------------------------------

func isTwoWordBase(t int) bool {
	return t == LONG || t == DOUBLE
}

// logicalFrameTypes collapses a slot-indexed locals/stack array (where
// LONG/DOUBLE occupy two array slots) into one entry per
// verification_type_info, so consecutive frames can be compared
// elementwise for the minimal-diff StackMapTable encoding of JVMS 4.7.4.
func logicalFrameTypes(types []int) []int {
	out := make([]int, 0, len(types))
	for i := 0; i < len(types); i++ {
		out = append(out, types[i])
		if isTwoWordBase(types[i]) {
			i++
		}
	}
	return out
}

func sameTypes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func arrayTypeDescriptor(symbolTable *symbol.Table, t int) string {
	d := dim(t)
	base := withDim(t, 0)
	var elem string
	switch base {
	case BOOLEAN:
		elem = "Z"
	case BYTE:
		elem = "B"
	case CHAR:
		elem = "C"
	case SHORT:
		elem = "S"
	case INTEGER:
		elem = "I"
	case FLOAT:
		elem = "F"
	case LONG:
		elem = "J"
	case DOUBLE:
		elem = "D"
	default:
		if isObject(base) {
			elem = "L" + symbolTable.TypeInternalName(valueOf(base)&typeTableIndexMask) + ";"
		}
	}
	return strings.Repeat("[", d) + elem
}

func putFrameType(output *ByteVector, symbolTable *symbol.Table, t int) {
	if dim(t) > 0 {
		output.PutByte(7)
		output.PutShort(symbolTable.AddClass(arrayTypeDescriptor(symbolTable, t)))
		return
	}
	switch t {
	case TOP:
		output.PutByte(0)
	case BOOLEAN, BYTE, CHAR, SHORT, INTEGER:
		output.PutByte(1)
	case FLOAT:
		output.PutByte(2)
	case DOUBLE:
		output.PutByte(3)
	case LONG:
		output.PutByte(4)
	case NULL:
		output.PutByte(5)
	case UNINITIALIZED_THIS:
		output.PutByte(6)
	default:
		switch {
		case isUninitialized(t):
			output.PutByte(8)
			output.PutShort(symbolTable.TypeNewOffset(valueOf(t) & typeTableIndexMask))
		case isObject(t):
			output.PutByte(7)
			output.PutShort(symbolTable.AddClass(symbolTable.TypeInternalName(valueOf(t) & typeTableIndexMask)))
		default:
			output.PutByte(0)
		}
	}
}

// putCompactFrame serializes one StackMapTable entry, choosing the
// minimal-diff tag JVMS 4.7.4 allows for the transition from previousLocals
// to locals/stack: SAME, SAME_LOCALS_1_STACK_ITEM, APPEND or CHOP (each in
// their (_EXTENDED) wide-offset form when offsetDelta doesn't fit the
// compact form's bit budget) and FULL_FRAME only when none of those apply.
func putCompactFrame(table *ByteVector, symbolTable *symbol.Table, offsetDelta int, previousLocals, locals, stack []int) {
	switch {
	case len(stack) == 0 && sameTypes(previousLocals, locals):
		if offsetDelta < 64 {
			table.PutByte(offsetDelta)
		} else {
			table.PutByte(251)
			table.PutShort(offsetDelta)
		}
	case len(stack) == 1 && sameTypes(previousLocals, locals):
		if offsetDelta < 64 {
			table.PutByte(64 + offsetDelta)
		} else {
			table.PutByte(247)
			table.PutShort(offsetDelta)
		}
		putFrameType(table, symbolTable, stack[0])
	case len(stack) == 0 && len(locals) > len(previousLocals) && len(locals)-len(previousLocals) <= 3 &&
		sameTypes(previousLocals, locals[:len(previousLocals)]):
		table.PutByte(251 + (len(locals) - len(previousLocals)))
		table.PutShort(offsetDelta)
		for _, t := range locals[len(previousLocals):] {
			putFrameType(table, symbolTable, t)
		}
	case len(stack) == 0 && len(previousLocals) > len(locals) && len(previousLocals)-len(locals) <= 3 &&
		sameTypes(previousLocals[:len(locals)], locals):
		table.PutByte(251 - (len(previousLocals) - len(locals)))
		table.PutShort(offsetDelta)
	default:
		table.PutByte(255)
		table.PutShort(offsetDelta)
		table.PutShort(len(locals))
		for _, t := range locals {
			putFrameType(table, symbolTable, t)
		}
		table.PutShort(len(stack))
		for _, t := range stack {
			putFrameType(table, symbolTable, t)
		}
	}
}

// buildStackMapTable serializes one minimal-diff StackMapTable entry per
// basic block after the entry block, using each block's final, merged
// input frame compared against the previously emitted frame (or, for the
// first entry, the method's implicit initial frame).
func (mw *MethodWriter) buildStackMapTable(symbolTable *symbol.Table) *ByteVector {
	if mw.firstBasicBlock == nil {
		return nil
	}
	table := NewByteVector(64)
	count := 0
	previousOffset := -1
	previousLocals := logicalFrameTypes(mw.firstBasicBlock.frame.inputLocals)
	for label := mw.firstBasicBlock.nextBasicBlock; label != nil; label = label.nextBasicBlock {
		f := label.frame
		offset, err := label.getOffset()
		if err != nil {
			continue
		}
		offsetDelta := offset
		if previousOffset >= 0 {
			offsetDelta = offset - previousOffset - 1
		}
		locals := logicalFrameTypes(f.inputLocals)
		stack := logicalFrameTypes(f.inputStack)
		putCompactFrame(table, symbolTable, offsetDelta, previousLocals, locals, stack)
		previousOffset = offset
		previousLocals = locals
		count++
	}
	if count == 0 {
		return nil
	}
	result := NewByteVector(2 + table.Len())
	result.PutShort(count)
	result.PutByteVector(table)
	return result
}

// buildExplicitStackMapTable re-serializes the frames a caller supplied via
// VisitFrame directly (compute&COMPUTE_FRAMES == 0), preserving the
// caller's own compact/full frame form instead of flattening everything to
// FULL_FRAME.
func (mw *MethodWriter) buildExplicitStackMapTable(symbolTable *symbol.Table) *ByteVector {
	if len(mw.explicitFrames) == 0 {
		return nil
	}
	result := NewByteVector(64)
	result.PutShort(len(mw.explicitFrames))
	previousOffset := -1
	previousLocalCount := 0
	for _, f := range mw.explicitFrames {
		offsetDelta := f.offset
		if previousOffset >= 0 {
			offsetDelta = f.offset - previousOffset - 1
		}
		switch f.typed {
		case opcodes.F_SAME:
			if offsetDelta < 64 {
				result.PutByte(offsetDelta)
			} else {
				result.PutByte(251)
				result.PutShort(offsetDelta)
			}
		case opcodes.F_SAME1:
			if offsetDelta < 64 {
				result.PutByte(64 + offsetDelta)
			} else {
				result.PutByte(247)
				result.PutShort(offsetDelta)
			}
			if len(f.stack) > 0 {
				if err := writeVerificationType(result, symbolTable, f.stack[0]); err != nil {
					mw.fail(err)
				}
			}
		case opcodes.F_APPEND:
			delta := len(f.locals) - previousLocalCount
			result.PutByte(251 + delta)
			result.PutShort(offsetDelta)
			for _, v := range f.locals[previousLocalCount:] {
				if err := writeVerificationType(result, symbolTable, v); err != nil {
					mw.fail(err)
				}
			}
			previousLocalCount = len(f.locals)
		case opcodes.F_CHOP:
			delta := previousLocalCount - len(f.locals)
			result.PutByte(251 - delta)
			result.PutShort(offsetDelta)
			previousLocalCount = len(f.locals)
		default: // F_FULL, F_NEW
			result.PutByte(255)
			result.PutShort(offsetDelta)
			result.PutShort(len(f.locals))
			for _, v := range f.locals {
				if err := writeVerificationType(result, symbolTable, v); err != nil {
					mw.fail(err)
				}
			}
			result.PutShort(len(f.stack))
			for _, v := range f.stack {
				if err := writeVerificationType(result, symbolTable, v); err != nil {
					mw.fail(err)
				}
			}
			previousLocalCount = len(f.locals)
		}
		previousOffset = f.offset
	}
	return result
}

// -- LocalVariableTable / LocalVariableTypeTable -------------------------

func (mw *MethodWriter) buildLocalVariableTables(symbolTable *symbol.Table) (*ByteVector, *ByteVector, int) {
	lvt := NewByteVector(mw.numLocalVariables*10 + 8)
	var lvtt *ByteVector
	lvttCount := 0
	for lv := mw.firstLocalVariable; lv != nil; lv = lv.next {
		startOffset, _ := lv.start.getOffset()
		endOffset, _ := lv.end.getOffset()
		lvt.PutShort(startOffset)
		lvt.PutShort(endOffset - startOffset)
		lvt.PutShort(symbolTable.AddUtf8(lv.name))
		lvt.PutShort(symbolTable.AddUtf8(lv.descriptor))
		lvt.PutShort(lv.index)
		if lv.signature != "" {
			if lvtt == nil {
				lvtt = NewByteVector(32)
			}
			lvtt.PutShort(startOffset)
			lvtt.PutShort(endOffset - startOffset)
			lvtt.PutShort(symbolTable.AddUtf8(lv.name))
			lvtt.PutShort(symbolTable.AddUtf8(lv.signature))
			lvtt.PutShort(lv.index)
			lvttCount++
		}
	}
	return lvt, lvtt, lvttCount
}

// -- Code attribute assembly ----------------------------------------------

func (mw *MethodWriter) putExceptionTable(output *ByteVector) {
	output.PutShort(mw.numTryCatchBlocks)
	for tcb := mw.firstTryCatchBlock; tcb != nil; tcb = tcb.next {
		startOffset, _ := tcb.start.getOffset()
		endOffset, _ := tcb.end.getOffset()
		handlerOffset, _ := tcb.handler.getOffset()
		output.PutShort(startOffset)
		output.PutShort(endOffset)
		output.PutShort(handlerOffset)
		catchType := 0
		if tcb.typeDescriptor != "" {
			catchType = mw.symbolTable().AddClass(tcb.typeDescriptor)
		}
		output.PutShort(catchType)
	}
}

// buildCodeAttribute serializes the Code attribute body (everything after
// its u4 attribute_length), memoizing the result since computeSize and put
// both need it.
func (mw *MethodWriter) buildCodeAttribute() *ByteVector {
	if mw.code == nil {
		return nil
	}
	if mw.cachedCode != nil {
		return mw.cachedCode
	}
	symbolTable := mw.symbolTable()
	body := NewByteVector(mw.code.Len() + 64)
	body.PutShort(mw.maxStack)
	body.PutShort(mw.maxLocals)
	body.PutInt(mw.code.Len())
	body.PutByteVector(mw.code)
	mw.putExceptionTable(body)

	var stackMapTable *ByteVector
	if mw.computeFrames() {
		stackMapTable = mw.buildStackMapTable(symbolTable)
	} else {
		stackMapTable = mw.buildExplicitStackMapTable(symbolTable)
	}
	lvt, lvtt, lvttCount := mw.buildLocalVariableTables(symbolTable)

	attributeCount := 0
	if stackMapTable != nil {
		attributeCount++
	}
	if mw.lineNumberTable != nil {
		attributeCount++
	}
	if mw.numLocalVariables > 0 {
		attributeCount++
		if lvttCount > 0 {
			attributeCount++
		}
	}
	if mw.numCodeVisibleTypeAnnotations > 0 {
		attributeCount++
	}
	if mw.numCodeInvisibleTypeAnnotations > 0 {
		attributeCount++
	}

	body.PutShort(attributeCount)
	if stackMapTable != nil {
		body.PutShort(symbolTable.AddUtf8("StackMapTable"))
		body.PutInt(stackMapTable.Len())
		body.PutByteVector(stackMapTable)
	}
	if mw.lineNumberTable != nil {
		body.PutShort(symbolTable.AddUtf8("LineNumberTable"))
		body.PutInt(2 + mw.lineNumberTable.Len())
		body.PutShort(mw.numLineNumberTableEntries)
		body.PutByteVector(mw.lineNumberTable)
	}
	if mw.numLocalVariables > 0 {
		body.PutShort(symbolTable.AddUtf8("LocalVariableTable"))
		body.PutInt(2 + lvt.Len())
		body.PutShort(mw.numLocalVariables)
		body.PutByteVector(lvt)
		if lvttCount > 0 {
			body.PutShort(symbolTable.AddUtf8("LocalVariableTypeTable"))
			body.PutInt(2 + lvtt.Len())
			body.PutShort(lvttCount)
			body.PutByteVector(lvtt)
		}
	}
	if mw.numCodeVisibleTypeAnnotations > 0 {
		body.PutShort(symbolTable.AddUtf8("RuntimeVisibleTypeAnnotations"))
		body.PutInt(computeAnnotationsSize(mw.lastCodeRuntimeVisibleTypeAnnotation))
		putAnnotations(mw.numCodeVisibleTypeAnnotations, mw.lastCodeRuntimeVisibleTypeAnnotation, body)
	}
	if mw.numCodeInvisibleTypeAnnotations > 0 {
		body.PutShort(symbolTable.AddUtf8("RuntimeInvisibleTypeAnnotations"))
		body.PutInt(computeAnnotationsSize(mw.lastCodeRuntimeInvisibleTypeAnnotation))
		putAnnotations(mw.numCodeInvisibleTypeAnnotations, mw.lastCodeRuntimeInvisibleTypeAnnotation, body)
	}

	mw.cachedCode = body
	return body
}

// -- method_info assembly --------------------------------------------------

func (mw *MethodWriter) attributeCount() int {
	count := 0
	if mw.buildCodeAttribute() != nil {
		count++
	}
	if len(mw.exceptions) > 0 {
		count++
	}
	if (mw.accessFlags & opcodes.ACC_SYNTHETIC) != 0 {
		count++
	}
	if (mw.accessFlags & opcodes.ACC_DEPRECATED) != 0 {
		count++
	}
	if mw.signatureIndex != 0 {
		count++
	}
	if mw.parameters != nil {
		count++
	}
	if mw.annotationDefault != nil {
		count++
	}
	if mw.numVisibleAnnotations > 0 {
		count++
	}
	if mw.numInvisibleAnnotations > 0 {
		count++
	}
	if mw.numVisibleTypeAnnotations > 0 {
		count++
	}
	if mw.numInvisibleTypeAnnotations > 0 {
		count++
	}
	if mw.lastVisibleParameterAnnotations != nil {
		count++
	}
	if mw.lastInvisibleParameterAnnotations != nil {
		count++
	}
	if mw.firstAttribute != nil {
		count += mw.firstAttribute.getAttributeCount()
	}
	return count
}

// computeSize returns the byte size of this method_info, including its
// fixed 8-byte header (access_flags/name_index/descriptor_index/
// attributes_count).
func (mw *MethodWriter) computeSize() int {
	symbolTable := mw.symbolTable()
	size := 8
	if codeAttr := mw.buildCodeAttribute(); codeAttr != nil {
		symbolTable.AddUtf8("Code")
		size += 6 + codeAttr.Len()
	}
	if len(mw.exceptions) > 0 {
		symbolTable.AddUtf8("Exceptions")
		size += 8 + 2*len(mw.exceptions)
	}
	if (mw.accessFlags & opcodes.ACC_SYNTHETIC) != 0 {
		symbolTable.AddUtf8("Synthetic")
		size += 6
	}
	if (mw.accessFlags & opcodes.ACC_DEPRECATED) != 0 {
		symbolTable.AddUtf8("Deprecated")
		size += 6
	}
	if mw.signatureIndex != 0 {
		symbolTable.AddUtf8("Signature")
		size += 8
	}
	if mw.parameters != nil {
		symbolTable.AddUtf8("MethodParameters")
		size += 7 + mw.parameters.Len()
	}
	if mw.annotationDefault != nil {
		symbolTable.AddUtf8("AnnotationDefault")
		size += 6 + mw.annotationDefault.Len()
	}
	if mw.numVisibleAnnotations > 0 {
		symbolTable.AddUtf8("RuntimeVisibleAnnotations")
		size += 8 + computeAnnotationsSize(mw.lastRuntimeVisibleAnnotation) - 2
	}
	if mw.numInvisibleAnnotations > 0 {
		symbolTable.AddUtf8("RuntimeInvisibleAnnotations")
		size += 8 + computeAnnotationsSize(mw.lastRuntimeInvisibleAnnotation) - 2
	}
	if mw.numVisibleTypeAnnotations > 0 {
		symbolTable.AddUtf8("RuntimeVisibleTypeAnnotations")
		size += 8 + computeAnnotationsSize(mw.lastRuntimeVisibleTypeAnnotation) - 2
	}
	if mw.numInvisibleTypeAnnotations > 0 {
		symbolTable.AddUtf8("RuntimeInvisibleTypeAnnotations")
		size += 8 + computeAnnotationsSize(mw.lastRuntimeInvisibleTypeAnnotation) - 2
	}
	if mw.lastVisibleParameterAnnotations != nil {
		symbolTable.AddUtf8("RuntimeVisibleParameterAnnotations")
		size += 7
		for _, w := range mw.lastVisibleParameterAnnotations {
			size += computeAnnotationsSize(w)
		}
	}
	if mw.lastInvisibleParameterAnnotations != nil {
		symbolTable.AddUtf8("RuntimeInvisibleParameterAnnotations")
		size += 7
		for _, w := range mw.lastInvisibleParameterAnnotations {
			size += computeAnnotationsSize(w)
		}
	}
	if mw.firstAttribute != nil {
		size += mw.firstAttribute.computeAttributesSize(symbolTable)
	}
	return size
}

// put writes this method_info to output.
func (mw *MethodWriter) put(output *ByteVector) {
	symbolTable := mw.symbolTable()
	output.PutShort(mw.accessFlags)
	output.PutShort(mw.nameIndex)
	output.PutShort(mw.descriptorIndex)
	output.PutShort(mw.attributeCount())

	if codeAttr := mw.buildCodeAttribute(); codeAttr != nil {
		output.PutShort(symbolTable.AddUtf8("Code"))
		output.PutInt(codeAttr.Len())
		output.PutByteVector(codeAttr)
	}
	if len(mw.exceptions) > 0 {
		output.PutShort(symbolTable.AddUtf8("Exceptions"))
		output.PutInt(2 + 2*len(mw.exceptions))
		output.PutShort(len(mw.exceptions))
		for _, e := range mw.exceptions {
			output.PutShort(e)
		}
	}
	if (mw.accessFlags & opcodes.ACC_SYNTHETIC) != 0 {
		output.PutShort(symbolTable.AddUtf8("Synthetic"))
		output.PutInt(0)
	}
	if (mw.accessFlags & opcodes.ACC_DEPRECATED) != 0 {
		output.PutShort(symbolTable.AddUtf8("Deprecated"))
		output.PutInt(0)
	}
	if mw.signatureIndex != 0 {
		output.PutShort(symbolTable.AddUtf8("Signature"))
		output.PutInt(2)
		output.PutShort(mw.signatureIndex)
	}
	if mw.parameters != nil {
		output.PutShort(symbolTable.AddUtf8("MethodParameters"))
		output.PutInt(1 + mw.parameters.Len())
		output.PutByte(mw.numParameters)
		output.PutByteVector(mw.parameters)
	}
	if mw.annotationDefault != nil {
		output.PutShort(symbolTable.AddUtf8("AnnotationDefault"))
		output.PutInt(mw.annotationDefault.Len())
		output.PutByteVector(mw.annotationDefault)
	}
	if mw.numVisibleAnnotations > 0 {
		output.PutShort(symbolTable.AddUtf8("RuntimeVisibleAnnotations"))
		output.PutInt(computeAnnotationsSize(mw.lastRuntimeVisibleAnnotation))
		putAnnotations(mw.numVisibleAnnotations, mw.lastRuntimeVisibleAnnotation, output)
	}
	if mw.numInvisibleAnnotations > 0 {
		output.PutShort(symbolTable.AddUtf8("RuntimeInvisibleAnnotations"))
		output.PutInt(computeAnnotationsSize(mw.lastRuntimeInvisibleAnnotation))
		putAnnotations(mw.numInvisibleAnnotations, mw.lastRuntimeInvisibleAnnotation, output)
	}
	if mw.numVisibleTypeAnnotations > 0 {
		output.PutShort(symbolTable.AddUtf8("RuntimeVisibleTypeAnnotations"))
		output.PutInt(computeAnnotationsSize(mw.lastRuntimeVisibleTypeAnnotation))
		putAnnotations(mw.numVisibleTypeAnnotations, mw.lastRuntimeVisibleTypeAnnotation, output)
	}
	if mw.numInvisibleTypeAnnotations > 0 {
		output.PutShort(symbolTable.AddUtf8("RuntimeInvisibleTypeAnnotations"))
		output.PutInt(computeAnnotationsSize(mw.lastRuntimeInvisibleTypeAnnotation))
		putAnnotations(mw.numInvisibleTypeAnnotations, mw.lastRuntimeInvisibleTypeAnnotation, output)
	}
	if mw.lastVisibleParameterAnnotations != nil {
		putParameterAnnotations(output, symbolTable, "RuntimeVisibleParameterAnnotations", mw.lastVisibleParameterAnnotations, mw.numVisibleParameterAnnotations)
	}
	if mw.lastInvisibleParameterAnnotations != nil {
		putParameterAnnotations(output, symbolTable, "RuntimeInvisibleParameterAnnotations", mw.lastInvisibleParameterAnnotations, mw.numInvisibleParameterAnnotations)
	}
	if mw.firstAttribute != nil {
		mw.firstAttribute.putAttributes(symbolTable, output)
	}
}

func putParameterAnnotations(output *ByteVector, symbolTable *symbol.Table, attributeName string, writers []*AnnotationWriter, counts []int) {
	size := 1
	for _, w := range writers {
		size += computeAnnotationsSize(w)
	}
	output.PutShort(symbolTable.AddUtf8(attributeName))
	output.PutInt(size)
	output.PutByte(len(writers))
	for i, w := range writers {
		output.PutShort(counts[i])
		var reversed []*AnnotationWriter
		for a := w; a != nil; a = a.previousAnnotation {
			reversed = append(reversed, a)
		}
		for j := len(reversed) - 1; j >= 0; j-- {
			output.PutByteVector(reversed[j].annotation)
		}
	}
}
