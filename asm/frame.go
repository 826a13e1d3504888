package asm

import (
	"github.com/sumimakito/asm/asm/opcodes"
	"github.com/sumimakito/asm/asm/symbol"
	"github.com/sumimakito/asm/asm/typed"
)

// Frame type encoding (spec.md §3): a 32-bit tagged value DIM(4 signed
// bits) | KIND(4 bits) | VALUE(24 bits). DIM is stored in the top nibble
// as a two's-complement signed increment so that arrayOf/elementOf can be
// applied repeatedly without knowing the base type.
const (
	frameDimShift = 28
	frameKindMask = 0xF << 24

	baseKind  = 0x1 << 24
	localKind = 0x2 << 24
	stackKind = 0x3 << 24

	arrayOfDelta   = 1 << frameDimShift
	elementOfDelta = 0xF << frameDimShift // -1 in a 4-bit two's-complement nibble
)

// BASE sub-kinds: primitive categories occupy small tags in VALUE; OBJECT
// and UNINITIALIZED reference categories are flagged and carry a
// symbol.Table type-table index in the low 16 bits of VALUE.
const (
	TOP     = baseKind | 0
	BOOLEAN = baseKind | 1
	BYTE    = baseKind | 2
	CHAR    = baseKind | 3
	SHORT   = baseKind | 4
	INTEGER = baseKind | 5
	FLOAT   = baseKind | 6
	LONG    = baseKind | 7
	DOUBLE  = baseKind | 8
	NULL    = baseKind | 9

	UNINITIALIZED_THIS = baseKind | 10

	objectFlag       = 1 << 16
	uninitializedFlag = 1 << 17
	typeTableIndexMask = 0xFFFF
)

func dim(t int) int {
	d := (t >> frameDimShift) & 0xF
	if d >= 8 {
		d -= 16
	}
	return d
}

func withDim(t, newDim int) int {
	return (t &^ (0xF << frameDimShift)) | ((newDim & 0xF) << frameDimShift)
}

func arrayOf(t int) int {
	return withDim(t, dim(t)+1)
}

func elementOf(t int) int {
	return withDim(t, dim(t)-1)
}

func kindOf(t int) int {
	return t & frameKindMask
}

func valueOf(t int) int {
	return t & 0x00FFFFFF
}

func isReference(t int) bool {
	return t == NULL || (kindOf(t) == baseKind && (t&objectFlag != 0 || t&uninitializedFlag != 0))
}

func isObject(t int) bool {
	return kindOf(t) == baseKind && t&objectFlag != 0
}

func isUninitialized(t int) bool {
	return kindOf(t) == baseKind && t&uninitializedFlag != 0
}

func object(typeTableIndex int) int {
	return baseKind | objectFlag | (typeTableIndex & typeTableIndexMask)
}

func uninitializedType(typeTableIndex int) int {
	return baseKind | uninitializedFlag | (typeTableIndex & typeTableIndexMask)
}

func local(index int) int {
	return localKind | (index & 0x00FFFFFF)
}

func stackRef(index int) int {
	return stackKind | (index & 0x00FFFFFF)
}

// typeSize returns the number of operand-stack slots a value occupies: 2
// for long/double, 1 otherwise. Long/double values only ever reach the
// stack through opcodes whose category is explicit (LCONST, LLOAD, LADD,
// LDC2_W and the like), never through a symbolic LOCAL/STACK placeholder,
// so this check never needs to resolve the placeholder first.
func typeSize(t int) int {
	if t == LONG || t == DOUBLE {
		return 2
	}
	return 1
}

func abstractTypeOf(symbolTable *symbol.Table, t Type) int {
	switch t.Sort() {
	case typed.BOOLEAN:
		return BOOLEAN
	case typed.BYTE:
		return BYTE
	case typed.CHAR:
		return CHAR
	case typed.SHORT:
		return SHORT
	case typed.INT:
		return INTEGER
	case typed.FLOAT:
		return FLOAT
	case typed.LONG:
		return LONG
	case typed.DOUBLE:
		return DOUBLE
	case typed.ARRAY:
		return arrayDescriptorType(symbolTable, t.Descriptor())
	default:
		return object(symbolTable.AddType(t.InternalName()))
	}
}

func arrayDescriptorType(symbolTable *symbol.Table, descriptor string) int {
	dims := 0
	for descriptor[dims] == '[' {
		dims++
	}
	element := descriptor[dims:]
	var base int
	if element[0] == 'L' {
		base = object(symbolTable.AddType(element[1 : len(element)-1]))
	} else {
		base = primitiveArrayElementType(element[0])
	}
	for i := 0; i < dims; i++ {
		base = arrayOf(base)
	}
	return base
}

func primitiveArrayElementType(code byte) int {
	switch code {
	case 'Z':
		return BOOLEAN
	case 'C':
		return CHAR
	case 'B':
		return BYTE
	case 'S':
		return SHORT
	case 'I':
		return INTEGER
	case 'F':
		return FLOAT
	case 'J':
		return LONG
	case 'D':
		return DOUBLE
	default:
		return TOP
	}
}

func newArrayElementType(operand int) int {
	switch operand {
	case opcodes.T_BOOLEAN:
		return BOOLEAN
	case opcodes.T_CHAR:
		return CHAR
	case opcodes.T_BYTE:
		return BYTE
	case opcodes.T_SHORT:
		return SHORT
	case opcodes.T_INT:
		return INTEGER
	case opcodes.T_FLOAT:
		return FLOAT
	case opcodes.T_LONG:
		return LONG
	case opcodes.T_DOUBLE:
		return DOUBLE
	default:
		return TOP
	}
}

// typeForClassOrArray resolves either a plain internal class name or (for
// ANEWARRAY/CHECKCAST targets that are themselves arrays) a full array
// descriptor into its abstract type.
func typeForClassOrArray(symbolTable *symbol.Table, internalNameOrDescriptor string) int {
	if len(internalNameOrDescriptor) > 0 && internalNameOrDescriptor[0] == '[' {
		return arrayDescriptorType(symbolTable, internalNameOrDescriptor)
	}
	return object(symbolTable.AddType(internalNameOrDescriptor))
}

// Frame holds the per-basic-block dataflow state used by expensive-mode
// (full stack-map frame) computation; see spec.md §4.3. inputLocals and
// inputStack hold this block's concrete input frame, converged by
// repeated Merge calls during the fix-point pass. outputLocals and
// outputStack hold the effect of this block's instructions, computed once
// during the single forward simulation pass, expressed relative to this
// block's own (not yet known) input frame via local()/stackRef()
// placeholders.
type Frame struct {
	owner               *Label
	inputLocals         []int
	inputStack          []int
	outputLocals        []int
	outputStack         []int
	outputStackStart    int16
	outputStackTop      int16
	peakStackTop        int16
	initializationCount int
	initializations     []int

	// stackUnderflow counts pops that reached below outputStackStart
	// during this block's single simulation pass; each one synthesizes a
	// fresh stackRef() placeholder one slot deeper into the (as yet
	// unknown) input stack, numbered from 1 per spec.md §4.3's
	// `inputStack[nStack - VALUE]` resolution formula.
	stackUnderflow int
}

// NewFrame allocates an empty frame owned by the given basic-block label.
func NewFrame(owner *Label) *Frame {
	return &Frame{owner: owner}
}

// SetInputFrameFromDescriptor seeds the concrete input frame of a
// method's entry block from its access flags and descriptor, and resets
// the output frame to empty (spec.md §4.3, scenario 2).
func (f *Frame) SetInputFrameFromDescriptor(symbolTable *symbol.Table, accessFlags int, ownerInternalName, descriptor string, isConstructor bool) {
	var inputLocals []int
	if accessFlags&opcodes.ACC_STATIC == 0 {
		if isConstructor {
			inputLocals = append(inputLocals, UNINITIALIZED_THIS)
		} else {
			inputLocals = append(inputLocals, object(symbolTable.AddType(ownerInternalName)))
		}
	}
	for _, t := range ArgumentTypes(descriptor) {
		inputLocals = append(inputLocals, abstractTypeOf(symbolTable, t))
		if t.Size() == 2 {
			inputLocals = append(inputLocals, TOP)
		}
	}
	f.inputLocals = inputLocals
	f.inputStack = nil
	f.outputLocals = nil
	f.outputStack = nil
	f.outputStackStart = 0
	f.outputStackTop = 0
	f.peakStackTop = 0
	f.stackUnderflow = 0
	f.initializations = nil
	f.initializationCount = 0
}

func (f *Frame) push(t int) {
	f.outputStack = append(f.outputStack, t)
	f.outputStackTop++
	if f.outputStackTop > f.peakStackTop {
		f.peakStackTop = f.outputStackTop
	}
}

// RelativeOutputStackSize returns how far this block's stack top sits
// above its input frame's top once resolved (may be negative if the
// block is a net consumer).
func (f *Frame) RelativeOutputStackSize() int {
	return int(f.outputStackTop) - int(f.outputStackStart)
}

// PeakRelativeStackSize returns the highest stack depth reached by this
// block relative to its input frame's top, for cheap-mode max-stack
// bookkeeping (spec.md's per-block high-water mark).
func (f *Frame) PeakRelativeStackSize() int {
	return int(f.peakStackTop)
}

func (f *Frame) pop() int {
	if int(f.outputStackTop) > int(f.outputStackStart) {
		f.outputStackTop--
		v := f.outputStack[f.outputStackTop]
		f.outputStack = f.outputStack[:f.outputStackTop]
		return v
	}
	f.stackUnderflow++
	return stackRef(f.stackUnderflow)
}

func (f *Frame) popSize(size int) {
	for i := 0; i < size; i++ {
		f.pop()
	}
}

func (f *Frame) popN(n int) {
	for i := 0; i < n; i++ {
		f.pop()
	}
}

func (f *Frame) get(localIndex int) int {
	if f.outputLocals != nil && localIndex < len(f.outputLocals) && f.outputLocals[localIndex] != 0 {
		return f.outputLocals[localIndex]
	}
	if localIndex < len(f.inputLocals) {
		return f.inputLocals[localIndex]
	}
	return local(localIndex)
}

func (f *Frame) set(localIndex, t int) {
	if f.outputLocals == nil {
		f.outputLocals = make([]int, localIndex+1)
	}
	if localIndex >= len(f.outputLocals) {
		grown := make([]int, localIndex+1)
		copy(grown, f.outputLocals)
		f.outputLocals = grown
	}
	f.outputLocals[localIndex] = t
}

func (f *Frame) addInitialization(receiver int) {
	f.initializations = append(f.initializations, receiver)
	f.initializationCount++
}

// ExecuteSimple applies the stack effect of a no-operand instruction
// (visitInsn): constant pushes, array loads/stores, stack-manipulation,
// arithmetic, conversions, comparisons, and returns.
func (f *Frame) ExecuteSimple(opcode int) error {
	switch opcode {
	case opcodes.NOP, opcodes.RETURN:
	case opcodes.ACONST_NULL:
		f.push(NULL)
	case opcodes.ICONST_M1, opcodes.ICONST_0, opcodes.ICONST_1, opcodes.ICONST_2, opcodes.ICONST_3, opcodes.ICONST_4, opcodes.ICONST_5:
		f.push(INTEGER)
	case opcodes.LCONST_0, opcodes.LCONST_1:
		f.push(LONG)
	case opcodes.FCONST_0, opcodes.FCONST_1, opcodes.FCONST_2:
		f.push(FLOAT)
	case opcodes.DCONST_0, opcodes.DCONST_1:
		f.push(DOUBLE)
	case opcodes.IALOAD, opcodes.BALOAD, opcodes.CALOAD, opcodes.SALOAD:
		f.popN(2)
		f.push(INTEGER)
	case opcodes.LALOAD:
		f.popN(2)
		f.push(LONG)
	case opcodes.FALOAD:
		f.popN(2)
		f.push(FLOAT)
	case opcodes.DALOAD:
		f.popN(2)
		f.push(DOUBLE)
	case opcodes.AALOAD:
		f.pop()
		arrayType := f.pop()
		f.push(elementOf(arrayType))
	case opcodes.IASTORE, opcodes.LASTORE, opcodes.FASTORE, opcodes.DASTORE, opcodes.AASTORE, opcodes.BASTORE, opcodes.CASTORE, opcodes.SASTORE:
		f.popN(3)
	case opcodes.POP:
		f.pop()
	case opcodes.POP2:
		v := f.pop()
		if typeSize(v) == 1 {
			f.pop()
		}
	case opcodes.DUP:
		v := f.pop()
		f.push(v)
		f.push(v)
	case opcodes.DUP_X1:
		a, b := f.pop(), f.pop()
		f.push(a)
		f.push(b)
		f.push(a)
	case opcodes.DUP_X2:
		a, b, c := f.pop(), f.pop(), f.pop()
		f.push(a)
		f.push(c)
		f.push(b)
		f.push(a)
	case opcodes.DUP2:
		v1 := f.pop()
		if typeSize(v1) == 2 {
			f.push(v1)
			f.push(v1)
		} else {
			v2 := f.pop()
			f.push(v2)
			f.push(v1)
			f.push(v2)
			f.push(v1)
		}
	case opcodes.DUP2_X1:
		v1 := f.pop()
		if typeSize(v1) == 2 {
			v2 := f.pop()
			f.push(v1)
			f.push(v2)
			f.push(v1)
		} else {
			v2, v3 := f.pop(), f.pop()
			f.push(v2)
			f.push(v1)
			f.push(v3)
			f.push(v2)
			f.push(v1)
		}
	case opcodes.DUP2_X2:
		v1 := f.pop()
		if typeSize(v1) == 2 {
			v2 := f.pop()
			if typeSize(v2) == 2 {
				f.push(v1)
				f.push(v2)
				f.push(v1)
			} else {
				v3 := f.pop()
				f.push(v1)
				f.push(v3)
				f.push(v2)
				f.push(v1)
			}
		} else {
			v2, v3 := f.pop(), f.pop()
			if typeSize(v3) == 2 {
				f.push(v2)
				f.push(v1)
				f.push(v3)
				f.push(v2)
				f.push(v1)
			} else {
				v4 := f.pop()
				f.push(v2)
				f.push(v1)
				f.push(v4)
				f.push(v3)
				f.push(v2)
				f.push(v1)
			}
		}
	case opcodes.SWAP:
		a, b := f.pop(), f.pop()
		f.push(a)
		f.push(b)
	case opcodes.IADD, opcodes.ISUB, opcodes.IMUL, opcodes.IDIV, opcodes.IREM,
		opcodes.IAND, opcodes.IOR, opcodes.IXOR, opcodes.ISHL, opcodes.ISHR, opcodes.IUSHR:
		f.popN(2)
		f.push(INTEGER)
	case opcodes.LADD, opcodes.LSUB, opcodes.LMUL, opcodes.LDIV, opcodes.LREM,
		opcodes.LAND, opcodes.LOR, opcodes.LXOR, opcodes.LSHL, opcodes.LSHR, opcodes.LUSHR:
		f.popN(2)
		f.push(LONG)
	case opcodes.FADD, opcodes.FSUB, opcodes.FMUL, opcodes.FDIV, opcodes.FREM:
		f.popN(2)
		f.push(FLOAT)
	case opcodes.DADD, opcodes.DSUB, opcodes.DMUL, opcodes.DDIV, opcodes.DREM:
		f.popN(2)
		f.push(DOUBLE)
	case opcodes.INEG:
		f.pop()
		f.push(INTEGER)
	case opcodes.LNEG:
		f.pop()
		f.push(LONG)
	case opcodes.FNEG:
		f.pop()
		f.push(FLOAT)
	case opcodes.DNEG:
		f.pop()
		f.push(DOUBLE)
	case opcodes.I2L:
		f.pop()
		f.push(LONG)
	case opcodes.I2F:
		f.pop()
		f.push(FLOAT)
	case opcodes.I2D:
		f.pop()
		f.push(DOUBLE)
	case opcodes.L2I:
		f.pop()
		f.push(INTEGER)
	case opcodes.L2F:
		f.pop()
		f.push(FLOAT)
	case opcodes.L2D:
		f.pop()
		f.push(DOUBLE)
	case opcodes.F2I:
		f.pop()
		f.push(INTEGER)
	case opcodes.F2L:
		f.pop()
		f.push(LONG)
	case opcodes.F2D:
		f.pop()
		f.push(DOUBLE)
	case opcodes.D2I:
		f.pop()
		f.push(INTEGER)
	case opcodes.D2L:
		f.pop()
		f.push(LONG)
	case opcodes.D2F:
		f.pop()
		f.push(FLOAT)
	case opcodes.I2B, opcodes.I2C, opcodes.I2S:
		f.pop()
		f.push(INTEGER)
	case opcodes.LCMP, opcodes.FCMPL, opcodes.FCMPG, opcodes.DCMPL, opcodes.DCMPG:
		f.popN(2)
		f.push(INTEGER)
	case opcodes.IRETURN, opcodes.FRETURN, opcodes.ARETURN:
		f.pop()
	case opcodes.LRETURN, opcodes.DRETURN:
		f.pop()
	case opcodes.ARRAYLENGTH:
		f.pop()
		f.push(INTEGER)
	case opcodes.ATHROW, opcodes.MONITORENTER, opcodes.MONITOREXIT:
		f.pop()
	default:
		return newEmitError(ErrIllegalState, "Frame.ExecuteSimple", opcode)
	}
	return nil
}

// ExecuteIntInsn applies the stack effect of BIPUSH/SIPUSH/NEWARRAY.
func (f *Frame) ExecuteIntInsn(opcode, operand int) error {
	switch opcode {
	case opcodes.BIPUSH, opcodes.SIPUSH:
		f.push(INTEGER)
	case opcodes.NEWARRAY:
		f.pop()
		f.push(arrayOf(newArrayElementType(operand)))
	default:
		return newEmitError(ErrIllegalState, "Frame.ExecuteIntInsn", opcode)
	}
	return nil
}

// ExecuteVarInsn applies the stack/locals effect of a load/store/ret
// instruction.
func (f *Frame) ExecuteVarInsn(opcode, varIndex int) error {
	switch opcode {
	case opcodes.ILOAD:
		f.push(INTEGER)
	case opcodes.FLOAD:
		f.push(FLOAT)
	case opcodes.LLOAD:
		f.push(LONG)
	case opcodes.DLOAD:
		f.push(DOUBLE)
	case opcodes.ALOAD:
		f.push(f.get(varIndex))
	case opcodes.ISTORE:
		f.pop()
		f.set(varIndex, INTEGER)
	case opcodes.FSTORE:
		f.pop()
		f.set(varIndex, FLOAT)
	case opcodes.LSTORE:
		f.pop()
		f.set(varIndex, LONG)
		f.set(varIndex+1, TOP)
	case opcodes.DSTORE:
		f.pop()
		f.set(varIndex, DOUBLE)
		f.set(varIndex+1, TOP)
	case opcodes.ASTORE:
		f.set(varIndex, f.pop())
	case opcodes.RET:
		return newEmitError(ErrUnsupportedConstruct, "Frame.ExecuteVarInsn", -1)
	default:
		return newEmitError(ErrIllegalState, "Frame.ExecuteVarInsn", opcode)
	}
	return nil
}

// ExecuteIincInsn applies IINC: locals stay INTEGER, no stack effect.
func (f *Frame) ExecuteIincInsn(varIndex int) {
	f.set(varIndex, INTEGER)
}

// ExecuteTypeInsn applies NEW/ANEWARRAY/CHECKCAST/INSTANCEOF.
// bytecodeOffset is the offset of the NEW instruction, used to give each
// allocation site a distinct UNINITIALIZED tag (spec.md §8 scenario 5).
// ExecuteTypeInsn returns the type table index of the NEW instruction it
// just recorded (or -1 for every other opcode), so the caller can track the
// allocation site and keep it in sync if the resize pass later moves it.
func (f *Frame) ExecuteTypeInsn(opcode int, internalNameOrDescriptor string, bytecodeOffset int, symbolTable *symbol.Table) (int, error) {
	switch opcode {
	case opcodes.NEW:
		idx := symbolTable.AddUninitializedType(internalNameOrDescriptor, bytecodeOffset)
		f.push(uninitializedType(idx))
		return idx, nil
	case opcodes.ANEWARRAY:
		f.pop()
		f.push(arrayOf(typeForClassOrArray(symbolTable, internalNameOrDescriptor)))
	case opcodes.CHECKCAST:
		f.pop()
		f.push(typeForClassOrArray(symbolTable, internalNameOrDescriptor))
	case opcodes.INSTANCEOF:
		f.pop()
		f.push(INTEGER)
	default:
		return -1, newEmitError(ErrIllegalState, "Frame.ExecuteTypeInsn", opcode)
	}
	return -1, nil
}

// ExecuteFieldInsn applies GETSTATIC/PUTSTATIC/GETFIELD/PUTFIELD.
func (f *Frame) ExecuteFieldInsn(opcode int, descriptor string, symbolTable *symbol.Table) error {
	fieldType := GetType(descriptor)
	switch opcode {
	case opcodes.GETSTATIC:
		f.push(abstractTypeOf(symbolTable, fieldType))
	case opcodes.PUTSTATIC:
		f.popSize(fieldType.Size())
	case opcodes.GETFIELD:
		f.pop()
		f.push(abstractTypeOf(symbolTable, fieldType))
	case opcodes.PUTFIELD:
		f.popSize(fieldType.Size())
		f.pop()
	default:
		return newEmitError(ErrIllegalState, "Frame.ExecuteFieldInsn", opcode)
	}
	return nil
}

// ExecuteMethodInsn applies INVOKEVIRTUAL/INVOKESPECIAL/INVOKESTATIC/
// INVOKEINTERFACE, recording <init> call sites for later initialization
// substitution (spec.md §4.3).
func (f *Frame) ExecuteMethodInsn(opcode int, name, descriptor string, symbolTable *symbol.Table) error {
	for _, t := range ArgumentTypes(descriptor) {
		f.popSize(t.Size())
	}
	var receiver int
	if opcode != opcodes.INVOKESTATIC {
		receiver = f.pop()
	}
	if opcode == opcodes.INVOKESPECIAL && name == "<init>" {
		f.addInitialization(receiver)
	}
	ret := ReturnType(descriptor)
	if ret.Sort() != typed.VOID {
		f.push(abstractTypeOf(symbolTable, ret))
	}
	return nil
}

// ExecuteInvokeDynamicInsn applies INVOKEDYNAMIC: identical to a static
// call with no receiver.
func (f *Frame) ExecuteInvokeDynamicInsn(descriptor string, symbolTable *symbol.Table) {
	for _, t := range ArgumentTypes(descriptor) {
		f.popSize(t.Size())
	}
	ret := ReturnType(descriptor)
	if ret.Sort() != typed.VOID {
		f.push(abstractTypeOf(symbolTable, ret))
	}
}

// ExecuteMultiANewArrayInsn applies MULTIANEWARRAY.
func (f *Frame) ExecuteMultiANewArrayInsn(descriptor string, numDimensions int, symbolTable *symbol.Table) {
	f.popN(numDimensions)
	f.push(abstractTypeOf(symbolTable, GetType(descriptor)))
}

// ExecuteLdcInsn applies LDC/LDC_W/LDC2_W; value is the decoded constant
// as produced by the class reader's constant-pool decoder (int or int32,
// float32, int64, float64, string, Type, or *Handle).
func (f *Frame) ExecuteLdcInsn(value interface{}, symbolTable *symbol.Table) error {
	switch v := value.(type) {
	case int32, int:
		f.push(INTEGER)
	case float32:
		f.push(FLOAT)
	case int64:
		f.push(LONG)
	case float64:
		f.push(DOUBLE)
	case string:
		f.push(object(symbolTable.AddType("java/lang/String")))
	case Type:
		if v.Sort() == typed.METHOD {
			f.push(object(symbolTable.AddType("java/lang/invoke/MethodType")))
		} else {
			f.push(object(symbolTable.AddType("java/lang/Class")))
		}
	case *Handle:
		f.push(object(symbolTable.AddType("java/lang/invoke/MethodHandle")))
	default:
		return newEmitError(ErrUnsupportedConstruct, "Frame.ExecuteLdcInsn", -1)
	}
	return nil
}

// ExecuteJumpInsn applies the stack effect of a conditional or
// unconditional jump. JSR is rejected: expensive mode never supports
// subroutines (spec.md §8 scenario 6).
func (f *Frame) ExecuteJumpInsn(opcode int) error {
	switch opcode {
	case opcodes.IFEQ, opcodes.IFNE, opcodes.IFLT, opcodes.IFGE, opcodes.IFGT, opcodes.IFLE,
		opcodes.IFNULL, opcodes.IFNONNULL:
		f.pop()
	case opcodes.IF_ICMPEQ, opcodes.IF_ICMPNE, opcodes.IF_ICMPLT, opcodes.IF_ICMPGE,
		opcodes.IF_ICMPGT, opcodes.IF_ICMPLE, opcodes.IF_ACMPEQ, opcodes.IF_ACMPNE:
		f.popN(2)
	case opcodes.GOTO:
	case opcodes.JSR:
		return newEmitError(ErrUnsupportedConstruct, "Frame.ExecuteJumpInsn", -1)
	default:
		return newEmitError(ErrIllegalState, "Frame.ExecuteJumpInsn", opcode)
	}
	return nil
}

// ExecuteSwitchInsn applies TABLESWITCH/LOOKUPSWITCH: pop the selector.
func (f *Frame) ExecuteSwitchInsn() {
	f.pop()
}

// resolve evaluates an output-frame value against from's own input frame:
// BASE values pass through unchanged (but still accumulate any extra
// array dimension recorded on them); LOCAL/STACK placeholders are
// substituted per spec.md §4.3's merge formula.
func resolve(value int, from *Frame) int {
	k := kindOf(value)
	if k != localKind && k != stackKind {
		return value
	}
	d := dim(value)
	idx := valueOf(value)
	var base int
	if k == localKind {
		if idx < len(from.inputLocals) {
			base = from.inputLocals[idx]
		} else {
			base = TOP
		}
	} else {
		nStack := len(from.inputStack)
		pos := nStack - idx
		if pos >= 0 && pos < nStack {
			base = from.inputStack[pos]
		} else {
			base = TOP
		}
	}
	return withDim(base, dim(base)+d)
}

func initializedReplacement(symbolTable *symbol.Table, ownerInternalName string, v int) (int, bool) {
	if v == UNINITIALIZED_THIS {
		return object(symbolTable.AddType(ownerInternalName)), true
	}
	if isUninitialized(v) {
		idx := valueOf(v) & typeTableIndexMask
		return object(symbolTable.AddType(symbolTable.TypeInternalName(idx))), true
	}
	return 0, false
}

// mergeType implements the merge_type lattice of spec.md §4.3: widen
// BOOLEAN/BYTE/CHAR/SHORT to INTEGER, let a reference absorb NULL, and
// resolve two same-dimension references to their common superclass via
// the symbol table's oracle; anything else collapses to TOP.
func mergeType(symbolTable *symbol.Table, existing, incoming int) int {
	if existing == incoming {
		return existing
	}
	widen := func(t int) int {
		switch t {
		case BOOLEAN, BYTE, CHAR, SHORT:
			return INTEGER
		default:
			return t
		}
	}
	existing = widen(existing)
	incoming = widen(incoming)
	if existing == incoming {
		return existing
	}
	if existing == NULL && isReference(incoming) {
		return incoming
	}
	if incoming == NULL && isReference(existing) {
		return existing
	}
	if isObject(existing) && isObject(incoming) && dim(existing) == dim(incoming) {
		merged := symbolTable.MergedType(valueOf(existing)&typeTableIndexMask, valueOf(incoming)&typeTableIndexMask)
		return withDim(object(merged), dim(existing))
	}
	return TOP
}

// Merge propagates from's output frame, resolved through the given edge,
// into f's accumulating input frame. Returns whether f's input frame
// changed, so the fix-point driver knows whether to re-enqueue f's
// successors (spec.md §4.3).
func (f *Frame) Merge(symbolTable *symbol.Table, from *Frame, ownerInternalName string, edgeKind, catchTypeIndex int) (bool, error) {
	if edgeKind == EDGE_JSR {
		return false, newEmitError(ErrUnsupportedConstruct, "Frame.Merge", -1)
	}

	numLocals := len(from.outputLocals)
	if len(from.inputLocals) > numLocals {
		numLocals = len(from.inputLocals)
	}
	resolvedLocals := make([]int, numLocals)
	for i := range resolvedLocals {
		switch {
		case i < len(from.outputLocals) && from.outputLocals[i] != 0:
			resolvedLocals[i] = resolve(from.outputLocals[i], from)
		case i < len(from.inputLocals):
			resolvedLocals[i] = from.inputLocals[i]
		default:
			resolvedLocals[i] = TOP
		}
	}

	var resolvedStack []int
	if edgeKind == EDGE_HANDLER {
		var caught int
		if catchTypeIndex < 0 {
			caught = object(symbolTable.AddType("java/lang/Throwable"))
		} else {
			caught = object(catchTypeIndex)
		}
		resolvedStack = []int{caught}
	} else {
		resolvedStack = make([]int, 0, len(from.outputStack))
		for _, v := range from.outputStack[:from.outputStackTop] {
			resolvedStack = append(resolvedStack, resolve(v, from))
		}
	}

	for _, initVal := range from.initializations {
		if r, ok := initializedReplacement(symbolTable, ownerInternalName, initVal); ok {
			for i, v := range resolvedLocals {
				if v == initVal {
					resolvedLocals[i] = r
				}
			}
			for i, v := range resolvedStack {
				if v == initVal {
					resolvedStack[i] = r
				}
			}
		}
	}

	changed := false
	if f.inputLocals == nil {
		f.inputLocals = resolvedLocals
		changed = len(resolvedLocals) > 0
	} else {
		if len(resolvedLocals) > len(f.inputLocals) {
			grown := make([]int, len(resolvedLocals))
			copy(grown, f.inputLocals)
			for i := len(f.inputLocals); i < len(grown); i++ {
				grown[i] = TOP
			}
			f.inputLocals = grown
		}
		for i, v := range resolvedLocals {
			merged := mergeType(symbolTable, f.inputLocals[i], v)
			if merged != f.inputLocals[i] {
				f.inputLocals[i] = merged
				changed = true
			}
		}
	}

	if f.inputStack == nil {
		f.inputStack = resolvedStack
		changed = changed || len(resolvedStack) > 0
	} else {
		if len(resolvedStack) != len(f.inputStack) {
			return changed, newEmitError(ErrIllegalState, "Frame.Merge", -1)
		}
		for i, v := range resolvedStack {
			merged := mergeType(symbolTable, f.inputStack[i], v)
			if merged != f.inputStack[i] {
				f.inputStack[i] = merged
				changed = true
			}
		}
	}
	return changed, nil
}

// StackSizeDelta returns the net operand-stack value-count delta of a
// descriptor-independent instruction, for cheap-mode (max-stack only)
// computation. ok is false for instructions whose effect depends on a
// descriptor (field/method/invokedynamic/multianewarray/ldc) or on local
// index (iinc has none); callers compute those directly from the
// resolved Type.
func StackSizeDelta(opcode int) (delta int, ok bool) {
	switch opcode {
	case opcodes.NOP, opcodes.RETURN, opcodes.GOTO, opcodes.INEG, opcodes.LNEG, opcodes.FNEG, opcodes.DNEG,
		opcodes.I2B, opcodes.I2C, opcodes.I2S:
		return 0, true
	case opcodes.ACONST_NULL, opcodes.ICONST_M1, opcodes.ICONST_0, opcodes.ICONST_1, opcodes.ICONST_2,
		opcodes.ICONST_3, opcodes.ICONST_4, opcodes.ICONST_5, opcodes.LCONST_0, opcodes.LCONST_1,
		opcodes.FCONST_0, opcodes.FCONST_1, opcodes.FCONST_2, opcodes.DCONST_0, opcodes.DCONST_1,
		opcodes.BIPUSH, opcodes.SIPUSH, opcodes.DUP, opcodes.ILOAD, opcodes.FLOAD, opcodes.ALOAD:
		return 1, true
	case opcodes.LLOAD, opcodes.DLOAD, opcodes.DUP2:
		return 2, true
	case opcodes.IALOAD, opcodes.LALOAD, opcodes.FALOAD, opcodes.DALOAD, opcodes.AALOAD,
		opcodes.BALOAD, opcodes.CALOAD, opcodes.SALOAD:
		return -1, true
	case opcodes.IASTORE, opcodes.LASTORE, opcodes.FASTORE, opcodes.DASTORE, opcodes.AASTORE,
		opcodes.BASTORE, opcodes.CASTORE, opcodes.SASTORE:
		return -3, true
	case opcodes.POP, opcodes.ISTORE, opcodes.FSTORE, opcodes.ASTORE,
		opcodes.IADD, opcodes.ISUB, opcodes.IMUL, opcodes.IDIV, opcodes.IREM,
		opcodes.IAND, opcodes.IOR, opcodes.IXOR, opcodes.ISHL, opcodes.ISHR, opcodes.IUSHR,
		opcodes.FADD, opcodes.FSUB, opcodes.FMUL, opcodes.FDIV, opcodes.FREM,
		opcodes.LSHL, opcodes.LSHR, opcodes.LUSHR,
		opcodes.LCMP, opcodes.FCMPL, opcodes.FCMPG, opcodes.DCMPL, opcodes.DCMPG,
		opcodes.IRETURN, opcodes.FRETURN, opcodes.ARETURN, opcodes.ARRAYLENGTH,
		opcodes.ATHROW, opcodes.MONITORENTER, opcodes.MONITOREXIT,
		opcodes.IFEQ, opcodes.IFNE, opcodes.IFLT, opcodes.IFGE, opcodes.IFGT, opcodes.IFLE,
		opcodes.IFNULL, opcodes.IFNONNULL, opcodes.TABLESWITCH, opcodes.LOOKUPSWITCH,
		opcodes.I2L, opcodes.I2F, opcodes.I2D, opcodes.L2F, opcodes.L2D, opcodes.F2L, opcodes.F2D,
		opcodes.D2L, opcodes.D2F:
		return 0, true
	case opcodes.POP2, opcodes.LSTORE, opcodes.DSTORE,
		opcodes.LADD, opcodes.LSUB, opcodes.LMUL, opcodes.LDIV, opcodes.LREM, opcodes.LAND, opcodes.LOR, opcodes.LXOR,
		opcodes.DADD, opcodes.DSUB, opcodes.DMUL, opcodes.DDIV, opcodes.DREM,
		opcodes.LRETURN, opcodes.DRETURN,
		opcodes.IF_ICMPEQ, opcodes.IF_ICMPNE, opcodes.IF_ICMPLT, opcodes.IF_ICMPGE,
		opcodes.IF_ICMPGT, opcodes.IF_ICMPLE, opcodes.IF_ACMPEQ, opcodes.IF_ACMPNE:
		return -2, true
	case opcodes.L2I, opcodes.F2I, opcodes.D2I:
		return -1, true
	case opcodes.SWAP:
		return 0, true
	case opcodes.DUP_X1, opcodes.DUP_X2:
		return 1, true
	case opcodes.DUP2_X1, opcodes.DUP2_X2:
		return 2, true
	case opcodes.NEWARRAY, opcodes.INSTANCEOF:
		return 0, true
	default:
		return 0, false
	}
}
