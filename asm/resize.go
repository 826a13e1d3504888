package asm

import (
	"github.com/sumimakito/asm/asm/constants"
	"github.com/sumimakito/asm/asm/opcodes"
)

// branchTarget pairs a short-form jump/conditional instruction's opcode
// offset with the label it targets, recorded as VisitJumpInsn runs so the
// resize pass can recover the real target even once the opcode byte has
// been pseudo-tagged in place by label.put/label.resolve.
type branchTarget struct {
	source int
	target *Label
}

// insnAnnotationPatch remembers where a VisitInsnAnnotation buffer baked in
// an instruction's bytecode offset, so the resize pass can correct it once
// that instruction moves.
type insnAnnotationPatch struct {
	buffer    *ByteVector
	oldOffset int
}

// localVarAnnotationPatch remembers where a VisitLocalVariableAnnotation
// buffer baked in a (start, length) pair derived from two labels, patched
// once every label has settled at its final, post-resize position.
type localVarAnnotationPatch struct {
	buffer      *ByteVector
	position    int
	start, end  *Label
}

// newInstructionSite tracks the type-table index and current bytecode
// offset of a NEW instruction, so the resize pass can keep the
// UNINITIALIZED verification_type_info's recorded allocation-site offset
// in sync once that instruction's position shifts.
type newInstructionSite struct {
	idx       int
	oldOffset int
}

// explicitFrame holds one caller-supplied VisitFrame call
// (compute&COMPUTE_FRAMES == 0), with verification-type serialization
// deferred to buildExplicitStackMapTable so that embedded Label offsets
// (UNINITIALIZED entries) are read only after any resize has settled.
type explicitFrame struct {
	offset int
	typed  int
	locals []interface{}
	stack  []interface{}
}

// maxResizeRounds bounds the widen-detection fixpoint loop of
// resizeInstructions. Each round can only ever widen instructions that were
// still short, so this is reached only if something is wrong; it exists as
// a backstop, not a realistic ceiling.
const maxResizeRounds = 64

// resizeInstructions rewrites every pseudo-opcode left by the label-put/
// label-resolve protocol (constants.ASM_OPCODE_DELTA / ASM_IFNULL_OPCODE_DELTA)
// into a real GOTO_W/JSR_W-based sequence, and widens any other short
// branch that the resulting code growth pushes out of a signed 16-bit
// offset, iterating until no further branch needs widening. It then
// rebuilds the code array once with the final layout and propagates every
// downstream offset shift to labels, the line-number table, stored
// UNINITIALIZED allocation sites and the baked instruction annotations.
func (mw *MethodWriter) resizeInstructions() error {
	if !mw.needsWiden {
		return nil
	}
	offsetMap, err := mw.planLayoutUntilStable()
	if err != nil {
		return err
	}
	mw.commitLayout(offsetMap)
	mw.remapAuxiliaryOffsets(offsetMap)
	mw.needsWiden = false
	if mw.code.Len() > 65535 {
		return newEmitError(ErrOverflowLimit, "MethodWriter.finish", -1)
	}
	return nil
}

// planLayoutUntilStable computes the old->new offset map for the current
// code array, widening in place (via widenOpcodeInPlace) any branch whose
// relative offset would no longer fit a signed 16-bit value under the
// tentative new layout, and repeating until a pass finds nothing left to
// widen. No bytes are shifted here: only opcode identities change, so old
// positions (and therefore every Label.bytecodeOffset, and every
// branchTarget.source) stay valid throughout.
func (mw *MethodWriter) planLayoutUntilStable() ([]int, error) {
	for i := 0; i < maxResizeRounds; i++ {
		offsetMap, widenedAny := mw.planLayoutOnce()
		if !widenedAny {
			return offsetMap, nil
		}
	}
	return nil, newEmitError(ErrOverflowLimit, "MethodWriter.finish", -1)
}

func (mw *MethodWriter) planLayoutOnce() ([]int, bool) {
	old := mw.code.Bytes()
	oldLen := len(old)
	offsetMap := make([]int, oldLen+1)
	pos, newPos := 0, 0
	for pos < oldLen {
		offsetMap[pos] = newPos
		op := int(old[pos])
		oldInstrLen := rawInstructionLength(old, pos)
		newInstrLen := oldInstrLen
		switch {
		case isPseudoConditional(op):
			newInstrLen = 8
		case isPseudoUnconditional(op):
			newInstrLen = 5
		case op == opcodes.TABLESWITCH:
			newInstrLen = newTableSwitchLength(old, pos, newPos)
		case op == opcodes.LOOKUPSWITCH:
			newInstrLen = newLookupSwitchLength(old, pos, newPos)
		}
		newPos += newInstrLen
		pos += oldInstrLen
	}
	offsetMap[oldLen] = newPos

	widenedAny := false
	for _, bt := range mw.branchTargets {
		op := int(old[bt.source])
		if isPseudoConditional(op) || isPseudoUnconditional(op) {
			continue
		}
		if !isShortJumpOpcode(op) {
			continue
		}
		targetOffset, err := bt.target.getOffset()
		if err != nil {
			continue
		}
		relative := offsetMap[targetOffset] - offsetMap[bt.source]
		if relative < -32768 || relative > 32767 {
			widenOpcodeInPlace(mw.code, bt.source)
			widenedAny = true
		}
	}
	return offsetMap, widenedAny
}

// commitLayout rebuilds mw.code from scratch per the final, stable
// offsetMap: pseudo-opcodes become real reversed-condition-plus-GOTO_W (or
// plain GOTO_W/JSR_W) sequences, surviving real short branches and
// table/lookup switches get their operands remapped, and everything else
// is copied verbatim.
func (mw *MethodWriter) commitLayout(offsetMap []int) {
	old := append([]byte(nil), mw.code.Bytes()...)
	oldLen := len(old)

	targetBySource := make(map[int]*Label, len(mw.branchTargets))
	for _, bt := range mw.branchTargets {
		targetBySource[bt.source] = bt.target
	}

	newCode := NewByteVector(offsetMap[oldLen] + 16)
	pos := 0
	for pos < oldLen {
		op := int(old[pos])
		switch {
		case op == opcodes.TABLESWITCH:
			copyTableSwitch(newCode, old, pos, offsetMap)
			pos += tableSwitchLength(old, pos)
		case op == opcodes.LOOKUPSWITCH:
			copyLookupSwitch(newCode, old, pos, offsetMap)
			pos += lookupSwitchLength(old, pos)
		case isPseudoConditional(op):
			real := realOpcodeFromPseudo(op)
			reversed := reversedConditionOpcode(real)
			target := targetBySource[pos]
			targetNew := offsetMap[mustOffset(target)]
			newCode.PutByte(reversed)
			newCode.PutShort(8)
			gotoWPos := newCode.Len()
			newCode.PutByte(constants.GOTO_W)
			newCode.PutInt(targetNew - gotoWPos)
			pos += 3
		case isPseudoUnconditional(op):
			real := realOpcodeFromPseudo(op)
			target := targetBySource[pos]
			sourceNew := offsetMap[pos]
			targetNew := offsetMap[mustOffset(target)]
			newCode.PutByte(real + constants.WIDE_JUMP_OPCODE_DELTA)
			newCode.PutInt(targetNew - sourceNew)
			pos += 3
		case isShortJumpOpcode(op):
			target := targetBySource[pos]
			sourceNew := offsetMap[pos]
			targetNew := offsetMap[mustOffset(target)]
			newCode.PutByte(op)
			newCode.PutShort(targetNew - sourceNew)
			pos += 3
		default:
			length := rawInstructionLength(old, pos)
			newCode.PutByteArray(old, pos, length)
			pos += length
		}
	}
	mw.code = newCode
}

func mustOffset(l *Label) int {
	offset, _ := l.getOffset()
	return offset
}

// remapAuxiliaryOffsets propagates the offset shifts of a completed resize
// to every structure that cached a bytecode offset outside of the normal
// Label.getOffset()-at-build-time path: labels themselves, the fixed-stride
// LineNumberTable, NEW-instruction allocation sites recorded in the symbol
// table's type table, and the two annotation buffers that bake in an
// offset (or a start/length pair) before the code's final layout is known.
func (mw *MethodWriter) remapAuxiliaryOffsets(offsetMap []int) {
	for _, label := range mw.allLabels {
		if label.flags&FLAG_RESOLVED != 0 {
			label.bytecodeOffset = offsetMap[label.bytecodeOffset]
		}
	}
	if mw.lineNumberTable != nil {
		data := mw.lineNumberTable.Bytes()
		for i := 0; i+4 <= len(data); i += 4 {
			oldOffset := int(data[i])<<8 | int(data[i+1])
			mw.lineNumberTable.PatchShort(i, offsetMap[oldOffset])
		}
	}
	symbolTable := mw.symbolTable()
	for _, site := range mw.newInstructionSites {
		symbolTable.SetTypeNewOffset(site.idx, offsetMap[site.oldOffset])
	}
	for _, patch := range mw.insnAnnotationPatches {
		patch.buffer.PatchShort(1, offsetMap[patch.oldOffset])
	}
	for _, patch := range mw.localVarAnnotationPatches {
		startOffset, _ := patch.start.getOffset()
		endOffset, _ := patch.end.getOffset()
		patch.buffer.PatchShort(patch.position, startOffset)
		patch.buffer.PatchShort(patch.position+2, endOffset-startOffset)
	}
}

// -- instruction classification and length computation -------------------

func isShortJumpOpcode(op int) bool {
	return (op >= opcodes.IFEQ && op <= opcodes.JSR) || op == opcodes.IFNULL || op == opcodes.IFNONNULL
}

func isPseudoConditional(op int) bool {
	return (op >= 202 && op <= 215) || op == 218 || op == 219
}

func isPseudoUnconditional(op int) bool {
	return op == 216 || op == 217
}

func realOpcodeFromPseudo(op int) int {
	if op >= 202 && op <= 217 {
		return op - constants.ASM_OPCODE_DELTA
	}
	return op - constants.ASM_IFNULL_OPCODE_DELTA
}

// reversedConditionOpcode returns the opposite-condition real opcode for a
// conditional jump, used to build the "skip over the inserted GOTO_W"
// sequence a widened conditional pseudo-opcode expands into. JVMS opcodes
// pair consecutively (IFEQ/IFNE, IFLT/IFGE, ... IFNULL/IFNONNULL).
func reversedConditionOpcode(op int) int {
	if op == opcodes.IFNULL {
		return opcodes.IFNONNULL
	}
	if op == opcodes.IFNONNULL {
		return opcodes.IFNULL
	}
	if (op-opcodes.IFEQ)%2 == 0 {
		return op + 1
	}
	return op - 1
}

func readInt32(code []byte, offset int) int {
	return int(int32(uint32(code[offset])<<24 | uint32(code[offset+1])<<16 | uint32(code[offset+2])<<8 | uint32(code[offset+3])))
}

func tableSwitchLength(code []byte, pos int) int {
	p := pos + 1
	for p%4 != 0 {
		p++
	}
	low := readInt32(code, p+4)
	high := readInt32(code, p+8)
	n := high - low + 1
	return (p - pos) + 12 + 4*n
}

func lookupSwitchLength(code []byte, pos int) int {
	p := pos + 1
	for p%4 != 0 {
		p++
	}
	npairs := readInt32(code, p+4)
	return (p - pos) + 8 + 8*npairs
}

func newTableSwitchLength(code []byte, oldPos, newPos int) int {
	op := oldPos + 1
	for op%4 != 0 {
		op++
	}
	low := readInt32(code, op+4)
	high := readInt32(code, op+8)
	n := high - low + 1
	np := newPos + 1
	for np%4 != 0 {
		np++
	}
	return (np - newPos) + 12 + 4*n
}

func newLookupSwitchLength(code []byte, oldPos, newPos int) int {
	op := oldPos + 1
	for op%4 != 0 {
		op++
	}
	npairs := readInt32(code, op+4)
	np := newPos + 1
	for np%4 != 0 {
		np++
	}
	return (np - newPos) + 8 + 8*npairs
}

func copyTableSwitch(newCode *ByteVector, old []byte, pos int, offsetMap []int) {
	op := pos + 1
	for op%4 != 0 {
		op++
	}
	low := readInt32(old, op+4)
	high := readInt32(old, op+8)
	n := high - low + 1
	newCode.PutByte(opcodes.TABLESWITCH)
	for newCode.Len()%4 != 0 {
		newCode.PutByte(0)
	}
	sourceNew := offsetMap[pos]
	defaultOld := pos + readInt32(old, op)
	newCode.PutInt(offsetMap[defaultOld] - sourceNew)
	newCode.PutInt(low)
	newCode.PutInt(high)
	for i := 0; i < n; i++ {
		caseOld := pos + readInt32(old, op+12+4*i)
		newCode.PutInt(offsetMap[caseOld] - sourceNew)
	}
}

func copyLookupSwitch(newCode *ByteVector, old []byte, pos int, offsetMap []int) {
	op := pos + 1
	for op%4 != 0 {
		op++
	}
	npairs := readInt32(old, op+4)
	newCode.PutByte(opcodes.LOOKUPSWITCH)
	for newCode.Len()%4 != 0 {
		newCode.PutByte(0)
	}
	sourceNew := offsetMap[pos]
	defaultOld := pos + readInt32(old, op)
	newCode.PutInt(offsetMap[defaultOld] - sourceNew)
	newCode.PutInt(npairs)
	for i := 0; i < npairs; i++ {
		key := readInt32(old, op+8+8*i)
		caseOld := pos + readInt32(old, op+8+8*i+4)
		newCode.PutInt(key)
		newCode.PutInt(offsetMap[caseOld] - sourceNew)
	}
}

// rawInstructionLength returns the byte length of the instruction at pos in
// its current (pre-resize, or mid-resize-but-not-yet-committed) form. Wide
// branches and table/lookup switches are measured directly; pseudo-opcodes
// are always 3 bytes in this form (opcode + a truncated 2-byte operand),
// since widenOpcodeInPlace only ever rewrites the opcode byte, never shifts
// bytes.
func rawInstructionLength(code []byte, pos int) int {
	op := int(code[pos])
	switch op {
	case constants.WIDE:
		if int(code[pos+1]) == opcodes.IINC {
			return 6
		}
		return 4
	case opcodes.TABLESWITCH:
		return tableSwitchLength(code, pos)
	case opcodes.LOOKUPSWITCH:
		return lookupSwitchLength(code, pos)
	}
	if op >= 202 && op <= 219 {
		return 3
	}
	switch op {
	case opcodes.NOP, opcodes.ACONST_NULL,
		opcodes.ICONST_M1, opcodes.ICONST_0, opcodes.ICONST_1, opcodes.ICONST_2, opcodes.ICONST_3, opcodes.ICONST_4, opcodes.ICONST_5,
		opcodes.LCONST_0, opcodes.LCONST_1, opcodes.FCONST_0, opcodes.FCONST_1, opcodes.FCONST_2, opcodes.DCONST_0, opcodes.DCONST_1,
		constants.ILOAD_0, constants.ILOAD_1, constants.ILOAD_2, constants.ILOAD_3,
		constants.LLOAD_0, constants.LLOAD_1, constants.LLOAD_2, constants.LLOAD_3,
		constants.FLOAD_0, constants.FLOAD_1, constants.FLOAD_2, constants.FLOAD_3,
		constants.DLOAD_0, constants.DLOAD_1, constants.DLOAD_2, constants.DLOAD_3,
		constants.ALOAD_0, constants.ALOAD_1, constants.ALOAD_2, constants.ALOAD_3,
		opcodes.IALOAD, opcodes.LALOAD, opcodes.FALOAD, opcodes.DALOAD, opcodes.AALOAD, opcodes.BALOAD, opcodes.CALOAD, opcodes.SALOAD,
		constants.ISTORE_0, constants.ISTORE_1, constants.ISTORE_2, constants.ISTORE_3,
		constants.LSTORE_0, constants.LSTORE_1, constants.LSTORE_2, constants.LSTORE_3,
		constants.FSTORE_0, constants.FSTORE_1, constants.FSTORE_2, constants.FSTORE_3,
		constants.DSTORE_0, constants.DSTORE_1, constants.DSTORE_2, constants.DSTORE_3,
		constants.ASTORE_0, constants.ASTORE_1, constants.ASTORE_2, constants.ASTORE_3,
		opcodes.IASTORE, opcodes.LASTORE, opcodes.FASTORE, opcodes.DASTORE, opcodes.AASTORE, opcodes.BASTORE, opcodes.CASTORE, opcodes.SASTORE,
		opcodes.POP, opcodes.POP2, opcodes.DUP, opcodes.DUP_X1, opcodes.DUP_X2, opcodes.DUP2, opcodes.DUP2_X1, opcodes.DUP2_X2, opcodes.SWAP,
		opcodes.IADD, opcodes.LADD, opcodes.FADD, opcodes.DADD, opcodes.ISUB, opcodes.LSUB, opcodes.FSUB, opcodes.DSUB,
		opcodes.IMUL, opcodes.LMUL, opcodes.FMUL, opcodes.DMUL, opcodes.IDIV, opcodes.LDIV, opcodes.FDIV, opcodes.DDIV,
		opcodes.IREM, opcodes.LREM, opcodes.FREM, opcodes.DREM, opcodes.INEG, opcodes.LNEG, opcodes.FNEG, opcodes.DNEG,
		opcodes.ISHL, opcodes.LSHL, opcodes.ISHR, opcodes.LSHR, opcodes.IUSHR, opcodes.LUSHR,
		opcodes.IAND, opcodes.LAND, opcodes.IOR, opcodes.LOR, opcodes.IXOR, opcodes.LXOR,
		opcodes.I2L, opcodes.I2F, opcodes.I2D, opcodes.L2I, opcodes.L2F, opcodes.L2D,
		opcodes.F2I, opcodes.F2L, opcodes.F2D, opcodes.D2I, opcodes.D2L, opcodes.D2F,
		opcodes.I2B, opcodes.I2C, opcodes.I2S,
		opcodes.LCMP, opcodes.FCMPL, opcodes.FCMPG, opcodes.DCMPL, opcodes.DCMPG,
		opcodes.IRETURN, opcodes.LRETURN, opcodes.FRETURN, opcodes.DRETURN, opcodes.ARETURN, opcodes.RETURN,
		opcodes.ARRAYLENGTH, opcodes.ATHROW, opcodes.MONITORENTER, opcodes.MONITOREXIT:
		return 1
	case opcodes.BIPUSH, opcodes.LDC, opcodes.NEWARRAY,
		opcodes.ILOAD, opcodes.LLOAD, opcodes.FLOAD, opcodes.DLOAD, opcodes.ALOAD,
		opcodes.ISTORE, opcodes.LSTORE, opcodes.FSTORE, opcodes.DSTORE, opcodes.ASTORE, opcodes.RET:
		return 2
	case opcodes.SIPUSH, constants.LDC_W, constants.LDC2_W, opcodes.IINC,
		opcodes.IFEQ, opcodes.IFNE, opcodes.IFLT, opcodes.IFGE, opcodes.IFGT, opcodes.IFLE,
		opcodes.IF_ICMPEQ, opcodes.IF_ICMPNE, opcodes.IF_ICMPLT, opcodes.IF_ICMPGE, opcodes.IF_ICMPGT, opcodes.IF_ICMPLE,
		opcodes.IF_ACMPEQ, opcodes.IF_ACMPNE, opcodes.GOTO, opcodes.JSR, opcodes.IFNULL, opcodes.IFNONNULL,
		opcodes.NEW, opcodes.ANEWARRAY, opcodes.CHECKCAST, opcodes.INSTANCEOF,
		opcodes.GETSTATIC, opcodes.PUTSTATIC, opcodes.GETFIELD, opcodes.PUTFIELD,
		opcodes.INVOKEVIRTUAL, opcodes.INVOKESPECIAL, opcodes.INVOKESTATIC:
		return 3
	case opcodes.MULTIANEWARRAY:
		return 4
	case opcodes.INVOKEINTERFACE, opcodes.INVOKEDYNAMIC, constants.GOTO_W, constants.JSR_W:
		return 5
	}
	return 1
}
