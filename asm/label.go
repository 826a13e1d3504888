package asm

import (
	"github.com/sumimakito/asm/asm/constants"
	"github.com/sumimakito/asm/asm/opcodes"
)

// Label status bits (spec.md §3). DEBUG_ONLY means the label exists only
// for a LocalVariableTable/LineNumberTable entry and is not itself a
// basic-block boundary. JUMP_TARGET/RESOLVED are the TARGET/RESOLVED bits
// of the {DEBUG, RESOLVED, RESIZED, TARGET, STORE} set named in spec.md
// §3; REACHABLE and the SUBROUTINE_* bits support the cheap-mode jsr/ret
// handling of spec.md §4.3.
const FLAG_DEBUG_ONLY = 1
const FLAG_JUMP_TARGET = 2
const FLAG_RESOLVED = 4
const FLAG_REACHABLE = 8
const FLAG_SUBROUTINE_CALLER = 16
const FLAG_SUBROUTINE_START = 32
const FLAG_SUBROUTINE_BODY = 64
const FLAG_SUBROUTINE_END = 128

// FLAG_STORE marks a label whose computed stack-map frame must actually be
// serialized into the StackMapTable (spec.md §4.3: "the frames actually
// emitted are attached to labels carrying the STORE flag").
const FLAG_STORE = 256

const LINE_NUMBERS_CAPACITY_INCREMENT = 4
const VALUES_CAPACITY_INCREMENT = 6

// Forward-reference encoding (spec.md §4.2 label-put/label-resolve
// protocol): each pending reference occupies two ints in Label.values —
// the bytecode offset of the referencing instruction's opcode, and a
// (referenceType | referenceHandle) pair where referenceHandle is the
// bytecode offset of the 2- or 4-byte operand slot to patch.
const FORWARD_REFERENCE_TYPE_MASK = 0xF0000000
const FORWARD_REFERENCE_TYPE_SHORT = 0x10000000
const FORWARD_REFERENCE_TYPE_WIDE = 0x20000000
const FORWARD_REFERENCE_HANDLE_MASK = 0x0FFFFFFF

// Label is a position token within the bytecode of a single method. See
// spec.md §3 for the field-level contract.
type Label struct {
	flags            int16
	lineNumber       int16
	otherLineNumbers []int

	// bytecodeOffset is this label's byte offset within the method body,
	// valid iff FLAG_RESOLVED is set.
	bytecodeOffset int

	// values/valueCount hold the forward references recorded by put before
	// this label is resolved (see the encoding above); resolve patches each
	// of them. Frame data is kept in the separate frame field, not here.
	values     []int
	valueCount int16

	// Cheap-mode (max-stack only) bookkeeping, populated by the frame
	// engine's simulate/merge passes (spec.md §4.3).
	inputStackSize  int16
	outputStackSize int16
	outputStackMax  int16

	// frame is non-nil exactly when this label is a basic-block boundary
	// participating in full stack-map computation.
	frame *Frame

	// nextBasicBlock chains labels in the order basic blocks were created,
	// used to walk every block of a method once frame computation is done.
	nextBasicBlock *Label

	// outgoingEdges is the head of this block's successor edge list.
	outgoingEdges *Edge

	// nextListElement chains this label into the fix-point work queue; nil
	// when not currently enqueued.
	nextListElement *Label
}

func (l *Label) getOffset() (int, error) {
	if (l.flags & FLAG_RESOLVED) == 0 {
		return 0, newEmitError(ErrIllegalState, "Label.getOffset", -1)
	}
	return l.bytecodeOffset, nil
}

// getCanonicalInstance returns the Label object that owns the Frame for
// this basic block. Several Label instances can apply to the same
// bytecode offset (e.g. a debug label colocated with a real jump target);
// only one of them owns the Frame.
func (l *Label) getCanonicalInstance() *Label {
	if l.frame == nil {
		return l
	}
	return l.frame.owner
}

func (l *Label) addLineNumber(lineNumber int) {
	if l.lineNumber == 0 {
		l.lineNumber = int16(lineNumber)
		return
	}
	if l.otherLineNumbers == nil {
		l.otherLineNumbers = make([]int, LINE_NUMBERS_CAPACITY_INCREMENT)
	}
	otherLineNumberCount := l.otherLineNumbers[0]
	l.otherLineNumbers[0]++
	if otherLineNumberCount+1 >= len(l.otherLineNumbers) {
		newLineNumbers := make([]int, len(l.otherLineNumbers)+VALUES_CAPACITY_INCREMENT)
		copy(newLineNumbers, l.otherLineNumbers)
		l.otherLineNumbers = newLineNumbers
	}
	l.otherLineNumbers[otherLineNumberCount+1] = lineNumber
}

func (l *Label) accept(methodVisitor MethodVisitor, visitLineNumbers bool) {
	methodVisitor.VisitLabel(l)
	if visitLineNumbers && l.lineNumber != 0 {
		methodVisitor.VisitLineNumber(int(l.lineNumber)&0xFFFF, l)
		if l.otherLineNumbers != nil {
			for i := 1; i <= l.otherLineNumbers[0]; i++ {
				methodVisitor.VisitLineNumber(l.otherLineNumbers[i], l)
			}
		}
	}
}

// addForwardReference records a pending patch for a branch instruction
// emitted before its target's position was known.
func (l *Label) addForwardReference(sourceInsn, referenceType, referenceHandle int) {
	if l.values == nil {
		l.values = make([]int, VALUES_CAPACITY_INCREMENT)
	}
	if int(l.valueCount)+2 > len(l.values) {
		newValues := make([]int, len(l.values)+VALUES_CAPACITY_INCREMENT)
		copy(newValues, l.values)
		l.values = newValues
	}
	l.values[l.valueCount] = sourceInsn
	l.valueCount++
	l.values[l.valueCount] = referenceType | referenceHandle
	l.valueCount++
}

// put implements the label-put protocol of spec.md §4.2: if the label is
// already resolved, write the relative offset directly; otherwise append a
// placeholder and a forward-reference record. sourceInsn is the bytecode
// offset of the branch instruction's opcode byte. Returns true if writing
// this reference immediately required widening the instruction in place
// (a resolved backward branch whose offset no longer fits in 16 bits).
func (l *Label) put(code *ByteVector, sourceInsn int, wideReference bool) bool {
	if (l.flags & FLAG_RESOLVED) == 0 {
		if wideReference {
			l.addForwardReference(sourceInsn, FORWARD_REFERENCE_TYPE_WIDE, code.Len())
			code.PutInt(-1)
		} else {
			l.addForwardReference(sourceInsn, FORWARD_REFERENCE_TYPE_SHORT, code.Len())
			code.PutShort(0xFFFF)
		}
		return false
	}
	relativeOffset := l.bytecodeOffset - sourceInsn
	if wideReference {
		code.PutInt(relativeOffset)
		return false
	}
	if relativeOffset < -32768 || relativeOffset > 32767 {
		widenOpcodeInPlace(code, sourceInsn)
		code.PutShort(relativeOffset & 0xFFFF)
		return true
	}
	code.PutShort(relativeOffset)
	return false
}

// widenOpcodeInPlace rewrites the jump opcode at offset into its internal
// pseudo-opcode counterpart (spec.md §4.2), so the resize pass can later
// replace it with a real wide-branch sequence.
func widenOpcodeInPlace(code *ByteVector, offset int) {
	data := code.data
	opcode := int(data[offset])
	if opcode <= opcodes.JSR {
		data[offset] = byte(opcode + constants.ASM_OPCODE_DELTA)
	} else {
		data[offset] = byte(opcode + constants.ASM_IFNULL_OPCODE_DELTA)
	}
}

// resolve implements the label-resolve protocol of spec.md §4.2: mark this
// label's position, then patch every pending forward reference. Returns
// true if at least one reference required widening (so the caller should
// schedule a resize pass).
func (l *Label) resolve(code *ByteVector, bytecodeOffset int) bool {
	l.flags |= FLAG_RESOLVED
	l.bytecodeOffset = bytecodeOffset
	if l.valueCount == 0 {
		return false
	}
	data := code.data
	hasAsmInstructions := false
	for i := 0; i < int(l.valueCount); i += 2 {
		sourceInsnBytecodeOffset := l.values[i]
		reference := l.values[i+1]
		relativeOffset := bytecodeOffset - sourceInsnBytecodeOffset
		handle := reference & FORWARD_REFERENCE_HANDLE_MASK
		if (reference & FORWARD_REFERENCE_TYPE_MASK) == FORWARD_REFERENCE_TYPE_SHORT {
			if relativeOffset < -32768 || relativeOffset > 32767 {
				widenOpcodeInPlace(code, handle-1)
				hasAsmInstructions = true
			}
			data[handle] = byte(relativeOffset >> 8)
			data[handle+1] = byte(relativeOffset)
		} else {
			data[handle] = byte(relativeOffset >> 24)
			data[handle+1] = byte(relativeOffset >> 16)
			data[handle+2] = byte(relativeOffset >> 8)
			data[handle+3] = byte(relativeOffset)
		}
	}
	return hasAsmInstructions
}
