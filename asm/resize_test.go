package asm

import (
	"testing"

	"github.com/sumimakito/asm/asm/constants"
	"github.com/sumimakito/asm/asm/opcodes"
)

// TestResizeRewritesWidenedConditionalToGotoW builds a method with an IFEQ
// whose target sits far enough past a long run of NOPs to overflow a
// signed 16-bit relative offset. finish() must succeed (not fail with
// ErrOverflowLimit) and the committed code must contain a real
// reversed-condition short jump followed by a GOTO_W, with the pseudo
// opcode band gone.
func TestResizeRewritesWidenedConditionalToGotoW(t *testing.T) {
	cw := NewClassWriter(COMPUTE_MAXS)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "Far", "", "java/lang/Object", nil)

	mw := NewMethodWriter(cw, opcodes.ACC_PUBLIC|opcodes.ACC_STATIC, "m", "(I)V", "", nil)
	mw.VisitCode()

	end := &Label{}
	mw.VisitVarInsn(opcodes.ILOAD, 0)
	mw.VisitJumpInsn(opcodes.IFEQ, end)
	const nopCount = 33000
	for i := 0; i < nopCount; i++ {
		mw.VisitInsn(opcodes.NOP)
	}
	mw.VisitLabel(end)
	mw.VisitInsn(opcodes.RETURN)
	mw.VisitMaxs(0, 0)

	if err := mw.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	code := mw.code.Bytes()
	if len(code) != 2+8+nopCount+1 {
		t.Fatalf("committed code length = %d, want %d", len(code), 2+8+nopCount+1)
	}
	if code[2] != opcodes.IFNE {
		t.Fatalf("expanded conditional opcode = %d, want IFNE (%d)", code[2], opcodes.IFNE)
	}
	gotoWPos := 2 + 3
	if code[gotoWPos] != constants.GOTO_W {
		t.Fatalf("inserted jump opcode = %d, want GOTO_W (%d)", code[gotoWPos], constants.GOTO_W)
	}
	for _, b := range code {
		op := int(b)
		if op >= 202 && op <= 219 {
			t.Fatalf("pseudo-opcode %d survived the resize pass", op)
		}
	}

	endOffset, err := end.getOffset()
	if err != nil {
		t.Fatalf("end.getOffset failed: %v", err)
	}
	if endOffset != len(code)-1 {
		t.Fatalf("end label offset = %d, want %d (just before RETURN)", endOffset, len(code)-1)
	}
}

// TestPutCompactFrameChoosesMinimalDiffTags checks that putCompactFrame
// picks SAME for an unchanged frame and APPEND (not FULL_FRAME) when only
// new locals were added with an empty stack.
func TestPutCompactFrameChoosesMinimalDiffTags(t *testing.T) {
	table := NewByteVector(16)
	putCompactFrame(table, nil, 5, []int{INTEGER}, []int{INTEGER}, nil)
	same := table.Bytes()
	if len(same) != 1 || same[0] != 5 {
		t.Fatalf("SAME encoding = % x, want a single byte 5", same)
	}

	table2 := NewByteVector(16)
	putCompactFrame(table2, nil, 3, []int{INTEGER}, []int{INTEGER, INTEGER}, nil)
	appendBytes := table2.Bytes()
	if len(appendBytes) == 0 || appendBytes[0] != 252 {
		t.Fatalf("APPEND(+1) encoding = % x, want tag 252 first", appendBytes)
	}

	table3 := NewByteVector(16)
	putCompactFrame(table3, nil, 3, []int{INTEGER, INTEGER}, []int{INTEGER}, nil)
	chopBytes := table3.Bytes()
	if len(chopBytes) == 0 || chopBytes[0] != 250 {
		t.Fatalf("CHOP(-1) encoding = % x, want tag 250 first", chopBytes)
	}
}

func TestLogicalFrameTypesCollapsesTwoWordEntries(t *testing.T) {
	got := logicalFrameTypes([]int{INTEGER, LONG, TOP, FLOAT})
	want := []int{INTEGER, LONG, FLOAT}
	if !sameTypes(got, want) {
		t.Fatalf("logicalFrameTypes = %v, want %v", got, want)
	}
}
