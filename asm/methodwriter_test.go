package asm

import (
	"testing"

	"github.com/sumimakito/asm/asm/opcodes"
)

// buildAddMethod assembles:
//
//	static int add(int a, int b) { return a + b; }
//
// and returns the finished class bytes.
func buildAddMethod(t *testing.T, compute int) []byte {
	t.Helper()
	cw := NewClassWriter(compute)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "Adder", "", "java/lang/Object", nil)

	mv := cw.VisitMethod(opcodes.ACC_PUBLIC|opcodes.ACC_STATIC, "add", "(II)I", "", nil)
	mv.VisitCode()
	mv.VisitVarInsn(opcodes.ILOAD, 0)
	mv.VisitVarInsn(opcodes.ILOAD, 1)
	mv.VisitInsn(opcodes.IADD)
	mv.VisitInsn(opcodes.IRETURN)
	mv.VisitMaxs(0, 0)
	mv.VisitEnd()

	bytes, err := cw.ToByteArray()
	if err != nil {
		t.Fatalf("ToByteArray failed: %v", err)
	}
	return bytes
}

func TestMethodWriterComputesMaxsForSimpleMethod(t *testing.T) {
	buildAddMethod(t, COMPUTE_MAXS)
}

func TestMethodWriterCodeBytesMatchInstructionSequence(t *testing.T) {
	cw := NewClassWriter(COMPUTE_MAXS)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "Adder", "", "java/lang/Object", nil)

	mw := NewMethodWriter(cw, opcodes.ACC_PUBLIC|opcodes.ACC_STATIC, "add", "(II)I", "", nil)
	mw.VisitCode()
	mw.VisitVarInsn(opcodes.ILOAD, 0)
	mw.VisitVarInsn(opcodes.ILOAD, 1)
	mw.VisitInsn(opcodes.IADD)
	mw.VisitInsn(opcodes.IRETURN)
	mw.VisitMaxs(0, 0)

	if err := mw.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	want := []byte{
		byte(opcodes.ILOAD), 0,
		byte(opcodes.ILOAD), 1,
		byte(opcodes.IADD),
		byte(opcodes.IRETURN),
	}
	got := mw.code.Bytes()
	if len(got) != len(want) {
		t.Fatalf("code length = %d, want %d (% x)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("code[%d] = %#x, want %#x (% x)", i, got[i], want[i], got)
		}
	}
	if mw.maxStack != 2 {
		t.Fatalf("maxStack = %d, want 2", mw.maxStack)
	}
	if mw.maxLocals != 2 {
		t.Fatalf("maxLocals = %d, want 2", mw.maxLocals)
	}
}

func TestMethodWriterJsrUnderComputeFramesFails(t *testing.T) {
	cw := NewClassWriter(COMPUTE_FRAMES)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "Sub", "", "java/lang/Object", nil)

	mw := NewMethodWriter(cw, opcodes.ACC_PUBLIC|opcodes.ACC_STATIC, "m", "()V", "", nil)
	mw.VisitCode()
	label := &Label{}
	mw.VisitJumpInsn(opcodes.JSR, label)
	mw.VisitLabel(label)
	mw.VisitInsn(opcodes.RETURN)
	mw.VisitMaxs(0, 0)

	if err := mw.finish(); err == nil {
		t.Fatal("expected finish to fail for a JSR under COMPUTE_FRAMES")
	}
}

func TestMethodWriterBranchAndLabel(t *testing.T) {
	// static void loop() { goto L; L: return; }
	cw := NewClassWriter(COMPUTE_MAXS)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "Loop", "", "java/lang/Object", nil)

	mw := NewMethodWriter(cw, opcodes.ACC_PUBLIC|opcodes.ACC_STATIC, "loop", "()V", "", nil)
	mw.VisitCode()
	end := &Label{}
	mw.VisitJumpInsn(opcodes.GOTO, end)
	mw.VisitLabel(end)
	mw.VisitInsn(opcodes.RETURN)
	mw.VisitMaxs(0, 0)

	if err := mw.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if mw.maxStack < 0 {
		t.Fatalf("maxStack should never be negative, got %d", mw.maxStack)
	}
}

func TestMethodWriterComputeFramesMergesBranches(t *testing.T) {
	// static Object pick(boolean b) {
	//   Object o;
	//   if (b) o = "x"; else o = new Object();
	//   return o;
	// }
	cw := NewClassWriter(COMPUTE_FRAMES)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "Pick", "", "java/lang/Object", nil)

	mw := NewMethodWriter(cw, opcodes.ACC_PUBLIC|opcodes.ACC_STATIC, "pick", "(Z)Ljava/lang/Object;", "", nil)
	mw.VisitCode()

	elseLabel := &Label{}
	endLabel := &Label{}

	mw.VisitVarInsn(opcodes.ILOAD, 0)
	mw.VisitJumpInsn(opcodes.IFEQ, elseLabel)
	mw.VisitLdcInsn("x")
	mw.VisitVarInsn(opcodes.ASTORE, 1)
	mw.VisitJumpInsn(opcodes.GOTO, endLabel)

	mw.VisitLabel(elseLabel)
	mw.VisitTypeInsn(opcodes.NEW, "java/lang/Object")
	mw.VisitInsn(opcodes.DUP)
	mw.VisitMethodInsn(opcodes.INVOKESPECIAL, "java/lang/Object", "<init>", "()V")
	mw.VisitVarInsn(opcodes.ASTORE, 1)

	mw.VisitLabel(endLabel)
	mw.VisitVarInsn(opcodes.ALOAD, 1)
	mw.VisitInsn(opcodes.ARETURN)
	mw.VisitMaxs(0, 0)
	mw.VisitEnd()

	if err := mw.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if mw.maxLocals < 2 {
		t.Fatalf("expected at least 2 locals (the boolean param and the merged object), got %d", mw.maxLocals)
	}

	table := mw.buildStackMapTable(cw.SymbolTable())
	if table == nil || table.Len() == 0 {
		t.Fatalf("expected a non-empty StackMapTable for a method with a real branch merge")
	}
}

func TestMethodWriterTryCatchBlockAddsHandlerEdge(t *testing.T) {
	// static void guarded() {
	//   try { throw new RuntimeException(); }
	//   catch (RuntimeException e) { }
	// }
	cw := NewClassWriter(COMPUTE_FRAMES)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "Guarded", "", "java/lang/Object", nil)

	mw := NewMethodWriter(cw, opcodes.ACC_PUBLIC|opcodes.ACC_STATIC, "guarded", "()V", "", nil)
	mw.VisitCode()

	start := &Label{}
	end := &Label{}
	handler := &Label{}
	done := &Label{}

	mw.VisitTryCatchBlock(start, end, handler, "java/lang/RuntimeException")

	mw.VisitLabel(start)
	mw.VisitTypeInsn(opcodes.NEW, "java/lang/RuntimeException")
	mw.VisitInsn(opcodes.DUP)
	mw.VisitMethodInsn(opcodes.INVOKESPECIAL, "java/lang/RuntimeException", "<init>", "()V")
	mw.VisitInsn(opcodes.ATHROW)
	mw.VisitLabel(end)
	mw.VisitJumpInsn(opcodes.GOTO, done)

	mw.VisitLabel(handler)
	mw.VisitVarInsn(opcodes.ASTORE, 0)

	mw.VisitLabel(done)
	mw.VisitInsn(opcodes.RETURN)
	mw.VisitMaxs(0, 0)
	mw.VisitEnd()

	if err := mw.finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	bytes, err := cw.ToByteArray()
	if err != nil {
		t.Fatalf("ToByteArray failed: %v", err)
	}
	if len(bytes) == 0 {
		t.Fatal("expected non-empty class bytes")
	}
}
