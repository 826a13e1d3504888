package asm

import (
	"bytes"
	"testing"

	"github.com/sumimakito/asm/asm/opcodes"
)

func TestClassWriterToByteArrayProducesValidHeader(t *testing.T) {
	cw := NewClassWriter(COMPUTE_MAXS)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "Empty", "", "java/lang/Object", nil)
	cw.VisitEnd()

	out, err := cw.ToByteArray()
	if err != nil {
		t.Fatalf("ToByteArray failed: %v", err)
	}
	if len(out) < 10 {
		t.Fatalf("class bytes too short: %d", len(out))
	}
	magic := []byte{0xCA, 0xFE, 0xBA, 0xBE}
	if !bytes.Equal(out[:4], magic) {
		t.Fatalf("expected magic 0xCAFEBABE, got % x", out[:4])
	}
}

func TestClassWriterVisitFieldWithConstantValue(t *testing.T) {
	cw := NewClassWriter(COMPUTE_MAXS)
	cw.Visit(opcodes.V1_8, opcodes.ACC_PUBLIC|opcodes.ACC_SUPER, "WithField", "", "java/lang/Object", nil)
	fv := cw.VisitField(opcodes.ACC_PUBLIC|opcodes.ACC_STATIC, "ANSWER", "I", "", int32(42))
	if fv != nil {
		fv.VisitEnd()
	}
	cw.VisitEnd()

	out, err := cw.ToByteArray()
	if err != nil {
		t.Fatalf("ToByteArray failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty class bytes")
	}
}

func TestClassWriterVisitModuleBuildsModuleAttribute(t *testing.T) {
	cw := NewClassWriter(0)
	cw.Visit(opcodes.V1_8|0, opcodes.ACC_MODULE, "module-info", "", "java/lang/Object", nil)
	mv := cw.VisitModule("com.example.mod", opcodes.ACC_OPEN, "1.0")
	if mv == nil {
		t.Fatal("expected a non-nil ModuleVisitor")
	}
	mv.VisitRequire("java.base", opcodes.ACC_MANDATED, "")
	mv.VisitExport("com/example/mod/api", 0)
	mv.VisitEnd()
	cw.VisitEnd()

	out, err := cw.ToByteArray()
	if err != nil {
		t.Fatalf("ToByteArray failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty class bytes")
	}
}
