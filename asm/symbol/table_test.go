package symbol

import "testing"

func TestAddUtf8Dedup(t *testing.T) {
	tab := NewTable()
	a := tab.AddUtf8("hello")
	b := tab.AddUtf8("hello")
	if a != b {
		t.Fatalf("expected the same UTF8 entry to be reused, got %d and %d", a, b)
	}
	c := tab.AddUtf8("world")
	if c == a {
		t.Fatalf("expected a distinct index for a different string")
	}
}

func TestAddLongDoubleReserveTwoSlots(t *testing.T) {
	tab := NewTable()
	first := tab.AddLong(1)
	second := tab.AddUtf8("after-long")
	if second != first+2 {
		t.Fatalf("expected the entry after a Long to be index+2, got first=%d second=%d", first, second)
	}
}

func TestAddFieldrefAndMethodrefDedup(t *testing.T) {
	tab := NewTable()
	f1 := tab.AddFieldref("Owner", "field", "I")
	f2 := tab.AddFieldref("Owner", "field", "I")
	if f1 != f2 {
		t.Fatalf("expected fieldref interning to dedup identical refs")
	}
	m := tab.AddMethodref("Owner", "method", "()V", false)
	if m == f1 {
		t.Fatalf("expected a fieldref and a methodref to occupy distinct entries")
	}
}

func TestAddTypeAndAddUninitializedTypeAreDistinctTables(t *testing.T) {
	tab := NewTable()
	plain := tab.AddType("java/lang/Object")
	uninit1 := tab.AddUninitializedType("java/lang/Object", 10)
	uninit2 := tab.AddUninitializedType("java/lang/Object", 20)

	if uninit1 == uninit2 {
		t.Fatalf("two NEW sites for the same class must get distinct type-table slots")
	}
	if tab.TypeInternalName(plain) != "java/lang/Object" {
		t.Fatalf("expected plain type-table entry to preserve the internal name")
	}
	if tab.TypeNewOffset(plain) != -1 {
		t.Fatalf("expected a plain OBJECT type-table entry to have newOffset -1")
	}
	if tab.TypeNewOffset(uninit1) != 10 || tab.TypeNewOffset(uninit2) != 20 {
		t.Fatalf("expected uninitialized entries to keep their own allocation-site offsets")
	}
}

func TestMergedTypeSameIndexShortCircuits(t *testing.T) {
	tab := NewTable()
	idx := tab.AddType("java/lang/String")
	if tab.MergedType(idx, idx) != idx {
		t.Fatalf("merging a type with itself should return the same index")
	}
}

func TestMergedTypeFallsBackToObjectWithoutOracle(t *testing.T) {
	tab := NewTable()
	a := tab.AddType("java/lang/String")
	b := tab.AddType("java/lang/Integer")
	merged := tab.MergedType(a, b)
	if tab.TypeInternalName(merged) != "java/lang/Object" {
		t.Fatalf("expected the fallback oracle result to be java/lang/Object, got %q", tab.TypeInternalName(merged))
	}
}

func TestMergedTypeUsesSuperClassOracle(t *testing.T) {
	tab := NewTable()
	tab.SuperClassOracle = func(a, b string) string {
		return "java/lang/Number"
	}
	a := tab.AddType("java/lang/Integer")
	b := tab.AddType("java/lang/Double")
	merged := tab.MergedType(a, b)
	if tab.TypeInternalName(merged) != "java/lang/Number" {
		t.Fatalf("expected the configured oracle's result, got %q", tab.TypeInternalName(merged))
	}
}

func TestCountReflectsReservedWidth(t *testing.T) {
	tab := NewTable()
	tab.AddUtf8("a")
	tab.AddLong(1)
	if tab.Count() != 3 {
		t.Fatalf("expected count 3 (1 utf8 + 2 for long), got %d", tab.Count())
	}
}
