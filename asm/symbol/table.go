package symbol

import "fmt"

// Table is the ConstantPool-shaped collaborator documented in spec.md §6.
// It interns the numeric, string, class, name-and-type and member
// reference entries a class file needs, assigns them 1-based indices, and
// maintains the auxiliary "type table" that stack-map frame OBJECT and
// UNINITIALIZED entries index into (spec.md §3, §4.3).
//
// spec.md §1 scopes constant-pool storage out of the core as an external
// collaborator; this is the minimal concrete stand-in for that contract,
// not a reimplementation of a verifier or class loader.
type Table struct {
	entries   map[string]*Entry
	order     []*Entry
	nextIndex int
	typeTable []*typeTableEntry
	typeIndex map[string]int
	// SuperClassOracle resolves the common superclass of two internal
	// class names for expensive-mode frame merging (spec.md §4.3). When
	// nil, MergedType falls back to "java/lang/Object".
	SuperClassOracle func(a, b string) string
}

// Entry is one constant-pool slot. Index is the 1-based pool index
// assigned to it. Tag is one of the CONSTANT_*_TAG values below.
type Entry struct {
	Index       int
	Tag         int
	Name        string // UTF8 value, class/package/module internal name
	Value       string // NameAndType descriptor, or owner for refs
	Owner       string
	Desc        string
	Data        int64 // numeric constants
	RefKind     int   // method handle reference_kind
	RefIsIface  bool
	BsmArgs     []int
	BsmHandle   int
}

type typeTableEntry struct {
	internalName string
	newOffset    int // -1 for a plain OBJECT type-table entry
}

// NewTable returns an empty constant pool with index 0 reserved (the JVM
// constant pool has no entry at index 0).
func NewTable() *Table {
	return &Table{
		entries:   make(map[string]*Entry),
		order:     make([]*Entry, 0, 64),
		nextIndex: 1,
		typeIndex: make(map[string]int),
	}
}

func (t *Table) intern(key string, build func(index int) *Entry) *Entry {
	return t.internWidth(key, 1, build)
}

// internWidth is intern but reserves width consecutive pool indices for
// this entry (JVMS 4.4.5: CONSTANT_Long_info and CONSTANT_Double_info
// each count as two entries, so the entry immediately following one is
// assigned index+2, not index+1).
func (t *Table) internWidth(key string, width int, build func(index int) *Entry) *Entry {
	if e, ok := t.entries[key]; ok {
		return e
	}
	e := build(t.nextIndex)
	t.nextIndex += width
	t.entries[key] = e
	t.order = append(t.order, e)
	return e
}

// Count returns the highest constant-pool index assigned so far (so
// constant_pool_count is Count()+1).
func (t *Table) Count() int {
	return t.nextIndex - 1
}

// Entries returns the interned entries in assignment order.
func (t *Table) Entries() []*Entry {
	return t.order
}

// AddUtf8 interns a CONSTANT_Utf8_info and returns its index.
func (t *Table) AddUtf8(value string) int {
	return t.intern("u:"+value, func(i int) *Entry {
		return &Entry{Index: i, Tag: CONSTANT_UTF8_TAG, Name: value}
	}).Index
}

// AddClass interns a CONSTANT_Class_info (via its UTF8 name) and returns
// its index.
func (t *Table) AddClass(internalName string) int {
	return t.intern("c:"+internalName, func(i int) *Entry {
		t.AddUtf8(internalName)
		return &Entry{Index: i, Tag: CONSTANT_CLASS_TAG, Name: internalName}
	}).Index
}

// AddPackage interns a CONSTANT_Package_info.
func (t *Table) AddPackage(internalName string) int {
	return t.intern("p:"+internalName, func(i int) *Entry {
		t.AddUtf8(internalName)
		return &Entry{Index: i, Tag: CONSTANT_PACKAGE_TAG, Name: internalName}
	}).Index
}

// AddModule interns a CONSTANT_Module_info.
func (t *Table) AddModule(name string) int {
	return t.intern("m:"+name, func(i int) *Entry {
		t.AddUtf8(name)
		return &Entry{Index: i, Tag: CONSTANT_MODULE_TAG, Name: name}
	}).Index
}

// AddNameAndType interns a CONSTANT_NameAndType_info.
func (t *Table) AddNameAndType(name, descriptor string) int {
	key := "nt:" + name + ":" + descriptor
	return t.intern(key, func(i int) *Entry {
		t.AddUtf8(name)
		t.AddUtf8(descriptor)
		return &Entry{Index: i, Tag: CONSTANT_NAME_AND_TYPE_TAG, Name: name, Value: descriptor}
	}).Index
}

// AddConstantString interns a CONSTANT_String_info.
func (t *Table) AddConstantString(value string) int {
	return t.intern("s:"+value, func(i int) *Entry {
		t.AddUtf8(value)
		return &Entry{Index: i, Tag: CONSTANT_STRING_TAG, Name: value}
	}).Index
}

// AddInteger interns a CONSTANT_Integer_info.
func (t *Table) AddInteger(value int32) int {
	return t.addNumeric(CONSTANT_INTEGER_TAG, int64(uint32(value)))
}

// AddFloat interns a CONSTANT_Float_info holding the raw IEEE-754 bit
// pattern of a float32.
func (t *Table) AddFloat(bits uint32) int {
	return t.addNumeric(CONSTANT_FLOAT_TAG, int64(bits))
}

// AddLong interns a CONSTANT_Long_info.
func (t *Table) AddLong(value int64) int {
	return t.addNumeric(CONSTANT_LONG_TAG, value)
}

// AddDouble interns a CONSTANT_Double_info holding the raw IEEE-754 bit
// pattern of a float64.
func (t *Table) AddDouble(bits uint64) int {
	return t.addNumeric(CONSTANT_DOUBLE_TAG, int64(bits))
}

func (t *Table) addNumeric(tag int, bits int64) int {
	width := 1
	if tag == CONSTANT_LONG_TAG || tag == CONSTANT_DOUBLE_TAG {
		width = 2
	}
	key := fmt.Sprintf("n:%d:%d", tag, bits)
	return t.internWidth(key, width, func(i int) *Entry {
		return &Entry{Index: i, Tag: tag, Data: bits}
	}).Index
}

// AddFieldref interns a CONSTANT_Fieldref_info.
func (t *Table) AddFieldref(owner, name, descriptor string) int {
	return t.addMemberRef(CONSTANT_FIELDREF_TAG, owner, name, descriptor)
}

// AddMethodref interns a CONSTANT_Methodref_info or
// CONSTANT_InterfaceMethodref_info.
func (t *Table) AddMethodref(owner, name, descriptor string, isInterface bool) int {
	tag := CONSTANT_METHODREF_TAG
	if isInterface {
		tag = CONSTANT_INTERFACE_METHODREF_TAG
	}
	return t.addMemberRef(tag, owner, name, descriptor)
}

func (t *Table) addMemberRef(tag int, owner, name, descriptor string) int {
	key := fmt.Sprintf("r:%d:%s.%s:%s", tag, owner, name, descriptor)
	return t.intern(key, func(i int) *Entry {
		t.AddClass(owner)
		t.AddNameAndType(name, descriptor)
		return &Entry{Index: i, Tag: tag, Owner: owner, Name: name, Desc: descriptor}
	}).Index
}

// AddMethodHandle interns a CONSTANT_MethodHandle_info.
func (t *Table) AddMethodHandle(referenceKind int, owner, name, descriptor string, isInterface bool) int {
	key := fmt.Sprintf("mh:%d:%s.%s:%s", referenceKind, owner, name, descriptor)
	return t.intern(key, func(i int) *Entry {
		refTag := CONSTANT_METHODREF_TAG
		if isInterface {
			refTag = CONSTANT_INTERFACE_METHODREF_TAG
		}
		t.addMemberRef(refTag, owner, name, descriptor)
		return &Entry{Index: i, Tag: CONSTANT_METHOD_HANDLE_TAG, Owner: owner, Name: name, Desc: descriptor, RefKind: referenceKind, RefIsIface: isInterface}
	}).Index
}

// AddMethodType interns a CONSTANT_MethodType_info.
func (t *Table) AddMethodType(descriptor string) int {
	return t.intern("mt:"+descriptor, func(i int) *Entry {
		t.AddUtf8(descriptor)
		return &Entry{Index: i, Tag: CONSTANT_METHOD_TYPE_TAG, Name: descriptor}
	}).Index
}

// AddInvokeDynamic interns a CONSTANT_InvokeDynamic_info. bootstrapMethodIndex
// is the index into the class's BootstrapMethods attribute.
func (t *Table) AddInvokeDynamic(bootstrapMethodIndex int, name, descriptor string) int {
	key := fmt.Sprintf("id:%d:%s:%s", bootstrapMethodIndex, name, descriptor)
	return t.intern(key, func(i int) *Entry {
		t.AddNameAndType(name, descriptor)
		return &Entry{Index: i, Tag: CONSTANT_INVOKE_DYNAMIC_TAG, Name: name, Desc: descriptor, BsmHandle: bootstrapMethodIndex}
	}).Index
}

// ---------------------------------------------------------------------
// Type table (spec.md §3, §4.3): interning of reference internal names
// and uninitialized-allocation sites, indexed into by OBJECT and
// UNINITIALIZED frame types.
// ---------------------------------------------------------------------

// AddType interns a plain OBJECT reference type and returns its type-table
// index.
func (t *Table) AddType(internalName string) int {
	if idx, ok := t.typeIndex[internalName]; ok {
		return idx
	}
	idx := len(t.typeTable)
	t.typeTable = append(t.typeTable, &typeTableEntry{internalName: internalName, newOffset: -1})
	t.typeIndex[internalName] = idx
	return idx
}

// AddUninitializedType interns an UNINITIALIZED reference for the
// allocation site at newOffset (the bytecode offset of the NEW
// instruction), keyed on (internalName, newOffset) so two NEW sites for the
// same class at different offsets get distinct type-table slots.
func (t *Table) AddUninitializedType(internalName string, newOffset int) int {
	key := fmt.Sprintf("%s@%d", internalName, newOffset)
	if idx, ok := t.typeIndex[key]; ok {
		return idx
	}
	idx := len(t.typeTable)
	t.typeTable = append(t.typeTable, &typeTableEntry{internalName: internalName, newOffset: newOffset})
	t.typeIndex[key] = idx
	return idx
}

// TypeInternalName returns the internal name recorded at a type-table
// index.
func (t *Table) TypeInternalName(idx int) string {
	return t.typeTable[idx].internalName
}

// TypeNewOffset returns the allocation-site offset recorded at a
// type-table index, or -1 for a plain OBJECT entry.
func (t *Table) TypeNewOffset(idx int) int {
	return t.typeTable[idx].newOffset
}

// SetTypeNewOffset updates the allocation-site offset recorded at a
// type-table index. Used by the resize pass to keep an UNINITIALIZED
// verification_type_info in sync once its NEW instruction's position shifts.
func (t *Table) SetTypeNewOffset(idx, newOffset int) {
	t.typeTable[idx].newOffset = newOffset
}

// MergedType returns the type-table index of the common supertype of the
// two given type-table indices, per the expensive-mode merge rule of
// spec.md §4.3 ("two reference types of the same DIM -> commonSuperclass
// via an externally provided class-hierarchy oracle"). The result is
// memoized in the type table as an ordinary OBJECT entry.
func (t *Table) MergedType(typeIdxA, typeIdxB int) int {
	if typeIdxA == typeIdxB {
		return typeIdxA
	}
	a := t.TypeInternalName(typeIdxA)
	b := t.TypeInternalName(typeIdxB)
	key := "merge:" + a + "|" + b
	if idx, ok := t.typeIndex[key]; ok {
		return idx
	}
	var super string
	if t.SuperClassOracle != nil {
		super = t.SuperClassOracle(a, b)
	} else {
		super = "java/lang/Object"
	}
	idx := t.AddType(super)
	t.typeIndex[key] = idx
	return idx
}
