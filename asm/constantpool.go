package asm

import "github.com/sumimakito/asm/asm/symbol"

// putConstantPool serializes every interned symbol.Table entry into a
// cp_info array (JVMS 4.4), preceded by the u2 constant_pool_count. Entry
// order matches assignment order, which matches ascending index order
// since symbol.Table never reorders or reuses an index once assigned.
func putConstantPool(t *symbol.Table, output *ByteVector) {
	output.PutShort(t.Count() + 1)
	for _, e := range t.Entries() {
		switch e.Tag {
		case symbol.CONSTANT_UTF8_TAG:
			output.PutByte(e.Tag)
			output.PutUTF8(e.Name)
		case symbol.CONSTANT_CLASS_TAG, symbol.CONSTANT_STRING_TAG,
			symbol.CONSTANT_METHOD_TYPE_TAG, symbol.CONSTANT_MODULE_TAG, symbol.CONSTANT_PACKAGE_TAG:
			output.PutByte(e.Tag)
			output.PutShort(t.AddUtf8(e.Name))
		case symbol.CONSTANT_INTEGER_TAG, symbol.CONSTANT_FLOAT_TAG:
			output.PutByte(e.Tag)
			output.PutInt(int(int32(e.Data)))
		case symbol.CONSTANT_LONG_TAG, symbol.CONSTANT_DOUBLE_TAG:
			output.PutByte(e.Tag)
			output.PutLong(e.Data)
		case symbol.CONSTANT_NAME_AND_TYPE_TAG:
			output.PutByte(e.Tag)
			output.PutShort(t.AddUtf8(e.Name))
			output.PutShort(t.AddUtf8(e.Value))
		case symbol.CONSTANT_FIELDREF_TAG, symbol.CONSTANT_METHODREF_TAG, symbol.CONSTANT_INTERFACE_METHODREF_TAG:
			output.PutByte(e.Tag)
			output.PutShort(t.AddClass(e.Owner))
			output.PutShort(t.AddNameAndType(e.Name, e.Desc))
		case symbol.CONSTANT_METHOD_HANDLE_TAG:
			output.PutByte(e.Tag)
			output.PutByte(e.RefKind)
			output.PutShort(t.AddMethodref(e.Owner, e.Name, e.Desc, e.RefIsIface))
		case symbol.CONSTANT_INVOKE_DYNAMIC_TAG:
			output.PutByte(e.Tag)
			output.PutShort(e.BsmHandle)
			output.PutShort(t.AddNameAndType(e.Name, e.Desc))
		}
	}
}
