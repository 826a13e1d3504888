package asm

import "github.com/sumimakito/asm/asm/symbol"

// ModuleWriter implements ModuleVisitor by serializing the Module
// attribute's body, plus the separate ModulePackages and ModuleMainClass
// attributes it can pull in, per JVMS 4.7.25.
type ModuleWriter struct {
	symbolTable *symbol.Table

	moduleNameIndex int
	moduleFlags     int
	moduleVersionIndex int

	packages     *ByteVector
	numPackages  int

	requires      *ByteVector
	numRequires   int

	exports     *ByteVector
	numExports  int

	opens     *ByteVector
	numOpens  int

	uses      *ByteVector
	numUses   int

	provides     *ByteVector
	numProvides  int

	mainClassIndex int
}

// NewModuleWriter starts a Module attribute body. access is the
// module_flags bitmask, version the raw module version string (may be
// empty).
func NewModuleWriter(symbolTable *symbol.Table, name string, access int, version string) *ModuleWriter {
	w := &ModuleWriter{
		symbolTable:     symbolTable,
		moduleNameIndex: symbolTable.AddModule(name),
		moduleFlags:     access,
	}
	if version != "" {
		w.moduleVersionIndex = symbolTable.AddUtf8(version)
	}
	return w
}

func (w *ModuleWriter) VisitMainClass(mainClass string) {
	w.mainClassIndex = w.symbolTable.AddClass(mainClass)
}

func (w *ModuleWriter) VisitPackage(packaze string) {
	if w.packages == nil {
		w.packages = NewByteVector(16)
	}
	w.numPackages++
	w.packages.PutShort(w.symbolTable.AddPackage(packaze))
}

func (w *ModuleWriter) VisitRequire(module string, access int, version string) {
	if w.requires == nil {
		w.requires = NewByteVector(16)
	}
	w.numRequires++
	w.requires.PutShort(w.symbolTable.AddModule(module))
	w.requires.PutShort(access)
	versionIndex := 0
	if version != "" {
		versionIndex = w.symbolTable.AddUtf8(version)
	}
	w.requires.PutShort(versionIndex)
}

func (w *ModuleWriter) VisitExport(packaze string, access int, modules ...string) {
	if w.exports == nil {
		w.exports = NewByteVector(16)
	}
	w.numExports++
	w.exports.PutShort(w.symbolTable.AddPackage(packaze))
	w.exports.PutShort(access)
	w.exports.PutShort(len(modules))
	for _, m := range modules {
		w.exports.PutShort(w.symbolTable.AddModule(m))
	}
}

func (w *ModuleWriter) VisitOpen(packaze string, access int, modules ...string) {
	if w.opens == nil {
		w.opens = NewByteVector(16)
	}
	w.numOpens++
	w.opens.PutShort(w.symbolTable.AddPackage(packaze))
	w.opens.PutShort(access)
	w.opens.PutShort(len(modules))
	for _, m := range modules {
		w.opens.PutShort(w.symbolTable.AddModule(m))
	}
}

func (w *ModuleWriter) VisitUse(service string) {
	if w.uses == nil {
		w.uses = NewByteVector(16)
	}
	w.numUses++
	w.uses.PutShort(w.symbolTable.AddClass(service))
}

func (w *ModuleWriter) VisitProvide(service string, providers ...string) {
	if w.provides == nil {
		w.provides = NewByteVector(16)
	}
	w.numProvides++
	w.provides.PutShort(w.symbolTable.AddClass(service))
	w.provides.PutShort(len(providers))
	for _, p := range providers {
		w.provides.PutShort(w.symbolTable.AddClass(p))
	}
}

func (w *ModuleWriter) VisitEnd() {}

func vectorLen(v *ByteVector) int {
	if v == nil {
		return 0
	}
	return v.Len()
}

// attributeCount returns how many class-level attributes this module
// contributes: "Module" itself, plus "ModulePackages" and
// "ModuleMainClass" when present.
func (w *ModuleWriter) attributeCount() int {
	count := 1
	if w.packages != nil {
		count++
	}
	if w.mainClassIndex != 0 {
		count++
	}
	return count
}

// computeSize returns the total byte size of every attribute this module
// contributes (attribute header included).
func (w *ModuleWriter) computeSize(symbolTable *symbol.Table) int {
	symbolTable.AddUtf8("Module")
	size := 6 + 6 + 2 + vectorLen(w.requires) + 2 + vectorLen(w.exports) + 2 + vectorLen(w.opens) + 2 + vectorLen(w.uses) + 2 + vectorLen(w.provides)
	if w.packages != nil {
		symbolTable.AddUtf8("ModulePackages")
		size += 8 + w.packages.Len()
	}
	if w.mainClassIndex != 0 {
		symbolTable.AddUtf8("ModuleMainClass")
		size += 8
	}
	return size
}

// put writes the Module, ModulePackages and ModuleMainClass attributes
// to output.
func (w *ModuleWriter) put(symbolTable *symbol.Table, output *ByteVector) {
	output.PutShort(symbolTable.AddUtf8("Module"))
	moduleAttributeLength := 6 + 2 + vectorLen(w.requires) + 2 + vectorLen(w.exports) + 2 + vectorLen(w.opens) + 2 + vectorLen(w.uses) + 2 + vectorLen(w.provides)
	output.PutInt(moduleAttributeLength)
	output.PutShort(w.moduleNameIndex)
	output.PutShort(w.moduleFlags)
	output.PutShort(w.moduleVersionIndex)

	output.PutShort(w.numRequires)
	if w.requires != nil {
		output.PutByteVector(w.requires)
	}
	output.PutShort(w.numExports)
	if w.exports != nil {
		output.PutByteVector(w.exports)
	}
	output.PutShort(w.numOpens)
	if w.opens != nil {
		output.PutByteVector(w.opens)
	}
	output.PutShort(w.numUses)
	if w.uses != nil {
		output.PutByteVector(w.uses)
	}
	output.PutShort(w.numProvides)
	if w.provides != nil {
		output.PutByteVector(w.provides)
	}

	if w.packages != nil {
		output.PutShort(symbolTable.AddUtf8("ModulePackages"))
		output.PutInt(2 + w.packages.Len())
		output.PutShort(w.numPackages)
		output.PutByteVector(w.packages)
	}
	if w.mainClassIndex != 0 {
		output.PutShort(symbolTable.AddUtf8("ModuleMainClass"))
		output.PutInt(2)
		output.PutShort(w.mainClassIndex)
	}
}
