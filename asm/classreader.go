package asm

import (
	"errors"
	"math"
	"unicode/utf16"

	"github.com/sumimakito/asm/asm/constants"
	"github.com/sumimakito/asm/asm/opcodes"
	"github.com/sumimakito/asm/asm/symbol"
	"github.com/sumimakito/asm/asm/typed"
)

// ClassReader A parser to make a {@link ClassVisitor} visit a ClassFile structure, as defined in the Java
// Virtual Machine Specification (JVMS). This class parses the ClassFile content and calls the
// appropriate visit methods of a given {@link ClassVisitor} for each field, method and bytecode
// instruction encountered.
type ClassReader struct {
	b                  []byte
	cpInfoOffsets      []int
	constantUtf8Values []string
	maxStringLength    int
	header             int
}

// SKIP_CODE a flag to skip the Code attributes. If this flag is set the Code attributes are neither parsed nor visited.
const SKIP_CODE = 1

// SKIP_DEBUG a flag to skip the SourceFile, SourceDebugExtension, LocalVariableTable, LocalVariableTypeTable
// and LineNumberTable attributes. If this flag is set these attributes are neither parsed nor
// visited (i.e. {@link ClassVisitor#visitSource}, {@link MethodVisitor#visitLocalVariable} and
// {@link MethodVisitor#visitLineNumber} are not called).
const SKIP_DEBUG = 2

// SKIP_FRAMES a flag to skip the StackMap and StackMapTable attributes. If this flag is set these attributes
// are neither parsed nor visited (i.e. {@link MethodVisitor#visitFrame} is not called). This flag
// is useful when the {@link ClassWriter#COMPUTE_FRAMES} option is used: it avoids visiting frames
// that will be ignored and recomputed from scratch.
const SKIP_FRAMES = 4

// EXPAND_FRAMES a flag to expand the stack map frames. By default stack map frames are visited in their
// original format (i.e. "expanded" for classes whose version is less than V1_6, and "compressed"
// for the other classes). If this flag is set, stack map frames are always visited in expanded
// format (this option adds a decompression/compression step in ClassReader and ClassWriter which
// degrades performance quite a lot).
const EXPAND_FRAMES = 8

// EXPAND_ASM_INSNS A flag to expand the ASM specific instructions into an equivalent sequence of standard bytecode
// instructions. When resolving a forward jump it may happen that the signed 2 bytes offset
// reserved for it is not sufficient to store the bytecode offset. In this case the jump
// instruction is replaced with a temporary ASM specific instruction using an unsigned 2 bytes
// offset (see {@link Label#resolve}). This internal flag is used to re-read classes containing
// such instructions, in order to replace them with standard instructions. In addition, when this
// flag is used, goto_w and jsr_w are <i>not</i> converted into goto and jsr, to make sure that
// infinite loops where a goto_w is replaced with a goto in ClassReader and converted back to a
// goto_w in ClassWriter cannot occur.
const EXPAND_ASM_INSNS = 256

// NewClassReader constructs a new {@link ClassReader} object.
func NewClassReader(classFile []byte) (*ClassReader, error) {
	return classReader(classFile, 0, len(classFile))
}

func classReader(byteBuffer []byte, offset int, length int) (*ClassReader, error) {
	reader := &ClassReader{
		b: byteBuffer,
	}

	if length < 10 || uint32(reader.readInt(offset)) != 0xCAFEBABE {
		return nil, newParseError(ErrMalformedInput, offset, "magic number")
	}
	if reader.readShort(offset+6) > opcodes.V10 {
		return nil, errors.New("Illegal Argument")
	}

	constantPoolCount := reader.readUnsignedShort(offset + 8)
	reader.cpInfoOffsets = make([]int, constantPoolCount)
	reader.constantUtf8Values = make([]string, constantPoolCount)
	currentCpInfoOffset := offset + 10
	maxStringLength := 0

	for i := 1; i < constantPoolCount; i++ {
		reader.cpInfoOffsets[i] = currentCpInfoOffset + 1
		var cpInfoSize int

		switch byteBuffer[currentCpInfoOffset] {
		case byte(symbol.CONSTANT_FIELDREF_TAG), byte(symbol.CONSTANT_METHODREF_TAG), byte(symbol.CONSTANT_INTERFACE_METHODREF_TAG),
			byte(symbol.CONSTANT_INTEGER_TAG), byte(symbol.CONSTANT_FLOAT_TAG), byte(symbol.CONSTANT_NAME_AND_TYPE_TAG),
			byte(symbol.CONSTANT_INVOKE_DYNAMIC_TAG):
			cpInfoSize = 5
			break
		case byte(symbol.CONSTANT_LONG_TAG), byte(symbol.CONSTANT_DOUBLE_TAG):
			cpInfoSize = 9
			i++
			break
		case byte(symbol.CONSTANT_UTF8_TAG):
			cpInfoSize = 3 + reader.readUnsignedShort(currentCpInfoOffset+1)
			if cpInfoSize > maxStringLength {
				maxStringLength = cpInfoSize
			}
			break
		case byte(symbol.CONSTANT_METHOD_HANDLE_TAG):
			cpInfoSize = 4
			break
		case byte(symbol.CONSTANT_CLASS_TAG), byte(symbol.CONSTANT_STRING_TAG), byte(symbol.CONSTANT_METHOD_TYPE_TAG),
			byte(symbol.CONSTANT_PACKAGE_TAG), byte(symbol.CONSTANT_MODULE_TAG):
			cpInfoSize = 3
			break
		default:
			return nil, newParseError(ErrMalformedInput, currentCpInfoOffset, "constant pool tag")
		}
		currentCpInfoOffset += cpInfoSize
	}

	reader.maxStringLength = maxStringLength
	reader.header = currentCpInfoOffset

	return reader, nil
}

// -----------------------------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------------------------

// GetAccess returns the class's access flags (see {@link Opcodes}). This value may not reflect Deprecated
// and Synthetic flags when bytecode is before 1.5 and those flags are represented by attributes.
func (c *ClassReader) GetAccess() int {
	return c.readUnsignedShort(c.header)
}

// GetClassName returns the internal name of the class (see {@link Type#getInternalName()}).
func (c *ClassReader) GetClassName() string {
	charBuffer := make([]rune, c.maxStringLength)
	return c.readClass(c.header+2, charBuffer)
}

// GetSuperName returns the internal of name of the super class (see {@link Type#getInternalName()}). For
// interfaces, the super class is {@link Object}.
func (c *ClassReader) GetSuperName() string {
	charBuffer := make([]rune, c.maxStringLength)
	return c.readClass(c.header+4, charBuffer)
}

// GetInterfaces returns the internal names of the implemented interfaces (see {@link Type#getInternalName()}).
func (c ClassReader) GetInterfaces() []string {
	currentOffset := c.header + 6
	interfacesCount := c.readUnsignedShort(currentOffset)
	interfaces := make([]string, interfacesCount)
	if interfacesCount > 0 {
		charBuffer := make([]rune, c.maxStringLength)
		for i := 0; i < interfacesCount; i++ {
			currentOffset += 2
			interfaces[i] = c.readClass(currentOffset, charBuffer)
		}
	}
	return interfaces
}

// -----------------------------------------------------------------------------------------------
// Public methods
// -----------------------------------------------------------------------------------------------

// Accept Makes the given visitor visit the JVMS ClassFile structure passed to the constructor of this {@link ClassReader}.
func (c ClassReader) Accept(classVisitor ClassVisitor, parsingOptions int) {
	c.AcceptB(classVisitor, make([]Attribute, 0), parsingOptions)
}

// AcceptB Makes the given visitor visit the JVMS ClassFile structure passed to the constructor of this {@link ClassReader}.
func (c ClassReader) AcceptB(classVisitor ClassVisitor, attributePrototypes []Attribute, parsingOptions int) {
	context := &Context{
		attributePrototypes: attributePrototypes,
		parsingOptions:      parsingOptions,
		charBuffer:          make([]rune, c.maxStringLength),
	}

	charBuffer := context.charBuffer
	currentOffset := c.header
	accessFlags := c.readUnsignedShort(currentOffset)
	thisClass := c.readClass(currentOffset+2, charBuffer)
	superClass := c.readClass(currentOffset+4, charBuffer)
	interfaces := make([]string, c.readUnsignedShort(currentOffset+6))
	currentOffset += 8

	for i := 0; i < len(interfaces); i++ {
		interfaces[i] = c.readClass(currentOffset, charBuffer)
		currentOffset += 2
	}

	innerClassesOffset := 0
	enclosingMethodOffset := 0
	signature := ""
	sourceFile := ""
	sourceDebugExtension := ""
	runtimeVisibleAnnotationsOffset := 0
	runtimeInvisibleAnnotationsOffset := 0
	runtimeVisibleTypeAnnotationsOffset := 0
	runtimeInvisibleTypeAnnotationsOffset := 0
	moduleOffset := 0
	modulePackagesOffset := 0
	moduleMainClass := ""
	var attributes *Attribute

	currentAttributeOffset := c.getFirstAttributeOffset()
	for i := c.readUnsignedShort(currentAttributeOffset - 2); i > 0; i-- {
		attributeName := c.readUTF8(currentAttributeOffset, charBuffer)
		attributeLength := c.readInt(currentAttributeOffset + 2)
		currentAttributeOffset += 6

		switch attributeName {
		case "SourceFile":
			sourceFile = c.readUTF8(currentAttributeOffset, charBuffer)
			break
		case "InnerClasses":
			innerClassesOffset = currentAttributeOffset
			break
		case "EnclosingMethod":
			enclosingMethodOffset = currentAttributeOffset
			break
		case "Signature":
			signature = c.readUTF8(currentAttributeOffset, charBuffer)
			break
		case "RuntimeVisibleAnnotations":
			runtimeVisibleAnnotationsOffset = currentAttributeOffset
			break
		case "RuntimeVisibleTypeAnnotations":
			runtimeVisibleTypeAnnotationsOffset = currentAttributeOffset
			break
		case "Deprecated":
			accessFlags |= opcodes.ACC_DEPRECATED
			break
		case "Synthetic":
			accessFlags |= opcodes.ACC_SYNTHETIC
			break
		case "SourceDebugExtension":
			sourceDebugExtension = c.readUTFB(currentAttributeOffset, attributeLength, make([]rune, attributeLength))
			break
		case "RuntimeInvisibleAnnotations":
			runtimeInvisibleAnnotationsOffset = currentAttributeOffset
			break
		case "RuntimeInvisibleTypeAnnotations":
			runtimeInvisibleTypeAnnotationsOffset = currentAttributeOffset
			break
		case "Module":
			moduleOffset = currentAttributeOffset
			break
		case "ModuleMainClass":
			moduleMainClass = c.readClass(currentAttributeOffset, charBuffer)
			break
		case "ModulePackages":
			modulePackagesOffset = currentAttributeOffset
			break
		case "BootstrapMethods":
			bootstrapMethodOffsets := make([]int, c.readUnsignedShort(currentAttributeOffset))
			currentBootstrapMethodOffset := currentAttributeOffset + 2
			for j := 0; j < len(bootstrapMethodOffsets); j++ {
				bootstrapMethodOffsets[j] = currentBootstrapMethodOffset
				currentBootstrapMethodOffset += 4 + c.readUnsignedShort(currentBootstrapMethodOffset+2)*2
			}
			context.bootstrapMethodOffsets = bootstrapMethodOffsets
			break
		default:
			attribute := c.readAttribute(attributePrototypes, attributeName, currentAttributeOffset, attributeLength, charBuffer, -1, nil)
			attribute.nextAttribute = attributes
			attributes = attribute
		}
		currentAttributeOffset += attributeLength
	}

	classVisitor.Visit(c.readInt(c.cpInfoOffsets[1]-7), accessFlags, thisClass, signature, superClass, interfaces)

	if (parsingOptions&SKIP_DEBUG) == 0 && (sourceFile != "" || sourceDebugExtension != "") {
		classVisitor.VisitSource(sourceFile, sourceDebugExtension)
	}

	if moduleOffset != 0 {
		c.readModule(classVisitor, context, moduleOffset, modulePackagesOffset, moduleMainClass)
	}

	if enclosingMethodOffset != 0 {
		className := c.readClass(enclosingMethodOffset, charBuffer)
		methodIndex := c.readUnsignedShort(enclosingMethodOffset + 2)
		var name string
		var typed string
		if methodIndex != 0 {
			name = c.readUTF8(c.cpInfoOffsets[methodIndex], charBuffer)
			typed = c.readUTF8(c.cpInfoOffsets[methodIndex]+2, charBuffer)
		}
		classVisitor.VisitOuterClass(className, name, typed)
	}

	if runtimeVisibleAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeVisibleAnnotationsOffset)
		currentAnnotationOffset := runtimeVisibleAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationDescriptor := c.readUTF8(currentAnnotationOffset, charBuffer)
			currentAnnotationOffset += 2
			currentAnnotationOffset = c.readElementValues(classVisitor.VisitAnnotation(annotationDescriptor, true), currentAnnotationOffset, true, charBuffer)
			numAnnotations--
		}
	}

	if runtimeInvisibleAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeInvisibleAnnotationsOffset)
		currentAnnotationOffset := runtimeInvisibleAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationDescriptor := c.readUTF8(currentAnnotationOffset, charBuffer)
			currentAnnotationOffset += 2
			currentAnnotationOffset = c.readElementValues(classVisitor.VisitAnnotation(annotationDescriptor, false), currentAnnotationOffset, true, charBuffer)
			numAnnotations--
		}
	}

	if runtimeVisibleTypeAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeVisibleTypeAnnotationsOffset)
		currentAnnotationOffset := runtimeVisibleTypeAnnotationsOffset + 2
		for numAnnotations > 0 {
			currentAnnotationOffset = c.readTypeAnnotationTarget(context, currentAnnotationOffset)
			annotationDescriptor := c.readUTF8(currentAnnotationOffset, charBuffer)
			currentAnnotationOffset += 2
			currentAnnotationOffset = c.readElementValues(classVisitor.VisitTypeAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, annotationDescriptor, true), currentAnnotationOffset, true, charBuffer)
			numAnnotations--
		}
	}

	if runtimeInvisibleTypeAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeInvisibleTypeAnnotationsOffset)
		currentAnnotationOffset := runtimeInvisibleTypeAnnotationsOffset + 2
		for numAnnotations > 0 {
			currentAnnotationOffset = c.readTypeAnnotationTarget(context, currentAnnotationOffset)
			annotationDescriptor := c.readUTF8(currentAnnotationOffset, charBuffer)
			currentAnnotationOffset += 2
			currentAnnotationOffset = c.readElementValues(classVisitor.VisitTypeAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, annotationDescriptor, false), currentAnnotationOffset, true, charBuffer)
			numAnnotations--
		}
	}

	for attributes != nil {
		nextAttribute := attributes.nextAttribute
		attributes.nextAttribute = nil
		classVisitor.VisitAttribute(attributes)
		attributes = nextAttribute
	}

	if innerClassesOffset != 0 {
		numberOfClasses := c.readUnsignedShort(innerClassesOffset)
		currentClassesOffset := innerClassesOffset + 2
		for numberOfClasses > 0 {
			classVisitor.VisitInnerClass(c.readClass(currentClassesOffset, charBuffer), c.readClass(currentClassesOffset+2, charBuffer), c.readClass(currentClassesOffset+4, charBuffer), c.readUnsignedShort(currentClassesOffset+6))
			currentClassesOffset += 8
			numberOfClasses--
		}
	}

	fieldsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for fieldsCount > 0 {
		currentOffset = c.readField(classVisitor, context, currentOffset)
		fieldsCount--
	}
	methodsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for methodsCount > 0 {
		currentOffset = c.readMethod(classVisitor, context, currentOffset)
		methodsCount--
	}

	classVisitor.VisitEnd()
}

// ----------------------------------------------------------------------------------------------
// Methods to parse modules, fields and methods
// ----------------------------------------------------------------------------------------------

func (c ClassReader) readModule(classVisitor ClassVisitor, context *Context, moduleOffset int, modulePackagesOffset int, moduleMainClass string) {
	buffer := context.charBuffer
	currentOffset := moduleOffset
	moduleName := c.readModuleB(currentOffset, buffer)
	moduleFlags := c.readUnsignedShort(currentOffset + 2)
	moduleVersion := c.readUTF8(currentOffset+4, buffer)
	currentOffset += 6
	moduleVisitor := classVisitor.VisitModule(moduleName, moduleFlags, moduleVersion)
	if moduleVisitor == nil {
		return
	}

	if modulePackagesOffset != 0 {
		packageCount := c.readUnsignedShort(modulePackagesOffset)
		currentPackageOffset := modulePackagesOffset + 2
		for packageCount > 0 {
			moduleVisitor.VisitPackage(c.readPackage(currentPackageOffset, buffer))
			currentPackageOffset += 2
			packageCount--
		}
	}

	requiresCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for requiresCount > 0 {
		requires := c.readModuleB(currentOffset, buffer)
		requiresFlags := c.readUnsignedShort(currentOffset + 2)
		requiresVersion := c.readUTF8(currentOffset+4, buffer)
		currentOffset += 6
		moduleVisitor.VisitRequire(requires, requiresFlags, requiresVersion)
		requiresCount--
	}

	exportsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for exportsCount > 0 {
		exports := c.readPackage(currentOffset, buffer)
		exportsFlags := c.readUnsignedShort(currentOffset + 2)
		exportsToCount := c.readUnsignedShort(currentOffset + 4)
		currentOffset += 6
		var exportsTo []string
		if exportsToCount != 0 {
			exportsTo = make([]string, exportsToCount)
			for i := 0; i < exportsToCount; i++ {
				exportsTo[i] = c.readModuleB(currentOffset, buffer)
				currentOffset += 2
			}
		}
		moduleVisitor.VisitExport(exports, exportsFlags, exportsTo...)
		exportsCount--
	}

	opensCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for opensCount > 0 {
		opens := c.readPackage(currentOffset, buffer)
		opensFlags := c.readUnsignedShort(currentOffset + 2)
		opensToCount := c.readUnsignedShort(currentOffset + 4)
		currentOffset += 6
		var opensTo []string
		if opensToCount != 0 {
			opensTo = make([]string, opensToCount)
			for i := 0; i < opensToCount; i++ {
				opensTo[i] = c.readModuleB(currentOffset, buffer)
				currentOffset += 2
			}
		}
		moduleVisitor.VisitOpen(opens, opensFlags, opensTo...)
		opensCount--
	}

	usesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for usesCount > 0 {
		moduleVisitor.VisitUse(c.readClass(currentOffset, buffer))
		currentOffset += 2
		usesCount--
	}

	providesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for providesCount > 0 {
		provides := c.readClass(currentOffset, buffer)
		providesWithCount := c.readUnsignedShort(currentOffset + 2)
		currentOffset += 4
		providesWith := make([]string, providesWithCount)
		for i := 0; i < providesWithCount; i++ {
			providesWith[i] = c.readClass(currentOffset, buffer)
			currentOffset += 2
		}
		moduleVisitor.VisitProvide(provides, providesWith...)
		providesCount--
	}

	moduleVisitor.VisitEnd()
}

func (c ClassReader) readField(classVisitor ClassVisitor, context *Context, fieldInfoOffset int) int {
	charBuffer := context.charBuffer
	currentOffset := fieldInfoOffset
	accessFlags := c.readUnsignedShort(currentOffset)
	name := c.readUTF8(currentOffset+2, charBuffer)
	descriptor := c.readUTF8(currentOffset+4, charBuffer)
	currentOffset += 6

	var constantValue interface{}
	signature := ""
	runtimeVisibleAnnotationsOffset := 0
	runtimeInvisibleAnnotationsOffset := 0
	runtimeVisibleTypeAnnotationsOffset := 0
	runtimeInvisibleTypeAnnotationsOffset := 0
	var attributes *Attribute

	attributesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for attributesCount > 0 {
		attributeName := c.readUTF8(currentOffset, charBuffer)
		attributeLength := c.readInt(currentOffset + 2)
		currentOffset += 6
		switch attributeName {
		case "ConstantValue":
			constantValueIndex := c.readUnsignedShort(currentOffset)
			if constantValueIndex != 0 {
				if value, err := c.readConst(constantValueIndex, charBuffer); err == nil {
					constantValue = value
				}
			}
		case "Signature":
			signature = c.readUTF8(currentOffset, charBuffer)
		case "Deprecated":
			accessFlags |= opcodes.ACC_DEPRECATED
		case "Synthetic":
			accessFlags |= opcodes.ACC_SYNTHETIC
		case "RuntimeVisibleAnnotations":
			runtimeVisibleAnnotationsOffset = currentOffset
		case "RuntimeInvisibleAnnotations":
			runtimeInvisibleAnnotationsOffset = currentOffset
		case "RuntimeVisibleTypeAnnotations":
			runtimeVisibleTypeAnnotationsOffset = currentOffset
		case "RuntimeInvisibleTypeAnnotations":
			runtimeInvisibleTypeAnnotationsOffset = currentOffset
		default:
			attribute := c.readAttribute(context.attributePrototypes, attributeName, currentOffset, attributeLength, charBuffer, -1, nil)
			attribute.nextAttribute = attributes
			attributes = attribute
		}
		currentOffset += attributeLength
		attributesCount--
	}

	fieldVisitor := classVisitor.VisitField(accessFlags, name, descriptor, signature, constantValue)
	if fieldVisitor == nil {
		return currentOffset
	}

	if runtimeVisibleAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeVisibleAnnotationsOffset)
		annotationOffset := runtimeVisibleAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationDescriptor := c.readUTF8(annotationOffset, charBuffer)
			annotationOffset += 2
			annotationOffset = c.readElementValues(fieldVisitor.VisitAnnotation(annotationDescriptor, true), annotationOffset, true, charBuffer)
			numAnnotations--
		}
	}
	if runtimeInvisibleAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeInvisibleAnnotationsOffset)
		annotationOffset := runtimeInvisibleAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationDescriptor := c.readUTF8(annotationOffset, charBuffer)
			annotationOffset += 2
			annotationOffset = c.readElementValues(fieldVisitor.VisitAnnotation(annotationDescriptor, false), annotationOffset, true, charBuffer)
			numAnnotations--
		}
	}
	if runtimeVisibleTypeAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeVisibleTypeAnnotationsOffset)
		annotationOffset := runtimeVisibleTypeAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationOffset = c.readTypeAnnotationTarget(context, annotationOffset)
			annotationDescriptor := c.readUTF8(annotationOffset, charBuffer)
			annotationOffset += 2
			annotationOffset = c.readElementValues(fieldVisitor.VisitTypeAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, annotationDescriptor, true), annotationOffset, true, charBuffer)
			numAnnotations--
		}
	}
	if runtimeInvisibleTypeAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeInvisibleTypeAnnotationsOffset)
		annotationOffset := runtimeInvisibleTypeAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationOffset = c.readTypeAnnotationTarget(context, annotationOffset)
			annotationDescriptor := c.readUTF8(annotationOffset, charBuffer)
			annotationOffset += 2
			annotationOffset = c.readElementValues(fieldVisitor.VisitTypeAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, annotationDescriptor, false), annotationOffset, true, charBuffer)
			numAnnotations--
		}
	}

	for attributes != nil {
		nextAttribute := attributes.nextAttribute
		attributes.nextAttribute = nil
		fieldVisitor.VisitAttribute(attributes)
		attributes = nextAttribute
	}

	fieldVisitor.VisitEnd()
	return currentOffset
}

func (c ClassReader) readMethod(classVisitor ClassVisitor, context *Context, methodInfoOffset int) int {
	charBuffer := context.charBuffer
	currentOffset := methodInfoOffset
	context.currentMethodAccessFlags = c.readUnsignedShort(currentOffset)
	context.currentMethodName = c.readUTF8(currentOffset+2, charBuffer)
	context.currentMethodDescriptor = c.readUTF8(currentOffset+4, charBuffer)
	currentOffset += 6

	codeOffset := 0
	var exceptions []string
	signature := ""
	methodParametersOffset := 0
	annotationDefaultOffset := 0
	runtimeVisibleAnnotationsOffset := 0
	runtimeInvisibleAnnotationsOffset := 0
	runtimeVisibleParameterAnnotationsOffset := 0
	runtimeInvisibleParameterAnnotationsOffset := 0
	runtimeVisibleTypeAnnotationsOffset := 0
	runtimeInvisibleTypeAnnotationsOffset := 0
	var attributes *Attribute

	attributesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for attributesCount > 0 {
		attributeName := c.readUTF8(currentOffset, charBuffer)
		attributeLength := c.readInt(currentOffset + 2)
		currentOffset += 6
		switch attributeName {
		case "Code":
			if (context.parsingOptions & SKIP_CODE) == 0 {
				codeOffset = currentOffset
			}
		case "Exceptions":
			exceptionCount := c.readUnsignedShort(currentOffset)
			exceptions = make([]string, exceptionCount)
			currentExceptionOffset := currentOffset + 2
			for i := 0; i < exceptionCount; i++ {
				exceptions[i] = c.readClass(currentExceptionOffset, charBuffer)
				currentExceptionOffset += 2
			}
		case "Signature":
			signature = c.readUTF8(currentOffset, charBuffer)
		case "Deprecated":
			context.currentMethodAccessFlags |= opcodes.ACC_DEPRECATED
		case "Synthetic":
			context.currentMethodAccessFlags |= opcodes.ACC_SYNTHETIC
		case "RuntimeVisibleAnnotations":
			runtimeVisibleAnnotationsOffset = currentOffset
		case "RuntimeInvisibleAnnotations":
			runtimeInvisibleAnnotationsOffset = currentOffset
		case "RuntimeVisibleParameterAnnotations":
			runtimeVisibleParameterAnnotationsOffset = currentOffset
		case "RuntimeInvisibleParameterAnnotations":
			runtimeInvisibleParameterAnnotationsOffset = currentOffset
		case "AnnotationDefault":
			annotationDefaultOffset = currentOffset
		case "MethodParameters":
			methodParametersOffset = currentOffset
		case "RuntimeVisibleTypeAnnotations":
			runtimeVisibleTypeAnnotationsOffset = currentOffset
		case "RuntimeInvisibleTypeAnnotations":
			runtimeInvisibleTypeAnnotationsOffset = currentOffset
		default:
			attribute := c.readAttribute(context.attributePrototypes, attributeName, currentOffset, attributeLength, charBuffer, -1, nil)
			attribute.nextAttribute = attributes
			attributes = attribute
		}
		currentOffset += attributeLength
		attributesCount--
	}

	methodVisitor := classVisitor.VisitMethod(context.currentMethodAccessFlags, context.currentMethodName, context.currentMethodDescriptor, signature, exceptions)
	if methodVisitor == nil {
		return currentOffset
	}

	if methodParametersOffset != 0 {
		parametersCount := int(c.readByte(methodParametersOffset))
		currentParameterOffset := methodParametersOffset + 1
		for parametersCount > 0 {
			parameterName := c.readUTF8(currentParameterOffset, charBuffer)
			parameterAccessFlags := c.readUnsignedShort(currentParameterOffset + 2)
			methodVisitor.VisitParameter(parameterName, parameterAccessFlags)
			currentParameterOffset += 4
			parametersCount--
		}
	}

	if annotationDefaultOffset != 0 {
		annotationVisitor := methodVisitor.VisitAnnotationDefault()
		c.readElementValue(annotationVisitor, annotationDefaultOffset, "", charBuffer)
		if annotationVisitor != nil {
			annotationVisitor.VisitEnd()
		}
	}

	if runtimeVisibleAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeVisibleAnnotationsOffset)
		annotationOffset := runtimeVisibleAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationDescriptor := c.readUTF8(annotationOffset, charBuffer)
			annotationOffset += 2
			annotationOffset = c.readElementValues(methodVisitor.VisitAnnotation(annotationDescriptor, true), annotationOffset, true, charBuffer)
			numAnnotations--
		}
	}
	if runtimeInvisibleAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeInvisibleAnnotationsOffset)
		annotationOffset := runtimeInvisibleAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationDescriptor := c.readUTF8(annotationOffset, charBuffer)
			annotationOffset += 2
			annotationOffset = c.readElementValues(methodVisitor.VisitAnnotation(annotationDescriptor, false), annotationOffset, true, charBuffer)
			numAnnotations--
		}
	}
	if runtimeVisibleTypeAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeVisibleTypeAnnotationsOffset)
		annotationOffset := runtimeVisibleTypeAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationOffset = c.readTypeAnnotationTarget(context, annotationOffset)
			annotationDescriptor := c.readUTF8(annotationOffset, charBuffer)
			annotationOffset += 2
			annotationOffset = c.readElementValues(methodVisitor.VisitTypeAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, annotationDescriptor, true), annotationOffset, true, charBuffer)
			numAnnotations--
		}
	}
	if runtimeInvisibleTypeAnnotationsOffset != 0 {
		numAnnotations := c.readUnsignedShort(runtimeInvisibleTypeAnnotationsOffset)
		annotationOffset := runtimeInvisibleTypeAnnotationsOffset + 2
		for numAnnotations > 0 {
			annotationOffset = c.readTypeAnnotationTarget(context, annotationOffset)
			annotationDescriptor := c.readUTF8(annotationOffset, charBuffer)
			annotationOffset += 2
			annotationOffset = c.readElementValues(methodVisitor.VisitTypeAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, annotationDescriptor, false), annotationOffset, true, charBuffer)
			numAnnotations--
		}
	}
	if runtimeVisibleParameterAnnotationsOffset != 0 {
		c.readParameterAnnotations(methodVisitor, context, runtimeVisibleParameterAnnotationsOffset, true)
	}
	if runtimeInvisibleParameterAnnotationsOffset != 0 {
		c.readParameterAnnotations(methodVisitor, context, runtimeInvisibleParameterAnnotationsOffset, false)
	}

	for attributes != nil {
		nextAttribute := attributes.nextAttribute
		attributes.nextAttribute = nil
		methodVisitor.VisitAttribute(attributes)
		attributes = nextAttribute
	}

	if codeOffset != 0 {
		methodVisitor.VisitCode()
		c.readCode(methodVisitor, context, codeOffset)
	}

	methodVisitor.VisitEnd()
	return currentOffset
}

// ----------------------------------------------------------------------------------------------
// Methods to parse a Code attribute
// ----------------------------------------------------------------------------------------------

type tryCatchEntry struct {
	startPc, endPc, handlerPc int
	catchType                 string
}

type decodedFrame struct {
	offset    int
	frameType int
	locals    []interface{}
	stack     []interface{}
}

func (c ClassReader) readCode(methodVisitor MethodVisitor, context *Context, codeOffset int) {
	charBuffer := context.charBuffer
	currentOffset := codeOffset

	maxStack := c.readUnsignedShort(currentOffset)
	maxLocals := c.readUnsignedShort(currentOffset + 2)
	codeLength := c.readInt(currentOffset + 4)
	currentOffset += 8

	bytecodeStartOffset := currentOffset
	bytecodeEndOffset := currentOffset + codeLength

	labels := make([]*Label, codeLength+1)
	context.currentMethodLabels = labels

	currentOffset = bytecodeEndOffset
	exceptionTableLength := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	exceptionTable := make([]tryCatchEntry, exceptionTableLength)
	for i := 0; i < exceptionTableLength; i++ {
		startPc := c.readUnsignedShort(currentOffset)
		endPc := c.readUnsignedShort(currentOffset + 2)
		handlerPc := c.readUnsignedShort(currentOffset + 4)
		catchTypeIndex := c.readUnsignedShort(currentOffset + 6)
		currentOffset += 8
		catchType := ""
		if catchTypeIndex != 0 {
			catchType = c.readUTF8(c.cpInfoOffsets[catchTypeIndex], charBuffer)
		}
		exceptionTable[i] = tryCatchEntry{startPc, endPc, handlerPc, catchType}
		c.createLabel(startPc, labels)
		c.createLabel(endPc, labels)
		c.createLabel(handlerPc, labels).flags |= FLAG_JUMP_TARGET
	}

	stackMapFrameOffset := 0
	stackMapTableEndOffset := 0
	compressedFrames := true
	localVariableTableOffset := 0
	localVariableTypeTableOffset := 0
	var visibleTypeAnnotationOffsets []int
	var invisibleTypeAnnotationOffsets []int
	var attributes *Attribute

	attributesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for attributesCount > 0 {
		attributeName := c.readUTF8(currentOffset, charBuffer)
		attributeLength := c.readInt(currentOffset + 2)
		currentOffset += 6
		switch attributeName {
		case "LocalVariableTable":
			if (context.parsingOptions & SKIP_DEBUG) == 0 {
				localVariableTableOffset = currentOffset
				numLocalVariables := c.readUnsignedShort(currentOffset)
				currentLocalVariableOffset := currentOffset + 2
				for i := 0; i < numLocalVariables; i++ {
					startPc := c.readUnsignedShort(currentLocalVariableOffset)
					length := c.readUnsignedShort(currentLocalVariableOffset + 2)
					c.createLabel(startPc, labels)
					c.createLabel(startPc+length, labels)
					currentLocalVariableOffset += 10
				}
			}
		case "LocalVariableTypeTable":
			localVariableTypeTableOffset = currentOffset
		case "LineNumberTable":
			if (context.parsingOptions & SKIP_DEBUG) == 0 {
				numLineNumbers := c.readUnsignedShort(currentOffset)
				currentLineNumberOffset := currentOffset + 2
				for i := 0; i < numLineNumbers; i++ {
					startPc := c.readUnsignedShort(currentLineNumberOffset)
					lineNumber := c.readUnsignedShort(currentLineNumberOffset + 2)
					currentLineNumberOffset += 4
					c.createDebugLabel(startPc, labels)
					c.readLabel(startPc, labels).addLineNumber(lineNumber)
				}
			}
		case "RuntimeVisibleTypeAnnotations":
			visibleTypeAnnotationOffsets = c.readTypeAnnotations(methodVisitor, context, currentOffset, true)
		case "RuntimeInvisibleTypeAnnotations":
			invisibleTypeAnnotationOffsets = c.readTypeAnnotations(methodVisitor, context, currentOffset, false)
		case "StackMapTable":
			if (context.parsingOptions & SKIP_FRAMES) == 0 {
				stackMapFrameOffset = currentOffset + 2
				stackMapTableEndOffset = currentOffset + attributeLength
			}
		case "StackMap":
			if (context.parsingOptions & SKIP_FRAMES) == 0 {
				stackMapFrameOffset = currentOffset + 2
				stackMapTableEndOffset = currentOffset + attributeLength
				compressedFrames = false
			}
		default:
			attribute := c.readAttribute(context.attributePrototypes, attributeName, currentOffset, attributeLength, charBuffer, bytecodeStartOffset, labels)
			attribute.nextAttribute = attributes
			attributes = attribute
		}
		currentOffset += attributeLength
		attributesCount--
	}

	expandFrames := (context.parsingOptions & EXPAND_FRAMES) != 0
	var frames []decodedFrame
	if stackMapFrameOffset != 0 {
		context.currentFrameOffset = -1
		context.currentFrameType = 0
		context.currentFrameLocalCount = 0
		context.currentFrameLocalCountDelta = 0
		context.currentFrameLocalTypes = make([]interface{}, maxLocals)
		context.currentFrameStackCount = 0
		context.currentFrameStackTypes = make([]interface{}, maxStack)
		if expandFrames {
			c.computeImplicitFame(context)
		}
		for frameOffset := stackMapFrameOffset; frameOffset < stackMapTableEndOffset; {
			frameOffset = c.readStackMapFrame(frameOffset, compressedFrames, expandFrames, context)
			localsCopy := make([]interface{}, context.currentFrameLocalCount)
			copy(localsCopy, context.currentFrameLocalTypes[:context.currentFrameLocalCount])
			stackCopy := make([]interface{}, context.currentFrameStackCount)
			copy(stackCopy, context.currentFrameStackTypes[:context.currentFrameStackCount])
			frames = append(frames, decodedFrame{
				offset:    context.currentFrameOffset,
				frameType: context.currentFrameType,
				locals:    localsCopy,
				stack:     stackCopy,
			})
		}
	}

	for i := range exceptionTable {
		entry := exceptionTable[i]
		methodVisitor.VisitTryCatchBlock(labels[entry.startPc], labels[entry.endPc], labels[entry.handlerPc], entry.catchType)
	}
	for _, offset := range visibleTypeAnnotationOffsets {
		target := c.readTypeAnnotationTarget(context, offset)
		if context.currentTypeAnnotationTarget>>24 != EXCEPTION_PARAMETER {
			continue
		}
		tryCatchBlockIndex := (context.currentTypeAnnotationTarget & 0x00FFFF00) >> 8
		if tryCatchBlockIndex >= len(exceptionTable) {
			continue
		}
		descriptor := c.readUTF8(target, charBuffer)
		c.readElementValues(methodVisitor.VisitTryCatchAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, descriptor, true), target+2, true, charBuffer)
	}
	for _, offset := range invisibleTypeAnnotationOffsets {
		target := c.readTypeAnnotationTarget(context, offset)
		if context.currentTypeAnnotationTarget>>24 != EXCEPTION_PARAMETER {
			continue
		}
		tryCatchBlockIndex := (context.currentTypeAnnotationTarget & 0x00FFFF00) >> 8
		if tryCatchBlockIndex >= len(exceptionTable) {
			continue
		}
		descriptor := c.readUTF8(target, charBuffer)
		c.readElementValues(methodVisitor.VisitTryCatchAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, descriptor, false), target+2, true, charBuffer)
	}

	currentFrameIndex := 0
	currentVisibleTypeAnnotationIndex := 0
	currentVisibleTypeAnnotationBytecodeOffset := c.getTypeAnnotationBytecodeOffset(visibleTypeAnnotationOffsets, 0)
	currentInvisibleTypeAnnotationIndex := 0
	currentInvisibleTypeAnnotationBytecodeOffset := c.getTypeAnnotationBytecodeOffset(invisibleTypeAnnotationOffsets, 0)

	bytecodeOffset := bytecodeStartOffset
	for bytecodeOffset < bytecodeEndOffset {
		insnBytecodeOffset := bytecodeOffset - bytecodeStartOffset

		if currentFrameIndex < len(frames) && frames[currentFrameIndex].offset == insnBytecodeOffset {
			frame := frames[currentFrameIndex]
			methodVisitor.VisitFrame(frame.frameType, len(frame.locals), frame.locals, len(frame.stack), frame.stack)
			currentFrameIndex++
		}

		if labels[insnBytecodeOffset] != nil {
			labels[insnBytecodeOffset].accept(methodVisitor, (context.parsingOptions&SKIP_DEBUG) == 0)
		}

		opcode := int(c.readByte(bytecodeOffset))
		realOpcode := opcode
		switch {
		case opcode >= constants.ASM_IFEQ && opcode <= constants.ASM_JSR:
			realOpcode = opcode - constants.ASM_OPCODE_DELTA
		case opcode == constants.ASM_IFNULL || opcode == constants.ASM_IFNONNULL:
			realOpcode = opcode - constants.ASM_IFNULL_OPCODE_DELTA
		case opcode == constants.ASM_GOTO_W:
			realOpcode = opcodes.GOTO
		}

		switch {
		case realOpcode >= opcodes.NOP && realOpcode <= opcodes.DCONST_1:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case realOpcode >= opcodes.IALOAD && realOpcode <= opcodes.SALOAD:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case realOpcode >= opcodes.IASTORE && realOpcode <= opcodes.SASTORE:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case realOpcode >= opcodes.POP && realOpcode <= opcodes.DNEG:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case realOpcode >= opcodes.ISHL && realOpcode <= opcodes.LXOR:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case realOpcode >= opcodes.I2L && realOpcode <= opcodes.DCMPG:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case realOpcode >= opcodes.IRETURN && realOpcode <= opcodes.RETURN:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case realOpcode == opcodes.ARRAYLENGTH || realOpcode == opcodes.ATHROW:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case realOpcode == opcodes.MONITORENTER || realOpcode == opcodes.MONITOREXIT:
			methodVisitor.VisitInsn(opcode)
			bytecodeOffset++
		case opcode == opcodes.BIPUSH:
			methodVisitor.VisitIntInsn(opcode, int(int8(c.readByte(bytecodeOffset+1))))
			bytecodeOffset += 2
		case opcode == opcodes.NEWARRAY:
			methodVisitor.VisitIntInsn(opcode, int(c.readByte(bytecodeOffset+1)))
			bytecodeOffset += 2
		case opcode == opcodes.SIPUSH:
			methodVisitor.VisitIntInsn(opcode, int(c.readShort(bytecodeOffset+1)))
			bytecodeOffset += 3
		case opcode >= opcodes.ILOAD && opcode <= opcodes.ALOAD:
			methodVisitor.VisitVarInsn(opcode, int(c.readByte(bytecodeOffset+1)))
			bytecodeOffset += 2
		case opcode >= opcodes.ISTORE && opcode <= opcodes.ASTORE:
			methodVisitor.VisitVarInsn(opcode, int(c.readByte(bytecodeOffset+1)))
			bytecodeOffset += 2
		case opcode == opcodes.RET:
			methodVisitor.VisitVarInsn(opcode, int(c.readByte(bytecodeOffset+1)))
			bytecodeOffset += 2
		case opcode >= constants.ILOAD_0 && opcode <= constants.ALOAD_3:
			baseOpcode := opcodes.ILOAD + (opcode-constants.ILOAD_0)/4
			varIndex := (opcode - constants.ILOAD_0) % 4
			methodVisitor.VisitVarInsn(baseOpcode, varIndex)
			bytecodeOffset++
		case opcode >= constants.ISTORE_0 && opcode <= constants.ASTORE_3:
			baseOpcode := opcodes.ISTORE + (opcode-constants.ISTORE_0)/4
			varIndex := (opcode - constants.ISTORE_0) % 4
			methodVisitor.VisitVarInsn(baseOpcode, varIndex)
			bytecodeOffset++
		case opcode == opcodes.NEW || opcode == opcodes.ANEWARRAY || opcode == opcodes.CHECKCAST || opcode == opcodes.INSTANCEOF:
			methodVisitor.VisitTypeInsn(opcode, c.readClass(bytecodeOffset+1, charBuffer))
			bytecodeOffset += 3
		case opcode >= opcodes.GETSTATIC && opcode <= opcodes.PUTFIELD:
			itemOffset := c.cpInfoOffsets[c.readUnsignedShort(bytecodeOffset+1)]
			natOffset := c.cpInfoOffsets[c.readUnsignedShort(itemOffset+2)]
			owner := c.readClass(itemOffset, charBuffer)
			name := c.readUTF8(natOffset, charBuffer)
			descriptor := c.readUTF8(natOffset+2, charBuffer)
			methodVisitor.VisitFieldInsn(opcode, owner, name, descriptor)
			bytecodeOffset += 3
		case opcode == opcodes.INVOKEVIRTUAL || opcode == opcodes.INVOKESPECIAL || opcode == opcodes.INVOKESTATIC:
			itemOffset := c.cpInfoOffsets[c.readUnsignedShort(bytecodeOffset+1)]
			natOffset := c.cpInfoOffsets[c.readUnsignedShort(itemOffset+2)]
			owner := c.readClass(itemOffset, charBuffer)
			name := c.readUTF8(natOffset, charBuffer)
			descriptor := c.readUTF8(natOffset+2, charBuffer)
			isInterface := c.b[itemOffset-1] == byte(symbol.CONSTANT_INTERFACE_METHODREF_TAG)
			methodVisitor.VisitMethodInsnB(opcode, owner, name, descriptor, isInterface)
			bytecodeOffset += 3
		case opcode == opcodes.INVOKEINTERFACE:
			itemOffset := c.cpInfoOffsets[c.readUnsignedShort(bytecodeOffset+1)]
			natOffset := c.cpInfoOffsets[c.readUnsignedShort(itemOffset+2)]
			owner := c.readClass(itemOffset, charBuffer)
			name := c.readUTF8(natOffset, charBuffer)
			descriptor := c.readUTF8(natOffset+2, charBuffer)
			methodVisitor.VisitMethodInsnB(opcode, owner, name, descriptor, true)
			bytecodeOffset += 5
		case opcode == opcodes.INVOKEDYNAMIC:
			invokeDynamicItemOffset := c.cpInfoOffsets[c.readUnsignedShort(bytecodeOffset+1)]
			natOffset := c.cpInfoOffsets[c.readUnsignedShort(invokeDynamicItemOffset+2)]
			name := c.readUTF8(natOffset, charBuffer)
			descriptor := c.readUTF8(natOffset+2, charBuffer)
			bsmIndex := c.readUnsignedShort(invokeDynamicItemOffset)
			bsmOffset := context.bootstrapMethodOffsets[bsmIndex]
			handleRefOffset := c.cpInfoOffsets[c.readUnsignedShort(bsmOffset)]
			refKind := int(c.readByte(handleRefOffset))
			refOffset := c.cpInfoOffsets[c.readUnsignedShort(handleRefOffset+1)]
			handleNatOffset := c.cpInfoOffsets[c.readUnsignedShort(refOffset+2)]
			handleOwner := c.readClass(refOffset, charBuffer)
			handleName := c.readUTF8(handleNatOffset, charBuffer)
			handleDescriptor := c.readUTF8(handleNatOffset+2, charBuffer)
			handleIsInterface := c.b[refOffset-1] == byte(symbol.CONSTANT_INTERFACE_METHODREF_TAG)
			bootstrapMethodHandle := NewHandle(refKind, handleOwner, handleName, handleDescriptor, handleIsInterface)
			numBootstrapArguments := c.readUnsignedShort(bsmOffset + 2)
			bootstrapArguments := make([]interface{}, numBootstrapArguments)
			currentBsmArgOffset := bsmOffset + 4
			for i := 0; i < numBootstrapArguments; i++ {
				argument, _ := c.readConst(c.readUnsignedShort(currentBsmArgOffset), charBuffer)
				bootstrapArguments[i] = argument
				currentBsmArgOffset += 2
			}
			methodVisitor.VisitInvokeDynamicInsn(name, descriptor, bootstrapMethodHandle, bootstrapArguments...)
			bytecodeOffset += 5
		case opcode == opcodes.LDC:
			value, _ := c.readConst(int(c.readByte(bytecodeOffset+1)), charBuffer)
			methodVisitor.VisitLdcInsn(value)
			bytecodeOffset += 2
		case opcode == constants.LDC_W || opcode == constants.LDC2_W:
			value, _ := c.readConst(c.readUnsignedShort(bytecodeOffset+1), charBuffer)
			methodVisitor.VisitLdcInsn(value)
			bytecodeOffset += 3
		case opcode == opcodes.IINC:
			methodVisitor.VisitIincInsn(int(c.readByte(bytecodeOffset+1)), int(int8(c.readByte(bytecodeOffset+2))))
			bytecodeOffset += 3
		case opcode == opcodes.TABLESWITCH:
			tableOffset := bytecodeOffset + 1
			tableOffset += (4 - (tableOffset-bytecodeStartOffset)%4) % 4
			defaultOffset := c.readInt(tableOffset)
			low := c.readInt(tableOffset + 4)
			high := c.readInt(tableOffset + 8)
			tableOffset += 12
			defaultLabel := c.createLabel(insnBytecodeOffset+defaultOffset, labels)
			caseLabels := make([]*Label, high-low+1)
			for i := range caseLabels {
				caseOffset := c.readInt(tableOffset)
				caseLabels[i] = c.createLabel(insnBytecodeOffset+caseOffset, labels)
				tableOffset += 4
			}
			methodVisitor.VisitTableSwitchInsn(low, high, defaultLabel, caseLabels...)
			bytecodeOffset = tableOffset
		case opcode == opcodes.LOOKUPSWITCH:
			tableOffset := bytecodeOffset + 1
			tableOffset += (4 - (tableOffset-bytecodeStartOffset)%4) % 4
			defaultOffset := c.readInt(tableOffset)
			npairs := c.readInt(tableOffset + 4)
			tableOffset += 8
			defaultLabel := c.createLabel(insnBytecodeOffset+defaultOffset, labels)
			keys := make([]int, npairs)
			caseLabels := make([]*Label, npairs)
			for i := 0; i < npairs; i++ {
				keys[i] = c.readInt(tableOffset)
				caseOffset := c.readInt(tableOffset + 4)
				caseLabels[i] = c.createLabel(insnBytecodeOffset+caseOffset, labels)
				tableOffset += 8
			}
			methodVisitor.VisitLookupSwitchInsn(defaultLabel, keys, caseLabels)
			bytecodeOffset = tableOffset
		case opcode == opcodes.MULTIANEWARRAY:
			methodVisitor.VisitMultiANewArrayInsn(c.readClass(bytecodeOffset+1, charBuffer), int(c.readByte(bytecodeOffset+3)))
			bytecodeOffset += 4
		case opcode == constants.WIDE:
			widenedOpcode := int(c.readByte(bytecodeOffset + 1))
			if widenedOpcode == opcodes.IINC {
				methodVisitor.VisitIincInsn(c.readUnsignedShort(bytecodeOffset+2), int(c.readShort(bytecodeOffset+4)))
				bytecodeOffset += 6
			} else {
				methodVisitor.VisitVarInsn(widenedOpcode, c.readUnsignedShort(bytecodeOffset+2))
				bytecodeOffset += 4
			}
		case realOpcode >= opcodes.IFEQ && realOpcode <= opcodes.JSR:
			var offsetDelta int
			if opcode >= constants.ASM_IFEQ && opcode <= constants.ASM_JSR {
				offsetDelta = c.readUnsignedShort(bytecodeOffset + 1)
			} else {
				offsetDelta = int(c.readShort(bytecodeOffset + 1))
			}
			target := c.createLabel(insnBytecodeOffset+offsetDelta, labels)
			methodVisitor.VisitJumpInsn(realOpcode, target)
			bytecodeOffset += 3
		case opcode == opcodes.IFNULL || opcode == opcodes.IFNONNULL || opcode == constants.ASM_IFNULL || opcode == constants.ASM_IFNONNULL:
			var offsetDelta int
			if opcode == constants.ASM_IFNULL || opcode == constants.ASM_IFNONNULL {
				offsetDelta = c.readUnsignedShort(bytecodeOffset + 1)
			} else {
				offsetDelta = int(c.readShort(bytecodeOffset + 1))
			}
			target := c.createLabel(insnBytecodeOffset+offsetDelta, labels)
			methodVisitor.VisitJumpInsn(realOpcode, target)
			bytecodeOffset += 3
		case opcode == constants.GOTO_W:
			target := c.createLabel(insnBytecodeOffset+c.readInt(bytecodeOffset+1), labels)
			methodVisitor.VisitJumpInsn(opcodes.GOTO, target)
			bytecodeOffset += 5
		case opcode == constants.JSR_W:
			target := c.createLabel(insnBytecodeOffset+c.readInt(bytecodeOffset+1), labels)
			methodVisitor.VisitJumpInsn(opcodes.JSR, target)
			bytecodeOffset += 5
		case opcode == constants.ASM_GOTO_W:
			target := c.createLabel(insnBytecodeOffset+c.readInt(bytecodeOffset+1), labels)
			methodVisitor.VisitJumpInsn(opcodes.GOTO, target)
			bytecodeOffset += 5
		default:
			bytecodeOffset++
		}

		for currentVisibleTypeAnnotationBytecodeOffset == insnBytecodeOffset {
			target := c.readTypeAnnotationTarget(context, visibleTypeAnnotationOffsets[currentVisibleTypeAnnotationIndex])
			descriptor := c.readUTF8(target, charBuffer)
			c.readElementValues(methodVisitor.VisitInsnAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, descriptor, true), target+2, true, charBuffer)
			currentVisibleTypeAnnotationIndex++
			currentVisibleTypeAnnotationBytecodeOffset = c.getTypeAnnotationBytecodeOffset(visibleTypeAnnotationOffsets, currentVisibleTypeAnnotationIndex)
		}
		for currentInvisibleTypeAnnotationBytecodeOffset == insnBytecodeOffset {
			target := c.readTypeAnnotationTarget(context, invisibleTypeAnnotationOffsets[currentInvisibleTypeAnnotationIndex])
			descriptor := c.readUTF8(target, charBuffer)
			c.readElementValues(methodVisitor.VisitInsnAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, descriptor, false), target+2, true, charBuffer)
			currentInvisibleTypeAnnotationIndex++
			currentInvisibleTypeAnnotationBytecodeOffset = c.getTypeAnnotationBytecodeOffset(invisibleTypeAnnotationOffsets, currentInvisibleTypeAnnotationIndex)
		}
	}

	if labels[codeLength] != nil {
		methodVisitor.VisitLabel(labels[codeLength])
	}

	if (context.parsingOptions&SKIP_DEBUG) == 0 && localVariableTableOffset != 0 {
		type localVarKey struct {
			index, start int
		}
		signatures := map[localVarKey]string{}
		if localVariableTypeTableOffset != 0 {
			numEntries := c.readUnsignedShort(localVariableTypeTableOffset)
			entryOffset := localVariableTypeTableOffset + 2
			for i := 0; i < numEntries; i++ {
				startPc := c.readUnsignedShort(entryOffset)
				index := c.readUnsignedShort(entryOffset + 8)
				signatures[localVarKey{index, startPc}] = c.readUTF8(entryOffset+4, charBuffer)
				entryOffset += 10
			}
		}
		numLocalVariables := c.readUnsignedShort(localVariableTableOffset)
		entryOffset := localVariableTableOffset + 2
		for i := 0; i < numLocalVariables; i++ {
			startPc := c.readUnsignedShort(entryOffset)
			length := c.readUnsignedShort(entryOffset + 2)
			name := c.readUTF8(entryOffset+4, charBuffer)
			descriptor := c.readUTF8(entryOffset+6, charBuffer)
			index := c.readUnsignedShort(entryOffset + 8)
			signature := signatures[localVarKey{index, startPc}]
			methodVisitor.VisitLocalVariable(name, descriptor, signature, labels[startPc], labels[startPc+length], index)
			entryOffset += 10
		}
	}

	if (context.parsingOptions & SKIP_DEBUG) == 0 {
		for _, offset := range visibleTypeAnnotationOffsets {
			target := c.readTypeAnnotationTarget(context, offset)
			sort := context.currentTypeAnnotationTarget >> 24
			if sort != LOCAL_VARIABLE && sort != RESOURCE_VARIABLE {
				continue
			}
			descriptor := c.readUTF8(target, charBuffer)
			c.readElementValues(methodVisitor.VisitLocalVariableAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, context.currentLocalVariableAnnotationRangeStarts, context.currentLocalVariableAnnotationRangeEnds, context.currentLocalVariableAnnotationRangeIndices, descriptor, true), target+2, true, charBuffer)
		}
		for _, offset := range invisibleTypeAnnotationOffsets {
			target := c.readTypeAnnotationTarget(context, offset)
			sort := context.currentTypeAnnotationTarget >> 24
			if sort != LOCAL_VARIABLE && sort != RESOURCE_VARIABLE {
				continue
			}
			descriptor := c.readUTF8(target, charBuffer)
			c.readElementValues(methodVisitor.VisitLocalVariableAnnotation(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, context.currentLocalVariableAnnotationRangeStarts, context.currentLocalVariableAnnotationRangeEnds, context.currentLocalVariableAnnotationRangeIndices, descriptor, false), target+2, true, charBuffer)
		}
	}

	for attributes != nil {
		nextAttribute := attributes.nextAttribute
		attributes.nextAttribute = nil
		methodVisitor.VisitAttribute(attributes)
		attributes = nextAttribute
	}

	methodVisitor.VisitMaxs(maxStack, maxLocals)
}

func (c ClassReader) readLabel(bytecodeOffset int, labels []*Label) *Label {
	if labels[bytecodeOffset] == nil {
		labels[bytecodeOffset] = &Label{}
	}
	return labels[bytecodeOffset]
}

func (c ClassReader) createLabel(bytecodeOffset int, labels []*Label) *Label {
	label := c.readLabel(bytecodeOffset, labels)
	label.flags &= ^FLAG_DEBUG_ONLY
	return label
}

func (c ClassReader) createDebugLabel(bytecodeOffset int, labels []*Label) {
	if labels[bytecodeOffset] == nil {
		c.readLabel(bytecodeOffset, labels).flags |= FLAG_DEBUG_ONLY
	}
}

// ----------------------------------------------------------------------------------------------
// Methods to parse annotations, type annotations and parameter annotations
// ----------------------------------------------------------------------------------------------

func (c ClassReader) readTypeAnnotations(methodVisitor MethodVisitor, context *Context, runtimeTypeAnnotationsOffset int, visible bool) []int {
	charBuffer := context.charBuffer
	currentOffset := runtimeTypeAnnotationsOffset
	numAnnotations := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	typeAnnotationOffsets := make([]int, numAnnotations)
	for i := 0; i < numAnnotations; i++ {
		typeAnnotationOffsets[i] = currentOffset
		targetType := c.readInt(currentOffset)
		switch targetType >> 24 {
		case CLASS_TYPE_PARAMETER, METHOD_TYPE_PARAMETER, METHOD_FORMAL_PARAMETER:
			currentOffset += 2
		case FIELD, METHOD_RETURN, METHOD_RECEIVER:
			currentOffset += 1
		case LOCAL_VARIABLE, RESOURCE_VARIABLE:
			tableLength := c.readUnsignedShort(currentOffset + 1)
			currentOffset += 3 + tableLength*6
		case CAST, CONSTRUCTOR_INVOCATION_TYPE_ARGUMENT, METHOD_INVOCATION_TYPE_ARGUMENT,
			CONSTRUCTOR_REFERENCE_TYPE_ARGUMENT, METHOD_REFERENCE_TYPE_ARGUMENT:
			currentOffset += 4
		case CLASS_EXTENDS, CLASS_TYPE_PARAMETER_BOUND, METHOD_TYPE_PARAMETER_BOUND, THROWS, EXCEPTION_PARAMETER:
			currentOffset += 3
		case INSTANCEOF, NEW, CONSTRUCTOR_REFERENCE, METHOD_REFERENCE:
			currentOffset += 3
		}
		pathLength := int(c.readByte(currentOffset))
		currentOffset += 1 + 2*pathLength
		currentOffset += 2 // descriptor index
		currentOffset = c.readElementValues(nil, currentOffset, true, charBuffer)
	}
	return typeAnnotationOffsets
}

func (c ClassReader) getTypeAnnotationBytecodeOffset(typeAnnotationOffsets []int, typeAnnotationIndex int) int {
	if typeAnnotationOffsets == nil || typeAnnotationIndex >= len(typeAnnotationOffsets) || c.readByte(typeAnnotationOffsets[typeAnnotationIndex]) < INSTANCEOF {
		return -1
	}

	return c.readUnsignedShort(typeAnnotationOffsets[typeAnnotationIndex] + 1)
}

func (c ClassReader) readTypeAnnotationTarget(context *Context, typeAnnotationOffset int) int {
	currentOffset := typeAnnotationOffset
	targetType := c.readInt(currentOffset)
	switch targetType >> 24 {
	case CLASS_TYPE_PARAMETER, METHOD_TYPE_PARAMETER, METHOD_FORMAL_PARAMETER:
		targetType &= 0xFFFF0000
		currentOffset += 2
	case FIELD, METHOD_RETURN, METHOD_RECEIVER:
		targetType &= 0xFF000000
		currentOffset += 1
	case LOCAL_VARIABLE, RESOURCE_VARIABLE:
		targetType &= 0xFF000000
		tableLength := c.readUnsignedShort(currentOffset + 1)
		currentOffset += 3
		context.currentLocalVariableAnnotationRangeStarts = make([]*Label, tableLength)
		context.currentLocalVariableAnnotationRangeEnds = make([]*Label, tableLength)
		context.currentLocalVariableAnnotationRangeIndices = make([]int, tableLength)
		for i := 0; i < tableLength; i++ {
			startPc := c.readUnsignedShort(currentOffset)
			length := c.readUnsignedShort(currentOffset + 2)
			index := c.readUnsignedShort(currentOffset + 4)
			currentOffset += 6
			context.currentLocalVariableAnnotationRangeStarts[i] = c.createLabel(startPc, context.currentMethodLabels)
			context.currentLocalVariableAnnotationRangeEnds[i] = c.createLabel(startPc+length, context.currentMethodLabels)
			context.currentLocalVariableAnnotationRangeIndices[i] = index
		}
	case CAST, CONSTRUCTOR_INVOCATION_TYPE_ARGUMENT, METHOD_INVOCATION_TYPE_ARGUMENT,
		CONSTRUCTOR_REFERENCE_TYPE_ARGUMENT, METHOD_REFERENCE_TYPE_ARGUMENT:
		targetType &= 0xFF0000FF
		currentOffset += 4
	case CLASS_EXTENDS, CLASS_TYPE_PARAMETER_BOUND, METHOD_TYPE_PARAMETER_BOUND, THROWS, EXCEPTION_PARAMETER:
		targetType &= 0xFFFFFF00
		currentOffset += 3
	case INSTANCEOF, NEW, CONSTRUCTOR_REFERENCE, METHOD_REFERENCE:
		targetType &= 0xFF000000
		currentOffset += 3
	default:
		targetType &= 0xFF000000
	}
	context.currentTypeAnnotationTarget = targetType
	pathLength := int(c.readByte(currentOffset))
	if pathLength == 0 {
		context.currentTypeAnnotationTargetPath = nil
	} else {
		context.currentTypeAnnotationTargetPath = NewTypePath(c.b, currentOffset)
	}
	return currentOffset + 1 + 2*pathLength
}

func (c ClassReader) readParameterAnnotations(methodVisitor MethodVisitor, context *Context, runtimeParameterAnnotationsOffset int, visible bool) {
	charBuffer := context.charBuffer
	currentOffset := runtimeParameterAnnotationsOffset
	numParameters := int(c.readByte(currentOffset))
	currentOffset++
	methodVisitor.VisitAnnotableParameterCount(numParameters, visible)
	for i := 0; i < numParameters; i++ {
		numAnnotations := c.readUnsignedShort(currentOffset)
		currentOffset += 2
		for numAnnotations > 0 {
			annotationDescriptor := c.readUTF8(currentOffset, charBuffer)
			currentOffset += 2
			currentOffset = c.readElementValues(methodVisitor.VisitParameterAnnotation(i, annotationDescriptor, visible), currentOffset, true, charBuffer)
			numAnnotations--
		}
	}
}

func (c ClassReader) readElementValues(annotationVisitor AnnotationVisitor, annotationOffset int, named bool, charBuffer []rune) int {
	currentOffset := annotationOffset
	numElementValuePairs := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	if named {
		for numElementValuePairs > 0 {
			elementName := c.readUTF8(currentOffset, charBuffer)
			currentOffset += 2
			currentOffset = c.readElementValue(annotationVisitor, currentOffset, elementName, charBuffer)
			numElementValuePairs--
		}
	} else {
		for numElementValuePairs > 0 {
			currentOffset = c.readElementValue(annotationVisitor, currentOffset, "", charBuffer)
			numElementValuePairs--
		}
	}
	if annotationVisitor != nil {
		annotationVisitor.VisitEnd()
	}
	return currentOffset
}

func (c ClassReader) readElementValue(annotationVisitor AnnotationVisitor, elementValueOffset int, elementName string, charBuffer []rune) int {
	currentOffset := elementValueOffset
	if annotationVisitor == nil {
		switch c.b[currentOffset] {
		case 'e':
			return currentOffset + 5
		case '@':
			return c.readElementValues(nil, currentOffset+3, true, charBuffer)
		case '[':
			return c.readElementValues(nil, currentOffset+1, false, charBuffer)
		default:
			return currentOffset + 3
		}
	}
	tag := c.b[currentOffset]
	currentOffset++
	switch tag {
	case 'B':
		annotationVisitor.Visit(elementName, int8(c.readInt(c.cpInfoOffsets[c.readUnsignedShort(currentOffset)])))
		currentOffset += 2
	case 'C':
		annotationVisitor.Visit(elementName, rune(c.readInt(c.cpInfoOffsets[c.readUnsignedShort(currentOffset)])))
		currentOffset += 2
	case 'D', 'F', 'I', 'J':
		value, _ := c.readConst(c.readUnsignedShort(currentOffset), charBuffer)
		annotationVisitor.Visit(elementName, value)
		currentOffset += 2
	case 'S':
		annotationVisitor.Visit(elementName, int16(c.readInt(c.cpInfoOffsets[c.readUnsignedShort(currentOffset)])))
		currentOffset += 2
	case 'Z':
		annotationVisitor.Visit(elementName, c.readInt(c.cpInfoOffsets[c.readUnsignedShort(currentOffset)]) != 0)
		currentOffset += 2
	case 's':
		annotationVisitor.Visit(elementName, c.readUTF8(currentOffset, charBuffer))
		currentOffset += 2
	case 'e':
		annotationVisitor.VisitEnum(elementName, c.readUTF8(currentOffset, charBuffer), c.readUTF8(currentOffset+2, charBuffer))
		currentOffset += 4
	case 'c':
		annotationVisitor.Visit(elementName, GetType(c.readUTF8(currentOffset, charBuffer)))
		currentOffset += 2
	case '@':
		descriptor := c.readUTF8(currentOffset, charBuffer)
		currentOffset += 2
		currentOffset = c.readElementValues(annotationVisitor.VisitAnnotation(elementName, descriptor), currentOffset, true, charBuffer)
	case '[':
		return c.readElementValues(annotationVisitor.VisitArray(elementName), currentOffset, false, charBuffer)
	}
	return currentOffset
}

// ----------------------------------------------------------------------------------------------
// Methods to parse stack map frames
// ----------------------------------------------------------------------------------------------

func (c ClassReader) computeImplicitFame(context *Context) {
	locals := context.currentFrameLocalTypes
	numLocal := 0
	if (context.currentMethodAccessFlags & opcodes.ACC_STATIC) == 0 {
		if context.currentMethodName == "<init>" {
			locals[numLocal] = opcodes.UNINITIALIZED_THIS
		} else {
			locals[numLocal] = c.GetClassName()
		}
		numLocal++
	}
	for _, argType := range ArgumentTypes(context.currentMethodDescriptor) {
		switch argType.Sort() {
		case typed.BOOLEAN, typed.CHAR, typed.BYTE, typed.SHORT, typed.INT:
			locals[numLocal] = opcodes.INTEGER
			numLocal++
		case typed.FLOAT:
			locals[numLocal] = opcodes.FLOAT
			numLocal++
		case typed.LONG:
			locals[numLocal] = opcodes.LONG
			numLocal++
			locals[numLocal] = opcodes.TOP
			numLocal++
		case typed.DOUBLE:
			locals[numLocal] = opcodes.DOUBLE
			numLocal++
			locals[numLocal] = opcodes.TOP
			numLocal++
		case typed.ARRAY:
			locals[numLocal] = argType.Descriptor()
			numLocal++
		default:
			locals[numLocal] = argType.InternalName()
			numLocal++
		}
	}
	context.currentFrameLocalCount = numLocal
}

// Compressed stack map frame_type boundaries, JVMS 4.7.4.
const frameTypeSameLocals1StackItem = 64
const frameTypeReserved = 128
const frameTypeSameLocals1StackItemExtended = 247
const frameTypeChop = 248
const frameTypeSameExtended = 251
const frameTypeAppend = 252
const frameTypeFull = 255

func (c ClassReader) readStackMapFrame(stackMapFrameOffset int, compressed bool, expand bool, context *Context) int {
	currentOffset := stackMapFrameOffset
	charBuffer := context.charBuffer
	labels := context.currentMethodLabels

	var frameType int
	if compressed {
		frameType = int(c.readByte(currentOffset))
		currentOffset++
	} else {
		frameType = frameTypeFull
		context.currentFrameOffset = -1
	}

	var offsetDelta int
	context.currentFrameLocalCountDelta = 0
	switch {
	case frameType < frameTypeSameLocals1StackItem:
		offsetDelta = frameType
		context.currentFrameType = opcodes.F_SAME
		context.currentFrameStackCount = 0
	case frameType < frameTypeReserved:
		offsetDelta = frameType - frameTypeSameLocals1StackItem
		currentOffset = c.readVerificationTypeInfo(currentOffset, context.currentFrameStackTypes, 0, charBuffer, labels)
		context.currentFrameType = opcodes.F_SAME1
		context.currentFrameStackCount = 1
	default:
		offsetDelta = c.readUnsignedShort(currentOffset)
		currentOffset += 2
		switch {
		case frameType == frameTypeSameLocals1StackItemExtended:
			currentOffset = c.readVerificationTypeInfo(currentOffset, context.currentFrameStackTypes, 0, charBuffer, labels)
			context.currentFrameType = opcodes.F_SAME1
			context.currentFrameStackCount = 1
		case frameType >= frameTypeChop && frameType < frameTypeSameExtended:
			context.currentFrameType = opcodes.F_CHOP
			context.currentFrameLocalCountDelta = frameTypeSameExtended - frameType
			context.currentFrameLocalCount -= context.currentFrameLocalCountDelta
			context.currentFrameStackCount = 0
		case frameType == frameTypeSameExtended:
			context.currentFrameType = opcodes.F_SAME
			context.currentFrameStackCount = 0
		case frameType < frameTypeFull:
			local := 0
			if expand {
				local = context.currentFrameLocalCount
			}
			for k := frameType - frameTypeSameExtended; k > 0; k-- {
				currentOffset = c.readVerificationTypeInfo(currentOffset, context.currentFrameLocalTypes, local, charBuffer, labels)
				local++
			}
			context.currentFrameType = opcodes.F_APPEND
			context.currentFrameLocalCountDelta = frameType - frameTypeSameExtended
			context.currentFrameLocalCount += context.currentFrameLocalCountDelta
			context.currentFrameStackCount = 0
		default:
			context.currentFrameType = opcodes.F_FULL
			localCount := c.readUnsignedShort(currentOffset)
			currentOffset += 2
			context.currentFrameLocalCountDelta = localCount
			context.currentFrameLocalCount = localCount
			for local := 0; local < localCount; local++ {
				currentOffset = c.readVerificationTypeInfo(currentOffset, context.currentFrameLocalTypes, local, charBuffer, labels)
			}
			stackCount := c.readUnsignedShort(currentOffset)
			currentOffset += 2
			context.currentFrameStackCount = stackCount
			for stack := 0; stack < stackCount; stack++ {
				currentOffset = c.readVerificationTypeInfo(currentOffset, context.currentFrameStackTypes, stack, charBuffer, labels)
			}
		}
	}

	context.currentFrameOffset += offsetDelta + 1
	c.createLabel(context.currentFrameOffset, labels)
	return currentOffset
}

func (c ClassReader) readVerificationTypeInfo(verificationTypeInfoOffset int, frame []interface{}, index int, charBuffer []rune, labels []*Label) int {
	currentOffset := verificationTypeInfoOffset
	tag := int(c.readByte(currentOffset))
	currentOffset++
	switch tag {
	case opcodes.TOP, opcodes.INTEGER, opcodes.FLOAT, opcodes.DOUBLE, opcodes.LONG, opcodes.NULL, opcodes.UNINITIALIZED_THIS:
		frame[index] = tag
	case 7:
		frame[index] = c.readClass(currentOffset, charBuffer)
		currentOffset += 2
	case 8:
		frame[index] = c.createLabel(c.readUnsignedShort(currentOffset), labels)
		currentOffset += 2
	}
	return currentOffset
}

// ----------------------------------------------------------------------------------------------
// Methods to parse attributes
// ----------------------------------------------------------------------------------------------

func (c ClassReader) getFirstAttributeOffset() int {
	currentOffset := c.header + 8 + c.readUnsignedShort(c.header+6)*2
	fieldsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for fieldsCount > 0 {
		attributesCount := c.readUnsignedShort(currentOffset + 6)
		currentOffset += 8
		for attributesCount > 0 {
			currentOffset += 6 + c.readInt(currentOffset+2)
			attributesCount--
		}
		fieldsCount--
	}

	methodsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for methodsCount > 0 {
		attributesCount := c.readUnsignedShort(currentOffset + 6)
		currentOffset += 8
		for attributesCount > 0 {
			currentOffset += 6 + c.readInt(currentOffset+2)
			attributesCount--
		}
		methodsCount--
	}

	return currentOffset + 2
}

func (c ClassReader) readAttribute(attributePrototypes []Attribute, typed string, offset int, length int, charBuffer []rune, codeAttributeOffset int, labels []*Label) *Attribute {
	for i := 0; i < len(attributePrototypes); i++ {
		if attributePrototypes[i].typed == typed {
			return attributePrototypes[i].read(&c, offset, length, charBuffer, codeAttributeOffset, labels)
		}
	}
	return NewAttribute(typed).read(&c, offset, length, nil, -1, nil)
}

// -----------------------------------------------------------------------------------------------
// Utility methods: low level parsing
// -----------------------------------------------------------------------------------------------

func (c ClassReader) getItemCount() int {
	return len(c.cpInfoOffsets)
}

func (c ClassReader) getItem(constantPoolEntryIndex int) int {
	return c.cpInfoOffsets[constantPoolEntryIndex]
}

func (c ClassReader) getMaxStringLength() int {
	return c.maxStringLength
}

func (c ClassReader) readByte(offset int) byte {
	return c.b[offset] & 0xFF
}

func (c ClassReader) readUnsignedShort(offset int) int {
	b := c.b
	return int(b[offset])<<8 | int(b[offset+1])
}

func (c ClassReader) readShort(offset int) int16 {
	b := c.b
	return int16(uint16(b[offset])<<8 | uint16(b[offset+1]))
}

func (c ClassReader) readInt(offset int) int {
	b := c.b
	return int(int32(uint32(b[offset])<<24 | uint32(b[offset+1])<<16 | uint32(b[offset+2])<<8 | uint32(b[offset+3])))
}

func (c ClassReader) readLong(offset int) int64 {
	var l1 int64
	var l0 int64
	l1 = int64(c.readInt(offset))
	l0 = int64(c.readInt(offset+4) & 0xFFFFFFFF)
	return (l1 << 32) | l0
}

func (c ClassReader) readUTF8(offset int, charBuffer []rune) string {
	constantPoolEntryIndex := c.readUnsignedShort(offset)
	if offset == 0 || constantPoolEntryIndex == 0 {
		return ""
	}
	return c.readUTF(constantPoolEntryIndex, charBuffer)
}

func (c ClassReader) readUTF(constantPoolEntryIndex int, charBuffer []rune) string {
	value := c.constantUtf8Values[constantPoolEntryIndex]
	if value != "" {
		return value
	}
	cpInfoOffset := c.cpInfoOffsets[constantPoolEntryIndex]
	c.constantUtf8Values[constantPoolEntryIndex] = c.readUTFB(cpInfoOffset+2, c.readUnsignedShort(cpInfoOffset), charBuffer)

	return c.constantUtf8Values[constantPoolEntryIndex]
}

func (c ClassReader) readUTFB(utfOffset int, utfLength int, charBuffer []rune) string {
	currentOffset := utfOffset
	endOffset := currentOffset + utfLength
	strLength := 0
	b := c.b
	for currentOffset < endOffset {
		currentByte := b[currentOffset]
		currentOffset++
		if (currentByte & 0x80) == 0 {
			charBuffer[strLength] = rune(currentByte & 0x7F)
			strLength++
		} else if (currentByte & 0xE0) == 0xC0 {
			charBuffer[strLength] = rune(currentByte&0x1F)<<6 + rune(b[currentOffset]&0x3F)
			strLength++
			currentOffset++
		} else {
			d := rune(currentByte&0xF)<<12 + rune(b[currentOffset]&0x3F)<<6
			currentOffset++
			charBuffer[strLength] = d + rune(b[currentOffset]&0x3F)
			strLength++
			currentOffset++
		}
	}
	units := make([]uint16, strLength)
	for i := range units {
		units[i] = uint16(charBuffer[i])
	}
	return string(utf16.Decode(units))
}

func (c ClassReader) readStringish(offset int, charBuffer []rune) string {
	return c.readUTF8(c.cpInfoOffsets[c.readUnsignedShort(offset)], charBuffer)
}

func (c ClassReader) readClass(offset int, charBuffer []rune) string {
	return c.readStringish(offset, charBuffer)
}

func (c ClassReader) readModuleB(offset int, charBuffer []rune) string {
	return c.readStringish(offset, charBuffer)
}

func (c ClassReader) readPackage(offset int, charBuffer []rune) string {
	return c.readStringish(offset, charBuffer)
}

func (c ClassReader) readConst(constantPoolEntryIndex int, charBuffer []rune) (interface{}, error) {
	cpInfoOffset := c.cpInfoOffsets[constantPoolEntryIndex]
	switch c.b[cpInfoOffset-1] {
	case byte(symbol.CONSTANT_INTEGER_TAG):
		return c.readInt(cpInfoOffset), nil
	case byte(symbol.CONSTANT_FLOAT_TAG):
		return math.Float32frombits(uint32(c.readInt(cpInfoOffset))), nil
	case byte(symbol.CONSTANT_LONG_TAG):
		return c.readLong(cpInfoOffset), nil
	case byte(symbol.CONSTANT_DOUBLE_TAG):
		return math.Float64frombits(uint64(c.readLong(cpInfoOffset))), nil
	case byte(symbol.CONSTANT_CLASS_TAG):
		return GetObjectType(c.readUTF8(cpInfoOffset, charBuffer)), nil
	case byte(symbol.CONSTANT_STRING_TAG):
		return c.readUTF8(cpInfoOffset, charBuffer), nil
	case byte(symbol.CONSTANT_METHOD_TYPE_TAG):
		return GetMethodType(c.readUTF8(cpInfoOffset, charBuffer)), nil
	case byte(symbol.CONSTANT_METHOD_HANDLE_TAG):
		referenceKind := int(c.readByte(cpInfoOffset))
		referenceCpInfoOffset := c.cpInfoOffsets[c.readUnsignedShort(cpInfoOffset+1)]
		nameAndTypeCpInfoOffset := c.cpInfoOffsets[c.readUnsignedShort(referenceCpInfoOffset+2)]
		owner := c.readClass(referenceCpInfoOffset, charBuffer)
		name := c.readUTF8(nameAndTypeCpInfoOffset, charBuffer)
		desc := c.readUTF8(nameAndTypeCpInfoOffset+2, charBuffer)
		itf := c.b[referenceCpInfoOffset-1] == byte(symbol.CONSTANT_INTERFACE_METHODREF_TAG)
		return NewHandle(referenceKind, owner, name, desc, itf), nil
	default:
		return nil, errors.New("Assertion Error")
	}
}
