// Command classdump is a thin integration-check harness for the reader
// side: it parses a class file and prints its fields and
// method line tables, exercising the same visitor surface a real
// consumer (an obfuscator, a coverage instrumenter, an analysis tool)
// would drive.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/sumimakito/asm/asm"
	"github.com/sumimakito/asm/asm/helper"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: classdump <path-to-class-file>")
		os.Exit(1)
	}

	bytes, err := ioutil.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reader, err := asm.NewClassReader(bytes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var className string
	reader.Accept(&helper.ClassVisitor{
		OnVisit: func(version, access int, name, signature, superName string, interfaces []string) {
			className = name
			fmt.Printf("class %s extends %s (version %d, access 0x%x)\n", name, superName, version, access)
			for _, iface := range interfaces {
				fmt.Printf("  implements %s\n", iface)
			}
		},
		OnVisitField: func(access int, name, descriptor, signature string, value interface{}) asm.FieldVisitor {
			fmt.Printf("  field %s %s\n", name, descriptor)
			return nil
		},
		OnVisitMethod: func(access int, name, descriptor, signature string, exceptions []string) asm.MethodVisitor {
			fmt.Printf("  method %s%s\n", name, descriptor)
			return &helper.MethodVisitor{
				OnVisitLineNumber: func(line int, start *asm.Label) {
					fmt.Printf("    line %d\n", line)
				},
			}
		},
		OnVisitEnd: func() {
			fmt.Printf("end of %s\n", className)
		},
	}, 0)
}
