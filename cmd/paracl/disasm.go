package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"paracl/compiler"
	"paracl/driver"
)

type disasmCmd struct{}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "compile a source file and dump its bytecode" }
func (*disasmCmd) Usage() string {
	return `disasm <file.cl>:
  Compile a ParaCL source file and print its disassembly without running it.
`
}
func (*disasmCmd) SetFlags(f *flag.FlagSet) {}

func (*disasmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "disasm: missing source file")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "disasm: %v\n", err)
		return subcommands.ExitFailure
	}

	d := driver.New()
	root := d.Compile(args[0], string(data))
	if d.HasErrors() {
		for _, e := range d.Errors() {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return subcommands.ExitFailure
	}

	img := compiler.Generate(root)
	if err := compiler.Disassemble(img, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "disasm: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
