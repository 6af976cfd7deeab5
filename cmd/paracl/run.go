package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/subcommands"

	"paracl/driver"
)

type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and execute a ParaCL source file" }
func (*runCmd) Usage() string {
	return `run <file.cl>:
  Compile and execute a ParaCL source file against stdin/stdout.
`
}
func (*runCmd) SetFlags(f *flag.FlagSet) {}

func (*runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "run: missing source file")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return subcommands.ExitFailure
	}

	d, runErr := driver.Run(args[0], string(data), os.Stdin, os.Stdout)
	if d.HasErrors() {
		for _, e := range d.Errors() {
			color.New(color.FgRed).Fprintln(os.Stderr, e.Error())
		}
		return subcommands.ExitFailure
	}
	if runErr != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "runtime error: %v\n", runErr)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
