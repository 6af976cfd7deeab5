package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/subcommands"

	"paracl/driver"
	"paracl/lexer"
	"paracl/report"
	"paracl/token"
)

var (
	promptColor = color.New(color.FgCyan)
	errorColor  = color.New(color.FgRed)
	resultColor = color.New(color.FgGreen)
)

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive ParaCL session" }
func (*replCmd) Usage() string {
	return `repl:
  Read ParaCL statements line by line and execute each as it completes.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	promptColor.Println("ParaCL REPL. Type an expression statement, or 'exit' to quit.")

	rl, err := readline.New(">>> ")
	if err != nil {
		errorColor.Printf("repl: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	var buffer strings.Builder
	line := 0
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		input, err := rl.Readline()
		if err != nil {
			resultColor.Println("goodbye")
			return subcommands.ExitSuccess
		}
		if strings.TrimSpace(input) == "exit" && buffer.Len() == 0 {
			resultColor.Println("goodbye")
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(input)
		source := buffer.String()

		r := report.NewReporter()
		tokens := lexer.New("<repl>", source).Scan(r)
		if !isInputReady(tokens) {
			continue
		}

		line++
		d, runErr := driver.Run(fmt.Sprintf("<repl:%d>", line), source, rl.Stdin(), rl.Stdout())
		if d.HasErrors() {
			for _, e := range d.Errors() {
				errorColor.Fprintln(rl.Stderr(), e.Error())
			}
		} else if runErr != nil {
			errorColor.Fprintf(rl.Stderr(), "runtime error: %v\n", runErr)
		}
		rl.SaveHistory(source)
		buffer.Reset()
	}
}

// isInputReady reports whether tokens form a syntactically complete unit
// worth attempting to parse: braces balanced and the last non-EOF token
// is not one that obviously expects a continuation.
func isInputReady(tokens []token.Token) bool {
	depth := 0
	for _, t := range tokens {
		switch t.Kind {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		}
	}
	if depth > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}
	switch last.Kind {
	case token.ASSIGN, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.BANG, token.LT, token.GT, token.LE, token.GE, token.EQ, token.NE,
		token.AND, token.OR, token.COMMA, token.QUESTION, token.COLON,
		token.LPAREN, token.LBRACE,
		token.IF, token.ELSE, token.WHILE:
		return false
	}
	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Kind != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}
