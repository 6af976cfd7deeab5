package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"paracl/ast"
	"paracl/lexer"
	"paracl/parser"
	"paracl/report"
	"paracl/semantics"
)

func compile(t *testing.T, src string) *Image {
	t.Helper()
	r := report.NewReporter()
	tokens := lexer.New("t.cl", src).Scan(r)
	root := parser.Make(tokens, r).Parse()
	require.False(t, r.HasErrors(), "lex/parse errors: %v", r.Errors())
	semantics.New(r).Analyze(root)
	require.False(t, r.HasErrors(), "semantic errors: %v", r.Errors())
	return Generate(root)
}

func opcodes(img *Image) []OpCode {
	out := make([]OpCode, len(img.Instructions))
	for i, in := range img.Instructions {
		out[i] = in.Op
	}
	return out
}

func TestGenerateEndsWithHlt(t *testing.T) {
	img := compile(t, "a = 1;")
	require.Equal(t, OpHlt, img.Instructions[len(img.Instructions)-1].Op)
}

func TestConstantInterning(t *testing.T) {
	img := compile(t, "a = 5; b = 5; c = 6;")
	require.Len(t, img.Constants, 2, "5 and 6 are distinct, the repeated 5 must not duplicate")
}

func TestScopeEmitsBalancedAlloca(t *testing.T) {
	img := compile(t, "{ a = 1; b = 2; }")
	var net int32
	sawAlloca := false
	for _, in := range img.Instructions {
		if in.Op == OpAlloca {
			sawAlloca = true
			net += in.Operand
		}
	}
	require.True(t, sawAlloca)
	require.Zero(t, net, "every Alloca +n must be matched by Alloca -n")
}

func TestAssignmentLeavesValueOnStack(t *testing.T) {
	img := compile(t, "a = (b = 1) + 1;")
	ops := opcodes(img)
	// b = 1 lowers to iPopAddr; iPushAddr, so its value feeds the '+'.
	require.Contains(t, ops, OpIPopAddr)
	require.Contains(t, ops, OpIAdd)
}

func TestIfElseBranchesBothPresent(t *testing.T) {
	img := compile(t, "x = 1; if (x > 0) print 1; else print 2;")
	count := 0
	for _, in := range img.Instructions {
		if in.Op == OpIOut {
			count++
		}
	}
	require.Equal(t, 2, count)
}

func TestWhileJumpTargetsAreInProgramRegion(t *testing.T) {
	img := compile(t, "i = 0; while (i < 3) { i = i + 1; }")
	for _, in := range img.Instructions {
		switch in.Op {
		case OpJmp, OpJmpTrue, OpJmpFalse:
			require.GreaterOrEqual(t, in.Operand, img.StackEnd)
			require.Less(t, in.Operand, img.InstrEnd)
			require.Zero(t, (in.Operand-img.StackEnd)%InstructionSize, "jump target must land on an instruction boundary")
		}
	}
}

func TestBreakAndContinueResetsArePatched(t *testing.T) {
	img := compile(t, "i = 0; while (i < 10) { if (i == 5) break; i = i + 1; if (i == 3) continue; }")
	for _, in := range img.Instructions {
		if in.Op == OpJmp {
			require.NotZero(t, in.Operand, "a Jmp left at its zero placeholder was never patched")
		}
	}
}

func TestPostfixPushesOldValue(t *testing.T) {
	// a = 0; b = a++; -> b must end up 0, not 1: the read happens at the
	// postfix site, the write-back is deferred to the statement flush.
	img := compile(t, "a = 0; b = a++;")
	var w strings.Builder
	require.NoError(t, Disassemble(img, &w))
	require.Contains(t, w.String(), "iPushAddr")
	// b (address 4) is stored straight from the read of a (address 0); the
	// increment of a is emitted only after that store.
	for i, in := range img.Instructions {
		if in.Op == OpIPopAddr && in.Operand == 4 {
			require.Equal(t, Instruction{Op: OpIPushAddr, Operand: 0}, img.Instructions[i-1])
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Instruction{Op: OpJmpFalse, Operand: -12345}
	buf := make([]byte, InstructionSize)
	in.Encode(buf)
	out := DecodeInstruction(buf)
	require.Equal(t, in, out)
}

func TestDisassembleFormat(t *testing.T) {
	img := compile(t, "print 42;")
	var w strings.Builder
	require.NoError(t, Disassemble(img, &w))
	require.Contains(t, w.String(), "ConstInt 42")
	require.Contains(t, w.String(), "iOut")
}

func TestConstantPoolStableAddress(t *testing.T) {
	img := NewImage()
	pool := NewConstantPool(img)
	a1 := pool.PushConst(7)
	a2 := pool.PushConst(7)
	require.Equal(t, a1, a2)
	a3 := pool.PushConst(8)
	require.NotEqual(t, a1, a3)
}

func TestStackFrameResolvesNestedScopes(t *testing.T) {
	outer := ast.NewScope()
	outer.Declare("a", &ast.Variable{Name: "a"})
	inner := ast.NewScope()
	inner.Declare("b", &ast.Variable{Name: "b"})

	var frame StackFrame
	frame.BeginScope(outer)
	frame.BeginScope(inner)

	if _, ok := frame.LookupVar("a"); !ok {
		t.Fatal("expected to resolve outer variable from inner scope")
	}
	if _, ok := frame.LookupVar("b"); !ok {
		t.Fatal("expected to resolve inner variable")
	}

	frame.EndScope()
	if _, ok := frame.LookupVar("b"); ok {
		t.Fatal("b should not resolve after its scope ends")
	}
}
