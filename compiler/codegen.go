package compiler

import "paracl/ast"

// postfixEffect is one queued `x++`/`x--` write-back, deferred from the
// point the old value was read to the next statement-level flush point.
type postfixEffect struct {
	addr      int32
	increment bool
}

// loopReset is a queued break/continue jump waiting for its enclosing
// while to finish code generation, at which point it is patched to that
// loop's exit or condition address.
type loopReset struct {
	loop     *ast.While
	isBreak  bool
	jumpAddr int32
}

// CodeGenerator lowers a validated AST into an Image. It implements both
// ast.ExprVisitor and ast.StmtVisitor.
type CodeGenerator struct {
	img       *Image
	constants *ConstantPool
	frame     StackFrame

	postfix    []postfixEffect
	loopResets []loopReset
}

// NewCodeGenerator returns a generator emitting into a fresh Image.
func NewCodeGenerator() *CodeGenerator {
	img := NewImage()
	return &CodeGenerator{img: img, constants: NewConstantPool(img)}
}

// Generate lowers root and appends the final Hlt, per spec.
func Generate(root *ast.Block) *Image {
	g := NewCodeGenerator()
	root.Accept(g)
	g.img.Emit(OpHlt, 0)
	return g.img
}

func (g *CodeGenerator) beginScope(scope *ast.Scope) {
	size := g.frame.BeginScope(scope)
	if size > 0 {
		g.img.Emit(OpAlloca, size)
	}
}

func (g *CodeGenerator) endScope() {
	size := g.frame.EndScope()
	if size > 0 {
		g.img.Emit(OpAlloca, -size)
	}
}

// flushPostfix emits the write-back sequence for every queued postfix
// ++/-- and clears the queue. Each entry becomes:
// iPushAddr addr; iPushVal 1; iAdd|iSub; iPopAddr addr.
func (g *CodeGenerator) flushPostfix() {
	for _, p := range g.postfix {
		g.img.Emit(OpIPushAddr, p.addr)
		g.img.Emit(OpIPushVal, 1)
		if p.increment {
			g.img.Emit(OpIAdd, 0)
		} else {
			g.img.Emit(OpISub, 0)
		}
		g.img.Emit(OpIPopAddr, p.addr)
	}
	g.postfix = g.postfix[:0]
}

// patchLoopResets pops every queued break/continue belonging to loop
// (always the most recently queued, since nested loops always finish
// before their enclosing loop does) and patches it to exitAddr/condAddr.
func (g *CodeGenerator) patchLoopResets(loop *ast.While, exitAddr, condAddr int32) {
	for len(g.loopResets) > 0 && g.loopResets[len(g.loopResets)-1].loop == loop {
		r := g.loopResets[len(g.loopResets)-1]
		g.loopResets = g.loopResets[:len(g.loopResets)-1]
		target := condAddr
		if r.isBreak {
			target = exitAddr
		}
		g.img.Patch(r.jumpAddr, target)
	}
}

func (g *CodeGenerator) varAddr(name string) int32 {
	addr, ok := g.frame.LookupVar(name)
	if !ok {
		panic(DeveloperError{"reference to undeclared variable " + name + " reached code generation"})
	}
	return addr
}

// --- expressions ---

func (g *CodeGenerator) VisitConstantInt(n *ast.ConstantInt) any {
	addr := g.constants.PushConst(n.Value)
	g.img.Emit(OpIPushAddr, addr)
	return nil
}

func (g *CodeGenerator) VisitVariable(n *ast.Variable) any {
	g.img.Emit(OpIPushAddr, g.varAddr(n.Name))
	return nil
}

func (g *CodeGenerator) VisitInput(n *ast.Input) any {
	g.img.Emit(OpIIn, 0)
	return nil
}

func (g *CodeGenerator) VisitUnary(n *ast.Unary) any {
	switch n.Op {
	case ast.UnPlus:
		n.Expr.Accept(g)
	case ast.UnMinus:
		g.img.Emit(OpIPushVal, 0)
		n.Expr.Accept(g)
		g.img.Emit(OpISub, 0)
	case ast.UnNot:
		n.Expr.Accept(g)
		g.img.Emit(OpINot, 0)
	case ast.UnPreInc, ast.UnPreDec:
		addr := g.varAddr(n.Expr.(*ast.Variable).Name)
		g.img.Emit(OpIPushAddr, addr)
		g.img.Emit(OpIPushVal, 1)
		if n.Op == ast.UnPreInc {
			g.img.Emit(OpIAdd, 0)
		} else {
			g.img.Emit(OpISub, 0)
		}
		g.img.Emit(OpIPopAddr, addr)
		g.img.Emit(OpIPushAddr, addr) // yield the now-updated value
	case ast.UnPostInc, ast.UnPostDec:
		addr := g.varAddr(n.Expr.(*ast.Variable).Name)
		g.img.Emit(OpIPushAddr, addr) // yield the old value
		g.postfix = append(g.postfix, postfixEffect{addr: addr, increment: n.Op == ast.UnPostInc})
	}
	return nil
}

var binaryOpcode = map[ast.BinaryOp]OpCode{
	ast.BinMul: OpIMul, ast.BinDiv: OpIDiv, ast.BinMod: OpIMod,
	ast.BinAdd: OpIAdd, ast.BinSub: OpISub,
	ast.BinLt: OpICmpL, ast.BinGt: OpICmpG, ast.BinLe: OpICmpLE, ast.BinGe: OpICmpGE,
	ast.BinEq: OpICmpEQ, ast.BinNe: OpICmpNE,
	ast.BinAnd: OpIAnd, ast.BinOr: OpIOr,
}

func (g *CodeGenerator) VisitBinary(n *ast.Binary) any {
	switch n.Op {
	case ast.BinAssign:
		n.Rhs.Accept(g)
		addr := g.varAddr(n.Lhs.(*ast.Variable).Name)
		g.img.Emit(OpIPopAddr, addr)
		g.img.Emit(OpIPushAddr, addr)
	case ast.BinComma:
		n.Lhs.Accept(g)
		g.img.Emit(OpIPopVal, 0)
		n.Rhs.Accept(g)
	default:
		op, ok := binaryOpcode[n.Op]
		if !ok {
			panic(DeveloperError{"unhandled binary operator"})
		}
		n.Lhs.Accept(g)
		n.Rhs.Accept(g)
		g.img.Emit(op, 0)
	}
	return nil
}

// VisitTernary lowers `cond ? onTrue : onFalse` with the false branch
// compiled first at the JmpTrue's fall-through, matching the original
// implementation's lowering order.
func (g *CodeGenerator) VisitTernary(n *ast.Ternary) any {
	n.Cond.Accept(g)
	g.flushPostfix()
	jmpTrue := g.img.Emit(OpJmpTrue, 0)
	n.OnFalse.Accept(g)
	g.flushPostfix()
	jmpEnd := g.img.Emit(OpJmp, 0)
	g.img.Patch(jmpTrue, g.img.CurrentAddr())
	n.OnTrue.Accept(g)
	g.flushPostfix()
	g.img.Patch(jmpEnd, g.img.CurrentAddr())
	return nil
}

// --- statements ---

func (g *CodeGenerator) VisitBlock(n *ast.Block) any {
	g.beginScope(n.Scope)
	for _, stmt := range n.Stmts {
		stmt.Accept(g)
	}
	g.endScope()
	return nil
}

func (g *CodeGenerator) VisitExpressionStmt(n *ast.ExpressionStmt) any {
	n.Expr.Accept(g)
	g.img.Emit(OpIPopVal, 0)
	g.flushPostfix()
	return nil
}

func (g *CodeGenerator) VisitIf(n *ast.If) any {
	g.beginScope(n.Scope)
	n.Cond.Accept(g)
	g.flushPostfix()
	jmpFalse := g.img.Emit(OpJmpFalse, 0)
	n.Then.Accept(g)
	g.img.Patch(jmpFalse, g.img.CurrentAddr())
	g.endScope()
	return nil
}

func (g *CodeGenerator) VisitIfElse(n *ast.IfElse) any {
	g.beginScope(n.Scope)
	n.Cond.Accept(g)
	g.flushPostfix()
	jmpTrue := g.img.Emit(OpJmpTrue, 0)
	n.Else.Accept(g)
	jmpEnd := g.img.Emit(OpJmp, 0)
	g.img.Patch(jmpTrue, g.img.CurrentAddr())
	n.Then.Accept(g)
	g.img.Patch(jmpEnd, g.img.CurrentAddr())
	g.endScope()
	return nil
}

func (g *CodeGenerator) VisitWhile(n *ast.While) any {
	g.beginScope(n.Scope)
	condAddr := g.img.CurrentAddr()
	n.Cond.Accept(g)
	g.flushPostfix()
	exitJump := g.img.Emit(OpJmpFalse, 0)
	n.Body.Accept(g)
	g.img.Emit(OpJmp, condAddr)
	exitAddr := g.img.CurrentAddr()
	g.img.Patch(exitJump, exitAddr)
	g.patchLoopResets(n, exitAddr, condAddr)
	g.endScope()
	return nil
}

func (g *CodeGenerator) VisitOutput(n *ast.Output) any {
	n.Expr.Accept(g)
	g.img.Emit(OpIOut, 0)
	g.flushPostfix()
	return nil
}

func (g *CodeGenerator) VisitBreak(n *ast.Break) any {
	addr := g.img.Emit(OpJmp, 0)
	g.loopResets = append(g.loopResets, loopReset{loop: n.Loop, isBreak: true, jumpAddr: addr})
	return nil
}

func (g *CodeGenerator) VisitContinue(n *ast.Continue) any {
	addr := g.img.Emit(OpJmp, 0)
	g.loopResets = append(g.loopResets, loopReset{loop: n.Loop, isBreak: false, jumpAddr: addr})
	return nil
}
