package ast

// UnaryOp is the operator of a Unary node.
type UnaryOp int

const (
	UnPlus UnaryOp = iota
	UnMinus
	UnNot
	UnPreInc
	UnPreDec
	UnPostInc
	UnPostDec
)

// IsIncDec reports whether op is one of the four ++/-- variants, which
// require an assignable (Variable) operand.
func (op UnaryOp) IsIncDec() bool {
	switch op {
	case UnPreInc, UnPreDec, UnPostInc, UnPostDec:
		return true
	default:
		return false
	}
}

// IsPostfix reports whether op is a postfix ++/--.
func (op UnaryOp) IsPostfix() bool {
	return op == UnPostInc || op == UnPostDec
}

// BinaryOp is the operator of a Binary node.
type BinaryOp int

const (
	BinMul BinaryOp = iota
	BinDiv
	BinMod
	BinAdd
	BinSub
	BinLt
	BinGt
	BinLe
	BinGe
	BinEq
	BinNe
	BinAnd
	BinOr
	BinAssign
	BinComma
)

// Unary is a prefix/postfix unary expression: +x, -x, !x, ++x, --x, x++, x--.
type Unary struct {
	Op   UnaryOp
	Expr Expr
	Loc  Loc
}

func (n *Unary) Accept(v ExprVisitor) any { return v.VisitUnary(n) }
func (n *Unary) Location() Loc            { return n.Loc }

// Binary is a two-operand expression, including assignment and comma.
type Binary struct {
	Op  BinaryOp
	Lhs Expr
	Rhs Expr
	Loc Loc
}

func (n *Binary) Accept(v ExprVisitor) any { return v.VisitBinary(n) }
func (n *Binary) Location() Loc            { return n.Loc }

// Ternary is `cond ? onTrue : onFalse`.
type Ternary struct {
	Cond    Expr
	OnTrue  Expr
	OnFalse Expr
	Loc     Loc
}

func (n *Ternary) Accept(v ExprVisitor) any { return v.VisitTernary(n) }
func (n *Ternary) Location() Loc            { return n.Loc }

// ConstantInt is an integer literal.
type ConstantInt struct {
	Value int32
	Loc   Loc
}

func (n *ConstantInt) Accept(v ExprVisitor) any { return v.VisitConstantInt(n) }
func (n *ConstantInt) Location() Loc            { return n.Loc }

// Variable is a reference to a named value. Node identity is by pointer:
// the Scope table maps a name to the *Variable node that first declared
// it, and every later reference to the same name is a distinct node that
// resolves to that declaration rather than being it.
type Variable struct {
	Name string
	Loc  Loc
}

func (n *Variable) Accept(v ExprVisitor) any { return v.VisitVariable(n) }
func (n *Variable) Location() Loc            { return n.Loc }

// Input is the `?` expression: read one integer from the VM's input
// stream.
type Input struct {
	Loc Loc
}

func (n *Input) Accept(v ExprVisitor) any { return v.VisitInput(n) }
func (n *Input) Location() Loc            { return n.Loc }
