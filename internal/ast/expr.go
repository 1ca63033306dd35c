package ast

// Node is the base interface implemented by every AST node (Expr, Stmt).
type Node interface {
	ID() uint64
	Position() Pos
}

// Expr is any expression-position node.
type Expr interface {
	Node
	exprNode()
	// GetType/SetType implement the typed-slot invariant: after type
	// checking, every reachable expression has a non-null Type except
	// void-returning statement-position expressions.
	GetType() Type
	SetType(Type)
}

// ExprBase is embedded by every concrete Expr. It owns the stable NodeID,
// source position and the type slot the checker fills in.
type ExprBase struct {
	NodeIDValue uint64
	Pos Pos
	Type Type
}

func NewExprBase(pos Pos) ExprBase {
	return ExprBase{NodeIDValue: NewNodeID(), Pos: pos}
}

func (b *ExprBase) ID() uint64 { return b.NodeIDValue }
func (b *ExprBase) Position() Pos { return b.Pos }
func (b *ExprBase) GetType() Type { return b.Type }
func (b *ExprBase) SetType(t Type) { b.Type = t }
func (b *ExprBase) exprNode() {}

// IntLiteral is an integer constant. Sign is recorded because inference
// picks a signed vs. unsigned family depending on the literal's marker
// (e.g. trailing `u`).
type IntLiteral struct {
	ExprBase
	Value int64
	Unsigned bool
}

// FloatLiteral is a floating point constant; defaults to f64.
type FloatLiteral struct {
	ExprBase
	Value float64
}

// StringLiteral is a string constant.
type StringLiteral struct {
	ExprBase
	Value string
}

// CharLiteral is a character constant; checker assigns type u8.
type CharLiteral struct {
	ExprBase
	Value byte
}

// BoolLiteral is `true` or `false`; checker assigns type bool.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// Identifier is a name reference. ResolvedSymbol is attached exactly once
// by the resolver; CreatesNewVariable records whether this occurrence
// is the LHS of a declaration-assignment (walrus-style).
type Identifier struct {
	ExprBase
	Name string
	ResolvedSymbol interface{} // *scope.Symbol
	CreatesNewVariable bool
}

// Binary is a binary operator application.
type Binary struct {
	ExprBase
	Op string
	Left Expr
	Right Expr
}

// Unary is a unary operator application.
type Unary struct {
	ExprBase
	Op string
	Operand Expr
}

// Cast converts Operand to TargetType.
type Cast struct {
	ExprBase
	Operand Expr
	TargetType Type
}

// Call applies Operand (a function or type-constructor name) to Receivers
// (mutable-by-reference leading arguments, subject to purity rules) and
// to Args (ordinary value/expression-parameter arguments).
type Call struct {
	ExprBase
	Operand Expr
	Receivers []Expr
	Args []Expr
}

// Index is operand[Args[0]].
type Index struct {
	ExprBase
	Operand Expr
	Args []Expr
}

// Member is operand.Name (field or synthetic tuple field access).
type Member struct {
	ExprBase
	Operand Expr
	Name string
}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	ExprBase
	Elements []Expr
}

// TupleLiteral is `(e1, e2, ...)`.
type TupleLiteral struct {
	ExprBase
	Elements []Expr
}

// Range is `left..right`, materialized at compile time into an integer
// array.
type Range struct {
	ExprBase
	Left Expr
	Right Expr
}

// Length is `#operand` (array/string length).
type Length struct {
	ExprBase
	Operand Expr
}

// Conditional is the ternary expression form `cond ? t : f`.
type Conditional struct {
	ExprBase
	Condition Expr
	TrueExpr Expr
	FalseExpr Expr
}

// Assignment covers both plain assignment and declaration-assignment
// (CreatesNewVariable true implies Left is a bare Identifier whose
// type slot is null at the declaration site).
type Assignment struct {
	ExprBase
	Left Expr
	Right Expr
	CreatesNewVariable bool
}

// Block is `{ stmts...; result? }`. ResultExpr is nil for a bare block
// (CTE yields integer 0 for it).
type Block struct {
	ExprBase
	Statements []Stmt
	ResultExpr Expr
}

// Iteration is `for _ in Operand { Right }`. IsSorted makes the checker
// require the `T::@@` hook instead of `T::@` for a Named operand; an array
// operand is traversed in element order either way.
type Iteration struct {
	ExprBase
	Operand Expr
	Right Expr
	IsSorted bool
}

// Repeat is a `repeat { Right } until Condition` / while-style loop.
type Repeat struct {
	ExprBase
	Condition Expr
	Right Expr
}

// Resource is `resource{segment/segment/...}`. Resolved by the resource
// loader collaborator before the resolver ever sees one in a fully wired
// pipeline; retained as an Expr kind so the checker/residualizer degrade
// gracefully if a backend chooses to keep it unexpanded.
type Resource struct {
	ExprBase
	Path string
}

// Process is `process{"shell command"}`; substituted by the process
// collaborator, gated by --allow-process.
type Process struct {
	ExprBase
	Command string
}
