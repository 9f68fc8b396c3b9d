package ast

// ExprKind distinguishes the closed set of expression shapes:
// Number | BoolLiteral | NilLiteral | Identifier | Binary |
// Conditional | Call | MessageSend.

// NumberLiteral is an integer literal; it types as a scalar I32.
type NumberLiteral struct {
	Value    int64
	Location Position
}

func (n *NumberLiteral) exprNode()    {}
func (n *NumberLiteral) Pos() Position { return n.Location }

// BoolLiteral is `true`/`false`; it types as a scalar Bool.
type BoolLiteral struct {
	Value    bool
	Location Position
}

func (b *BoolLiteral) exprNode()    {}
func (b *BoolLiteral) Pos() Position { return b.Location }

// NilLiteral is `nil`; it folds to 0 and types as a scalar I32.
type NilLiteral struct {
	Location Position
}

func (n *NilLiteral) exprNode()    {}
func (n *NilLiteral) Pos() Position { return n.Location }

// Identifier is a name reference resolved against the scope stack, then
// globals, then function names.
type Identifier struct {
	Name     string
	Location Position
}

func (i *Identifier) exprNode()    {}
func (i *Identifier) Pos() Position { return i.Location }

// BinaryExpr covers every binary operator in the grammar:
// + - * / % & | ^ << >> == != < <= > >= && ||
type BinaryExpr struct {
	Op       string
	Left     Expr
	Right    Expr
	Location Position
}

func (b *BinaryExpr) exprNode()    {}
func (b *BinaryExpr) Pos() Position { return b.Location }

// ConditionalExpr is `cond ? then : else`.
type ConditionalExpr struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	Location Position
}

func (c *ConditionalExpr) exprNode()    {}
func (c *ConditionalExpr) Pos() Position { return c.Location }

// CallExpr is a direct function call by name.
type CallExpr struct {
	Callee   string
	Args     []Expr
	Location Position
}

func (c *CallExpr) exprNode()    {}
func (c *CallExpr) Pos() Position { return c.Location }

// MessageSendExpr is an Objective-C-style `[receiver selector:arg ...]` send.
// It always types as a scalar I32 regardless of receiver/argument types.
type MessageSendExpr struct {
	Receiver Expr
	Selector string
	Args     []Expr
	Location Position
}

func (m *MessageSendExpr) exprNode()    {}
func (m *MessageSendExpr) Pos() Position { return m.Location }
