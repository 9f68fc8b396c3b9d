package ast

import "github.com/doublemover/objc3sema/internal/semtype"

// SuffixToken is a single type-suffix/declarator token (generic, pointer,
// or nullability) carried on a parameter or return-type annotation, kept
// with its own source location so each can be individually diagnosed.
type SuffixToken struct {
	Text     string
	Location Position
}

// TypeAnnotation describes the declared type of a parameter or a function
// return, including the vector shape and the id/Class/instancetype
// generic-suffix, pointer-declarator, and nullability-suffix annotations
// that are only legal on those three spellings.
type TypeAnnotation struct {
	Base ValueType

	VectorSpelling  bool
	VectorBase      string
	VectorLaneCount int

	// IDSpelling, ClassSpelling, and InstancetypeSpelling mark the three
	// annotation forms that may legally carry generic/pointer/nullability
	// suffixes (§4.3).
	IDSpelling           bool
	ClassSpelling        bool
	InstancetypeSpelling bool

	HasGenericSuffix  bool
	GenericSuffixText string
	GenericSuffixLoc  Position

	PointerDeclaratorTokens  []SuffixToken
	NullabilitySuffixTokens  []SuffixToken
}

// ValueType is re-exported for AST construction convenience so callers
// building fixtures don't need to import semtype directly.
type ValueType = semtype.ValueType

// SupportsGenericSuffix reports whether a's base annotation is one of the
// three spellings that may carry a generic/pointer/nullability suffix.
func (a TypeAnnotation) SupportsGenericSuffix() bool {
	return a.IDSpelling || a.ClassSpelling || a.InstancetypeSpelling
}

// FuncParam is one parameter of a FunctionDecl or MethodDecl.
type FuncParam struct {
	Name     string
	Type     TypeAnnotation
	Location Position
}

// FunctionDecl is a free-function declaration or prototype.
type FunctionDecl struct {
	Name         string
	Params       []FuncParam
	Return       TypeAnnotation
	Body         *BlockStmt // nil for a prototype
	IsPrototype  bool
	IsPure       bool
	Location     Position
}

func (f *FunctionDecl) Pos() Position { return f.Location }

// HasDefinition reports whether this declaration carries a body.
func (f *FunctionDecl) HasDefinition() bool {
	return !f.IsPrototype && f.Body != nil
}
