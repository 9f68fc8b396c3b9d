// Package astjson decodes the JSON AST fixture format the CLI reads:
// a tagged-union encoding of internal/ast's node set, since Go's
// encoding/json cannot unmarshal directly into the Expr/Stmt interfaces the
// tree is built from.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/semtype"
)

// Decode parses a JSON-encoded AST fixture into a *ast.Program.
func Decode(data []byte) (*ast.Program, error) {
	var raw programJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}
	return raw.toProgram()
}

type posJSON struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p posJSON) toPos() ast.Position { return ast.Position{Line: p.Line, Column: p.Column} }

type programJSON struct {
	Globals         []globalJSON  `json:"globals"`
	Functions       []funcJSON    `json:"functions"`
	Interfaces      []ifaceJSON   `json:"interfaces"`
	Implementations []implJSON    `json:"implementations"`
}

func (p programJSON) toProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for _, g := range p.Globals {
		gd, err := g.toGlobal()
		if err != nil {
			return nil, err
		}
		prog.Globals = append(prog.Globals, gd)
	}
	for _, f := range p.Functions {
		fd, err := f.toFunction()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fd)
	}
	for _, i := range p.Interfaces {
		id, err := i.toInterface()
		if err != nil {
			return nil, err
		}
		prog.Interfaces = append(prog.Interfaces, id)
	}
	for _, i := range p.Implementations {
		id, err := i.toImplementation()
		if err != nil {
			return nil, err
		}
		prog.Implementations = append(prog.Implementations, id)
	}
	return prog, nil
}

type globalJSON struct {
	Name     string          `json:"name"`
	Value    json.RawMessage `json:"value"`
	Location posJSON         `json:"location"`
}

func (g globalJSON) toGlobal() (*ast.GlobalDecl, error) {
	val, err := decodeExpr(g.Value)
	if err != nil {
		return nil, err
	}
	return &ast.GlobalDecl{Name: g.Name, Value: val, Location: g.Location.toPos()}, nil
}

type suffixTokenJSON struct {
	Text     string  `json:"text"`
	Location posJSON `json:"location"`
}

func (s suffixTokenJSON) toToken() ast.SuffixToken {
	return ast.SuffixToken{Text: s.Text, Location: s.Location.toPos()}
}

type typeJSON struct {
	Base                 string            `json:"base"`
	Vector               bool              `json:"vector"`
	VectorBase           string            `json:"vectorBase"`
	VectorLaneCount      int               `json:"vectorLaneCount"`
	ID                   bool              `json:"id"`
	Class                bool              `json:"class"`
	Instancetype         bool              `json:"instancetype"`
	GenericSuffixText    string            `json:"genericSuffixText"`
	GenericSuffixLoc     *posJSON          `json:"genericSuffixLocation"`
	PointerTokens        []suffixTokenJSON `json:"pointerTokens"`
	NullabilityTokens    []suffixTokenJSON `json:"nullabilityTokens"`
}

func (t typeJSON) toAnnotation() (ast.TypeAnnotation, error) {
	base, err := parseValueType(t.Base)
	if err != nil {
		return ast.TypeAnnotation{}, err
	}
	ann := ast.TypeAnnotation{
		Base:                 base,
		VectorSpelling:       t.Vector,
		VectorBase:           t.VectorBase,
		VectorLaneCount:      t.VectorLaneCount,
		IDSpelling:           t.ID,
		ClassSpelling:        t.Class,
		InstancetypeSpelling: t.Instancetype,
	}
	if t.GenericSuffixLoc != nil {
		ann.HasGenericSuffix = true
		ann.GenericSuffixText = t.GenericSuffixText
		ann.GenericSuffixLoc = t.GenericSuffixLoc.toPos()
	}
	for _, tok := range t.PointerTokens {
		ann.PointerDeclaratorTokens = append(ann.PointerDeclaratorTokens, tok.toToken())
	}
	for _, tok := range t.NullabilityTokens {
		ann.NullabilitySuffixTokens = append(ann.NullabilitySuffixTokens, tok.toToken())
	}
	return ann, nil
}

func parseValueType(s string) (semtype.ValueType, error) {
	switch s {
	case "i32":
		return semtype.I32, nil
	case "bool":
		return semtype.Bool, nil
	case "void":
		return semtype.Void, nil
	case "function":
		return semtype.Function, nil
	case "unknown", "":
		return semtype.Unknown, nil
	default:
		return semtype.Unknown, fmt.Errorf("astjson: unknown value type %q", s)
	}
}

type paramJSON struct {
	Name     string   `json:"name"`
	Type     typeJSON `json:"type"`
	Location posJSON  `json:"location"`
}

func (p paramJSON) toParam() (ast.FuncParam, error) {
	ann, err := p.Type.toAnnotation()
	if err != nil {
		return ast.FuncParam{}, err
	}
	return ast.FuncParam{Name: p.Name, Type: ann, Location: p.Location.toPos()}, nil
}

func toParams(params []paramJSON) ([]ast.FuncParam, error) {
	out := make([]ast.FuncParam, 0, len(params))
	for _, p := range params {
		fp, err := p.toParam()
		if err != nil {
			return nil, err
		}
		out = append(out, fp)
	}
	return out, nil
}

type funcJSON struct {
	Name        string          `json:"name"`
	Params      []paramJSON     `json:"params"`
	Return      typeJSON        `json:"return"`
	Body        json.RawMessage `json:"body"`
	IsPrototype bool            `json:"isPrototype"`
	IsPure      bool            `json:"isPure"`
	Location    posJSON         `json:"location"`
}

func (f funcJSON) toFunction() (*ast.FunctionDecl, error) {
	params, err := toParams(f.Params)
	if err != nil {
		return nil, err
	}
	ret, err := f.Return.toAnnotation()
	if err != nil {
		return nil, err
	}
	body, err := decodeOptionalBlock(f.Body)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{
		Name: f.Name, Params: params, Return: ret, Body: body,
		IsPrototype: f.IsPrototype, IsPure: f.IsPure, Location: f.Location.toPos(),
	}, nil
}

type methodJSON struct {
	Selector      string          `json:"selector"`
	Params        []paramJSON     `json:"params"`
	Return        typeJSON        `json:"return"`
	IsClassMethod bool            `json:"isClassMethod"`
	Body          json.RawMessage `json:"body"`
	Location      posJSON         `json:"location"`
}

func (m methodJSON) toMethod() (ast.MethodDecl, error) {
	params, err := toParams(m.Params)
	if err != nil {
		return ast.MethodDecl{}, err
	}
	ret, err := m.Return.toAnnotation()
	if err != nil {
		return ast.MethodDecl{}, err
	}
	body, err := decodeOptionalBlock(m.Body)
	if err != nil {
		return ast.MethodDecl{}, err
	}
	return ast.MethodDecl{
		Selector: m.Selector, Params: params, Return: ret, IsClassMethod: m.IsClassMethod,
		Body: body, Location: m.Location.toPos(),
	}, nil
}

type ifaceJSON struct {
	Name      string       `json:"name"`
	SuperName string       `json:"superName"`
	Methods   []methodJSON `json:"methods"`
	Location  posJSON      `json:"location"`
}

func (i ifaceJSON) toInterface() (*ast.InterfaceDecl, error) {
	methods := make([]ast.MethodDecl, 0, len(i.Methods))
	for _, m := range i.Methods {
		md, err := m.toMethod()
		if err != nil {
			return nil, err
		}
		methods = append(methods, md)
	}
	return &ast.InterfaceDecl{Name: i.Name, SuperName: i.SuperName, Methods: methods, Location: i.Location.toPos()}, nil
}

type implJSON struct {
	Name     string       `json:"name"`
	Methods  []methodJSON `json:"methods"`
	Location posJSON      `json:"location"`
}

func (i implJSON) toImplementation() (*ast.ImplementationDecl, error) {
	methods := make([]ast.MethodDecl, 0, len(i.Methods))
	for _, m := range i.Methods {
		md, err := m.toMethod()
		if err != nil {
			return nil, err
		}
		methods = append(methods, md)
	}
	return &ast.ImplementationDecl{Name: i.Name, Methods: methods, Location: i.Location.toPos()}, nil
}

// --- expressions ---

type exprEnvelope struct {
	Kind     string          `json:"kind"`
	Location posJSON         `json:"location"`
	Value    int64           `json:"value"`
	Bool     bool            `json:"bool"`
	Name     string          `json:"name"`
	Op       string          `json:"op"`
	Left     json.RawMessage `json:"left"`
	Right    json.RawMessage `json:"right"`
	Cond     json.RawMessage `json:"cond"`
	Then     json.RawMessage `json:"then"`
	Else     json.RawMessage `json:"else"`
	Callee   string          `json:"callee"`
	Args     []json.RawMessage `json:"args"`
	Receiver json.RawMessage `json:"receiver"`
	Selector string          `json:"selector"`
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var e exprEnvelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("astjson: expr: %w", err)
	}
	pos := e.Location.toPos()
	switch e.Kind {
	case "number":
		return &ast.NumberLiteral{Value: e.Value, Location: pos}, nil
	case "bool":
		return &ast.BoolLiteral{Value: e.Bool, Location: pos}, nil
	case "nil":
		return &ast.NilLiteral{Location: pos}, nil
	case "identifier":
		return &ast.Identifier{Name: e.Name, Location: pos}, nil
	case "binary":
		left, err := decodeExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: e.Op, Left: left, Right: right, Location: pos}, nil
	case "conditional":
		cond, err := decodeExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(e.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpr(e.Else)
		if err != nil {
			return nil, err
		}
		return &ast.ConditionalExpr{Cond: cond, Then: then, Else: els, Location: pos}, nil
	case "call":
		args, err := decodeExprs(e.Args)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Callee: e.Callee, Args: args, Location: pos}, nil
	case "messageSend":
		recv, err := decodeExpr(e.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(e.Args)
		if err != nil {
			return nil, err
		}
		return &ast.MessageSendExpr{Receiver: recv, Selector: e.Selector, Args: args, Location: pos}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown expression kind %q", e.Kind)
	}
}

func decodeExprs(raws []json.RawMessage) ([]ast.Expr, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]ast.Expr, 0, len(raws))
	for _, r := range raws {
		e, err := decodeExpr(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// --- statements ---

type forClauseJSON struct {
	Kind         string          `json:"kind"`
	Expr         json.RawMessage `json:"expr"`
	LetName      string          `json:"letName"`
	LetValue     json.RawMessage `json:"letValue"`
	AssignTarget string          `json:"assignTarget"`
	AssignOp     string          `json:"assignOp"`
	AssignValue  json.RawMessage `json:"assignValue"`
	Location     posJSON         `json:"location"`
}

func (f forClauseJSON) toClause() (ast.ForClause, error) {
	clause := ast.ForClause{Location: f.Location.toPos()}
	switch f.Kind {
	case "", "none":
		clause.Kind = ast.ForClauseNone
	case "expr":
		clause.Kind = ast.ForClauseExpr
		e, err := decodeExpr(f.Expr)
		if err != nil {
			return clause, err
		}
		clause.Expr = e
	case "let":
		clause.Kind = ast.ForClauseLet
		v, err := decodeExpr(f.LetValue)
		if err != nil {
			return clause, err
		}
		clause.LetName, clause.LetValue = f.LetName, v
	case "assign":
		clause.Kind = ast.ForClauseAssign
		v, err := decodeExpr(f.AssignValue)
		if err != nil {
			return clause, err
		}
		clause.AssignTarget, clause.AssignOp, clause.AssignValue = f.AssignTarget, f.AssignOp, v
	default:
		return clause, fmt.Errorf("astjson: unknown for-clause kind %q", f.Kind)
	}
	return clause, nil
}

type caseJSON struct {
	IsDefault bool            `json:"isDefault"`
	Value     int64           `json:"value"`
	Body      json.RawMessage `json:"body"`
	Location  posJSON         `json:"location"`
}

type stmtEnvelope struct {
	Kind     string          `json:"kind"`
	Location posJSON         `json:"location"`
	Name     string          `json:"name"`
	Value    json.RawMessage `json:"value"`
	Target   string          `json:"target"`
	Op       string          `json:"op"`
	Statements []json.RawMessage `json:"statements"`
	Cond     json.RawMessage `json:"cond"`
	Then     json.RawMessage `json:"then"`
	Else     json.RawMessage `json:"else"`
	Body     json.RawMessage `json:"body"`
	Init     *forClauseJSON  `json:"init"`
	Step     *forClauseJSON  `json:"step"`
	Cases    []caseJSON      `json:"cases"`
}

func decodeStmt(raw json.RawMessage) (ast.Stmt, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s stmtEnvelope
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("astjson: stmt: %w", err)
	}
	pos := s.Location.toPos()
	switch s.Kind {
	case "let":
		v, err := decodeExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.LetStmt{Name: s.Name, Value: v, Location: pos}, nil
	case "assign":
		v, err := decodeExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: s.Target, Op: s.Op, Value: v, Location: pos}, nil
	case "return":
		v, err := decodeExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: v, Location: pos}, nil
	case "expr":
		v, err := decodeExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Value: v, Location: pos}, nil
	case "empty":
		return &ast.EmptyStmt{Location: pos}, nil
	case "block":
		stmts, err := decodeStmts(s.Statements)
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Statements: stmts, Location: pos}, nil
	case "if":
		cond, err := decodeExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeOptionalBlock(s.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeOptionalBlock(s.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{Cond: cond, Then: then, Else: els, Location: pos}, nil
	case "while":
		cond, err := decodeExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeOptionalBlock(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Cond: cond, Body: body, Location: pos}, nil
	case "doWhile":
		body, err := decodeOptionalBlock(s.Body)
		if err != nil {
			return nil, err
		}
		cond, err := decodeExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		return &ast.DoWhileStmt{Body: body, Cond: cond, Location: pos}, nil
	case "for":
		var init, step ast.ForClause
		var err error
		if s.Init != nil {
			init, err = s.Init.toClause()
			if err != nil {
				return nil, err
			}
		}
		if s.Step != nil {
			step, err = s.Step.toClause()
			if err != nil {
				return nil, err
			}
		}
		cond, err := decodeExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeOptionalBlock(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForStmt{Init: init, Cond: cond, Step: step, Body: body, Location: pos}, nil
	case "break":
		return &ast.BreakStmt{Location: pos}, nil
	case "continue":
		return &ast.ContinueStmt{Location: pos}, nil
	case "switch":
		cond, err := decodeExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		cases := make([]ast.SwitchCase, 0, len(s.Cases))
		for _, c := range s.Cases {
			body, err := decodeOptionalBlock(c.Body)
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.SwitchCase{IsDefault: c.IsDefault, Value: c.Value, Body: body, Location: c.Location.toPos()})
		}
		return &ast.SwitchStmt{Cond: cond, Cases: cases, Location: pos}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown statement kind %q", s.Kind)
	}
}

func decodeStmts(raws []json.RawMessage) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(raws))
	for _, r := range raws {
		s, err := decodeStmt(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeOptionalBlock(raw json.RawMessage) (*ast.BlockStmt, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	s, err := decodeStmt(raw)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	block, ok := s.(*ast.BlockStmt)
	if !ok {
		return nil, fmt.Errorf("astjson: expected a block, got statement kind other than \"block\"")
	}
	return block, nil
}
