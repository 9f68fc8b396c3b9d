package astjson

import (
	"testing"

	"github.com/doublemover/objc3sema/internal/ast"
	"github.com/doublemover/objc3sema/internal/semtype"
)

func TestDecodeGlobalAndFunction(t *testing.T) {
	src := `{
		"globals": [{"name": "g", "value": {"kind": "number", "value": 7}}],
		"functions": [{
			"name": "add",
			"params": [
				{"name": "a", "type": {"base": "i32"}},
				{"name": "b", "type": {"base": "i32"}}
			],
			"return": {"base": "i32"},
			"body": {"kind": "block", "statements": [
				{"kind": "return", "value": {"kind": "binary", "op": "+",
					"left": {"kind": "identifier", "name": "a"},
					"right": {"kind": "identifier", "name": "b"}}}
			]}
		}]
	}`
	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(prog.Globals) != 1 || prog.Globals[0].Name != "g" {
		t.Fatalf("prog.Globals = %+v, want one global named g", prog.Globals)
	}
	if num, ok := prog.Globals[0].Value.(*ast.NumberLiteral); !ok || num.Value != 7 {
		t.Fatalf("prog.Globals[0].Value = %+v, want NumberLiteral{7}", prog.Globals[0].Value)
	}
	if len(prog.Functions) != 1 || prog.Functions[0].Name != "add" {
		t.Fatalf("prog.Functions = %+v, want one function named add", prog.Functions)
	}
	if len(prog.Functions[0].Params) != 2 {
		t.Fatalf("prog.Functions[0].Params = %+v, want 2 params", prog.Functions[0].Params)
	}
}

func TestDecodeInterfaceAndImplementation(t *testing.T) {
	src := `{
		"interfaces": [{"name": "Shape", "methods": [{"selector": "area", "return": {"base": "i32"}}]}],
		"implementations": [{"name": "Shape", "methods": [
			{"selector": "area", "return": {"base": "i32"}, "body": {"kind": "block", "statements": [
				{"kind": "return", "value": {"kind": "number", "value": 1}}
			]}}
		]}]
	}`
	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(prog.Interfaces) != 1 || prog.Interfaces[0].Methods[0].Selector != "area" {
		t.Fatalf("prog.Interfaces = %+v, want one Shape.area method", prog.Interfaces)
	}
	if len(prog.Implementations) != 1 || prog.Implementations[0].Methods[0].Body == nil {
		t.Fatalf("prog.Implementations = %+v, want Shape.area with a body", prog.Implementations)
	}
}

func TestDecodeVectorTypeAnnotation(t *testing.T) {
	src := `{"functions": [{
		"name": "splat",
		"return": {"base": "i32", "vector": true, "vectorBase": "i32", "vectorLaneCount": 4},
		"body": {"kind": "block", "statements": []}
	}]}`
	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	ret := prog.Functions[0].Return
	if !ret.VectorSpelling || ret.VectorBase != "i32" || ret.VectorLaneCount != 4 {
		t.Fatalf("Return = %+v, want a 4-lane i32 vector annotation", ret)
	}
}

func TestDecodeUnknownValueTypeFails(t *testing.T) {
	src := `{"globals": [{"name": "g", "value": {"kind": "number", "value": 1}}], "functions": [{
		"name": "f", "return": {"base": "bogus"}, "body": {"kind": "block", "statements": []}
	}]}`
	_, err := Decode([]byte(src))
	if err == nil {
		t.Fatalf("Decode() error = nil, want an error for unknown value type %q", "bogus")
	}
}

func TestDecodeUnknownExpressionKindFails(t *testing.T) {
	src := `{"globals": [{"name": "g", "value": {"kind": "frobnicate"}}]}`
	_, err := Decode([]byte(src))
	if err == nil {
		t.Fatalf("Decode() error = nil, want an error for unknown expression kind")
	}
}

func TestDecodeControlFlowStatements(t *testing.T) {
	src := `{"functions": [{
		"name": "loopy",
		"return": {"base": "void"},
		"body": {"kind": "block", "statements": [
			{"kind": "for",
			 "init": {"kind": "let", "letName": "i", "letValue": {"kind": "number", "value": 0}},
			 "cond": {"kind": "binary", "op": "<", "left": {"kind": "identifier", "name": "i"}, "right": {"kind": "number", "value": 3}},
			 "step": {"kind": "assign", "assignTarget": "i", "assignOp": "=", "assignValue": {"kind": "number", "value": 1}},
			 "body": {"kind": "block", "statements": [
				{"kind": "if",
				 "cond": {"kind": "identifier", "name": "i"},
				 "then": {"kind": "block", "statements": [{"kind": "break"}]},
				 "else": {"kind": "block", "statements": [{"kind": "continue"}]}}
			 ]}},
			{"kind": "switch", "cond": {"kind": "number", "value": 1}, "cases": [
				{"value": 1, "body": {"kind": "block", "statements": [{"kind": "return"}]}},
				{"isDefault": true, "body": {"kind": "block", "statements": [{"kind": "return"}]}}
			]}
		]}
	}]}`
	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	body := prog.Functions[0].Body.Statements
	if len(body) != 2 {
		t.Fatalf("body statements = %d, want 2 (for, switch)", len(body))
	}
	forStmt, ok := body[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.ForStmt", body[0])
	}
	if forStmt.Init.Kind != ast.ForClauseLet || forStmt.Step.Kind != ast.ForClauseAssign {
		t.Fatalf("forStmt clauses = %+v / %+v, want let-init and assign-step", forStmt.Init, forStmt.Step)
	}
	switchStmt, ok := body[1].(*ast.SwitchStmt)
	if !ok || len(switchStmt.Cases) != 2 {
		t.Fatalf("body[1] = %+v, want a 2-case switch", body[1])
	}
}

func TestDecodeOptionalBlockRejectsNonBlock(t *testing.T) {
	src := `{"functions": [{
		"name": "f", "return": {"base": "void"},
		"body": {"kind": "return"}
	}]}`
	_, err := Decode([]byte(src))
	if err == nil {
		t.Fatalf("Decode() error = nil, want an error because body is not a block")
	}
}

func TestDecodeEmptyProgram(t *testing.T) {
	prog, err := Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(prog.Globals) != 0 || len(prog.Functions) != 0 {
		t.Fatalf("prog = %+v, want an empty program", prog)
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	if err == nil {
		t.Fatalf("Decode() error = nil, want a JSON syntax error")
	}
}

func TestParseValueTypeAllVariants(t *testing.T) {
	tests := map[string]semtype.ValueType{
		"i32":     semtype.I32,
		"bool":    semtype.Bool,
		"void":    semtype.Void,
		"function": semtype.Function,
		"unknown": semtype.Unknown,
		"":        semtype.Unknown,
	}
	for in, want := range tests {
		got, err := parseValueType(in)
		if err != nil {
			t.Fatalf("parseValueType(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("parseValueType(%q) = %v, want %v", in, got, want)
		}
	}
}
