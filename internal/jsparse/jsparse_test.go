package jsparse

import (
	"testing"

	"github.com/cwbudde/go-jsi/pkg/estree"
)

func TestParseBasicProgram(t *testing.T) {
	prog, err := Parse(`var x = 1 + 2; if (x > 2) { x = x * 2; }`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*estree.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", prog.Body[0])
	}
	if decl.Kind != "var" || len(decl.Declarations) != 1 {
		t.Fatalf("unexpected declaration shape: %+v", decl)
	}
	if decl.Declarations[0].ID.Name != "x" {
		t.Fatalf("expected declarator name x, got %q", decl.Declarations[0].ID.Name)
	}
	bin, ok := decl.Declarations[0].Init.(*estree.BinaryExpression)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected binary + init, got %+v", decl.Declarations[0].Init)
	}

	ifStmt, ok := prog.Body[1].(*estree.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", prog.Body[1])
	}
	if _, ok := ifStmt.Consequent.(*estree.BlockStatement); !ok {
		t.Fatalf("expected block consequent, got %T", ifStmt.Consequent)
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse("var = ;"); err == nil {
		t.Fatal("expected a syntax error for malformed source")
	}
}

func TestParseFunctionLiterals(t *testing.T) {
	prog, err := Parse(`function add(a, b) { return a + b; }`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	fn, ok := prog.Body[0].(*estree.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected FunctionDeclaration, got %T", prog.Body[0])
	}
	if fn.ID.Name != "add" {
		t.Fatalf("expected function name add, got %q", fn.ID.Name)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if len(fn.Body.Body) != 1 {
		t.Fatalf("expected single return statement, got %d", len(fn.Body.Body))
	}
	if _, ok := fn.Body.Body[0].(*estree.ReturnStatement); !ok {
		t.Fatalf("expected ReturnStatement, got %T", fn.Body.Body[0])
	}
}

func TestParseStrictDirective(t *testing.T) {
	prog, err := Parse(`function f() { "use strict"; return 1; }`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	fn := prog.Body[0].(*estree.FunctionDeclaration)
	if !fn.Strict {
		t.Fatal("expected function with leading \"use strict\" directive to be marked Strict")
	}
}

func TestParseForLoopAndMemberAccess(t *testing.T) {
	prog, err := Parse(`for (var i = 0; i < 10; i++) { obj.prop[i] = i; }`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	forStmt, ok := prog.Body[0].(*estree.ForStatement)
	if !ok {
		t.Fatalf("expected ForStatement, got %T", prog.Body[0])
	}
	if _, ok := forStmt.Init.(*estree.VariableDeclaration); !ok {
		t.Fatalf("expected var-declaration init, got %T", forStmt.Init)
	}
	update, ok := forStmt.Update.(*estree.UpdateExpression)
	if !ok || update.Operator != "++" || update.Prefix {
		t.Fatalf("expected postfix ++ update, got %+v", forStmt.Update)
	}
}

func TestParseFunctionConstructorArgs(t *testing.T) {
	node, params, err := ParseFunction([]string{"a", "b"}, "return a + b;")
	if err != nil {
		t.Fatalf("ParseFunction returned error: %v", err)
	}
	if len(params) != 2 || params[0] != "a" || params[1] != "b" {
		t.Fatalf("unexpected param names: %v", params)
	}
	fn, ok := node.(*estree.FunctionExpression)
	if !ok {
		t.Fatalf("expected *estree.FunctionExpression, got %T", node)
	}
	if len(fn.Body.Body) != 1 {
		t.Fatalf("expected single statement body, got %d", len(fn.Body.Body))
	}
}

func TestParseObjectAndArrayLiterals(t *testing.T) {
	prog, err := Parse(`var o = { a: 1, get b() { return 2; } }; var arr = [1, 2, 3];`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	decl := prog.Body[0].(*estree.VariableDeclaration)
	obj, ok := decl.Declarations[0].Init.(*estree.ObjectExpression)
	if !ok {
		t.Fatalf("expected ObjectExpression, got %T", decl.Declarations[0].Init)
	}
	if len(obj.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(obj.Properties))
	}
	if obj.Properties[1].PropKind != "get" {
		t.Fatalf("expected getter PropKind, got %q", obj.Properties[1].PropKind)
	}

	arrDecl := prog.Body[1].(*estree.VariableDeclaration)
	arr, ok := arrDecl.Declarations[0].Init.(*estree.ArrayExpression)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("unexpected array literal: %+v", arrDecl.Declarations[0].Init)
	}
}
