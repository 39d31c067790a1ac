// Package jsparse adapts github.com/robertkrimen/otto's parser and ast
// packages (an ES5-compliant hand-written parser, vendored in this
// module's otto dependency) into pkg/estree trees the evaluator walks.
// otto already solves lexing/parsing for the exact language this
// interpreter targets, so this package's only job is a one-to-one node
// conversion plus byte-offset translation between otto's file.Idx and
// estree.Pos.
package jsparse

import (
	"fmt"
	"strings"

	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/parser"

	"github.com/cwbudde/go-jsi/pkg/estree"
)

// Parse compiles ECMAScript source text into an estree.Program. Wired as
// value.Globals.Parse by internal/interp, so `eval` and
// Interpreter.New(sourceText) both funnel through this.
func Parse(source string) (*estree.Program, error) {
	program, err := parser.ParseFile(nil, "", source, 0)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}
	return convertProgram(program), nil
}

// ParseFunction compiles a `new Function(arg0, ..., argN-1, body)` call's
// parameter names and body text. otto has no public entry point for
// parsing a bare parameter-list-plus-body snippet, so this wraps it as a
// function expression source string and reuses the full-program parser,
// pulling the single resulting FunctionExpression back out — the same
// trick `new Function` itself performs in every ES5 engine that builds it
// on top of a whole-program parser.
func ParseFunction(params []string, body string) (interface{}, []string, error) {
	src := "(function anonymous(" + strings.Join(params, ",") + "\n) {\n" + body + "\n})"
	program, err := parser.ParseFile(nil, "", src, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("syntax error: %w", err)
	}
	if len(program.Body) != 1 {
		return nil, nil, fmt.Errorf("unexpected function constructor parse result")
	}
	exprStmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected function constructor parse result")
	}
	lit, ok := exprStmt.Expression.(*ast.FunctionLiteral)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected function constructor parse result")
	}
	fn := convertFunctionLiteral(lit)
	paramNames := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		paramNames[i] = p.Name
	}
	return fn, paramNames, nil
}
