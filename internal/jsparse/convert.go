package jsparse

import (
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/token"

	"github.com/cwbudde/go-jsi/pkg/estree"
)

// pos turns an otto node's Idx0()/Idx1() (1-based byte offsets into
// whatever file.FileSet the node was parsed against) into an estree.Pos.
// This module only ever parses a single anonymous file, so the idx values
// are 0-based byte offsets once shifted down by one.
func pos(n ast.Node) estree.Pos {
	start := int(n.Idx0())
	end := int(n.Idx1())
	if start <= 0 && end <= 0 {
		return estree.Pos{}
	}
	if start > 0 {
		start--
	}
	if end > 0 {
		end--
	}
	return estree.Pos{Start: start, End: end, HasPos: true}
}

func convertProgram(p *ast.Program) *estree.Program {
	body := make([]estree.Node, 0, len(p.Body))
	for _, s := range p.Body {
		if n := convertStatement(s); n != nil {
			body = append(body, n)
		}
	}
	return &estree.Program{Body: body}
}

func convertStatementList(list []ast.Statement) []estree.Node {
	out := make([]estree.Node, 0, len(list))
	for _, s := range list {
		if n := convertStatement(s); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func convertBlock(s ast.Statement) *estree.BlockStatement {
	if s == nil {
		return &estree.BlockStatement{}
	}
	if b, ok := s.(*ast.BlockStatement); ok {
		return &estree.BlockStatement{Pos: pos(b), Body: convertStatementList(b.List)}
	}
	// A handful of otto statement slots (with/if/for bodies, try clauses in
	// degenerate cases) accept a bare statement rather than a block; wrap it
	// so estree's shape (which only allows a real block in try/catch/finally
	// position) still holds.
	single := convertStatement(s)
	if single == nil {
		return &estree.BlockStatement{}
	}
	return &estree.BlockStatement{Body: []estree.Node{single}}
}

func convertStatement(s ast.Statement) estree.Node {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case *ast.EmptyStatement:
		return &estree.EmptyStatement{Pos: pos(n)}
	case *ast.BlockStatement:
		return &estree.BlockStatement{Pos: pos(n), Body: convertStatementList(n.List)}
	case *ast.ExpressionStatement:
		return &estree.ExpressionStatement{Pos: pos(n), Expression: convertExpression(n.Expression)}
	case *ast.VariableStatement:
		return convertVariableStatement(n)
	case *ast.IfStatement:
		return &estree.IfStatement{
			Pos:        pos(n),
			Test:       convertExpression(n.Test),
			Consequent: convertStatement(n.Consequent),
			Alternate:  convertStatement(n.Alternate),
		}
	case *ast.ForStatement:
		return &estree.ForStatement{
			Pos:    pos(n),
			Init:   convertForInit(n.Initializer),
			Test:   convertExpression(n.Test),
			Update: convertExpression(n.Update),
			Body:   convertStatement(n.Body),
		}
	case *ast.ForInStatement:
		return &estree.ForInStatement{
			Pos:   pos(n),
			Left:  convertForInLeft(n.Into),
			Right: convertExpression(n.Source),
			Body:  convertStatement(n.Body),
		}
	case *ast.WhileStatement:
		return &estree.WhileStatement{Pos: pos(n), Test: convertExpression(n.Test), Body: convertStatement(n.Body)}
	case *ast.DoWhileStatement:
		return &estree.DoWhileStatement{Pos: pos(n), Test: convertExpression(n.Test), Body: convertStatement(n.Body)}
	case *ast.SwitchStatement:
		cases := make([]*estree.SwitchCase, 0, len(n.Body))
		for _, c := range n.Body {
			cases = append(cases, &estree.SwitchCase{
				Test:       convertExpression(c.Test),
				Consequent: convertStatementList(c.Consequent),
			})
		}
		return &estree.SwitchStatement{Pos: pos(n), Discriminant: convertExpression(n.Discriminant), Cases: cases}
	case *ast.BranchStatement:
		label := convertIdentifierPtr(n.Label)
		if n.Token == token.BREAK {
			return &estree.BreakStatement{Pos: pos(n), Label: label}
		}
		return &estree.ContinueStatement{Pos: pos(n), Label: label}
	case *ast.ReturnStatement:
		return &estree.ReturnStatement{Pos: pos(n), Argument: convertExpression(n.Argument)}
	case *ast.ThrowStatement:
		return &estree.ThrowStatement{Pos: pos(n), Argument: convertExpression(n.Argument)}
	case *ast.TryStatement:
		ts := &estree.TryStatement{Pos: pos(n), Block: convertBlock(n.Body)}
		if n.Catch != nil {
			ts.Handler = &estree.CatchClause{
				Pos:   pos(n.Catch),
				Param: convertIdentifierPtr(n.Catch.Parameter),
				Body:  convertBlock(n.Catch.Body),
			}
		}
		if n.Finally != nil {
			ts.Finalizer = convertBlock(n.Finally)
		}
		return ts
	case *ast.LabelledStatement:
		return &estree.LabeledStatement{Pos: pos(n), Label: convertIdentifierPtr(n.Label), Body: convertStatement(n.Statement)}
	case *ast.WithStatement:
		return &estree.WithStatement{Pos: pos(n), Object: convertExpression(n.Object), Body: convertStatement(n.Body)}
	case *ast.DebuggerStatement:
		return &estree.DebuggerStatement{Pos: pos(n)}
	case *ast.FunctionStatement:
		return convertFunctionDeclaration(n.Function)
	default:
		return nil
	}
}

func convertVariableStatement(n *ast.VariableStatement) *estree.VariableDeclaration {
	decls := make([]*estree.VariableDeclarator, 0, len(n.List))
	for _, e := range n.List {
		decls = append(decls, convertVariableExpression(e))
	}
	return &estree.VariableDeclaration{Pos: pos(n), Kind: "var", Declarations: decls}
}

func convertVariableExpression(e ast.Expression) *estree.VariableDeclarator {
	ve, ok := e.(*ast.VariableExpression)
	if !ok {
		// Defensive: otto's grammar only ever puts VariableExpression nodes
		// here, but fall back to a nameless declarator rather than panicking
		// on an unexpected shape.
		return &estree.VariableDeclarator{Init: convertExpression(e)}
	}
	return &estree.VariableDeclarator{
		Pos:  pos(ve),
		ID:   &estree.Identifier{Name: ve.Name},
		Init: convertExpression(ve.Initializer),
	}
}

// convertForInit handles a for-loop's initializer clause, which otto
// represents as a bare Expression even when it is one or more var
// declarations (a SequenceExpression of VariableExpression nodes for
// `for (var i=0, j=1; ...)`, or a lone VariableExpression for the
// single-declarator case).
func convertForInit(e ast.Expression) estree.Node {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.VariableExpression:
		return &estree.VariableDeclaration{Pos: pos(v), Kind: "var", Declarations: []*estree.VariableDeclarator{convertVariableExpression(v)}}
	case *ast.SequenceExpression:
		if allVariableExpressions(v.Sequence) {
			decls := make([]*estree.VariableDeclarator, 0, len(v.Sequence))
			for _, item := range v.Sequence {
				decls = append(decls, convertVariableExpression(item))
			}
			return &estree.VariableDeclaration{Pos: pos(v), Kind: "var", Declarations: decls}
		}
	}
	return convertExpression(e)
}

func allVariableExpressions(list []ast.Expression) bool {
	if len(list) == 0 {
		return false
	}
	for _, e := range list {
		if _, ok := e.(*ast.VariableExpression); !ok {
			return false
		}
	}
	return true
}

// convertForInLeft handles for-in's binding clause: either `var x` (a bare
// VariableExpression) or a plain reference expression (`x`, `obj.prop`).
func convertForInLeft(e ast.Expression) estree.Node {
	if ve, ok := e.(*ast.VariableExpression); ok {
		return &estree.VariableDeclaration{Pos: pos(ve), Kind: "var", Declarations: []*estree.VariableDeclarator{convertVariableExpression(ve)}}
	}
	return convertExpression(e)
}

func convertIdentifierPtr(id *ast.Identifier) *estree.Identifier {
	if id == nil {
		return nil
	}
	return &estree.Identifier{Pos: pos(id), Name: id.Name}
}

func convertFunctionDeclaration(lit *ast.FunctionLiteral) *estree.FunctionDeclaration {
	fe := convertFunctionLiteral(lit)
	return &estree.FunctionDeclaration{
		Pos:    fe.Pos,
		ID:     fe.ID,
		Params: fe.Params,
		Body:   fe.Body,
		Strict: fe.Strict,
	}
}

func convertFunctionLiteral(lit *ast.FunctionLiteral) *estree.FunctionExpression {
	var params []*estree.Identifier
	if lit.ParameterList != nil {
		params = make([]*estree.Identifier, 0, len(lit.ParameterList.List))
		for _, p := range lit.ParameterList.List {
			params = append(params, convertIdentifierPtr(p))
		}
	}
	body := convertBlock(lit.Body)
	return &estree.FunctionExpression{
		Pos:    pos(lit),
		ID:     convertIdentifierPtr(lit.Name),
		Params: params,
		Body:   body,
		Strict: isStrictBody(body),
	}
}

// isStrictBody mirrors every ES5 engine's directive-prologue check: a
// function (or program) body that opens with the literal expression
// statement "use strict" opts the whole body into strict mode.
func isStrictBody(body *estree.BlockStatement) bool {
	if body == nil || len(body.Body) == 0 {
		return false
	}
	es, ok := body.Body[0].(*estree.ExpressionStatement)
	if !ok {
		return false
	}
	lit, ok := es.Expression.(*estree.Literal)
	if !ok || lit.LiteralKind != "string" {
		return false
	}
	return lit.String == "use strict"
}

func convertExpression(e ast.Expression) estree.Node {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.EmptyExpression:
		return nil
	case *ast.Identifier:
		return &estree.Identifier{Pos: pos(n), Name: n.Name}
	case *ast.ThisExpression:
		return &estree.ThisExpression{Pos: pos(n)}
	case *ast.NullLiteral:
		return &estree.Literal{Pos: pos(n), LiteralKind: "null"}
	case *ast.BooleanLiteral:
		return &estree.Literal{Pos: pos(n), LiteralKind: "boolean", Boolean: n.Value}
	case *ast.StringLiteral:
		return &estree.Literal{Pos: pos(n), LiteralKind: "string", String: n.Value}
	case *ast.NumberLiteral:
		return &estree.Literal{Pos: pos(n), LiteralKind: "number", Number: numberLiteralValue(n.Value)}
	case *ast.RegExpLiteral:
		return &estree.Literal{Pos: pos(n), LiteralKind: "regexp", RegexPattern: n.Pattern, RegexFlags: n.Flags}
	case *ast.ArrayLiteral:
		elems := make([]estree.Node, 0, len(n.Value))
		for _, el := range n.Value {
			elems = append(elems, convertExpression(el))
		}
		return &estree.ArrayExpression{Pos: pos(n), Elements: elems}
	case *ast.ObjectLiteral:
		props := make([]*estree.ObjectProperty, 0, len(n.Value))
		for _, p := range n.Value {
			props = append(props, &estree.ObjectProperty{
				Key:      &estree.Identifier{Name: p.Key},
				Value:    convertExpression(p.Value),
				PropKind: propKind(p.Kind),
			})
		}
		return &estree.ObjectExpression{Pos: pos(n), Properties: props}
	case *ast.FunctionLiteral:
		return convertFunctionLiteral(n)
	case *ast.SequenceExpression:
		items := make([]estree.Node, 0, len(n.Sequence))
		for _, item := range n.Sequence {
			items = append(items, convertExpression(item))
		}
		return &estree.SequenceExpression{Expressions: items}
	case *ast.ConditionalExpression:
		return &estree.ConditionalExpression{
			Pos:        pos(n),
			Test:       convertExpression(n.Test),
			Consequent: convertExpression(n.Consequent),
			Alternate:  convertExpression(n.Alternate),
		}
	case *ast.UnaryExpression:
		if n.Operator == token.INCREMENT || n.Operator == token.DECREMENT {
			return &estree.UpdateExpression{
				Pos:      pos(n),
				Operator: updateOperator(n.Operator),
				Argument: convertExpression(n.Operand),
				Prefix:   !n.Postfix,
			}
		}
		return &estree.UnaryExpression{
			Pos:      pos(n),
			Operator: unaryOperator(n.Operator),
			Prefix:   true,
			Argument: convertExpression(n.Operand),
		}
	case *ast.BinaryExpression:
		if n.Operator == token.LOGICAL_AND || n.Operator == token.LOGICAL_OR {
			return &estree.LogicalExpression{
				Pos:      pos(n),
				Operator: logicalOperator(n.Operator),
				Left:     convertExpression(n.Left),
				Right:    convertExpression(n.Right),
			}
		}
		return &estree.BinaryExpression{
			Pos:      pos(n),
			Operator: binaryOperator(n.Operator),
			Left:     convertExpression(n.Left),
			Right:    convertExpression(n.Right),
		}
	case *ast.AssignExpression:
		return &estree.AssignmentExpression{
			Pos:      pos(n),
			Operator: assignOperator(n.Operator),
			Left:     convertExpression(n.Left),
			Right:    convertExpression(n.Right),
		}
	case *ast.DotExpression:
		return &estree.MemberExpression{
			Pos:      pos(n),
			Object:   convertExpression(n.Left),
			Property: &estree.Identifier{Pos: pos(n.Identifier), Name: n.Identifier.Name},
			Computed: false,
		}
	case *ast.BracketExpression:
		return &estree.MemberExpression{
			Pos:      pos(n),
			Object:   convertExpression(n.Left),
			Property: convertExpression(n.Member),
			Computed: true,
		}
	case *ast.CallExpression:
		return &estree.CallExpression{Pos: pos(n), Callee: convertExpression(n.Callee), Arguments: convertExpressionList(n.ArgumentList)}
	case *ast.NewExpression:
		return &estree.NewExpression{Pos: pos(n), Callee: convertExpression(n.Callee), Arguments: convertExpressionList(n.ArgumentList)}
	case *ast.VariableExpression:
		// Only reachable if a VariableExpression leaks into a generic
		// expression slot outside var-statement/for-init handling; treat its
		// name as a plain reference (its Initializer, if any, is meaningless
		// here and is dropped).
		return &estree.Identifier{Pos: pos(n), Name: n.Name}
	default:
		return nil
	}
}

func convertExpressionList(list []ast.Expression) []estree.Node {
	out := make([]estree.Node, 0, len(list))
	for _, e := range list {
		out = append(out, convertExpression(e))
	}
	return out
}

func propKind(k string) string {
	switch k {
	case "get", "set":
		return k
	default:
		return "init"
	}
}

// numberLiteralValue normalizes otto's NumberLiteral.Value (float64 or
// int64 depending on how the literal was written) to the float64 every
// ES5 number is internally represented as.
func numberLiteralValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func updateOperator(t token.Token) string {
	if t == token.INCREMENT {
		return "++"
	}
	return "--"
}

func unaryOperator(t token.Token) string {
	switch t {
	case token.NOT:
		return "!"
	case token.BITWISE_NOT:
		return "~"
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.TYPEOF:
		return "typeof"
	case token.VOID:
		return "void"
	case token.DELETE:
		return "delete"
	default:
		return t.String()
	}
}

func logicalOperator(t token.Token) string {
	if t == token.LOGICAL_AND {
		return "&&"
	}
	return "||"
}

func binaryOperator(t token.Token) string {
	switch t {
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.MULTIPLY:
		return "*"
	case token.SLASH:
		return "/"
	case token.REMAINDER:
		return "%"
	case token.AND:
		return "&"
	case token.OR:
		return "|"
	case token.EXCLUSIVE_OR:
		return "^"
	case token.SHIFT_LEFT:
		return "<<"
	case token.SHIFT_RIGHT:
		return ">>"
	case token.UNSIGNED_SHIFT_RIGHT:
		return ">>>"
	case token.EQUAL:
		return "=="
	case token.NOT_EQUAL:
		return "!="
	case token.STRICT_EQUAL:
		return "==="
	case token.STRICT_NOT_EQUAL:
		return "!=="
	case token.LESS:
		return "<"
	case token.LESS_OR_EQUAL:
		return "<="
	case token.GREATER:
		return ">"
	case token.GREATER_OR_EQUAL:
		return ">="
	case token.INSTANCEOF:
		return "instanceof"
	case token.IN:
		return "in"
	default:
		return t.String()
	}
}

func assignOperator(t token.Token) string {
	switch t {
	case token.PLUS:
		return "+="
	case token.MINUS:
		return "-="
	case token.MULTIPLY:
		return "*="
	case token.SLASH:
		return "/="
	case token.REMAINDER:
		return "%="
	case token.AND:
		return "&="
	case token.OR:
		return "|="
	case token.EXCLUSIVE_OR:
		return "^="
	case token.SHIFT_LEFT:
		return "<<="
	case token.SHIFT_RIGHT:
		return ">>="
	case token.UNSIGNED_SHIFT_RIGHT:
		return ">>>="
	default:
		return "="
	}
}
