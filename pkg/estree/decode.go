package estree

import (
	"encoding/json"
	"fmt"
)

// Decode parses a JSON-encoded ESTree program, as produced by any
// Acorn/Esprima-family parser, into a *Program. This is the path a host
// uses to hand the interpreter a pre-built tree.
func Decode(data []byte) (*Program, error) {
	raw := new(rawNode)
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("estree: decode program: %w", err)
	}
	node, err := raw.toNode()
	if err != nil {
		return nil, err
	}
	prog, ok := node.(*Program)
	if !ok {
		return nil, fmt.Errorf("estree: root node has type %q, want Program", raw.Type)
	}
	return prog, nil
}

// rawNode is the generic JSON shape every ESTree node decodes into before
// dispatch on Type.
type rawNode struct {
	Type  string          `json:"type"`
	Start json.RawMessage `json:"start"`
	End   json.RawMessage `json:"end"`

	Body         json.RawMessage `json:"body"`
	Expression   json.RawMessage `json:"expression"`
	Declarations json.RawMessage `json:"declarations"`
	Kind         string          `json:"kind"`
	ID           json.RawMessage `json:"id"`
	Init         json.RawMessage `json:"init"`
	Test         json.RawMessage `json:"test"`
	Consequent   json.RawMessage `json:"consequent"`
	Alternate    json.RawMessage `json:"alternate"`
	Update       json.RawMessage `json:"update"`
	Left         json.RawMessage `json:"left"`
	Right        json.RawMessage `json:"right"`
	Object       json.RawMessage `json:"object"`
	Property     json.RawMessage `json:"property"`
	Computed     bool            `json:"computed"`
	Discriminant json.RawMessage `json:"discriminant"`
	Cases        json.RawMessage `json:"cases"`
	Label        json.RawMessage `json:"label"`
	Argument     json.RawMessage `json:"argument"`
	Block        json.RawMessage `json:"block"`
	Handler      json.RawMessage `json:"handler"`
	Finalizer    json.RawMessage `json:"finalizer"`
	Param        json.RawMessage `json:"param"`
	Params       json.RawMessage `json:"params"`
	Operator     string          `json:"operator"`
	Prefix       bool            `json:"prefix"`
	Callee       json.RawMessage `json:"callee"`
	Arguments    json.RawMessage `json:"arguments"`
	Elements     json.RawMessage `json:"elements"`
	Properties   json.RawMessage `json:"properties"`
	Expressions  json.RawMessage `json:"expressions"`
	Name         string          `json:"name"`
	Value        json.RawMessage `json:"value"`
	KeyRaw       json.RawMessage `json:"key"`
	Regex        *struct {
		Pattern string `json:"pattern"`
		Flags   string `json:"flags"`
	} `json:"regex"`
}

func (r *rawNode) pos() Pos {
	if len(r.Start) == 0 && len(r.End) == 0 {
		return NoPos()
	}
	var start, end int
	_ = json.Unmarshal(r.Start, &start)
	_ = json.Unmarshal(r.End, &end)
	return Pos{Start: start, End: end, HasPos: true}
}

func decodeNodeList(data json.RawMessage) ([]Node, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(raws))
	for _, rm := range raws {
		n, err := decodeOptional(rm)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeOptional(data json.RawMessage) (Node, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	r := new(rawNode)
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r.toNode()
}

func decodeIdentifier(data json.RawMessage) (*Identifier, error) {
	n, err := decodeOptional(data)
	if err != nil || n == nil {
		return nil, err
	}
	id, ok := n.(*Identifier)
	if !ok {
		return nil, fmt.Errorf("estree: expected Identifier, got %s", n.Kind())
	}
	return id, nil
}

func decodeBlock(data json.RawMessage) (*BlockStatement, error) {
	n, err := decodeOptional(data)
	if err != nil || n == nil {
		return nil, err
	}
	b, ok := n.(*BlockStatement)
	if !ok {
		return nil, fmt.Errorf("estree: expected BlockStatement, got %s", n.Kind())
	}
	return b, nil
}

//nolint:gocyclo // a flat dispatch table is clearer here than splitting by node family
func (r *rawNode) toNode() (Node, error) {
	pos := r.pos()
	switch r.Type {
	case "Program":
		body, err := decodeNodeList(r.Body)
		if err != nil {
			return nil, err
		}
		return &Program{Pos: pos, Body: body}, nil

	case "ExpressionStatement":
		expr, err := decodeOptional(r.Expression)
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Pos: pos, Expression: expr}, nil

	case "BlockStatement":
		body, err := decodeNodeList(r.Body)
		if err != nil {
			return nil, err
		}
		return &BlockStatement{Pos: pos, Body: body}, nil

	case "EmptyStatement":
		return &EmptyStatement{Pos: pos}, nil

	case "VariableDeclaration":
		var raws []json.RawMessage
		if len(r.Declarations) > 0 {
			if err := json.Unmarshal(r.Declarations, &raws); err != nil {
				return nil, err
			}
		}
		decls := make([]*VariableDeclarator, 0, len(raws))
		for _, rm := range raws {
			dr := new(rawNode)
			if err := json.Unmarshal(rm, dr); err != nil {
				return nil, err
			}
			id, err := decodeIdentifier(dr.ID)
			if err != nil {
				return nil, err
			}
			init, err := decodeOptional(dr.Init)
			if err != nil {
				return nil, err
			}
			decls = append(decls, &VariableDeclarator{Pos: dr.pos(), ID: id, Init: init})
		}
		kind := r.Kind
		if kind == "" {
			kind = "var"
		}
		return &VariableDeclaration{Pos: pos, Kind: kind, Declarations: decls}, nil

	case "IfStatement":
		test, err := decodeOptional(r.Test)
		if err != nil {
			return nil, err
		}
		cons, err := decodeOptional(r.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := decodeOptional(r.Alternate)
		if err != nil {
			return nil, err
		}
		return &IfStatement{Pos: pos, Test: test, Consequent: cons, Alternate: alt}, nil

	case "ForStatement":
		init, err := decodeOptional(r.Init)
		if err != nil {
			return nil, err
		}
		test, err := decodeOptional(r.Test)
		if err != nil {
			return nil, err
		}
		update, err := decodeOptional(r.Update)
		if err != nil {
			return nil, err
		}
		body, err := decodeOptional(r.Body)
		if err != nil {
			return nil, err
		}
		return &ForStatement{Pos: pos, Init: init, Test: test, Update: update, Body: body}, nil

	case "ForInStatement":
		left, err := decodeOptional(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeOptional(r.Right)
		if err != nil {
			return nil, err
		}
		body, err := decodeOptional(r.Body)
		if err != nil {
			return nil, err
		}
		return &ForInStatement{Pos: pos, Left: left, Right: right, Body: body}, nil

	case "WhileStatement":
		test, err := decodeOptional(r.Test)
		if err != nil {
			return nil, err
		}
		body, err := decodeOptional(r.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStatement{Pos: pos, Test: test, Body: body}, nil

	case "DoWhileStatement":
		test, err := decodeOptional(r.Test)
		if err != nil {
			return nil, err
		}
		body, err := decodeOptional(r.Body)
		if err != nil {
			return nil, err
		}
		return &DoWhileStatement{Pos: pos, Test: test, Body: body}, nil

	case "SwitchStatement":
		disc, err := decodeOptional(r.Discriminant)
		if err != nil {
			return nil, err
		}
		var raws []json.RawMessage
		if len(r.Cases) > 0 {
			if err := json.Unmarshal(r.Cases, &raws); err != nil {
				return nil, err
			}
		}
		cases := make([]*SwitchCase, 0, len(raws))
		for _, rm := range raws {
			cr := new(rawNode)
			if err := json.Unmarshal(rm, cr); err != nil {
				return nil, err
			}
			test, err := decodeOptional(cr.Test)
			if err != nil {
				return nil, err
			}
			cons, err := decodeNodeList(cr.Consequent)
			if err != nil {
				return nil, err
			}
			cases = append(cases, &SwitchCase{Pos: cr.pos(), Test: test, Consequent: cons})
		}
		return &SwitchStatement{Pos: pos, Discriminant: disc, Cases: cases}, nil

	case "BreakStatement":
		label, err := decodeIdentifier(r.Label)
		if err != nil {
			return nil, err
		}
		return &BreakStatement{Pos: pos, Label: label}, nil

	case "ContinueStatement":
		label, err := decodeIdentifier(r.Label)
		if err != nil {
			return nil, err
		}
		return &ContinueStatement{Pos: pos, Label: label}, nil

	case "ReturnStatement":
		arg, err := decodeOptional(r.Argument)
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{Pos: pos, Argument: arg}, nil

	case "ThrowStatement":
		arg, err := decodeOptional(r.Argument)
		if err != nil {
			return nil, err
		}
		return &ThrowStatement{Pos: pos, Argument: arg}, nil

	case "TryStatement":
		block, err := decodeBlock(r.Block)
		if err != nil {
			return nil, err
		}
		var handler *CatchClause
		if len(r.Handler) > 0 && string(r.Handler) != "null" {
			hr := new(rawNode)
			if err := json.Unmarshal(r.Handler, hr); err != nil {
				return nil, err
			}
			param, err := decodeIdentifier(hr.Param)
			if err != nil {
				return nil, err
			}
			body, err := decodeBlock(hr.Body)
			if err != nil {
				return nil, err
			}
			handler = &CatchClause{Pos: hr.pos(), Param: param, Body: body}
		}
		finalizer, err := decodeBlock(r.Finalizer)
		if err != nil {
			return nil, err
		}
		return &TryStatement{Pos: pos, Block: block, Handler: handler, Finalizer: finalizer}, nil

	case "LabeledStatement":
		label, err := decodeIdentifier(r.Label)
		if err != nil {
			return nil, err
		}
		body, err := decodeOptional(r.Body)
		if err != nil {
			return nil, err
		}
		return &LabeledStatement{Pos: pos, Label: label, Body: body}, nil

	case "WithStatement":
		obj, err := decodeOptional(r.Object)
		if err != nil {
			return nil, err
		}
		body, err := decodeOptional(r.Body)
		if err != nil {
			return nil, err
		}
		return &WithStatement{Pos: pos, Object: obj, Body: body}, nil

	case "DebuggerStatement":
		return &DebuggerStatement{Pos: pos}, nil

	case "FunctionDeclaration":
		id, err := decodeIdentifier(r.ID)
		if err != nil {
			return nil, err
		}
		params, err := decodeParams(r.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(r.Body)
		if err != nil {
			return nil, err
		}
		return &FunctionDeclaration{Pos: pos, ID: id, Params: params, Body: body}, nil

	case "FunctionExpression":
		id, err := decodeIdentifier(r.ID)
		if err != nil {
			return nil, err
		}
		params, err := decodeParams(r.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(r.Body)
		if err != nil {
			return nil, err
		}
		return &FunctionExpression{Pos: pos, ID: id, Params: params, Body: body}, nil

	case "Identifier":
		return &Identifier{Pos: pos, Name: r.Name}, nil

	case "Literal":
		return decodeLiteral(r, pos)

	case "ArrayExpression":
		elems, err := decodeNodeList(r.Elements)
		if err != nil {
			return nil, err
		}
		return &ArrayExpression{Pos: pos, Elements: elems}, nil

	case "ObjectExpression":
		var raws []json.RawMessage
		if len(r.Properties) > 0 {
			if err := json.Unmarshal(r.Properties, &raws); err != nil {
				return nil, err
			}
		}
		props := make([]*ObjectProperty, 0, len(raws))
		for _, rm := range raws {
			pr := new(rawNode)
			if err := json.Unmarshal(rm, pr); err != nil {
				return nil, err
			}
			key, err := decodeOptional(pr.Key())
			if err != nil {
				return nil, err
			}
			val, err := decodeOptional(pr.Value)
			if err != nil {
				return nil, err
			}
			kind := pr.Kind
			if kind == "" {
				kind = "init"
			}
			props = append(props, &ObjectProperty{Pos: pr.pos(), Key: key, Value: val, PropKind: kind, Computed: pr.Computed})
		}
		return &ObjectExpression{Pos: pos, Properties: props}, nil

	case "SequenceExpression":
		exprs, err := decodeNodeList(r.Expressions)
		if err != nil {
			return nil, err
		}
		return &SequenceExpression{Pos: pos, Expressions: exprs}, nil

	case "UnaryExpression":
		arg, err := decodeOptional(r.Argument)
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Pos: pos, Operator: r.Operator, Prefix: r.Prefix, Argument: arg}, nil

	case "UpdateExpression":
		arg, err := decodeOptional(r.Argument)
		if err != nil {
			return nil, err
		}
		return &UpdateExpression{Pos: pos, Operator: r.Operator, Prefix: r.Prefix, Argument: arg}, nil

	case "BinaryExpression":
		left, err := decodeOptional(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeOptional(r.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{Pos: pos, Operator: r.Operator, Left: left, Right: right}, nil

	case "LogicalExpression":
		left, err := decodeOptional(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeOptional(r.Right)
		if err != nil {
			return nil, err
		}
		return &LogicalExpression{Pos: pos, Operator: r.Operator, Left: left, Right: right}, nil

	case "AssignmentExpression":
		left, err := decodeOptional(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeOptional(r.Right)
		if err != nil {
			return nil, err
		}
		return &AssignmentExpression{Pos: pos, Operator: r.Operator, Left: left, Right: right}, nil

	case "ConditionalExpression":
		test, err := decodeOptional(r.Test)
		if err != nil {
			return nil, err
		}
		cons, err := decodeOptional(r.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := decodeOptional(r.Alternate)
		if err != nil {
			return nil, err
		}
		return &ConditionalExpression{Pos: pos, Test: test, Consequent: cons, Alternate: alt}, nil

	case "CallExpression":
		callee, err := decodeOptional(r.Callee)
		if err != nil {
			return nil, err
		}
		args, err := decodeNodeList(r.Arguments)
		if err != nil {
			return nil, err
		}
		return &CallExpression{Pos: pos, Callee: callee, Arguments: args}, nil

	case "NewExpression":
		callee, err := decodeOptional(r.Callee)
		if err != nil {
			return nil, err
		}
		args, err := decodeNodeList(r.Arguments)
		if err != nil {
			return nil, err
		}
		return &NewExpression{Pos: pos, Callee: callee, Arguments: args}, nil

	case "MemberExpression":
		obj, err := decodeOptional(r.Object)
		if err != nil {
			return nil, err
		}
		prop, err := decodeOptional(r.Property)
		if err != nil {
			return nil, err
		}
		return &MemberExpression{Pos: pos, Object: obj, Property: prop, Computed: r.Computed}, nil

	case "ThisExpression":
		return &ThisExpression{Pos: pos}, nil

	default:
		return nil, fmt.Errorf("estree: unsupported node type %q", r.Type)
	}
}

func decodeParams(data json.RawMessage) ([]*Identifier, error) {
	nodes, err := decodeNodeList(data)
	if err != nil {
		return nil, err
	}
	out := make([]*Identifier, 0, len(nodes))
	for _, n := range nodes {
		id, ok := n.(*Identifier)
		if !ok {
			return nil, fmt.Errorf("estree: function parameter must be Identifier in this ES5 subset, got %s", n.Kind())
		}
		out = append(out, id)
	}
	return out, nil
}

// Key is a small accessor so ObjectProperty decoding can reuse rawNode's
// "key" field (distinct from VariableDeclarator's "id" field).
func (r *rawNode) Key() json.RawMessage { return r.KeyRaw }

func decodeLiteral(r *rawNode, pos Pos) (Node, error) {
	if r.Regex != nil {
		return &Literal{Pos: pos, LiteralKind: "regexp", RegexPattern: r.Regex.Pattern, RegexFlags: r.Regex.Flags}, nil
	}
	if len(r.Value) == 0 || string(r.Value) == "null" {
		return &Literal{Pos: pos, LiteralKind: "null"}, nil
	}
	var asBool bool
	if err := json.Unmarshal(r.Value, &asBool); err == nil {
		return &Literal{Pos: pos, LiteralKind: "boolean", Boolean: asBool}, nil
	}
	var asNum float64
	if err := json.Unmarshal(r.Value, &asNum); err == nil {
		return &Literal{Pos: pos, LiteralKind: "number", Number: asNum}, nil
	}
	var asStr string
	if err := json.Unmarshal(r.Value, &asStr); err == nil {
		return &Literal{Pos: pos, LiteralKind: "string", String: asStr}, nil
	}
	return nil, fmt.Errorf("estree: unrecognized literal value %s", r.Value)
}
