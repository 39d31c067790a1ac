package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-jsi/internal/interp"
	"github.com/cwbudde/go-jsi/internal/jsparse"
	"github.com/cwbudde/go-jsi/internal/jstrace"
	"github.com/cwbudde/go-jsi/pkg/estree"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an ECMAScript 5 file or expression",
	Long: `Parse and execute an ECMAScript 5 program from a file or inline
expression.

Examples:
  # Run a script file
  jsi run script.js

  # Evaluate an inline expression
  jsi run -e "1 + 2"

  # Dump the parsed AST instead of running it
  jsi run --dump-ast script.js

  # Run with a structured per-step execution trace
  jsi run --trace script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST as JSON instead of running it")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace execution step by step")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string

	switch {
	case evalExpr != "":
		source = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	prog, err := jsparse.Parse(source)
	if err != nil {
		return err
	}

	if dumpAST {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dumpNode(prog))
	}

	it, err := interp.NewFromAST(prog)
	if err != nil {
		return err
	}

	if trace {
		it.SetTracer(jstrace.New(os.Stderr, it.ID()))
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "[%s] running %s\n", it.ID(), filename)
	}

	if err := it.Run(); err != nil {
		return err
	}

	if v := it.Value(); v != nil {
		result := it.Bridge().PseudoToNative(v)
		out, err := json.Marshal(result)
		if err == nil {
			fmt.Println(string(out))
		}
	}
	return nil
}

// dumpIdent and dumpBlock guard against Go's typed-nil-in-interface trap:
// a nil *Identifier or *BlockStatement passed straight to dumpNode(Node)
// would compare non-nil as an interface (its type is set, only the value
// is nil), so the switch below would dispatch into a case that then
// dereferences a nil pointer. Every optional field declared as a concrete
// pointer type (rather than the Node interface) must go through one of
// these instead of a bare dumpNode call.
func dumpIdent(id *estree.Identifier) interface{} {
	if id == nil {
		return nil
	}
	return dumpNode(id)
}

func dumpBlock(b *estree.BlockStatement) interface{} {
	if b == nil {
		return nil
	}
	return dumpNode(b)
}

// dumpNode walks an estree.Node into a JSON-friendly shape mirroring the
// ESTree wire format pkg/estree.Decode reads back in, for --dump-ast.
func dumpNode(n estree.Node) interface{} {
	if n == nil {
		return nil
	}
	m := map[string]interface{}{"type": n.Kind()}

	switch v := n.(type) {
	case *estree.Program:
		m["body"] = dumpList(v.Body)
	case *estree.ExpressionStatement:
		m["expression"] = dumpNode(v.Expression)
	case *estree.BlockStatement:
		m["body"] = dumpList(v.Body)
	case *estree.VariableDeclaration:
		m["kind"] = v.Kind
		decls := make([]interface{}, len(v.Declarations))
		for i, d := range v.Declarations {
			decls[i] = map[string]interface{}{"type": "VariableDeclarator", "id": dumpIdent(d.ID), "init": dumpNode(d.Init)}
		}
		m["declarations"] = decls
	case *estree.IfStatement:
		m["test"] = dumpNode(v.Test)
		m["consequent"] = dumpNode(v.Consequent)
		m["alternate"] = dumpNode(v.Alternate)
	case *estree.ForStatement:
		m["init"] = dumpNode(v.Init)
		m["test"] = dumpNode(v.Test)
		m["update"] = dumpNode(v.Update)
		m["body"] = dumpNode(v.Body)
	case *estree.ForInStatement:
		m["left"] = dumpNode(v.Left)
		m["right"] = dumpNode(v.Right)
		m["body"] = dumpNode(v.Body)
	case *estree.WhileStatement:
		m["test"] = dumpNode(v.Test)
		m["body"] = dumpNode(v.Body)
	case *estree.DoWhileStatement:
		m["test"] = dumpNode(v.Test)
		m["body"] = dumpNode(v.Body)
	case *estree.SwitchStatement:
		m["discriminant"] = dumpNode(v.Discriminant)
		cases := make([]interface{}, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = map[string]interface{}{"type": "SwitchCase", "test": dumpNode(c.Test), "consequent": dumpList(c.Consequent)}
		}
		m["cases"] = cases
	case *estree.BreakStatement:
		m["label"] = dumpIdent(v.Label)
	case *estree.ContinueStatement:
		m["label"] = dumpIdent(v.Label)
	case *estree.ReturnStatement:
		m["argument"] = dumpNode(v.Argument)
	case *estree.ThrowStatement:
		m["argument"] = dumpNode(v.Argument)
	case *estree.TryStatement:
		m["block"] = dumpBlock(v.Block)
		if v.Handler != nil {
			m["handler"] = map[string]interface{}{"type": "CatchClause", "param": dumpIdent(v.Handler.Param), "body": dumpBlock(v.Handler.Body)}
		}
		m["finalizer"] = dumpBlock(v.Finalizer)
	case *estree.LabeledStatement:
		m["label"] = dumpIdent(v.Label)
		m["body"] = dumpNode(v.Body)
	case *estree.WithStatement:
		m["object"] = dumpNode(v.Object)
		m["body"] = dumpNode(v.Body)
	case *estree.FunctionDeclaration:
		m["id"] = dumpIdent(v.ID)
		m["params"] = dumpList(identNodes(v.Params))
		m["body"] = dumpBlock(v.Body)
	case *estree.FunctionExpression:
		m["id"] = dumpIdent(v.ID)
		m["params"] = dumpList(identNodes(v.Params))
		m["body"] = dumpBlock(v.Body)
	case *estree.Identifier:
		m["name"] = v.Name
	case *estree.Literal:
		switch v.LiteralKind {
		case "number":
			m["value"] = v.Number
		case "string":
			m["value"] = v.String
		case "boolean":
			m["value"] = v.Boolean
		case "null":
			m["value"] = nil
		case "regexp":
			m["regex"] = map[string]interface{}{"pattern": v.RegexPattern, "flags": v.RegexFlags}
		}
	case *estree.ArrayExpression:
		m["elements"] = dumpList(v.Elements)
	case *estree.ObjectExpression:
		props := make([]interface{}, len(v.Properties))
		for i, p := range v.Properties {
			props[i] = map[string]interface{}{
				"type": "Property", "key": dumpNode(p.Key), "value": dumpNode(p.Value),
				"kind": p.PropKind, "computed": p.Computed,
			}
		}
		m["properties"] = props
	case *estree.SequenceExpression:
		m["expressions"] = dumpList(v.Expressions)
	case *estree.UnaryExpression:
		m["operator"] = v.Operator
		m["prefix"] = v.Prefix
		m["argument"] = dumpNode(v.Argument)
	case *estree.UpdateExpression:
		m["operator"] = v.Operator
		m["prefix"] = v.Prefix
		m["argument"] = dumpNode(v.Argument)
	case *estree.BinaryExpression:
		m["operator"] = v.Operator
		m["left"] = dumpNode(v.Left)
		m["right"] = dumpNode(v.Right)
	case *estree.LogicalExpression:
		m["operator"] = v.Operator
		m["left"] = dumpNode(v.Left)
		m["right"] = dumpNode(v.Right)
	case *estree.AssignmentExpression:
		m["operator"] = v.Operator
		m["left"] = dumpNode(v.Left)
		m["right"] = dumpNode(v.Right)
	case *estree.ConditionalExpression:
		m["test"] = dumpNode(v.Test)
		m["consequent"] = dumpNode(v.Consequent)
		m["alternate"] = dumpNode(v.Alternate)
	case *estree.CallExpression:
		m["callee"] = dumpNode(v.Callee)
		m["arguments"] = dumpList(v.Arguments)
	case *estree.NewExpression:
		m["callee"] = dumpNode(v.Callee)
		m["arguments"] = dumpList(v.Arguments)
	case *estree.MemberExpression:
		m["object"] = dumpNode(v.Object)
		m["property"] = dumpNode(v.Property)
		m["computed"] = v.Computed
	}
	return m
}

func dumpList(list []estree.Node) []interface{} {
	out := make([]interface{}, len(list))
	for i, n := range list {
		out[i] = dumpNode(n)
	}
	return out
}

func identNodes(ids []*estree.Identifier) []estree.Node {
	out := make([]estree.Node, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
