package evaluator

import (
	"github.com/cwbudde/go-jsi/internal/value"
	"github.com/cwbudde/go-jsi/pkg/estree"
)

// Evaluator is the step-wise pushdown machine: Frames is the explicit
// stack a host ticks one Step() at a time instead of recursing through
// Go's own call stack, so a paused async native call or a host-imposed
// step budget can suspend evaluation between any two AST sub-steps.
type Evaluator struct {
	Frames  []*Frame
	Globals *value.Globals

	// TopLevelValue receives whatever the outermost frame yields — the
	// completion value of the last ExpressionStatement executed, mirroring
	// eval()'s return value and a top-level script's completion value.
	TopLevelValue value.Value

	// signal is the in-flight break/continue/return/throw, consumed one
	// frame at a time by unwindStep.
	signal Signal

	// HostError is set once a throw unwinds past the outermost frame, or
	// an illegal break/continue/return is encountered. A non-nil HostError
	// means Done() is true and no further Step calls should be made.
	HostError error

	// Paused is set by a native async function that has not yet resolved;
	// Step becomes a no-op (beyond checking the mailbox) until resumed.
	Paused bool

	// pending is the single-slot completion mailbox an async native
	// function's resolve/reject callback writes into.
	pending      *pendingCompletion
	pendingFrame *Frame

	// StepCount is incremented once per Step call, for host step budgets.
	StepCount uint64

	// lastThrow{Start,End} record the byte range of the node in flight the
	// moment a throw was raised, best-effort (set from whatever frame is on
	// top at that instant, which is usually but not always the throwing
	// expression itself). internal/interp converts this offset to a
	// line/column using its own stored source text.
	lastThrowStart, lastThrowEnd int
	lastThrowHasPos              bool
}

type pendingCompletion struct {
	ok  bool
	val value.Value
	err *ThrownError
}

// New creates an Evaluator over the caller's Globals (wiring g.Invoke to
// this Evaluator's callSync if it is not already set) with no script
// loaded. The
// host (internal/interp) pushes a Program frame via LoadProgram before
// ticking Step.
func New(g *value.Globals) *Evaluator {
	e := &Evaluator{Globals: g}
	if g.Invoke == nil {
		g.Invoke = func(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
			return e.callSync(fn, this, args)
		}
	}
	return e
}

// LoadProgram pushes the top-level frame for a parsed program, to be run
// in the given global (or eval-local) scope.
func (e *Evaluator) LoadProgram(prog *estree.Program, scope *value.Scope, this value.Value) {
	e.push(&Frame{
		Node:  prog,
		Scope: scope,
		This:  this,
		State: &blockState{},
	})
}

// Done reports whether the evaluator has no more work: either the frame
// stack is empty, or a host-level error stopped it.
func (e *Evaluator) Done() bool {
	return e.HostError != nil || len(e.Frames) == 0
}

// Step performs exactly one unit of progress: either a single
// frame-to-frame unwind step (break/continue/return/throw in flight) or a
// single stepper invocation on the current top frame.
func (e *Evaluator) Step() {
	if e.Done() || e.Paused {
		return
	}
	e.StepCount++

	if e.signal.active() {
		e.unwindStep()
		return
	}

	fr := e.top()
	e.dispatch(fr)
}

// Resume is called by a native async function's resolve/reject callback
// (possibly from another goroutine; the host is responsible for
// synchronizing calls to Step/Resume so only one writer touches the
// evaluator at a time) to deliver the awaited result and un-pause the
// evaluator.
func (e *Evaluator) Resume(v value.Value, err *ThrownError) {
	if e.pendingFrame != nil {
		if err != nil {
			e.signal = Signal{Kind: SigThrow, Value: err.Val}
		} else {
			e.popAndYield(v)
		}
	}
	e.pendingFrame = nil
	e.Paused = false
}

// dispatch routes the top frame to its stepper by concrete node type. Each
// stepper reads/writes fr.State and fr.Value, and ends its turn either by
// pushing a child frame (to make progress one level down), by calling
// popAndYield (done, with a result), or by raising e.signal.
func (e *Evaluator) dispatch(fr *Frame) {
	switch n := fr.Node.(type) {
	// --- statements -----------------------------------------------------
	case *estree.Program:
		e.stepBlockLike(fr, n.Body)
	case *estree.BlockStatement:
		e.stepBlockLike(fr, n.Body)
	case *estree.ExpressionStatement:
		e.stepExpressionStatement(fr, n)
	case *estree.EmptyStatement:
		e.popAndYield(fr.Value)
	case *estree.VariableDeclaration:
		e.stepVariableDeclaration(fr, n)
	case *estree.IfStatement:
		e.stepIf(fr, n)
	case *estree.ForStatement:
		e.stepFor(fr, n)
	case *estree.ForInStatement:
		e.stepForIn(fr, n)
	case *estree.WhileStatement:
		e.stepWhile(fr, n)
	case *estree.DoWhileStatement:
		e.stepDoWhile(fr, n)
	case *estree.SwitchStatement:
		e.stepSwitch(fr, n)
	case *estree.BreakStatement:
		e.doBreak(labelName(n.Label))
	case *estree.ContinueStatement:
		e.doContinue(labelName(n.Label))
	case *estree.ReturnStatement:
		e.stepReturn(fr, n)
	case *estree.ThrowStatement:
		e.stepThrow(fr, n)
	case *estree.TryStatement:
		e.stepTry(fr, n)
	case *estree.LabeledStatement:
		e.stepLabeled(fr, n)
	case *estree.WithStatement:
		e.stepWith(fr, n)
	case *estree.DebuggerStatement:
		e.popAndYield(fr.Value)
	case *estree.FunctionDeclaration:
		// Hoisted at scope-entry time; encountering it as a statement is a
		// no-op completion.
		e.popAndYield(e.Globals.Undefined)

	// --- expressions ------------------------------------------------------
	case *estree.Literal:
		e.popAndYield(e.literalValue(n))
	case *estree.Identifier:
		e.stepIdentifier(fr, n)
	case *estree.ThisExpression:
		e.popAndYield(e.currentThis())
	case *estree.ArrayExpression:
		e.stepArrayLiteral(fr, n)
	case *estree.ObjectExpression:
		e.stepObjectLiteral(fr, n)
	case *estree.FunctionExpression:
		e.popAndYield(e.makeFunction(n, e.currentScope()))
	case *estree.SequenceExpression:
		e.stepSequence(fr, n)
	case *estree.UnaryExpression:
		e.stepUnary(fr, n)
	case *estree.UpdateExpression:
		e.stepUpdate(fr, n)
	case *estree.BinaryExpression:
		e.stepBinary(fr, n)
	case *estree.LogicalExpression:
		e.stepLogical(fr, n)
	case *estree.AssignmentExpression:
		e.stepAssignment(fr, n)
	case *estree.ConditionalExpression:
		e.stepConditional(fr, n)
	case *estree.MemberExpression:
		e.stepMember(fr, n)
	case *estree.CallExpression:
		e.stepCall(fr, n)
	case *estree.NewExpression:
		e.stepNew(fr, n)
	case *callMarker:
		e.stepInvoke(fr)

	default:
		e.ThrowKind(e.Globals.TypeError, "unsupported node in evaluator: %T", n)
	}
}

// blockState is the progress marker for Program/BlockStatement: an index
// into the statement list, whether hoisting has run yet, and the running
// completion value (the last ExpressionStatement's value — needed for a
// script's or eval's completion value; a function-call body frame
// (fr.IsCall) ignores this and always completes with undefined, per
// ECMAScript's function-body semantics).
type blockState struct {
	i       int
	hoisted bool
}

func (e *Evaluator) stepBlockLike(fr *Frame, body []estree.Node) {
	st, _ := fr.State.(*blockState)
	if st == nil {
		st = &blockState{}
		fr.State = st
	}
	if !st.hoisted {
		st.hoisted = true
		e.hoist(fr.Scope, body)
	}
	if st.i >= len(body) {
		if fr.IsCall {
			e.popAndYield(e.Globals.Undefined)
		} else {
			e.popAndYield(fr.Value)
		}
		return
	}
	stmt := body[st.i]
	st.i++
	e.push(&Frame{Node: stmt})
}
