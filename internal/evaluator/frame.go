// Package evaluator implements the step-wise tree-walking evaluator: a
// pushdown machine over a stack of frames, one stepper per AST node kind,
// control-flow unwinding for break/continue/return/throw, and the
// getter/setter and components/reference conventions.
package evaluator

import (
	"github.com/cwbudde/go-jsi/internal/value"
	"github.com/cwbudde/go-jsi/pkg/estree"
)

// Frame is one entry on the evaluator stack: an AST node (or a
// synthetic marker for machine-generated calls) paired with whatever
// progress a stepper has made so far. State is a stepper-private tagged
// variant: each stepper type-asserts only the shape it itself stored
// there on a previous entry.
type Frame struct {
	Node estree.Node

	// Scope and This are present only on frames that introduce a scope:
	// Program, function-call bodies, catch, with, and the synthetic
	// top-level eval frame.
	Scope *value.Scope
	This  value.Value

	// Value is the last value a child frame yielded into this frame, via
	// Evaluator.popAndYield. The owning stepper consumes and clears it as
	// it sees fit.
	Value value.Value

	// Components requests that a reference-capable child (Identifier,
	// MemberExpression, the for-in binding target) yield a Ref instead of
	// loading/storing through it.
	Components bool

	// Label is set by LabeledStatement on the frame it wraps, consulted
	// by break/continue search.
	Label string

	// IsLoop/IsSwitch mark frames that break/continue search for.
	IsLoop   bool
	IsSwitch bool

	// IsCall marks a function/eval top frame: the target return()
	// searches for, and the boundary break/continue may not cross.
	IsCall bool

	// State is stepper-private progress, documented per-stepper at each
	// assignment site (e.g. *forState, *callState, *objState, ...).
	State interface{}

	// RefValue/HasRef are the Ref-yield counterpart to Value/popAndYield:
	// when a parent requests Components on a child (an Identifier or
	// MemberExpression), the child calls popAndYieldRef instead of
	// popAndYield, and the parent reads RefValue instead of Value.
	RefValue Ref
	HasRef   bool
}

// SignalKind tags a pending non-local control transfer.
type SignalKind int

const (
	SigNone SignalKind = iota
	SigThrow
	SigBreak
	SigContinue
	SigReturn
)

// Signal represents break/continue/return/throw in flight, consumed by
// Evaluator.unwindStep instead of ordinary stepper dispatch.
type Signal struct {
	Kind  SignalKind
	Value value.Value
	Label string // only for labeled break/continue
}

func (s Signal) active() bool { return s.Kind != SigNone }

// push adds a new frame on top of the stack.
func (e *Evaluator) push(fr *Frame) { e.Frames = append(e.Frames, fr) }

// top returns the current top frame, or nil if the stack is empty.
func (e *Evaluator) top() *Frame {
	if len(e.Frames) == 0 {
		return nil
	}
	return e.Frames[len(e.Frames)-1]
}

// pop removes the top frame and returns it.
func (e *Evaluator) pop() *Frame {
	n := len(e.Frames)
	fr := e.Frames[n-1]
	e.Frames = e.Frames[:n-1]
	return fr
}

// popAndYield pops the current top frame and, if a frame remains beneath
// it, writes v into its Value slot — the mechanism by which a stepper
// "returns" a produced value to its caller.
func (e *Evaluator) popAndYield(v value.Value) {
	e.pop()
	if top := e.top(); top != nil {
		top.Value = v
	} else {
		e.TopLevelValue = v
	}
}

// popAndYieldRef is popAndYield's counterpart for a Components request: it
// pops the current frame and writes r into the parent's RefValue/HasRef
// slots instead of Value.
func (e *Evaluator) popAndYieldRef(r Ref) {
	e.pop()
	if top := e.top(); top != nil {
		top.RefValue = r
		top.HasRef = true
	}
}

// currentScope walks up from the top of the stack to find the nearest frame
// carrying a non-nil Scope — used by lookups that need "the current scope"
// rather than "the current node's own scope".
func (e *Evaluator) currentScope() *value.Scope {
	for i := len(e.Frames) - 1; i >= 0; i-- {
		if e.Frames[i].Scope != nil {
			return e.Frames[i].Scope
		}
	}
	return nil
}

// CurrentNode returns the AST node the top frame is currently evaluating,
// or nil if the stack is empty — a host-facing peek used by a step tracer
// to report what is about to run.
func (e *Evaluator) CurrentNode() estree.Node {
	if fr := e.top(); fr != nil {
		return fr.Node
	}
	return nil
}

// currentThis walks up for the nearest frame carrying a This value, which
// is what a ThisExpression resolves to.
func (e *Evaluator) currentThis() value.Value {
	for i := len(e.Frames) - 1; i >= 0; i-- {
		if e.Frames[i].This != nil {
			return e.Frames[i].This
		}
	}
	return e.Globals.Undefined
}
