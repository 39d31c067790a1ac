package evaluator

import (
	"fmt"

	"github.com/cwbudde/go-jsi/internal/value"
	"github.com/cwbudde/go-jsi/pkg/estree"
)

// ThrownError wraps an interpreter-level throw in flight: either a value
// the user program threw directly (Raw set), or one this package
// constructed from an error kind + message.
type ThrownError struct {
	Val Raw
}

// Raw is the thrown value.Value, named distinctly so ThrownError's zero
// value (nil Val) reads clearly as "no error" at call sites that still
// thread *ThrownError through every stepper signature.
type Raw = value.Value

func (t *ThrownError) Error() string {
	if t == nil {
		return "<nil>"
	}
	if p, ok := t.Val.(*value.Primitive); ok {
		return p.String()
	}
	if o, ok := t.Val.(*value.Object); ok {
		if msg, _, ok := o.Get("message"); ok {
			if p, ok := msg.(*value.Primitive); ok {
				return p.Str
			}
		}
	}
	return "uncaught exception"
}

// NewError builds a ThrownError carrying a freshly constructed instance of
// the given error constructor (TypeError, ReferenceError, ...) with the
// given message.
func (e *Evaluator) NewError(ctor *value.Object, message string) *ThrownError {
	return &ThrownError{Val: e.newErrorObject(ctor, message)}
}

func (e *Evaluator) newErrorObject(ctor *value.Object, message string) *value.Object {
	obj := value.NewObject(ctor)
	obj.Class = "Error"
	obj.Properties.Put("message", e.Globals.CreatePrimitive(message))
	if ctor != nil {
		if nameVal, _, ok := ctor.Get("prototype"); ok {
			if proto, ok := nameVal.(*value.Object); ok {
				if n, _, ok := proto.Get("name"); ok {
					obj.Properties.Put("name", n)
				}
			}
		}
	}
	return obj
}

// Throw raises v as an interpreter-level exception, starting the unwind
// machinery: on the evaluator's next Step, the
// pending Signal causes frames to be popped until a TryStatement with a
// handler is found, or the stack is exhausted (host-level re-raise).
func (e *Evaluator) Throw(v Raw) {
	e.captureThrowPos()
	e.signal = Signal{Kind: SigThrow, Value: v}
}

// ThrowKind is a convenience for native builtins: ev.ThrowKind(TypeError,
// "x is not a function").
func (e *Evaluator) ThrowKind(ctor *value.Object, format string, args ...interface{}) {
	e.Throw(e.newErrorObject(ctor, fmt.Sprintf(format, args...)))
}

// captureThrowPos records the byte range of whatever node is on top of the
// stack at the instant a throw is raised, for best-effort line/column
// reporting in the host-level UncaughtError.
func (e *Evaluator) captureThrowPos() {
	fr := e.top()
	if fr == nil || fr.Node == nil {
		return
	}
	start, end, ok := fr.Node.Range()
	if !ok {
		return
	}
	e.lastThrowStart, e.lastThrowEnd, e.lastThrowHasPos = start, end, true
}

// doReturn/doBreak/doContinue set the corresponding signal; called by the
// ReturnStatement/BreakStatement/ContinueStatement steppers.
func (e *Evaluator) doReturn(v Raw) { e.signal = Signal{Kind: SigReturn, Value: v} }
func (e *Evaluator) doBreak(label string) {
	e.signal = Signal{Kind: SigBreak, Label: label}
}
func (e *Evaluator) doContinue(label string) {
	e.signal = Signal{Kind: SigContinue, Label: label}
}

// IllegalControlFlow is a host-level (non-interpreter-catchable) error for
// break/continue with no matching target and return outside any call —
// syntax errors the parser missed.
type IllegalControlFlow struct {
	Message string
}

func (e *IllegalControlFlow) Error() string { return e.Message }

// unwindStep processes one frame's reaction to e.signal. It is called
// instead of ordinary dispatch whenever a signal is pending, and performs
// exactly one pop/transform per call so that, like everything else in this
// evaluator, unwinding is itself steppable.
func (e *Evaluator) unwindStep() {
	fr := e.top()
	if fr == nil {
		// Stack exhausted while a signal was still in flight: a throw is
		// the host-level re-raise (§7 step 3); break/continue/return with
		// no target are parser-should-have-caught errors.
		switch e.signal.Kind {
		case SigThrow:
			e.HostError = e.buildHostError(e.signal.Value)
		default:
			e.HostError = &IllegalControlFlow{Message: "illegal break/continue/return: no matching target"}
		}
		e.signal = Signal{}
		return
	}

	if e.signal.Kind != SigThrow && e.tryFinallyIntercept(fr) {
		return
	}

	switch e.signal.Kind {
	case SigThrow:
		e.unwindThrow(fr)
	case SigBreak:
		e.unwindBreakContinue(fr, true)
	case SigContinue:
		e.unwindBreakContinue(fr, false)
	case SigReturn:
		if fr.IsCall {
			v := e.signal.Value
			e.signal = Signal{}
			e.popAndYield(v)
			return
		}
		e.pop()
	}
}

// tryFinallyIntercept gives a TryStatement frame a chance to run its
// finally block before a break/continue/return signal unwinds past it —
// ECMAScript requires finally to run on every abrupt completion, not just
// a throw. The catch clause never fires for break/continue/return, only
// for SigThrow (handled separately in unwindThrow).
func (e *Evaluator) tryFinallyIntercept(fr *Frame) bool {
	try, ok := fr.Node.(*estree.TryStatement)
	if !ok || try.Finalizer == nil {
		return false
	}
	st, ok := fr.State.(*tryState)
	if !ok || st.phase == phaseFinally {
		return false
	}
	sig := e.signal
	st.phase = phaseFinally
	st.pending = sig
	e.signal = Signal{}
	e.push(&Frame{Node: try.Finalizer, Scope: fr.Scope, State: &blockState{}})
	return true
}

func (e *Evaluator) unwindThrow(fr *Frame) {
	if try, ok := fr.Node.(*estree.TryStatement); ok {
		if st, ok := fr.State.(*tryState); ok {
			sig := e.signal
			if st.phase == phaseBlock && try.Handler != nil {
				st.phase = phaseCatch
				catchScope := value.NewSpecialScope(fr.Scope, nil)
				catchScope.Declare(try.Handler.Param.Name, sig.Value)
				e.signal = Signal{}
				e.push(&Frame{Node: try.Handler.Body, Scope: catchScope, State: &blockState{}})
				return
			}
			if try.Finalizer != nil && st.phase != phaseFinally {
				st.phase = phaseFinally
				st.pending = sig
				e.signal = Signal{}
				e.push(&Frame{Node: try.Finalizer, Scope: fr.Scope, State: &blockState{}})
				return
			}
		}
	}
	e.pop()
	if len(e.Frames) == 0 && e.signal.Kind == SigThrow {
		e.HostError = e.buildHostError(e.signal.Value)
		e.signal = Signal{}
	}
}

func (e *Evaluator) unwindBreakContinue(fr *Frame, isBreak bool) {
	label := e.signal.Label
	matches := func() bool {
		if label != "" {
			return fr.Label == label
		}
		if isBreak {
			return fr.IsLoop || fr.IsSwitch
		}
		return fr.IsLoop
	}
	if fr.IsCall {
		e.HostError = &IllegalControlFlow{Message: "illegal break/continue across function boundary"}
		e.signal = Signal{}
		return
	}
	if matches() {
		e.signal = Signal{}
		if isBreak {
			e.popAndYield(e.Globals.Undefined)
		}
		// continue: leave the loop frame in place; its own stepper observes
		// fr.State's "continued" marker on its next invocation.
		if !isBreak {
			if cs, ok := fr.State.(interface{ markContinued() }); ok {
				cs.markContinued()
			}
		}
		return
	}
	e.pop()
}

// buildHostError converts a pseudo-Error object into a Go error carrying
// its name/message, or stringifies anything else as a generic Error.
func (e *Evaluator) buildHostError(v Raw) error {
	if o, ok := v.(*value.Object); ok && o.Class == "Error" {
		name := "Error"
		if n, _, ok := o.Get("name"); ok {
			if p, ok := n.(*value.Primitive); ok {
				name = p.Str
			}
		}
		msg := ""
		if m, _, ok := o.Get("message"); ok {
			if p, ok := m.(*value.Primitive); ok {
				msg = p.Str
			}
		}
		return &UncaughtError{Name: name, Message: msg, Value: v, Start: e.lastThrowStart, End: e.lastThrowEnd, HasPos: e.lastThrowHasPos}
	}
	s, _ := value.ToStringValue(v, e.ToPrimitive)
	return &UncaughtError{Name: "Error", Message: s, Value: v, Start: e.lastThrowStart, End: e.lastThrowEnd, HasPos: e.lastThrowHasPos}
}

// UncaughtError is the host-facing Go error for a program that throws with
// no surrounding try. Start/End/HasPos are the best-effort byte offsets
// captured the instant the throw was raised (see captureThrowPos);
// internal/interp converts Start into a line/column for
// hostbridge.UncaughtError.
type UncaughtError struct {
	Name    string
	Message string
	Value   Raw
	Start   int
	End     int
	HasPos  bool
}

func (u *UncaughtError) Error() string {
	if u.Message == "" {
		return u.Name
	}
	return u.Name + ": " + u.Message
}
