// Package interp is the host-facing entry point: one Interpreter wraps an
// internal/evaluator.Evaluator, its internal/value.Globals, and the
// internal/jsparse hooks that let eval() and `new Function(...)` compile
// more source after the interpreter is already running.
package interp

import (
	"github.com/google/uuid"

	"github.com/cwbudde/go-jsi/internal/builtins"
	"github.com/cwbudde/go-jsi/internal/evaluator"
	"github.com/cwbudde/go-jsi/internal/hostbridge"
	"github.com/cwbudde/go-jsi/internal/jsparse"
	"github.com/cwbudde/go-jsi/internal/value"
	"github.com/cwbudde/go-jsi/pkg/estree"
)

// Tracer receives one notification per evaluator step. internal/jstrace
// implements this over charmbracelet/log; a host may supply any other
// implementation via SetTracer.
type Tracer interface {
	TraceStep(step uint64, node estree.Node)
}

// Interpreter is the one type a host (including cmd/jsi) constructs and
// drives. Its id has no effect on execution; it exists purely so a host
// running several interpreters at once can tell their trace output apart.
// A nested eval runs inside its caller's Interpreter and has no id of its
// own.
type Interpreter struct {
	id      uuid.UUID
	source  string
	globals *value.Globals
	eval    *evaluator.Evaluator
	bridge  *hostbridge.Bridge
	tracer  Tracer
}

// New parses source with internal/jsparse and loads it as the top-level
// program, installing the standard library first.
func New(source string) (*Interpreter, error) {
	prog, err := jsparse.Parse(source)
	if err != nil {
		return nil, err
	}
	return newFromProgram(source, prog)
}

// NewFromAST loads an already-parsed tree directly, bypassing
// internal/jsparse — the escape hatch for a host that built its own
// estree.Program (e.g. from a tree produced by a different parser, or
// round-tripped through JSON).
func NewFromAST(prog *estree.Program) (*Interpreter, error) {
	return newFromProgram("", prog)
}

func newFromProgram(source string, prog *estree.Program) (*Interpreter, error) {
	g := value.NewGlobals()
	g.GlobalScope = value.NewGlobalScope()
	g.Parse = func(src string) (interface{}, error) { return jsparse.Parse(src) }
	g.ParseFunction = jsparse.ParseFunction
	builtins.Install(g, g.GlobalScope)

	ev := evaluator.New(g)
	ev.LoadProgram(prog, g.GlobalScope, g.Undefined)

	return &Interpreter{
		id:      uuid.New(),
		source:  source,
		globals: g,
		eval:    ev,
		bridge:  hostbridge.New(g),
	}, nil
}

// ID is a uuid v4 tag for trace-log correlation; see the Interpreter doc.
func (in *Interpreter) ID() string { return in.id.String() }

// Bridge returns the host-facing value surface for registering native
// bindings (typically done once, before the first Step/Run call).
func (in *Interpreter) Bridge() *hostbridge.Bridge { return in.bridge }

// SetTracer attaches a step observer; pass nil to detach.
func (in *Interpreter) SetTracer(t Tracer) { in.tracer = t }

// Done reports whether there is no more loaded work: either execution ran
// to completion, or it stopped on a host-level error.
func (in *Interpreter) Done() bool { return in.eval.Done() }

// Paused reports whether an async native call suspended execution awaiting
// its resolve/reject callback. Step and Run both treat a paused evaluator
// as having nothing more to do for now; the host must wait for whatever
// triggers the async callback, then call Step/Run again.
func (in *Interpreter) Paused() bool { return in.eval.Paused }

// Err returns the host-level error the interpreter stopped with, converted
// to a *hostbridge.UncaughtError with a best-effort line/column, or nil if
// it is still running or finished cleanly.
func (in *Interpreter) Err() error {
	return hostbridge.FromEvaluatorError(in.eval.HostError, in.source)
}

// Value returns the top-level program's completion value. Meaningful once
// Done reports true with a nil Err.
func (in *Interpreter) Value() value.Value { return in.eval.TopLevelValue }

// Step advances execution by exactly one evaluator step. A no-op once
// Done. Notifies the attached Tracer, if any, with the node about to run.
func (in *Interpreter) Step() {
	if in.eval.Done() {
		return
	}
	if in.tracer != nil {
		if node := in.eval.CurrentNode(); node != nil {
			in.tracer.TraceStep(in.eval.StepCount, node)
		}
	}
	in.eval.Step()
}

// Run steps the interpreter until it finishes, hits a host-level error, or
// pauses on an in-flight async native call — check Paused to tell the
// third case apart from completion before trusting Value.
func (in *Interpreter) Run() error {
	for !in.eval.Done() && !in.eval.Paused {
		in.Step()
	}
	return in.Err()
}

// AppendCode parses source and schedules it to run in the same global
// scope as whatever was loaded before, preserving every binding already
// declared — the REPL case, where a host feeds in one statement at a time.
// Call it only once the interpreter is Done with previously loaded code;
// appending mid-execution would run the new code before the in-flight
// frames resume, not after.
func (in *Interpreter) AppendCode(source string) error {
	prog, err := jsparse.Parse(source)
	if err != nil {
		return err
	}
	in.eval.LoadProgram(prog, in.globals.GlobalScope, in.globals.Undefined)
	in.eval.HostError = nil
	if in.source == "" {
		in.source = source
	} else {
		in.source += "\n" + source
	}
	return nil
}
