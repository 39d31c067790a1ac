package value

// Globals holds the preallocated primitive singletons and the standard
// constructor pointers every interpreter instance exposes. One Globals is
// created per Interpreter; a nested eval runs on a child Evaluator that
// reuses the caller's Globals (see runEval in internal/evaluator).
type Globals struct {
	Undefined *Primitive
	Null      *Primitive
	True      *Primitive
	False     *Primitive
	NaN       *Primitive
	NumberZero *Primitive
	NumberOne  *Primitive
	StringEmpty *Primitive

	Object   *Object
	Function *Object
	Array    *Object
	Number   *Object
	String   *Object
	Boolean  *Object
	Date     *Object
	RegExp   *Object
	Math     *Object
	JSON     *Object
	Error    *Object

	EvalError      *Object
	RangeError     *Object
	ReferenceError *Object
	SyntaxError    *Object
	TypeError      *Object
	URIError       *Object

	// Invoke lets internal/builtins' natives (Function.prototype.call/
	// apply, Array.prototype's callback-taking methods, ...) synchronously
	// call back into a user function without internal/builtins importing
	// internal/evaluator (which would cycle, since the evaluator's native
	// call step imports internal/builtins for its error-kind escape hatch).
	// Set once by evaluator.New.
	Invoke func(fn *Object, this Value, args []Value) (Value, error)

	// GlobalScope is the top-level scope, needed by the Function
	// constructor so a dynamically created function (`new Function(...)`)
	// captures the global scope as its ParentScope rather than none at
	// all. Set once by internal/interp before installing built-ins.
	GlobalScope *Scope

	// Parse compiles ECMAScript source text into a program tree, returned
	// as interface{} (concretely *estree.Program) so this package need not
	// import pkg/estree; wired by internal/jsparse through internal/interp.
	// Used by the evaluator's eval() handling.
	Parse func(source string) (interface{}, error)

	// ParseFunction compiles a `new Function(arg0, ..., argN-1, body)`
	// call's parameter names and body text into a function body node
	// (concretely *estree.FunctionExpression, again returned as
	// interface{}) plus the resolved parameter name list.
	ParseFunction func(params []string, body string) (node interface{}, paramNames []string, err error)
}

// NewGlobals preallocates the primitive singletons. Constructor fields are
// filled in by builtins.Install once Function/Object/... exist.
func NewGlobals() *Globals {
	return &Globals{
		Undefined:   &Primitive{Tag: TagUndefined},
		Null:        &Primitive{Tag: TagNull},
		True:        &Primitive{Tag: TagBoolean, Bool: true},
		False:       &Primitive{Tag: TagBoolean, Bool: false},
		NaN:         &Primitive{Tag: TagNumber, Num: nan()},
		NumberZero:  &Primitive{Tag: TagNumber, Num: 0},
		NumberOne:   &Primitive{Tag: TagNumber, Num: 1},
		StringEmpty: &Primitive{Tag: TagString, Str: ""},
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

// CreatePrimitive promotes a host-independent raw Go value (float64,
// string, bool, nil) to an interpreter primitive, reusing a singleton
// where one exists; every other value is allocated fresh.
func (g *Globals) CreatePrimitive(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return g.Undefined
	case bool:
		if v {
			return g.True
		}
		return g.False
	case float64:
		if v == 0 {
			return g.NumberZero
		}
		if v == 1 {
			return g.NumberOne
		}
		if v != v {
			return g.NaN
		}
		return &Primitive{Tag: TagNumber, Num: v, Constructor: g.Number}
	case string:
		if v == "" {
			return g.StringEmpty
		}
		return &Primitive{Tag: TagString, Str: v, Constructor: g.String}
	}
	return g.Undefined
}

func (g *Globals) Bool(b bool) *Primitive {
	if b {
		return g.True
	}
	return g.False
}

func (g *Globals) Num(f float64) Value { return g.CreatePrimitive(f) }
func (g *Globals) Str(s string) Value  { return g.CreatePrimitive(s) }
