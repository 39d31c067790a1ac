// Package value implements the interpreter's value model: primitives and
// objects, their property stores, the prototype chain, and the ES5
// abstract conversions (toBoolean, toNumber, toString, valueOf).
//
// Every interpreter-visible value satisfies Value. There are exactly two
// concrete shapes: *Primitive and *Object. Primitive singletons
// (undefined, null, NaN, true, false, 0, 1, "") are allocated once by
// NewGlobals and reused; every other primitive is allocated fresh.
package value

// Value is satisfied by *Primitive and *Object — the only two shapes of
// interpreter-visible value.
type Value interface {
	isValue()
	// TypeOf returns the ECMAScript typeof result, except that Object
	// additionally distinguishes "function" by checking IsCallable.
	TypeOf() string
}

// Tag identifies the payload carried by a Primitive.
type Tag int

const (
	TagUndefined Tag = iota
	TagNull
	TagBoolean
	TagNumber
	TagString
)

// Primitive is an immutable value carrying a raw payload and a pointer to
// the constructor whose prototype governs method dispatch.
// Null and undefined carry no constructor.
type Primitive struct {
	Tag         Tag
	Bool        bool
	Num         float64
	Str         string
	Constructor *Object // NUMBER, STRING, or BOOLEAN; nil for null/undefined
}

func (*Primitive) isValue() {}

func (p *Primitive) TypeOf() string {
	switch p.Tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "object" // typeof null === "object", a long-standing ES wart
	case TagBoolean:
		return "boolean"
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	}
	return "undefined"
}

func (p *Primitive) String() string {
	switch p.Tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBoolean:
		if p.Bool {
			return "true"
		}
		return "false"
	case TagNumber:
		return formatNumber(p.Num)
	case TagString:
		return p.Str
	}
	return ""
}

// Object is a mutable value carrying an optional raw payload (used by
// Number/String/Boolean wrappers, Date, RegExp), a pointer to its
// constructor, and a property store.
type Object struct {
	Properties *PropertyStore

	// Parent is the constructor function governing this object's method
	// dispatch; the prototype itself is reached by one further
	// indirection: Parent.Properties.Get("prototype").
	Parent *Object

	// Class is a descriptive tag ("Object", "Array", "Function", "Error",
	// "Date", "RegExp", "Number", "String", "Boolean", "Arguments", ...)
	// used by Object.prototype.toString and by internal dispatch.
	Class string

	// PreventExtensions is a non-extensible marker. No built-in sets it,
	// and property writes and definitions do not consult it, so it does not
	// block adding new own properties.
	PreventExtensions bool

	// Payload backs Number/String/Boolean wrapper objects, Date (as a
	// float64 unix-millis instant) and RegExp (as *RegExp).
	Payload interface{}

	// Length backs Array instances.
	IsArray bool
	Length  uint32

	Func *FuncData // non-nil iff this object is callable

	// Scope fields: a Scope is simply an Object used as a
	// name->value map, with these two additional fields.
	ParentScope *Scope
	Strict      bool
	// IsSpecialScope marks with/catch scopes, which do not re-hoist.
	IsSpecialScope bool
	// WithTarget is set on a with-scope: property reads/writes against
	// this scope's bindings are redirected to WithTarget's properties.
	WithTarget *Object
}

func (*Object) isValue() {}

func (o *Object) TypeOf() string {
	if o.Func != nil {
		return "function"
	}
	return "object"
}

// FuncData is present on an Object representing a function. Exactly one execution body is set: Node+ParentScope (user AST
// function), Native, or Async.
type FuncData struct {
	Node        interface{} // *estree.FunctionDeclaration or *estree.FunctionExpression
	ParentScope *Scope      // captured lexical scope; non-nil iff Node is set
	Name        string
	ParamNames  []string
	Strict      bool

	Native NativeFunc
	Async  AsyncFunc

	// IsEval marks the `eval` builtin, which the evaluator special-cases.
	IsEval bool

	// Set by Function.prototype.bind; consumed by the evaluator's call
	// stepper to unwrap a bound function before invoking BoundTarget.
	BoundThis   Value   // non-nil iff this is a bound function
	BoundArgs   []Value // prefix of bound arguments
	BoundTarget *Object // the function Bind was called on
}

// NativeFunc is a host-implemented synchronous callable. `this` and `args`
// are already-converted interpreter values; the return Value is pushed
// back as the call expression's result. Returning an error is equivalent
// to interp.throwException(TypeError, err.Error()) at the call site.
type NativeFunc func(call *Call) (Value, error)

// AsyncFunc is a host-implemented callable that cannot complete
// synchronously. It must arrange to invoke resolve or reject exactly once,
// possibly from another goroutine; doing so clears the interpreter's
// paused_ flag.
type AsyncFunc func(call *Call, resolve func(Value), reject func(error))

// Call bundles the receiver, arguments and constructor-call flag passed to
// a native/async function.
type Call struct {
	This      Value
	Args      []Value
	IsNew     bool
	NewTarget *Object // the constructor, when IsNew is true
}

func (c *Call) Arg(i int) Value {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return nil // caller substitutes Undefined
}

func formatNumber(f float64) string {
	return formatFloat(f)
}
