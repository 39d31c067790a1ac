// Package builtins installs the ES5 standard library onto a freshly
// created value.Globals: the Object/Function/Array/Number/String/Boolean/
// Date/RegExp/Math/JSON/Error constructors and their prototypes, plus the
// global scope bindings a script sees at the top level.
package builtins

import (
	"github.com/cwbudde/go-jsi/internal/value"
)

// Install builds the standard library in the fixed dependency order ES5
// bootstrapping requires — Object and Function first (every other
// prototype's own [[Prototype]] eventually traces back to Object.prototype,
// and every constructor is itself a Function instance) — and declares the
// resulting constructors as bindings in globalScope.
func Install(g *value.Globals, globalScope *value.Scope) {
	installObject(g)
	installFunction(g)

	// Object's and Function's own prototype link, deferred until both
	// exist (installObject and installFunction create them with
	// value.NewObject(nil), which its doc comment allows only during
	// bootstrapping). Parent is a constructor, so Function.prototype links
	// to Object.prototype through g.Object.
	g.Object.Parent = g.Function
	g.Function.Parent = g.Function
	g.Function.Prototype().Parent = g.Object

	installArray(g)
	installNumber(g)
	installString(g)
	installBoolean(g)
	installMath(g)
	installDate(g)
	installRegExp(g)
	installErrors(g)
	installJSON(g)
	installGlobalFunctions(g, globalScope)

	globalScope.Declare("Object", g.Object)
	globalScope.Declare("Function", g.Function)
	globalScope.Declare("Array", g.Array)
	globalScope.Declare("Number", g.Number)
	globalScope.Declare("String", g.String)
	globalScope.Declare("Boolean", g.Boolean)
	globalScope.Declare("Date", g.Date)
	globalScope.Declare("RegExp", g.RegExp)
	globalScope.Declare("Math", g.Math)
	globalScope.Declare("JSON", g.JSON)
	globalScope.Declare("Error", g.Error)
	globalScope.Declare("EvalError", g.EvalError)
	globalScope.Declare("RangeError", g.RangeError)
	globalScope.Declare("ReferenceError", g.ReferenceError)
	globalScope.Declare("SyntaxError", g.SyntaxError)
	globalScope.Declare("TypeError", g.TypeError)
	globalScope.Declare("URIError", g.URIError)
	globalScope.Declare("NaN", g.NaN)
	globalScope.Declare("Infinity", g.CreatePrimitive(inf(1)))
	globalScope.Declare("undefined", g.Undefined)
}

func inf(sign int) float64 {
	if sign < 0 {
		return negInf()
	}
	return posInf()
}

func posInf() float64 { var z float64; return 1 / z }
func negInf() float64 { var z float64; return -1 / z }

// newNativeFunction builds a callable Object whose Func.Native is fn,
// installed directly as a Globals.Function instance.
func newNativeFunction(g *value.Globals, name string, length int, fn value.NativeFunc) *value.Object {
	obj := value.NewObject(g.Function)
	obj.Class = "Function"
	obj.Func = &value.FuncData{Name: name, Native: fn}
	obj.Properties.DefineOwnProperty("length", value.Descriptor{HasValue: true, Value: g.Num(float64(length))})
	obj.Properties.DefineOwnProperty("name", value.Descriptor{HasValue: true, Value: g.Str(name)})
	return obj
}

// method installs a non-enumerable native method on proto, matching the
// ES5 convention that Object.prototype's own built-in methods don't show
// up in a for-in loop.
func method(g *value.Globals, proto *value.Object, name string, length int, fn value.NativeFunc) {
	f := newNativeFunction(g, name, length, fn)
	proto.Properties.DefineOwnProperty(name, value.Descriptor{
		HasValue: true, Value: f, HasWritable: true, Writable: true,
		HasConfigurable: true, Configurable: true,
	})
}

// accessor prop is not used by ES5's built-ins except a handful of getters
// (e.g. RegExp instance flags are own data properties instead); kept out
// of this pass since nothing in this built-in surface needs it.
