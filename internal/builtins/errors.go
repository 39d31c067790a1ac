package builtins

import "github.com/cwbudde/go-jsi/internal/value"

// installErrors builds Error.prototype/constructor and the six ES5 native
// error subclasses (EvalError/RangeError/ReferenceError/SyntaxError/
// TypeError/URIError), each a distinct constructor whose prototype chains
// up to Error.prototype (ES5 §15.11.6). The shape (a named kind plus a
// message, each kind its own constructor) mirrors a category-based error
// taxonomy generalized to ECMAScript's fixed six-plus-generic kind set.
func installErrors(g *value.Globals) {
	errorProto := value.NewObject(g.Object)
	errorProto.Class = "Error"
	errorProto.Properties.Put("name", g.Str("Error"))
	errorProto.Properties.Put("message", g.StringEmpty)

	errorCtor := newErrorConstructor(g, "Error", errorProto)
	method(g, errorProto, "toString", 0, func(call *value.Call) (value.Value, error) {
		o, ok := call.This.(*value.Object)
		if !ok {
			return g.Str("Error"), nil
		}
		name := "Error"
		if n, _, ok := o.Get("name"); ok {
			name = toStringValueDirect(n)
		}
		msg := ""
		if m, _, ok := o.Get("message"); ok {
			msg = toStringValueDirect(m)
		}
		if msg == "" {
			return g.Str(name), nil
		}
		return g.Str(name + ": " + msg), nil
	})
	g.Error = errorCtor

	g.EvalError = subError(g, "EvalError", errorCtor)
	g.RangeError = subError(g, "RangeError", errorCtor)
	g.ReferenceError = subError(g, "ReferenceError", errorCtor)
	g.SyntaxError = subError(g, "SyntaxError", errorCtor)
	g.TypeError = subError(g, "TypeError", errorCtor)
	g.URIError = subError(g, "URIError", errorCtor)
}

func newErrorConstructor(g *value.Globals, name string, proto *value.Object) *value.Object {
	ctor := value.NewObject(g.Function)
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	ctor.Properties.DefineOwnProperty("name", value.Descriptor{HasValue: true, Value: g.Str(name)})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, HasConfigurable: true, Writable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: name, Native: func(call *value.Call) (value.Value, error) {
		obj := value.NewObject(ctor)
		obj.Class = "Error"
		if len(call.Args) > 0 && call.Args[0] != nil && !isNullOrUndefined(call.Args[0]) {
			obj.Properties.Put("message", g.Str(toStringValueDirect(call.Args[0])))
		}
		return obj, nil
	}}
	return ctor
}

func subError(g *value.Globals, name string, errorCtor *value.Object) *value.Object {
	proto := value.NewObject(errorCtor)
	proto.Class = "Error"
	proto.Properties.Put("name", g.Str(name))
	return newErrorConstructor(g, name, proto)
}
