package builtins

import (
	"github.com/cwbudde/go-jsi/internal/value"
)

// installFunction builds Function.prototype (call/apply/bind/toString) and
// the Function constructor. `new Function(arg0, ..., argN-1, body)` hands
// its parameter list and body text to g.ParseFunction (internal/jsparse,
// wired by internal/interp) to get back a function-body node; a function
// constructed before that hook is wired falls back to an always-undefined
// no-op body, and an unparseable body raises a SyntaxError.
func installFunction(g *value.Globals) {
	proto := value.NewObject(nil)
	proto.Class = "Function"
	proto.Func = &value.FuncData{Name: "", Native: func(call *value.Call) (value.Value, error) {
		return g.Undefined, nil
	}}

	ctor := value.NewObject(nil) // Parent fixed up in Install
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, HasConfigurable: true, Writable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: "Function", Native: func(call *value.Call) (value.Value, error) {
		fn := value.NewObject(ctor)
		fn.Class = "Function"

		var params, body string
		if n := len(call.Args); n > 0 {
			body = toStringArg(g, call, n-1)
			for i := 0; i < n-1; i++ {
				if i > 0 {
					params += ","
				}
				params += toStringArg(g, call, i)
			}
		}
		if g.ParseFunction == nil {
			fn.Func = &value.FuncData{Name: "anonymous", Native: func(*value.Call) (value.Value, error) {
				return g.Undefined, nil
			}}
			return fn, nil
		}
		var paramList []string
		if params != "" {
			for _, p := range splitAndTrim(params) {
				paramList = append(paramList, p)
			}
		}
		node, paramNames, err := g.ParseFunction(paramList, body)
		if err != nil {
			return nil, &builtinError{ctor: g.SyntaxError, msg: err.Error()}
		}
		fn.Func = &value.FuncData{
			Name:        "anonymous",
			Node:        node,
			ParentScope: g.GlobalScope,
			ParamNames:  paramNames,
		}
		return fn, nil
	}}

	method(g, proto, "toString", 0, func(call *value.Call) (value.Value, error) {
		fn, ok := call.This.(*value.Object)
		if !ok || fn.Func == nil {
			return nil, typeErrorFor(g, "Function.prototype.toString called on non-function")
		}
		name := fn.Func.Name
		if name == "" {
			name = "anonymous"
		}
		return g.Str("function " + name + "() { [native code] }"), nil
	})
	method(g, proto, "call", 1, func(call *value.Call) (value.Value, error) {
		fn, ok := call.This.(*value.Object)
		if !ok || !fn.IsCallable() {
			return nil, typeErrorFor(g, "call called on non-function")
		}
		this := firstOrUndefined(g, call.Args)
		var rest []value.Value
		if len(call.Args) > 1 {
			rest = call.Args[1:]
		}
		return g.Invoke(fn, this, rest)
	})
	method(g, proto, "apply", 2, func(call *value.Call) (value.Value, error) {
		fn, ok := call.This.(*value.Object)
		if !ok || !fn.IsCallable() {
			return nil, typeErrorFor(g, "apply called on non-function")
		}
		this := firstOrUndefined(g, call.Args)
		var args []value.Value
		if len(call.Args) > 1 {
			if arr, ok := call.Args[1].(*value.Object); ok {
				args = arrayElements(g, arr)
			}
		}
		return g.Invoke(fn, this, args)
	})
	method(g, proto, "bind", 1, func(call *value.Call) (value.Value, error) {
		target, ok := call.This.(*value.Object)
		if !ok || !target.IsCallable() {
			return nil, typeErrorFor(g, "bind called on non-function")
		}
		boundThis := firstOrUndefined(g, call.Args)
		var boundArgs []value.Value
		if len(call.Args) > 1 {
			boundArgs = append(boundArgs, call.Args[1:]...)
		}
		bound := value.NewObject(ctor)
		bound.Class = "Function"
		bound.Func = &value.FuncData{
			Name:        "bound " + target.Func.Name,
			BoundThis:   boundThis,
			BoundArgs:   boundArgs,
			BoundTarget: target,
		}
		return bound, nil
	})

	g.Function = ctor
}

// splitAndTrim splits a comma-joined parameter list the way `new
// Function("a", " b ", "c")` arguments concatenate, trimming whitespace
// around each name.
func splitAndTrim(s string) []string {
	var out []string
	start := 0
	trim := func(p string) string {
		i, j := 0, len(p)
		for i < j && (p[i] == ' ' || p[i] == '\t' || p[i] == '\n') {
			i++
		}
		for j > i && (p[j-1] == ' ' || p[j-1] == '\t' || p[j-1] == '\n') {
			j--
		}
		return p[i:j]
	}
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			if t := trim(s[start:i]); t != "" {
				out = append(out, t)
			}
			start = i + 1
		}
	}
	if t := trim(s[start:]); t != "" {
		out = append(out, t)
	}
	return out
}

func firstOrUndefined(g *value.Globals, args []value.Value) value.Value {
	if len(args) == 0 || args[0] == nil {
		return g.Undefined
	}
	return args[0]
}

// arrayElements reads an Array-like object's indexed own properties 0..length-1.
func arrayElements(g *value.Globals, arr *value.Object) []value.Value {
	n := int(arr.Length)
	if n == 0 {
		if lv, _, ok := arr.Get("length"); ok {
			if p, ok := lv.(*value.Primitive); ok {
				n = int(p.Num)
			}
		}
	}
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		v, _, ok := arr.Get(itoa(i))
		if ok {
			out[i] = v
		} else {
			out[i] = g.Undefined
		}
	}
	return out
}
