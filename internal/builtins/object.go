package builtins

import (
	"github.com/cwbudde/go-jsi/internal/value"
)

// installObject builds Object.prototype and the Object constructor.
// Object.prototype's own [[Prototype]] is nil (the top of every chain);
// the constructor's static methods (keys/create/defineProperty/
// getPrototypeOf) are installed directly on the constructor object
// itself, matching ES5 §15.2.3.
func installObject(g *value.Globals) {
	proto := value.NewObject(nil)
	proto.Class = "Object"

	ctor := value.NewObject(nil) // Parent fixed up to Function in Install
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, Writable: true, HasConfigurable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: "Object", Native: func(call *value.Call) (value.Value, error) {
		if len(call.Args) == 0 || call.Args[0] == nil || isNullOrUndefined(call.Args[0]) {
			return value.NewObject(ctor), nil
		}
		if o, ok := call.Args[0].(*value.Object); ok {
			return o, nil
		}
		return call.Args[0], nil
	}}

	method(g, proto, "toString", 0, func(call *value.Call) (value.Value, error) {
		o, ok := call.This.(*value.Object)
		if !ok {
			return g.Str("[object Object]"), nil
		}
		return g.Str("[object " + o.Class + "]"), nil
	})
	method(g, proto, "toLocaleString", 0, func(call *value.Call) (value.Value, error) {
		o, ok := call.This.(*value.Object)
		if ok && o.IsCallable() {
			return callToString(g, o)
		}
		return callToString(g, call.This)
	})
	method(g, proto, "valueOf", 0, func(call *value.Call) (value.Value, error) {
		return call.This, nil
	})
	method(g, proto, "hasOwnProperty", 1, func(call *value.Call) (value.Value, error) {
		o, ok := call.This.(*value.Object)
		if !ok {
			return g.False, nil
		}
		name := toStringArg(g, call, 0)
		return g.Bool(o.Properties.HasOwn(name)), nil
	})
	method(g, proto, "isPrototypeOf", 1, func(call *value.Call) (value.Value, error) {
		target, ok := call.Arg(0).(*value.Object)
		self, selfOK := call.This.(*value.Object)
		if !ok || !selfOK {
			return g.False, nil
		}
		for cur := target.Prototype(); cur != nil; cur = cur.Prototype() {
			if cur == self {
				return g.True, nil
			}
		}
		return g.False, nil
	})
	method(g, proto, "propertyIsEnumerable", 1, func(call *value.Call) (value.Value, error) {
		o, ok := call.This.(*value.Object)
		if !ok {
			return g.False, nil
		}
		name := toStringArg(g, call, 0)
		return g.Bool(o.Properties.HasOwn(name) && o.Properties.Enumerable(name)), nil
	})

	method(g, ctor, "keys", 1, func(call *value.Call) (value.Value, error) {
		o, ok := call.Arg(0).(*value.Object)
		if !ok {
			return nil, typeErrorFor(g, "Object.keys called on non-object")
		}
		return makeStringArray(g, o.Properties.OwnEnumerableKeys()), nil
	})
	method(g, ctor, "getPrototypeOf", 1, func(call *value.Call) (value.Value, error) {
		o, ok := call.Arg(0).(*value.Object)
		if !ok {
			return nil, typeErrorFor(g, "Object.getPrototypeOf called on non-object")
		}
		p := o.Prototype()
		if p == nil {
			return g.Null, nil
		}
		return p, nil
	})
	method(g, ctor, "create", 2, func(call *value.Call) (value.Value, error) {
		protoArg := call.Arg(0)
		obj := value.NewObject(ctor)
		if p, ok := protoArg.(*value.Object); ok {
			obj.Parent = p.Parent
			// Object.create's prototype argument becomes the new object's own
			// [[Prototype]] directly; since Prototype() is reached through
			// Parent's "prototype" slot, the simplest faithful encoding for a
			// plain-data prototype argument is a throwaway constructor whose
			// own prototype is p.
			synthetic := value.NewObject(g.Function)
			synthetic.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: p})
			obj.Parent = synthetic
		}
		return obj, nil
	})
	method(g, ctor, "defineProperty", 3, func(call *value.Call) (value.Value, error) {
		o, ok := call.Arg(0).(*value.Object)
		if !ok {
			return nil, typeErrorFor(g, "Object.defineProperty called on non-object")
		}
		name := toStringArg(g, call, 1)
		descObj, ok := call.Arg(2).(*value.Object)
		if !ok {
			return nil, typeErrorFor(g, "property descriptor must be an object")
		}
		d := descriptorFromObject(g, descObj)
		if err := o.Properties.DefineOwnProperty(name, d); err != nil {
			return nil, typeErrorFor(g, err.Error())
		}
		return o, nil
	})
	method(g, ctor, "defineProperties", 2, func(call *value.Call) (value.Value, error) {
		o, ok := call.Arg(0).(*value.Object)
		if !ok {
			return nil, typeErrorFor(g, "Object.defineProperties called on non-object")
		}
		props, ok := call.Arg(1).(*value.Object)
		if !ok {
			return o, nil
		}
		for _, k := range props.Properties.OwnEnumerableKeys() {
			v, _ := props.Properties.GetOwn(k)
			descObj, ok := v.(*value.Object)
			if !ok {
				continue
			}
			if err := o.Properties.DefineOwnProperty(k, descriptorFromObject(g, descObj)); err != nil {
				return nil, typeErrorFor(g, err.Error())
			}
		}
		return o, nil
	})
	method(g, ctor, "getOwnPropertyNames", 1, func(call *value.Call) (value.Value, error) {
		o, ok := call.Arg(0).(*value.Object)
		if !ok {
			return nil, typeErrorFor(g, "Object.getOwnPropertyNames called on non-object")
		}
		return makeStringArray(g, o.Properties.OwnKeys()), nil
	})

	g.Object = ctor
}

func descriptorFromObject(g *value.Globals, descObj *value.Object) value.Descriptor {
	d := value.Descriptor{}
	if v, _, ok := descObj.Get("value"); ok {
		d.HasValue, d.Value = true, v
	}
	if v, _, ok := descObj.Get("get"); ok {
		if fn, ok := v.(*value.Object); ok {
			d.HasGet, d.Get = true, fn
		}
	}
	if v, _, ok := descObj.Get("set"); ok {
		if fn, ok := v.(*value.Object); ok {
			d.HasSet, d.Set = true, fn
		}
	}
	if v, _, ok := descObj.Get("writable"); ok {
		d.HasWritable, d.Writable = true, value.ToBoolean(v)
	}
	if v, _, ok := descObj.Get("enumerable"); ok {
		d.HasEnumerable, d.Enumerable = true, value.ToBoolean(v)
	}
	if v, _, ok := descObj.Get("configurable"); ok {
		d.HasConfigurable, d.Configurable = true, value.ToBoolean(v)
	}
	return d
}

func isNullOrUndefined(v value.Value) bool {
	p, ok := v.(*value.Primitive)
	return ok && (p.Tag == value.TagNull || p.Tag == value.TagUndefined)
}

func makeStringArray(g *value.Globals, items []string) *value.Object {
	arr := value.NewObject(g.Array)
	arr.Class = "Array"
	arr.IsArray = true
	for i, s := range items {
		arr.Properties.Put(itoa(i), g.Str(s))
	}
	arr.SetArrayLength(uint32(len(items)))
	return arr
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func toStringArg(g *value.Globals, call *value.Call, i int) string {
	v := call.Arg(i)
	if v == nil {
		return "undefined"
	}
	s, _ := value.ToStringValue(v, nopPrimitive)
	return s
}

// nopPrimitive is substituted where a caller needs ToStringValue/ToNumber's
// signature but the argument is already known to be a primitive (so the
// hint callback is never actually invoked); the evaluator's real
// ToPrimitive is wired in by callers that sit inside internal/evaluator
// itself, since this package must not import it (builtins is imported BY
// the evaluator's native bindings, not the other way round).
func nopPrimitive(v value.Value, hint string) (value.Value, error) { return v, nil }

func callToString(g *value.Globals, v value.Value) (value.Value, error) {
	if o, ok := v.(*value.Object); ok {
		if fn, _, ok := o.Get("toString"); ok {
			if fnObj, ok := fn.(*value.Object); ok && fnObj.Func != nil && fnObj.Func.Native != nil {
				return fnObj.Func.Native(&value.Call{This: o})
			}
		}
		return g.Str("[object " + o.Class + "]"), nil
	}
	s, _ := value.ToStringValue(v, nopPrimitive)
	return g.Str(s), nil
}

func typeErrorFor(g *value.Globals, msg string) error {
	return &builtinError{ctor: g.TypeError, msg: msg}
}

// builtinError lets a NativeFunc raise a specific error kind (TypeError,
// RangeError, ...) instead of the evaluator's default TypeError-for-any-Go-
// error convention.
type builtinError struct {
	ctor *value.Object
	msg  string
}

func (e *builtinError) Error() string { return e.msg }

// NewKindError builds the same error value a native built-in raises to pick
// a specific ES5 error kind, exported so a host-authored native
// (internal/hostbridge's throwException) can raise one too without
// reaching into this package's unexported type.
func NewKindError(ctor *value.Object, msg string) error {
	return &builtinError{ctor: ctor, msg: msg}
}

// ErrorKind lets internal/evaluator recover the intended constructor
// without importing this package's unexported type.
func ErrorKind(err error) (*value.Object, string, bool) {
	if be, ok := err.(*builtinError); ok {
		return be.ctor, be.msg, true
	}
	return nil, "", false
}
