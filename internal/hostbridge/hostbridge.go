// Package hostbridge is the host-facing surface a Go program uses to hand
// native values and functions into the interpreter, and to read
// interpreter values back out — the host-bridge component of §4.4. It
// wraps internal/value without exposing that package's internals:
// internal/interp constructs one Bridge per Interpreter and gives it to a
// host's native-function registration code and to the CLI's result
// printer.
package hostbridge

import (
	"fmt"
	"regexp"

	"github.com/cwbudde/go-jsi/internal/builtins"
	"github.com/cwbudde/go-jsi/internal/value"
)

// Bridge is the concrete host-facing API over one interpreter's Globals.
type Bridge struct {
	g *value.Globals
}

// New wraps g. Called once by internal/interp when an Interpreter is built.
func New(g *value.Globals) *Bridge {
	return &Bridge{g: g}
}

// CreatePrimitive promotes a host value to an interpreter value, reusing a
// singleton where one exists. Accepts nil, bool, int, int32, int64 and
// float64 (widened to float64), string, and *regexp.Regexp (wrapped as a
// RegExp instance) — the set spec.md §4.4 names. Any other Go type yields
// undefined.
func (b *Bridge) CreatePrimitive(v interface{}) value.Value {
	switch n := v.(type) {
	case int:
		return b.g.Num(float64(n))
	case int32:
		return b.g.Num(float64(n))
	case int64:
		return b.g.Num(float64(n))
	case *regexp.Regexp:
		obj := value.NewObject(b.g.RegExp)
		obj.Class = "RegExp"
		obj.Payload = n
		obj.Properties.Put("source", b.g.Str(n.String()))
		obj.Properties.Put("global", b.g.False)
		obj.Properties.Put("ignoreCase", b.g.False)
		obj.Properties.Put("multiline", b.g.False)
		obj.Properties.Put("lastIndex", b.g.Num(0))
		return obj
	default:
		return b.g.CreatePrimitive(v)
	}
}

// CreateObject allocates a plain object whose constructor is parent (nil
// defaults to Object).
func (b *Bridge) CreateObject(parent *value.Object) *value.Object {
	if parent == nil {
		parent = b.g.Object
	}
	return value.NewObject(parent)
}

// CreateFunction wraps an already-parsed function body node (produced by
// internal/jsparse) as a callable object closing over scope — the
// counterpart to a NativeFunc for host code that hands the interpreter
// AST directly instead of a Go closure.
func (b *Bridge) CreateFunction(node interface{}, scope *value.Scope) *value.Object {
	fn := value.NewObject(b.g.Function)
	fn.Class = "Function"
	fn.Func = &value.FuncData{Node: node, ParentScope: scope}
	return fn
}

// CreateNativeFunction wraps a Go closure as a callable interpreter value.
func (b *Bridge) CreateNativeFunction(name string, length int, fn value.NativeFunc) *value.Object {
	obj := value.NewObject(b.g.Function)
	obj.Class = "Function"
	obj.Func = &value.FuncData{Name: name, Native: fn}
	obj.Properties.DefineOwnProperty("length", value.Descriptor{HasValue: true, Value: b.g.Num(float64(length))})
	obj.Properties.DefineOwnProperty("name", value.Descriptor{HasValue: true, Value: b.g.Str(name)})
	return obj
}

// CreateAsyncFunction wraps a Go closure that cannot complete
// synchronously: it must arrange to call resolve or reject exactly once.
func (b *Bridge) CreateAsyncFunction(name string, fn value.AsyncFunc) *value.Object {
	obj := value.NewObject(b.g.Function)
	obj.Class = "Function"
	obj.Func = &value.FuncData{Name: name, Async: fn}
	obj.Properties.DefineOwnProperty("length", value.Descriptor{HasValue: true, Value: b.g.Num(0)})
	obj.Properties.DefineOwnProperty("name", value.Descriptor{HasValue: true, Value: b.g.Str(name)})
	return obj
}

// SetProperty assigns obj[name] = v. With desc nil this is an ordinary
// assignment (respecting an existing setter/non-writable flag via
// PutChecked); with desc non-nil this is Object.defineProperty's
// define-own-property algorithm instead.
func (b *Bridge) SetProperty(obj *value.Object, name string, v value.Value, desc *value.Descriptor) error {
	if desc != nil {
		return obj.Properties.DefineOwnProperty(name, *desc)
	}
	if setter := obj.FindSetter(name); setter != nil && setter.Func != nil && setter.Func.Native != nil {
		_, err := setter.Func.Native(&value.Call{This: obj, Args: []value.Value{v}})
		return err
	}
	obj.Properties.PutChecked(name, v)
	return nil
}

// GetProperty reads obj[name], walking the prototype chain. The boolean
// reports whether name was found anywhere on the chain; a found accessor
// with no getter reads as (undefined, true), matching value.Object.Get.
func (b *Bridge) GetProperty(obj *value.Object, name string) (value.Value, bool) {
	v, getter, ok := obj.Get(name)
	if !ok {
		return nil, false
	}
	if getter != nil && getter.Func != nil && getter.Func.Native != nil {
		gv, err := getter.Func.Native(&value.Call{This: obj})
		if err != nil {
			return b.g.Undefined, true
		}
		return gv, true
	}
	if v == nil {
		return b.g.Undefined, true
	}
	return v, true
}

// NativeToPseudo deep-converts a host Go value (nil, bool, float64, int,
// string, []interface{}, map[string]interface{}) into interpreter values;
// any other Go type yields undefined. JSON.parse does not use it (it has
// its own walk in internal/builtins).
func (b *Bridge) NativeToPseudo(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return b.g.Undefined
	case bool, string:
		return b.g.CreatePrimitive(v)
	case float64:
		return b.g.Num(v)
	case int:
		return b.g.Num(float64(v))
	case []interface{}:
		arr := value.NewObject(b.g.Array)
		arr.Class = "Array"
		arr.IsArray = true
		for i, el := range v {
			arr.Properties.Put(itoa(i), b.NativeToPseudo(el))
		}
		arr.SetArrayLength(uint32(len(v)))
		return arr
	case map[string]interface{}:
		obj := value.NewObject(b.g.Object)
		for k, val := range v {
			obj.Properties.Put(k, b.NativeToPseudo(val))
		}
		return obj
	default:
		return b.g.Undefined
	}
}

// PseudoToNative is NativeToPseudo's inverse: a deep walk of an
// interpreter value back into plain Go data, used by host code reading a
// result back out after Interpreter.Run (JSON.stringify has its own walk
// in internal/builtins).
func (b *Bridge) PseudoToNative(v value.Value) interface{} {
	switch p := v.(type) {
	case nil:
		return nil
	case *value.Primitive:
		switch p.Tag {
		case value.TagUndefined, value.TagNull:
			return nil
		case value.TagBoolean:
			return p.Bool
		case value.TagNumber:
			return p.Num
		case value.TagString:
			return p.Str
		}
		return nil
	case *value.Object:
		if p.IsArray {
			n := int(p.Length)
			out := make([]interface{}, n)
			for i := 0; i < n; i++ {
				el, _, ok := p.Get(itoa(i))
				if ok {
					out[i] = b.PseudoToNative(el)
				}
			}
			return out
		}
		out := make(map[string]interface{})
		for _, key := range p.Properties.OwnEnumerableKeys() {
			val, _, ok := p.Get(key)
			if ok {
				out[key] = b.PseudoToNative(val)
			}
		}
		return out
	}
	return nil
}

// ThrowException builds the Go error value a NativeFunc returns to raise a
// specific ES5 error kind (TypeError, RangeError, ...) instead of the
// evaluator's default "any Go error becomes a generic TypeError"
// convention. kind is one of the six standard constructors on Globals, or
// Globals.Error for the base kind.
func (b *Bridge) ThrowException(kind *value.Object, format string, args ...interface{}) error {
	return builtins.NewKindError(kind, fmt.Sprintf(format, args...))
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
