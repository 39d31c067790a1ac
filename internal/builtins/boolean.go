package builtins

import "github.com/cwbudde/go-jsi/internal/value"

// installBoolean builds Boolean.prototype and the Boolean constructor/
// wrapper object.
func installBoolean(g *value.Globals) {
	proto := value.NewObject(g.Function)
	proto.Class = "Boolean"
	proto.Payload = false

	ctor := value.NewObject(g.Function)
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, HasConfigurable: true, Writable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: "Boolean", Native: func(call *value.Call) (value.Value, error) {
		b := false
		if len(call.Args) > 0 {
			b = value.ToBoolean(call.Args[0])
		}
		if call.IsNew {
			obj := value.NewObject(ctor)
			obj.Class = "Boolean"
			obj.Payload = b
			return obj, nil
		}
		return g.Bool(b), nil
	}}

	method(g, proto, "toString", 0, func(call *value.Call) (value.Value, error) {
		if booleanThis(call.This) {
			return g.Str("true"), nil
		}
		return g.Str("false"), nil
	})
	method(g, proto, "valueOf", 0, func(call *value.Call) (value.Value, error) {
		return g.Bool(booleanThis(call.This)), nil
	})

	g.Boolean = ctor
}

func booleanThis(v value.Value) bool {
	switch t := v.(type) {
	case *value.Primitive:
		if t.Tag == value.TagBoolean {
			return t.Bool
		}
	case *value.Object:
		if b, ok := t.Payload.(bool); ok {
			return b
		}
	}
	return false
}
