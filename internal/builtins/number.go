package builtins

import (
	"math"
	"strconv"

	"github.com/cwbudde/go-jsi/internal/value"
)

// installNumber builds Number.prototype and the Number constructor/wrapper
// object, plus the ES5 numeric limit constants.
func installNumber(g *value.Globals) {
	proto := value.NewObject(g.Function)
	proto.Class = "Number"
	proto.Payload = float64(0)

	ctor := value.NewObject(g.Function)
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, HasConfigurable: true, Writable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: "Number", Native: func(call *value.Call) (value.Value, error) {
		n := 0.0
		if len(call.Args) > 0 {
			n, _ = value.ToNumber(call.Args[0], nopPrimitive)
		}
		if call.IsNew {
			obj := value.NewObject(ctor)
			obj.Class = "Number"
			obj.Payload = n
			return obj, nil
		}
		return g.Num(n), nil
	}}

	ctor.Properties.DefineOwnProperty("MAX_VALUE", value.Descriptor{HasValue: true, Value: g.Num(math.MaxFloat64)})
	ctor.Properties.DefineOwnProperty("MIN_VALUE", value.Descriptor{HasValue: true, Value: g.Num(math.SmallestNonzeroFloat64)})
	ctor.Properties.DefineOwnProperty("NaN", value.Descriptor{HasValue: true, Value: g.NaN})
	ctor.Properties.DefineOwnProperty("POSITIVE_INFINITY", value.Descriptor{HasValue: true, Value: g.Num(posInf())})
	ctor.Properties.DefineOwnProperty("NEGATIVE_INFINITY", value.Descriptor{HasValue: true, Value: g.Num(negInf())})

	method(g, proto, "toString", 1, func(call *value.Call) (value.Value, error) {
		n := numberThis(call.This)
		radix := 10
		if len(call.Args) > 0 {
			if r, ok := call.Args[0].(*value.Primitive); ok && r.Tag == value.TagNumber {
				radix = int(r.Num)
			}
		}
		if radix == 10 {
			return g.Str(value.FormatNumber(n)), nil
		}
		if n == math.Trunc(n) {
			return g.Str(strconv.FormatInt(int64(n), radix)), nil
		}
		return g.Str(strconv.FormatFloat(n, 'g', -1, 64)), nil
	})
	method(g, proto, "valueOf", 0, func(call *value.Call) (value.Value, error) {
		return g.Num(numberThis(call.This)), nil
	})
	method(g, proto, "toFixed", 1, func(call *value.Call) (value.Value, error) {
		n := numberThis(call.This)
		digits := 0
		if len(call.Args) > 0 {
			if d, ok := call.Args[0].(*value.Primitive); ok {
				digits = int(d.Num)
			}
		}
		return g.Str(strconv.FormatFloat(n, 'f', digits, 64)), nil
	})
	method(g, proto, "toPrecision", 1, func(call *value.Call) (value.Value, error) {
		n := numberThis(call.This)
		if len(call.Args) == 0 || call.Args[0] == nil {
			return g.Str(value.FormatNumber(n)), nil
		}
		p := 0
		if d, ok := call.Args[0].(*value.Primitive); ok {
			p = int(d.Num)
		}
		return g.Str(strconv.FormatFloat(n, 'g', p, 64)), nil
	})

	g.Number = ctor
}

func numberThis(v value.Value) float64 {
	switch t := v.(type) {
	case *value.Primitive:
		if t.Tag == value.TagNumber {
			return t.Num
		}
	case *value.Object:
		if n, ok := t.Payload.(float64); ok {
			return n
		}
	}
	return math.NaN()
}
