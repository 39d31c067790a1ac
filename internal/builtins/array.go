package builtins

import (
	"sort"

	"github.com/cwbudde/go-jsi/internal/value"
)

// installArray builds Array.prototype's mutator/accessor/iteration methods
// and the Array constructor (`new Array()`, `new
// Array(n)`, `new Array(a, b, c)`, and `Array()` called as a function,
// which ES5 treats identically to `new Array()`).
func installArray(g *value.Globals) {
	proto := value.NewObject(g.Function)
	proto.Class = "Array"
	proto.IsArray = true

	ctor := value.NewObject(g.Function)
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, HasConfigurable: true, Writable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: "Array", Native: func(call *value.Call) (value.Value, error) {
		arr := newArray(g, ctor)
		if len(call.Args) == 1 {
			if n, ok := call.Args[0].(*value.Primitive); ok && n.Tag == value.TagNumber {
				arr.SetArrayLength(uint32(n.Num))
				return arr, nil
			}
		}
		for i, a := range call.Args {
			arr.Properties.Put(itoa(i), a)
		}
		arr.SetArrayLength(uint32(len(call.Args)))
		return arr, nil
	}}

	method(g, ctor, "isArray", 1, func(call *value.Call) (value.Value, error) {
		o, ok := call.Arg(0).(*value.Object)
		return g.Bool(ok && o.IsArray), nil
	})

	method(g, proto, "toString", 0, func(call *value.Call) (value.Value, error) {
		return joinArray(g, call.This, ",")
	})
	method(g, proto, "join", 1, func(call *value.Call) (value.Value, error) {
		sep := ","
		if len(call.Args) > 0 && call.Args[0] != nil && !isNullOrUndefined(call.Args[0]) {
			sep = toStringArg(g, call, 0)
		}
		return joinArray(g, call.This, sep)
	})
	method(g, proto, "push", 1, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return nil, typeErrorFor(g, "push called on non-array")
		}
		n := int(arr.Length)
		for _, a := range call.Args {
			arr.Properties.Put(itoa(n), a)
			n++
		}
		arr.SetArrayLength(uint32(n))
		return g.Num(float64(n)), nil
	})
	method(g, proto, "pop", 0, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok || arr.Length == 0 {
			return g.Undefined, nil
		}
		last := int(arr.Length) - 1
		v, _, _ := arr.Get(itoa(last))
		arr.Properties.Delete(itoa(last))
		arr.SetArrayLength(uint32(last))
		if v == nil {
			v = g.Undefined
		}
		return v, nil
	})
	method(g, proto, "shift", 0, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok || arr.Length == 0 {
			return g.Undefined, nil
		}
		elems := arrayElements(g, arr)
		first := elems[0]
		for i := 1; i < len(elems); i++ {
			arr.Properties.Put(itoa(i-1), elems[i])
		}
		arr.Properties.Delete(itoa(len(elems) - 1))
		arr.SetArrayLength(uint32(len(elems) - 1))
		return first, nil
	})
	method(g, proto, "unshift", 1, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return nil, typeErrorFor(g, "unshift called on non-array")
		}
		elems := arrayElements(g, arr)
		merged := append(append([]value.Value{}, call.Args...), elems...)
		for i, v := range merged {
			arr.Properties.Put(itoa(i), v)
		}
		arr.SetArrayLength(uint32(len(merged)))
		return g.Num(float64(len(merged))), nil
	})
	method(g, proto, "slice", 2, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return newArray(g, ctor), nil
		}
		elems := arrayElements(g, arr)
		start, end := sliceRange(len(elems), call.Arg(0), call.Arg(1))
		out := newArray(g, ctor)
		for i := start; i < end; i++ {
			out.Properties.Put(itoa(i-start), elems[i])
		}
		out.SetArrayLength(uint32(end - start))
		return out, nil
	})
	method(g, proto, "splice", 2, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return newArray(g, ctor), nil
		}
		elems := arrayElements(g, arr)
		start, _ := sliceRange(len(elems), call.Arg(0), nil)
		deleteCount := len(elems) - start
		if len(call.Args) > 1 {
			if n, ok := call.Args[1].(*value.Primitive); ok {
				deleteCount = clampInt(int(n.Num), 0, len(elems)-start)
			}
		}
		removed := append([]value.Value{}, elems[start:start+deleteCount]...)
		var inserted []value.Value
		if len(call.Args) > 2 {
			inserted = call.Args[2:]
		}
		merged := append(append(append([]value.Value{}, elems[:start]...), inserted...), elems[start+deleteCount:]...)
		for i := 0; i < len(elems); i++ {
			arr.Properties.Delete(itoa(i))
		}
		for i, v := range merged {
			arr.Properties.Put(itoa(i), v)
		}
		arr.SetArrayLength(uint32(len(merged)))
		out := newArray(g, ctor)
		for i, v := range removed {
			out.Properties.Put(itoa(i), v)
		}
		out.SetArrayLength(uint32(len(removed)))
		return out, nil
	})
	method(g, proto, "concat", 1, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return newArray(g, ctor), nil
		}
		out := append([]value.Value{}, arrayElements(g, arr)...)
		for _, a := range call.Args {
			if o, ok := a.(*value.Object); ok && o.IsArray {
				out = append(out, arrayElements(g, o)...)
			} else {
				out = append(out, a)
			}
		}
		result := newArray(g, ctor)
		for i, v := range out {
			result.Properties.Put(itoa(i), v)
		}
		result.SetArrayLength(uint32(len(out)))
		return result, nil
	})
	method(g, proto, "reverse", 0, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return call.This, nil
		}
		elems := arrayElements(g, arr)
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
		for i, v := range elems {
			arr.Properties.Put(itoa(i), v)
		}
		return arr, nil
	})
	method(g, proto, "sort", 1, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return call.This, nil
		}
		elems := arrayElements(g, arr)
		var cmp *value.Object
		if len(call.Args) > 0 {
			cmp, _ = call.Args[0].(*value.Object)
		}
		var sortErr error
		sort.SliceStable(elems, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if cmp != nil {
				res, err := g.Invoke(cmp, g.Undefined, []value.Value{elems[i], elems[j]})
				if err != nil {
					sortErr = err
					return false
				}
				n, _ := value.ToNumber(res, nopPrimitive)
				return n < 0
			}
			si, _ := value.ToStringValue(elems[i], nopPrimitive)
			sj, _ := value.ToStringValue(elems[j], nopPrimitive)
			return si < sj
		})
		if sortErr != nil {
			return nil, sortErr
		}
		for i, v := range elems {
			arr.Properties.Put(itoa(i), v)
		}
		return arr, nil
	})
	method(g, proto, "indexOf", 1, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return g.Num(-1), nil
		}
		elems := arrayElements(g, arr)
		target := call.Arg(0)
		start := 0
		if len(call.Args) > 1 {
			if n, ok := call.Args[1].(*value.Primitive); ok {
				start = clampInt(int(n.Num), 0, len(elems))
			}
		}
		for i := start; i < len(elems); i++ {
			if value.StrictEquals(elems[i], target) {
				return g.Num(float64(i)), nil
			}
		}
		return g.Num(-1), nil
	})
	method(g, proto, "lastIndexOf", 1, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return g.Num(-1), nil
		}
		elems := arrayElements(g, arr)
		target := call.Arg(0)
		for i := len(elems) - 1; i >= 0; i-- {
			if value.StrictEquals(elems[i], target) {
				return g.Num(float64(i)), nil
			}
		}
		return g.Num(-1), nil
	})
	method(g, proto, "forEach", 1, func(call *value.Call) (value.Value, error) {
		return iterateArray(g, call)
	})
	method(g, proto, "map", 1, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return newArray(g, ctor), nil
		}
		cb, thisArg, err := callbackArg(call)
		if err != nil {
			return nil, err
		}
		elems := arrayElements(g, arr)
		out := newArray(g, ctor)
		for i, v := range elems {
			res, err := g.Invoke(cb, thisArg, []value.Value{v, g.Num(float64(i)), arr})
			if err != nil {
				return nil, err
			}
			out.Properties.Put(itoa(i), res)
		}
		out.SetArrayLength(uint32(len(elems)))
		return out, nil
	})
	method(g, proto, "filter", 1, func(call *value.Call) (value.Value, error) {
		arr, ok := call.This.(*value.Object)
		if !ok {
			return newArray(g, ctor), nil
		}
		cb, thisArg, err := callbackArg(call)
		if err != nil {
			return nil, err
		}
		elems := arrayElements(g, arr)
		out := newArray(g, ctor)
		n := 0
		for _, v := range elems {
			res, err := g.Invoke(cb, thisArg, []value.Value{v, g.Num(float64(n)), arr})
			if err != nil {
				return nil, err
			}
			if value.ToBoolean(res) {
				out.Properties.Put(itoa(n), v)
				n++
			}
		}
		out.SetArrayLength(uint32(n))
		return out, nil
	})
	method(g, proto, "every", 1, func(call *value.Call) (value.Value, error) {
		return everySome(g, call, true)
	})
	method(g, proto, "some", 1, func(call *value.Call) (value.Value, error) {
		return everySome(g, call, false)
	})
	method(g, proto, "reduce", 1, func(call *value.Call) (value.Value, error) {
		return reduceArray(g, call, false)
	})
	method(g, proto, "reduceRight", 1, func(call *value.Call) (value.Value, error) {
		return reduceArray(g, call, true)
	})

	g.Array = ctor
}

func newArray(g *value.Globals, ctor *value.Object) *value.Object {
	arr := value.NewObject(ctor)
	arr.Class = "Array"
	arr.IsArray = true
	return arr
}

func joinArray(g *value.Globals, this value.Value, sep string) (value.Value, error) {
	arr, ok := this.(*value.Object)
	if !ok {
		return g.StringEmpty, nil
	}
	elems := arrayElements(g, arr)
	parts := make([]string, len(elems))
	for i, v := range elems {
		if v == nil || isNullOrUndefined(v) {
			parts[i] = ""
			continue
		}
		s, _ := value.ToStringValue(v, nopPrimitive)
		parts[i] = s
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return g.Str(out), nil
}

func sliceRange(length int, startArg, endArg value.Value) (int, int) {
	start := 0
	end := length
	if startArg != nil {
		if n, ok := startArg.(*value.Primitive); ok {
			start = normalizeIndex(int(n.Num), length)
		}
	}
	if endArg != nil && !isNullOrUndefined(endArg) {
		if n, ok := endArg.(*value.Primitive); ok {
			end = normalizeIndex(int(n.Num), length)
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	return clampInt(i, 0, length)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func callbackArg(call *value.Call) (*value.Object, value.Value, error) {
	cb, ok := call.Arg(0).(*value.Object)
	if !ok || !cb.IsCallable() {
		return nil, nil, typeErrorForArr("callback is not a function")
	}
	var thisArg value.Value
	if len(call.Args) > 1 {
		thisArg = call.Args[1]
	}
	return cb, thisArg, nil
}

func typeErrorForArr(msg string) error { return &builtinError{msg: msg} }

func iterateArray(g *value.Globals, call *value.Call) (value.Value, error) {
	arr, ok := call.This.(*value.Object)
	if !ok {
		return g.Undefined, nil
	}
	cb, thisArg, err := callbackArg(call)
	if err != nil {
		return nil, err
	}
	if thisArg == nil {
		thisArg = g.Undefined
	}
	elems := arrayElements(g, arr)
	for i, v := range elems {
		if _, err := g.Invoke(cb, thisArg, []value.Value{v, g.Num(float64(i)), arr}); err != nil {
			return nil, err
		}
	}
	return g.Undefined, nil
}

func everySome(g *value.Globals, call *value.Call, every bool) (value.Value, error) {
	arr, ok := call.This.(*value.Object)
	if !ok {
		return g.Bool(every), nil
	}
	cb, thisArg, err := callbackArg(call)
	if err != nil {
		return nil, err
	}
	if thisArg == nil {
		thisArg = g.Undefined
	}
	elems := arrayElements(g, arr)
	for i, v := range elems {
		res, err := g.Invoke(cb, thisArg, []value.Value{v, g.Num(float64(i)), arr})
		if err != nil {
			return nil, err
		}
		b := value.ToBoolean(res)
		if every && !b {
			return g.False, nil
		}
		if !every && b {
			return g.True, nil
		}
	}
	return g.Bool(every), nil
}

func reduceArray(g *value.Globals, call *value.Call, fromRight bool) (value.Value, error) {
	arr, ok := call.This.(*value.Object)
	if !ok {
		return nil, typeErrorFor(g, "reduce called on non-array")
	}
	cb, ok := call.Arg(0).(*value.Object)
	if !ok || !cb.IsCallable() {
		return nil, typeErrorFor(g, "reduce callback is not a function")
	}
	elems := arrayElements(g, arr)
	if fromRight {
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
	}
	var acc value.Value
	start := 0
	if len(call.Args) > 1 {
		acc = call.Args[1]
	} else {
		if len(elems) == 0 {
			return nil, typeErrorFor(g, "reduce of empty array with no initial value")
		}
		acc = elems[0]
		start = 1
	}
	for i := start; i < len(elems); i++ {
		idx := i
		if fromRight {
			idx = len(elems) - 1 - i
		}
		res, err := g.Invoke(cb, g.Undefined, []value.Value{acc, elems[i], g.Num(float64(idx)), arr})
		if err != nil {
			return nil, err
		}
		acc = res
	}
	return acc, nil
}
