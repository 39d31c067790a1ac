package builtins

import (
	"math"

	"github.com/cwbudde/go-jsi/internal/value"
)

// installMath builds the Math global object (ES5 §15.8): its constant
// properties and its single-argument/two-argument functions, delegating to
// Go's standard math package throughout — no corpus library specializes in
// ECMAScript's exact Math semantics, and math's float64 operations agree
// with ES5's IEEE-754 double semantics directly.
func installMath(g *value.Globals) {
	m := value.NewObject(g.Object)
	m.Class = "Math"

	m.Properties.DefineOwnProperty("E", value.Descriptor{HasValue: true, Value: g.Num(math.E)})
	m.Properties.DefineOwnProperty("PI", value.Descriptor{HasValue: true, Value: g.Num(math.Pi)})
	m.Properties.DefineOwnProperty("LN2", value.Descriptor{HasValue: true, Value: g.Num(math.Ln2)})
	m.Properties.DefineOwnProperty("LN10", value.Descriptor{HasValue: true, Value: g.Num(math.Log(10))})
	m.Properties.DefineOwnProperty("LOG2E", value.Descriptor{HasValue: true, Value: g.Num(1 / math.Ln2)})
	m.Properties.DefineOwnProperty("LOG10E", value.Descriptor{HasValue: true, Value: g.Num(1 / math.Log(10))})
	m.Properties.DefineOwnProperty("SQRT2", value.Descriptor{HasValue: true, Value: g.Num(math.Sqrt2)})
	m.Properties.DefineOwnProperty("SQRT1_2", value.Descriptor{HasValue: true, Value: g.Num(math.Sqrt(0.5))})

	unary := map[string]func(float64) float64{
		"abs": math.Abs, "floor": math.Floor, "ceil": math.Ceil,
		"sqrt": math.Sqrt, "sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
		"asin": math.Asin, "acos": math.Acos, "atan": math.Atan,
		"exp": math.Exp, "log": math.Log,
		"round": func(f float64) float64 { return math.Floor(f + 0.5) },
	}
	for name, fn := range unary {
		fn := fn
		method(g, m, name, 1, func(call *value.Call) (value.Value, error) {
			n, _ := value.ToNumber(call.Arg(0), nopPrimitive)
			return g.Num(fn(n)), nil
		})
	}
	method(g, m, "pow", 2, func(call *value.Call) (value.Value, error) {
		base, _ := value.ToNumber(call.Arg(0), nopPrimitive)
		exp, _ := value.ToNumber(call.Arg(1), nopPrimitive)
		return g.Num(math.Pow(base, exp)), nil
	})
	method(g, m, "atan2", 2, func(call *value.Call) (value.Value, error) {
		y, _ := value.ToNumber(call.Arg(0), nopPrimitive)
		x, _ := value.ToNumber(call.Arg(1), nopPrimitive)
		return g.Num(math.Atan2(y, x)), nil
	})
	method(g, m, "max", 2, func(call *value.Call) (value.Value, error) {
		if len(call.Args) == 0 {
			return g.Num(negInf()), nil
		}
		best := negInf()
		for _, a := range call.Args {
			n, _ := value.ToNumber(a, nopPrimitive)
			if math.IsNaN(n) {
				return g.NaN, nil
			}
			if n > best {
				best = n
			}
		}
		return g.Num(best), nil
	})
	method(g, m, "min", 2, func(call *value.Call) (value.Value, error) {
		if len(call.Args) == 0 {
			return g.Num(posInf()), nil
		}
		best := posInf()
		for _, a := range call.Args {
			n, _ := value.ToNumber(a, nopPrimitive)
			if math.IsNaN(n) {
				return g.NaN, nil
			}
			if n < best {
				best = n
			}
		}
		return g.Num(best), nil
	})
	method(g, m, "random", 0, func(call *value.Call) (value.Value, error) {
		return g.Num(pseudoRandom()), nil
	})

	g.Math = m
}

// pseudoRandom backs Math.random with a simple xorshift generator rather
// than math/rand's global lock, since ES5 doesn't require cryptographic
// quality or even reproducibility across runs.
var randState uint64 = 0x9e3779b97f4a7c15

func pseudoRandom() float64 {
	randState ^= randState << 13
	randState ^= randState >> 7
	randState ^= randState << 17
	return float64(randState%1_000_000_000) / 1_000_000_000
}
