package builtins

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsi/internal/value"
)

// installGlobalFunctions builds the free functions ES5 §15.1.2/15.1.3
// exposes directly on the global object: parseInt/parseFloat/isNaN/
// isFinite and the URI encode/decode family. `eval` is installed with
// IsEval set instead of a Native body: the evaluator's call stepper
// special-cases a FuncData with IsEval, parsing the argument string via
// g.Parse and running it in a nested Evaluator sharing the caller's scope
// (internal/evaluator's stepInvoke), rather than dispatching through the
// ordinary native-call path.
func installGlobalFunctions(g *value.Globals, scope *value.Scope) {
	scope.Declare("parseInt", newNativeFunction(g, "parseInt", 2, func(call *value.Call) (value.Value, error) {
		s := strings.TrimSpace(toStringArg(g, call, 0))
		radix := 10
		if len(call.Args) > 1 {
			if n, ok := call.Args[1].(*value.Primitive); ok && n.Tag == value.TagNumber && n.Num != 0 {
				radix = int(n.Num)
			}
		}
		neg := false
		if strings.HasPrefix(s, "-") {
			neg = true
			s = s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if (radix == 16 || radix == 10) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
			s = s[2:]
			radix = 16
		}
		end := 0
		for end < len(s) && digitValue(s[end]) < radix {
			end++
		}
		if end == 0 {
			return g.NaN, nil
		}
		n, err := strconv.ParseInt(s[:end], radix, 64)
		if err != nil {
			return g.NaN, nil
		}
		if neg {
			n = -n
		}
		return g.Num(float64(n)), nil
	}))
	scope.Declare("parseFloat", newNativeFunction(g, "parseFloat", 1, func(call *value.Call) (value.Value, error) {
		s := strings.TrimSpace(toStringArg(g, call, 0))
		end := 0
		seenDot, seenExp := false, false
		for end < len(s) {
			c := s[end]
			if c >= '0' && c <= '9' {
				end++
				continue
			}
			if c == '.' && !seenDot && !seenExp {
				seenDot = true
				end++
				continue
			}
			if (c == 'e' || c == 'E') && !seenExp && end > 0 {
				seenExp = true
				end++
				if end < len(s) && (s[end] == '+' || s[end] == '-') {
					end++
				}
				continue
			}
			if (c == '+' || c == '-') && end == 0 {
				end++
				continue
			}
			break
		}
		if end == 0 {
			return g.NaN, nil
		}
		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return g.NaN, nil
		}
		return g.Num(f), nil
	}))
	scope.Declare("isNaN", newNativeFunction(g, "isNaN", 1, func(call *value.Call) (value.Value, error) {
		n, _ := value.ToNumber(call.Arg(0), nopPrimitive)
		return g.Bool(math.IsNaN(n)), nil
	}))
	scope.Declare("isFinite", newNativeFunction(g, "isFinite", 1, func(call *value.Call) (value.Value, error) {
		n, _ := value.ToNumber(call.Arg(0), nopPrimitive)
		return g.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))
	scope.Declare("encodeURIComponent", newNativeFunction(g, "encodeURIComponent", 1, func(call *value.Call) (value.Value, error) {
		return g.Str(url.QueryEscape(toStringArg(g, call, 0))), nil
	}))
	scope.Declare("decodeURIComponent", newNativeFunction(g, "decodeURIComponent", 1, func(call *value.Call) (value.Value, error) {
		s, err := url.QueryUnescape(toStringArg(g, call, 0))
		if err != nil {
			return nil, &builtinError{ctor: g.URIError, msg: "URI malformed"}
		}
		return g.Str(s), nil
	}))
	evalFn := value.NewObject(g.Function)
	evalFn.Class = "Function"
	evalFn.Properties.DefineOwnProperty("length", value.Descriptor{HasValue: true, Value: g.Num(1)})
	evalFn.Properties.DefineOwnProperty("name", value.Descriptor{HasValue: true, Value: g.Str("eval")})
	evalFn.Func = &value.FuncData{Name: "eval", IsEval: true}
	scope.Declare("eval", evalFn)
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 99
}
