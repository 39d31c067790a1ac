package builtins

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/cwbudde/go-jsi/internal/value"
)

// installString builds String.prototype (ES5 §15.5.4's methods operate on
// UTF-16 code units, matched here via utf16.Encode since this interpreter's
// Go strings are UTF-8) and the String constructor/wrapper object.
func installString(g *value.Globals) {
	proto := value.NewObject(g.Function)
	proto.Class = "String"
	proto.Payload = ""

	ctor := value.NewObject(g.Function)
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, HasConfigurable: true, Writable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: "String", Native: func(call *value.Call) (value.Value, error) {
		s := ""
		if len(call.Args) > 0 {
			s, _ = value.ToStringValue(call.Args[0], nopPrimitive)
		}
		if call.IsNew {
			obj := value.NewObject(ctor)
			obj.Class = "String"
			obj.Payload = s
			return obj, nil
		}
		return g.Str(s), nil
	}}
	method(g, ctor, "fromCharCode", 1, func(call *value.Call) (value.Value, error) {
		units := make([]uint16, len(call.Args))
		for i, a := range call.Args {
			n, _ := value.ToNumber(a, nopPrimitive)
			units[i] = uint16(int64(n))
		}
		return g.Str(string(utf16.Decode(units))), nil
	})

	method(g, proto, "toString", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(stringThis(call.This)), nil
	})
	method(g, proto, "valueOf", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(stringThis(call.This)), nil
	})
	method(g, proto, "charAt", 1, func(call *value.Call) (value.Value, error) {
		units := utf16.Encode([]rune(stringThis(call.This)))
		i := intArg(call, 0)
		if i < 0 || i >= len(units) {
			return g.StringEmpty, nil
		}
		return g.Str(string(utf16.Decode(units[i : i+1]))), nil
	})
	method(g, proto, "charCodeAt", 1, func(call *value.Call) (value.Value, error) {
		units := utf16.Encode([]rune(stringThis(call.This)))
		i := intArg(call, 0)
		if i < 0 || i >= len(units) {
			return g.NaN, nil
		}
		return g.Num(float64(units[i])), nil
	})
	method(g, proto, "indexOf", 1, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		needle := toStringArg(g, call, 0)
		start := intArg(call, 1)
		if start < 0 {
			start = 0
		}
		if start > len(s) {
			return g.Num(-1), nil
		}
		idx := strings.Index(s[start:], needle)
		if idx < 0 {
			return g.Num(-1), nil
		}
		return g.Num(float64(idx + start)), nil
	})
	method(g, proto, "lastIndexOf", 1, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		needle := toStringArg(g, call, 0)
		return g.Num(float64(strings.LastIndex(s, needle))), nil
	})
	method(g, proto, "slice", 2, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		start, end := sliceRange(len(s), call.Arg(0), call.Arg(1))
		return g.Str(s[start:end]), nil
	})
	method(g, proto, "substring", 2, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		a := clampInt(intArg(call, 0), 0, len(s))
		b := len(s)
		if len(call.Args) > 1 && call.Args[1] != nil && !isNullOrUndefined(call.Args[1]) {
			b = clampInt(intArg(call, 1), 0, len(s))
		}
		if a > b {
			a, b = b, a
		}
		return g.Str(s[a:b]), nil
	})
	method(g, proto, "substr", 2, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		start := normalizeIndex(intArg(call, 0), len(s))
		length := len(s) - start
		if len(call.Args) > 1 && call.Args[1] != nil {
			length = clampInt(intArg(call, 1), 0, len(s)-start)
		}
		return g.Str(s[start : start+length]), nil
	})
	method(g, proto, "toUpperCase", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(strings.ToUpper(stringThis(call.This))), nil
	})
	method(g, proto, "toLowerCase", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(strings.ToLower(stringThis(call.This))), nil
	})
	method(g, proto, "toLocaleUpperCase", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(localeUpper(stringThis(call.This))), nil
	})
	method(g, proto, "toLocaleLowerCase", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(localeLower(stringThis(call.This))), nil
	})
	method(g, proto, "localeCompare", 1, func(call *value.Call) (value.Value, error) {
		return g.Num(float64(localeCollate(stringThis(call.This), toStringArg(g, call, 0)))), nil
	})
	method(g, proto, "trim", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(strings.TrimSpace(stringThis(call.This))), nil
	})
	method(g, proto, "concat", 1, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		for _, a := range call.Args {
			s += toStringValueDirect(a)
		}
		return g.Str(s), nil
	})
	method(g, proto, "split", 2, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		if len(call.Args) == 0 || call.Args[0] == nil || isNullOrUndefined(call.Args[0]) {
			return makeStringArray(g, []string{s}), nil
		}
		var parts []string
		if reObj, ok := call.Arg(0).(*value.Object); ok && reObj.Class == "RegExp" {
			re, _, err := regexpFromThis(g, reObj)
			if err != nil {
				return nil, err
			}
			parts = re.Split(s, -1)
		} else {
			sep := toStringArg(g, call, 0)
			if sep == "" {
				for _, r := range s {
					parts = append(parts, string(r))
				}
			} else {
				parts = strings.Split(s, sep)
			}
		}
		if len(call.Args) > 1 {
			limit := intArg(call, 1)
			if limit >= 0 && limit < len(parts) {
				parts = parts[:limit]
			}
		}
		return makeStringArray(g, parts), nil
	})
	method(g, proto, "replace", 2, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		fn, fnIsCallback := call.Arg(1).(*value.Object)
		fnIsCallback = fnIsCallback && fn.IsCallable()

		if reObj, ok := call.Arg(0).(*value.Object); ok && reObj.Class == "RegExp" {
			re, _, err := regexpFromThis(g, reObj)
			if err != nil {
				return nil, err
			}
			global := false
			if v, _, ok := reObj.Get("global"); ok {
				global = value.ToBoolean(v)
			}
			count := 1
			if global {
				count = -1
			}
			var replaceErr error
			out := replaceAllWithLimit(re, s, count, func(loc []int) string {
				if fnIsCallback {
					args := []value.Value{g.Str(s[loc[0]:loc[1]])}
					for i := 1; i < len(loc)/2; i++ {
						if loc[2*i] < 0 {
							args = append(args, g.Undefined)
							continue
						}
						args = append(args, g.Str(s[loc[2*i]:loc[2*i+1]]))
					}
					args = append(args, g.Num(float64(loc[0])), g.Str(s))
					res, err := g.Invoke(fn, g.Undefined, args)
					if err != nil {
						replaceErr = err
						return s[loc[0]:loc[1]]
					}
					r, _ := value.ToStringValue(res, nopPrimitive)
					return r
				}
				return toStringArg(g, call, 1)
			})
			if replaceErr != nil {
				return nil, replaceErr
			}
			return g.Str(out), nil
		}

		pattern := toStringArg(g, call, 0)
		if fnIsCallback {
			idx := strings.Index(s, pattern)
			if idx < 0 {
				return g.Str(s), nil
			}
			res, err := g.Invoke(fn, g.Undefined, []value.Value{g.Str(pattern), g.Num(float64(idx)), g.Str(s)})
			if err != nil {
				return nil, err
			}
			repl, _ := value.ToStringValue(res, nopPrimitive)
			return g.Str(s[:idx] + repl + s[idx+len(pattern):]), nil
		}
		repl := toStringArg(g, call, 1)
		return g.Str(strings.Replace(s, pattern, repl, 1)), nil
	})
	method(g, proto, "match", 1, func(call *value.Call) (value.Value, error) {
		s := stringThis(call.This)
		if reObj, ok := call.Arg(0).(*value.Object); ok && reObj.Class == "RegExp" {
			re, _, err := regexpFromThis(g, reObj)
			if err != nil {
				return nil, err
			}
			global := false
			if v, _, ok := reObj.Get("global"); ok {
				global = value.ToBoolean(v)
			}
			if !global {
				loc := re.FindStringSubmatchIndex(s)
				if loc == nil {
					return g.Null, nil
				}
				return matchResultArray(g, s, 0, loc), nil
			}
			all := re.FindAllString(s, -1)
			if all == nil {
				return g.Null, nil
			}
			return makeStringArray(g, all), nil
		}
		needle := toStringArg(g, call, 0)
		if strings.Contains(s, needle) {
			return makeStringArray(g, []string{needle}), nil
		}
		return g.Null, nil
	})
}

// replaceAllWithLimit replaces up to limit (or all, if limit < 0)
// non-overlapping matches of re in s, calling build(loc) — loc is the
// submatch index slice returned by FindStringSubmatchIndex — for the
// replacement text of each match.
func replaceAllWithLimit(re *regexp.Regexp, s string, limit int, build func(loc []int) string) string {
	var b strings.Builder
	pos := 0
	count := 0
	for pos <= len(s) {
		if limit >= 0 && count >= limit {
			break
		}
		loc := re.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		b.WriteString(s[pos:loc[0]])
		b.WriteString(build(loc))
		count++
		if loc[1] == pos {
			if loc[1] < len(s) {
				b.WriteByte(s[loc[1]])
			}
			pos = loc[1] + 1
		} else {
			pos = loc[1]
		}
	}
	if pos < len(s) {
		b.WriteString(s[pos:])
	}
	return b.String()
}

func stringThis(v value.Value) string {
	switch t := v.(type) {
	case *value.Primitive:
		if t.Tag == value.TagString {
			return t.Str
		}
	case *value.Object:
		if s, ok := t.Payload.(string); ok {
			return s
		}
	}
	return ""
}

func toStringValueDirect(v value.Value) string {
	s, _ := value.ToStringValue(v, nopPrimitive)
	return s
}

func intArg(call *value.Call, i int) int {
	v := call.Arg(i)
	if v == nil {
		return 0
	}
	n, _ := value.ToNumber(v, nopPrimitive)
	return int(n)
}
