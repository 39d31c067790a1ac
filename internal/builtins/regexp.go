package builtins

import (
	"regexp"
	"strings"

	"github.com/cwbudde/go-jsi/internal/value"
)

// installRegExp builds the RegExp constructor and prototype. Pattern
// matching delegates to Go's regexp package (RE2), compiled once per
// instance and cached in the object's Payload: this gives real anchor,
// quantifier, character-class and group semantics instead of a
// substring-containment stand-in. RE2 diverges from ES5's pattern
// language in two ways neither this pass nor internal/jsparse works
// around: backreferences (\1) and lookaround ((?=...), (?!...)) are
// rejected at compile time rather than silently mismatching, since
// Non-goals excludes "regex semantics beyond what the host regex engine
// provides" — not regex matching itself.
func installRegExp(g *value.Globals) {
	proto := value.NewObject(g.Function)
	proto.Class = "RegExp"

	ctor := value.NewObject(g.Function)
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, HasConfigurable: true, Writable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: "RegExp", Native: func(call *value.Call) (value.Value, error) {
		if o, ok := call.Arg(0).(*value.Object); ok && o.Class == "RegExp" {
			return o, nil
		}
		pattern := toStringArg(g, call, 0)
		flags := ""
		if len(call.Args) > 1 {
			flags = toStringArg(g, call, 1)
		}
		obj := value.NewObject(ctor)
		obj.Class = "RegExp"
		re, err := compileJSPattern(pattern, flags)
		if err != nil {
			return nil, &builtinError{ctor: g.SyntaxError, msg: "invalid regular expression: " + err.Error()}
		}
		obj.Payload = re
		obj.Properties.Put("source", g.Str(pattern))
		obj.Properties.Put("global", g.Bool(strings.Contains(flags, "g")))
		obj.Properties.Put("ignoreCase", g.Bool(strings.Contains(flags, "i")))
		obj.Properties.Put("multiline", g.Bool(strings.Contains(flags, "m")))
		obj.Properties.Put("lastIndex", g.Num(0))
		return obj, nil
	}}

	method(g, proto, "toString", 0, func(call *value.Call) (value.Value, error) {
		o, ok := call.This.(*value.Object)
		if !ok {
			return g.Str("/(?:)/"), nil
		}
		src := ""
		if v, _, ok := o.Get("source"); ok {
			src = toStringValueDirect(v)
		}
		return g.Str("/" + src + "/"), nil
	})
	method(g, proto, "test", 1, func(call *value.Call) (value.Value, error) {
		re, _, err := regexpFromThis(g, call.This)
		if err != nil {
			return nil, err
		}
		s := toStringArg(g, call, 0)
		return g.Bool(re.MatchString(s)), nil
	})
	method(g, proto, "exec", 1, func(call *value.Call) (value.Value, error) {
		re, o, err := regexpFromThis(g, call.This)
		if err != nil {
			return nil, err
		}
		s := toStringArg(g, call, 0)
		start := 0
		global := false
		if v, _, ok := o.Get("global"); ok {
			global = value.ToBoolean(v)
		}
		if global {
			if v, _, ok := o.Get("lastIndex"); ok {
				n, _ := value.ToNumber(v, nopPrimitive)
				start = int(n)
			}
		}
		if start < 0 || start > len(s) {
			o.Properties.Put("lastIndex", g.Num(0))
			return g.Null, nil
		}
		loc := re.FindStringSubmatchIndex(s[start:])
		if loc == nil {
			if global {
				o.Properties.Put("lastIndex", g.Num(0))
			}
			return g.Null, nil
		}
		if global {
			o.Properties.Put("lastIndex", g.Num(float64(start+loc[1])))
		}
		return matchResultArray(g, s, start, loc), nil
	})

	g.RegExp = ctor
}

// regexpFromThis recovers the compiled pattern cached on a RegExp
// instance's Payload, recompiling from source/flags properties if absent
// (e.g. an object reconstructed by a host via createObject rather than
// `new RegExp`).
func regexpFromThis(g *value.Globals, this value.Value) (*regexp.Regexp, *value.Object, error) {
	o, ok := this.(*value.Object)
	if !ok {
		return nil, nil, typeErrorFor(g, "RegExp method called on non-object")
	}
	if re, ok := o.Payload.(*regexp.Regexp); ok {
		return re, o, nil
	}
	src := ""
	if v, _, ok := o.Get("source"); ok {
		src = toStringValueDirect(v)
	}
	flags := ""
	if v, _, ok := o.Get("ignoreCase"); ok && value.ToBoolean(v) {
		flags += "i"
	}
	if v, _, ok := o.Get("multiline"); ok && value.ToBoolean(v) {
		flags += "m"
	}
	re, err := compileJSPattern(src, flags)
	if err != nil {
		return nil, nil, &builtinError{ctor: g.SyntaxError, msg: "invalid regular expression: " + err.Error()}
	}
	o.Payload = re
	return re, o, nil
}

// matchResultArray builds the array exec()/String.prototype.match return:
// index 0 is the whole match, 1..n are capture groups (undefined for an
// unparticipating group), plus own `index` and `input` properties.
func matchResultArray(g *value.Globals, s string, base int, loc []int) *value.Object {
	arr := value.NewObject(g.Array)
	arr.Class = "Array"
	arr.IsArray = true
	n := len(loc) / 2
	for i := 0; i < n; i++ {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			arr.Properties.Put(itoa(i), g.Undefined)
			continue
		}
		arr.Properties.Put(itoa(i), g.Str(s[base+start:base+end]))
	}
	arr.SetArrayLength(uint32(n))
	arr.Properties.Put("index", g.Num(float64(base+loc[0])))
	arr.Properties.Put("input", g.Str(s))
	return arr
}

// compileJSPattern translates an ES5 pattern/flags pair to Go's RE2 syntax
// as far as the two dialects overlap (character classes, quantifiers,
// anchors, groups, alternation all carry over unchanged) and compiles it.
// `i`/`m` flags map to RE2's inline (?i)/(?m); ES5 has no dotall flag.
func compileJSPattern(pattern, flags string) (*regexp.Regexp, error) {
	var prefix string
	if strings.Contains(flags, "i") {
		prefix += "i"
	}
	if strings.Contains(flags, "m") {
		prefix += "m"
	}
	src := pattern
	if prefix != "" {
		src = "(?" + prefix + ")" + src
	}
	return regexp.Compile(src)
}
