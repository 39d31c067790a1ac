package builtins

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cwbudde/go-jsi/internal/value"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// installJSON builds the JSON global (ES5 §15.12): `parse` walks a
// gjson.Result tree and builds interpreter values directly instead of
// round-tripping through encoding/json's interface{}; `stringify`
// incrementally assembles the output document with sjson.SetRaw as it
// walks the interpreter's object graph, rather than hand-building the
// string with a bytes.Buffer.
func installJSON(g *value.Globals) {
	j := value.NewObject(g.Object)
	j.Class = "JSON"

	method(g, j, "parse", 1, func(call *value.Call) (value.Value, error) {
		s := toStringArg(g, call, 0)
		if !gjson.Valid(s) {
			return nil, &builtinError{ctor: g.SyntaxError, msg: "Unexpected token in JSON"}
		}
		return gjsonToValue(g, gjson.Parse(s)), nil
	})
	method(g, j, "stringify", 3, func(call *value.Call) (value.Value, error) {
		doc, ok, err := stringifyValue(g, call.Arg(0))
		if err != nil {
			return nil, err
		}
		if !ok {
			return g.Undefined, nil
		}
		if len(call.Args) > 2 {
			if indent := jsonIndentArg(call.Args[2]); indent != "" {
				var buf bytes.Buffer
				if err := json.Indent(&buf, []byte(doc), "", indent); err == nil {
					return g.Str(buf.String()), nil
				}
			}
		}
		return g.Str(doc), nil
	})

	g.JSON = j
}

func jsonIndentArg(v value.Value) string {
	switch p := v.(type) {
	case *value.Primitive:
		if p.Tag == value.TagNumber {
			n := int(p.Num)
			if n <= 0 {
				return ""
			}
			if n > 10 {
				n = 10
			}
			b := make([]byte, n)
			for i := range b {
				b[i] = ' '
			}
			return string(b)
		}
		if p.Tag == value.TagString {
			return p.Str
		}
	}
	return ""
}

func gjsonToValue(g *value.Globals, r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return g.Null
	case gjson.True:
		return g.True
	case gjson.False:
		return g.False
	case gjson.Number:
		return g.Num(r.Float())
	case gjson.String:
		return g.Str(r.String())
	case gjson.JSON:
		if r.IsArray() {
			arr := newArray(g, g.Array)
			i := 0
			r.ForEach(func(_, val gjson.Result) bool {
				arr.Properties.Put(itoa(i), gjsonToValue(g, val))
				i++
				return true
			})
			arr.SetArrayLength(uint32(i))
			return arr
		}
		obj := value.NewObject(g.Object)
		r.ForEach(func(key, val gjson.Result) bool {
			obj.Properties.Put(key.String(), gjsonToValue(g, val))
			return true
		})
		return obj
	}
	return g.Undefined
}

// stringifyValue implements ES5 §15.12.3's Str abstract operation for the
// subset of types JSON can represent: functions and undefined serialize to
// "no value" (ok=false) at the top level, and are omitted from object
// properties / replaced with null inside an array, per spec.
func stringifyValue(g *value.Globals, v value.Value) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	switch t := v.(type) {
	case *value.Primitive:
		switch t.Tag {
		case value.TagUndefined:
			return "", false, nil
		case value.TagNull:
			return "null", true, nil
		case value.TagBoolean:
			if t.Bool {
				return "true", true, nil
			}
			return "false", true, nil
		case value.TagNumber:
			return value.FormatNumber(t.Num), true, nil
		case value.TagString:
			return strconv.Quote(t.Str), true, nil
		}
	case *value.Object:
		if t.IsCallable() {
			return "", false, nil
		}
		if tj, _, ok := t.Get("toJSON"); ok {
			if fn, ok := tj.(*value.Object); ok && fn.IsCallable() {
				res, err := g.Invoke(fn, t, nil)
				if err != nil {
					return "", false, err
				}
				return stringifyValue(g, res)
			}
		}
		if t.IsArray {
			doc := "[]"
			elems := arrayElements(g, t)
			for i, el := range elems {
				sub, ok, err := stringifyValue(g, el)
				if err != nil {
					return "", false, err
				}
				if !ok {
					sub = "null"
				}
				doc, err = sjson.SetRaw(doc, strconv.Itoa(i), sub)
				if err != nil {
					return "", false, err
				}
			}
			return doc, true, nil
		}
		doc := "{}"
		var err error
		for _, k := range t.Properties.OwnEnumerableKeys() {
			pv, _ := t.Properties.GetOwn(k)
			sub, ok, serr := stringifyValue(g, pv)
			if serr != nil {
				return "", false, serr
			}
			if !ok {
				continue
			}
			doc, err = sjson.SetRaw(doc, sjsonKey(k), sub)
			if err != nil {
				return "", false, err
			}
		}
		return doc, true, nil
	}
	return "", false, nil
}

// sjsonKey escapes a property name for use as an sjson path segment: a
// literal "." or "*" in a JS property name would otherwise be read by
// sjson as path syntax.
func sjsonKey(k string) string {
	out := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		if k[i] == '.' || k[i] == '*' || k[i] == '?' || k[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, k[i])
	}
	return string(out)
}
