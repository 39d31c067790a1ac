package builtins

import (
	"math"
	"time"

	"github.com/cwbudde/go-jsi/internal/value"
)

// installDate builds Date.prototype/constructor. The time value stored in
// an instance's Payload is milliseconds since the Unix epoch (ES5 §15.9.1.1
// "time value"), computed via Go's time package the same way a
// Delphi-epoch (TDateTime, days since 1899-12-30) conversion would use
// time.Date/time.Unix — just retargeted at ECMAScript's epoch and unit.
func installDate(g *value.Globals) {
	proto := value.NewObject(g.Function)
	proto.Class = "Date"
	proto.Payload = float64(0)

	ctor := value.NewObject(g.Function)
	ctor.Class = "Function"
	ctor.Properties.DefineOwnProperty("prototype", value.Descriptor{HasValue: true, Value: proto})
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		HasValue: true, Value: ctor, HasWritable: true, HasConfigurable: true, Writable: true, Configurable: true,
	})
	ctor.Func = &value.FuncData{Name: "Date", Native: func(call *value.Call) (value.Value, error) {
		if !call.IsNew {
			return g.Str(time.Now().UTC().Format(time.RFC1123)), nil
		}
		obj := value.NewObject(ctor)
		obj.Class = "Date"
		obj.Payload = dateArgsToInstant(call.Args)
		return obj, nil
	}}
	method(g, ctor, "now", 0, func(call *value.Call) (value.Value, error) {
		return g.Num(float64(time.Now().UnixMilli())), nil
	})
	method(g, ctor, "parse", 1, func(call *value.Call) (value.Value, error) {
		s := toStringArg(g, call, 0)
		for _, layout := range []string{time.RFC3339, time.RFC1123, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return g.Num(float64(t.UnixMilli())), nil
			}
		}
		return g.NaN, nil
	})
	method(g, ctor, "UTC", 7, func(call *value.Call) (value.Value, error) {
		return g.Num(dateArgsToInstant(call.Args)), nil
	})

	method(g, proto, "getTime", 0, func(call *value.Call) (value.Value, error) {
		return g.Num(dateThis(call.This)), nil
	})
	method(g, proto, "valueOf", 0, func(call *value.Call) (value.Value, error) {
		return g.Num(dateThis(call.This)), nil
	})
	method(g, proto, "setTime", 1, func(call *value.Call) (value.Value, error) {
		n, _ := value.ToNumber(call.Arg(0), nopPrimitive)
		setDateThis(call.This, n)
		return g.Num(n), nil
	})
	method(g, proto, "toISOString", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(instantTime(dateThis(call.This)).UTC().Format("2006-01-02T15:04:05.000Z")), nil
	})
	method(g, proto, "toString", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(instantTime(dateThis(call.This)).UTC().Format(time.RFC1123)), nil
	})
	method(g, proto, "toDateString", 0, func(call *value.Call) (value.Value, error) {
		return g.Str(instantTime(dateThis(call.This)).UTC().Format("Mon Jan 02 2006")), nil
	})

	yearGet := func(call *value.Call) (value.Value, error) {
		return g.Num(float64(instantTime(dateThis(call.This)).UTC().Year())), nil
	}
	method(g, proto, "getFullYear", 0, yearGet)
	method(g, proto, "getUTCFullYear", 0, yearGet)
	monthGet := func(call *value.Call) (value.Value, error) {
		return g.Num(float64(instantTime(dateThis(call.This)).UTC().Month() - 1)), nil
	}
	method(g, proto, "getMonth", 0, monthGet)
	method(g, proto, "getUTCMonth", 0, monthGet)
	dayGet := func(call *value.Call) (value.Value, error) {
		return g.Num(float64(instantTime(dateThis(call.This)).UTC().Day())), nil
	}
	method(g, proto, "getDate", 0, dayGet)
	method(g, proto, "getUTCDate", 0, dayGet)
	weekdayGet := func(call *value.Call) (value.Value, error) {
		return g.Num(float64(instantTime(dateThis(call.This)).UTC().Weekday())), nil
	}
	method(g, proto, "getDay", 0, weekdayGet)
	method(g, proto, "getUTCDay", 0, weekdayGet)
	hourGet := func(call *value.Call) (value.Value, error) {
		return g.Num(float64(instantTime(dateThis(call.This)).UTC().Hour())), nil
	}
	method(g, proto, "getHours", 0, hourGet)
	method(g, proto, "getUTCHours", 0, hourGet)
	minGet := func(call *value.Call) (value.Value, error) {
		return g.Num(float64(instantTime(dateThis(call.This)).UTC().Minute())), nil
	}
	method(g, proto, "getMinutes", 0, minGet)
	method(g, proto, "getUTCMinutes", 0, minGet)
	secGet := func(call *value.Call) (value.Value, error) {
		return g.Num(float64(instantTime(dateThis(call.This)).UTC().Second())), nil
	}
	method(g, proto, "getSeconds", 0, secGet)
	method(g, proto, "getUTCSeconds", 0, secGet)
	msGet := func(call *value.Call) (value.Value, error) {
		return g.Num(float64(instantTime(dateThis(call.This)).UTC().Nanosecond() / 1e6)), nil
	}
	method(g, proto, "getMilliseconds", 0, msGet)
	method(g, proto, "getUTCMilliseconds", 0, msGet)
	method(g, proto, "getTimezoneOffset", 0, func(call *value.Call) (value.Value, error) {
		return g.Num(0), nil
	})

	g.Date = ctor
}

func dateArgsToInstant(args []value.Value) float64 {
	if len(args) == 0 {
		return float64(time.Now().UnixMilli())
	}
	if len(args) == 1 {
		switch a := args[0].(type) {
		case *value.Primitive:
			if a.Tag == value.TagNumber {
				return a.Num
			}
			if a.Tag == value.TagString {
				for _, layout := range []string{time.RFC3339, time.RFC1123, "2006-01-02"} {
					if t, err := time.Parse(layout, a.Str); err == nil {
						return float64(t.UnixMilli())
					}
				}
			}
		}
		return math.NaN()
	}
	get := func(i int, def int) int {
		if i >= len(args) || args[i] == nil {
			return def
		}
		n, _ := value.ToNumber(args[i], nopPrimitive)
		return int(n)
	}
	year := get(0, 1970)
	month := get(1, 0)
	day := get(2, 1)
	hour := get(3, 0)
	minute := get(4, 0)
	sec := get(5, 0)
	ms := get(6, 0)
	t := time.Date(year, time.Month(month+1), day, hour, minute, sec, ms*1_000_000, time.UTC)
	return float64(t.UnixMilli())
}

func instantTime(instant float64) time.Time {
	if math.IsNaN(instant) {
		return time.Unix(0, 0).UTC()
	}
	return time.UnixMilli(int64(instant)).UTC()
}

func dateThis(v value.Value) float64 {
	o, ok := v.(*value.Object)
	if !ok {
		return math.NaN()
	}
	n, ok := o.Payload.(float64)
	if !ok {
		return math.NaN()
	}
	return n
}

func setDateThis(v value.Value, n float64) {
	if o, ok := v.(*value.Object); ok {
		o.Payload = n
	}
}
