package value

import (
	"math"
	"testing"
)

func TestCreatePrimitiveReusesSingletons(t *testing.T) {
	g := NewGlobals()

	tests := []struct {
		name string
		raw  interface{}
		want Value
	}{
		{"nil is Undefined", nil, g.Undefined},
		{"true is True", true, g.True},
		{"false is False", false, g.False},
		{"zero is NumberZero", float64(0), g.NumberZero},
		{"one is NumberOne", float64(1), g.NumberOne},
		{"empty string is StringEmpty", "", g.StringEmpty},
		{"NaN is the NaN singleton", math.NaN(), g.NaN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CreatePrimitive(tt.raw); got != tt.want {
				t.Errorf("CreatePrimitive(%v) = %v, want singleton %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestToBoolean(t *testing.T) {
	g := NewGlobals()
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"undefined", g.Undefined, false},
		{"null", g.Null, false},
		{"zero", g.NumberZero, false},
		{"NaN", g.NaN, false},
		{"nonzero number", &Primitive{Tag: TagNumber, Num: 1}, true},
		{"empty string", g.StringEmpty, false},
		{"nonempty string", &Primitive{Tag: TagString, Str: "x"}, true},
		{"object", NewObject(nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToBoolean(tt.v); got != tt.want {
				t.Errorf("ToBoolean(%v) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestToNumberPrimitives(t *testing.T) {
	g := NewGlobals()
	tests := []struct {
		name string
		v    Value
		want float64
	}{
		{"null", g.Null, 0},
		{"true", g.True, 1},
		{"false", g.False, 0},
		{"numeric string", &Primitive{Tag: TagString, Str: "  42  "}, 42},
		{"hex string", &Primitive{Tag: TagString, Str: "0x1F"}, 31},
		{"empty string", g.StringEmpty, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNumber(tt.v, nil)
			if err != nil {
				t.Fatalf("ToNumber returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToNumber(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	t.Run("undefined is NaN", func(t *testing.T) {
		got, err := ToNumber(g.Undefined, nil)
		if err != nil {
			t.Fatalf("ToNumber returned error: %v", err)
		}
		if !math.IsNaN(got) {
			t.Errorf("ToNumber(undefined) = %v, want NaN", got)
		}
	})
}

func TestAbstractEqualsCoercion(t *testing.T) {
	g := NewGlobals()
	tests := []struct {
		name string
		a, b *Primitive
		want bool
	}{
		{"null == undefined", g.Null, g.Undefined, true},
		{"0 == false", g.NumberZero, g.False, true},
		{"\"\" == 0", g.StringEmpty, g.NumberZero, true},
		{"\"1\" == 1", &Primitive{Tag: TagString, Str: "1"}, g.NumberOne, true},
		{"null != 0", g.Null, g.NumberZero, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AbstractEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("AbstractEquals(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestStrictEquals(t *testing.T) {
	g := NewGlobals()
	obj := NewObject(nil)
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same number", g.NumberOne, &Primitive{Tag: TagNumber, Num: 1}, true},
		{"number vs string not equal", g.NumberZero, g.StringEmpty, false},
		{"identical object", obj, obj, true},
		{"distinct objects", obj, NewObject(nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrictEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("StrictEquals(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestPropertyStoreDefineOwnPropertyRejectsRedefinitionWhenNonConfigurable(t *testing.T) {
	s := NewPropertyStore()
	if err := s.DefineOwnProperty("x", Descriptor{
		HasValue: true, Value: &Primitive{Tag: TagNumber, Num: 1},
		HasConfigurable: true, Configurable: false,
		HasWritable: true, Writable: true,
	}); err != nil {
		t.Fatalf("initial DefineOwnProperty returned error: %v", err)
	}

	if err := s.DefineOwnProperty("x", Descriptor{
		HasConfigurable: true, Configurable: true,
	}); err == nil {
		t.Fatal("expected an error redefining a non-configurable property's flags")
	}

	if err := s.DefineOwnProperty("x", Descriptor{
		HasValue: true, Value: &Primitive{Tag: TagNumber, Num: 2},
	}); err != nil {
		t.Errorf("expected value-only update of a writable, non-configurable property to succeed, got: %v", err)
	}
}

func TestPropertyStoreEnumerationOrder(t *testing.T) {
	s := NewPropertyStore()
	s.Put("b", &Primitive{Tag: TagNumber, Num: 2})
	s.Put("a", &Primitive{Tag: TagNumber, Num: 1})
	s.Put("c", &Primitive{Tag: TagNumber, Num: 3})

	got := s.OwnKeys()
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("OwnKeys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OwnKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetArrayLengthDeletesOutOfRangeIndices(t *testing.T) {
	arr := NewObject(nil)
	for i := 0; i < 5; i++ {
		arr.Properties.Put(itoaForTest(i), &Primitive{Tag: TagNumber, Num: float64(i)})
	}
	arr.Length = 5

	arr.SetArrayLength(2)

	if arr.Length != 2 {
		t.Fatalf("Length = %d, want 2", arr.Length)
	}
	for i := 0; i < 2; i++ {
		if !arr.Properties.HasOwn(itoaForTest(i)) {
			t.Errorf("expected index %d to survive truncation", i)
		}
	}
	for i := 2; i < 5; i++ {
		if arr.Properties.HasOwn(itoaForTest(i)) {
			t.Errorf("expected index %d to be deleted by SetArrayLength", i)
		}
	}
}

func itoaForTest(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "0"
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return string(buf)
}

func TestPrototypeChainLookup(t *testing.T) {
	ctor := NewObject(nil)
	proto := NewObject(nil)
	ctor.Properties.Put("prototype", proto)
	proto.Properties.Put("greet", &Primitive{Tag: TagString, Str: "hi"})

	instance := NewObject(ctor)

	v, _, ok := instance.Get("greet")
	if !ok {
		t.Fatal("expected instance.Get to find a property via the prototype chain")
	}
	if p, ok := v.(*Primitive); !ok || p.Str != "hi" {
		t.Errorf("got %v, want the prototype's \"hi\" string", v)
	}

	if instance.Prototype() != proto {
		t.Errorf("instance.Prototype() = %v, want %v", instance.Prototype(), proto)
	}
}

func TestScopeLookupAndDeclare(t *testing.T) {
	global := NewGlobalScope()
	global.Declare("x", &Primitive{Tag: TagNumber, Num: 1})

	fnScope := NewEnclosedScope(global, false)
	fnScope.Declare("y", &Primitive{Tag: TagNumber, Num: 2})

	if v, _, ok := fnScope.Lookup("x"); !ok {
		t.Error("expected fnScope to see the global x through its parent chain")
	} else if p := v.(*Primitive); p.Num != 1 {
		t.Errorf("x = %v, want 1", p.Num)
	}

	if !fnScope.Has("y") {
		t.Error("expected fnScope to have its own y")
	}
	if global.Has("y") {
		t.Error("expected global scope not to see a child scope's binding")
	}
	if fnScope.Has("z") {
		t.Error("expected an unbound name to report Has == false")
	}
}
