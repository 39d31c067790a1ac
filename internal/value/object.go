package value

// NewObject creates a plain object whose constructor
// is parent. parent may be nil only while bootstrapping OBJECT itself.
func NewObject(parent *Object) *Object {
	return &Object{
		Properties: NewPropertyStore(),
		Parent:     parent,
		Class:      "Object",
	}
}

// Prototype returns obj's prototype: one indirection through its
// constructor's own "prototype" property. Returns nil if
// obj has no constructor or the constructor has no prototype property.
func (o *Object) Prototype() *Object {
	if o.Parent == nil {
		return nil
	}
	v, ok := o.Parent.Properties.GetOwn("prototype")
	if !ok {
		return nil
	}
	proto, _ := v.(*Object)
	return proto
}

// Get walks the prototype chain looking for name, returning the raw value
// (if a data property) or the getter function (with isGetter semantics
// left to the caller — see evaluator.GetValue, which is the only caller
// that must special-case accessors). ok is false if name is nowhere on
// the chain.
func (o *Object) Get(name string) (Value, *Object /*getter*/, bool) {
	for cur := o; cur != nil; cur = cur.Prototype() {
		if g, ok := cur.Properties.Getter(name); ok {
			return nil, g, true
		}
		if v, ok := cur.Properties.GetOwn(name); ok {
			return v, nil, true
		}
		if cur.Properties.IsAccessor(name) {
			// a setter-only accessor with no getter yields undefined
			return nil, nil, true
		}
	}
	return nil, nil, false
}

// FindSetter walks the chain looking for a setter for name, returning nil
// if none is found (including when the chain only has a plain data
// property, which the caller should just overwrite with Put/PutChecked on
// the receiver).
func (o *Object) FindSetter(name string) *Object {
	for cur := o; cur != nil; cur = cur.Prototype() {
		if s, ok := cur.Properties.Setter(name); ok {
			return s
		}
		if cur.Properties.HasOwn(name) && !cur.Properties.IsAccessor(name) {
			return nil
		}
	}
	return nil
}

// HasProperty implements the `in` operator and instanceof-adjacent checks:
// true if name is found anywhere on the prototype chain.
func (o *Object) HasProperty(name string) bool {
	for cur := o; cur != nil; cur = cur.Prototype() {
		if cur.Properties.HasOwn(name) {
			return true
		}
	}
	return false
}

// IsCallable reports whether this object is a function.
func (o *Object) IsCallable() bool { return o.Func != nil }

// SetArrayLength updates an Array's Length, deleting any own integer-named
// property whose index is now >= the new length.
func (o *Object) SetArrayLength(newLen uint32) {
	old := o.Length
	o.Length = newLen
	if newLen >= old {
		return
	}
	for _, key := range o.Properties.OwnKeys() {
		idx, ok := ArrayIndex(key)
		if ok && idx >= newLen {
			o.Properties.Delete(key)
		}
	}
}

// GrowArrayForIndex raises Length to idx+1 if a write to index idx would
// otherwise exceed the current length.
func (o *Object) GrowArrayForIndex(idx uint32) {
	if idx+1 > o.Length {
		o.Length = idx + 1
	}
}

// ArrayIndex reports whether key is a canonical non-negative-integer array
// index string ("0", "1", "2", ... — not "01" or "-1"), and its value.
func ArrayIndex(key string) (uint32, bool) {
	if key == "" {
		return 0, false
	}
	if key == "0" {
		return 0, true
	}
	if key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
		if n > 0xFFFFFFFE {
			return 0, false
		}
	}
	return uint32(n), true
}
