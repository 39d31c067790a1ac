package value

// PropertyStore is an object's own-property map: a name -> value map plus
// three per-key flag sets and two per-key accessor maps. Presence in a
// flag set means the flag is *set*; a newly
// assigned property (via ordinary assignment) has none of the flags set,
// while a property installed by DefineProperty defaults to all three set
// unless the descriptor says otherwise.
type PropertyStore struct {
	order           []string // insertion order, for enumeration and for-in
	properties      map[string]Value
	notConfigurable map[string]bool
	notEnumerable   map[string]bool
	notWritable     map[string]bool
	getter          map[string]*Object
	setter          map[string]*Object
}

func NewPropertyStore() *PropertyStore {
	return &PropertyStore{
		properties:      make(map[string]Value),
		notConfigurable: make(map[string]bool),
		notEnumerable:   make(map[string]bool),
		notWritable:     make(map[string]bool),
		getter:          make(map[string]*Object),
		setter:          make(map[string]*Object),
	}
}

// HasOwn reports whether name is an own property, accessor or not.
func (s *PropertyStore) HasOwn(name string) bool {
	if _, ok := s.properties[name]; ok {
		return true
	}
	_, hasGet := s.getter[name]
	_, hasSet := s.setter[name]
	return hasGet || hasSet
}

// GetOwn returns the raw stored value for a data property. It does not
// dispatch getters; callers that need getter dispatch use Getter/Setter
// below and invoke them through the evaluator.
func (s *PropertyStore) GetOwn(name string) (Value, bool) {
	v, ok := s.properties[name]
	return v, ok
}

func (s *PropertyStore) Getter(name string) (*Object, bool) {
	g, ok := s.getter[name]
	return g, ok
}

func (s *PropertyStore) Setter(name string) (*Object, bool) {
	s2, ok := s.setter[name]
	return s2, ok
}

func (s *PropertyStore) IsAccessor(name string) bool {
	_, hasGet := s.getter[name]
	_, hasSet := s.setter[name]
	return hasGet || hasSet
}

func (s *PropertyStore) Configurable(name string) bool { return !s.notConfigurable[name] }
func (s *PropertyStore) Enumerable(name string) bool   { return !s.notEnumerable[name] }
func (s *PropertyStore) Writable(name string) bool      { return !s.notWritable[name] }

func (s *PropertyStore) track(name string) {
	if !s.hasOrdered(name) {
		s.order = append(s.order, name)
	}
}

func (s *PropertyStore) hasOrdered(name string) bool {
	// order is small per object in practice; a linear scan avoids a
	// second map purely for membership tracking.
	for _, n := range s.order {
		if n == name {
			return true
		}
	}
	return false
}

// Put performs an ordinary assignment: sets the raw value and clears all
// three flags. It does not check Writable/Configurable — callers
// that must respect those call PutChecked.
func (s *PropertyStore) Put(name string, v Value) {
	s.properties[name] = v
	delete(s.notConfigurable, name)
	delete(s.notEnumerable, name)
	delete(s.notWritable, name)
	delete(s.getter, name)
	delete(s.setter, name)
	s.track(name)
}

// PutChecked assigns through existing flags: if the property exists and is
// non-writable, the assignment is silently ignored (ES5 non-strict
// semantics); strict mode is enforced by the evaluator, which checks
// Writable itself before calling PutChecked when in strict mode.
func (s *PropertyStore) PutChecked(name string, v Value) {
	if existing, ok := s.properties[name]; ok {
		_ = existing
		if s.notWritable[name] {
			return
		}
		s.properties[name] = v
		return
	}
	s.Put(name, v)
}

// Descriptor mirrors the subset of an ES5 property descriptor this
// interpreter supports.
type Descriptor struct {
	Value        Value
	Get          *Object
	Set          *Object
	HasValue     bool
	HasGet       bool
	HasSet       bool
	Writable     bool
	Enumerable   bool
	Configurable bool
	HasWritable  bool
	HasEnumerable bool
	HasConfigurable bool
}

// DefineOwnProperty implements Object.defineProperty's own-property
// algorithm. Absent fields in the descriptor keep (for an existing
// property) or default to ES5's own default: non-configurable,
// non-enumerable, non-writable for a brand new property.
func (s *PropertyStore) DefineOwnProperty(name string, d Descriptor) error {
	existed := s.HasOwn(name)
	if existed && !s.Configurable(name) {
		// A non-configurable property may still have its value changed if
		// it is writable and the descriptor only touches Value; anything
		// else (accessors, re-configuring flags) is rejected.
		if d.HasGet || d.HasSet || d.HasConfigurable || d.HasEnumerable {
			return errNonConfigurable(name)
		}
		if d.HasWritable && !s.Writable(name) {
			return errNonConfigurable(name)
		}
		if d.HasValue {
			if !s.Writable(name) {
				return errNonConfigurable(name)
			}
			s.properties[name] = d.Value
		}
		return nil
	}

	if d.HasGet || d.HasSet {
		s.properties[name] = nil
		if d.HasGet {
			s.getter[name] = d.Get
		}
		if d.HasSet {
			s.setter[name] = d.Set
		}
	} else {
		val := d.Value
		s.properties[name] = val
		delete(s.getter, name)
		delete(s.setter, name)
	}

	writable := d.HasWritable && d.Writable
	enumerable := d.HasEnumerable && d.Enumerable
	configurable := d.HasConfigurable && d.Configurable
	if existed {
		// Keep prior flags for anything the descriptor doesn't specify.
		if !d.HasWritable {
			writable = s.Writable(name)
		}
		if !d.HasEnumerable {
			enumerable = s.Enumerable(name)
		}
		if !d.HasConfigurable {
			configurable = s.Configurable(name)
		}
	}

	s.setFlag(s.notWritable, name, !writable)
	s.setFlag(s.notEnumerable, name, !enumerable)
	s.setFlag(s.notConfigurable, name, !configurable)
	s.track(name)
	return nil
}

func (s *PropertyStore) setFlag(m map[string]bool, name string, set bool) {
	if set {
		m[name] = true
	} else {
		delete(m, name)
	}
}

// Delete removes an own property if it is configurable; returns false
// (without deleting) if it is not.
func (s *PropertyStore) Delete(name string) bool {
	if !s.HasOwn(name) {
		return true
	}
	if !s.Configurable(name) {
		return false
	}
	delete(s.properties, name)
	delete(s.notConfigurable, name)
	delete(s.notEnumerable, name)
	delete(s.notWritable, name)
	delete(s.getter, name)
	delete(s.setter, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys returns own property names in insertion order.
func (s *PropertyStore) OwnKeys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// OwnEnumerableKeys returns own enumerable property names in insertion
// order, as consulted by for-in.
func (s *PropertyStore) OwnEnumerableKeys() []string {
	var out []string
	for _, n := range s.order {
		if s.Enumerable(n) {
			out = append(out, n)
		}
	}
	return out
}

// nonConfigurableErr is a plain Go error rather than a JS Error object;
// this keeps PropertyStore free of a dependency on the evaluator's
// error-kind enum.
type nonConfigurableErr struct{ name string }

func (e *nonConfigurableErr) Error() string {
	return "cannot redefine non-configurable property: " + e.name
}

func errNonConfigurable(name string) error { return &nonConfigurableErr{name: name} }
