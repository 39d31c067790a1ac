package value

// Scope is an ordinary Object used as a name->value binding map, plus a
// parent link and a strict-mode flag. Reusing Object means
// hoisted `var`/function bindings are literally own properties of the
// scope, and `with` can splice in an arbitrary target object's properties
// as bindings without a separate code path in the evaluator.
type Scope struct {
	Obj *Object
}

// NewGlobalScope creates the root scope. Its Obj.Parent is left nil and is
// set to OBJECT once the Object constructor is built.
func NewGlobalScope() *Scope {
	return &Scope{Obj: &Object{Properties: NewPropertyStore(), Class: "global"}}
}

// NewEnclosedScope creates a function-call scope (or Program/eval scope)
// whose parent is outer. strict is inherited unless overridden by the
// callee's own "use strict" directive, which the caller passes explicitly.
func NewEnclosedScope(outer *Scope, strict bool) *Scope {
	s := &Scope{Obj: &Object{Properties: NewPropertyStore(), Class: "scope"}}
	s.Obj.ParentScope = outer
	s.Obj.Strict = strict
	return s
}

// NewSpecialScope creates a with/catch scope: it does not re-hoist
// declarations, and (for `with`) exposes target's properties as bindings.
func NewSpecialScope(outer *Scope, target *Object) *Scope {
	s := NewEnclosedScope(outer, outer.Obj.Strict)
	s.Obj.IsSpecialScope = true
	s.Obj.WithTarget = target
	return s
}

func (s *Scope) Parent() *Scope { return s.Obj.ParentScope }
func (s *Scope) Strict() bool   { return s.Obj.Strict }

// Declare hoists a binding into this scope's own properties, used for
// `var` and function-declaration hoisting.
func (s *Scope) Declare(name string, v Value) {
	if s.Obj.WithTarget != nil {
		s.Obj.WithTarget.Properties.Put(name, v)
		return
	}
	s.Obj.Properties.Put(name, v)
}

// Lookup walks the scope chain for name, consulting a with-scope's target
// object instead of the scope's own bindings when present.
// Returns (value, owning-object-for-setValue, found).
func (s *Scope) Lookup(name string) (Value, *Object, bool) {
	for cur := s; cur != nil; cur = cur.Parent() {
		if cur.Obj.WithTarget != nil {
			if cur.Obj.WithTarget.HasProperty(name) {
				v, _, _ := cur.Obj.WithTarget.Get(name)
				return v, cur.Obj.WithTarget, true
			}
			continue
		}
		if v, ok := cur.Obj.Properties.GetOwn(name); ok {
			return v, cur.Obj, true
		}
		if cur.Obj.Properties.IsAccessor(name) {
			v, _, _ := cur.Obj.Get(name)
			return v, cur.Obj, true
		}
	}
	return nil, nil, false
}

// Has reports whether name is bound anywhere in the scope chain.
func (s *Scope) Has(name string) bool {
	_, _, ok := s.Lookup(name)
	return ok
}

// Global walks to the outermost scope.
func (s *Scope) Global() *Scope {
	cur := s
	for cur.Parent() != nil {
		cur = cur.Parent()
	}
	return cur
}
