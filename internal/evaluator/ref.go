package evaluator

import "github.com/cwbudde/go-jsi/internal/value"

// Ref is the dedicated reference sum type modeling an assignable
// location: Ref = Name(String) | Member(ObjIx, String). A Ref
// denotes an assignment target, a delete target, a typeof target, or a
// for-in binding target — never a value itself.
type Ref struct {
	IsName bool
	Name   string // valid iff IsName

	Obj  *value.Object // valid iff !IsName
	Prop string
}

func NameRef(name string) Ref             { return Ref{IsName: true, Name: name} }
func MemberRef(obj *value.Object, prop string) Ref { return Ref{Obj: obj, Prop: prop} }

// GetValue performs a scope-chain lookup (for a Name ref) or a property
// read with prototype-chain + getter dispatch (for a Member ref). When the
// resolved value is a getter, GetValue returns it with isGetter=true; the
// caller (an AssignmentExpression, UpdateExpression, or plain expression
// evaluation) is responsible for invoking it (via callSync) and must not
// treat the *value.Object it receives as the final value.
func (e *Evaluator) GetValue(ref Ref) (v value.Value, isGetter bool, err *ThrownError) {
	if ref.IsName {
		val, owner, ok := e.currentScope().Lookup(ref.Name)
		if !ok {
			return nil, false, e.NewError(e.Globals.ReferenceError, ref.Name+" is not defined")
		}
		if owner != nil {
			if g, gok := owner.Properties.Getter(ref.Name); gok {
				return wrapGetter(g), true, nil
			}
		}
		return val, false, nil
	}
	val, getterObj, found := ref.Obj.Get(ref.Prop)
	if !found {
		return e.Globals.Undefined, false, nil
	}
	if getterObj != nil {
		return wrapGetter(getterObj), true, nil
	}
	return val, false, nil
}

func wrapGetter(fn *value.Object) value.Value { return fn }

// SetValue performs a scope-chain assignment (Name ref) or a property
// write with prototype-chain setter dispatch (Member ref). It returns a
// non-nil setter function when one was found and must be invoked by the
// caller as a synthesized call instead of the value having been stored
// directly.
func (e *Evaluator) SetValue(ref Ref, v value.Value, strict bool) (setter *value.Object, err *ThrownError) {
	if ref.IsName {
		scope := e.currentScope()
		if _, owner, ok := scope.Lookup(ref.Name); ok {
			if s := owner.FindSetter(ref.Name); s != nil {
				return s, nil
			}
			if strict && owner.Properties.HasOwn(ref.Name) && !owner.Properties.Writable(ref.Name) {
				return nil, e.NewError(e.Globals.TypeError, "cannot assign to read-only property '"+ref.Name+"'")
			}
			owner.Properties.PutChecked(ref.Name, v)
			return nil, nil
		}
		if strict {
			return nil, e.NewError(e.Globals.ReferenceError, ref.Name+" is not defined")
		}
		scope.Global().Declare(ref.Name, v)
		return nil, nil
	}
	if s := ref.Obj.FindSetter(ref.Prop); s != nil {
		return s, nil
	}
	if strict && ref.Obj.Properties.HasOwn(ref.Prop) && !ref.Obj.Properties.Writable(ref.Prop) {
		return nil, e.NewError(e.Globals.TypeError, "cannot assign to read-only property '"+ref.Prop+"'")
	}
	assignProperty(ref.Obj, ref.Prop, v)
	return nil, nil
}

// assignProperty is the ordinary-assignment algorithm used by both
// SetValue and compound-assignment/update expressions: it honours the
// Array length-growth magic but otherwise performs a plain
// PutChecked.
func assignProperty(obj *value.Object, prop string, v value.Value) {
	if obj.IsArray {
		if prop == "length" {
			if p, ok := v.(*value.Primitive); ok {
				obj.SetArrayLength(uint32(p.Num))
				return
			}
		}
		if idx, ok := value.ArrayIndex(prop); ok {
			obj.GrowArrayForIndex(idx)
		}
	}
	obj.Properties.PutChecked(prop, v)
}
