package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/go-jsi/internal/builtins"
	"github.com/cwbudde/go-jsi/internal/value"
	"github.com/cwbudde/go-jsi/pkg/estree"
)

// ---------------- literals / identifiers ----------------

func (e *Evaluator) literalValue(n *estree.Literal) value.Value {
	switch n.LiteralKind {
	case "number":
		return e.Globals.CreatePrimitive(n.Number)
	case "string":
		return e.Globals.CreatePrimitive(n.String)
	case "boolean":
		return e.Globals.Bool(n.Boolean)
	case "null":
		return e.Globals.Null
	case "regexp":
		return e.makeRegExp(n.RegexPattern, n.RegexFlags)
	}
	return e.Globals.Undefined
}

type regexPayload struct{ Pattern, Flags string }

func (e *Evaluator) makeRegExp(pattern, flags string) *value.Object {
	obj := value.NewObject(e.Globals.RegExp)
	obj.Class = "RegExp"
	obj.Payload = regexPayload{Pattern: pattern, Flags: flags}
	obj.Properties.Put("source", e.Globals.Str(pattern))
	obj.Properties.Put("global", e.Globals.Bool(strings.Contains(flags, "g")))
	obj.Properties.Put("ignoreCase", e.Globals.Bool(strings.Contains(flags, "i")))
	obj.Properties.Put("multiline", e.Globals.Bool(strings.Contains(flags, "m")))
	obj.Properties.Put("lastIndex", e.Globals.Num(0))
	return obj
}

func (e *Evaluator) stepIdentifier(fr *Frame, n *estree.Identifier) {
	if fr.Components {
		e.popAndYieldRef(NameRef(n.Name))
		return
	}
	v, isGetter, terr := e.GetValue(NameRef(n.Name))
	if terr != nil {
		e.Throw(terr.Val)
		return
	}
	if isGetter {
		res, err := e.callSync(v.(*value.Object), e.Globals.Undefined, nil)
		if err != nil {
			e.ThrowKind(e.Globals.TypeError, "%s", err.Error())
			return
		}
		e.popAndYield(res)
		return
	}
	e.popAndYield(v)
}

// ---------------- simple statements ----------------

func (e *Evaluator) stepExpressionStatement(fr *Frame, n *estree.ExpressionStatement) {
	if fr.State == nil {
		fr.State = true
		e.push(&Frame{Node: n.Expression})
		return
	}
	e.popAndYield(fr.Value)
}

type varDeclState struct {
	i          int
	evaluating bool
}

func (e *Evaluator) stepVariableDeclaration(fr *Frame, n *estree.VariableDeclaration) {
	st, _ := fr.State.(*varDeclState)
	if st == nil {
		st = &varDeclState{}
		fr.State = st
	}
	for st.i < len(n.Declarations) {
		d := n.Declarations[st.i]
		if d.Init == nil {
			st.i++
			continue
		}
		if !st.evaluating {
			st.evaluating = true
			e.push(&Frame{Node: d.Init})
			return
		}
		st.evaluating = false
		e.currentScope().Declare(d.ID.Name, fr.Value)
		fr.Value = nil
		st.i++
	}
	e.popAndYield(e.Globals.Undefined)
}

type ifState struct{ testDone bool }

func (e *Evaluator) stepIf(fr *Frame, n *estree.IfStatement) {
	st, _ := fr.State.(*ifState)
	if st == nil {
		st = &ifState{}
		fr.State = st
		e.push(&Frame{Node: n.Test})
		return
	}
	if !st.testDone {
		st.testDone = true
		cond := value.ToBoolean(fr.Value)
		fr.Value = nil
		if cond {
			e.push(&Frame{Node: n.Consequent})
		} else if n.Alternate != nil {
			e.push(&Frame{Node: n.Alternate})
		} else {
			e.popAndYield(e.Globals.Undefined)
		}
		return
	}
	e.popAndYield(fr.Value)
}

func (e *Evaluator) stepReturn(fr *Frame, n *estree.ReturnStatement) {
	if n.Argument == nil {
		e.doReturn(e.Globals.Undefined)
		return
	}
	if fr.State == nil {
		fr.State = true
		e.push(&Frame{Node: n.Argument})
		return
	}
	v := fr.Value
	fr.Value = nil
	e.doReturn(v)
}

func (e *Evaluator) stepThrow(fr *Frame, n *estree.ThrowStatement) {
	if fr.State == nil {
		fr.State = true
		e.push(&Frame{Node: n.Argument})
		return
	}
	v := fr.Value
	fr.Value = nil
	e.Throw(v)
}

func labelName(id *estree.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func (e *Evaluator) stepLabeled(fr *Frame, n *estree.LabeledStatement) {
	if fr.State == nil {
		fr.State = true
		e.push(&Frame{Node: n.Body, Label: n.Label.Name})
		return
	}
	e.popAndYield(fr.Value)
}

func (e *Evaluator) stepWith(fr *Frame, n *estree.WithStatement) {
	st, _ := fr.State.(*int)
	if st == nil {
		zero := 0
		fr.State = &zero
		e.push(&Frame{Node: n.Object})
		return
	}
	if *st == 0 {
		*st = 1
		obj := e.toObjectForMember(fr.Value)
		fr.Value = nil
		withScope := value.NewSpecialScope(e.currentScope(), obj)
		e.push(&Frame{Node: n.Body, Scope: withScope})
		return
	}
	e.popAndYield(fr.Value)
}

// ---------------- loops ----------------

const (
	forInit = iota
	forTest
	forCheckTest
	forBody
)

type forState struct{ phase int }

func (s *forState) markContinued() { s.phase = forTest }

func (e *Evaluator) stepFor(fr *Frame, n *estree.ForStatement) {
	st, _ := fr.State.(*forState)
	if st == nil {
		st = &forState{phase: forInit}
		fr.State = st
		fr.IsLoop = true
	}
	switch st.phase {
	case forInit:
		st.phase = forTest
		if n.Init != nil {
			e.push(&Frame{Node: n.Init})
			return
		}
	case forTest:
		if n.Test != nil {
			st.phase = forCheckTest
			e.push(&Frame{Node: n.Test})
			return
		}
		st.phase = forBody
		e.push(&Frame{Node: n.Body})
	case forCheckTest:
		ok := value.ToBoolean(fr.Value)
		fr.Value = nil
		if !ok {
			e.popAndYield(e.Globals.Undefined)
			return
		}
		st.phase = forBody
		e.push(&Frame{Node: n.Body})
	case forBody:
		fr.Value = nil
		st.phase = forTest
		if n.Update != nil {
			e.push(&Frame{Node: n.Update})
		}
	}
}

const (
	forInEvalRight = iota
	forInHaveRight
	forInBody
)

type forInState struct {
	phase int
	keys  []string
	idx   int
}

func (s *forInState) markContinued() { s.phase = forInHaveRight }

func (e *Evaluator) stepForIn(fr *Frame, n *estree.ForInStatement) {
	st, _ := fr.State.(*forInState)
	if st == nil {
		st = &forInState{}
		fr.State = st
		fr.IsLoop = true
		e.push(&Frame{Node: n.Right})
		return
	}
	if st.phase == forInEvalRight {
		obj, ok := fr.Value.(*value.Object)
		fr.Value = nil
		st.phase = forInHaveRight
		if ok {
			seen := map[string]bool{}
			for cur := obj; cur != nil; cur = cur.Prototype() {
				for _, k := range cur.Properties.OwnEnumerableKeys() {
					if !seen[k] {
						seen[k] = true
						st.keys = append(st.keys, k)
					}
				}
			}
		}
	}
	if st.phase == forInBody {
		fr.Value = nil
		st.phase = forInHaveRight
	}
	if st.idx >= len(st.keys) {
		e.popAndYield(e.Globals.Undefined)
		return
	}
	key := st.keys[st.idx]
	st.idx++
	if terr := e.bindForInTarget(n.Left, key); terr != nil {
		e.Throw(terr.Val)
		return
	}
	st.phase = forInBody
	e.push(&Frame{Node: n.Body})
}

func (e *Evaluator) bindForInTarget(left estree.Node, key string) *ThrownError {
	keyVal := e.Globals.CreatePrimitive(key)
	var name string
	switch l := left.(type) {
	case *estree.VariableDeclaration:
		name = l.Declarations[0].ID.Name
	case *estree.Identifier:
		name = l.Name
	default:
		return nil
	}
	_, err := e.SetValue(NameRef(name), keyVal, e.currentScope().Strict())
	return err
}

const (
	whileTest = iota
	whileCheck
	whileBody
)

type whileState struct{ phase int }

func (s *whileState) markContinued() { s.phase = whileTest }

func (e *Evaluator) stepWhile(fr *Frame, n *estree.WhileStatement) {
	st, _ := fr.State.(*whileState)
	if st == nil {
		st = &whileState{phase: whileTest}
		fr.State = st
		fr.IsLoop = true
	}
	switch st.phase {
	case whileTest:
		st.phase = whileCheck
		e.push(&Frame{Node: n.Test})
	case whileCheck:
		cond := value.ToBoolean(fr.Value)
		fr.Value = nil
		if !cond {
			e.popAndYield(e.Globals.Undefined)
			return
		}
		st.phase = whileBody
		e.push(&Frame{Node: n.Body})
	case whileBody:
		fr.Value = nil
		st.phase = whileTest
	}
}

const (
	doBody = iota
	doTest
)

type doWhileState struct{ phase int }

func (s *doWhileState) markContinued() { s.phase = doTest }

func (e *Evaluator) stepDoWhile(fr *Frame, n *estree.DoWhileStatement) {
	st, _ := fr.State.(*doWhileState)
	if st == nil {
		st = &doWhileState{phase: doBody}
		fr.State = st
		fr.IsLoop = true
		e.push(&Frame{Node: n.Body})
		return
	}
	switch st.phase {
	case doBody:
		fr.Value = nil
		st.phase = doTest
		e.push(&Frame{Node: n.Test})
	case doTest:
		cond := value.ToBoolean(fr.Value)
		fr.Value = nil
		if cond {
			st.phase = doBody
			e.push(&Frame{Node: n.Body})
		} else {
			e.popAndYield(e.Globals.Undefined)
		}
	}
}

// ---------------- switch ----------------

type switchState struct {
	discEvaluated bool
	discriminant  value.Value
	testIdx       int
	awaiting      bool
	matchIdx      int
	defaultIdx    int
	running       bool
	runIdx        int
	flat          []estree.Node
}

func (e *Evaluator) stepSwitch(fr *Frame, n *estree.SwitchStatement) {
	st, _ := fr.State.(*switchState)
	if st == nil {
		st = &switchState{matchIdx: -1, defaultIdx: -1}
		fr.State = st
		fr.IsSwitch = true
		e.push(&Frame{Node: n.Discriminant})
		return
	}
	if !st.discEvaluated {
		st.discEvaluated = true
		st.discriminant = fr.Value
		fr.Value = nil
	}
	if st.matchIdx < 0 && st.testIdx < len(n.Cases) {
		c := n.Cases[st.testIdx]
		if c.Test == nil {
			st.defaultIdx = st.testIdx
			st.testIdx++
			return
		}
		if !st.awaiting {
			st.awaiting = true
			e.push(&Frame{Node: c.Test})
			return
		}
		st.awaiting = false
		if value.StrictEquals(st.discriminant, fr.Value) {
			st.matchIdx = st.testIdx
		}
		fr.Value = nil
		st.testIdx++
		return
	}
	if !st.running {
		st.running = true
		start := st.matchIdx
		if start < 0 {
			start = st.defaultIdx
		}
		if start < 0 {
			e.popAndYield(e.Globals.Undefined)
			return
		}
		for i := start; i < len(n.Cases); i++ {
			st.flat = append(st.flat, n.Cases[i].Consequent...)
		}
	}
	if st.runIdx >= len(st.flat) {
		e.popAndYield(e.Globals.Undefined)
		return
	}
	stmt := st.flat[st.runIdx]
	st.runIdx++
	e.push(&Frame{Node: stmt})
}

// ---------------- try/catch/finally ----------------

const (
	phaseBlock = iota
	phaseCatch
	phaseFinally
)

type tryState struct {
	phase   int
	pending Signal
}

func (e *Evaluator) stepTry(fr *Frame, n *estree.TryStatement) {
	st, _ := fr.State.(*tryState)
	if st == nil {
		st = &tryState{phase: phaseBlock}
		fr.State = st
		e.push(&Frame{Node: n.Block, State: &blockState{}})
		return
	}
	switch st.phase {
	case phaseBlock, phaseCatch:
		fr.Value = nil
		if n.Finalizer != nil {
			st.phase = phaseFinally
			e.push(&Frame{Node: n.Finalizer, State: &blockState{}})
			return
		}
		e.popAndYield(e.Globals.Undefined)
	case phaseFinally:
		fr.Value = nil
		if st.pending.active() {
			pending := st.pending
			st.pending = Signal{}
			e.pop()
			e.signal = pending
			return
		}
		e.popAndYield(e.Globals.Undefined)
	}
}

// ---------------- array / object literals ----------------

type arrState struct {
	arr      *value.Object
	i        int
	awaiting bool
}

func (e *Evaluator) stepArrayLiteral(fr *Frame, n *estree.ArrayExpression) {
	st, _ := fr.State.(*arrState)
	if st == nil {
		arr := value.NewObject(e.Globals.Array)
		arr.IsArray = true
		arr.Class = "Array"
		st = &arrState{arr: arr}
		fr.State = st
	} else if st.awaiting {
		st.awaiting = false
		st.arr.Properties.Put(strconv.Itoa(st.i), fr.Value)
		st.arr.GrowArrayForIndex(uint32(st.i))
		fr.Value = nil
		st.i++
	}
	for st.i < len(n.Elements) {
		if n.Elements[st.i] == nil {
			st.arr.GrowArrayForIndex(uint32(st.i))
			st.i++
			continue
		}
		st.awaiting = true
		e.push(&Frame{Node: n.Elements[st.i]})
		return
	}
	e.popAndYield(st.arr)
}

type objState struct {
	obj         *value.Object
	i           int
	awaitingVal bool
	pendingName string
}

func propKeyName(k estree.Node) string {
	switch v := k.(type) {
	case *estree.Identifier:
		return v.Name
	case *estree.Literal:
		if v.LiteralKind == "string" {
			return v.String
		}
		return value.FormatNumber(v.Number)
	}
	return ""
}

func (e *Evaluator) stepObjectLiteral(fr *Frame, n *estree.ObjectExpression) {
	st, _ := fr.State.(*objState)
	if st == nil {
		st = &objState{obj: value.NewObject(e.Globals.Object)}
		fr.State = st
	}
	if st.awaitingVal {
		st.awaitingVal = false
		val := fr.Value
		fr.Value = nil
		prop := n.Properties[st.i]
		switch prop.PropKind {
		case "get":
			fnObj, _ := val.(*value.Object)
			st.obj.Properties.DefineOwnProperty(st.pendingName, value.Descriptor{
				Get: fnObj, HasGet: true, Enumerable: true, HasEnumerable: true,
				Configurable: true, HasConfigurable: true,
			})
		case "set":
			fnObj, _ := val.(*value.Object)
			st.obj.Properties.DefineOwnProperty(st.pendingName, value.Descriptor{
				Set: fnObj, HasSet: true, Enumerable: true, HasEnumerable: true,
				Configurable: true, HasConfigurable: true,
			})
		default:
			st.obj.Properties.Put(st.pendingName, val)
		}
		st.i++
	}
	if st.i >= len(n.Properties) {
		e.popAndYield(st.obj)
		return
	}
	prop := n.Properties[st.i]
	st.pendingName = propKeyName(prop.Key)
	st.awaitingVal = true
	e.push(&Frame{Node: prop.Value})
}

type seqState struct{ i int }

func (e *Evaluator) stepSequence(fr *Frame, n *estree.SequenceExpression) {
	st, _ := fr.State.(*seqState)
	if st == nil {
		st = &seqState{}
		fr.State = st
	}
	if st.i >= len(n.Expressions) {
		e.popAndYield(fr.Value)
		return
	}
	expr := n.Expressions[st.i]
	st.i++
	e.push(&Frame{Node: expr})
}

// ---------------- unary / update ----------------

func (e *Evaluator) stepUnary(fr *Frame, n *estree.UnaryExpression) {
	if n.Operator == "typeof" {
		if id, ok := n.Argument.(*estree.Identifier); ok {
			if fr.State == nil {
				fr.State = true
				if !e.currentScope().Has(id.Name) {
					e.popAndYield(e.Globals.Str("undefined"))
					return
				}
				e.push(&Frame{Node: n.Argument})
				return
			}
			e.popAndYield(e.Globals.Str(fr.Value.TypeOf()))
			return
		}
	}
	if n.Operator == "delete" {
		if fr.State == nil {
			fr.State = true
			if mem, ok := n.Argument.(*estree.MemberExpression); ok {
				e.push(&Frame{Node: mem, Components: true})
				return
			}
			e.popAndYield(e.Globals.True)
			return
		}
		ref := fr.RefValue
		fr.HasRef = false
		ok := true
		if !ref.IsName && ref.Obj != nil {
			ok = ref.Obj.Properties.Delete(ref.Prop)
		}
		e.popAndYield(e.Globals.Bool(ok))
		return
	}
	if fr.State == nil {
		fr.State = true
		e.push(&Frame{Node: n.Argument})
		return
	}
	v := fr.Value
	fr.Value = nil
	switch n.Operator {
	case "void":
		e.popAndYield(e.Globals.Undefined)
	case "!":
		e.popAndYield(e.Globals.Bool(!value.ToBoolean(v)))
	case "typeof":
		e.popAndYield(e.Globals.Str(v.TypeOf()))
	case "-":
		num, err := value.ToNumber(v, e.ToPrimitive)
		if err != nil {
			e.Throw(e.wrapErr(err).Val)
			return
		}
		e.popAndYield(e.Globals.Num(-num))
	case "+":
		num, err := value.ToNumber(v, e.ToPrimitive)
		if err != nil {
			e.Throw(e.wrapErr(err).Val)
			return
		}
		e.popAndYield(e.Globals.Num(num))
	case "~":
		num, err := value.ToNumber(v, e.ToPrimitive)
		if err != nil {
			e.Throw(e.wrapErr(err).Val)
			return
		}
		e.popAndYield(e.Globals.Num(float64(^toInt32(num))))
	default:
		e.popAndYield(e.Globals.Undefined)
	}
}

type updateState struct {
	phase  int
	ref    Ref
	oldNum float64
}

func (e *Evaluator) stepUpdate(fr *Frame, n *estree.UpdateExpression) {
	st, _ := fr.State.(*updateState)
	if st == nil {
		st = &updateState{}
		fr.State = st
		e.push(&Frame{Node: n.Argument, Components: true})
		return
	}
	switch st.phase {
	case 0:
		st.ref = fr.RefValue
		fr.HasRef = false
		v, isGetter, terr := e.GetValue(st.ref)
		if terr != nil {
			e.Throw(terr.Val)
			return
		}
		if isGetter {
			res, err := e.callSync(v.(*value.Object), e.refThis(st.ref), nil)
			if err != nil {
				e.ThrowKind(e.Globals.TypeError, "%s", err.Error())
				return
			}
			v = res
		}
		num, err := value.ToNumber(v, e.ToPrimitive)
		if err != nil {
			e.Throw(e.wrapErr(err).Val)
			return
		}
		st.oldNum = num
		newNum := num + 1
		if n.Operator == "--" {
			newNum = num - 1
		}
		setter, terr2 := e.SetValue(st.ref, e.Globals.Num(newNum), e.currentScope().Strict())
		if terr2 != nil {
			e.Throw(terr2.Val)
			return
		}
		if setter != nil {
			st.phase = 1
			e.pushInvoke(setter, e.refThis(st.ref), []value.Value{e.Globals.Num(newNum)}, false, nil)
			return
		}
		if n.Prefix {
			e.popAndYield(e.Globals.Num(newNum))
		} else {
			e.popAndYield(e.Globals.Num(st.oldNum))
		}
	case 1:
		if n.Prefix {
			newNum := st.oldNum + 1
			if n.Operator == "--" {
				newNum = st.oldNum - 1
			}
			e.popAndYield(e.Globals.Num(newNum))
		} else {
			e.popAndYield(e.Globals.Num(st.oldNum))
		}
	}
}

// ---------------- binary / logical / conditional ----------------

type binState struct {
	phase int
	left  value.Value
}

func (e *Evaluator) stepBinary(fr *Frame, n *estree.BinaryExpression) {
	st, _ := fr.State.(*binState)
	if st == nil {
		st = &binState{}
		fr.State = st
		e.push(&Frame{Node: n.Left})
		return
	}
	if st.phase == 0 {
		st.left = fr.Value
		fr.Value = nil
		st.phase = 1
		e.push(&Frame{Node: n.Right})
		return
	}
	right := fr.Value
	fr.Value = nil
	res, terr := e.binaryOp(n.Operator, st.left, right)
	if terr != nil {
		e.Throw(terr.Val)
		return
	}
	e.popAndYield(res)
}

type logicalState int

const (
	logicalLeft logicalState = iota
	logicalRight
)

func (e *Evaluator) stepLogical(fr *Frame, n *estree.LogicalExpression) {
	st, _ := fr.State.(*logicalState)
	if st == nil {
		ls := logicalLeft
		fr.State = &ls
		e.push(&Frame{Node: n.Left})
		return
	}
	if *st == logicalRight {
		e.popAndYield(fr.Value)
		return
	}
	left := fr.Value
	fr.Value = nil
	b := value.ToBoolean(left)
	if (n.Operator == "&&" && !b) || (n.Operator == "||" && b) {
		e.popAndYield(left)
		return
	}
	*st = logicalRight
	e.push(&Frame{Node: n.Right})
}

func (e *Evaluator) stepConditional(fr *Frame, n *estree.ConditionalExpression) {
	st, _ := fr.State.(*int)
	if st == nil {
		zero := 0
		fr.State = &zero
		e.push(&Frame{Node: n.Test})
		return
	}
	if *st == 0 {
		*st = 1
		cond := value.ToBoolean(fr.Value)
		fr.Value = nil
		if cond {
			e.push(&Frame{Node: n.Consequent})
		} else {
			e.push(&Frame{Node: n.Alternate})
		}
		return
	}
	e.popAndYield(fr.Value)
}

// ---------------- assignment ----------------

const (
	assignPhaseRef = iota
	assignPhaseRight
	assignPhaseInvokeSetter
)

type assignState struct {
	phase    int
	ref      Ref
	oldVal   value.Value
	rightVal value.Value
}

func (e *Evaluator) stepAssignment(fr *Frame, n *estree.AssignmentExpression) {
	st, _ := fr.State.(*assignState)
	if st == nil {
		st = &assignState{}
		fr.State = st
		e.push(&Frame{Node: n.Left, Components: true})
		return
	}
	switch st.phase {
	case assignPhaseRef:
		st.ref = fr.RefValue
		fr.HasRef = false
		st.phase = assignPhaseRight
		if n.Operator != "=" {
			v, isGetter, terr := e.GetValue(st.ref)
			if terr != nil {
				e.Throw(terr.Val)
				return
			}
			if isGetter {
				res, err := e.callSync(v.(*value.Object), e.refThis(st.ref), nil)
				if err != nil {
					e.ThrowKind(e.Globals.TypeError, "%s", err.Error())
					return
				}
				v = res
			}
			st.oldVal = v
		}
		e.push(&Frame{Node: n.Right})
		return
	case assignPhaseRight:
		right := fr.Value
		fr.Value = nil
		final := right
		if n.Operator != "=" {
			combined, terr := e.applyCompoundOp(n.Operator, st.oldVal, right)
			if terr != nil {
				e.Throw(terr.Val)
				return
			}
			final = combined
		}
		st.rightVal = final
		setter, terr := e.SetValue(st.ref, final, e.currentScope().Strict())
		if terr != nil {
			e.Throw(terr.Val)
			return
		}
		if setter != nil {
			st.phase = assignPhaseInvokeSetter
			e.pushInvoke(setter, e.refThis(st.ref), []value.Value{final}, false, nil)
			return
		}
		e.popAndYield(final)
	case assignPhaseInvokeSetter:
		e.popAndYield(st.rightVal)
	}
}

func (e *Evaluator) refThis(ref Ref) value.Value {
	if ref.IsName {
		return e.Globals.Undefined
	}
	return ref.Obj
}

func (e *Evaluator) applyCompoundOp(op string, l, r value.Value) (value.Value, *ThrownError) {
	base := op[:len(op)-1]
	return e.binaryOp(base, l, r)
}

// ---------------- member access ----------------

const (
	memberPhaseObj = iota
	memberPhaseProp
)

type memberState struct {
	phase int
	obj   value.Value
}

func describeValue(v value.Value) string {
	if v == nil {
		return "undefined"
	}
	if p, ok := v.(*value.Primitive); ok {
		return p.String()
	}
	return "object"
}

func (e *Evaluator) stepMember(fr *Frame, n *estree.MemberExpression) {
	st, _ := fr.State.(*memberState)
	if st == nil {
		st = &memberState{}
		fr.State = st
		e.push(&Frame{Node: n.Object})
		return
	}
	if st.phase == memberPhaseObj {
		st.obj = fr.Value
		fr.Value = nil
		st.phase = memberPhaseProp
		if n.Computed {
			e.push(&Frame{Node: n.Property})
			return
		}
	}
	var propName string
	if n.Computed {
		propName = e.toPropertyKey(fr.Value)
		fr.Value = nil
	} else {
		propName = n.Property.(*estree.Identifier).Name
	}

	if !fr.Components {
		if sp, ok := st.obj.(*value.Primitive); ok && sp.Tag == value.TagString {
			if propName == "length" {
				e.popAndYield(e.Globals.Num(float64(len([]rune(sp.Str)))))
				return
			}
			if idx, ok := value.ArrayIndex(propName); ok {
				runes := []rune(sp.Str)
				if int(idx) < len(runes) {
					e.popAndYield(e.Globals.Str(string(runes[idx])))
					return
				}
			}
		}
	}

	obj := e.toObjectForMember(st.obj)
	if obj == nil {
		e.ThrowKind(e.Globals.TypeError, "cannot read property '%s' of %s", propName, describeValue(st.obj))
		return
	}
	if fr.Components {
		e.popAndYieldRef(MemberRef(obj, propName))
		return
	}
	v, getterObj, found := obj.Get(propName)
	if !found {
		e.popAndYield(e.Globals.Undefined)
		return
	}
	if getterObj != nil {
		res, err := e.callSync(getterObj, obj, nil)
		if err != nil {
			e.ThrowKind(e.Globals.TypeError, "%s", err.Error())
			return
		}
		e.popAndYield(res)
		return
	}
	e.popAndYield(v)
}

func (e *Evaluator) toPropertyKey(v value.Value) string {
	s, err := value.ToStringValue(v, e.ToPrimitive)
	if err != nil {
		return ""
	}
	return s
}

func (e *Evaluator) toObjectForMember(v value.Value) *value.Object {
	switch p := v.(type) {
	case *value.Object:
		return p
	case *value.Primitive:
		switch p.Tag {
		case value.TagString:
			obj := value.NewObject(e.Globals.String)
			obj.Class = "String"
			obj.Payload = p.Str
			return obj
		case value.TagNumber:
			obj := value.NewObject(e.Globals.Number)
			obj.Class = "Number"
			obj.Payload = p.Num
			return obj
		case value.TagBoolean:
			obj := value.NewObject(e.Globals.Boolean)
			obj.Class = "Boolean"
			obj.Payload = p.Bool
			return obj
		}
	}
	return nil
}

// ---------------- call / new / function creation ----------------

func funcBody(n interface{}) *estree.BlockStatement {
	switch f := n.(type) {
	case *estree.FunctionDeclaration:
		return f.Body
	case *estree.FunctionExpression:
		return f.Body
	}
	return nil
}

func (e *Evaluator) makeFunction(node estree.Node, scope *value.Scope) *value.Object {
	var id *estree.Identifier
	var params []*estree.Identifier
	var strict bool
	switch f := node.(type) {
	case *estree.FunctionDeclaration:
		id, params, strict = f.ID, f.Params, f.Strict
	case *estree.FunctionExpression:
		id, params, strict = f.ID, f.Params, f.Strict
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	fnName := ""
	if id != nil {
		fnName = id.Name
	}
	fnObj := value.NewObject(e.Globals.Function)
	fnObj.Class = "Function"
	proto := value.NewObject(e.Globals.Object)
	proto.Properties.DefineOwnProperty("constructor", value.Descriptor{
		Value: fnObj, HasValue: true, Writable: true, HasWritable: true,
		Configurable: true, HasConfigurable: true,
	})
	fnObj.Properties.DefineOwnProperty("prototype", value.Descriptor{Value: proto, HasValue: true, Writable: true, HasWritable: true})
	fnObj.Properties.DefineOwnProperty("length", value.Descriptor{Value: e.Globals.Num(float64(len(names))), HasValue: true})
	fnObj.Properties.DefineOwnProperty("name", value.Descriptor{Value: e.Globals.Str(fnName), HasValue: true})
	fnObj.Func = &value.FuncData{
		Node:        node,
		ParentScope: scope,
		Name:        fnName,
		ParamNames:  names,
		Strict:      strict,
	}
	return fnObj
}

const (
	callPhaseCallee = iota
	callPhaseArgs
	callPhaseInvoke
	callPhaseDone
)

type callState struct {
	phase        int
	thisVal      value.Value
	fn           value.Value
	argIdx       int
	args         []value.Value
	memberCallee bool
}

func (e *Evaluator) stepCall(fr *Frame, n *estree.CallExpression) {
	st, _ := fr.State.(*callState)
	if st == nil {
		st = &callState{thisVal: e.Globals.Undefined}
		fr.State = st
		if mem, ok := n.Callee.(*estree.MemberExpression); ok {
			st.memberCallee = true
			e.push(&Frame{Node: mem, Components: true})
		} else {
			e.push(&Frame{Node: n.Callee})
		}
		return
	}

	switch st.phase {
	case callPhaseCallee:
		if st.memberCallee {
			ref := fr.RefValue
			fr.HasRef = false
			if ref.Obj == nil {
				e.ThrowKind(e.Globals.TypeError, "cannot call method of undefined")
				return
			}
			st.thisVal = ref.Obj
			v, isGetter, terr := e.GetValue(ref)
			if terr != nil {
				e.Throw(terr.Val)
				return
			}
			if isGetter {
				res, err := e.callSync(v.(*value.Object), ref.Obj, nil)
				if err != nil {
					e.ThrowKind(e.Globals.TypeError, "%s", err.Error())
					return
				}
				v = res
			}
			st.fn = v
		} else {
			st.fn = fr.Value
		}
		fr.Value = nil
		st.phase = callPhaseArgs
		return
	case callPhaseArgs:
		if st.argIdx > 0 {
			st.args = append(st.args, fr.Value)
			fr.Value = nil
		}
		if st.argIdx < len(n.Arguments) {
			e.push(&Frame{Node: n.Arguments[st.argIdx]})
			st.argIdx++
			return
		}
		st.phase = callPhaseInvoke
		return
	case callPhaseInvoke:
		fn, ok := st.fn.(*value.Object)
		if !ok || !fn.IsCallable() {
			e.ThrowKind(e.Globals.TypeError, "value is not a function")
			return
		}
		st.phase = callPhaseDone
		e.pushInvoke(fn, st.thisVal, st.args, false, nil)
		return
	case callPhaseDone:
		e.popAndYield(fr.Value)
	}
}

const (
	newPhaseCallee = iota
	newPhaseArgs
	newPhaseInvoke
	newPhaseDone
)

type newState struct {
	phase  int
	fn     value.Value
	argIdx int
	args   []value.Value
}

func (e *Evaluator) stepNew(fr *Frame, n *estree.NewExpression) {
	st, _ := fr.State.(*newState)
	if st == nil {
		st = &newState{}
		fr.State = st
		e.push(&Frame{Node: n.Callee})
		return
	}
	switch st.phase {
	case newPhaseCallee:
		st.fn = fr.Value
		fr.Value = nil
		st.phase = newPhaseArgs
	case newPhaseArgs:
		if st.argIdx > 0 {
			st.args = append(st.args, fr.Value)
			fr.Value = nil
		}
		if st.argIdx < len(n.Arguments) {
			e.push(&Frame{Node: n.Arguments[st.argIdx]})
			st.argIdx++
			return
		}
		st.phase = newPhaseInvoke
	case newPhaseInvoke:
		fn, ok := st.fn.(*value.Object)
		if !ok || !fn.IsCallable() {
			e.ThrowKind(e.Globals.TypeError, "value is not a constructor")
			return
		}
		st.phase = newPhaseDone
		e.pushInvoke(fn, nil, st.args, true, fn)
		return
	case newPhaseDone:
		e.popAndYield(fr.Value)
	}
}

// callMarker is a synthetic frame node (never produced by a parser) that
// represents a function invocation in progress: pushed by pushInvoke from
// CallExpression/NewExpression once the callee and arguments are ready, or
// directly by getter/setter dispatch and Function.prototype.call/apply.
type callMarker struct{ estree.Pos }

func (*callMarker) Kind() string { return "<call>" }

type invokeState struct {
	fn        *value.Object
	this      value.Value
	args      []value.Value
	isNew     bool
	newTarget *value.Object
	started   bool
	instance  *value.Object
}

func (st *invokeState) instanceFor(fn *value.Object) *value.Object {
	if st.instance == nil {
		st.instance = value.NewObject(fn)
	}
	return st.instance
}

func (e *Evaluator) pushInvoke(fn *value.Object, this value.Value, args []value.Value, isNew bool, newTarget *value.Object) {
	e.push(&Frame{Node: &callMarker{}, State: &invokeState{fn: fn, this: this, args: args, isNew: isNew, newTarget: newTarget}})
}

func (e *Evaluator) stepInvoke(fr *Frame) {
	st := fr.State.(*invokeState)
	if st.started {
		result := fr.Value
		if st.isNew {
			if _, isObj := result.(*value.Object); !isObj {
				result = st.instanceFor(st.fn)
			}
		}
		e.popAndYield(result)
		return
	}
	st.started = true
	fn := st.fn

	switch {
	case fn.Func.IsEval:
		v, err := e.runEval(st.args)
		if err != nil {
			if te, ok := err.(*ThrownError); ok {
				e.Throw(te.Val)
				return
			}
			e.ThrowKind(e.Globals.SyntaxError, "%s", err.Error())
			return
		}
		e.popAndYield(v)
	case fn.Func.BoundTarget != nil:
		target := fn.Func.BoundTarget
		allArgs := append(append([]value.Value{}, fn.Func.BoundArgs...), st.args...)
		this := fn.Func.BoundThis
		if st.isNew {
			this = st.this
		}
		st.started = false
		e.pop()
		e.pushInvoke(target, this, allArgs, st.isNew, st.newTarget)
	case fn.Func.Native != nil:
		this := st.this
		if st.isNew {
			this = st.instanceFor(fn)
		}
		res, err := fn.Func.Native(&value.Call{This: this, Args: st.args, IsNew: st.isNew, NewTarget: st.newTarget})
		if err != nil {
			if ctor, msg, ok := builtins.ErrorKind(err); ok {
				e.ThrowKind(ctor, "%s", msg)
				return
			}
			e.ThrowKind(e.Globals.TypeError, "%s", err.Error())
			return
		}
		if st.isNew {
			if _, isObj := res.(*value.Object); !isObj {
				res = this
			}
		}
		e.popAndYield(res)
	case fn.Func.Async != nil:
		this := st.this
		if st.isNew {
			this = st.instanceFor(fn)
		}
		e.Paused = true
		e.pendingFrame = fr
		fn.Func.Async(&value.Call{This: this, Args: st.args, IsNew: st.isNew, NewTarget: st.newTarget},
			func(v value.Value) { e.Resume(v, nil) },
			func(err error) { e.Resume(nil, e.NewError(e.Globals.TypeError, err.Error())) },
		)
	default:
		this := st.this
		if st.isNew {
			this = st.instanceFor(fn)
		}
		body := funcBody(fn.Func.Node)
		scope := value.NewEnclosedScope(fn.Func.ParentScope, fn.Func.Strict)
		e.bindParams(scope, fn.Func.ParamNames, st.args)
		e.bindArguments(scope, fn, st.args)
		if body == nil {
			e.popAndYield(e.Globals.Undefined)
			return
		}
		e.push(&Frame{Node: body, Scope: scope, This: this, IsCall: true, State: &blockState{}})
	}
}

func (e *Evaluator) bindParams(scope *value.Scope, names []string, args []value.Value) {
	for i, name := range names {
		if i < len(args) {
			scope.Declare(name, args[i])
		} else {
			scope.Declare(name, e.Globals.Undefined)
		}
	}
}

func (e *Evaluator) bindArguments(scope *value.Scope, fn *value.Object, args []value.Value) {
	argsObj := value.NewObject(e.Globals.Object)
	argsObj.Class = "Arguments"
	for i, a := range args {
		argsObj.Properties.Put(strconv.Itoa(i), a)
	}
	argsObj.Properties.Put("length", e.Globals.Num(float64(len(args))))
	if fn.Func != nil && !fn.Func.Strict {
		argsObj.Properties.Put("callee", fn)
	}
	scope.Declare("arguments", argsObj)
}

// callSync runs fn to completion on a fresh child Evaluator sharing this
// Evaluator's Globals, blocking the current Step call. Used for getter
// dispatch reached mid-expression, for ToPrimitive's valueOf/toString
// invocation, and (through Globals.Invoke, wired in New) for callbacks
// made by native built-ins — a pragmatic simplification (documented
// separately) rather than threading every such call through the step
// machine's own frame stack. Setters are invoked through pushInvoke.
func (e *Evaluator) callSync(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	child := New(e.Globals)
	child.pushInvoke(fn, this, args, false, nil)
	for !child.Done() {
		child.Step()
	}
	if child.HostError != nil {
		return nil, child.HostError
	}
	return child.TopLevelValue, nil
}

// runEval implements the `eval` builtin: a nested Evaluator sharing this
// Evaluator's Globals is loaded with the parsed argument source and run to
// completion synchronously in the caller's current scope — the same
// callSync-style simplification used for getter/setter dispatch, standing
// in for the fully steppable Eval_ frame a host-suspension-aware
// implementation would use. A non-string argument is ES5's identity case:
// eval(x) returns x unevaluated.
func (e *Evaluator) runEval(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return e.Globals.Undefined, nil
	}
	strArg, ok := args[0].(*value.Primitive)
	if !ok || strArg.Tag != value.TagString {
		return args[0], nil
	}
	if e.Globals.Parse == nil {
		return nil, &ThrownError{Val: e.newErrorObject(e.Globals.Error, "eval: no parser wired into this interpreter")}
	}
	parsed, err := e.Globals.Parse(strArg.Str)
	if err != nil {
		return nil, &ThrownError{Val: e.newErrorObject(e.Globals.SyntaxError, err.Error())}
	}
	prog, ok := parsed.(*estree.Program)
	if !ok {
		return nil, &ThrownError{Val: e.newErrorObject(e.Globals.Error, "eval: parser returned an unexpected node type")}
	}
	scope := e.currentScope()
	if scope == nil {
		scope = e.Globals.GlobalScope
	}
	child := New(e.Globals)
	child.LoadProgram(prog, scope, e.currentThis())
	for !child.Done() {
		child.Step()
	}
	if child.HostError != nil {
		if ue, ok := child.HostError.(*UncaughtError); ok {
			return nil, &ThrownError{Val: ue.Value}
		}
		return nil, &ThrownError{Val: e.newErrorObject(e.Globals.Error, child.HostError.Error())}
	}
	if child.TopLevelValue == nil {
		return e.Globals.Undefined, nil
	}
	return child.TopLevelValue, nil
}

// ---------------- hoisting ----------------

func (e *Evaluator) hoist(scope *value.Scope, body []estree.Node) {
	if scope == nil {
		return
	}
	for _, stmt := range body {
		e.hoistStmt(scope, stmt)
	}
}

func (e *Evaluator) hoistStmt(scope *value.Scope, n estree.Node) {
	switch s := n.(type) {
	case *estree.VariableDeclaration:
		for _, d := range s.Declarations {
			if !scope.Has(d.ID.Name) {
				scope.Declare(d.ID.Name, e.Globals.Undefined)
			}
		}
	case *estree.FunctionDeclaration:
		fn := e.makeFunction(s, scope)
		scope.Declare(s.ID.Name, fn)
	case *estree.BlockStatement:
		e.hoist(scope, s.Body)
	case *estree.IfStatement:
		e.hoistStmt(scope, s.Consequent)
		if s.Alternate != nil {
			e.hoistStmt(scope, s.Alternate)
		}
	case *estree.ForStatement:
		if s.Init != nil {
			e.hoistStmt(scope, s.Init)
		}
		e.hoistStmt(scope, s.Body)
	case *estree.ForInStatement:
		e.hoistStmt(scope, s.Left)
		e.hoistStmt(scope, s.Body)
	case *estree.WhileStatement:
		e.hoistStmt(scope, s.Body)
	case *estree.DoWhileStatement:
		e.hoistStmt(scope, s.Body)
	case *estree.TryStatement:
		e.hoist(scope, s.Block.Body)
		if s.Handler != nil {
			e.hoist(scope, s.Handler.Body.Body)
		}
		if s.Finalizer != nil {
			e.hoist(scope, s.Finalizer.Body)
		}
	case *estree.SwitchStatement:
		for _, c := range s.Cases {
			e.hoist(scope, c.Consequent)
		}
	case *estree.LabeledStatement:
		e.hoistStmt(scope, s.Body)
	case *estree.WithStatement:
		e.hoistStmt(scope, s.Body)
	}
}

// ---------------- abstract operators ----------------

func isStringVal(v value.Value) bool {
	p, ok := v.(*value.Primitive)
	return ok && p.Tag == value.TagString
}

func (e *Evaluator) wrapErr(err error) *ThrownError {
	if te, ok := err.(*ThrownError); ok {
		return te
	}
	return e.NewError(e.Globals.TypeError, err.Error())
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := int64(math.Trunc(f))
	return int32(uint32(n))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := int64(math.Trunc(f))
	return uint32(n)
}

// ToPrimitive implements ES5's [[DefaultValue]] (§8.12.8): hint "string"
// tries toString before valueOf, anything else tries valueOf first. User-
// defined methods are run via callSync rather than threaded through the
// caller's own step sequence (see callSync's doc comment).
func (e *Evaluator) ToPrimitive(v value.Value, hint string) (value.Value, error) {
	obj, ok := v.(*value.Object)
	if !ok {
		return v, nil
	}
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		fnVal, _, found := obj.Get(name)
		fn, ok := fnVal.(*value.Object)
		if !found || !ok || !fn.IsCallable() {
			continue
		}
		res, err := e.callSync(fn, obj, nil)
		if err != nil {
			return nil, err
		}
		if _, isObj := res.(*value.Object); !isObj {
			return res, nil
		}
	}
	return nil, e.NewError(e.Globals.TypeError, "cannot convert object to primitive value")
}

func (e *Evaluator) binaryOp(op string, l, r value.Value) (value.Value, *ThrownError) {
	switch op {
	case "+":
		lp, err := e.ToPrimitive(l, "default")
		if err != nil {
			return nil, e.wrapErr(err)
		}
		rp, err := e.ToPrimitive(r, "default")
		if err != nil {
			return nil, e.wrapErr(err)
		}
		if isStringVal(lp) || isStringVal(rp) {
			ls, _ := value.ToStringValue(lp, e.ToPrimitive)
			rs, _ := value.ToStringValue(rp, e.ToPrimitive)
			return e.Globals.Str(ls + rs), nil
		}
		ln, _ := value.ToNumber(lp, e.ToPrimitive)
		rn, _ := value.ToNumber(rp, e.ToPrimitive)
		return e.Globals.Num(ln + rn), nil
	case "-", "*", "/", "%":
		ln, err1 := value.ToNumber(l, e.ToPrimitive)
		if err1 != nil {
			return nil, e.wrapErr(err1)
		}
		rn, err2 := value.ToNumber(r, e.ToPrimitive)
		if err2 != nil {
			return nil, e.wrapErr(err2)
		}
		var res float64
		switch op {
		case "-":
			res = ln - rn
		case "*":
			res = ln * rn
		case "/":
			res = ln / rn
		case "%":
			res = math.Mod(ln, rn)
		}
		return e.Globals.Num(res), nil
	case "==":
		return e.Globals.Bool(e.abstractEquals(l, r)), nil
	case "!=":
		return e.Globals.Bool(!e.abstractEquals(l, r)), nil
	case "===":
		return e.Globals.Bool(value.StrictEquals(l, r)), nil
	case "!==":
		return e.Globals.Bool(!value.StrictEquals(l, r)), nil
	case "<", ">", "<=", ">=":
		return e.relational(op, l, r)
	case "&", "|", "^", "<<", ">>", ">>>":
		return e.bitwiseOp(op, l, r)
	case "instanceof":
		return e.instanceOf(l, r)
	case "in":
		obj, ok := r.(*value.Object)
		if !ok {
			return nil, e.NewError(e.Globals.TypeError, "'in' requires an object")
		}
		key, _ := value.ToStringValue(l, e.ToPrimitive)
		return e.Globals.Bool(obj.HasProperty(key)), nil
	}
	return e.Globals.Undefined, nil
}

func (e *Evaluator) abstractEquals(a, b value.Value) bool {
	pa, aIsP := a.(*value.Primitive)
	pb, bIsP := b.(*value.Primitive)
	if aIsP && bIsP {
		return value.AbstractEquals(pa, pb)
	}
	if !aIsP && !bIsP {
		oa, _ := a.(*value.Object)
		ob, _ := b.(*value.Object)
		return oa == ob
	}
	if aIsP && (pa.Tag == value.TagNull || pa.Tag == value.TagUndefined) {
		return false
	}
	if bIsP && (pb.Tag == value.TagNull || pb.Tag == value.TagUndefined) {
		return false
	}
	if !aIsP {
		prim, err := e.ToPrimitive(a, "default")
		if err != nil {
			return false
		}
		return e.abstractEquals(prim, b)
	}
	prim, err := e.ToPrimitive(b, "default")
	if err != nil {
		return false
	}
	return e.abstractEquals(a, prim)
}

func (e *Evaluator) relational(op string, l, r value.Value) (value.Value, *ThrownError) {
	lp, err := e.ToPrimitive(l, "number")
	if err != nil {
		return nil, e.wrapErr(err)
	}
	rp, err := e.ToPrimitive(r, "number")
	if err != nil {
		return nil, e.wrapErr(err)
	}
	if isStringVal(lp) && isStringVal(rp) {
		ls := lp.(*value.Primitive).Str
		rs := rp.(*value.Primitive).Str
		var res bool
		switch op {
		case "<":
			res = ls < rs
		case ">":
			res = ls > rs
		case "<=":
			res = ls <= rs
		case ">=":
			res = ls >= rs
		}
		return e.Globals.Bool(res), nil
	}
	ln, _ := value.ToNumber(lp, e.ToPrimitive)
	rn, _ := value.ToNumber(rp, e.ToPrimitive)
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return e.Globals.False, nil
	}
	var res bool
	switch op {
	case "<":
		res = ln < rn
	case ">":
		res = ln > rn
	case "<=":
		res = ln <= rn
	case ">=":
		res = ln >= rn
	}
	return e.Globals.Bool(res), nil
}

func (e *Evaluator) bitwiseOp(op string, l, r value.Value) (value.Value, *ThrownError) {
	ln, err1 := value.ToNumber(l, e.ToPrimitive)
	if err1 != nil {
		return nil, e.wrapErr(err1)
	}
	rn, err2 := value.ToNumber(r, e.ToPrimitive)
	if err2 != nil {
		return nil, e.wrapErr(err2)
	}
	li, ri := toInt32(ln), toInt32(rn)
	switch op {
	case "&":
		return e.Globals.Num(float64(li & ri)), nil
	case "|":
		return e.Globals.Num(float64(li | ri)), nil
	case "^":
		return e.Globals.Num(float64(li ^ ri)), nil
	case "<<":
		return e.Globals.Num(float64(li << (uint32(ri) & 31))), nil
	case ">>":
		return e.Globals.Num(float64(li >> (uint32(ri) & 31))), nil
	case ">>>":
		lu := toUint32(ln)
		return e.Globals.Num(float64(lu >> (uint32(ri) & 31))), nil
	}
	return e.Globals.Undefined, nil
}

func (e *Evaluator) instanceOf(l, r value.Value) (value.Value, *ThrownError) {
	ctor, ok := r.(*value.Object)
	if !ok || !ctor.IsCallable() {
		return nil, e.NewError(e.Globals.TypeError, "right-hand side of 'instanceof' is not callable")
	}
	obj, ok := l.(*value.Object)
	if !ok {
		return e.Globals.False, nil
	}
	protoVal, hasProto := ctor.Properties.GetOwn("prototype")
	proto, _ := protoVal.(*value.Object)
	if !hasProto || proto == nil {
		return e.Globals.False, nil
	}
	for cur := obj.Prototype(); cur != nil; cur = cur.Prototype() {
		if cur == proto {
			return e.Globals.True, nil
		}
	}
	return e.Globals.False, nil
}
