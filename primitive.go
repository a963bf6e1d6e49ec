// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import (
	"fmt"
	"strconv"
	"strings"
)

// RegisterPrimitives installs the host-implemented procedure registry
// into env (§4.9): each entry is a Builtin carrying {name, min arity, max
// arity, function, effect}. Arithmetic/predicate/accessor primitives are
// EffectPure; `display`/`newline` are EffectIO; `error` surfaces
// through EffectError so a future effect-lifting layer can tell it
// apart from ordinary pure calls without inspecting the function body.
func RegisterPrimitives(env *Environment) {
	def := func(name string, min, max int, effect Effect, fn BuiltinFunc) {
		env.Define(name, &Builtin{Name: name, MinArity: min, MaxArity: max, Effect: effect, Fn: fn})
	}

	def("cons", 2, 2, EffectPure, primCons)
	def("car", 1, 1, EffectPure, primCar)
	def("cdr", 1, 1, EffectPure, primCdr)
	def("set-car!", 2, 2, EffectState, primSetCar)
	def("set-cdr!", 2, 2, EffectState, primSetCdr)
	def("pair?", 1, 1, EffectPure, predicate(func(v Value) bool { _, ok := v.(*Pair); return ok }))
	def("null?", 1, 1, EffectPure, predicate(func(v Value) bool { return v == Nil }))
	def("list", 0, -1, EffectPure, func(args []Value) (Value, error) { return ListToValue(args, Nil), nil })
	def("list?", 1, 1, EffectPure, predicate(isProperList))
	def("length", 1, 1, EffectPure, primLength)
	def("append", 0, -1, EffectPure, primAppend)
	def("reverse", 1, 1, EffectPure, primReverse)

	def("+", 0, -1, EffectPure, numFold(Integer(0), addNum))
	def("*", 0, -1, EffectPure, numFold(Integer(1), mulNum))
	def("-", 1, -1, EffectPure, primSub)
	def("/", 1, -1, EffectPure, primDiv)
	def("=", 1, -1, EffectPure, numCompare(func(a, b float64) bool { return a == b }))
	def("<", 1, -1, EffectPure, numCompare(func(a, b float64) bool { return a < b }))
	def(">", 1, -1, EffectPure, numCompare(func(a, b float64) bool { return a > b }))
	def("<=", 1, -1, EffectPure, numCompare(func(a, b float64) bool { return a <= b }))
	def(">=", 1, -1, EffectPure, numCompare(func(a, b float64) bool { return a >= b }))
	def("zero?", 1, 1, EffectPure, predicate(func(v Value) bool { return numEq(v, 0) }))
	def("positive?", 1, 1, EffectPure, predicate(func(v Value) bool { return numLess(0.0, v) }))
	def("negative?", 1, 1, EffectPure, predicate(func(v Value) bool { return numLess(v, 0.0) }))
	def("modulo", 2, 2, EffectPure, primModulo)
	def("quotient", 2, 2, EffectPure, primQuotient)
	def("remainder", 2, 2, EffectPure, primRemainder)
	def("abs", 1, 1, EffectPure, primAbs)
	def("min", 1, -1, EffectPure, numCompareFold(func(a, b float64) bool { return a < b }))
	def("max", 1, -1, EffectPure, numCompareFold(func(a, b float64) bool { return a > b }))

	def("not", 1, 1, EffectPure, func(args []Value) (Value, error) { return Boolean(!IsTruthy(args[0])), nil })
	def("eq?", 2, 2, EffectPure, func(args []Value) (Value, error) { return Boolean(eqValues(args[0], args[1])), nil })
	def("eqv?", 2, 2, EffectPure, func(args []Value) (Value, error) { return Boolean(literalEqv(args[0], args[1])), nil })
	def("equal?", 2, 2, EffectPure, func(args []Value) (Value, error) { return Boolean(equalValues(args[0], args[1])), nil })
	def("boolean?", 1, 1, EffectPure, predicate(func(v Value) bool { _, ok := v.(Boolean); return ok }))
	def("procedure?", 1, 1, EffectPure, predicate(func(v Value) bool { _, ok := v.(Procedure); return ok }))
	def("number?", 1, 1, EffectPure, predicate(isNumber))
	def("symbol?", 1, 1, EffectPure, predicate(func(v Value) bool { _, ok := v.(*Symbol); return ok }))
	def("string?", 1, 1, EffectPure, predicate(func(v Value) bool { _, ok := v.(String); return ok }))
	def("vector?", 1, 1, EffectPure, predicate(func(v Value) bool { _, ok := v.(*Vector); return ok }))
	def("char?", 1, 1, EffectPure, predicate(func(v Value) bool { _, ok := v.(Character); return ok }))

	def("vector", 0, -1, EffectPure, func(args []Value) (Value, error) { return &Vector{Items: append([]Value(nil), args...)}, nil })
	def("make-vector", 1, 2, EffectPure, primMakeVector)
	def("vector-ref", 2, 2, EffectPure, primVectorRef)
	def("vector-set!", 3, 3, EffectState, primVectorSet)
	def("vector-length", 1, 1, EffectPure, primVectorLength)
	def("vector->list", 1, 1, EffectPure, func(args []Value) (Value, error) {
		v, ok := args[0].(*Vector)
		if !ok {
			return nil, newTypeError("vector->list: not a vector: %s", Write(args[0]))
		}
		return ListToValue(v.Items, Nil), nil
	})
	def("list->vector", 1, 1, EffectPure, func(args []Value) (Value, error) {
		items, tail := ValueToList(args[0])
		if tail != Nil {
			return nil, newTypeError("list->vector: improper list")
		}
		return &Vector{Items: items}, nil
	})

	def("string-append", 0, -1, EffectPure, primStringAppend)
	def("string-length", 1, 1, EffectPure, primStringLength)
	def("symbol->string", 1, 1, EffectPure, primSymbolToString)
	def("string->symbol", 1, 1, EffectPure, primStringToSymbol)
	def("string->number", 1, 1, EffectPure, primStringToNumber)
	def("number->string", 1, 1, EffectPure, primNumberToString)

	def("display", 1, 1, EffectIO, func(args []Value) (Value, error) { fmt.Print(Display(args[0])); return Unspecified, nil })
	def("write", 1, 1, EffectIO, func(args []Value) (Value, error) { fmt.Print(Write(args[0])); return Unspecified, nil })
	def("newline", 0, 0, EffectIO, func(args []Value) (Value, error) { fmt.Println(); return Unspecified, nil })

	def("error", 1, -1, EffectError, primError)

	def("box", 1, 1, EffectPure, func(args []Value) (Value, error) { return &Box{V: args[0]}, nil })
	def("unbox", 1, 1, EffectPure, func(args []Value) (Value, error) {
		b, ok := args[0].(*Box)
		if !ok {
			return nil, newTypeError("unbox: not a box: %s", Write(args[0]))
		}
		return b.V, nil
	})
	def("set-box!", 2, 2, EffectState, func(args []Value) (Value, error) {
		b, ok := args[0].(*Box)
		if !ok {
			return nil, newTypeError("set-box!: not a box: %s", Write(args[0]))
		}
		b.V = args[1]
		return Unspecified, nil
	})
}

// primForce implements force (§4.4 Delay/Force). Unlike the rest of the
// registry, it needs evaluator access to run an unforced Promise's body,
// so NewEvaluator binds it as a HostFunction closing over e rather than
// registering it through RegisterPrimitives.
func (e *Evaluator) primForce(args []Value) (Value, error) {
	p, ok := args[0].(*Promise)
	if !ok {
		return args[0], nil
	}
	if p.Forced {
		return p.Value, nil
	}
	v, err := e.Eval(p.Expr, p.Env)
	if err != nil {
		return nil, err
	}
	if !p.Forced {
		p.Forced = true
		p.Value = v
	}
	return p.Value, nil
}

func predicate(p func(Value) bool) BuiltinFunc {
	return func(args []Value) (Value, error) { return Boolean(p(args[0])), nil }
}

func primCons(args []Value) (Value, error) { return Cons(args[0], args[1]), nil }

func primCar(args []Value) (Value, error) {
	p, ok := args[0].(*Pair)
	if !ok {
		return nil, newTypeError("car: not a pair: %s", Write(args[0]))
	}
	return p.Car, nil
}

func primCdr(args []Value) (Value, error) {
	p, ok := args[0].(*Pair)
	if !ok {
		return nil, newTypeError("cdr: not a pair: %s", Write(args[0]))
	}
	return p.Cdr, nil
}

func primSetCar(args []Value) (Value, error) {
	p, ok := args[0].(*Pair)
	if !ok {
		return nil, newTypeError("set-car!: not a pair: %s", Write(args[0]))
	}
	p.Car = args[1]
	return Unspecified, nil
}

func primSetCdr(args []Value) (Value, error) {
	p, ok := args[0].(*Pair)
	if !ok {
		return nil, newTypeError("set-cdr!: not a pair: %s", Write(args[0]))
	}
	p.Cdr = args[1]
	return Unspecified, nil
}

func isProperList(v Value) bool {
	_, tail := ValueToList(v)
	return tail == Nil
}

func primLength(args []Value) (Value, error) {
	items, tail := ValueToList(args[0])
	if tail != Nil {
		return nil, newTypeError("length: not a proper list: %s", Write(args[0]))
	}
	return Integer(len(items)), nil
}

func primAppend(args []Value) (Value, error) {
	if len(args) == 0 {
		return Nil, nil
	}
	var all []Value
	for _, a := range args[:len(args)-1] {
		items, tail := ValueToList(a)
		if tail != Nil {
			return nil, newTypeError("append: not a proper list: %s", Write(a))
		}
		all = append(all, items...)
	}
	return ListToValue(all, args[len(args)-1]), nil
}

func primReverse(args []Value) (Value, error) {
	items, tail := ValueToList(args[0])
	if tail != Nil {
		return nil, newTypeError("reverse: not a proper list: %s", Write(args[0]))
	}
	out := make([]Value, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return ListToValue(out, Nil), nil
}

func asFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Integer:
		return float64(n), true
	case Real:
		return float64(n), true
	default:
		return 0, false
	}
}

func isNumber(v Value) bool {
	_, ok := asFloat(v)
	return ok
}

func numEq(v Value, n float64) bool {
	f, ok := asFloat(v)
	return ok && f == n
}

func numLess(a any, b any) bool {
	af, aok := numOperand(a)
	bf, bok := numOperand(b)
	return aok && bok && af < bf
}

func numOperand(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case Value:
		return asFloat(n)
	default:
		return 0, false
	}
}

func bothIntegers(args []Value) bool {
	for _, a := range args {
		if _, ok := a.(Integer); !ok {
			return false
		}
	}
	return true
}

func addNum(a, b Value) Value {
	if ai, ok := a.(Integer); ok {
		if bi, ok := b.(Integer); ok {
			return ai + bi
		}
	}
	af, _ := asFloat(a)
	bf, _ := asFloat(b)
	return Real(af + bf)
}

func mulNum(a, b Value) Value {
	if ai, ok := a.(Integer); ok {
		if bi, ok := b.(Integer); ok {
			return ai * bi
		}
	}
	af, _ := asFloat(a)
	bf, _ := asFloat(b)
	return Real(af * bf)
}

func numFold(identity Value, op func(a, b Value) Value) BuiltinFunc {
	return func(args []Value) (Value, error) {
		acc := identity
		for _, a := range args {
			if !isNumber(a) {
				return nil, newTypeError("not a number: %s", Write(a))
			}
			acc = op(acc, a)
		}
		return acc, nil
	}
}

func primSub(args []Value) (Value, error) {
	for _, a := range args {
		if !isNumber(a) {
			return nil, newTypeError("not a number: %s", Write(a))
		}
	}
	if len(args) == 1 {
		if ai, ok := args[0].(Integer); ok {
			return -ai, nil
		}
		f, _ := asFloat(args[0])
		return Real(-f), nil
	}
	acc := args[0]
	for _, a := range args[1:] {
		if ai, ok := acc.(Integer); ok {
			if bi, ok := a.(Integer); ok {
				acc = ai - bi
				continue
			}
		}
		af, _ := asFloat(acc)
		bf, _ := asFloat(a)
		acc = Real(af - bf)
	}
	return acc, nil
}

func primDiv(args []Value) (Value, error) {
	for _, a := range args {
		if !isNumber(a) {
			return nil, newTypeError("not a number: %s", Write(a))
		}
	}
	if len(args) == 1 {
		f, _ := asFloat(args[0])
		if f == 0 {
			return nil, newRuntimeError("division by zero")
		}
		return Real(1 / f), nil
	}
	af, _ := asFloat(args[0])
	acc := af
	for _, a := range args[1:] {
		bf, _ := asFloat(a)
		if bf == 0 {
			return nil, newRuntimeError("division by zero")
		}
		acc /= bf
	}
	return Real(acc), nil
}

func numCompare(cmp func(a, b float64) bool) BuiltinFunc {
	return func(args []Value) (Value, error) {
		for i := 0; i+1 < len(args); i++ {
			a, ok1 := asFloat(args[i])
			b, ok2 := asFloat(args[i+1])
			if !ok1 || !ok2 {
				return nil, newTypeError("not a number")
			}
			if !cmp(a, b) {
				return Boolean(false), nil
			}
		}
		return Boolean(true), nil
	}
}

func numCompareFold(better func(a, b float64) bool) BuiltinFunc {
	return func(args []Value) (Value, error) {
		best := args[0]
		bf, ok := asFloat(best)
		if !ok {
			return nil, newTypeError("not a number: %s", Write(best))
		}
		allInt := bothIntegers(args)
		for _, a := range args[1:] {
			af, ok := asFloat(a)
			if !ok {
				return nil, newTypeError("not a number: %s", Write(a))
			}
			if better(af, bf) {
				best, bf = a, af
			}
		}
		if allInt {
			return best, nil
		}
		return Real(bf), nil
	}
}

func primModulo(args []Value) (Value, error) {
	a, ok1 := args[0].(Integer)
	b, ok2 := args[1].(Integer)
	if !ok1 || !ok2 {
		return nil, newTypeError("modulo: requires integers")
	}
	if b == 0 {
		return nil, newRuntimeError("modulo: division by zero")
	}
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m, nil
}

func primQuotient(args []Value) (Value, error) {
	a, ok1 := args[0].(Integer)
	b, ok2 := args[1].(Integer)
	if !ok1 || !ok2 {
		return nil, newTypeError("quotient: requires integers")
	}
	if b == 0 {
		return nil, newRuntimeError("quotient: division by zero")
	}
	return a / b, nil
}

func primRemainder(args []Value) (Value, error) {
	a, ok1 := args[0].(Integer)
	b, ok2 := args[1].(Integer)
	if !ok1 || !ok2 {
		return nil, newTypeError("remainder: requires integers")
	}
	if b == 0 {
		return nil, newRuntimeError("remainder: division by zero")
	}
	return a % b, nil
}

func primAbs(args []Value) (Value, error) {
	switch n := args[0].(type) {
	case Integer:
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case Real:
		if n < 0 {
			return -n, nil
		}
		return n, nil
	default:
		return nil, newTypeError("abs: not a number: %s", Write(args[0]))
	}
}

// eqValues implements eq?: pointer/identity equality for reference types,
// value equality for the interned/immediate shapes (§4.9-adjacent value
// semantics carried from the teacher's value.go equality story).
func eqValues(a, b Value) bool {
	switch av := a.(type) {
	case *Symbol:
		bv, ok := b.(*Symbol)
		return ok && av == bv
	case nilValue:
		_, ok := b.(nilValue)
		return ok
	case unspecifiedValue:
		_, ok := b.(unspecifiedValue)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case Character:
		bv, ok := b.(Character)
		return ok && av == bv
	case *Pair:
		bv, ok := b.(*Pair)
		return ok && av == bv
	case *Vector:
		bv, ok := b.(*Vector)
		return ok && av == bv
	default:
		return a == b
	}
}

// equalValues implements equal?: deep structural equality over pairs,
// vectors, and strings; falls back to eqv?-shaped equality for atoms.
func equalValues(a, b Value) bool {
	switch av := a.(type) {
	case *Pair:
		bv, ok := b.(*Pair)
		return ok && equalValues(av.Car, bv.Car) && equalValues(av.Cdr, bv.Cdr)
	case *Vector:
		bv, ok := b.(*Vector)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !equalValues(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	default:
		return literalEqv(a, b)
	}
}

func primMakeVector(args []Value) (Value, error) {
	n, ok := args[0].(Integer)
	if !ok || n < 0 {
		return nil, newTypeError("make-vector: length must be a non-negative integer")
	}
	var fill Value = Unspecified
	if len(args) == 2 {
		fill = args[1]
	}
	return NewVector(int(n), fill), nil
}

func primVectorRef(args []Value) (Value, error) {
	v, ok := args[0].(*Vector)
	if !ok {
		return nil, newTypeError("vector-ref: not a vector: %s", Write(args[0]))
	}
	i, ok := args[1].(Integer)
	if !ok || i < 0 || int(i) >= len(v.Items) {
		return nil, newRuntimeError("vector-ref: index out of range: %s", Write(args[1]))
	}
	return v.Items[i], nil
}

func primVectorSet(args []Value) (Value, error) {
	v, ok := args[0].(*Vector)
	if !ok {
		return nil, newTypeError("vector-set!: not a vector: %s", Write(args[0]))
	}
	i, ok := args[1].(Integer)
	if !ok || i < 0 || int(i) >= len(v.Items) {
		return nil, newRuntimeError("vector-set!: index out of range: %s", Write(args[1]))
	}
	v.Items[i] = args[2]
	return Unspecified, nil
}

func primVectorLength(args []Value) (Value, error) {
	v, ok := args[0].(*Vector)
	if !ok {
		return nil, newTypeError("vector-length: not a vector: %s", Write(args[0]))
	}
	return Integer(len(v.Items)), nil
}

func primStringAppend(args []Value) (Value, error) {
	var b strings.Builder
	for _, a := range args {
		s, ok := a.(String)
		if !ok {
			return nil, newTypeError("string-append: not a string: %s", Write(a))
		}
		b.WriteString(string(s))
	}
	return String(b.String()), nil
}

func primStringLength(args []Value) (Value, error) {
	s, ok := args[0].(String)
	if !ok {
		return nil, newTypeError("string-length: not a string: %s", Write(args[0]))
	}
	return Integer(len([]rune(string(s)))), nil
}

func primSymbolToString(args []Value) (Value, error) {
	s, ok := args[0].(*Symbol)
	if !ok {
		return nil, newTypeError("symbol->string: not a symbol: %s", Write(args[0]))
	}
	return String(s.Name), nil
}

func primStringToSymbol(args []Value) (Value, error) {
	s, ok := args[0].(String)
	if !ok {
		return nil, newTypeError("string->symbol: not a string: %s", Write(args[0]))
	}
	return Intern(string(s)), nil
}

func primStringToNumber(args []Value) (Value, error) {
	s, ok := args[0].(String)
	if !ok {
		return nil, newTypeError("string->number: not a string: %s", Write(args[0]))
	}
	trimmed := strings.TrimSpace(string(s))
	if iv, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Integer(iv), nil
	}
	if fv, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Real(fv), nil
	}
	return Boolean(false), nil
}

func primNumberToString(args []Value) (Value, error) {
	if !isNumber(args[0]) {
		return nil, newTypeError("number->string: not a number: %s", Write(args[0]))
	}
	return String(Write(args[0])), nil
}

// primError implements (error message irritant ...): raises a KindException
// carrying a Record so guard clauses can inspect the message and irritants
// (§4.4.2 Raise/guard, §7).
func primError(args []Value) (Value, error) {
	msg, _ := args[0].(String)
	irritants := ListToValue(args[1:], Nil)
	rec := &Record{TypeName: "error", Fields: map[string]Value{
		"message":   msg,
		"irritants": irritants,
	}}
	return nil, newException(rec)
}
