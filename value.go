// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Value is the tagged sum of Scheme runtime values. Like the teacher's
// Frame marker interface, dispatch is by type switch, not by an explicit
// tag field — the marker method only closes the type set.
type Value interface {
	value() // unexported marker method
}

// Integer is an exact Scheme integer.
type Integer int64

func (Integer) value() {}

// Real is an inexact Scheme number.
type Real float64

func (Real) value() {}

// Boolean is a Scheme boolean. Only Boolean(false) is falsy; every other
// value, including Integer(0) and Nil, is truthy (§4.4 If).
type Boolean bool

func (Boolean) value() {}

// Character is a single Scheme character.
type Character rune

func (Character) value() {}

// String is an immutable Scheme string.
type String string

func (String) value() {}

// Symbol is an interned identifier. Two symbols with the same name share
// the same *Symbol, so eq? on symbols is pointer comparison.
type Symbol struct {
	Name string
}

func (*Symbol) value() {}

var (
	symbolTableMu sync.Mutex
	symbolTable   = map[string]*Symbol{}
)

// Intern returns the canonical *Symbol for name, creating it on first use.
func Intern(name string) *Symbol {
	symbolTableMu.Lock()
	defer symbolTableMu.Unlock()
	if s, ok := symbolTable[name]; ok {
		return s
	}
	s := &Symbol{Name: name}
	symbolTable[name] = s
	return s
}

// nilValue is the unique empty-list value.
type nilValue struct{}

func (nilValue) value() {}

// Nil is the empty list.
var Nil Value = nilValue{}

// unspecifiedValue is the value of expressions R7RS leaves unspecified
// (set!, define, and the arms of apply_cont that discard their input).
type unspecifiedValue struct{}

func (unspecifiedValue) value() {}

// Unspecified is returned by forms whose value R7RS does not define.
var Unspecified Value = unspecifiedValue{}

// Pair is an ordered pair. A proper list is a right-nested chain of Pairs
// ending in Nil; a dotted list ends in a non-Nil, non-Pair Cdr.
type Pair struct {
	Car Value
	Cdr Value
}

func (*Pair) value() {}

// Cons builds a Pair.
func Cons(car, cdr Value) *Pair {
	return &Pair{Car: car, Cdr: cdr}
}

// ListToValue converts a Go slice into a right-nested Pair chain ending
// in Nil (or in tail, for an improper/dotted list).
func ListToValue(items []Value, tail Value) Value {
	if tail == nil {
		tail = Nil
	}
	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = Cons(items[i], result)
	}
	return result
}

// ValueToList flattens a proper or improper list into its elements and
// final tail (Nil for a proper list).
func ValueToList(v Value) (items []Value, tail Value) {
	for {
		p, ok := v.(*Pair)
		if !ok {
			return items, v
		}
		items = append(items, p.Car)
		v = p.Cdr
	}
}

// Vector is a mutable, O(1)-indexable sequence.
type Vector struct {
	Items []Value
}

func (*Vector) value() {}

// NewVector creates a Vector of the given length filled with fill.
func NewVector(length int, fill Value) *Vector {
	items := make([]Value, length)
	for i := range items {
		items[i] = fill
	}
	return &Vector{Items: items}
}

// HashTable maps Value to Value under a user-specified equality.
type HashTable struct {
	Equal   func(a, b Value) bool
	entries []htEntry
}

type htEntry struct {
	key, val Value
}

func (*HashTable) value() {}

// NewHashTable creates a HashTable using the given equality predicate.
func NewHashTable(equal func(a, b Value) bool) *HashTable {
	return &HashTable{Equal: equal}
}

// Get looks up key, returning (value, true) or (nil, false).
func (h *HashTable) Get(key Value) (Value, bool) {
	for _, e := range h.entries {
		if h.Equal(e.key, key) {
			return e.val, true
		}
	}
	return nil, false
}

// Set inserts or replaces the binding for key.
func (h *HashTable) Set(key, val Value) {
	for i, e := range h.entries {
		if h.Equal(e.key, key) {
			h.entries[i].val = val
			return
		}
	}
	h.entries = append(h.entries, htEntry{key: key, val: val})
}

// Delete removes the binding for key, if present.
func (h *HashTable) Delete(key Value) {
	for i, e := range h.entries {
		if h.Equal(e.key, key) {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of bindings.
func (h *HashTable) Len() int { return len(h.entries) }

// Port is an opaque I/O handle. The core evaluator never performs I/O
// itself (§1 Non-goals); Port exists only as a value shape primitives can
// carry.
type Port struct {
	Name string
	Data any
}

func (*Port) value() {}

// External wraps an opaque host object so it can flow through Scheme
// code as an ordinary value.
type External struct {
	Tag     string
	Payload any
}

func (*External) value() {}

// Record is an instance of a user-defined record type.
type Record struct {
	TypeName string
	Fields   map[string]Value
}

func (*Record) value() {}

// Values is a multiple-value tuple produced by (values ...) and consumed
// by call-with-values (§4.4 Values/Call-with-values).
type Values struct {
	Items []Value
}

func (*Values) value() {}

// Box is a mutable cell holding a value that is referenced instead of
// copied; the box primitive creates it.
type Box struct {
	V Value
}

func (*Box) value() {}

// Promise is either a not-yet-forced Lazy{expr, env} or a forced Eager
// value, per §4.4 Delay/Force.
type Promise struct {
	Forced bool
	Value  Value
	Expr   Expr
	Env    *Environment
}

func (*Promise) value() {}

// IsTruthy implements R7RS truthiness: everything except Boolean(false)
// is true, including Integer(0) and Nil (§8).
func IsTruthy(v Value) bool {
	b, ok := v.(Boolean)
	return !ok || bool(b)
}

// Display renders v the way `display` does: strings unquoted, characters
// without the #\ prefix.
func Display(v Value) string {
	var b strings.Builder
	writeValue(&b, v, false)
	return b.String()
}

// Write renders v the way `write` does: output that read back produces
// an equal value (strings quoted, characters as #\x).
func Write(v Value) string {
	var b strings.Builder
	writeValue(&b, v, true)
	return b.String()
}

func writeValue(b *strings.Builder, v Value, write bool) {
	switch x := v.(type) {
	case nilValue:
		b.WriteString("()")
	case unspecifiedValue:
		// Unspecified intentionally has no literal syntax.
	case Boolean:
		if x {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case Integer:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case Real:
		b.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 64))
	case Character:
		if write {
			b.WriteString("#\\")
			b.WriteRune(rune(x))
		} else {
			b.WriteRune(rune(x))
		}
	case String:
		if write {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(string(x), `"`, `\"`))
			b.WriteByte('"')
		} else {
			b.WriteString(string(x))
		}
	case *Symbol:
		b.WriteString(x.Name)
	case *Pair:
		b.WriteByte('(')
		writeValue(b, x.Car, write)
		rest := x.Cdr
		for {
			if rest == Nil {
				break
			}
			if p, ok := rest.(*Pair); ok {
				b.WriteByte(' ')
				writeValue(b, p.Car, write)
				rest = p.Cdr
				continue
			}
			b.WriteString(" . ")
			writeValue(b, rest, write)
			break
		}
		b.WriteByte(')')
	case *Vector:
		b.WriteString("#(")
		for i, item := range x.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeValue(b, item, write)
		}
		b.WriteByte(')')
	case *Values:
		for i, item := range x.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeValue(b, item, write)
		}
	case Procedure:
		fmt.Fprintf(b, "#<procedure %s>", x.ProcName())
	case *Promise:
		b.WriteString("#<promise>")
	case *Box:
		b.WriteString("#<box ")
		writeValue(b, x.V, write)
		b.WriteByte('>')
	case *Record:
		fmt.Fprintf(b, "#<%s>", x.TypeName)
	case *HashTable:
		b.WriteString("#<hash-table>")
	case *Port:
		fmt.Fprintf(b, "#<port %s>", x.Name)
	case *External:
		fmt.Fprintf(b, "#<external %s>", x.Tag)
	default:
		fmt.Fprintf(b, "#<unknown %T>", v)
	}
}
