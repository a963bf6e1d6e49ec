// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval_test

import (
	"testing"

	"code.hybscloud.com/scheval"
)

func TestInternReturnsCanonicalSymbol(t *testing.T) {
	a := scheval.Intern("foo")
	b := scheval.Intern("foo")
	if a != b {
		t.Fatalf("Intern(%q) returned distinct pointers", "foo")
	}
	c := scheval.Intern("bar")
	if a == c {
		t.Fatalf("Intern(%q) and Intern(%q) share a pointer", "foo", "bar")
	}
}

func TestListToValueAndBack(t *testing.T) {
	items := []scheval.Value{scheval.Integer(1), scheval.Integer(2), scheval.Integer(3)}
	list := scheval.ListToValue(items, nil)
	got, tail := scheval.ValueToList(list)
	if tail != scheval.Nil {
		t.Fatalf("tail = %v, want Nil", tail)
	}
	if len(got) != len(items) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(items))
	}
	for i := range items {
		if got[i] != items[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], items[i])
		}
	}
}

func TestListToValueDottedTail(t *testing.T) {
	items := []scheval.Value{scheval.Integer(1), scheval.Integer(2)}
	list := scheval.ListToValue(items, scheval.Integer(99))
	got, tail := scheval.ValueToList(list)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if tail != scheval.Integer(99) {
		t.Fatalf("tail = %v, want 99", tail)
	}
}

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		v    scheval.Value
		want bool
	}{
		{scheval.Boolean(false), false},
		{scheval.Boolean(true), true},
		{scheval.Integer(0), true},
		{scheval.Nil, true},
		{scheval.String(""), true},
	}
	for _, c := range cases {
		if got := scheval.IsTruthy(c.v); got != c.want {
			t.Fatalf("IsTruthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestDisplayVsWriteStrings(t *testing.T) {
	s := scheval.String("hi")
	if got := scheval.Display(s); got != "hi" {
		t.Fatalf("Display(%q) = %q, want %q", s, got, "hi")
	}
	if got := scheval.Write(s); got != `"hi"` {
		t.Fatalf("Write(%q) = %q, want %q", s, got, `"hi"`)
	}
}

func TestDisplayVsWriteCharacter(t *testing.T) {
	c := scheval.Character('a')
	if got := scheval.Display(c); got != "a" {
		t.Fatalf("Display(char) = %q, want %q", got, "a")
	}
	if got := scheval.Write(c); got != `#\a` {
		t.Fatalf("Write(char) = %q, want %q", got, `#\a`)
	}
}

func TestWritePairAndDottedPair(t *testing.T) {
	list := scheval.Cons(scheval.Integer(1), scheval.Cons(scheval.Integer(2), scheval.Nil))
	if got := scheval.Write(list); got != "(1 2)" {
		t.Fatalf("Write(list) = %q, want %q", got, "(1 2)")
	}
	dotted := scheval.Cons(scheval.Integer(1), scheval.Integer(2))
	if got := scheval.Write(dotted); got != "(1 . 2)" {
		t.Fatalf("Write(dotted) = %q, want %q", got, "(1 . 2)")
	}
}

func TestWriteVector(t *testing.T) {
	v := &scheval.Vector{Items: []scheval.Value{scheval.Integer(1), scheval.Boolean(true)}}
	if got := scheval.Write(v); got != "#(1 #t)" {
		t.Fatalf("Write(vector) = %q, want %q", got, "#(1 #t)")
	}
}

func TestHashTableGetSetDelete(t *testing.T) {
	ht := scheval.NewHashTable(func(a, b scheval.Value) bool { return a == b })
	ht.Set(scheval.Integer(1), scheval.String("one"))
	ht.Set(scheval.Integer(2), scheval.String("two"))
	if v, ok := ht.Get(scheval.Integer(1)); !ok || v != scheval.String("one") {
		t.Fatalf("Get(1) = %v, %v, want %q, true", v, ok, "one")
	}
	ht.Set(scheval.Integer(1), scheval.String("uno"))
	if v, _ := ht.Get(scheval.Integer(1)); v != scheval.String("uno") {
		t.Fatalf("Get(1) after overwrite = %v, want %q", v, "uno")
	}
	ht.Delete(scheval.Integer(2))
	if _, ok := ht.Get(scheval.Integer(2)); ok {
		t.Fatalf("Get(2) after Delete = found, want not found")
	}
	if got := ht.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestNewVectorFill(t *testing.T) {
	v := scheval.NewVector(3, scheval.Integer(7))
	if len(v.Items) != 3 {
		t.Fatalf("len = %d, want 3", len(v.Items))
	}
	for i, x := range v.Items {
		if x != scheval.Integer(7) {
			t.Fatalf("Items[%d] = %v, want 7", i, x)
		}
	}
}
