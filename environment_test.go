// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval_test

import (
	"testing"

	"code.hybscloud.com/scheval"
)

func TestEnvironmentDefineGet(t *testing.T) {
	env := scheval.NewGlobalEnvironment()
	env.Define("x", scheval.Integer(1))
	v, ok := env.Get("x")
	if !ok || v != scheval.Integer(1) {
		t.Fatalf("Get(x) = %v, %v, want 1, true", v, ok)
	}
}

func TestEnvironmentGetUnbound(t *testing.T) {
	env := scheval.NewGlobalEnvironment()
	if _, ok := env.Get("nope"); ok {
		t.Fatalf("Get(nope) = found, want not found")
	}
}

func TestEnvironmentChildShadowsParent(t *testing.T) {
	parent := scheval.NewGlobalEnvironment()
	parent.Define("x", scheval.Integer(1))
	child := parent.Extend()
	child.Define("x", scheval.Integer(2))
	if v, _ := child.Get("x"); v != scheval.Integer(2) {
		t.Fatalf("child Get(x) = %v, want 2", v)
	}
	if v, _ := parent.Get("x"); v != scheval.Integer(1) {
		t.Fatalf("parent Get(x) = %v, want 1 (shadow must not mutate parent)", v)
	}
}

func TestEnvironmentSetNearestFrame(t *testing.T) {
	parent := scheval.NewGlobalEnvironment()
	parent.Define("x", scheval.Integer(1))
	child := parent.Extend()
	if ok := child.Set("x", scheval.Integer(99)); !ok {
		t.Fatalf("Set(x) on child = false, want true (should find parent binding)")
	}
	if v, _ := parent.Get("x"); v != scheval.Integer(99) {
		t.Fatalf("parent Get(x) after child Set = %v, want 99", v)
	}
}

func TestEnvironmentSetUnboundFails(t *testing.T) {
	env := scheval.NewGlobalEnvironment()
	if ok := env.Set("nope", scheval.Integer(1)); ok {
		t.Fatalf("Set(nope) = true, want false")
	}
}

func TestEnvironmentEqualityIsPointerIdentity(t *testing.T) {
	a := scheval.NewGlobalEnvironment()
	b := scheval.NewGlobalEnvironment()
	if a.Equal(b) {
		t.Fatalf("two distinct empty environments compared equal")
	}
	if !a.Equal(a) {
		t.Fatalf("environment did not compare equal to itself")
	}
}

func TestBindParametersFixedArity(t *testing.T) {
	env := scheval.NewGlobalEnvironment()
	child, err := env.BindParameters([]string{"a", "b"}, false, []scheval.Value{scheval.Integer(1), scheval.Integer(2)})
	if err != nil {
		t.Fatalf("BindParameters: %v", err)
	}
	if v, _ := child.Get("a"); v != scheval.Integer(1) {
		t.Fatalf("a = %v, want 1", v)
	}
	if v, _ := child.Get("b"); v != scheval.Integer(2) {
		t.Fatalf("b = %v, want 2", v)
	}
}

func TestBindParametersArityMismatch(t *testing.T) {
	env := scheval.NewGlobalEnvironment()
	if _, err := env.BindParameters([]string{"a", "b"}, false, []scheval.Value{scheval.Integer(1)}); err == nil {
		t.Fatalf("BindParameters with too few args: no error")
	}
}

func TestBindParametersVariadic(t *testing.T) {
	env := scheval.NewGlobalEnvironment()
	child, err := env.BindParameters([]string{"a", "rest"}, true, []scheval.Value{
		scheval.Integer(1), scheval.Integer(2), scheval.Integer(3),
	})
	if err != nil {
		t.Fatalf("BindParameters: %v", err)
	}
	rest, _ := child.Get("rest")
	items, tail := scheval.ValueToList(rest)
	if tail != scheval.Nil || len(items) != 2 {
		t.Fatalf("rest = %v, want a 2-element proper list", scheval.Write(rest))
	}
}

func TestBindParametersVariadicMinimum(t *testing.T) {
	env := scheval.NewGlobalEnvironment()
	if _, err := env.BindParameters([]string{"a", "rest"}, true, nil); err == nil {
		t.Fatalf("BindParameters variadic below minimum: no error")
	}
}

func TestAtomicEnvironmentCopyOnWrite(t *testing.T) {
	root := scheval.NewAtomicGlobalEnvironment()
	root.Define("x", scheval.Integer(1))
	child := root.Extend()
	child.Define("y", scheval.Integer(2))

	if v, ok := child.Get("x"); !ok || v != scheval.Integer(1) {
		t.Fatalf("child Get(x) = %v, %v, want 1, true", v, ok)
	}
	if _, ok := root.Get("y"); ok {
		t.Fatalf("root Get(y) = found, want not found (child binding must not leak to parent)")
	}

	if ok := child.Set("x", scheval.Integer(42)); !ok {
		t.Fatalf("child Set(x) = false, want true")
	}
	if v, _ := root.Get("x"); v != scheval.Integer(42) {
		t.Fatalf("root Get(x) after child Set(x) = %v, want 42", v)
	}
}

func TestAtomicEnvironmentSnapshotIsIndependent(t *testing.T) {
	root := scheval.NewAtomicGlobalEnvironment()
	root.Define("x", scheval.Integer(1))
	snap := root.Snapshot()
	root.Define("x", scheval.Integer(2))

	if v, _ := snap.Get("x"); v != scheval.Integer(1) {
		t.Fatalf("snapshot Get(x) = %v, want 1 (must not observe later writes)", v)
	}
}
