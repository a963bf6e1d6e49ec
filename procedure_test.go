// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval_test

import (
	"testing"

	"code.hybscloud.com/scheval"
)

func TestBuiltinCheckArity(t *testing.T) {
	b := &scheval.Builtin{Name: "cons", MinArity: 2, MaxArity: 2}
	if b.CheckArity(1) {
		t.Fatalf("CheckArity(1) on a 2-arity builtin = true, want false")
	}
	if !b.CheckArity(2) {
		t.Fatalf("CheckArity(2) on a 2-arity builtin = false, want true")
	}
	if b.CheckArity(3) {
		t.Fatalf("CheckArity(3) on a 2-arity builtin = true, want false")
	}
}

func TestBuiltinCheckArityUnboundedMax(t *testing.T) {
	b := &scheval.Builtin{Name: "+", MinArity: 0, MaxArity: -1}
	for _, n := range []int{0, 1, 100} {
		if !b.CheckArity(n) {
			t.Fatalf("CheckArity(%d) on an unbounded-max builtin = false, want true", n)
		}
	}
}

func TestHostFunctionCheckArity(t *testing.T) {
	h := &scheval.HostFunction{Name: "force", MinArity: 1, MaxArity: 1}
	if h.CheckArity(0) {
		t.Fatalf("CheckArity(0) on a 1-arity host function = true, want false")
	}
	if !h.CheckArity(1) {
		t.Fatalf("CheckArity(1) on a 1-arity host function = false, want true")
	}
}

func TestProcNameFallsBackWhenNameEmpty(t *testing.T) {
	l := &scheval.Lambda{}
	if got := l.ProcName(); got != "lambda" {
		t.Fatalf("anonymous Lambda.ProcName() = %q, want %q", got, "lambda")
	}
	named := &scheval.Lambda{Name: "square"}
	if got := named.ProcName(); got != "square" {
		t.Fatalf("named Lambda.ProcName() = %q, want %q", got, "square")
	}

	h := &scheval.HostFunction{}
	if got := h.ProcName(); got != "host-function" {
		t.Fatalf("anonymous HostFunction.ProcName() = %q, want %q", got, "host-function")
	}

	cc := &scheval.CapturedContinuation{}
	if got := cc.ProcName(); got != "continuation" {
		t.Fatalf("CapturedContinuation.ProcName() = %q, want %q", got, "continuation")
	}
}

func TestCapturedContinuationMarkInvokedPanicsOnSecondCallWhenNotReusable(t *testing.T) {
	cc := &scheval.CapturedContinuation{}
	cc.MarkInvoked()

	defer func() {
		if recover() == nil {
			t.Fatalf("second MarkInvoked() on a one-shot continuation: no panic, want panic")
		}
	}()
	cc.MarkInvoked()
}

func TestCapturedContinuationMarkInvokedNeverPanicsWhenReusable(t *testing.T) {
	cc := &scheval.CapturedContinuation{Reusable: true}
	for i := 0; i < 5; i++ {
		cc.MarkInvoked()
	}
}
