// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval_test

import (
	"testing"

	"code.hybscloud.com/scheval"
)

// deeplyNestedSum builds (+ 1 (+ 1 (+ 1 ... 0))) with depth additions, so
// the continuation chain grows by one ApplicationCont/OperatorCont frame
// per level while the expression is being evaluated.
func deeplyNestedSum(depth int) scheval.Expr {
	expr := scheval.Expr(lit(scheval.Integer(0)))
	for i := 0; i < depth; i++ {
		expr = call(v("+"), lit(scheval.Integer(1)), expr)
	}
	return expr
}

func TestMaxContinuationDepthReportsStackOverflow(t *testing.T) {
	e := scheval.NewEvaluator(&scheval.EvaluatorConfig{MaxContinuationDepth: 8})
	_, err := e.Eval(deeplyNestedSum(100), e.Global)
	if err == nil {
		t.Fatalf("Eval of a 100-deep nesting under MaxContinuationDepth=8: no error, want stack overflow")
	}
	ee, ok := scheval.AsEvalError(err)
	if !ok || ee.Kind != scheval.KindStackOverflow {
		t.Fatalf("err = %v, want *EvalError{Kind: KindStackOverflow}", err)
	}
}

func TestWithinMaxContinuationDepthSucceeds(t *testing.T) {
	e := scheval.NewEvaluator(&scheval.EvaluatorConfig{MaxContinuationDepth: 1 << 20})
	got, err := e.Eval(deeplyNestedSum(50), e.Global)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != scheval.Integer(50) {
		t.Fatalf("sum = %v, want 50", got)
	}
}

func TestMaxTurnsReportsStackOverflowOnRunawayLoop(t *testing.T) {
	e := scheval.NewEvaluator(&scheval.EvaluatorConfig{MaxTurns: 20})
	mustEval(t, e, scheval.DefineFuncExpr{Name: "loop", Params: nil, Body: []scheval.Expr{call(v("loop"))}})

	_, err := e.Eval(call(v("loop")), e.Global)
	if err == nil {
		t.Fatalf("Eval of a non-terminating self-call under MaxTurns=20: no error, want stack overflow")
	}
	ee, ok := scheval.AsEvalError(err)
	if !ok || ee.Kind != scheval.KindStackOverflow {
		t.Fatalf("err = %v, want *EvalError{Kind: KindStackOverflow}", err)
	}
}

func TestMaxTurnsZeroMeansUnbounded(t *testing.T) {
	e := scheval.NewEvaluator(&scheval.EvaluatorConfig{MaxTurns: 0, MaxContinuationDepth: 1 << 20})
	loopExpr := scheval.LetExpr{
		Name: "loop",
		Bindings: []scheval.LetBinding{
			{Name: "i", Init: lit(scheval.Integer(0))},
			{Name: "s", Init: lit(scheval.Integer(0))},
		},
		Body: []scheval.Expr{
			scheval.IfExpr{
				Test: call(v("="), v("i"), lit(scheval.Integer(10000))),
				Then: v("s"),
				Else: call(v("loop"), call(v("+"), v("i"), lit(scheval.Integer(1))), call(v("+"), v("s"), v("i"))),
			},
		},
	}
	got := mustEval(t, e, loopExpr)
	if got != scheval.Integer(49995000) {
		t.Fatalf("loop sum = %v, want 49995000", got)
	}
}
