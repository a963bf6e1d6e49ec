// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval_test

import (
	"testing"

	"code.hybscloud.com/scheval"
)

func TestLoopDiagnosticsIsPlainData(t *testing.T) {
	d := scheval.LoopDiagnostics{
		PredictedExecutionRate: 0.5,
		MemoryOverhead:         128,
		CacheLocality:          "high",
	}
	if d.PredictedExecutionRate != 0.5 || d.MemoryOverhead != 128 || d.CacheLocality != "high" {
		t.Fatalf("LoopDiagnostics round-trip = %+v, fields did not survive construction", d)
	}
}

// TestDoLoopBecomesHotAfterThreshold drives the same counting-loop shape
// through the evaluator five times, past jitHotThreshold, and confirms the loop still
// produces the correct result on every call, including the first two
// (generic CPS) and the third-and-later (native) executions (§4.6.4).
func TestDoLoopBecomesHotAfterThreshold(t *testing.T) {
	e := newEval(t)
	loopExpr := func(limit int64) scheval.Expr {
		return scheval.DoExpr{
			Bindings: []scheval.DoBinding{
				{Name: "i", Init: lit(scheval.Integer(0)), Step: call(v("+"), v("i"), lit(scheval.Integer(1)))},
			},
			Test:    call(v(">="), v("i"), lit(scheval.Integer(limit))),
			Results: []scheval.Expr{v("i")},
			Body:    nil,
		}
	}
	for i := 0; i < 5; i++ {
		got := mustEval(t, e, loopExpr(7))
		if got != scheval.Integer(7) {
			t.Fatalf("iteration %d: do-loop result = %v, want 7", i, got)
		}
	}
}
