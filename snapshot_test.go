// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"code.hybscloud.com/scheval"
)

// TestWriteFormatsCompoundValues snapshots scheval.Write's external
// (read syntax) rendering of the value shapes most likely to regress
// silently: nested pairs, an improper list, and a vector of mixed types.
func TestWriteFormatsCompoundValues(t *testing.T) {
	list := scheval.ListToValue([]scheval.Value{scheval.Integer(1), scheval.Integer(2), scheval.Integer(3)}, scheval.Nil)
	improper := scheval.Cons(scheval.Integer(1), scheval.Integer(2))
	vec := &scheval.Vector{Items: []scheval.Value{scheval.Integer(1), scheval.String("two"), scheval.Boolean(true)}}

	snaps.MatchSnapshot(t, scheval.Write(list))
	snaps.MatchSnapshot(t, scheval.Write(improper))
	snaps.MatchSnapshot(t, scheval.Write(vec))
	snaps.MatchSnapshot(t, scheval.Write(scheval.Intern("foo")))
}

// TestDisplayFormatsAStringWithoutQuoting snapshots the Display/Write
// distinction for strings: Display renders the raw text, Write renders
// the re-readable quoted form.
func TestDisplayFormatsAStringWithoutQuoting(t *testing.T) {
	s := scheval.String("hello, world")
	snaps.MatchSnapshot(t, scheval.Display(s))
	snaps.MatchSnapshot(t, scheval.Write(s))
}

// TestFramePoolStatsSnapshot captures the diagnostic struct's shape after
// a representative acquire/release sequence, so a field rename or
// accounting regression shows up as a snapshot diff.
func TestFramePoolStatsSnapshot(t *testing.T) {
	p := scheval.NewFramePool()
	a := p.AcquireOperatorCont()
	p.AcquireOperatorCont()
	p.ReleaseOperatorCont(a)

	snaps.MatchSnapshot(t, p.Stats())
}

// TestLoopDiagnosticsSnapshot captures the diagnostics struct shape the
// JIT attaches to a recognized CountingLoop strategy (§4.6.4).
func TestLoopDiagnosticsSnapshot(t *testing.T) {
	d := scheval.LoopDiagnostics{
		PredictedExecutionRate: 1.0,
		MemoryOverhead:         0,
		CacheLocality:          "high",
	}
	snaps.MatchSnapshot(t, d)
}

// TestTailReportSnapshot captures AnalyzeTail's report shape for a
// self-recursive tail call nested inside an if branch.
func TestTailReportSnapshot(t *testing.T) {
	def := scheval.DefineFuncExpr{
		Name: "loop", Params: []string{"n"},
		Body: []scheval.Expr{
			scheval.IfExpr{
				Test: call(v("="), v("n"), lit(scheval.Integer(0))),
				Then: v("n"),
				Else: call(v("loop"), call(v("-"), v("n"), lit(scheval.Integer(1)))),
			},
		},
	}
	report := scheval.AnalyzeTail(def, scheval.TailContext{InTail: true})
	snaps.MatchSnapshot(t, report.SelfTailCalls)
}
