// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// ArgOrder selects the evaluation order of application arguments (§5
// Ordering: left-to-right is the default, right-to-left is permitted and
// must be selectable for conformance testing against implementations
// that chose the other order).
type ArgOrder int

const (
	ArgOrderLeftToRight ArgOrder = iota
	ArgOrderRightToLeft
)

// EvaluatorConfig tunes the limits and policies SPEC_FULL.md §4.6 and §5
// leave to the embedder (§6: "every limit below is a field on
// EvaluatorConfig, never a compiled-in constant").
type EvaluatorConfig struct {
	// ArgOrder selects left-to-right (default) or right-to-left argument
	// evaluation.
	ArgOrder ArgOrder

	// MaxContinuationDepth bounds the continuation chain length before
	// the evaluator reports a stack-overflow EvalError instead of
	// growing without limit (§4.3, §4.6.1).
	MaxContinuationDepth int

	// MaxTurns bounds the number of trampoline bounces a single Eval call
	// may take; 0 means unlimited. Exists to give embedders a hard
	// wall-clock-independent cutoff for runaway or adversarial programs.
	MaxTurns int

	// MemoryLimit is forwarded to Store.SetMemoryLimit (§4.2).
	MemoryLimit int

	// FramePoolMax bounds each FramePool free list (§4.6.2).
	FramePoolMax int

	// JITPatternCacheSize bounds the LRU pattern cache jit.go consults
	// before falling back to generic CPS do-loop evaluation (§4.6.3).
	JITPatternCacheSize int

	// EnableNativeIteration lets DoLoop patterns classified as hot bypass
	// continuation allocation entirely (§4.6.3). Disabling it is useful
	// for tests asserting on the generic CPS path's continuation shapes.
	EnableNativeIteration bool
}

// DefaultConfig returns the evaluator's default tuning (§6).
func DefaultConfig() *EvaluatorConfig {
	return &EvaluatorConfig{
		ArgOrder:              ArgOrderLeftToRight,
		MaxContinuationDepth:  1 << 20,
		MaxTurns:              0,
		MemoryLimit:           0,
		FramePoolMax:          defaultFramePoolMax,
		JITPatternCacheSize:   256,
		EnableNativeIteration: true,
	}
}
