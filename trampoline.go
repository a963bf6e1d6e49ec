// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// bounceMode selects which half of the evaluator a Bounce asks the
// trampoline to run next (§4.4, §4.5, §4.6.1).
type bounceMode int

const (
	bounceEval bounceMode = iota
	bounceApply
	bounceDone
)

// Bounce is one unit of trampoline progress: either "evaluate Expr in
// Env with continuation Cont" or "apply Cont to Value" — never both.
// Grounded on the teacher's evalFrames (trampoline.go): a heap-allocated
// struct threaded through an explicit loop instead of recursive calls,
// so neither eval nor apply ever grows the host stack (§4.6.1: "a
// heap-based bounce loop, not recursive evaluate/apply calls").
type Bounce struct {
	Mode  bounceMode
	Expr  Expr
	Env   *Environment
	Cont  Continuation
	Value Value
}

// trampoline drives b to completion, alternating evalStep and applyCont
// until a Bounce carrying bounceDone appears (the IdentityCont was
// reached) or an error surfaces. MaxTurns and MaxContinuationDepth, when
// set, report a stack-overflow EvalError instead of running forever on
// pathological input (§4.6.1, §6).
func (e *Evaluator) trampoline(b Bounce) (Value, error) {
	turns := 0
	for {
		if e.Config.MaxTurns > 0 {
			turns++
			if turns > e.Config.MaxTurns {
				return nil, newStackOverflow("exceeded %d evaluator turns", e.Config.MaxTurns)
			}
		}

		switch b.Mode {
		case bounceDone:
			return b.Value, nil

		case bounceEval:
			if e.Config.MaxContinuationDepth > 0 && Depth(b.Cont) > e.Config.MaxContinuationDepth {
				return nil, newStackOverflow("exceeded continuation depth %d", e.Config.MaxContinuationDepth)
			}
			nb, err := e.evalStep(b.Expr, b.Env, b.Cont)
			if err != nil {
				return nil, err
			}
			b = nb

		case bounceApply:
			if ic, ok := b.Cont.(*IdentityCont); ok {
				_ = ic
				return b.Value, nil
			}
			nb, err := e.applyCont(b.Cont, b.Value)
			if err != nil {
				return nil, err
			}
			b = nb

		default:
			return nil, newRuntimeError("unreachable bounce mode %d", b.Mode)
		}
	}
}
