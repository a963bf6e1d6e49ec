// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LoopPattern is a recognized shape of a do-loop's bindings (§4.6.4).
type LoopPattern int

const (
	patternComplex LoopPattern = iota
	patternCounting
	patternListIteration
	patternVectorIteration
	patternAccumulation
)

func (p LoopPattern) String() string {
	switch p {
	case patternCounting:
		return "CountingLoop"
	case patternListIteration:
		return "ListIteration"
	case patternVectorIteration:
		return "VectorIteration"
	case patternAccumulation:
		return "AccumulationLoop"
	default:
		return "ComplexLoop"
	}
}

// LoopDiagnostics is attached to a recognized strategy for diagnostic
// output (§4.6.4: "predicted execution rates, memory overhead, and cache
// locality are attached to each strategy").
type LoopDiagnostics struct {
	Pattern               LoopPattern
	PredictedExecutionRate float64
	MemoryOverhead         int
	CacheLocality          string
}

// loopStrategy is what the pattern cache stores per fingerprint: the
// recognized pattern plus the one piece of CountingLoop-specific data
// (the stepped variable's name) the native path needs.
type loopStrategy struct {
	Diagnostics LoopDiagnostics
	VarName     string
}

// jitHotThreshold is how many times a loop shape must be seen before its
// strategy is cached and the native path is taken (§4.6.4: "a hot-path
// detector counts pattern executions per pattern id; beyond a threshold
// the pattern's specialized strategy is selected").
const jitHotThreshold = 3

type jitCache struct {
	mu        sync.Mutex
	cache     *lru.Cache[string, *loopStrategy]
	hits      map[string]int
	threshold int
}

func newJITCache(size int) *jitCache {
	if size <= 0 {
		size = 1
	}
	c, _ := lru.New[string, *loopStrategy](size)
	return &jitCache{cache: c, hits: make(map[string]int), threshold: jitHotThreshold}
}

// recordHit bumps and returns the fingerprint's execution count.
func (j *jitCache) recordHit(fingerprint string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.hits[fingerprint]++
	return j.hits[fingerprint]
}

func (j *jitCache) get(fingerprint string) (*loopStrategy, bool) {
	return j.cache.Get(fingerprint)
}

func (j *jitCache) put(fingerprint string, s *loopStrategy) {
	j.cache.Add(fingerprint, s)
}

// fingerprintDoExpr builds a structural cache key from a do form's shape
// (not its identity), so two textually distinct but shape-identical loops
// share one classification (§11: "bounded LRU keyed by a structural
// fingerprint of the do form").
func fingerprintDoExpr(x DoExpr) string {
	s := fmt.Sprintf("do/%d:", len(x.Bindings))
	for _, b := range x.Bindings {
		s += fmt.Sprintf("%T,%T;", b.Init, b.Step)
	}
	s += fmt.Sprintf("test=%T", x.Test)
	return s
}

// classifyCountingLoop recognizes the single shape this implementation
// natively specializes: one integer variable, a literal integer init, a
// step of (+ var k), and a test of (>= var n) or (< var n) (§4.6.4
// CountingLoop). Every other shape, including genuine ListIteration/
// VectorIteration/AccumulationLoop candidates, is left to the generic CPS
// do-loop (§12: ComplexLoop is the default branch).
func classifyCountingLoop(x DoExpr) (varName string, ok bool) {
	if len(x.Bindings) != 1 {
		return "", false
	}
	b := x.Bindings[0]
	if _, isInt := b.Init.(Literal); !isInt {
		return "", false
	}
	if !isIncrementStep(b.Step, b.Name) {
		return "", false
	}
	if !isBoundedTest(x.Test, b.Name) {
		return "", false
	}
	return b.Name, true
}

func isIncrementStep(step Expr, name string) bool {
	app, ok := step.(ApplicationExpr)
	if !ok || len(app.Args) != 2 {
		return false
	}
	op, ok := app.Operator.(Variable)
	if !ok || op.Name != "+" {
		return false
	}
	v, ok := app.Args[0].(Variable)
	if !ok || v.Name != name {
		return false
	}
	_, litOK := app.Args[1].(Literal)
	return litOK
}

func isBoundedTest(test Expr, name string) bool {
	app, ok := test.(ApplicationExpr)
	if !ok || len(app.Args) != 2 {
		return false
	}
	op, ok := app.Operator.(Variable)
	if !ok || (op.Name != ">=" && op.Name != "<") {
		return false
	}
	v, ok := app.Args[0].(Variable)
	return ok && v.Name == name
}

// containsEscapeForm reports whether x (transitively) mentions a form
// that can capture or cross a continuation boundary. The native loop
// path is only taken when neither Test, Body, nor the Results
// expressions contain one (classifyCountingLoop already limits each step
// to (+ var literal)), since a continuation captured mid-iteration
// there would be anchored to the per-iteration nested Eval call rather
// than the loop's true enclosing continuation.
func containsEscapeForm(x Expr) bool {
	switch n := x.(type) {
	case CallCCExpr:
		return true
	case DynamicWindExpr:
		return true
	case GuardExpr:
		return true
	case WithExceptionHandlerExpr:
		return true
	case RaiseExpr:
		return true
	case CallWithValuesExpr:
		return true
	case IfExpr:
		return containsEscapeForm(n.Test) || containsEscapeForm(n.Then) || (n.Else != nil && containsEscapeForm(n.Else))
	case BeginExpr:
		return anyEscapeForm(n.Exprs)
	case AndExpr:
		return anyEscapeForm(n.Exprs)
	case OrExpr:
		return anyEscapeForm(n.Exprs)
	case ApplicationExpr:
		return containsEscapeForm(n.Operator) || anyEscapeForm(n.Args)
	case LambdaExpr:
		return anyEscapeForm(n.Body)
	case DefineExpr:
		return containsEscapeForm(n.ValueExpr)
	case SetExpr:
		return containsEscapeForm(n.ValueExpr)
	case CondExpr:
		for _, c := range n.Clauses {
			if c.Test != nil && containsEscapeForm(c.Test) {
				return true
			}
			if anyEscapeForm(c.Body) {
				return true
			}
		}
		return false
	case DoExpr:
		return true // nested do is classified independently, never inline-scanned
	default:
		return false
	}
}

func anyEscapeForm(exprs []Expr) bool {
	for _, e := range exprs {
		if containsEscapeForm(e) {
			return true
		}
	}
	return false
}

// evalDirect is a small non-trampolined evaluator for the restricted
// grammar (literals, variables, and calls to already-resolved
// primitives) that a native do-loop's test/step/body expressions are run
// through; anything outside that grammar falls back to the full
// evaluator, exactly mirroring the stack-safety rationale of avoiding a
// fresh trampoline per iteration for simple loops while still supporting
// arbitrary loop bodies (§12, original source's eval_do_iterative).
func (e *Evaluator) evalDirect(x Expr, env *Environment) (Value, bool, error) {
	switch n := x.(type) {
	case Literal:
		return n.Val, true, nil
	case Variable:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, false, nil
		}
		return v, true, nil
	case ApplicationExpr:
		opv, ok, err := e.evalDirect(n.Operator, env)
		if err != nil || !ok {
			return nil, ok, err
		}
		args := make([]Value, len(n.Args))
		for i, a := range n.Args {
			av, ok, err := e.evalDirect(a, env)
			if err != nil || !ok {
				return nil, ok, err
			}
			args[i] = av
		}
		switch proc := opv.(type) {
		case *Builtin:
			if !proc.CheckArity(len(args)) {
				return nil, false, nil
			}
			v, err := proc.Fn(args)
			return v, err == nil, err
		case *HostFunction:
			if !proc.CheckArity(len(args)) {
				return nil, false, nil
			}
			v, err := proc.Fn(args)
			return v, err == nil, err
		default:
			return nil, false, nil
		}
	default:
		return nil, false, nil
	}
}

// evalDirectOrFull runs x through evalDirect, falling back to the full
// trampolined Eval when the restricted grammar can't handle it.
func (e *Evaluator) evalDirectOrFull(x Expr, env *Environment) (Value, error) {
	if v, ok, err := e.evalDirect(x, env); ok || err != nil {
		return v, err
	}
	return e.Eval(x, env)
}

// tryNativeDoLoop attempts the native CountingLoop fast path (§4.6.4). It
// returns handled=false whenever the loop isn't a recognized-and-hot
// CountingLoop, leaving the caller to run the generic CPS do-loop.
func (e *Evaluator) tryNativeDoLoop(x DoExpr, env *Environment, k Continuation) (Bounce, bool, error) {
	varName, ok := classifyCountingLoop(x)
	if !ok || anyEscapeForm(x.Body) || containsEscapeForm(x.Test) || anyEscapeForm(x.Results) {
		return Bounce{}, false, nil
	}
	fp := fingerprintDoExpr(x)
	strat, cached := e.jit.get(fp)
	if !cached {
		hits := e.jit.recordHit(fp)
		if hits < e.jit.threshold {
			return Bounce{}, false, nil
		}
		strat = &loopStrategy{VarName: varName, Diagnostics: LoopDiagnostics{
			Pattern: patternCounting, PredictedExecutionRate: 1.0,
			MemoryOverhead: 0, CacheLocality: "high",
		}}
		e.jit.put(fp, strat)
	}

	b := x.Bindings[0]
	initV, ok, err := e.evalDirect(b.Init, env)
	if err != nil {
		return Bounce{}, true, err
	}
	if !ok {
		return Bounce{}, false, nil
	}
	cur, isInt := initV.(Integer)
	if !isInt {
		return Bounce{}, false, nil
	}

	child := env.Extend()
	child.Define(strat.VarName, cur)
	for {
		testV, err := e.evalDirectOrFull(x.Test, child)
		if err != nil {
			return Bounce{}, true, err
		}
		if IsTruthy(testV) {
			v, err := e.evalSequenceDirectOrFull(x.Results, child)
			if err != nil {
				return Bounce{}, true, err
			}
			return Bounce{Mode: bounceApply, Cont: k, Value: v}, true, nil
		}
		if _, err := e.evalSequenceDirectOrFull(x.Body, child); err != nil {
			return Bounce{}, true, err
		}
		nextV, err := e.evalDirectOrFull(b.Step, child)
		if err != nil {
			return Bounce{}, true, err
		}
		next, isInt := nextV.(Integer)
		if !isInt {
			return Bounce{}, false, nil
		}
		child.Set(strat.VarName, next)
	}
}

// evalSequenceDirectOrFull evaluates exprs in order for effect, returning
// the last one's value (or Unspecified for an empty sequence).
func (e *Evaluator) evalSequenceDirectOrFull(exprs []Expr, env *Environment) (Value, error) {
	if len(exprs) == 0 {
		return Unspecified, nil
	}
	var v Value = Unspecified
	for _, x := range exprs {
		var err error
		v, err = e.evalDirectOrFull(x, env)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}
