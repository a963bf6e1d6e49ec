// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// doBodyDoneCont discards the do-body's value (evaluated purely for
// effect) and starts the step-expression evaluation phase (§4.4.1: "do
// evaluates all step expressions before assigning any of them").
type doBodyDoneCont struct {
	base
	Bindings []DoBinding
	Test     Expr
	Results  []Expr
	Env      *Environment
}

func (*doBodyDoneCont) cont()                              {}
func (*doBodyDoneCont) continuationType() ContinuationType { return ContDoLoop }

// doStepAccumulateCont accumulates step values left-to-right; only once
// every step has been evaluated are the bindings reassigned, all at once
// (§4.4.1 "batch step-then-assign").
type doStepAccumulateCont struct {
	base
	Names       []string
	Accumulated []Value
	RemSteps    []Expr
	Test        Expr
	Results     []Expr
	Bindings    []DoBinding
	Env         *Environment
}

func (*doStepAccumulateCont) cont()                              {}
func (*doStepAccumulateCont) continuationType() ContinuationType { return ContDoLoop }

// evalDo evaluates every binding's Init in env (none see each other, like
// let), binds them into a fresh child frame, then enters the test/body/
// step loop (§4.4.1).
func (e *Evaluator) evalDo(x DoExpr, env *Environment, k Continuation) (Bounce, error) {
	if e.Config.EnableNativeIteration {
		if nb, handled, err := e.tryNativeDoLoop(x, env, k); handled {
			return nb, err
		}
	}
	child := env.Extend()
	if len(x.Bindings) == 0 {
		dk := &DoCont{base: base{parent: k}, Bindings: x.Bindings, Test: x.Test, Results: x.Results, Body: x.Body, Env: child}
		return Bounce{Mode: bounceEval, Expr: x.Test, Env: child, Cont: dk}, nil
	}
	rest := make([]LetBinding, len(x.Bindings)-1)
	for i, b := range x.Bindings[1:] {
		rest[i] = LetBinding{Name: b.Name, Init: b.Init}
	}
	lk := &letBindCont{
		base:      base{parent: &doEnterLoopCont{base: base{parent: k}, Bindings: x.Bindings, Test: x.Test, Results: x.Results, Body: x.Body, Child: child}},
		Names:     doBindingNames(x.Bindings),
		Remaining: rest,
		Body:      nil,
		Outer:     env,
		Child:     child,
	}
	return Bounce{Mode: bounceEval, Expr: x.Bindings[0].Init, Env: env, Cont: lk}, nil
}

// doEnterLoopCont receives letBindCont's Unspecified (from evaluating its
// empty Body) and starts the real loop by evaluating Test.
type doEnterLoopCont struct {
	base
	Bindings []DoBinding
	Test     Expr
	Results  []Expr
	Body     []Expr
	Child    *Environment
}

func (*doEnterLoopCont) cont()                              {}
func (*doEnterLoopCont) continuationType() ContinuationType { return ContDoLoop }

func doBindingNames(bs []DoBinding) []string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
	}
	return names
}

func doStepExpr(b DoBinding) Expr {
	if b.Step != nil {
		return b.Step
	}
	return Variable{Name: b.Name}
}

// stepDo handles a DoCont receiving Test's value: done (evaluate
// Results) or another iteration (evaluate Body, then steps) (§4.4.1).
func (e *Evaluator) stepDo(testValue Value, f *DoCont) (Bounce, error) {
	if IsTruthy(testValue) {
		return e.evalSequence(f.Results, f.Env, f.Parent())
	}
	bk := &doBodyDoneCont{base: base{parent: f.Parent()}, Bindings: f.Bindings, Test: f.Test, Results: f.Results, Env: f.Env}
	return e.evalSequence(f.Body, f.Env, bk)
}

// continueDoBody begins step evaluation once the body sequence finishes.
func (e *Evaluator) continueDoBody(f *doBodyDoneCont) (Bounce, error) {
	if len(f.Bindings) == 0 {
		dk := &DoCont{base: base{parent: f.Parent()}, Bindings: f.Bindings, Test: f.Test, Results: f.Results, Body: nil, Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Test, Env: f.Env, Cont: dk}, nil
	}
	names := doBindingNames(f.Bindings)
	steps := make([]Expr, len(f.Bindings))
	for i, b := range f.Bindings {
		steps[i] = doStepExpr(b)
	}
	sk := &doStepAccumulateCont{
		base: base{parent: f.Parent()}, Names: names, RemSteps: steps[1:],
		Test: f.Test, Results: f.Results, Bindings: f.Bindings, Env: f.Env,
	}
	return Bounce{Mode: bounceEval, Expr: steps[0], Env: f.Env, Cont: sk}, nil
}

// finishDoStep handles a doStepAccumulateCont receiving one step value.
func (e *Evaluator) finishDoStep(v Value, f *doStepAccumulateCont) (Bounce, error) {
	acc := append(f.Accumulated, v)
	if len(f.RemSteps) == 0 {
		for i, name := range f.Names {
			f.Env.Set(name, acc[i])
		}
		dk := &DoCont{base: base{parent: f.Parent()}, Bindings: f.Bindings, Test: f.Test, Results: f.Results, Body: nil, Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Test, Env: f.Env, Cont: dk}, nil
	}
	nk := &doStepAccumulateCont{
		base: base{parent: f.Parent()}, Names: f.Names, Accumulated: acc, RemSteps: f.RemSteps[1:],
		Test: f.Test, Results: f.Results, Bindings: f.Bindings, Env: f.Env,
	}
	return Bounce{Mode: bounceEval, Expr: f.RemSteps[0], Env: f.Env, Cont: nk}, nil
}
