// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// applyCont dispatches on k's concrete type — the apply_cont half of the
// evaluator (§3 table, §4.5) — and returns the next Bounce. Like
// evalStep, every case returns rather than recurses.
func (e *Evaluator) applyCont(k Continuation, v Value) (Bounce, error) {
	switch f := k.(type) {
	case *IdentityCont:
		return Bounce{Mode: bounceDone, Value: v}, nil

	case *OperatorCont:
		if len(f.ArgExprs) == 0 {
			return e.applyProcedure(v, nil, f.Parent())
		}
		ak := &ApplicationCont{base: base{parent: f.Parent()}, Operator: v, Pending: f.ArgExprs[1:], Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.ArgExprs[0], Env: f.Env, Cont: ak}, nil

	case *ApplicationCont:
		args := append(f.Args, v)
		if len(f.Pending) == 0 {
			if e.Config.ArgOrder == ArgOrderRightToLeft {
				args = reverseValues(args)
			}
			return e.applyProcedure(f.Operator, args, f.Parent())
		}
		nk := &ApplicationCont{base: base{parent: f.Parent()}, Operator: f.Operator, Args: args, Pending: f.Pending[1:], Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Pending[0], Env: f.Env, Cont: nk}, nil

	case *IfTestCont:
		branch := f.Else
		if IsTruthy(v) {
			branch = f.Then
		}
		if branch == nil {
			return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: Unspecified}, nil
		}
		return Bounce{Mode: bounceEval, Expr: branch, Env: f.Env, Cont: f.Parent()}, nil

	case *CondTestCont:
		if IsTruthy(v) {
			return e.evalSequence(f.Consequent, f.Env, f.Parent())
		}
		return e.evalCond(f.Remaining, f.Env, f.Parent())

	case *BeginCont:
		return e.evalSequence(f.Remaining, f.Env, f.Parent())

	case *AndCont:
		if !IsTruthy(v) {
			return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: v}, nil
		}
		if len(f.Remaining) == 0 {
			return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: v}, nil
		}
		nk := &AndCont{base: base{parent: f.Parent()}, Remaining: f.Remaining[1:], Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Remaining[0], Env: f.Env, Cont: nk}, nil

	case *OrCont:
		if IsTruthy(v) {
			return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: v}, nil
		}
		if len(f.Remaining) == 0 {
			return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: v}, nil
		}
		nk := &OrCont{base: base{parent: f.Parent()}, Remaining: f.Remaining[1:], Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Remaining[0], Env: f.Env, Cont: nk}, nil

	case *AssignmentCont:
		if !f.Env.Set(f.Var, v) {
			return Bounce{}, newUndefinedVariable(f.Var)
		}
		return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: Unspecified}, nil

	case *DefineCont:
		f.Env.Define(f.Var, v)
		return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: Unspecified}, nil

	case *ValuesAccumulateCont:
		acc := append(f.Accumulated, v)
		if len(f.Remaining) == 0 {
			return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: &Values{Items: acc}}, nil
		}
		nk := &ValuesAccumulateCont{base: base{parent: f.Parent()}, Remaining: f.Remaining[1:], Accumulated: acc, Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Remaining[0], Env: f.Env, Cont: nk}, nil

	case *VectorEvalCont:
		items := append(f.Evaluated, v)
		if len(f.Remaining) == 0 {
			return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: &Vector{Items: items}}, nil
		}
		nk := &VectorEvalCont{base: base{parent: f.Parent()}, Evaluated: items, Remaining: f.Remaining[1:], Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Remaining[0], Env: f.Env, Cont: nk}, nil

	case *CallCcCont:
		parent := f.Parent()
		captured := &CapturedContinuation{Chain: &parent, Reusable: true, Winds: e.Winds.Snapshot()}
		return e.applyProcedure(v, []Value{captured}, f.Parent())

	case *CapturedCont:
		return Bounce{Mode: bounceApply, Cont: f.Inner, Value: v}, nil

	case *callWithValuesConsumerCont:
		s1 := &CallWithValuesStep1Cont{base: base{parent: f.Parent()}, Consumer: v, Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: ApplicationExpr{Operator: f.Producer}, Env: f.Env, Cont: s1}, nil

	case *CallWithValuesStep1Cont:
		var args []Value
		if vs, ok := v.(*Values); ok {
			args = vs.Items
		} else {
			args = []Value{v}
		}
		return e.applyProcedure(f.Consumer, args, f.Parent())

	case *DynamicWindCont:
		e.Winds.Pop(f.PointID)
		return e.applyProcedure(f.After, nil, &dynamicWindFinishCont{base: base{parent: f.Parent()}, Result: v})

	case *dynamicWindFinishCont:
		return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: f.Result}, nil

	case *dynamicWindBeforeEvalCont:
		bk := &dynamicWindAfterEvalCont{base: base{parent: f.Parent()}, BeforeProc: v, Thunk: f.Thunk, After: f.After, Env: f.Env}
		return e.applyProcedure(v, nil, bk)

	case *dynamicWindAfterEvalCont:
		return Bounce{Mode: bounceEval, Expr: f.After, Env: f.Env, Cont: &dynamicWindThunkEvalCont{base: base{parent: f.Parent()}, BeforeProc: f.BeforeProc, Thunk: f.Thunk, Env: f.Env}}, nil

	case *dynamicWindThunkEvalCont:
		return Bounce{Mode: bounceEval, Expr: f.Thunk, Env: f.Env, Cont: &dynamicWindCallThunkCont{base: base{parent: f.Parent()}, BeforeProc: f.BeforeProc, AfterProc: v}}, nil

	case *dynamicWindCallThunkCont:
		id := e.Winds.Push(f.BeforeProc, f.AfterProc)
		return e.applyProcedure(v, nil, &DynamicWindCont{base: base{parent: f.Parent()}, After: f.AfterProc, PointID: id})

	case *ExceptionHandlerCont:
		if n := len(e.Handlers); n > 0 {
			e.Handlers = e.Handlers[:n-1]
		}
		return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: v}, nil

	case *withExceptionHandlerHandlerCont:
		e.Handlers = append(e.Handlers, v)
		hk := &ExceptionHandlerCont{base: base{parent: f.Parent()}, Handler: v, Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Thunk, Env: f.Env, Cont: hk}, nil

	case *raiseValueCont:
		return e.raise(v, f.Continuable, f.Parent())

	case *RaiseResumeCont:
		if !f.Continuable {
			return Bounce{}, newRuntimeError("exception handler returned from a non-continuable raise")
		}
		e.Handlers = append(e.Handlers, f.Handler)
		return Bounce{Mode: bounceApply, Cont: f.Parent(), Value: v}, nil

	case *GuardClauseCont:
		if len(e.Handlers) > f.HandlerDepth {
			e.Handlers = e.Handlers[:f.HandlerDepth]
		}
		return e.evalGuardClauses(v, f, f.Parent())

	case *caseKeyCont:
		return e.evalCaseClauses(v, f.Clauses, f.Env, f.Parent())

	case *guardCondTestCont:
		if IsTruthy(v) {
			return e.evalSequence(f.Consequent, f.Env, f.Parent())
		}
		return e.evalGuardCondClauses(f.Remaining, f.Env, f.Parent(), f.Reraise)

	case *letBindCont:
		values := append(f.Values, v)
		if len(f.Remaining) == 0 {
			for i, name := range f.Names {
				f.Child.Define(name, values[i])
			}
			return e.evalSequence(f.Body, f.Child, f.Parent())
		}
		nk := &letBindCont{base: base{parent: f.Parent()}, Names: f.Names, Values: values, Remaining: f.Remaining[1:], Body: f.Body, Outer: f.Outer, Child: f.Child}
		return Bounce{Mode: bounceEval, Expr: f.Remaining[0].Init, Env: f.Outer, Cont: nk}, nil

	case *letStarBindCont:
		f.Env.Define(f.Name, v)
		if len(f.Remaining) == 0 {
			return e.evalSequence(f.Body, f.Env, f.Parent())
		}
		nk := &letStarBindCont{base: base{parent: f.Parent()}, Name: f.Remaining[0].Name, Remaining: f.Remaining[1:], Body: f.Body, Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Remaining[0].Init, Env: f.Env, Cont: nk}, nil

	case *letrecInitCont:
		f.Env.Define(f.Name, v)
		if len(f.Remaining) == 0 {
			return e.evalSequence(f.Body, f.Env, f.Parent())
		}
		nk := &letrecInitCont{base: base{parent: f.Parent()}, Name: f.Remaining[0].Name, Remaining: f.Remaining[1:], Body: f.Body, Env: f.Env}
		return Bounce{Mode: bounceEval, Expr: f.Remaining[0].Init, Env: f.Env, Cont: nk}, nil

	case *DoCont:
		return e.stepDo(v, f)

	case *doEnterLoopCont:
		dk := &DoCont{base: base{parent: f.Parent()}, Bindings: f.Bindings, Test: f.Test, Results: f.Results, Body: f.Body, Env: f.Child}
		return Bounce{Mode: bounceEval, Expr: f.Test, Env: f.Child, Cont: dk}, nil

	case *doBodyDoneCont:
		return e.continueDoBody(f)

	case *doStepAccumulateCont:
		return e.finishDoStep(v, f)

	default:
		return Bounce{}, newRuntimeError("unhandled continuation type %T", k)
	}
}

func reverseValues(in []Value) []Value {
	out := make([]Value, len(in))
	for i, x := range in {
		out[len(in)-1-i] = x
	}
	return out
}

// applyProcedure dispatches a procedure call by proc's concrete type
// (§4.4 Application, §4.4 Call/cc). It is the single call site every
// special form funnels through: ordinary application, call/cc invoking
// its captured continuation, call-with-values calling the consumer, and
// raise calling an installed handler.
func (e *Evaluator) applyProcedure(proc Value, args []Value, k Continuation) (Bounce, error) {
	switch p := proc.(type) {
	case *Lambda:
		child, err := p.Env.BindParameters(p.Params, p.Variadic, args)
		if err != nil {
			return Bounce{}, err
		}
		return e.evalSequence(p.Body, child, k)

	case *Builtin:
		if !p.CheckArity(len(args)) {
			return Bounce{}, newArityError(p.MinArity, p.MaxArity, len(args))
		}
		v, err := p.Fn(args)
		if err != nil {
			if ee, ok := AsEvalError(err); ok && ee.Kind == KindException {
				return e.raise(ee.Value, false, k)
			}
			return Bounce{}, err
		}
		return Bounce{Mode: bounceApply, Cont: k, Value: v}, nil

	case *HostFunction:
		if !p.CheckArity(len(args)) {
			return Bounce{}, newArityError(p.MinArity, p.MaxArity, len(args))
		}
		v, err := p.Fn(args)
		if err != nil {
			if ee, ok := AsEvalError(err); ok && ee.Kind == KindException {
				return e.raise(ee.Value, false, k)
			}
			return Bounce{}, err
		}
		return Bounce{Mode: bounceApply, Cont: k, Value: v}, nil

	case *CapturedContinuation:
		p.MarkInvoked()
		if err := e.performWindTransition(p.Winds); err != nil {
			return Bounce{}, err
		}
		var v Value
		switch len(args) {
		case 0:
			v = Unspecified
		case 1:
			v = args[0]
		default:
			v = &Values{Items: args}
		}
		return Bounce{Mode: bounceApply, Cont: *p.Chain, Value: v}, nil

	default:
		return Bounce{}, newTypeError("not a procedure: %s", Write(proc))
	}
}

// callThunkSync fully evaluates a zero-argument procedure call via a
// nested trampoline run, for contexts that need the result synchronously
// — dynamic-wind's before/after thunks around a non-local exit
// (performWindTransition) — rather than threading another continuation
// layer through the jump itself.
func (e *Evaluator) callThunkSync(proc Value) (Value, error) {
	if proc == nil {
		return Unspecified, nil
	}
	b, err := e.applyProcedure(proc, nil, &IdentityCont{})
	if err != nil {
		return nil, err
	}
	return e.trampoline(b)
}
