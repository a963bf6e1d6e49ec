// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// Evaluator holds everything a single evaluation thread needs: the
// global environment, the heap, frame pools, the dynamic-wind and
// exception-handler stacks, and tuning config. One Evaluator serves one
// logical thread of Scheme execution (§4, §5); Runtime (runtime.go)
// coordinates a pool of them.
type Evaluator struct {
	Global   *Environment
	Store    *Store
	Frames   *FramePool
	Winds    *DynamicWindStack
	Handlers []Value // with-exception-handler stack, innermost last (exception.go)
	Config   *EvaluatorConfig
	jit      *jitCache
	Modules  ModuleResolver // optional; nil means only built-in library specs resolve (import.go)
}

// NewEvaluator creates an Evaluator with a fresh global environment and
// the given config (nil selects DefaultConfig).
func NewEvaluator(cfg *EvaluatorConfig) *Evaluator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	store := NewStore()
	store.SetMemoryLimit(cfg.MemoryLimit)
	e := &Evaluator{
		Global: NewGlobalEnvironment(),
		Store:  store,
		Frames: NewFramePool(),
		Winds:  NewDynamicWindStack(),
		Config: cfg,
		jit:    newJITCache(cfg.JITPatternCacheSize),
	}
	e.Frames.maxSize = cfg.FramePoolMax
	RegisterPrimitives(e.Global)
	e.Global.Define("force", &HostFunction{Name: "force", MinArity: 1, MaxArity: 1, Fn: e.primForce})
	return e
}

// Eval evaluates expr in env (env's ancestry must eventually reach, or
// stand in for, e.Global) to completion, driving the trampoline with the
// terminal IdentityCont (§4.4, §4.5).
func (e *Evaluator) Eval(expr Expr, env *Environment) (Value, error) {
	return e.trampoline(Bounce{Mode: bounceEval, Expr: expr, Env: env, Cont: &IdentityCont{}})
}

// evalStep performs exactly one evaluation step: either it fully reduces
// expr to a value and hands it to the continuation (bounceApply), or it
// installs a new continuation and asks for a subexpression to be
// evaluated next (bounceEval). Every case returns, never recurses, into
// evalStep or applyCont itself — recursion through the trampoline loop
// is what keeps the host stack flat (§4.4, §4.5, §4.6.1).
func (e *Evaluator) evalStep(expr Expr, env *Environment, k Continuation) (Bounce, error) {
	switch x := expr.(type) {
	case Literal:
		return Bounce{Mode: bounceApply, Cont: k, Value: x.Val}, nil

	case Variable:
		v, ok := env.Get(x.Name)
		if !ok {
			return Bounce{}, newUndefinedVariable(x.Name)
		}
		return Bounce{Mode: bounceApply, Cont: k, Value: v}, nil

	case QuoteExpr:
		return Bounce{Mode: bounceApply, Cont: k, Value: x.Datum}, nil

	case QuasiquoteExpr:
		return Bounce{Mode: bounceApply, Cont: k, Value: x.Datum}, nil

	case VectorExpr:
		if len(x.Elements) == 0 {
			return Bounce{Mode: bounceApply, Cont: k, Value: &Vector{}}, nil
		}
		vk := &VectorEvalCont{base: base{parent: k}, Remaining: x.Elements[1:], Env: env}
		return Bounce{Mode: bounceEval, Expr: x.Elements[0], Env: env, Cont: vk}, nil

	case IfExpr:
		ik := &IfTestCont{base: base{parent: k}, Then: x.Then, Else: x.Else, Env: env}
		return Bounce{Mode: bounceEval, Expr: x.Test, Env: env, Cont: ik}, nil

	case LambdaExpr:
		l := &Lambda{Name: x.Name, Params: x.Params, Variadic: x.Variadic, Body: x.Body, Env: env}
		return Bounce{Mode: bounceApply, Cont: k, Value: l}, nil

	case DefineExpr:
		dk := &DefineCont{base: base{parent: k}, Var: x.Name, Env: env}
		return Bounce{Mode: bounceEval, Expr: x.ValueExpr, Env: env, Cont: dk}, nil

	case DefineFuncExpr:
		l := &Lambda{Name: x.Name, Params: x.Params, Variadic: x.Variadic, Body: x.Body, Env: env}
		env.Define(x.Name, l)
		return Bounce{Mode: bounceApply, Cont: k, Value: Unspecified}, nil

	case SetExpr:
		sk := &AssignmentCont{base: base{parent: k}, Var: x.Name, Env: env}
		return Bounce{Mode: bounceEval, Expr: x.ValueExpr, Env: env, Cont: sk}, nil

	case BeginExpr:
		return e.evalSequence(x.Exprs, env, k)

	case AndExpr:
		if len(x.Exprs) == 0 {
			return Bounce{Mode: bounceApply, Cont: k, Value: Boolean(true)}, nil
		}
		ak := &AndCont{base: base{parent: k}, Remaining: x.Exprs[1:], Env: env}
		return Bounce{Mode: bounceEval, Expr: x.Exprs[0], Env: env, Cont: ak}, nil

	case OrExpr:
		if len(x.Exprs) == 0 {
			return Bounce{Mode: bounceApply, Cont: k, Value: Boolean(false)}, nil
		}
		ok := &OrCont{base: base{parent: k}, Remaining: x.Exprs[1:], Env: env}
		return Bounce{Mode: bounceEval, Expr: x.Exprs[0], Env: env, Cont: ok}, nil

	case CondExpr:
		return e.evalCond(x.Clauses, env, k)

	case CaseExpr:
		return e.evalCase(x, env, k)

	case LetExpr:
		return e.evalLet(x, env, k)

	case LetStarExpr:
		return e.evalLetStar(x, env, k)

	case LetrecExpr:
		return e.evalLetrec(x, env, k)

	case DoExpr:
		return e.evalDo(x, env, k)

	case DelayExpr:
		return Bounce{Mode: bounceApply, Cont: k, Value: &Promise{Expr: x.Body, Env: env}}, nil

	case CallCCExpr:
		ck := &CallCcCont{base: base{parent: k}, Env: env}
		return Bounce{Mode: bounceEval, Expr: x.Proc, Env: env, Cont: ck}, nil

	case DynamicWindExpr:
		return e.evalDynamicWind(x, env, k)

	case CallWithValuesExpr:
		return e.evalCallWithValues(x, env, k)

	case ValuesExpr:
		if len(x.Exprs) == 0 {
			return Bounce{Mode: bounceApply, Cont: k, Value: &Values{}}, nil
		}
		vk := &ValuesAccumulateCont{base: base{parent: k}, Remaining: x.Exprs[1:], Env: env}
		return Bounce{Mode: bounceEval, Expr: x.Exprs[0], Env: env, Cont: vk}, nil

	case GuardExpr:
		return e.evalGuard(x, env, k)

	case RaiseExpr:
		rk := &raiseValueCont{base: base{parent: k}, Continuable: x.Continuable}
		return Bounce{Mode: bounceEval, Expr: x.Obj, Env: env, Cont: rk}, nil

	case WithExceptionHandlerExpr:
		hk := &withExceptionHandlerHandlerCont{base: base{parent: k}, Thunk: x.Thunk, Env: env}
		return Bounce{Mode: bounceEval, Expr: x.Handler, Env: env, Cont: hk}, nil

	case ImportExpr:
		if err := e.performImport(x, env); err != nil {
			return Bounce{}, err
		}
		return Bounce{Mode: bounceApply, Cont: k, Value: Unspecified}, nil

	case ApplicationExpr:
		argExprs := x.Args
		if e.Config.ArgOrder == ArgOrderRightToLeft {
			argExprs = reverseExprs(argExprs)
		}
		ok := &OperatorCont{base: base{parent: k}, ArgExprs: argExprs, Env: env}
		return Bounce{Mode: bounceEval, Expr: x.Operator, Env: env, Cont: ok}, nil

	default:
		return Bounce{}, newSyntaxError("unhandled expression type %T", expr)
	}
}

// evalSequence evaluates exprs in order; all but the last are evaluated
// for effect only (§4.5 Begin).
func (e *Evaluator) evalSequence(exprs []Expr, env *Environment, k Continuation) (Bounce, error) {
	if len(exprs) == 0 {
		return Bounce{Mode: bounceApply, Cont: k, Value: Unspecified}, nil
	}
	if len(exprs) == 1 {
		return Bounce{Mode: bounceEval, Expr: exprs[0], Env: env, Cont: k}, nil
	}
	bk := &BeginCont{base: base{parent: k}, Remaining: exprs[1:], Env: env}
	return Bounce{Mode: bounceEval, Expr: exprs[0], Env: env, Cont: bk}, nil
}

func (e *Evaluator) evalCond(clauses []CondClause, env *Environment, k Continuation) (Bounce, error) {
	if len(clauses) == 0 {
		return Bounce{Mode: bounceApply, Cont: k, Value: Unspecified}, nil
	}
	head, rest := clauses[0], clauses[1:]
	if head.IsElse {
		return e.evalSequence(head.Body, env, k)
	}
	ck := &CondTestCont{base: base{parent: k}, Consequent: head.Body, Remaining: rest, Env: env}
	return Bounce{Mode: bounceEval, Expr: head.Test, Env: env, Cont: ck}, nil
}

// evalCase expands case into an equivalent cond against Key's value
// (§4.4 Cond/Case).
func (e *Evaluator) evalCase(x CaseExpr, env *Environment, k Continuation) (Bounce, error) {
	kk := &caseKeyCont{base: base{parent: k}, Clauses: x.Clauses, Env: env}
	return Bounce{Mode: bounceEval, Expr: x.Key, Env: env, Cont: kk}, nil
}

func (e *Evaluator) evalLet(x LetExpr, env *Environment, k Continuation) (Bounce, error) {
	if x.Name != "" {
		// Named let: equivalent to
		//   (letrec ((name (lambda (params...) body...))) (name inits...))
		params := make([]string, len(x.Bindings))
		args := make([]Expr, len(x.Bindings))
		for i, b := range x.Bindings {
			params[i] = b.Name
			args[i] = b.Init
		}
		loopEnv := env.Extend()
		loopEnv.Define(x.Name, Unspecified)
		l := &Lambda{Name: x.Name, Params: params, Body: x.Body, Env: loopEnv}
		loopEnv.Define(x.Name, l)
		ok := &OperatorCont{base: base{parent: k}, ArgExprs: args, Env: env}
		return Bounce{Mode: bounceApply, Cont: ok, Value: l}, nil
	}
	child := env.Extend()
	if len(x.Bindings) == 0 {
		return e.evalSequence(x.Body, child, k)
	}
	lk := &letBindCont{base: base{parent: k}, Names: bindingNames(x.Bindings), Remaining: x.Bindings[1:], Body: x.Body, Outer: env, Child: child}
	return Bounce{Mode: bounceEval, Expr: x.Bindings[0].Init, Env: env, Cont: lk}, nil
}

func (e *Evaluator) evalLetStar(x LetStarExpr, env *Environment, k Continuation) (Bounce, error) {
	child := env.Extend()
	if len(x.Bindings) == 0 {
		return e.evalSequence(x.Body, child, k)
	}
	lk := &letStarBindCont{base: base{parent: k}, Remaining: x.Bindings[1:], Body: x.Body, Env: child, Name: x.Bindings[0].Name}
	return Bounce{Mode: bounceEval, Expr: x.Bindings[0].Init, Env: child, Cont: lk}, nil
}

func (e *Evaluator) evalLetrec(x LetrecExpr, env *Environment, k Continuation) (Bounce, error) {
	child := env.Extend()
	for _, b := range x.Bindings {
		child.Define(b.Name, Unspecified)
	}
	if len(x.Bindings) == 0 {
		return e.evalSequence(x.Body, child, k)
	}
	lk := &letrecInitCont{base: base{parent: k}, Name: x.Bindings[0].Name, Remaining: x.Bindings[1:], Body: x.Body, Env: child}
	return Bounce{Mode: bounceEval, Expr: x.Bindings[0].Init, Env: child, Cont: lk}, nil
}

func (e *Evaluator) evalDynamicWind(x DynamicWindExpr, env *Environment, k Continuation) (Bounce, error) {
	dk := &dynamicWindBeforeEvalCont{base: base{parent: k}, Thunk: x.Thunk, After: x.After, Env: env}
	return Bounce{Mode: bounceEval, Expr: x.Before, Env: env, Cont: dk}, nil
}

func (e *Evaluator) evalCallWithValues(x CallWithValuesExpr, env *Environment, k Continuation) (Bounce, error) {
	ck := &callWithValuesConsumerCont{base: base{parent: k}, Producer: x.Producer, Env: env}
	return Bounce{Mode: bounceEval, Expr: x.Consumer, Env: env, Cont: ck}, nil
}

func (e *Evaluator) evalGuard(x GuardExpr, env *Environment, k Continuation) (Bounce, error) {
	depth := len(e.Handlers)
	gk := &GuardClauseCont{base: base{parent: k}, CondVar: x.Var, Clauses: x.Clauses, Env: env, HandlerDepth: depth}
	e.Handlers = append(e.Handlers, &guardHandler{target: gk, savedHandlerDepth: depth})
	return e.evalSequence(x.Body, env, &ExceptionHandlerCont{base: base{parent: k}, Env: env})
}

// evalGuardClauses dispatches guard's clauses against the raised value,
// bound to CondVar in a fresh child of f.Env (§4.4.2).
func (e *Evaluator) evalGuardClauses(condValue Value, f *GuardClauseCont, k Continuation) (Bounce, error) {
	env := f.Env.Extend()
	if f.CondVar != "" {
		env.Define(f.CondVar, condValue)
	}
	return e.evalGuardCondClauses(f.Clauses, env, k, condValue)
}

// evalGuardCondClauses is evalCond's counterpart for guard: exhausting
// every clause re-raises Reraise in the now-outer dynamic extent rather
// than yielding Unspecified (§4.4.2).
func (e *Evaluator) evalGuardCondClauses(clauses []CondClause, env *Environment, k Continuation, reraise Value) (Bounce, error) {
	if len(clauses) == 0 {
		return e.raise(reraise, false, k)
	}
	head, rest := clauses[0], clauses[1:]
	if head.IsElse {
		return e.evalSequence(head.Body, env, k)
	}
	ck := &guardCondTestCont{base: base{parent: k}, Consequent: head.Body, Remaining: rest, Env: env, Reraise: reraise}
	return Bounce{Mode: bounceEval, Expr: head.Test, Env: env, Cont: ck}, nil
}

// evalCaseClauses matches keyValue against each clause's literal datum
// set using eqv?-style equality, expanding case to an equivalent cond
// (§4.4 Cond/Case).
func (e *Evaluator) evalCaseClauses(keyValue Value, clauses []CaseClause, env *Environment, k Continuation) (Bounce, error) {
	for _, c := range clauses {
		if c.IsElse {
			return e.evalSequence(c.Body, env, k)
		}
		for _, d := range c.Datums {
			if literalEqv(keyValue, d) {
				return e.evalSequence(c.Body, env, k)
			}
		}
	}
	return Bounce{Mode: bounceApply, Cont: k, Value: Unspecified}, nil
}

// literalEqv is an eqv?-shaped equality used for case-clause matching:
// same type and same value for the simple numeric/character/boolean
// literals case labels are restricted to, pointer identity for interned
// symbols (§4.4 Cond/Case).
func literalEqv(a, b Value) bool {
	switch x := a.(type) {
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Real:
		y, ok := b.(Real)
		return ok && x == y
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case Character:
		y, ok := b.(Character)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *Symbol:
		y, ok := b.(*Symbol)
		return ok && x == y
	case nilValue:
		_, ok := b.(nilValue)
		return ok
	default:
		return a == b
	}
}

func reverseExprs(in []Expr) []Expr {
	out := make([]Expr, len(in))
	for i, x := range in {
		out[len(in)-1-i] = x
	}
	return out
}

func bindingNames(bs []LetBinding) []string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
	}
	return names
}
