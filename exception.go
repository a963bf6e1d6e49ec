// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// guardHandler is the internal handler entry installed by guard (§4.4.2:
// "guard is sugar over with-exception-handler"). Unlike an
// ordinary with-exception-handler procedure, firing it never returns —
// it performs a non-local exit straight to the guard's clause-dispatch
// continuation, the way an escaping CapturedContinuation does, because
// guard must abandon the dynamic extent of its body rather than resume
// it.
type guardHandler struct {
	target            *GuardClauseCont
	savedHandlerDepth int
}

func (*guardHandler) value()           {}
func (*guardHandler) ProcName() string { return "guard" }

// raise implements both raise (continuable=false) and raise-continuable
// (continuable=true) (§4.4.2, §4.8). It consults e.Handlers directly
// rather than walking the continuation chain: R7RS's exception-handler
// stack is a dynamic-extent concept distinct from the continuation
// structure, the same way dynamic-wind points (dynamicwind.go) are
// tracked separately from continuations.
//
// Only explicitly raised values reach here — EvalErrors of every other
// Kind (syntax, arity, type, runtime, stack-overflow) are evaluator-
// detected host faults, not Scheme-level conditions, and propagate
// straight out of Eval uncaught (DESIGN.md, exception.go entry).
// raise pops the top handler only for the duration of the handler call
// (R7RS: "the handler is called with the same dynamic environment as
// that of the call to raise, except that the current exception handler
// is the one that was installed when the handler being called was
// installed" — i.e. a nested raise inside the handler must reach the
// next outer handler, not re-enter this one). A guard escapes and never
// resumes, so its pop is permanent (truncated to the depth saved at
// guard entry). An ordinary handler may return on raise-continuable, in
// which case RaiseResumeCont restores the popped handler before
// resuming, so the only pop that survives a normal call is the single
// one ExceptionHandlerCont performs when the enclosing
// with-exception-handler thunk completes.
func (e *Evaluator) raise(v Value, continuable bool, k Continuation) (Bounce, error) {
	if len(e.Handlers) == 0 {
		return Bounce{}, newException(v)
	}
	n := len(e.Handlers)
	top := e.Handlers[n-1]
	e.Handlers = e.Handlers[:n-1]

	if g, ok := top.(*guardHandler); ok {
		e.Handlers = e.Handlers[:g.savedHandlerDepth]
		return Bounce{Mode: bounceApply, Cont: g.target, Value: v}, nil
	}

	rk := &RaiseResumeCont{base: base{parent: k}, Continuable: continuable, Handler: top}
	return e.applyProcedure(top, []Value{v}, rk)
}
