// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// auxcont.go holds continuation frames that are implementation plumbing
// for special forms whose surface behavior is described in §4.4/§4.4.1/
// §4.4.2 but whose step-by-step evaluation needs more intermediate
// points than §3's table enumerates (case's expansion to cond, let's
// simultaneous-binding evaluation order, and so on). Each is still an
// ordinary Continuation variant — dispatched in apply.go the same way as
// the §3 table frames in frame.go.

// caseKeyCont holds case's clauses while its key expression evaluates.
type caseKeyCont struct {
	base
	Clauses []CaseClause
	Env     *Environment
}

func (*caseKeyCont) cont()                              {}
func (*caseKeyCont) continuationType() ContinuationType { return ContControlFlow }

// letBindCont accumulates let's binding values (all evaluated in the
// outer environment, per §4.4 Let/Let*/Letrec: "let inits see only
// outer bindings") before extending Child with all of them at once.
type letBindCont struct {
	base
	Names     []string
	Values    []Value
	Remaining []LetBinding
	Body      []Expr
	Outer     *Environment
	Child     *Environment
}

func (*letBindCont) cont()                              {}
func (*letBindCont) continuationType() ContinuationType { return ContSimple }

// letStarBindCont binds each value into Env immediately, so the next
// init expression (evaluated in the same Env) already sees it (§4.4
// Let/Let*/Letrec).
type letStarBindCont struct {
	base
	Name      string
	Remaining []LetBinding
	Body      []Expr
	Env       *Environment
}

func (*letStarBindCont) cont()                              {}
func (*letStarBindCont) continuationType() ContinuationType { return ContSimple }

// letrecInitCont assigns each initializer's value into the
// already-Unspecified-bound Env, enabling mutual recursion among the
// bindings (§4.4 Let/Let*/Letrec).
type letrecInitCont struct {
	base
	Name      string
	Remaining []LetBinding
	Body      []Expr
	Env       *Environment
}

func (*letrecInitCont) cont()                              {}
func (*letrecInitCont) continuationType() ContinuationType { return ContSimple }

// The four dynamicWind*Cont types below sequence dynamic-wind's setup:
// evaluate Before to a procedure, call it, evaluate After to a
// procedure, evaluate Thunk to a procedure, push the dynamic point, and
// only then call Thunk under the DynamicWindCont that will pop the point
// again on normal return (§4.4 Dynamic-wind, §4.8). Each one holds
// exactly the state still needed for the next leg.

type dynamicWindBeforeEvalCont struct {
	base
	Thunk, After Expr
	Env          *Environment
}

func (*dynamicWindBeforeEvalCont) cont()                              {}
func (*dynamicWindBeforeEvalCont) continuationType() ContinuationType { return ContControlFlow }

type dynamicWindAfterEvalCont struct {
	base
	BeforeProc   Value
	Thunk, After Expr
	Env          *Environment
}

func (*dynamicWindAfterEvalCont) cont()                              {}
func (*dynamicWindAfterEvalCont) continuationType() ContinuationType { return ContControlFlow }

type dynamicWindThunkEvalCont struct {
	base
	BeforeProc Value
	Thunk      Expr
	Env        *Environment
}

func (*dynamicWindThunkEvalCont) cont()                              {}
func (*dynamicWindThunkEvalCont) continuationType() ContinuationType { return ContControlFlow }

type dynamicWindCallThunkCont struct {
	base
	BeforeProc, AfterProc Value
}

func (*dynamicWindCallThunkCont) cont()                              {}
func (*dynamicWindCallThunkCont) continuationType() ContinuationType { return ContControlFlow }

// dynamicWindFinishCont discards the after-thunk's result and forwards
// the main thunk's result, which is what dynamic-wind as a whole
// evaluates to (§4.4 Dynamic-wind: after's return value is unspecified).
type dynamicWindFinishCont struct {
	base
	Result Value
}

func (*dynamicWindFinishCont) cont()                              {}
func (*dynamicWindFinishCont) continuationType() ContinuationType { return ContControlFlow }

// callWithValuesConsumerCont holds the not-yet-evaluated Producer while
// the Consumer expression evaluates to a procedure value (§4.4
// Call-with-values).
type callWithValuesConsumerCont struct {
	base
	Producer Expr
	Env      *Environment
}

func (*callWithValuesConsumerCont) cont()                              {}
func (*callWithValuesConsumerCont) continuationType() ContinuationType { return ContControlFlow }

// withExceptionHandlerHandlerCont holds Thunk while Handler evaluates to
// a procedure value; on receiving it, pushes the handler and evaluates
// Thunk under an ExceptionHandlerCont that pops it again on normal
// return (§4.4.2, §4.8).
type withExceptionHandlerHandlerCont struct {
	base
	Thunk Expr
	Env   *Environment
}

func (*withExceptionHandlerHandlerCont) cont()                              {}
func (*withExceptionHandlerHandlerCont) continuationType() ContinuationType { return ContException }

// raiseValueCont holds whether this is raise or raise-continuable while
// the raised object's expression evaluates (§4.4.2, §4.8).
type raiseValueCont struct {
	base
	Continuable bool
}

func (*raiseValueCont) cont()                              {}
func (*raiseValueCont) continuationType() ContinuationType { return ContException }

// guardCondTestCont is CondTestCont's counterpart for guard clauses: on
// exhaustion it re-raises Reraise instead of yielding Unspecified (§4.4.2:
// "guard re-raises the condition if no clause matches").
type guardCondTestCont struct {
	base
	Consequent []Expr
	Remaining  []CondClause
	Env        *Environment
	Reraise    Value
}

func (*guardCondTestCont) cont()                              {}
func (*guardCondTestCont) continuationType() ContinuationType { return ContException }

// RaiseResumeCont is installed around an ordinary (non-guard) handler
// call; if the handler returns, its value resumes the original
// raise-continuable call site, or it is an error for a non-continuable
// raise (§4.8: "it is an error for handler to return"). Handler is the
// entry raise popped off e.Handlers to make the call — R7RS removes a
// handler only for the duration of its own invocation, so a continuable
// return must restore it before resuming, leaving the single pop on
// normal thunk completion (ExceptionHandlerCont) as the only removal
// that sticks.
type RaiseResumeCont struct {
	base
	Continuable bool
	Handler     Value
}

func (*RaiseResumeCont) cont()                              {}
func (*RaiseResumeCont) continuationType() ContinuationType { return ContException }
