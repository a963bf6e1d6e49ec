// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// Expr is the expression-tree boundary type the evaluator consumes (§6
// External interfaces). scheval never lexes or parses; a host builds Exprs
// (directly, or by expanding macros down to these node shapes) and hands
// them to Eval.
type Expr interface {
	expr() // unexported marker method
}

// Literal is a self-evaluating datum (number, boolean, character, string,
// the keyword Unspecified value, ...).
type Literal struct{ Val Value }

func (Literal) expr() {}

// Variable is an identifier reference.
type Variable struct{ Name string }

func (Variable) expr() {}

// QuoteExpr converts its Datum to a value unchanged: symbols stay
// symbols, lists become nested Pairs, dotted lists stay improper (§4.4
// Quote).
type QuoteExpr struct{ Datum Value }

func (QuoteExpr) expr() {}

// QuasiquoteExpr is equivalent to QuoteExpr in this core; unquote and
// unquote-splicing are out of scope (§4.4 Quasiquote, §1 Non-goals).
type QuasiquoteExpr struct{ Datum Value }

func (QuasiquoteExpr) expr() {}

// VectorExpr is a vector literal whose elements are evaluated in order
// (§3 Continuation table, VectorEval).
type VectorExpr struct{ Elements []Expr }

func (VectorExpr) expr() {}

// IfExpr is the if special form. Else may be nil, meaning Unspecified.
type IfExpr struct {
	Test, Then, Else Expr
}

func (IfExpr) expr() {}

// LambdaExpr constructs a closure. Variadic arity collects trailing args
// into the final parameter as a list (§4.1 bind_parameters).
type LambdaExpr struct {
	Name     string // empty for anonymous lambdas; used only for diagnostics
	Params   []string
	Variadic bool
	Body     []Expr
}

func (LambdaExpr) expr() {}

// DefineExpr binds Name to the value of ValueExpr in the current frame.
type DefineExpr struct {
	Name      string
	ValueExpr Expr
}

func (DefineExpr) expr() {}

// DefineFuncExpr is (define (f params...) body...) sugar; the evaluator
// builds the LambdaExpr first, per §4.4 Define.
type DefineFuncExpr struct {
	Name     string
	Params   []string
	Variadic bool
	Body     []Expr
}

func (DefineFuncExpr) expr() {}

// SetExpr is set!.
type SetExpr struct {
	Name      string
	ValueExpr Expr
}

func (SetExpr) expr() {}

// BeginExpr evaluates Exprs in order; only the last is in tail position.
type BeginExpr struct{ Exprs []Expr }

func (BeginExpr) expr() {}

// AndExpr short-circuits on the first falsy value.
type AndExpr struct{ Exprs []Expr }

func (AndExpr) expr() {}

// OrExpr short-circuits on the first truthy value.
type OrExpr struct{ Exprs []Expr }

func (OrExpr) expr() {}

// CondClause is one clause of cond or guard.
type CondClause struct {
	Test   Expr // nil when IsElse
	IsElse bool
	Body   []Expr
}

// CondExpr is the cond special form. else is only valid as the last
// clause (§4.4 Cond/Case).
type CondExpr struct{ Clauses []CondClause }

func (CondExpr) expr() {}

// CaseClause is one clause of case: a literal datum set or else.
type CaseClause struct {
	Datums []Value
	IsElse bool
	Body   []Expr
}

// CaseExpr is case, expanded by the evaluator into an equivalent cond
// (§4.4 Cond/Case: "case is implemented by macro expansion to cond").
type CaseExpr struct {
	Key     Expr
	Clauses []CaseClause
}

func (CaseExpr) expr() {}

// LetBinding is one (name init) pair shared by let/let*/letrec/do.
type LetBinding struct {
	Name string
	Init Expr
}

// LetExpr is let, including named let (Name != ""), which the evaluator
// expands into a letrec-bound self-recursive lambda applied to the
// binding inits.
type LetExpr struct {
	Name     string // non-empty for named let
	Bindings []LetBinding
	Body     []Expr
}

func (LetExpr) expr() {}

// LetStarExpr is let*: each init sees the previous bindings.
type LetStarExpr struct {
	Bindings []LetBinding
	Body     []Expr
}

func (LetStarExpr) expr() {}

// LetrecExpr is letrec: all names are bound to Unspecified first, then
// initializers run in the new environment, so mutual recursion works
// (§4.4 Let/Let*/Letrec).
type LetrecExpr struct {
	Bindings []LetBinding
	Body     []Expr
}

func (LetrecExpr) expr() {}

// DoBinding is one (var init step) triple; Step is nil when the variable
// has no step expression (§4.4.1).
type DoBinding struct {
	Name string
	Init Expr
	Step Expr
}

// DoExpr is the do special form.
type DoExpr struct {
	Bindings []DoBinding
	Test     Expr
	Results  []Expr
	Body     []Expr
}

func (DoExpr) expr() {}

// DelayExpr constructs a Lazy promise closing over Body and the
// evaluation environment (§4.4 Delay/Lazy).
type DelayExpr struct{ Body Expr }

func (DelayExpr) expr() {}

// CallCCExpr is call/cc (§4.4 Call/cc, §6 External interfaces node list).
type CallCCExpr struct{ Proc Expr }

func (CallCCExpr) expr() {}

// DynamicWindExpr is dynamic-wind: Before, Thunk, After are each
// zero-argument procedure expressions (§4.4 Dynamic-wind).
type DynamicWindExpr struct {
	Before, Thunk, After Expr
}

func (DynamicWindExpr) expr() {}

// CallWithValuesExpr is call-with-values (§4.4 Call-with-values).
type CallWithValuesExpr struct {
	Producer, Consumer Expr
}

func (CallWithValuesExpr) expr() {}

// ValuesExpr constructs a multiple-value tuple (§4.4 Values).
type ValuesExpr struct{ Exprs []Expr }

func (ValuesExpr) expr() {}

// GuardExpr is guard, sugar over with-exception-handler (§4.4.2).
type GuardExpr struct {
	Var     string
	Clauses []CondClause
	Body    []Expr
}

func (GuardExpr) expr() {}

// RaiseExpr is raise (Continuable false) or raise-continuable (Continuable
// true) (§4.4.2, §4.8).
type RaiseExpr struct {
	Obj         Expr
	Continuable bool
}

func (RaiseExpr) expr() {}

// WithExceptionHandlerExpr is with-exception-handler: Handler evaluates to
// a one-argument procedure, Thunk is the (zero-argument) call to run
// under it (§4.4.2, §4.8).
type WithExceptionHandlerExpr struct {
	Handler, Thunk Expr
}

func (WithExceptionHandlerExpr) expr() {}

// ImportSpec is one parsed import spec: either (srfi N parts...) or a
// standard-library spec like (scheme base).
type ImportSpec struct {
	Srfi  int // >0 for (srfi N ...); 0 otherwise
	Parts []string
}

// ImportExpr asks the module system (external collaborator, §1 Non-goals)
// for each spec's exports and binds them into the current environment
// (§4.4 Import).
type ImportExpr struct{ Specs []ImportSpec }

func (ImportExpr) expr() {}

// ApplicationExpr is a procedure call: Operator is evaluated, then each
// of Args, left-to-right by default (§4.4 Application, §5 Ordering).
type ApplicationExpr struct {
	Operator Expr
	Args     []Expr
}

func (ApplicationExpr) expr() {}
