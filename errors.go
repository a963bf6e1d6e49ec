// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import "fmt"

// ErrorKind tags the taxonomy of §7 Error handling design. It is a kind,
// not a Go type per kind — every evaluator-surfaced failure is one
// EvalError value, the way the teacher surfaces every effect-level
// failure as one Either[E, A] rather than a family of error types.
type ErrorKind int

const (
	KindSyntaxError ErrorKind = iota
	KindUndefinedVariable
	KindArityError
	KindTypeError
	KindRuntimeError
	KindException
	KindStackOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntaxError:
		return "syntax-error"
	case KindUndefinedVariable:
		return "undefined-variable"
	case KindArityError:
		return "arity-error"
	case KindTypeError:
		return "type-error"
	case KindRuntimeError:
		return "runtime-error"
	case KindException:
		return "exception"
	case KindStackOverflow:
		return "stack-overflow"
	default:
		return "unknown-error"
	}
}

// Span is an optional source location carried by an EvalError (§7: "each
// carries a human-readable message and an optional source span"). scheval
// never parses source text itself and the Expr types carry no span, so the
// evaluator never sets Span: errors it creates have a zero Span.
type Span struct {
	Start, End int
	Valid      bool
}

// EvalError is the single error type flowing through every evaluator
// return value (§7). Kind selects the taxonomy entry; Value carries the
// raised value for KindException; Span optionally carries a source
// location (always zero for errors the evaluator itself creates).
type EvalError struct {
	Kind    ErrorKind
	Message string
	Value   Value // populated only for KindException
	Span    Span
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newSyntaxError(format string, args ...any) error {
	return &EvalError{Kind: KindSyntaxError, Message: fmt.Sprintf(format, args...)}
}

func newUndefinedVariable(name string) error {
	return &EvalError{Kind: KindUndefinedVariable, Message: "unbound variable: " + name}
}

func newArityError(min, max, got int) error {
	var want string
	switch {
	case max < 0:
		want = fmt.Sprintf("at least %d", min)
	case min == max:
		want = fmt.Sprintf("exactly %d", min)
	default:
		want = fmt.Sprintf("between %d and %d", min, max)
	}
	return &EvalError{
		Kind:    KindArityError,
		Message: fmt.Sprintf("expected %s arguments, got %d", want, got),
	}
}

func newTypeError(format string, args ...any) error {
	return &EvalError{Kind: KindTypeError, Message: fmt.Sprintf(format, args...)}
}

func newRuntimeError(format string, args ...any) error {
	return &EvalError{Kind: KindRuntimeError, Message: fmt.Sprintf(format, args...)}
}

// newException wraps a user-raised value so it can propagate as a Go
// error until it reaches either a handler or the evaluator entry point
// (§7 Policy).
func newException(v Value) error {
	return &EvalError{Kind: KindException, Message: Display(v), Value: v}
}

func newStackOverflow(format string, args ...any) error {
	return &EvalError{Kind: KindStackOverflow, Message: fmt.Sprintf(format, args...)}
}

// AsEvalError extracts the *EvalError from a generic error, if it is one.
func AsEvalError(err error) (*EvalError, bool) {
	ee, ok := err.(*EvalError)
	return ee, ok
}
