// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package scheval implements the evaluation core of an R7RS Scheme: a
// continuation-passing-style expression evaluator, first-class
// continuations via call/cc, exception handling, and a reference-counted
// location-based store. Pairs, vectors, and boxes are ordinary Go values
// and do not live in the store.
//
// # Defunctionalized Evaluation
//
// Continuations are represented as a tagged sum of frame structures
// (frame.go) rather than Go closures, following Reynolds's
// defunctionalization: every control point that would otherwise be "the
// rest of the computation" is instead a concrete struct with a Parent
// pointer, dispatched by type switch in apply.go. Eval and Apply never
// recurse directly into each other; instead they return a Bounce, and a
// trampoline (trampoline.go) loops until a value reaches the root
// continuation. This keeps stack depth O(1) in the number of Scheme
// tail calls regardless of source-level recursion depth.
//
//   - [Continuation]: marker interface for every frame type
//   - [Bounce]: the trampoline's unit of work — either "evaluate Expr in
//     Env with Cont" or "apply Cont to Value"
//   - [Evaluator.Eval]: drives the trampoline to completion
//
// # First-Class Continuations
//
// call/cc captures the current Continuation chain as a
// [CapturedContinuation] value (procedure.go) that can be invoked like
// any procedure; invoking it discards the invoker's own continuation and
// resumes the captured one, crossing any dynamic-wind points along the
// way (callcc.go, dynamicwind.go).
//
// # Exceptions
//
// guard and with-exception-handler install entries on a dynamic-extent
// handler stack (exception.go); raise unwinds to the nearest handler,
// either entering a guard's clause-matching continuation or invoking an
// ordinary handler procedure and resuming with its result.
//
// # Store
//
// Store (store.go) keeps a reference count per location and frees a
// location when its count drops to zero. Its mark-and-sweep pass keeps
// exactly the locations whose count is positive; it does not trace
// references between stored values, so cycles are not detected.
// store_raii.go offers an alternative handle backend that leaves
// reclamation to Go's garbage collector.
//
// # Iteration
//
// do loops run through the general CPS path (doloop.go) by default.
// When a loop's shape is recognized as simple counting with no
// continuation-escaping forms in its body, an optional fast path
// (jit.go) evaluates it directly without building intermediate frames,
// falling back to the CPS path on anything it does not recognize.
//
// # Concurrency
//
// Runtime (runtime.go) runs a fixed pool of Evaluators, each with its
// own continuation and handler state, coordinating only through a
// single global environment manager guarded by one writer lock; workers
// read a copy-on-write snapshot of the shared bindings.
package scheval
