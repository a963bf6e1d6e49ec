// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import "sync/atomic"

// Environment is a lexically nested binding frame (§3 Environment, §4.1).
// It is the single-threaded, non-atomic form used during ordinary
// evaluation: ordinary Go garbage collection is the "reference-counted
// sharing" the spec describes — every child frame and every closure
// captured inside an Environment holds an ordinary pointer to it, so it
// stays alive exactly as long as something reachable still needs it.
//
// Equality of environments is pointer identity; two distinct Environment
// values are never structurally equal even with identical bindings
// (§4.1).
type Environment struct {
	parent *Environment
	vars   map[string]Value
}

// NewGlobalEnvironment creates a root environment with no parent.
func NewGlobalEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

// Extend returns a fresh child frame of e.
func (e *Environment) Extend() *Environment {
	return &Environment{parent: e, vars: make(map[string]Value)}
}

// Define binds name to value in e's own frame, shadowing any outer
// binding of the same name (§4.1).
func (e *Environment) Define(name string, value Value) {
	e.vars[name] = value
}

// Get looks up name by walking the parent chain outward. ok is false if
// no frame in the chain binds name (§4.1, UnboundVariable).
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set rebinds name in the nearest frame of the chain that already binds
// it. ok is false (and nothing is rebound) if name is unbound anywhere
// in the chain — the caller surfaces this as UnboundVariable (§4.1,
// §4.4 Set!).
func (e *Environment) Set(name string, value Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = value
			return true
		}
	}
	return false
}

// Equal reports pointer identity — environments are never structurally
// equal (§4.1).
func (e *Environment) Equal(other *Environment) bool {
	return e == other
}

// BindParameters produces a fresh child of e with params bound to args.
// When variadic is true, the final parameter collects trailing args as a
// list and the required count is len(params)-1 (§4.1).
func (e *Environment) BindParameters(params []string, variadic bool, args []Value) (*Environment, error) {
	required := len(params)
	if variadic {
		required--
	}
	if variadic {
		if len(args) < required {
			return nil, newArityError(required, -1, len(args))
		}
	} else if len(args) != required {
		return nil, newArityError(required, required, len(args))
	}

	child := e.Extend()
	for i := 0; i < required; i++ {
		child.Define(params[i], args[i])
	}
	if variadic {
		rest := ListToValue(args[required:], Nil)
		child.Define(params[len(params)-1], rest)
	}
	return child, nil
}

// AtomicEnvironment is the thread-safe, copy-on-write counterpart used
// when an environment crosses evaluator-thread boundaries (§3 Environment,
// §5 Concurrency). Reads are lock-free snapshots; any mutation installs a
// freshly copied map via atomic pointer swap, so a reader never observes
// a torn write and never blocks a writer.
type AtomicEnvironment struct {
	parent *AtomicEnvironment
	snap   atomic.Pointer[map[string]Value]
}

// NewAtomicGlobalEnvironment creates a root thread-safe environment.
func NewAtomicGlobalEnvironment() *AtomicEnvironment {
	e := &AtomicEnvironment{}
	empty := map[string]Value{}
	e.snap.Store(&empty)
	return e
}

// Extend returns a fresh thread-safe child frame.
func (e *AtomicEnvironment) Extend() *AtomicEnvironment {
	child := &AtomicEnvironment{parent: e}
	empty := map[string]Value{}
	child.snap.Store(&empty)
	return child
}

// Define copies e's current snapshot, adds the new binding, and installs
// the copy atomically — other goroutines reading the old snapshot are
// unaffected (copy-on-write).
func (e *AtomicEnvironment) Define(name string, value Value) {
	for {
		old := e.snap.Load()
		next := make(map[string]Value, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[name] = value
		if e.snap.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Get walks the parent chain reading lock-free snapshots.
func (e *AtomicEnvironment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		m := env.snap.Load()
		if v, ok := (*m)[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set rebinds name in the nearest frame that already has it, copying that
// frame's snapshot. Returns false if name is unbound anywhere.
func (e *AtomicEnvironment) Set(name string, value Value) bool {
	for env := e; env != nil; env = env.parent {
		for {
			old := env.snap.Load()
			if _, ok := (*old)[name]; !ok {
				break
			}
			next := make(map[string]Value, len(*old))
			for k, v := range *old {
				next[k] = v
			}
			next[name] = value
			if env.snap.CompareAndSwap(old, &next) {
				return true
			}
		}
	}
	return false
}

// Snapshot returns a conventional, single-threaded Environment whose
// bindings are a point-in-time copy of e's chain, for handing to an
// evaluator that runs with the non-atomic Environment form.
func (e *AtomicEnvironment) Snapshot() *Environment {
	if e == nil {
		return nil
	}
	out := &Environment{vars: make(map[string]Value)}
	m := e.snap.Load()
	for k, v := range *m {
		out.vars[k] = v
	}
	out.parent = e.parent.Snapshot()
	return out
}
