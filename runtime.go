// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RuntimeMessage is the message set a Runtime's worker goroutines accept
// (§5 Concurrency & resource model).
type RuntimeMessage interface{ runtimeMessage() }

// Evaluate asks a worker to evaluate Expr in its own evaluator's global
// environment and send the result back on Reply.
type Evaluate struct {
	Expr  Expr
	Reply chan<- EvalResult
}

func (Evaluate) runtimeMessage() {}

// EvalResult is what a worker sends back for an Evaluate message.
type EvalResult struct {
	Value Value
	Err   error
}

// DefineGlobal asks the Runtime to bind Name to Value in the shared
// global environment manager, serialized by its single writer lock.
type DefineGlobal struct {
	Name  string
	Value Value
}

func (DefineGlobal) runtimeMessage() {}

// ImportModule asks the Runtime to resolve specs against its shared
// module resolver and report completion on Reply.
type ImportModule struct {
	Specs []ImportSpec
	Reply chan<- error
}

func (ImportModule) runtimeMessage() {}

// Shutdown makes the worker that receives it return at once; other
// workers keep running, and messages still queued are not processed.
type Shutdown struct{}

func (Shutdown) runtimeMessage() {}

// globalEnvironmentManager is the one shared mutable structure across a
// Runtime's workers (§5: "a global environment manager as the only
// shared mutable structure... serialized by a single writer lock").
type globalEnvironmentManager struct {
	mu  sync.Mutex // the single writer lock serializing define and snapshot (§5)
	env *AtomicEnvironment
}

func newGlobalEnvironmentManager() *globalEnvironmentManager {
	return &globalEnvironmentManager{env: NewAtomicGlobalEnvironment()}
}

func (m *globalEnvironmentManager) define(name string, v Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.env.Define(name, v)
}

// snapshot returns a point-in-time, single-threaded Environment copy each
// worker evaluator can read/extend/mutate locally without racing the
// writer lock on every lookup (§5: "cross-thread value transfer requires
// the thread-safe environment form (copy-on-write)").
func (m *globalEnvironmentManager) snapshot() *Environment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.env.Snapshot()
}

// Runtime runs a fixed pool of independent Evaluators, each owning its
// own evaluator state, communicating only through RuntimeMessage values
// and the shared global environment manager (§5, §12 runtime/
// thread_pool.rs, runtime/evaluator_message.rs).
type Runtime struct {
	manager  *globalEnvironmentManager
	inbox    chan RuntimeMessage
	group    *errgroup.Group
	ctx      context.Context
	cancel   context.CancelFunc
	resolver ModuleResolver
}

// NewRuntime starts workerCount goroutines, each driving its own
// Evaluator against a copy-on-write snapshot of the shared global
// environment, and returns a Runtime that accepts RuntimeMessages until
// Shutdown is sent and Wait returns.
func NewRuntime(workerCount int, cfg *EvaluatorConfig, resolver ModuleResolver) *Runtime {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	rt := &Runtime{
		manager:  newGlobalEnvironmentManager(),
		inbox:    make(chan RuntimeMessage, workerCount*4),
		group:    g,
		ctx:      gctx,
		cancel:   cancel,
		resolver: resolver,
	}
	for i := 0; i < workerCount; i++ {
		g.Go(func() error { return rt.worker(cfg) })
	}
	return rt
}

func (rt *Runtime) worker(cfg *EvaluatorConfig) error {
	ev := NewEvaluator(cfg)
	primitives := ev.Global // NewEvaluator's RegisterPrimitives target, never replaced
	ev.Global = rt.chainedSnapshot(primitives)
	ev.Modules = rt.resolver
	for {
		select {
		case <-rt.ctx.Done():
			return nil
		case msg, ok := <-rt.inbox:
			if !ok {
				return nil
			}
			switch m := msg.(type) {
			case Evaluate:
				v, err := ev.Eval(m.Expr, ev.Global)
				m.Reply <- EvalResult{Value: v, Err: err}
			case DefineGlobal:
				rt.manager.define(m.Name, m.Value)
				ev.Global = rt.chainedSnapshot(primitives)
			case ImportModule:
				err := ev.performImport(ImportExpr{Specs: m.Specs}, ev.Global)
				m.Reply <- err
			case Shutdown:
				return nil
			}
		}
	}
}

// chainedSnapshot returns a point-in-time copy of the shared global
// environment manager's bindings, parented on primitives so lookups for
// names the manager hasn't (yet) been given fall through to the
// evaluator's own registered primitive set.
func (rt *Runtime) chainedSnapshot(primitives *Environment) *Environment {
	snap := rt.manager.snapshot()
	if snap == nil {
		return primitives
	}
	snap.parent = primitives
	return snap
}

// Send delivers msg to the worker pool.
func (rt *Runtime) Send(msg RuntimeMessage) {
	rt.inbox <- msg
}

// Shutdown signals every worker to stop and waits for them to drain.
func (rt *Runtime) Shutdown() error {
	close(rt.inbox)
	rt.cancel()
	return rt.group.Wait()
}
