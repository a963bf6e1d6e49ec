// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import "sync"

// ContinuationWeight classifies a continuation's apply-time cost so the
// inliner can decide whether it is worth bypassing the normal dispatch
// for (§4.6.1).
type ContinuationWeight int

const (
	WeightVeryLight ContinuationWeight = iota
	WeightLight
	WeightMedium
	WeightHeavy
)

func (w ContinuationWeight) String() string {
	switch w {
	case WeightVeryLight:
		return "VeryLight"
	case WeightLight:
		return "Light"
	case WeightMedium:
		return "Medium"
	default:
		return "Heavy"
	}
}

// WeighContinuation assigns a weight by shape: Identity (direct value
// return) and the simple bind-and-continue frames are VeryLight/Light;
// anything that fans out into more evaluation (Operator, Application,
// control-flow, exceptions) is Medium or Heavy (§4.6.1).
func WeighContinuation(c Continuation) ContinuationWeight {
	switch c.(type) {
	case *IdentityCont:
		return WeightVeryLight
	case *ValuesAccumulateCont, *AssignmentCont, *DefineCont:
		return WeightLight
	case *BeginCont, *AndCont, *OrCont, *IfTestCont, *CondTestCont:
		return WeightMedium
	case *OperatorCont, *ApplicationCont:
		return WeightMedium
	default:
		return WeightHeavy
	}
}

// InlineHint is the hot-path detector's verdict for a continuation
// variant: Likely raises inlining aggressiveness one level, Unlikely
// disables it (§4.6.1).
type InlineHint int

const (
	HintNeutral InlineHint = iota
	HintLikely
	HintUnlikely
)

// inlineHotPathThreshold is how many applications of a variant must be
// observed before it is promoted to HintLikely.
const inlineHotPathThreshold = 64

// coldAfterMisses demotes a previously-hot variant to HintUnlikely once
// this many consecutive Heavy-weight applications are seen for it,
// modeling the "opposite hint disables inlining for cold variants" rule.
const coldAfterMisses = 16

// InlineTracker counts applications per continuation variant and derives
// hints from the running totals. Safe for concurrent use: its state is
// guarded by mu.
type InlineTracker struct {
	mu     sync.Mutex
	counts map[string]int
	misses map[string]int
}

// NewInlineTracker creates an empty tracker.
func NewInlineTracker() *InlineTracker {
	return &InlineTracker{counts: make(map[string]int), misses: make(map[string]int)}
}

func continuationVariantName(c Continuation) string {
	switch c.(type) {
	case *IdentityCont:
		return "Identity"
	case *OperatorCont:
		return "Operator"
	case *ApplicationCont:
		return "Application"
	case *IfTestCont:
		return "IfTest"
	case *BeginCont:
		return "Begin"
	case *DoCont:
		return "Do"
	default:
		return "Other"
	}
}

// Observe records one application of c and returns the current hint for
// its variant.
func (t *InlineTracker) Observe(c Continuation) InlineHint {
	name := continuationVariantName(c)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[name]++
	if WeighContinuation(c) == WeightHeavy {
		t.misses[name]++
		if t.misses[name] >= coldAfterMisses {
			return HintUnlikely
		}
	} else {
		t.misses[name] = 0
	}
	if t.counts[name] >= inlineHotPathThreshold {
		return HintLikely
	}
	return HintNeutral
}

// CollapseChain walks up to maxDepth parents from c, stopping at the
// first continuation that isn't VeryLight/Light-weight (or at the chain
// root). It returns that stopping point, modeling "a chain of all-inline
// continuations is collapsed to a single pass" (§4.6.1): callers that
// only care about where a trivial prefix of the chain bottoms out can
// skip walking it frame by frame.
func CollapseChain(c Continuation, maxDepth int) Continuation {
	cur := c
	for i := 0; i < maxDepth && cur != nil; i++ {
		w := WeighContinuation(cur)
		if w != WeightVeryLight && w != WeightLight {
			return cur
		}
		parent := cur.Parent()
		if parent == nil {
			return cur
		}
		cur = parent
	}
	return cur
}
