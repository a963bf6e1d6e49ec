// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// Frame pools for the highest-churn Continuation variants (§4.6.2: "a
// bounded free-list pool per continuation type, with periodic
// defragmentation"). Grounded directly on the teacher's pool.go: a
// bounded slice-based free list per concrete type, a pooled flag gating
// release, and hit/miss counters — generalized here from the teacher's
// sync.Pool-backed BindFrame/ThenFrame/EffectFrame pools to explicit
// slices so FramePool can report occupancy and defragment, which
// sync.Pool's opaque internals cannot do.
//
// Only the variants that dominate ordinary evaluation (operator setup,
// argument accumulation, if-branch selection, and begin sequencing) are
// pooled; the rest are allocated normally; pooling every variant would
// spend bookkeeping on frames that are already rare.
type FramePool struct {
	operator    []*OperatorCont
	application []*ApplicationCont
	ifTest      []*IfTestCont
	begin       []*BeginCont

	maxSize    int
	hits, miss int
}

const defaultFramePoolMax = 512

// NewFramePool creates an empty pool bounded to the default capacity per
// continuation type.
func NewFramePool() *FramePool {
	return &FramePool{maxSize: defaultFramePoolMax}
}

// AcquireOperatorCont returns a pooled OperatorCont, or a fresh one when
// the pool is empty. Callers must fill ArgExprs/Env/parent before use.
func (p *FramePool) AcquireOperatorCont() *OperatorCont {
	if n := len(p.operator); n > 0 {
		f := p.operator[n-1]
		p.operator = p.operator[:n-1]
		p.hits++
		return f
	}
	p.miss++
	f := &OperatorCont{}
	f.pooled = true
	return f
}

// ReleaseOperatorCont zeroes and returns f to the pool if there is room.
func (p *FramePool) ReleaseOperatorCont(f *OperatorCont) {
	if !f.pooled || len(p.operator) >= p.maxSize {
		return
	}
	*f = OperatorCont{}
	f.pooled = true
	p.operator = append(p.operator, f)
}

// AcquireApplicationCont returns a pooled ApplicationCont, or a fresh one.
func (p *FramePool) AcquireApplicationCont() *ApplicationCont {
	if n := len(p.application); n > 0 {
		f := p.application[n-1]
		p.application = p.application[:n-1]
		p.hits++
		return f
	}
	p.miss++
	f := &ApplicationCont{}
	f.pooled = true
	return f
}

// ReleaseApplicationCont zeroes and returns f to the pool if there is room.
func (p *FramePool) ReleaseApplicationCont(f *ApplicationCont) {
	if !f.pooled || len(p.application) >= p.maxSize {
		return
	}
	*f = ApplicationCont{}
	f.pooled = true
	p.application = append(p.application, f)
}

// AcquireIfTestCont returns a pooled IfTestCont, or a fresh one.
func (p *FramePool) AcquireIfTestCont() *IfTestCont {
	if n := len(p.ifTest); n > 0 {
		f := p.ifTest[n-1]
		p.ifTest = p.ifTest[:n-1]
		p.hits++
		return f
	}
	p.miss++
	f := &IfTestCont{}
	f.pooled = true
	return f
}

// ReleaseIfTestCont zeroes and returns f to the pool if there is room.
func (p *FramePool) ReleaseIfTestCont(f *IfTestCont) {
	if !f.pooled || len(p.ifTest) >= p.maxSize {
		return
	}
	*f = IfTestCont{}
	f.pooled = true
	p.ifTest = append(p.ifTest, f)
}

// AcquireBeginCont returns a pooled BeginCont, or a fresh one.
func (p *FramePool) AcquireBeginCont() *BeginCont {
	if n := len(p.begin); n > 0 {
		f := p.begin[n-1]
		p.begin = p.begin[:n-1]
		p.hits++
		return f
	}
	p.miss++
	f := &BeginCont{}
	f.pooled = true
	return f
}

// ReleaseBeginCont zeroes and returns f to the pool if there is room.
func (p *FramePool) ReleaseBeginCont(f *BeginCont) {
	if !f.pooled || len(p.begin) >= p.maxSize {
		return
	}
	*f = BeginCont{}
	f.pooled = true
	p.begin = append(p.begin, f)
}

// Release dispatches to the right typed release by dynamic type, for
// call sites that only have a Continuation in hand (e.g. the trampoline
// releasing the frame it just unwound).
func (p *FramePool) Release(c Continuation) {
	switch f := c.(type) {
	case *OperatorCont:
		p.ReleaseOperatorCont(f)
	case *ApplicationCont:
		p.ReleaseApplicationCont(f)
	case *IfTestCont:
		p.ReleaseIfTestCont(f)
	case *BeginCont:
		p.ReleaseBeginCont(f)
	}
}

// FramePoolStats reports occupancy for diagnostics (§6).
type FramePoolStats struct {
	Hits, Misses int
	Occupancy    int
}

// Stats returns a snapshot of p's counters and combined free-list size.
func (p *FramePool) Stats() FramePoolStats {
	return FramePoolStats{
		Hits:      p.hits,
		Misses:    p.miss,
		Occupancy: len(p.operator) + len(p.application) + len(p.ifTest) + len(p.begin),
	}
}

// Defragment trims each free list's backing array to its live length,
// releasing any slack capacity accumulated from prior growth spikes
// back to the host allocator (§4.6.2: "periodic defragmentation").
func (p *FramePool) Defragment() {
	p.operator = append([]*OperatorCont(nil), p.operator...)
	p.application = append([]*ApplicationCont(nil), p.application...)
	p.ifTest = append([]*IfTestCont(nil), p.ifTest...)
	p.begin = append([]*BeginCont(nil), p.begin...)
}
