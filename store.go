// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// Location is an opaque integer identifier into a Store (§3 Store &
// Location, glossary). A Location either exists in its Store with
// refcount >= 0, or does not exist at all.
type Location int

// cell is the Store's internal memory record for one Location.
type cell struct {
	value      Value
	refcount   int
	generation uint32
	marked     bool
}

func (c *cell) reset(v Value, generation uint32) {
	c.value = v
	c.refcount = 1
	c.generation = generation
	c.marked = false
}

// StoreStatistics reports the counters §6 requires: "total allocations,
// deallocations, GC cycles, peak memory, pool hits, memory-pool
// efficiency".
type StoreStatistics struct {
	TotalAllocations    int
	TotalDeallocations  int
	GCCycles            int
	PeakMemoryUsage     int
	PoolHits            int
	MemoryPoolEfficiency float64
}

const (
	defaultMaxPoolSize    = 256
	defaultGCThresholdMin = 1 << 20 // 1 MiB, used when memory_limit is 0
)

// Store is a location-addressed heap with refcount hints and an
// authoritative mark-and-sweep collector (§4.2).
type Store struct {
	cells        map[Location]*cell
	nextLocation Location
	memoryUsage  int
	memoryLimit  int
	gcThreshold  int
	generation   uint32
	stats        StoreStatistics

	cellPool     []*cell
	locationPool []Location
	maxPoolSize  int
}

// NewStore creates an empty Store with no memory limit and the default
// GC threshold (1 MiB, since memory_limit defaults to 0/unlimited; §4.2).
func NewStore() *Store {
	return &Store{
		cells:       make(map[Location]*cell),
		gcThreshold: defaultGCThresholdMin,
		maxPoolSize: defaultMaxPoolSize,
	}
}

// SetMemoryLimit sets the hard memory ceiling (0 = unlimited) and resets
// gc_threshold to memory_limit/4 when a nonzero limit is given, else to
// the 1 MiB default (§4.2).
func (s *Store) SetMemoryLimit(n int) {
	s.memoryLimit = n
	if n > 0 {
		s.gcThreshold = n / 4
	} else {
		s.gcThreshold = defaultGCThresholdMin
	}
}

// valueSize is a coarse per-value memory-usage approximation used only
// for threshold accounting, not for precise Go memory reporting.
func valueSize(v Value) int {
	switch x := v.(type) {
	case String:
		return 16 + len(x)
	case *Pair:
		return 32
	case *Vector:
		return 24 + 16*len(x.Items)
	case *HashTable:
		return 24 + 32*x.Len()
	default:
		return 16
	}
}

// Allocate stores v at a fresh (or pooled) Location, triggering a GC
// first if the hard limit or gc_threshold would be reached (§4.2).
func (s *Store) Allocate(v Value) Location {
	size := valueSize(v)
	if s.wouldCrossThreshold(size) {
		s.CollectGarbage()
	}

	var loc Location
	var c *cell
	if n := len(s.locationPool); n > 0 {
		loc = s.locationPool[n-1]
		s.locationPool = s.locationPool[:n-1]
		c = s.cellPool[len(s.cellPool)-1]
		s.cellPool = s.cellPool[:len(s.cellPool)-1]
		s.stats.PoolHits++
	} else {
		loc = s.nextLocation
		s.nextLocation++
		c = &cell{}
	}
	c.reset(v, s.generation)
	s.cells[loc] = c

	s.memoryUsage += size
	s.stats.TotalAllocations++
	if s.memoryUsage > s.stats.PeakMemoryUsage {
		s.stats.PeakMemoryUsage = s.memoryUsage
	}
	return loc
}

// AllocatePooled is Allocate using the pool preferentially; Allocate
// already draws from the pool first when available, so AllocatePooled is
// the same operation exposed under the name §4.2 documents.
func (s *Store) AllocatePooled(v Value) Location {
	return s.Allocate(v)
}

func (s *Store) wouldCrossThreshold(additional int) bool {
	if s.memoryLimit > 0 && s.memoryUsage+additional >= s.memoryLimit {
		return true
	}
	return s.memoryUsage+additional >= s.gcThreshold
}

// Get returns the value at loc, or an error if loc does not exist.
func (s *Store) Get(loc Location) (Value, error) {
	c, ok := s.cells[loc]
	if !ok {
		return nil, newRuntimeError("invalid location: %d", loc)
	}
	return c.value, nil
}

// Set replaces the value at loc, or returns an error if loc does not
// exist.
func (s *Store) Set(loc Location, v Value) error {
	c, ok := s.cells[loc]
	if !ok {
		return newRuntimeError("invalid location: %d", loc)
	}
	s.memoryUsage += valueSize(v) - valueSize(c.value)
	c.value = v
	return nil
}

// Incref increments loc's refcount hint.
func (s *Store) Incref(loc Location) {
	if c, ok := s.cells[loc]; ok {
		c.refcount++
	}
}

// Decref decrements loc's refcount hint. A cell that reaches zero may be
// reclaimed immediately, ahead of the next GC cycle (§4.2).
func (s *Store) Decref(loc Location) {
	c, ok := s.cells[loc]
	if !ok {
		return
	}
	c.refcount--
	if c.refcount <= 0 {
		s.reclaim(loc, c)
	}
}

func (s *Store) reclaim(loc Location, c *cell) {
	s.memoryUsage -= valueSize(c.value)
	delete(s.cells, loc)
	s.stats.TotalDeallocations++
	s.release(loc, c)
}

// release returns a freed location/cell pair to the bounded pool, when
// there is room, for AllocatePooled to reuse (§4.2, pool size capped at
// max_pool_size, default 256).
func (s *Store) release(loc Location, c *cell) {
	if len(s.locationPool) >= s.maxPoolSize {
		return
	}
	c.value = nil
	s.locationPool = append(s.locationPool, loc)
	s.cellPool = append(s.cellPool, c)
}

// CollectGarbage runs one mark-and-sweep cycle: clear all marks, mark
// every cell whose refcount is positive, then sweep every unmarked cell
// (§4.2 GC algorithm).
func (s *Store) CollectGarbage() {
	for _, c := range s.cells {
		c.marked = c.refcount > 0
	}
	for loc, c := range s.cells {
		if !c.marked {
			s.reclaim(loc, c)
		}
	}
	s.generation++
	s.stats.GCCycles++
	if len(s.cells) > 0 {
		s.stats.MemoryPoolEfficiency = float64(s.stats.PoolHits) / float64(s.stats.TotalAllocations)
	}
}

// Statistics returns a snapshot of the Store's counters (§6).
func (s *Store) Statistics() StoreStatistics {
	return s.stats
}

// Len reports the number of live locations, mainly for tests asserting
// §8's "after collect_garbage, every surviving location has refcount > 0"
// property.
func (s *Store) Len() int {
	return len(s.cells)
}

// AllLive reports whether every surviving location has a positive
// refcount — the invariant §8 tests after a GC cycle.
func (s *Store) AllLive() bool {
	for _, c := range s.cells {
		if c.refcount <= 0 {
			return false
		}
	}
	return true
}
