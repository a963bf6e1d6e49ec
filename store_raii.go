// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import "sync/atomic"

// LocationHandle is a location-addressed cell that can be read, written,
// invalidated, and identified (§4.2). The RAII-backed variant below
// implements it; the refcount+mark-sweep Store does not, and is instead
// addressed through its own methods taking a Location.
type LocationHandle interface {
	Get() (Value, error)
	Set(v Value) error
	IsValid() bool
	ID() int64
}

// RAIIStore is the optional ownership-based Store backend (§4.2, §9):
// instead of explicit refcounting and mark-and-sweep, it leans on host
// (Go) garbage collection for reclamation — a *raiiHandle is reclaimed
// the instant nothing reachable still holds it, deterministically with
// respect to that reachability, with no sweep pass required.
type RAIIStore struct {
	nextID atomic.Int64
}

// NewRAIIStore creates an empty RAII-backed store.
func NewRAIIStore() *RAIIStore {
	return &RAIIStore{}
}

// Allocate returns a new handle owning v. Unlike Store.Allocate, no
// shared map entry is created: the handle itself is the only path to the
// cell, so dropping every reference to it is sufficient for reclamation.
func (s *RAIIStore) Allocate(v Value) *raiiHandle {
	return &raiiHandle{id: s.nextID.Add(1), value: v, valid: true}
}

type raiiHandle struct {
	id    int64
	value Value
	valid bool
}

// Get returns the handle's current value, or an error once invalidated.
func (h *raiiHandle) Get() (Value, error) {
	if !h.valid {
		return nil, newRuntimeError("invalid location: %d", h.id)
	}
	return h.value, nil
}

// Set replaces the handle's value, or errors once invalidated.
func (h *raiiHandle) Set(v Value) error {
	if !h.valid {
		return newRuntimeError("invalid location: %d", h.id)
	}
	h.value = v
	return nil
}

// IsValid reports whether the handle has not been explicitly released.
func (h *raiiHandle) IsValid() bool { return h.valid }

// ID returns the handle's unique, never-recycled identifier.
func (h *raiiHandle) ID() int64 { return h.id }

// Release invalidates the handle deterministically ahead of Go's GC,
// mirroring an RAII destructor firing at scope exit.
func (h *raiiHandle) Release() {
	h.valid = false
	h.value = nil
}

var _ LocationHandle = (*raiiHandle)(nil)
