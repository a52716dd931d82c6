// Copyright 2026 The ScopeShare Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scopeshare

import (
	"encoding/json"
	"fmt"

	"github.com/dariush-g/scopeshare/internal/syncutil"
)

// SyncShare wraps a value behind a reader/writer lock for scoped access from
// any number of goroutines. Any number of With calls may run concurrently;
// a WithMut call excludes all other access for its duration.
//
// There is no timeout or cancellation: callers block until the lock is
// obtainable. Calling With or WithMut from a callback already holding this
// cell's lock deadlocks; building with -tags=deadlock makes the detector in
// github.com/sasha-s/go-deadlock report such misuse instead of hanging.
//
// Share a SyncShare by pointer. The zero value holds the zero value of T and
// is ready to use.
type SyncShare[T any] struct {
	mu    syncutil.RWMutex
	value T
}

// NewSyncShare returns a cell owning value.
func NewSyncShare[T any](value T) *SyncShare[T] {
	return &SyncShare[T]{value: value}
}

// With blocks until a shared (read) lock is acquired, invokes f with the
// contained value, and releases the lock when f returns, even if f panics.
// f must not mutate the value and must not retain the pointer.
func (s *SyncShare[T]) With(f func(v *T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f(&s.value)
}

// WithMut blocks until the exclusive (write) lock is acquired, invokes f
// with the contained value, and releases the lock when f returns, even if f
// panics. f must not retain the pointer.
func (s *SyncShare[T]) WithMut(f func(v *T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.value)
}

// Synced invokes f under s's read lock and returns f's result.
// The result-returning form of SyncShare.With; methods cannot introduce type
// parameters, so this is a package-level function.
func Synced[T, R any](s *SyncShare[T], f func(v *T) R) R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f(&s.value)
}

// SyncedMut invokes f under s's write lock and returns f's result.
// The result-returning form of SyncShare.WithMut.
func SyncedMut[T, R any](s *SyncShare[T], f func(v *T) R) R {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(&s.value)
}

// TryWith invokes f under the read lock if it can be acquired without
// blocking, and reports whether f ran.
func (s *SyncShare[T]) TryWith(f func(v *T)) bool {
	if !s.mu.TryRLock() {
		return false
	}
	defer s.mu.RUnlock()
	f(&s.value)
	return true
}

// TryWithMut invokes f under the write lock if it can be acquired without
// blocking, and reports whether f ran.
func (s *SyncShare[T]) TryWithMut(f func(v *T)) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	f(&s.value)
	return true
}

// Get returns a copy of the contained value, taken under the read lock.
// For pointer-bearing types the copy is shallow; use Snapshot for a deep one.
func (s *SyncShare[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Replace swaps in a new value under the write lock.
func (s *SyncShare[T]) Replace(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
}

// Snapshot returns clone applied to the contained value, taken under the
// read lock.
func (s *SyncShare[T]) Snapshot(clone func(T) T) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.value)
}

// CloneWith returns a new independent cell whose value is clone applied to
// the current contents, snapshotted under the read lock. The new cell has
// its own lock and shares no state with s.
func (s *SyncShare[T]) CloneWith(clone func(T) T) *SyncShare[T] {
	return NewSyncShare(s.Snapshot(clone))
}

// Borrow blocks until a shared (read) lock is acquired and returns a guard
// holding it. The caller must call Release, typically via defer; the lock
// stays held until then. Prefer With, which cannot leak the lock.
func (s *SyncShare[T]) Borrow() *SyncRef[T] {
	s.mu.RLock()
	return &SyncRef[T]{cell: s}
}

// BorrowMut blocks until the exclusive (write) lock is acquired and returns
// a guard holding it. The caller must call Release, typically via defer.
// Prefer WithMut.
func (s *SyncShare[T]) BorrowMut() *SyncRefMut[T] {
	s.mu.Lock()
	return &SyncRefMut[T]{cell: s}
}

// String renders the current contents under the read lock.
func (s *SyncShare[T]) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("SyncShare(%v)", s.value)
}

// MarshalJSON serializes the contained value under the read lock. The cell
// adds no framing of its own.
func (s *SyncShare[T]) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := json.Marshal(s.value)
	if err != nil {
		return nil, fmt.Errorf("scopeshare: marshal contained value: %w", err)
	}
	return b, nil
}

// UnmarshalJSON replaces the contained value under the write lock.
// Unmarshaling into a fresh cell is equivalent to NewSyncShare.
func (s *SyncShare[T]) UnmarshalJSON(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := json.Unmarshal(data, &s.value); err != nil {
		return fmt.Errorf("scopeshare: unmarshal contained value: %w", err)
	}
	return nil
}

// SyncRef is an outstanding read lock on a SyncShare. A guard belongs to the
// goroutine that acquired it and must not be shared.
type SyncRef[T any] struct {
	cell     *SyncShare[T]
	released bool
}

// Value returns a pointer to the locked value. The value must be treated as
// read-only. Panics if the guard has been released.
func (r *SyncRef[T]) Value() *T {
	if r.released {
		panic(&BorrowError{Err: ErrGuardReleased, Op: "SyncRef.Value"})
	}
	return &r.cell.value
}

// Release drops the read lock. Safe to call more than once.
func (r *SyncRef[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.mu.RUnlock()
}

// SyncRefMut is an outstanding write lock on a SyncShare. A guard belongs to
// the goroutine that acquired it and must not be shared.
type SyncRefMut[T any] struct {
	cell     *SyncShare[T]
	released bool
}

// Value returns a pointer to the locked value, which may be mutated until
// Release. Panics if the guard has been released.
func (r *SyncRefMut[T]) Value() *T {
	if r.released {
		panic(&BorrowError{Err: ErrGuardReleased, Op: "SyncRefMut.Value"})
	}
	return &r.cell.value
}

// Release drops the write lock. Safe to call more than once.
func (r *SyncRefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.mu.Unlock()
}
