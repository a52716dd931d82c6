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

// Package scopeshare provides closure-scoped access to a shared mutable value.
//
// Two independent cell types are offered. ScopeShare is a single-goroutine
// cell with runtime-checked borrow rules: conflicting access is a logic error
// and panics. SyncShare is a reader/writer-lock cell safe to share across
// goroutines: conflicting access blocks.
//
// Both types grant access only through callbacks. The callback receives a
// pointer to the contained value and must not retain it past the callback's
// return; the borrow or lock is released when the callback returns, on all
// exit paths including panics.
//
// Ordering among goroutines waiting on a SyncShare lock is delegated to
// sync.RWMutex; no fairness or FIFO guarantee is provided.
package scopeshare

import (
	"encoding/json"
	"fmt"

	"github.com/petermattis/goid"
)

// Borrow states for ScopeShare. Positive values count shared borrows.
const (
	borrowFree      = 0
	borrowExclusive = -1
)

// ScopeShare wraps a value with runtime-enforced borrow rules within a single
// goroutine. At most one exclusive access, or any number of shared accesses,
// may be active at an instant; a conflicting access panics with *BorrowError.
//
// A ScopeShare is pinned to the goroutine that constructed it. Accessing it
// from any other goroutine panics with ErrWrongGoroutine. Use SyncShare for
// values shared across goroutines.
//
// The zero value is not usable; construct with NewScopeShare.
type ScopeShare[T any] struct {
	value  T
	site   string // call site of the newest outstanding borrow, if diagnostics are on
	owner  int64  // goroutine id captured at construction
	borrow int    // borrowFree, borrowExclusive, or a shared-borrow count
}

// NewScopeShare returns a cell owning value, pinned to the calling goroutine.
func NewScopeShare[T any](value T) *ScopeShare[T] {
	return &ScopeShare[T]{value: value, owner: goid.Get()}
}

// With invokes f with shared (read-only) access to the contained value.
// The borrow is held for exactly the duration of f and released even if f
// panics. f must not mutate the value and must not retain the pointer.
//
// Panics with *BorrowError if an exclusive borrow is outstanding, which can
// only happen via a nested call from within WithMut or while a BorrowMut
// guard is unreleased.
func (s *ScopeShare[T]) With(f func(v *T)) {
	s.acquire("With")
	defer s.release()
	f(&s.value)
}

// WithMut invokes f with exclusive (read-write) access to the contained
// value. The borrow is held for exactly the duration of f and released even
// if f panics.
//
// Panics with *BorrowError if any borrow is outstanding.
func (s *ScopeShare[T]) WithMut(f func(v *T)) {
	s.acquireMut("WithMut")
	defer s.releaseMut()
	f(&s.value)
}

// Scoped invokes f with shared access to s's value and returns f's result.
// It is the result-returning form of ScopeShare.With; methods cannot
// introduce type parameters, so this is a package-level function.
func Scoped[T, R any](s *ScopeShare[T], f func(v *T) R) R {
	s.acquire("Scoped")
	defer s.release()
	return f(&s.value)
}

// ScopedMut invokes f with exclusive access to s's value and returns f's
// result. The result-returning form of ScopeShare.WithMut.
func ScopedMut[T, R any](s *ScopeShare[T], f func(v *T) R) R {
	s.acquireMut("ScopedMut")
	defer s.releaseMut()
	return f(&s.value)
}

// Get returns a copy of the contained value, taken under a shared borrow.
// For pointer-bearing types the copy is shallow; use CloneWith for a deep
// snapshot.
func (s *ScopeShare[T]) Get() T {
	s.acquire("Get")
	defer s.release()
	return s.value
}

// Set replaces the contained value under an exclusive borrow.
func (s *ScopeShare[T]) Set(value T) {
	s.acquireMut("Set")
	defer s.releaseMut()
	s.value = value
}

// CloneWith returns a new independent cell whose value is clone applied to
// the current contents, snapshotted under a shared borrow. The new cell is
// pinned to the calling goroutine and shares no state with s.
func (s *ScopeShare[T]) CloneWith(clone func(T) T) *ScopeShare[T] {
	s.acquire("CloneWith")
	defer s.release()
	return NewScopeShare(clone(s.value))
}

// Borrow acquires a shared borrow and returns a guard for it. The caller
// must call Release, typically via defer; the borrow stays outstanding until
// then. Prefer With, which cannot leak the borrow.
func (s *ScopeShare[T]) Borrow() *ScopeRef[T] {
	s.acquire("Borrow")
	return &ScopeRef[T]{cell: s}
}

// BorrowMut acquires an exclusive borrow and returns a guard for it. The
// caller must call Release, typically via defer. Prefer WithMut.
func (s *ScopeShare[T]) BorrowMut() *ScopeRefMut[T] {
	s.acquireMut("BorrowMut")
	return &ScopeRefMut[T]{cell: s}
}

// String renders the current contents under a shared borrow.
// Calling it while an exclusive borrow is outstanding panics, which fmt
// reports in place of the value.
func (s *ScopeShare[T]) String() string {
	s.acquire("String")
	defer s.release()
	return fmt.Sprintf("ScopeShare(%v)", s.value)
}

// MarshalJSON serializes the contained value under a shared borrow. The cell
// adds no framing of its own.
func (s *ScopeShare[T]) MarshalJSON() ([]byte, error) {
	s.acquire("MarshalJSON")
	defer s.release()
	b, err := json.Marshal(s.value)
	if err != nil {
		return nil, fmt.Errorf("scopeshare: marshal contained value: %w", err)
	}
	return b, nil
}

// UnmarshalJSON replaces the contained value under an exclusive borrow.
func (s *ScopeShare[T]) UnmarshalJSON(data []byte) error {
	s.acquireMut("UnmarshalJSON")
	defer s.releaseMut()
	if err := json.Unmarshal(data, &s.value); err != nil {
		return fmt.Errorf("scopeshare: unmarshal contained value: %w", err)
	}
	return nil
}

// acquire takes a shared borrow or panics with the reason it cannot.
func (s *ScopeShare[T]) acquire(op string) {
	s.checkOwner(op)
	if s.borrow == borrowExclusive {
		panic(&BorrowError{Err: ErrAlreadyBorrowedMut, Op: op, Site: s.site})
	}
	s.borrow++
	if debugEnabled {
		s.site = callerSite(2)
	}
}

func (s *ScopeShare[T]) release() {
	s.borrow--
	if s.borrow == borrowFree {
		s.site = ""
	}
}

// acquireMut takes the exclusive borrow or panics with the reason it cannot.
func (s *ScopeShare[T]) acquireMut(op string) {
	s.checkOwner(op)
	if s.borrow != borrowFree {
		err := ErrAlreadyBorrowed
		if s.borrow == borrowExclusive {
			err = ErrAlreadyBorrowedMut
		}
		panic(&BorrowError{Err: err, Op: op, Site: s.site})
	}
	s.borrow = borrowExclusive
	if debugEnabled {
		s.site = callerSite(2)
	}
}

func (s *ScopeShare[T]) releaseMut() {
	s.borrow = borrowFree
	s.site = ""
}

func (s *ScopeShare[T]) checkOwner(op string) {
	if gid := goid.Get(); gid != s.owner {
		panic(&BorrowError{Err: ErrWrongGoroutine, Op: op})
	}
}

// ScopeRef is an outstanding shared borrow of a ScopeShare.
type ScopeRef[T any] struct {
	cell     *ScopeShare[T]
	released bool
}

// Value returns a pointer to the borrowed value. The value must be treated
// as read-only. Panics if the guard has been released.
func (r *ScopeRef[T]) Value() *T {
	if r.released {
		panic(&BorrowError{Err: ErrGuardReleased, Op: "ScopeRef.Value"})
	}
	return &r.cell.value
}

// Release ends the borrow. Safe to call more than once.
func (r *ScopeRef[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.release()
}

// ScopeRefMut is an outstanding exclusive borrow of a ScopeShare.
type ScopeRefMut[T any] struct {
	cell     *ScopeShare[T]
	released bool
}

// Value returns a pointer to the borrowed value, which may be mutated until
// Release. Panics if the guard has been released.
func (r *ScopeRefMut[T]) Value() *T {
	if r.released {
		panic(&BorrowError{Err: ErrGuardReleased, Op: "ScopeRefMut.Value"})
	}
	return &r.cell.value
}

// Release ends the borrow. Safe to call more than once.
func (r *ScopeRefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.releaseMut()
}
