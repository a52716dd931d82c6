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
	"errors"
	"fmt"
)

// Borrow violations are contract breaches, not expected-path conditions.
// They are delivered as panics carrying a *BorrowError so that callers
// which recover can still classify the failure with errors.Is.
var (
	// ErrAlreadyBorrowed indicates an exclusive borrow was requested while
	// one or more shared borrows are outstanding.
	ErrAlreadyBorrowed = errors.New("value is already borrowed")

	// ErrAlreadyBorrowedMut indicates a borrow was requested while an
	// exclusive borrow is outstanding.
	ErrAlreadyBorrowedMut = errors.New("value is already mutably borrowed")

	// ErrWrongGoroutine indicates a ScopeShare was accessed from a goroutine
	// other than the one that constructed it.
	ErrWrongGoroutine = errors.New("cell accessed outside its owning goroutine")

	// ErrGuardReleased indicates a guard's value was accessed after Release.
	ErrGuardReleased = errors.New("guard already released")
)

// BorrowError describes a borrow-rule violation on a ScopeShare, or use of a
// released guard on either cell type. It is used as a panic value, never as a
// returned error: a violation is a logic error in the caller and retrying
// cannot succeed.
type BorrowError struct {
	Err  error  // Underlying sentinel (ErrAlreadyBorrowed, ...)
	Op   string // Operation that detected the violation
	Site string // Call site of the conflicting borrow, if diagnostics are enabled
}

func (e *BorrowError) Error() string {
	if e.Site != "" {
		return fmt.Sprintf("scopeshare: %s: %v (conflicting borrow at %s)", e.Op, e.Err, e.Site)
	}
	return fmt.Sprintf("scopeshare: %s: %v", e.Op, e.Err)
}

func (e *BorrowError) Unwrap() error {
	return e.Err
}

// IsBorrowViolation reports whether err (typically a recovered panic value)
// is a borrow-rule violation raised by this package.
func IsBorrowViolation(err error) bool {
	var be *BorrowError
	return errors.As(err, &be)
}
