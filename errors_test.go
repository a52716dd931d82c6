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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBorrowError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *BorrowError
		name string
		want string
	}{
		{
			name: "without site",
			err:  &BorrowError{Err: ErrAlreadyBorrowed, Op: "WithMut"},
			want: "scopeshare: WithMut: value is already borrowed",
		},
		{
			name: "with site",
			err:  &BorrowError{Err: ErrAlreadyBorrowedMut, Op: "With", Site: "main.go:42"},
			want: "scopeshare: With: value is already mutably borrowed (conflicting borrow at main.go:42)",
		},
		{
			name: "wrong goroutine",
			err:  &BorrowError{Err: ErrWrongGoroutine, Op: "Get"},
			want: "scopeshare: Get: cell accessed outside its owning goroutine",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestBorrowError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &BorrowError{Err: ErrAlreadyBorrowed, Op: "WithMut"}
	assert.ErrorIs(t, err, ErrAlreadyBorrowed)
	assert.NotErrorIs(t, err, ErrAlreadyBorrowedMut)

	wrapped := fmt.Errorf("recovered: %w", err)
	assert.ErrorIs(t, wrapped, ErrAlreadyBorrowed)
}

func TestIsBorrowViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBorrowViolation(&BorrowError{Err: ErrWrongGoroutine, Op: "With"}))
	assert.True(t, IsBorrowViolation(fmt.Errorf("wrapped: %w", &BorrowError{Err: ErrAlreadyBorrowed, Op: "Set"})))
	assert.False(t, IsBorrowViolation(errors.New("unrelated")))
	assert.False(t, IsBorrowViolation(nil))
}
