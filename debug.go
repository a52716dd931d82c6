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
	"fmt"
	"os"
	"runtime"
)

// debugEnabled controls whether borrow call sites are captured.
// When enabled, every successful borrow on a ScopeShare records the caller's
// file and line, and a later violation panic names the conflicting site.
// Site capture costs a runtime.Caller per access, so it is off by default.
var debugEnabled = false

func init() {
	// Enable borrow diagnostics if SCOPESHARE_DEBUG or DEBUG is set
	if os.Getenv("SCOPESHARE_DEBUG") != "" || os.Getenv("DEBUG") != "" {
		debugEnabled = true
	}
}

// SetDebugEnabled allows programmatic control of borrow diagnostics.
// Useful for testing or application-controlled debug modes.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugEnabled reports whether borrow diagnostics are currently enabled.
func DebugEnabled() bool {
	return debugEnabled
}

// callerSite returns "file:line" of the caller skip+1 frames up the stack,
// or "" when diagnostics are disabled or the frame cannot be resolved.
func callerSite(skip int) string {
	if !debugEnabled {
		return ""
	}
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", file, line)
}
