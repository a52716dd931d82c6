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

package scopeshare_test

import (
	"fmt"
	"sync"

	"github.com/dariush-g/scopeshare"
)

func ExampleSyncShare() {
	state := scopeshare.NewSyncShare([]int{1, 2, 3})
	state.WithMut(func(v *[]int) { *v = append(*v, 4) })
	state.With(func(v *[]int) { fmt.Println(*v) })
	// Output: [1 2 3 4]
}

func ExampleScopeShare() {
	counter := scopeshare.NewScopeShare(0)
	counter.WithMut(func(v *int) { *v += 10 })
	fmt.Println(counter.Get())
	// Output: 10
}

func ExampleSynced() {
	state := scopeshare.NewSyncShare(map[string]int{"hits": 0})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.WithMut(func(v *map[string]int) { (*v)["hits"]++ })
		}()
	}
	wg.Wait()

	hits := scopeshare.Synced(state, func(v *map[string]int) int { return (*v)["hits"] })
	fmt.Println(hits)
	// Output: 4
}
