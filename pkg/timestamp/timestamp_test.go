// Copyright 2025 BINARY Members
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

package timestamp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTimestampMonotone(t *testing.T) {
	s := New()
	prev := s.GetTimestamp()
	for range 1000 {
		ts := s.GetTimestamp()
		assert.Greater(t, ts, prev)
		prev = ts
	}
}

// Boundary of the generator contract: the result must be strictly
// greater than maxRW even when maxRW is ahead of the global clock.
func TestGenerateCommitTsBoundary(t *testing.T) {
	s := New()

	global := s.GetTimestamp()
	commit := s.GenerateCommitTs(global, global)
	assert.Greater(t, commit, global)

	// maxRW far ahead of the source
	commit = s.GenerateCommitTs(s.GetTimestamp(), 1<<20)
	assert.Greater(t, commit, uint64(1<<20))

	// the source must have advanced past the generated value
	assert.GreaterOrEqual(t, s.Last(), commit)

	// subsequent timestamps stay ahead
	assert.Greater(t, s.GetTimestamp(), commit)
}

func TestGenerateCommitTsUnique(t *testing.T) {
	s := New()

	const (
		workers = 8
		perWork = 1000
	)

	var mu sync.Mutex
	seen := make(map[uint64]struct{}, workers*perWork)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWork {
				global := s.GetTimestamp()
				commit := s.GenerateCommitTs(global, global)

				mu.Lock()
				_, dup := seen[commit]
				seen[commit] = struct{}{}
				mu.Unlock()

				assert.False(t, dup, "duplicate commit ts %d", commit)
				assert.Greater(t, commit, global)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWork)
}
