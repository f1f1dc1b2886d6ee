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

package orichalcum

import (
	"sync/atomic"

	"github.com/B1NARY-GR0UP/orichalcum/pkg/cwlock"
)

// RecordContent is the per-record concurrency metadata: the three-mode
// latch and the commit timestamp of the visible payload.
//
// The publish protocol is payload mutation, then SetTimestamp; the
// observe protocol is GetTimestamp, then payload read. Both sides go
// through the atomic timestamp, so an observer that sees a new
// timestamp sees the matching payload. The optimistic path reads the
// timestamp with no latch at access time and re-checks it under a
// latch at validation.
type RecordContent struct {
	latch cwlock.Lock
	ts    atomic.Uint64
}

// GetTimestamp is an unlatched acquire load.
func (c *RecordContent) GetTimestamp() uint64 {
	return c.ts.Load()
}

// SetTimestamp publishes a commit timestamp. The caller must hold
// Certify and must have finished every payload mutation; the release
// store is the fence between them.
func (c *RecordContent) SetTimestamp(ts uint64) {
	c.ts.Store(ts)
}

func (c *RecordContent) AcquireRead() {
	c.latch.AcquireRead()
}

func (c *RecordContent) ReleaseRead() {
	c.latch.ReleaseRead()
}

func (c *RecordContent) AcquireWrite() *cwlock.WriteGuard {
	return c.latch.AcquireWrite()
}
