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

package watermark

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoneUntilAdvances(t *testing.T) {
	w := New()

	w.Begin(1)
	w.Begin(2)
	w.Begin(3)

	assert.Zero(t, w.DoneUntil())

	w.Done(1)
	assert.Equal(t, uint64(1), w.DoneUntil())

	// gap at 2 holds the frontier
	w.Done(3)
	assert.Equal(t, uint64(1), w.DoneUntil())

	w.Done(2)
	assert.Equal(t, uint64(3), w.DoneUntil())
}

func TestWaitForMark(t *testing.T) {
	w := New()

	w.Begin(5)

	done := make(chan error, 1)
	go func() {
		done <- w.WaitForMark(context.Background(), 5)
	}()

	select {
	case <-done:
		t.Fatal("wait returned before mark done")
	case <-time.After(50 * time.Millisecond):
	}

	w.Done(5)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("wait never returned")
	}
}

func TestWaitForMarkContext(t *testing.T) {
	w := New()
	w.Begin(9)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := w.WaitForMark(ctx, 9)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrentBeginDone(t *testing.T) {
	w := New()

	const n = 100
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		w.Begin(uint64(i))
	}
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(ts uint64) {
			defer wg.Done()
			w.Done(ts)
		}(uint64(i))
	}
	wg.Wait()

	assert.Equal(t, uint64(n), w.DoneUntil())
}
