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

package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocFree(t *testing.T) {
	a := New()

	buf := a.Alloc(100)
	assert.Len(t, buf, 100)
	assert.Equal(t, 128, cap(buf))

	copy(buf, "hello")
	a.Free(buf)

	// recycled buffer must come back zeroed
	buf2 := a.Alloc(70)
	assert.Len(t, buf2, 70)
	assert.Equal(t, 128, cap(buf2))
	for _, b := range buf2 {
		assert.Zero(t, b)
	}
}

func TestAllocBounds(t *testing.T) {
	a := New()

	assert.Nil(t, a.Alloc(0))
	assert.Nil(t, a.Alloc(-1))
	assert.Nil(t, a.Alloc(1<<20+1))

	buf := a.Alloc(1 << 20)
	assert.Len(t, buf, 1<<20)
}

func TestMinClass(t *testing.T) {
	a := New()

	buf := a.Alloc(1)
	assert.Len(t, buf, 1)
	assert.Equal(t, 32, cap(buf))
}

func TestFreeOffClass(t *testing.T) {
	a := New()

	// capacity 100 matches no class, must not enter a free list
	a.Free(make([]byte, 100))
	buf := a.Alloc(100)
	assert.Equal(t, 128, cap(buf))
}
