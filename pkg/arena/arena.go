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

import "math/bits"

const (
	_minClass = 5  // 32 B
	_maxClass = 20 // 1 MB
)

// Allocator recycles byte buffers through power-of-two free lists.
// It is owned by a single worker thread and is not safe for concurrent
// use; shadow copies taken during a transaction are returned to it when
// the transaction ends.
type Allocator struct {
	free [_maxClass + 1][][]byte
}

func New() *Allocator {
	return &Allocator{}
}

// Alloc returns a zeroed buffer of length n, or nil if n exceeds the
// largest size class.
func (a *Allocator) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	c := class(n)
	if c > _maxClass {
		return nil
	}

	list := a.free[c]
	if len(list) == 0 {
		return make([]byte, n, 1<<c)
	}

	buf := list[len(list)-1]
	a.free[c] = list[:len(list)-1]

	buf = buf[:n]
	clear(buf)
	return buf
}

// Free returns buf to its free list. Buffers not handed out by Alloc
// are accepted as long as their capacity matches a size class.
func (a *Allocator) Free(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	c := class(cap(buf))
	if c > _maxClass || 1<<c != cap(buf) {
		// off-class capacity, let the GC take it
		return
	}
	a.free[c] = append(a.free[c], buf)
}

func class(n int) int {
	c := bits.Len(uint(n - 1))
	if c < _minClass {
		return _minClass
	}
	return c
}
