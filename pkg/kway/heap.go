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

package kway

type element[T any] struct {
	value T
	// list index, breaks ties so the merge is stable
	li int
}

// heap min heap ordered by cmp, then list index
type minHeap[T any] struct {
	elems []element[T]
	cmp   func(a, b T) int
}

func (h *minHeap[T]) Len() int {
	return len(h.elems)
}

func (h *minHeap[T]) Less(i, j int) bool {
	if c := h.cmp(h.elems[i].value, h.elems[j].value); c != 0 {
		return c < 0
	}
	return h.elems[i].li < h.elems[j].li
}

func (h *minHeap[T]) Swap(i, j int) {
	h.elems[i], h.elems[j] = h.elems[j], h.elems[i]
}

func (h *minHeap[T]) Push(x any) {
	h.elems = append(h.elems, x.(element[T]))
}

// Pop the minimum element in heap
// 1. move the minimum element to the end of slice
// 2. pop it (what this method does)
// 3. heapify
func (h *minHeap[T]) Pop() any {
	curr := h.elems
	n := len(curr)
	e := curr[n-1]
	h.elems = curr[0 : n-1]
	return e
}
