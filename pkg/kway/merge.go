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

import "container/heap"

// Merge combines lists that are each sorted by cmp into one sorted list.
// Equal elements keep the order of their source lists.
func Merge[T any](cmp func(a, b T) int, lists ...[]T) []T {
	h := &minHeap[T]{cmp: cmp}
	heap.Init(h)

	total := 0
	for i, list := range lists {
		total += len(list)
		if len(list) > 0 {
			heap.Push(h, element[T]{
				value: list[0],
				li:    i,
			})
			lists[i] = list[1:]
		}
	}

	merged := make([]T, 0, total)

	for h.Len() > 0 {
		e := heap.Pop(h).(element[T])
		merged = append(merged, e.value)

		if len(lists[e.li]) > 0 {
			heap.Push(h, element[T]{
				value: lists[e.li][0],
				li:    e.li,
			})
			lists[e.li] = lists[e.li][1:]
		}
	}

	return merged
}
