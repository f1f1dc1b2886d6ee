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
	"testing"

	"github.com/B1NARY-GR0UP/orichalcum/pkg/utils"
	"github.com/B1NARY-GR0UP/orichalcum/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(tableID uint64, key string) *TableRecord {
	schema := &types.Schema{TableName: "t", Size: 8}
	return NewTableRecord(tableID, types.NewRecord(schema, make([]byte, 8), key))
}

func TestAccessListAppendBound(t *testing.T) {
	l := newAccessList(2)

	a1, ok := l.append()
	require.True(t, ok)
	require.NotNil(t, a1)

	_, ok = l.append()
	require.True(t, ok)

	_, ok = l.append()
	assert.False(t, ok)
	assert.Equal(t, 2, l.count())
}

func TestAccessListStableSlots(t *testing.T) {
	l := newAccessList(8)

	first, ok := l.append()
	require.True(t, ok)
	first.TableID = 7

	// later appends must not move earlier slots
	for range 7 {
		_, ok = l.append()
		require.True(t, ok)
	}
	assert.Equal(t, uint64(7), l.get(0).TableID)
}

func TestAccessListSortTotalOrder(t *testing.T) {
	build := func(order []string) *accessList {
		l := newAccessList(8)
		for _, key := range order {
			a, ok := l.append()
			require.True(t, ok)
			a.Kind = ReadOnly
			a.Record = testRecord(1, key)
			a.TableID = 1
			a.order = utils.Hash(key)
		}
		return l
	}

	// two journals touching the same records in opposite order sort
	// identically
	l1 := build([]string{"a", "b", "c"})
	l2 := build([]string{"c", "b", "a"})
	l1.sort()
	l2.sort()

	for i := range 3 {
		assert.Equal(t, l1.get(i).Record.PrimaryKey(), l2.get(i).Record.PrimaryKey())
	}
}

func TestAccessListSortTableMajor(t *testing.T) {
	l := newAccessList(4)

	for _, id := range []uint64{3, 1, 2} {
		a, ok := l.append()
		require.True(t, ok)
		a.Record = testRecord(id, "same-key")
		a.TableID = id
		a.order = utils.Hash("same-key")
	}
	l.sort()

	assert.Equal(t, uint64(1), l.get(0).TableID)
	assert.Equal(t, uint64(2), l.get(1).TableID)
	assert.Equal(t, uint64(3), l.get(2).TableID)
}

func TestAccessListFindAndClear(t *testing.T) {
	l := newAccessList(4)

	tr := testRecord(1, "k")
	a, ok := l.append()
	require.True(t, ok)
	a.Record = tr

	assert.Same(t, a, l.find(tr))
	assert.Nil(t, l.find(testRecord(1, "other")))

	l.clear()
	assert.Zero(t, l.count())
	assert.Nil(t, l.find(tr))
}
