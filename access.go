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
	"cmp"
	"slices"
	"strings"

	"github.com/B1NARY-GR0UP/orichalcum/types"
)

type AccessKind uint8

const (
	ReadOnly AccessKind = iota
	ReadWrite
	InsertOnly
	DeleteOnly
)

func (k AccessKind) String() string {
	switch k {
	case ReadOnly:
		return "READ_ONLY"
	case ReadWrite:
		return "READ_WRITE"
	case InsertOnly:
		return "INSERT_ONLY"
	case DeleteOnly:
		return "DELETE_ONLY"
	default:
		return "UNKNOWN"
	}
}

// Access is one journaled record touch. Shadow is set only for
// ReadWrite; Timestamp is the record timestamp observed at access time
// for the kinds that validate.
type Access struct {
	Kind      AccessKind
	Record    *TableRecord
	Shadow    *types.Record
	TableID   uint64
	Timestamp uint64

	// key hash, cached so sorting does not rehash
	order uint64
}

// accessList is the per-transaction journal. Capacity is fixed at
// construction; the backing array never reallocates, so appended slots
// stay stable across later appends.
type accessList struct {
	entries []Access
	max     int
}

func newAccessList(max int) *accessList {
	return &accessList{
		entries: make([]Access, 0, max),
		max:     max,
	}
}

// append returns a stable pointer to a fresh slot, or false when the
// transaction exceeds the configured access bound.
func (l *accessList) append() (*Access, bool) {
	if len(l.entries) >= l.max {
		return nil, false
	}
	l.entries = append(l.entries, Access{})
	return &l.entries[len(l.entries)-1], true
}

// sort orders the journal by (table, key hash, key). The order is a
// total order every thread agrees on, which is what makes latch
// acquisition deadlock free; the hash spreads contention away from the
// key distribution, the key itself breaks hash collisions. The sort is
// stable so duplicate touches of one record stay in access order.
func (l *accessList) sort() {
	slices.SortStableFunc(l.entries, func(a, b Access) int {
		if c := cmp.Compare(a.TableID, b.TableID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
		return strings.Compare(a.Record.PrimaryKey(), b.Record.PrimaryKey())
	})
}

// find returns the journaled entry for tr, if any. Linear over a small
// bounded journal.
func (l *accessList) find(tr *TableRecord) *Access {
	for i := range l.entries {
		if l.entries[i].Record == tr {
			return &l.entries[i]
		}
	}
	return nil
}

func (l *accessList) get(i int) *Access {
	return &l.entries[i]
}

func (l *accessList) count() int {
	return len(l.entries)
}

// clear drops every entry. Shadow lifetime is the transaction
// manager's concern, not the journal's.
func (l *accessList) clear() {
	l.entries = l.entries[:0]
}
