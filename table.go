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
	"sync"

	"github.com/B1NARY-GR0UP/orichalcum/pkg/filter"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/logger"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/skiplist"
	"github.com/B1NARY-GR0UP/orichalcum/types"
)

// TableRecord is a record slot in a table: the payload plus its
// concurrency metadata. The slot outlives transactions; the payload
// bytes are replaced wholesale on commit.
type TableRecord struct {
	Content RecordContent
	Record  *types.Record

	tableID uint64
}

func NewTableRecord(tableID uint64, record *types.Record) *TableRecord {
	return &TableRecord{
		Record:  record,
		tableID: tableID,
	}
}

func (tr *TableRecord) TableID() uint64 {
	return tr.tableID
}

func (tr *TableRecord) PrimaryKey() string {
	return tr.Record.Key
}

// Table is a primary index over record slots. The index lock covers
// only index structure; record payloads are protected by the
// per-record latches.
type Table struct {
	mu     sync.RWMutex
	logger logger.Logger

	id     uint64
	schema *types.Schema
	index  *skiplist.SkipList[*TableRecord]
	filter *filter.Filter
}

func newTable(id uint64, schema *types.Schema, config Config) *Table {
	return &Table{
		logger: logger.GetLogger(),
		id:     id,
		schema: schema,
		index:  skiplist.New[*TableRecord](config.SkipListMaxLevel, config.SkipListP),
		filter: filter.New(config.ExpectedRecords, config.FalsePositiveP),
	}
}

func (t *Table) ID() uint64 {
	return t.id
}

func (t *Table) Schema() *types.Schema {
	return t.schema
}

// InsertRecord upserts the slot for key. Insert conflicts resolve to
// the upsert winner; visibility of the payload is the transaction
// manager's concern.
func (t *Table) InsertRecord(key string, tr *TableRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.index.Set(key, tr)
	t.filter.Add(key)
}

// SelectRecord returns the slot for key. The bloom filter short-cuts
// misses before the index walk.
func (t *Table) SelectRecord(key string) (*TableRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.filter.Contains(key) {
		return nil, false
	}
	return t.index.Get(key)
}

// ScanRecords returns the slots with keys in [start, end).
func (t *Table) ScanRecords(start, end string) []*TableRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.index.Scan(start, end)
}

func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.index.Count()
}
