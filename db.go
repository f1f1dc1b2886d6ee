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
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"github.com/B1NARY-GR0UP/orichalcum/pkg/logger"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/timestamp"
	"github.com/B1NARY-GR0UP/orichalcum/types"
	"github.com/B1NARY-GR0UP/orichalcum/wal"
)

var errMkDir = errors.New("failed to create db dir")

// DB is an in-memory OLTP engine. Tables hold the records, the shared
// timestamp source orders commits, and one write-ahead logger variant
// journals them. All transactional access goes through per-thread
// TransactionManagers.
type DB struct {
	mu sync.RWMutex

	config Config
	logger logger.Logger
	dir    string
	state  uint32

	tables      map[uint64]*Table
	nextTableID uint64

	ts   *timestamp.ScalableTimestamp
	wlog wal.Logger
}

type State uint32

const (
	_ State = iota
	StateInitialize
	StateOpened
	StateClosed
)

func Open(dir string, config Config) (*DB, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, config.FileMode); err != nil {
		return nil, errMkDir
	}

	db := &DB{
		config: config,
		logger: logger.GetLogger(),
		dir:    dir,
		tables: make(map[uint64]*Table),
		ts:     timestamp.New(),
	}

	atomic.StoreUint32(&db.state, uint32(StateInitialize))

	wlog, err := wal.NewLogger(config.LoggerKind, dir)
	if err != nil {
		return nil, err
	}
	db.wlog = wlog

	atomic.StoreUint32(&db.state, uint32(StateOpened))
	return db, nil
}

func (db *DB) Close() {
	defer atomic.StoreUint32(&db.state, uint32(StateClosed))

	if err := db.wlog.Close(); err != nil {
		db.logger.Errorf("failed to close write-ahead logger: %v", err)
	}
}

func (db *DB) State() State {
	return State(atomic.LoadUint32(&db.state))
}

// CreateTable registers a table for schema and returns it. Table IDs
// are assigned in registration order.
func (db *DB) CreateTable(schema *types.Schema) *Table {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := db.nextTableID
	db.nextTableID++

	table := newTable(id, schema, db.config)
	db.tables[id] = table

	db.logger.Infof("table %q created with id %d", schema.TableName, id)
	return table
}

func (db *DB) Table(id uint64) (*Table, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	table, ok := db.tables[id]
	return table, ok
}

// DurableUntil is the logger's commit frontier.
func (db *DB) DurableUntil() uint64 {
	return db.wlog.DurableUntil()
}

// Get is a standalone snapshot read outside any transaction: it
// latches the record in Read mode and returns a copy of the payload if
// the record is logically present.
func (db *DB) Get(tableID uint64, key string) ([]byte, bool, error) {
	table, ok := db.Table(tableID)
	if !ok {
		return nil, false, ErrUnknownTable
	}

	tr, ok := table.SelectRecord(key)
	if !ok {
		return nil, false, nil
	}

	tr.Content.AcquireRead()
	defer tr.Content.ReleaseRead()

	if !tr.Record.IsVisible() {
		return nil, false, nil
	}

	data := make([]byte, len(tr.Record.Data))
	copy(data, tr.Record.Data)
	return data, true, nil
}

// Scan returns copies of the visible payloads with keys in [start, end).
func (db *DB) Scan(tableID uint64, start, end string) ([][]byte, error) {
	table, ok := db.Table(tableID)
	if !ok {
		return nil, ErrUnknownTable
	}

	var res [][]byte
	for _, tr := range table.ScanRecords(start, end) {
		tr.Content.AcquireRead()
		if tr.Record.IsVisible() {
			data := make([]byte, len(tr.Record.Data))
			copy(data, tr.Record.Data)
			res = append(res, data)
		}
		tr.Content.ReleaseRead()
	}
	return res, nil
}
