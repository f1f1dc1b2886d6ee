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

	"github.com/B1NARY-GR0UP/orichalcum/pkg/arena"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/cwlock"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/logger"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/utils"
	"github.com/B1NARY-GR0UP/orichalcum/types"
)

var (
	ErrConflictTxn  = errors.New("transaction validation conflict")
	ErrUnknownTable = errors.New("unknown table")
)

// TxnContext identifies the running transaction for logging and the
// command log; it carries no state the core mutates.
type TxnContext struct {
	Type     uint32
	ThreadID uint64
}

// TransactionManager drives one transaction at a time on behalf of one
// worker thread. It is optimistic: record accesses run without
// validation, the commit sorts the journal into the global record
// order, validates snapshots under latches, and publishes under
// transient Certify windows. It is not safe for concurrent use; spawn
// one manager per thread.
type TransactionManager struct {
	db     *DB
	logger logger.Logger

	threadID uint64
	accesses *accessList
	arena    *arena.Allocator
}

func (db *DB) NewTransactionManager(threadID uint64) *TransactionManager {
	return &TransactionManager{
		db:       db,
		logger:   logger.GetLogger(),
		threadID: threadID,
		accesses: newAccessList(db.config.MaxAccessNum),
		arena:    arena.New(),
	}
}

// InsertRecord registers a new, not yet visible record under the
// table's upsert semantics and journals it. The record becomes visible
// to other transactions only when this one commits.
func (tm *TransactionManager) InsertRecord(ctx *TxnContext, tableID uint64, key string, record *types.Record) bool {
	table, ok := tm.db.Table(tableID)
	if !ok {
		tm.logger.Errorf("insert into unknown table %d", tableID)
		return false
	}

	record.SetVisible(false)
	tr := NewTableRecord(tableID, record)
	table.InsertRecord(key, tr)

	access := tm.newAccess()
	access.Kind = InsertOnly
	access.Record = tr
	access.TableID = tableID
	access.order = utils.Hash(key)
	return true
}

// SelectRecord journals an access to tr and returns the record the
// caller may use: the live payload for ReadOnly and DeleteOnly, a
// shadow copy for ReadWrite. The caller mutates only the returned
// record; shadows are written back at commit.
func (tm *TransactionManager) SelectRecord(ctx *TxnContext, tableID uint64, tr *TableRecord, kind AccessKind) (*types.Record, bool) {
	if access := tm.accesses.find(tr); access != nil {
		return tm.reuse(access, kind)
	}

	switch kind {
	case ReadOnly:
		access := tm.newAccess()
		access.Kind = ReadOnly
		access.Record = tr
		access.TableID = tableID
		access.Timestamp = tr.Content.GetTimestamp()
		access.order = utils.Hash(tr.PrimaryKey())
		return tr.Record, true

	case ReadWrite:
		shadow, ok := tm.newShadow(tr)
		if !ok {
			return nil, false
		}

		access := tm.newAccess()
		access.Kind = ReadWrite
		access.Record = tr
		access.TableID = tableID
		// timestamp first, then copy: a writer that publishes in
		// between changes the timestamp and validation catches the
		// stale shadow
		access.Timestamp = tr.Content.GetTimestamp()
		shadow.CopyFrom(tr.Record)
		access.Shadow = shadow
		access.order = utils.Hash(tr.PrimaryKey())
		return shadow, true

	case DeleteOnly:
		access := tm.newAccess()
		access.Kind = DeleteOnly
		access.Record = tr
		access.TableID = tableID
		access.order = utils.Hash(tr.PrimaryKey())
		return tr.Record, true

	default:
		tm.logger.Panicf("select with invalid access kind %v", kind)
		return nil, false
	}
}

// reuse folds a repeated touch of a journaled record into its existing
// entry, so commit acquires each record latch exactly once with the
// strongest requested mode. A later delete wins over reads and writes;
// a write upgrade keeps the originally observed snapshot timestamp.
func (tm *TransactionManager) reuse(access *Access, kind AccessKind) (*types.Record, bool) {
	switch kind {
	case ReadOnly:
		if access.Shadow != nil {
			return access.Shadow, true
		}
		return access.Record.Record, true

	case ReadWrite:
		switch access.Kind {
		case ReadOnly:
			shadow, ok := tm.newShadow(access.Record)
			if !ok {
				return nil, false
			}
			shadow.CopyFrom(access.Record.Record)
			access.Kind = ReadWrite
			access.Shadow = shadow
			return shadow, true
		case ReadWrite:
			return access.Shadow, true
		case InsertOnly:
			// own insert, still invisible to others; mutate in place
			return access.Record.Record, true
		default:
			tm.logger.Panicf("select for update of a record deleted in this transaction")
			return nil, false
		}

	case DeleteOnly:
		if access.Shadow != nil {
			tm.arena.Free(access.Shadow.Data)
			access.Shadow = nil
		}
		// delete wins; an insert-then-delete is simply never published
		access.Kind = DeleteOnly
		return access.Record.Record, true

	default:
		tm.logger.Panicf("select with invalid access kind %v", kind)
		return nil, false
	}
}

// CommitTransaction validates and publishes the journal.
//
// Step 1 latches every access in the global record order and checks
// that validated snapshots still match. Step 2, on success, publishes
// every write inside a transient Write-to-Certify escalation and emits
// log events. Step 3 releases exactly what step 1 acquired; on the
// failure path that is the latched prefix, nothing more.
func (tm *TransactionManager) CommitTransaction(ctx *TxnContext, param []byte) error {
	tm.accesses.sort()

	n := tm.accesses.count()
	guards := make([]*cwlock.WriteGuard, n)

	var maxRWTs uint64
	locksHeld := 0
	success := true

	// step 1: acquire and validate
	for i := 0; i < n; i++ {
		access := tm.accesses.get(i)
		content := &access.Record.Content

		switch access.Kind {
		case ReadOnly:
			content.AcquireRead()
			locksHeld = i + 1
			if content.GetTimestamp() != access.Timestamp {
				success = false
			} else if access.Timestamp > maxRWTs {
				maxRWTs = access.Timestamp
			}
		case ReadWrite:
			guards[i] = content.AcquireWrite()
			locksHeld = i + 1
			if content.GetTimestamp() != access.Timestamp {
				success = false
			} else if access.Timestamp > maxRWTs {
				maxRWTs = access.Timestamp
			}
		default:
			// InsertOnly and DeleteOnly have no snapshot to validate
			guards[i] = content.AcquireWrite()
			locksHeld = i + 1
		}
		if !success {
			break
		}
	}

	// step 2: publish
	if success {
		globalTs := tm.db.ts.GetTimestamp()
		commitTs := tm.db.ts.GenerateCommitTs(globalTs, maxRWTs)

		for i := 0; i < n; i++ {
			access := tm.accesses.get(i)
			tr := access.Record

			switch access.Kind {
			case ReadWrite:
				cg := guards[i].Certify()
				guards[i] = nil
				tr.Record.CopyFrom(access.Shadow)
				tr.Content.SetTimestamp(commitTs)
				cg.Release()
				if err := tm.db.wlog.UpdateRecord(tm.threadID, access.TableID, tr.PrimaryKey(), access.Shadow.Data, commitTs); err != nil {
					tm.logger.Errorf("value log update failed: %v", err)
				}
			case InsertOnly:
				cg := guards[i].Certify()
				guards[i] = nil
				tr.Record.SetVisible(true)
				tr.Content.SetTimestamp(commitTs)
				// snapshot the after-image inside the certify window;
				// the log write itself must not run under the latch
				image := append([]byte(nil), tr.Record.Data...)
				cg.Release()
				if err := tm.db.wlog.InsertRecord(tm.threadID, access.TableID, tr.PrimaryKey(), image, commitTs); err != nil {
					tm.logger.Errorf("value log insert failed: %v", err)
				}
			case DeleteOnly:
				cg := guards[i].Certify()
				guards[i] = nil
				tr.Record.SetVisible(false)
				tr.Content.SetTimestamp(commitTs)
				cg.Release()
				if err := tm.db.wlog.DeleteRecord(tm.threadID, access.TableID, tr.PrimaryKey(), commitTs); err != nil {
					tm.logger.Errorf("value log delete failed: %v", err)
				}
			case ReadOnly:
				// nothing to publish, Read is held until step 3
			}
		}

		if err := tm.db.wlog.CommitTransaction(tm.threadID, globalTs, ctx.Type, param); err != nil {
			tm.logger.Errorf("commit log failed: %v", err)
		}

		// step 3: release and clean up
		for i := 0; i < n; i++ {
			access := tm.accesses.get(i)
			switch access.Kind {
			case ReadOnly:
				access.Record.Content.ReleaseRead()
			case ReadWrite:
				tm.arena.Free(access.Shadow.Data)
				access.Shadow = nil
			}
		}
	} else {
		// step 3, failure path: release exactly the latched prefix
		for i := 0; i < locksHeld; i++ {
			access := tm.accesses.get(i)
			switch access.Kind {
			case ReadOnly:
				access.Record.Content.ReleaseRead()
			default:
				guards[i].Release()
			}
			if access.Kind == ReadWrite {
				tm.arena.Free(access.Shadow.Data)
				access.Shadow = nil
			}
		}
		// accesses past the prefix were never latched; their shadows
		// still go back to the arena
		for i := locksHeld; i < n; i++ {
			access := tm.accesses.get(i)
			if access.Kind == ReadWrite {
				tm.arena.Free(access.Shadow.Data)
				access.Shadow = nil
			}
		}
	}

	tm.accesses.clear()

	if !success {
		return ErrConflictTxn
	}
	return nil
}

func (tm *TransactionManager) newAccess() *Access {
	access, ok := tm.accesses.append()
	if !ok {
		tm.logger.Panicf("access log overflow, more than %d accesses in one transaction", tm.db.config.MaxAccessNum)
	}
	return access
}

func (tm *TransactionManager) newShadow(tr *TableRecord) (*types.Record, bool) {
	schema := tr.Record.Schema
	data := tm.arena.Alloc(schema.Size)
	if data == nil {
		tm.logger.Errorf("shadow allocation of %d bytes failed", schema.Size)
		return nil, false
	}
	return types.NewRecord(schema, data, tr.PrimaryKey()), true
}
