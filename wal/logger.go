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

package wal

import (
	"cmp"
	"os"
	"path"
	"slices"
	"time"

	"github.com/B1NARY-GR0UP/orichalcum/pkg/kway"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/logger"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/utils"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/watermark"
)

type Kind uint8

const (
	Value Kind = iota + 1
	Command
)

// Logger is the commit-time journal. Exactly one variant is active per
// engine: the value variant records after-images of every published
// record, the command variant records only the transaction descriptor.
// Failures are reported but never fail the commit.
type Logger interface {
	UpdateRecord(threadID, tableID uint64, key string, data []byte, commitTs uint64) error
	InsertRecord(threadID, tableID uint64, key string, data []byte, commitTs uint64) error
	DeleteRecord(threadID, tableID uint64, key string, commitTs uint64) error
	CommitTransaction(threadID, globalTs uint64, txnType uint32, param []byte) error

	// DurableUntil is the commit frontier: every transaction whose
	// commit record carries a timestamp at or below it has been logged.
	DurableUntil() uint64

	Close() error
}

func NewLogger(kind Kind, dir string) (Logger, error) {
	switch kind {
	case Command:
		return NewCommandLogger(dir)
	default:
		return NewValueLogger(dir)
	}
}

var _ Logger = (*ValueLogger)(nil)

// ValueLogger records full after-images, s2-compressed.
type ValueLogger struct {
	wal *WAL
	wm  *watermark.WaterMark
}

func NewValueLogger(dir string) (*ValueLogger, error) {
	w, err := Create(dir)
	if err != nil {
		return nil, err
	}
	return &ValueLogger{
		wal: w,
		wm:  watermark.New(),
	}, nil
}

func (l *ValueLogger) UpdateRecord(threadID, tableID uint64, key string, data []byte, commitTs uint64) error {
	return l.wal.Write(&LogRecord{
		Kind:      KindUpdate,
		ThreadID:  int64(threadID),
		TableID:   int64(tableID),
		Timestamp: int64(commitTs),
		Key:       key,
		Payload:   utils.Compress(data),
	})
}

func (l *ValueLogger) InsertRecord(threadID, tableID uint64, key string, data []byte, commitTs uint64) error {
	return l.wal.Write(&LogRecord{
		Kind:      KindInsert,
		ThreadID:  int64(threadID),
		TableID:   int64(tableID),
		Timestamp: int64(commitTs),
		Key:       key,
		Payload:   utils.Compress(data),
	})
}

func (l *ValueLogger) DeleteRecord(threadID, tableID uint64, key string, commitTs uint64) error {
	return l.wal.Write(&LogRecord{
		Kind:      KindDelete,
		ThreadID:  int64(threadID),
		TableID:   int64(tableID),
		Timestamp: int64(commitTs),
		Key:       key,
	})
}

func (l *ValueLogger) CommitTransaction(threadID, globalTs uint64, _ uint32, _ []byte) error {
	l.wm.Begin(globalTs)
	defer l.wm.Done(globalTs)

	return l.wal.Write(&LogRecord{
		Kind:      KindCommit,
		ThreadID:  int64(threadID),
		Timestamp: int64(globalTs),
	})
}

func (l *ValueLogger) DurableUntil() uint64 {
	return l.wm.DoneUntil()
}

func (l *ValueLogger) Close() error {
	return l.wal.Close()
}

var _ Logger = (*CommandLogger)(nil)

// CommandLogger records only (thread, ts, txn type, param) per commit;
// Replay returns these commit records and does not re-execute them.
type CommandLogger struct {
	wal *WAL
	wm  *watermark.WaterMark
}

func NewCommandLogger(dir string) (*CommandLogger, error) {
	w, err := Create(dir)
	if err != nil {
		return nil, err
	}
	return &CommandLogger{
		wal: w,
		wm:  watermark.New(),
	}, nil
}

func (l *CommandLogger) UpdateRecord(_, _ uint64, _ string, _ []byte, _ uint64) error {
	return nil
}

func (l *CommandLogger) InsertRecord(_, _ uint64, _ string, _ []byte, _ uint64) error {
	return nil
}

func (l *CommandLogger) DeleteRecord(_, _ uint64, _ string, _ uint64) error {
	return nil
}

func (l *CommandLogger) CommitTransaction(threadID, globalTs uint64, txnType uint32, param []byte) error {
	l.wm.Begin(globalTs)
	defer l.wm.Done(globalTs)

	return l.wal.Write(&LogRecord{
		Kind:      KindCommit,
		ThreadID:  int64(threadID),
		Timestamp: int64(globalTs),
		TxnType:   int64(txnType),
		Param:     param,
	})
}

func (l *CommandLogger) DurableUntil() uint64 {
	return l.wm.DoneUntil()
}

func (l *CommandLogger) Close() error {
	return l.wal.Close()
}

// Replay reads every segment under dir and returns all records merged
// in timestamp order. Payloads of update and insert records are
// decompressed.
func Replay(dir string) ([]*LogRecord, error) {
	defer utils.Elapsed(time.Now(), logger.GetLogger(), "wal replay")

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var segments [][]*LogRecord
	for _, file := range files {
		if file.IsDir() || path.Ext(file.Name()) != _walExt {
			continue
		}
		w, err := Open(path.Join(dir, file.Name()))
		if err != nil {
			return nil, err
		}
		records, err := w.Read()
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(records, func(a, b *LogRecord) int {
			return cmp.Compare(a.Timestamp, b.Timestamp)
		})
		segments = append(segments, records)
	}

	merged := kway.Merge(func(a, b *LogRecord) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	}, segments...)

	for _, rec := range merged {
		if rec.Kind != KindUpdate && rec.Kind != KindInsert {
			continue
		}
		data, err := utils.Decompress(rec.Payload)
		if err != nil {
			return nil, err
		}
		rec.Payload = data
	}
	return merged, nil
}
