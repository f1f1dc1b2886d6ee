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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/B1NARY-GR0UP/orichalcum/pkg/bufferpool"
	"github.com/B1NARY-GR0UP/orichalcum/pkg/utils"
)

const _walExt = ".log"

// WAL is one append-only segment of length-prefixed LogRecord frames.
type WAL struct {
	mu      sync.Mutex
	fd      *os.File
	path    string
	version int64
}

func Create(dir string) (*WAL, error) {
	version := time.Now().UnixNano()
	for {
		p := path.Join(dir, fmt.Sprintf("%020d%s", version, _walExt))
		fd, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0644)
		if errors.Is(err, os.ErrExist) {
			version++
			continue
		}
		if err != nil {
			return nil, err
		}
		return &WAL{
			fd:      fd,
			path:    p,
			version: version,
		}, nil
	}
}

func Open(p string) (*WAL, error) {
	fd, err := os.OpenFile(p, os.O_RDONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &WAL{
		fd:      fd,
		path:    p,
		version: ParseVersion(path.Base(p)),
	}, nil
}

func (w *WAL) Write(rec *LogRecord) error {
	blob, err := utils.TMarshal(rec)
	if err != nil {
		return err
	}

	buf := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(buf)

	ew := utils.NewErrorWriter(buf)
	ew.Write(binary.LittleEndian, uint32(len(blob)))
	ew.Write(binary.LittleEndian, blob)
	if err = ew.Error(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.fd.Write(buf.Bytes())
	return err
}

// Read decodes every frame of the segment in file order.
func (w *WAL) Read() ([]*LogRecord, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, err
	}

	var records []*LogRecord
	reader := bytes.NewReader(data)
	er := utils.NewErrorReader(reader)
	for reader.Len() > 0 {
		var size uint32
		er.Read(binary.LittleEndian, &size)
		if err = er.Error(); err != nil {
			return nil, err
		}
		blob := make([]byte, size)
		er.Read(binary.LittleEndian, blob)
		if err = er.Error(); err != nil {
			return nil, err
		}

		rec := new(LogRecord)
		if err = utils.TUnmarshal(blob, rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (w *WAL) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fd.Sync()
}

func (w *WAL) Close() error {
	return w.fd.Close()
}

func (w *WAL) Delete() error {
	if err := w.fd.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return os.Remove(w.path)
}

func (w *WAL) Path() string {
	return w.path
}

func (w *WAL) Version() int64 {
	return w.version
}

func ParseVersion(name string) int64 {
	v, err := strconv.ParseInt(strings.TrimSuffix(name, _walExt), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func CompareVersion(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
