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

package types

import "sync/atomic"

// Schema describes the fixed-size payload of a table's records.
type Schema struct {
	TableName string
	Size      int
}

// Record is a row payload. Data bytes are mutated only by a latched
// writer; visibility flips only inside a certify window, so readers may
// load it without a latch.
type Record struct {
	Schema *Schema
	Data   []byte
	Key    string

	visible atomic.Bool
}

func NewRecord(schema *Schema, data []byte, key string) *Record {
	return &Record{
		Schema: schema,
		Data:   data,
		Key:    key,
	}
}

func (r *Record) IsVisible() bool {
	return r.visible.Load()
}

func (r *Record) SetVisible(v bool) {
	r.visible.Store(v)
}

// CopyFrom overwrites the payload bytes with other's. Both records must
// carry the same schema.
func (r *Record) CopyFrom(other *Record) {
	copy(r.Data, other.Data)
}

func (r *Record) Size() int {
	return r.Schema.Size
}
