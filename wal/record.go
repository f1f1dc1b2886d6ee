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
	"github.com/apache/thrift/lib/go/thrift"
)

var _ thrift.TStruct = (*LogRecord)(nil)

const (
	KindUpdate int8 = iota + 1
	KindInsert
	KindDelete
	KindCommit
)

// LogRecord is one framed entry of the write-ahead log. Update and
// Insert records carry an s2-compressed after-image in Payload; Commit
// records of the command variant carry TxnType and Param instead.
type LogRecord struct {
	Kind      int8   `frugal:"1,default,i8" thrift:"kind,1"`
	ThreadID  int64  `frugal:"2,default,i64" thrift:"thread_id,2"`
	TableID   int64  `frugal:"3,default,i64" thrift:"table_id,3"`
	Timestamp int64  `frugal:"4,default,i64" thrift:"timestamp,4"`
	Key       string `frugal:"5,default,string" thrift:"key,5"`
	Payload   []byte `frugal:"6,default,binary" thrift:"payload,6"`
	TxnType   int64  `frugal:"7,default,i64" thrift:"txn_type,7"`
	Param     []byte `frugal:"8,default,binary" thrift:"param,8"`
}

func (r *LogRecord) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("LogRecord"); err != nil {
		return err
	}
	if err := p.WriteFieldBegin("kind", thrift.BYTE, 1); err != nil {
		return err
	}
	if err := p.WriteByte(r.Kind); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldBegin("thread_id", thrift.I64, 2); err != nil {
		return err
	}
	if err := p.WriteI64(r.ThreadID); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldBegin("table_id", thrift.I64, 3); err != nil {
		return err
	}
	if err := p.WriteI64(r.TableID); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldBegin("timestamp", thrift.I64, 4); err != nil {
		return err
	}
	if err := p.WriteI64(r.Timestamp); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldBegin("key", thrift.STRING, 5); err != nil {
		return err
	}
	if err := p.WriteString(r.Key); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldBegin("payload", thrift.STRING, 6); err != nil {
		return err
	}
	if err := p.WriteBinary(r.Payload); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldBegin("txn_type", thrift.I64, 7); err != nil {
		return err
	}
	if err := p.WriteI64(r.TxnType); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldBegin("param", thrift.STRING, 8); err != nil {
		return err
	}
	if err := p.WriteBinary(r.Param); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}

func (r *LogRecord) Read(p thrift.TProtocol) error {
	if _, err := p.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, typeID, id, err := p.ReadFieldBegin()
		if err != nil {
			return err
		}
		if typeID == thrift.STOP {
			break
		}
		switch id {
		case 1:
			if r.Kind, err = p.ReadByte(); err != nil {
				return err
			}
		case 2:
			if r.ThreadID, err = p.ReadI64(); err != nil {
				return err
			}
		case 3:
			if r.TableID, err = p.ReadI64(); err != nil {
				return err
			}
		case 4:
			if r.Timestamp, err = p.ReadI64(); err != nil {
				return err
			}
		case 5:
			if r.Key, err = p.ReadString(); err != nil {
				return err
			}
		case 6:
			if r.Payload, err = p.ReadBinary(); err != nil {
				return err
			}
		case 7:
			if r.TxnType, err = p.ReadI64(); err != nil {
				return err
			}
		case 8:
			if r.Param, err = p.ReadBinary(); err != nil {
				return err
			}
		default:
			if err = p.Skip(typeID); err != nil {
				return err
			}
		}
		if err = p.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return p.ReadStructEnd()
}
