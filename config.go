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
	"os"

	"github.com/B1NARY-GR0UP/orichalcum/wal"
)

type Config struct {
	// Access Log Config
	// hard bound on accesses per transaction; overflow is a sizing bug
	MaxAccessNum int

	// Index Config
	SkipListMaxLevel int
	SkipListP        float64

	// Filter Config
	// expected records per table, sizes the bloom filter
	ExpectedRecords int
	FalsePositiveP  float64

	// Logger Config
	LoggerKind wal.Kind

	FileMode os.FileMode
}

var DefaultConfig = Config{
	MaxAccessNum:     256,
	SkipListMaxLevel: 9,
	SkipListP:        0.5,
	ExpectedRecords:  1 << 16,
	FalsePositiveP:   0.01,
	LoggerKind:       wal.Value,
	FileMode:         0755,
}

func (c *Config) validate() error {
	if c.MaxAccessNum <= 0 {
		c.MaxAccessNum = DefaultConfig.MaxAccessNum
	}
	if c.SkipListMaxLevel <= 0 {
		c.SkipListMaxLevel = DefaultConfig.SkipListMaxLevel
	}
	if c.SkipListP <= 0 {
		c.SkipListP = DefaultConfig.SkipListP
	}
	if c.ExpectedRecords <= 0 {
		c.ExpectedRecords = DefaultConfig.ExpectedRecords
	}
	if c.FalsePositiveP <= 0 {
		c.FalsePositiveP = DefaultConfig.FalsePositiveP
	}
	if c.LoggerKind != wal.Value && c.LoggerKind != wal.Command {
		c.LoggerKind = DefaultConfig.LoggerKind
	}
	if c.FileMode <= 0 {
		c.FileMode = DefaultConfig.FileMode
	}
	return nil
}
