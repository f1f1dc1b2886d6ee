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

package filter

import (
	"math"

	"github.com/spaolacci/murmur3"
)

const _defaultP = 0.01

// Filter is a bloom filter over primary keys. Add and Contains are not
// synchronized; the owning table serializes them under its own lock.
type Filter struct {
	bitset []bool
	seeds  []uint32
	m      int
}

// New creates a new BloomFilter sized for n elements at false positive
// rate p; the bitset size and number of hash functions derive from both.
// n: expected nums of elements
// p: expected rate of false errors
func New(n int, p float64) *Filter {
	if n <= 0 {
		n = 1
	}
	if p <= 0 || p >= 1 {
		p = _defaultP
	}
	// size of bitset
	// m = -(n * ln(p)) / (ln(2)^2)
	m := int(math.Ceil(-float64(n) * math.Log(p) / math.Pow(math.Log(2), 2)))
	// nums of hash functions used
	// k = (m/n) * ln(2)
	k := int(math.Round((float64(m) / float64(n)) * math.Log(2)))
	if k < 1 {
		k = 1
	}

	seeds := make([]uint32, k)
	for i := range k {
		seeds[i] = uint32(i)
	}

	return &Filter{
		bitset: make([]bool, m),
		seeds:  seeds,
		m:      m,
	}
}

// Add adds an element to the BloomFilter.
func (f *Filter) Add(key string) {
	for _, seed := range f.seeds {
		index := int(murmur3.Sum32WithSeed([]byte(key), seed)) % f.m
		f.bitset[index] = true
	}
}

// Contains checks if an element is in the BloomFilter.
func (f *Filter) Contains(key string) bool {
	for _, seed := range f.seeds {
		index := int(murmur3.Sum32WithSeed([]byte(key), seed)) % f.m
		if !f.bitset[index] {
			return false
		}
	}
	return true
}
