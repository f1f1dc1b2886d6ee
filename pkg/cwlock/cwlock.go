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

package cwlock

import (
	"runtime"
	"sync/atomic"
)

const _spinLimit = 64

// Lock is a per-record certify/wait latch with three modes.
//
// Read is shared. Write is single-holder but coexists with readers, so
// validation never blocks concurrent readers. Certify is exclusive of
// everything and is only reachable by promoting a held Write once the
// readers drain; it is the window in which committed state is published.
type Lock struct {
	mu spinMutex

	readers    atomic.Uint32
	writing    atomic.Bool
	certifying atomic.Bool
}

// AcquireRead blocks until no certifier holds the latch.
func (l *Lock) AcquireRead() {
	for {
		spin(func() bool { return !l.certifying.Load() })
		l.mu.lock()
		if l.certifying.Load() {
			l.mu.unlock()
			continue
		}
		l.readers.Add(1)
		l.mu.unlock()
		return
	}
}

func (l *Lock) ReleaseRead() {
	l.mu.lock()
	if l.readers.Load() == 0 {
		l.mu.unlock()
		panic("cwlock: release of read latch not held")
	}
	l.readers.Add(^uint32(0))
	l.mu.unlock()
}

// AcquireWrite blocks until no writer and no certifier holds the latch.
// The returned guard is the only path to Certify promotion.
func (l *Lock) AcquireWrite() *WriteGuard {
	for {
		spin(func() bool { return !l.writing.Load() && !l.certifying.Load() })
		l.mu.lock()
		if l.writing.Load() || l.certifying.Load() {
			l.mu.unlock()
			continue
		}
		l.writing.Store(true)
		l.mu.unlock()
		return &WriteGuard{lock: l}
	}
}

// WriteGuard is a held Write mode. Exactly one of Certify or Release
// must be called; either consumes the guard.
type WriteGuard struct {
	lock *Lock
	done bool
}

// Certify promotes the held Write to Certify once all readers drain.
// The promotion never fails and never releases the latch in between,
// so no other writer can slip in.
func (g *WriteGuard) Certify() *CertifyGuard {
	l := g.check()
	for {
		spin(func() bool { return l.readers.Load() == 0 })
		l.mu.lock()
		if l.readers.Load() != 0 {
			l.mu.unlock()
			continue
		}
		l.writing.Store(false)
		l.certifying.Store(true)
		l.mu.unlock()
		g.done = true
		return &CertifyGuard{lock: l}
	}
}

func (g *WriteGuard) Release() {
	l := g.check()
	l.mu.lock()
	if !l.writing.Load() {
		l.mu.unlock()
		panic("cwlock: release of write latch not held")
	}
	l.writing.Store(false)
	l.mu.unlock()
	g.done = true
}

func (g *WriteGuard) check() *Lock {
	if g.done {
		panic("cwlock: use of consumed write guard")
	}
	return g.lock
}

// CertifyGuard is a held Certify mode.
type CertifyGuard struct {
	lock *Lock
	done bool
}

func (g *CertifyGuard) Release() {
	if g.done {
		panic("cwlock: use of consumed certify guard")
	}
	l := g.lock
	l.mu.lock()
	if !l.certifying.Load() {
		l.mu.unlock()
		panic("cwlock: release of certify latch not held")
	}
	l.certifying.Store(false)
	l.mu.unlock()
	g.done = true
}

// spin busy-waits until cond holds, yielding the proc occasionally so a
// starved holder can run. No blocking syscalls on this path.
func spin(cond func() bool) {
	n := 0
	for !cond() {
		n++
		if n%_spinLimit == 0 {
			runtime.Gosched()
		}
	}
}

type spinMutex struct {
	v atomic.Uint32
}

func (m *spinMutex) lock() {
	n := 0
	for !m.v.CompareAndSwap(0, 1) {
		n++
		if n%_spinLimit == 0 {
			runtime.Gosched()
		}
	}
}

func (m *spinMutex) unlock() {
	m.v.Store(0)
}
