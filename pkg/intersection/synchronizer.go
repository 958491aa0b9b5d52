// Copyright 2018 The gVisor Authors.
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

package intersection

import (
	"fmt"
	"sync"
)

// Synchronizer is the intersection's monitor: a single lock, twelve block
// counters, and twelve condition variables, one pair per movement class
// (spec.md §3, §4.4).
type Synchronizer struct {
	mu    sync.Mutex
	block [numClasses]int
	wait  [numClasses]*sync.Cond
}

// NewSynchronizer returns an initialized synchronizer (init()): all block
// counters zeroed, all condition variables created and bound to the
// shared lock.
func NewSynchronizer() *Synchronizer {
	s := &Synchronizer{}
	for i := range s.wait {
		s.wait[i] = sync.NewCond(&s.mu)
	}
	return s
}

// Cleanup releases the synchronizer's synchronization objects
// (cleanup()). The caller must guarantee no thread is currently blocked
// in BeforeEntry; Cleanup does not itself check this, matching the
// source contract's precondition rather than a runtime assertion.
func (s *Synchronizer) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wait {
		s.wait[i] = nil
	}
}

// classOf resolves (origin, dest) to a movement class, panicking on an
// invalid pair: spec.md §4.4 treats this as a fatal programming error,
// not a recoverable one.
func classOf(origin, dest Direction) Class {
	c, ok := classIndex(origin, dest)
	if !ok {
		panic(fmt.Sprintf("intersection: invalid movement (%v, %v)", origin, dest))
	}
	return c
}

// BeforeEntry blocks until class c's movement is safe to enter, then
// raises the block counters of every conflicting class so that no
// conflicting movement can enter while this one is inside (spec.md
// §4.4). The wait loop re-checks block[c] on every wakeup (Mesa
// semantics): a signal only means "re-check," never "you're clear."
// Once admitted, it signals its own class once more, so the next waiter
// of the same class (which it does not block) also gets to re-check.
func (s *Synchronizer) BeforeEntry(origin, dest Direction) {
	c := classOf(origin, dest)

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.block[c] > 0 {
		s.wait[c].Wait()
	}
	for x := Class(0); x < numClasses; x++ {
		if x != c && conflicts(c, x) {
			s.block[x]++
		}
	}
	s.wait[c].Signal()
}

// AfterExit releases class c's hold on every class it conflicted with,
// waking one waiter per class that just became unblocked (spec.md §4.4).
// A single signal per class suffices: each class has its own condition
// variable, a vehicle admitted by that signal passes the wakeup on to the
// next waiter of its own class as it enters (see BeforeEntry), and it
// signals its conflicting classes when it later departs (spec.md §9's
// resolution of the signal-vs-broadcast open question).
func (s *Synchronizer) AfterExit(origin, dest Direction) {
	c := classOf(origin, dest)

	s.mu.Lock()
	defer s.mu.Unlock()

	for x := Class(0); x < numClasses; x++ {
		if x != c && conflicts(c, x) {
			s.block[x]--
			s.wait[x].Signal()
		}
	}
}
