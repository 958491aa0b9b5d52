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

package kernel

import (
	"sync"

	"github.com/oslab/kconc/pkg/kernel/kernerr"
)

// Table is the process table (spec.md §3): a single lock guarding a pid
// allocator and a map of live and zombie ProcessEntry records. It is the
// monitor that the syscall adapters in syscalls.go compose their
// multi-step invariants on top of.
//
// Table exposes an explicit Lock/Unlock pair (spec.md §4.2's
// lock_acquire/lock_release) rather than hiding the mutex, because the
// syscall layer needs to hold the lock across several table operations to
// keep fork, _exit, and waitpid atomic.
type Table struct {
	mu    sync.Mutex
	alloc *PIDAllocator
	slots map[int]*ProcessEntry
}

// NewTable returns an empty table allocating pids in [min, max].
func NewTable(min, max int) *Table {
	return &Table{
		alloc: NewPIDAllocator(min, max),
		slots: make(map[int]*ProcessEntry),
	}
}

// Lock acquires the table lock. Callers composing several table
// operations atomically must call Lock once and use the *Locked methods.
func (t *Table) Lock() { t.mu.Lock() }

// Unlock releases the table lock.
func (t *Table) Unlock() { t.mu.Unlock() }

// Create allocates a pid and inserts a new, live ProcessEntry for proc,
// returning the entry. It takes the table lock itself; use CreateLocked
// when composing with other operations under an existing Lock.
func (t *Table) Create(proc *Proc) (*ProcessEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.CreateLocked(proc)
}

// CreateLocked is Create's lock-assumed-held counterpart.
func (t *Table) CreateLocked(proc *Proc) (*ProcessEntry, error) {
	pid, err := t.alloc.Allocate()
	if err != nil {
		return nil, err
	}
	e := newProcessEntry(&t.mu)
	e.pid = pid
	e.proc = proc
	t.slots[pid] = e
	return e, nil
}

// Get looks up the entry for pid.
func (t *Table) Get(pid int) (*ProcessEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.GetLocked(pid)
}

// GetLocked is Get's lock-assumed-held counterpart.
func (t *Table) GetLocked(pid int) (*ProcessEntry, error) {
	if pid < t.alloc.min || pid > t.alloc.max {
		return nil, kernerr.OutOfRange
	}
	e, ok := t.slots[pid]
	if !ok {
		return nil, kernerr.NotFound
	}
	return e, nil
}

// removeLocked deletes pid's slot and returns the pid to the allocator.
// Callers must already hold the lock and must have established
// e.isdead && e.numref == 0 — except Fork's rollback path, which tears
// down an entry that never finished being created and so was never
// live in the first place.
func (t *Table) removeLocked(e *ProcessEntry) {
	delete(t.slots, e.pid)
	t.alloc.Free(e.pid)
	e.destroy()
}

// reapIfOrphanedLocked destroys e's table slot if it has become
// unreachable: dead with no live parent or child still referencing it.
// Called after every numref decrement that can push an entry to zero, per
// the "destroy on last reference" rule in spec.md §3.
func (t *Table) reapIfOrphanedLocked(e *ProcessEntry) {
	if e.isdead && e.numref == 0 {
		t.removeLocked(e)
	}
}

// WaitOnLocked blocks callerPid until pid's entry is dead, per wait_on's
// contract in spec.md §4.2. It fails with NoSuchChild if callerPid is not
// pid's parent, without blocking. Once blocked, it re-checks isdead on
// every wakeup (Mesa semantics, spec.md §5): a broadcast only means
// "re-check," never "the condition you were waiting for is now true."
// Must be called with the lock held; the lock is released while blocked
// and reacquired before WaitOnLocked returns.
func (t *Table) WaitOnLocked(callerPid, pid int) error {
	target, err := t.GetLocked(pid)
	if err != nil {
		return err
	}
	if target.parent == nil || target.parent.pid != callerPid {
		return kernerr.NoSuchChild
	}
	for !target.isdead {
		target.exitCV.Wait()
	}
	return nil
}

// BroadcastForLocked wakes every waiter sleeping on pid's exitcv.
// Precondition (enforced by the caller's own control flow, per spec.md
// §4.2): the caller is the process identified by pid, publishing its own
// death.
func (t *Table) BroadcastForLocked(pid int) error {
	e, err := t.GetLocked(pid)
	if err != nil {
		return err
	}
	e.exitCV.Broadcast()
	return nil
}
