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

import "sync"

// ProcessEntry is the process table's record for one live or zombie
// process: its pid, its link to the external Proc object, its exit
// rendezvous state, and its position in the parent/child tree.
//
// All fields are protected by the owning Table's lock; ProcessEntry has no
// lock of its own (monitor pattern, spec.md §3).
type ProcessEntry struct {
	pid  int
	proc *Proc

	isdead   bool
	exitcode int32
	exitCV   *sync.Cond

	parent   *ProcessEntry
	children []*ProcessEntry

	// numref counts live relatives (parent plus each still-live child)
	// that still reference this entry. An entry is reclaimed exactly
	// when isdead && numref == 0.
	numref int
}

// newProcessEntry allocates a zeroed entry with its exit condition
// variable bound to the table lock mu (monitor pattern: one shared lock,
// one condition variable per entry). The caller is responsible for
// setting pid/proc and inserting the entry into a Table, per create()'s
// contract in spec.md §4.1.
func newProcessEntry(mu *sync.Mutex) *ProcessEntry {
	return &ProcessEntry{
		exitCV: sync.NewCond(mu),
	}
}

// destroy releases the entry's condition variable and child list. The
// caller must guarantee isdead && numref == 0 before calling; destroy
// itself does not re-check this, since by the time a Table calls it under
// lock the precondition has already been established.
func (e *ProcessEntry) destroy() {
	e.exitCV = nil
	e.children = nil
	e.parent = nil
	e.proc = nil
}

// PID returns the entry's process identifier.
func (e *ProcessEntry) PID() int { return e.pid }

// IsDead reports whether the process has called _exit.
func (e *ProcessEntry) IsDead() bool { return e.isdead }

// ExitCode returns the published exit code. Only meaningful once IsDead
// is true.
func (e *ProcessEntry) ExitCode() int32 { return e.exitcode }

// Proc returns the external process object backing this entry.
func (e *ProcessEntry) Proc() *Proc { return e.proc }
