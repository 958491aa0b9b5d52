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
	"github.com/oslab/kconc/pkg/kernel/arch"
	"github.com/oslab/kconc/pkg/kernel/kernerr"
)

// Proc is the external process object (spec.md §6): opaque to the core
// beyond the fields the table and syscall adapters need to read. The
// thread scheduler, VM system, and ELF loader that would populate a real
// Proc are out of scope (spec.md §1 Non-goals); Proc here is the seam
// those collaborators would plug into.
type Proc struct {
	Name      string
	AddrSpace *AddressSpace

	// argvStack is the most recent execv's marshalled argument stack
	// (arch.Build's output), kept only so tests can inspect argc and
	// string placement after a successful Execv.
	argvStack *arch.Stack
}

// ArgvStack returns the argument stack installed by the most recent
// successful Execv, or nil before the first one.
func (p *Proc) ArgvStack() *arch.Stack { return p.argvStack }

// NewProc returns a Proc with a fresh, empty address space.
func NewProc(name string) *Proc {
	return &Proc{Name: name, AddrSpace: NewAddressSpace()}
}

// Thread stands in for the thread_fork/thread_exit/curthread collaborator
// API (spec.md §6). A real kernel schedules Threads preemptively; here a
// Thread is backed directly by a goroutine, which is an acceptable
// substitution for a "preemptively scheduled parallel thread" (spec.md
// §5) in a hosted Go process.
type Thread struct {
	done chan struct{}
}

// ThreadFork starts fn on a new Thread and returns immediately, mirroring
// thread_fork's fire-and-forget contract.
func ThreadFork(fn func()) *Thread {
	th := &Thread{done: make(chan struct{})}
	go func() {
		defer close(th.done)
		fn()
	}()
	return th
}

// Join blocks until the thread's function has returned. Real OS/161 code
// never joins a forked thread (the child reports its own exit through the
// process table instead); Join exists only so tests can synchronize
// without a sleep.
func (t *Thread) Join() { <-t.done }

// StatusOut is the copyout collaborator (spec.md §6) that waitpid uses to
// publish the encoded wait status to the caller. It is a narrow seam
// rather than a full user-memory model, since paging is out of scope.
type StatusOut interface {
	// Set copies status to wherever the caller's status pointer points.
	// Returns kernerr.BadAddress on any copy-out fault.
	Set(status int32) error
}

// Int32Status is a StatusOut backed by a plain pointer, standing in for a
// successfully-translated user-space address. A nil *Int32Status (not a
// nil *int32) represents a NULL status pointer and is rejected by
// waitpid before Set is ever called; a non-nil Int32Status wrapping a nil
// pointer simulates a copyout fault on an address that failed translation.
type Int32Status struct {
	Dst *int32
}

// Set implements StatusOut.
func (s *Int32Status) Set(status int32) error {
	if s.Dst == nil {
		return kernerr.BadAddress
	}
	*s.Dst = status
	return nil
}

// Loader is the vfs_open/load_elf collaborator execv depends on to bring
// in a new program image (spec.md §6). Loading, ELF parsing, and the VFS
// itself are out of scope; Loader is the seam the real loader would
// satisfy.
type Loader interface {
	// Load opens path and returns the AddressSpace for the new image.
	// Ownership of the returned AddressSpace transfers to the caller.
	Load(path string) (*AddressSpace, error)
}
