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

// mkwaitExit encodes an exit code into a wait status word using the
// _MKWAIT_EXIT convention (spec.md §4.3, §6): the exit code occupies the
// high byte, with the low byte reserved for a future signalled-exit
// encoding this core never produces.
func mkwaitExit(code int32) int32 { return code << 8 }

// Fork creates a child process running the same image as parent and
// links it into the table as parent's child, per the fork contract in
// spec.md §4.3. The address-space duplication is delegated to proc's
// collaborator.
//
// start, if given, stands in for the remaining fallible steps the
// original performs after the table is updated (thread_fork, trapframe
// copy). If start returns an error, every mutation Fork made — the
// parent/child link, both numref increments, and the child's table
// entry — is rolled back before Fork returns start's error, so a failed
// fork leaves no trace in the table.
func (t *Table) Fork(parent *ProcessEntry, start ...func(child *ProcessEntry) error) (*ProcessEntry, error) {
	childAS := parent.proc.AddrSpace.Copy()
	childProc := &Proc{Name: parent.proc.Name, AddrSpace: childAS}

	t.Lock()
	defer t.Unlock()

	child, err := t.CreateLocked(childProc)
	if err != nil {
		return nil, err
	}

	child.parent = parent
	parent.children = append(parent.children, child)
	parent.numref++
	child.numref++

	if len(start) == 0 || start[0] == nil {
		return child, nil
	}
	if err := start[0](child); err != nil {
		parent.numref--
		child.numref--
		parent.children = parent.children[:len(parent.children)-1]
		child.parent = nil
		t.removeLocked(child)
		return nil, err
	}
	return child, nil
}

// Exit runs _exit(code) for self under the table lock, per spec.md
// §4.3's four-step protocol: decrement the parent's reference, decrement
// every child's reference (reaping any that are already dead and now
// unreferenced), publish self's exit code and wake waiters, then reap
// self immediately if it has become an unreferenced orphan.
func (t *Table) Exit(self *ProcessEntry, code int32) {
	t.Lock()
	defer t.Unlock()

	if self.parent != nil {
		self.parent.numref--
		t.reapIfOrphanedLocked(self.parent)
	}

	for _, c := range self.children {
		c.numref--
		t.reapIfOrphanedLocked(c)
	}

	self.isdead = true
	self.exitcode = code
	_ = t.BroadcastForLocked(self.pid) // self's own entry always exists here

	t.reapIfOrphanedLocked(self)
}

// Waitpid implements waitpid(pid, status, options), per spec.md §4.3 and
// §6. options must be 0 and status must be non-nil; the caller must be
// the target's parent. On success it blocks until the target is dead,
// encodes its exit code per _MKWAIT_EXIT, copies it out through status,
// and returns the waited-on pid.
func (t *Table) Waitpid(callerPid, pid int, status StatusOut, options int) (int, error) {
	if options != 0 {
		return 0, kernerr.InvalidArgument
	}
	if s, ok := status.(*Int32Status); status == nil || (ok && s == nil) {
		return 0, kernerr.BadAddress
	}

	t.Lock()
	if err := t.WaitOnLocked(callerPid, pid); err != nil {
		t.Unlock()
		return 0, err
	}
	target, err := t.GetLocked(pid)
	if err != nil {
		t.Unlock()
		return 0, err
	}
	encoded := mkwaitExit(target.exitcode)

	// Collecting the exit status releases the parent's hold on the
	// zombie: a pid can only be waited for once (matching waitpid(2)),
	// so the reference _exit's bookkeeping left pointing at the parent
	// is retired here rather than left for the parent's own exit to
	// clear. This is the design's resolution of the reaping-rule
	// ambiguity noted in spec.md §9's open questions. The target is also
	// dropped from the parent's children so that Exit does not decrement
	// it a second time.
	parent := target.parent
	for i, ch := range parent.children {
		if ch == target {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	target.numref--
	t.reapIfOrphanedLocked(target)
	t.Unlock()

	if err := status.Set(encoded); err != nil {
		return 0, err
	}
	return pid, nil
}

// Getpid returns self's pid. No locking is required: pid is immutable
// for the lifetime of a process (spec.md §4.3).
func (t *Table) Getpid(self *ProcessEntry) int {
	return self.pid
}

// Execv replaces self's address space with one loaded from path via
// loader, per spec.md §4.3: the new image is loaded and its argv
// marshalled onto the new stack before the old address space is
// released, so a failed load or failed argv marshal leaves self's
// current image intact.
func (t *Table) Execv(self *ProcessEntry, path string, argv []string, loader Loader, layout *arch.Layout) error {
	if err := arch.CheckPath(path, layout); err != nil {
		return err
	}

	stack, err := arch.Build(argv, layout)
	if err != nil {
		return err
	}

	newAS, err := loader.Load(path)
	if err != nil {
		return err
	}

	oldAS := self.proc.AddrSpace
	oldAS.Deactivate()
	newAS.Generation = oldAS.Generation + 1
	self.proc.AddrSpace = newAS
	newAS.Activate()
	oldAS.Destroy()

	self.proc.argvStack = stack
	return nil
}
