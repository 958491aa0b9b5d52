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
	"github.com/google/btree"

	"github.com/oslab/kconc/pkg/kernel/kernerr"
)

// pidItem orders pids for the free-slot btree.
type pidItem int

func (p pidItem) Less(than btree.Item) bool {
	return p < than.(pidItem)
}

// PIDAllocator hands out the lowest vacant pid in [min, max], per the
// table's "lowest free slot wins" policy (spec.md §4.2). It replaces the
// naive linear scan over the slot vector with a btree of reaped pids, so
// that Allocate and Free are both O(log n) in the number of free slots.
type PIDAllocator struct {
	min, max int
	next     int       // lowest pid never yet issued
	free     *btree.BTree
}

// NewPIDAllocator returns an allocator for pids in [min, max] inclusive.
func NewPIDAllocator(min, max int) *PIDAllocator {
	return &PIDAllocator{
		min:  min,
		max:  max,
		next: min,
		free: btree.New(8),
	}
}

// Allocate returns the lowest free pid, or kernerr.NoProcSlots if the
// space [min, max] is exhausted.
func (a *PIDAllocator) Allocate() (int, error) {
	if a.free.Len() > 0 {
		min := a.free.Min().(pidItem)
		a.free.Delete(min)
		return int(min), nil
	}
	if a.next > a.max {
		return 0, kernerr.NoProcSlots
	}
	pid := a.next
	a.next++
	return pid, nil
}

// Free returns pid to the pool, making it the next candidate for Allocate
// if it is the lowest vacancy.
func (a *PIDAllocator) Free(pid int) {
	a.free.ReplaceOrInsert(pidItem(pid))
}
