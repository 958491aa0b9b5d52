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

import "github.com/mohae/deepcopy"

// AddressSpace is the external collaborator behind as_create/as_copy/
// as_destroy/as_activate/as_deactivate (spec.md §6). Memory management
// policy itself is out of scope; this type exists only so that fork and
// execv have a concrete payload to duplicate, install, and release.
type AddressSpace struct {
	// Pages holds opaque per-page payloads, keyed by page number. A real
	// implementation would back this with host memory; here it is just
	// data that must survive a fork-time copy intact.
	Pages map[int][]byte

	// Generation increases every time the space is (re)installed by
	// execv, so tests can tell a fresh image from a copied one.
	Generation int

	active bool
}

// NewAddressSpace returns an empty address space (as_create).
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{Pages: make(map[int][]byte)}
}

// Copy duplicates as, including its page contents (as_copy). The
// underlying deep copy is delegated to deepcopy.Copy so that nested slices
// and maps are independent of the original, exactly as a real address-space
// clone must not alias the parent's pages.
func (as *AddressSpace) Copy() *AddressSpace {
	cloned := deepcopy.Copy(as.Pages).(map[int][]byte)
	return &AddressSpace{Pages: cloned, Generation: as.Generation}
}

// Activate marks the address space as the current one for its thread
// (as_activate).
func (as *AddressSpace) Activate() { as.active = true }

// Deactivate unmarks the address space (as_deactivate).
func (as *AddressSpace) Deactivate() { as.active = false }

// Destroy releases the address space (as_destroy). Since AddressSpace owns
// no host resources beyond Go-managed memory, Destroy only clears it so
// that use-after-destroy is easy to catch in tests.
func (as *AddressSpace) Destroy() {
	as.Pages = nil
	as.active = false
}
