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
	"errors"
	"testing"

	"github.com/oslab/kconc/pkg/kernel/arch"
	"github.com/oslab/kconc/pkg/kernel/kernerr"
)

type fakeLoader struct {
	as  *AddressSpace
	err error
}

func (f *fakeLoader) Load(path string) (*AddressSpace, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.as, nil
}

func TestExecvInstallsNewImage(t *testing.T) {
	tab, p := newTestTable(t, 16)
	oldAS := p.Proc().AddrSpace

	newAS := NewAddressSpace()
	loader := &fakeLoader{as: newAS}
	layout := &arch.Layout{ArgMax: 4096}

	if err := tab.Execv(p, "/bin/cat", []string{"cat", "file.txt"}, loader, layout); err != nil {
		t.Fatalf("Execv: %v", err)
	}

	if p.Proc().AddrSpace != newAS {
		t.Fatal("Execv did not install the loaded address space")
	}
	if oldAS.Pages != nil {
		t.Fatal("Execv did not destroy the old address space")
	}
	stack := p.Proc().ArgvStack()
	if stack == nil || stack.Argc != 2 {
		t.Fatalf("ArgvStack = %+v, want Argc 2", stack)
	}
}

func TestExecvTooBigLeavesImageIntact(t *testing.T) {
	tab, p := newTestTable(t, 16)
	oldAS := p.Proc().AddrSpace

	loader := &fakeLoader{as: NewAddressSpace()}
	layout := &arch.Layout{ArgMax: 4}

	err := tab.Execv(p, "/bin/cat", []string{"a very long argument"}, loader, layout)
	if !errors.Is(err, kernerr.TooBig) {
		t.Fatalf("Execv over ArgMax = %v, want TooBig", err)
	}
	if p.Proc().AddrSpace != oldAS {
		t.Fatal("Execv mutated the address space despite failing argv marshal")
	}
}

func TestExecvPathTooBigLeavesImageIntact(t *testing.T) {
	tab, p := newTestTable(t, 16)
	oldAS := p.Proc().AddrSpace

	loader := &fakeLoader{as: NewAddressSpace()}
	layout := &arch.Layout{ArgMax: 4096, PathMax: 8}

	err := tab.Execv(p, "/bin/very/long/path", []string{"x"}, loader, layout)
	if !errors.Is(err, kernerr.TooBig) {
		t.Fatalf("Execv over PathMax = %v, want TooBig", err)
	}
	if p.Proc().AddrSpace != oldAS {
		t.Fatal("Execv mutated the address space despite failing path check")
	}
}

func TestExecvLoadFailureLeavesImageIntact(t *testing.T) {
	tab, p := newTestTable(t, 16)
	oldAS := p.Proc().AddrSpace

	boom := errors.New("vfs_open failed")
	loader := &fakeLoader{err: boom}
	layout := &arch.Layout{ArgMax: 4096}

	err := tab.Execv(p, "/nonexistent", []string{"nonexistent"}, loader, layout)
	if !errors.Is(err, boom) {
		t.Fatalf("Execv with failing loader = %v, want %v", err, boom)
	}
	if p.Proc().AddrSpace != oldAS {
		t.Fatal("Execv mutated the address space despite failing load")
	}
}
