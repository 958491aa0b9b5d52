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

package arch

import (
	"errors"
	"testing"

	"github.com/oslab/kconc/pkg/kernel/kernerr"
)

func TestBuildArgc(t *testing.T) {
	argv := []string{"cat", "-n", "file.txt"}
	s, err := Build(argv, &Layout{ArgMax: 4096})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Argc != len(argv) {
		t.Fatalf("Argc = %d, want %d", s.Argc, len(argv))
	}
	if s.Offsets[0] != 0 {
		t.Fatalf("argv[0] offset = %d, want 0 (lowest)", s.Offsets[0])
	}
	for i := 1; i < len(s.Offsets); i++ {
		if s.Offsets[i] <= s.Offsets[i-1] {
			t.Fatalf("offsets not increasing: %v", s.Offsets)
		}
		if s.Offsets[i]%8 != 0 {
			t.Fatalf("offset %d not 8-byte aligned", s.Offsets[i])
		}
	}
}

func TestBuildTooBig(t *testing.T) {
	_, err := Build([]string{"a very long argument string indeed"}, &Layout{ArgMax: 4})
	if !errors.Is(err, kernerr.TooBig) {
		t.Fatalf("Build over ArgMax = %v, want TooBig", err)
	}
}

func TestCheckPathTooBig(t *testing.T) {
	layout := &Layout{ArgMax: 4096, PathMax: 8}
	if err := CheckPath("/bin/very/long/path", layout); !errors.Is(err, kernerr.TooBig) {
		t.Fatalf("CheckPath over PathMax = %v, want TooBig", err)
	}
	if err := CheckPath("/bin/cat", layout); err != nil {
		t.Fatalf("CheckPath within PathMax: %v", err)
	}
}

func TestCheckPathUnboundedWhenZero(t *testing.T) {
	if err := CheckPath("/any/length/path/at/all", &Layout{ArgMax: 4096}); err != nil {
		t.Fatalf("CheckPath with zero PathMax: %v, want nil (unbounded)", err)
	}
}

func TestBuildEmptyArgv(t *testing.T) {
	s, err := Build(nil, &Layout{ArgMax: 4096})
	if err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if s.Argc != 0 {
		t.Fatalf("Argc = %d, want 0", s.Argc)
	}
}
