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

// Package arch marshals an execv argv onto a simulated new-process stack:
// strings lowest-first by index, each starting on an 8-byte boundary
// (spec.md §4.3, §6). The pointer array is represented only by the
// Offsets slice; no pointer array or NULL terminator is written into the
// byte buffer.
package arch

import "github.com/oslab/kconc/pkg/kernel/kernerr"

const ptrSize = 8

// Layout carries the architectural constants the builder needs.
type Layout struct {
	// ArgMax bounds total argv bytes (each string's length plus its NUL),
	// before any alignment padding.
	ArgMax int

	// PathMax bounds the length of the path passed to execv.
	PathMax int
}

// Stack is the marshalled result: the string bytes in stack order, the
// byte offset of each argv entry within Bytes (Offsets[0] is argv[0],
// lowest in address order), and argc.
type Stack struct {
	Bytes   []byte
	Offsets []int
	Argc    int
}

// roundUp8 rounds n up to the next multiple of 8, matching runprogram.c's
// ROUNDUP(len, 8) alignment of each string's start.
func roundUp8(n int) int {
	return (n + ptrSize - 1) &^ (ptrSize - 1)
}

// CheckPath rejects path if it exceeds layout.PathMax. A zero PathMax
// means unbounded, matching the zero-value Layout used by callers that
// don't care about this limit.
func CheckPath(path string, layout *Layout) error {
	if layout.PathMax > 0 && len(path) > layout.PathMax {
		return kernerr.TooBig
	}
	return nil
}

// Build marshals argv into a Stack. It rejects argument lists exceeding
// layout.ArgMax total bytes with kernerr.TooBig before writing anything,
// so a failed Build never partially mutates a would-be destination
// address space. argc is exactly len(argv); the pointer array is
// represented by Offsets, which holds exactly len(argv) entries with no
// NULL terminator stored.
func Build(argv []string, layout *Layout) (*Stack, error) {
	total := 0
	for _, s := range argv {
		total += len(s) + 1 // NUL terminator
	}
	if total > layout.ArgMax {
		return nil, kernerr.TooBig
	}

	// Strings are packed lowest-index first so argv[0] lands at the
	// lowest offset, each one starting on an 8-byte boundary.
	bytes := make([]byte, 0, roundUp8(total))
	offsets := make([]int, len(argv))
	for i, s := range argv {
		// Pad up to the current 8-byte boundary before this string.
		for len(bytes)%ptrSize != 0 {
			bytes = append(bytes, 0)
		}
		offsets[i] = len(bytes)
		bytes = append(bytes, s...)
		bytes = append(bytes, 0)
	}
	for len(bytes)%ptrSize != 0 {
		bytes = append(bytes, 0)
	}

	return &Stack{Bytes: bytes, Offsets: offsets, Argc: len(argv)}, nil
}
