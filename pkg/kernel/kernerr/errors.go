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

// Package kernerr defines the sentinel errors returned by pkg/kernel and
// its syscall adapters. Callers compare against these values with
// errors.Is rather than inspecting an integer errno, but the set mirrors
// the classic UNIX error taxonomy the adapters emulate.
package kernerr

import "errors"

var (
	// InvalidArgument is returned for malformed syscall arguments: waitpid
	// returns it for non-zero options. (A null status pointer yields
	// BadAddress; an invalid intersection movement panics.)
	InvalidArgument = errors.New("invalid argument")

	// BadAddress is returned when a user-space pointer could not be
	// copied in or out.
	BadAddress = errors.New("bad address")

	// OutOfRange is returned when a pid falls outside [PID_MIN, PID_MAX].
	OutOfRange = errors.New("pid out of range")

	// NotFound is returned when a pid has no corresponding table entry.
	NotFound = errors.New("no such process")

	// NoSuchChild is returned by waitpid when the target pid is not a
	// child of the calling process.
	NoSuchChild = errors.New("no such child")

	// OutOfMemory names a failed allocation of a ProcessEntry, its
	// condition variable, or a child address-space copy. No function in
	// pkg/kernel returns it.
	OutOfMemory = errors.New("out of memory")

	// NoProcSlots is returned when the pid space is exhausted.
	NoProcSlots = errors.New("no free process slots")

	// TooBig is returned by execv when the marshalled argv exceeds
	// ARG_MAX.
	TooBig = errors.New("argument list too long")
)
