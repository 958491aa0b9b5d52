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

// Package kconfig loads the process-limit constants spec.md §6 calls out
// as compile-time constants in the original (PID_MIN, PID_MAX, PATH_MAX,
// ARG_MAX, OPT_A2), from a TOML file, the same way the teacher's
// runsc/config package surfaces sandbox limits from a settings file.
package kconfig

import (
	"github.com/BurntSushi/toml"
)

// Config holds the tunables the syscall core is parameterized over.
type Config struct {
	// PIDMin and PIDMax bound the pid space handed out by the process
	// table's PIDAllocator.
	PIDMin int `toml:"pid_min"`
	PIDMax int `toml:"pid_max"`

	// PathMax bounds execv's path argument.
	PathMax int `toml:"path_max"`

	// ArgMax bounds total execv argv bytes.
	ArgMax int `toml:"arg_max"`

	// OptA2 is the runtime form of the original's compile-time #if OPT_A2
	// toggle. It is loaded but nothing reads it: the syscall adapters in
	// pkg/kernel are always the full implementations.
	OptA2 bool `toml:"opt_a2"`
}

// Default returns the configuration used when no file is supplied: a
// pid space large enough for ordinary use and OptA2 set to true.
func Default() Config {
	return Config{
		PIDMin:  1,
		PIDMax:  4096,
		PathMax: 1024,
		ArgMax:  64 * 1024,
		OptA2:   true,
	}
}

// Load reads a TOML file at path and overlays it on Default. A missing
// field keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
