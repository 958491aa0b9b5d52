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

package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"

	"github.com/oslab/kconc/internal/kconfig"
	"github.com/oslab/kconc/internal/klog"
	"github.com/oslab/kconc/pkg/kernel"
)

// Getpid creates a root process in a fresh table and reports its
// simulated pid alongside the real OS pid of the kconc process itself,
// for operator sanity (they are unrelated numbers by design).
type Getpid struct{}

func (*Getpid) Name() string     { return "getpid" }
func (*Getpid) Synopsis() string { return "report a fresh root process's simulated pid" }
func (*Getpid) Usage() string    { return "getpid\n" }
func (*Getpid) SetFlags(*flag.FlagSet) {}

func (*Getpid) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	conf := args[0].(*kconfig.Config)
	tab := kernel.NewTable(conf.PIDMin, conf.PIDMax)

	root, err := tab.Create(kernel.NewProc("root"))
	if err != nil {
		klog.Warningf("create root: %v", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("simulated pid: %d\n", tab.Getpid(root))
	fmt.Printf("real OS pid of this process: %d\n", unix.Getpid())
	return subcommands.ExitSuccess
}
