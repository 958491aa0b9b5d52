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
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/oslab/kconc/internal/kconfig"
	"github.com/oslab/kconc/internal/klog"
	"github.com/oslab/kconc/pkg/kernel"
	"github.com/oslab/kconc/pkg/kernel/kernerr"
)

// OrphanDemo demonstrates a parent exiting before its child, and the
// child's subsequent exit reaping both entries.
type OrphanDemo struct{}

func (*OrphanDemo) Name() string     { return "orphan" }
func (*OrphanDemo) Synopsis() string { return "exit a parent before its child, then exit the child" }
func (*OrphanDemo) Usage() string    { return "orphan\n" }
func (*OrphanDemo) SetFlags(*flag.FlagSet) {}

func (*OrphanDemo) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	conf := args[0].(*kconfig.Config)
	tab := kernel.NewTable(conf.PIDMin, conf.PIDMax)

	parent, err := tab.Create(kernel.NewProc("root"))
	if err != nil {
		klog.Warningf("create root: %v", err)
		return subcommands.ExitFailure
	}
	child, err := tab.Fork(parent)
	if err != nil {
		klog.Warningf("fork: %v", err)
		return subcommands.ExitFailure
	}

	pid, cid := parent.PID(), child.PID()
	tab.Exit(parent, 0)
	fmt.Printf("parent %d exited with child %d still alive\n", pid, cid)

	tab.Exit(child, 3)
	fmt.Printf("child %d exited\n", cid)

	if _, err := tab.Get(pid); !errors.Is(err, kernerr.NotFound) {
		klog.Warningf("expected parent %d to be reaped, got %v", pid, err)
		return subcommands.ExitFailure
	}
	if _, err := tab.Get(cid); !errors.Is(err, kernerr.NotFound) {
		klog.Warningf("expected child %d to be reaped, got %v", cid, err)
		return subcommands.ExitFailure
	}
	fmt.Println("both pids reaped")
	return subcommands.ExitSuccess
}
