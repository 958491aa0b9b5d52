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

	"github.com/oslab/kconc/internal/kconfig"
	"github.com/oslab/kconc/internal/klog"
	"github.com/oslab/kconc/pkg/kernel"
)

// ForkDemo implements subcommands.Command for the "fork" command: it
// runs a single fork/_exit/waitpid cycle and reports the result, since
// there is no real OS process underneath for a second CLI invocation to
// attach to.
type ForkDemo struct {
	exitCode int
}

func (*ForkDemo) Name() string { return "fork" }

func (*ForkDemo) Synopsis() string {
	return "fork a child from a fresh root process, exit it, and wait on it"
}

func (*ForkDemo) Usage() string {
	return "fork [-exit-code N]\n"
}

func (f *ForkDemo) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&f.exitCode, "exit-code", 0, "exit code the child reports via _exit")
}

func (f *ForkDemo) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	conf := args[0].(*kconfig.Config)
	tab := kernel.NewTable(conf.PIDMin, conf.PIDMax)

	parent, err := tab.Create(kernel.NewProc("root"))
	if err != nil {
		klog.Warningf("create root: %v", err)
		return subcommands.ExitFailure
	}
	klog.Debugf("root pid = %d", parent.PID())

	child, err := tab.Fork(parent)
	if err != nil {
		klog.Warningf("fork: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("forked child pid %d\n", child.PID())

	tab.Exit(child, int32(f.exitCode))

	var status int32
	waited, err := tab.Waitpid(parent.PID(), child.PID(), &kernel.Int32Status{Dst: &status}, 0)
	if err != nil {
		klog.Warningf("waitpid: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("waitpid returned pid %d, status %#x\n", waited, status)
	return subcommands.ExitSuccess
}
