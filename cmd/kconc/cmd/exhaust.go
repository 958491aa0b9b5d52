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

// ExhaustDemo fills the pid space down to -pid-max, shows the next
// create failing with NoProcSlots, then reaps one entry and shows its
// pid getting reused.
type ExhaustDemo struct {
	pidMax int
}

func (*ExhaustDemo) Name() string     { return "exhaust" }
func (*ExhaustDemo) Synopsis() string { return "fill the pid space and show NoProcSlots, then reuse" }
func (*ExhaustDemo) Usage() string    { return "exhaust [-pid-max N]\n" }

func (e *ExhaustDemo) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&e.pidMax, "pid-max", 4, "pid space size to exhaust (PID_MIN=1 is always the root process)")
}

func (e *ExhaustDemo) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	conf := args[0].(*kconfig.Config)
	pidMax := e.pidMax
	if pidMax < conf.PIDMin+1 {
		pidMax = conf.PIDMin + 1
	}
	tab := kernel.NewTable(conf.PIDMin, pidMax)

	if _, err := tab.Create(kernel.NewProc("root")); err != nil {
		klog.Warningf("create root: %v", err)
		return subcommands.ExitFailure
	}

	var last *kernel.ProcessEntry
	for pid := conf.PIDMin + 1; pid <= pidMax; pid++ {
		e, err := tab.Create(kernel.NewProc("p"))
		if err != nil {
			klog.Warningf("create pid %d: %v", pid, err)
			return subcommands.ExitFailure
		}
		last = e
	}
	fmt.Printf("filled pids [%d, %d]\n", conf.PIDMin, pidMax)

	if _, err := tab.Create(kernel.NewProc("overflow")); !errors.Is(err, kernerr.NoProcSlots) {
		klog.Warningf("create past max = %v, want NoProcSlots", err)
		return subcommands.ExitFailure
	}
	fmt.Println("next create correctly failed with NoProcSlots")

	tab.Exit(last, 0)
	reused, err := tab.Create(kernel.NewProc("reused"))
	if err != nil {
		klog.Warningf("create after reap: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("pid %d reaped and reused as %d\n", last.PID(), reused.PID())
	return subcommands.ExitSuccess
}
