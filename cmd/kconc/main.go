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

// Binary kconc drives the process-table and intersection-synchronizer
// cores from a shell, with fork, orphan, exhaust and getpid demos of the
// process table plus an intersection demo, in the manner of runsc's
// subcommand-per-operation CLI.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/oslab/kconc/cmd/kconc/cmd"
	"github.com/oslab/kconc/internal/kconfig"
	"github.com/oslab/kconc/internal/klog"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(new(cmd.ForkDemo), "")
	subcommands.Register(new(cmd.OrphanDemo), "")
	subcommands.Register(new(cmd.ExhaustDemo), "")
	subcommands.Register(new(cmd.Getpid), "")
	subcommands.Register(new(cmd.Intersect), "")

	configPath := flag.String("config", "", "path to a TOML config file overriding the default process limits")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	klog.SetDebug(*debug)

	conf := kconfig.Default()
	if *configPath != "" {
		loaded, err := kconfig.Load(*configPath)
		if err != nil {
			klog.Warningf("loading config %s: %v, using defaults", *configPath, err)
		} else {
			conf = loaded
		}
	}

	os.Exit(int(subcommands.Execute(context.Background(), &conf)))
}
