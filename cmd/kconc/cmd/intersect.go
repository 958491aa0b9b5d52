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
	"math/rand"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/oslab/kconc/internal/klog"
	"github.com/oslab/kconc/pkg/intersection"
)

// Intersect drives a configurable number of vehicles of randomly chosen
// movement classes through the intersection concurrently, via
// errgroup.Group, and reports how many completed.
type Intersect struct {
	vehicles int
	seed     int64
}

func (*Intersect) Name() string     { return "intersect" }
func (*Intersect) Synopsis() string { return "run concurrent vehicles through the intersection" }
func (*Intersect) Usage() string    { return "intersect [-vehicles N] [-seed N]\n" }

func (i *Intersect) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&i.vehicles, "vehicles", 50, "number of vehicles to send through the intersection")
	fs.Int64Var(&i.seed, "seed", 1, "seed for the movement class PRNG")
}

func (i *Intersect) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	isect := intersection.NewSynchronizer()
	defer isect.Cleanup()

	rng := rand.New(rand.NewSource(i.seed))
	dirs := []intersection.Direction{intersection.North, intersection.East, intersection.South, intersection.West}

	g, gctx := errgroup.WithContext(ctx)
	for n := 0; n < i.vehicles; n++ {
		origin := dirs[rng.Intn(len(dirs))]
		dest := dirs[rng.Intn(len(dirs))]
		for dest == origin {
			dest = dirs[rng.Intn(len(dirs))]
		}
		id := n
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			klog.Debugf("vehicle %d (%v->%v) approaching", id, origin, dest)
			isect.BeforeEntry(origin, dest)
			klog.Debugf("vehicle %d (%v->%v) inside", id, origin, dest)
			time.Sleep(time.Millisecond)
			isect.AfterExit(origin, dest)
			klog.Debugf("vehicle %d (%v->%v) departed", id, origin, dest)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		klog.Warningf("intersect: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%d vehicles passed through the intersection\n", i.vehicles)
	return subcommands.ExitSuccess
}
