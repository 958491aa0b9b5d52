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

// Package intersection implements the four-way traffic-intersection
// synchronizer (spec.md §3, §4.4): twelve movement classes, one block
// counter and one condition variable per class, admitting a vehicle the
// instant its class is unblocked.
package intersection

import "strings"

// Direction is one of the four compass directions a vehicle can
// originate from or head toward.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// numDirections and numClasses size the conflict table: 4 origins times 3
// valid destinations each (origin != destination) gives 12 classes.
const (
	numDirections = 4
	numClasses    = numDirections * (numDirections - 1)
)

// Class identifies a movement by its class index, per classIndex's
// encoding of (origin, destination).
type Class int

// classIndex packs (origin, destination) into a dense [0, numClasses)
// index: origin*3 + (destination's rank among the three directions != origin).
// This mirrors treating the 12 classes as a flat array instead of the
// original's repeated case analysis (spec.md §9).
func classIndex(origin, dest Direction) (Class, bool) {
	if origin == dest || origin < North || origin > West || dest < North || dest > West {
		return 0, false
	}
	rank := 0
	for d := Direction(0); d < dest; d++ {
		if d != origin {
			rank++
		}
	}
	return Class(int(origin)*3 + rank), true
}

// classNames gives each class its two-letter name (origin then
// destination), in the order classIndex produces, for logging and tests.
var classNames = func() [numClasses]string {
	var names [numClasses]string
	dirs := [numDirections]Direction{North, East, South, West}
	for _, o := range dirs {
		for _, d := range dirs {
			if o == d {
				continue
			}
			idx, ok := classIndex(o, d)
			if !ok {
				panic("intersection: classIndex rejected a valid pair")
			}
			names[idx] = strings.ToLower(o.String() + d.String())
		}
	}
	return names
}()

// String returns the class's two-letter name, e.g. "ne".
func (c Class) String() string { return classNames[c] }

// conflictNames is the normative conflict set from spec.md §3, transcribed
// verbatim. conflictMatrix below derives the symmetric boolean matrix
// before_entry and after_exit actually loop over, per the "data-driven
// pair-of-classes matrix" redesign in spec.md §9.
var conflictNames = map[string][]string{
	"ne": {"es", "ew", "sn", "se", "sw", "wn", "we"},
	"ns": {"es", "ew", "sw", "wn", "ws", "we"},
	"nw": {"ew", "sw"},
	"en": {"sn", "wn"},
	"es": {"ne", "ns", "sn", "sw", "wn", "we", "ws"},
	"ew": {"ne", "ns", "nw", "sn", "sw", "wn"},
	"sn": {"ne", "en", "es", "ew", "wn", "we"},
	"se": {"ne", "we"},
	"sw": {"ne", "ns", "nw", "es", "ew", "wn", "we"},
	"wn": {"ne", "ns", "en", "es", "ew", "sn", "sw"},
	"we": {"ne", "ns", "es", "sn", "se", "sw"},
	"ws": {"ns", "es"},
}

// conflictMatrix[c1][c2] is true iff classes c1 and c2 conflict. Built
// once from conflictNames and symmetrized; the table already lists each
// conflicting pair from both sides, so symmetrizing only guards against a
// one-sided entry.
var conflictMatrix = func() [numClasses][numClasses]bool {
	nameToClass := make(map[string]Class, numClasses)
	for i, n := range classNames {
		nameToClass[n] = Class(i)
	}

	var m [numClasses][numClasses]bool
	for a, conflicts := range conflictNames {
		ca, ok := nameToClass[a]
		if !ok {
			panic("intersection: conflict table references unknown class " + a)
		}
		for _, b := range conflicts {
			cb, ok := nameToClass[b]
			if !ok {
				panic("intersection: conflict table references unknown class " + b)
			}
			m[ca][cb] = true
			m[cb][ca] = true
		}
	}
	return m
}()

// conflicts reports whether classes a and b conflict.
func conflicts(a, b Class) bool { return conflictMatrix[a][b] }
