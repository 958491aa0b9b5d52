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

package intersection

import (
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestClassIndexBijection(t *testing.T) {
	seen := make(map[Class]bool)
	dirs := []Direction{North, East, South, West}
	for _, o := range dirs {
		for _, d := range dirs {
			if o == d {
				continue
			}
			c, ok := classIndex(o, d)
			if !ok {
				t.Fatalf("classIndex(%v,%v) rejected a valid pair", o, d)
			}
			if seen[c] {
				t.Fatalf("classIndex(%v,%v) = %d collides with an earlier pair", o, d, c)
			}
			seen[c] = true
		}
	}
	if len(seen) != numClasses {
		t.Fatalf("got %d distinct classes, want %d", len(seen), numClasses)
	}
}

func TestClassIndexRejectsInvalid(t *testing.T) {
	if _, ok := classIndex(North, North); ok {
		t.Fatal("classIndex(N,N) should be rejected")
	}
}

func TestConflictMatrixSymmetric(t *testing.T) {
	for a := Class(0); a < numClasses; a++ {
		for b := Class(0); b < numClasses; b++ {
			if conflicts(a, b) != conflicts(b, a) {
				t.Fatalf("conflicts(%v,%v) != conflicts(%v,%v)", a, b, b, a)
			}
		}
	}
}

// S6: right-turn concurrency. nw is a right turn that, per the conflict
// table, only conflicts with ew and sw; two nw vehicles and one es
// vehicle can all be inside at once.
func TestRightTurnConcurrency(t *testing.T) {
	s := NewSynchronizer()

	done := make(chan struct{})
	s.BeforeEntry(North, West)
	s.BeforeEntry(North, West)
	s.BeforeEntry(East, South)

	go func() {
		s.BeforeEntry(East, West)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("ew entered while nw holds the intersection")
	case <-time.After(50 * time.Millisecond):
	}

	s.AfterExit(North, West)
	s.AfterExit(North, West)
	s.AfterExit(East, South)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ew never entered after all nw/es vehicles departed")
	}
	s.AfterExit(East, West)
}

// S5: safety under contention across a fixed set of classes.
func TestSafetyUnderContention(t *testing.T) {
	s := NewSynchronizer()
	classes := []struct{ o, d Direction }{
		{North, East},
		{East, West},
		{South, North},
		{West, South},
	}

	var mu sync.Mutex
	admitted := make(map[Class]int)

	check := func() error {
		mu.Lock()
		defer mu.Unlock()
		for a := range admitted {
			for b := range admitted {
				if a != b && conflicts(a, b) {
					return errFmt(a, b)
				}
			}
		}
		return nil
	}

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		m := classes[i%len(classes)]
		g.Go(func() error {
			s.BeforeEntry(m.o, m.d)
			c := classOf(m.o, m.d)
			mu.Lock()
			admitted[c]++
			mu.Unlock()
			if err := check(); err != nil {
				return err
			}
			time.Sleep(time.Millisecond)
			mu.Lock()
			admitted[c]--
			if admitted[c] == 0 {
				delete(admitted, c)
			}
			mu.Unlock()
			s.AfterExit(m.o, m.d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func errFmt(a, b Class) error {
	return &conflictError{a, b}
}

type conflictError struct{ a, b Class }

func (e *conflictError) Error() string {
	return e.a.String() + " conflicts with admitted " + e.b.String()
}

func TestBlockCounterNonNegative(t *testing.T) {
	s := NewSynchronizer()
	s.BeforeEntry(North, East)
	for _, c := range s.block {
		if c < 0 {
			t.Fatalf("negative block counter: %v", s.block)
		}
	}
	s.AfterExit(North, East)
	for _, c := range s.block {
		if c != 0 {
			t.Fatalf("block counters not zero after departure: %v", s.block)
		}
	}
}
