/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package concurrent_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/zonr/asyncrt/concurrent"
	"github.com/zonr/asyncrt/concurrent/poll"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// recordingStage is a Pollable that appends a label to a shared, mutex
// guarded log the instant it completes, letting tests observe ordering
// without scraping stdout (which is where Task.poll emits its own trace).
type recordingStage struct {
	label string
	log   *stageLog
}

type stageLog struct {
	mu   sync.Mutex
	rows []string
}

func (l *stageLog) record(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, s)
}

func (l *stageLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.rows))
	copy(out, l.rows)
	return out
}

func (s recordingStage) Poll(ctx *poll.Context) (poll.Outcome, error) {
	s.log.record(s.label)
	return poll.Ready(s.label), nil
}

// yieldingStage returns Pending the first time it's polled (after arming
// its own waker), Ready the second time.
type yieldingStage struct {
	label  string
	log    *stageLog
	polled bool
}

func (s *yieldingStage) Poll(ctx *poll.Context) (poll.Outcome, error) {
	if !s.polled {
		s.polled = true
		ctx.Waker().WakeByRef()
		return poll.Pending, nil
	}
	s.log.record(s.label)
	return poll.Ready(s.label), nil
}

var _ = Describe("Executor", func() {
	It("runs a task's stages to completion in admission order", func() {
		exec, err := concurrent.New()
		Expect(err).ShouldNot(HaveOccurred())
		defer exec.Close()

		go exec.Run()

		log := &stageLog{}
		spawner := concurrent.NewSpawner(exec)
		concurrent.Spawn(spawner, "ordered",
			recordingStage{label: "s1", log: log},
			recordingStage{label: "s2", log: log},
			recordingStage{label: "s3", log: log},
		)

		Eventually(func() []string { return log.snapshot() }, time.Second, 5*time.Millisecond).
			Should(Equal([]string{"s1", "s2", "s3"}))
	})

	It("completes a self-yielding stage via its own waker", func() {
		exec, err := concurrent.New()
		Expect(err).ShouldNot(HaveOccurred())
		defer exec.Close()

		go exec.Run()

		log := &stageLog{}
		spawner := concurrent.NewSpawner(exec)
		concurrent.Spawn(spawner, "yielder", &yieldingStage{label: "done", log: log})

		Eventually(func() []string { return log.snapshot() }, time.Second, 5*time.Millisecond).
			Should(Equal([]string{"done"}))
	})

	It("wakes a blocked Run promptly once a task is scheduled (doorbell liveness)", func() {
		exec, err := concurrent.New()
		Expect(err).ShouldNot(HaveOccurred())
		defer exec.Close()

		go exec.Run()

		// Give Run a moment to reach its blocking doorbell read before the
		// first task is admitted.
		time.Sleep(20 * time.Millisecond)

		log := &stageLog{}
		spawner := concurrent.NewSpawner(exec)
		start := time.Now()
		concurrent.Spawn(spawner, "doorbell", recordingStage{label: "rang", log: log})

		Eventually(func() []string { return log.snapshot() }, time.Second, 2*time.Millisecond).
			Should(Equal([]string{"rang"}))
		Expect(time.Since(start)).Should(BeNumerically("<", time.Second))
	})

	It("tolerates multiple wakes between two polls without livelocking", func() {
		exec, err := concurrent.New()
		Expect(err).ShouldNot(HaveOccurred())
		defer exec.Close()

		go exec.Run()

		log := &stageLog{}
		spawner := concurrent.NewSpawner(exec)

		var wakers []poll.Waker
		var mu sync.Mutex
		stage := pollFunc(func(ctx *poll.Context) (poll.Outcome, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(wakers) == 0 {
				wakers = append(wakers, ctx.Waker().Clone())
				return poll.Pending, nil
			}
			log.record("finished")
			return poll.Ready("finished"), nil
		})

		concurrent.Spawn(spawner, "duplicate-wake", stage)

		// Let the first Pending land, then fire several duplicate wakes.
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		for _, w := range wakers {
			w.WakeByRef()
			w.WakeByRef()
		}
		mu.Unlock()

		Eventually(func() []string { return log.snapshot() }, time.Second, 5*time.Millisecond).
			Should(Equal([]string{"finished"}))
	})
})

// pollFunc adapts a function to poll.Pollable for tests that need an ad hoc
// stage without declaring a named type.
type pollFunc func(ctx *poll.Context) (poll.Outcome, error)

func (f pollFunc) Poll(ctx *poll.Context) (poll.Outcome, error) { return f(ctx) }

var _ = Describe("Spawner", func() {
	It("rejects nothing: spawning is admission without control", func() {
		exec, err := concurrent.New()
		Expect(err).ShouldNot(HaveOccurred())
		defer exec.Close()

		go exec.Run()

		log := &stageLog{}
		spawner := concurrent.NewSpawner(exec)
		for i := 0; i < 5; i++ {
			concurrent.Spawn(spawner, fmt.Sprintf("task-%d", i), recordingStage{label: fmt.Sprintf("t%d", i), log: log})
		}

		Eventually(func() int { return len(log.snapshot()) }, time.Second, 5*time.Millisecond).
			Should(Equal(5))
	})
})
