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

package concurrent

import (
	"fmt"
	"sync"

	"github.com/zonr/asyncrt/concurrent/poll"
)

// Task is a named, ordered sequence of stages run to completion one at a
// time: the first stage is polled until it returns Ready, then the second,
// and so on, until the list is exhausted. Each stage is typically the
// continuation of an async function — the boundary between two stages is
// wherever that function awaited something.
//
// A Task is always owned by exactly one Executor, discovered through the
// Spawner that created it.
type Task struct {
	// Name identifies the task in diagnostics; it has no effect on
	// scheduling.
	Name string

	exec *executorInner

	mu     sync.Mutex
	stages []poll.Pollable
}

// newTask builds a Task bound to exec with the given stage list. The task
// is not scheduled; the caller (Spawner.Spawn) does that once the task is
// fully constructed and reachable.
func newTask(exec *executorInner, name string, stages []poll.Pollable) *Task {
	return &Task{
		Name:   name,
		exec:   exec,
		stages: stages,
	}
}

// schedule enqueues t for polling and rings the executor's doorbell. It is
// safe to call from any goroutine, including from inside a Waker invoked by
// a completely different thread (e.g. the reactor or a timer helper).
func (t *Task) schedule() {
	t.exec.queue.push(t)
	t.exec.ring()
}

// poll advances the task by exactly one stage transition: it takes the
// current stage, polls it, and installs the result. It never loops to the
// next stage itself — when a stage completes and another remains, poll
// calls schedule to resume later, rather than continuing synchronously, so
// a task with many immediately-ready stages cannot monopolize the executor
// ahead of tasks queued before it.
//
// poll is only ever invoked by the Executor that owns this task's queue, so
// two calls to it for the same task are never concurrent; mu mainly exists
// to make that invariant explicit. A waker (running on another goroutine,
// e.g. the reactor) never reads stages: schedule touches only the queue,
// so no waker ever waits on the lock below.
func (t *Task) poll() {
	t.mu.Lock()
	if len(t.stages) == 0 {
		t.mu.Unlock()
		return
	}
	stage := t.stages[0]
	t.mu.Unlock()

	// The lock is dropped before calling Poll: a self-waking stage (see
	// samplefuture's state machine) calls WakeByRef synchronously from
	// inside Poll, which calls schedule, which must not need to wait on a
	// lock this same goroutine is already holding.
	waker := newTaskWaker(t)
	outcome, err := stage.Poll(poll.NewContext(waker))

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		fmt.Printf("task %q: stage failed: %v\n", t.Name, err)
		t.stages = nil
		return
	}

	if !outcome.IsReady() {
		// Re-seat the stage at the head of the list; nothing else may
		// have touched stages[0] since only poll mutates it and poll is
		// never concurrent with itself for the same task.
		t.stages[0] = stage
		return
	}

	fmt.Println(outcome.Value())
	t.stages = t.stages[1:]

	if len(t.stages) > 0 {
		t.schedule()
		return
	}

	fmt.Printf("Task %s completed\n", t.Name)
}
