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

// Package concurrent implements a minimal cooperative task runtime: an
// Executor drains a FIFO of Tasks on a single goroutine, each Task holding
// an ordered sequence of poll.Pollable stages, woken up across stage
// boundaries (and by external events, via the reactor subpackage) through a
// Waker bound to the task.
package concurrent

import (
	"os"

	"golang.org/x/sys/unix"
)

// executorInner is the state shared between an Executor and every Spawner
// or Task that refers to it: the ready queue plus the doorbell eventfd that
// wakes the run loop whenever an enqueue happens.
type executorInner struct {
	queue    readyQueue
	doorbell int // eventfd
}

// ring writes to the doorbell so a blocked Run wakes up. It must never be
// called while holding a lock poll might try to acquire — queue pushes
// happen first, ring happens after, matching the "write ordered after
// the queue push" guarantee the executor's read depends on.
func (in *executorInner) ring() {
	data := [8]byte{1}
	if _, err := unix.Write(in.doorbell, data[:]); err != nil {
		// The doorbell is a kernel counter FD backing a correctness
		// guarantee (the executor will observe a runnable task on wake);
		// a failing write here means the process's FD table or the
		// kernel itself is broken, which this core treats as fatal.
		panic(os.NewSyscallError("write", err))
	}
}

// Executor drains a ready queue of Tasks on whichever goroutine calls Run,
// blocking on an eventfd doorbell whenever the queue has nothing runnable.
// It is the single-threaded, cooperative scheduler described in the
// package: no work-stealing, no task migration, and exactly one goroutine
// polling tasks at a time.
type Executor struct {
	inner *executorInner
}

// New allocates an Executor with a fresh doorbell eventfd.
func New() (*Executor, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("eventfd", err)
	}
	return &Executor{
		inner: &executorInner{doorbell: fd},
	}, nil
}

// Run drives the ready queue forever: block reading the doorbell, then
// drain every task currently queued before blocking again. It does not
// return under normal operation; callers run it on whichever goroutine
// they want to dedicate to the scheduler.
//
// The doorbell read is a level indicator only — its value (the accumulated
// enqueue count since the last read) is discarded. What matters is that a
// successful read guarantees at least one task is available, because the
// doorbell write in Task.schedule always happens after the queue push.
//
// Blocking on the doorbell, rather than sleeping briefly and re-checking an
// empty queue in a loop, keeps an idle executor off the CPU while still
// waking it as soon as any goroutine schedules a task.
func (e *Executor) Run() {
	var buf [8]byte
	for {
		if _, err := unix.Read(e.inner.doorbell, buf[:]); err != nil {
			panic(os.NewSyscallError("read", err))
		}

		for {
			task := e.inner.queue.pop()
			if task == nil {
				break
			}
			task.poll()
		}
	}
}

// Close releases the executor's doorbell file descriptor. Termination of
// Run itself is out of scope for the minimal core (spec §4.D); Close only
// exists so tests and short-lived examples don't leak the eventfd.
func (e *Executor) Close() error {
	return unix.Close(e.inner.doorbell)
}
