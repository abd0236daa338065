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

import "github.com/zonr/asyncrt/concurrent/poll"

// taskWaker is the only implementation of poll.Waker this module provides:
// it binds the vtable directly to the Task that should be rescheduled.
// Unlike the Rust source this runtime is modeled on, taskWaker carries no
// manual refcount — Clone returns a handle to the very same Task, and Drop
// is a deliberate no-op, leaving reclamation to the garbage collector
// rather than reproducing the raw vtable's leak-on-drop behavior.
type taskWaker struct {
	task *Task
}

var _ poll.Waker = (*taskWaker)(nil)

// newTaskWaker returns a Waker bound to t.
func newTaskWaker(t *Task) poll.Waker {
	return &taskWaker{task: t}
}

// Wake reschedules the owning task. Because taskWaker has no refcount to
// release, Wake and WakeByRef behave identically; Wake exists as a distinct
// method because poll.Waker's contract requires it, matching the vtable
// shape callers driving futures from the other examples in this module
// expect.
func (w *taskWaker) Wake() {
	w.task.schedule()
}

// WakeByRef reschedules the owning task without consuming the handle, so a
// Pollable that wakes itself repeatedly (see samplefuture's self-yielding
// state machine) can keep reusing the same Waker.
func (w *taskWaker) WakeByRef() {
	w.task.schedule()
}

// Clone returns a new handle bound to the same task. Because taskWaker
// carries no per-handle state, this is just a fresh wrapper.
func (w *taskWaker) Clone() poll.Waker {
	return &taskWaker{task: w.task}
}

// Drop releases this handle. There is nothing to release.
func (w *taskWaker) Drop() {}
