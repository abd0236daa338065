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

// Spawner admits new tasks onto an Executor. It is the only way to create a
// Task: construction and first scheduling happen atomically from the
// caller's point of view, so there is never a Task that exists but will
// never be polled.
type Spawner struct {
	inner *executorInner
}

// NewSpawner returns a Spawner that admits tasks onto e.
func NewSpawner(e *Executor) *Spawner {
	return &Spawner{inner: e.inner}
}

// Spawn creates a Task named name running stages in order and immediately
// schedules its first poll. stages must be non-empty; each entry is polled
// to completion before the next one starts.
func Spawn(s *Spawner, name string, stages ...poll.Pollable) *Task {
	t := newTask(s.inner, name, stages)
	t.schedule()
	return t
}
