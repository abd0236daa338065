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

import "sync"

// readyQueue is the FIFO of runnable tasks. Spec §9 leaves implementations
// free to either coalesce or tolerate a task being scheduled twice (an
// external wake racing a self-wake); this queue tolerates it, which rules
// out storing the link pointer on the Task itself: an intrusive list node
// can only sit at one position at a time, so re-linking it into a second
// position silently detaches every node between its old slot and the tail,
// losing unrelated tasks. Each push therefore appends to a plain slice —
// the same *Task can occupy two slots at once with no shared state between
// them, so a duplicate schedule is at worst one harmless extra entry,
// which Task.poll already tolerates (popping a task whose stage list is
// already empty is a no-op, and popping one whose stage was re-seated
// just polls that stage once more).
type readyQueue struct {
	mu    sync.Mutex
	items []*Task
}

// push appends t to the tail of the queue.
func (q *readyQueue) push(t *Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, t)
}

// pop removes and returns the task at the head of the queue, or nil if the
// queue is empty.
func (q *readyQueue) pop() *Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}

	t := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) == 0 {
		// Release the backing array rather than letting it grow without
		// bound across the queue's lifetime.
		q.items = nil
	}
	return t
}

// empty reports whether the queue currently holds no tasks.
func (q *readyQueue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}
