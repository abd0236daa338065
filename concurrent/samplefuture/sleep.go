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

package samplefuture

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modern-go/concurrent"
	"github.com/zonr/asyncrt/concurrent/poll"
)

// Sleep is a future that becomes Ready once a helper OS thread, spawned on
// the first Poll, has slept for Duration. It is one of the two auxiliary
// threads the runtime permits outside the executor's own goroutine (the
// other being the reactor's wait loop); the helper thread is pedagogical —
// a production system would integrate with the reactor's multiplexer
// through a timerfd instead.
type Sleep struct {
	Duration time.Duration

	// spawned latches true the first time Poll runs, guaranteeing the
	// helper thread is started at most once per Sleep.
	spawned  atomic.Bool
	sleeping atomic.Bool

	mu    sync.Mutex
	waker poll.Waker

	exec *concurrent.UnboundedExecutor
}

var _ poll.Pollable = (*Sleep)(nil)

// NewSleep returns a Sleep future that will become Ready after d.
func NewSleep(d time.Duration) *Sleep {
	return &Sleep{
		Duration: d,
		exec:     concurrent.NewUnboundedExecutor(),
	}
}

func (s *Sleep) Poll(ctx *poll.Context) (poll.Outcome, error) {
	if !s.spawned.Swap(true) {
		s.sleeping.Store(true)
		s.exec.Go(func(context.Context) {
			time.Sleep(s.Duration)

			s.sleeping.Store(false)

			s.mu.Lock()
			w := s.waker
			s.waker = nil
			s.mu.Unlock()

			if w != nil {
				w.Wake()
			}
		})
	}

	if s.sleeping.Load() {
		fmt.Println("...zzz")

		s.mu.Lock()
		s.waker = ctx.Waker().Clone()
		s.mu.Unlock()
		return poll.Pending, nil
	}

	return poll.Ready("wake from sleep!"), nil
}
