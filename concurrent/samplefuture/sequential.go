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
	"fmt"
	"time"

	"github.com/zonr/asyncrt/concurrent/poll"
)

type sequentialState int

const (
	sequentialStart sequentialState = iota
	sequentialSleeping
	sequentialEnd
)

// Sequential composes a start step, an inner Sleep future, and an end step
// into a three-state machine: Start prints its trace, advances to Sleeping,
// and self-wakes before returning Pending, rather than polling Sleeping
// synchronously in the same call — matching the Rust original's
// AsyncBlockState::Start arm, which also wakes and returns Pending instead
// of falling through; Sleeping forwards Poll to the inner future with the
// very same Context, so the inner future arms the caller's own Waker
// directly; once the inner future is Ready, Sequential advances to End and
// self-wakes.
type Sequential struct {
	state sequentialState
	inner *Sleep
}

var _ poll.Pollable = (*Sequential)(nil)

// NewSequential returns a Sequential future whose inner stage sleeps for d.
func NewSequential(d time.Duration) *Sequential {
	return &Sequential{
		state: sequentialStart,
		inner: NewSleep(d),
	}
}

func (s *Sequential) Poll(ctx *poll.Context) (poll.Outcome, error) {
	switch s.state {
	case sequentialStart:
		fmt.Println("start")
		s.state = sequentialSleeping
		ctx.Waker().WakeByRef()
		return poll.Pending, nil

	case sequentialSleeping:
		outcome, err := s.inner.Poll(ctx)
		if err != nil {
			return nil, err
		}
		if !outcome.IsReady() {
			return poll.Pending, nil
		}
		fmt.Println(outcome.Value())
		s.state = sequentialEnd
		ctx.Waker().WakeByRef()
		return poll.Pending, nil

	case sequentialEnd:
		// No trace line here: "end" is the stage's Ready payload, printed
		// once by Task.poll, not announced twice.
		return poll.Ready("end"), nil

	default:
		return nil, fmt.Errorf("samplefuture: sequential future polled in unknown state %d", s.state)
	}
}
