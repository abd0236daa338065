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

// Package samplefuture collects the concrete poll.Pollable implementations
// used to exercise the executor, waker, and reactor: a self-yielding state
// machine, an FD-readiness future, a helper-thread sleep, and a sequential
// composition of a start step, an inner sleep, and an end step.
package samplefuture

import (
	"fmt"

	"github.com/zonr/asyncrt/concurrent/poll"
)

type stateMachineState int

const (
	stateStart stateMachineState = iota
	stateMiddle
	stateEnd
)

// StateMachine is a self-yielding Pollable: every Poll call (other than the
// last) prints a trace line, advances to the next state, immediately wakes
// itself via the Context's Waker, and returns Pending — demonstrating a
// Pending that is already known to be runnable again before Poll returns.
type StateMachine struct {
	state stateMachineState
}

var _ poll.Pollable = (*StateMachine)(nil)

// NewStateMachine returns a StateMachine starting at its initial state.
func NewStateMachine() *StateMachine {
	return &StateMachine{state: stateStart}
}

func (s *StateMachine) Poll(ctx *poll.Context) (poll.Outcome, error) {
	switch s.state {
	case stateStart:
		fmt.Println("Start")
		fmt.Println("Yielded: Start -> Middle")
		s.state = stateMiddle
		ctx.Waker().WakeByRef()
		return poll.Pending, nil

	case stateMiddle:
		fmt.Println("Middle")
		fmt.Println("Yielded: Middle -> End")
		s.state = stateEnd
		ctx.Waker().WakeByRef()
		return poll.Pending, nil

	case stateEnd:
		fmt.Println("End")
		return poll.Ready("finished"), nil

	default:
		return nil, fmt.Errorf("samplefuture: state machine polled in unknown state %d", s.state)
	}
}
