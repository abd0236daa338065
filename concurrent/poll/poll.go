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

// Package poll defines the pollable-computation primitive the rest of this
// module is built from: a Pollable either produces a final value or returns
// Pending, in which case it must arrange for the Waker in its Context to be
// signalled once it can make progress.
package poll

// Outcome is the result of a single Poll call: either a final value (Ready)
// or an indication that the Pollable isn't there yet (Pending). Once a
// Pollable returns a Ready outcome, Poll must never be called on it again.
type Outcome interface {
	// IsReady reports whether this outcome carries a value.
	IsReady() bool

	// Value returns the value carried by a Ready outcome, or nil for
	// Pending.
	Value() interface{}
}

// readyOutcome implements Outcome for a completed Pollable.
type readyOutcome struct {
	value interface{}
}

func (readyOutcome) IsReady() bool { return true }

func (r readyOutcome) Value() interface{} { return r.value }

// Ready wraps v as a completed Outcome.
func Ready(v interface{}) Outcome {
	return readyOutcome{value: v}
}

// pendingOutcome implements Outcome for a Pollable that isn't ready yet.
type pendingOutcome int

func (pendingOutcome) IsReady() bool { return false }

func (pendingOutcome) Value() interface{} { return nil }

// Pending is the Outcome returned by a Pollable that has not yet produced a
// value. It carries no payload; the Pollable is responsible for arranging
// that its Context's Waker will eventually be signalled.
const Pending = pendingOutcome(0)

// Pollable is a computation that may already have finished or may still
// need to be driven forward. An implementation of Poll must return quickly
// and must never block: if the result isn't available synchronously, it
// must arrange for the Waker from ctx to be signalled before returning
// Pending — either by waking it right away (a yield) or by storing (a clone
// of) it somewhere it will be invoked once progress is possible.
type Pollable interface {
	Poll(ctx *Context) (Outcome, error)
}

// Waker is an opaque handle bound to exactly one task: signalling it causes
// that task to be re-queued for polling. The four operations form the
// exhaustive vtable a Pollable needs: Clone to keep an independent handle
// (e.g. stashed in a mailbox for a later external event), Wake/WakeByRef to
// signal readiness, and Drop to release the handle without signalling.
type Waker interface {
	// Wake signals that the owning task should be polled again and
	// releases this handle. The handle must not be used afterwards.
	Wake()

	// WakeByRef signals the owning task without releasing this handle, so
	// it may be used again (e.g. by a future that yields to itself
	// repeatedly).
	WakeByRef()

	// Clone produces an independent Waker bound to the same task.
	Clone() Waker

	// Drop releases this handle without signalling the task.
	Drop()
}

// Context carries the Waker a Pollable should arrange to have signalled
// when it returns Pending.
type Context struct {
	waker Waker
}

// NewContext wraps waker for a single Poll call.
func NewContext(waker Waker) *Context {
	return &Context{waker: waker}
}

// Waker returns the Waker bound to this poll.
func (c *Context) Waker() Waker {
	return c.waker
}
