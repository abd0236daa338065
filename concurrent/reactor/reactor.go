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

// Package reactor translates kernel FD-readiness notifications into
// callback invocations, on a dedicated goroutine separate from the
// executor's run loop. It is the only component in this module that talks
// directly to epoll.
package reactor

import (
	"context"
	"fmt"
	"log"
	"os"
	"unsafe"

	"github.com/modern-go/concurrent"
	"golang.org/x/sys/unix"
)

// defaultEventCapacity is the size of the buffer passed to epoll_wait per
// iteration; spec's illustrative default.
const defaultEventCapacity = 10

// Config controls the reactor's wait loop. The zero value is not valid;
// construct one with DefaultConfig and adjust fields as needed, mirroring
// the teacher's WorkerPoolExecutorConfig/Validate shape.
type Config struct {
	// EventCapacity bounds how many readiness events are drained from a
	// single epoll_wait call. Must be positive.
	EventCapacity int
}

// DefaultConfig returns a Config with the spec's illustrative default event
// buffer capacity of 10.
func DefaultConfig() Config {
	return Config{EventCapacity: defaultEventCapacity}
}

// Validate reports whether c is usable.
func (c Config) Validate() error {
	if c.EventCapacity <= 0 {
		return fmt.Errorf("reactor: EventCapacity must be positive, got %d", c.EventCapacity)
	}
	return nil
}

// Reactor owns an epoll instance and a token → callback table. Register
// adds interest in an FD; Start launches the dedicated wait-loop goroutine
// that invokes callbacks as readiness events arrive.
type Reactor struct {
	config Config
	epfd   int

	// callbacks maps an opaque token to the no-argument function to invoke
	// on readiness. concurrent.Map stands in for a sync.Map-style table
	// guarded implicitly rather than with an explicit sync.Mutex, matching
	// how this dependency is used elsewhere in the module.
	callbacks *concurrent.Map

	exec *concurrent.UnboundedExecutor
}

// New creates a Reactor with cfg. An empty Config is invalid; use
// DefaultConfig as a base.
func New(cfg Config) (*Reactor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}

	return &Reactor{
		config:    cfg,
		epfd:      epfd,
		callbacks: concurrent.NewMap(),
		exec:      concurrent.NewUnboundedExecutor(),
	}, nil
}

// packToken packs a uint64 token into the 8-byte Fd+Pad region of an
// unix.EpollEvent (the kernel's epoll_data union), the same trick used by
// the pack's own epoll pollers to carry an opaque identifier through the
// kernel round-trip instead of the raw FD number.
func packToken(ev *unix.EpollEvent, token uint64) {
	*(*uint64)(unsafe.Pointer(&ev.Fd)) = token
}

// unpackToken is packToken's inverse.
func unpackToken(ev *unix.EpollEvent) uint64 {
	return *(*uint64)(unsafe.Pointer(&ev.Fd))
}

// Register adds fd to the multiplexer for readable-input events associated
// with token, and installs cb as the callback to invoke on every readiness
// notification for that FD until the process closes fd. A duplicate token
// silently overwrites the previous callback — a contract violation per the
// design's error band 2, not asserted against here, matching the "reactor
// silently absorbs" carve-out for unknown/duplicate tokens.
func (r *Reactor) Register(fd int, token uint64, cb func()) error {
	r.callbacks.Store(token, cb)

	var ev unix.EpollEvent
	ev.Events = unix.EPOLLIN
	packToken(&ev, token)

	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return os.NewSyscallError("epoll_ctl", err)
	}
	return nil
}

// Start launches the dedicated wait-loop goroutine. It returns immediately;
// the loop runs until the process exits (the reactor offers no shutdown,
// matching spec's treatment of the executor's run loop).
func (r *Reactor) Start() {
	r.exec.Go(func(ctx context.Context) {
		events := make([]unix.EpollEvent, r.config.EventCapacity)
		for {
			n, err := unix.EpollWait(r.epfd, events, -1)
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				panic(os.NewSyscallError("epoll_wait", err))
			}

			for i := 0; i < n; i++ {
				token := unpackToken(&events[i])
				cb, ok := r.callbacks.Load(token)
				if !ok {
					log.Printf("reactor: readiness event for unknown token %d, ignored", token)
					continue
				}
				cb.(func())()
			}
		}
	})
}

// Close releases the reactor's epoll file descriptor.
func (r *Reactor) Close() error {
	return unix.Close(r.epfd)
}
