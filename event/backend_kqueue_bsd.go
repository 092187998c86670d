/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package event

import (
	"time"

	"golang.org/x/sys/unix"
)

func init() {
	registerBackend("kqueue", func() Backend { return &kqueueBackend{} })
}

type kqueueBackend struct {
	kq     int
	events []unix.Kevent_t
}

func (b *kqueueBackend) Name() string { return "kqueue" }

func (b *kqueueBackend) Init(maxSockets int) error {
	fd, err := unix.Kqueue()
	if err != nil {
		return err
	}

	b.kq = fd
	if maxSockets <= 0 {
		maxSockets = 256
	}
	b.events = make([]unix.Kevent_t, maxSockets)
	return nil
}

func (b *kqueueBackend) changesFor(sock *Socket, add bool) []unix.Kevent_t {
	var flags uint16 = unix.EV_ADD | unix.EV_ENABLE
	if !add {
		flags = unix.EV_DELETE
	}

	var changes []unix.Kevent_t
	if add && sock.mask&MaskReadable == 0 {
		changes = append(changes, unix.Kevent_t{Ident: uint64(sock.fd), Filter: unix.EVFILT_READ, Flags: unix.EV_DELETE})
	} else {
		changes = append(changes, unix.Kevent_t{Ident: uint64(sock.fd), Filter: unix.EVFILT_READ, Flags: flags})
	}

	if add && sock.mask&MaskWritable == 0 {
		changes = append(changes, unix.Kevent_t{Ident: uint64(sock.fd), Filter: unix.EVFILT_WRITE, Flags: unix.EV_DELETE})
	} else {
		changes = append(changes, unix.Kevent_t{Ident: uint64(sock.fd), Filter: unix.EVFILT_WRITE, Flags: flags})
	}

	return changes
}

func (b *kqueueBackend) AddSocket(sock *Socket) error {
	_, err := unix.Kevent(b.kq, b.changesFor(sock, true), nil, nil)
	return err
}

func (b *kqueueBackend) StateChange(sock *Socket) error { return nil }

func (b *kqueueBackend) MaskChange(sock *Socket) error {
	_, err := unix.Kevent(b.kq, b.changesFor(sock, true), nil, nil)
	return err
}

func (b *kqueueBackend) DeleteSocket(sock *Socket) error {
	_, err := unix.Kevent(b.kq, b.changesFor(sock, false), nil, nil)
	return err
}

func (b *kqueueBackend) Wait(timeout time.Duration) ([]Ready, error) {
	var ts *unix.Timespec
	if timeout >= 0 {
		t := unix.NsecToTimespec(timeout.Nanoseconds())
		ts = &t
	}

	n, err := unix.Kevent(b.kq, nil, b.events, ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	byFd := make(map[int]*Ready, n)
	for i := 0; i < n; i++ {
		e := b.events[i]
		fd := int(e.Ident)

		r, ok := byFd[fd]
		if !ok {
			r = &Ready{Fd: fd}
			byFd[fd] = r
		}

		if e.Flags&unix.EV_ERROR != 0 {
			r.Err = unix.Errno(e.Data)
			continue
		}

		switch e.Filter {
		case unix.EVFILT_READ:
			r.Readable = true
			if e.Flags&unix.EV_EOF != 0 {
				r.Eof = true
			}
		case unix.EVFILT_WRITE:
			r.Writable = true
		}
	}

	out := make([]Ready, 0, len(byFd))
	for _, r := range byFd {
		out = append(out, *r)
	}
	return out, nil
}

// NativeSignals is always false: kqueue's EVFILT_SIGNAL exists, but Go's
// runtime already intercepts process signals through os/signal, and
// registering a second raw handler underneath it is unsupported. Every
// backend routes through the self-pipe instead.
func (b *kqueueBackend) NativeSignals() bool { return false }

func (b *kqueueBackend) Close() error {
	return unix.Close(b.kq)
}
