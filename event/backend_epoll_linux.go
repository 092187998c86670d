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

//go:build linux

package event

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

func init() {
	registerBackend("epoll", func() Backend { return &epollBackend{} })
}

type epollBackend struct {
	fd     int
	mu     sync.RWMutex
	events []unix.EpollEvent
}

func (b *epollBackend) Name() string { return "epoll" }

func (b *epollBackend) Init(maxSockets int) error {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}

	b.fd = fd
	if maxSockets <= 0 {
		maxSockets = 256
	}
	b.events = make([]unix.EpollEvent, maxSockets)
	return nil
}

func epollEventsFor(mask Mask) uint32 {
	var ev uint32 = unix.EPOLLRDHUP
	if mask&MaskReadable != 0 {
		ev |= unix.EPOLLIN
	}
	if mask&MaskWritable != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func (b *epollBackend) AddSocket(sock *Socket) error {
	ev := unix.EpollEvent{Events: epollEventsFor(sock.mask), Fd: int32(sock.fd)}
	return unix.EpollCtl(b.fd, unix.EPOLL_CTL_ADD, sock.fd, &ev)
}

func (b *epollBackend) StateChange(sock *Socket) error {
	return nil
}

func (b *epollBackend) MaskChange(sock *Socket) error {
	ev := unix.EpollEvent{Events: epollEventsFor(sock.mask), Fd: int32(sock.fd)}
	return unix.EpollCtl(b.fd, unix.EPOLL_CTL_MOD, sock.fd, &ev)
}

func (b *epollBackend) DeleteSocket(sock *Socket) error {
	return unix.EpollCtl(b.fd, unix.EPOLL_CTL_DEL, sock.fd, nil)
}

func (b *epollBackend) Wait(timeout time.Duration) ([]Ready, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}

	n, err := unix.EpollWait(b.fd, b.events, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	out := make([]Ready, 0, n)
	for i := 0; i < n; i++ {
		e := b.events[i]
		r := Ready{Fd: int(e.Fd)}

		if e.Events&(unix.EPOLLERR) != 0 {
			r.Err = unix.EIO
		}
		if e.Events&unix.EPOLLIN != 0 {
			r.Readable = true
		}
		if e.Events&unix.EPOLLOUT != 0 {
			r.Writable = true
		}
		if e.Events&(unix.EPOLLRDHUP|unix.EPOLLHUP) != 0 {
			r.Readable = true
			r.Eof = true
		}

		out = append(out, r)
	}

	return out, nil
}

func (b *epollBackend) NativeSignals() bool { return false }

func (b *epollBackend) Close() error {
	return unix.Close(b.fd)
}
