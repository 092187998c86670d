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

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package event

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

func init() {
	registerBackend("poll", func() Backend { return &pollBackend{} })
}

// pollBackend is the portable fallback available on every unix target in
// this preference list; unlike epoll/kqueue it re-describes its full
// interest set on every Wait call.
type pollBackend struct {
	mu   sync.RWMutex
	want map[int]Mask
}

func (b *pollBackend) Name() string { return "poll" }

func (b *pollBackend) Init(maxSockets int) error {
	b.want = make(map[int]Mask, maxSockets)
	return nil
}

func (b *pollBackend) AddSocket(sock *Socket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.want[sock.fd] = sock.mask
	return nil
}

func (b *pollBackend) StateChange(sock *Socket) error { return nil }

func (b *pollBackend) MaskChange(sock *Socket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.want[sock.fd] = sock.mask
	return nil
}

func (b *pollBackend) DeleteSocket(sock *Socket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.want, sock.fd)
	return nil
}

func (b *pollBackend) Wait(timeout time.Duration) ([]Ready, error) {
	b.mu.RLock()
	fds := make([]unix.PollFd, 0, len(b.want))
	for fd, mask := range b.want {
		var events int16
		if mask&MaskReadable != 0 {
			events |= unix.POLLIN
		}
		if mask&MaskWritable != 0 {
			events |= unix.POLLOUT
		}
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: events})
	}
	b.mu.RUnlock()

	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}

	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	out := make([]Ready, 0, n)
	for _, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}

		r := Ready{Fd: int(pfd.Fd)}
		if pfd.Revents&unix.POLLERR != 0 {
			r.Err = unix.EIO
		}
		if pfd.Revents&unix.POLLIN != 0 {
			r.Readable = true
		}
		if pfd.Revents&unix.POLLOUT != 0 {
			r.Writable = true
		}
		if pfd.Revents&unix.POLLHUP != 0 {
			r.Readable = true
			r.Eof = true
		}

		out = append(out, r)
	}

	return out, nil
}

func (b *pollBackend) NativeSignals() bool { return false }

func (b *pollBackend) Close() error { return nil }
