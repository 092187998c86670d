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
	registerBackend("select", func() Backend { return &selectBackendImpl{} })
}

// selectBackendImpl is the last-resort backend: correct everywhere this
// module targets, but limited to FD_SETSIZE descriptors and O(n) per
// wakeup. Per spec §4.5.3, this backend alone must disambiguate a
// readable-but-empty socket (EOF) from one with pending data by peeking
// a byte, since select's readiness bit does not distinguish them.
type selectBackendImpl struct {
	mu   sync.RWMutex
	want map[int]Mask
}

func (b *selectBackendImpl) Name() string { return "select" }

func (b *selectBackendImpl) Init(maxSockets int) error {
	b.want = make(map[int]Mask, maxSockets)
	return nil
}

func (b *selectBackendImpl) AddSocket(sock *Socket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.want[sock.fd] = sock.mask
	return nil
}

func (b *selectBackendImpl) StateChange(sock *Socket) error { return nil }

func (b *selectBackendImpl) MaskChange(sock *Socket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.want[sock.fd] = sock.mask
	return nil
}

func (b *selectBackendImpl) DeleteSocket(sock *Socket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.want, sock.fd)
	return nil
}

func (b *selectBackendImpl) Wait(timeout time.Duration) ([]Ready, error) {
	b.mu.RLock()
	var rSet, wSet unix.FdSet
	nfd := 0
	fds := make([]int, 0, len(b.want))
	masks := make(map[int]Mask, len(b.want))

	for fd, mask := range b.want {
		fds = append(fds, fd)
		masks[fd] = mask

		if mask&MaskReadable != 0 {
			fdSet(&rSet, fd)
		}
		if mask&MaskWritable != 0 {
			fdSet(&wSet, fd)
		}
		if fd >= nfd {
			nfd = fd + 1
		}
	}
	b.mu.RUnlock()

	var tv *unix.Timeval
	if timeout >= 0 {
		t := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}

	if err := unix.Select(nfd, &rSet, &wSet, nil, tv); err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	out := make([]Ready, 0, len(fds))
	for _, fd := range fds {
		readable := fdIsSet(&rSet, fd)
		writable := fdIsSet(&wSet, fd)
		if !readable && !writable {
			continue
		}

		r := Ready{Fd: fd, Readable: readable, Writable: writable}

		if readable && masks[fd]&MaskReadable != 0 {
			var peek [1]byte
			n, _, err := unix.Recvfrom(fd, peek[:], unix.MSG_PEEK)
			if err == nil && n == 0 {
				r.Eof = true
			}
		}

		out = append(out, r)
	}

	return out, nil
}

func (b *selectBackendImpl) NativeSignals() bool { return false }

func (b *selectBackendImpl) Close() error { return nil }

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}
