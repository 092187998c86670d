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

package event

import "time"

// Ready reports one socket's readiness after a Wait call.
type Ready struct {
	Fd       int
	Readable bool
	Writable bool
	// Eof is set by backends that can observe a peer hangup directly
	// (EPOLLRDHUP, POLLHUP); callers without that signal leave it false
	// and rely on the subsequent Read returning io.EOF instead.
	Eof bool
	Err error
}

// Backend is the abstract engine interface every concrete poller
// implements (spec §4.5.1).
type Backend interface {
	Name() string
	Init(maxSockets int) error
	AddSocket(sock *Socket) error
	StateChange(sock *Socket) error
	MaskChange(sock *Socket) error
	DeleteSocket(sock *Socket) error

	// Wait blocks for up to timeout (or indefinitely when timeout < 0)
	// and returns the sockets that became ready.
	Wait(timeout time.Duration) ([]Ready, error)

	// NativeSignals reports whether RegisterSignal is backed by the
	// kernel poller itself; if false, the engine falls back to a
	// self-pipe NOTSOCK socket.
	NativeSignals() bool

	Close() error
}

type backendFactory struct {
	name string
	new  func() Backend
}

var backendRegistry []backendFactory

// registerBackend is called from each platform-gated backend file's
// init(), so only backends meaningful on the current GOOS ever enter the
// selection order.
func registerBackend(name string, new func() Backend) {
	backendRegistry = append(backendRegistry, backendFactory{name: name, new: new})
}

// preferenceOrder is the spec's fixed backend trial order (§4.5.2).
var preferenceOrder = []string{"kqueue", "devpoll", "epoll", "poll", "select"}

// selectBackend tries every registered backend in preference order and
// returns the first whose Init succeeds.
func selectBackend(maxSockets int) (Backend, error) {
	byName := make(map[string]func() Backend, len(backendRegistry))
	for _, f := range backendRegistry {
		byName[f.name] = f.new
	}

	for _, name := range preferenceOrder {
		newFn, ok := byName[name]
		if !ok {
			continue
		}

		b := newFn()
		if err := b.Init(maxSockets); err == nil {
			return b, nil
		}
	}

	return nil, ErrNoBackend.Error(nil)
}
