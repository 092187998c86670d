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

//go:build solaris

package event

import (
	"errors"
	"time"
)

// devpollBackend occupies the "devpoll" slot in the preference order so
// selection on Solaris behaves correctly (tries it, falls through on
// failure), but it always declines: golang.org/x/sys/unix carries no
// /dev/poll ioctl bindings for this target, and hand-packing the DP_POLL
// struct layout without a verified reference was judged worse than an
// honest unsupported backend. Solaris deployments fall through to poll.
func init() {
	registerBackend("devpoll", func() Backend { return &devpollBackend{} })
}

type devpollBackend struct{}

func (b *devpollBackend) Name() string { return "devpoll" }

func (b *devpollBackend) Init(maxSockets int) error {
	return errors.New("devpoll: unsupported, no /dev/poll bindings available")
}

func (b *devpollBackend) AddSocket(sock *Socket) error    { return nil }
func (b *devpollBackend) StateChange(sock *Socket) error  { return nil }
func (b *devpollBackend) MaskChange(sock *Socket) error   { return nil }
func (b *devpollBackend) DeleteSocket(sock *Socket) error { return nil }
func (b *devpollBackend) Wait(time.Duration) ([]Ready, error) {
	return nil, errors.New("devpoll: unsupported")
}
func (b *devpollBackend) NativeSignals() bool { return false }
func (b *devpollBackend) Close() error        { return nil }
