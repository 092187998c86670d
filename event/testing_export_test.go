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

import (
	"time"

	"github.com/sabouaram/ircd-core/metrics"
)

// NewForTest exposes newWithBackend to the external test package so
// reactor logic (ref counting, timers, state transitions) can be
// exercised without touching a real OS poller.
func NewForTest(b Backend) *Engine {
	return newWithBackend(b, nil, metrics.New("eventtest"))
}

// FakeBackend is a minimal in-memory Backend for tests: Wait returns
// whatever has been queued via PushReady, once, then blocks-returns-empty.
type FakeBackend struct {
	Inited  bool
	Queue   [][]Ready
	Deleted []int
}

func (f *FakeBackend) Name() string { return "fake" }
func (f *FakeBackend) Init(maxSockets int) error {
	f.Inited = true
	return nil
}
func (f *FakeBackend) AddSocket(sock *Socket) error   { return nil }
func (f *FakeBackend) StateChange(sock *Socket) error { return nil }
func (f *FakeBackend) MaskChange(sock *Socket) error  { return nil }
func (f *FakeBackend) DeleteSocket(sock *Socket) error {
	f.Deleted = append(f.Deleted, sock.fd)
	return nil
}

func (f *FakeBackend) Wait(timeout time.Duration) ([]Ready, error) {
	if len(f.Queue) == 0 {
		return nil, nil
	}

	next := f.Queue[0]
	f.Queue = f.Queue[1:]
	return next, nil
}

func (f *FakeBackend) NativeSignals() bool { return false }
func (f *FakeBackend) Close() error        { return nil }

// PushReady enqueues one Wait() result.
func (f *FakeBackend) PushReady(r ...Ready) {
	f.Queue = append(f.Queue, r)
}

// RunTimersForTest exposes runTimers for direct invocation outside Loop.
func (e *Engine) RunTimersForTest(now time.Time) {
	e.runTimers(now)
}

// TimerCountForTest reports how many timers remain armed.
func (e *Engine) TimerCountForTest() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.timers)
}

// TimerExpiriesForTest returns the armed timers' time-until-expiry,
// in their current (sorted) order, relative to now.
func (e *Engine) TimerExpiriesForTest() []time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()

	now := time.Now()
	out := make([]time.Duration, len(e.timers))
	for i, t := range e.timers {
		out[i] = t.expiry.Sub(now).Round(time.Second)
	}
	return out
}
