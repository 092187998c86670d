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
	"os"
	"os/signal"
	"syscall"
)

// signalSub is one caller's subscription to a single OS signal.
type signalSub struct {
	generator

	sig      os.Signal
	callback func(sig os.Signal)
}

func (s *signalSub) base() *generator { return &s.generator }
func (s *signalSub) fire(ev Type, data interface{}) {
	if ev == Signal && s.callback != nil {
		s.callback(s.sig)
	}
}

// signalPipe is the self-pipe fallback used when the chosen backend has
// no native signal delivery (spec §4.5.2): a pipe whose write end is fed
// by a goroutine relaying Go's own signal.Notify channel, and whose read
// end is registered as a NOTSOCK internal socket.
type signalPipe struct {
	r, w *os.File
	ch   chan os.Signal
	sock *Socket
}

// RegisterSignal arms cb to run whenever sig is delivered to the process.
// When the backend reports NativeSignals, the subscription is only
// recorded and nothing else is armed; otherwise sig is relayed through the
// self-pipe. Every backend in this package reports false.
func (e *Engine) RegisterSignal(sig os.Signal, cb func(sig os.Signal)) error {
	key := signalKey(sig)

	sub := &signalSub{sig: sig, callback: cb}

	e.sigMu.Lock()
	defer e.sigMu.Unlock()

	e.sigSubs[key] = append(e.sigSubs[key], sub)

	if e.backend.NativeSignals() {
		return nil
	}

	if e.sigPipe == nil {
		if err := e.initSelfPipe(); err != nil {
			return err
		}
	}

	signal.Notify(e.sigPipe.ch, sig)
	return nil
}

func (e *Engine) initSelfPipe() error {
	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	p := &signalPipe{r: r, w: w, ch: make(chan os.Signal, 16)}
	e.sigPipe = p

	go func() {
		for sig := range p.ch {
			_, _ = p.w.Write([]byte{byte(signalKey(sig))})
		}
	}()

	sock, err := e.AddSocket(int(r.Fd()), NotSock, MaskReadable, nil, nil)
	if err != nil {
		return err
	}
	p.sock = sock

	return nil
}

// handleSignalPipeReadable drains up to 10 pending signal bytes per
// wakeup and dispatches SIGNAL events to every matching subscription,
// per spec §4.5.2.
func (e *Engine) handleSignalPipeReadable() {
	if e.sigPipe == nil {
		return
	}

	buf := make([]byte, 10)
	n, err := e.sigPipe.r.Read(buf)
	if err != nil || n == 0 {
		return
	}

	e.sigMu.Lock()
	defer e.sigMu.Unlock()

	for _, b := range buf[:n] {
		for _, sub := range e.sigSubs[int(b)] {
			e.generate(Signal, sub, nil)
		}
	}
}

// signalKey extracts the underlying signal number so it can travel
// through the self-pipe as a single byte.
func signalKey(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return 0
}
