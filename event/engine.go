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
	"sync"
	"sync/atomic"
	"time"

	"github.com/sabouaram/ircd-core/logger"
	"github.com/sabouaram/ircd-core/metrics"
)

// Event is one in-flight occurrence, drawn from a pool rather than
// allocated fresh on every dispatch.
type Event struct {
	Type      Type
	Generator interface{}
	Data      interface{}
}

// genBase is implemented by every event source (Socket, Timer, the
// self-pipe signal subscription).
type genBase interface {
	base() *generator
	fire(ev Type, data interface{})
}

func (s *Socket) base() *generator { return &s.generator }
func (s *Socket) fire(ev Type, data interface{}) {
	if ev == Error {
		s.errored = true
	}
	if s.callback != nil {
		s.callback(ev, s, data)
	}
}

func (t *Timer) base() *generator { return &t.generator }
func (t *Timer) fire(ev Type, data interface{}) {
	if t.callback != nil {
		t.callback(ev, t, data)
	}
}

// errorThreshold is the hourly-decayed persistent-error count past which
// the loop aborts and signals for a restart (spec §4.5.7: "~20").
const errorThreshold = 20

// Engine is the daemon's single-threaded reactor.
type Engine struct {
	backend Backend
	log     logger.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	sockets map[int]*Socket
	timers  []*Timer

	eventPool sync.Pool

	running  int32
	shutdown chan struct{}
	restart  int32

	errCount    int
	errWindowAt time.Time

	sigMu   sync.Mutex
	sigSubs map[int][]*signalSub
	sigPipe *signalPipe
}

// New selects the first backend that initializes successfully, in the
// spec's preference order, and returns an Engine bound to it.
func New(maxSockets int, log logger.Logger, m *metrics.Metrics) (*Engine, error) {
	b, err := selectBackend(maxSockets)
	if err != nil {
		if log != nil {
			log.Error("no event backend could be initialized", logger.NewFields().Add("error", err.Error()))
		}
		return nil, err
	}

	if log != nil {
		log.Info("event backend selected", logger.NewFields().Add("backend", b.Name()))
	}

	return newWithBackend(b, log, m), nil
}

func newWithBackend(b Backend, log logger.Logger, m *metrics.Metrics) *Engine {
	e := &Engine{
		backend:     b,
		log:         log,
		metrics:     m,
		sockets:     make(map[int]*Socket),
		shutdown:    make(chan struct{}),
		errWindowAt: zeroTime(),
		sigSubs:     make(map[int][]*signalSub),
	}

	e.eventPool.New = func() interface{} { return &Event{} }
	return e
}

func zeroTime() time.Time { return time.Time{} }

// Name reports which concrete backend won selection, e.g. for startup
// logging or an introspection endpoint (the real daemon's engine_name()).
func (e *Engine) Name() string {
	return e.backend.Name()
}

// generate draws an Event from the pool and delivers it synchronously.
// It is rejected without effect if g already carries DESTROY and ev is
// not itself DESTROY (spec §4.5.5).
func (e *Engine) generate(ev Type, g genBase, data interface{}) {
	base := g.base()

	if base.isDestroyed() && ev != Destroy {
		return
	}

	base.incRef()

	evt := e.eventPool.Get().(*Event)
	evt.Type = ev
	evt.Generator = g
	evt.Data = data

	g.fire(ev, data)

	evt.Generator = nil
	evt.Data = nil
	e.eventPool.Put(evt)

	base.decRef()
}

// Shutdown signals Loop to return after finishing its current iteration.
func (e *Engine) Shutdown() {
	if atomic.CompareAndSwapInt32(&e.running, 1, 0) {
		close(e.shutdown)
	}
}

// Restarted reports whether the loop exited because the backend-error
// threshold was crossed, so the embedder knows to re-exec rather than
// treat the return as a clean shutdown.
func (e *Engine) Restarted() bool {
	return atomic.LoadInt32(&e.restart) != 0
}

// Loop blocks, dispatching readiness and timer events, until Shutdown is
// called or the persistent-error threshold forces a restart (spec
// §4.5.3).
func (e *Engine) Loop() error {
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		return ErrAlreadyRunning.Error(nil)
	}

	for {
		select {
		case <-e.shutdown:
			return nil
		default:
		}

		now := time.Now()
		timeout := e.nextTimeout(now)

		start := now
		ready, err := e.backend.Wait(timeout)
		if e.metrics != nil {
			e.metrics.LoopIterationLatency.Observe(time.Since(start).Seconds())
		}

		now = time.Now()

		if err != nil {
			if e.countError(now) {
				atomic.StoreInt32(&e.restart, 1)
				if e.metrics != nil {
					e.metrics.BackendRestarts.Inc()
				}
				if e.log != nil {
					e.log.Error("backend error threshold exceeded, restarting", logger.NewFields().
						Add("backend", e.backend.Name()).
						Add("count", e.errCount))
				}
				return err
			}
			continue
		}

		for _, r := range ready {
			e.dispatchReady(r)
		}

		e.runTimers(now)
	}
}

// countError folds a Wait failure into the hourly-decayed counter and
// reports whether the restart threshold has now been crossed.
func (e *Engine) countError(now time.Time) bool {
	if e.errWindowAt.IsZero() || now.Sub(e.errWindowAt) > time.Hour {
		e.errCount = 0
		e.errWindowAt = now
	}

	e.errCount++
	return e.errCount > errorThreshold
}

func (e *Engine) dispatchReady(r Ready) {
	e.mu.RLock()
	sock, ok := e.sockets[r.Fd]
	e.mu.RUnlock()

	if !ok {
		return
	}

	sock.incRef()
	defer sock.decRef()

	if r.Err != nil {
		e.generate(Error, sock, r.Err)
		return
	}

	switch sock.state {
	case Connecting:
		if r.Writable {
			e.generate(Connect, sock, nil)
		}
	case Listening:
		if r.Readable {
			e.generate(Accept, sock, nil)
		}
	case NotSock, Connected, Datagram, ConnectDg:
		if r.Readable {
			switch {
			case sock.state == NotSock:
				e.handleSignalPipeReadable()
			case r.Eof:
				e.generate(Eof, sock, nil)
			default:
				e.generate(Read, sock, nil)
			}
		}
		if r.Writable {
			e.generate(Write, sock, nil)
		}
	}
}
