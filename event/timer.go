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
	"sort"
	"time"
)

// Timer is a one-shot or periodic generator, dispatched via EXPIRE events.
type Timer struct {
	generator

	expiry   time.Time
	period   time.Duration
	periodic bool
	callback Callback
	data     interface{}

	marked bool
	readd  bool

	engine *Engine
}

// AddTimer arms a timer to first fire at `when`; if periodic, it
// re-arms itself for `period` after every EXPIRE.
func (e *Engine) AddTimer(when time.Time, period time.Duration, periodic bool, cb Callback, data interface{}) *Timer {
	t := &Timer{
		expiry:   when,
		period:   period,
		periodic: periodic,
		callback: cb,
		data:     data,
		engine:   e,
	}

	e.mu.Lock()
	e.timers = append(e.timers, t)
	e.sortTimersLocked()
	e.mu.Unlock()

	e.generate(Create, t, nil)
	return t
}

// DeleteTimer removes t. If t is currently executing its EXPIRE callback
// (MARKED), deletion is deferred: readd is cleared so timer_run destroys
// it on exit from the callback instead of re-enqueuing it (spec §4.5.4).
func (e *Engine) DeleteTimer(t *Timer) {
	if t.isDestroyed() {
		return
	}

	if t.marked {
		t.readd = false
		return
	}

	e.mu.Lock()
	for i, other := range e.timers {
		if other == t {
			e.timers = append(e.timers[:i], e.timers[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	t.markDestroy()
	e.generate(Destroy, t, nil)
}

func (e *Engine) sortTimersLocked() {
	sort.Slice(e.timers, func(i, j int) bool {
		return e.timers[i].expiry.Before(e.timers[j].expiry)
	})
}

// nextTimeout returns the duration until the head timer's expiry, or -1
// if there are no timers (infinite wait).
func (e *Engine) nextTimeout(now time.Time) time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.timers) == 0 {
		return -1
	}

	d := e.timers[0].expiry.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// runTimers pops and fires every timer whose expiry has passed, per the
// algorithm in spec §4.5.4.
func (e *Engine) runTimers(now time.Time) {
	for {
		e.mu.Lock()
		if len(e.timers) == 0 || e.timers[0].expiry.After(now) {
			e.mu.Unlock()
			return
		}

		t := e.timers[0]
		e.timers = e.timers[1:]
		e.mu.Unlock()

		t.marked = true
		t.readd = t.periodic

		e.generate(Expire, t, nil)

		t.marked = false

		if t.readd {
			t.expiry = now.Add(t.period)
			e.mu.Lock()
			e.timers = append(e.timers, t)
			e.sortTimersLocked()
			e.mu.Unlock()
		} else {
			t.markDestroy()
			e.generate(Destroy, t, nil)
		}
	}
}
