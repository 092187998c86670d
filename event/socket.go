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

// Callback runs when an event fires for a generator. data carries the
// event-specific payload (an errno for ERROR, nothing for most others).
type Callback func(ev Type, gen interface{}, data interface{})

// Socket is one file descriptor tracked by the engine.
type Socket struct {
	generator

	fd       int
	state    SocketState
	mask     Mask
	callback Callback
	data     interface{}
	errored  bool

	engine *Engine
}

// Fd returns the tracked file descriptor.
func (s *Socket) Fd() int { return s.fd }

// State returns the socket's current lifecycle state.
func (s *Socket) State() SocketState { return s.state }

// AddSocket links a new socket into the engine and informs the backend,
// per spec §4.5.6.
func (e *Engine) AddSocket(fd int, state SocketState, mask Mask, cb Callback, data interface{}) (*Socket, error) {
	s := &Socket{
		fd:       fd,
		state:    state,
		mask:     mask,
		callback: cb,
		data:     data,
		engine:   e,
	}

	if err := e.backend.AddSocket(s); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.sockets[fd] = s
	e.mu.Unlock()

	e.generate(Create, s, nil)
	return s, nil
}

// DeleteSocket marks s for destruction; if nothing still references it, a
// DESTROY event is synthesized immediately, else it is deferred until ref
// drops to zero (spec §4.5.6).
func (e *Engine) DeleteSocket(s *Socket) error {
	if s.isDestroyed() {
		return nil
	}

	s.markDestroy()

	if err := e.backend.DeleteSocket(s); err != nil {
		return err
	}

	e.mu.Lock()
	delete(e.sockets, s.fd)
	e.mu.Unlock()

	if s.ref() == 0 {
		e.generate(Destroy, s, nil)
	}

	return nil
}

// StateChange validates and applies a socket state transition, then
// informs the backend. It short-circuits if the socket is already being
// destroyed.
func (e *Engine) StateChange(s *Socket, newState SocketState) error {
	if s.isDestroyed() || s.errored {
		return nil
	}

	if !validTransition(s.state, newState) {
		return ErrInvalidTransition.Error(nil)
	}

	s.state = newState
	return e.backend.StateChange(s)
}

// MaskChange rewrites the socket's readiness mask and informs the
// backend. It short-circuits if the socket is already being destroyed.
func (e *Engine) MaskChange(s *Socket, newMask Mask) error {
	if s.isDestroyed() || s.errored {
		return nil
	}

	s.mask = newMask
	return e.backend.MaskChange(s)
}
