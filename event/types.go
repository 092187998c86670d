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

// Package event is the daemon's single-threaded reactor: a generator/event
// abstraction over a pluggable I/O-readiness backend (kqueue, /dev/poll,
// epoll, poll, select, tried in that preference order), a sorted timer
// list, and a self-pipe signal fallback for backends with no native signal
// delivery.
package event

import "sync/atomic"

// Type is one of the event kinds a generator can produce.
type Type uint8

const (
	Create Type = iota
	Destroy
	Connect
	Accept
	Read
	Write
	Eof
	Error
	Expire
	Signal
)

func (t Type) String() string {
	switch t {
	case Create:
		return "CREATE"
	case Destroy:
		return "DESTROY"
	case Connect:
		return "CONNECT"
	case Accept:
		return "ACCEPT"
	case Read:
		return "READ"
	case Write:
		return "WRITE"
	case Eof:
		return "EOF"
	case Error:
		return "ERROR"
	case Expire:
		return "EXPIRE"
	case Signal:
		return "SIGNAL"
	default:
		return "UNKNOWN"
	}
}

// SocketState is a socket generator's current phase, per spec §3.2.
type SocketState uint8

const (
	Connecting SocketState = iota
	Listening
	Connected
	Datagram
	ConnectDg
	NotSock
)

// validTransition reports whether from -> to is an allowed state change,
// per spec §3.2: Connecting moves only to Connected; Datagram and
// ConnectDg move only to each other; Listening, Connected, and NotSock
// are all terminal.
func validTransition(from, to SocketState) bool {
	switch from {
	case Connecting:
		return to == Connected
	case Datagram:
		return to == ConnectDg
	case ConnectDg:
		return to == Datagram
	default:
		return false
	}
}

// Mask selects which readiness conditions a socket is armed for.
type Mask uint8

const (
	MaskReadable Mask = 1 << iota
	MaskWritable
)

// generator is the ref-counted, destroy-flagged base every event source
// (Socket, Timer, signal subscription) embeds.
type generator struct {
	refCount int32
	destroy  int32
}

func (g *generator) incRef() { atomic.AddInt32(&g.refCount, 1) }
func (g *generator) decRef() { atomic.AddInt32(&g.refCount, -1) }
func (g *generator) ref() int32 {
	return atomic.LoadInt32(&g.refCount)
}

func (g *generator) markDestroy()   { atomic.StoreInt32(&g.destroy, 1) }
func (g *generator) isDestroyed() bool {
	return atomic.LoadInt32(&g.destroy) != 0
}
