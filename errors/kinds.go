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

package errors

// The abstract error kinds of this module, registered with their default
// messages. They classify failures by how a caller reacts to them (retry,
// close, reject) rather than by which package produced them. The packages
// of this module raise their own package codes, not these kinds.
const (
	// TransientIo covers a read/write that failed but may succeed if retried
	// (EAGAIN/EINTR class conditions surfaced by a backend).
	TransientIo CodeError = MinPkgErrors + iota + 1

	// FatalIo covers a read/write that cannot be retried; the underlying
	// descriptor is no longer usable.
	FatalIo

	// SocketPeerError covers a peer-induced socket failure such as a reset
	// connection.
	SocketPeerError

	// PeerEof covers an orderly peer shutdown (read returned zero bytes).
	PeerEof

	// CapacityExhaustion covers an allocator or registry that has no more
	// room (Keyspace out of keys, numnick table full, watch table full).
	CapacityExhaustion

	// PolicyReject covers a request refused by a threshold or policy check
	// rather than by a resource failure (IPcheck throttling a connect).
	PolicyReject

	// ProtocolViolation covers a peer or caller violating an invariant this
	// module enforces (a numeric collision, a malformed watch registration).
	ProtocolViolation
)

func init() {
	RegisterIdFctMessage(MinPkgErrors, func(code CodeError) string {
		switch code {
		case TransientIo:
			return "transient I/O error, retry may succeed"
		case FatalIo:
			return "fatal I/O error, descriptor unusable"
		case SocketPeerError:
			return "socket error raised by peer"
		case PeerEof:
			return "peer closed the connection"
		case CapacityExhaustion:
			return "no capacity remaining for this allocation"
		case PolicyReject:
			return "request rejected by policy"
		case ProtocolViolation:
			return "protocol invariant violated"
		default:
			return UnknownMessage
		}
	})
}
