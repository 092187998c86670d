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

package watchbridge

import (
	liberr "github.com/sabouaram/ircd-core/errors"
)

var (
	ErrConnectFailed   = liberr.NewCodeError(liberr.MinPkgWatchBridge + 1)
	ErrAlreadyAttached = liberr.NewCodeError(liberr.MinPkgWatchBridge + 2)
	ErrNotAttached     = liberr.NewCodeError(liberr.MinPkgWatchBridge + 3)
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgWatchBridge, func(code liberr.CodeError) string {
		switch code {
		case ErrConnectFailed:
			return "nats connection failed"
		case ErrAlreadyAttached:
			return "table already mirrored"
		case ErrNotAttached:
			return "table not mirrored"
		default:
			return liberr.UnknownMessage
		}
	})
}
