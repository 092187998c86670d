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
	liberr "github.com/sabouaram/ircd-core/errors"
)

var (
	ErrNoBackend          = liberr.NewCodeError(liberr.MinPkgEvent + 1)
	ErrInvalidTransition  = liberr.NewCodeError(liberr.MinPkgEvent + 2)
	ErrGeneratorDestroyed = liberr.NewCodeError(liberr.MinPkgEvent + 3)
	ErrAlreadyRunning     = liberr.NewCodeError(liberr.MinPkgEvent + 4)
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgEvent, func(code liberr.CodeError) string {
		switch code {
		case ErrNoBackend:
			return "no event backend could be initialized"
		case ErrInvalidTransition:
			return "invalid socket state transition"
		case ErrGeneratorDestroyed:
			return "event rejected: generator already marked for destruction"
		case ErrAlreadyRunning:
			return "engine is already running"
		default:
			return liberr.UnknownMessage
		}
	})
}
