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

package numnick

import (
	liberr "github.com/sabouaram/ircd-core/errors"
)

var (
	ErrServerExists   = liberr.NewCodeError(liberr.MinPkgNumnick + 1)
	ErrNoSuchServer   = liberr.NewCodeError(liberr.MinPkgNumnick + 2)
	ErrTableFull      = liberr.NewCodeError(liberr.MinPkgNumnick + 3)
	ErrInvalidNumnick = liberr.NewCodeError(liberr.MinPkgNumnick + 4)
	ErrSlotOccupied   = liberr.NewCodeError(liberr.MinPkgNumnick + 5)
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgNumnick, func(code liberr.CodeError) string {
		switch code {
		case ErrServerExists:
			return "a server with this YY already exists"
		case ErrNoSuchServer:
			return "no such server numeric"
		case ErrTableFull:
			return "no free numnick slot"
		case ErrInvalidNumnick:
			return "malformed numnick"
		case ErrSlotOccupied:
			return "numnick slot already occupied"
		default:
			return liberr.UnknownMessage
		}
	})
}
