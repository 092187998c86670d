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

package registry

import (
	liberr "github.com/sabouaram/ircd-core/errors"
)

var (
	ErrNoSuchTable   = liberr.NewCodeError(liberr.MinPkgRegistry + 1)
	ErrMagicMismatch = liberr.NewCodeError(liberr.MinPkgRegistry + 2)
	ErrDuplicateName = liberr.NewCodeError(liberr.MinPkgRegistry + 3)
	ErrTableExists   = liberr.NewCodeError(liberr.MinPkgRegistry + 4)
	ErrNotFound      = liberr.NewCodeError(liberr.MinPkgRegistry + 5)
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgRegistry, func(code liberr.CodeError) string {
		switch code {
		case ErrNoSuchTable:
			return "no such table"
		case ErrMagicMismatch:
			return "entry magic does not match table magic"
		case ErrDuplicateName:
			return "an entry with this name is already registered"
		case ErrTableExists:
			return "a table with this name already exists"
		case ErrNotFound:
			return "entry not found"
		default:
			return liberr.UnknownMessage
		}
	})
}
