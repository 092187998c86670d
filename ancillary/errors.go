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

package ancillary

import (
	liberr "github.com/sabouaram/ircd-core/errors"
)

var (
	ErrNilDestructor = liberr.NewCodeError(liberr.MinPkgAncillary + 1)
	ErrModuleExists  = liberr.NewCodeError(liberr.MinPkgAncillary + 2)
	ErrNoSuchModule  = liberr.NewCodeError(liberr.MinPkgAncillary + 3)
	ErrNoSuchKey     = liberr.NewCodeError(liberr.MinPkgAncillary + 4)
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgAncillary, func(code liberr.CodeError) string {
		switch code {
		case ErrNilDestructor:
			return "a key's destructor may not be nil"
		case ErrModuleExists:
			return "a module with this name is already registered"
		case ErrNoSuchModule:
			return "no such ancillary module"
		case ErrNoSuchKey:
			return "no such ancillary key"
		default:
			return liberr.UnknownMessage
		}
	})
}
