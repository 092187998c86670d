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

// Code ranges, one block per package of this module. Each package that
// registers errors claims its own block with RegisterIdFctMessage so codes
// never collide across packages.
const (
	MinPkgErrors      = 100
	MinPkgLogger      = 200
	MinPkgConfig      = 300
	MinPkgMetrics     = 400
	MinPkgRegistry    = 500
	MinPkgKeyspace    = 600
	MinPkgAncillary   = 700
	MinPkgWatch       = 800
	MinPkgEvent       = 900
	MinPkgNumnick     = 1000
	MinPkgIPcheck     = 1100
	MinPkgWatchBridge = 1200
	MinPkgDaemonCtx   = 1300

	MinAvailable = 2000
)
