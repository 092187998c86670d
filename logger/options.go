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

package logger

import (
	libval "github.com/go-playground/validator/v10"
)

// Options controls the stderr hook's rendering of an entry.
type Options struct {
	Level            string `validate:"omitempty,oneof=debug info warning error"`
	DisableColor     bool
	DisableStack     bool
	DisableTimestamp bool
	EnableTrace      bool
	EnableAccessLog  bool
}

// OptionsFile controls a file hook's target and rendering.
type OptionsFile struct {
	LogLevel []string `validate:"omitempty,dive,oneof=debug info warning error"`
	Filepath string   `validate:"required"`
	Create   bool
	DisableStack     bool
	DisableTimestamp bool
	EnableTrace      bool
	EnableAccessLog  bool
}

func (o Options) Validate() error {
	return libval.New().Struct(o)
}

func (o OptionsFile) Validate() error {
	return libval.New().Struct(o)
}
