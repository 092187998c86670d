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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// HookStderr writes entries to the process's standard error, through a
// go-colorable writer unless Options.DisableColor is set. Entries are
// formatted by the logger's own formatter; since New sends the logger's
// output to io.Discard, that formatter emits no color codes. Without
// Options.EnableAccessLog an entry with no fields is not written; with it,
// only the message is written.
type HookStderr interface {
	logrus.Hook
	io.WriteCloser
	RegisterHook(log *logrus.Logger)
}

type hookStderr struct {
	w io.Writer
	l []logrus.Level
	s bool
	d bool
	t bool
	a bool
}

func NewHookStderr(opt Options, lvls []logrus.Level) HookStderr {
	if len(lvls) < 1 {
		lvls = logrus.AllLevels
	}

	var w io.Writer = os.Stderr
	if !opt.DisableColor {
		w = colorable.NewColorableStderr()
	}

	return &hookStderr{
		w: w,
		l: lvls,
		s: opt.DisableStack,
		d: opt.DisableTimestamp,
		t: opt.EnableTrace,
		a: opt.EnableAccessLog,
	}
}

func (o *hookStderr) RegisterHook(log *logrus.Logger) {
	log.AddHook(o)
}

func (o *hookStderr) Levels() []logrus.Level {
	return o.l
}

func (o *hookStderr) Fire(entry *logrus.Entry) error {
	ent := entry.Dup()
	ent.Level = entry.Level

	if o.s {
		ent.Data = filterKey(ent.Data, FieldStack)
	}

	if o.d {
		ent.Data = filterKey(ent.Data, FieldTime)
	}

	if !o.t {
		ent.Data = filterKey(ent.Data, FieldCaller)
		ent.Data = filterKey(ent.Data, FieldFile)
		ent.Data = filterKey(ent.Data, FieldLine)
	}

	var (
		p []byte
		e error
	)

	if o.a {
		if len(entry.Message) < 1 {
			return nil
		}

		msg := entry.Message
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}

		p = []byte(msg)
	} else {
		if len(ent.Data) < 1 {
			return nil
		}

		if p, e = ent.Bytes(); e != nil {
			return e
		}
	}

	_, e = o.Write(p)
	return e
}

func (o *hookStderr) Write(p []byte) (int, error) {
	if o.w == nil {
		return 0, fmt.Errorf("logger: stderr hook writer not set up")
	}

	return o.w.Write(p)
}

func (o *hookStderr) Close() error {
	return nil
}

func filterKey(f logrus.Fields, key string) logrus.Fields {
	if len(f) < 1 {
		return f
	}

	if _, ok := f[key]; ok {
		delete(f, key)
	}

	return f
}
