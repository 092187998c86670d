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
	"sync"

	"github.com/sirupsen/logrus"
)

// HookFile appends JSON-formatted entries to a file, which NewHookFile
// opens and which stays open until Close.
type HookFile interface {
	logrus.Hook
	io.WriteCloser
	RegisterHook(log *logrus.Logger)
}

type hookFile struct {
	m sync.Mutex
	h *os.File
	r logrus.Formatter
	l []logrus.Level
	o OptionsFile
}

func NewHookFile(opt OptionsFile) (HookFile, error) {
	if opt.Filepath == "" {
		return nil, fmt.Errorf("logger: file hook requires a file path")
	}

	var lvls []logrus.Level

	if len(opt.LogLevel) > 0 {
		for _, ls := range opt.LogLevel {
			lvls = append(lvls, GetLevelString(ls).Logrus())
		}
	} else {
		lvls = logrus.AllLevels
	}

	flags := os.O_WRONLY | os.O_APPEND
	if opt.Create {
		flags |= os.O_CREATE
	}

	h, e := os.OpenFile(opt.Filepath, flags, 0o644)
	if e != nil {
		return nil, e
	}

	return &hookFile{
		h: h,
		r: &logrus.JSONFormatter{},
		l: lvls,
		o: opt,
	}, nil
}

func (o *hookFile) RegisterHook(log *logrus.Logger) {
	log.AddHook(o)
}

func (o *hookFile) Levels() []logrus.Level {
	return o.l
}

func (o *hookFile) Fire(entry *logrus.Entry) error {
	ent := entry.Dup()
	ent.Level = entry.Level

	if o.o.DisableStack {
		ent.Data = filterKey(ent.Data, FieldStack)
	}

	if o.o.DisableTimestamp {
		ent.Data = filterKey(ent.Data, FieldTime)
	}

	if !o.o.EnableTrace {
		ent.Data = filterKey(ent.Data, FieldCaller)
		ent.Data = filterKey(ent.Data, FieldFile)
		ent.Data = filterKey(ent.Data, FieldLine)
	}

	p, e := o.r.Format(ent)
	if e != nil {
		return e
	}

	_, e = o.Write(p)
	return e
}

func (o *hookFile) Write(p []byte) (int, error) {
	o.m.Lock()
	defer o.m.Unlock()

	if o.h == nil {
		return 0, fmt.Errorf("logger: file hook not open")
	}

	return o.h.Write(p)
}

func (o *hookFile) Close() error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.h == nil {
		return nil
	}

	e := o.h.Close()
	o.h = nil

	return e
}
