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

// Package logger provides the structured logging used across the daemon
// core: the Event Engine's backend selection and restart-on-error-threshold
// lines, IPcheck's connect-succeeded notice, and Numnick's ghost evictions
// all go through one of these.
package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is a structured, levelled logger with a base set of Fields that
// every Entry inherits.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level

	SetFields(f Fields)
	AddField(key string, val interface{}) Logger

	Entry(lvl Level, msg string) *Entry

	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)

	Close() error
}

// Entry is a single, fields-attached log line ready to be emitted.
type Entry struct {
	log *logrus.Entry
	lvl Level
}

func (e *Entry) FieldAdd(key string, val interface{}) *Entry {
	e.log = e.log.WithField(key, val)
	return e
}

func (e *Entry) Log(msg string) {
	e.log.Log(e.lvl.Logrus(), msg)
}

type logger struct {
	mu  sync.RWMutex
	log *logrus.Logger
	fld Fields
}

// New returns a Logger backed by logrus, with a stderr hook (see
// HookStderr) registered per opt. Call AddHookFile to additionally persist entries to
// disk.
func New(opt Options) (Logger, error) {
	if e := opt.Validate(); e != nil {
		return nil, e
	}

	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(GetLevelString(opt.Level).Logrus())

	NewHookStderr(opt, nil).RegisterHook(l)

	return &logger{
		log: l,
		fld: NewFields(),
	}, nil
}

// AddHookFile attaches a JSON file hook to an existing Logger.
func AddHookFile(l Logger, opt OptionsFile) error {
	lg, ok := l.(*logger)
	if !ok {
		return nil
	}

	if e := opt.Validate(); e != nil {
		return e
	}

	h, e := NewHookFile(opt)
	if e != nil {
		return e
	}

	h.RegisterHook(lg.log)
	return nil
}

func (l *logger) SetLevel(lvl Level) {
	if lvl == NilLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.log.SetLevel(lvl.Logrus())
}

func (l *logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()

	switch l.log.GetLevel() {
	case logrus.DebugLevel:
		return DebugLevel
	case logrus.InfoLevel:
		return InfoLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.ErrorLevel:
		return ErrorLevel
	case logrus.FatalLevel:
		return FatalLevel
	case logrus.PanicLevel:
		return PanicLevel
	default:
		return NilLevel
	}
}

func (l *logger) SetFields(f Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fld = f
}

func (l *logger) AddField(key string, val interface{}) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fld = l.fld.Add(key, val)
	return l
}

func (l *logger) Entry(lvl Level, msg string) *Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Entry{
		log: l.log.WithFields(l.fld.Logrus()),
		lvl: lvl,
	}
}

func (l *logger) Debug(msg string, f Fields) {
	l.Entry(DebugLevel, msg).withFields(f).Log(msg)
}

func (l *logger) Info(msg string, f Fields) {
	l.Entry(InfoLevel, msg).withFields(f).Log(msg)
}

func (l *logger) Warn(msg string, f Fields) {
	l.Entry(WarnLevel, msg).withFields(f).Log(msg)
}

func (l *logger) Error(msg string, f Fields) {
	l.Entry(ErrorLevel, msg).withFields(f).Log(msg)
}

func (e *Entry) withFields(f Fields) *Entry {
	if len(f) < 1 {
		return e
	}

	e.log = e.log.WithFields(f.Logrus())
	return e
}

func (l *logger) Close() error {
	return nil
}
