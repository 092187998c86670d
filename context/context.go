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

// Package context gives daemonctx a single concurrent-safe slot map keyed
// by a comparable type, wrapping a parent context.Context for cancellation.
// It is a deliberately small slice of the original library's generic
// config-context: daemonctx only ever stores, loads and wipes a fixed set
// of subsystem slots, so Clone/Merge/WalkLimit/LoadOrStore never earned a
// place here.
package context

import (
	"context"
	"sync"
)

// FuncWalk is called once per stored slot during Walk; returning false
// stops the iteration early.
type FuncWalk[T comparable] func(key T, val interface{}) bool

// Config is a parent context.Context plus a concurrent map of slots keyed
// by T. Once the parent is done, every Store and Clean call drains the map
// instead of growing it.
type Config[T comparable] interface {
	context.Context

	Load(key T) (val interface{}, ok bool)
	Store(key T, val interface{})
	Delete(key T)
	Walk(fct FuncWalk[T])
	Clean()
}

type slotContext[T comparable] struct {
	context.Context
	m sync.Map
}

// New returns a Config rooted at parent. A nil parent defaults to
// context.Background.
func New[T comparable](parent context.Context) Config[T] {
	if parent == nil {
		parent = context.Background()
	}

	return &slotContext[T]{Context: parent}
}

func (c *slotContext[T]) Load(key T) (val interface{}, ok bool) {
	return c.m.Load(key)
}

func (c *slotContext[T]) Store(key T, val interface{}) {
	if c.Err() != nil {
		c.Clean()
		return
	} else if val == nil {
		c.m.Delete(key)
		return
	}

	c.m.Store(key, val)
}

func (c *slotContext[T]) Delete(key T) {
	c.m.Delete(key)
}

func (c *slotContext[T]) Walk(fct FuncWalk[T]) {
	c.m.Range(func(key, val any) bool {
		k, ok := key.(T)
		if !ok {
			return true
		}
		return fct(k, val)
	})
}

func (c *slotContext[T]) Clean() {
	c.m.Range(func(key, _ any) bool {
		c.m.Delete(key)
		return true
	})
}

func (c *slotContext[T]) Value(key any) any {
	if k, ok := key.(T); ok {
		if v, found := c.m.Load(k); found {
			return v
		}
	}
	return c.Context.Value(key)
}
