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

// Package watchbridge republishes Watch Bus events onto NATS, so a process
// that never links this module can observe user/channel/server lifecycle.
// It is purely additive: nothing here stores state, and a bridge that is
// never attached to a table changes nothing about how the Watch Bus
// behaves.
package watchbridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sabouaram/ircd-core/logger"
	"github.com/sabouaram/ircd-core/registry"
	"github.com/sabouaram/ircd-core/watch"
)

// SubjectPrefix namespaces every subject this bridge publishes to; the
// mirrored table name is appended verbatim.
const SubjectPrefix = "ircd.watch."

// Message is the payload published for one watch_event firing.
type Message struct {
	Table     string    `json:"table"`
	Event     uint32    `json:"event"`
	Object    string    `json:"object"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is the seam between a Bridge and its transport, the same role
// a FakeBackend plays for the Event Engine: production code dials a real
// *nats.Conn, tests supply anything that records a Publish call.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Bridge mirrors a set of watch tables onto NATS subjects.
type Bridge struct {
	pub     Publisher
	conn    *nats.Conn
	bus     *watch.Bus
	log     logger.Logger
	watches map[string]*watch.Watch
}

// Connect dials url and returns a Bridge bound to bus. Nothing is
// mirrored until Attach is called for each table of interest.
func Connect(url string, bus *watch.Bus, log logger.Logger, opts ...nats.Option) (*Bridge, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, ErrConnectFailed.Error(err)
	}

	return newBridge(conn, conn, bus, log), nil
}

// NewWithPublisher builds a Bridge against an already-established
// publisher, bypassing nats.Connect entirely.
func NewWithPublisher(pub Publisher, bus *watch.Bus, log logger.Logger) *Bridge {
	return newBridge(pub, nil, bus, log)
}

func newBridge(pub Publisher, conn *nats.Conn, bus *watch.Bus, log logger.Logger) *Bridge {
	return &Bridge{
		pub:     pub,
		conn:    conn,
		bus:     bus,
		log:     log,
		watches: make(map[string]*watch.Watch),
	}
}

// Attach subscribes the bridge to every event code on tableName at
// MaxPriority, so it runs after every watch of lower priority value and
// after MaxPriority watches added before it. An event whose dispatch an
// earlier watch stops is not mirrored.
func (b *Bridge) Attach(tableName string) error {
	if _, exists := b.watches[tableName]; exists {
		return ErrAlreadyAttached.Error(nil)
	}

	w := &watch.Watch{
		Priority: watch.MaxPriority,
		Mask:     ^uint32(0),
		Callback: b.publish(tableName),
	}

	if err := b.bus.Add(tableName, w); err != nil {
		return err
	}

	b.watches[tableName] = w
	return nil
}

// Detach removes the bridge's subscription from tableName; events on that
// table stop being mirrored.
func (b *Bridge) Detach(tableName string) error {
	w, exists := b.watches[tableName]
	if !exists {
		return ErrNotAttached.Error(nil)
	}

	if err := b.bus.Remove(tableName, w); err != nil {
		return err
	}

	delete(b.watches, tableName)
	return nil
}

func (b *Bridge) publish(tableName string) watch.Callback {
	subject := SubjectPrefix + tableName

	return func(event uint32, object interface{}, extra interface{}) int {
		msg := Message{
			Table:     tableName,
			Event:     event,
			Object:    objectName(object),
			Timestamp: time.Now(),
		}

		data, err := json.Marshal(msg)
		if err != nil {
			b.warn("watchbridge marshal failed", tableName, err)
			return 0
		}

		if err := b.pub.Publish(subject, data); err != nil {
			b.warn("watchbridge publish failed", tableName, err)
		}

		return 0
	}
}

func (b *Bridge) warn(msg string, tableName string, err error) {
	if b.log == nil {
		return
	}
	b.log.Warn(msg, logger.NewFields().
		Add("table", tableName).
		Add("error", err.Error()))
}

func objectName(object interface{}) string {
	if e, ok := object.(registry.Entry); ok {
		return e.Name()
	}
	return fmt.Sprintf("%v", object)
}

// Close drains and closes the underlying NATS connection. It is a no-op
// for a Bridge built via NewWithPublisher.
func (b *Bridge) Close() {
	if b.conn != nil {
		_ = b.conn.Drain()
	}
}
