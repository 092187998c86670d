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

package event_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ircd-core/event"
)

var _ = Describe("Socket lifecycle", func() {
	var (
		fb *event.FakeBackend
		e  *event.Engine
	)

	BeforeEach(func() {
		fb = &event.FakeBackend{}
		e = event.NewForTest(fb)
	})

	It("generates CREATE on AddSocket and DESTROY once ref drops to zero", func() {
		var seen []event.Type

		sock, err := e.AddSocket(3, event.Connecting, event.MaskWritable, func(ev event.Type, gen interface{}, data interface{}) {
			seen = append(seen, ev)
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]event.Type{event.Create}))

		Expect(e.DeleteSocket(sock)).To(Succeed())
		Expect(seen).To(Equal([]event.Type{event.Create, event.Destroy}))
		Expect(fb.Deleted).To(ContainElement(3))
	})

	It("allows Connecting to move only to Connected", func() {
		sock, err := e.AddSocket(3, event.Connecting, event.MaskWritable, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		err = e.StateChange(sock, event.Listening)
		Expect(err).To(HaveOccurred())

		err = e.StateChange(sock, event.Connected)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects any transition out of Connected", func() {
		sock, err := e.AddSocket(3, event.Connected, event.MaskWritable, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		err = e.StateChange(sock, event.Listening)
		Expect(err).To(HaveOccurred())
	})

	It("allows Datagram and ConnectDg to move only to each other", func() {
		sock, err := e.AddSocket(3, event.Datagram, event.MaskReadable, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(e.StateChange(sock, event.Connecting)).To(HaveOccurred())
		Expect(e.StateChange(sock, event.ConnectDg)).NotTo(HaveOccurred())
		Expect(e.StateChange(sock, event.Datagram)).NotTo(HaveOccurred())
	})

	It("never changes state once NotSock", func() {
		sock, err := e.AddSocket(4, event.NotSock, event.MaskReadable, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		err = e.StateChange(sock, event.Connected)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Event dispatch", func() {
	It("fires no further event when an already-destroyed socket is deleted again", func() {
		fb := &event.FakeBackend{}
		e := event.NewForTest(fb)

		var seen []event.Type
		sock, err := e.AddSocket(5, event.Connected, event.MaskReadable, func(ev event.Type, gen interface{}, data interface{}) {
			seen = append(seen, ev)
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(e.DeleteSocket(sock)).To(Succeed())
		seenAfterDelete := len(seen)

		// A second DeleteSocket is a no-op; ref is already zero and
		// destroy already flagged, so no further DESTROY should fire.
		Expect(e.DeleteSocket(sock)).To(Succeed())
		Expect(seen).To(HaveLen(seenAfterDelete))
	})
})

var _ = Describe("Timers", func() {
	It("fires EXPIRE once for a one-shot timer and then DESTROY", func() {
		fb := &event.FakeBackend{}
		e := event.NewForTest(fb)

		var seen []event.Type
		e.AddTimer(time.Now().Add(-time.Millisecond), 0, false, func(ev event.Type, gen interface{}, data interface{}) {
			seen = append(seen, ev)
		}, nil)

		e.RunTimersForTest(time.Now())
		Expect(seen).To(ContainElement(event.Expire))
		Expect(seen).To(ContainElement(event.Destroy))
	})

	It("re-arms a periodic timer after EXPIRE instead of destroying it", func() {
		fb := &event.FakeBackend{}
		e := event.NewForTest(fb)

		fireCount := 0
		e.AddTimer(time.Now().Add(-time.Millisecond), time.Hour, true, func(ev event.Type, gen interface{}, data interface{}) {
			if ev == event.Expire {
				fireCount++
			}
		}, nil)

		e.RunTimersForTest(time.Now())
		Expect(fireCount).To(Equal(1))
		Expect(e.TimerCountForTest()).To(Equal(1))
	})

	It("keeps the timer list sorted ascending by expiry", func() {
		fb := &event.FakeBackend{}
		e := event.NewForTest(fb)

		now := time.Now()
		e.AddTimer(now.Add(30*time.Second), 0, false, nil, nil)
		e.AddTimer(now.Add(5*time.Second), 0, false, nil, nil)
		e.AddTimer(now.Add(15*time.Second), 0, false, nil, nil)

		Expect(e.TimerExpiriesForTest()).To(BeEquivalentTo([]time.Duration{
			5 * time.Second, 15 * time.Second, 30 * time.Second,
		}))
	})
})
