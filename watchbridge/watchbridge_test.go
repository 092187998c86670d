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

package watchbridge_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ircd-core/registry"
	"github.com/sabouaram/ircd-core/watch"
	"github.com/sabouaram/ircd-core/watchbridge"
)

type stubEntry struct {
	name  string
	magic uint32
}

func (s *stubEntry) Name() string  { return s.name }
func (s *stubEntry) Magic() uint32 { return s.magic }

type fakePublisher struct {
	subjects []string
	payloads [][]byte
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

var _ = Describe("Bridge", func() {
	var (
		reg registry.Registry
		bus *watch.Bus
		pub *fakePublisher
		b   *watchbridge.Bridge
	)

	BeforeEach(func() {
		reg = registry.New()

		var err error
		bus, err = watch.NewBus(reg)
		Expect(err).NotTo(HaveOccurred())

		_, err = bus.NewTable("users")
		Expect(err).NotTo(HaveOccurred())

		pub = &fakePublisher{}
		b = watchbridge.NewWithPublisher(pub, bus, nil)
	})

	It("mirrors a fired event onto the table's subject", func() {
		Expect(b.Attach("users")).To(Succeed())

		entry := &stubEntry{name: "nick1"}
		_, err := bus.Event("users", watch.EventCreate, entry, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(pub.subjects).To(ConsistOf("ircd.watch.users"))

		var msg watchbridge.Message
		Expect(json.Unmarshal(pub.payloads[0], &msg)).To(Succeed())
		Expect(msg.Table).To(Equal("users"))
		Expect(msg.Event).To(Equal(watch.EventCreate))
		Expect(msg.Object).To(Equal("nick1"))
	})

	It("falls back to a generic string for non-Entry objects", func() {
		Expect(b.Attach("users")).To(Succeed())

		_, err := bus.Event("users", watch.EventDestroy, 42, nil)
		Expect(err).NotTo(HaveOccurred())

		var msg watchbridge.Message
		Expect(json.Unmarshal(pub.payloads[0], &msg)).To(Succeed())
		Expect(msg.Object).To(Equal("42"))
	})

	It("rejects attaching the same table twice", func() {
		Expect(b.Attach("users")).To(Succeed())
		Expect(b.Attach("users")).To(HaveOccurred())
	})

	It("stops mirroring once detached", func() {
		Expect(b.Attach("users")).To(Succeed())
		Expect(b.Detach("users")).To(Succeed())

		entry := &stubEntry{name: "nick1"}
		_, err := bus.Event("users", watch.EventCreate, entry, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(pub.subjects).To(BeEmpty())
	})

	It("rejects detaching a table that was never attached", func() {
		Expect(b.Detach("users")).To(HaveOccurred())
	})

	It("does not panic on Close when built without a real connection", func() {
		Expect(func() { b.Close() }).NotTo(Panic())
	})
})
