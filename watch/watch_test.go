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

package watch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ircd-core/registry"
	"github.com/sabouaram/ircd-core/watch"
)

var _ = Describe("Watch bus", func() {
	var (
		bus *watch.Bus
	)

	BeforeEach(func() {
		reg := registry.New()
		var err error
		bus, err = watch.NewBus(reg)
		Expect(err).NotTo(HaveOccurred())

		_, err = bus.NewTable("users")
		Expect(err).NotTo(HaveOccurred())
	})

	It("dispatches in ascending priority order", func() {
		var order []string

		low := &watch.Watch{Priority: 50, Mask: 1 << watch.EventCreate, Callback: func(uint32, interface{}, interface{}) int {
			order = append(order, "low")
			return 0
		}}
		high := &watch.Watch{Priority: 5, Mask: 1 << watch.EventCreate, Callback: func(uint32, interface{}, interface{}) int {
			order = append(order, "high")
			return 0
		}}

		Expect(bus.Add("users", low)).To(Succeed())
		Expect(bus.Add("users", high)).To(Succeed())

		rc, err := bus.Event("users", watch.EventCreate, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(rc).To(Equal(0))
		Expect(order).To(Equal([]string{"high", "low"}))
	})

	It("clamps an out-of-range priority to MaxPriority", func() {
		w := &watch.Watch{Priority: 999999, Mask: 1}
		Expect(bus.Add("users", w)).To(Succeed())
		Expect(w.Priority).To(Equal(watch.MaxPriority))
	})

	It("only fires callbacks whose mask contains the event", func() {
		fired := false
		w := &watch.Watch{Priority: 0, Mask: 1 << watch.EventDestroy, Callback: func(uint32, interface{}, interface{}) int {
			fired = true
			return 0
		}}
		Expect(bus.Add("users", w)).To(Succeed())

		_, err := bus.Event("users", watch.EventCreate, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(fired).To(BeFalse())
	})

	It("stops dispatch at the first non-zero return and propagates it", func() {
		var secondCalled bool

		first := &watch.Watch{Priority: 0, Mask: 1, Callback: func(uint32, interface{}, interface{}) int {
			return 7
		}}
		second := &watch.Watch{Priority: 1, Mask: 1, Callback: func(uint32, interface{}, interface{}) int {
			secondCalled = true
			return 0
		}}

		Expect(bus.Add("users", first)).To(Succeed())
		Expect(bus.Add("users", second)).To(Succeed())

		rc, err := bus.Event("users", watch.EventCreate, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(rc).To(Equal(7))
		Expect(secondCalled).To(BeFalse())
	})

	It("lets a callback detach itself mid-dispatch without corrupting the walk", func() {
		var order []string

		var self *watch.Watch
		self = &watch.Watch{Priority: 0, Mask: 1, Callback: func(uint32, interface{}, interface{}) int {
			order = append(order, "self")
			_ = bus.Remove("users", self)
			return 0
		}}
		other := &watch.Watch{Priority: 1, Mask: 1, Callback: func(uint32, interface{}, interface{}) int {
			order = append(order, "other")
			return 0
		}}

		Expect(bus.Add("users", self)).To(Succeed())
		Expect(bus.Add("users", other)).To(Succeed())

		_, err := bus.Event("users", watch.EventCreate, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(order).To(Equal([]string{"self", "other"}))
	})

	It("detaches every watch on Flush", func() {
		fired := false
		w := &watch.Watch{Priority: 0, Mask: 1, Callback: func(uint32, interface{}, interface{}) int {
			fired = true
			return 0
		}}
		Expect(bus.Add("users", w)).To(Succeed())

		Expect(bus.Flush("users")).To(Succeed())

		rc, err := bus.Event("users", watch.EventCreate, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(rc).To(Equal(0))
		Expect(fired).To(BeFalse())
	})

	It("rejects removing a watch from a table it was not added to", func() {
		_, err := bus.NewTable("channels")
		Expect(err).NotTo(HaveOccurred())

		w := &watch.Watch{Priority: 0, Mask: 1}
		Expect(bus.Add("users", w)).To(Succeed())

		err = bus.Remove("channels", w)
		Expect(err).To(HaveOccurred())
	})
})
