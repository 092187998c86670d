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

package registry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ircd-core/registry"
)

type stubEntry struct {
	name  string
	magic uint32
}

func (s *stubEntry) Name() string  { return s.name }
func (s *stubEntry) Magic() uint32 { return s.magic }

var _ = Describe("Registry", func() {
	var r registry.Registry

	BeforeEach(func() {
		r = registry.New()
	})

	It("rejects operations against an unknown table", func() {
		Expect(r.Register("nope", &stubEntry{name: "a", magic: 1})).To(HaveOccurred())
		Expect(r.Find("nope", "a")).To(BeNil())
		Expect(r.Iter("nope", func(registry.Entry) bool { return true })).To(HaveOccurred())
	})

	It("registers and finds an entry whose magic matches the table", func() {
		Expect(r.NewTable("clients", 42, nil, nil)).To(Succeed())
		Expect(r.Register("clients", &stubEntry{name: "alice", magic: 42})).To(Succeed())

		found := r.Find("clients", "alice")
		Expect(found).NotTo(BeNil())
		Expect(found.Name()).To(Equal("alice"))
	})

	It("rejects a mismatched magic word", func() {
		Expect(r.NewTable("clients", 42, nil, nil)).To(Succeed())
		err := r.Register("clients", &stubEntry{name: "alice", magic: 7})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a duplicate name", func() {
		Expect(r.NewTable("clients", 42, nil, nil)).To(Succeed())
		Expect(r.Register("clients", &stubEntry{name: "alice", magic: 42})).To(Succeed())
		err := r.Register("clients", &stubEntry{name: "alice", magic: 42})
		Expect(err).To(HaveOccurred())
	})

	It("moves a found entry one step toward the head", func() {
		Expect(r.NewTable("clients", 42, nil, nil)).To(Succeed())
		Expect(r.Register("clients", &stubEntry{name: "a", magic: 42})).To(Succeed())
		Expect(r.Register("clients", &stubEntry{name: "b", magic: 42})).To(Succeed())
		Expect(r.Register("clients", &stubEntry{name: "c", magic: 42})).To(Succeed())

		var order []string
		walk := func(e registry.Entry) bool {
			order = append(order, e.Name())
			return true
		}

		Expect(r.Iter("clients", walk)).To(Succeed())
		Expect(order).To(Equal([]string{"a", "b", "c"}))

		r.Find("clients", "c")

		order = nil
		Expect(r.Iter("clients", walk)).To(Succeed())
		Expect(order).To(Equal([]string{"a", "c", "b"}))
	})

	It("stops RegisterN at the first failure without rolling back earlier successes", func() {
		Expect(r.NewTable("clients", 42, nil, nil)).To(Succeed())

		entries := []registry.Entry{
			&stubEntry{name: "a", magic: 42},
			&stubEntry{name: "a", magic: 42},
			&stubEntry{name: "b", magic: 42},
		}

		n, err := r.RegisterN("clients", entries)
		Expect(err).To(HaveOccurred())
		Expect(n).To(Equal(1))

		Expect(r.Find("clients", "a")).NotTo(BeNil())
		Expect(r.Find("clients", "b")).To(BeNil())
	})

	It("invokes onReg on registration and onUnreg on unregistration", func() {
		var registered, unregistered []string

		onReg := func(table string, e registry.Entry) error {
			registered = append(registered, e.Name())
			return nil
		}
		onUnreg := func(table string, e registry.Entry) error {
			unregistered = append(unregistered, e.Name())
			return nil
		}

		Expect(r.NewTable("clients", 42, onReg, onUnreg)).To(Succeed())

		e := &stubEntry{name: "a", magic: 42}
		Expect(r.Register("clients", e)).To(Succeed())
		Expect(registered).To(Equal([]string{"a"}))

		Expect(r.Unregister("clients", e)).To(Succeed())
		Expect(unregistered).To(Equal([]string{"a"}))
		Expect(r.Find("clients", "a")).To(BeNil())
	})

	It("lists every registered table through the self-describing tables pseudo-table", func() {
		Expect(r.NewTable("clients", 42, nil, nil)).To(Succeed())
		Expect(r.NewTable("channels", 7, nil, nil)).To(Succeed())

		var names []string
		err := r.Iter("tables", func(e registry.Entry) bool {
			names = append(names, e.Name())
			return true
		})
		Expect(err).To(Succeed())
		Expect(names).To(ConsistOf("clients", "channels"))
	})

	It("flushes every entry through onUnreg when a table is dropped", func() {
		var unregistered []string
		onUnreg := func(table string, e registry.Entry) error {
			unregistered = append(unregistered, e.Name())
			return nil
		}

		Expect(r.NewTable("clients", 42, nil, onUnreg)).To(Succeed())
		Expect(r.Register("clients", &stubEntry{name: "a", magic: 42})).To(Succeed())
		Expect(r.Register("clients", &stubEntry{name: "b", magic: 42})).To(Succeed())

		Expect(r.DropTable("clients")).To(Succeed())
		Expect(unregistered).To(ConsistOf("a", "b"))

		Expect(r.Register("clients", &stubEntry{name: "a", magic: 42})).To(HaveOccurred())

		var names []string
		Expect(r.Iter("tables", func(e registry.Entry) bool {
			names = append(names, e.Name())
			return true
		})).To(Succeed())
		Expect(names).NotTo(ContainElement("clients"))
	})
})
