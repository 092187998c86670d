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

package ancillary_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ircd-core/ancillary"
	"github.com/sabouaram/ircd-core/registry"
)

type host struct {
	name string
	anc  ancillary.Data
}

var _ = Describe("Ancillary store", func() {
	var (
		reg   registry.Registry
		store *ancillary.Store
		users []*host
	)

	BeforeEach(func() {
		reg = registry.New()
		var err error
		store, err = ancillary.NewStore(reg)
		Expect(err).NotTo(HaveOccurred())
		users = nil
	})

	walkUsers := func(yield func(*ancillary.Data) bool) {
		for _, u := range users {
			if !yield(&u.anc) {
				return
			}
		}
	}

	It("rejects a nil destructor", func() {
		m, err := store.BindModule("user", walkUsers)
		Expect(err).NotTo(HaveOccurred())

		_, err = m.CreateKey(nil)
		Expect(err).To(HaveOccurred())
	})

	It("rejects binding the same module name twice", func() {
		_, err := store.BindModule("user", walkUsers)
		Expect(err).NotTo(HaveOccurred())

		_, err = store.BindModule("user", walkUsers)
		Expect(err).To(HaveOccurred())
	})

	It("stores and retrieves a value under a key", func() {
		m, err := store.BindModule("user", walkUsers)
		Expect(err).NotTo(HaveOccurred())

		key, err := m.CreateKey(func(interface{}) {})
		Expect(err).NotTo(HaveOccurred())

		u := &host{name: "alice"}
		users = append(users, u)

		m.Set(&u.anc, key, "hello")
		Expect(m.Get(&u.anc, key)).To(Equal("hello"))
	})

	It("runs the destructor when a value is overwritten", func() {
		m, err := store.BindModule("user", walkUsers)
		Expect(err).NotTo(HaveOccurred())

		var destroyed []interface{}
		key, err := m.CreateKey(func(v interface{}) {
			destroyed = append(destroyed, v)
		})
		Expect(err).NotTo(HaveOccurred())

		u := &host{name: "alice"}
		m.Set(&u.anc, key, "first")
		m.Set(&u.anc, key, "second")

		Expect(destroyed).To(Equal([]interface{}{"first"}))
		Expect(m.Get(&u.anc, key)).To(Equal("second"))
	})

	It("walks every object of a module and runs the destructor when a key is destroyed", func() {
		m, err := store.BindModule("user", walkUsers)
		Expect(err).NotTo(HaveOccurred())

		var destroyed []interface{}
		key, err := m.CreateKey(func(v interface{}) {
			destroyed = append(destroyed, v)
		})
		Expect(err).NotTo(HaveOccurred())

		a := &host{name: "alice"}
		b := &host{name: "bob"}
		users = append(users, a, b)

		m.Set(&a.anc, key, "a-value")
		m.Set(&b.anc, key, "b-value")

		Expect(m.DestroyKey(key)).To(Succeed())
		Expect(destroyed).To(ConsistOf("a-value", "b-value"))

		Expect(m.Get(&a.anc, key)).To(BeNil())
	})

	It("flushes every stored value on an object being destroyed", func() {
		m, err := store.BindModule("user", walkUsers)
		Expect(err).NotTo(HaveOccurred())

		var destroyed []interface{}
		k1, _ := m.CreateKey(func(v interface{}) { destroyed = append(destroyed, v) })
		k2, _ := m.CreateKey(func(v interface{}) { destroyed = append(destroyed, v) })

		u := &host{name: "alice"}
		m.Set(&u.anc, k1, "one")
		m.Set(&u.anc, k2, "two")

		m.Flush(&u.anc)

		Expect(destroyed).To(ConsistOf("one", "two"))
		Expect(m.Get(&u.anc, k1)).To(BeNil())
		Expect(m.Get(&u.anc, k2)).To(BeNil())
	})
})
