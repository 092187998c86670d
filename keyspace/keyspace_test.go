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

package keyspace_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ircd-core/keyspace"
)

var _ = Describe("Keyspace", func() {
	It("reserves ascending keys starting at zero", func() {
		s := keyspace.New(16, 0, nil)

		a, err := s.Reserve()
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(keyspace.Key(0)))

		b, err := s.Reserve()
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(keyspace.Key(1)))

		Expect(s.Count()).To(Equal(uint(2)))
		Expect(s.Highest()).To(Equal(keyspace.Key(1)))
	})

	It("reuses a released key before growing further", func() {
		s := keyspace.New(16, 0, nil)

		a, _ := s.Reserve()
		_, _ = s.Reserve()
		s.Release(a)

		c, err := s.Reserve()
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(a))
	})

	It("returns Invalid once the configured maximum is reached", func() {
		s := keyspace.New(2, 0, nil)

		_, err := s.Reserve()
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Reserve()
		Expect(err).NotTo(HaveOccurred())

		key, err := s.Reserve()
		Expect(err).To(HaveOccurred())
		Expect(key).To(Equal(keyspace.Invalid))
	})

	It("calls the grow hook only when the external size watermark advances", func() {
		var sizes []uint
		s := keyspace.New(16, 4, func(newSize uint) error {
			sizes = append(sizes, newSize)
			return nil
		})

		for i := 0; i < 5; i++ {
			_, err := s.Reserve()
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(sizes).To(Equal([]uint{4, 8}))
	})

	It("never double-allocates across a mixed reserve/release sequence", func() {
		s := keyspace.New(8, 0, nil)
		held := map[keyspace.Key]bool{}

		ops := []bool{true, true, true, false, true, false, true, true}
		for _, doReserve := range ops {
			if doReserve {
				k, err := s.Reserve()
				if err != nil {
					continue
				}
				Expect(held[k]).To(BeFalse())
				held[k] = true
			} else {
				for k := range held {
					s.Release(k)
					delete(held, k)
					break
				}
			}
		}
	})

	It("resets count and the highest watermark on Clean", func() {
		s := keyspace.New(16, 0, nil)
		_, _ = s.Reserve()
		_, _ = s.Reserve()

		s.Clean()

		Expect(s.Count()).To(Equal(uint(0)))
		Expect(s.Highest()).To(Equal(keyspace.Invalid))

		k, err := s.Reserve()
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(keyspace.Key(0)))
	})
})
