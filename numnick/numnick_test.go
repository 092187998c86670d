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

package numnick_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/sabouaram/ircd-core/errors"
	"github.com/sabouaram/ircd-core/numnick"
)

var _ = Describe("Base64 alphabet", func() {
	It("round-trips values sampled across widths 2, 3 and 5", func() {
		for _, width := range []int{2, 3, 5} {
			max := uint(1)
			for i := 0; i < width; i++ {
				max *= 64
			}
			for v := uint(0); v < max; v += max / 17 {
				enc := numnick.EncodeBase64(v, width)
				dec, err := numnick.DecodeBase64(enc)
				Expect(err).NotTo(HaveOccurred())
				Expect(dec).To(Equal(v))
			}
		}
	})

	It("rejects a character outside the alphabet", func() {
		_, err := numnick.DecodeBase64("!!")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Server numeric space", func() {
	var table *numnick.Table

	BeforeEach(func() {
		table = numnick.New(nil, nil)
	})

	It("rounds max-clients up to a power-of-two-minus-one mask", func() {
		s, err := table.SetServerNumeric("AB", 2, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Mask()).To(Equal(uint(3)))
	})

	It("rejects a duplicate server numeric", func() {
		_, err := table.SetServerNumeric("AB", 2, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = table.SetServerNumeric("AB", 2, nil)
		Expect(err).To(HaveOccurred())
	})

	It("allocates local numnicks from the rolling cursor and exhausts cleanly", func() {
		s, err := table.SetServerNumeric("AB", 2, nil)
		Expect(err).NotTo(HaveOccurred())

		var ids []string
		for i := 0; i < 4; i++ {
			id, err := s.AllocateLocal(i)
			Expect(err).NotTo(HaveOccurred())
			ids = append(ids, id)
		}
		Expect(ids).To(HaveLen(4))

		_, err = s.AllocateLocal(99)
		Expect(err).To(HaveOccurred())
		Expect(err.(liberr.Error).IsCode(numnick.ErrTableFull)).To(BeTrue())
	})

	It("reuses a released slot instead of growing", func() {
		s, err := table.SetServerNumeric("AB", 2, nil)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 4; i++ {
			_, err := s.AllocateLocal(i)
			Expect(err).NotTo(HaveOccurred())
		}

		first, err := s.AllocateLocal(99)
		Expect(err).To(HaveOccurred())
		Expect(first).To(BeEmpty())

		Expect(s.Release(numnick.EncodeBase64(1, 3))).To(Succeed())

		id, err := s.AllocateLocal("reused")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("AB" + numnick.EncodeBase64(1, 3)))
	})

	It("evicts the prior occupant unconditionally on a remote bind collision", func() {
		var evicted interface{}
		var reason string
		s, err := table.SetServerNumeric("CD", 2, func(occupant interface{}, r string) {
			evicted = occupant
			reason = r
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(s.BindRemote(numnick.EncodeBase64(2, 3), "first")).To(Succeed())
		Expect(s.BindRemote(numnick.EncodeBase64(2, 3), "second")).To(Succeed())

		Expect(evicted).To(Equal("first"))
		Expect(reason).To(Equal(numnick.ReasonProtocolViolation))
	})

	It("looks clients up by their full YYXXX and servers up by YY alone", func() {
		s, err := table.SetServerNumeric("AB", 2, nil)
		Expect(err).NotTo(HaveOccurred())

		id, err := s.AllocateLocal("client-zero")
		Expect(err).NotTo(HaveOccurred())

		found, err := table.LookupByID(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(Equal("client-zero"))

		srv, err := table.LookupByID("AB")
		Expect(err).NotTo(HaveOccurred())
		Expect(srv).To(Equal(s))
	})

	It("looks servers up by the legacy 3-char single-digit form", func() {
		s, err := table.SetServerNumeric("AB", 2, nil)
		Expect(err).NotTo(HaveOccurred())

		// "AB" decodes to value 1 (A=0, B=1); the legacy form addresses
		// it with the single digit "B" padded out to 3 characters.
		srv, err := table.LookupByID(numnick.EncodeBase64(1, 1) + "xx")
		Expect(err).NotTo(HaveOccurred())
		Expect(srv).To(Equal(s))
	})

	It("rejects a numnick of the wrong length", func() {
		_, err := table.SetServerNumeric("AB", 2, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = table.LookupByID("ABCD")
		Expect(err).To(HaveOccurred())
	})
})
