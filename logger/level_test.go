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

package logger_test

import (
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ircd-core/logger"
)

var _ = Describe("Level", func() {
	It("parses a string back to its level", func() {
		Expect(logger.GetLevelString("debug")).To(Equal(logger.DebugLevel))
		Expect(logger.GetLevelString("warning")).To(Equal(logger.WarnLevel))
		Expect(logger.GetLevelString("bogus")).To(Equal(logger.InfoLevel))
	})

	It("maps onto the equivalent logrus level", func() {
		Expect(logger.DebugLevel.Logrus()).To(Equal(logrus.DebugLevel))
		Expect(logger.ErrorLevel.Logrus()).To(Equal(logrus.ErrorLevel))
	})

	It("renders NilLevel as an empty name", func() {
		Expect(logger.NilLevel.String()).To(BeEmpty())
	})
})

var _ = Describe("Fields", func() {
	It("does not mutate the receiver on Add", func() {
		base := logger.NewFields().Add("a", 1)
		next := base.Add("b", 2)

		Expect(base).To(HaveLen(1))
		Expect(next).To(HaveLen(2))
	})

	It("merges with the other map taking precedence", func() {
		base := logger.NewFields().Add("a", 1)
		over := logger.NewFields().Add("a", 2).Add("b", 3)

		merged := base.Merge(over)

		Expect(merged["a"]).To(Equal(2))
		Expect(merged["b"]).To(Equal(3))
	})

	It("removes the given keys on Clean", func() {
		base := logger.NewFields().Add("a", 1).Add("b", 2)
		cleaned := base.Clean("a")

		Expect(cleaned).NotTo(HaveKey("a"))
		Expect(cleaned).To(HaveKey("b"))
	})
})
