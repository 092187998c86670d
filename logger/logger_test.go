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
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ircd-core/logger"
)

var _ = Describe("Logger", func() {
	It("rejects an invalid level in Options", func() {
		_, e := logger.New(logger.Options{Level: "not-a-level"})
		Expect(e).To(HaveOccurred())
	})

	It("builds with a valid level and logs without panicking", func() {
		l, e := logger.New(logger.Options{Level: "debug", DisableColor: true})
		Expect(e).NotTo(HaveOccurred())

		l.SetLevel(logger.DebugLevel)
		Expect(l.GetLevel()).To(Equal(logger.DebugLevel))

		l.AddField("component", "test")
		l.Info("hello", logger.NewFields().Add("n", 1))

		Expect(l.Close()).NotTo(HaveOccurred())
	})

	It("attaches a file hook that appends JSON lines", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.log")

		l, e := logger.New(logger.Options{Level: "info", DisableColor: true})
		Expect(e).NotTo(HaveOccurred())

		Expect(logger.AddHookFile(l, logger.OptionsFile{
			Filepath: path,
			Create:   true,
		})).NotTo(HaveOccurred())

		l.Warn("disk is getting full", nil)

		b, e := os.ReadFile(path)
		Expect(e).NotTo(HaveOccurred())
		Expect(string(b)).To(ContainSubstring("disk is getting full"))
	})
})
