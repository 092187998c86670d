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

package config

import (
	"strings"

	libval "github.com/go-playground/validator/v10"
	spfvpr "github.com/spf13/viper"

	liberr "github.com/sabouaram/ircd-core/errors"
	"github.com/sabouaram/ircd-core/numnick"
)

var (
	ErrMissingKey    = liberr.NewCodeError(liberr.MinPkgConfig + 1)
	ErrConfigInvalid = liberr.NewCodeError(liberr.MinPkgConfig + 2)
)

// validate carries the "b64nn" rule (every byte a member of the numnick
// base64 alphabet) alongside the struct tags validator.New() already
// understands, so it is built once rather than per call.
var validate = newValidator()

func newValidator() *libval.Validate {
	v := libval.New()
	_ = v.RegisterValidation("b64nn", validateB64NN)
	return v
}

func validateB64NN(fl libval.FieldLevel) bool {
	s := fl.Field().String()
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(numnick.Alphabet, rune(s[i])) {
			return false
		}
	}
	return true
}

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgConfig, func(code liberr.CodeError) string {
		switch code {
		case ErrMissingKey:
			return "missing configuration key"
		case ErrConfigInvalid:
			return "configuration failed validation"
		default:
			return liberr.UnknownMessage
		}
	})
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

// New returns a viper instance pre-bound to this package's environment
// variable prefix, matching the teacher's convention of one viper per
// config root rather than a shared global.
func New(envPrefix string) *spfvpr.Viper {
	v := spfvpr.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads Config out of v under key (e.g. "ircd"), starting from
// DefaultConfig and letting v override any field it has set, then
// validates the result.
func Load(v *spfvpr.Viper, key string) (*Config, error) {
	cfg := DefaultConfig()

	if v != nil && v.IsSet(key) {
		if e := v.UnmarshalKey(key, &cfg); e != nil {
			return nil, ErrConfigInvalid.Error(e)
		}
	}

	if e := cfg.Validate(); e != nil {
		return nil, ErrConfigInvalid.Error(e)
	}

	return &cfg, nil
}
