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

// Package config loads the handful of typed tunables this core exposes to
// its embedder: Event Engine backend preference and fd budget, the
// IPCHECK_* thresholds, and a server's numnick identity. It does not parse
// IRC configuration file grammar.
package config

// EngineConfig controls Event Engine startup.
type EngineConfig struct {
	// BackendOrder lists backend names, each one of kqueue, devpoll, epoll,
	// poll or select; any other name fails validation. event.New does not
	// read it and always tries the backends in that fixed order.
	BackendOrder []string `mapstructure:"backendOrder" validate:"omitempty,dive,oneof=kqueue devpoll epoll poll select"`

	// MaxFDs bounds how many descriptors the engine will track.
	MaxFDs int `mapstructure:"maxFds" validate:"required,gt=0"`
}

// IPCheckConfig mirrors spec §4.6.2-3's IPCHECK_* and free-target tunables.
// Every duration field is in whole seconds, matching the teacher's own
// preference for plain-integer viper keys over `time.Duration` strings.
type IPCheckConfig struct {
	CloneLimit    int `mapstructure:"cloneLimit" validate:"required,gt=0"`
	ClonePeriod   int `mapstructure:"clonePeriod" validate:"required,gt=0"`
	Clone48Limit  int `mapstructure:"clone48Limit" validate:"required,gt=0"`
	Clone48Period int `mapstructure:"clone48Period" validate:"required,gt=0"`
	CloneDelay    int `mapstructure:"cloneDelay" validate:"gte=0"`
	StartTargets  int `mapstructure:"startTargets" validate:"required,gt=0"`
	TargetDelay   int `mapstructure:"targetDelay" validate:"required,gt=0"`
}

// NumnickConfig is a server's own identity and capacity for client numnick
// allocation.
type NumnickConfig struct {
	// YY is exactly two characters from the numnick base64 alphabet.
	YY string `mapstructure:"yy" validate:"required,len=2,b64nn"`

	// MaxClients is rounded up to a power of two by numnick itself.
	MaxClients int `mapstructure:"maxClients" validate:"required,gt=0"`
}

// Config is the complete set of tunables this module loads.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine" validate:"required"`
	IPCheck IPCheckConfig `mapstructure:"ipcheck" validate:"required"`
	Numnick NumnickConfig `mapstructure:"numnick" validate:"required"`
}

// DefaultConfig returns the spec's documented defaults for every threshold
// the embedder does not override.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			BackendOrder: []string{"kqueue", "devpoll", "epoll", "poll", "select"},
			MaxFDs:       4096,
		},
		IPCheck: IPCheckConfig{
			CloneLimit:    4,
			ClonePeriod:   40,
			Clone48Limit:  4,
			Clone48Period: 40,
			CloneDelay:    15,
			StartTargets:  10,
			TargetDelay:   10,
		},
		Numnick: NumnickConfig{
			MaxClients: 4096,
		},
	}
}
