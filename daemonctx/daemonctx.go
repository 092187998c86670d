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

// Package daemonctx replaces the original core's module-level singletons
// (event-engine state, ip-registry hash tables, numnick server array) with
// one explicit struct, allocated once at startup and passed by reference
// into every call that used to reach for a global.
package daemonctx

import (
	"context"
	"time"

	uuid "github.com/hashicorp/go-uuid"

	"github.com/sabouaram/ircd-core/ancillary"
	libctx "github.com/sabouaram/ircd-core/context"
	"github.com/sabouaram/ircd-core/config"
	"github.com/sabouaram/ircd-core/event"
	"github.com/sabouaram/ircd-core/ipcheck"
	"github.com/sabouaram/ircd-core/logger"
	"github.com/sabouaram/ircd-core/metrics"
	"github.com/sabouaram/ircd-core/numnick"
	"github.com/sabouaram/ircd-core/registry"
	"github.com/sabouaram/ircd-core/watch"
)

type slot string

const (
	slotEngine    slot = "event"
	slotRegistry  slot = "registry"
	slotAncillary slot = "ancillary"
	slotWatch     slot = "watch"
	slotNumnick   slot = "numnick"
	slotIPCheck   slot = "ipcheck"
	slotLogger    slot = "logger"
	slotMetrics   slot = "metrics"
)

// Context bundles every subsystem this core exposes. It holds its slots in
// this module's generic context slot map (a sync.Map behind
// libctx.Config) rather than plain struct fields, adapted from the map
// `nabbar-golib/context` uses to hold an arbitrary set of named
// components to a fixed set of eight.
type Context struct {
	slots libctx.Config[slot]

	InstanceID string
	StartedAt  time.Time
}

// New allocates a fresh daemon context: it selects an event backend, wires
// Registry/Ancillary/Watch on top of it, loads the server's own numnick
// identity from cfg, and anchors the IPcheck registry's grace-delay clock
// to this context's start time.
func New(cfg *config.Config, log logger.Logger, parent context.Context) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	m := metrics.New("ircd")

	eng, err := event.New(cfg.Engine.MaxFDs, log, m)
	if err != nil {
		return nil, err
	}

	reg := registry.New()

	anc, err := ancillary.NewStore(reg)
	if err != nil {
		return nil, err
	}

	bus, err := watch.NewBus(reg)
	if err != nil {
		return nil, err
	}

	nn := numnick.New(log, m)
	if _, err := nn.SetServerNumeric(cfg.Numnick.YY, uint(cfg.Numnick.MaxClients), nil); err != nil {
		return nil, err
	}

	started := time.Now()
	ip := ipcheck.New(ipcheck.FromConfig(cfg.IPCheck), started, log, m)

	d := &Context{
		slots:      libctx.New[slot](parent),
		InstanceID: id,
		StartedAt:  started,
	}

	d.slots.Store(slotEngine, eng)
	d.slots.Store(slotRegistry, reg)
	d.slots.Store(slotAncillary, anc)
	d.slots.Store(slotWatch, bus)
	d.slots.Store(slotNumnick, nn)
	d.slots.Store(slotIPCheck, ip)
	d.slots.Store(slotLogger, log)
	d.slots.Store(slotMetrics, m)

	if log != nil {
		log.Info("daemon context initialized", logger.NewFields().
			Add("instance_id", id).
			Add("backend", eng.Name()))
	}

	return d, nil
}

func (d *Context) Engine() *event.Engine {
	v, _ := d.slots.Load(slotEngine)
	e, _ := v.(*event.Engine)
	return e
}

func (d *Context) Registry() registry.Registry {
	v, _ := d.slots.Load(slotRegistry)
	r, _ := v.(registry.Registry)
	return r
}

func (d *Context) Ancillary() *ancillary.Store {
	v, _ := d.slots.Load(slotAncillary)
	a, _ := v.(*ancillary.Store)
	return a
}

func (d *Context) Watch() *watch.Bus {
	v, _ := d.slots.Load(slotWatch)
	b, _ := v.(*watch.Bus)
	return b
}

func (d *Context) Numnick() *numnick.Table {
	v, _ := d.slots.Load(slotNumnick)
	n, _ := v.(*numnick.Table)
	return n
}

func (d *Context) IPCheck() *ipcheck.Registry {
	v, _ := d.slots.Load(slotIPCheck)
	i, _ := v.(*ipcheck.Registry)
	return i
}

func (d *Context) Logger() logger.Logger {
	v, _ := d.slots.Load(slotLogger)
	l, _ := v.(logger.Logger)
	return l
}

func (d *Context) Metrics() *metrics.Metrics {
	v, _ := d.slots.Load(slotMetrics)
	mt, _ := v.(*metrics.Metrics)
	return mt
}

// Shutdown stops the event loop and releases every slot.
func (d *Context) Shutdown() {
	if e := d.Engine(); e != nil {
		e.Shutdown()
	}
	d.slots.Clean()
}
