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

// Package ipcheck implements the daemon's per-address connection throttle:
// a primary registry keyed by canonicalized address, an IPv6-only /48
// aggregate registry for subnet-wide throttling, and the free-target
// credit record donated back into an address entry at disconnect.
//
// Like numnick, this package assumes the single-threaded cooperative
// scheduling model and does no internal locking.
package ipcheck

import (
	"net/netip"
	"time"

	"github.com/sabouaram/ircd-core/config"
	"github.com/sabouaram/ircd-core/logger"
	"github.com/sabouaram/ircd-core/metrics"
)

// Decision is the outcome of a connect check.
type Decision uint8

const (
	Accept Decision = iota
	Reject
)

// Config holds the tunable thresholds of spec §4.6.2-3.
type Config struct {
	CloneLimit    uint32
	ClonePeriod   time.Duration
	Clone48Limit  uint32
	Clone48Period time.Duration
	CloneDelay    time.Duration
	StartTargets  uint8
	TargetDelay   time.Duration
}

// DefaultConfig returns the thresholds named in spec §4.6.2-3. TargetDelay
// has no stated default anywhere in the retrieved spec or source; 10s is
// chosen in the same range as this package's other timers.
func DefaultConfig() Config {
	return Config{
		CloneLimit:    4,
		ClonePeriod:   40 * time.Second,
		Clone48Limit:  4,
		Clone48Period: 40 * time.Second,
		CloneDelay:    15 * time.Second,
		StartTargets:  10,
		TargetDelay:   10 * time.Second,
	}
}

// FromConfig converts the loaded configuration's seconds-based fields into
// a Config of time.Duration thresholds.
func FromConfig(c config.IPCheckConfig) Config {
	return Config{
		CloneLimit:    uint32(c.CloneLimit),
		ClonePeriod:   time.Duration(c.ClonePeriod) * time.Second,
		Clone48Limit:  uint32(c.Clone48Limit),
		Clone48Period: time.Duration(c.Clone48Period) * time.Second,
		CloneDelay:    time.Duration(c.CloneDelay) * time.Second,
		StartTargets:  uint8(c.StartTargets),
		TargetDelay:   time.Duration(c.TargetDelay) * time.Second,
	}
}

// TargetRecord is the shared per-address free-target credit of spec
// §4.6.3: a small ring of recently targeted identifiers plus a decaying
// count of how many fresh targets remain available.
type TargetRecord struct {
	Ring  [8]byte
	Count uint8
}

func (t *TargetRecord) foldMin(other *TargetRecord) {
	if other.Count < t.Count {
		t.Count = other.Count
	}
	for i := range t.Ring {
		if other.Ring[i] < t.Ring[i] {
			t.Ring[i] = other.Ring[i]
		}
	}
}

type entry struct {
	addr         netip.Addr
	lastConnect  time.Time
	lastActivity time.Time
	connected    uint32
	attempts     uint32
	targets      *TargetRecord
}

type entry48 struct {
	prefix      netip.Addr
	lastConnect time.Time
	attempts    uint32
}

// Registry is the daemon's complete IPcheck state: the primary address
// registry and the IPv6 /48 aggregate registry.
type Registry struct {
	cfg     Config
	started time.Time

	primary map[netip.Addr]*entry
	agg48   map[netip.Addr]*entry48

	log     logger.Logger
	metrics *metrics.Metrics
}

// New returns an empty registry, anchoring uptime at `started` (the
// engine's own start time, so CloneDelay's grace period is measured from
// daemon boot, not from the registry's first use).
func New(cfg Config, started time.Time, log logger.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		cfg:     cfg,
		started: started,
		primary: make(map[netip.Addr]*entry),
		agg48:   make(map[netip.Addr]*entry48),
		log:     log,
		metrics: m,
	}
}

// Canonicalize maps a raw address to its registry key: an IPv4 address is
// embedded as a 6to4 address, an IPv6 address is truncated to its /64.
func Canonicalize(addr netip.Addr) netip.Addr {
	addr = addr.Unmap()
	if addr.Is4() {
		return sixToFour(addr)
	}
	return netip.PrefixFrom(addr, 64).Masked().Addr()
}

func sixToFour(v4 netip.Addr) netip.Addr {
	b := v4.As4()
	var out [16]byte
	out[0], out[1] = 0x20, 0x02
	copy(out[2:6], b[:])
	return netip.AddrFrom16(out)
}

func prefix48(addr netip.Addr) netip.Addr {
	return netip.PrefixFrom(addr, 48).Masked().Addr()
}

func satIncr32(v uint32) uint32 {
	if v == ^uint32(0) {
		return v
	}
	return v + 1
}

// LocalConnectCheck runs the local-connect decision of spec §4.6.2 and
// returns the accept/reject verdict plus how long until a fresh free
// target becomes available for this address.
func (r *Registry) LocalConnectCheck(raw netip.Addr, now time.Time) (Decision, time.Duration, error) {
	addr := raw.Unmap()

	if addr.Is6() {
		if rejected := r.update48(addr, now); rejected {
			key := Canonicalize(raw)
			if e, ok := r.primary[key]; ok && e.connected > 0 {
				e.connected--
			}
			r.countReject()
			return Reject, 0, nil
		}
	}

	key := Canonicalize(raw)
	e, ok := r.primary[key]
	if !ok {
		r.primary[key] = &entry{
			addr:         key,
			attempts:     1,
			connected:    1,
			lastConnect:  now,
			lastActivity: now,
		}
		r.countAccept()
		return Accept, 0, nil
	}

	e.lastActivity = now

	if e.connected == ^uint32(0) {
		r.countReject()
		return Reject, e.nextFreeTarget(now, r.cfg), nil
	}
	e.connected++

	if now.Sub(e.lastConnect) > r.cfg.ClonePeriod {
		e.attempts = 0
	}

	nextFree := e.nextFreeTarget(now, r.cfg)
	r.decayTargets(e, now)

	e.lastConnect = now
	e.attempts = satIncr32(e.attempts)

	if e.attempts < r.cfg.CloneLimit {
		r.countAccept()
		return Accept, nextFree, nil
	}

	if now.Sub(r.started) > r.cfg.CloneDelay {
		e.connected--
		r.countReject()
		return Reject, nextFree, nil
	}

	r.countAccept()
	return Accept, nextFree, nil
}

// RemoteConnectCheck runs the remote-connect decision of spec §4.6.2:
// the same bookkeeping as the local path, but only a connected-counter
// overflow can reject — the remote server is trusted to apply its own
// clone-limit policy.
func (r *Registry) RemoteConnectCheck(raw netip.Addr, now time.Time) (Decision, error) {
	addr := raw.Unmap()

	if addr.Is6() {
		r.update48(addr, now)
	}

	key := Canonicalize(raw)
	e, ok := r.primary[key]
	if !ok {
		r.primary[key] = &entry{
			addr:         key,
			attempts:     1,
			connected:    1,
			lastConnect:  now,
			lastActivity: now,
		}
		r.countAccept()
		return Accept, nil
	}

	e.lastActivity = now

	if e.connected == ^uint32(0) {
		r.countReject()
		return Reject, nil
	}
	e.connected++

	if now.Sub(e.lastConnect) > r.cfg.ClonePeriod {
		e.attempts = 0
	}

	r.decayTargets(e, now)
	e.lastConnect = now
	e.attempts = satIncr32(e.attempts)

	r.countAccept()
	return Accept, nil
}

// update48 folds one connection attempt into the IPv6 /48 aggregate and
// reports whether that aggregate has now crossed its own clone limit.
func (r *Registry) update48(addr netip.Addr, now time.Time) bool {
	key := prefix48(addr)
	p, ok := r.agg48[key]
	if !ok {
		p = &entry48{prefix: key, lastConnect: now}
		r.agg48[key] = p
	}

	if now.Sub(p.lastConnect) > r.cfg.Clone48Period {
		p.attempts = 0
	}
	p.attempts = satIncr32(p.attempts)
	p.lastConnect = now

	return p.attempts >= r.cfg.Clone48Limit && now.Sub(r.started) > r.cfg.CloneDelay
}

// ConnectFailed rolls back a rejected connection's bookkeeping, per spec
// §4.6.2: attempts is decremented, saturating at zero (the unsigned
// decrement is undone if it would have gone negative, preserving the
// zero sentinel rather than wrapping), and connected is decremented if
// the caller had already counted the client as connected.
func (r *Registry) ConnectFailed(raw netip.Addr, wasConnected bool) {
	key := Canonicalize(raw)
	e, ok := r.primary[key]
	if !ok {
		return
	}

	if e.attempts > 0 {
		e.attempts--
	}

	if wasConnected && e.connected > 0 {
		e.connected--
	}
}

// ConnectSucceeded returns the free-target seed handed to a newly
// accepted client and logs a structured notice (spec §6.1, SPEC_FULL §14).
func (r *Registry) ConnectSucceeded(raw netip.Addr, now time.Time) (TargetRecord, error) {
	key := Canonicalize(raw)
	e, ok := r.primary[key]
	if !ok {
		return TargetRecord{}, ErrUnknownAddress.Error(nil)
	}

	r.decayTargets(e, now)

	var seed TargetRecord
	if e.targets != nil {
		seed = *e.targets
	} else {
		seed = TargetRecord{Count: r.cfg.StartTargets}
	}

	if r.log != nil {
		r.log.Info("ipcheck connect succeeded", logger.NewFields().
			Add("address", raw.String()).
			Add("seed_targets", seed.Count))
	}

	return seed, nil
}

// Disconnect folds a departing client's remaining target credit back
// into its address entry and updates the connected/attempts counters
// per spec §4.6.2.
func (r *Registry) Disconnect(raw netip.Addr, now time.Time, wasLocal bool, donated *TargetRecord) {
	key := Canonicalize(raw)
	e, ok := r.primary[key]
	if !ok {
		return
	}

	if e.connected > 0 {
		e.connected--
	}

	if e.connected == 0 && now.Sub(e.lastConnect) > time.Duration(r.cfg.CloneLimit)*r.cfg.ClonePeriod {
		e.attempts = 0
	}

	if wasLocal && donated != nil {
		if e.targets == nil {
			cp := *donated
			e.targets = &cp
		} else {
			e.targets.foldMin(donated)
		}
	}
}

// CountForAddress reports the currently connected count for an address,
// or zero if the address has no registry entry.
func (r *Registry) CountForAddress(raw netip.Addr) uint32 {
	e, ok := r.primary[Canonicalize(raw)]
	if !ok {
		return 0
	}
	return e.connected
}

// Sweep expires registry entries per spec §3.5: a target-credit record
// is freed after 120s idle, the whole entry is destroyed after 600s idle.
// Entries with connected > 0 are never swept.
func (r *Registry) Sweep(now time.Time) {
	for k, e := range r.primary {
		if e.connected > 0 {
			continue
		}
		idle := now.Sub(e.lastActivity)
		switch {
		case idle > 600*time.Second:
			delete(r.primary, k)
		case idle > 120*time.Second:
			e.targets = nil
		}
	}

	for k, p := range r.agg48 {
		if now.Sub(p.lastConnect) > 600*time.Second {
			delete(r.agg48, k)
		}
	}
}

func (r *Registry) decayTargets(e *entry, now time.Time) {
	if e.targets == nil || r.cfg.TargetDelay <= 0 {
		return
	}

	elapsed := now.Sub(e.lastConnect)
	if elapsed <= 0 {
		return
	}

	incr := uint32(elapsed / r.cfg.TargetDelay)
	if incr == 0 {
		return
	}

	if uint32(e.targets.Count)+incr >= uint32(r.cfg.StartTargets) {
		e.targets.Count = r.cfg.StartTargets
	} else {
		e.targets.Count += uint8(incr)
	}
}

func (e *entry) nextFreeTarget(now time.Time, cfg Config) time.Duration {
	if cfg.TargetDelay <= 0 {
		return 0
	}

	elapsed := now.Sub(e.lastConnect)
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := cfg.TargetDelay - elapsed%cfg.TargetDelay
	if remaining == cfg.TargetDelay {
		return 0
	}
	return remaining
}

func (r *Registry) countAccept() {
	if r.metrics != nil {
		r.metrics.ConnectionsAccepted.Inc()
	}
}

func (r *Registry) countReject() {
	if r.metrics != nil {
		r.metrics.ConnectionsRejected.Inc()
	}
}
