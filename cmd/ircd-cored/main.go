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

// Command ircd-cored is a thin process entry point: it loads configuration,
// allocates one daemon context, arms the housekeeping timers the core
// itself does not schedule on its own, and runs the event loop until a
// termination signal arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/sabouaram/ircd-core/config"
	"github.com/sabouaram/ircd-core/daemonctx"
	"github.com/sabouaram/ircd-core/event"
	"github.com/sabouaram/ircd-core/logger"
	"github.com/sabouaram/ircd-core/watchbridge"
)

const envPrefix = "IRCD"

// watchedTables are the object classes this core mirrors externally when
// IRCD_NATS_URL is set; the core itself never creates a watch table a
// caller did not ask for, but a process entry point needs somewhere to
// start.
var watchedTables = []string{"users", "channels", "servers"}

// ipcheckSweepInterval matches the conceptual periodic sweep spec §4.6.3
// describes; nothing in the ipcheck package schedules it on its own.
const ipcheckSweepInterval = 60 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	v := config.New(envPrefix)

	cfg, err := config.Load(v, "ircd")
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: "info"})
	if err != nil {
		return err
	}

	dctx, err := daemonctx.New(cfg, log, context.Background())
	if err != nil {
		return err
	}
	defer dctx.Shutdown()

	for _, name := range watchedTables {
		if _, err := dctx.Watch().NewTable(name); err != nil {
			return err
		}
	}

	if url := os.Getenv(envPrefix + "_NATS_URL"); url != "" {
		bridge, err := watchbridge.Connect(url, dctx.Watch(), log)
		if err != nil {
			return err
		}
		defer bridge.Close()

		for _, name := range watchedTables {
			if err := bridge.Attach(name); err != nil {
				return err
			}
		}
	}

	dctx.Engine().AddTimer(time.Now().Add(ipcheckSweepInterval), ipcheckSweepInterval, true,
		func(ev event.Type, gen interface{}, data interface{}) {
			if ev == event.Expire {
				dctx.IPCheck().Sweep(time.Now())
			}
		}, nil)

	shutdown := func(sig os.Signal) {
		log.Info("shutdown signal received", logger.NewFields().Add("signal", sig.String()))
		dctx.Engine().Shutdown()
	}

	if err := dctx.Engine().RegisterSignal(syscall.SIGINT, shutdown); err != nil {
		return err
	}
	if err := dctx.Engine().RegisterSignal(syscall.SIGTERM, shutdown); err != nil {
		return err
	}

	log.Info("ircd-cored starting", logger.NewFields().
		Add("instance_id", dctx.InstanceID).
		Add("backend", dctx.Engine().Name()))

	return dctx.Engine().Loop()
}
