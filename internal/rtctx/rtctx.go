// Package rtctx provides the single explicit context value threaded
// through the network and handler APIs, per SPEC_FULL.md/spec.md §9
// "Global state": a Ctx{log, nl_socket} created at command start and
// destroyed at its end, replacing the source's process-wide log sink
// and cached netlink socket. No hidden singletons.
package rtctx

import (
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/mihalicyn/golxc/internal/netops"
)

// Ctx bundles the one process-wide logger and the one open netlink
// operations handle a command needs, adapted down from the teacher's
// mutex-guarded SafeLogger (golxc has exactly one logger per Ctx, not
// concurrent writers across HTTP handlers, so the mutex is dropped).
type Ctx struct {
	Log *logrus.Logger
	Net *netops.Ops
}

// New creates a Ctx with a colorized text logger writing to stderr
// and one open netlink operations handle.
func New(quiet bool) (*Ctx, error) {
	log := logrus.New()
	log.SetOutput(colorable.NewColorableStderr())
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if quiet {
		log.SetLevel(logrus.WarnLevel)
	}

	ops, err := netops.New()
	if err != nil {
		return nil, err
	}
	return &Ctx{Log: log, Net: ops}, nil
}

// Close releases the netlink handle. The logger has no resources to
// release beyond its writer, which the process owns.
func (c *Ctx) Close() error {
	return c.Net.Close()
}
