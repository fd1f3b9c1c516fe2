//go:build linux

// Package launch implements Component D: the Handler / launch state
// machine that drives container bring-up — allocate resources, fork
// with isolating namespace flags, run the parent/child handshake,
// wire networking, exec the init program. Grounded on
// original_source/src/lxc/lxc_start.c for protocol ordering and on
// _examples/jhspaybar-docker/pkg/libcontainer/namespaces/exec.go for
// the Go-idiomatic clone-flag fork/exec shape.
package launch

import (
	"net"
	"os"
	"os/exec"

	"github.com/mihalicyn/golxc/internal/lxcconf"
	"github.com/mihalicyn/golxc/internal/rtctx"
	"github.com/mihalicyn/golxc/internal/syncchan"
)

// State is one of the five launch states in spec.md §4.D.
type State int

const (
	Stopped State = iota
	Starting
	Running
	Stopping
	Aborting
)

func (s State) String() string {
	switch s {
	case Starting:
		return "STARTING"
	case Running:
		return "RUNNING"
	case Stopping:
		return "STOPPING"
	case Aborting:
		return "ABORTING"
	default:
		return "STOPPED"
	}
}

// Handler owns one live launch attempt (spec.md §3 "Handler").
type Handler struct {
	Name       string
	Conf       *lxcconf.Conf
	State      State
	Pid        int
	CloneFlags uintptr

	ctx      *rtctx.Ctx
	sync     *syncchan.Pair
	nonceDir string

	// ttyMasters holds the pre-allocated pty master ends, index
	// matching Conf.TTYCount; indexed access is used by the ttyrpc
	// server to answer console attach requests.
	ttyMasters []*os.File
	ttySlaves  []*os.File

	// createdHostVeths tracks host-side veth peers created during
	// this launch so an abort can roll them back (spec.md §4.D
	// "Resource ownership during launch").
	createdHostVeths []string

	cmd         *exec.Cmd
	ctlListener *net.UnixListener
}

// ReExecMarker is the argv[0] value cmd/lxc-start passes to the
// re-executed child so main() can distinguish "I am the container
// init" from "I am the operator CLI", mirroring the teacher's
// env-variable-carried re-exec convention.
const ReExecMarker = "__golxc_init"
