// Package lxcconf is Component F: the structured description of a
// container (networks, mounts, hostname, root path, capability
// drops) consumed by the launch state machine (D) and the network
// operations (B). Grounded on the key set in spec.md §6 and the
// config-reading calls in original_source/src/lxc/lxc_create.c.
package lxcconf

import "net"

// NetType is the tagged variant over the four network kinds spec.md
// §3 names.
type NetType int

const (
	NetEmpty NetType = iota
	NetVeth
	NetMacvlan
	NetPhys
)

func (t NetType) String() string {
	switch t {
	case NetVeth:
		return "veth"
	case NetMacvlan:
		return "macvlan"
	case NetPhys:
		return "phys"
	default:
		return "empty"
	}
}

// IPAddr is one address entry: address + prefix + optional broadcast.
type IPAddr struct {
	Addr   net.IP
	Prefix int
	Bcast  net.IP
}

// NetConf describes one interface the container will own after
// bring-up (spec.md §3).
type NetConf struct {
	Type   NetType
	Up     bool // lxc.network.flags = up
	Link   string
	Name   string
	HWAddr string
	MTU    int
	IPv4   []IPAddr
	IPv6   []IPAddr

	// Gateway4/Gateway6 and the Proxy flags supplement the distilled
	// spec (see SPEC_FULL.md §3): lxc.network.ipv4.gateway /
	// lxc.network.ipv6.gateway make route_create_default and
	// neigh_proxy_on reachable from config, not just the low-level API.
	Gateway4 net.IP
	Gateway6 net.IP
	Proxy4   bool
	Proxy6   bool
}

// Conf is the launch configuration, populated from defaults and then
// overlaid by the configuration file (spec.md §3).
type Conf struct {
	Name     string
	Rootfs   string
	UtsName  string
	TTYCount int
	Networks []*NetConf
	Mounts   []string
	CgroupSettings []string
	CapDrop  []string

	// UserNS opts into CLONE_NEWUSER; off by default since it is the
	// one namespace flag spec.md marks "optional" (§4.D step 2).
	UserNS bool

	// ConsoleLogPath backs the supplemented lxc.console key
	// (SPEC_FULL.md §4.F) — informational only, no console log
	// subsystem is implemented.
	ConsoleLogPath string

	ConfigDir string
}

// NewDefault returns a Conf with the defaults documented in spec.md
// §3 before any configuration file is applied.
func NewDefault(name string) *Conf {
	return &Conf{
		Name:     name,
		TTYCount: 1,
	}
}
