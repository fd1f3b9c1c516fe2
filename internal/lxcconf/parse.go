package lxcconf

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/mihalicyn/golxc/internal/errkind"
)

// Parse reads the line-oriented key = value / key.subkey = value
// grammar described in spec.md §6 and overlays it onto conf. A new
// lxc.network.type line starts a fresh NetConf; subsequent
// lxc.network.* lines populate it until the next lxc.network.type or
// EOF — a repeated-section-by-sentinel-key shape, which is why this
// is a hand-written scanner rather than a generic INI/TOML parser
// (see DESIGN.md).
func Parse(r io.Reader, conf *Conf) error {
	var cur *NetConf
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := splitKV(line)
		if err != nil {
			return errkind.New(errkind.ConfigInvalid, fmt.Sprintf("line %d", lineNo), err)
		}

		if strings.HasPrefix(key, "lxc.network.") {
			if key == "lxc.network.type" {
				cur = &NetConf{}
				conf.Networks = append(conf.Networks, cur)
				if err := applyNetType(cur, value); err != nil {
					return errkind.New(errkind.ConfigInvalid, fmt.Sprintf("line %d", lineNo), err)
				}
				continue
			}
			if cur == nil {
				return errkind.New(errkind.ConfigInvalid,
					fmt.Sprintf("line %d: %s before lxc.network.type", lineNo, key), nil)
			}
			if err := applyNetKey(cur, key, value); err != nil {
				return errkind.New(errkind.ConfigInvalid, fmt.Sprintf("line %d", lineNo), err)
			}
			continue
		}

		if err := applyTopKey(conf, key, value); err != nil {
			return errkind.New(errkind.ConfigInvalid, fmt.Sprintf("line %d", lineNo), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return errkind.New(errkind.IO, "read config", err)
	}
	return nil
}

func splitKV(line string) (key, value string, err error) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", fmt.Errorf("missing '=' in %q", line)
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", fmt.Errorf("empty key in %q", line)
	}
	return key, value, nil
}

func applyNetType(n *NetConf, value string) error {
	switch value {
	case "empty":
		n.Type = NetEmpty
	case "veth":
		n.Type = NetVeth
	case "macvlan":
		n.Type = NetMacvlan
	case "phys":
		n.Type = NetPhys
	default:
		return fmt.Errorf("unknown lxc.network.type %q", value)
	}
	return nil
}

func applyNetKey(n *NetConf, key, value string) error {
	switch key {
	case "lxc.network.flags":
		n.Up = value == "up"
	case "lxc.network.link":
		n.Link = value
	case "lxc.network.name":
		n.Name = value
	case "lxc.network.hwaddr":
		n.HWAddr = value
	case "lxc.network.mtu":
		mtu, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid lxc.network.mtu %q: %w", value, err)
		}
		n.MTU = mtu
	case "lxc.network.ipv4":
		addr, err := parseAddrLine(value)
		if err != nil {
			return err
		}
		n.IPv4 = append(n.IPv4, addr)
	case "lxc.network.ipv6":
		addr, err := parseAddrLine(value)
		if err != nil {
			return err
		}
		n.IPv6 = append(n.IPv6, addr)
	case "lxc.network.ipv4.gateway":
		gw, err := parseGateway(value)
		if err != nil {
			return err
		}
		n.Gateway4 = gw
		n.Proxy4 = true
	case "lxc.network.ipv6.gateway":
		gw, err := parseGateway(value)
		if err != nil {
			return err
		}
		n.Gateway6 = gw
		n.Proxy6 = true
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// parseGateway accepts either "auto" or an explicit address. "auto"
// yields a nil address: the caller still sets the proxy flag, but no
// gateway is resolved for it, so no default route is created.
func parseGateway(value string) (net.IP, error) {
	if value == "auto" {
		return nil, nil
	}
	ip := net.ParseIP(value)
	if ip == nil {
		return nil, fmt.Errorf("invalid gateway address %q", value)
	}
	return ip, nil
}

// parseAddrLine parses "addr/prefix [broadcast]".
func parseAddrLine(value string) (IPAddr, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return IPAddr{}, fmt.Errorf("empty address")
	}
	addrPrefix := strings.SplitN(fields[0], "/", 2)
	ip := net.ParseIP(addrPrefix[0])
	if ip == nil {
		return IPAddr{}, fmt.Errorf("invalid address %q", fields[0])
	}
	prefix := 32
	if len(addrPrefix) == 2 {
		p, err := strconv.Atoi(addrPrefix[1])
		if err != nil {
			return IPAddr{}, fmt.Errorf("invalid prefix in %q: %w", fields[0], err)
		}
		prefix = p
	}
	var bcast net.IP
	if len(fields) > 1 {
		bcast = net.ParseIP(fields[1])
		if bcast == nil {
			return IPAddr{}, fmt.Errorf("invalid broadcast %q", fields[1])
		}
	}
	return IPAddr{Addr: ip, Prefix: prefix, Bcast: bcast}, nil
}

func applyTopKey(conf *Conf, key, value string) error {
	switch key {
	case "lxc.utsname":
		conf.UtsName = value
	case "lxc.rootfs":
		conf.Rootfs = value
	case "lxc.mount":
		conf.Mounts = append(conf.Mounts, value)
	case "lxc.pts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid lxc.pts %q: %w", value, err)
		}
		conf.TTYCount = n
	case "lxc.console":
		conf.ConsoleLogPath = value
	case "lxc.cap.drop":
		caps, err := shellquote.Split(value)
		if err != nil {
			return fmt.Errorf("invalid lxc.cap.drop %q: %w", value, err)
		}
		conf.CapDrop = append(conf.CapDrop, caps...)
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}
