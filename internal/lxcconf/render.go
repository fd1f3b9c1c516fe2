package lxcconf

import (
	"fmt"
	"io"
)

// render writes conf in the same grammar Parse reads, used by Save.
func render(w io.Writer, conf *Conf) error {
	if conf.UtsName != "" {
		if _, err := fmt.Fprintf(w, "lxc.utsname = %s\n", conf.UtsName); err != nil {
			return err
		}
	}
	if conf.Rootfs != "" {
		if _, err := fmt.Fprintf(w, "lxc.rootfs = %s\n", conf.Rootfs); err != nil {
			return err
		}
	}
	for _, m := range conf.Mounts {
		if _, err := fmt.Fprintf(w, "lxc.mount = %s\n", m); err != nil {
			return err
		}
	}
	if len(conf.CapDrop) > 0 {
		if _, err := fmt.Fprintf(w, "lxc.cap.drop = %s\n", joinSpace(conf.CapDrop)); err != nil {
			return err
		}
	}
	if conf.TTYCount != 0 {
		if _, err := fmt.Fprintf(w, "lxc.pts = %d\n", conf.TTYCount); err != nil {
			return err
		}
	}
	if conf.ConsoleLogPath != "" {
		if _, err := fmt.Fprintf(w, "lxc.console = %s\n", conf.ConsoleLogPath); err != nil {
			return err
		}
	}
	for _, n := range conf.Networks {
		if err := renderNet(w, n); err != nil {
			return err
		}
	}
	return nil
}

func renderNet(w io.Writer, n *NetConf) error {
	if _, err := fmt.Fprintf(w, "lxc.network.type = %s\n", n.Type); err != nil {
		return err
	}
	if n.Up {
		if _, err := fmt.Fprintln(w, "lxc.network.flags = up"); err != nil {
			return err
		}
	}
	if n.Link != "" {
		if _, err := fmt.Fprintf(w, "lxc.network.link = %s\n", n.Link); err != nil {
			return err
		}
	}
	if n.Name != "" {
		if _, err := fmt.Fprintf(w, "lxc.network.name = %s\n", n.Name); err != nil {
			return err
		}
	}
	if n.HWAddr != "" {
		if _, err := fmt.Fprintf(w, "lxc.network.hwaddr = %s\n", n.HWAddr); err != nil {
			return err
		}
	}
	if n.MTU != 0 {
		if _, err := fmt.Fprintf(w, "lxc.network.mtu = %d\n", n.MTU); err != nil {
			return err
		}
	}
	for _, a := range n.IPv4 {
		if err := renderAddr(w, "lxc.network.ipv4", a); err != nil {
			return err
		}
	}
	for _, a := range n.IPv6 {
		if err := renderAddr(w, "lxc.network.ipv6", a); err != nil {
			return err
		}
	}
	if n.Gateway4 != nil {
		if _, err := fmt.Fprintf(w, "lxc.network.ipv4.gateway = %s\n", n.Gateway4); err != nil {
			return err
		}
	} else if n.Proxy4 {
		if _, err := fmt.Fprintln(w, "lxc.network.ipv4.gateway = auto"); err != nil {
			return err
		}
	}
	if n.Gateway6 != nil {
		if _, err := fmt.Fprintf(w, "lxc.network.ipv6.gateway = %s\n", n.Gateway6); err != nil {
			return err
		}
	} else if n.Proxy6 {
		if _, err := fmt.Fprintln(w, "lxc.network.ipv6.gateway = auto"); err != nil {
			return err
		}
	}
	return nil
}

func renderAddr(w io.Writer, key string, a IPAddr) error {
	if a.Bcast != nil {
		_, err := fmt.Fprintf(w, "%s = %s/%d %s\n", key, a.Addr, a.Prefix, a.Bcast)
		return err
	}
	_, err := fmt.Fprintf(w, "%s = %s/%d\n", key, a.Addr, a.Prefix)
	return err
}

func joinSpace(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
