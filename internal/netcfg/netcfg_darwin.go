//go:build darwin

package netcfg

import (
	"fmt"
	"net"
	"os/exec"
	"strconv"
)

// ConfigureInterface shells out to ifconfig; Darwin has no netlink. utun
// interfaces are point-to-point, so the IPv4 form needs both a local and a
// peer address — the local address doubles as the peer here.
func ConfigureInterface(cfg InterfaceConfig) error {
	if cfg.MTU > 0 {
		if out, err := exec.Command("ifconfig", cfg.Name, "mtu", strconv.Itoa(cfg.MTU)).CombinedOutput(); err != nil {
			return fmt.Errorf("ifconfig mtu: %v: %s", err, out)
		}
	}
	if cfg.Address == "" {
		if out, err := exec.Command("ifconfig", cfg.Name, "up").CombinedOutput(); err != nil {
			return fmt.Errorf("ifconfig up: %v: %s", err, out)
		}
		return nil
	}
	ip, ipnet, err := net.ParseCIDR(cfg.Address)
	if err != nil {
		return fmt.Errorf("parse addr %s: %w", cfg.Address, err)
	}
	var args []string
	if ip.To4() != nil {
		mask := net.IP(ipnet.Mask).String()
		args = []string{cfg.Name, "inet", ip.String(), ip.String(), "netmask", mask, "up"}
	} else {
		args = []string{cfg.Name, "inet6", cfg.Address, "up"}
	}
	if out, err := exec.Command("ifconfig", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("ifconfig addr: %v: %s", err, out)
	}
	return nil
}
