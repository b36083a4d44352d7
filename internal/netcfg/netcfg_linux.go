//go:build linux

package netcfg

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// ConfigureInterface sets the MTU and address on the interface and brings
// it up. An existing identical address is replaced rather than duplicated.
func ConfigureInterface(cfg InterfaceConfig) error {
	link, err := netlink.LinkByName(cfg.Name)
	if err != nil {
		return fmt.Errorf("link %s: %w", cfg.Name, err)
	}
	if cfg.MTU > 0 {
		if err := netlink.LinkSetMTU(link, cfg.MTU); err != nil {
			return fmt.Errorf("set mtu: %w", err)
		}
	}
	if cfg.Address != "" {
		addr, err := netlink.ParseAddr(cfg.Address)
		if err != nil {
			return fmt.Errorf("parse addr %s: %w", cfg.Address, err)
		}
		_ = netlink.AddrDel(link, addr)
		if err := netlink.AddrAdd(link, addr); err != nil {
			return fmt.Errorf("addr add: %w", err)
		}
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("link up: %w", err)
	}
	return nil
}
