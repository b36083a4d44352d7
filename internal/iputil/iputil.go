// Package iputil extracts display fields from raw IP packets for the
// diagnostic commands. The device layer itself never looks past the
// version nibble.
package iputil

import (
	"errors"
	"net/netip"
)

var (
	ErrTruncated      = errors.New("packet too short")
	ErrUnknownVersion = errors.New("unknown ip version")
)

// Version returns the IP version nibble of pkt.
func Version(pkt []byte) (int, error) {
	if len(pkt) == 0 {
		return 0, ErrTruncated
	}
	return int(pkt[0] >> 4), nil
}

// Source returns the source address of an IPv4 or IPv6 packet.
func Source(pkt []byte) (netip.Addr, error) {
	return addrAt(pkt, 12, 8)
}

// Dest returns the destination address of an IPv4 or IPv6 packet.
func Dest(pkt []byte) (netip.Addr, error) {
	return addrAt(pkt, 16, 24)
}

func addrAt(pkt []byte, v4off, v6off int) (netip.Addr, error) {
	version, err := Version(pkt)
	if err != nil {
		return netip.Addr{}, err
	}
	switch version {
	case 4:
		if len(pkt) < 20 {
			return netip.Addr{}, ErrTruncated
		}
		return netip.AddrFrom4([4]byte(pkt[v4off : v4off+4])), nil
	case 6:
		if len(pkt) < 40 {
			return netip.Addr{}, ErrTruncated
		}
		return netip.AddrFrom16([16]byte(pkt[v6off : v6off+16])), nil
	default:
		return netip.Addr{}, ErrUnknownVersion
	}
}
