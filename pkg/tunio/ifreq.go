package tunio

import (
	"encoding/binary"
	"fmt"
)

// Linux TUN/TAP creation interface, from linux/if.h and linux/if_tun.h.
// The record layout is encoded by hand so it can be tested byte for byte
// on any platform.
const (
	tunDevPath = "/dev/net/tun"
	tunSetIff  = 0x400454ca // TUNSETIFF

	iffTun  = 0x0001 // IFF_TUN
	iffNoPI = 0x1000 // IFF_NO_PI

	ifNameSize = 0x10
	ifReqSize  = 0x28
)

// validateIfName checks the Linux naming rules before any OS call: ASCII
// only and shorter than the 16-byte kernel name field. The empty name asks
// the kernel to pick one.
func validateIfName(name string) error {
	if len(name) >= ifNameSize {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidName, name, ifNameSize-1)
	}
	for i := 0; i < len(name); i++ {
		if name[i] >= 0x80 {
			return fmt.Errorf("%w: %q is not ASCII", ErrInvalidName, name)
		}
	}
	return nil
}

// encodeIfReq builds the 0x28-byte struct ifreq passed to TUNSETIFF: the
// null-padded name, the 16-bit flags word in host order, zero padding.
func encodeIfReq(name string, flags uint16) [ifReqSize]byte {
	var req [ifReqSize]byte
	copy(req[:ifNameSize-1], name)
	binary.NativeEndian.PutUint16(req[ifNameSize:], flags)
	return req
}

// ifReqName decodes the name field, which the kernel rewrites with the
// name it actually assigned.
func ifReqName(req [ifReqSize]byte) string {
	return cstring(req[:ifNameSize])
}

// cstring decodes a null-terminated ASCII field.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
