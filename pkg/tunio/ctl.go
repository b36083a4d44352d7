package tunio

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Darwin utun kernel control interface, from sys/kern_control.h and
// net/if_utun.h. As with ifreq, the records are encoded by hand at fixed
// offsets so the layouts stay auditable and testable everywhere.
const (
	sysprotoControl = 2 // SYSPROTO_CONTROL

	utunControlName = "com.apple.net.utun_control"
	utunOptIfName   = 2          // UTUN_OPT_IFNAME
	ctlIocGInfo     = 0xC0644E03 // CTLIOCGINFO

	afSystem = 32 // AF_SYSTEM, doubles as the sockaddr_ctl family

	ctlNameSize     = 96
	ctlInfoSize     = 4 + ctlNameSize
	sockaddrCtlSize = 1 + 1 + 2 + (1+1+5)*4
)

// Every utun frame carries a 4-byte protocol family tag ahead of the IP
// payload: AF_INET for v4, AF_INET6 for v6, big endian.
var (
	utunIPv4Header = []byte{0, 0, 0, 2}
	utunIPv6Header = []byte{0, 0, 0, 30}
)

func utunFraming() Framing {
	f, err := PrefixFraming(utunIPv4Header, utunIPv6Header)
	if err != nil {
		panic(err)
	}
	return f
}

// parseUtunName maps a requested device name to the kernel unit number:
// empty means auto-assign (unit 0), "utun<N>" means unit N+1. utun0 is
// held by the system on Sierra and newer, so N should be at least 1.
func parseUtunName(name string) (uint32, error) {
	if name == "" {
		return 0, nil
	}
	suffix, ok := strings.CutPrefix(name, "utun")
	if !ok {
		return 0, fmt.Errorf("%w: %q must start with \"utun\"", ErrInvalidName, name)
	}
	if suffix == "" {
		return 0, fmt.Errorf("%w: %q is missing the unit number", ErrInvalidName, name)
	}
	for i := 0; i < len(suffix); i++ {
		if suffix[i] < '0' || suffix[i] > '9' {
			return 0, fmt.Errorf("%w: %q must be \"utun\" followed by a non-negative number", ErrInvalidName, name)
		}
	}
	n, err := strconv.ParseUint(suffix, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
	}
	return uint32(n) + 1, nil
}

// encodeCtlInfo builds the struct ctl_info handed to CTLIOCGINFO: a zeroed
// 32-bit id the kernel fills in, followed by the control name.
func encodeCtlInfo(name string) [ctlInfoSize]byte {
	var info [ctlInfoSize]byte
	copy(info[4:ctlInfoSize-1], name)
	return info
}

// ctlInfoID decodes the control id resolved by the kernel.
func ctlInfoID(info [ctlInfoSize]byte) uint32 {
	return binary.NativeEndian.Uint32(info[0:4])
}

// encodeSockaddrCtl builds the struct sockaddr_ctl used to connect the
// control socket: length, family, the system protocol tag, the resolved
// control id, the requested unit number, and five reserved words.
func encodeSockaddrCtl(id, unit uint32) [sockaddrCtlSize]byte {
	var sa [sockaddrCtlSize]byte
	sa[0] = sockaddrCtlSize
	sa[1] = afSystem
	binary.NativeEndian.PutUint16(sa[2:4], sysprotoControl)
	binary.NativeEndian.PutUint32(sa[4:8], id)
	binary.NativeEndian.PutUint32(sa[8:12], unit)
	return sa
}
