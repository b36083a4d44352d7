//go:build linux

package tunio

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Open creates or attaches to the TUN device with the given name; the
// empty name lets the kernel pick one. The kernel is asked for IFF_NO_PI,
// so frames carry no packet-information prefix and the device uses no
// framing.
func Open(name string) (*Device, error) {
	if err := validateIfName(name); err != nil {
		return nil, err
	}
	fd, err := unix.Open(tunDevPath, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", tunDevPath, err)
	}
	req := encodeIfReq(name, iffTun|iffNoPI)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), tunSetIff, uintptr(unsafe.Pointer(&req[0]))); errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("ioctl TUNSETIFF: %w", errno)
	}
	return newDevice(fdHandle(fd), ifReqName(req), FramingNone()), nil
}
