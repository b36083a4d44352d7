//go:build darwin

package tunio

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Open creates a new utun device. name must be empty (the OS picks the
// next free unit) or "utun<N>"; opening an existing device is not possible
// through the utun kernel control. The returned device transparently adds
// and strips the 4-byte protocol family tag utun frames carry.
//
// The ioctl and connect go through raw syscalls with hand-encoded records
// so the ctl_info and sockaddr_ctl layouts stay explicit; see ctl.go.
func Open(name string) (*Device, error) {
	unit, err := parseUtunName(name)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(unix.AF_SYSTEM, unix.SOCK_DGRAM, unix.SYSPROTO_CONTROL)
	if err != nil {
		return nil, fmt.Errorf("control socket: %w", err)
	}
	info := encodeCtlInfo(utunControlName)
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), ctlIocGInfo, uintptr(unsafe.Pointer(&info[0]))); errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("ioctl CTLIOCGINFO: %w", errno)
	}
	sa := encodeSockaddrCtl(ctlInfoID(info), unit)
	if _, _, errno := syscall.Syscall(syscall.SYS_CONNECT, uintptr(fd), uintptr(unsafe.Pointer(&sa[0])), uintptr(len(sa))); errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("connect utun control: %w", errno)
	}
	assigned, err := unix.GetsockoptString(fd, unix.SYSPROTO_CONTROL, utunOptIfName)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("getsockopt UTUN_OPT_IFNAME: %w", err)
	}
	return newDevice(fdHandle(fd), assigned, utunFraming()), nil
}
