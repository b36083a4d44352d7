package tunio

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
)

// DefaultReadMTU is the payload buffer size used by reads on a new device.
const DefaultReadMTU = 2048

var (
	// ErrInvalidName reports a device name that fails the platform's
	// validation rules. It is returned before any OS call is made.
	ErrInvalidName = errors.New("invalid device name")
	// ErrClosed reports I/O on a closed device.
	ErrClosed = errors.New("device closed")
	// ErrShortFrame reports a kernel frame shorter than the platform's
	// framing header.
	ErrShortFrame = errors.New("short frame")
)

// handle is the transfer primitive behind a Device: a raw descriptor on
// Linux and Darwin, a wintun session on Windows, or a script in tests.
// A Device owns its handle exclusively and closes it at most once.
type handle interface {
	read(p []byte) (int, error)
	write(p []byte) (int, error)
	close() error
}

// Device is one open TUN interface: a single blocking packet channel.
// Reads and writes block until the OS completes them; the device does no
// scheduling, locking, or retrying of its own. Concurrent Read and Write
// from two goroutines are safe at the OS level, but two concurrent Reads
// (or Writes) are not coordinated and interleave arbitrarily.
type Device struct {
	h       handle
	name    string
	framing Framing
	readMTU int
	closed  atomic.Bool
}

func newDevice(h handle, name string, framing Framing) *Device {
	return &Device{h: h, name: name, framing: framing, readMTU: DefaultReadMTU}
}

// OpenUnit opens the numbered device "utun<unit>". It is a convenience for
// the Darwin naming scheme but works anywhere the formatted name is valid.
func OpenUnit(unit int) (*Device, error) {
	return Open("utun" + strconv.Itoa(unit))
}

// Name returns the interface name assigned by the OS.
func (d *Device) Name() string { return d.name }

// Framing returns the per-packet framing of the device's platform.
func (d *Device) Framing() Framing { return d.framing }

// SetReadMTU changes the payload buffer size allocated by subsequent
// reads. Packets already returned keep their size. Values below 1 are
// ignored.
func (d *Device) SetReadMTU(mtu int) {
	if mtu > 0 {
		d.readMTU = mtu
	}
}

// Read returns the next packet from the device, with any platform framing
// stripped and network byte order active on the returned Packet.
func (d *Device) Read() (*Packet, error) { return d.read(0) }

// ReadIPv4 reads until an IPv4 packet arrives, silently discarding packets
// of any other version. The discard loop has no bound, timeout, or
// cancellation: on a device that never delivers IPv4 the call blocks
// forever.
func (d *Device) ReadIPv4() (*Packet, error) { return d.read(4) }

// ReadIPv6 is ReadIPv4 for version 6.
func (d *Device) ReadIPv6() (*Packet, error) { return d.read(6) }

func (d *Device) read(limitVersion int) (*Packet, error) {
	if d.closed.Load() {
		return nil, fmt.Errorf("read from %s: %w", d.name, ErrClosed)
	}
	hl := d.framing.HeaderLen()
	for {
		buf := make([]byte, hl+d.readMTU)
		n, err := d.h.read(buf)
		if err != nil {
			return nil, fmt.Errorf("read from %s: %w", d.name, err)
		}
		if n < hl {
			return nil, fmt.Errorf("read from %s: %w (%d bytes)", d.name, ErrShortFrame, n)
		}
		version := int(buf[hl] >> 4)
		if limitVersion != 0 && version != limitVersion {
			continue
		}
		return NewPacketFrom(buf[hl:n]), nil
	}
}

// ReadInto reads one packet into p, stripping any platform framing in
// place, and returns the payload length. p must have room for the framing
// header in addition to the payload. No version filtering is applied;
// callers that want to reuse buffers and filter themselves use this
// instead of Read.
func (d *Device) ReadInto(p []byte) (int, error) {
	if d.closed.Load() {
		return 0, fmt.Errorf("read from %s: %w", d.name, ErrClosed)
	}
	n, err := d.h.read(p)
	if err != nil {
		return 0, fmt.Errorf("read from %s: %w", d.name, err)
	}
	hl := d.framing.HeaderLen()
	if hl == 0 {
		return n, nil
	}
	if n < hl {
		return 0, fmt.Errorf("read from %s: %w (%d bytes)", d.name, ErrShortFrame, n)
	}
	copy(p, p[hl:n])
	return n - hl, nil
}

// Write sends one packet, prepending the platform framing header when the
// platform requires one. Each logical packet is exactly one OS write.
func (d *Device) Write(p *Packet) error { return d.WriteBytes(p.buf) }

// WriteBytes is Write for a raw payload slice.
func (d *Device) WriteBytes(payload []byte) error {
	if d.closed.Load() {
		return fmt.Errorf("write to %s: %w", d.name, ErrClosed)
	}
	out := payload
	if hl := d.framing.HeaderLen(); hl > 0 {
		out = make([]byte, hl+len(payload))
		copy(out, d.framing.headerFor(payload))
		copy(out[hl:], payload)
	}
	n, err := d.h.write(out)
	if err != nil {
		return fmt.Errorf("write to %s: %w", d.name, err)
	}
	if n != len(out) {
		return fmt.Errorf("write to %s: %w", d.name, io.ErrShortWrite)
	}
	return nil
}

// Close releases the descriptor. The release happens at most once: a
// failure is returned to the caller but the descriptor is considered
// released either way, and a second Close is a no-op.
func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := d.h.close(); err != nil {
		return fmt.Errorf("close %s: %w", d.name, err)
	}
	return nil
}
