package tunio

import "encoding/binary"

// Packet is a fixed-size byte buffer with absolute-offset accessors, used
// both for packets returned by Device reads and for building packets to
// send. The integer accessors honor the packet's byte order, which defaults
// to network order (big endian). No bounds checking happens beyond the
// underlying slice: an out-of-range offset panics.
type Packet struct {
	buf   []byte
	order binary.ByteOrder
}

// NewPacket returns a zeroed packet of the given size in network byte order.
func NewPacket(size int) *Packet {
	return &Packet{buf: make([]byte, size), order: binary.BigEndian}
}

// NewPacketFrom wraps b without copying. The packet's size is len(b).
func NewPacketFrom(b []byte) *Packet {
	return &Packet{buf: b, order: binary.BigEndian}
}

// SetByteOrder changes the order used by the integer accessors.
func (p *Packet) SetByteOrder(order binary.ByteOrder) { p.order = order }

// ByteOrder returns the order used by the integer accessors.
func (p *Packet) ByteOrder() binary.ByteOrder { return p.order }

func (p *Packet) Uint8(off int) uint8   { return p.buf[off] }
func (p *Packet) Uint16(off int) uint16 { return p.order.Uint16(p.buf[off : off+2]) }
func (p *Packet) Uint32(off int) uint32 { return p.order.Uint32(p.buf[off : off+4]) }

func (p *Packet) PutUint8(off int, v uint8)   { p.buf[off] = v }
func (p *Packet) PutUint16(off int, v uint16) { p.order.PutUint16(p.buf[off:off+2], v) }
func (p *Packet) PutUint32(off int, v uint32) { p.order.PutUint32(p.buf[off:off+4], v) }

// BytesAt copies length bytes starting at off out of the packet.
func (p *Packet) BytesAt(off, length int) []byte {
	out := make([]byte, length)
	copy(out, p.buf[off:off+length])
	return out
}

// PutBytesAt copies src into the packet starting at off.
func (p *Packet) PutBytesAt(off int, src []byte) {
	copy(p.buf[off:off+len(src)], src)
}

// Bytes returns a copy of the packet's whole content.
func (p *Packet) Bytes() []byte { return p.BytesAt(0, len(p.buf)) }

// Size is the packet's logical length in bytes.
func (p *Packet) Size() int { return len(p.buf) }

// IPVersion is the high nibble of the packet's first byte.
func (p *Packet) IPVersion() int { return int(p.buf[0] >> 4) }

func (p *Packet) IsIPv4() bool { return p.IPVersion() == 4 }
func (p *Packet) IsIPv6() bool { return p.IPVersion() == 6 }
