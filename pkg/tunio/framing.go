package tunio

import "fmt"

// Framing describes the per-packet header a platform exchanges with the
// kernel in addition to the raw IP payload. The zero value means no header.
type Framing struct {
	ipv4 []byte
	ipv6 []byte
}

// FramingNone is the empty framing: frames cross the device boundary as-is.
func FramingNone() Framing { return Framing{} }

// PrefixFraming returns a framing that prepends ipv4 or ipv6, chosen by the
// payload's IP version nibble, to every frame written to the kernel, and
// expects a prefix of the same length on every frame read back. Both
// headers must have the same non-zero length.
func PrefixFraming(ipv4, ipv6 []byte) (Framing, error) {
	if len(ipv4) == 0 || len(ipv4) != len(ipv6) {
		return Framing{}, fmt.Errorf("prefix framing: header lengths %d and %d", len(ipv4), len(ipv6))
	}
	f := Framing{
		ipv4: make([]byte, len(ipv4)),
		ipv6: make([]byte, len(ipv6)),
	}
	copy(f.ipv4, ipv4)
	copy(f.ipv6, ipv6)
	return f, nil
}

// HeaderLen reports the number of framing bytes per frame, 0 for none.
func (f Framing) HeaderLen() int { return len(f.ipv4) }

// headerFor picks the header for a payload by its first-byte version
// nibble. Anything that is not IPv6 gets the IPv4 header.
func (f Framing) headerFor(payload []byte) []byte {
	if len(payload) > 0 && payload[0]>>4 == 6 {
		return f.ipv6
	}
	return f.ipv4
}
