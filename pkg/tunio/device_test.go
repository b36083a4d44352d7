package tunio

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// fakeHandle scripts the OS transfer primitives so device behavior is
// testable without a kernel device. Each element of reads is returned by
// one read call; writes records every write verbatim.
type fakeHandle struct {
	reads     [][]byte
	readSizes []int
	readErr   error
	writes    [][]byte
	writeErr  error
	shortBy   int
	closes    int
	closeErr  error
}

func (h *fakeHandle) read(p []byte) (int, error) {
	if h.readErr != nil {
		return 0, h.readErr
	}
	if len(h.reads) == 0 {
		return 0, io.EOF
	}
	h.readSizes = append(h.readSizes, len(p))
	frame := h.reads[0]
	h.reads = h.reads[1:]
	return copy(p, frame), nil
}

func (h *fakeHandle) write(p []byte) (int, error) {
	if h.writeErr != nil {
		return 0, h.writeErr
	}
	h.writes = append(h.writes, append([]byte(nil), p...))
	return len(p) - h.shortBy, nil
}

func (h *fakeHandle) close() error {
	h.closes++
	return h.closeErr
}

var (
	ipv4Payload = []byte{0x45, 0x00, 0x00, 0x14, 0xAA, 0xBB}
	ipv6Payload = []byte{0x60, 0x00, 0x00, 0x00, 0xCC, 0xDD}
)

func framed(payload []byte) []byte {
	f := utunFraming()
	return append(append([]byte(nil), f.headerFor(payload)...), payload...)
}

func TestReadNoFraming(t *testing.T) {
	h := &fakeHandle{reads: [][]byte{ipv4Payload}}
	d := newDevice(h, "tun0", FramingNone())
	pkt, err := d.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(pkt.Bytes(), ipv4Payload) {
		t.Fatalf("payload: % x", pkt.Bytes())
	}
	if pkt.Size() != len(ipv4Payload) {
		t.Fatalf("size: got %d", pkt.Size())
	}
}

func TestReadStripsFraming(t *testing.T) {
	h := &fakeHandle{reads: [][]byte{framed(ipv4Payload)}}
	d := newDevice(h, "utun1", utunFraming())
	pkt, err := d.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(pkt.Bytes(), ipv4Payload) {
		t.Fatalf("framing not stripped: % x", pkt.Bytes())
	}
	if !pkt.IsIPv4() {
		t.Fatalf("version: got %d", pkt.IPVersion())
	}
}

func TestReadVersionFilter(t *testing.T) {
	h := &fakeHandle{reads: [][]byte{framed(ipv6Payload), framed(ipv6Payload), framed(ipv4Payload)}}
	d := newDevice(h, "utun1", utunFraming())
	pkt, err := d.ReadIPv4()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !pkt.IsIPv4() {
		t.Fatalf("filter returned version %d", pkt.IPVersion())
	}
	if len(h.reads) != 0 {
		t.Fatalf("mismatching frames were not consumed")
	}

	h = &fakeHandle{reads: [][]byte{ipv4Payload, ipv6Payload}}
	d = newDevice(h, "tun0", FramingNone())
	pkt, err = d.ReadIPv6()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !pkt.IsIPv6() {
		t.Fatalf("filter returned version %d", pkt.IPVersion())
	}
}

func TestReadBufferTracksMTU(t *testing.T) {
	h := &fakeHandle{reads: [][]byte{ipv4Payload, ipv4Payload, ipv4Payload}}
	d := newDevice(h, "tun0", FramingNone())
	if _, err := d.Read(); err != nil {
		t.Fatalf("read: %v", err)
	}
	d.SetReadMTU(1500)
	if _, err := d.Read(); err != nil {
		t.Fatalf("read: %v", err)
	}
	d.SetReadMTU(0) // ignored
	if _, err := d.Read(); err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []int{DefaultReadMTU, 1500, 1500}
	for i, w := range want {
		if h.readSizes[i] != w {
			t.Fatalf("read %d buffer: got %d, want %d", i, h.readSizes[i], w)
		}
	}
}

func TestReadBufferIncludesHeader(t *testing.T) {
	h := &fakeHandle{reads: [][]byte{framed(ipv4Payload)}}
	d := newDevice(h, "utun1", utunFraming())
	d.SetReadMTU(100)
	if _, err := d.Read(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if h.readSizes[0] != 104 {
		t.Fatalf("read buffer: got %d, want header+mtu", h.readSizes[0])
	}
}

func TestReadShortFrame(t *testing.T) {
	h := &fakeHandle{reads: [][]byte{{0, 0}}}
	d := newDevice(h, "utun1", utunFraming())
	_, err := d.Read()
	if !errors.Is(err, ErrShortFrame) {
		t.Fatalf("got %v, want ErrShortFrame", err)
	}
}

func TestReadErrorHasDeviceName(t *testing.T) {
	underlying := errors.New("boom")
	h := &fakeHandle{readErr: underlying}
	d := newDevice(h, "utun9", utunFraming())
	_, err := d.Read()
	if !errors.Is(err, underlying) {
		t.Fatalf("underlying error not wrapped: %v", err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte("utun9")) {
		t.Fatalf("device name missing from error: %v", err)
	}
}

func TestReadInto(t *testing.T) {
	h := &fakeHandle{reads: [][]byte{framed(ipv4Payload)}}
	d := newDevice(h, "utun1", utunFraming())
	buf := make([]byte, 64)
	n, err := d.ReadInto(buf)
	if err != nil {
		t.Fatalf("read into: %v", err)
	}
	if !bytes.Equal(buf[:n], ipv4Payload) {
		t.Fatalf("payload: % x", buf[:n])
	}

	h = &fakeHandle{reads: [][]byte{ipv6Payload}}
	d = newDevice(h, "tun0", FramingNone())
	n, err = d.ReadInto(buf)
	if err != nil {
		t.Fatalf("read into: %v", err)
	}
	if !bytes.Equal(buf[:n], ipv6Payload) {
		t.Fatalf("payload: % x", buf[:n])
	}
}

func TestWriteNoFraming(t *testing.T) {
	h := &fakeHandle{}
	d := newDevice(h, "tun0", FramingNone())
	if err := d.WriteBytes(ipv4Payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(h.writes) != 1 {
		t.Fatalf("want exactly one OS write, got %d", len(h.writes))
	}
	if !bytes.Equal(h.writes[0], ipv4Payload) {
		t.Fatalf("written: % x", h.writes[0])
	}
}

func TestWritePrependsHeader(t *testing.T) {
	h := &fakeHandle{}
	d := newDevice(h, "utun1", utunFraming())
	if err := d.WriteBytes(ipv4Payload); err != nil {
		t.Fatalf("write v4: %v", err)
	}
	if err := d.WriteBytes(ipv6Payload); err != nil {
		t.Fatalf("write v6: %v", err)
	}
	if len(h.writes) != 2 {
		t.Fatalf("want one OS write per packet, got %d", len(h.writes))
	}
	if !bytes.Equal(h.writes[0], framed(ipv4Payload)) {
		t.Fatalf("v4 frame: % x", h.writes[0])
	}
	if !bytes.Equal(h.writes[1], framed(ipv6Payload)) {
		t.Fatalf("v6 frame: % x", h.writes[1])
	}
}

func TestWritePacket(t *testing.T) {
	h := &fakeHandle{}
	d := newDevice(h, "utun1", utunFraming())
	pkt := NewPacket(len(ipv6Payload))
	pkt.PutBytesAt(0, ipv6Payload)
	if err := d.Write(pkt); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(h.writes[0], framed(ipv6Payload)) {
		t.Fatalf("frame: % x", h.writes[0])
	}
}

func TestWriteShort(t *testing.T) {
	h := &fakeHandle{shortBy: 1}
	d := newDevice(h, "tun0", FramingNone())
	err := d.WriteBytes(ipv4Payload)
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("got %v, want ErrShortWrite", err)
	}
}

func TestCloseOnce(t *testing.T) {
	h := &fakeHandle{}
	d := newDevice(h, "tun0", FramingNone())
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if h.closes != 1 {
		t.Fatalf("descriptor released %d times", h.closes)
	}
}

func TestCloseErrorStillReleases(t *testing.T) {
	h := &fakeHandle{closeErr: errors.New("ebadf")}
	d := newDevice(h, "tun0", FramingNone())
	if err := d.Close(); err == nil {
		t.Fatalf("expected close error")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second close must no-op, got %v", err)
	}
	if h.closes != 1 {
		t.Fatalf("descriptor released %d times", h.closes)
	}
}

func TestIOAfterClose(t *testing.T) {
	h := &fakeHandle{reads: [][]byte{ipv4Payload}}
	d := newDevice(h, "tun0", FramingNone())
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := d.Read(); !errors.Is(err, ErrClosed) {
		t.Fatalf("read after close: %v", err)
	}
	if _, err := d.ReadInto(make([]byte, 16)); !errors.Is(err, ErrClosed) {
		t.Fatalf("read into after close: %v", err)
	}
	if err := d.WriteBytes(ipv4Payload); !errors.Is(err, ErrClosed) {
		t.Fatalf("write after close: %v", err)
	}
}

func TestDeviceAccessors(t *testing.T) {
	d := newDevice(&fakeHandle{}, "utun3", utunFraming())
	if d.Name() != "utun3" {
		t.Fatalf("name: %q", d.Name())
	}
	if d.Framing().HeaderLen() != 4 {
		t.Fatalf("framing header: %d", d.Framing().HeaderLen())
	}
}
