//go:build windows

package tunio

import (
	"fmt"

	"golang.zx2c4.com/wintun"
)

const wintunRingSize = 0x800000

// Open creates a wintun adapter with the given name, attaching to an
// existing adapter of that name if creation fails. The empty name defaults
// to "tunio". Wintun frames are raw IP packets, so the device uses no
// framing.
func Open(name string) (*Device, error) {
	if name == "" {
		name = "tunio"
	}
	adapter, err := wintun.CreateAdapter(name, "tunio", nil)
	if err != nil {
		adapter, err = wintun.OpenAdapter(name)
		if err != nil {
			return nil, fmt.Errorf("open adapter: %w", err)
		}
	}
	session, err := adapter.StartSession(wintunRingSize)
	if err != nil {
		adapter.Close()
		return nil, fmt.Errorf("start session: %w", err)
	}
	h := &wintunHandle{adapter: adapter, session: session}
	return newDevice(h, name, FramingNone()), nil
}

// wintunHandle moves whole frames through a wintun session ring.
type wintunHandle struct {
	adapter *wintun.Adapter
	session wintun.Session
}

func (h *wintunHandle) read(p []byte) (int, error) {
	packet, err := h.session.ReceivePacket()
	if err != nil {
		return 0, err
	}
	n := copy(p, packet)
	h.session.ReleaseReceivePacket(packet)
	return n, nil
}

func (h *wintunHandle) write(p []byte) (int, error) {
	packet, err := h.session.AllocateSendPacket(len(p))
	if err != nil {
		return 0, err
	}
	copy(packet, p)
	h.session.SendPacket(packet)
	return len(p), nil
}

func (h *wintunHandle) close() error {
	h.session.End()
	h.adapter.Close()
	return nil
}
