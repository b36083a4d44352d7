// Package netcfg brings a freshly opened TUN interface up for the
// commands in cmd/. The device layer itself never touches addressing;
// this is the "external tooling" side of that boundary.
package netcfg

// InterfaceConfig describes the bring-up applied to a device.
type InterfaceConfig struct {
	Name    string
	Address string // CIDR, e.g. 10.7.0.1/24; empty leaves addressing alone
	MTU     int
}
