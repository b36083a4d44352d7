// Package tunio opens TUN virtual network interfaces on Linux, macOS, and
// Windows and exchanges whole IP packets with them through one uniform
// blocking Device.
//
// The platforms differ in how a device comes to exist (an ioctl on the
// TUN/TAP clone node on Linux, a utun kernel control socket on macOS, the
// wintun driver on Windows) and in framing: macOS prefixes every frame with
// a 4-byte protocol family tag, which Device adds on write and strips on
// read so callers only ever see raw IP packets.
//
// Assigning addresses and routes to the resulting interface is left to
// external tooling such as ip(8) or ifconfig(8); cmd/tundump and
// cmd/tunbridge show how to wire that up.
package tunio
