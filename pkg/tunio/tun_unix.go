//go:build linux || darwin

package tunio

import "golang.org/x/sys/unix"

// fdHandle is the unix transfer primitive: one raw descriptor with
// blocking read, write, and close.
type fdHandle int

func (fd fdHandle) read(p []byte) (int, error)  { return unix.Read(int(fd), p) }
func (fd fdHandle) write(p []byte) (int, error) { return unix.Write(int(fd), p) }
func (fd fdHandle) close() error                { return unix.Close(int(fd)) }
