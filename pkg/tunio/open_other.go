//go:build !linux && !darwin && !windows

package tunio

import (
	"errors"
	"fmt"
)

func Open(name string) (*Device, error) {
	return nil, fmt.Errorf("open tun device: %w", errors.ErrUnsupported)
}
