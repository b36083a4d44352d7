//go:build !linux && !darwin

package netcfg

import "errors"

var errNotSupported = errors.New("interface configuration not supported on this platform")

func ConfigureInterface(cfg InterfaceConfig) error { return errNotSupported }
