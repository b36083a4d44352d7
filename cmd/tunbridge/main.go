// tunbridge copies packets between two TUN devices in both directions.
// With an address on each side it turns the pair into a crude veth-style
// link, which is enough to exercise a routing setup end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tunio/internal/bufferpool"
	"tunio/internal/logging"
	"tunio/internal/netcfg"
	"tunio/pkg/tunio"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "tunbridge.yaml", "path to config file")
	flag.Parse()

	cfg, err := LoadConfig(configPath)
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON, os.Stderr)
	if err != nil {
		slog.Error("logger error", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && err != context.Canceled {
		logger.Error("tunbridge error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	left, err := openDevice(cfg.Left, cfg.MTU, log)
	if err != nil {
		return err
	}
	defer left.Close()

	right, err := openDevice(cfg.Right, cfg.MTU, log)
	if err != nil {
		return err
	}
	defer right.Close()

	// closing both devices unblocks the pump reads
	go func() {
		<-ctx.Done()
		left.Close()
		right.Close()
	}()

	// pump buffers need headroom for the platform framing tag
	headroom := left.Framing().HeaderLen()
	if hl := right.Framing().HeaderLen(); hl > headroom {
		headroom = hl
	}
	pool := bufferpool.New(headroom + cfg.MTU)

	errc := make(chan error, 2)
	go pump(left, right, pool, errc)
	go pump(right, left, pool, errc)
	log.Info("bridge running", "left", left.Name(), "right", right.Name(), "mtu", cfg.MTU)

	err = <-errc
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func openDevice(dc DeviceConfig, mtu int, log *slog.Logger) (*tunio.Device, error) {
	dev, err := tunio.Open(dc.Name)
	if err != nil {
		return nil, err
	}
	dev.SetReadMTU(mtu)
	if dc.Address != "" {
		ic := netcfg.InterfaceConfig{Name: dev.Name(), Address: dc.Address, MTU: mtu}
		if err := netcfg.ConfigureInterface(ic); err != nil {
			dev.Close()
			return nil, fmt.Errorf("configure %s: %w", dev.Name(), err)
		}
	}
	log.Info("device open", "name", dev.Name(), "addr", dc.Address)
	return dev, nil
}

func pump(src, dst *tunio.Device, pool *bufferpool.Pool, errc chan<- error) {
	for {
		buf := pool.Get()
		n, err := src.ReadInto(buf)
		if err != nil {
			errc <- err
			return
		}
		err = dst.WriteBytes(buf[:n])
		pool.Put(buf)
		if err != nil {
			errc <- err
			return
		}
	}
}
