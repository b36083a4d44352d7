// tundump opens a TUN device and logs every packet the kernel routes into
// it. Useful for checking that a freshly configured interface actually
// sees traffic.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"tunio/internal/iputil"
	"tunio/internal/logging"
	"tunio/internal/netcfg"
	"tunio/pkg/tunio"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "tundump.yaml", "path to config file")
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
		logger.Error("tundump error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	dev, err := tunio.Open(cfg.Name)
	if err != nil {
		return err
	}
	defer dev.Close()
	dev.SetReadMTU(cfg.MTU)
	log.Info("device open", "name", dev.Name(), "mtu", cfg.MTU, "filter", cfg.Filter)

	if cfg.Address != "" {
		ic := netcfg.InterfaceConfig{Name: dev.Name(), Address: cfg.Address, MTU: cfg.MTU}
		if err := netcfg.ConfigureInterface(ic); err != nil {
			return fmt.Errorf("configure %s: %w", dev.Name(), err)
		}
		log.Info("interface configured", "addr", cfg.Address)
	}

	metrics := NewMetrics()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics listener", "err", err)
			}
		}()
		defer srv.Close()
	}

	// a blocked read only returns once the descriptor goes away
	go func() {
		<-ctx.Done()
		dev.Close()
	}()

	limiter := rate.NewLimiter(rate.Limit(cfg.LogPPS), cfg.LogPPS)
	for {
		pkt, err := readPacket(dev, cfg.Filter)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		metrics.Observe(strconv.Itoa(pkt.IPVersion()), pkt.Size())
		if !limiter.Allow() {
			continue
		}
		logPacket(log, pkt, cfg.HexDump)
	}
}

func readPacket(dev *tunio.Device, filter int) (*tunio.Packet, error) {
	switch filter {
	case 4:
		return dev.ReadIPv4()
	case 6:
		return dev.ReadIPv6()
	default:
		return dev.Read()
	}
}

func logPacket(log *slog.Logger, pkt *tunio.Packet, hexDump bool) {
	attrs := []any{"version", pkt.IPVersion(), "size", pkt.Size()}
	raw := pkt.Bytes()
	if src, err := iputil.Source(raw); err == nil {
		attrs = append(attrs, "src", src.String())
	}
	if dst, err := iputil.Dest(raw); err == nil {
		attrs = append(attrs, "dst", dst.String())
	}
	log.Info("packet", attrs...)
	if hexDump {
		log.Debug("payload", "hex", hex.EncodeToString(raw))
	}
}
