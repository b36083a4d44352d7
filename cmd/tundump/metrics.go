package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	packets *prometheus.CounterVec
	bytes   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		packets: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tundump_packets_total",
			Help: "Packets read from the device",
		}, []string{"version"}),
		bytes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tundump_bytes_total",
			Help: "Payload bytes read from the device",
		}, []string{"version"}),
	}
}

func (m *Metrics) Observe(version string, size int) {
	m.packets.WithLabelValues(version).Inc()
	m.bytes.WithLabelValues(version).Add(float64(size))
}
