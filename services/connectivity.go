package services

import (
	"context"
	"sync/atomic"
	"time"
)

// PingFunc probes a backend dependency; nil error means reachable.
type PingFunc func(ctx context.Context) error

// PingMonitor polls a dependency and caches the result, so checkout can
// gate on connectivity without paying a probe per request.
type PingMonitor struct {
	ping     PingFunc
	interval time.Duration
	online   atomic.Bool
	stop     chan struct{}
}

func NewPingMonitor(ping PingFunc, interval time.Duration) *PingMonitor {
	m := &PingMonitor{ping: ping, interval: interval, stop: make(chan struct{})}
	m.online.Store(true)
	return m
}

func (m *PingMonitor) Online() bool { return m.online.Load() }

// Start polls until Stop. The first probe runs immediately.
func (m *PingMonitor) Start() {
	go func() {
		m.probe()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.probe()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *PingMonitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	m.online.Store(m.ping(ctx) == nil)
}

func (m *PingMonitor) Stop() { close(m.stop) }

// StaticMonitor is the test double.
type StaticMonitor struct{ Up bool }

func (m StaticMonitor) Online() bool { return m.Up }
