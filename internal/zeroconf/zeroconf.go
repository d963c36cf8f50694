// Package zeroconf advertises the msiecd HTTP API over mDNS/DNS-SD so that
// clients on the LAN can find the machine without knowing its address.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandcat/zeroconf"
	"github.com/micro-nova/msiec-go/internal/models"
)

// ServiceType is the DNS-SD service type of the API.
const ServiceType = "_msiec._tcp"

// Service manages mDNS service registration.
type Service struct {
	name string // instance name, usually the hostname
	port int
	txt  []string
}

// New creates a service that will advertise the API on port with TXT
// records describing info.
func New(name string, port int, info models.Info) *Service {
	return &Service{
		name: name,
		port: port,
		txt:  TXTRecords(info),
	}
}

// TXTRecords returns the key=value TXT entries for info. Empty values are
// left out.
func TXTRecords(info models.Info) []string {
	var txt []string
	add := func(k, v string) {
		if v != "" {
			txt = append(txt, k+"="+v)
		}
	}
	add("version", info.Version)
	add("model", info.Model)
	add("firmware", info.Firmware)
	add("transport", info.Transport)
	return txt
}

// Start registers the mDNS service and blocks until ctx is cancelled, at which
// point it shuts down the server cleanly.
func (s *Service) Start(ctx context.Context) error {
	server, err := zeroconf.Register(
		s.name,
		ServiceType,
		"local.",
		s.port,
		s.txt,
		nil, // all interfaces
	)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	slog.Info("zeroconf: registered mDNS service",
		"name", s.name,
		"port", s.port,
		"txt", s.txt,
	)

	<-ctx.Done()

	server.Shutdown()
	slog.Info("zeroconf: mDNS service unregistered")
	return nil
}
