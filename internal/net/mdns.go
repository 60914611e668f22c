package net

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service relays advertise.
const ServiceType = "_sketchboard._tcp"

// Advertise announces a relay listening on port. Shut the returned server
// down to withdraw the announcement.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		ServiceType,
		"",
		"",
		port,
		[]net.IP{firstIPv4()},
		[]string{"SketchBoard relay"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse queries the local network for relays for up to timeout and calls
// found with each relay's host:port.
func Browse(timeout time.Duration, found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if addr, ok := entryAddr(e); ok {
				found(addr)
			}
		}
	}()

	err := mdns.Query(&mdns.QueryParam{
		Service:     ServiceType,
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	})
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("mdns query: %w", err)
	}
	return nil
}

// Discover returns the first relay found within timeout.
func Discover(timeout time.Duration) (string, error) {
	var first string
	err := Browse(timeout, func(addr string) {
		if first == "" {
			first = addr
		}
	})
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", fmt.Errorf("no relay found on the local network")
	}
	return first, nil
}

func entryAddr(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return "", false
	}
	return net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)), true
}

// firstIPv4 returns the first non-loopback IPv4 address of an interface
// that is up.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
