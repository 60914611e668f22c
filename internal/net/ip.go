package net

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
)

// ShareScheme prefixes links handed to other participants.
const ShareScheme = "sketchboard://"

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route out; fall back to the interfaces.
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// getLocalIPFallback is used on networks without internet access.
func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	log.Println("[Net] No suitable local IP found, share link may not work")
	return "127.0.0.1", nil
}

// ShareLink builds the link other participants open to join.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s", ShareScheme, net.JoinHostPort(host, fmt.Sprint(port)))
}

// RelayURL turns a share link, host:port, or http/ws URL into the
// websocket endpoint of a relay.
func RelayURL(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("empty relay address")
	}
	if strings.HasPrefix(addr, ShareScheme) {
		addr = strings.TrimSuffix(strings.TrimPrefix(addr, ShareScheme), "/")
	}
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("parse relay address: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported relay scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("relay address %q has no host", addr)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}
