package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ClientIPExtractor resolves the client address, trusting forwarding headers
// only when the direct peer is a known proxy.
type ClientIPExtractor struct {
	trustedProxies []*net.IPNet
}

// DefaultTrustedProxies are loopback and the RFC 1918 private ranges.
var DefaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
}

func NewClientIPExtractor(trustedCIDRs []string) (*ClientIPExtractor, error) {
	e := &ClientIPExtractor{}
	for _, cidr := range trustedCIDRs {
		_, network, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy CIDR %q: %w", cidr, err)
		}
		e.trustedProxies = append(e.trustedProxies, network)
	}
	return e, nil
}

// ExtractClientIP returns the first valid X-Forwarded-For or X-Real-IP address
// when the peer is trusted, otherwise the peer address.
func (e *ClientIPExtractor) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil || !e.isTrustedProxy(parsed) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}
	return directIP
}

func (e *ClientIPExtractor) isTrustedProxy(ip net.IP) bool {
	for _, network := range e.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
