// Package safety implements the SSRF guard consulted before a redirect
// target is persisted.
package safety

import (
	"context"
	"net"
	"net/url"
	"time"
)

// CGNAT range, not covered by net.IP's built-in predicates.
var carrierGradeNAT = func() *net.IPNet {
	_, block, err := net.ParseCIDR("100.64.0.0/10")
	if err != nil {
		panic(err)
	}
	return block
}()

// LookupFunc resolves a hostname to all of its addresses.
type LookupFunc func(ctx context.Context, host string) ([]net.IPAddr, error)

// Checker reports whether a URL is safe to redirect to. Lookups are bounded
// by timeout and any failure counts as unsafe.
type Checker struct {
	lookup  LookupFunc
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		lookup:  net.DefaultResolver.LookupIPAddr,
		timeout: timeout,
	}
}

// IsPrivateOrUnsafe reports whether rawURL resolves to a non-public address.
// It fails closed: an unparseable URL, a failed or timed-out lookup, and an
// empty answer are all treated as unsafe.
func (c *Checker) IsPrivateOrUnsafe(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := u.Hostname() // strips IPv6 brackets
	if host == "" {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addrs, err := c.lookup(ctx, host)
	if err != nil || len(addrs) == 0 {
		return true
	}
	for _, addr := range addrs {
		if isNonPublic(addr.IP) {
			return true
		}
	}
	return false
}

func isNonPublic(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() || // RFC 1918 and IPv6 unique-local
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified() ||
		carrierGradeNAT.Contains(ip)
}
