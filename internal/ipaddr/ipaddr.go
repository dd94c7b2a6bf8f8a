// Package ipaddr holds the address and network parsing shared by ingestion and filtering.
package ipaddr

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/L1nMay/scanresults/internal/model"
)

// ParseNetwork parses an address or address/prefix. Parsing is strict: a prefix
// with host bits set (10.0.0.1/24) is rejected, a bare address is a single-host network.
func ParseNetwork(spec string) (netip.Prefix, error) {
	if strings.Contains(spec, "/") {
		p, err := netip.ParsePrefix(spec)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("%w: %q", model.ErrInvalidNetworkSpec, spec)
		}
		if p.Masked() != p {
			return netip.Prefix{}, fmt.Errorf("%w: %q has host bits set", model.ErrInvalidNetworkSpec, spec)
		}
		return p, nil
	}

	addr, err := netip.ParseAddr(spec)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: %q", model.ErrInvalidNetworkSpec, spec)
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// IsDottedQuad reports whether s has four dot separated parts.
func IsDottedQuad(s string) bool {
	return len(strings.Split(s, ".")) == 4
}

// Compare orders addresses numerically: IPv4 before IPv6, unparsable strings
// last in lexicographic order.
func Compare(a, b string) int {
	pa, errA := netip.ParseAddr(a)
	pb, errB := netip.ParseAddr(b)
	switch {
	case errA == nil && errB == nil:
		if c := pa.Compare(pb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Slash16 returns the first two dot separated labels of an address.
func Slash16(addr string) string {
	parts := strings.Split(addr, ".")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, ".")
}
