// Package resolver derives the first host address of an IPv4 network and its
// IPv4-mapped IPv6 form.
package resolver

import (
	"errors"
	"fmt"
	"net/netip"

	"go.uber.org/zap"

	"ipresolver/internal/model"
)

// ErrInvalidCIDR is returned for any input that does not name an IPv4
// network with a host at offset 1.
var ErrInvalidCIDR = errors.New("invalid CIDR")

// CIDRParser validates CIDR strings and enumerates the addresses of the
// network they describe. Offset 0 is the network address.
type CIDRParser interface {
	IsValid(cidr string) bool
	AddressesInRange(cidr string, offset, count int) ([]netip.Addr, error)
}

// Callback receives the result first and the error second, the order the
// workflow engine expects.
type Callback func(result model.AddressResult, err error)

type Resolver struct {
	parser CIDRParser
	logger *zap.Logger
}

func NewResolver(parser CIDRParser, logger *zap.Logger) *Resolver {
	logger.Info("Starting address resolver")
	return &Resolver{
		parser: parser,
		logger: logger,
	}
}

// Resolve returns the first host of cidr. On failure both result fields are
// empty and the error wraps ErrInvalidCIDR.
func (r *Resolver) Resolve(cidr string) (model.AddressResult, error) {
	if !r.parser.IsValid(cidr) {
		return model.AddressResult{}, fmt.Errorf("%w: %q", ErrInvalidCIDR, cidr)
	}

	addrs, err := r.parser.AddressesInRange(cidr, 1, 1)
	if err != nil {
		return model.AddressResult{}, fmt.Errorf("%w: %q: %v", ErrInvalidCIDR, cidr, err)
	}
	// A /32 has nothing past its network address.
	if len(addrs) == 0 || !addrs[0].Is4() {
		return model.AddressResult{}, fmt.Errorf("%w: %q has no host address at offset 1", ErrInvalidCIDR, cidr)
	}

	first := addrs[0]
	return model.AddressResult{
		IPv4: first.String(),
		IPv6: MapIPv4ToIPv6(first),
	}, nil
}

// GetFirstIPAddress delivers the outcome of Resolve to callback exactly once.
func (r *Resolver) GetFirstIPAddress(cidr string, callback Callback) {
	result, err := r.Resolve(cidr)
	callback(result, err)
}

// MapIPv4ToIPv6 renders addr in the uncompressed IPv4-mapped form, each
// octet as two hex digits: 172.16.4.33 becomes 0:0:0:0:0:ffff:ac10:0421.
func MapIPv4ToIPv6(addr netip.Addr) string {
	b := addr.Unmap().As4()
	return fmt.Sprintf("0:0:0:0:0:ffff:%02x%02x:%02x%02x", b[0], b[1], b[2], b[3])
}
