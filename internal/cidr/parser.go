// Package cidr validates IPv4 networks in CIDR notation and enumerates the
// addresses they contain.
package cidr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"go4.org/netipx"
)

var ErrInvalidRange = errors.New("invalid enumeration range")

// Parser accepts plain IPv4 prefixes only. Host bits in the address part are
// allowed; enumeration always starts at the masked network address.
type Parser struct{}

func NewParser() Parser {
	return Parser{}
}

func (Parser) IsValid(cidr string) bool {
	_, err := parse(cidr)
	return err == nil
}

// AddressesInRange returns up to count addresses starting offset addresses
// past the network address. The result is empty when offset lies beyond the
// end of the network.
func (Parser) AddressesInRange(cidr string, offset, count int) ([]netip.Addr, error) {
	if offset < 0 || count < 0 {
		return nil, fmt.Errorf("%w: offset %d, count %d", ErrInvalidRange, offset, count)
	}

	prefix, err := parse(cidr)
	if err != nil {
		return nil, err
	}

	r := netipx.RangeOfPrefix(prefix.Masked())
	first := uint64(toUint32(r.From()))
	last := uint64(toUint32(r.To()))

	var addrs []netip.Addr
	for n := first + uint64(offset); n <= last && len(addrs) < count; n++ {
		addrs = append(addrs, fromUint32(uint32(n)))
	}
	return addrs, nil
}

func parse(cidr string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, err
	}
	if !prefix.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("not an IPv4 network: %s", cidr)
	}
	return prefix, nil
}

func toUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:])
}

func fromUint32(n uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return netip.AddrFrom4(b)
}
