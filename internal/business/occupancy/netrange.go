package occupancy

import (
	"strconv"
	"strings"
)

// ipToInt parses a dotted-quad IPv4 address into a uint32. The second return
// value is false for anything that is not four in-range octets.
func ipToInt(ip string) (uint32, bool) {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return 0, false
	}
	var n uint32
	for _, p := range parts {
		octet, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0, false
		}
		n = n<<8 | uint32(octet)
	}
	return n, true
}

// AddressInRange reports whether ip falls inside the CIDR range. A range
// without a prefix length matches every address (mask 0); malformed input
// never matches.
func AddressInRange(ip, cidr string) bool {
	network := cidr
	var mask uint32
	if i := strings.IndexByte(cidr, '/'); i >= 0 {
		network = cidr[:i]
		bits, err := strconv.Atoi(cidr[i+1:])
		if err != nil || bits < 0 || bits > 32 {
			return false
		}
		if bits > 0 {
			mask = ^uint32(0) << (32 - bits)
		}
	}
	addr, ok := ipToInt(ip)
	if !ok {
		return false
	}
	net, ok := ipToInt(network)
	if !ok {
		return false
	}
	return addr&mask == net&mask
}

// NormalizeRanges splits a comma-separated range list, trims whitespace,
// drops empty entries, and turns bare addresses into /32 host ranges.
func NormalizeRanges(raw string) []string {
	var ranges []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			entry += "/32"
		}
		ranges = append(ranges, entry)
	}
	return ranges
}

// MatchesAny reports whether ip falls inside at least one of the ranges.
// An empty range list matches nothing.
func MatchesAny(ip string, ranges []string) bool {
	for _, r := range ranges {
		if AddressInRange(ip, r) {
			return true
		}
	}
	return false
}
