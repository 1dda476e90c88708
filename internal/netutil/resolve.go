package netutil

import (
	"context"
	"net"
	"strings"
	"time"
)

// LookupTimeout bounds reverse lookups so a slow resolver only delays logging.
const LookupTimeout = 2 * time.Second

// HostName returns a human readable name for addr and its IP. When the
// reverse lookup fails, or addr carries no IP, name is the IP itself.
func HostName(ctx context.Context, addr net.Addr) (name string, ip string) {
	ip = addr.String()

	switch a := addr.(type) {
	case *net.UDPAddr:
		ip = a.IP.String()
	case *net.TCPAddr:
		ip = a.IP.String()
	default:
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	}

	ctx, cancel := context.WithTimeout(ctx, LookupTimeout)
	defer cancel()

	names, err := net.DefaultResolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ip, ip
	}

	return strings.TrimSuffix(names[0], "."), ip
}
