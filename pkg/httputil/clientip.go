package httputil

import (
	"fmt"
	"net"
	"strings"

	"github.com/valyala/fasthttp"
)

// ForwardedForHeader is appended to by each proxy a request passes through
const ForwardedForHeader = "X-Forwarded-For"

// ClientIP returns the socket address of the peer
func ClientIP(ctx *fasthttp.RequestCtx) string {
	return ctx.RemoteIP().String()
}

// IPResolver identifies the client of a request. X-Forwarded-For is only
// read when the peer is a trusted proxy, and then from the right: the
// first hop that is not itself a trusted proxy is the client.
type IPResolver struct {
	trusted []*net.IPNet
}

// NewIPResolver parses proxies given as plain addresses or CIDRs
func NewIPResolver(proxies []string) (*IPResolver, error) {
	r := &IPResolver{}
	for _, proxy := range proxies {
		if _, network, err := net.ParseCIDR(proxy); err == nil {
			r.trusted = append(r.trusted, network)
			continue
		}
		ip := net.ParseIP(proxy)
		if ip == nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", proxy)
		}
		bits := 8 * net.IPv4len
		if ip.To4() == nil {
			bits = 8 * net.IPv6len
		}
		r.trusted = append(r.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return r, nil
}

// ClientIP returns the client address of ctx. A nil resolver trusts nobody.
func (r *IPResolver) ClientIP(ctx *fasthttp.RequestCtx) string {
	remote := ctx.RemoteIP()
	if r == nil || !r.isTrusted(remote) {
		return remote.String()
	}

	hops := strings.Split(string(ctx.Request.Header.Peek(ForwardedForHeader)), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			break
		}
		if !r.isTrusted(ip) {
			return ip.String()
		}
	}
	return remote.String()
}

func (r *IPResolver) isTrusted(ip net.IP) bool {
	for _, network := range r.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
