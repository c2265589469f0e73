// client/reachability.go
package client

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Reachability reports whether the backend can be contacted at all.
type Reachability interface {
	Reachable(ctx context.Context) bool
}

// ReachabilityFunc adapts a plain function to Reachability.
type ReachabilityFunc func(ctx context.Context) bool

func (f ReachabilityFunc) Reachable(ctx context.Context) bool {
	return f(ctx)
}

// DialProbe opens and closes a TCP connection to Addr.
type DialProbe struct {
	Addr    string
	Timeout time.Duration
}

// NewDialProbe probes the host of baseURL, defaulting the port from the scheme.
func NewDialProbe(baseURL *url.URL, timeout time.Duration) *DialProbe {
	port := baseURL.Port()
	if port == "" {
		port = "80"
		if baseURL.Scheme == "https" {
			port = "443"
		}
	}
	return &DialProbe{
		Addr:    net.JoinHostPort(baseURL.Hostname(), port),
		Timeout: timeout,
	}
}

func (p *DialProbe) Reachable(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
