package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/txthinking/socks5"
)

const (
	// NetworkDialTimeout - timeout for connecting to a server
	NetworkDialTimeout = 5 * time.Second
	// NetworkRequestTimeout - timeout for a single HTTP request
	NetworkRequestTimeout = 15 * time.Second
	// NetworkLongTimeout - timeout for long operations (image downloads)
	NetworkLongTimeout = 30 * time.Second
)

// CreateHTTPClient creates an HTTP client with proper timeouts. When
// socksProxy is non-empty (host:port) all connections go through that
// SOCKS5 server; map servers are often reachable only from inside a VPN.
func CreateHTTPClient(timeout time.Duration, socksProxy string) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   NetworkDialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableKeepAlives:     false,
	}
	if socksProxy != "" {
		transport.DialContext = socksDialContext(socksProxy)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// socksDialContext returns a dialer that tunnels through the given SOCKS5
// server. A socks5.Client holds a single proxy connection, so each dial
// builds a fresh one.
func socksDialContext(proxyAddr string) func(ctx context.Context, network, addr string) (net.Conn, error) {
	tcpTimeout := int(NetworkDialTimeout / time.Second)
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		client, err := socks5.NewClient(proxyAddr, "", "", tcpTimeout, 0)
		if err != nil {
			return nil, fmt.Errorf("socks5 proxy %s: %w", proxyAddr, err)
		}
		conn, err := client.Dial(network, addr)
		if err != nil {
			return nil, fmt.Errorf("socks5 dial via %s: %w", proxyAddr, err)
		}
		return conn, nil
	}
}

// IsNetworkError reports whether err looks like a connectivity problem
// rather than a server-side failure. The service clients wrap transport
// errors, so matching unwraps.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// GetNetworkErrorMessage returns a human readable message for a network error
func GetNetworkErrorMessage(err error) string {
	if err == nil {
		return "Unknown network error"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("DNS error: cannot resolve hostname (%s)", dnsErr.Name)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Network timeout: connection timed out"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return "Network error: cannot connect to server"
		}
		return fmt.Sprintf("Network error: %s", opErr.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout: operation took too long"
	}

	if errors.Is(err, context.Canceled) {
		return "Request canceled"
	}

	return fmt.Sprintf("Network error: %s", err.Error())
}
