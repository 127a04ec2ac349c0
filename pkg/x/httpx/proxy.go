package httpx

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	netproxy "golang.org/x/net/proxy"
)

// ApplyProxy configures transport according to raw (see ClientOptions.UseEnvProxy).
func ApplyProxy(transport *http.Transport, raw string) error {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "0", "false", "off", "no", "none", "direct":
		transport.Proxy = nil
		return nil
	case "env":
		transport.Proxy = http.ProxyFromEnvironment
		return nil
	}

	u, err := ParseProxyURL(raw)
	if err != nil {
		return fmt.Errorf("invalid proxy %q: %w", raw, err)
	}
	if u.Scheme == "socks5" || u.Scheme == "socks5h" {
		dialer, err := netproxy.FromURL(u, &net.Dialer{})
		if err != nil {
			return fmt.Errorf("socks5 dialer: %w", err)
		}
		ctxDialer, ok := dialer.(netproxy.ContextDialer)
		if !ok {
			return fmt.Errorf("socks5 dialer does not support context")
		}
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return ctxDialer.DialContext(ctx, network, addr)
		}
		return nil
	}
	transport.Proxy = http.ProxyURL(u)
	return nil
}

func ParseProxyURL(raw string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty proxy url")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported scheme %q (only http/https/socks5)", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return nil, fmt.Errorf("missing host")
	}
	return u, nil
}
