package httpx

import (
	"net/http"
	"os"
	"strings"
	"time"
)

// ProxyEnvVar selects the outbound proxy for both API clients.
const ProxyEnvVar = "TWEET_AGENT_PROXY"

type ClientOptions struct {
	Timeout time.Duration

	// UseEnvProxy applies TWEET_AGENT_PROXY semantics:
	// - unset / "direct": no proxy (even if HTTP_PROXY / HTTPS_PROXY is set)
	// - "env": ProxyFromEnvironment
	// - URL / host:port: fixed http(s) proxy
	// - socks5://host:port: SOCKS5 dialer
	UseEnvProxy bool

	// Proxy overrides UseEnvProxy when non-empty.
	Proxy string

	// Transport allows providing a pre-configured transport.
	// When nil, it clones http.DefaultTransport.
	Transport *http.Transport
}

func NewClient(opts ClientOptions) (*http.Client, error) {
	var transport *http.Transport
	if opts.Transport != nil {
		transport = opts.Transport.Clone()
	} else {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	transport.Proxy = nil

	proxyRaw := strings.TrimSpace(opts.Proxy)
	if proxyRaw == "" && opts.UseEnvProxy {
		proxyRaw = strings.TrimSpace(os.Getenv(ProxyEnvVar))
	}
	if proxyRaw != "" {
		if err := ApplyProxy(transport, proxyRaw); err != nil {
			return nil, err
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
