// Package portal implements the HTTP side of the Blackhole automation: the
// pooled per-worker connection client and the three executor families
// (create, retrieve, update) that drive the portal's CGI form endpoints.
package portal

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

const (
	requestTimeout   = 30 * time.Second
	maxResponseBytes = 4 << 20
)

// Client hands out one authenticated channel per worker token, built lazily
// from the immutable session credentials. The mutex guards only the map; it is
// never held across a network call.
type Client struct {
	creds domain.Credentials
	base  *url.URL

	mu       sync.Mutex
	channels map[int]*channel
	closed   bool
}

var _ ports.TransportPool = (*Client)(nil)

// NewClient validates the credential bundle once; all channels share it
// read-only afterwards.
func NewClient(creds domain.Credentials) (*Client, error) {
	base, err := url.Parse(domain.NormalizeBaseURL(creds.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: parse base url: %v", domain.ErrSetup, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("%w: base url %q is not absolute", domain.ErrSetup, creds.BaseURL)
	}

	return &Client{
		creds:    creds,
		base:     base,
		channels: make(map[int]*channel),
	}, nil
}

// ChannelFor returns the channel owned by the worker token, constructing and
// remembering it on first use. Construction failure for one token leaves every
// other token's channel untouched.
func (c *Client) ChannelFor(worker int) (ports.Transport, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: client already disposed", domain.ErrSetup)
	}
	if existing, ok := c.channels[worker]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.mu.Unlock()

	built, err := newChannel(c.creds, c.base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSetup, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		built.close()
		return nil, fmt.Errorf("%w: client already disposed", domain.ErrSetup)
	}
	if existing, ok := c.channels[worker]; ok {
		// Lost a race for the same token; the first channel wins.
		built.close()
		return existing, nil
	}
	c.channels[worker] = built
	return built, nil
}

// Close disposes every tracked channel. Subsequent calls are no-ops. Benign
// shutdown races are swallowed; genuine close failures are joined and
// surfaced.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	channels := make([]*channel, 0, len(c.channels))
	for _, channel := range c.channels {
		channels = append(channels, channel)
	}
	c.channels = nil
	c.mu.Unlock()

	var errs []error
	for _, channel := range channels {
		if err := channel.close(); err != nil && !isBenignCloseError(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// isBenignCloseError recognizes the shutdown races a disposal may hit when a
// transport is already torn down. Those are noise, not failures.
func isBenignCloseError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "already stopped")
}

// channel is one live authenticated request context: its own cookie jar
// seeded from the saved session state, basic auth on every request, and the
// shared TLS policy.
type channel struct {
	base *url.URL
	http *http.Client

	username string
	password string
}

var _ ports.Transport = (*channel)(nil)

func newChannel(creds domain.Credentials, base *url.URL) (*channel, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("build cookie jar: %w", err)
	}

	if len(creds.Cookies) > 0 {
		seeded := make([]*http.Cookie, 0, len(creds.Cookies))
		for _, cookie := range creds.Cookies {
			seeded = append(seeded, &http.Cookie{
				Name:   cookie.Name,
				Value:  cookie.Value,
				Path:   cookie.Path,
				Domain: cookie.Domain,
			})
		}
		jar.SetCookies(base, seeded)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			// The portal sits behind an internal CA; verification is off
			// unless the session explicitly enables it.
			InsecureSkipVerify: !creds.VerifyTLS, // #nosec G402
		},
	}

	return &channel{
		base: base,
		http: &http.Client{
			Jar:       jar,
			Timeout:   requestTimeout,
			Transport: transport,
		},
		username: creds.Username,
		password: creds.Password,
	}, nil
}

func (ch *channel) Get(ctx context.Context, path string, query url.Values) (ports.Response, error) {
	target, err := ch.resolve(path, query)
	if err != nil {
		return ports.Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ports.Response{}, fmt.Errorf("build GET %s: %w", path, err)
	}
	return ch.do(req)
}

func (ch *channel) PostForm(ctx context.Context, path string, query url.Values, form url.Values) (ports.Response, error) {
	target, err := ch.resolve(path, query)
	if err != nil {
		return ports.Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.Response{}, fmt.Errorf("build POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ch.do(req)
}

func (ch *channel) do(req *http.Request) (ports.Response, error) {
	if ch.username != "" {
		req.SetBasicAuth(ch.username, ch.password)
	}

	resp, err := ch.http.Do(req)
	if err != nil {
		return ports.Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ports.Response{}, fmt.Errorf("read response body: %w", err)
	}

	return ports.Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

func (ch *channel) resolve(path string, query url.Values) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	target := ch.base.ResolveReference(rel)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	return target.String(), nil
}

func (ch *channel) close() error {
	ch.http.CloseIdleConnections()
	return nil
}
