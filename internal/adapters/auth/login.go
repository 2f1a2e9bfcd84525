// Package auth verifies portal credentials by probing the portal root with
// HTTP basic auth and capturing the session cookies the portal hands back.
package auth

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

const (
	probeTimeout      = 30 * time.Second
	maxProbeBodyBytes = 1 << 20
)

// bannerMarkers identify a portal page served to an authenticated session.
// The portal has no structured login response; these substrings are its
// actual contract.
var bannerMarkers = []string{
	"logged in as",
	"blackhole route",
}

type Prober struct {
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Login probes the portal with the given credentials. On success it returns
// the same bundle enriched with whatever cookies the portal set. A 401 maps
// to ErrAuthentication; any other error status is surfaced as a remote error.
func (p Prober) Login(ctx context.Context, creds domain.Credentials) (domain.Credentials, error) {
	base := domain.NormalizeBaseURL(creds.BaseURL)
	if base == "" {
		return domain.Credentials{}, errors.New("portal base url is required")
	}
	if strings.TrimSpace(creds.Username) == "" {
		return domain.Credentials{}, errors.New("portal username is required")
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("parse portal base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("create cookie jar: %w", err)
	}

	client := p.HTTPClient
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					// #nosec G402 -- internal portals commonly run self-signed certs.
					InsecureSkipVerify: !creds.VerifyTLS,
				},
			},
		}
	}
	probeClient := &http.Client{
		Transport: client.Transport,
		Jar:       jar,
		Timeout:   p.timeout(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("build probe request: %w", err)
	}
	req.SetBasicAuth(creds.Username, creds.Password)

	resp, err := probeClient.Do(req)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("probe portal: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBodyBytes))
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read probe response: %w", err)
	}

	if err := domain.StatusError(resp.StatusCode); err != nil {
		return domain.Credentials{}, err
	}

	if !looksAuthenticated(string(body)) {
		return domain.Credentials{}, domain.ErrAuthentication
	}

	out := creds
	out.BaseURL = base
	out.Cookies = collectCookies(jar, baseURL)
	return out, nil
}

func (p Prober) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return probeTimeout
}

func looksAuthenticated(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range bannerMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func collectCookies(jar http.CookieJar, baseURL *url.URL) []domain.Cookie {
	raw := jar.Cookies(baseURL)
	if len(raw) == 0 {
		return nil
	}

	cookies := make([]domain.Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, domain.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Path:   c.Path,
			Domain: c.Domain,
		})
	}
	return cookies
}
