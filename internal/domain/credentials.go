package domain

import "strings"

// Credentials is the immutable session bundle produced by a successful login:
// portal endpoint, TLS policy, HTTP basic-auth pair, and the cookie state the
// portal handed back. It is shared by reference across every executor for the
// lifetime of the session and never mutated after construction.
type Credentials struct {
	BaseURL   string
	Username  string
	Password  string
	VerifyTLS bool
	Cookies   []Cookie
}

// Cookie is one saved session cookie, enough to reseed a cookie jar.
type Cookie struct {
	Name   string
	Value  string
	Path   string
	Domain string
}

// Ready reports whether the bundle carries enough state to talk to the portal.
func (c Credentials) Ready() bool {
	return strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.Username) != ""
}

// NormalizeBaseURL ensures a single trailing slash so relative CGI paths
// resolve under the portal root.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	return trimmed + "/"
}
