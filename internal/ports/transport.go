package ports

import (
	"context"
	"net/url"
)

// Response is the portal's answer to one request. The body is plain HTML; the
// portal has no structured response format.
type Response struct {
	StatusCode int
	Body       string
}

// Transport is one authenticated, reusable request channel bound to a single
// worker. Implementations block only on network I/O.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values) (Response, error)
	PostForm(ctx context.Context, path string, query url.Values, form url.Values) (Response, error)
}

// TransportPool hands out one Transport per worker token, creating channels
// lazily and remembering them so a worker never re-authenticates per unit.
type TransportPool interface {
	// ChannelFor returns the channel owned by the worker token, building it
	// on first use. A construction failure for one token must not corrupt
	// channels already owned by other tokens.
	ChannelFor(worker int) (Transport, error)

	// Close disposes every tracked channel. Safe to call more than once;
	// benign shutdown races are swallowed, genuine close failures surface.
	Close() error
}
