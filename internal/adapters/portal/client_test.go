package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

func testCredentials(baseURL string) domain.Credentials {
	return domain.Credentials{
		BaseURL:  baseURL,
		Username: "ops",
		Password: "hunter2",
	}
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(domain.Credentials{BaseURL: "not a url", Username: "ops"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSetup)
}

func TestChannelForReturnsSameChannelPerWorker(t *testing.T) {
	t.Parallel()

	client, err := NewClient(testCredentials("https://blackhole.example.net/"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	first, err := client.ChannelFor(0)
	require.NoError(t, err)
	again, err := client.ChannelFor(0)
	require.NoError(t, err)
	other, err := client.ChannelFor(1)
	require.NoError(t, err)

	assert.Same(t, first, again)
	assert.NotSame(t, first, other)
}

func TestChannelForDistinctWorkersConcurrently(t *testing.T) {
	t.Parallel()

	client, err := NewClient(testCredentials("https://blackhole.example.net/"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	const workers = 8
	channels := make([]ports.Transport, workers)
	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			channel, err := client.ChannelFor(worker)
			assert.NoError(t, err)
			channels[worker] = channel
		}(worker)
	}
	wg.Wait()

	seen := make(map[ports.Transport]struct{}, workers)
	for _, channel := range channels {
		require.NotNil(t, channel)
		seen[channel] = struct{}{}
	}
	assert.Len(t, seen, workers, "every worker owns its own channel")
}

func TestCloseIsIdempotentAndBlocksNewChannels(t *testing.T) {
	t.Parallel()

	client, err := NewClient(testCredentials("https://blackhole.example.net/"))
	require.NoError(t, err)

	_, err = client.ChannelFor(0)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err = client.ChannelFor(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSetup)
}

func TestChannelSendsBasicAuthAndFormBody(t *testing.T) {
	t.Parallel()

	var gotUser, gotPass, gotBody, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Encode()
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(testCredentials(server.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	channel, err := client.ChannelFor(0)
	require.NoError(t, err)

	resp, err := channel.PostForm(context.Background(), "new.cgi", nil, map[string][]string{"ipaddress": {"10.0.0.1/32"}})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", resp.Body)
	assert.Equal(t, "ops", gotUser)
	assert.Equal(t, "hunter2", gotPass)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "ipaddress=10.0.0.1%2F32", gotBody)
}

func TestChannelResolvesRelativePathsAndQuery(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("<html></html>"))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(testCredentials(server.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	channel, err := client.ChannelFor(0)
	require.NoError(t, err)

	_, err = channel.Get(context.Background(), "view.cgi", map[string][]string{"id": {"42"}})
	require.NoError(t, err)

	assert.Equal(t, "/view.cgi", gotPath)
	assert.Equal(t, "id=42", gotQuery)
}

func TestChannelSeedsSavedCookies(t *testing.T) {
	t.Parallel()

	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("bhsession"); err == nil {
			gotCookie = cookie.Value
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	creds := testCredentials(server.URL)
	creds.Cookies = []domain.Cookie{{Name: "bhsession", Value: "abc123", Path: "/"}}

	client, err := NewClient(creds)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	channel, err := client.ChannelFor(0)
	require.NoError(t, err)

	_, err = channel.Get(context.Background(), "view.cgi", nil)
	require.NoError(t, err)
	assert.Equal(t, "abc123", gotCookie)
}

func TestIsBenignCloseError(t *testing.T) {
	t.Parallel()

	assert.True(t, isBenignCloseError(nil))
	assert.True(t, isBenignCloseError(assertableError("use of closed network connection")))
	assert.True(t, isBenignCloseError(assertableError("transport already stopped")))
	assert.False(t, isBenignCloseError(assertableError("connection reset by peer")))
}

type assertableError string

func (e assertableError) Error() string { return string(e) }
