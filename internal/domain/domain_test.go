package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://blackhole.example.net/", NormalizeBaseURL("https://blackhole.example.net"))
	assert.Equal(t, "https://blackhole.example.net/", NormalizeBaseURL("https://blackhole.example.net///"))
	assert.Equal(t, "https://blackhole.example.net/", NormalizeBaseURL("  https://blackhole.example.net/ "))
	assert.Equal(t, "", NormalizeBaseURL("   "))
}

func TestCredentialsReady(t *testing.T) {
	t.Parallel()

	assert.False(t, Credentials{}.Ready())
	assert.False(t, Credentials{BaseURL: "https://portal/"}.Ready())
	assert.True(t, Credentials{BaseURL: "https://portal/", Username: "ops"}.Ready())
}

func TestRowEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, Row{}.Empty())
	assert.True(t, Row{Cells: []string{"", "  ", "\n"}}.Empty())
	assert.False(t, Row{Cells: []string{"", "101"}}.Empty())
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	require.NoError(t, StatusError(200))
	require.NoError(t, StatusError(302))

	assert.ErrorIs(t, StatusError(401), ErrAuthentication)

	err := StatusError(503)
	require.Error(t, err)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 503, remote.StatusCode)
}

func TestAbortedResult(t *testing.T) {
	t.Parallel()

	op := Operation{TargetID: "10.0.0.1/32", Action: ActionCreate}
	res := AbortedResult(op)

	assert.True(t, res.Aborted())
	assert.False(t, res.Success)
	assert.Equal(t, op.TargetID, res.TargetID)
	assert.Equal(t, op.Action, res.Action)
}
