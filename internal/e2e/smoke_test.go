package e2e

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte("Logged in as noc-user. Blackhole Route Portal"))
		case "/search.cgi":
			_, _ = w.Write([]byte(`<html><table>
<tr><th>ID</th><th>IP Address</th></tr>
<tr><td>101</td><td>10.0.0.1</td></tr>
</table></html>`))
		case "/new.cgi":
			_, _ = w.Write([]byte("Blackhole successfully created"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(portal.Close)

	stdout, stderr, err := runBH(t, binaryPath, home,
		"login", "--url", portal.URL, "--user", "noc-user")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "logged in as noc-user")

	stdout, stderr, err = runBH(t, binaryPath, home, "search", "--active", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "\"completed\"")
	assert.Contains(t, stdout, "10.0.0.1")

	stdout, stderr, err = runBH(t, binaryPath, home,
		"create", "10.0.0.9/32", "--ticket", "TKT-1", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "\"successes\": 1")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "bh-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bh")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build bh binary: %s", string(output))
	return binaryPath
}

func runBH(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "BH_HTTP_PASS=e2e-password")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
