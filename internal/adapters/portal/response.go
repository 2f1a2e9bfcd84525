package portal

import (
	"strings"

	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

// The portal returns no structured success codes; case-insensitive substring
// matching on the response body is its actual contract. The heuristic lives in
// this one function so it can be swapped if the portal's responses change.

var createdMarkers = []string{
	"successfully created",
	"blackhole created",
	"success",
}

// classifySubmission maps one form-submission response to (message, error).
// Any non-error status with no explicit error marker counts as accepted.
func classifySubmission(resp ports.Response) (string, error) {
	if err := domain.StatusError(resp.StatusCode); err != nil {
		return "", err
	}

	lower := strings.ToLower(resp.Body)
	for _, marker := range createdMarkers {
		if strings.Contains(lower, marker) {
			return "accepted by portal", nil
		}
	}
	return "submitted (no error detected)", nil
}
