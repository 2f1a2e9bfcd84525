package portal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

const (
	createEndpoint = "new.cgi"
	createAttempts = 3
	createRetryGap = 2 * time.Second

	// DefaultTicketSystem is the portal's default ticketing backend.
	DefaultTicketSystem = "NTM-Remedy"
)

// CreateDefaults carries the batch-wide fields shared by every IP in one bulk
// create; per-operation params override them.
type CreateDefaults struct {
	TicketSystem  string
	TicketNumber  string
	AutocloseTime string
	Description   string
}

// Validate enforces the portal's admission rule: a blank autoclose means "No
// Auto-close", so at least a ticket or an autoclose time must be present.
func (d CreateDefaults) Validate() error {
	if strings.TrimSpace(d.TicketNumber) == "" && strings.TrimSpace(d.AutocloseTime) == "" {
		return errors.New("either a ticket number or an autoclose time is required (blank = No Auto-close)")
	}
	return nil
}

// CreateExecutor submits one null-route record per operation to new.cgi,
// retrying transient failures a fixed number of times with a fixed delay.
// Authentication rejections are final immediately.
type CreateExecutor struct {
	defaults CreateDefaults
	clock    ports.Clock
}

var _ ports.UnitExecutor = (*CreateExecutor)(nil)

func NewCreateExecutor(defaults CreateDefaults) (*CreateExecutor, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(defaults.TicketSystem) == "" {
		defaults.TicketSystem = DefaultTicketSystem
	}
	if defaults.Description == "" && defaults.TicketNumber != "" {
		defaults.Description = fmt.Sprintf("CASE #%s", defaults.TicketNumber)
	}
	return &CreateExecutor{defaults: defaults, clock: ports.SystemClock{}}, nil
}

// WithClock swaps the clock; tests use it to skip the retry delay.
func (e *CreateExecutor) WithClock(clock ports.Clock) *CreateExecutor {
	e.clock = clock
	return e
}

func (e *CreateExecutor) Execute(ctx context.Context, op domain.Operation, channel ports.Transport) domain.Result {
	start := e.clock.Now()
	result := domain.Result{TargetID: op.TargetID, Action: domain.ActionCreate}
	form := e.form(op)

	for attempt := 1; attempt <= createAttempts; attempt++ {
		resp, err := channel.PostForm(ctx, createEndpoint, nil, form)
		if err == nil {
			result.StatusCode = resp.StatusCode
			result.Body = resp.Body

			var message string
			message, err = classifySubmission(resp)
			if err == nil {
				result.Success = true
				result.Message = message
				break
			}
		}

		if errors.Is(err, domain.ErrAuthentication) {
			result.Success = false
			result.Message = err.Error()
			break
		}

		if attempt == createAttempts {
			result.Success = false
			result.Message = fmt.Sprintf("failed after %d attempts: %v", createAttempts, err)
			break
		}
		e.clock.Sleep(createRetryGap)
	}

	result.Elapsed = e.clock.Now().Sub(start)
	return result
}

func (e *CreateExecutor) form(op domain.Operation) url.Values {
	pick := func(key, fallback string) string {
		if v := op.Param(key); v != "" {
			return v
		}
		return fallback
	}

	return url.Values{
		domain.ParamIPAddress:     {op.TargetID},
		domain.ParamTicketSystem:  {pick(domain.ParamTicketSystem, e.defaults.TicketSystem)},
		domain.ParamTicketNumber:  {pick(domain.ParamTicketNumber, e.defaults.TicketNumber)},
		domain.ParamAutocloseTime: {pick(domain.ParamAutocloseTime, e.defaults.AutocloseTime)},
		domain.ParamDescription:   {pick(domain.ParamDescription, e.defaults.Description)},
	}
}
