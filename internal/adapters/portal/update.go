package portal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

// UpdateExecutor posts field edits against existing records: description,
// auto-close time, ticket association, and immediate close. No retry; the
// caller may simply re-issue.
type UpdateExecutor struct{}

var _ ports.UnitExecutor = (*UpdateExecutor)(nil)

func NewUpdateExecutor() *UpdateExecutor {
	return &UpdateExecutor{}
}

func (e *UpdateExecutor) Execute(ctx context.Context, op domain.Operation, channel ports.Transport) domain.Result {
	result := domain.Result{TargetID: op.TargetID, Action: op.Action}

	form, err := updateForm(op)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	query := url.Values{domain.ParamID: {op.TargetID}}
	resp, err := channel.PostForm(ctx, viewEndpoint, query, form)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.StatusCode = resp.StatusCode
	result.Body = resp.Body

	message, err := classifySubmission(resp)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Success = true
	result.Message = message
	return result
}

// updateForm reproduces the portal's four edit form shapes, including the
// submit-button fields its CGI handlers key on.
func updateForm(op domain.Operation) (url.Values, error) {
	switch op.Action {
	case domain.ActionSetDescription:
		return url.Values{
			domain.ParamID:          {op.TargetID},
			"action":                {"description"},
			domain.ParamDescription: {op.Param(domain.ParamDescription)},
			"Set":                   {"Set"},
		}, nil

	case domain.ActionSetAutoclose:
		// A blank close_text removes the auto-close.
		return url.Values{
			domain.ParamID:        {op.TargetID},
			"action":              {"autoclose"},
			domain.ParamCloseText: {op.Param(domain.ParamCloseText)},
			"Set auto-close time": {"Set auto-close time"},
		}, nil

	case domain.ActionAssociateTicket:
		system := op.Param(domain.ParamTicketSystem)
		if system == "" {
			system = DefaultTicketSystem
		}
		return url.Values{
			domain.ParamID:           {op.TargetID},
			"action":                 {"ticket"},
			domain.ParamTicketSystem: {system},
			domain.ParamTicketNumber: {op.Param(domain.ParamTicketNumber)},
			"Associate with ticket":  {"Associate with ticket"},
		}, nil

	case domain.ActionClose:
		return url.Values{
			domain.ParamID: {op.TargetID},
			"action":       {"close"},
			"Close Now":    {"Close Now"},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported update action %q", op.Action)
	}
}
