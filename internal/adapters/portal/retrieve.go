package portal

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/prajeetp/blackhole-cli/internal/adapters/htmltable"
	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

const (
	viewEndpoint   = "view.cgi"
	searchEndpoint = "search.cgi"
)

// Filters is one search intent. Exactly one filter family is applied, checked
// in the portal's precedence order: record ID, ticket, opener, IP address,
// open date; with nothing set the search falls back to all active holes.
type Filters struct {
	BlackholeID  string
	TicketSystem string
	TicketNumber string
	OpenedBy     string
	IPAddress    string
	View         string
	Month        string
	Year         string
	Description  string
}

// Operation materializes the filter into one retrieve descriptor.
func (f Filters) Operation() domain.Operation {
	endpoint, payload := f.payload()

	params := make(map[string]string, len(payload)+1)
	for key := range payload {
		params[key] = payload.Get(key)
	}
	params["endpoint"] = endpoint

	return domain.Operation{
		TargetID: f.label(),
		Action:   domain.ActionRetrieve,
		Params:   params,
	}
}

func (f Filters) payload() (string, url.Values) {
	if f.BlackholeID != "" {
		return viewEndpoint, url.Values{
			domain.ParamSearchBy: {"blackhole_id"},
			domain.ParamID:       {f.BlackholeID},
		}
	}

	if f.TicketNumber != "" {
		return searchEndpoint, url.Values{
			domain.ParamSearchBy:     {"ticket"},
			domain.ParamTicketSystem: {normalizeTicketSystem(f.TicketSystem)},
			domain.ParamTicketNumber: {f.TicketNumber},
		}
	}

	if f.OpenedBy != "" {
		return searchEndpoint, url.Values{
			domain.ParamSearchBy: {"open_user"},
			domain.ParamUser:     {f.OpenedBy},
		}
	}

	if f.IPAddress != "" {
		view := f.View
		if view == "" {
			view = "Both"
		}
		return searchEndpoint, url.Values{
			domain.ParamSearchBy:  {"ipaddress"},
			domain.ParamIPAddress: {f.IPAddress},
			domain.ParamView:      {view},
		}
	}

	if f.Month != "" || f.Year != "" {
		month := f.Month
		if month == "" {
			month = "01"
		}
		year := f.Year
		if year == "" {
			year = "2020"
		}
		return searchEndpoint, url.Values{
			domain.ParamSearchBy:    {"open_date"},
			domain.ParamMonth:       {MonthNumber(month)},
			domain.ParamYear:        {year},
			domain.ParamDescription: {f.Description},
		}
	}

	return searchEndpoint, url.Values{domain.ParamSearchBy: {"active_holes"}}
}

func (f Filters) label() string {
	switch {
	case f.BlackholeID != "":
		return "id:" + f.BlackholeID
	case f.TicketNumber != "":
		return "ticket:" + f.TicketNumber
	case f.OpenedBy != "":
		return "opener:" + f.OpenedBy
	case f.IPAddress != "":
		return f.IPAddress
	case f.Month != "" || f.Year != "":
		return fmt.Sprintf("date:%s-%s", f.Year, f.Month)
	default:
		return "active"
	}
}

func normalizeTicketSystem(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" || strings.EqualFold(strings.ReplaceAll(val, "/", "-"), DefaultTicketSystem) {
		return DefaultTicketSystem
	}
	return val
}

var monthNames = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
	"jan": "01", "feb": "02", "mar": "03", "apr": "04", "jun": "06",
	"jul": "07", "aug": "08", "sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// MonthNumber maps month names or numbers to the portal's two-digit form,
// defaulting to January on garbage input.
func MonthNumber(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if num, ok := monthNames[normalized]; ok {
		return num
	}
	if num, err := strconv.Atoi(normalized); err == nil && num >= 1 && num <= 12 {
		return fmt.Sprintf("%02d", num)
	}
	return "01"
}

// RetrieveExecutor issues one search per operation and parses the returned
// HTML tables into rows. A parse failure degrades to zero rows; partial
// results beat none.
type RetrieveExecutor struct {
	parse func(r io.Reader) ([]domain.Row, error)
}

var _ ports.UnitExecutor = (*RetrieveExecutor)(nil)

func NewRetrieveExecutor() *RetrieveExecutor {
	return &RetrieveExecutor{parse: htmltable.Parse}
}

func (e *RetrieveExecutor) Execute(ctx context.Context, op domain.Operation, channel ports.Transport) domain.Result {
	result := domain.Result{TargetID: op.TargetID, Action: domain.ActionRetrieve}

	endpoint := op.Param("endpoint")
	payload := url.Values{}
	for key, value := range op.Params {
		if key == "endpoint" {
			continue
		}
		payload.Set(key, value)
	}

	var resp ports.Response
	var err error
	if endpoint == viewEndpoint {
		// ID lookups are a plain GET; everything else posts the search form.
		resp, err = channel.Get(ctx, viewEndpoint, payload)
	} else {
		resp, err = channel.PostForm(ctx, searchEndpoint, nil, payload)
	}
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.StatusCode = resp.StatusCode
	result.Body = resp.Body
	if err := domain.StatusError(resp.StatusCode); err != nil {
		result.Message = err.Error()
		return result
	}

	rows, err := e.parse(strings.NewReader(resp.Body))
	if err != nil {
		result.Success = true
		result.Message = fmt.Sprintf("parse degraded to zero rows: %v", err)
		return result
	}
	if htmltable.IsNoResults(rows) {
		rows = nil
	}

	result.Success = true
	result.Rows = rows
	result.Message = fmt.Sprintf("%d rows", len(rows))
	return result
}
