package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

func TestFiltersPayloadPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		filters      Filters
		wantEndpoint string
		wantSearchBy string
	}{
		{"record id wins", Filters{BlackholeID: "42", TicketNumber: "TKT-1"}, "view.cgi", "blackhole_id"},
		{"ticket", Filters{TicketNumber: "TKT-1"}, "search.cgi", "ticket"},
		{"opener", Filters{OpenedBy: "jdoe"}, "search.cgi", "open_user"},
		{"ip", Filters{IPAddress: "10.0.0.0/24"}, "search.cgi", "ipaddress"},
		{"date", Filters{Month: "March", Year: "2025"}, "search.cgi", "open_date"},
		{"default active", Filters{}, "search.cgi", "active_holes"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			endpoint, payload := tc.filters.payload()
			assert.Equal(t, tc.wantEndpoint, endpoint)
			assert.Equal(t, tc.wantSearchBy, payload.Get("searchby"))
		})
	}
}

func TestFiltersPayloadDetails(t *testing.T) {
	t.Parallel()

	_, ip := Filters{IPAddress: "10.0.0.1"}.payload()
	assert.Equal(t, "Both", ip.Get("view"), "ip search defaults to both views")

	_, ticket := Filters{TicketNumber: "TKT-1", TicketSystem: "ntm/remedy"}.payload()
	assert.Equal(t, "NTM-Remedy", ticket.Get("ticket_system"))

	_, date := Filters{Month: "mar", Year: "2024", Description: "ddos"}.payload()
	assert.Equal(t, "03", date.Get("month"))
	assert.Equal(t, "2024", date.Get("year"))
	assert.Equal(t, "ddos", date.Get("description"))
}

func TestMonthNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "03", MonthNumber("March"))
	assert.Equal(t, "09", MonthNumber("sep"))
	assert.Equal(t, "07", MonthNumber("7"))
	assert.Equal(t, "12", MonthNumber("12"))
	assert.Equal(t, "01", MonthNumber("not-a-month"))
	assert.Equal(t, "01", MonthNumber("13"))
}

func TestFiltersOperationLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id:42", Filters{BlackholeID: "42"}.Operation().TargetID)
	assert.Equal(t, "ticket:TKT-1", Filters{TicketNumber: "TKT-1"}.Operation().TargetID)
	assert.Equal(t, "10.0.0.1", Filters{IPAddress: "10.0.0.1"}.Operation().TargetID)
	assert.Equal(t, "active", Filters{}.Operation().TargetID)
}

func TestRetrieveByIDUsesGet(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`<table><tr><th>ID</th><th>IP</th></tr><tr><td>42</td><td>10.0.0.1/32</td></tr></table>`))
	}))
	t.Cleanup(server.Close)

	op := Filters{BlackholeID: "42"}.Operation()
	res := NewRetrieveExecutor().Execute(context.Background(), op, newTestChannel(t, server.URL))

	require.True(t, res.Success)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/view.cgi", gotPath)
	assert.Contains(t, gotQuery, "id=42")
	require.Len(t, res.Rows, 2)
	assert.True(t, res.Rows[0].Header)
	assert.Equal(t, []string{"42", "10.0.0.1/32"}, res.Rows[1].Cells)
}

func TestRetrieveSearchUsesPost(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		_, _ = w.Write([]byte(`<table><tr><td>101</td></tr></table>`))
	}))
	t.Cleanup(server.Close)

	op := Filters{IPAddress: "10.0.0.0/24"}.Operation()
	res := NewRetrieveExecutor().Execute(context.Background(), op, newTestChannel(t, server.URL))

	require.True(t, res.Success)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/search.cgi", gotPath)
	assert.Equal(t, []string{"ipaddress"}, gotForm["searchby"])
	assert.Equal(t, []string{"10.0.0.0/24"}, gotForm["ipaddress"])
	assert.Equal(t, []string{"Both"}, gotForm["view"])
}

func TestRetrieveNormalizesNoResultsSentinel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>No matching records.</body></html>`))
	}))
	t.Cleanup(server.Close)

	op := Filters{}.Operation()
	res := NewRetrieveExecutor().Execute(context.Background(), op, newTestChannel(t, server.URL))

	require.True(t, res.Success)
	assert.Empty(t, res.Rows, "the empty-row sentinel never leaves the adapter")
}

func TestRetrieveSurfacesAuthAndRemoteErrors(t *testing.T) {
	t.Parallel()

	status := http.StatusUnauthorized
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	channel := newTestChannel(t, server.URL)
	op := Filters{IPAddress: "10.0.0.1"}.Operation()

	res := NewRetrieveExecutor().Execute(context.Background(), op, channel)
	require.False(t, res.Success)
	assert.Equal(t, domain.ErrAuthentication.Error(), res.Message)

	status = http.StatusBadGateway
	res = NewRetrieveExecutor().Execute(context.Background(), op, channel)
	require.False(t, res.Success)
	assert.Contains(t, res.Message, "status 502")
}
