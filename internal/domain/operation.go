package domain

// Action identifies the kind of remote work one operation performs.
type Action string

const (
	ActionCreate          Action = "create"
	ActionRetrieve        Action = "retrieve"
	ActionSetDescription  Action = "set_description"
	ActionSetAutoclose    Action = "set_autoclose"
	ActionAssociateTicket Action = "associate_ticket"
	ActionClose           Action = "close"
)

// Form-parameter keys shared by the portal executors.
const (
	ParamIPAddress     = "ipaddress"
	ParamTicketSystem  = "ticket_system"
	ParamTicketNumber  = "ticket_number"
	ParamAutocloseTime = "autoclose_time"
	ParamDescription   = "description"
	ParamCloseText     = "close_text"
	ParamSearchBy      = "searchby"
	ParamView          = "view"
	ParamMonth         = "month"
	ParamYear          = "year"
	ParamUser          = "user"
	ParamID            = "id"
)

// Operation is one independent unit of remote work: one IP to null-route, one
// search filter, or one field edit on an existing record. Constructed by the
// caller, consumed by exactly one executor invocation, never mutated.
type Operation struct {
	// TargetID is the IP/CIDR for creates, the record ID for updates, or a
	// human-readable label for searches.
	TargetID string
	Action   Action
	Params   map[string]string
}

// Param returns the named parameter or an empty string.
func (o Operation) Param(key string) string {
	if o.Params == nil {
		return ""
	}
	return o.Params[key]
}
