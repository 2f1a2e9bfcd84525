package ports

import (
	"context"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

// UnitExecutor turns one operation into one request/response cycle over the
// worker's channel. It never returns an error: every failure mode is captured
// inside the Result so one unit can never abort a batch.
type UnitExecutor interface {
	Execute(ctx context.Context, op domain.Operation, channel Transport) domain.Result
}

// UnitExecutorFunc adapts a function to the UnitExecutor interface.
type UnitExecutorFunc func(ctx context.Context, op domain.Operation, channel Transport) domain.Result

func (f UnitExecutorFunc) Execute(ctx context.Context, op domain.Operation, channel Transport) domain.Result {
	return f(ctx, op, channel)
}
