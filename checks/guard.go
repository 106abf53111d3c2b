package checks

import (
	"context"
	"errors"

	"github.com/jonwraymond/statuscheck/resilience"
	"github.com/jonwraymond/statuscheck/status"
)

// Guard runs check through exec. While exec's circuit is open the check is
// not invoked and reports status.StatusUnknown instead. Other failures,
// including timeouts, are returned unchanged. A nil exec returns check as is.
func Guard(check status.Check, exec *resilience.Executor) status.Check {
	if exec == nil {
		return check
	}
	return &guarded{Check: check, category: status.CategoryOf(check), exec: exec}
}

type guarded struct {
	status.Check
	category status.Category
	exec     *resilience.Executor
}

func (g *guarded) Type() status.Category { return g.category }

func (g *guarded) Result(ctx context.Context) (status.Result, error) {
	result, err := resilience.Do(ctx, g.exec, g.Check.Result)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return status.Unknown("check skipped while its dependency recovers"), nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ status.Typed = (*guarded)(nil)
