package retry

import (
	"context"
	"strings"

	"github.com/justme8code/catchy/budget"
	"github.com/justme8code/catchy/internal"
)

// allowRetry consults the policy's budget before a retry. budgetName
// comes from the policy; callName identifies the call for budgets that
// discriminate by caller. An empty budget name allows the retry; a
// named budget that cannot be resolved fails closed.
func (e *Executor) allowRetry(ctx context.Context, budgetName, callName string, attempt int) budget.Decision {
	budgetName = strings.TrimSpace(budgetName)
	if budgetName == "" {
		return budget.Decision{Allowed: true, Reason: budget.ReasonNoBudget}
	}

	var reg *budget.Registry
	if e != nil {
		reg = e.budgets
	}
	if reg == nil {
		return budget.Decision{Allowed: false, Reason: budget.ReasonNotFound}
	}

	b, ok := reg.Get(budgetName)
	if !ok {
		return budget.Decision{Allowed: false, Reason: budget.ReasonNotFound}
	}
	if internal.IsTypedNil(b) {
		return budget.Decision{Allowed: false, Reason: budget.ReasonNil}
	}

	d := b.AllowRetry(ctx, callName, attempt)
	if d.Reason == "" {
		if d.Allowed {
			d.Reason = budget.ReasonAllowed
		} else {
			d.Reason = budget.ReasonDenied
		}
	}
	return d
}
