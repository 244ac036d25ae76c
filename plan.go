package captable

import "fmt"

// OptionPlan holds the share counters of an equity incentive plan.
//
// At every observation TotalShares = AllocatedShares + AvailableShares + IssuedShares:
// a grant moves shares from available to allocated, an exercise from
// allocated to issued, and a cancellation from allocated back to available.
type OptionPlan struct {
	ID              string
	TotalShares     Quantity
	AllocatedShares Quantity
	AvailableShares Quantity
	IssuedShares    Quantity
}

// NewOptionPlan returns a plan reserving total shares, all available.
func NewOptionPlan(id string, total Quantity) OptionPlan {
	return OptionPlan{ID: id, TotalShares: total, AvailableShares: total}
}

// Validate checks that the counters are non-negative and add up to the total.
func (p OptionPlan) Validate() error {
	if p.AllocatedShares.IsNegative() || p.AvailableShares.IsNegative() || p.IssuedShares.IsNegative() {
		return fmt.Errorf("plan %q: negative counter (allocated %v, available %v, issued %v): %w",
			p.ID, p.AllocatedShares, p.AvailableShares, p.IssuedShares, ErrInvariant)
	}
	sum := p.AllocatedShares.Add(p.AvailableShares).Add(p.IssuedShares)
	if !sum.Equal(p.TotalShares) {
		return fmt.Errorf("plan %q: allocated+available+issued = %v, want total %v: %w", p.ID, sum, p.TotalShares, ErrInvariant)
	}
	return nil
}

func checkPlanQuantity(p OptionPlan, op string, q Quantity) error {
	if !q.IsPositive() {
		return fmt.Errorf("plan %q: %s quantity %v must be positive: %w", p.ID, op, q, ErrInvalidQuantity)
	}
	return nil
}

// Grant returns the plan after granting q shares.
func (p OptionPlan) Grant(q Quantity) (OptionPlan, error) {
	if err := checkPlanQuantity(p, "grant", q); err != nil {
		return p, err
	}
	if q.GreaterThan(p.AvailableShares) {
		return p, fmt.Errorf("plan %q: cannot grant %v, only %v available: %w", p.ID, q, p.AvailableShares, ErrInsufficientShares)
	}
	p.AllocatedShares = p.AllocatedShares.Add(q)
	p.AvailableShares = p.AvailableShares.Sub(q)
	return p, nil
}

// Exercise returns the plan after q allocated shares were exercised.
// Available shares are untouched.
func (p OptionPlan) Exercise(q Quantity) (OptionPlan, error) {
	if err := checkPlanQuantity(p, "exercise", q); err != nil {
		return p, err
	}
	if q.GreaterThan(p.AllocatedShares) {
		return p, fmt.Errorf("plan %q: cannot exercise %v, only %v allocated: %w", p.ID, q, p.AllocatedShares, ErrInsufficientShares)
	}
	p.AllocatedShares = p.AllocatedShares.Sub(q)
	p.IssuedShares = p.IssuedShares.Add(q)
	return p, nil
}

// Cancel returns the plan after q allocated shares were canceled and
// returned to the pool.
func (p OptionPlan) Cancel(q Quantity) (OptionPlan, error) {
	if err := checkPlanQuantity(p, "cancel", q); err != nil {
		return p, err
	}
	if q.GreaterThan(p.AllocatedShares) {
		return p, fmt.Errorf("plan %q: cannot cancel %v, only %v allocated: %w", p.ID, q, p.AllocatedShares, ErrInsufficientShares)
	}
	p.AllocatedShares = p.AllocatedShares.Sub(q)
	p.AvailableShares = p.AvailableShares.Add(q)
	return p, nil
}
