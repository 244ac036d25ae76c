package captable

import (
	"errors"
	"testing"
)

func TestOptionPlan_Conservation(t *testing.T) {
	p := NewOptionPlan("2024-plan", sh("1000000"))
	steps := []struct {
		name string
		op   func(OptionPlan, Quantity) (OptionPlan, error)
		q    string
	}{
		{"grant", OptionPlan.Grant, "100000"},
		{"grant", OptionPlan.Grant, "50000"},
		{"exercise", OptionPlan.Exercise, "20000"},
		{"cancel", OptionPlan.Cancel, "10000"},
		{"exercise", OptionPlan.Exercise, "120000"},
		{"grant", OptionPlan.Grant, "860000"},
	}
	for _, s := range steps {
		var err error
		p, err = s.op(p, sh(s.q))
		if err != nil {
			t.Fatalf("%s(%s) unexpected error: %v", s.name, s.q, err)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("after %s(%s): %v", s.name, s.q, err)
		}
	}
	want := OptionPlan{ID: "2024-plan", TotalShares: sh("1000000"), AllocatedShares: sh("860000"), AvailableShares: sh("0"), IssuedShares: sh("140000")}
	if !p.AllocatedShares.Equal(want.AllocatedShares) || !p.AvailableShares.Equal(want.AvailableShares) || !p.IssuedShares.Equal(want.IssuedShares) {
		t.Errorf("plan = %+v, want %+v", p, want)
	}
}

func TestOptionPlan_Errors(t *testing.T) {
	p := NewOptionPlan("p", sh("1000"))
	if _, err := p.Grant(sh("1001")); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Grant() beyond available error = %v, want ErrInsufficientShares", err)
	}
	if _, err := p.Grant(sh("0")); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Grant(0) error = %v, want ErrInvalidQuantity", err)
	}
	p, _ = p.Grant(sh("100"))
	if _, err := p.Exercise(sh("101")); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Exercise() beyond allocated error = %v, want ErrInsufficientShares", err)
	}
	if _, err := p.Cancel(sh("-1")); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Cancel(-1) error = %v, want ErrInvalidQuantity", err)
	}
	if _, err := p.Cancel(sh("101")); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Cancel() beyond allocated error = %v, want ErrInsufficientShares", err)
	}
	// failed operations leave the plan untouched
	if !p.AllocatedShares.Equal(sh("100")) || !p.AvailableShares.Equal(sh("900")) {
		t.Errorf("plan = %+v, want 100 allocated and 900 available", p)
	}

	broken := OptionPlan{ID: "b", TotalShares: sh("10"), AvailableShares: sh("9")}
	if err := broken.Validate(); !errors.Is(err, ErrInvariant) {
		t.Errorf("Validate() error = %v, want ErrInvariant", err)
	}
}
