package captable

import (
	"errors"
	"testing"
)

// newTestCapTable returns a small company: two founders, a seed SAFE and an
// option plan with no grant yet.
func newTestCapTable() *CapTable {
	t := NewCapTable("Acme", "USD")
	t.Classes = []SecurityClass{
		{ID: "common", Name: "Common", LiquidationPreferenceMultiple: dec("1"), VotingRights: true},
		{ID: "seed", Name: "Seed Preferred", LiquidationPreferenceMultiple: dec("1"), SeniorityTier: 1},
	}
	t.Plans = []OptionPlan{NewOptionPlan("2024-plan", sh("1000000"))}
	t.Entries = []ShareLedgerEntry{
		{ID: "s1", HolderID: "alice", ClassID: "common", Quantity: sh("6000000"), IssueDate: day("2024-01-01")},
		{ID: "s2", HolderID: "bob", ClassID: "common", Quantity: sh("2000000"), IssueDate: day("2024-01-01")},
	}
	t.Convertibles = []ConvertibleInstrument{
		{ID: "c1", HolderID: "angel", Type: SAFE, Principal: usd("500000"), IssueDate: day("2024-03-01"), DiscountRate: dec("0.2"), ValuationCap: usd("5000000")},
	}
	return t
}

func carolGrant() EquityAward {
	return EquityAward{
		ID:               "a1",
		HolderID:         "carol",
		PlanID:           "2024-plan",
		Type:             ISO,
		QuantityGranted:  sh("100000"),
		GrantDate:        day("2024-01-01"),
		VestingStartDate: day("2024-01-01"),
		CliffMonths:      12,
		TotalMonths:      48,
		StrikePrice:      usd("0.50"),
	}
}

func TestCapTable_FullyDiluted(t *testing.T) {
	ct, err := newTestCapTable().Grant(carolGrant())
	if err != nil {
		t.Fatalf("Grant() unexpected error: %v", err)
	}
	if err := ct.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if got := ct.OutstandingShares(); !got.Equal(sh("8000000")) {
		t.Errorf("OutstandingShares() = %v, want 8000000", got)
	}
	if got := ct.AvailablePool(); !got.Equal(sh("900000")) {
		t.Errorf("AvailablePool() = %v, want 900000", got)
	}
	// 8M shares + 100k options + 900k pool
	if got := ct.FullyDilutedShares(); !got.Equal(sh("9000000")) {
		t.Errorf("FullyDilutedShares() = %v, want 9000000", got)
	}

	holdings := ct.Holdings()
	if len(holdings) != 3 || holdings[0].HolderID != "alice" || holdings[2].HolderID != "carol" {
		t.Fatalf("Holdings() = %+v, want alice, bob, carol", holdings)
	}
	if !holdings[0].Ownership.Equal(75) || !holdings[0].FullyDiluted.Equal(66.67) {
		t.Errorf("alice = %v, %v, want 75%% outstanding and 66.67%% fully diluted", holdings[0].Ownership, holdings[0].FullyDiluted)
	}
	if !holdings[2].Ownership.Equal(0) || !holdings[2].FullyDiluted.Equal(1.11) {
		t.Errorf("carol = %v, %v, want 0%% outstanding and 1.11%% fully diluted", holdings[2].Ownership, holdings[2].FullyDiluted)
	}
}

func TestCapTable_GrantExerciseCancel(t *testing.T) {
	base := newTestCapTable()
	ct, err := base.Grant(carolGrant())
	if err != nil {
		t.Fatalf("Grant() unexpected error: %v", err)
	}
	if len(base.Awards) != 0 || !base.Plans[0].AvailableShares.Equal(sh("1000000")) {
		t.Errorf("Grant() modified the receiver")
	}
	if _, err := ct.Grant(carolGrant()); !errors.Is(err, ErrInvariant) {
		t.Errorf("Grant() of a duplicate id error = %v, want ErrInvariant", err)
	}
	big := carolGrant()
	big.ID = ""
	big.QuantityGranted = sh("950000")
	if _, err := ct.Grant(big); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Grant() beyond the pool error = %v, want ErrInsufficientShares", err)
	}

	// 12 months after the start, 25000 are vested.
	on := day("2025-01-01")
	ct, entry, err := ct.Exercise("a1", sh("10000"), on, "common")
	if err != nil {
		t.Fatalf("Exercise() unexpected error: %v", err)
	}
	if entry.HolderID != "carol" || !entry.Quantity.Equal(sh("10000")) || !entry.Consideration.Equal(usd("5000")) || entry.IssueDate != on {
		t.Errorf("Exercise() entry = %+v, want 10000 shares to carol for 5000", entry)
	}
	if got := ct.OutstandingShares(); !got.Equal(sh("8010000")) {
		t.Errorf("OutstandingShares() after exercise = %v, want 8010000", got)
	}
	if _, _, err := ct.Exercise("a1", sh("20000"), on, "common"); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Exercise() beyond vested error = %v, want ErrInsufficientShares", err)
	}
	if _, _, err := ct.Exercise("a1", sh("1"), on, "nope"); !errors.Is(err, ErrInvariant) {
		t.Errorf("Exercise() into an unknown class error = %v, want ErrInvariant", err)
	}

	ct, err = ct.Cancel("a1", sh("50000"))
	if err != nil {
		t.Fatalf("Cancel() unexpected error: %v", err)
	}
	if _, err := ct.Cancel("a1", sh("40001")); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Cancel() beyond outstanding error = %v, want ErrInsufficientShares", err)
	}

	a, _ := ct.Award("a1")
	if !a.Outstanding().Equal(sh("40000")) {
		t.Errorf("award outstanding = %v, want 40000", a.Outstanding())
	}
	p, _ := ct.Plan("2024-plan")
	want := OptionPlan{ID: "2024-plan", TotalShares: sh("1000000"), AllocatedShares: sh("40000"), AvailableShares: sh("950000"), IssuedShares: sh("10000")}
	if !p.AllocatedShares.Equal(want.AllocatedShares) || !p.AvailableShares.Equal(want.AvailableShares) || !p.IssuedShares.Equal(want.IssuedShares) {
		t.Errorf("plan = %+v, want %+v", p, want)
	}
	if err := ct.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	// expired units are not vested units that can still be exercised.
	lapsed := carolGrant()
	lapsed.ID = "a2"
	lapsed.QuantityGranted = sh("100")
	lapsed.QuantityExpired = sh("50")
	ct, err = ct.Grant(lapsed)
	if err != nil {
		t.Fatalf("Grant() unexpected error: %v", err)
	}
	vested := day("2028-01-01")
	if _, _, err := ct.Exercise("a2", sh("100"), vested, "common"); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Exercise() beyond outstanding error = %v, want ErrInsufficientShares", err)
	}
	ct, _, err = ct.Exercise("a2", sh("50"), vested, "common")
	if err != nil {
		t.Fatalf("Exercise() of the outstanding units unexpected error: %v", err)
	}
	if a, _ := ct.Award("a2"); !a.Outstanding().IsZero() {
		t.Errorf("award outstanding = %v, want 0", a.Outstanding())
	}
}

func TestCapTable_Convert(t *testing.T) {
	ct := newTestCapTable()
	round := RoundTerms{PricePerShare: usd("2"), PreRoundShares: sh("8474576"), Date: day("2025-06-01")}
	next, conv, err := ct.Convert("c1", round, "seed")
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}
	if !conv.SharesIssued.Equal(sh("847457.627119")) {
		t.Errorf("Convert().SharesIssued = %v, want 847457.627119", conv.SharesIssued)
	}
	if c, _ := next.Convertible("c1"); !c.Converted {
		t.Errorf("convertible not flagged converted")
	}
	if c, _ := ct.Convertible("c1"); c.Converted {
		t.Errorf("Convert() modified the receiver")
	}
	last := next.Entries[len(next.Entries)-1]
	if last.HolderID != "angel" || last.ClassID != "seed" || !last.Quantity.Equal(conv.SharesIssued) {
		t.Errorf("converted entry = %+v, want the angel's seed shares", last)
	}
	if _, _, err := next.Convert("c1", round, "seed"); !errors.Is(err, ErrAlreadyConverted) {
		t.Errorf("second Convert() error = %v, want ErrAlreadyConverted", err)
	}
}

func TestCapTable_ApplySplit(t *testing.T) {
	ct, _ := newTestCapTable().Grant(carolGrant())
	terms, _ := NewSplitTerms(2, 1, day("2025-01-01"))
	split, err := ct.ApplySplit(terms)
	if err != nil {
		t.Fatalf("ApplySplit() unexpected error: %v", err)
	}
	if got := split.FullyDilutedShares(); !got.Equal(sh("18000000")) {
		t.Errorf("FullyDilutedShares() after split = %v, want 18000000", got)
	}
	a, _ := split.Award("a1")
	if !a.StrikePrice.Equal(usd("0.25")) {
		t.Errorf("strike after split = %v, want 0.25", a.StrikePrice)
	}
	if err := split.Validate(); err != nil {
		t.Errorf("Validate() after split: %v", err)
	}
	if c, _ := split.Convertible("c1"); !c.ValuationCap.Equal(usd("5000000")) {
		t.Errorf("valuation cap after split = %v, want it untouched", c.ValuationCap)
	}
}

func TestCapTable_Validate(t *testing.T) {
	ct := newTestCapTable()
	ct.Entries = append(ct.Entries,
		ShareLedgerEntry{ID: "s1", HolderID: "dup", ClassID: "common", Quantity: sh("1")},
		ShareLedgerEntry{ID: "s3", HolderID: "x", ClassID: "ghost", Quantity: sh("0")},
	)
	ct.Awards = append(ct.Awards, EquityAward{ID: "a9", Type: NSO, PlanID: "ghost-plan", QuantityGranted: sh("1")})
	err := ct.Validate()
	if !errors.Is(err, ErrInvariant) || !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("Validate() error = %v, want ErrInvariant and ErrInvalidQuantity", err)
	}
	// duplicate id, zero quantity, unknown class, unknown plan
	if n := len(err.(interface{ Unwrap() []error }).Unwrap()); n != 4 {
		t.Errorf("Validate() reported %d problems, want 4: %v", n, err)
	}
}
