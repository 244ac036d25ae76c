package captable

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// CapTable is the full instrument set of a company, as handed over by the
// caller. Methods never modify the receiver: operations return a new table.
type CapTable struct {
	Name         string
	Currency     string // display currency of every amount
	Classes      []SecurityClass
	Entries      []ShareLedgerEntry
	Awards       []EquityAward
	Convertibles []ConvertibleInstrument
	Plans        []OptionPlan
}

// NewCapTable creates an empty cap table.
func NewCapTable(name, currency string) *CapTable {
	return &CapTable{Name: name, Currency: currency}
}

// Clone returns a copy of t that shares no slice with it.
func (t *CapTable) Clone() *CapTable {
	c := *t
	c.Classes = slices.Clone(t.Classes)
	c.Entries = slices.Clone(t.Entries)
	c.Awards = slices.Clone(t.Awards)
	c.Convertibles = slices.Clone(t.Convertibles)
	c.Plans = slices.Clone(t.Plans)
	return &c
}

// Class returns the security class with this id.
func (t *CapTable) Class(id string) (SecurityClass, bool) {
	i := slices.IndexFunc(t.Classes, func(c SecurityClass) bool { return c.ID == id })
	if i < 0 {
		return SecurityClass{}, false
	}
	return t.Classes[i], true
}

// Award returns the equity award with this id.
func (t *CapTable) Award(id string) (EquityAward, bool) {
	i := t.awardIndex(id)
	if i < 0 {
		return EquityAward{}, false
	}
	return t.Awards[i], true
}

func (t *CapTable) awardIndex(id string) int {
	return slices.IndexFunc(t.Awards, func(a EquityAward) bool { return a.ID == id })
}

// Convertible returns the convertible instrument with this id.
func (t *CapTable) Convertible(id string) (ConvertibleInstrument, bool) {
	i := t.convertibleIndex(id)
	if i < 0 {
		return ConvertibleInstrument{}, false
	}
	return t.Convertibles[i], true
}

func (t *CapTable) convertibleIndex(id string) int {
	return slices.IndexFunc(t.Convertibles, func(c ConvertibleInstrument) bool { return c.ID == id })
}

// Plan returns the option plan with this id.
func (t *CapTable) Plan(id string) (OptionPlan, bool) {
	i := t.planIndex(id)
	if i < 0 {
		return OptionPlan{}, false
	}
	return t.Plans[i], true
}

func (t *CapTable) planIndex(id string) int {
	return slices.IndexFunc(t.Plans, func(p OptionPlan) bool { return p.ID == id })
}

// OutstandingShares returns the total of issued shares.
func (t *CapTable) OutstandingShares() Quantity { return totalShares(t.Entries) }

// AvailablePool returns the shares still available for grant in all plans.
func (t *CapTable) AvailablePool() Quantity {
	var total Quantity
	for _, p := range t.Plans {
		total = total.Add(p.AvailableShares)
	}
	return total
}

// FullyDilutedShares returns the outstanding shares plus the outstanding
// options, RSUs and warrants, plus the shares available in the option pools.
// Unconverted convertibles are not counted: their share count depends on the
// round they convert in.
func (t *CapTable) FullyDilutedShares() Quantity {
	return t.OutstandingShares().
		Add(OutstandingOptions(t.Awards)).
		Add(OutstandingRSUs(t.Awards)).
		Add(OutstandingWarrants(t.Awards)).
		Add(t.AvailablePool())
}

// Holding is the position of one holder.
type Holding struct {
	HolderID     string   `json:"holder"`
	Shares       Quantity `json:"shares"`       // issued shares
	Awards       Quantity `json:"awards"`       // outstanding options, RSUs and warrants
	Ownership    Percent  `json:"ownership"`    // of outstanding shares
	FullyDiluted Percent  `json:"fullyDiluted"` // of fully diluted shares
}

// Holdings returns every holder's position, largest fully diluted first.
func (t *CapTable) Holdings() []Holding {
	index := make(map[string]*Holding)
	var order []string
	get := func(id string) *Holding {
		h, ok := index[id]
		if !ok {
			h = &Holding{HolderID: id}
			index[id] = h
			order = append(order, id)
		}
		return h
	}
	for _, e := range t.Entries {
		h := get(e.HolderID)
		h.Shares = h.Shares.Add(e.Quantity)
	}
	for _, a := range t.Awards {
		h := get(a.HolderID)
		if a.Type == RSU {
			h.Awards = h.Awards.Add(OutstandingRSUs([]EquityAward{a}))
		} else {
			h.Awards = h.Awards.Add(a.Outstanding())
		}
	}

	outstanding, fd := t.OutstandingShares(), t.FullyDilutedShares()
	holdings := make([]Holding, 0, len(order))
	for _, id := range order {
		h := *index[id]
		h.Ownership = percentOf(h.Shares.value, outstanding.value)
		h.FullyDiluted = percentOf(h.Shares.Add(h.Awards).value, fd.value)
		holdings = append(holdings, h)
	}
	slices.SortStableFunc(holdings, func(a, b Holding) int {
		return b.Shares.Add(b.Awards).value.Cmp(a.Shares.Add(a.Awards).value)
	})
	return holdings
}

// OwnershipByHolder returns each holder's percentage of the shares in entries.
func OwnershipByHolder(entries []ShareLedgerEntry) map[string]Percent {
	byHolder := make(map[string]decimal.Decimal)
	for _, e := range entries {
		byHolder[e.HolderID] = byHolder[e.HolderID].Add(e.Quantity.value)
	}
	total := totalShares(entries).value
	res := make(map[string]Percent, len(byHolder))
	for id, q := range byHolder {
		res[id] = percentOf(q, total)
	}
	return res
}

// Validate checks every record and the references between them. It reports
// all the problems found.
func (t *CapTable) Validate() error {
	var errs []error
	seen := make(map[string]string)
	unique := func(kind, id string) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s without id: %w", kind, ErrInvariant))
			return
		}
		if prev, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("%s id %q already used by a %s: %w", kind, id, prev, ErrInvariant))
			return
		}
		seen[id] = kind
	}

	for _, c := range t.Classes {
		unique("class", c.ID)
	}
	for _, p := range t.Plans {
		unique("plan", p.ID)
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, e := range t.Entries {
		unique("share entry", e.ID)
		if !e.Quantity.IsPositive() {
			errs = append(errs, fmt.Errorf("share entry %q: quantity %v must be positive: %w", e.ID, e.Quantity, ErrInvalidQuantity))
		}
		if _, ok := t.Class(e.ClassID); !ok {
			errs = append(errs, fmt.Errorf("share entry %q: unknown class %q: %w", e.ID, e.ClassID, ErrInvariant))
		}
	}
	for _, a := range t.Awards {
		unique("award", a.ID)
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
		if a.PlanID != "" {
			if _, ok := t.Plan(a.PlanID); !ok {
				errs = append(errs, fmt.Errorf("award %q: unknown plan %q: %w", a.ID, a.PlanID, ErrInvariant))
			}
		}
	}
	for _, c := range t.Convertibles {
		unique("convertible", c.ID)
		if !c.Principal.IsPositive() {
			errs = append(errs, fmt.Errorf("convertible %q: principal must be positive: %w", c.ID, ErrInvariant))
		}
	}
	return errors.Join(errs...)
}

// ApplySplit returns the table after a stock split of every share entry,
// award and option plan. It fails if the split would not preserve the
// total ownership.
func (t *CapTable) ApplySplit(terms SplitTerms) (*CapTable, error) {
	res, err := ApplySplit(t.Entries, t.Awards, t.Convertibles, t.Classes, terms)
	if err != nil {
		return nil, err
	}
	if !ValidateSplitPreservesOwnership(t.Entries, res.ShareEntries, terms.Ratio) {
		return nil, fmt.Errorf("split %v changes the total ownership: %w", terms.Ratio, ErrInvariant)
	}
	n := t.Clone()
	n.Entries = res.ShareEntries
	n.Awards = res.Awards
	n.Convertibles = res.Convertibles
	n.Classes = res.Classes
	for i, p := range n.Plans {
		n.Plans[i] = SplitOptionPlan(p, terms.Ratio)
	}
	return n, nil
}

// Grant returns the table with a new award. When the award belongs to a plan
// the granted quantity is allocated from it.
func (t *CapTable) Grant(a EquityAward) (*CapTable, error) {
	if a.ID == "" {
		a.ID = NewID()
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if t.awardIndex(a.ID) >= 0 {
		return nil, fmt.Errorf("award %q already exists: %w", a.ID, ErrInvariant)
	}
	n := t.Clone()
	if a.PlanID != "" {
		i := n.planIndex(a.PlanID)
		if i < 0 {
			return nil, fmt.Errorf("award %q: unknown plan %q: %w", a.ID, a.PlanID, ErrInvariant)
		}
		p, err := n.Plans[i].Grant(a.QuantityGranted)
		if err != nil {
			return nil, err
		}
		n.Plans[i] = p
	}
	n.Awards = append(n.Awards, a)
	return n, nil
}

// Exercise returns the table after q vested units of an award were exercised
// (or released, for RSUs) on a date. The resulting shares of classID are
// issued to the holder at the strike price.
func (t *CapTable) Exercise(awardID string, q Quantity, on Date, classID string) (*CapTable, ShareLedgerEntry, error) {
	i := t.awardIndex(awardID)
	if i < 0 {
		return nil, ShareLedgerEntry{}, fmt.Errorf("unknown award %q", awardID)
	}
	if !q.IsPositive() {
		return nil, ShareLedgerEntry{}, fmt.Errorf("award %q: exercise quantity %v must be positive: %w", awardID, q, ErrInvalidQuantity)
	}
	if _, ok := t.Class(classID); !ok {
		return nil, ShareLedgerEntry{}, fmt.Errorf("award %q: unknown class %q: %w", awardID, classID, ErrInvariant)
	}
	a := t.Awards[i]
	if vested := VestedShares(a, on); q.GreaterThan(vested) {
		return nil, ShareLedgerEntry{}, fmt.Errorf("award %q: cannot exercise %v, only %v vested on %s: %w", awardID, q, vested, on, ErrInsufficientShares)
	}
	if q.GreaterThan(a.Outstanding()) {
		return nil, ShareLedgerEntry{}, fmt.Errorf("award %q: cannot exercise %v, only %v outstanding: %w", awardID, q, a.Outstanding(), ErrInsufficientShares)
	}

	n := t.Clone()
	if a.PlanID != "" {
		j := n.planIndex(a.PlanID)
		if j < 0 {
			return nil, ShareLedgerEntry{}, fmt.Errorf("award %q: unknown plan %q: %w", a.ID, a.PlanID, ErrInvariant)
		}
		p, err := n.Plans[j].Exercise(q)
		if err != nil {
			return nil, ShareLedgerEntry{}, err
		}
		n.Plans[j] = p
	}
	a.QuantityExercised = a.QuantityExercised.Add(q)
	if err := a.Validate(); err != nil {
		return nil, ShareLedgerEntry{}, err
	}
	n.Awards[i] = a

	entry := ShareLedgerEntry{
		ID:            NewID(),
		HolderID:      a.HolderID,
		ClassID:       classID,
		Quantity:      q,
		IssueDate:     on,
		Consideration: a.StrikePrice.Mul(q).Round(),
	}
	n.Entries = append(n.Entries, entry)
	return n, entry, nil
}

// Cancel returns the table after q outstanding units of an award were
// canceled. Units granted from a plan return to its pool.
func (t *CapTable) Cancel(awardID string, q Quantity) (*CapTable, error) {
	i := t.awardIndex(awardID)
	if i < 0 {
		return nil, fmt.Errorf("unknown award %q", awardID)
	}
	if !q.IsPositive() {
		return nil, fmt.Errorf("award %q: cancel quantity %v must be positive: %w", awardID, q, ErrInvalidQuantity)
	}
	a := t.Awards[i]
	if q.GreaterThan(a.Outstanding()) {
		return nil, fmt.Errorf("award %q: cannot cancel %v, only %v outstanding: %w", awardID, q, a.Outstanding(), ErrInsufficientShares)
	}
	n := t.Clone()
	if a.PlanID != "" {
		j := n.planIndex(a.PlanID)
		if j < 0 {
			return nil, fmt.Errorf("award %q: unknown plan %q: %w", a.ID, a.PlanID, ErrInvariant)
		}
		p, err := n.Plans[j].Cancel(q)
		if err != nil {
			return nil, err
		}
		n.Plans[j] = p
	}
	a.QuantityCanceled = a.QuantityCanceled.Add(q)
	n.Awards[i] = a
	return n, nil
}

// Convert returns the table after converting a convertible into shares of
// classID: the instrument is flagged converted and the new shares are issued.
func (t *CapTable) Convert(convertibleID string, r RoundTerms, classID string) (*CapTable, Conversion, error) {
	i := t.convertibleIndex(convertibleID)
	if i < 0 {
		return nil, Conversion{}, fmt.Errorf("unknown convertible %q", convertibleID)
	}
	if _, ok := t.Class(classID); !ok {
		return nil, Conversion{}, fmt.Errorf("convertible %q: unknown class %q: %w", convertibleID, classID, ErrInvariant)
	}
	conv, err := Convert(t.Convertibles[i], r)
	if err != nil {
		return nil, Conversion{}, err
	}
	n := t.Clone()
	n.Convertibles[i] = MarkConverted(n.Convertibles[i])
	n.Entries = append(n.Entries, conv.Entry(classID, r.Date))
	return n, conv, nil
}

// sortedHolders returns the holder ids of entries, sorted.
func sortedHolders(entries []ShareLedgerEntry) []string {
	var ids []string
	for _, e := range entries {
		if !slices.Contains(ids, e.HolderID) {
			ids = append(ids, e.HolderID)
		}
	}
	slices.SortFunc(ids, cmp.Compare[string])
	return ids
}
