package captable

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewID returns a fresh identifier for a record minted by the engine.
func NewID() string { return uuid.NewString() }

// ShareLedgerEntry is one issuance of shares of one security class to one holder.
//
// Entries are never deleted, corrections are new entries.
type ShareLedgerEntry struct {
	ID            string
	HolderID      string
	ClassID       string
	Quantity      Quantity
	IssueDate     Date
	Consideration Money // zero when no cash was paid (conversion, founder stock)
}

// AwardType is the kind of an equity award.
type AwardType string

const (
	ISO     AwardType = "ISO"
	NSO     AwardType = "NSO"
	RSU     AwardType = "RSU"
	Warrant AwardType = "warrant"
)

// ParseAwardType parses an award type, case-sensitive except for "WARRANT".
func ParseAwardType(s string) (AwardType, error) {
	switch AwardType(s) {
	case ISO, NSO, RSU, Warrant:
		return AwardType(s), nil
	case "WARRANT", "Warrant":
		return Warrant, nil
	default:
		return "", fmt.Errorf("unknown award type %q, want one of ISO, NSO, RSU, warrant", s)
	}
}

// IsOption reports whether the award is a stock option (ISO or NSO).
func (t AwardType) IsOption() bool { return t == ISO || t == NSO }

// EquityAward is an option, RSU or warrant grant to a holder.
//
// For RSUs QuantityExercised holds the released units and StrikePrice is zero.
type EquityAward struct {
	ID                string
	HolderID          string
	PlanID            string // option plan the award was granted from, empty for warrants
	Type              AwardType
	QuantityGranted   Quantity
	QuantityExercised Quantity
	QuantityCanceled  Quantity
	QuantityExpired   Quantity
	GrantDate         Date
	VestingStartDate  Date
	CliffMonths       int
	TotalMonths       int
	StrikePrice       Money // zero means undefined
}

// reduced is the part of the grant that is no longer outstanding.
func (a EquityAward) reduced() Quantity {
	return a.QuantityExercised.Add(a.QuantityCanceled).Add(a.QuantityExpired)
}

// Outstanding returns the quantity still held under the award:
// granted minus exercised, canceled and expired.
func (a EquityAward) Outstanding() Quantity { return a.QuantityGranted.Sub(a.reduced()) }

// Validate checks the award quantities and schedule.
func (a EquityAward) Validate() error {
	quantities := []struct {
		name string
		q    Quantity
	}{
		{"granted", a.QuantityGranted},
		{"exercised", a.QuantityExercised},
		{"canceled", a.QuantityCanceled},
		{"expired", a.QuantityExpired},
	}
	for _, f := range quantities {
		if f.q.IsNegative() {
			return fmt.Errorf("award %q: %s quantity %v is negative: %w", a.ID, f.name, f.q, ErrInvalidQuantity)
		}
	}
	if a.reduced().GreaterThan(a.QuantityGranted) {
		return fmt.Errorf("award %q: exercised+canceled+expired %v exceeds granted %v: %w", a.ID, a.reduced(), a.QuantityGranted, ErrInvariant)
	}
	if a.CliffMonths < 0 || a.TotalMonths < 0 || a.CliffMonths > a.TotalMonths {
		return fmt.Errorf("award %q: invalid vesting schedule cliff=%d total=%d: %w", a.ID, a.CliffMonths, a.TotalMonths, ErrInvariant)
	}
	if a.StrikePrice.IsNegative() {
		return fmt.Errorf("award %q: negative strike price %v: %w", a.ID, a.StrikePrice, ErrInvariant)
	}
	return nil
}

// ConvertibleType is the kind of a convertible instrument.
type ConvertibleType string

const (
	SAFE ConvertibleType = "SAFE"
	Note ConvertibleType = "note"
)

// Compounding is the interest compounding convention of a convertible note.
type Compounding string

const (
	Simple     Compounding = "simple"
	Annual     Compounding = "annual"
	Semiannual Compounding = "semiannual"
	Quarterly  Compounding = "quarterly"
	Monthly    Compounding = "monthly"
)

// periodsPerYear returns the number of compounding periods per year, 0 for simple interest.
func (c Compounding) periodsPerYear() (int, error) {
	switch c {
	case "", Simple:
		return 0, nil
	case Annual:
		return 1, nil
	case Semiannual:
		return 2, nil
	case Quarterly:
		return 4, nil
	case Monthly:
		return 12, nil
	default:
		return 0, fmt.Errorf("unknown compounding %q: %w", c, ErrMissingTerms)
	}
}

// ConvertibleInstrument is a SAFE or convertible note.
//
// Zero optional terms mean "not set": no discount, no cap, no interest.
// Principal, discount and cap are contractual dollar terms, never split-adjusted.
type ConvertibleInstrument struct {
	ID           string
	HolderID     string
	Type         ConvertibleType
	Framework    string          // e.g. "YC post-money", informational
	Principal    Money
	IssueDate    Date
	DiscountRate decimal.Decimal // fraction, 0.20 for a 20% discount
	ValuationCap Money
	InterestRate decimal.Decimal // annual percent, 8 for 8%
	Compounding  Compounding
	PostMoney    bool
	Converted    bool // set by the caller once the conversion is persisted
}

// SecurityClass holds the terms of a class of shares.
//
// The liquidation preference is a multiple of the original issue price, a
// contractual term that splits do not touch.
type SecurityClass struct {
	ID                            string
	Name                          string
	LiquidationPreferenceMultiple decimal.Decimal
	Participating                 bool
	VotingRights                  bool
	SeniorityTier                 int
}
