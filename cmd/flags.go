package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/captable"
)

// moneyFlag is a flag.Value accepting the user notations of ParseMoney.
type moneyFlag struct{ captable.Money }

func (m *moneyFlag) String() string { return m.Money.String() }
func (m *moneyFlag) Set(s string) error {
	v, err := captable.ParseMoney(s)
	if err != nil {
		return err
	}
	m.Money = v
	return nil
}

// sharesFlag is a flag.Value accepting the user notations of ParseShares.
type sharesFlag struct{ captable.Quantity }

func (q *sharesFlag) String() string { return q.Quantity.String() }
func (q *sharesFlag) Set(s string) error {
	v, err := captable.ParseShares(s)
	if err != nil {
		return err
	}
	q.Quantity = v
	return nil
}

// dateFlag is a flag.Value for dates, unset means today.
type dateFlag struct{ captable.Date }

func (d *dateFlag) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Date.String()
}
func (d *dateFlag) Set(s string) error {
	v, err := captable.ParseDate(s)
	if err != nil {
		return err
	}
	d.Date = v
	return nil
}

// get returns the date, or today when unset.
func (d *dateFlag) get() captable.Date {
	if d.IsZero() {
		return captable.Today()
	}
	return d.Date
}

// parseRatio parses a split ratio: "2:1", "2-for-1", "1:10" or a single
// integer meaning n-for-1.
func parseRatio(s string) (num, den int64, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	parts := strings.Split(strings.ReplaceAll(s, "-for-", ":"), ":")
	if len(parts) == 1 {
		parts = append(parts, "1")
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid split ratio %q, want num:den", s)
	}
	if num, err = strconv.ParseInt(parts[0], 10, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid split ratio %q: %w", s, err)
	}
	if den, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid split ratio %q: %w", s, err)
	}
	return num, den, nil
}
