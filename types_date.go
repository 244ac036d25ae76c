package captable

import (
	"time"

	"github.com/etnz/captable/date"
)

// Date is a calendar date with day granularity.
type Date = date.Date

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date { return date.New(year, month, day) }

// ParseDate parses a Date in the lenient ISO format accepted by the ledger files.
func ParseDate(s string) (Date, error) { return date.Parse(s) }

// Today returns the current date in the local time zone.
func Today() Date { return date.Today() }
