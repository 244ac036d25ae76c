package date

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar period vesting schedules are summarized by.
type Period int

const (
	Monthly Period = iota
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(p)
	switch p {
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year", "annual":
		return Yearly, nil
	default:
		return Monthly, fmt.Errorf("unknown period %q, want monthly, quarterly or yearly", p)
	}
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(p Period) Date {
	switch p {
	case Quarterly:
		q := (d.m-1)/3*3 + 3 // last month of the quarter
		return New(d.y, q, daysIn(d.y, q))
	case Yearly:
		return New(d.y, time.December, 31)
	default:
		return New(d.y, d.m, daysIn(d.y, d.m))
	}
}
