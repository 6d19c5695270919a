package core

import (
	"errors"
	"strings"
	"time"
)

// CategoryOther is the fallback category for descriptions that match no
// taxonomy keyword.
const CategoryOther = "other"

type (
	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Money is a monetary amount in integer cents. Amounts cross the wire
	// as plain dollar numbers; cents keep the arithmetic exact.
	Money struct {
		Cents int64
	}

	// Expense is one recorded monetary transaction. Records are immutable
	// after creation; the only mutation the system supports is deletion.
	Expense struct {
		ID          int64
		Amount      Money
		Description string
		Category    string
		Date        Date
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}
