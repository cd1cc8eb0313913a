package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Strategy selects how sync progress is tracked across invocations.
// A deployment uses exactly one strategy.
type Strategy string

// Available cursor strategies.
const (
	// StrategyPage walks the full history oldest first, one page number at a time.
	StrategyPage Strategy = "page"

	// StrategyWindow walks calendar months from the present towards the past.
	StrategyWindow Strategy = "window"
)

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyPage, StrategyWindow:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyPage:
		return "Page cursor (full history, oldest first)"
	case StrategyWindow:
		return "Date window (one month at a time, newest first)"
	default:
		return "Unknown"
	}
}

// monthLayout is the persisted form of a Month.
const monthLayout = "2006-01-02"

// Month identifies a calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses YYYY-MM-DD or YYYY-MM. The day is ignored.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{monthLayout, "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOf(t), nil
		}
	}
	return Month{}, fmt.Errorf("%w: month %q", ErrInvalidCursor, s)
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Prev returns the month before m.
func (m Month) Prev() Month {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	return m.Start().Before(o.Start())
}

// IsZero reports whether the month is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String returns the first day of the month as YYYY-MM-DD.
func (m Month) String() string {
	return m.Start().Format(monthLayout)
}

// Cursor is the resumable position of a sync. It always names the next
// unit of work to attempt, never the last one completed.
type Cursor struct {
	Strategy Strategy

	// Page is the next page to fetch. In window mode it is the page within Month
	// and is not persisted.
	Page int

	// Month is the window being synced. Window mode only.
	Month Month
}

// StartCursor returns the cursor used when no checkpoint is stored:
// page 1 for page mode, the current month for window mode.
func StartCursor(strategy Strategy, now time.Time) Cursor {
	if strategy == StrategyWindow {
		return Cursor{Strategy: StrategyWindow, Page: 1, Month: MonthOf(now)}
	}
	return Cursor{Strategy: StrategyPage, Page: 1}
}

// ParseCursor parses the persisted form of a cursor for the given strategy.
func ParseCursor(strategy Strategy, s string) (Cursor, error) {
	s = strings.TrimSpace(s)
	switch strategy {
	case StrategyPage:
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Cursor{}, fmt.Errorf("%w: page %q", ErrInvalidCursor, s)
		}
		return Cursor{Strategy: StrategyPage, Page: n}, nil
	case StrategyWindow:
		m, err := ParseMonth(s)
		if err != nil {
			return Cursor{}, err
		}
		return Cursor{Strategy: StrategyWindow, Page: 1, Month: m}, nil
	default:
		return Cursor{}, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, strategy)
	}
}

// String returns the persisted form: the page number, or the month as YYYY-MM-DD.
func (c Cursor) String() string {
	if c.Strategy == StrategyWindow {
		return c.Month.String()
	}
	return strconv.Itoa(c.Page)
}

// Label returns a short human-readable position for progress output.
func (c Cursor) Label() string {
	if c.Strategy == StrategyWindow {
		return fmt.Sprintf("%s page %d", c.Month.Start().Format("2006-01"), c.Page)
	}
	return fmt.Sprintf("page %d", c.Page)
}

// NextPage returns the cursor for the following page of the same unit.
func (c Cursor) NextPage() Cursor {
	c.Page++
	return c
}

// PrevWindow returns the first page of the month before the cursor's month.
func (c Cursor) PrevWindow() Cursor {
	return Cursor{Strategy: StrategyWindow, Page: 1, Month: c.Month.Prev()}
}

// AtBoundary reports whether the cursor can be persisted without losing its
// position. Page cursors always can; window cursors only at the start of a month.
func (c Cursor) AtBoundary() bool {
	return c.Strategy != StrategyWindow || c.Page <= 1
}
