package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	InfectiousYes Infectious = "Yes"
	InfectiousNo  Infectious = "No"
)

const (
	BinRed    BinColor = "Red"
	BinYellow BinColor = "Yellow"
	BinBlue   BinColor = "Blue"
	BinBlack  BinColor = "Black"
)

type (
	// Infectious is the biohazard flag carried by each record, the literal
	// strings "Yes" and "No" as they appear in the source file.
	Infectious string

	// BinColor is the disposal-container compliance category.
	BinColor string

	// WasteRecord is one audited waste entry. Records are immutable after
	// the loader's one-time enrichment pass (Month, BinColor).
	WasteRecord struct {
		Date       time.Time
		Department string
		Weight     decimal.Decimal // kilograms, non-negative
		Infectious Infectious
		WasteType  string // optional in the source
		Month      string // full English month name, derived from Date
		BinColor   BinColor
	}
)

var (
	ErrZeroDate          = errors.New("zero date")
	ErrEmptyDepartment   = errors.New("empty department")
	ErrNegativeWeight    = errors.New("negative weight")
	ErrInvalidInfectious = errors.New("infectious flag must be Yes or No")
)

// MonthNames lists the twelve English month names in calendar order.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Classify maps the infectious flag and waste-type label to a bin color.
// The substring checks are case-sensitive, matching the audit convention:
// infectious sharps go to red bins, other infectious waste to yellow,
// recyclables to blue and everything else to black.
func Classify(infectious Infectious, wasteType string) BinColor {
	if infectious == InfectiousYes {
		if strings.Contains(wasteType, "Sharps") {
			return BinRed
		}
		return BinYellow
	}
	if strings.Contains(wasteType, "Recyclable") {
		return BinBlue
	}
	return BinBlack
}

func (i Infectious) Validate() error {
	if i != InfectiousYes && i != InfectiousNo {
		return ErrInvalidInfectious
	}
	return nil
}

func (r WasteRecord) Validate() error {
	if r.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(r.Department) == "" {
		return ErrEmptyDepartment
	}
	if r.Weight.IsNegative() {
		return ErrNegativeWeight
	}
	return r.Infectious.Validate()
}

// MonthName returns the full English month name for a date.
func MonthName(d time.Time) string {
	return d.Format("January")
}

// MonthsInCalendarOrder filters MonthNames down to the names present in the
// given set, preserving calendar order.
func MonthsInCalendarOrder(present map[string]bool) []string {
	out := make([]string, 0, len(present))
	for _, m := range MonthNames {
		if present[m] {
			out = append(out, m)
		}
	}
	return out
}
