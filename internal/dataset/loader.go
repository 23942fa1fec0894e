package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wasteboard/internal/core"
)

// Column names expected in the source file. Date, Department, Weight_kg and
// Infectious are required; Waste_Type and Bin_Color are optional.
const (
	colDate       = "Date"
	colDepartment = "Department"
	colWeight     = "Weight_kg"
	colInfectious = "Infectious"
	colWasteType  = "Waste_Type"
	colBinColor   = "Bin_Color"
)

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// LoadError reports a fatal problem reading or parsing the source file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Dataset is the enriched, read-only base dataset.
type Dataset struct {
	Records []core.WasteRecord

	// HasWasteType reports whether the source carried the Waste_Type column.
	// When false the by-waste-type view degrades with a warning.
	HasWasteType bool

	// HasBinColor reports whether Bin_Color came from the source file. When
	// true the source values are preserved verbatim and the classifier is
	// not applied (enrichment is skip-if-present, keyed on column presence).
	HasBinColor bool
}

// Load reads the CSV at path and returns the enriched dataset. Any missing
// file, missing required column or malformed row is a *LoadError.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	ds, err := read(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}

func read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDate, colDepartment, colWeight, colInfectious} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	ds := &Dataset{}
	_, ds.HasWasteType = cols[colWasteType]
	_, ds.HasBinColor = cols[colBinColor]

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		rec, err := parseRecord(row, cols, ds)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func parseRecord(row []string, cols map[string]int, ds *Dataset) (core.WasteRecord, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := parseDate(field(colDate))
	if err != nil {
		return core.WasteRecord{}, err
	}

	weight, err := decimal.NewFromString(field(colWeight))
	if err != nil {
		return core.WasteRecord{}, fmt.Errorf("parse weight %q: %w", field(colWeight), err)
	}

	rec := core.WasteRecord{
		Date:       date,
		Department: field(colDepartment),
		Weight:     weight,
		Infectious: core.Infectious(field(colInfectious)),
		WasteType:  field(colWasteType),
		Month:      core.MonthName(date),
	}
	if ds.HasBinColor {
		rec.BinColor = core.BinColor(field(colBinColor))
	} else {
		rec.BinColor = core.Classify(rec.Infectious, rec.WasteType)
	}

	if err := rec.Validate(); err != nil {
		return core.WasteRecord{}, err
	}
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: no known layout", s)
}

// Options derives the dashboard control options: months present in the data
// in calendar order, departments sorted.
func Options(ds *Dataset) core.FilterOptions {
	months := make(map[string]bool)
	depts := make(map[string]bool)
	for _, r := range ds.Records {
		months[r.Month] = true
		depts[r.Department] = true
	}

	sortedDepts := make([]string, 0, len(depts))
	for d := range depts {
		sortedDepts = append(sortedDepts, d)
	}
	sort.Strings(sortedDepts)

	return core.FilterOptions{
		Months:       core.MonthsInCalendarOrder(months),
		Departments:  sortedDepts,
		HasWasteType: ds.HasWasteType,
	}
}

// Apply returns the records matching the filter, preserving load order.
func Apply(ds *Dataset, f core.Filter) []core.WasteRecord {
	out := make([]core.WasteRecord, 0)
	for _, r := range ds.Records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
