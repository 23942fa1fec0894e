package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wasteboard/internal/core"
)

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords(t *testing.T) []core.WasteRecord {
	t.Helper()
	mk := func(d int, dept, weight string, inf core.Infectious, wt string) core.WasteRecord {
		r := core.WasteRecord{
			Date:       day(d),
			Department: dept,
			Weight:     mustDec(t, weight),
			Infectious: inf,
			WasteType:  wt,
			Month:      "March",
		}
		r.BinColor = core.Classify(inf, wt)
		return r
	}
	return []core.WasteRecord{
		mk(5, "ICU", "12.5", core.InfectiousYes, "Sharps Container"),
		mk(5, "ICU", "3.5", core.InfectiousNo, "Recyclable Plastic"),
		mk(6, "Surgery", "8.0", core.InfectiousYes, "Pathological"),
		mk(7, "Pharmacy", "1.0", core.InfectiousNo, "General"),
	}
}

func TestBuildTotals(t *testing.T) {
	d := Build(sampleRecords(t), true)
	if d.Totals.Count != 4 {
		t.Fatalf("count = %d, want 4", d.Totals.Count)
	}
	if !d.Totals.Total.Equal(mustDec(t, "25")) {
		t.Fatalf("total = %s, want 25", d.Totals.Total)
	}
	if !d.Totals.Infectious.Equal(mustDec(t, "20.5")) {
		t.Fatalf("infectious = %s, want 20.5", d.Totals.Infectious)
	}
	if !d.Totals.Peak.Equal(mustDec(t, "12.5")) {
		t.Fatalf("peak = %s, want 12.5", d.Totals.Peak)
	}
	if !d.Totals.Average.Equal(mustDec(t, "6.25")) {
		t.Fatalf("average = %s, want 6.25", d.Totals.Average)
	}
}

func TestBuildEmptySet(t *testing.T) {
	d := Build(nil, true)
	if d.Totals.Count != 0 {
		t.Fatalf("count = %d", d.Totals.Count)
	}
	if !d.Totals.Total.IsZero() || !d.Totals.Infectious.IsZero() {
		t.Fatal("empty-set sums must be zero")
	}
	if len(d.InfectiousRatio) != 0 || len(d.ByDepartment) != 0 || len(d.DailyTrend) != 0 {
		t.Fatal("empty-set views must be empty, not nil-panic or NaN")
	}
}

func TestSumsConserved(t *testing.T) {
	// The by-department grouped values must add back up to the total.
	d := Build(sampleRecords(t), true)
	var sum decimal.Decimal
	for _, g := range d.ByDepartment {
		sum = sum.Add(g.Weight)
	}
	if !sum.Equal(d.Totals.Total) {
		t.Fatalf("department sums %s != total %s", sum, d.Totals.Total)
	}

	sum = decimal.Zero
	for _, g := range d.ByBinColor {
		sum = sum.Add(g.Weight)
	}
	if !sum.Equal(d.Totals.Total) {
		t.Fatalf("bin color sums %s != total %s", sum, d.Totals.Total)
	}

	sum = decimal.Zero
	for _, g := range d.ByDeptInfectious {
		sum = sum.Add(g.Weight)
	}
	if !sum.Equal(d.Totals.Total) {
		t.Fatalf("dept×infectious sums %s != total %s", sum, d.Totals.Total)
	}
}

func TestByDepartmentAscending(t *testing.T) {
	d := Build(sampleRecords(t), true)
	for i := 1; i < len(d.ByDepartment); i++ {
		if d.ByDepartment[i].Weight.LessThan(d.ByDepartment[i-1].Weight) {
			t.Fatalf("by-department not ascending: %v", d.ByDepartment)
		}
	}
	if d.ByDepartment[0].Key != "Pharmacy" {
		t.Fatalf("smallest department = %q, want Pharmacy", d.ByDepartment[0].Key)
	}
}

func TestByWasteTypeDescending(t *testing.T) {
	d := Build(sampleRecords(t), true)
	if len(d.ByWasteType) != 4 {
		t.Fatalf("got %d waste types", len(d.ByWasteType))
	}
	for i := 1; i < len(d.ByWasteType); i++ {
		if d.ByWasteType[i].Weight.GreaterThan(d.ByWasteType[i-1].Weight) {
			t.Fatalf("by-waste-type not descending: %v", d.ByWasteType)
		}
	}
	if d.ByWasteType[0].Key != "Sharps Container" {
		t.Fatalf("largest waste type = %q", d.ByWasteType[0].Key)
	}
}

func TestWasteTypeUnavailable(t *testing.T) {
	d := Build(sampleRecords(t), false)
	if d.WasteTypeAvailable {
		t.Fatal("WasteTypeAvailable must be false")
	}
	if len(d.ByWasteType) != 0 {
		t.Fatal("ByWasteType must be empty when the column is missing")
	}
	// the rest of the dashboard still computes
	if d.Totals.Count != 4 || len(d.ByDepartment) != 3 {
		t.Fatal("other views must still render")
	}
}

func TestInfectiousRatioOrder(t *testing.T) {
	d := Build(sampleRecords(t), true)
	if len(d.InfectiousRatio) != 2 {
		t.Fatalf("got %d ratio slices", len(d.InfectiousRatio))
	}
	if d.InfectiousRatio[0].Key != "Yes" || d.InfectiousRatio[1].Key != "No" {
		t.Fatalf("ratio order: %v", d.InfectiousRatio)
	}
	if !d.InfectiousRatio[0].Weight.Equal(mustDec(t, "20.5")) {
		t.Fatalf("Yes slice = %s", d.InfectiousRatio[0].Weight)
	}
}

func TestDailyTrendAscending(t *testing.T) {
	d := Build(sampleRecords(t), true)
	if len(d.DailyTrend) != 3 {
		t.Fatalf("got %d trend points", len(d.DailyTrend))
	}
	if !d.DailyTrend[0].Date.Equal(day(5)) {
		t.Fatalf("first point %v", d.DailyTrend[0].Date)
	}
	// the two day-5 records collapse into one point
	if !d.DailyTrend[0].Weight.Equal(mustDec(t, "16")) {
		t.Fatalf("day 5 sum = %s, want 16", d.DailyTrend[0].Weight)
	}
	for i := 1; i < len(d.DailyTrend); i++ {
		if d.DailyTrend[i].Date.Before(d.DailyTrend[i-1].Date) {
			t.Fatal("trend not ascending")
		}
	}
}

func TestByDeptInfectiousOrder(t *testing.T) {
	d := Build(sampleRecords(t), true)
	if len(d.ByDeptInfectious) != 4 {
		t.Fatalf("got %d bars", len(d.ByDeptInfectious))
	}
	// ICU has both flags: Yes sorts before No within the department
	if d.ByDeptInfectious[0].Department != "ICU" || d.ByDeptInfectious[0].Infectious != core.InfectiousYes {
		t.Fatalf("first bar %v", d.ByDeptInfectious[0])
	}
	if d.ByDeptInfectious[1].Department != "ICU" || d.ByDeptInfectious[1].Infectious != core.InfectiousNo {
		t.Fatalf("second bar %v", d.ByDeptInfectious[1])
	}
}
