package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"wasteboard/internal/core"
)

// averagePlaces is the scale used for the mean KPI.
const averagePlaces = 4

type (
	// Totals are the scalar KPIs for a filtered set. Average and Peak are
	// meaningful only when Count > 0; the presentation layer renders "N/A"
	// for the empty set instead of propagating an undefined value.
	Totals struct {
		Count      int
		Total      decimal.Decimal
		Infectious decimal.Decimal
		Average    decimal.Decimal
		Peak       decimal.Decimal
	}

	// WeightByKey is one slice of a grouped sum.
	WeightByKey struct {
		Key    string
		Weight decimal.Decimal
	}

	// DeptInfectiousWeight is one bar of the department × infectious view.
	DeptInfectiousWeight struct {
		Department string
		Infectious core.Infectious
		Weight     decimal.Decimal
	}

	// DailyWeight is one point of the daily trend.
	DailyWeight struct {
		Date   time.Time
		Weight decimal.Decimal
	}

	// Dashboard holds every derived view for one filtered set. All views
	// are pure functions of the records; the struct is rebuilt from scratch
	// on every filter change and never mutated afterwards.
	Dashboard struct {
		Totals           Totals
		InfectiousRatio  []WeightByKey
		ByDepartment     []WeightByKey // ascending by weight
		ByWasteType      []WeightByKey // descending by weight
		ByBinColor       []WeightByKey
		ByDeptInfectious []DeptInfectiousWeight
		DailyTrend       []DailyWeight

		// WasteTypeAvailable is false when the source lacks the Waste_Type
		// column; ByWasteType is then empty and the view shows a warning.
		WasteTypeAvailable bool
	}
)

// Build computes every dashboard view from the filtered records.
func Build(records []core.WasteRecord, hasWasteType bool) Dashboard {
	d := Dashboard{
		Totals:             buildTotals(records),
		InfectiousRatio:    infectiousRatio(records),
		ByDepartment:       byDepartment(records),
		ByBinColor:         byBinColor(records),
		ByDeptInfectious:   byDeptInfectious(records),
		DailyTrend:         dailyTrend(records),
		WasteTypeAvailable: hasWasteType,
	}
	if hasWasteType {
		d.ByWasteType = byWasteType(records)
	}
	return d
}

func buildTotals(records []core.WasteRecord) Totals {
	t := Totals{Count: len(records)}
	for _, r := range records {
		t.Total = t.Total.Add(r.Weight)
		if r.Infectious == core.InfectiousYes {
			t.Infectious = t.Infectious.Add(r.Weight)
		}
		if r.Weight.GreaterThan(t.Peak) {
			t.Peak = r.Weight
		}
	}
	if t.Count > 0 {
		t.Average = t.Total.DivRound(decimal.NewFromInt(int64(t.Count)), averagePlaces)
	}
	return t
}

func infectiousRatio(records []core.WasteRecord) []WeightByKey {
	sums := groupSum(records, func(r core.WasteRecord) string { return string(r.Infectious) })
	// fixed order: Yes then No, keeping only categories present
	out := make([]WeightByKey, 0, 2)
	for _, k := range []string{string(core.InfectiousYes), string(core.InfectiousNo)} {
		if w, ok := sums[k]; ok {
			out = append(out, WeightByKey{Key: k, Weight: w})
		}
	}
	return out
}

func byDepartment(records []core.WasteRecord) []WeightByKey {
	out := toSlice(groupSum(records, func(r core.WasteRecord) string { return r.Department }))
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Weight.Cmp(out[j].Weight); c != 0 {
			return c < 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func byWasteType(records []core.WasteRecord) []WeightByKey {
	out := toSlice(groupSum(records, func(r core.WasteRecord) string { return r.WasteType }))
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Weight.Cmp(out[j].Weight); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func byBinColor(records []core.WasteRecord) []WeightByKey {
	sums := groupSum(records, func(r core.WasteRecord) string { return string(r.BinColor) })
	// regulatory order keeps the legend stable across filter changes
	order := []string{string(core.BinRed), string(core.BinYellow), string(core.BinBlue), string(core.BinBlack)}
	out := make([]WeightByKey, 0, len(sums))
	for _, k := range order {
		if w, ok := sums[k]; ok {
			out = append(out, WeightByKey{Key: k, Weight: w})
			delete(sums, k)
		}
	}
	// source files may carry labels outside the four standard colors
	for _, extra := range toSlice(sums) {
		out = append(out, extra)
	}
	return out
}

func byDeptInfectious(records []core.WasteRecord) []DeptInfectiousWeight {
	type key struct {
		dept string
		inf  core.Infectious
	}
	sums := make(map[key]decimal.Decimal)
	for _, r := range records {
		k := key{dept: r.Department, inf: r.Infectious}
		sums[k] = sums[k].Add(r.Weight)
	}
	out := make([]DeptInfectiousWeight, 0, len(sums))
	for k, w := range sums {
		out = append(out, DeptInfectiousWeight{Department: k.dept, Infectious: k.inf, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Department != out[j].Department {
			return out[i].Department < out[j].Department
		}
		return out[i].Infectious == core.InfectiousYes && out[j].Infectious != core.InfectiousYes
	})
	return out
}

func dailyTrend(records []core.WasteRecord) []DailyWeight {
	sums := make(map[time.Time]decimal.Decimal)
	for _, r := range records {
		sums[r.Date] = sums[r.Date].Add(r.Weight)
	}
	out := make([]DailyWeight, 0, len(sums))
	for d, w := range sums {
		out = append(out, DailyWeight{Date: d, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func groupSum(records []core.WasteRecord, keyOf func(core.WasteRecord) string) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range records {
		k := keyOf(r)
		sums[k] = sums[k].Add(r.Weight)
	}
	return sums
}

func toSlice(sums map[string]decimal.Decimal) []WeightByKey {
	out := make([]WeightByKey, 0, len(sums))
	for k, w := range sums {
		out = append(out, WeightByKey{Key: k, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
