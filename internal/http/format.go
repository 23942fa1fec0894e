package http

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"wasteboard/internal/core"
)

// formatKg renders a weight with thousands separators and a fixed number of
// decimals, e.g. 12345.678 -> "12,345.68 kg".
func formatKg(d decimal.Decimal, places int32) string {
	return groupThousands(d.StringFixed(places)) + " kg"
}

// groupThousands inserts comma separators into the integer part of a fixed
// decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

// periodLabel builds the reporting-period caption: "Full Year <y>" when all
// twelve months are selected, otherwise the selected months joined by commas.
func periodLabel(months []string, year int) string {
	if len(months) == 0 {
		return "No period selected"
	}
	y := strconv.Itoa(year)
	if len(months) == len(core.MonthNames) {
		return "Full Year " + y
	}
	ordered := append([]string(nil), months...)
	sortMonths(ordered)
	return strings.Join(ordered, ", ") + " " + y
}

// sortMonths orders month names by calendar position; unknown names sink to
// the end alphabetically.
func sortMonths(months []string) {
	pos := make(map[string]int, len(core.MonthNames))
	for i, m := range core.MonthNames {
		pos[m] = i
	}
	sort.SliceStable(months, func(i, j int) bool {
		pi, iok := pos[months[i]]
		pj, jok := pos[months[j]]
		if iok && jok {
			return pi < pj
		}
		if iok != jok {
			return iok
		}
		return months[i] < months[j]
	})
}

// filterKey builds the canonical cache key for a selection: both sets sorted
// and joined, so equivalent selections share one cache entry.
func filterKey(f core.Filter) string {
	months := append([]string(nil), f.Months...)
	depts := append([]string(nil), f.Departments...)
	sort.Strings(months)
	sort.Strings(depts)
	return strings.Join(months, ",") + "|" + strings.Join(depts, ",")
}
