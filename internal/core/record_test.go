package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		infectious Infectious
		wasteType  string
		want       BinColor
	}{
		{InfectiousYes, "Sharps Container", BinRed},
		{InfectiousYes, "Pathological", BinYellow},
		{InfectiousYes, "", BinYellow},
		{InfectiousNo, "Recyclable Plastic", BinBlue},
		{InfectiousNo, "General", BinBlack},
		{InfectiousNo, "", BinBlack},
		// substring checks are case-sensitive
		{InfectiousYes, "sharps", BinYellow},
		{InfectiousNo, "recyclable", BinBlack},
		// infectious branch never looks at "Recyclable" and vice versa
		{InfectiousYes, "Recyclable Sharps", BinRed},
		{InfectiousNo, "Sharps", BinBlack},
	}
	for i, tc := range cases {
		if got := Classify(tc.infectious, tc.wasteType); got != tc.want {
			t.Fatalf("case %d: Classify(%q, %q) = %q, want %q", i, tc.infectious, tc.wasteType, got, tc.want)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every flag/label pair must land in one of the four bins.
	valid := map[BinColor]bool{BinRed: true, BinYellow: true, BinBlue: true, BinBlack: true}
	for _, inf := range []Infectious{InfectiousYes, InfectiousNo} {
		for _, wt := range []string{"", "Sharps", "Recyclable", "Chemical", "Sharps Recyclable"} {
			got := Classify(inf, wt)
			if !valid[got] {
				t.Fatalf("Classify(%q, %q) = %q, not a bin color", inf, wt, got)
			}
			// deterministic: same inputs, same output
			if again := Classify(inf, wt); again != got {
				t.Fatalf("Classify(%q, %q) not deterministic: %q then %q", inf, wt, got, again)
			}
		}
	}
}

func TestWasteRecordValidate(t *testing.T) {
	good := WasteRecord{
		Date:       time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Department: "ICU",
		Weight:     decimal.RequireFromString("12.5"),
		Infectious: InfectiousYes,
		WasteType:  "Sharps Container",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		r    WasteRecord
		want error
	}{
		{WasteRecord{Department: "ICU", Infectious: InfectiousYes}, ErrZeroDate},
		{WasteRecord{Date: good.Date, Department: " ", Infectious: InfectiousYes}, ErrEmptyDepartment},
		{WasteRecord{Date: good.Date, Department: "ICU", Weight: decimal.RequireFromString("-1"), Infectious: InfectiousNo}, ErrNegativeWeight},
		{WasteRecord{Date: good.Date, Department: "ICU", Infectious: "Maybe"}, ErrInvalidInfectious},
	}
	for i, tc := range bads {
		if err := tc.r.Validate(); err != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)); got != "March" {
		t.Fatalf("got %q, want March", got)
	}
}

func TestMonthsInCalendarOrder(t *testing.T) {
	present := map[string]bool{"March": true, "January": true, "December": true}
	got := MonthsInCalendarOrder(present)
	want := []string{"January", "March", "December"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
