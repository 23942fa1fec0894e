package core

// Filter is a pair of selection sets applied with logical AND. Membership is
// exact: an empty set selects nothing, it is not a wildcard. The "select all"
// initial state is expressed by passing every value from FilterOptions.
type Filter struct {
	Months      []string
	Departments []string
}

// FilterOptions are the distinct values available to the dashboard controls,
// months in calendar order and departments sorted. HasWasteType reports
// whether the source carried the optional waste-type column.
type FilterOptions struct {
	Months       []string
	Departments  []string
	HasWasteType bool
}

// All builds the identity filter for these options.
func (o FilterOptions) All() Filter {
	return Filter{
		Months:      append([]string(nil), o.Months...),
		Departments: append([]string(nil), o.Departments...),
	}
}

// Matches reports whether a record satisfies both selection sets.
func (f Filter) Matches(r WasteRecord) bool {
	return contains(f.Months, r.Month) && contains(f.Departments, r.Department)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
