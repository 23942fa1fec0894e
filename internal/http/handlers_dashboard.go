package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"wasteboard/internal/core"
	"wasteboard/internal/report"
)

// handleIndex renders the dashboard page with the control options baked in.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	opts, err := s.reader.Options(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Filter options error", "error", err)
		http.Error(w, "data source unavailable", http.StatusServiceUnavailable)
		return
	}

	data := struct {
		Months       []string
		Departments  []string
		HasWasteType bool
	}{
		Months:       opts.Months,
		Departments:  opts.Departments,
		HasWasteType: opts.HasWasteType,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type labelValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type groupedBar struct {
	Department string  `json:"department"`
	Infectious string  `json:"infectious"`
	Value      float64 `json:"value"`
}

type trendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type kpiSet struct {
	TotalWaste      string `json:"total_waste"`
	InfectiousWaste string `json:"infectious_waste"`
	AverageOutput   string `json:"average_output"`
	PeakLoad        string `json:"peak_load"`
}

type dashboardResponse struct {
	Period      string   `json:"period"`
	RecordCount int      `json:"record_count"`
	Warnings    []string `json:"warnings,omitempty"`

	KPIs kpiSet `json:"kpis"`

	InfectiousRatio  []labelValue `json:"infectious_ratio"`
	ByDepartment     []labelValue `json:"by_department"`
	ByWasteType      []labelValue `json:"by_waste_type"`
	ByBinColor       []labelValue `json:"by_bin_color"`
	ByDeptInfectious []groupedBar `json:"by_dept_infectious"`
	DailyTrend       []trendPoint `json:"daily_trend"`

	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// cachedView is what the LRU holds per filter key: the aggregated views plus
// the raw rows the table and export share.
type cachedView struct {
	Dash report.Dashboard
	Rows [][]string
	Year int
}

// handleDashboardData computes every view for the requested selection and
// returns them as one JSON document.
func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	opts, err := s.reader.Options(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Filter options error", "error", err)
		http.Error(w, "data source unavailable", http.StatusServiceUnavailable)
		return
	}
	f := s.selection(r, opts)

	view, err := s.view(r, f, opts)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard build error", "error", err)
		http.Error(w, "data source unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := buildResponse(view, f, opts)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard encode error", "error", err)
	}
}

// selection reads the two multi-select parameters. An absent parameter means
// the select-all initial state; a present parameter is taken literally, so
// an explicitly emptied control yields an empty result.
func (s *Server) selection(r *http.Request, opts core.FilterOptions) core.Filter {
	q := r.URL.Query()
	f := core.Filter{Months: q["months"], Departments: q["departments"]}
	if _, ok := q["months"]; !ok {
		f.Months = opts.Months
	}
	if _, ok := q["departments"]; !ok {
		f.Departments = opts.Departments
	}
	return f
}

// view returns the cached dashboard for a selection, building it on miss.
func (s *Server) view(r *http.Request, f core.Filter, opts core.FilterOptions) (cachedView, error) {
	key := filterKey(f)
	if v, found := s.viewCache.Get(key); found {
		slog.DebugContext(r.Context(), "View cache hit", "key", key)
		return v, nil
	}

	records, err := s.reader.Select(r.Context(), f)
	if err != nil {
		return cachedView{}, err
	}

	v := cachedView{
		Dash: report.Build(records, opts.HasWasteType),
		Rows: buildRows(records, opts.HasWasteType),
		Year: recordYear(records),
	}
	s.viewCache.Set(key, v)
	slog.DebugContext(r.Context(), "View cached", "key", key, "records", len(records))
	return v, nil
}

func buildResponse(v cachedView, f core.Filter, opts core.FilterOptions) dashboardResponse {
	d := v.Dash
	resp := dashboardResponse{
		Period:      periodLabel(f.Months, v.Year),
		RecordCount: d.Totals.Count,
		Columns:     exportColumns(opts.HasWasteType),
		Rows:        v.Rows,
	}

	resp.KPIs = kpiSet{
		TotalWaste:      formatKg(d.Totals.Total, 1),
		InfectiousWaste: formatKg(d.Totals.Infectious, 1),
		AverageOutput:   "N/A",
		PeakLoad:        "N/A",
	}
	// mean and max are undefined over the empty set; render N/A, never NaN
	if d.Totals.Count > 0 {
		resp.KPIs.AverageOutput = formatKg(d.Totals.Average, 2)
		resp.KPIs.PeakLoad = formatKg(d.Totals.Peak, 2)
	}

	for _, g := range d.InfectiousRatio {
		resp.InfectiousRatio = append(resp.InfectiousRatio, labelValue{Label: g.Key, Value: g.Weight.InexactFloat64()})
	}
	for _, g := range d.ByDepartment {
		resp.ByDepartment = append(resp.ByDepartment, labelValue{Label: g.Key, Value: g.Weight.InexactFloat64()})
	}
	for _, g := range d.ByWasteType {
		resp.ByWasteType = append(resp.ByWasteType, labelValue{Label: g.Key, Value: g.Weight.InexactFloat64()})
	}
	for _, g := range d.ByBinColor {
		resp.ByBinColor = append(resp.ByBinColor, labelValue{Label: g.Key, Value: g.Weight.InexactFloat64()})
	}
	for _, g := range d.ByDeptInfectious {
		resp.ByDeptInfectious = append(resp.ByDeptInfectious, groupedBar{
			Department: g.Department,
			Infectious: string(g.Infectious),
			Value:      g.Weight.InexactFloat64(),
		})
	}
	for _, p := range d.DailyTrend {
		resp.DailyTrend = append(resp.DailyTrend, trendPoint{Date: p.Date.Format("2006-01-02"), Value: p.Weight.InexactFloat64()})
	}

	if !d.WasteTypeAvailable {
		resp.Warnings = append(resp.Warnings, "Waste_Type column missing.")
	}
	return resp
}

// recordYear picks the reporting year from the filtered set, falling back to
// the current year when the selection is empty.
func recordYear(records []core.WasteRecord) int {
	if len(records) == 0 {
		return time.Now().Year()
	}
	year := records[0].Date.Year()
	for _, r := range records[1:] {
		if y := r.Date.Year(); y < year {
			year = y
		}
	}
	return year
}
