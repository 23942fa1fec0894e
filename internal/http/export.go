package http

import (
	"encoding/csv"
	"log/slog"
	"net/http"

	"wasteboard/internal/core"
)

const exportFilename = "hospital_waste_audit_data.csv"

// handleExport streams the currently filtered rows as a CSV download with
// the enriched columns, header included.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
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
		slog.ErrorContext(r.Context(), "Export build error", "error", err)
		http.Error(w, "data source unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns(opts.HasWasteType)); err != nil {
		slog.ErrorContext(r.Context(), "Export header write error", "error", err)
		return
	}
	for _, row := range view.Rows {
		if err := cw.Write(row); err != nil {
			slog.ErrorContext(r.Context(), "Export row write error", "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.ErrorContext(r.Context(), "Export flush error", "error", err)
	}
}

// exportColumns lists the enriched dataset columns; Waste_Type appears only
// when the source carried it.
func exportColumns(hasWasteType bool) []string {
	cols := []string{"Date", "Department", "Weight_kg", "Infectious"}
	if hasWasteType {
		cols = append(cols, "Waste_Type")
	}
	return append(cols, "Month", "Bin_Color")
}

// buildRows renders records into export/table rows matching exportColumns.
func buildRows(records []core.WasteRecord, hasWasteType bool) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{
			rec.Date.Format("2006-01-02"),
			rec.Department,
			rec.Weight.String(),
			string(rec.Infectious),
		}
		if hasWasteType {
			row = append(row, rec.WasteType)
		}
		row = append(row, rec.Month, string(rec.BinColor))
		rows = append(rows, row)
	}
	return rows
}
