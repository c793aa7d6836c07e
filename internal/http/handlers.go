package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cra/internal/core"
	"cra/internal/export"
	"cra/internal/services"
)

// maxSignatureBytes caps signature uploads at 2 MiB.
const maxSignatureBytes = 2 << 20

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

	contact, err := s.contacts.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Contact load error", "error", err)
	}

	now := time.Now()
	cal := s.timetables.Calendar()

	type monthOption struct {
		Num  int
		Name string
	}
	data := struct {
		Months       []monthOption
		Years        []int
		CurrentMonth int
		CurrentYear  int
		Contact      core.Contact
	}{
		CurrentMonth: int(now.Month()),
		CurrentYear:  now.Year(),
		Contact:      contact,
	}
	for m := 1; m <= 12; m++ {
		data.Months = append(data.Months, monthOption{Num: m, Name: cal.MonthName(m)})
	}
	for y := now.Year() - 1; y <= now.Year()+1; y++ {
		data.Years = append(data.Years, y)
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleTimetable renders the timetable grid partial for a period.
func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	p := parsePeriod(r, r.URL.Query())

	tt, err := s.getTimetable(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Timetable resolve error", "error", err, "month", p.Month, "year", p.Year)
		_, _ = w.Write([]byte(`<section id="timetable" class="timetable"><div class="placeholder">Erreur de chargement du relevé</div></section>`))
		return
	}

	s.renderTimetable(w, r, p, tt)
}

// renderTimetable writes the grid partial for the given period and entries.
func (s *Server) renderTimetable(w http.ResponseWriter, r *http.Request, p core.Period, tt core.Timetable) {
	cal := s.timetables.Calendar()

	type row struct {
		Day     string
		Num     int
		Weekday string
		Value   string
		Weekend bool
		Holiday bool
	}
	data := struct {
		Month int
		Year  int
		Title string
		Rows  []row
		Total string
	}{
		Month: p.Month,
		Year:  p.Year,
		Title: cal.MonthTitle(p),
		Total: formatTotal(tt.Total()),
	}
	for _, t := range cal.DaysOfMonth(p.Year, p.Month) {
		day := t.Format(core.DayFormat)
		data.Rows = append(data.Rows, row{
			Day:     day,
			Num:     t.Day(),
			Weekday: cal.WeekdayName(t),
			Value:   tt[day],
			Weekend: cal.IsWeekend(t),
			Holiday: cal.IsFixedHoliday(t),
		})
	}

	if s.templates == nil {
		_, _ = fmt.Fprintf(w, `<section id="timetable" class="timetable"><div class="placeholder">Total : %s</div></section>`, data.Total)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "timetable.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "timetable.html", "month", p.Month, "year", p.Year)
		_, _ = w.Write([]byte(`<section id="timetable" class="timetable"><div class="placeholder">Erreur de rendu du relevé</div></section>`))
	}
}

// handleTimetableEntry stores a typed value for one day and returns the
// refreshed grid.
func (s *Server) handleTimetableEntry(w http.ResponseWriter, r *http.Request) {
	tt, p, ok := s.beginTimetableMutation(w, r)
	if !ok {
		return
	}

	day, ok := dayOf(tt, r.Form.Get("day"))
	if !ok {
		NewHTMXResponse().Status(http.StatusUnprocessableEntity).Error("Jour invalide").Write(w)
		return
	}

	// Typing keeps the raw-but-sanitized value; leaving the field trims it.
	trim := r.Form.Get("trim") == "1"
	updated, err := s.timetables.SetEntry(r.Context(), p, tt, day, r.Form.Get("value"), trim)
	if err != nil {
		slog.ErrorContext(r.Context(), "Entry save error", "error", err, "day", day)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur d'enregistrement").Write(w)
		return
	}

	s.finishTimetableMutation(w, r, p, updated)
}

// handleTimetableStep adjusts one day by a quarter unit and returns the
// refreshed grid.
func (s *Server) handleTimetableStep(w http.ResponseWriter, r *http.Request) {
	tt, p, ok := s.beginTimetableMutation(w, r)
	if !ok {
		return
	}

	day, ok := dayOf(tt, r.Form.Get("day"))
	if !ok {
		NewHTMXResponse().Status(http.StatusUnprocessableEntity).Error("Jour invalide").Write(w)
		return
	}

	dir := r.Form.Get("dir")
	if dir != "up" && dir != "down" {
		NewHTMXResponse().Status(http.StatusUnprocessableEntity).Error("Sens invalide").Write(w)
		return
	}

	updated, err := s.timetables.Step(r.Context(), p, tt, day, dir == "up")
	if err != nil {
		slog.ErrorContext(r.Context(), "Step save error", "error", err, "day", day, "dir", dir)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur d'enregistrement").Write(w)
		return
	}

	s.finishTimetableMutation(w, r, p, updated)
}

// handleTimetableReset rewrites the whole period and returns the refreshed
// grid. Modes: default, fill, clear.
func (s *Server) handleTimetableReset(w http.ResponseWriter, r *http.Request) {
	tt, p, ok := s.beginTimetableMutation(w, r)
	if !ok {
		return
	}

	mode := r.Form.Get("mode")
	switch mode {
	case services.ResetDefault, services.ResetFill, services.ResetClear:
	default:
		NewHTMXResponse().Status(http.StatusUnprocessableEntity).Error("Mode de réinitialisation invalide").Write(w)
		return
	}

	updated, err := s.timetables.ResetAll(r.Context(), p, tt, mode)
	if err != nil {
		slog.ErrorContext(r.Context(), "Reset save error", "error", err, "mode", mode)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur d'enregistrement").Write(w)
		return
	}

	s.finishTimetableMutation(w, r, p, updated)
}

// beginTimetableMutation enforces POST, parses the form, and resolves the
// current timetable for the submitted period.
func (s *Server) beginTimetableMutation(w http.ResponseWriter, r *http.Request) (core.Timetable, core.Period, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return nil, core.Period{}, false
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		NewHTMXResponse().Status(http.StatusBadRequest).Error("Format de requête invalide").Write(w)
		return nil, core.Period{}, false
	}

	p := parsePeriod(r, r.Form)
	tt, err := s.getTimetable(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Timetable resolve error", "error", err, "month", p.Month, "year", p.Year)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur de chargement du relevé").Write(w)
		return nil, core.Period{}, false
	}
	return tt, p, true
}

// finishTimetableMutation refreshes the cache and answers with the updated
// grid plus a saved trigger.
func (s *Server) finishTimetableMutation(w http.ResponseWriter, r *http.Request, p core.Period, tt core.Timetable) {
	s.putTimetable(p, tt)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	NewHTMXResponse().TriggerTimetableSaved(p.Month, p.Year).Write(w)
	s.renderTimetable(w, r, p, tt)
}

// handleContactField stores one text field of the contact record.
func (s *Server) handleContactField(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		NewHTMXResponse().Status(http.StatusBadRequest).Error("Format de requête invalide").Write(w)
		return
	}

	contact, err := s.contacts.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Contact load error", "error", err)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur de chargement des coordonnées").Write(w)
		return
	}

	field := r.Form.Get("field")
	value := sanitizeInput(r.Form.Get("value"))
	if _, err := s.contacts.SetField(r.Context(), contact, field, value); err != nil {
		if errors.Is(err, core.ErrUnknownContactField) {
			NewHTMXResponse().Status(http.StatusUnprocessableEntity).Error("Champ inconnu").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Contact save error", "error", err, "field", field)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur d'enregistrement").Write(w)
		return
	}

	NewHTMXResponse().TriggerContactSaved().Success("Enregistré").Write(w)
}

// handleContactSignature stores an uploaded signature image as a data URI.
func (s *Server) handleContactSignature(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSignatureBytes)
	if err := r.ParseMultipartForm(maxSignatureBytes); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart error", "error", err, "url", r.URL.Path)
		NewHTMXResponse().Status(http.StatusBadRequest).Error("Fichier trop volumineux ou requête invalide").Write(w)
		return
	}

	file, header, err := r.FormFile("signature")
	if err != nil {
		NewHTMXResponse().Status(http.StatusBadRequest).Error("Fichier de signature manquant").Write(w)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.ErrorContext(r.Context(), "Signature read error", "error", err)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur de lecture du fichier").Write(w)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	contact, err := s.contacts.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Contact load error", "error", err)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur de chargement des coordonnées").Write(w)
		return
	}

	updated, err := s.contacts.SetSignature(r.Context(), contact, data, mimeType)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedSignatureType) {
			NewHTMXResponse().Status(http.StatusUnsupportedMediaType).Error("Format d'image non pris en charge").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Signature save error", "error", err)
		NewHTMXResponse().Status(http.StatusInternalServerError).Error("Erreur d'enregistrement").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerContactSaved().
		Body([]byte(`<img id="signature-preview" class="signature-preview" src="` + updated.Signature + `" alt="Signature">`)).
		Write(w)
}

// handleExportCSV streams the period's report as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	p := parsePeriod(r, r.URL.Query())

	tt, err := s.getTimetable(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Timetable resolve error", "error", err, "month", p.Month, "year", p.Year)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	contact, err := s.contacts.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Contact load error", "error", err)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="cra-%d-%02d.csv"`, p.Year, p.Month))
	if err := export.WriteCSV(w, export.Report{Period: p, Timetable: tt, Contact: contact}); err != nil {
		slog.ErrorContext(r.Context(), "CSV export error", "error", err, "month", p.Month, "year", p.Year)
	}
}

// formatTotal renders the summed units without trailing zeros.
func formatTotal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
