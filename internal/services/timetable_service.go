// Package services orchestrates the timetable and contact state over the
// key-value store. Every mutation persists the full record synchronously;
// there is no separate save step.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"cra/internal/amqp"
	"cra/internal/core"
	"cra/internal/storage"
)

// StepSize is the increment applied by the cell stepper.
const StepSize = 0.25

// Reset modes accepted by ResetAll.
const (
	ResetDefault = "default" // regenerate the period's defaults
	ResetFill    = "fill"    // every entry to "1"
	ResetClear   = "clear"   // every entry to "0"
)

// TimetableService resolves and mutates the per-period timetable records.
type TimetableService struct {
	kv         storage.KV
	cal        *core.Calendar
	amqpClient *amqp.Client
}

func NewTimetableService(kv storage.KV, cal *core.Calendar, amqpClient *amqp.Client) *TimetableService {
	return &TimetableService{kv: kv, cal: cal, amqpClient: amqpClient}
}

// Calendar exposes the service's calendar for rendering.
func (s *TimetableService) Calendar() *core.Calendar { return s.cal }

// Load reads the persisted record for p. A missing key and a JSON parse
// failure both report absence: corrupt state falls back to defaults
// instead of surfacing to the user.
func (s *TimetableService) Load(ctx context.Context, p core.Period) (core.Timetable, bool, error) {
	raw, ok, err := s.kv.Get(ctx, p.Key())
	if err != nil {
		return nil, false, fmt.Errorf("load timetable %s: %w", p.Key(), err)
	}
	if !ok {
		return nil, false, nil
	}
	var tt core.Timetable
	if err := json.Unmarshal([]byte(raw), &tt); err != nil {
		slog.DebugContext(ctx, "Discarding malformed timetable record", "key", p.Key(), "error", err)
		return nil, false, nil
	}
	return tt, true, nil
}

// GenerateDefault builds the default record for p: one entry per calendar
// day, weekdays "1", weekends and fixed holidays "0".
func (s *TimetableService) GenerateDefault(p core.Period) core.Timetable {
	days := s.cal.DaysOfMonth(p.Year, p.Month)
	tt := make(core.Timetable, len(days))
	for _, d := range days {
		tt[d.Format(core.DayFormat)] = s.cal.DefaultUnits(d)
	}
	return tt
}

// Resolve returns the active record for p: the persisted one when present
// and non-empty, otherwise freshly generated defaults, persisted
// immediately.
func (s *TimetableService) Resolve(ctx context.Context, p core.Period) (core.Timetable, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if tt, ok, err := s.Load(ctx, p); err != nil {
		return nil, err
	} else if ok && len(tt) > 0 {
		return tt, nil
	}

	tt := s.GenerateDefault(p)
	if err := s.save(ctx, p, tt); err != nil {
		return nil, err
	}
	return tt, nil
}

// SetEntry returns a copy of tt with the day set to the sanitized value
// and persists it under p's key.
func (s *TimetableService) SetEntry(ctx context.Context, p core.Period, tt core.Timetable, day, raw string, trim bool) (core.Timetable, error) {
	out := tt.Clone()
	out[day] = core.Sanitize(raw, trim)
	if err := s.save(ctx, p, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResetAll rewrites every entry according to mode and persists the result.
func (s *TimetableService) ResetAll(ctx context.Context, p core.Period, tt core.Timetable, mode string) (core.Timetable, error) {
	var out core.Timetable
	switch mode {
	case ResetDefault:
		out = s.GenerateDefault(p)
	case ResetFill:
		out = constantFill(tt, "1")
	case ResetClear:
		out = constantFill(tt, "0")
	default:
		return nil, fmt.Errorf("unknown reset mode %q", mode)
	}
	if err := s.save(ctx, p, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Step adjusts the day's entry by StepSize in the given direction,
// flooring at zero. A non-numeric current value is treated as zero
// before stepping. The result is persisted.
func (s *TimetableService) Step(ctx context.Context, p core.Period, tt core.Timetable, day string, up bool) (core.Timetable, error) {
	cur, err := strconv.ParseFloat(tt[day], 64)
	if err != nil {
		cur = 0
	}
	if up {
		cur += StepSize
	} else {
		cur -= StepSize
	}
	if cur < 0 {
		cur = 0
	}

	out := tt.Clone()
	out[day] = formatUnits(cur)
	if err := s.save(ctx, p, out); err != nil {
		return nil, err
	}
	return out, nil
}

// constantFill keeps the key set and rewrites every value.
func constantFill(tt core.Timetable, value string) core.Timetable {
	out := make(core.Timetable, len(tt))
	for day := range tt {
		out[day] = value
	}
	return out
}

func (s *TimetableService) save(ctx context.Context, p core.Period, tt core.Timetable) error {
	data, err := json.Marshal(tt)
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	if err := s.kv.Put(ctx, p.Key(), string(data)); err != nil {
		return fmt.Errorf("save timetable %s: %w", p.Key(), err)
	}
	s.publishSaved(ctx, p)
	return nil
}

// publishSaved notifies the export pipeline. Failures never affect the
// user-facing state; the record is already persisted.
func (s *TimetableService) publishSaved(ctx context.Context, p core.Period) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishReportSaved(ctx, p); err != nil {
		slog.ErrorContext(ctx, "Failed to publish report-saved message",
			"key", p.Key(), "error", err)
	}
}

// formatUnits renders a stepped numeric value as canonical text
// ("2" not "2.00", "0.25" as is). Stepped values stay on quarter
// multiples, so the shortest round-trip form is always exact. The
// stepper is intentionally not routed through Sanitize: its
// single-integer-digit cap applies to keyboard entry, not to values the
// application computed itself.
func formatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
