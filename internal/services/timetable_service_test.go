package services

import (
	"context"
	"testing"

	"cra/internal/core"
	"cra/internal/storage"
)

func newTimetableService() (*TimetableService, *storage.MemoryStore) {
	kv := storage.NewMemoryStore()
	return NewTimetableService(kv, core.DefaultCalendar(), nil), kv
}

func TestGenerateDefaultLeapFebruary(t *testing.T) {
	svc, _ := newTimetableService()
	p := core.Period{Month: 2, Year: 2024}

	tt := svc.GenerateDefault(p)
	if len(tt) != 29 {
		t.Fatalf("got %d entries, want 29", len(tt))
	}
	if tt["2024-02-01"] != "1" { // Thursday
		t.Errorf("Feb 1 = %q, want 1", tt["2024-02-01"])
	}
	if tt["2024-02-03"] != "0" { // Saturday
		t.Errorf("Feb 3 = %q, want 0", tt["2024-02-03"])
	}
	days := tt.Days()
	if days[0] != "2024-02-01" || days[len(days)-1] != "2024-02-29" {
		t.Errorf("day span wrong: %s .. %s", days[0], days[len(days)-1])
	}
}

func TestResolveGeneratesAndPersists(t *testing.T) {
	svc, kv := newTimetableService()
	ctx := context.Background()
	p := core.Period{Month: 5, Year: 2024}

	tt, err := svc.Resolve(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tt) != 31 {
		t.Fatalf("may 2024 has %d entries, want 31", len(tt))
	}
	if tt["2024-05-01"] != "0" { // Labour Day
		t.Errorf("May 1 = %q, want 0", tt["2024-05-01"])
	}

	// Generation persists immediately: a second service over the same
	// store must load, not regenerate.
	if _, ok, _ := kv.Get(ctx, p.Key()); !ok {
		t.Fatal("resolve did not persist the generated record")
	}
	again, err := NewTimetableService(kv, core.DefaultCalendar(), nil).Resolve(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(tt) {
		t.Fatalf("reload mismatch: %d vs %d", len(again), len(tt))
	}
}

func TestResolveInvalidPeriod(t *testing.T) {
	svc, _ := newTimetableService()
	if _, err := svc.Resolve(context.Background(), core.Period{Month: 13, Year: 2024}); err != core.ErrInvalidMonth {
		t.Fatalf("got %v", err)
	}
}

func TestResolvePrefersPersistedRecord(t *testing.T) {
	svc, kv := newTimetableService()
	ctx := context.Background()
	p := core.Period{Month: 2, Year: 2024}

	if err := kv.Put(ctx, p.Key(), `{"2024-02-01":"0.5"}`); err != nil {
		t.Fatal(err)
	}
	tt, err := svc.Resolve(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tt) != 1 || tt["2024-02-01"] != "0.5" {
		t.Fatalf("persisted record not honored: %v", tt)
	}
}

func TestResolveFallsBackOnMalformedRecord(t *testing.T) {
	svc, kv := newTimetableService()
	ctx := context.Background()
	p := core.Period{Month: 2, Year: 2024}

	if err := kv.Put(ctx, p.Key(), `{not json`); err != nil {
		t.Fatal(err)
	}
	tt, err := svc.Resolve(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tt) != 29 {
		t.Fatalf("malformed record should regenerate defaults, got %d entries", len(tt))
	}
}

func TestSetEntrySanitizesAndPersists(t *testing.T) {
	svc, _ := newTimetableService()
	ctx := context.Background()
	p := core.Period{Month: 2, Year: 2024}

	tt, err := svc.Resolve(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	out, err := svc.SetEntry(ctx, p, tt, "2024-02-05", "3,5", false)
	if err != nil {
		t.Fatal(err)
	}
	if out["2024-02-05"] != "3.5" {
		t.Fatalf("entry = %q, want 3.5", out["2024-02-05"])
	}
	if tt["2024-02-05"] == "3.5" {
		t.Fatal("SetEntry mutated its input record")
	}
	if out["2024-02-06"] != tt["2024-02-06"] {
		t.Fatal("other entries must be unchanged")
	}

	reloaded, ok, err := svc.Load(ctx, p)
	if err != nil || !ok {
		t.Fatalf("reload: ok=%v err=%v", ok, err)
	}
	if reloaded["2024-02-05"] != "3.5" {
		t.Fatalf("reload = %q, want 3.5", reloaded["2024-02-05"])
	}
}

func TestResetAll(t *testing.T) {
	svc, _ := newTimetableService()
	ctx := context.Background()
	p := core.Period{Month: 2, Year: 2024}
	tt, _ := svc.Resolve(ctx, p)

	filled, err := svc.ResetAll(ctx, p, tt, ResetFill)
	if err != nil {
		t.Fatal(err)
	}
	if filled.Total() != 29 {
		t.Fatalf("fill total = %v, want 29", filled.Total())
	}

	cleared, err := svc.ResetAll(ctx, p, filled, ResetClear)
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Total() != 0 {
		t.Fatalf("clear total = %v, want 0", cleared.Total())
	}

	regen, err := svc.ResetAll(ctx, p, cleared, ResetDefault)
	if err != nil {
		t.Fatal(err)
	}
	if regen["2024-02-03"] != "0" || regen["2024-02-01"] != "1" {
		t.Fatalf("regenerate defaults wrong: %v", regen)
	}

	if _, err := svc.ResetAll(ctx, p, tt, "nope"); err == nil {
		t.Fatal("unknown mode must fail")
	}
}

func TestStep(t *testing.T) {
	svc, _ := newTimetableService()
	ctx := context.Background()
	p := core.Period{Month: 2, Year: 2024}
	tt := core.Timetable{"2024-02-03": "0", "2024-02-05": "garbage", "2024-02-06": "1.75"}

	out, err := svc.Step(ctx, p, tt, "2024-02-03", true)
	if err != nil {
		t.Fatal(err)
	}
	if out["2024-02-03"] != "0.25" {
		t.Fatalf("step up from 0 = %q, want 0.25", out["2024-02-03"])
	}

	out, err = svc.Step(ctx, p, out, "2024-02-03", false)
	if err != nil {
		t.Fatal(err)
	}
	if out["2024-02-03"] != "0" {
		t.Fatalf("step down to floor = %q, want 0", out["2024-02-03"])
	}

	// Floored at zero, never negative
	out, err = svc.Step(ctx, p, out, "2024-02-03", false)
	if err != nil {
		t.Fatal(err)
	}
	if out["2024-02-03"] != "0" {
		t.Fatalf("step below floor = %q, want 0", out["2024-02-03"])
	}

	// Non-numeric treated as zero before stepping
	out, err = svc.Step(ctx, p, tt, "2024-02-05", true)
	if err != nil {
		t.Fatal(err)
	}
	if out["2024-02-05"] != "0.25" {
		t.Fatalf("step from garbage = %q, want 0.25", out["2024-02-05"])
	}

	// Whole numbers render without a fraction
	out, err = svc.Step(ctx, p, tt, "2024-02-06", true)
	if err != nil {
		t.Fatal(err)
	}
	if out["2024-02-06"] != "2" {
		t.Fatalf("1.75 + 0.25 = %q, want 2", out["2024-02-06"])
	}
}
