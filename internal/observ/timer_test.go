package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("discover")
	time.Sleep(time.Millisecond)
	timer.End(idx, "2 plugins")
	timer.End(idx+5, "ignored")
	timer.End(timer.Begin("merge"), "")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "discover" || report.Phases[0].Note != "2 plugins" {
		t.Errorf("unexpected first phase %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS < 1 {
		t.Errorf("discover should take at least 1ms, got %.3f", report.Phases[0].DurationMS)
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Errorf("total %.3f below phase sum", report.TotalMS)
	}
}

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	timer.End(timer.Begin("triage"), "4 records")
	out := timer.Summary()
	if !strings.HasPrefix(out, "timings:\n  triage") {
		t.Errorf("unexpected summary %q", out)
	}
	if !strings.Contains(out, "// 4 records") || !strings.Contains(out, "  total") {
		t.Errorf("summary misses note or total: %q", out)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("empty timer must give zero report, got %+v", r)
	}
}
