package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"off", LevelOff, true},
		{"PHASE", LevelPhase, true},
		{"Detail", LevelDetail, true},
		{"debug", LevelDebug, true},
		{"verbose", LevelOff, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopePlugin) {
		t.Error("phase level must keep passes and drop plugins")
	}
	if !LevelDetail.ShouldEmit(ScopePlugin) || LevelDetail.ShouldEmit(ScopeFile) {
		t.Error("detail level must keep plugins and drop files")
	}
	if !LevelDebug.ShouldEmit(ScopeFile) {
		t.Error("debug level keeps everything")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	root := Begin(tr, ScopeDriver, "run", 0)
	child := Begin(tr, ScopePlugin, "plugin:Foo", root.ID())
	child.WithExtra("files", "2").End("ok")
	Begin(tr, ScopeFile, "file:Foo.cs", child.ID()).End("")
	root.End("merge")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "→ run") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[2], "  ← plugin:Foo (ok) {files=2}") {
		t.Errorf("unexpected plugin end line %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Point(tr, ScopePass, "triage", "3 records", 0)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["scope"] != "pass" || got["detail"] != "3 records" {
		t.Errorf("unexpected event %v", got)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(r, ScopeFile, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "b" || snap[2].Name != "d" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("unexpected dump %q", buf.String())
	}
}

func TestRingAtErrorLevelRecordsEverything(t *testing.T) {
	r := NewRingTracer(8, LevelError)
	Begin(r, ScopeFile, "file", 0).End("")
	if n := len(r.Snapshot()); n != 2 {
		t.Fatalf("expected 2 events, got %d", n)
	}
}

func TestDisabledTracerIsInert(t *testing.T) {
	s := Begin(Nop, ScopeDriver, "run", 0)
	if s.ID() != 0 || s.End("") != time.Duration(0) {
		t.Fatal("nop span must be inert")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff must give a disabled tracer, got %v %v", tr, err)
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatal("empty context must give Nop")
	}
	r := NewRingTracer(4, LevelPhase)
	ctx = WithTracer(ctx, r)
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if FromContext(ctx) != Tracer(r) || CurrentSpan(ctx).SpanID != 7 {
		t.Fatal("context lost tracer or span")
	}
}

func TestNewPicksFormatFromPath(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, OutputPath: "trace.ndjson"})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopePass, "parse", "", 0)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected NDJSON output, got %q", buf.String())
	}
	m, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("expected MultiTracer, got %T", tr)
	}
	if ring, ok := m.Ring(); !ok || len(ring.Snapshot()) != 1 {
		t.Error("ring must see the event too")
	}
}
