package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlain(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	ov, oc, od := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = ov, oc, od })
}

func TestColoredPlain(t *testing.T) {
	withPlain(t)
	tests := []string{"0.3.0", "1.2.3-rc.1+build.123", "2.0.0+meta", "dev"}
	for _, v := range tests {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() with %q = %q", v, got)
		}
	}
}

func TestLine(t *testing.T) {
	withPlain(t)
	withVersion(t, "1.0.0", "abc123", "2024-01-15")
	if got, want := Line(), "oxmerge 1.0.0 (abc123) built 2024-01-15"; got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
	withVersion(t, "1.0.0", "", "")
	if got := Line(); got != "oxmerge 1.0.0" {
		t.Errorf("Line() = %q", got)
	}
}

func TestColoredHighlights(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })
	withVersion(t, "1.2.3", "", "")
	if got := Colored(); got == "1.2.3" {
		t.Error("expected escape sequences with color enabled")
	}
}
