package utils

import (
	"os"
	"strings"
	"testing"

	"geolayers/logger"

	"github.com/google/go-cmp/cmp"
)

func TestMain(m *testing.M) {
	logger.Initialize(logger.Config{LogLevel: "error"})
	os.Exit(m.Run())
}

func TestCompileFiltersInvalidPattern(t *testing.T) {
	_, err := CompileFilters([]string{"^good", "(["})
	if err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
	if got := err.Error(); !strings.Contains(got, "([") {
		t.Errorf("error should name the bad pattern, got %q", got)
	}
}

func TestFilterSetMatches(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		input    string
		want     bool
	}{
		{"anchored prefix hit", []string{"^ESRI"}, "ESRI_parcels", true},
		{"anchored prefix miss", []string{"^ESRI"}, "roads_ESRI", false},
		{"unanchored substring", []string{"temp"}, "roads_temp_2024", true},
		{"case sensitive", []string{"temp"}, "roads_TEMP_2024", false},
		{"any of several", []string{"^ESRI", "_backup$"}, "lakes_backup", true},
		{"none of several", []string{"^ESRI", "_backup$"}, "roads", false},
		{"no patterns", nil, "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := CompileFilters(tt.patterns)
			if err != nil {
				t.Fatalf("CompileFilters: %v", err)
			}
			if got := fs.Matches(tt.input); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterSetNilMatchesNothing(t *testing.T) {
	var fs *FilterSet
	if fs.Matches("roads") {
		t.Error("nil filter set should match nothing")
	}
	if fs.Len() != 0 {
		t.Errorf("nil filter set Len = %d, want 0", fs.Len())
	}
}

// Surviving names are exactly those matching no pattern.
func TestFilterSetSurvivors(t *testing.T) {
	fs, err := CompileFilters([]string{"^ESRI", "scratch"})
	if err != nil {
		t.Fatalf("CompileFilters: %v", err)
	}

	layers := []string{"roads", "ESRI_parcels", "lakes", "scratch_pad", "parcels"}
	var survivors []string
	for _, l := range layers {
		if !fs.Matches(l) {
			survivors = append(survivors, l)
		}
	}

	want := []string{"roads", "lakes", "parcels"}
	if diff := cmp.Diff(want, survivors); diff != "" {
		t.Errorf("survivors mismatch (-want +got):\n%s", diff)
	}
}
