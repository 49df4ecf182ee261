package config

import (
	"errors"
	"strings"
	"testing"
)

const decisionsFixture = `! model decisions for the reynolds test case
soilCatTbl                      ROSETTA         ! soil-category dataset
vegeParTbl                      USGS            ! vegetation category dataset
snowIncept                      lightSnow       ! choice of parameterization for canopy interception
stomResist                      BallBerry       ! choice of function for stomatal resistance

! numerical options
num_method                      itertive        ! choice of numerical method
`

func TestDecisionsRoundTrip(t *testing.T) {
	d := ParseDecisions("modelDecisions.txt", decisionsFixture)
	if got := d.Render(); got != decisionsFixture {
		t.Errorf("render of unmodified file differs from input:\ngot:\n%s\nwant:\n%s", got, decisionsFixture)
	}
}

func TestDecisionsGetSet(t *testing.T) {
	d := ParseDecisions("modelDecisions.txt", decisionsFixture)

	v, err := d.Get("snowIncept")
	if err != nil {
		t.Fatalf("Get(snowIncept): %v", err)
	}
	if v != "lightSnow" {
		t.Errorf("Get(snowIncept) = %v, want lightSnow", v)
	}

	// Every valid choice must round through set/get.
	for _, choice := range d.Choices("snowIncept") {
		if err := d.Set("snowIncept", choice); err != nil {
			t.Fatalf("Set(snowIncept, %s): %v", choice, err)
		}
		got, _ := d.Get("snowIncept")
		if got != choice {
			t.Errorf("Get after Set = %v, want %s", got, choice)
		}
	}
}

func TestDecisionsSetInvalidValue(t *testing.T) {
	d := ParseDecisions("modelDecisions.txt", decisionsFixture)

	err := d.Set("snowIncept", "heavySnow")
	var invErr *InvalidValueError
	if !errors.As(err, &invErr) {
		t.Fatalf("Set with invalid value returned %v, want InvalidValueError", err)
	}

	// The prior value must be unchanged.
	v, _ := d.Get("snowIncept")
	if v != "lightSnow" {
		t.Errorf("value after failed set = %v, want lightSnow", v)
	}
}

func TestDecisionsUnknownOption(t *testing.T) {
	d := ParseDecisions("modelDecisions.txt", decisionsFixture)

	var unknownErr *UnknownOptionError
	if _, err := d.Get("noSuchKey"); !errors.As(err, &unknownErr) {
		t.Errorf("Get(noSuchKey) = %v, want UnknownOptionError", err)
	}
	if err := d.Set("noSuchKey", "x"); !errors.As(err, &unknownErr) {
		t.Errorf("Set(noSuchKey) = %v, want UnknownOptionError", err)
	}
	if err := d.Remove("noSuchKey"); !errors.As(err, &unknownErr) {
		t.Errorf("Remove(noSuchKey) = %v, want UnknownOptionError", err)
	}
}

func TestDecisionsSetPreservesComment(t *testing.T) {
	d := ParseDecisions("modelDecisions.txt", decisionsFixture)
	if err := d.Set("vegeParTbl", "MODIFIED_IGBP_MODIS_NOAH"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	line := findLine(d.Render(), "vegeParTbl")
	if line == "" {
		t.Fatalf("rendered file lost the vegeParTbl line:\n%s", d.Render())
	}
	if !strings.Contains(line, "MODIFIED_IGBP_MODIS_NOAH") {
		t.Errorf("line %q missing new value", line)
	}
	if !strings.HasSuffix(line, "! vegetation category dataset") {
		t.Errorf("line %q lost its trailing comment", line)
	}
}

func TestDecisionsRemove(t *testing.T) {
	d := ParseDecisions("modelDecisions.txt", decisionsFixture)
	if err := d.Remove("stomResist"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	var unknownErr *UnknownOptionError
	if _, err := d.Get("stomResist"); !errors.As(err, &unknownErr) {
		t.Errorf("Get after Remove = %v, want UnknownOptionError", err)
	}
	// Entries after the removed line stay addressable.
	if v, err := d.Get("num_method"); err != nil || v != "itertive" {
		t.Errorf("Get(num_method) after Remove = %v, %v", v, err)
	}
	if err := d.Set("num_method", "non_iter"); err != nil {
		t.Errorf("Set(num_method) after Remove: %v", err)
	}
	if v, _ := d.Get("num_method"); v != "non_iter" {
		t.Errorf("num_method = %v, want non_iter", v)
	}
}

// findLine returns the first line starting with the given keyword.
func findLine(text, keyword string) string {
	for _, l := range newTextFile("", text).lines {
		if strings.HasPrefix(l, keyword) {
			return l
		}
	}
	return ""
}
