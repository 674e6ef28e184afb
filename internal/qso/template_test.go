package qso

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func fullValues() map[string]string {
	return map[string]string{
		"CALL1": "W1ABC", "CALL2": "G3YWX",
		"NAME1": "BOB", "NAME2": "IAN",
		"QTH1": "BOSTON", "QTH2": "LONDON",
		"RST1": "599", "RST2": "589",
		"RIG1": "IC7300", "RIG2": "FT991A",
		"ANT1": "DIPOLE", "ANT2": "VERTICAL",
		"PWR1": "100W", "PWR2": "50W",
		"WX1": "SUNNY", "WX2": "CLOUDY",
		"TEMP1": "20C", "TEMP2": "15C",
	}
}

func TestRenderAllTiers(t *testing.T) {
	t.Parallel()

	engine := NewTemplateEngine(rand.New(rand.NewSource(3)))

	for _, verbosity := range []Verbosity{VerbosityMinimal, VerbosityMedium, VerbosityChatty} {
		template, err := engine.Render(verbosity)
		if err != nil {
			t.Fatalf("Render(%q) error: %v", verbosity, err)
		}
		if !strings.Contains(template, "{CALL1}") || !strings.Contains(template, "{CALL2}") {
			t.Errorf("Render(%q) template missing call sign placeholders", verbosity)
		}
	}
}

func TestRenderInvalidVerbosity(t *testing.T) {
	t.Parallel()

	engine := NewTemplateEngine(rand.New(rand.NewSource(3)))
	_, err := engine.Render(Verbosity("verbose"))

	var verbosityErr *InvalidVerbosityError
	if !errors.As(err, &verbosityErr) {
		t.Fatalf("Render error type = %T, want *InvalidVerbosityError", err)
	}
}

func TestSubstitute(t *testing.T) {
	t.Parallel()

	engine := NewTemplateEngine(rand.New(rand.NewSource(3)))
	template := "CQ CQ DE {CALL1} K = {CALL1} DE {CALL2} UR RST {RST2} = OP {NAME2}"

	text, err := engine.Substitute(template, fullValues())
	if err != nil {
		t.Fatalf("Substitute error: %v", err)
	}

	want := "CQ CQ DE W1ABC K = W1ABC DE G3YWX UR RST 589 = OP IAN"
	if text != want {
		t.Errorf("Substitute = %q, want %q", text, want)
	}
}

func TestSubstituteUppercasesValues(t *testing.T) {
	t.Parallel()

	engine := NewTemplateEngine(rand.New(rand.NewSource(3)))
	values := fullValues()
	values["NAME1"] = " bob "

	text, err := engine.Substitute("OP {NAME1}", values)
	if err != nil {
		t.Fatalf("Substitute error: %v", err)
	}
	if text != "OP BOB" {
		t.Errorf("Substitute = %q, want %q", text, "OP BOB")
	}
}

func TestSubstituteMissingVariables(t *testing.T) {
	t.Parallel()

	engine := NewTemplateEngine(rand.New(rand.NewSource(3)))
	values := fullValues()
	delete(values, "RST1")
	delete(values, "NAME2")

	_, err := engine.Substitute("{CALL1}", values)

	var missingErr *MissingVariableError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Substitute error type = %T, want *MissingVariableError", err)
	}
	if len(missingErr.Missing) != 2 {
		t.Fatalf("missing count = %d, want 2", len(missingErr.Missing))
	}
	// Sorted for stable error messages.
	if missingErr.Missing[0] != "NAME2" || missingErr.Missing[1] != "RST1" {
		t.Errorf("missing = %v, want [NAME2 RST1]", missingErr.Missing)
	}
}

func TestSubstituteInvalidValue(t *testing.T) {
	t.Parallel()

	engine := NewTemplateEngine(rand.New(rand.NewSource(3)))
	values := fullValues()
	values["RST1"] = "999"

	_, err := engine.Substitute("{RST1}", values)

	var valueErr *InvalidValueError
	if !errors.As(err, &valueErr) {
		t.Fatalf("Substitute error type = %T, want *InvalidValueError", err)
	}
	if valueErr.Field != "RST1" {
		t.Errorf("error field = %q, want %q", valueErr.Field, "RST1")
	}
}
