package qso

import (
	"errors"
	"strings"
	"testing"

	"github.com/yegors/qso-trainer/internal/callsign"
	"github.com/yegors/qso-trainer/internal/refdata"
	"github.com/yegors/qso-trainer/pkg/logger"
)

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(refdata.New(), seed, logger.NewNop())
}

func TestGenerateStationProfile(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(11)

	for i := 0; i < 50; i++ {
		profile, err := g.GenerateStationProfile("")
		if err != nil {
			t.Fatalf("GenerateStationProfile error: %v", err)
		}

		if !callsign.Validate(profile.Callsign) {
			t.Errorf("profile call sign %q is invalid", profile.Callsign)
		}
		if !refdata.ValidName(profile.Name) {
			t.Errorf("profile name %q is invalid", profile.Name)
		}
		if !refdata.ValidQTH(profile.QTH) {
			t.Errorf("profile QTH %q is invalid", profile.QTH)
		}
		if !refdata.ValidRST(profile.RST) {
			t.Errorf("profile RST %q is invalid", profile.RST)
		}
		if !refdata.ValidEquipment(profile.Rig) {
			t.Errorf("profile rig %q is invalid", profile.Rig)
		}
		if !refdata.ValidPower(profile.Power) {
			t.Errorf("profile power %q is invalid", profile.Power)
		}
	}
}

func TestGenerateStationProfileInvalidRegion(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(11)
	_, err := g.GenerateStationProfile("mars")

	var regionErr *callsign.InvalidRegionError
	if !errors.As(err, &regionErr) {
		t.Fatalf("error type = %T, want *callsign.InvalidRegionError", err)
	}
}

func TestGenerateQSO(t *testing.T) {
	t.Parallel()

	for _, verbosity := range []Verbosity{VerbosityMinimal, VerbosityMedium, VerbosityChatty} {
		verbosity := verbosity
		t.Run(string(verbosity), func(t *testing.T) {
			t.Parallel()

			g := newTestGenerator(17)
			for i := 0; i < 25; i++ {
				record, err := g.GenerateQSO(verbosity, "", "")
				if err != nil {
					t.Fatalf("GenerateQSO(%q) error: %v", verbosity, err)
				}

				if !strings.Contains(record.FullText, record.Calling.Callsign) {
					t.Errorf("transcript missing calling station call sign %q", record.Calling.Callsign)
				}
				if !strings.Contains(record.FullText, record.Responding.Callsign) {
					t.Errorf("transcript missing responding station call sign %q", record.Responding.Callsign)
				}
				if !strings.Contains(record.FullText, record.Calling.Name) {
					t.Errorf("transcript missing calling station name %q", record.Calling.Name)
				}
				if !strings.Contains(record.FullText, record.Responding.Name) {
					t.Errorf("transcript missing responding station name %q", record.Responding.Name)
				}
			}
		})
	}
}

func TestGenerateQSOElements(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(23)

	record, err := g.GenerateQSO(VerbosityMinimal, "us", "uk")
	if err != nil {
		t.Fatalf("GenerateQSO error: %v", err)
	}

	pairs := map[string][]string{
		"callsigns": record.Elements.Callsigns,
		"names":     record.Elements.Names,
		"qths":      record.Elements.QTHs,
		"rsts":      record.Elements.RSTs,
	}
	for field, values := range pairs {
		if len(values) != 2 {
			t.Errorf("%s has %d entries, want 2", field, len(values))
		}
	}

	// Minimal exchanges carry no equipment in the answer key.
	if record.Elements.Rigs != nil || record.Elements.Antennas != nil || record.Elements.Powers != nil {
		t.Error("minimal tier answer key includes equipment fields")
	}

	medium, err := g.GenerateQSO(VerbosityMedium, "", "")
	if err != nil {
		t.Fatalf("GenerateQSO error: %v", err)
	}
	if len(medium.Elements.Rigs) != 2 || len(medium.Elements.Antennas) != 2 || len(medium.Elements.Powers) != 2 {
		t.Error("medium tier answer key missing equipment fields")
	}
}

func TestGenerateQSOInvalidVerbosity(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(29)
	_, err := g.GenerateQSO(Verbosity("terse"), "", "")

	var verbosityErr *InvalidVerbosityError
	if !errors.As(err, &verbosityErr) {
		t.Fatalf("error type = %T, want *InvalidVerbosityError", err)
	}
}

func TestGenerateBatch(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(31)

	records, err := g.GenerateBatch(10, VerbosityMedium)
	if err != nil {
		t.Fatalf("GenerateBatch error: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("batch size = %d, want 10", len(records))
	}
}

func TestGenerateBatchInvalidCount(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(37)

	for _, count := range []int{0, -1, 101} {
		_, err := g.GenerateBatch(count, VerbosityMinimal)

		var countErr *InvalidCountError
		if !errors.As(err, &countErr) {
			t.Errorf("GenerateBatch(%d) error type = %T, want *InvalidCountError", count, err)
		}
	}
}
