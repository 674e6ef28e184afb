// Package qso generates synthetic amateur radio contact (QSO) transcripts
// from hand-authored templates and the compiled-in reference pools. A
// generated Record carries the two station profiles, the rendered exchange
// text, and the element index used as the answer key for scoring.
package qso

import (
	"fmt"
	"strings"
)

// Verbosity controls how much optional detail a generated QSO includes.
type Verbosity string

const (
	// VerbosityMinimal is a brief exchange: call signs, reports, names.
	VerbosityMinimal Verbosity = "minimal"
	// VerbosityMedium is a standard exchange including equipment.
	VerbosityMedium Verbosity = "medium"
	// VerbosityChatty is a verbose exchange with weather and rig talk.
	VerbosityChatty Verbosity = "chatty"
)

// ParseVerbosity normalizes and validates a verbosity name.
func ParseVerbosity(s string) (Verbosity, error) {
	v := Verbosity(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case VerbosityMinimal, VerbosityMedium, VerbosityChatty:
		return v, nil
	}
	return "", &InvalidVerbosityError{Verbosity: s}
}

// Valid reports whether v is one of the supported tiers.
func (v Verbosity) Valid() bool {
	switch v {
	case VerbosityMinimal, VerbosityMedium, VerbosityChatty:
		return true
	}
	return false
}

// IncludesEquipment reports whether the tier's templates carry rig,
// antenna, and power details.
func (v Verbosity) IncludesEquipment() bool {
	return v == VerbosityMedium || v == VerbosityChatty
}

// StationProfile describes one side of a QSO exchange. All fields are
// uppercase strings drawn from the reference pools.
type StationProfile struct {
	Callsign    string `json:"callsign"`
	Name        string `json:"name"`
	QTH         string `json:"qth"`
	RST         string `json:"rst"`
	Rig         string `json:"rig"`
	Antenna     string `json:"antenna"`
	Power       string `json:"power"`
	Weather     string `json:"weather"`
	Temperature string `json:"temperature"`
}

// Elements is the answer key extracted from a Record: parallel lists with
// the calling station's value first and the responding station's second.
// Equipment lists are present only when the verbosity tier includes them.
type Elements struct {
	Callsigns []string `json:"callsigns"`
	Names     []string `json:"names"`
	QTHs      []string `json:"qths"`
	RSTs      []string `json:"rsts"`
	Rigs      []string `json:"rigs,omitempty"`
	Antennas  []string `json:"antennas,omitempty"`
	Powers    []string `json:"powers,omitempty"`
}

// Record is one complete generated QSO. Records are immutable once
// generated; nothing in this package modifies a returned Record.
type Record struct {
	Calling    StationProfile `json:"calling_station"`
	Responding StationProfile `json:"responding_station"`
	Verbosity  Verbosity      `json:"verbosity"`
	Template   string         `json:"template"`
	FullText   string         `json:"full_text"`
	Elements   Elements       `json:"elements"`
}

// InvalidVerbosityError indicates an unsupported verbosity tier.
type InvalidVerbosityError struct {
	Verbosity string
}

func (e *InvalidVerbosityError) Error() string {
	return fmt.Sprintf("invalid verbosity %q (valid: minimal, medium, chatty)", e.Verbosity)
}

// InvalidCountError indicates a batch size outside [1,100].
type InvalidCountError struct {
	Count int
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid QSO count %d (must be between 1 and 100)", e.Count)
}

// MissingVariableError lists template placeholders absent from the
// substitution values.
type MissingVariableError struct {
	Missing []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing required template variables: %s", strings.Join(e.Missing, ", "))
}

// InvalidValueError names a substitution value that failed its field
// grammar. Generator-supplied values pass their validators by
// construction, so seeing this error indicates a reference data bug.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for template variable %s: %q", e.Field, e.Value)
}
