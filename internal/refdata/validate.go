package refdata

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	namePattern      = regexp.MustCompile(`^[A-Z][A-Z\s]{1,19}$`)
	qthPattern       = regexp.MustCompile(`^[A-Z][A-Z\s]{1,29}$`)
	rstPattern       = regexp.MustCompile(`^[1-5][1-9][1-9]$`)
	equipmentPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\s]{1,29}$`)
	powerPattern     = regexp.MustCompile(`^\d{1,4}W$`)
	freeformPattern  = regexp.MustCompile(`^[A-Z0-9\s\-/]{1,30}$`)
	controlChars     = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	disallowedChars  = regexp.MustCompile(`[^A-Z0-9\s\-/]`)
)

// ValidName reports whether name is a plausible operator name:
// 2-20 uppercase letters and spaces, starting with a letter.
func ValidName(name string) bool {
	return namePattern.MatchString(strings.TrimSpace(name))
}

// ValidQTH reports whether qth is a plausible location:
// 2-30 uppercase letters and spaces, starting with a letter.
func ValidQTH(qth string) bool {
	return qthPattern.MatchString(strings.TrimSpace(qth))
}

// ValidRST reports whether rst is a well-formed signal report:
// exactly three digits with readability 1-5, strength 1-9, tone 1-9.
func ValidRST(rst string) bool {
	return rstPattern.MatchString(rst)
}

// ValidEquipment reports whether equipment (rig or antenna) is 2-30
// uppercase alphanumeric characters and spaces.
func ValidEquipment(equipment string) bool {
	return equipmentPattern.MatchString(strings.TrimSpace(equipment))
}

// ValidPower reports whether power is 1-4 digits followed by W, within the
// 1-1500 watt range used by amateur stations.
func ValidPower(power string) bool {
	if !powerPattern.MatchString(power) {
		return false
	}
	watts, err := strconv.Atoi(strings.TrimSuffix(power, "W"))
	if err != nil {
		return false
	}
	return watts >= 1 && watts <= 1500
}

// ValidFreeform reports whether a free-form field (weather, temperature) is
// 1-30 characters of uppercase alphanumerics, spaces, dashes, or slashes.
func ValidFreeform(value string) bool {
	return freeformPattern.MatchString(strings.ToUpper(strings.TrimSpace(value)))
}

// SanitizeText uppercases and trims text, strips control characters and
// anything outside the Morse-friendly character set, and truncates to
// maxLength. maxLength <= 0 defaults to 100.
func SanitizeText(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = 100
	}

	text = strings.ToUpper(strings.TrimSpace(text))
	text = controlChars.ReplaceAllString(text, "")
	if len(text) > maxLength {
		text = text[:maxLength]
	}
	return disallowedChars.ReplaceAllString(text, "")
}
