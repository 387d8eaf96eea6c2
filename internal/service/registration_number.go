package service

import (
	"fmt"
	"strconv"
	"strings"
)

// RegistrationPrefix returns the per-year prefix, e.g. "REG-2024-".
func RegistrationPrefix(year int) string {
	return fmt.Sprintf("REG-%d-", year)
}

// FormatRegistrationNumber pads seq to at least three digits. The thousandth number is REG-<year>-1000.
func FormatRegistrationNumber(year, seq int) string {
	return fmt.Sprintf("%s%03d", RegistrationPrefix(year), seq)
}

// ParseRegistrationSequence extracts the numeric suffix of number when it carries prefix.
func ParseRegistrationSequence(number, prefix string) (int, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(number[len(prefix):])
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// NextRegistrationNumber derives the number following latest within year.
// An empty or unparseable latest starts the sequence at 1.
func NextRegistrationNumber(latest string, year int) string {
	seq, ok := ParseRegistrationSequence(latest, RegistrationPrefix(year))
	if !ok {
		seq = 0
	}
	return FormatRegistrationNumber(year, seq+1)
}
