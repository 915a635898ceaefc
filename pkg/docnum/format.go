package docnum

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSeparator is the delimiter between number components unless a
// project configures otherwise.
const DefaultSeparator = "-"

// DefaultSequenceDigits is the default zero-padding width for sequence
// numbers.
const DefaultSequenceDigits = 3

// FormatSpec describes the expected shape of a document number for
// validation.
type FormatSpec struct {
	ProjectCode    string
	Separator      string
	DisciplineCode string
	SubCode        string // optional
	SequenceDigits int
}

// Components are the parsed parts of a document number.
type Components struct {
	ProjectCode    string
	DisciplineCode string
	SubCode        string // empty if the number has no sub-code part
	Sequence       int
}

// CounterKey returns the key under which the sequence counter for a
// discipline (and optional sub-code) is stored. Sub-code counters get
// their own key and are fully independent from the bare discipline
// counter.
func CounterKey(disciplineCode, subCode, separator string) string {
	if subCode == "" {
		return disciplineCode
	}
	return disciplineCode + separator + subCode
}

// Format builds a document number from its components.
func Format(projectCode, disciplineCode, subCode string, sequence int, separator string, sequenceDigits int) string {
	if separator == "" {
		separator = DefaultSeparator
	}
	if sequenceDigits <= 0 {
		sequenceDigits = DefaultSequenceDigits
	}

	parts := []string{projectCode, disciplineCode}
	if subCode != "" {
		parts = append(parts, subCode)
	}
	parts = append(parts, fmt.Sprintf("%0*d", sequenceDigits, sequence))
	return strings.Join(parts, separator)
}

// Validate reports whether candidate matches the exact format described by
// spec: projectCode, disciplineCode, optional subCode, and a sequence part
// of exactly spec.SequenceDigits digits, joined by the separator. Pure and
// deterministic; performs no I/O.
func Validate(candidate string, spec FormatSpec) bool {
	if candidate == "" {
		return false
	}

	sep := spec.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	digits := spec.SequenceDigits
	if digits <= 0 {
		digits = DefaultSequenceDigits
	}

	prefix := spec.ProjectCode + sep + spec.DisciplineCode + sep
	if spec.SubCode != "" {
		prefix += spec.SubCode + sep
	}
	if !strings.HasPrefix(candidate, prefix) {
		return false
	}

	seqPart := candidate[len(prefix):]
	if len(seqPart) != digits {
		return false
	}
	for _, r := range seqPart {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Parse splits a document number on the separator. Exactly 3 parts means
// no sub-code, exactly 4 parts means a sub-code is present; any other
// count is invalid and returns (nil, false). The sequence part must be
// numeric.
//
// Parse does not re-validate the discipline code against a project's
// catalog; that is the caller's job if needed. Project codes containing
// the separator cannot be recovered by splitting and should be validated
// with Validate instead.
func Parse(candidate, separator string) (*Components, bool) {
	if separator == "" {
		separator = DefaultSeparator
	}
	if candidate == "" {
		return nil, false
	}

	parts := strings.Split(candidate, separator)
	if len(parts) != 3 && len(parts) != 4 {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}

	seqPart := parts[len(parts)-1]
	seq, err := strconv.Atoi(seqPart)
	if err != nil || seq < 0 {
		return nil, false
	}

	c := &Components{
		ProjectCode:    parts[0],
		DisciplineCode: parts[1],
		Sequence:       seq,
	}
	if len(parts) == 4 {
		c.SubCode = parts[2]
	}
	return c, true
}
