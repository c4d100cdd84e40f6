// Package redact implements the document redaction engine: pattern-based
// masking of sensitive text and region-based destructive removal of document
// content, for PDF, DOCX, and raster image inputs.
package redact

import "regexp"

// Mask is the fixed-width block glyph sequence substituted for every pattern
// match, regardless of match length.
const Mask = "█████"

// Built-in detector patterns. Compiled case-insensitively.
const (
	emailDetector = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`
	phoneDetector = `\b(?:\+?1[-.\s]?)?(?:\(?\d{3}\)?[-.\s]?)\d{3}[-.\s]?\d{4}\b`
	ssnDetector   = `\b\d{3}[- ]?\d{2}[- ]?\d{4}\b`
)

// PatternOptions selects which built-in detectors to apply, plus any
// user-supplied literal terms.
type PatternOptions struct {
	Emails      bool
	Phones      bool
	SSNs        bool
	CustomTerms []string
}

// Empty reports whether no detector or term is selected.
func (o PatternOptions) Empty() bool {
	return !o.Emails && !o.Phones && !o.SSNs && len(o.CustomTerms) == 0
}

// Compile builds the case-insensitive matchers for the selected detectors.
// Custom terms are escaped so they match literally, never as patterns.
func (o PatternOptions) Compile() []*regexp.Regexp {
	var patterns []*regexp.Regexp
	add := func(expr string) {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}
	if o.Emails {
		add(emailDetector)
	}
	if o.Phones {
		add(phoneDetector)
	}
	if o.SSNs {
		add(ssnDetector)
	}
	for _, term := range o.CustomTerms {
		if term != "" {
			add(regexp.QuoteMeta(term))
		}
	}
	return patterns
}

// ApplyPatterns replaces every match of every pattern in text with the mask.
func ApplyPatterns(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, Mask)
	}
	return text
}
