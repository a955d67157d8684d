// Package normalize prepares free-form incident descriptions (informal
// Brazilian Portuguese) for extraction: whitespace and punctuation
// cleanup, relative-date and time-idiom rewriting, and bounded
// truncation. It also exposes the date/time hint extractors shared by
// the prompt builder and the regex fallback path.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Relative day words, word-boundary matched, case-insensitive.
	// Weekday-relative phrases ("sexta-feira passada") are deliberately
	// not resolved here; the model prompt handles those.
	hojeRe      = regexp.MustCompile(`(?i)\bhoje\b`)
	ontemRe     = regexp.MustCompile(`(?i)\bontem\b`)
	anteontemRe = regexp.MustCompile(`(?i)\banteontem\b`)

	timeHourMinRe = regexp.MustCompile(`\b(\d{1,2})h(\d{2})\b`)
	timeHourRe    = regexp.MustCompile(`\b(\d{1,2})h\b`)

	// Portuguese-safe allowlist: word chars, whitespace, common
	// punctuation, date/time separators and accented letters. Everything
	// else becomes a space.
	specialCharsRe = regexp.MustCompile(`[^0-9A-Za-z_\s\-.,;:!?()/áàâãéêíóôõúçÁÀÂÃÉÊÍÓÔÕÚÇ]`)

	multiDotRe      = regexp.MustCompile(`\.{2,}`)
	multiBangRe     = regexp.MustCompile(`!{2,}`)
	multiQuestionRe = regexp.MustCompile(`\?{2,}`)

	dateFullRe  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	dateShortRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2})\b`)

	clockRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// Normalizer applies the lexical preprocessing pipeline. The zero
// value is not usable; construct with NewNormalizer.
type Normalizer struct {
	maxLength     int
	normalizeText bool
	logger        *zap.Logger

	// Now supplies the current time for relative-date substitution.
	// Overridable in tests.
	Now func() time.Time
}

// NewNormalizer creates a normalizer with the given truncation budget.
func NewNormalizer(maxLength int, normalizeText bool, logger *zap.Logger) *Normalizer {
	if maxLength <= 0 {
		maxLength = 2000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		maxLength:     maxLength,
		normalizeText: normalizeText,
		logger:        logger,
		Now:           time.Now,
	}
}

// Normalize applies the full preprocessing pipeline to text.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	processed := strings.TrimSpace(text)

	if n.normalizeText {
		processed = n.normalizeWhitespace(processed)
		processed = n.normalizeDates(processed)
		processed = n.normalizeTimes(processed)
		processed = n.cleanSpecialChars(processed)
	}

	return n.truncate(processed)
}

func (n *Normalizer) normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// normalizeDates replaces relative day words with absolute DD/MM/YYYY
// dates computed from the clock. Idempotent: absolute dates contain no
// relative tokens, so a second pass is a no-op.
func (n *Normalizer) normalizeDates(text string) string {
	today := n.Now()

	text = hojeRe.ReplaceAllString(text, today.Format("02/01/2006"))
	text = ontemRe.ReplaceAllString(text, today.AddDate(0, 0, -1).Format("02/01/2006"))
	text = anteontemRe.ReplaceAllString(text, today.AddDate(0, 0, -2).Format("02/01/2006"))

	return text
}

// normalizeTimes rewrites Portuguese clock idioms: "14h30" -> "14:30",
// "14h" -> "14:00".
func (n *Normalizer) normalizeTimes(text string) string {
	text = timeHourMinRe.ReplaceAllString(text, "$1:$2")
	text = timeHourRe.ReplaceAllString(text, "$1:00")
	return text
}

func (n *Normalizer) cleanSpecialChars(text string) string {
	text = specialCharsRe.ReplaceAllString(text, " ")

	text = multiDotRe.ReplaceAllString(text, ".")
	text = multiBangRe.ReplaceAllString(text, "!")
	text = multiQuestionRe.ReplaceAllString(text, "?")

	// Stripping may have introduced new runs of spaces
	return n.normalizeWhitespace(text)
}

// truncate cuts text to the configured budget, preferring the last
// sentence boundary when it retains at least 80% of the budget.
func (n *Normalizer) truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= n.maxLength {
		return text
	}

	truncated := runes[:n.maxLength]
	lastEnd := -1
	for i, r := range truncated {
		if r == '.' || r == '!' || r == '?' {
			lastEnd = i
		}
	}

	if lastEnd > int(float64(n.maxLength)*0.8) {
		truncated = truncated[:lastEnd+1]
	}

	n.logger.Warn("description truncated",
		zap.Int("original_chars", len(runes)),
		zap.Int("truncated_chars", len(truncated)),
	)
	return string(truncated)
}

// DateHint extracts a date ("YYYY-MM-DD") from explicit DD/MM/YYYY or
// DD/MM/YY tokens, or from a relative day word. Returns "" when the
// text carries no date evidence.
func (n *Normalizer) DateHint(text string) string {
	if m := dateFullRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}
	if m := dateShortRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("20%s-%02d-%02d", m[3], month, day)
	}

	today := n.Now()
	switch {
	case hojeRe.MatchString(text):
		return today.Format("2006-01-02")
	case ontemRe.MatchString(text):
		return today.AddDate(0, 0, -1).Format("2006-01-02")
	case anteontemRe.MatchString(text):
		return today.AddDate(0, 0, -2).Format("2006-01-02")
	}

	return ""
}

// TimeHint extracts a time ("HH:MM") from HH:MM, HHhMM or HHh tokens.
// Returns "" when the text carries no time evidence.
func (n *Normalizer) TimeHint(text string) string {
	if m := clockRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hour, m[2])
	}
	if m := timeHourMinRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hour, m[2])
	}
	if m := timeHourRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:00", hour)
	}
	return ""
}
