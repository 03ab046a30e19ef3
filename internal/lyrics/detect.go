package lyrics

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DefaultLanguage lets the translation service detect the source language itself.
const DefaultLanguage = "auto"

const detectSampleLines = 10

// Detector identifies the language of lyric lines.
type Detector struct {
	// MinConfidence overrides whatlanggo's reliability check when positive.
	MinConfidence float64
}

// NewDetector creates a [Detector] using whatlanggo's reliability threshold.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the ISO 639-1 code for a sample of the first unique lines,
// or [DefaultLanguage] when the sample is empty or the guess is not reliable.
func (d *Detector) Detect(unique []string) string {
	if len(unique) > detectSampleLines {
		unique = unique[:detectSampleLines]
	}

	sample := strings.TrimSpace(strings.Join(unique, " "))
	if sample == "" {
		return DefaultLanguage
	}

	info := whatlanggo.Detect(sample)
	if d.MinConfidence > 0 {
		if info.Confidence < d.MinConfidence {
			return DefaultLanguage
		}
	} else if !info.IsReliable() {
		return DefaultLanguage
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return DefaultLanguage
	}
	return code
}

// ResolveLanguage returns override when set, otherwise the detected language of unique.
func (d *Detector) ResolveLanguage(override string, unique []string) string {
	if override = strings.TrimSpace(override); override != "" {
		return strings.ToLower(override)
	}
	return d.Detect(unique)
}
