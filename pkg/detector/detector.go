// Package detector guesses the natural language of page text.
package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector wraps a lingua language detector.
type Detector struct {
	lingua lingua.LanguageDetector
}

// New builds a low-accuracy-mode detector over the given languages, or over
// every supported language when none are given. lingua needs at least two
// languages when a list is passed.
func New(languages ...lingua.Language) *Detector {
	u := lingua.NewLanguageDetectorBuilder()
	var b lingua.LanguageDetectorBuilder
	if len(languages) == 0 {
		b = u.FromAllLanguages()
	} else {
		b = u.FromLanguages(languages...)
	}
	return &Detector{lingua: b.WithLowAccuracyMode().Build()}
}

// Language returns the lowercase ISO 639-1 code for text, or "" when no
// language can be determined.
func (d *Detector) Language(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang, ok := d.lingua.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
