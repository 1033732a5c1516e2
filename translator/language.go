package translator

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Language is a supported input language code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageTurkish Language = "tr"
	LanguageUnknown Language = "unknown"
)

// minDetectableRunes is the shortest input we trust the detector with.
// Shorter strings produce essentially random guesses.
const minDetectableRunes = 3

// DetectLanguage classifies the input text as English, Turkish or unknown.
// Detection never fails: ambiguous, unreliable or unsupported results all
// degrade to LanguageUnknown, which downstream components treat as English.
func DetectLanguage(text string) Language {
	clean := strings.TrimSpace(text)
	if len([]rune(clean)) < minDetectableRunes {
		return LanguageUnknown
	}

	info := whatlanggo.Detect(clean)
	if !info.IsReliable() {
		// Short Turkish phrases are often flagged unreliable. Turkish-specific
		// letters are a strong enough signal on their own.
		if containsTurkishRunes(clean) {
			return LanguageTurkish
		}
		return LanguageUnknown
	}

	switch info.Lang.Iso6391() {
	case "en":
		return LanguageEnglish
	case "tr":
		return LanguageTurkish
	default:
		return LanguageUnknown
	}
}

func containsTurkishRunes(text string) bool {
	return strings.ContainsAny(text, "çÇğĞıİöÖşŞüÜ")
}
