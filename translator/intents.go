package translator

import "strings"

// Intent predicates shared by the repair rules and the fallback patterns.
// All of them operate on lowercased input text and are pure functions.
//
// Keyword matching is deliberately substring-based: Turkish is agglutinative,
// so "otellerin", "otelleri" and "otel" all need to hit the same bucket.

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// isHotelListingIntent reports whether the text explicitly asks for hotel
// names, the intent that triggers the name-selection repair. Queries that
// merely mention hotels keep their full projection, so the predicate requires
// a name word, not just a listing verb.
func isHotelListingIntent(text string) bool {
	t := normalizeText(text)
	if !containsAny(t, "hotel", "otel") {
		return false
	}
	return containsAny(t, "name", "isim", "ismi", "adları", "adını")
}

// reviewLanguageIntent reports whether the text asks for reviews written in a
// specific language, and which language code to filter on.
func reviewLanguageIntent(text string) (string, bool) {
	t := normalizeText(text)
	if !containsAny(t, "review", "comment", "yorum", "yazılmış", "written") {
		return "", false
	}
	switch {
	// "ngilizce" matches İngilizce regardless of how the dotted capital İ
	// lowercases.
	case containsAny(t, "english", "ngilizce"):
		return "en", true
	case containsAny(t, "turkish", "türkçe", "turkce"):
		return "tr", true
	case containsAny(t, "german", "almanca"):
		return "de", true
	case containsAny(t, "french", "fransızca"):
		return "fr", true
	case containsAny(t, "spanish", "spanyolca"):
		return "es", true
	}
	return "", false
}

// guestCategoryIntent reports whether the text references a structured guest
// category on the Reviewer entity, and which category value to filter on.
func guestCategoryIntent(text string) (string, bool) {
	t := normalizeText(text)
	if strings.Contains(t, "vip") {
		return "VIP", true
	}
	// Non-VIP categories only count when the text clearly talks about guests,
	// otherwise "business" in "business center reviews" would misfire.
	if !containsAny(t, "guest", "traveler", "misafir", "konuk") {
		return "", false
	}
	switch {
	case containsAny(t, "business", "iş seyahati"):
		return "business", true
	case containsAny(t, "family", "aile"):
		return "family", true
	case containsAny(t, "solo", "tek başına"):
		return "solo", true
	case containsAny(t, "couple", "çift"):
		return "couple", true
	}
	return "", false
}

// isServiceQualityIntent matches questions about service quality or ratings.
func isServiceQualityIntent(text string) bool {
	t := normalizeText(text)
	return containsAny(t, "service", "hizmet") &&
		containsAny(t, "quality", "good", "high", "best", "rating", "score",
			"kalite", "iyi", "yüksek", "puan")
}

// isCleanlinessIntent matches cleanliness complaints and ratings.
func isCleanlinessIntent(text string) bool {
	return containsAny(normalizeText(text), "clean", "dirty", "hygien",
		"temizlik", "temiz", "kirli", "hijyen")
}

// isMaintenanceIntent matches maintenance and room-issue questions.
func isMaintenanceIntent(text string) bool {
	t := normalizeText(text)
	return containsAny(t, "maintenance", "broken", "repair", "bakım", "arıza", "bozuk") ||
		(containsAny(t, "room", "oda") && containsAny(t, "issue", "problem", "sorun"))
}

// isAccommodationTypeIntent matches questions about room or accommodation
// types.
func isAccommodationTypeIntent(text string) bool {
	return containsAny(normalizeText(text), "accommodation", "room type", "suite",
		"konaklama", "oda tipi", "oda türü")
}

// isLowRatingIntent matches questions about poorly rated hotels or reviews.
func isLowRatingIntent(text string) bool {
	t := normalizeText(text)
	return containsAny(t, "low rating", "low rated", "low-rated", "poorly rated",
		"bad rating", "worst", "düşük puan", "kötü puan", "en kötü")
}
