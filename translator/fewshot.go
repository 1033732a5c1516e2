package translator

// FewShotExample is a worked natural-language to Gremlin translation pair
// embedded in generation prompts to steer output style.
type FewShotExample struct {
	Language Language
	Text     string
	Query    string
}

// fewShotEnglish is the curated English example set. Order matters: the
// examples are emitted into the prompt verbatim, simplest first.
var fewShotEnglish = []FewShotExample{
	{
		Language: LanguageEnglish,
		Text:     "Show the names of all hotels",
		Query:    "g.V().hasLabel('Hotel').valueMap(true).select('hotel_name').limit(10)",
	},
	{
		Language: LanguageEnglish,
		Text:     "Find all 5-star hotels in Istanbul",
		Query:    "g.V().hasLabel('Hotel').has('city', 'Istanbul').has('star_rating', 5).valueMap(true).limit(10)",
	},
	{
		Language: LanguageEnglish,
		Text:     "Show VIP guest reviews",
		Query:    "g.V().hasLabel('Reviewer').has('traveler_type', 'VIP').out('WROTE').valueMap(true).limit(10)",
	},
	{
		Language: LanguageEnglish,
		Text:     "Find hotels with poor cleanliness ratings",
		Query:    "g.V().hasLabel('Hotel').where(__.out('HAS_REVIEW').out('HAS_ANALYSIS').where(__.out('ANALYZES_ASPECT').has('name', 'cleanliness')).has('aspect_score', lt(3.0))).valueMap(true).select('hotel_name').limit(10)",
	},
	{
		Language: LanguageEnglish,
		Text:     "Show reviews written in English",
		Query:    "g.V().hasLabel('Review').where(__.out('WRITTEN_IN').has('code', 'en')).valueMap(true).limit(10)",
	},
	{
		Language: LanguageEnglish,
		Text:     "Find luxury hotels offering spa amenities",
		Query:    "g.V().hasLabel('Hotel').has('star_rating', gte(4)).where(__.out('PROVIDES').has('name', containing('spa'))).valueMap(true).limit(10)",
	},
}

// fewShotTurkish mirrors the English set with Turkish phrasing. Included
// verbatim when the detected language is Turkish.
var fewShotTurkish = []FewShotExample{
	{
		Language: LanguageTurkish,
		Text:     "Otellerin isimlerini göster",
		Query:    "g.V().hasLabel('Hotel').valueMap(true).select('hotel_name').limit(10)",
	},
	{
		Language: LanguageTurkish,
		Text:     "İstanbul'daki 5 yıldızlı otelleri bul",
		Query:    "g.V().hasLabel('Hotel').has('city', 'Istanbul').has('star_rating', 5).valueMap(true).limit(10)",
	},
	{
		Language: LanguageTurkish,
		Text:     "VIP misafirlerin yorumlarını göster",
		Query:    "g.V().hasLabel('Reviewer').has('traveler_type', 'VIP').out('WROTE').valueMap(true).limit(10)",
	},
	{
		Language: LanguageTurkish,
		Text:     "Türkçe yazılmış temizlik şikayetlerini göster",
		Query:    "g.V().hasLabel('Review').where(__.out('WRITTEN_IN').has('code', 'tr')).where(__.out('HAS_ANALYSIS').has('sentiment_score', lt(0)).where(__.out('ANALYZES_ASPECT').has('name', 'cleanliness'))).valueMap(true).limit(10)",
	},
	{
		Language: LanguageTurkish,
		Text:     "Hizmet kalitesi yüksek otellerin isimlerini listele",
		Query:    "g.V().hasLabel('Hotel').where(__.out('HAS_REVIEW').out('HAS_ANALYSIS').where(__.out('ANALYZES_ASPECT').has('name', 'service')).has('aspect_score', gte(4.0))).valueMap(true).select('hotel_name').limit(10)",
	},
	{
		Language: LanguageTurkish,
		Text:     "Konaklama türlerini göster",
		Query:    "g.V().hasLabel('AccommodationType').valueMap(true).limit(10)",
	},
}

// turkishVocabulary maps domain terms to their English schema equivalents.
// Emitted as a prompt hint block for Turkish input to compensate for the
// generator's weaker Turkish grounding. Slice of pairs so prompt output is
// byte-stable across runs.
var turkishVocabulary = []struct{ Turkish, English string }{
	{"otel", "hotel"},
	{"misafir", "guest"},
	{"oda", "room"},
	{"temizlik", "cleanliness"},
	{"şikayet", "complaint"},
	{"yorum", "review"},
	{"hizmet", "service"},
	{"bakım", "maintenance"},
	{"sorun", "problem"},
	{"göster", "show"},
	{"bul", "find"},
	{"listele", "list"},
	{"puan", "score"},
	{"yıldız", "star"},
	{"lüks", "luxury"},
	{"aile", "family"},
	{"iş", "business"},
	{"konaklama", "accommodation"},
	{"kahvaltı", "breakfast"},
	{"havuz", "pool"},
	{"manzara", "view"},
	{"şehir", "city"},
}

// FewShotExamples returns the curated example set for a language. Unknown
// languages use the English set.
func FewShotExamples(lang Language) []FewShotExample {
	if lang == LanguageTurkish {
		return fewShotTurkish
	}
	return fewShotEnglish
}
