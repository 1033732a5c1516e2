package translator

import "strings"

// ExtractQuery pulls a single Gremlin traversal out of raw generator output.
// Generators wrap queries in markdown fences, prepend commentary or append
// prose explanations; all of that is stripped so the validator receives a
// parseable candidate. The second return value is any prose that followed the
// query, surfaced as the explanation.
//
// An empty first return value means the output contained no recognizable
// query and the caller should treat the generation as failed.
func ExtractQuery(raw string) (string, string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ""
	}

	var query string
	var explanation []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "```gremlin")
		line = strings.TrimPrefix(line, "```groovy")
		line = strings.TrimPrefix(line, "```")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if query == "" && strings.HasPrefix(line, "g.") {
			query = line
			continue
		}
		if query != "" {
			explanation = append(explanation, line)
		}
	}

	return query, strings.Join(explanation, " ")
}
