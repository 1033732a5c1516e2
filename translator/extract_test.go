package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		name                string
		raw                 string
		expectedQuery       string
		expectedExplanation string
	}{
		{
			name:          "bare query",
			raw:           "g.V().hasLabel('Hotel').valueMap(true).limit(10)",
			expectedQuery: "g.V().hasLabel('Hotel').valueMap(true).limit(10)",
		},
		{
			name:          "query wrapped in gremlin fence",
			raw:           "```gremlin\ng.V().hasLabel('Hotel').limit(10)\n```",
			expectedQuery: "g.V().hasLabel('Hotel').limit(10)",
		},
		{
			name:          "query wrapped in bare fence with surrounding whitespace",
			raw:           "\n```\n  g.V().hasLabel('Review').count()\n```\n",
			expectedQuery: "g.V().hasLabel('Review').count()",
		},
		{
			name:                "trailing prose becomes the explanation",
			raw:                 "g.V().hasLabel('Hotel').limit(10)\nThis lists hotels.\nCapped at ten results.",
			expectedQuery:       "g.V().hasLabel('Hotel').limit(10)",
			expectedExplanation: "This lists hotels. Capped at ten results.",
		},
		{
			name:          "leading commentary is skipped",
			raw:           "Here is the query you asked for:\ng.V().hasLabel('Hotel').limit(10)",
			expectedQuery: "g.V().hasLabel('Hotel').limit(10)",
		},
		{
			name:          "no query at all",
			raw:           "I cannot translate that request.",
			expectedQuery: "",
		},
		{
			name:          "empty output",
			raw:           "",
			expectedQuery: "",
		},
		{
			name:          "fence containing only prose",
			raw:           "```\nno query here\n```",
			expectedQuery: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, explanation := ExtractQuery(tt.raw)
			assert.Equal(t, tt.expectedQuery, query)
			assert.Equal(t, tt.expectedExplanation, explanation)
		})
	}
}
