package translator

import (
	"fmt"
	"strings"
)

// DefaultResultLimit caps query results when the caller does not request a
// specific limit.
const DefaultResultLimit = 10

// Request carries one translation request through the pipeline. Immutable
// after construction; nothing survives the request.
type Request struct {
	RawText  string
	Language Language
	Limit    int
}

// ResultLimit returns the requested limit, falling back to the default for
// zero or negative values.
func (r Request) ResultLimit() int {
	if r.Limit <= 0 {
		return DefaultResultLimit
	}
	return r.Limit
}

// ValidationRule checks one completeness property of a candidate query and
// deterministically repairs it when violated. Rules must be idempotent: a
// rule applied to an already-compliant query is a no-op, so a later rule can
// never un-repair an earlier fix.
type ValidationRule struct {
	Name    string
	Applies func(q *clauseQuery, req Request) bool
	Repair  func(q *clauseQuery, req Request)
}

// Validator applies the ordered rule list to generated candidates. Static and
// safe for concurrent use.
type Validator struct {
	rules []ValidationRule
}

// NewValidator builds the validator with the domain rule set. Rule order
// matters: traversal filters are inserted before projections so insertion
// anchors stay stable, and the result cap runs last.
func NewValidator() *Validator {
	return &Validator{
		rules: []ValidationRule{
			languageCodeRule(),
			travelerTypeRule(),
			fullProjectionRule(),
			nameSelectionRule(),
			resultCapRule(),
		},
	}
}

// ValidateAndRepair runs every rule in order against the candidate,
// re-parsing nothing: each rule re-inspects the clause list as repaired by
// its predecessors. A candidate that cannot be parsed is returned unchanged
// with ok=false so the orchestrator can route to fallback.
func (v *Validator) ValidateAndRepair(candidate string, req Request) (string, bool) {
	q, err := parseQuery(candidate)
	if err != nil {
		return candidate, false
	}
	for _, rule := range v.rules {
		if rule.Applies(q, req) {
			rule.Repair(q, req)
		}
	}
	return q.render(), true
}

// RuleNames lists the configured rules in application order.
func (v *Validator) RuleNames() []string {
	names := make([]string, len(v.rules))
	for i, r := range v.rules {
		names[i] = r.Name
	}
	return names
}

// languageCodeRule enforces that "reviews written in language X" queries
// traverse the WRITTEN_IN edge and filter on the language code attribute
// instead of free-text matching language words in review text.
func languageCodeRule() ValidationRule {
	return ValidationRule{
		Name: "language-code",
		Applies: func(q *clauseQuery, req Request) bool {
			_, ok := reviewLanguageIntent(req.RawText)
			return ok && !q.contains("WRITTEN_IN")
		},
		Repair: func(q *clauseQuery, req Request) {
			code, _ := reviewLanguageIntent(req.RawText)
			dropFreeTextLanguageSteps(q)
			step := fmt.Sprintf("where(__.out('WRITTEN_IN').has('code', '%s'))", code)
			q.insertAt(filterInsertionPoint(q), step)
		},
	}
}

// travelerTypeRule enforces that guest-category queries filter the Reviewer
// entity on its traveler_type attribute rather than searching review text for
// the category word.
func travelerTypeRule() ValidationRule {
	return ValidationRule{
		Name: "traveler-type",
		Applies: func(q *clauseQuery, req Request) bool {
			_, ok := guestCategoryIntent(req.RawText)
			return ok && !q.contains("traveler_type")
		},
		Repair: func(q *clauseQuery, req Request) {
			category, _ := guestCategoryIntent(req.RawText)
			dropFreeTextSteps(q, category)

			var step string
			switch {
			case q.contains("hasLabel('Reviewer')"):
				step = fmt.Sprintf("has('traveler_type', '%s')", category)
			case q.contains("hasLabel('Review')"):
				step = fmt.Sprintf("where(__.in('WROTE').has('traveler_type', '%s'))", category)
			default:
				step = fmt.Sprintf("where(__.out('HAS_REVIEW').in('WROTE').has('traveler_type', '%s'))", category)
			}
			q.insertAt(filterInsertionPoint(q), step)
		},
	}
}

// fullProjectionRule enforces that entity-returning queries project all
// stored attributes instead of bare vertex references.
func fullProjectionRule() ValidationRule {
	return ValidationRule{
		Name: "full-projection",
		Applies: func(q *clauseQuery, req Request) bool {
			return !q.isScalarQuery() && !q.hasTerminalProjection()
		},
		Repair: func(q *clauseQuery, req Request) {
			q.insertAt(projectionInsertionPoint(q), "valueMap(true)")
		},
	}
}

// nameSelectionRule enforces that hotel-listing queries narrow the projection
// to the hotel name after the full-property projection.
func nameSelectionRule() ValidationRule {
	return ValidationRule{
		Name: "name-selection",
		Applies: func(q *clauseQuery, req Request) bool {
			if !isHotelListingIntent(req.RawText) || q.isScalarQuery() {
				return false
			}
			if !q.contains("hasLabel('Hotel')") {
				return false
			}
			return !q.contains("'hotel_name'") && q.indexOf("valueMap") >= 0
		},
		Repair: func(q *clauseQuery, req Request) {
			q.insertAt(q.indexOf("valueMap")+1, "select('hotel_name')")
		},
	}
}

// resultCapRule enforces exactly one limit step with a value no larger than
// the requested result limit, appending one when absent.
func resultCapRule() ValidationRule {
	return ValidationRule{
		Name: "result-cap",
		Applies: func(q *clauseQuery, req Request) bool {
			idx := limitIndices(q)
			if len(idx) != 1 {
				return true
			}
			n := limitValue(q.steps[idx[0]])
			return n <= 0 || n > req.ResultLimit()
		},
		Repair: func(q *clauseQuery, req Request) {
			want := req.ResultLimit()
			idx := limitIndices(q)
			if len(idx) == 0 {
				q.insertAt(len(q.steps), fmt.Sprintf("limit(%d)", want))
				return
			}
			// Keep the last limit, clamped; drop the rest back to front so
			// indices stay valid.
			keep := idx[len(idx)-1]
			if n := limitValue(q.steps[keep]); n <= 0 || n > want {
				q.replaceAt(keep, fmt.Sprintf("limit(%d)", want))
			}
			for i := len(idx) - 2; i >= 0; i-- {
				q.removeAt(idx[i])
			}
		},
	}
}

// filterInsertionPoint picks where a traversal filter belongs: right after
// the first hasLabel step, or after g.V() when no label filter exists.
func filterInsertionPoint(q *clauseQuery) int {
	if i := q.indexOf("hasLabel"); i >= 0 {
		return i + 1
	}
	return 2
}

// projectionInsertionPoint picks where a projection belongs: before the limit
// step when present, otherwise at the end.
func projectionInsertionPoint(q *clauseQuery) int {
	if i := q.indexOf("limit"); i >= 0 {
		return i
	}
	return len(q.steps)
}

// limitIndices returns the positions of every top-level limit step.
func limitIndices(q *clauseQuery) []int {
	var idx []int
	for i, step := range q.steps {
		if stepName(step) == "limit" {
			idx = append(idx, i)
		}
	}
	return idx
}

// dropFreeTextLanguageSteps removes top-level steps that match language words
// against review text, e.g. has('language', 'English') or
// has('text', containing('Turkish')).
func dropFreeTextLanguageSteps(q *clauseQuery) {
	languageWords := []string{"english", "turkish", "german", "french", "spanish",
		"ingilizce", "türkçe", "language"}
	for i := len(q.steps) - 1; i >= 0; i-- {
		step := q.steps[i]
		if stepName(step) != "has" && stepName(step) != "where" {
			continue
		}
		arg := strings.ToLower(stepArg(step))
		if strings.Contains(arg, "'language'") {
			q.removeAt(i)
			continue
		}
		if strings.Contains(arg, "containing(") && containsAny(arg, languageWords...) {
			q.removeAt(i)
		}
	}
}

// dropFreeTextSteps removes top-level steps that free-text match the given
// category word inside review text.
func dropFreeTextSteps(q *clauseQuery, word string) {
	needle := strings.ToLower(word)
	for i := len(q.steps) - 1; i >= 0; i-- {
		step := q.steps[i]
		if stepName(step) != "has" && stepName(step) != "where" {
			continue
		}
		arg := strings.ToLower(stepArg(step))
		if strings.Contains(arg, "containing(") && strings.Contains(arg, needle) {
			q.removeAt(i)
		}
	}
}
