package translator

import (
	"errors"
	"strconv"
	"strings"
)

// errMalformedQuery marks a candidate the repair rules cannot safely operate
// on. The orchestrator treats it as a generation failure.
var errMalformedQuery = errors.New("candidate query is malformed beyond repair")

// clauseQuery models a Gremlin traversal as an ordered list of step tokens
// instead of a raw string. Repair rules insert and replace steps on this
// structure, which keeps clause ordering and idempotence easy to enforce.
type clauseQuery struct {
	steps []string
}

// parseQuery splits a candidate traversal into top-level steps. Dots inside
// string literals or nested sub-traversals do not split. Candidates that do
// not anchor on "g." or have unbalanced parentheses or quotes are rejected.
func parseQuery(raw string) (*clauseQuery, error) {
	q := strings.TrimSpace(raw)
	if !strings.HasPrefix(q, "g.") {
		return nil, errMalformedQuery
	}

	var steps []string
	var current strings.Builder
	depth := 0
	inString := false

	for _, r := range q {
		switch {
		case inString:
			current.WriteRune(r)
			if r == '\'' {
				inString = false
			}
		case r == '\'':
			inString = true
			current.WriteRune(r)
		case r == '(':
			depth++
			current.WriteRune(r)
		case r == ')':
			depth--
			if depth < 0 {
				return nil, errMalformedQuery
			}
			current.WriteRune(r)
		case r == '.' && depth == 0:
			steps = append(steps, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		steps = append(steps, current.String())
	}
	if depth != 0 || inString || len(steps) < 2 {
		return nil, errMalformedQuery
	}
	return &clauseQuery{steps: steps}, nil
}

// render joins the steps back into traversal text.
func (c *clauseQuery) render() string {
	return strings.Join(c.steps, ".")
}

// indexOf returns the index of the first top-level step whose name matches,
// or -1. The name is the token before the opening parenthesis.
func (c *clauseQuery) indexOf(name string) int {
	for i, step := range c.steps {
		if stepName(step) == name {
			return i
		}
	}
	return -1
}

// contains reports whether the rendered query contains the given fragment
// anywhere, including inside sub-traversals.
func (c *clauseQuery) contains(fragment string) bool {
	return strings.Contains(c.render(), fragment)
}

// insertAt places a step at position i, shifting the rest right.
func (c *clauseQuery) insertAt(i int, step string) {
	if i < 0 || i >= len(c.steps) {
		c.steps = append(c.steps, step)
		return
	}
	c.steps = append(c.steps[:i], append([]string{step}, c.steps[i:]...)...)
}

// removeAt drops the step at position i.
func (c *clauseQuery) removeAt(i int) {
	if i < 0 || i >= len(c.steps) {
		return
	}
	c.steps = append(c.steps[:i], c.steps[i+1:]...)
}

// replaceAt swaps the step at position i.
func (c *clauseQuery) replaceAt(i int, step string) {
	if i >= 0 && i < len(c.steps) {
		c.steps[i] = step
	}
}

// stepName extracts the step name from a token, e.g. "limit(10)" -> "limit".
func stepName(step string) string {
	if i := strings.IndexByte(step, '('); i >= 0 {
		return step[:i]
	}
	return step
}

// stepArg extracts the raw argument text of a step token, e.g.
// "limit(10)" -> "10". Empty when the step has no parentheses.
func stepArg(step string) string {
	open := strings.IndexByte(step, '(')
	close := strings.LastIndexByte(step, ')')
	if open < 0 || close <= open {
		return ""
	}
	return step[open+1 : close]
}

// limitValue parses the numeric argument of a limit step. Returns -1 when the
// argument is not a plain integer.
func limitValue(step string) int {
	n, err := strconv.Atoi(strings.TrimSpace(stepArg(step)))
	if err != nil {
		return -1
	}
	return n
}

// terminalProjections are step names that already shape the traversal output.
// A query ending in one of these (ignoring limit) does not need a projection
// inserted.
var terminalProjections = map[string]bool{
	"valueMap":   true,
	"values":     true,
	"elementMap": true,
	"select":     true,
	"project":    true,
	"count":      true,
	"mean":       true,
	"sum":        true,
	"min":        true,
	"max":        true,
	"groupCount": true,
	"group":      true,
	"path":       true,
	"id":         true,
	"label":      true,
}

// hasTerminalProjection reports whether any top-level step already projects
// the traversal output.
func (c *clauseQuery) hasTerminalProjection() bool {
	for _, step := range c.steps {
		if terminalProjections[stepName(step)] {
			return true
		}
	}
	return false
}

// isScalarQuery reports whether the traversal returns a scalar or aggregate
// rather than entity records.
func (c *clauseQuery) isScalarQuery() bool {
	for _, step := range c.steps {
		switch stepName(step) {
		case "count", "mean", "sum", "min", "max", "groupCount", "group":
			return true
		}
	}
	return false
}
