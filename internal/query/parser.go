// Package query turns a raw user query string into a structured
// domain.Query. Parsing is a pure function of the input; the same string
// always yields the same query.
package query

import (
	"fmt"
	"strings"

	"docsearch/internal/domain"
)

// ParseError reports malformed query syntax. It is distinct from a query
// that parses fine but matches nothing.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse query %q: %s", e.Raw, e.Reason)
}

// Parse converts a raw query string into a Query.
//
// Rules:
//   - empty or whitespace-only input parses to an empty query;
//   - input wrapped in double quotes is an explicit phrase;
//   - a single bare word is a term query;
//   - several bare words are treated as a phrase, as if the user had
//     quoted them. Plain conjunctive search over independent words is
//     too noisy for the "search for this sentence" use case, so
//     multi-word input is biased toward exact-phrase intent.
//
// Unbalanced or interior quotes are a *ParseError.
func Parse(raw string) (domain.Query, error) {
	q := domain.Query{Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return q, nil
	}

	explicit := false
	if strings.HasPrefix(trimmed, `"`) || strings.HasSuffix(trimmed, `"`) {
		if len(trimmed) < 2 || !strings.HasPrefix(trimmed, `"`) || !strings.HasSuffix(trimmed, `"`) {
			return domain.Query{}, &ParseError{Raw: raw, Reason: "unbalanced quote"}
		}
		trimmed = trimmed[1 : len(trimmed)-1]
		explicit = true
	}
	if strings.Contains(trimmed, `"`) {
		return domain.Query{}, &ParseError{Raw: raw, Reason: "unexpected quote inside query"}
	}

	terms := strings.Fields(trimmed)
	if len(terms) == 0 {
		if explicit {
			return domain.Query{}, &ParseError{Raw: raw, Reason: "empty phrase"}
		}
		return q, nil
	}

	q.Terms = terms
	q.Phrase = explicit || len(terms) > 1
	return q, nil
}
