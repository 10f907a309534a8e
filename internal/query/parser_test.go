package query

import (
	"errors"
	"reflect"
	"testing"

	"docsearch/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		terms  []string
		phrase bool
	}{
		{name: "empty", raw: "", terms: nil, phrase: false},
		{name: "whitespace only", raw: "   \t ", terms: nil, phrase: false},
		{name: "single term", raw: "invoice", terms: []string{"invoice"}, phrase: false},
		{name: "single quoted term", raw: `"invoice"`, terms: []string{"invoice"}, phrase: true},
		{name: "multi word becomes phrase", raw: "double taxation", terms: []string{"double", "taxation"}, phrase: true},
		{name: "explicit phrase", raw: `"double taxation"`, terms: []string{"double", "taxation"}, phrase: true},
		{name: "surrounding whitespace", raw: "  alpha beta  ", terms: []string{"alpha", "beta"}, phrase: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(q.Terms, tt.terms) {
				t.Errorf("terms = %v, want %v", q.Terms, tt.terms)
			}
			if q.Phrase != tt.phrase {
				t.Errorf("phrase = %v, want %v", q.Phrase, tt.phrase)
			}
			if q.Raw != tt.raw {
				t.Errorf("raw = %q, want %q", q.Raw, tt.raw)
			}
		})
	}
}

func TestParse_AutoPhraseMatchesExplicit(t *testing.T) {
	auto, err := Parse("alpha beta")
	if err != nil {
		t.Fatal(err)
	}
	explicit, err := Parse(`"alpha beta"`)
	if err != nil {
		t.Fatal(err)
	}

	if !auto.Phrase || !explicit.Phrase {
		t.Fatal("both forms should parse as phrases")
	}
	if !reflect.DeepEqual(auto.Terms, explicit.Terms) {
		t.Errorf("auto terms %v != explicit terms %v", auto.Terms, explicit.Terms)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unbalanced leading quote", raw: `"alpha beta`},
		{name: "unbalanced trailing quote", raw: `alpha beta"`},
		{name: "lone quote", raw: `"`},
		{name: "interior quote", raw: `alpha "beta gamma" delta`},
		{name: "empty phrase", raw: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if err == nil {
				t.Fatalf("expected parse error for %q", tt.raw)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestQueryEmpty(t *testing.T) {
	q, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if !q.Empty() {
		t.Error("blank input should parse to an empty query")
	}

	full := domain.Query{Terms: []string{"alpha"}}
	if full.Empty() {
		t.Error("query with terms should not be empty")
	}
}
