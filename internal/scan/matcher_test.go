package scan

import "testing"

func TestSubstringMatcher(t *testing.T) {
	m := SubstringMatcher{}

	tests := []struct {
		name     string
		text     string
		resource string
		want     bool
	}{
		{"plain mention", `resource "aws_db_instance" "pagila" {}`, "pagila", true},
		{"mention inside word", "pagila_backup_bucket", "pagila", true},
		{"no mention", "chinook catalog", "pagila", false},
		{"empty resource never matches", "anything", "", false},
		{"empty text", "", "pagila", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Matches(tt.text, tt.resource); got != tt.want {
				t.Errorf("SubstringMatcher.Matches(%q, %q) = %v, want %v", tt.text, tt.resource, got, tt.want)
			}
		})
	}
}

func TestWordMatcher(t *testing.T) {
	m := WordMatcher{}

	tests := []struct {
		name     string
		text     string
		resource string
		want     bool
	}{
		{"delimited by quotes", `database = "pagila"`, "pagila", true},
		{"delimited by dot", "pagila.sql", "pagila", true},
		{"start of text", "pagila is the rental database", "pagila", true},
		{"end of text", "the database is pagila", "pagila", true},
		{"underscore joins words", "pagila_backup", "pagila", false},
		{"letter prefix joins words", "notpagila", "pagila", false},
		{"second occurrence is a word", "pagila_backup and pagila.sql", "pagila", true},
		{"resource with underscore", "monitor for postgres_air cluster", "postgres_air", true},
		{"resource with underscore embedded", "postgres_airline", "postgres_air", false},
		{"empty resource never matches", "anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Matches(tt.text, tt.resource); got != tt.want {
				t.Errorf("WordMatcher.Matches(%q, %q) = %v, want %v", tt.text, tt.resource, got, tt.want)
			}
		})
	}
}

func TestMatcherByName(t *testing.T) {
	if _, err := MatcherByName("substring"); err != nil {
		t.Errorf("MatcherByName(substring) error: %v", err)
	}
	if _, err := MatcherByName("word"); err != nil {
		t.Errorf("MatcherByName(word) error: %v", err)
	}
	if m, err := MatcherByName(""); err != nil || m == nil {
		t.Errorf("MatcherByName(\"\") = %v, %v, want default matcher", m, err)
	}
	if _, err := MatcherByName("regex"); err == nil {
		t.Error("MatcherByName(regex) = nil error, want unknown matcher error")
	}
}
