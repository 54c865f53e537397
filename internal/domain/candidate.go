package domain

import "strings"

// Candidate is a read-only snapshot of a backend record considered for
// ranking. It is fetched per request and never mutated or persisted.
type Candidate struct {
	ID              string
	Title           string
	Body            string // abstract or description
	PublicationDate string
	Keywords        []string
	URL             string
}

// Text returns the concatenated title+body used for lexical ranking.
func (c Candidate) Text() string {
	return strings.TrimSpace(c.Title + " " + c.Body)
}

// GraphRecord is a raw row returned by the graph store, before the
// "Unknown" defaults are applied.
type GraphRecord struct {
	ID               string
	Title            string
	Score            float64
	Domain           string
	KnowledgeType    string
	PublicationDate  string
	Country          string
	DataQualityScore float64
	Assignees        []string
	Authors          []string
	Keywords         []string
	Subdomains       []string
}
