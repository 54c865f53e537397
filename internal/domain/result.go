package domain

import "fmt"

// Source identifies the backend a result was retrieved from.
type Source string

// Supported retrieval sources.
const (
	SourceDocumentStore Source = "document_store"
	SourceGraphStore    Source = "graph_store"
	SourceWebSearch     Source = "web_search"
)

// Supported reports whether s is a valid primary source choice.
func (s Source) Supported() bool {
	return s == SourceDocumentStore || s == SourceGraphStore
}

// Unknown is the default for graph fields absent on a record.
const Unknown = "Unknown"

// Sentinel error messages. Callers distinguish failure classes by
// these; a deadline miss is never conflated with a backend failure.
const (
	MsgTimeout              = "timeout"
	MsgNoDocuments          = "no documents found in document store collections"
	MsgNoValidContent       = "no valid document content found"
	MsgTimeLimitApproaching = "time limit approaching, skipping graph query"
	MsgTimeLimitFallback    = "time limit exceeded, skipping fallback query"
	MsgNoGraphResults       = "no results found in graph store"
)

// RankedResult is a candidate with its similarity score and source tag,
// or a sentinel when Err is set. Callers must check Err before treating
// Title/Score as meaningful.
type RankedResult struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Score  float64 `json:"similarity_score"` // 0.0–1.0, higher = more relevant
	Source Source  `json:"source_db"`

	Err        bool   `json:"error,omitempty"`
	ErrMessage string `json:"error_message,omitempty"`

	// Document-store metadata.
	Abstract        string   `json:"abstract,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	URL             string   `json:"url,omitempty"`

	// Graph-store metadata, Unknown when absent.
	Domain        string   `json:"domain,omitempty"`
	KnowledgeType string   `json:"knowledge_type,omitempty"`
	Country       string   `json:"country,omitempty"`
	Assignees     []string `json:"assignees,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Subdomains    []string `json:"subdomains,omitempty"`

	// Auxiliary web metadata.
	Summary    string `json:"summary,omitempty"`
	SourceType string `json:"source_type,omitempty"`
}

// NewErrorResult builds a sentinel error-result for the given source.
func NewErrorResult(source Source, msg string) RankedResult {
	return RankedResult{
		ID:         "error",
		Title:      fmt.Sprintf("Error in %s: %s", source, msg),
		Score:      0.0,
		Source:     source,
		Err:        true,
		ErrMessage: msg,
	}
}

// ErrorResults wraps a single sentinel in the list shape sources return.
func ErrorResults(source Source, msg string) []RankedResult {
	return []RankedResult{NewErrorResult(source, msg)}
}

// TimeoutResults is the sentinel list substituted for a branch whose
// deadline passed before completion.
func TimeoutResults(source Source) []RankedResult {
	return ErrorResults(source, MsgTimeout)
}
