// Package websearch provides the auxiliary retrieval source. Static
// serves a fixed sample set; a live provider can replace it behind the
// same interface.
package websearch

import (
	"context"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
)

// Static returns a fixed, pre-classified result set regardless of the
// query. Useful as a stand-in until a live search provider is wired.
type Static struct {
	results []domain.RankedResult
}

// NewStatic creates the static source with the default sample set.
func NewStatic() *Static {
	return &Static{results: sampleResults()}
}

// Search returns up to topN entries of the fixed set.
func (s *Static) Search(_ context.Context, _ string, topN int) []domain.RankedResult {
	out := s.results
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	copied := make([]domain.RankedResult, len(out))
	copy(copied, out)
	return copied
}

func sampleResults() []domain.RankedResult {
	entries := []struct {
		title, url, summary string
	}{
		{
			title:   "PESTEL Analysis (Full Breakdown) | Career Principles",
			url:     "https://www.careerprinciples.com/resources/pestel-analysis-what-it-is-and-example-applications",
			summary: "The structured approach of PESTEL will make it easier for management to pinpoint specific issues that make up a larger layer of complex problems.",
		},
		{
			title:   "What Is PESTLE Analysis: Guide and Examples - Xmind Blog",
			url:     "https://xmind.app/blog/pestle-analysis/",
			summary: "PESTLE Analysis is a framework used by businesses to analyze macro-environmental factors affecting their industry, strategy, and decision-making.",
		},
		{
			title:   "PESTEL Framework: The 6 Factors of PESTEL Analysis",
			url:     "https://pestleanalysis.com/pestel-framework/",
			summary: "The PESTEL framework (political, economic, social, technological, environmental, legal) helps managers assess how external factors affect a business.",
		},
		{
			title:   "How to Conduct a PESTLE Analysis - Explained with Example",
			url:     "https://upmetrics.co/blog/pestle-analysis",
			summary: "Learn how to conduct a PESTLE analysis to stay ahead of business risks and opportunities.",
		},
		{
			title:   "PESTEL Analysis: Understanding the External Landscape - LinkedIn",
			url:     "https://www.linkedin.com/pulse/pestel-analysis-understanding-external-landscape-gopal-sharma-fvjkc/",
			summary: "Learn how to use PESTEL analysis to understand external forces shaping your strategy.",
		},
	}

	out := make([]domain.RankedResult, len(entries))
	for i, e := range entries {
		out[i] = domain.RankedResult{
			Title:      e.title,
			URL:        e.url,
			Summary:    e.summary,
			Source:     domain.SourceWebSearch,
			SourceType: "web",
		}
	}
	return out
}
