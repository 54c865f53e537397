package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
)

func TestFetchDocuments_EmptyCollectionsReturnSentinel(t *testing.T) {
	docs := &docsMock{}
	s := newTestService(docs, &graphMock{}, embedMock{}, &rankerMock{}, nil)

	results := s.fetchFromDocumentStore(context.Background(), "query", 10, domain.NewBudget(5*time.Second))

	if len(results) != 1 || !results[0].Err {
		t.Fatalf("expected a single sentinel, got %+v", results)
	}
	if results[0].ErrMessage != domain.MsgNoDocuments {
		t.Fatalf("unexpected message: %q", results[0].ErrMessage)
	}
}

func TestFetchDocuments_RepositoryErrorReturnsSentinel(t *testing.T) {
	docs := &docsMock{err: errors.New("connection refused")}
	ranker := &rankerMock{}
	s := newTestService(docs, &graphMock{}, embedMock{}, ranker, nil)

	results := s.fetchFromDocumentStore(context.Background(), "query", 10, domain.NewBudget(5*time.Second))

	if len(results) != 1 || !results[0].Err {
		t.Fatalf("expected a single sentinel, got %+v", results)
	}
	if results[0].ErrMessage != "connection refused" {
		t.Fatalf("sentinel must carry the backend error, got %q", results[0].ErrMessage)
	}
	if ranker.called {
		t.Fatal("ranker must not run after a fetch failure")
	}
}

func TestFetchDocuments_ExhaustedBudgetSkipsRanking(t *testing.T) {
	docs := &docsMock{candidates: []domain.Candidate{{ID: "1", Title: "doc"}}}
	ranker := &rankerMock{}
	s := newTestService(docs, &graphMock{}, embedMock{}, ranker, nil)

	results := s.fetchFromDocumentStore(context.Background(), "query", 10, domain.NewBudget(0))

	if len(results) != 1 || results[0].ErrMessage != domain.MsgTimeout {
		t.Fatalf("expected timeout sentinel, got %+v", results)
	}
	if ranker.called {
		t.Fatal("ranker must not run once the budget is exhausted")
	}
}

func TestFetchDocuments_RanksFetchedCandidates(t *testing.T) {
	docs := &docsMock{candidates: []domain.Candidate{{ID: "1", Title: "doc"}}}
	ranker := &rankerMock{results: []domain.RankedResult{{ID: "1", Score: 0.5, Source: domain.SourceDocumentStore}}}
	s := newTestService(docs, &graphMock{}, embedMock{}, ranker, nil)

	results := s.fetchFromDocumentStore(context.Background(), "query", 10, domain.NewBudget(5*time.Second))

	if !ranker.called || ranker.source != domain.SourceDocumentStore {
		t.Fatalf("ranker not invoked correctly: %+v", ranker)
	}
	if len(results) != 1 || results[0].ID != "1" {
		t.Fatalf("unexpected results: %+v", results)
	}
}
