package retrieval

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
)

// docsMock scripts the document repository. A non-zero delay is a plain
// sleep, deliberately ignoring ctx, to simulate a backend that does not
// honor cancellation.
type docsMock struct {
	candidates []domain.Candidate
	err        error
	delay      time.Duration
	panicMsg   string
	calls      int
}

func (m *docsMock) FetchCandidates(_ context.Context) ([]domain.Candidate, error) {
	m.calls++
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.candidates, m.err
}

type graphMock struct {
	vectorRecords []domain.GraphRecord
	vectorErr     error
	vectorDelay   time.Duration
	vectorCalls   int

	scanRecords []domain.GraphRecord
	scanErr     error
	scanCalls   int
}

func (m *graphMock) VectorSearch(
	_ context.Context, _ []float32, _ int, _ time.Duration,
) ([]domain.GraphRecord, error) {
	m.vectorCalls++
	if m.vectorDelay > 0 {
		time.Sleep(m.vectorDelay)
	}
	return m.vectorRecords, m.vectorErr
}

func (m *graphMock) QualityScan(
	_ context.Context, _ int, _ time.Duration,
) ([]domain.GraphRecord, error) {
	m.scanCalls++
	return m.scanRecords, m.scanErr
}

type normMock struct{}

func (normMock) Normalize(text string) string { return strings.ToLower(text) }

type embedMock struct {
	vec []float32
}

func (m embedMock) Embed(_ context.Context, _ string) []float32 { return m.vec }

type rankerMock struct {
	results []domain.RankedResult
	called  bool
	source  domain.Source
}

func (m *rankerMock) Rank(
	_ string, _ []domain.Candidate, _ int, source domain.Source,
) []domain.RankedResult {
	m.called = true
	m.source = source
	return m.results
}

type auxMock struct {
	results []domain.RankedResult
	delay   time.Duration
}

func (m *auxMock) Search(_ context.Context, _ string, _ int) []domain.RankedResult {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.results
}

func newTestService(docs DocumentRepo, graph GraphRepo, embed Embedder, ranker Ranker, aux AuxSource) *Service {
	return New(docs, graph, normMock{}, embed, ranker, aux, zap.NewNop())
}

func TestRetrieve_UnsupportedSourceReturnsEmptyLists(t *testing.T) {
	docs := &docsMock{}
	s := newTestService(docs, &graphMock{}, embedMock{}, &rankerMock{}, &auxMock{})

	primary, aux := s.Retrieve(context.Background(), "query", domain.Source("vector"), 5*time.Second)

	if primary == nil || len(primary) != 0 {
		t.Fatalf("expected empty non-nil primary, got %v", primary)
	}
	if aux == nil || len(aux) != 0 {
		t.Fatalf("expected empty non-nil aux, got %v", aux)
	}
	if docs.calls != 0 {
		t.Fatal("no branch should run for an unsupported source")
	}
}

func TestRetrieve_DocumentStoreHappyPath(t *testing.T) {
	ranked := []domain.RankedResult{
		{ID: "1", Title: "Result", Score: 0.9, Source: domain.SourceDocumentStore},
	}
	webResults := []domain.RankedResult{
		{ID: "w1", Title: "Web", Source: domain.SourceWebSearch},
	}
	docs := &docsMock{candidates: []domain.Candidate{{ID: "1", Title: "Result"}}}
	ranker := &rankerMock{results: ranked}
	s := newTestService(docs, &graphMock{}, embedMock{}, ranker, &auxMock{results: webResults})

	primary, aux := s.Retrieve(context.Background(), "query", domain.SourceDocumentStore, 5*time.Second)

	if len(primary) != 1 || primary[0].ID != "1" {
		t.Fatalf("unexpected primary results: %+v", primary)
	}
	if !ranker.called || ranker.source != domain.SourceDocumentStore {
		t.Fatalf("ranker not invoked with document store tag: %+v", ranker)
	}
	if len(aux) != 1 || aux[0].ID != "w1" {
		t.Fatalf("unexpected aux results: %+v", aux)
	}
}

func TestRetrieve_SlowBranchDegradesToTimeoutSentinel(t *testing.T) {
	docs := &docsMock{delay: 3 * time.Second, candidates: []domain.Candidate{{ID: "1", Title: "late"}}}
	webResults := []domain.RankedResult{{ID: "w1", Source: domain.SourceWebSearch}}
	s := newTestService(docs, &graphMock{}, embedMock{}, &rankerMock{}, &auxMock{results: webResults})

	start := time.Now()
	primary, aux := s.Retrieve(context.Background(), "query", domain.SourceDocumentStore, 500*time.Millisecond)
	elapsed := time.Since(start)

	// Join timeout floors at one second; the call must return long
	// before the slow branch finishes.
	if elapsed >= 2500*time.Millisecond {
		t.Fatalf("call did not degrade promptly, took %v", elapsed)
	}
	if len(primary) != 1 || !primary[0].Err || primary[0].ErrMessage != domain.MsgTimeout {
		t.Fatalf("expected timeout sentinel for the slow branch, got %+v", primary)
	}
	if len(aux) != 1 || aux[0].ID != "w1" {
		t.Fatalf("completed branch must keep its real result, got %+v", aux)
	}
}

func TestRetrieve_PanickingBranchYieldsSentinelOnly(t *testing.T) {
	docs := &docsMock{panicMsg: "boom"}
	webResults := []domain.RankedResult{{ID: "w1", Source: domain.SourceWebSearch}}
	s := newTestService(docs, &graphMock{}, embedMock{}, &rankerMock{}, &auxMock{results: webResults})

	primary, aux := s.Retrieve(context.Background(), "query", domain.SourceDocumentStore, 5*time.Second)

	if len(primary) != 1 || !primary[0].Err {
		t.Fatalf("expected error sentinel after panic, got %+v", primary)
	}
	if !strings.HasPrefix(primary[0].ErrMessage, "execution failed") {
		t.Fatalf("unexpected sentinel message: %q", primary[0].ErrMessage)
	}
	if len(aux) != 1 || aux[0].Err {
		t.Fatalf("other branch must be unaffected by the panic, got %+v", aux)
	}
}

func TestRetrieve_NilAuxSourceYieldsEmptyAuxList(t *testing.T) {
	docs := &docsMock{candidates: []domain.Candidate{{ID: "1", Title: "doc"}}}
	ranker := &rankerMock{results: []domain.RankedResult{{ID: "1"}}}
	s := newTestService(docs, &graphMock{}, embedMock{}, ranker, nil)

	_, aux := s.Retrieve(context.Background(), "query", domain.SourceDocumentStore, 5*time.Second)

	if aux == nil || len(aux) != 0 {
		t.Fatalf("expected empty non-nil aux without an auxiliary source, got %v", aux)
	}
}
