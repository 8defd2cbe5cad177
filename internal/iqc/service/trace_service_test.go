package service

import (
	"context"
	"testing"

	"github.com/voltaic/iqc/internal/iqc/entity"
	"github.com/voltaic/iqc/internal/iqc/repository"
	"go.uber.org/zap"
)

// fakeTraceStore serves canned records and can hold a lookup open until
// released, to simulate a slow backend.
type fakeTraceStore struct {
	records map[string]*entity.TraceabilityRecord
	block   map[string]chan struct{}
	entered map[string]chan struct{}
}

func newFakeTraceStore() *fakeTraceStore {
	return &fakeTraceStore{
		records: make(map[string]*entity.TraceabilityRecord),
		block:   make(map[string]chan struct{}),
		entered: make(map[string]chan struct{}),
	}
}

func (s *fakeTraceStore) add(refNo string) {
	s.records[refNo] = &entity.TraceabilityRecord{
		ID:          "rec-" + refNo,
		ReferenceNo: refNo,
		PartNumber:  "PART-" + refNo,
		GRDate:      "2025-01-15",
	}
}

func (s *fakeTraceStore) FindByReference(ctx context.Context, refNo string) (*entity.TraceabilityRecord, error) {
	if ch, ok := s.entered[refNo]; ok {
		close(ch)
	}
	if ch, ok := s.block[refNo]; ok {
		<-ch
	}
	rec, ok := s.records[refNo]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec, nil
}

func (s *fakeTraceStore) ListReferences(ctx context.Context) ([]string, error) {
	refs := make([]string, 0, len(s.records))
	for ref := range s.records {
		refs = append(refs, ref)
	}
	return refs, nil
}

func TestGetTimelineNotFound(t *testing.T) {
	store := newFakeTraceStore()
	svc := NewTraceService(store, zap.NewNop())

	_, err := svc.GetTimeline(context.Background(), "RCPT-404")
	if err != repository.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, ok := svc.CurrentTimeline(); ok {
		t.Error("failed lookup published a current timeline")
	}
}

func TestGetTimelineTrimsReference(t *testing.T) {
	store := newFakeTraceStore()
	store.add("RCPT-001")
	svc := NewTraceService(store, zap.NewNop())

	tl, err := svc.GetTimeline(context.Background(), "  RCPT-001  ")
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if tl.ReferenceNo != "RCPT-001" {
		t.Errorf("reference = %q", tl.ReferenceNo)
	}
}

func TestLastQueryWins(t *testing.T) {
	store := newFakeTraceStore()
	store.add("RCPT-SLOW")
	store.add("RCPT-FAST")
	release := make(chan struct{})
	started := make(chan struct{})
	store.block["RCPT-SLOW"] = release
	store.entered["RCPT-SLOW"] = started

	svc := NewTraceService(store, zap.NewNop())

	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		svc.GetTimeline(context.Background(), "RCPT-SLOW")
	}()
	<-started

	// The fast query starts after the slow one and completes first
	if _, err := svc.GetTimeline(context.Background(), "RCPT-FAST"); err != nil {
		t.Fatalf("fast query: %v", err)
	}

	// Now the stale slow query resolves
	close(release)
	<-slowDone

	tl, ok := svc.CurrentTimeline()
	if !ok {
		t.Fatal("no current timeline")
	}
	if tl.ReferenceNo != "RCPT-FAST" {
		t.Errorf("current timeline = %q, stale query overwrote the latest", tl.ReferenceNo)
	}
}

func TestListReferencesWithoutRedis(t *testing.T) {
	store := newFakeTraceStore()
	store.add("RCPT-001")
	store.add("RCPT-002")
	svc := NewTraceService(store, zap.NewNop())

	refs, err := svc.ListReferences(context.Background())
	if err != nil {
		t.Fatalf("ListReferences: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("refs = %v, want 2 entries", refs)
	}
}
