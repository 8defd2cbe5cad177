package repository

import (
	"context"
	"testing"
)

func TestFixtureLotsShape(t *testing.T) {
	src := NewFixtureLotSource()

	lots, total, err := src.FindAll(context.Background(), 1, 20, map[string]string{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if total != 3 || len(lots) != 3 {
		t.Fatalf("fixture lots = %d (total %d), want 3", len(lots), total)
	}

	first := lots[0]
	if first.SLNo != 1 || first.GRNo != "GR2025-001" || first.PartNumber != "BEL-12345" {
		t.Errorf("first lot = %+v", first)
	}
	if first.TotalQty != 150 || first.RefNo != "RCPT-001" {
		t.Errorf("first lot qty/ref = %d/%s", first.TotalQty, first.RefNo)
	}
	for _, lot := range lots {
		if lot.Status != "pending" {
			t.Errorf("lot %d status = %q, want pending", lot.SLNo, lot.Status)
		}
	}
}

func TestFixtureStatusFilter(t *testing.T) {
	src := NewFixtureLotSource()

	lots, total, err := src.FindAll(context.Background(), 1, 20, map[string]string{"status": "accepted"})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if total != 0 || len(lots) != 0 {
		t.Errorf("accepted fixtures = %d, want 0", len(lots))
	}
}

func TestFixturePagination(t *testing.T) {
	src := NewFixtureLotSource()

	lots, total, err := src.FindAll(context.Background(), 2, 2, map[string]string{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(lots) != 1 || lots[0].SLNo != 3 {
		t.Errorf("page 2 = %+v", lots)
	}
}

func TestFixtureFindBySLNo(t *testing.T) {
	src := NewFixtureLotSource()

	lot, err := src.FindBySLNo(context.Background(), 2)
	if err != nil {
		t.Fatalf("FindBySLNo: %v", err)
	}
	if lot.PartNumber != "BEL-54321" || lot.TotalQty != 300 {
		t.Errorf("lot 2 = %+v", lot)
	}

	if _, err := src.FindBySLNo(context.Background(), 99); err != ErrNotFound {
		t.Errorf("missing slno err = %v, want ErrNotFound", err)
	}
}
