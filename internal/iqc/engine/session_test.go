package engine

import (
	"testing"
)

func newTestSession() *Session {
	return NewSession(LotInfo{
		SLNo:       1,
		PartNumber: "BEL-12345",
		MPN:        "MPN-AX45",
		BatchNo:    "BATCH-789",
		PONo:       "PO-56789",
		Vendor:     "ABC Electronics Pvt Ltd",
		TotalQty:   150,
	}, DefaultConfig())
}

func TestNewSessionDefaults(t *testing.T) {
	s := newTestSession()

	if s.SamplingPercent != 10 {
		t.Errorf("default sampling percent = %v, want 10", s.SamplingPercent)
	}
	if s.SampleQty() != 15 {
		t.Errorf("sample qty = %d, want 15", s.SampleQty())
	}
	if len(s.Rows) != 1 {
		t.Fatalf("new session has %d rows, want 1", len(s.Rows))
	}
	if s.Rows[0].SLNo != 1 {
		t.Errorf("first row slno = %d, want 1", s.Rows[0].SLNo)
	}
	if s.Hold.OnHold() {
		t.Error("new session starts on hold")
	}
}

func TestSetSamplingPercentSilentNoOp(t *testing.T) {
	s := newTestSession()

	s.SetSamplingPercent("20")
	if s.SampleQty() != 30 {
		t.Errorf("sample qty after 20%% = %d, want 30", s.SampleQty())
	}

	// Invalid and negative entries keep the previous value
	s.SetSamplingPercent("abc")
	if s.SamplingPercent != 20 {
		t.Errorf("sampling percent changed on invalid input: %v", s.SamplingPercent)
	}
	s.SetSamplingPercent("-5")
	if s.SamplingPercent != 20 {
		t.Errorf("sampling percent changed on negative input: %v", s.SamplingPercent)
	}
	if s.SampleQty() != 30 {
		t.Errorf("sample qty drifted after rejected input: %d", s.SampleQty())
	}
}

func TestAcceptedRejectedComplement(t *testing.T) {
	s := newTestSession()

	if err := s.SetAcceptedInSample("12"); err != nil {
		t.Fatalf("SetAcceptedInSample: %v", err)
	}
	rej := s.RejectedInSample()
	if rej == nil || *rej != 3 {
		t.Errorf("rejected = %v, want 3", rej)
	}

	// Clearing accepted clears rejected
	if err := s.SetAcceptedInSample(""); err != nil {
		t.Fatalf("clear accepted: %v", err)
	}
	if s.RejectedInSample() != nil {
		t.Error("rejected not cleared with accepted")
	}

	if err := s.SetAcceptedInSample("12x"); err == nil {
		t.Error("non-numeric accepted was not rejected")
	}
}

func TestCategoryResizesObservationColumns(t *testing.T) {
	s := newTestSession()

	if err := s.SetCategory("Mechanical"); err != nil {
		t.Fatalf("SetCategory: %v", err)
	}
	if got := len(s.Rows[0].Observed); got != 15 {
		t.Errorf("mechanical columns = %d, want 15", got)
	}

	if err := s.SetObserved(0, 0, "50.10"); err != nil {
		t.Fatalf("SetObserved: %v", err)
	}

	if err := s.SetCategory("Electrical"); err != nil {
		t.Fatalf("SetCategory: %v", err)
	}
	if got := len(s.Rows[0].Observed); got != 5 {
		t.Errorf("electrical columns = %d, want 5", got)
	}
	// Entered prefix survives the resize
	if s.Rows[0].Observed[0] != "50.10" {
		t.Errorf("observation lost on resize: %q", s.Rows[0].Observed[0])
	}

	if err := s.SetCategory("Chemical"); err != ErrInvalidCategory {
		t.Errorf("invalid category error = %v, want ErrInvalidCategory", err)
	}
}

func TestRowInsertDeleteRenumber(t *testing.T) {
	s := newTestSession()

	if err := s.InsertRow(1); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if err := s.InsertRow(1); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if len(s.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(s.Rows))
	}
	for i, row := range s.Rows {
		if row.SLNo != i+1 {
			t.Errorf("row %d slno = %d, want %d", i, row.SLNo, i+1)
		}
	}

	if err := s.DeleteRow(1); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if len(s.Rows) != 2 {
		t.Fatalf("rows after delete = %d, want 2", len(s.Rows))
	}
	if s.Rows[0].SLNo != 1 || s.Rows[1].SLNo != 2 {
		t.Errorf("rows not renumbered: %d, %d", s.Rows[0].SLNo, s.Rows[1].SLNo)
	}

	if err := s.DeleteRow(5); err != ErrNoSuchRow {
		t.Errorf("out of range delete error = %v, want ErrNoSuchRow", err)
	}
}

func TestDeleteLastRowIsNoOp(t *testing.T) {
	s := newTestSession()

	if err := s.DeleteRow(0); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if len(s.Rows) != 1 {
		t.Errorf("last row was deleted, rows = %d", len(s.Rows))
	}
}

func TestBasicDimensionDerivesBand(t *testing.T) {
	s := newTestSession()

	if err := s.SetBasicDimension(0, "50"); err != nil {
		t.Fatalf("SetBasicDimension: %v", err)
	}
	if s.Rows[0].Min != "49.70" || s.Rows[0].Max != "50.30" {
		t.Errorf("band = (%s, %s), want (49.70, 50.30)", s.Rows[0].Min, s.Rows[0].Max)
	}

	// Clearing the dimension clears the band
	if err := s.SetBasicDimension(0, ""); err != nil {
		t.Fatalf("clear dimension: %v", err)
	}
	if s.Rows[0].Min != "" || s.Rows[0].Max != "" {
		t.Errorf("band not cleared: (%s, %s)", s.Rows[0].Min, s.Rows[0].Max)
	}

	if err := s.SetBasicDimension(0, "50.123"); err != ErrInvalidNumber {
		t.Errorf("3-decimal input error = %v, want ErrInvalidNumber", err)
	}
}

func TestResultsAndSummary(t *testing.T) {
	s := newTestSession()
	if err := s.SetCategory("Mechanical"); err != nil {
		t.Fatalf("SetCategory: %v", err)
	}
	if err := s.SetBasicDimension(0, "50"); err != nil {
		t.Fatalf("SetBasicDimension: %v", err)
	}

	if err := s.SetObserved(0, 0, "50.30"); err != nil {
		t.Fatalf("SetObserved: %v", err)
	}
	if err := s.SetObserved(0, 1, "50.31"); err != nil {
		t.Fatalf("SetObserved: %v", err)
	}
	if err := s.SetObserved(0, 2, "49.70"); err != nil {
		t.Fatalf("SetObserved: %v", err)
	}

	results := s.Results()
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Sample != "Row 1 - Sample 1" {
		t.Errorf("sample label = %q", results[0].Sample)
	}
	if results[0].Status != ResultAccepted || results[1].Status != ResultRejected || results[2].Status != ResultAccepted {
		t.Errorf("statuses = %v, %v, %v", results[0].Status, results[1].Status, results[2].Status)
	}

	sum := s.Summarize()
	if sum.Accepted != 2 || sum.Rejected != 1 {
		t.Errorf("summary = %+v, want {2 1}", sum)
	}
}

func TestSnapshotDerivedFields(t *testing.T) {
	s := newTestSession()
	if err := s.SetAcceptedInSample("12"); err != nil {
		t.Fatalf("SetAcceptedInSample: %v", err)
	}

	view := s.Snapshot()
	if view.SampleQty != 15 {
		t.Errorf("snapshot sample qty = %d, want 15", view.SampleQty)
	}
	if view.AcceptedInSample != "12" || view.RejectedInSample != "3" {
		t.Errorf("snapshot accepted/rejected = %q/%q, want 12/3", view.AcceptedInSample, view.RejectedInSample)
	}
}
