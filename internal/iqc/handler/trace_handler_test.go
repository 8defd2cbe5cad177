package handler

import (
	"net/http"
	"testing"

	"github.com/voltaic/iqc/internal/iqc/repository"
	"github.com/voltaic/iqc/internal/iqc/service"
	"github.com/voltaic/iqc/internal/iqc/testutil"
	"go.uber.org/zap"
)

func setupTraceTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	traceSvc := service.NewTraceService(repos.Trace, zap.NewNop())
	traceH := NewTraceHandler(traceSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/iqc")
	api.GET("/traceability", traceH.GetTimeline)
	api.GET("/reflist", traceH.ListReferences)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestGetTimelineHappyPath(t *testing.T) {
	env := setupTraceTest(t)
	testutil.SeedTestTraceRecord(t, env.DB, "RCPT-001")
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/iqc/traceability?ref_no=RCPT-001", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	steps := data["steps"].([]interface{})
	if len(steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(steps))
	}
	if data["approved"] != true {
		t.Errorf("approved = %v", data["approved"])
	}
	if data["lead_time"] != "5 Days" {
		t.Errorf("lead time = %v, want 5 Days", data["lead_time"])
	}

	last := steps[5].(map[string]interface{})
	if last["label"] != "Final Decision: Approved" {
		t.Errorf("final label = %v", last["label"])
	}
}

func TestGetTimelineUnknownReference(t *testing.T) {
	env := setupTraceTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/iqc/traceability?ref_no=RCPT-999", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["message"] != "Reference not found." {
		t.Errorf("message = %v", resp["message"])
	}
}

func TestGetTimelineMissingParam(t *testing.T) {
	env := setupTraceTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/iqc/traceability", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListReferences(t *testing.T) {
	env := setupTraceTest(t)
	testutil.SeedTestTraceRecord(t, env.DB, "RCPT-001")
	testutil.SeedTestTraceRecord(t, env.DB, "RCPT-002")
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/iqc/reflist", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	refs := data["References"].([]interface{})
	if len(refs) != 2 {
		t.Errorf("refs = %v, want 2", refs)
	}
}
